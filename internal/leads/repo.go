package leads

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/media2net-app/bloemenvandegier-sub001/pkg/db/models"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/enums"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/pagination"
)

// ListFilters narrows the sales pipeline list.
type ListFilters struct {
	Status *enums.LeadStatus
	Query  string
	Source string
}

// Repository persists sales leads.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a leads repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) LeadRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new lead.
func (r *Repository) Create(ctx context.Context, lead *models.Lead) error {
	return r.db.WithContext(ctx).Create(lead).Error
}

// FindByID loads one lead.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	var lead models.Lead
	if err := r.db.WithContext(ctx).First(&lead, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &lead, nil
}

// List returns leads newest first.
func (r *Repository) List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Lead, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Lead{})
	if filters.Status != nil {
		q = q.Where("status = ?", *filters.Status)
	}
	if filters.Source != "" {
		q = q.Where("source = ?", filters.Source)
	}
	if query := strings.TrimSpace(filters.Query); query != "" {
		pattern := "%" + query + "%"
		q = q.Where("company_name ILIKE ? OR contact_name ILIKE ? OR email ILIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := pagination.Describe(params, int(total))
	var rows []models.Lead
	err := q.Order("created_at DESC").
		Offset((page.Page - 1) * page.PageSize).
		Limit(page.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ListStale returns non-terminal leads untouched since the cutoff.
func (r *Repository) ListStale(ctx context.Context, cutoff time.Time) ([]models.Lead, error) {
	var rows []models.Lead
	err := r.db.WithContext(ctx).
		Where("status IN ?", []enums.LeadStatus{enums.LeadStatusNew, enums.LeadStatusContacted}).
		Where("updated_at < ?", cutoff).
		Order("updated_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Update saves the lead.
func (r *Repository) Update(ctx context.Context, lead *models.Lead) error {
	return r.db.WithContext(ctx).Save(lead).Error
}

// Delete removes the lead.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Lead{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
