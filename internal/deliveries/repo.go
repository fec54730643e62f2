package deliveries

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/media2net-app/bloemenvandegier-sub001/pkg/db/models"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/enums"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/pagination"
)

// ListFilters narrows the delivery planning list.
type ListFilters struct {
	Status   *enums.DeliveryStatus
	DateFrom *time.Time
	DateTo   *time.Time
	Insured  *bool
}

// Repository persists delivery records.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a deliveries repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) DeliveryRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new delivery.
func (r *Repository) Create(ctx context.Context, delivery *models.Delivery) error {
	return r.db.WithContext(ctx).Create(delivery).Error
}

// CreateTx inserts a new delivery inside the caller's transaction.
func (r *Repository) CreateTx(ctx context.Context, tx *gorm.DB, delivery *models.Delivery) error {
	return r.WithTx(tx).Create(ctx, delivery)
}

// FindByID loads one delivery.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Delivery, error) {
	var delivery models.Delivery
	if err := r.db.WithContext(ctx).First(&delivery, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &delivery, nil
}

// FindByOrderID loads the delivery attached to an order.
func (r *Repository) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Delivery, error) {
	var delivery models.Delivery
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		First(&delivery).Error
	if err != nil {
		return nil, err
	}
	return &delivery, nil
}

// List returns deliveries ordered by delivery date.
func (r *Repository) List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Delivery, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Delivery{})
	if filters.Status != nil {
		q = q.Where("status = ?", *filters.Status)
	}
	if filters.DateFrom != nil {
		q = q.Where("delivery_date >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		q = q.Where("delivery_date < ?", *filters.DateTo)
	}
	if filters.Insured != nil {
		q = q.Where("insured = ?", *filters.Insured)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := pagination.Describe(params, int(total))
	var rows []models.Delivery
	err := q.Order("delivery_date ASC").
		Offset((page.Page - 1) * page.PageSize).
		Limit(page.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Update saves the delivery.
func (r *Repository) Update(ctx context.Context, delivery *models.Delivery) error {
	return r.db.WithContext(ctx).Save(delivery).Error
}
