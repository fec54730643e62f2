package subscriptions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/media2net-app/bloemenvandegier-sub001/pkg/db/models"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/enums"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/pagination"
)

// ListFilters narrows the subscription list.
type ListFilters struct {
	Status     *enums.SubscriptionStatus
	CustomerID *uuid.UUID
}

// Repository persists recurring delivery subscriptions.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a subscriptions repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) SubscriptionRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new subscription.
func (r *Repository) Create(ctx context.Context, sub *models.Subscription) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

// FindByID loads one subscription.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
	var sub models.Subscription
	if err := r.db.WithContext(ctx).First(&sub, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// List returns subscriptions newest first.
func (r *Repository) List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Subscription, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Subscription{})
	if filters.Status != nil {
		q = q.Where("status = ?", *filters.Status)
	}
	if filters.CustomerID != nil {
		q = q.Where("customer_id = ?", *filters.CustomerID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := pagination.Describe(params, int(total))
	var rows []models.Subscription
	err := q.Order("created_at DESC").
		Offset((page.Page - 1) * page.PageSize).
		Limit(page.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ListDue returns active subscriptions whose next delivery is due.
func (r *Repository) ListDue(ctx context.Context, cutoff time.Time) ([]models.Subscription, error) {
	var rows []models.Subscription
	err := r.db.WithContext(ctx).
		Where("status = ? AND next_delivery_at <= ?", enums.SubscriptionStatusActive, cutoff).
		Order("next_delivery_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Update saves the subscription.
func (r *Repository) Update(ctx context.Context, sub *models.Subscription) error {
	return r.db.WithContext(ctx).Save(sub).Error
}
