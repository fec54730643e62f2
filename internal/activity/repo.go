package activity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/media2net-app/bloemenvandegier-sub001/internal/repo"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/db/models"
)

// Repository persists append-only activity log entries.
type Repository struct {
	repo.Base
}

// NewRepository constructs an activity repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: r.Rebind(tx)}
}

// Create appends one log entry. Entries are never updated afterwards.
func (r *Repository) Create(ctx context.Context, item *models.ActivityItem) error {
	return r.DB(ctx).Create(item).Error
}

// ListFilters narrows the activity feed.
type ListFilters struct {
	EntityType string
	EntityID   *uuid.UUID
	Since      *time.Time
}

// List returns entries newest first, capped at limit.
func (r *Repository) List(ctx context.Context, filters ListFilters, limit int) ([]models.ActivityItem, error) {
	q := r.DB(ctx).Model(&models.ActivityItem{})
	if filters.EntityType != "" {
		q = q.Where("entity_type = ?", filters.EntityType)
	}
	if filters.EntityID != nil {
		q = q.Where("entity_id = ?", *filters.EntityID)
	}
	if filters.Since != nil {
		q = q.Where("created_at >= ?", *filters.Since)
	}
	if limit <= 0 {
		limit = 50
	}

	var rows []models.ActivityItem
	if err := q.Order("created_at DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// DeleteOlderThan removes entries created before the cutoff and reports how
// many rows were dropped.
func (r *Repository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.DB(ctx).
		Where("created_at < ?", cutoff).
		Delete(&models.ActivityItem{})
	return res.RowsAffected, res.Error
}
