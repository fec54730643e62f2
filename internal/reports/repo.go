package reports

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/media2net-app/bloemenvandegier-sub001/internal/repo"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/db/models"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/enums"
)

// RevenueFilters narrows the revenue aggregation. Country is an ISO 3166-1
// alpha-2 code; empty means all countries.
type RevenueFilters struct {
	Country    string
	PlacedFrom *time.Time
	PlacedTo   *time.Time
}

// RevenueRow is one per-country aggregate. Canceled orders never count.
type RevenueRow struct {
	Country      string
	OrderCount   int64
	RevenueCents int64
}

// Repository runs report aggregations against the orders table.
type Repository struct {
	repo.Base
}

// NewRepository constructs a reports repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// RevenueRows aggregates order count and revenue per country.
func (r *Repository) RevenueRows(ctx context.Context, filters RevenueFilters) ([]RevenueRow, error) {
	q := r.DB(ctx).Model(&models.Order{}).
		Select("country, COUNT(*) AS order_count, COALESCE(SUM(total_cents), 0) AS revenue_cents").
		Where("status <> ?", enums.OrderStatusCanceled)

	if filters.Country != "" {
		q = q.Where("country = ?", filters.Country)
	}
	if filters.PlacedFrom != nil {
		q = q.Where("placed_at >= ?", *filters.PlacedFrom)
	}
	if filters.PlacedTo != nil {
		q = q.Where("placed_at < ?", *filters.PlacedTo)
	}

	var rows []RevenueRow
	err := q.Group("country").Order("revenue_cents DESC").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
