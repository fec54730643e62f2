package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/media2net-app/bloemenvandegier-sub001/pkg/enums"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/types"
)

// Subscription is a recurring flower delivery. The cron renewal job creates
// the next order when NextDeliveryAt comes due.
type Subscription struct {
	ID             uuid.UUID                `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID     uuid.UUID                `gorm:"column:customer_id;type:uuid;not null;index"`
	ProductID      uuid.UUID                `gorm:"column:product_id;type:uuid;not null"`
	Status         enums.SubscriptionStatus `gorm:"column:status;type:subscription_status;not null;default:'active'"`
	IntervalWeeks  int                      `gorm:"column:interval_weeks;not null;default:2"`
	PriceCents     int                      `gorm:"column:price_cents;not null"`
	NextDeliveryAt time.Time                `gorm:"column:next_delivery_at;not null;index"`
	Address        *types.Address           `gorm:"column:address;type:jsonb;serializer:json"`
	CanceledAt     *time.Time               `gorm:"column:canceled_at"`
	CreatedAt      time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}
