package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/media2net-app/bloemenvandegier-sub001/pkg/enums"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/types"
)

// Delivery schedules the hand-off of an order. Insured deliveries are flagged
// for a refund when they end up failed.
type Delivery struct {
	ID            uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID       uuid.UUID            `gorm:"column:order_id;type:uuid;not null;index"`
	Status        enums.DeliveryStatus `gorm:"column:status;type:delivery_status;not null;default:'scheduled'"`
	DeliveryDate  time.Time            `gorm:"column:delivery_date;not null"`
	Address       *types.Address       `gorm:"column:address;type:jsonb;serializer:json"`
	Insured       bool                 `gorm:"column:insured;not null;default:false"`
	FailureReason *string              `gorm:"column:failure_reason"`
	RefundIssued  bool                 `gorm:"column:refund_issued;not null;default:false"`
	CreatedAt     time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
