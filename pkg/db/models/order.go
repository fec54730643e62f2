package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/media2net-app/bloemenvandegier-sub001/pkg/enums"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/types"
)

// Order is a placed, priced order. Line items snapshot the cart at the moment
// of checkout so later catalog changes never alter past orders.
type Order struct {
	ID                uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Number            string            `gorm:"column:number;not null;uniqueIndex"`
	CustomerID        uuid.UUID         `gorm:"column:customer_id;type:uuid;not null;index"`
	Status            enums.OrderStatus `gorm:"column:status;type:order_status;not null;default:'pending'"`
	Currency          enums.Currency    `gorm:"column:currency;not null;default:'EUR'"`
	Country           string            `gorm:"column:country;not null;default:'NL'"`
	SubtotalCents     int               `gorm:"column:subtotal_cents;not null"`
	DeliveryFeeCents  int               `gorm:"column:delivery_fee_cents;not null"`
	InsuredDelivery   bool              `gorm:"column:insured_delivery;not null;default:false"`
	InsuranceFeeCents int               `gorm:"column:insurance_fee_cents;not null;default:0"`
	TotalCents        int               `gorm:"column:total_cents;not null"`
	ShippingAddress   *types.Address    `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	PlacedAt          time.Time         `gorm:"column:placed_at;not null"`
	Items             []OrderLineItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderLineItem is a priced snapshot of one cart line.
type OrderLineItem struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID      uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	Name           string          `gorm:"column:name;not null"`
	SKU            string          `gorm:"column:sku"`
	UnitPriceCents int             `gorm:"column:unit_price_cents;not null"`
	Quantity       int             `gorm:"column:quantity;not null"`
	Addons         []CartItemAddon `gorm:"column:addons;type:jsonb;serializer:json"`
	CardMessage    *string         `gorm:"column:card_message"`
	RibbonText     *string         `gorm:"column:ribbon_text"`
	RibbonColor    *string         `gorm:"column:ribbon_color"`
	TotalCents     int             `gorm:"column:total_cents;not null"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
}
