package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/media2net-app/bloemenvandegier-sub001/pkg/enums"
)

// CartRecord is the customer-scoped cart. One active record exists per
// customer; checkout marks it converted.
type CartRecord struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID    uuid.UUID        `gorm:"column:customer_id;type:uuid;not null"`
	Status        enums.CartStatus `gorm:"column:status;type:cart_status;not null;default:'active'"`
	Currency      enums.Currency   `gorm:"column:currency;not null;default:'EUR'"`
	SubtotalCents int              `gorm:"column:subtotal_cents;not null;default:0"`
	ConvertedAt   *time.Time       `gorm:"column:converted_at"`
	Items         []CartItem       `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// CartItemAddon snapshots a selected add-on on a cart line.
type CartItemAddon struct {
	AddonID    uuid.UUID `json:"addon_id"`
	Name       string    `json:"name"`
	PriceCents int       `json:"price_cents"`
}

// CartItem is one configured line. Fingerprint identifies the configuration;
// two lines with the same product but different personalization never merge.
type CartItem struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID         uuid.UUID       `gorm:"column:cart_id;type:uuid;not null;index"`
	ProductID      uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	VariantID      *uuid.UUID      `gorm:"column:variant_id;type:uuid"`
	Fingerprint    string          `gorm:"column:fingerprint;not null;index"`
	Name           string          `gorm:"column:name;not null"`
	SKU            string          `gorm:"column:sku"`
	ImageSrc       string          `gorm:"column:image_src"`
	Permalink      string          `gorm:"column:permalink"`
	UnitPriceCents int             `gorm:"column:unit_price_cents;not null"`
	Quantity       int             `gorm:"column:quantity;not null"`
	Addons         []CartItemAddon `gorm:"column:addons;type:jsonb;serializer:json"`
	CardMessage    *string         `gorm:"column:card_message"`
	RibbonText     *string         `gorm:"column:ribbon_text"`
	RibbonColor    *string         `gorm:"column:ribbon_color"`
	LineTotalCents int             `gorm:"column:line_total_cents;not null"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
