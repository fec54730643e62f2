package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/media2net-app/bloemenvandegier-sub001/pkg/enums"
)

// Product represents a catalog listing. Variants are sibling rows sharing a
// BaseProductID at a different stem count and price point.
type Product struct {
	ID                uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name              string            `gorm:"column:name;not null"`
	Slug              string            `gorm:"column:slug;not null;uniqueIndex"`
	SKU               string            `gorm:"column:sku;not null"`
	Type              enums.ProductType `gorm:"column:type;type:product_type;not null"`
	Categories        pq.StringArray    `gorm:"column:categories;type:text[]"`
	PriceCents        int               `gorm:"column:price_cents;not null"`
	RegularPriceCents int               `gorm:"column:regular_price_cents;not null"`
	SalePriceCents    *int              `gorm:"column:sale_price_cents"`
	StockStatus       enums.StockStatus `gorm:"column:stock_status;type:stock_status;not null;default:'in_stock'"`
	StockQty          int               `gorm:"column:stock_qty;not null;default:0"`
	BaseProductID     *uuid.UUID        `gorm:"column:base_product_id;type:uuid"`
	StemCount         *int              `gorm:"column:stem_count"`
	IsActive          bool              `gorm:"column:is_active;not null;default:true"`
	Images            []ProductImage    `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	PricingRule       *PricingRule      `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// ProductImage is one entry of a product's ordered gallery.
type ProductImage struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Position  int       `gorm:"column:position;not null;default:0"`
	Src       string    `gorm:"column:src;not null"`
	Alt       string    `gorm:"column:alt"`
}

// PricingRule is the per-product pricing configuration looked up by product
// id. Exactly one rule row exists per product that deviates from standard
// pricing; products without a row price at the plain variant/base price.
type PricingRule struct {
	ID             uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID      uuid.UUID             `gorm:"column:product_id;type:uuid;not null;uniqueIndex"`
	Kind           enums.PricingRuleKind `gorm:"column:kind;type:pricing_rule_kind;not null"`
	BaseUnits      int                   `gorm:"column:base_units;not null;default:0"`
	UnitPriceCents int                   `gorm:"column:unit_price_cents;not null;default:0"`
	MaxPerOrder    int                   `gorm:"column:max_per_order;not null;default:0"`
}

// Addon is an optional paid extra attached to a cart line.
type Addon struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string    `gorm:"column:name;not null"`
	PriceCents  int       `gorm:"column:price_cents;not null"`
	Description string    `gorm:"column:description"`
	IsActive    bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}
