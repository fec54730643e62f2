package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/media2net-app/bloemenvandegier-sub001/pkg/db/models"
)

// ProductDTO represents the catalog product payload returned to clients.
type ProductDTO struct {
	ID                uuid.UUID         `json:"id"`
	Name              string            `json:"name"`
	Slug              string            `json:"slug"`
	SKU               string            `json:"sku"`
	Type              string            `json:"type"`
	Categories        []string          `json:"categories"`
	PriceCents        int               `json:"price_cents"`
	RegularPriceCents int               `json:"regular_price_cents"`
	SalePriceCents    *int              `json:"sale_price_cents,omitempty"`
	StockStatus       string            `json:"stock_status"`
	StockQty          int               `json:"stock_qty"`
	BaseProductID     *uuid.UUID        `json:"base_product_id,omitempty"`
	StemCount         *int              `json:"stem_count,omitempty"`
	IsActive          bool              `json:"is_active"`
	Images            []ProductImageDTO `json:"images,omitempty"`
	PricingRule       *PricingRuleDTO   `json:"pricing_rule,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// ProductImageDTO is one gallery entry.
type ProductImageDTO struct {
	Position int    `json:"position"`
	Src      string `json:"src"`
	Alt      string `json:"alt,omitempty"`
}

// PricingRuleDTO exposes the per-product pricing configuration.
type PricingRuleDTO struct {
	Kind           string `json:"kind"`
	BaseUnits      int    `json:"base_units,omitempty"`
	UnitPriceCents int    `json:"unit_price_cents,omitempty"`
	MaxPerOrder    int    `json:"max_per_order,omitempty"`
}

// AddonDTO represents an optional paid extra.
type AddonDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	PriceCents  int       `json:"price_cents"`
	Description string    `json:"description,omitempty"`
}

// PriceQuoteDTO is the computed unit price for one configured line.
type PriceQuoteDTO struct {
	ProductID      uuid.UUID  `json:"product_id"`
	VariantID      *uuid.UUID `json:"variant_id,omitempty"`
	UnitPriceCents int        `json:"unit_price_cents"`
	SurchargeCents int        `json:"surcharge_cents"`
	AddonCents     int        `json:"addon_cents"`
}

// NewProductDTO builds a DTO from the persisted model.
func NewProductDTO(product *models.Product) *ProductDTO {
	dto := &ProductDTO{
		ID:                product.ID,
		Name:              product.Name,
		Slug:              product.Slug,
		SKU:               product.SKU,
		Type:              string(product.Type),
		Categories:        append([]string{}, product.Categories...),
		PriceCents:        product.PriceCents,
		RegularPriceCents: product.RegularPriceCents,
		SalePriceCents:    product.SalePriceCents,
		StockStatus:       string(product.StockStatus),
		StockQty:          product.StockQty,
		BaseProductID:     product.BaseProductID,
		StemCount:         product.StemCount,
		IsActive:          product.IsActive,
		CreatedAt:         product.CreatedAt,
		UpdatedAt:         product.UpdatedAt,
	}

	if len(product.Images) > 0 {
		dto.Images = make([]ProductImageDTO, len(product.Images))
		for i, img := range product.Images {
			dto.Images[i] = ProductImageDTO{
				Position: img.Position,
				Src:      img.Src,
				Alt:      img.Alt,
			}
		}
	}

	if product.PricingRule != nil {
		dto.PricingRule = &PricingRuleDTO{
			Kind:           string(product.PricingRule.Kind),
			BaseUnits:      product.PricingRule.BaseUnits,
			UnitPriceCents: product.PricingRule.UnitPriceCents,
			MaxPerOrder:    product.PricingRule.MaxPerOrder,
		}
	}

	return dto
}

// NewAddonDTO maps the addon model.
func NewAddonDTO(addon *models.Addon) *AddonDTO {
	return &AddonDTO{
		ID:          addon.ID,
		Name:        addon.Name,
		PriceCents:  addon.PriceCents,
		Description: addon.Description,
	}
}
