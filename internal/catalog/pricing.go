package catalog

import (
	pkgerrors "github.com/media2net-app/bloemenvandegier-sub001/pkg/errors"

	"github.com/media2net-app/bloemenvandegier-sub001/pkg/db/models"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/enums"
)

// Surcharge returns the extra-unit charge in cents for the given rule and
// unit count. Only per-unit surcharge rules price units above the included
// base; every other rule kind charges nothing here.
func Surcharge(rule *models.PricingRule, units int) int {
	if rule == nil || rule.Kind != enums.PricingRulePerUnitSurcharge {
		return 0
	}
	if units <= rule.BaseUnits {
		return 0
	}
	return (units - rule.BaseUnits) * rule.UnitPriceCents
}

// ValidateQuantity enforces per-order caps for limited drops. Standard and
// surcharge rules accept any positive quantity.
func ValidateQuantity(rule *models.PricingRule, quantity int) error {
	if quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if rule == nil || rule.Kind != enums.PricingRuleLimitedDrop {
		return nil
	}
	if rule.MaxPerOrder > 0 && quantity > rule.MaxPerOrder {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity exceeds the per-order limit for this product")
	}
	return nil
}

// UnitPrice computes the priced unit for a configured line: the variant price
// when a variant is selected, otherwise the base product price, plus the sum
// of addon prices and any extra-unit surcharge.
func UnitPrice(product *models.Product, variant *models.Product, addons []models.Addon, rule *models.PricingRule) int {
	price := product.PriceCents
	units := 0
	if product.StemCount != nil {
		units = *product.StemCount
	}
	if variant != nil {
		price = variant.PriceCents
		if variant.StemCount != nil {
			units = *variant.StemCount
		}
	}

	for _, addon := range addons {
		price += addon.PriceCents
	}

	return price + Surcharge(rule, units)
}
