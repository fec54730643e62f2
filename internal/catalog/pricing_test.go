package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/media2net-app/bloemenvandegier-sub001/pkg/db/models"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/enums"
)

func intPtr(v int) *int { return &v }

func TestUnitPriceBasePlusAddons(t *testing.T) {
	product := &models.Product{PriceCents: 1950}
	addonLists := [][]models.Addon{
		nil,
		{{Name: "hart", PriceCents: 150}},
		{{Name: "hart", PriceCents: 150}, {Name: "lint", PriceCents: 95}, {Name: "kaartje", PriceCents: 0}},
	}

	for _, addons := range addonLists {
		sum := 0
		for _, a := range addons {
			sum += a.PriceCents
		}
		got := UnitPrice(product, nil, addons, nil)
		assert.Equal(t, product.PriceCents+sum, got)
	}
}

func TestUnitPriceVariantSubstitutesBase(t *testing.T) {
	product := &models.Product{PriceCents: 1950, StemCount: intPtr(10)}
	variant := &models.Product{PriceCents: 3495, StemCount: intPtr(20)}

	got := UnitPrice(product, variant, nil, nil)
	assert.Equal(t, 3495, got)
}

func TestSurchargeExtraUnits(t *testing.T) {
	rule := &models.PricingRule{
		Kind:           enums.PricingRulePerUnitSurcharge,
		BaseUnits:      10,
		UnitPriceCents: 100,
	}

	assert.Equal(t, 300, Surcharge(rule, 13))
	assert.Equal(t, 0, Surcharge(rule, 10))
	assert.Equal(t, 0, Surcharge(rule, 7))
	assert.Equal(t, 0, Surcharge(nil, 13))
}

func TestUnitPriceWithSurchargeRule(t *testing.T) {
	product := &models.Product{PriceCents: 2500, StemCount: intPtr(10)}
	variant := &models.Product{PriceCents: 2500, StemCount: intPtr(13)}
	rule := &models.PricingRule{
		Kind:           enums.PricingRulePerUnitSurcharge,
		BaseUnits:      10,
		UnitPriceCents: 100,
	}

	got := UnitPrice(product, variant, nil, rule)
	assert.Equal(t, 2800, got)
}

func TestValidateQuantityLimitedDrop(t *testing.T) {
	rule := &models.PricingRule{
		Kind:        enums.PricingRuleLimitedDrop,
		MaxPerOrder: 2,
	}

	require.NoError(t, ValidateQuantity(rule, 2))
	assert.Error(t, ValidateQuantity(rule, 3))
	assert.Error(t, ValidateQuantity(rule, 0))
	require.NoError(t, ValidateQuantity(nil, 99))
}
