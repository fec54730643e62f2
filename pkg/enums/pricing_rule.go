package enums

import "fmt"

// PricingRuleKind selects how a product's unit price is derived from its
// configuration. Rules are looked up by product id, never by slug matching.
type PricingRuleKind string

const (
	// PricingRuleStandard prices the line at the selected variant or base price.
	PricingRuleStandard PricingRuleKind = "standard"
	// PricingRulePerUnitSurcharge includes the first BaseUnits stems in the base
	// price and charges UnitPriceCents for every stem beyond that.
	PricingRulePerUnitSurcharge PricingRuleKind = "per_unit_surcharge"
	// PricingRuleLimitedDrop caps the quantity a single order may carry.
	PricingRuleLimitedDrop PricingRuleKind = "limited_drop"
)

var validPricingRuleKinds = []PricingRuleKind{
	PricingRuleStandard,
	PricingRulePerUnitSurcharge,
	PricingRuleLimitedDrop,
}

// String implements fmt.Stringer.
func (p PricingRuleKind) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PricingRuleKind.
func (p PricingRuleKind) IsValid() bool {
	for _, candidate := range validPricingRuleKinds {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePricingRuleKind converts raw input into a PricingRuleKind.
func ParsePricingRuleKind(value string) (PricingRuleKind, error) {
	for _, candidate := range validPricingRuleKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid pricing rule kind %q", value)
}
