package checkout

import (
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/config"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/db/models"
)

// Totals is the computed price breakdown of one checkout.
type Totals struct {
	SubtotalCents     int
	DeliveryFeeCents  int
	InsuranceFeeCents int
	TotalCents        int
}

// ComputeTotals sums the cart lines and applies the flat delivery fee plus
// the optional insurance fee.
func ComputeTotals(items []models.CartItem, cfg config.CheckoutConfig, insured bool) Totals {
	subtotal := 0
	for i := range items {
		subtotal += items[i].UnitPriceCents * items[i].Quantity
	}

	totals := Totals{
		SubtotalCents:    subtotal,
		DeliveryFeeCents: cfg.DeliveryFeeCents,
	}
	if insured {
		totals.InsuranceFeeCents = cfg.InsuranceFeeCents
	}
	totals.TotalCents = totals.SubtotalCents + totals.DeliveryFeeCents + totals.InsuranceFeeCents
	return totals
}
