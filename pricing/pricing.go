package pricing

import (
	"fmt"
	"time"

	"retailpro/currency"
	"retailpro/models"
)

// Delivery tiers offered at checkout.
const (
	TierExpress  = "express"
	TierStandard = "standard"
	TierEconomy  = "economy"
)

const taxRatePct = 18 // GST

// Free shipping above this subtotal, any tier.
const freeShippingThreshold = currency.Paise(500000) // ₹5000

type tierInfo struct {
	fee  currency.Paise
	days int
}

var tiers = map[string]tierInfo{
	TierExpress:  {fee: 20000, days: 2}, // ₹200
	TierStandard: {fee: 10000, days: 5}, // ₹100
	TierEconomy:  {fee: 5000, days: 8},  // ₹50
}

// Quote is the derived price of a cart for one delivery tier.
type Quote struct {
	Subtotal         currency.Paise `json:"subtotal"`
	Tax              currency.Paise `json:"tax"`
	Shipping         currency.Paise `json:"shipping"`
	Total            currency.Paise `json:"total"`
	ExpectedDelivery time.Time      `json:"expectedDelivery"`
}

// ValidTier reports whether tier names a known delivery tier.
func ValidTier(tier string) bool {
	_, ok := tiers[tier]
	return ok
}

// Compute prices the given cart lines for a delivery tier. Prices come from
// the line snapshots, never from the catalog. An empty slice yields a zero
// subtotal; rejecting that is the checkout's job, not ours.
func Compute(lines []models.CartLine, tier string, now time.Time) (Quote, error) {
	info, ok := tiers[tier]
	if !ok {
		return Quote{}, fmt.Errorf("unknown delivery tier %q", tier)
	}

	var subtotal currency.Paise
	for _, l := range lines {
		if l.Quantity < 1 {
			return Quote{}, fmt.Errorf("line %s: quantity must be at least 1", l.ProductID)
		}
		if l.UnitPrice < 0 {
			return Quote{}, fmt.Errorf("line %s: negative unit price", l.ProductID)
		}
		subtotal += currency.Paise(int64(l.Quantity)) * l.UnitPrice
	}

	tax := currency.PercentHalfUp(subtotal, taxRatePct)

	shipping := info.fee
	if subtotal > freeShippingThreshold {
		shipping = 0
	}

	return Quote{
		Subtotal:         subtotal,
		Tax:              tax,
		Shipping:         shipping,
		Total:            subtotal + tax + shipping,
		ExpectedDelivery: now.AddDate(0, 0, info.days),
	}, nil
}

// DefaultShippedDelivery is the fallback delivery estimate applied when an
// order moves to shipped without one already set.
func DefaultShippedDelivery(now time.Time) time.Time {
	return now.AddDate(0, 0, 5)
}
