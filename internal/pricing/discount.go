package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/tablerio/tablerio-backend/pkg/db/models"
)

var oneHundred = decimal.NewFromInt(100)

// SelectTier picks the active tier with the highest threshold the item count
// reaches. Tiers supersede each other rather than stack; nil means no tier
// qualifies.
func SelectTier(tiers []models.DiscountTier, itemCount int) *models.DiscountTier {
	var selected *models.DiscountTier
	for _, tier := range tiers {
		if !tier.Active || tier.MinQuantity > itemCount {
			continue
		}
		if selected == nil || tier.MinQuantity > selected.MinQuantity {
			copy := tier
			selected = &copy
		}
	}
	return selected
}

// DiscountAmount converts the tier percentage into a currency amount, rounded
// to cents and clamped to [0, subtotal] so a discount can never drive the
// total negative.
func DiscountAmount(subtotal decimal.Decimal, tier *models.DiscountTier) decimal.Decimal {
	if tier == nil || subtotal.Sign() <= 0 {
		return decimal.Zero
	}
	amount := subtotal.Mul(tier.Percentage).Div(oneHundred).Round(2)
	if amount.Sign() < 0 {
		return decimal.Zero
	}
	if amount.GreaterThan(subtotal) {
		return subtotal
	}
	return amount
}
