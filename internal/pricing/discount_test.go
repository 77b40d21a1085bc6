package pricing

import (
	"testing"

	"github.com/google/uuid"

	"github.com/tablerio/tablerio-backend/pkg/db/models"
)

func testTiers() []models.DiscountTier {
	return []models.DiscountTier{
		{ID: uuid.New(), MinQuantity: 10, Percentage: dec("15"), Active: true},
		{ID: uuid.New(), MinQuantity: 5, Percentage: dec("10"), Active: true},
		{ID: uuid.New(), MinQuantity: 20, Percentage: dec("20"), Active: false},
	}
}

func TestSelectTier(t *testing.T) {
	t.Parallel()

	tiers := testTiers()

	if tier := SelectTier(tiers, 4); tier != nil {
		t.Fatalf("expected no tier for count 4, got %+v", tier)
	}
	if tier := SelectTier(tiers, 6); tier == nil || tier.MinQuantity != 5 {
		t.Fatalf("expected 5-unit tier for count 6, got %+v", tier)
	}
	if tier := SelectTier(tiers, 12); tier == nil || tier.MinQuantity != 10 {
		t.Fatalf("expected 10-unit tier to supersede 5-unit tier, got %+v", tier)
	}
	// The 20-unit tier is inactive and must never be picked.
	if tier := SelectTier(tiers, 25); tier == nil || tier.MinQuantity != 10 {
		t.Fatalf("inactive tier selected: %+v", tier)
	}
}

func TestSelectTierMonotonicity(t *testing.T) {
	t.Parallel()

	tiers := testTiers()

	previous := dec("0")
	for count := 1; count <= 30; count++ {
		percentage := dec("0")
		if tier := SelectTier(tiers, count); tier != nil {
			percentage = tier.Percentage
		}
		if percentage.LessThan(previous) {
			t.Fatalf("discount percentage decreased at count %d: %s < %s", count, percentage, previous)
		}
		previous = percentage
	}
}

func TestDiscountAmount(t *testing.T) {
	t.Parallel()

	tier := &models.DiscountTier{MinQuantity: 5, Percentage: dec("10"), Active: true}

	if got := DiscountAmount(dec("1500.00"), tier); !got.Equal(dec("150.00")) {
		t.Fatalf("10%% of 1500.00 = %s", got)
	}
	if got := DiscountAmount(dec("1500.00"), nil); !got.IsZero() {
		t.Fatalf("nil tier must discount nothing, got %s", got)
	}
	if got := DiscountAmount(dec("0"), tier); !got.IsZero() {
		t.Fatalf("zero subtotal must discount nothing, got %s", got)
	}
}

func TestDiscountAmountRoundsToCents(t *testing.T) {
	t.Parallel()

	tier := &models.DiscountTier{MinQuantity: 5, Percentage: dec("10"), Active: true}

	// 10% of 33.33 is 3.333; rounded once, to cents.
	if got := DiscountAmount(dec("33.33"), tier); !got.Equal(dec("3.33")) {
		t.Fatalf("expected 3.33, got %s", got)
	}
}

func TestDiscountAmountClampedToSubtotal(t *testing.T) {
	t.Parallel()

	tier := &models.DiscountTier{MinQuantity: 1, Percentage: dec("100"), Active: true}

	if got := DiscountAmount(dec("99.99"), tier); !got.Equal(dec("99.99")) {
		t.Fatalf("100%% discount must equal subtotal, got %s", got)
	}
}
