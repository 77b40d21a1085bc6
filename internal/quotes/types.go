package quotes

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tablerio/tablerio-backend/pkg/enums"
)

// ExtraSelection references one extra item and how many of it the line adds.
type ExtraSelection struct {
	ID       uuid.UUID
	Quantity int
}

// Input is one quote computation request. OrderItemCount is the caller's
// claim about the parent order's total item count; the discount tier is
// selected against it, not against the line quantity alone.
type Input struct {
	ThicknessID    uuid.UUID
	Height         decimal.Decimal
	Width          decimal.Decimal
	Painted        bool
	Quantity       int
	Extras         []ExtraSelection
	OrderItemCount int
}

// AppliedTier describes the discount tier a quote ended up with.
type AppliedTier struct {
	ID          uuid.UUID       `json:"id"`
	MinQuantity int             `json:"min_quantity"`
	Percentage  decimal.Decimal `json:"percentage"`
}

// Quote is the computed result. Total always equals LineSubtotal minus
// DiscountAmount and is never negative.
type Quote struct {
	UnitPrice      decimal.Decimal `json:"unit_price"`
	ExtrasTotal    decimal.Decimal `json:"extras_total"`
	LineSubtotal   decimal.Decimal `json:"line_subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Total          decimal.Decimal `json:"total"`
	MatchedRuleID  *uuid.UUID      `json:"matched_rule_id,omitempty"`
	AppliedTier    *AppliedTier    `json:"applied_tier,omitempty"`
	Currency       enums.Currency  `json:"currency"`
}
