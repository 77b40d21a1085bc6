package pricing

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tablerio/tablerio-backend/pkg/db/models"
	pkgerrors "github.com/tablerio/tablerio-backend/pkg/errors"
)

// Resolve maps a (thickness, height, width) point onto the rule that prices
// it. Bands carry no uniqueness constraint and may overlap; when more than
// one rule covers the point the narrowest band wins, and a remaining tie
// falls to the lexicographically smallest rule id. The choice is a stable
// function of the rule set, never of storage order.
func Resolve(rules []models.PricingRule, thicknessID uuid.UUID, height, width decimal.Decimal) (*models.PricingRule, error) {
	var matched *models.PricingRule
	var matchedArea decimal.Decimal

	for i := range rules {
		rule := &rules[i]
		if !rule.Active || rule.ThicknessID != thicknessID {
			continue
		}
		if !covers(rule, height, width) {
			continue
		}

		area := bandArea(rule)
		switch {
		case matched == nil:
			matched, matchedArea = rule, area
		case area.LessThan(matchedArea):
			matched, matchedArea = rule, area
		case area.Equal(matchedArea) && strings.Compare(rule.ID.String(), matched.ID.String()) < 0:
			matched, matchedArea = rule, area
		}
	}

	if matched == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNoRuleMatch, "no pricing rule covers the requested dimensions").
			WithDetails(map[string]any{
				"thickness_id": thicknessID.String(),
				"height":       height.String(),
				"width":        width.String(),
			})
	}

	out := *matched
	return &out, nil
}

// UnitPrice returns the painted or base price of the matched rule.
func UnitPrice(rule *models.PricingRule, painted bool) decimal.Decimal {
	if painted {
		return rule.PaintedPrice
	}
	return rule.BasePrice
}

// covers reports whether the point sits inside the rule's band; bounds are
// inclusive on both ends.
func covers(rule *models.PricingRule, height, width decimal.Decimal) bool {
	return height.GreaterThanOrEqual(rule.HeightMin) &&
		height.LessThanOrEqual(rule.HeightMax) &&
		width.GreaterThanOrEqual(rule.WidthMin) &&
		width.LessThanOrEqual(rule.WidthMax)
}

func bandArea(rule *models.PricingRule) decimal.Decimal {
	return rule.HeightMax.Sub(rule.HeightMin).Mul(rule.WidthMax.Sub(rule.WidthMin))
}
