package quotes

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tablerio/tablerio-backend/internal/pricing"
	"github.com/tablerio/tablerio-backend/pkg/db/models"
	"github.com/tablerio/tablerio-backend/pkg/enums"
	pkgerrors "github.com/tablerio/tablerio-backend/pkg/errors"
	"github.com/tablerio/tablerio-backend/pkg/metrics"
)

type pricingService interface {
	ActivePricingRules(ctx context.Context) ([]models.PricingRule, error)
	ActiveDiscountTiers(ctx context.Context) ([]models.DiscountTier, error)
}

type catalogService interface {
	ListOptions(ctx context.Context, kind enums.OptionKind) ([]models.ConfigurationOption, error)
	ListExtras(ctx context.Context) ([]models.ExtraItem, error)
}

type quoteCache interface {
	FetchQuote(ctx context.Context, hash string, dest any) bool
	PopulateQuote(ctx context.Context, hash string, value any)
}

// Service computes priced quotes. The calculation itself is a pure function
// of the rule snapshot and the input; the cache wrap in front of it is the
// only side effect, and a broken cache only costs recomputation.
type Service interface {
	ComputeQuote(ctx context.Context, input Input) (*Quote, error)
}

type service struct {
	pricing pricingService
	catalog catalogService
	cache   quoteCache
	stats   *metrics.QuoteMetrics
}

// NewService wires the calculator to its rule, catalog, and cache sources.
func NewService(pricingSvc pricingService, catalogSvc catalogService, cache quoteCache, stats *metrics.QuoteMetrics) (Service, error) {
	if pricingSvc == nil {
		return nil, fmt.Errorf("pricing service required")
	}
	if catalogSvc == nil {
		return nil, fmt.Errorf("catalog service required")
	}
	if cache == nil {
		return nil, fmt.Errorf("cache façade required")
	}
	return &service{pricing: pricingSvc, catalog: catalogSvc, cache: cache, stats: stats}, nil
}

func (s *service) ComputeQuote(ctx context.Context, input Input) (*Quote, error) {
	start := time.Now()

	key := CacheKey(input)
	var cached Quote
	if s.cache.FetchQuote(ctx, key, &cached) {
		s.stats.Observe(metrics.QuoteOutcomeOK, time.Since(start))
		return &cached, nil
	}

	quote, err := s.compute(ctx, input)
	if err != nil {
		s.stats.Observe(outcomeFor(err), time.Since(start))
		return nil, err
	}

	s.cache.PopulateQuote(ctx, key, quote)
	s.stats.Observe(metrics.QuoteOutcomeOK, time.Since(start))
	return quote, nil
}

func (s *service) compute(ctx context.Context, input Input) (*Quote, error) {
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidConfig, "quantity must be at least 1")
	}

	if err := s.validateDimensions(ctx, input); err != nil {
		return nil, err
	}

	extrasTotal, err := s.sumExtras(ctx, input.Extras)
	if err != nil {
		return nil, err
	}

	rules, err := s.pricing.ActivePricingRules(ctx)
	if err != nil {
		return nil, err
	}
	rule, err := pricing.Resolve(rules, input.ThicknessID, input.Height, input.Width)
	if err != nil {
		return nil, err
	}
	unitPrice := pricing.UnitPrice(rule, input.Painted)

	// Exact until the discount step; unit and extra prices are 2dp so the
	// products below stay 2dp-exact without intermediate rounding.
	lineSubtotal := unitPrice.Add(extrasTotal).Mul(decimal.NewFromInt(int64(input.Quantity)))

	itemCount := input.OrderItemCount
	if itemCount <= 0 {
		itemCount = input.Quantity
	}
	tiers, err := s.pricing.ActiveDiscountTiers(ctx)
	if err != nil {
		return nil, err
	}
	tier := pricing.SelectTier(tiers, itemCount)
	discount := pricing.DiscountAmount(lineSubtotal, tier)

	ruleID := rule.ID
	quote := &Quote{
		UnitPrice:      unitPrice,
		ExtrasTotal:    extrasTotal,
		LineSubtotal:   lineSubtotal,
		DiscountAmount: discount,
		Total:          lineSubtotal.Sub(discount),
		MatchedRuleID:  &ruleID,
		Currency:       enums.CurrencyEUR,
	}
	if tier != nil {
		quote.AppliedTier = &AppliedTier{
			ID:          tier.ID,
			MinQuantity: tier.MinQuantity,
			Percentage:  tier.Percentage,
		}
	}
	return quote, nil
}

func (s *service) validateDimensions(ctx context.Context, input Input) error {
	thicknesses, err := s.catalog.ListOptions(ctx, enums.OptionKindThickness)
	if err != nil {
		return err
	}
	if !containsOptionID(thicknesses, input.ThicknessID) {
		return pkgerrors.New(pkgerrors.CodeInvalidConfig, "thickness is not available").
			WithDetails(map[string]any{"thickness_id": input.ThicknessID.String()})
	}

	heights, err := s.catalog.ListOptions(ctx, enums.OptionKindHeight)
	if err != nil {
		return err
	}
	if !containsOptionValue(heights, input.Height) {
		return pkgerrors.New(pkgerrors.CodeInvalidConfig, "height is not available").
			WithDetails(map[string]any{"height": input.Height.String()})
	}

	widths, err := s.catalog.ListOptions(ctx, enums.OptionKindWidth)
	if err != nil {
		return err
	}
	if !containsOptionValue(widths, input.Width) {
		return pkgerrors.New(pkgerrors.CodeInvalidConfig, "width is not available").
			WithDetails(map[string]any{"width": input.Width.String()})
	}
	return nil
}

func (s *service) sumExtras(ctx context.Context, selections []ExtraSelection) (decimal.Decimal, error) {
	total := decimal.Zero
	if len(selections) == 0 {
		return total, nil
	}

	extras, err := s.catalog.ListExtras(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	byID := make(map[uuid.UUID]models.ExtraItem, len(extras))
	for _, extra := range extras {
		byID[extra.ID] = extra
	}

	for _, selection := range selections {
		if selection.Quantity < 1 {
			return decimal.Zero, pkgerrors.New(pkgerrors.CodeInvalidConfig, "extra item quantity must be at least 1").
				WithDetails(map[string]any{"extra_item_id": selection.ID.String()})
		}
		extra, ok := byID[selection.ID]
		if !ok {
			return decimal.Zero, pkgerrors.New(pkgerrors.CodeInvalidConfig, "extra item is not available").
				WithDetails(map[string]any{"extra_item_id": selection.ID.String()})
		}
		total = total.Add(extra.Price.Mul(decimal.NewFromInt(int64(selection.Quantity))))
	}
	return total, nil
}

func containsOptionID(options []models.ConfigurationOption, id uuid.UUID) bool {
	for _, option := range options {
		if option.ID == id {
			return true
		}
	}
	return false
}

func containsOptionValue(options []models.ConfigurationOption, value decimal.Decimal) bool {
	for _, option := range options {
		if option.Value.Equal(value) {
			return true
		}
	}
	return false
}

func outcomeFor(err error) string {
	typed := pkgerrors.As(err)
	if typed == nil {
		return metrics.QuoteOutcomeError
	}
	switch typed.Code() {
	case pkgerrors.CodeNoRuleMatch:
		return metrics.QuoteOutcomeNoRule
	case pkgerrors.CodeInvalidConfig:
		return metrics.QuoteOutcomeInvalidConfig
	default:
		return metrics.QuoteOutcomeError
	}
}
