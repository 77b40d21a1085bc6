package pricing

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"

	"github.com/tablerio/tablerio-backend/pkg/db/models"
	pkgerrors "github.com/tablerio/tablerio-backend/pkg/errors"
	"github.com/tablerio/tablerio-backend/pkg/pagination"
)

type stubRuleRepo struct {
	rules []models.PricingRule
	tiers []models.DiscountTier

	ruleListCalls int
	tierListCalls int

	created *models.PricingRule
}

func (s *stubRuleRepo) ListActivePricingRules(context.Context) ([]models.PricingRule, error) {
	s.ruleListCalls++
	return s.rules, nil
}

func (s *stubRuleRepo) ListActiveDiscountTiers(context.Context) ([]models.DiscountTier, error) {
	s.tierListCalls++
	return s.tiers, nil
}

func (s *stubRuleRepo) ListPricingRules(context.Context, pagination.Params) ([]models.PricingRule, string, error) {
	return s.rules, "", nil
}

func (s *stubRuleRepo) FindPricingRule(_ context.Context, id uuid.UUID) (*models.PricingRule, error) {
	for i := range s.rules {
		if s.rules[i].ID == id {
			rule := s.rules[i]
			return &rule, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pricing rule not found")
}

func (s *stubRuleRepo) CreatePricingRule(_ context.Context, rule *models.PricingRule) (*models.PricingRule, error) {
	rule.ID = uuid.New()
	s.created = rule
	return rule, nil
}

func (s *stubRuleRepo) SavePricingRule(_ context.Context, rule *models.PricingRule) (*models.PricingRule, error) {
	return rule, nil
}

func (s *stubRuleRepo) DeactivatePricingRule(context.Context, uuid.UUID) error { return nil }

func (s *stubRuleRepo) FindDiscountTier(_ context.Context, id uuid.UUID) (*models.DiscountTier, error) {
	for i := range s.tiers {
		if s.tiers[i].ID == id {
			tier := s.tiers[i]
			return &tier, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "discount tier not found")
}

func (s *stubRuleRepo) CreateDiscountTier(_ context.Context, tier *models.DiscountTier) (*models.DiscountTier, error) {
	tier.ID = uuid.New()
	return tier, nil
}

func (s *stubRuleRepo) SaveDiscountTier(_ context.Context, tier *models.DiscountTier) (*models.DiscountTier, error) {
	return tier, nil
}

func (s *stubRuleRepo) DeactivateDiscountTier(context.Context, uuid.UUID) error { return nil }

func (s *stubRuleRepo) FindExtraItem(context.Context, uuid.UUID) (*models.ExtraItem, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "extra item not found")
}

func (s *stubRuleRepo) CreateExtraItem(_ context.Context, extra *models.ExtraItem) (*models.ExtraItem, error) {
	extra.ID = uuid.New()
	return extra, nil
}

func (s *stubRuleRepo) SaveExtraItem(_ context.Context, extra *models.ExtraItem) (*models.ExtraItem, error) {
	return extra, nil
}

func (s *stubRuleRepo) RetireExtraItem(context.Context, uuid.UUID) error { return nil }

// stubRuleCache keeps JSON snapshots in memory and counts invalidations.
type stubRuleCache struct {
	rules []byte
	tiers []byte

	invalidations int
}

func (s *stubRuleCache) FetchActiveRules(_ context.Context, dest any) bool {
	if s.rules == nil {
		return false
	}
	return json.Unmarshal(s.rules, dest) == nil
}

func (s *stubRuleCache) PopulateActiveRules(_ context.Context, value any) {
	s.rules, _ = json.Marshal(value)
}

func (s *stubRuleCache) FetchActiveTiers(_ context.Context, dest any) bool {
	if s.tiers == nil {
		return false
	}
	return json.Unmarshal(s.tiers, dest) == nil
}

func (s *stubRuleCache) PopulateActiveTiers(_ context.Context, value any) {
	s.tiers, _ = json.Marshal(value)
}

func (s *stubRuleCache) InvalidatePricingData(context.Context) {
	s.invalidations++
	s.rules = nil
	s.tiers = nil
}

func TestActivePricingRulesCacheAside(t *testing.T) {
	t.Parallel()

	thickness := uuid.New()
	repo := &stubRuleRepo{rules: []models.PricingRule{
		testRule("00000000-0000-0000-0000-000000000001", thickness, "30", "50", "20", "40"),
	}}
	cache := &stubRuleCache{}
	svc, err := NewService(repo, cache)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	ctx := context.Background()

	first, err := svc.ActivePricingRules(ctx)
	if err != nil {
		t.Fatalf("first read: %v", err)
	}
	second, err := svc.ActivePricingRules(ctx)
	if err != nil {
		t.Fatalf("second read: %v", err)
	}

	if repo.ruleListCalls != 1 {
		t.Fatalf("expected one repository hit, got %d", repo.ruleListCalls)
	}
	if len(first) != 1 || len(second) != 1 || first[0].ID != second[0].ID {
		t.Fatalf("cached snapshot diverged: %v vs %v", first, second)
	}
}

func TestMutationsInvalidateCache(t *testing.T) {
	t.Parallel()

	thickness := uuid.New()
	repo := &stubRuleRepo{}
	cache := &stubRuleCache{}
	svc, err := NewService(repo, cache)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	ctx := context.Background()

	if _, err := svc.CreatePricingRule(ctx, RuleInput{
		ThicknessID:  thickness,
		HeightMin:    dec("30"),
		HeightMax:    dec("50"),
		WidthMin:     dec("20"),
		WidthMax:     dec("40"),
		BasePrice:    dec("250.00"),
		PaintedPrice: dec("350.00"),
	}); err != nil {
		t.Fatalf("create rule: %v", err)
	}
	if _, err := svc.CreateDiscountTier(ctx, TierInput{MinQuantity: 5, Percentage: dec("10")}); err != nil {
		t.Fatalf("create tier: %v", err)
	}
	if _, err := svc.CreateExtraItem(ctx, ExtraInput{Name: "Wall mount kit", Price: dec("15.00")}); err != nil {
		t.Fatalf("create extra: %v", err)
	}
	if err := svc.DeactivatePricingRule(ctx, uuid.New()); err != nil {
		t.Fatalf("deactivate rule: %v", err)
	}

	if cache.invalidations != 4 {
		t.Fatalf("expected 4 invalidation sweeps, got %d", cache.invalidations)
	}
}

func TestCreatePricingRuleRejectsInvertedBand(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubRuleRepo{}, &stubRuleCache{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.CreatePricingRule(context.Background(), RuleInput{
		ThicknessID:  uuid.New(),
		HeightMin:    dec("50"),
		HeightMax:    dec("30"),
		WidthMin:     dec("20"),
		WidthMax:     dec("40"),
		BasePrice:    dec("250.00"),
		PaintedPrice: dec("350.00"),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateDiscountTierRejectsBadPercentage(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubRuleRepo{}, &stubRuleCache{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.CreateDiscountTier(context.Background(), TierInput{MinQuantity: 5, Percentage: dec("101")})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	_, err = svc.CreateDiscountTier(context.Background(), TierInput{MinQuantity: 0, Percentage: dec("10")})
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for zero threshold, got %v", err)
	}
}

func TestUpdatePricingRuleAppliesPatch(t *testing.T) {
	t.Parallel()

	thickness := uuid.New()
	rule := testRule("00000000-0000-0000-0000-000000000001", thickness, "30", "50", "20", "40")
	repo := &stubRuleRepo{rules: []models.PricingRule{rule}}
	cache := &stubRuleCache{}
	svc, err := NewService(repo, cache)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	newMax := dec("55")
	updated, err := svc.UpdatePricingRule(context.Background(), rule.ID, RulePatch{HeightMax: &newMax})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.HeightMax.Equal(newMax) {
		t.Fatalf("patch not applied: %s", updated.HeightMax)
	}
	if !updated.HeightMin.Equal(rule.HeightMin) {
		t.Fatalf("untouched field changed: %s", updated.HeightMin)
	}
	if cache.invalidations != 1 {
		t.Fatalf("expected invalidation after update, got %d", cache.invalidations)
	}
}
