package pricing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tablerio/tablerio-backend/pkg/db/models"
	pkgerrors "github.com/tablerio/tablerio-backend/pkg/errors"
	"github.com/tablerio/tablerio-backend/pkg/pagination"
)

type ruleRepository interface {
	ListActivePricingRules(ctx context.Context) ([]models.PricingRule, error)
	ListActiveDiscountTiers(ctx context.Context) ([]models.DiscountTier, error)
	ListPricingRules(ctx context.Context, params pagination.Params) ([]models.PricingRule, string, error)
	FindPricingRule(ctx context.Context, id uuid.UUID) (*models.PricingRule, error)
	CreatePricingRule(ctx context.Context, rule *models.PricingRule) (*models.PricingRule, error)
	SavePricingRule(ctx context.Context, rule *models.PricingRule) (*models.PricingRule, error)
	DeactivatePricingRule(ctx context.Context, id uuid.UUID) error
	FindDiscountTier(ctx context.Context, id uuid.UUID) (*models.DiscountTier, error)
	CreateDiscountTier(ctx context.Context, tier *models.DiscountTier) (*models.DiscountTier, error)
	SaveDiscountTier(ctx context.Context, tier *models.DiscountTier) (*models.DiscountTier, error)
	DeactivateDiscountTier(ctx context.Context, id uuid.UUID) error
	FindExtraItem(ctx context.Context, id uuid.UUID) (*models.ExtraItem, error)
	CreateExtraItem(ctx context.Context, extra *models.ExtraItem) (*models.ExtraItem, error)
	SaveExtraItem(ctx context.Context, extra *models.ExtraItem) (*models.ExtraItem, error)
	RetireExtraItem(ctx context.Context, id uuid.UUID) error
}

type ruleCache interface {
	FetchActiveRules(ctx context.Context, dest any) bool
	PopulateActiveRules(ctx context.Context, value any)
	FetchActiveTiers(ctx context.Context, dest any) bool
	PopulateActiveTiers(ctx context.Context, value any)
	InvalidatePricingData(ctx context.Context)
}

// Service exposes the rule snapshots consumed by quote computation plus the
// admin write surface. Reads are cache-aside; every successful mutation
// sweeps the derived cache namespaces.
type Service interface {
	ActivePricingRules(ctx context.Context) ([]models.PricingRule, error)
	ActiveDiscountTiers(ctx context.Context) ([]models.DiscountTier, error)

	ListPricingRules(ctx context.Context, params pagination.Params) ([]models.PricingRule, string, error)
	CreatePricingRule(ctx context.Context, input RuleInput) (*models.PricingRule, error)
	UpdatePricingRule(ctx context.Context, id uuid.UUID, patch RulePatch) (*models.PricingRule, error)
	DeactivatePricingRule(ctx context.Context, id uuid.UUID) error

	CreateDiscountTier(ctx context.Context, input TierInput) (*models.DiscountTier, error)
	UpdateDiscountTier(ctx context.Context, id uuid.UUID, patch TierPatch) (*models.DiscountTier, error)
	DeactivateDiscountTier(ctx context.Context, id uuid.UUID) error

	CreateExtraItem(ctx context.Context, input ExtraInput) (*models.ExtraItem, error)
	UpdateExtraItem(ctx context.Context, id uuid.UUID, patch ExtraPatch) (*models.ExtraItem, error)
	RetireExtraItem(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo  ruleRepository
	cache ruleCache
}

// NewService wires the rule repository behind the cache façade.
func NewService(repo ruleRepository, cache ruleCache) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("pricing repository required")
	}
	if cache == nil {
		return nil, fmt.Errorf("cache façade required")
	}
	return &service{repo: repo, cache: cache}, nil
}

// RuleInput carries a complete new pricing rule.
type RuleInput struct {
	ThicknessID  uuid.UUID
	HeightMin    decimal.Decimal
	HeightMax    decimal.Decimal
	WidthMin     decimal.Decimal
	WidthMax     decimal.Decimal
	BasePrice    decimal.Decimal
	PaintedPrice decimal.Decimal
}

// RulePatch carries partial updates; nil fields are left untouched.
type RulePatch struct {
	HeightMin    *decimal.Decimal
	HeightMax    *decimal.Decimal
	WidthMin     *decimal.Decimal
	WidthMax     *decimal.Decimal
	BasePrice    *decimal.Decimal
	PaintedPrice *decimal.Decimal
	Active       *bool
}

// TierInput carries a complete new discount tier.
type TierInput struct {
	MinQuantity int
	Percentage  decimal.Decimal
}

// TierPatch carries partial tier updates.
type TierPatch struct {
	MinQuantity *int
	Percentage  *decimal.Decimal
	Active      *bool
}

// ExtraInput carries a complete new extra item.
type ExtraInput struct {
	Name     string
	Category string
	Price    decimal.Decimal
}

// ExtraPatch carries partial extra-item updates.
type ExtraPatch struct {
	Name      *string
	Category  *string
	Price     *decimal.Decimal
	Available *bool
}

func (s *service) ActivePricingRules(ctx context.Context) ([]models.PricingRule, error) {
	var rules []models.PricingRule
	if s.cache.FetchActiveRules(ctx, &rules) {
		return rules, nil
	}
	rules, err := s.repo.ListActivePricingRules(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.PopulateActiveRules(ctx, rules)
	return rules, nil
}

func (s *service) ActiveDiscountTiers(ctx context.Context) ([]models.DiscountTier, error) {
	var tiers []models.DiscountTier
	if s.cache.FetchActiveTiers(ctx, &tiers) {
		return tiers, nil
	}
	tiers, err := s.repo.ListActiveDiscountTiers(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.PopulateActiveTiers(ctx, tiers)
	return tiers, nil
}

func (s *service) ListPricingRules(ctx context.Context, params pagination.Params) ([]models.PricingRule, string, error) {
	return s.repo.ListPricingRules(ctx, params)
}

func (s *service) CreatePricingRule(ctx context.Context, input RuleInput) (*models.PricingRule, error) {
	rule := &models.PricingRule{
		ThicknessID:  input.ThicknessID,
		HeightMin:    input.HeightMin,
		HeightMax:    input.HeightMax,
		WidthMin:     input.WidthMin,
		WidthMax:     input.WidthMax,
		BasePrice:    input.BasePrice,
		PaintedPrice: input.PaintedPrice,
		Active:       true,
	}
	if err := validateRule(rule); err != nil {
		return nil, err
	}
	created, err := s.repo.CreatePricingRule(ctx, rule)
	if err != nil {
		return nil, err
	}
	s.cache.InvalidatePricingData(ctx)
	return created, nil
}

func (s *service) UpdatePricingRule(ctx context.Context, id uuid.UUID, patch RulePatch) (*models.PricingRule, error) {
	rule, err := s.repo.FindPricingRule(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.HeightMin != nil {
		rule.HeightMin = *patch.HeightMin
	}
	if patch.HeightMax != nil {
		rule.HeightMax = *patch.HeightMax
	}
	if patch.WidthMin != nil {
		rule.WidthMin = *patch.WidthMin
	}
	if patch.WidthMax != nil {
		rule.WidthMax = *patch.WidthMax
	}
	if patch.BasePrice != nil {
		rule.BasePrice = *patch.BasePrice
	}
	if patch.PaintedPrice != nil {
		rule.PaintedPrice = *patch.PaintedPrice
	}
	if patch.Active != nil {
		rule.Active = *patch.Active
	}
	if err := validateRule(rule); err != nil {
		return nil, err
	}
	updated, err := s.repo.SavePricingRule(ctx, rule)
	if err != nil {
		return nil, err
	}
	s.cache.InvalidatePricingData(ctx)
	return updated, nil
}

func (s *service) DeactivatePricingRule(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeactivatePricingRule(ctx, id); err != nil {
		return err
	}
	s.cache.InvalidatePricingData(ctx)
	return nil
}

func (s *service) CreateDiscountTier(ctx context.Context, input TierInput) (*models.DiscountTier, error) {
	tier := &models.DiscountTier{
		MinQuantity: input.MinQuantity,
		Percentage:  input.Percentage,
		Active:      true,
	}
	if err := validateTier(tier); err != nil {
		return nil, err
	}
	created, err := s.repo.CreateDiscountTier(ctx, tier)
	if err != nil {
		return nil, err
	}
	s.cache.InvalidatePricingData(ctx)
	return created, nil
}

func (s *service) UpdateDiscountTier(ctx context.Context, id uuid.UUID, patch TierPatch) (*models.DiscountTier, error) {
	tier, err := s.repo.FindDiscountTier(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.MinQuantity != nil {
		tier.MinQuantity = *patch.MinQuantity
	}
	if patch.Percentage != nil {
		tier.Percentage = *patch.Percentage
	}
	if patch.Active != nil {
		tier.Active = *patch.Active
	}
	if err := validateTier(tier); err != nil {
		return nil, err
	}
	updated, err := s.repo.SaveDiscountTier(ctx, tier)
	if err != nil {
		return nil, err
	}
	s.cache.InvalidatePricingData(ctx)
	return updated, nil
}

func (s *service) DeactivateDiscountTier(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeactivateDiscountTier(ctx, id); err != nil {
		return err
	}
	s.cache.InvalidatePricingData(ctx)
	return nil
}

func (s *service) CreateExtraItem(ctx context.Context, input ExtraInput) (*models.ExtraItem, error) {
	extra := &models.ExtraItem{
		Name:      input.Name,
		Category:  input.Category,
		Price:     input.Price,
		Available: true,
	}
	if err := validateExtra(extra); err != nil {
		return nil, err
	}
	created, err := s.repo.CreateExtraItem(ctx, extra)
	if err != nil {
		return nil, err
	}
	s.cache.InvalidatePricingData(ctx)
	return created, nil
}

func (s *service) UpdateExtraItem(ctx context.Context, id uuid.UUID, patch ExtraPatch) (*models.ExtraItem, error) {
	extra, err := s.repo.FindExtraItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		extra.Name = *patch.Name
	}
	if patch.Category != nil {
		extra.Category = *patch.Category
	}
	if patch.Price != nil {
		extra.Price = *patch.Price
	}
	if patch.Available != nil {
		extra.Available = *patch.Available
	}
	if err := validateExtra(extra); err != nil {
		return nil, err
	}
	updated, err := s.repo.SaveExtraItem(ctx, extra)
	if err != nil {
		return nil, err
	}
	s.cache.InvalidatePricingData(ctx)
	return updated, nil
}

func (s *service) RetireExtraItem(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.RetireExtraItem(ctx, id); err != nil {
		return err
	}
	s.cache.InvalidatePricingData(ctx)
	return nil
}

func validateRule(rule *models.PricingRule) error {
	if rule.ThicknessID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "thickness_id is required")
	}
	if rule.HeightMax.LessThan(rule.HeightMin) {
		return pkgerrors.New(pkgerrors.CodeValidation, "height_max must be >= height_min")
	}
	if rule.WidthMax.LessThan(rule.WidthMin) {
		return pkgerrors.New(pkgerrors.CodeValidation, "width_max must be >= width_min")
	}
	if rule.BasePrice.Sign() <= 0 || rule.PaintedPrice.Sign() <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "prices must be positive")
	}
	return nil
}

func validateTier(tier *models.DiscountTier) error {
	if tier.MinQuantity <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "min_quantity must be positive")
	}
	if tier.Percentage.Sign() < 0 || tier.Percentage.GreaterThan(oneHundred) {
		return pkgerrors.New(pkgerrors.CodeValidation, "percentage must be between 0 and 100")
	}
	return nil
}

func validateExtra(extra *models.ExtraItem) error {
	if extra.Name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if extra.Price.Sign() <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}
	return nil
}
