package pricing

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tablerio/tablerio-backend/internal/repo"
	"github.com/tablerio/tablerio-backend/pkg/db/models"
	pkgerrors "github.com/tablerio/tablerio-backend/pkg/errors"
	"github.com/tablerio/tablerio-backend/pkg/pagination"
)

// Repository persists pricing rules and discount tiers. Read paths only ever
// see active rows; writes deactivate instead of deleting.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(tx)}
}

// ListActivePricingRules returns every active rule, ordered by id so
// snapshots serialize identically across calls.
func (r *Repository) ListActivePricingRules(ctx context.Context) ([]models.PricingRule, error) {
	var rules []models.PricingRule
	if err := r.DB(ctx).
		Where("active = ?", true).
		Order("id asc").
		Find(&rules).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing active pricing rules")
	}
	return rules, nil
}

// ListActiveDiscountTiers returns every active tier, ordered by threshold.
func (r *Repository) ListActiveDiscountTiers(ctx context.Context) ([]models.DiscountTier, error) {
	var tiers []models.DiscountTier
	if err := r.DB(ctx).
		Where("active = ?", true).
		Order("min_quantity asc").
		Find(&tiers).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing active discount tiers")
	}
	return tiers, nil
}

// ListPricingRules pages through all rules (active or not) for the admin
// surface using the shared created_at/id cursor.
func (r *Repository) ListPricingRules(ctx context.Context, params pagination.Params) ([]models.PricingRule, string, error) {
	limit := pagination.NormalizeLimit(params.Limit)
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	query := r.DB(ctx).
		Order("created_at desc, id desc").
		Limit(pagination.LimitWithBuffer(params.Limit))
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rules []models.PricingRule
	if err := query.Find(&rules).Error; err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing pricing rules")
	}

	next := ""
	if len(rules) > limit {
		rules = rules[:limit]
		last := rules[len(rules)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rules, next, nil
}

// FindPricingRule loads one rule by id.
func (r *Repository) FindPricingRule(ctx context.Context, id uuid.UUID) (*models.PricingRule, error) {
	var rule models.PricingRule
	if err := r.DB(ctx).First(&rule, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pricing rule not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading pricing rule")
	}
	return &rule, nil
}

// CreatePricingRule inserts a rule.
func (r *Repository) CreatePricingRule(ctx context.Context, rule *models.PricingRule) (*models.PricingRule, error) {
	if err := r.DB(ctx).Create(rule).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating pricing rule")
	}
	return rule, nil
}

// SavePricingRule persists an updated rule.
func (r *Repository) SavePricingRule(ctx context.Context, rule *models.PricingRule) (*models.PricingRule, error) {
	if err := r.DB(ctx).Save(rule).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating pricing rule")
	}
	return rule, nil
}

// DeactivatePricingRule flips the rule inactive; rows are never hard-deleted.
func (r *Repository) DeactivatePricingRule(ctx context.Context, id uuid.UUID) error {
	result := r.DB(ctx).
		Model(&models.PricingRule{}).
		Where("id = ?", id).
		Update("active", false)
	if result.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, "deactivating pricing rule")
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "pricing rule not found")
	}
	return nil
}

// FindDiscountTier loads one tier by id.
func (r *Repository) FindDiscountTier(ctx context.Context, id uuid.UUID) (*models.DiscountTier, error) {
	var tier models.DiscountTier
	if err := r.DB(ctx).First(&tier, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "discount tier not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading discount tier")
	}
	return &tier, nil
}

// CreateDiscountTier inserts a tier.
func (r *Repository) CreateDiscountTier(ctx context.Context, tier *models.DiscountTier) (*models.DiscountTier, error) {
	if err := r.DB(ctx).Create(tier).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating discount tier")
	}
	return tier, nil
}

// SaveDiscountTier persists an updated tier.
func (r *Repository) SaveDiscountTier(ctx context.Context, tier *models.DiscountTier) (*models.DiscountTier, error) {
	if err := r.DB(ctx).Save(tier).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating discount tier")
	}
	return tier, nil
}

// DeactivateDiscountTier flips the tier inactive.
func (r *Repository) DeactivateDiscountTier(ctx context.Context, id uuid.UUID) error {
	result := r.DB(ctx).
		Model(&models.DiscountTier{}).
		Where("id = ?", id).
		Update("active", false)
	if result.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, "deactivating discount tier")
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "discount tier not found")
	}
	return nil
}

// FindExtraItem loads one extra item by id.
func (r *Repository) FindExtraItem(ctx context.Context, id uuid.UUID) (*models.ExtraItem, error) {
	var extra models.ExtraItem
	if err := r.DB(ctx).First(&extra, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "extra item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading extra item")
	}
	return &extra, nil
}

// CreateExtraItem inserts an extra item.
func (r *Repository) CreateExtraItem(ctx context.Context, extra *models.ExtraItem) (*models.ExtraItem, error) {
	if err := r.DB(ctx).Create(extra).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating extra item")
	}
	return extra, nil
}

// SaveExtraItem persists an updated extra item.
func (r *Repository) SaveExtraItem(ctx context.Context, extra *models.ExtraItem) (*models.ExtraItem, error) {
	if err := r.DB(ctx).Save(extra).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating extra item")
	}
	return extra, nil
}

// RetireExtraItem marks the extra item unavailable.
func (r *Repository) RetireExtraItem(ctx context.Context, id uuid.UUID) error {
	result := r.DB(ctx).
		Model(&models.ExtraItem{}).
		Where("id = ?", id).
		Update("available", false)
	if result.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, "retiring extra item")
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "extra item not found")
	}
	return nil
}
