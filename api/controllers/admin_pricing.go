package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tablerio/tablerio-backend/api/responses"
	"github.com/tablerio/tablerio-backend/api/validators"
	"github.com/tablerio/tablerio-backend/internal/pricing"
	"github.com/tablerio/tablerio-backend/pkg/db/models"
	pkgerrors "github.com/tablerio/tablerio-backend/pkg/errors"
	"github.com/tablerio/tablerio-backend/pkg/logger"
	"github.com/tablerio/tablerio-backend/pkg/pagination"
)

type pricingRuleCreateRequest struct {
	ThicknessID  string          `json:"thickness_id" validate:"required"`
	HeightMin    decimal.Decimal `json:"height_min"`
	HeightMax    decimal.Decimal `json:"height_max"`
	WidthMin     decimal.Decimal `json:"width_min"`
	WidthMax     decimal.Decimal `json:"width_max"`
	BasePrice    decimal.Decimal `json:"base_price" validate:"required"`
	PaintedPrice decimal.Decimal `json:"painted_price" validate:"required"`
}

type pricingRulePatchRequest struct {
	HeightMin    *decimal.Decimal `json:"height_min"`
	HeightMax    *decimal.Decimal `json:"height_max"`
	WidthMin     *decimal.Decimal `json:"width_min"`
	WidthMax     *decimal.Decimal `json:"width_max"`
	BasePrice    *decimal.Decimal `json:"base_price"`
	PaintedPrice *decimal.Decimal `json:"painted_price"`
	Active       *bool            `json:"active"`
}

type discountTierCreateRequest struct {
	MinQuantity int             `json:"min_quantity" validate:"required,min=1"`
	Percentage  decimal.Decimal `json:"percentage"`
}

type discountTierPatchRequest struct {
	MinQuantity *int             `json:"min_quantity"`
	Percentage  *decimal.Decimal `json:"percentage"`
	Active      *bool            `json:"active"`
}

type extraItemCreateRequest struct {
	Name     string          `json:"name" validate:"required"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price" validate:"required"`
}

type extraItemPatchRequest struct {
	Name      *string          `json:"name"`
	Category  *string          `json:"category"`
	Price     *decimal.Decimal `json:"price"`
	Available *bool            `json:"available"`
}

type pricingRuleResponse struct {
	ID           string `json:"id"`
	ThicknessID  string `json:"thickness_id"`
	HeightMin    string `json:"height_min"`
	HeightMax    string `json:"height_max"`
	WidthMin     string `json:"width_min"`
	WidthMax     string `json:"width_max"`
	BasePrice    string `json:"base_price"`
	PaintedPrice string `json:"painted_price"`
	Active       bool   `json:"active"`
}

type pricingRuleListResponse struct {
	Rules      []pricingRuleResponse `json:"rules"`
	NextCursor string                `json:"next_cursor,omitempty"`
}

type discountTierResponse struct {
	ID          string `json:"id"`
	MinQuantity int    `json:"min_quantity"`
	Percentage  string `json:"percentage"`
	Active      bool   `json:"active"`
}

// AdminPricingRuleList handles GET /api/v1/admin/pricing-rules.
func AdminPricingRuleList(svc pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rules, next, err := svc.ListPricingRules(r.Context(), pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payload := pricingRuleListResponse{
			Rules:      make([]pricingRuleResponse, 0, len(rules)),
			NextCursor: next,
		}
		for _, rule := range rules {
			payload.Rules = append(payload.Rules, toPricingRuleResponse(&rule))
		}
		responses.WriteSuccess(w, payload)
	}
}

// AdminPricingRuleCreate handles POST /api/v1/admin/pricing-rules.
func AdminPricingRuleCreate(svc pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req pricingRuleCreateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		thicknessID, err := uuid.Parse(strings.TrimSpace(req.ThicknessID))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid thickness_id"))
			return
		}

		rule, err := svc.CreatePricingRule(r.Context(), pricing.RuleInput{
			ThicknessID:  thicknessID,
			HeightMin:    req.HeightMin,
			HeightMax:    req.HeightMax,
			WidthMin:     req.WidthMin,
			WidthMax:     req.WidthMax,
			BasePrice:    req.BasePrice,
			PaintedPrice: req.PaintedPrice,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, toPricingRuleResponse(rule))
	}
}

// AdminPricingRuleUpdate handles PATCH /api/v1/admin/pricing-rules/{ruleId}.
func AdminPricingRuleUpdate(svc pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "ruleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req pricingRulePatchRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rule, err := svc.UpdatePricingRule(r.Context(), id, pricing.RulePatch{
			HeightMin:    req.HeightMin,
			HeightMax:    req.HeightMax,
			WidthMin:     req.WidthMin,
			WidthMax:     req.WidthMax,
			BasePrice:    req.BasePrice,
			PaintedPrice: req.PaintedPrice,
			Active:       req.Active,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toPricingRuleResponse(rule))
	}
}

// AdminPricingRuleDeactivate handles DELETE /api/v1/admin/pricing-rules/{ruleId}.
func AdminPricingRuleDeactivate(svc pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "ruleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeactivatePricingRule(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deactivated"})
	}
}

// AdminDiscountTierCreate handles POST /api/v1/admin/discount-tiers.
func AdminDiscountTierCreate(svc pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req discountTierCreateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tier, err := svc.CreateDiscountTier(r.Context(), pricing.TierInput{
			MinQuantity: req.MinQuantity,
			Percentage:  req.Percentage,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, toDiscountTierResponse(tier))
	}
}

// AdminDiscountTierUpdate handles PATCH /api/v1/admin/discount-tiers/{tierId}.
func AdminDiscountTierUpdate(svc pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "tierId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req discountTierPatchRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tier, err := svc.UpdateDiscountTier(r.Context(), id, pricing.TierPatch{
			MinQuantity: req.MinQuantity,
			Percentage:  req.Percentage,
			Active:      req.Active,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toDiscountTierResponse(tier))
	}
}

// AdminDiscountTierDeactivate handles DELETE /api/v1/admin/discount-tiers/{tierId}.
func AdminDiscountTierDeactivate(svc pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "tierId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeactivateDiscountTier(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deactivated"})
	}
}

// AdminExtraItemCreate handles POST /api/v1/admin/extra-items.
func AdminExtraItemCreate(svc pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req extraItemCreateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		extra, err := svc.CreateExtraItem(r.Context(), pricing.ExtraInput{
			Name:     strings.TrimSpace(req.Name),
			Category: strings.TrimSpace(req.Category),
			Price:    req.Price,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, extraItemResponse{
			ID:       extra.ID.String(),
			Name:     extra.Name,
			Category: extra.Category,
			Price:    extra.Price.StringFixed(2),
		})
	}
}

// AdminExtraItemUpdate handles PATCH /api/v1/admin/extra-items/{extraId}.
func AdminExtraItemUpdate(svc pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "extraId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req extraItemPatchRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		extra, err := svc.UpdateExtraItem(r.Context(), id, pricing.ExtraPatch{
			Name:      req.Name,
			Category:  req.Category,
			Price:     req.Price,
			Available: req.Available,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, extraItemResponse{
			ID:       extra.ID.String(),
			Name:     extra.Name,
			Category: extra.Category,
			Price:    extra.Price.StringFixed(2),
		})
	}
}

// AdminExtraItemRetire handles DELETE /api/v1/admin/extra-items/{extraId}.
func AdminExtraItemRetire(svc pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "extraId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.RetireExtraItem(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "retired"})
	}
}

func parseIDParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid resource id")
	}
	return id, nil
}

func toPricingRuleResponse(rule *models.PricingRule) pricingRuleResponse {
	return pricingRuleResponse{
		ID:           rule.ID.String(),
		ThicknessID:  rule.ThicknessID.String(),
		HeightMin:    rule.HeightMin.String(),
		HeightMax:    rule.HeightMax.String(),
		WidthMin:     rule.WidthMin.String(),
		WidthMax:     rule.WidthMax.String(),
		BasePrice:    rule.BasePrice.StringFixed(2),
		PaintedPrice: rule.PaintedPrice.StringFixed(2),
		Active:       rule.Active,
	}
}

func toDiscountTierResponse(tier *models.DiscountTier) discountTierResponse {
	return discountTierResponse{
		ID:          tier.ID.String(),
		MinQuantity: tier.MinQuantity,
		Percentage:  tier.Percentage.String(),
		Active:      tier.Active,
	}
}
