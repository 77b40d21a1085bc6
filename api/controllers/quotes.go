package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tablerio/tablerio-backend/api/responses"
	"github.com/tablerio/tablerio-backend/api/validators"
	"github.com/tablerio/tablerio-backend/internal/quotes"
	pkgerrors "github.com/tablerio/tablerio-backend/pkg/errors"
	"github.com/tablerio/tablerio-backend/pkg/logger"
)

type quoteExtraRequest struct {
	ID       string `json:"id" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

type quoteRequest struct {
	ThicknessID    string              `json:"thickness_id" validate:"required"`
	Height         decimal.Decimal     `json:"height" validate:"required"`
	Width          decimal.Decimal     `json:"width" validate:"required"`
	Painted        bool                `json:"painted"`
	Quantity       int                 `json:"quantity" validate:"required,min=1"`
	ExtraItems     []quoteExtraRequest `json:"extra_items" validate:"dive"`
	OrderItemCount int                 `json:"order_item_count" validate:"min=0"`
}

func (r quoteRequest) toInput() (quotes.Input, error) {
	thicknessID, err := uuid.Parse(strings.TrimSpace(r.ThicknessID))
	if err != nil {
		return quotes.Input{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid thickness_id")
	}

	extras := make([]quotes.ExtraSelection, 0, len(r.ExtraItems))
	for _, extra := range r.ExtraItems {
		extraID, err := uuid.Parse(strings.TrimSpace(extra.ID))
		if err != nil {
			return quotes.Input{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid extra item id")
		}
		extras = append(extras, quotes.ExtraSelection{ID: extraID, Quantity: extra.Quantity})
	}

	return quotes.Input{
		ThicknessID:    thicknessID,
		Height:         r.Height,
		Width:          r.Width,
		Painted:        r.Painted,
		Quantity:       r.Quantity,
		Extras:         extras,
		OrderItemCount: r.OrderItemCount,
	}, nil
}

// QuoteCompute handles POST /api/v1/quotes.
func QuoteCompute(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote service unavailable"))
			return
		}

		var req quoteRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := req.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.ComputeQuote(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, quote)
	}
}
