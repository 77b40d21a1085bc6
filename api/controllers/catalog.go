package controllers

import (
	"net/http"
	"strings"

	"github.com/tablerio/tablerio-backend/api/responses"
	"github.com/tablerio/tablerio-backend/internal/catalog"
	"github.com/tablerio/tablerio-backend/pkg/db/models"
	"github.com/tablerio/tablerio-backend/pkg/enums"
	pkgerrors "github.com/tablerio/tablerio-backend/pkg/errors"
	"github.com/tablerio/tablerio-backend/pkg/logger"
)

type optionResponse struct {
	ID           string `json:"id"`
	Kind         string `json:"kind"`
	Value        string `json:"value"`
	Unit         string `json:"unit"`
	DisplayOrder int    `json:"display_order"`
}

type extraItemResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Price    string `json:"price"`
}

// CatalogOptions handles GET /api/v1/catalog/options?kind=.
func CatalogOptions(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		kind, err := enums.ParseOptionKind(strings.TrimSpace(r.URL.Query().Get("kind")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "kind must be thickness, height, or width"))
			return
		}

		options, err := svc.ListOptions(r.Context(), kind)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payload := make([]optionResponse, 0, len(options))
		for _, option := range options {
			payload = append(payload, toOptionResponse(option))
		}
		responses.WriteSuccess(w, payload)
	}
}

// CatalogExtras handles GET /api/v1/catalog/extras.
func CatalogExtras(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		extras, err := svc.ListExtras(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payload := make([]extraItemResponse, 0, len(extras))
		for _, extra := range extras {
			payload = append(payload, extraItemResponse{
				ID:       extra.ID.String(),
				Name:     extra.Name,
				Category: extra.Category,
				Price:    extra.Price.StringFixed(2),
			})
		}
		responses.WriteSuccess(w, payload)
	}
}

func toOptionResponse(option models.ConfigurationOption) optionResponse {
	return optionResponse{
		ID:           option.ID.String(),
		Kind:         option.Kind.String(),
		Value:        option.Value.String(),
		Unit:         option.Unit,
		DisplayOrder: option.DisplayOrder,
	}
}
