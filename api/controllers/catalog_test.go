package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tablerio/tablerio-backend/pkg/db/models"
	"github.com/tablerio/tablerio-backend/pkg/enums"
	"github.com/tablerio/tablerio-backend/pkg/types"
)

type stubCatalogService struct {
	options map[enums.OptionKind][]models.ConfigurationOption
	extras  []models.ExtraItem
}

func (s *stubCatalogService) ListOptions(_ context.Context, kind enums.OptionKind) ([]models.ConfigurationOption, error) {
	return s.options[kind], nil
}

func (s *stubCatalogService) ListExtras(context.Context) ([]models.ExtraItem, error) {
	return s.extras, nil
}

func TestCatalogOptions(t *testing.T) {
	logg := testLogger()
	stub := &stubCatalogService{options: map[enums.OptionKind][]models.ConfigurationOption{
		enums.OptionKindThickness: {{
			ID:        uuid.New(),
			Kind:      enums.OptionKindThickness,
			Value:     decimal.RequireFromString("3"),
			Unit:      "mm",
			Available: true,
		}},
	}}

	t.Run("success", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/options?kind=thickness", nil)
		rec := httptest.NewRecorder()
		CatalogOptions(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var envelope types.SuccessEnvelope
		if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
			t.Fatalf("decode envelope: %v", err)
		}
		items := envelope.Data.([]any)
		if len(items) != 1 {
			t.Fatalf("expected one option, got %d", len(items))
		}
		option := items[0].(map[string]any)
		if option["value"] != "3" || option["unit"] != "mm" {
			t.Fatalf("unexpected option payload %v", option)
		}
	})

	t.Run("missing kind", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/options", nil)
		rec := httptest.NewRecorder()
		CatalogOptions(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 without kind, got %d", rec.Code)
		}
	})

	t.Run("bad kind", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/options?kind=depth", nil)
		rec := httptest.NewRecorder()
		CatalogOptions(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for unknown kind, got %d", rec.Code)
		}
	})
}

func TestCatalogExtras(t *testing.T) {
	logg := testLogger()
	stub := &stubCatalogService{extras: []models.ExtraItem{{
		ID:        uuid.New(),
		Name:      "Wall mount kit",
		Category:  "mounting",
		Price:     decimal.RequireFromString("15"),
		Available: true,
	}}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/extras", nil)
	rec := httptest.NewRecorder()
	CatalogExtras(stub, logg).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope types.SuccessEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	items := envelope.Data.([]any)
	if len(items) != 1 {
		t.Fatalf("expected one extra, got %d", len(items))
	}
	extra := items[0].(map[string]any)
	if extra["name"] != "Wall mount kit" {
		t.Fatalf("unexpected name %v", extra["name"])
	}
	if extra["price"] != "15.00" {
		t.Fatalf("price should render with two decimals, got %v", extra["price"])
	}
}
