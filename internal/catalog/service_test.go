package catalog

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tablerio/tablerio-backend/pkg/db/models"
	"github.com/tablerio/tablerio-backend/pkg/enums"
)

type stubCatalogRepo struct {
	options map[enums.OptionKind][]models.ConfigurationOption
	extras  []models.ExtraItem

	optionCalls int
	extraCalls  int
}

func (s *stubCatalogRepo) ListOptions(_ context.Context, kind enums.OptionKind) ([]models.ConfigurationOption, error) {
	s.optionCalls++
	return s.options[kind], nil
}

func (s *stubCatalogRepo) ListAvailableExtras(context.Context) ([]models.ExtraItem, error) {
	s.extraCalls++
	return s.extras, nil
}

type stubCatalogCache struct {
	options map[string][]byte
	extras  []byte
}

func (s *stubCatalogCache) FetchCatalogOptions(_ context.Context, kind string, dest any) bool {
	raw, ok := s.options[kind]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

func (s *stubCatalogCache) PopulateCatalogOptions(_ context.Context, kind string, value any) {
	if s.options == nil {
		s.options = map[string][]byte{}
	}
	s.options[kind], _ = json.Marshal(value)
}

func (s *stubCatalogCache) FetchActiveExtras(_ context.Context, dest any) bool {
	if s.extras == nil {
		return false
	}
	return json.Unmarshal(s.extras, dest) == nil
}

func (s *stubCatalogCache) PopulateActiveExtras(_ context.Context, value any) {
	s.extras, _ = json.Marshal(value)
}

func TestListOptionsCacheAside(t *testing.T) {
	t.Parallel()

	repo := &stubCatalogRepo{options: map[enums.OptionKind][]models.ConfigurationOption{
		enums.OptionKindThickness: {{
			ID:    uuid.New(),
			Kind:  enums.OptionKindThickness,
			Value: decimal.RequireFromString("3"),
			Unit:  "mm",
		}},
	}}
	svc, err := NewService(repo, &stubCatalogCache{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		options, err := svc.ListOptions(ctx, enums.OptionKindThickness)
		if err != nil {
			t.Fatalf("list options: %v", err)
		}
		if len(options) != 1 {
			t.Fatalf("unexpected options %v", options)
		}
	}

	if repo.optionCalls != 1 {
		t.Fatalf("expected one repository hit, got %d", repo.optionCalls)
	}
}

func TestListOptionsKindsCacheIndependently(t *testing.T) {
	t.Parallel()

	repo := &stubCatalogRepo{options: map[enums.OptionKind][]models.ConfigurationOption{
		enums.OptionKindHeight: {{ID: uuid.New(), Kind: enums.OptionKindHeight, Value: decimal.RequireFromString("40"), Unit: "cm"}},
		enums.OptionKindWidth:  {{ID: uuid.New(), Kind: enums.OptionKindWidth, Value: decimal.RequireFromString("25"), Unit: "cm"}},
	}}
	svc, err := NewService(repo, &stubCatalogCache{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	ctx := context.Background()
	if _, err := svc.ListOptions(ctx, enums.OptionKindHeight); err != nil {
		t.Fatalf("heights: %v", err)
	}
	if _, err := svc.ListOptions(ctx, enums.OptionKindWidth); err != nil {
		t.Fatalf("widths: %v", err)
	}

	if repo.optionCalls != 2 {
		t.Fatalf("each kind needs its own first read, got %d", repo.optionCalls)
	}
}

func TestListExtrasCacheAside(t *testing.T) {
	t.Parallel()

	repo := &stubCatalogRepo{extras: []models.ExtraItem{{
		ID:    uuid.New(),
		Name:  "Wall mount kit",
		Price: decimal.RequireFromString("15.00"),
	}}}
	svc, err := NewService(repo, &stubCatalogCache{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		extras, err := svc.ListExtras(ctx)
		if err != nil {
			t.Fatalf("list extras: %v", err)
		}
		if len(extras) != 1 || extras[0].Name != "Wall mount kit" {
			t.Fatalf("unexpected extras %v", extras)
		}
	}

	if repo.extraCalls != 1 {
		t.Fatalf("expected one repository hit, got %d", repo.extraCalls)
	}
}
