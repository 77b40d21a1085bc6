package catalog

import (
	"context"
	"fmt"

	"github.com/tablerio/tablerio-backend/pkg/db/models"
	"github.com/tablerio/tablerio-backend/pkg/enums"
)

type catalogRepository interface {
	ListOptions(ctx context.Context, kind enums.OptionKind) ([]models.ConfigurationOption, error)
	ListAvailableExtras(ctx context.Context) ([]models.ExtraItem, error)
}

type catalogCache interface {
	FetchCatalogOptions(ctx context.Context, kind string, dest any) bool
	PopulateCatalogOptions(ctx context.Context, kind string, value any)
	FetchActiveExtras(ctx context.Context, dest any) bool
	PopulateActiveExtras(ctx context.Context, value any)
}

// Service serves the configuration catalog read paths, cache-aside.
type Service interface {
	ListOptions(ctx context.Context, kind enums.OptionKind) ([]models.ConfigurationOption, error)
	ListExtras(ctx context.Context) ([]models.ExtraItem, error)
}

type service struct {
	repo  catalogRepository
	cache catalogCache
}

// NewService wires the catalog repository behind the cache façade.
func NewService(repo catalogRepository, cache catalogCache) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if cache == nil {
		return nil, fmt.Errorf("cache façade required")
	}
	return &service{repo: repo, cache: cache}, nil
}

func (s *service) ListOptions(ctx context.Context, kind enums.OptionKind) ([]models.ConfigurationOption, error) {
	var options []models.ConfigurationOption
	if s.cache.FetchCatalogOptions(ctx, kind.String(), &options) {
		return options, nil
	}
	options, err := s.repo.ListOptions(ctx, kind)
	if err != nil {
		return nil, err
	}
	s.cache.PopulateCatalogOptions(ctx, kind.String(), options)
	return options, nil
}

func (s *service) ListExtras(ctx context.Context) ([]models.ExtraItem, error) {
	var extras []models.ExtraItem
	if s.cache.FetchActiveExtras(ctx, &extras) {
		return extras, nil
	}
	extras, err := s.repo.ListAvailableExtras(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.PopulateActiveExtras(ctx, extras)
	return extras, nil
}
