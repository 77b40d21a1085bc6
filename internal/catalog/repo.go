package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tablerio/tablerio-backend/internal/repo"
	"github.com/tablerio/tablerio-backend/pkg/db/models"
	"github.com/tablerio/tablerio-backend/pkg/enums"
	pkgerrors "github.com/tablerio/tablerio-backend/pkg/errors"
)

// Repository reads the configuration catalog: dimension options and extra
// items. The catalog is authored by an external admin workflow; this side
// only ever filters on availability.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// ListOptions returns the available options of one kind in display order.
func (r *Repository) ListOptions(ctx context.Context, kind enums.OptionKind) ([]models.ConfigurationOption, error) {
	var options []models.ConfigurationOption
	if err := r.DB(ctx).
		Where("kind = ? AND available = ?", kind, true).
		Order("display_order asc").
		Find(&options).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing configuration options")
	}
	return options, nil
}

// FindOption loads one option by id regardless of availability; callers
// decide what an unavailable option means.
func (r *Repository) FindOption(ctx context.Context, id uuid.UUID) (*models.ConfigurationOption, error) {
	var option models.ConfigurationOption
	if err := r.DB(ctx).First(&option, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "configuration option not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading configuration option")
	}
	return &option, nil
}

// ListAvailableExtras returns every available extra item, ordered by name.
func (r *Repository) ListAvailableExtras(ctx context.Context) ([]models.ExtraItem, error) {
	var extras []models.ExtraItem
	if err := r.DB(ctx).
		Where("available = ?", true).
		Order("name asc").
		Find(&extras).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing extra items")
	}
	return extras, nil
}
