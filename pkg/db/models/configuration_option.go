package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tablerio/tablerio-backend/pkg/enums"
)

// ConfigurationOption is one selectable value for a board dimension.
type ConfigurationOption struct {
	ID           uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Kind         enums.OptionKind `gorm:"column:kind;type:option_kind;not null;uniqueIndex:ux_configuration_options_kind_value_unit"`
	Value        decimal.Decimal  `gorm:"column:value;type:numeric(10,2);not null;uniqueIndex:ux_configuration_options_kind_value_unit"`
	Unit         string           `gorm:"column:unit;not null;uniqueIndex:ux_configuration_options_kind_value_unit"`
	Available    bool             `gorm:"column:available;not null;default:true"`
	DisplayOrder int              `gorm:"column:display_order;not null;default:0"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
