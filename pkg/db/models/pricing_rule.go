package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PricingRule prices a height/width band for one thickness. Bands carry no
// uniqueness constraint and may overlap; resolution order is the resolver's
// concern, not the schema's.
type PricingRule struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ThicknessID  uuid.UUID       `gorm:"column:thickness_id;type:uuid;not null;index"`
	HeightMin    decimal.Decimal `gorm:"column:height_min;type:numeric(10,2);not null"`
	HeightMax    decimal.Decimal `gorm:"column:height_max;type:numeric(10,2);not null"`
	WidthMin     decimal.Decimal `gorm:"column:width_min;type:numeric(10,2);not null"`
	WidthMax     decimal.Decimal `gorm:"column:width_max;type:numeric(10,2);not null"`
	BasePrice    decimal.Decimal `gorm:"column:base_price;type:numeric(12,2);not null"`
	PaintedPrice decimal.Decimal `gorm:"column:painted_price;type:numeric(12,2);not null"`
	Active       bool            `gorm:"column:active;not null;default:true"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
