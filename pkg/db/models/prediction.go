package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/arjunkedar/mandisathi-backend/pkg/types"
)

// Prediction is one append-only forecast snapshot; "latest" is the most
// recent row by date for a vendor.
type Prediction struct {
	ID           uuid.UUID             `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	VendorID     uuid.UUID             `gorm:"column:vendor_id;type:uuid;not null;index"`
	City         string                `gorm:"column:city;not null"`
	Weather      *string               `gorm:"column:weather"`
	TemperatureC *decimal.Decimal      `gorm:"column:temperature;type:numeric(4,1)"`
	Items        types.PredictionItems `gorm:"column:items;type:jsonb;not null"`
	Confidence   *decimal.Decimal      `gorm:"column:confidence;type:numeric(3,2)"`
	Date         time.Time             `gorm:"column:date;autoCreateTime"`
}
