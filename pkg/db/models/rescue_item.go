package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/arjunkedar/mandisathi-backend/pkg/enums"
)

// RescueItem is a discounted surplus listing. claimed_by is non-null exactly
// when status has left 'available'; the available→claimed transition happens
// through a single compare-and-set UPDATE.
type RescueItem struct {
	ID            uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	VendorID      uuid.UUID              `gorm:"column:vendor_id;type:uuid;not null"`
	Title         string                 `gorm:"column:title;not null"`
	Description   string                 `gorm:"column:description;not null"`
	Type          enums.RescueItemType   `gorm:"column:type;type:rescue_item_type;not null"`
	Quantity      string                 `gorm:"column:quantity;not null"`
	OriginalPrice decimal.Decimal        `gorm:"column:original_price;type:numeric(8,2);not null"`
	RescuePrice   decimal.Decimal        `gorm:"column:rescue_price;type:numeric(8,2);not null"`
	City          string                 `gorm:"column:city;not null;index"`
	Status        enums.RescueItemStatus `gorm:"column:status;type:rescue_item_status;not null;default:'available'"`
	IsHot         bool                   `gorm:"column:is_hot;not null;default:false"`
	ClaimedBy     *uuid.UUID             `gorm:"column:claimed_by;type:uuid"`
	CreatedAt     time.Time              `gorm:"column:created_at;autoCreateTime"`
}
