package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is an append-only buyer rating of a vendor, optionally tied to a
// rescue item hand-off.
type Review struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	VendorID     uuid.UUID  `gorm:"column:vendor_id;type:uuid;not null;index"`
	BuyerID      uuid.UUID  `gorm:"column:buyer_id;type:uuid;not null"`
	Rating       int        `gorm:"column:rating;not null"`
	Comment      *string    `gorm:"column:comment"`
	RescueItemID *uuid.UUID `gorm:"column:rescue_item_id;type:uuid"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
}
