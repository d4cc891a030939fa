package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/arjunkedar/mandisathi-backend/pkg/enums"
)

// GroupBuy represents a pooled purchase for one ingredient in one city.
// current_quantity and participant_count are only ever changed through an
// atomic SQL increment guarded on status = 'active'.
type GroupBuy struct {
	ID               uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrganizerID      uuid.UUID            `gorm:"column:organizer_id;type:uuid;not null"`
	Ingredient       string               `gorm:"column:ingredient;not null"`
	TargetQuantity   decimal.Decimal      `gorm:"column:target_quantity;type:numeric(8,2);not null"`
	CurrentQuantity  decimal.Decimal      `gorm:"column:current_quantity;type:numeric(8,2);not null;default:0"`
	PricePerKg       decimal.Decimal      `gorm:"column:price_per_kg;type:numeric(8,2);not null"`
	OriginalPrice    decimal.Decimal      `gorm:"column:original_price;type:numeric(8,2);not null"`
	City             string               `gorm:"column:city;not null;index"`
	Deadline         time.Time            `gorm:"column:deadline;not null"`
	Status           enums.GroupBuyStatus `gorm:"column:status;type:group_buy_status;not null;default:'active'"`
	ParticipantCount int                  `gorm:"column:participant_count;not null;default:1"`
	Participants     []GroupBuyParticipant `gorm:"foreignKey:GroupBuyID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time            `gorm:"column:created_at;autoCreateTime"`
}

// GroupBuyParticipant is one append-only ledger row of a vendor's contribution.
type GroupBuyParticipant struct {
	ID         uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	GroupBuyID uuid.UUID       `gorm:"column:group_buy_id;type:uuid;not null;index"`
	VendorID   uuid.UUID       `gorm:"column:vendor_id;type:uuid;not null"`
	Quantity   decimal.Decimal `gorm:"column:quantity;type:numeric(8,2);not null"`
	JoinedAt   time.Time       `gorm:"column:joined_at;autoCreateTime"`
}
