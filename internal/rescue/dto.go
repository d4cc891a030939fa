package rescue

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/arjunkedar/mandisathi-backend/pkg/db/models"
)

// CreateInput captures a new surplus listing.
type CreateInput struct {
	VendorID      uuid.UUID
	VendorRole    string
	Title         string
	Description   string
	Type          string
	Quantity      string
	OriginalPrice decimal.Decimal
	RescuePrice   decimal.Decimal
	City          string
	IsHot         bool
}

// ClaimInput captures one buyer's attempt to claim a listing.
type ClaimInput struct {
	ItemID     uuid.UUID
	ClaimantID uuid.UUID
	ActorRole  string
}

// CompleteInput captures the hand-off confirmation by the posting vendor.
type CompleteInput struct {
	ItemID    uuid.UUID
	ActorID   uuid.UUID
	ActorRole string
}

// ListInput filters the city feed.
type ListInput struct {
	City   string
	Status string
	Limit  int
}

// PostedEvent is emitted when a listing goes live.
type PostedEvent struct {
	ItemID      uuid.UUID       `json:"item_id"`
	VendorID    uuid.UUID       `json:"vendor_id"`
	Title       string          `json:"title"`
	RescuePrice decimal.Decimal `json:"rescue_price"`
	City        string          `json:"city"`
}

// ClaimedEvent is emitted exactly once per listing, for the winning claimant.
type ClaimedEvent struct {
	ItemID     uuid.UUID `json:"item_id"`
	ClaimantID uuid.UUID `json:"claimant_id"`
}

// CompletedEvent is emitted when the hand-off is confirmed.
type CompletedEvent struct {
	ItemID     uuid.UUID `json:"item_id"`
	ClaimantID uuid.UUID `json:"claimant_id"`
}

// View is the wire projection of a listing.
type View struct {
	ID            uuid.UUID       `json:"id"`
	VendorID      uuid.UUID       `json:"vendorId"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Type          string          `json:"type"`
	Quantity      string          `json:"quantity"`
	OriginalPrice decimal.Decimal `json:"originalPrice"`
	RescuePrice   decimal.Decimal `json:"rescuePrice"`
	City          string          `json:"city"`
	Status        string          `json:"status"`
	IsHot         bool            `json:"isHot"`
	ClaimedBy     *uuid.UUID      `json:"claimedBy,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// FromModel projects a listing row into its wire shape.
func FromModel(item *models.RescueItem) View {
	if item == nil {
		return View{}
	}
	return View{
		ID:            item.ID,
		VendorID:      item.VendorID,
		Title:         item.Title,
		Description:   item.Description,
		Type:          string(item.Type),
		Quantity:      item.Quantity,
		OriginalPrice: item.OriginalPrice,
		RescuePrice:   item.RescuePrice,
		City:          item.City,
		Status:        string(item.Status),
		IsHot:         item.IsHot,
		ClaimedBy:     item.ClaimedBy,
		CreatedAt:     item.CreatedAt,
	}
}

// FromModels projects a page of listings.
func FromModels(rows []models.RescueItem) []View {
	views := make([]View, 0, len(rows))
	for i := range rows {
		views = append(views, FromModel(&rows[i]))
	}
	return views
}
