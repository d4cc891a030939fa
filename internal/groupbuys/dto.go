package groupbuys

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/arjunkedar/mandisathi-backend/pkg/db/models"
)

// CreateInput captures a new pooled purchase.
type CreateInput struct {
	OrganizerID    uuid.UUID
	OrganizerRole  string
	OrganizerCity  string
	Ingredient     string
	TargetQuantity decimal.Decimal
	PricePerKg     decimal.Decimal
	OriginalPrice  decimal.Decimal
	City           string
	Deadline       time.Time
}

// JoinInput captures one vendor's contribution to an open pool.
type JoinInput struct {
	GroupBuyID uuid.UUID
	VendorID   uuid.UUID
	VendorRole string
	Quantity   decimal.Decimal
}

// CloseInput captures an organizer's terminal transition request.
type CloseInput struct {
	GroupBuyID uuid.UUID
	ActorID    uuid.UUID
	ActorRole  string
	Completed  bool
}

// ListInput filters the city feed.
type ListInput struct {
	City   string
	Status string
	Limit  int
}

// CreatedEvent is emitted when a pool opens.
type CreatedEvent struct {
	GroupBuyID     uuid.UUID       `json:"group_buy_id"`
	OrganizerID    uuid.UUID       `json:"organizer_id"`
	Ingredient     string          `json:"ingredient"`
	TargetQuantity decimal.Decimal `json:"target_quantity"`
	City           string          `json:"city"`
	Deadline       time.Time       `json:"deadline"`
}

// JoinedEvent is emitted for every accepted contribution.
type JoinedEvent struct {
	GroupBuyID uuid.UUID       `json:"group_buy_id"`
	VendorID   uuid.UUID       `json:"vendor_id"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// ClosedEvent is emitted when a pool reaches a terminal state.
type ClosedEvent struct {
	GroupBuyID uuid.UUID `json:"group_buy_id"`
	Status     string    `json:"status"`
}

// View is the wire projection of a pool.
type View struct {
	ID               uuid.UUID       `json:"id"`
	OrganizerID      uuid.UUID       `json:"organizerId"`
	Ingredient       string          `json:"ingredient"`
	TargetQuantity   decimal.Decimal `json:"targetQuantity"`
	CurrentQuantity  decimal.Decimal `json:"currentQuantity"`
	PricePerKg       decimal.Decimal `json:"pricePerKg"`
	OriginalPrice    decimal.Decimal `json:"originalPrice"`
	City             string          `json:"city"`
	Deadline         time.Time       `json:"deadline"`
	Status           string          `json:"status"`
	ParticipantCount int             `json:"participantCount"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// ParticipantView is the wire projection of one contribution row.
type ParticipantView struct {
	ID         uuid.UUID       `json:"id"`
	GroupBuyID uuid.UUID       `json:"groupBuyId"`
	VendorID   uuid.UUID       `json:"vendorId"`
	Quantity   decimal.Decimal `json:"quantity"`
	JoinedAt   time.Time       `json:"joinedAt"`
}

// FromModel projects a pool row into its wire shape.
func FromModel(gb *models.GroupBuy) View {
	if gb == nil {
		return View{}
	}
	return View{
		ID:               gb.ID,
		OrganizerID:      gb.OrganizerID,
		Ingredient:       gb.Ingredient,
		TargetQuantity:   gb.TargetQuantity,
		CurrentQuantity:  gb.CurrentQuantity,
		PricePerKg:       gb.PricePerKg,
		OriginalPrice:    gb.OriginalPrice,
		City:             gb.City,
		Deadline:         gb.Deadline,
		Status:           string(gb.Status),
		ParticipantCount: gb.ParticipantCount,
		CreatedAt:        gb.CreatedAt,
	}
}

// FromModels projects a page of pools.
func FromModels(rows []models.GroupBuy) []View {
	views := make([]View, 0, len(rows))
	for i := range rows {
		views = append(views, FromModel(&rows[i]))
	}
	return views
}

// FromParticipant projects one contribution row.
func FromParticipant(p *models.GroupBuyParticipant) ParticipantView {
	if p == nil {
		return ParticipantView{}
	}
	return ParticipantView{
		ID:         p.ID,
		GroupBuyID: p.GroupBuyID,
		VendorID:   p.VendorID,
		Quantity:   p.Quantity,
		JoinedAt:   p.JoinedAt,
	}
}

// FromParticipants projects the contribution ledger.
func FromParticipants(rows []models.GroupBuyParticipant) []ParticipantView {
	views := make([]ParticipantView, 0, len(rows))
	for i := range rows {
		views = append(views, FromParticipant(&rows[i]))
	}
	return views
}
