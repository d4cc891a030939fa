package reviews

import (
	"time"

	"github.com/google/uuid"

	"github.com/arjunkedar/mandisathi-backend/pkg/db/models"
)

// CreateInput captures a buyer's rating of a vendor.
type CreateInput struct {
	VendorID     uuid.UUID
	BuyerID      uuid.UUID
	Rating       int
	Comment      *string
	RescueItemID *uuid.UUID
}

// ListInput filters a vendor's review feed.
type ListInput struct {
	VendorID uuid.UUID
	Limit    int
}

// View is the wire projection of a review.
type View struct {
	ID           uuid.UUID  `json:"id"`
	VendorID     uuid.UUID  `json:"vendorId"`
	BuyerID      uuid.UUID  `json:"buyerId"`
	Rating       int        `json:"rating"`
	Comment      *string    `json:"comment,omitempty"`
	RescueItemID *uuid.UUID `json:"rescueItemId,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// FromModel projects a review row into its wire shape.
func FromModel(review *models.Review) View {
	if review == nil {
		return View{}
	}
	return View{
		ID:           review.ID,
		VendorID:     review.VendorID,
		BuyerID:      review.BuyerID,
		Rating:       review.Rating,
		Comment:      review.Comment,
		RescueItemID: review.RescueItemID,
		CreatedAt:    review.CreatedAt,
	}
}

// FromModels projects a page of reviews.
func FromModels(rows []models.Review) []View {
	views := make([]View, 0, len(rows))
	for i := range rows {
		views = append(views, FromModel(&rows[i]))
	}
	return views
}
