package profiles

import (
	"time"

	"github.com/google/uuid"

	"github.com/arjunkedar/mandisathi-backend/pkg/db/models"
)

// Activity names the trust-building actions a vendor can perform.
type Activity string

const (
	ActivityPrediction Activity = "ai_prediction"
	ActivityGroupBuy   Activity = "group_buy"
	ActivityRescue     Activity = "rescue_post"
)

// IsValid reports whether the activity is one of the tracked kinds.
func (a Activity) IsValid() bool {
	switch a {
	case ActivityPrediction, ActivityGroupBuy, ActivityRescue:
		return true
	}
	return false
}

// UpdateInput carries the caller-editable profile fields; nil means unchanged.
type UpdateInput struct {
	BusinessName   *string
	SourcingMethod *string
}

// View is the wire projection of a vendor's trust profile.
type View struct {
	ID                   uuid.UUID `json:"id"`
	UserID               uuid.UUID `json:"userId"`
	BusinessName         string    `json:"businessName"`
	SourcingMethod       *string   `json:"sourcingMethod,omitempty"`
	TrustScore           int       `json:"trustScore"`
	HasTrustBadge        bool      `json:"hasTrustBadge"`
	UsedAiPrediction     bool      `json:"usedAiPrediction"`
	ParticipatedGroupBuy bool      `json:"participatedGroupBuy"`
	PostedRescueItem     bool      `json:"postedRescueItem"`
	LastActivityDate     time.Time `json:"lastActivityDate"`
}

// FromModel projects a profile row into its wire shape.
func FromModel(profile *models.VendorProfile) View {
	if profile == nil {
		return View{}
	}
	return View{
		ID:                   profile.ID,
		UserID:               profile.UserID,
		BusinessName:         profile.BusinessName,
		SourcingMethod:       profile.SourcingMethod,
		TrustScore:           profile.TrustScore,
		HasTrustBadge:        profile.HasTrustBadge,
		UsedAiPrediction:     profile.UsedAiPrediction,
		ParticipatedGroupBuy: profile.ParticipatedGroupBuy,
		PostedRescueItem:     profile.PostedRescueItem,
		LastActivityDate:     profile.LastActivityDate,
	}
}
