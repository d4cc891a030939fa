package users

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/arjunkedar/mandisathi-backend/pkg/db/models"
	"github.com/arjunkedar/mandisathi-backend/pkg/enums"
)

// Summary is the wire-safe projection of a user, with the credential hash
// stripped.
type Summary struct {
	ID           uuid.UUID       `json:"id"`
	Username     string          `json:"username"`
	Email        string          `json:"email"`
	Role         enums.UserRole  `json:"role"`
	City         string          `json:"city"`
	ProfileImage *string         `json:"profileImage,omitempty"`
	Rating       decimal.Decimal `json:"rating"`
	ReviewCount  int             `json:"reviewCount"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// FromModel projects a user row into its wire shape.
func FromModel(user *models.User) Summary {
	if user == nil {
		return Summary{}
	}
	return Summary{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		Role:         user.Role,
		City:         user.City,
		ProfileImage: user.ProfileImage,
		Rating:       user.Rating,
		ReviewCount:  user.ReviewCount,
		CreatedAt:    user.CreatedAt,
	}
}
