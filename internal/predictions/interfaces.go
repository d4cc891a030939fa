package predictions

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arjunkedar/mandisathi-backend/pkg/db/models"
)

// Repository exposes forecast persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, prediction *models.Prediction) (*models.Prediction, error)
	LatestByVendor(ctx context.Context, vendorID uuid.UUID) (*models.Prediction, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID, limit int) ([]models.Prediction, error)
}

// Provider generates ranked ingredient suggestions for the given conditions.
type Provider interface {
	Suggest(ctx context.Context, input SuggestInput) ([]SuggestedItem, error)
}
