package reviews

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arjunkedar/mandisathi-backend/pkg/db/models"
)

// Repository exposes review persistence plus the vendor rating aggregate.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, review *models.Review) (*models.Review, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID, limit int) ([]models.Review, error)
	ApplyRatingAggregate(ctx context.Context, vendorID uuid.UUID, rating int) (int64, error)
}
