package rescue

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arjunkedar/mandisathi-backend/pkg/db/models"
	"github.com/arjunkedar/mandisathi-backend/pkg/enums"
)

// Repository exposes rescue listing persistence. Claim and Complete are
// guarded single-statement transitions reporting touched rows, which is how
// at-most-one claimant is enforced under concurrency.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, item *models.RescueItem) (*models.RescueItem, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.RescueItem, error)
	ListByCity(ctx context.Context, city string, status enums.RescueItemStatus, limit int) ([]models.RescueItem, error)
	Claim(ctx context.Context, id uuid.UUID, claimantID uuid.UUID) (int64, error)
	Complete(ctx context.Context, id uuid.UUID) (int64, error)
}
