package profiles

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arjunkedar/mandisathi-backend/pkg/db/models"
)

// Repository exposes vendor profile persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, profile *models.VendorProfile) (*models.VendorProfile, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.VendorProfile, error)
	UpdateFields(ctx context.Context, userID uuid.UUID, fields map[string]any) error
}
