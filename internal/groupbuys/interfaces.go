package groupbuys

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/arjunkedar/mandisathi-backend/pkg/db/models"
	"github.com/arjunkedar/mandisathi-backend/pkg/enums"
)

// Repository exposes group buy persistence. JoinIncrement and
// UpdateStatusFromActive are guarded single-statement updates; both report the
// number of rows they touched so the service can distinguish a missing pool
// from one in the wrong state.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, groupBuy *models.GroupBuy) (*models.GroupBuy, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.GroupBuy, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	ListByCity(ctx context.Context, city string, status enums.GroupBuyStatus, limit int) ([]models.GroupBuy, error)
	JoinIncrement(ctx context.Context, id uuid.UUID, quantity decimal.Decimal) (int64, error)
	AddParticipant(ctx context.Context, participant *models.GroupBuyParticipant) error
	ListParticipants(ctx context.Context, groupBuyID uuid.UUID) ([]models.GroupBuyParticipant, error)
	UpdateStatusFromActive(ctx context.Context, id uuid.UUID, status enums.GroupBuyStatus) (int64, error)
}
