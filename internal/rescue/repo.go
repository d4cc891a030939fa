package rescue

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arjunkedar/mandisathi-backend/pkg/db/models"
	"github.com/arjunkedar/mandisathi-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a rescue listing repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, item *models.RescueItem) (*models.RescueItem, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.RescueItem, error) {
	var item models.RescueItem
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) ListByCity(ctx context.Context, city string, status enums.RescueItemStatus, limit int) ([]models.RescueItem, error) {
	var rows []models.RescueItem
	q := r.db.WithContext(ctx).Where("city = ?", city)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// Claim flips available → claimed in one statement. Losing racers match zero
// rows because the status predicate no longer holds; the vendor_id predicate
// keeps vendors from claiming their own listing.
func (r *repository) Claim(ctx context.Context, id uuid.UUID, claimantID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.RescueItem{}).
		Where("id = ? AND status = ? AND vendor_id <> ?", id, enums.RescueItemStatusAvailable, claimantID).
		Updates(map[string]any{
			"status":     enums.RescueItemStatusClaimed,
			"claimed_by": claimantID,
		})
	return res.RowsAffected, res.Error
}

func (r *repository) Complete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.RescueItem{}).
		Where("id = ? AND status = ?", id, enums.RescueItemStatusClaimed).
		Updates(map[string]any{"status": enums.RescueItemStatusCompleted})
	return res.RowsAffected, res.Error
}
