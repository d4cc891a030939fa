package groupbuys

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/arjunkedar/mandisathi-backend/pkg/db/models"
	"github.com/arjunkedar/mandisathi-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a group buy repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, groupBuy *models.GroupBuy) (*models.GroupBuy, error) {
	if err := r.db.WithContext(ctx).Create(groupBuy).Error; err != nil {
		return nil, err
	}
	return groupBuy, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.GroupBuy, error) {
	var groupBuy models.GroupBuy
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&groupBuy).Error
	if err != nil {
		return nil, err
	}
	return &groupBuy, nil
}

func (r *repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.GroupBuy{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) ListByCity(ctx context.Context, city string, status enums.GroupBuyStatus, limit int) ([]models.GroupBuy, error) {
	var rows []models.GroupBuy
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

// JoinIncrement folds the contribution into the pool in one statement. The
// status guard makes the update a no-op for closed pools, so concurrent joins
// can never resurrect or over-count a terminal pool.
func (r *repository) JoinIncrement(ctx context.Context, id uuid.UUID, quantity decimal.Decimal) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.GroupBuy{}).
		Where("id = ? AND status = ?", id, enums.GroupBuyStatusActive).
		Updates(map[string]any{
			"current_quantity":  gorm.Expr("current_quantity + ?", quantity),
			"participant_count": gorm.Expr("participant_count + 1"),
		})
	return res.RowsAffected, res.Error
}

func (r *repository) AddParticipant(ctx context.Context, participant *models.GroupBuyParticipant) error {
	return r.db.WithContext(ctx).Create(participant).Error
}

func (r *repository) ListParticipants(ctx context.Context, groupBuyID uuid.UUID) ([]models.GroupBuyParticipant, error) {
	var rows []models.GroupBuyParticipant
	err := r.db.WithContext(ctx).
		Where("group_buy_id = ?", groupBuyID).
		Order("joined_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) UpdateStatusFromActive(ctx context.Context, id uuid.UUID, status enums.GroupBuyStatus) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.GroupBuy{}).
		Where("id = ? AND status = ?", id, enums.GroupBuyStatusActive).
		Updates(map[string]any{"status": status})
	return res.RowsAffected, res.Error
}
