package predictions

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arjunkedar/mandisathi-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a predictions repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, prediction *models.Prediction) (*models.Prediction, error) {
	if err := r.db.WithContext(ctx).Create(prediction).Error; err != nil {
		return nil, err
	}
	return prediction, nil
}

func (r *repository) LatestByVendor(ctx context.Context, vendorID uuid.UUID) (*models.Prediction, error) {
	var prediction models.Prediction
	err := r.db.WithContext(ctx).
		Where("vendor_id = ?", vendorID).
		Order("date DESC").
		Order("id DESC").
		First(&prediction).Error
	if err != nil {
		return nil, err
	}
	return &prediction, nil
}

func (r *repository) ListByVendor(ctx context.Context, vendorID uuid.UUID, limit int) ([]models.Prediction, error) {
	var rows []models.Prediction
	err := r.db.WithContext(ctx).
		Where("vendor_id = ?", vendorID).
		Order("date DESC").
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
