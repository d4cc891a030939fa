package reviews

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arjunkedar/mandisathi-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a reviews repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, review *models.Review) (*models.Review, error) {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		return nil, err
	}
	return review, nil
}

func (r *repository) ListByVendor(ctx context.Context, vendorID uuid.UUID, limit int) ([]models.Review, error) {
	var rows []models.Review
	err := r.db.WithContext(ctx).
		Where("vendor_id = ?", vendorID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// ApplyRatingAggregate folds one new rating into the vendor's running average
// in a single statement, so concurrent reviews never clobber each other.
func (r *repository) ApplyRatingAggregate(ctx context.Context, vendorID uuid.UUID, rating int) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", vendorID).
		Updates(map[string]any{
			"rating":       gorm.Expr("ROUND(((rating * review_count) + ?) / (review_count + 1), 1)", rating),
			"review_count": gorm.Expr("review_count + 1"),
		})
	return res.RowsAffected, res.Error
}
