package outbox

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arjunkedar/mandisathi-backend/pkg/db/models"
	"github.com/arjunkedar/mandisathi-backend/pkg/enums"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Insert(tx *gorm.DB, event models.OutboxEvent) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	return tx.Create(&event).Error
}

// FetchPending returns the oldest unpublished events still under the attempt
// budget.
func (r *Repository) FetchPending(limit int, maxAttempts int) ([]models.OutboxEvent, error) {
	var rows []models.OutboxEvent
	err := r.db.Where("status = ? AND attempt_count < ?", enums.OutboxStatusPending, maxAttempts).
		Order("created_at ASC").
		Order("id ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *Repository) MarkPublished(id uuid.UUID) error {
	return r.db.Model(&models.OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":       enums.OutboxStatusPublished,
			"published_at": time.Now(),
		}).Error
}

// MarkFailed records the attempt; once the budget is exhausted the row is
// parked as failed so the poll loop stops retrying it.
func (r *Repository) MarkFailed(id uuid.UUID, cause error, maxAttempts int) error {
	updates := map[string]any{
		"last_error":    cause.Error(),
		"attempt_count": gorm.Expr("attempt_count + 1"),
		"status": gorm.Expr(
			"CASE WHEN attempt_count + 1 >= ? THEN ? ELSE status END",
			maxAttempts, enums.OutboxStatusFailed,
		),
	}
	return r.db.Model(&models.OutboxEvent{}).
		Where("id = ?", id).
		Updates(updates).Error
}
