package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/arjunkedar/mandisathi-backend/pkg/enums"
)

// OutboxEvent represents an append-only event emitted via the outbox pattern.
type OutboxEvent struct {
	ID            uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	EventType     enums.EventType     `gorm:"column:event_type;not null"`
	AggregateType enums.AggregateType `gorm:"column:aggregate_type;not null"`
	AggregateID   uuid.UUID           `gorm:"column:aggregate_id;type:uuid;not null"`
	Payload       json.RawMessage     `gorm:"column:payload;type:jsonb;not null"`
	Status        enums.OutboxStatus  `gorm:"column:status;not null;default:'pending';index"`
	AttemptCount  int                 `gorm:"column:attempt_count;not null;default:0"`
	LastError     *string             `gorm:"column:last_error"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	PublishedAt   *time.Time          `gorm:"column:published_at"`
}
