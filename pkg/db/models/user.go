package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/arjunkedar/mandisathi-backend/pkg/enums"
)

// User represents the canonical identity entity.
type User struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Username     string          `gorm:"type:text;not null;uniqueIndex"`
	Email        string          `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string          `gorm:"column:password_hash;not null"`
	Role         enums.UserRole  `gorm:"column:role;type:user_role;not null;default:'vendor'"`
	City         string          `gorm:"column:city;not null"`
	ProfileImage *string         `gorm:"column:profile_image"`
	Rating       decimal.Decimal `gorm:"column:rating;type:numeric(2,1);not null;default:0.0"`
	ReviewCount  int             `gorm:"column:review_count;not null;default:0"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
}
