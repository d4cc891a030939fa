package models

import (
	"time"

	"github.com/google/uuid"
)

// VendorProfile carries per-vendor trust state, one row per vendor identity.
// The activity flags are idempotent OR merges; has_trust_badge and trust_score
// are derived on every flag update, never set directly by callers.
type VendorProfile struct {
	ID                   uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID               uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	BusinessName         string    `gorm:"column:business_name;not null"`
	SourcingMethod       *string   `gorm:"column:sourcing_method"`
	TrustScore           int       `gorm:"column:trust_score;not null;default:0"`
	HasTrustBadge        bool      `gorm:"column:has_trust_badge;not null;default:false"`
	UsedAiPrediction     bool      `gorm:"column:used_ai_prediction;not null;default:false"`
	ParticipatedGroupBuy bool      `gorm:"column:participated_group_buy;not null;default:false"`
	PostedRescueItem     bool      `gorm:"column:posted_rescue_item;not null;default:false"`
	LastActivityDate     time.Time `gorm:"column:last_activity_date;autoCreateTime"`
}
