package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/arjunkedar/mandisathi-backend/internal/users"
	"github.com/arjunkedar/mandisathi-backend/pkg/db/models"
	pkgerrors "github.com/arjunkedar/mandisathi-backend/pkg/errors"
	"github.com/arjunkedar/mandisathi-backend/pkg/logger"
)

// Points per completed trust activity; a fourth tranche comes from holding a
// rating of at least 4.0.
const activityPoints = 25

var ratingBonusThreshold = decimal.NewFromFloat(4.0)

// Service defines vendor profile and trust operations.
type Service interface {
	EnsureProfile(ctx context.Context, tx *gorm.DB, userID uuid.UUID, username string) (*models.VendorProfile, error)
	Get(ctx context.Context, userID uuid.UUID) (*models.VendorProfile, error)
	Update(ctx context.Context, userID uuid.UUID, input UpdateInput) (*models.VendorProfile, error)
	MarkActivity(ctx context.Context, userID uuid.UUID, activity Activity) error
	RecalculateTrust(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	repo  Repository
	users users.Repository
	logg  *logger.Logger
}

// NewService builds a profile service with the required dependencies.
func NewService(repo Repository, usersRepo users.Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("profiles repository required")
	}
	if usersRepo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo, users: usersRepo, logg: logg}, nil
}

// EnsureProfile creates the default profile row for a new vendor. It is safe
// to call inside the registration transaction.
func (s *service) EnsureProfile(ctx context.Context, tx *gorm.DB, userID uuid.UUID, username string) (*models.VendorProfile, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	repo := s.repo.WithTx(tx)
	existing, err := repo.FindByUserID(ctx, userID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor profile")
	}

	profile := &models.VendorProfile{
		ID:           uuid.New(),
		UserID:       userID,
		BusinessName: fmt.Sprintf("%s's Kitchen", username),
	}
	created, err := repo.Create(ctx, profile)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create vendor profile")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*models.VendorProfile, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	profile, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor profile")
	}
	return profile, nil
}

func (s *service) Update(ctx context.Context, userID uuid.UUID, input UpdateInput) (*models.VendorProfile, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	fields := map[string]any{}
	if input.BusinessName != nil {
		name := strings.TrimSpace(*input.BusinessName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "business name cannot be empty")
		}
		fields["business_name"] = name
	}
	if input.SourcingMethod != nil {
		fields["sourcing_method"] = strings.TrimSpace(*input.SourcingMethod)
	}

	if len(fields) > 0 {
		if err := s.repo.UpdateFields(ctx, userID, fields); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update vendor profile")
		}
	}
	return s.Get(ctx, userID)
}

// MarkActivity flips the flag for the given activity and recomputes the trust
// score and badge in the same write. Repeating an activity is a no-op for the
// flag, so the score never double-counts.
func (s *service) MarkActivity(ctx context.Context, userID uuid.UUID, activity Activity) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if !activity.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown activity %q", activity))
	}

	profile, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "vendor profile not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor profile")
	}

	usedPrediction := profile.UsedAiPrediction
	joinedGroupBuy := profile.ParticipatedGroupBuy
	postedRescue := profile.PostedRescueItem
	switch activity {
	case ActivityPrediction:
		usedPrediction = true
	case ActivityGroupBuy:
		joinedGroupBuy = true
	case ActivityRescue:
		postedRescue = true
	}

	score, badge, err := s.computeTrust(ctx, userID, usedPrediction, joinedGroupBuy, postedRescue)
	if err != nil {
		return err
	}

	fields := map[string]any{
		"used_ai_prediction":     usedPrediction,
		"participated_group_buy": joinedGroupBuy,
		"posted_rescue_item":     postedRescue,
		"trust_score":            score,
		"has_trust_badge":        badge,
		"last_activity_date":     time.Now(),
	}
	if err := s.repo.UpdateFields(ctx, userID, fields); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update trust state")
	}

	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"vendor_id":   userID.String(),
			"activity":    activity,
			"trust_score": score,
			"trust_badge": badge,
		})
		s.logg.Info(logCtx, "trust activity recorded")
	}
	return nil
}

// RecalculateTrust refreshes the score from current flags and rating. Reviews
// call this after the vendor's aggregate rating moves.
func (s *service) RecalculateTrust(ctx context.Context, userID uuid.UUID) error {
	profile, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Buyers have no profile; nothing to refresh.
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor profile")
	}

	score, badge, err := s.computeTrust(ctx, userID, profile.UsedAiPrediction, profile.ParticipatedGroupBuy, profile.PostedRescueItem)
	if err != nil {
		return err
	}
	if score == profile.TrustScore && badge == profile.HasTrustBadge {
		return nil
	}

	fields := map[string]any{
		"trust_score":     score,
		"has_trust_badge": badge,
	}
	if err := s.repo.UpdateFields(ctx, userID, fields); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update trust state")
	}
	return nil
}

func (s *service) computeTrust(ctx context.Context, userID uuid.UUID, usedPrediction, joinedGroupBuy, postedRescue bool) (int, bool, error) {
	score := 0
	for _, flag := range []bool{usedPrediction, joinedGroupBuy, postedRescue} {
		if flag {
			score += activityPoints
		}
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return 0, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if user.ReviewCount > 0 && user.Rating.GreaterThanOrEqual(ratingBonusThreshold) {
		score += activityPoints
	}

	badge := usedPrediction && joinedGroupBuy && postedRescue
	return score, badge, nil
}
