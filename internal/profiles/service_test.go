package profiles

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/arjunkedar/mandisathi-backend/internal/users"
	"github.com/arjunkedar/mandisathi-backend/pkg/db/models"
	pkgerrors "github.com/arjunkedar/mandisathi-backend/pkg/errors"
)

type stubProfileRepo struct {
	profile *models.VendorProfile
	updates map[string]any
}

func (s *stubProfileRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubProfileRepo) Create(ctx context.Context, profile *models.VendorProfile) (*models.VendorProfile, error) {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	s.profile = profile
	return profile, nil
}

func (s *stubProfileRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.VendorProfile, error) {
	if s.profile == nil || s.profile.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.profile, nil
}

func (s *stubProfileRepo) UpdateFields(ctx context.Context, userID uuid.UUID, fields map[string]any) error {
	s.updates = fields
	if s.profile == nil {
		return nil
	}
	if v, ok := fields["used_ai_prediction"].(bool); ok {
		s.profile.UsedAiPrediction = v
	}
	if v, ok := fields["participated_group_buy"].(bool); ok {
		s.profile.ParticipatedGroupBuy = v
	}
	if v, ok := fields["posted_rescue_item"].(bool); ok {
		s.profile.PostedRescueItem = v
	}
	if v, ok := fields["trust_score"].(int); ok {
		s.profile.TrustScore = v
	}
	if v, ok := fields["has_trust_badge"].(bool); ok {
		s.profile.HasTrustBadge = v
	}
	if v, ok := fields["business_name"].(string); ok {
		s.profile.BusinessName = v
	}
	return nil
}

type stubUserRepo struct {
	user *models.User
}

func (s *stubUserRepo) WithTx(tx *gorm.DB) users.Repository { return s }

func (s *stubUserRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	s.user = user
	return user, nil
}

func (s *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.user == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	if s.user == nil || s.user.Username != username {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	return nil
}

func newTrustFixture(t *testing.T) (Service, *stubProfileRepo, *stubUserRepo, uuid.UUID) {
	t.Helper()

	vendorID := uuid.New()
	profileRepo := &stubProfileRepo{profile: &models.VendorProfile{
		ID:     uuid.New(),
		UserID: vendorID,
	}}
	userRepo := &stubUserRepo{user: &models.User{
		ID:       vendorID,
		Username: "ramesh",
		Rating:   decimal.Zero,
	}}

	svc, err := NewService(profileRepo, userRepo, nil)
	require.NoError(t, err)
	return svc, profileRepo, userRepo, vendorID
}

func TestEnsureProfileCreatesDefaultBusinessName(t *testing.T) {
	repo := &stubProfileRepo{}
	userRepo := &stubUserRepo{}
	svc, err := NewService(repo, userRepo, nil)
	require.NoError(t, err)

	profile, err := svc.EnsureProfile(context.Background(), nil, uuid.New(), "ramesh")
	require.NoError(t, err)
	assert.Equal(t, "ramesh's Kitchen", profile.BusinessName)
	assert.Zero(t, profile.TrustScore)
	assert.False(t, profile.HasTrustBadge)
}

func TestEnsureProfileIsIdempotent(t *testing.T) {
	svc, repo, _, vendorID := newTrustFixture(t)
	repo.profile.BusinessName = "Ramesh Chaat Corner"

	profile, err := svc.EnsureProfile(context.Background(), nil, vendorID, "ramesh")
	require.NoError(t, err)
	assert.Equal(t, "Ramesh Chaat Corner", profile.BusinessName)
}

func TestMarkActivityAddsPointsOnce(t *testing.T) {
	svc, repo, _, vendorID := newTrustFixture(t)

	require.NoError(t, svc.MarkActivity(context.Background(), vendorID, ActivityGroupBuy))
	assert.Equal(t, 25, repo.profile.TrustScore)
	assert.True(t, repo.profile.ParticipatedGroupBuy)

	// Repeating the same activity must not double-count.
	require.NoError(t, svc.MarkActivity(context.Background(), vendorID, ActivityGroupBuy))
	assert.Equal(t, 25, repo.profile.TrustScore)
}

func TestMarkActivityTwoFlagsNoBadge(t *testing.T) {
	svc, repo, _, vendorID := newTrustFixture(t)

	require.NoError(t, svc.MarkActivity(context.Background(), vendorID, ActivityGroupBuy))
	require.NoError(t, svc.MarkActivity(context.Background(), vendorID, ActivityRescue))

	assert.Equal(t, 50, repo.profile.TrustScore)
	assert.False(t, repo.profile.HasTrustBadge)
}

func TestMarkActivityThirdFlagGrantsBadge(t *testing.T) {
	svc, repo, _, vendorID := newTrustFixture(t)

	require.NoError(t, svc.MarkActivity(context.Background(), vendorID, ActivityGroupBuy))
	require.NoError(t, svc.MarkActivity(context.Background(), vendorID, ActivityRescue))
	require.NoError(t, svc.MarkActivity(context.Background(), vendorID, ActivityPrediction))

	assert.Equal(t, 75, repo.profile.TrustScore)
	assert.True(t, repo.profile.HasTrustBadge)
}

func TestMarkActivityRejectsUnknownActivity(t *testing.T) {
	svc, _, _, vendorID := newTrustFixture(t)

	err := svc.MarkActivity(context.Background(), vendorID, Activity("gossip"))
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestRecalculateTrustAddsRatingBonus(t *testing.T) {
	svc, repo, userRepo, vendorID := newTrustFixture(t)
	require.NoError(t, svc.MarkActivity(context.Background(), vendorID, ActivityGroupBuy))

	userRepo.user.Rating = decimal.NewFromFloat(4.5)
	userRepo.user.ReviewCount = 3

	require.NoError(t, svc.RecalculateTrust(context.Background(), vendorID))
	assert.Equal(t, 50, repo.profile.TrustScore)
}

func TestRecalculateTrustIgnoresHighRatingWithoutReviews(t *testing.T) {
	svc, repo, userRepo, vendorID := newTrustFixture(t)
	require.NoError(t, svc.MarkActivity(context.Background(), vendorID, ActivityGroupBuy))

	userRepo.user.Rating = decimal.NewFromFloat(4.5)
	userRepo.user.ReviewCount = 0

	require.NoError(t, svc.RecalculateTrust(context.Background(), vendorID))
	assert.Equal(t, 25, repo.profile.TrustScore)
}

func TestRecalculateTrustNoProfileIsNoOp(t *testing.T) {
	repo := &stubProfileRepo{}
	svc, err := NewService(repo, &stubUserRepo{}, nil)
	require.NoError(t, err)

	require.NoError(t, svc.RecalculateTrust(context.Background(), uuid.New()))
	assert.Nil(t, repo.updates)
}

func TestUpdateRejectsEmptyBusinessName(t *testing.T) {
	svc, _, _, vendorID := newTrustFixture(t)

	empty := "   "
	_, err := svc.Update(context.Background(), vendorID, UpdateInput{BusinessName: &empty})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestUpdateAppliesFields(t *testing.T) {
	svc, repo, _, vendorID := newTrustFixture(t)

	name := "Ramesh Chaat Corner"
	updated, err := svc.Update(context.Background(), vendorID, UpdateInput{BusinessName: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.BusinessName)
	assert.Equal(t, name, repo.updates["business_name"])
}
