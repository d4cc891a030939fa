package rescue

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/arjunkedar/mandisathi-backend/internal/profiles"
	"github.com/arjunkedar/mandisathi-backend/pkg/db/models"
	"github.com/arjunkedar/mandisathi-backend/pkg/enums"
	pkgerrors "github.com/arjunkedar/mandisathi-backend/pkg/errors"
	"github.com/arjunkedar/mandisathi-backend/pkg/outbox"
)

type stubRescueRepo struct {
	item             *models.RescueItem
	claimAffected    int64
	completeAffected int64
}

func (s *stubRescueRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRescueRepo) Create(ctx context.Context, item *models.RescueItem) (*models.RescueItem, error) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	s.item = item
	return item, nil
}

func (s *stubRescueRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.RescueItem, error) {
	if s.item == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.item, nil
}

func (s *stubRescueRepo) ListByCity(ctx context.Context, city string, status enums.RescueItemStatus, limit int) ([]models.RescueItem, error) {
	if s.item == nil {
		return nil, nil
	}
	return []models.RescueItem{*s.item}, nil
}

func (s *stubRescueRepo) Claim(ctx context.Context, id uuid.UUID, claimantID uuid.UUID) (int64, error) {
	if s.claimAffected == 1 && s.item != nil {
		s.item.Status = enums.RescueItemStatusClaimed
		s.item.ClaimedBy = &claimantID
	}
	return s.claimAffected, nil
}

func (s *stubRescueRepo) Complete(ctx context.Context, id uuid.UUID) (int64, error) {
	if s.completeAffected == 1 && s.item != nil {
		s.item.Status = enums.RescueItemStatusCompleted
	}
	return s.completeAffected, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubOutbox struct {
	events []outbox.DomainEvent
}

func (s *stubOutbox) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	s.events = append(s.events, event)
	return nil
}

type stubTrust struct {
	marked []profiles.Activity
}

func (s *stubTrust) MarkActivity(ctx context.Context, userID uuid.UUID, activity profiles.Activity) error {
	s.marked = append(s.marked, activity)
	return nil
}

func newTestService(t *testing.T, repo *stubRescueRepo) (Service, *stubOutbox, *stubTrust) {
	t.Helper()
	events := &stubOutbox{}
	trust := &stubTrust{}
	svc, err := NewService(repo, stubTxRunner{}, events, trust, nil)
	require.NoError(t, err)
	return svc, events, trust
}

func validCreateInput() CreateInput {
	return CreateInput{
		VendorID:      uuid.New(),
		VendorRole:    "vendor",
		Title:         "Leftover biryani",
		Description:   "Ten plates from the lunch rush",
		Type:          "prepared",
		Quantity:      "10 plates",
		OriginalPrice: decimal.NewFromInt(500),
		RescuePrice:   decimal.NewFromInt(200),
		City:          "mumbai",
		IsHot:         true,
	}
}

func TestCreatePostsListingAndMarksTrust(t *testing.T) {
	repo := &stubRescueRepo{}
	svc, events, trust := newTestService(t, repo)

	created, err := svc.Create(context.Background(), validCreateInput())
	require.NoError(t, err)
	assert.Equal(t, enums.RescueItemStatusAvailable, created.Status)
	assert.Equal(t, enums.RescueItemTypePrepared, created.Type)

	require.Len(t, events.events, 1)
	assert.Equal(t, enums.EventRescueItemPosted, events.events[0].EventType)
	assert.Equal(t, []profiles.Activity{profiles.ActivityRescue}, trust.marked)
}

func TestCreateRejectsRescuePriceAboveOriginal(t *testing.T) {
	svc, _, _ := newTestService(t, &stubRescueRepo{})

	input := validCreateInput()
	input.RescuePrice = decimal.NewFromInt(600)

	_, err := svc.Create(context.Background(), input)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestCreateRejectsUnknownType(t *testing.T) {
	svc, _, _ := newTestService(t, &stubRescueRepo{})

	input := validCreateInput()
	input.Type = "frozen"

	_, err := svc.Create(context.Background(), input)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestClaimWinsOnAvailableItem(t *testing.T) {
	item := &models.RescueItem{ID: uuid.New(), Status: enums.RescueItemStatusAvailable}
	repo := &stubRescueRepo{item: item, claimAffected: 1}
	svc, events, _ := newTestService(t, repo)

	claimant := uuid.New()
	claimed, err := svc.Claim(context.Background(), ClaimInput{
		ItemID:     item.ID,
		ClaimantID: claimant,
		ActorRole:  "buyer",
	})
	require.NoError(t, err)
	assert.Equal(t, enums.RescueItemStatusClaimed, claimed.Status)
	require.NotNil(t, claimed.ClaimedBy)
	assert.Equal(t, claimant, *claimed.ClaimedBy)

	require.Len(t, events.events, 1)
	assert.Equal(t, enums.EventRescueItemClaimed, events.events[0].EventType)
}

func TestClaimLosesOnTakenItem(t *testing.T) {
	other := uuid.New()
	item := &models.RescueItem{ID: uuid.New(), Status: enums.RescueItemStatusClaimed, ClaimedBy: &other}
	repo := &stubRescueRepo{item: item, claimAffected: 0}
	svc, events, _ := newTestService(t, repo)

	_, err := svc.Claim(context.Background(), ClaimInput{
		ItemID:     item.ID,
		ClaimantID: uuid.New(),
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
	assert.Equal(t, "item not available", typed.Message())
	assert.Empty(t, events.events)
}

func TestClaimMissingItemReturnsNotFound(t *testing.T) {
	repo := &stubRescueRepo{claimAffected: 0}
	svc, _, _ := newTestService(t, repo)

	_, err := svc.Claim(context.Background(), ClaimInput{
		ItemID:     uuid.New(),
		ClaimantID: uuid.New(),
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestClaimOwnListingIsForbidden(t *testing.T) {
	vendor := uuid.New()
	item := &models.RescueItem{ID: uuid.New(), VendorID: vendor, Status: enums.RescueItemStatusAvailable}
	repo := &stubRescueRepo{item: item, claimAffected: 0}
	svc, events, _ := newTestService(t, repo)

	_, err := svc.Claim(context.Background(), ClaimInput{
		ItemID:     item.ID,
		ClaimantID: vendor,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())
	assert.Empty(t, events.events)
}

func TestCompleteRequiresPostingVendor(t *testing.T) {
	vendor := uuid.New()
	claimant := uuid.New()
	item := &models.RescueItem{ID: uuid.New(), VendorID: vendor, Status: enums.RescueItemStatusClaimed, ClaimedBy: &claimant}
	repo := &stubRescueRepo{item: item, completeAffected: 1}
	svc, _, _ := newTestService(t, repo)

	_, err := svc.Complete(context.Background(), CompleteInput{
		ItemID:  item.ID,
		ActorID: uuid.New(),
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())
}

func TestCompleteEmitsEventWithClaimant(t *testing.T) {
	vendor := uuid.New()
	claimant := uuid.New()
	item := &models.RescueItem{ID: uuid.New(), VendorID: vendor, Status: enums.RescueItemStatusClaimed, ClaimedBy: &claimant}
	repo := &stubRescueRepo{item: item, completeAffected: 1}
	svc, events, _ := newTestService(t, repo)

	completed, err := svc.Complete(context.Background(), CompleteInput{
		ItemID:    item.ID,
		ActorID:   vendor,
		ActorRole: "vendor",
	})
	require.NoError(t, err)
	assert.Equal(t, enums.RescueItemStatusCompleted, completed.Status)

	require.Len(t, events.events, 1)
	payload, ok := events.events[0].Data.(CompletedEvent)
	require.True(t, ok)
	assert.Equal(t, claimant, payload.ClaimantID)
}

func TestCompleteUnclaimedReturnsStateConflict(t *testing.T) {
	vendor := uuid.New()
	item := &models.RescueItem{ID: uuid.New(), VendorID: vendor, Status: enums.RescueItemStatusAvailable}
	repo := &stubRescueRepo{item: item, completeAffected: 0}
	svc, _, _ := newTestService(t, repo)

	_, err := svc.Complete(context.Background(), CompleteInput{
		ItemID:  item.ID,
		ActorID: vendor,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}
