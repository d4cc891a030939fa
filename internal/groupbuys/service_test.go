package groupbuys

import (
	"context"
	"testing"
	"time"

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

type stubGroupBuyRepo struct {
	groupBuy       *models.GroupBuy
	exists         bool
	joinAffected   int64
	statusAffected int64
	participants   []models.GroupBuyParticipant
	findErr        error
}

func (s *stubGroupBuyRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubGroupBuyRepo) Create(ctx context.Context, gb *models.GroupBuy) (*models.GroupBuy, error) {
	if gb.ID == uuid.Nil {
		gb.ID = uuid.New()
	}
	s.groupBuy = gb
	return gb, nil
}

func (s *stubGroupBuyRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.GroupBuy, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if s.groupBuy == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.groupBuy, nil
}

func (s *stubGroupBuyRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.exists, nil
}

func (s *stubGroupBuyRepo) ListByCity(ctx context.Context, city string, status enums.GroupBuyStatus, limit int) ([]models.GroupBuy, error) {
	if s.groupBuy == nil {
		return nil, nil
	}
	return []models.GroupBuy{*s.groupBuy}, nil
}

func (s *stubGroupBuyRepo) JoinIncrement(ctx context.Context, id uuid.UUID, quantity decimal.Decimal) (int64, error) {
	if s.joinAffected == 1 && s.groupBuy != nil {
		s.groupBuy.CurrentQuantity = s.groupBuy.CurrentQuantity.Add(quantity)
		s.groupBuy.ParticipantCount++
	}
	return s.joinAffected, nil
}

func (s *stubGroupBuyRepo) AddParticipant(ctx context.Context, p *models.GroupBuyParticipant) error {
	s.participants = append(s.participants, *p)
	return nil
}

func (s *stubGroupBuyRepo) ListParticipants(ctx context.Context, groupBuyID uuid.UUID) ([]models.GroupBuyParticipant, error) {
	return s.participants, nil
}

func (s *stubGroupBuyRepo) UpdateStatusFromActive(ctx context.Context, id uuid.UUID, status enums.GroupBuyStatus) (int64, error) {
	if s.statusAffected == 1 && s.groupBuy != nil {
		s.groupBuy.Status = status
	}
	return s.statusAffected, nil
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

func newTestService(t *testing.T, repo *stubGroupBuyRepo) (Service, *stubOutbox, *stubTrust) {
	t.Helper()
	events := &stubOutbox{}
	trust := &stubTrust{}
	svc, err := NewService(repo, stubTxRunner{}, events, trust, nil)
	require.NoError(t, err)
	return svc, events, trust
}

func validCreateInput() CreateInput {
	return CreateInput{
		OrganizerID:    uuid.New(),
		OrganizerRole:  "vendor",
		Ingredient:     "Onions",
		TargetQuantity: decimal.NewFromInt(50),
		PricePerKg:     decimal.NewFromInt(20),
		OriginalPrice:  decimal.NewFromInt(28),
		City:           "mumbai",
		Deadline:       time.Now().Add(48 * time.Hour),
	}
}

func TestCreateEmitsEventAndMarksTrust(t *testing.T) {
	repo := &stubGroupBuyRepo{}
	svc, events, trust := newTestService(t, repo)

	created, err := svc.Create(context.Background(), validCreateInput())
	require.NoError(t, err)
	assert.Equal(t, enums.GroupBuyStatusActive, created.Status)
	assert.Equal(t, 1, created.ParticipantCount)

	require.Len(t, events.events, 1)
	assert.Equal(t, enums.EventGroupBuyCreated, events.events[0].EventType)
	assert.Equal(t, []profiles.Activity{profiles.ActivityGroupBuy}, trust.marked)
}

func TestCreateRejectsZeroTarget(t *testing.T) {
	svc, _, _ := newTestService(t, &stubGroupBuyRepo{})

	input := validCreateInput()
	input.TargetQuantity = decimal.Zero

	_, err := svc.Create(context.Background(), input)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestCreateRejectsPastDeadline(t *testing.T) {
	svc, _, _ := newTestService(t, &stubGroupBuyRepo{})

	input := validCreateInput()
	input.Deadline = time.Now().Add(-time.Hour)

	_, err := svc.Create(context.Background(), input)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestCreateRejectsPooledPriceAboveOriginal(t *testing.T) {
	svc, _, _ := newTestService(t, &stubGroupBuyRepo{})

	input := validCreateInput()
	input.PricePerKg = decimal.NewFromInt(30)
	input.OriginalPrice = decimal.NewFromInt(28)

	_, err := svc.Create(context.Background(), input)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestJoinRecordsParticipantAndEmitsEvent(t *testing.T) {
	gb := &models.GroupBuy{
		ID:              uuid.New(),
		Status:          enums.GroupBuyStatusActive,
		CurrentQuantity: decimal.Zero,
		ParticipantCount: 1,
	}
	repo := &stubGroupBuyRepo{groupBuy: gb, exists: true, joinAffected: 1}
	svc, events, trust := newTestService(t, repo)

	updated, err := svc.Join(context.Background(), JoinInput{
		GroupBuyID: gb.ID,
		VendorID:   uuid.New(),
		VendorRole: "vendor",
		Quantity:   decimal.NewFromInt(5),
	})
	require.NoError(t, err)
	assert.True(t, updated.CurrentQuantity.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, 2, updated.ParticipantCount)

	require.Len(t, repo.participants, 1)
	require.Len(t, events.events, 1)
	assert.Equal(t, enums.EventGroupBuyJoined, events.events[0].EventType)
	assert.Equal(t, []profiles.Activity{profiles.ActivityGroupBuy}, trust.marked)
}

func TestJoinMissingPoolReturnsNotFound(t *testing.T) {
	repo := &stubGroupBuyRepo{exists: false, joinAffected: 0}
	svc, _, _ := newTestService(t, repo)

	_, err := svc.Join(context.Background(), JoinInput{
		GroupBuyID: uuid.New(),
		VendorID:   uuid.New(),
		Quantity:   decimal.NewFromInt(5),
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestJoinClosedPoolReturnsStateConflict(t *testing.T) {
	gb := &models.GroupBuy{ID: uuid.New(), Status: enums.GroupBuyStatusCompleted}
	repo := &stubGroupBuyRepo{groupBuy: gb, exists: true, joinAffected: 0}
	svc, events, _ := newTestService(t, repo)

	_, err := svc.Join(context.Background(), JoinInput{
		GroupBuyID: gb.ID,
		VendorID:   uuid.New(),
		Quantity:   decimal.NewFromInt(5),
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
	assert.Empty(t, events.events)
}

func TestJoinRejectsNonPositiveQuantity(t *testing.T) {
	svc, _, _ := newTestService(t, &stubGroupBuyRepo{})

	_, err := svc.Join(context.Background(), JoinInput{
		GroupBuyID: uuid.New(),
		VendorID:   uuid.New(),
		Quantity:   decimal.Zero,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestCloseRequiresOrganizer(t *testing.T) {
	organizer := uuid.New()
	gb := &models.GroupBuy{ID: uuid.New(), OrganizerID: organizer, Status: enums.GroupBuyStatusActive}
	repo := &stubGroupBuyRepo{groupBuy: gb, exists: true, statusAffected: 1}
	svc, _, _ := newTestService(t, repo)

	_, err := svc.Close(context.Background(), CloseInput{
		GroupBuyID: gb.ID,
		ActorID:    uuid.New(),
		Completed:  true,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())
}

func TestCloseCompletesPoolAndEmitsEvent(t *testing.T) {
	organizer := uuid.New()
	gb := &models.GroupBuy{ID: uuid.New(), OrganizerID: organizer, Status: enums.GroupBuyStatusActive}
	repo := &stubGroupBuyRepo{groupBuy: gb, exists: true, statusAffected: 1}
	svc, events, _ := newTestService(t, repo)

	closed, err := svc.Close(context.Background(), CloseInput{
		GroupBuyID: gb.ID,
		ActorID:    organizer,
		Completed:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, enums.GroupBuyStatusCompleted, closed.Status)

	require.Len(t, events.events, 1)
	assert.Equal(t, enums.EventGroupBuyClosed, events.events[0].EventType)
}

func TestCloseAlreadyClosedReturnsStateConflict(t *testing.T) {
	organizer := uuid.New()
	gb := &models.GroupBuy{ID: uuid.New(), OrganizerID: organizer, Status: enums.GroupBuyStatusCancelled}
	repo := &stubGroupBuyRepo{groupBuy: gb, exists: true, statusAffected: 0}
	svc, _, _ := newTestService(t, repo)

	_, err := svc.Close(context.Background(), CloseInput{
		GroupBuyID: gb.ID,
		ActorID:    organizer,
		Completed:  false,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}
