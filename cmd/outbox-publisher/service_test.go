package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arjunkedar/mandisathi-backend/pkg/config"
	"github.com/arjunkedar/mandisathi-backend/pkg/db/models"
	"github.com/arjunkedar/mandisathi-backend/pkg/enums"
	"github.com/arjunkedar/mandisathi-backend/pkg/logger"
)

type stubOutboxRepo struct {
	pending   []models.OutboxEvent
	fetchErr  error
	published []uuid.UUID
	failed    []uuid.UUID
}

func (s *stubOutboxRepo) FetchPending(limit, maxAttempts int) ([]models.OutboxEvent, error) {
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return s.pending, nil
}

func (s *stubOutboxRepo) MarkPublished(id uuid.UUID) error {
	s.published = append(s.published, id)
	return nil
}

func (s *stubOutboxRepo) MarkFailed(id uuid.UUID, cause error, maxAttempts int) error {
	s.failed = append(s.failed, id)
	return nil
}

type stubPublishResult struct {
	serverID string
	err      error
}

func (s stubPublishResult) Get(context.Context) (string, error) {
	return s.serverID, s.err
}

type stubPublisher struct {
	err      error
	messages []*gcppubsub.Message
}

func (s *stubPublisher) Publish(ctx context.Context, msg *gcppubsub.Message) publishResult {
	s.messages = append(s.messages, msg)
	return stubPublishResult{serverID: "srv-1", err: s.err}
}

func newPublisherService(t *testing.T, repo *stubOutboxRepo, pub *stubPublisher) *Service {
	t.Helper()

	svc, err := NewService(ServiceParams{
		Config: &config.Config{},
		Logger: logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		Repository: repo,
		Publisher:  pub,
	})
	require.NoError(t, err)
	return svc
}

func pendingEvent(t *testing.T) models.OutboxEvent {
	t.Helper()

	payload, err := json.Marshal(map[string]any{
		"version": 1,
		"eventId": uuid.NewString(),
	})
	require.NoError(t, err)

	return models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     enums.EventGroupBuyCreated,
		AggregateType: enums.AggregateGroupBuy,
		AggregateID:   uuid.New(),
		Payload:       payload,
	}
}

func TestProcessBatchPublishesAndMarks(t *testing.T) {
	event := pendingEvent(t)
	repo := &stubOutboxRepo{pending: []models.OutboxEvent{event}}
	pub := &stubPublisher{}
	svc := newPublisherService(t, repo, pub)

	processed, err := svc.processBatch(context.Background())
	require.NoError(t, err)
	assert.True(t, processed)
	assert.Equal(t, []uuid.UUID{event.ID}, repo.published)
	assert.Empty(t, repo.failed)

	require.Len(t, pub.messages, 1)
	msg := pub.messages[0]
	assert.Equal(t, string(enums.EventGroupBuyCreated), msg.Attributes["event_type"])
	assert.Equal(t, event.AggregateID.String(), msg.Attributes["aggregate_id"])
	assert.NotEmpty(t, msg.Attributes["event_id"])
}

func TestProcessBatchMarksFailureAndContinues(t *testing.T) {
	failing := pendingEvent(t)
	repo := &stubOutboxRepo{pending: []models.OutboxEvent{failing}}
	pub := &stubPublisher{err: errors.New("topic unavailable")}
	svc := newPublisherService(t, repo, pub)

	processed, err := svc.processBatch(context.Background())
	require.NoError(t, err)
	assert.True(t, processed)
	assert.Empty(t, repo.published)
	assert.Equal(t, []uuid.UUID{failing.ID}, repo.failed)
}

func TestProcessBatchIdleWhenNothingPending(t *testing.T) {
	repo := &stubOutboxRepo{}
	svc := newPublisherService(t, repo, &stubPublisher{})

	processed, err := svc.processBatch(context.Background())
	require.NoError(t, err)
	assert.False(t, processed)
}

func TestProcessBatchSurfacesFetchError(t *testing.T) {
	repo := &stubOutboxRepo{fetchErr: errors.New("db down")}
	svc := newPublisherService(t, repo, &stubPublisher{})

	_, err := svc.processBatch(context.Background())
	require.Error(t, err)
}

func TestNextBackoffDoublesUpToCap(t *testing.T) {
	base := 500 * time.Millisecond
	backoff := nextBackoff(base, base, maxBackoff)
	assert.Equal(t, 2*base, backoff)

	for i := 0; i < 10; i++ {
		backoff = nextBackoff(backoff, base, maxBackoff)
	}
	assert.Equal(t, maxBackoff, backoff)
}

func TestWithJitterStaysWithinWindow(t *testing.T) {
	base := time.Second
	for i := 0; i < 20; i++ {
		d := withJitter(base)
		assert.GreaterOrEqual(t, d, base)
		assert.Less(t, d, base+jitterWindow)
	}
}
