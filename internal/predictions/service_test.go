package predictions

import (
	"context"
	"errors"
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
	"github.com/arjunkedar/mandisathi-backend/pkg/openai"
	"github.com/arjunkedar/mandisathi-backend/pkg/outbox"
)

type stubPredictionRepo struct {
	created *models.Prediction
	latest  *models.Prediction
	rows    []models.Prediction
}

func (s *stubPredictionRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubPredictionRepo) Create(ctx context.Context, prediction *models.Prediction) (*models.Prediction, error) {
	if prediction.ID == uuid.Nil {
		prediction.ID = uuid.New()
	}
	s.created = prediction
	return prediction, nil
}

func (s *stubPredictionRepo) LatestByVendor(ctx context.Context, vendorID uuid.UUID) (*models.Prediction, error) {
	if s.latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.latest, nil
}

func (s *stubPredictionRepo) ListByVendor(ctx context.Context, vendorID uuid.UUID, limit int) ([]models.Prediction, error) {
	return s.rows, nil
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

type stubProvider struct {
	items []SuggestedItem
	err   error
	calls int
}

func (s *stubProvider) Suggest(ctx context.Context, input SuggestInput) ([]SuggestedItem, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.items, nil
}

func newTestService(t *testing.T, repo *stubPredictionRepo, provider Provider) (Service, *stubOutbox, *stubTrust) {
	t.Helper()
	events := &stubOutbox{}
	trust := &stubTrust{}
	svc, err := NewService(repo, stubTxRunner{}, events, trust, provider, nil)
	require.NoError(t, err)
	return svc, events, trust
}

func TestGenerateStoresForecastAndMarksTrust(t *testing.T) {
	repo := &stubPredictionRepo{}
	provider := &stubProvider{items: []SuggestedItem{
		{Ingredient: "Onions", Quantity: "5 kg", Confidence: 0.8},
		{Ingredient: "Paneer", Quantity: "2 kg", Confidence: 0.6},
	}}
	svc, events, trust := newTestService(t, repo, provider)

	vendorID := uuid.New()
	prediction, err := svc.Generate(context.Background(), GenerateInput{
		VendorID:  vendorID,
		ActorRole: "vendor",
		City:      "mumbai",
	})
	require.NoError(t, err)
	require.Len(t, prediction.Items, 2)

	require.NotNil(t, prediction.Confidence)
	assert.True(t, prediction.Confidence.Equal(decimal.NewFromFloat(0.7)),
		"expected averaged confidence 0.7, got %s", prediction.Confidence)

	require.Len(t, events.events, 1)
	assert.Equal(t, enums.EventPredictionGenerated, events.events[0].EventType)
	assert.Equal(t, []profiles.Activity{profiles.ActivityPrediction}, trust.marked)
}

func TestGenerateDegradesToFallbackOnProviderFailure(t *testing.T) {
	repo := &stubPredictionRepo{}
	provider := &stubProvider{err: errors.New("model timeout")}
	svc, _, _ := newTestService(t, repo, provider)

	prediction, err := svc.Generate(context.Background(), GenerateInput{
		VendorID: uuid.New(),
		City:     "pune",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, provider.calls)
	// Pune baseline is 26°C and sunny, so the fallback returns the five staples.
	require.Len(t, prediction.Items, 5)
	assert.Equal(t, "Onions", prediction.Items[0].Ingredient)
}

func TestGenerateWithoutProviderUsesFallback(t *testing.T) {
	repo := &stubPredictionRepo{}
	svc, events, _ := newTestService(t, repo, nil)

	prediction, err := svc.Generate(context.Background(), GenerateInput{
		VendorID: uuid.New(),
		City:     "mumbai",
	})
	require.NoError(t, err)
	// Mumbai baseline runs over 30°C, which adds lemons to the staples.
	require.Len(t, prediction.Items, 6)
	require.Len(t, events.events, 1)
}

func TestGenerateRequiresCity(t *testing.T) {
	svc, _, _ := newTestService(t, &stubPredictionRepo{}, nil)

	_, err := svc.Generate(context.Background(), GenerateInput{
		VendorID: uuid.New(),
		City:     "   ",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestLatestNoForecastsReturnsNotFound(t *testing.T) {
	svc, _, _ := newTestService(t, &stubPredictionRepo{}, nil)

	_, err := svc.Latest(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	assert.Equal(t, "no predictions yet", typed.Message())
}

type stubCompletionClient struct {
	content string
	err     error
}

func (s *stubCompletionClient) CompleteJSON(ctx context.Context, messages []openai.Message) (string, error) {
	return s.content, s.err
}

func TestAIProviderParsesModelResponse(t *testing.T) {
	client := &stubCompletionClient{content: `{"predictions":[{"ingredient":"Onions","suggestedQuantity":"5 kg","confidence":0.8,"reasoning":"staple"}]}`}
	provider, err := NewAIProvider(client)
	require.NoError(t, err)

	items, err := provider.Suggest(context.Background(), SuggestInput{City: "mumbai", Weather: WeatherFor("mumbai")})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Onions", items[0].Ingredient)
	assert.Equal(t, "5 kg", items[0].Quantity)
}

func TestAIProviderRejectsEmptySuggestionList(t *testing.T) {
	client := &stubCompletionClient{content: `{"predictions":[]}`}
	provider, err := NewAIProvider(client)
	require.NoError(t, err)

	_, err = provider.Suggest(context.Background(), SuggestInput{City: "mumbai"})
	require.Error(t, err)
}
