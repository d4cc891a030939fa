package predictions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/arjunkedar/mandisathi-backend/internal/profiles"
	"github.com/arjunkedar/mandisathi-backend/pkg/db/models"
	"github.com/arjunkedar/mandisathi-backend/pkg/enums"
	pkgerrors "github.com/arjunkedar/mandisathi-backend/pkg/errors"
	"github.com/arjunkedar/mandisathi-backend/pkg/logger"
	"github.com/arjunkedar/mandisathi-backend/pkg/outbox"
	"github.com/arjunkedar/mandisathi-backend/pkg/pagination"
	"github.com/arjunkedar/mandisathi-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type trustMarker interface {
	MarkActivity(ctx context.Context, userID uuid.UUID, activity profiles.Activity) error
}

// Service defines forecast operations.
type Service interface {
	Generate(ctx context.Context, input GenerateInput) (*models.Prediction, error)
	Latest(ctx context.Context, vendorID uuid.UUID) (*models.Prediction, error)
	History(ctx context.Context, vendorID uuid.UUID, limit int) ([]models.Prediction, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	outbox   outboxPublisher
	trust    trustMarker
	provider Provider
	fallback Provider
	logg     *logger.Logger
}

// NewService builds a predictions service. provider may be nil when the AI
// dependency is not configured; the fallback then serves every request.
func NewService(repo Repository, tx txRunner, outboxSvc outboxPublisher, trust trustMarker, provider Provider, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("predictions repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if trust == nil {
		return nil, fmt.Errorf("trust marker required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		outbox:   outboxSvc,
		trust:    trust,
		provider: provider,
		fallback: FallbackProvider{},
		logg:     logg,
	}, nil
}

// Generate produces and stores a forecast. Provider failures degrade to the
// deterministic fallback instead of failing the request.
func (s *service) Generate(ctx context.Context, input GenerateInput) (*models.Prediction, error) {
	if input.VendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	city := strings.TrimSpace(input.City)
	if city == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "city is required")
	}

	weather := WeatherFor(city)
	suggestInput := SuggestInput{City: city, VendorType: input.VendorType, Weather: weather}

	items, err := s.suggest(ctx, suggestInput)
	if err != nil {
		return nil, err
	}

	stored := make(types.PredictionItems, 0, len(items))
	var confidenceSum float64
	for _, item := range items {
		stored = append(stored, types.PredictionItem{
			Ingredient: item.Ingredient,
			Quantity:   item.Quantity,
			Confidence: item.Confidence,
			Reasoning:  item.Reasoning,
		})
		confidenceSum += item.Confidence
	}

	temp := decimal.NewFromFloat(weather.TemperatureC)
	confidence := decimal.NewFromFloat(confidenceSum / float64(len(items))).Round(2)
	condition := weather.Condition

	prediction := &models.Prediction{
		ID:           uuid.New(),
		VendorID:     input.VendorID,
		City:         city,
		Weather:      &condition,
		TemperatureC: &temp,
		Items:        stored,
		Confidence:   &confidence,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		created, err := repo.Create(ctx, prediction)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store prediction")
		}
		prediction = created

		event := outbox.DomainEvent{
			EventType:     enums.EventPredictionGenerated,
			AggregateType: enums.AggregatePrediction,
			AggregateID:   created.ID,
			Actor:         &outbox.ActorRef{UserID: input.VendorID, Role: input.ActorRole, City: city},
			Data: GeneratedEvent{
				PredictionID: created.ID,
				VendorID:     created.VendorID,
				City:         created.City,
				ItemCount:    len(created.Items),
			},
		}
		return s.outbox.Emit(ctx, tx, event)
	})
	if err != nil {
		return nil, err
	}

	if err := s.trust.MarkActivity(ctx, input.VendorID, profiles.ActivityPrediction); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "vendor_id", input.VendorID.String()), "trust activity update failed")
	}

	return prediction, nil
}

func (s *service) suggest(ctx context.Context, input SuggestInput) ([]SuggestedItem, error) {
	if s.provider != nil {
		items, err := s.provider.Suggest(ctx, input)
		if err == nil {
			return items, nil
		}
		if s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "city", input.City), "ai suggestions unavailable, using fallback")
		}
	}
	items, err := s.fallback.Suggest(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "fallback suggestions")
	}
	return items, nil
}

func (s *service) Latest(ctx context.Context, vendorID uuid.UUID) (*models.Prediction, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	prediction, err := s.repo.LatestByVendor(ctx, vendorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no predictions yet")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load latest prediction")
	}
	return prediction, nil
}

func (s *service) History(ctx context.Context, vendorID uuid.UUID, limit int) ([]models.Prediction, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	rows, err := s.repo.ListByVendor(ctx, vendorID, pagination.NormalizeLimit(limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list predictions")
	}
	return rows, nil
}
