package rescue

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arjunkedar/mandisathi-backend/internal/profiles"
	"github.com/arjunkedar/mandisathi-backend/pkg/db/models"
	"github.com/arjunkedar/mandisathi-backend/pkg/enums"
	pkgerrors "github.com/arjunkedar/mandisathi-backend/pkg/errors"
	"github.com/arjunkedar/mandisathi-backend/pkg/logger"
	"github.com/arjunkedar/mandisathi-backend/pkg/outbox"
	"github.com/arjunkedar/mandisathi-backend/pkg/pagination"
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

// Service defines rescue listing operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.RescueItem, error)
	Get(ctx context.Context, id uuid.UUID) (*models.RescueItem, error)
	List(ctx context.Context, input ListInput) ([]models.RescueItem, error)
	Claim(ctx context.Context, input ClaimInput) (*models.RescueItem, error)
	Complete(ctx context.Context, input CompleteInput) (*models.RescueItem, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
	trust  trustMarker
	logg   *logger.Logger
}

// NewService builds a rescue service with the required dependencies.
func NewService(repo Repository, tx txRunner, outboxSvc outboxPublisher, trust trustMarker, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("rescue repository required")
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
	return &service{repo: repo, tx: tx, outbox: outboxSvc, trust: trust, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.RescueItem, error) {
	if input.VendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "description is required")
	}
	itemType, err := enums.ParseRescueItemType(input.Type)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	if strings.TrimSpace(input.Quantity) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity is required")
	}
	if !input.RescuePrice.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rescue price must be positive")
	}
	if input.RescuePrice.GreaterThan(input.OriginalPrice) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rescue price cannot exceed the original price")
	}
	if strings.TrimSpace(input.City) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "city is required")
	}

	item := &models.RescueItem{
		ID:            uuid.New(),
		VendorID:      input.VendorID,
		Title:         strings.TrimSpace(input.Title),
		Description:   strings.TrimSpace(input.Description),
		Type:          itemType,
		Quantity:      strings.TrimSpace(input.Quantity),
		OriginalPrice: input.OriginalPrice,
		RescuePrice:   input.RescuePrice,
		City:          strings.TrimSpace(input.City),
		Status:        enums.RescueItemStatusAvailable,
		IsHot:         input.IsHot,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		created, err := repo.Create(ctx, item)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create rescue item")
		}
		item = created

		event := outbox.DomainEvent{
			EventType:     enums.EventRescueItemPosted,
			AggregateType: enums.AggregateRescueItem,
			AggregateID:   created.ID,
			Actor:         &outbox.ActorRef{UserID: input.VendorID, Role: input.VendorRole, City: input.City},
			Data: PostedEvent{
				ItemID:      created.ID,
				VendorID:    created.VendorID,
				Title:       created.Title,
				RescuePrice: created.RescuePrice,
				City:        created.City,
			},
		}
		return s.outbox.Emit(ctx, tx, event)
	})
	if err != nil {
		return nil, err
	}

	s.markTrust(ctx, input.VendorID)
	return item, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.RescueItem, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rescue item id required")
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "rescue item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load rescue item")
	}
	return item, nil
}

func (s *service) List(ctx context.Context, input ListInput) ([]models.RescueItem, error) {
	city := strings.TrimSpace(input.City)
	if city == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "city is required")
	}

	status := enums.RescueItemStatusAvailable
	if input.Status != "" {
		parsed := enums.RescueItemStatus(input.Status)
		if !parsed.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown status %q", input.Status))
		}
		status = parsed
	}

	rows, err := s.repo.ListByCity(ctx, city, status, pagination.NormalizeLimit(input.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list rescue items")
	}
	return rows, nil
}

// Claim hands the listing to exactly one claimant. The compare-and-set update
// is the sole writer of the available → claimed transition, so every racer but
// one observes zero affected rows and gets a conflict.
func (s *service) Claim(ctx context.Context, input ClaimInput) (*models.RescueItem, error) {
	if input.ItemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rescue item id required")
	}
	if input.ClaimantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		affected, err := repo.Claim(ctx, input.ItemID, input.ClaimantID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "claim rescue item")
		}
		if affected == 0 {
			current, err := repo.FindByID(ctx, input.ItemID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "rescue item not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check rescue item")
			}
			if current.VendorID == input.ClaimantID {
				return pkgerrors.New(pkgerrors.CodeForbidden, "cannot claim your own listing")
			}
			return pkgerrors.New(pkgerrors.CodeConflict, "item not available")
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventRescueItemClaimed,
			AggregateType: enums.AggregateRescueItem,
			AggregateID:   input.ItemID,
			Actor:         &outbox.ActorRef{UserID: input.ClaimantID, Role: input.ActorRole},
			Data: ClaimedEvent{
				ItemID:     input.ItemID,
				ClaimantID: input.ClaimantID,
			},
		}
		return s.outbox.Emit(ctx, tx, event)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, input.ItemID)
}

// Complete confirms the hand-off. Only the posting vendor may confirm, and
// only from the claimed state.
func (s *service) Complete(ctx context.Context, input CompleteInput) (*models.RescueItem, error) {
	if input.ItemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rescue item id required")
	}
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var claimant uuid.UUID
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		item, err := repo.FindByID(ctx, input.ItemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "rescue item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load rescue item")
		}
		if item.VendorID != input.ActorID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only the posting vendor can complete a rescue")
		}

		affected, err := repo.Complete(ctx, input.ItemID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "complete rescue item")
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "rescue item is not in a claimed state")
		}
		if item.ClaimedBy != nil {
			claimant = *item.ClaimedBy
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventRescueItemCompleted,
			AggregateType: enums.AggregateRescueItem,
			AggregateID:   input.ItemID,
			Actor:         &outbox.ActorRef{UserID: input.ActorID, Role: input.ActorRole},
			Data: CompletedEvent{
				ItemID:     input.ItemID,
				ClaimantID: claimant,
			},
		}
		return s.outbox.Emit(ctx, tx, event)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, input.ItemID)
}

// markTrust is best-effort; a failed profile update never rolls back the
// business write it followed.
func (s *service) markTrust(ctx context.Context, vendorID uuid.UUID) {
	if err := s.trust.MarkActivity(ctx, vendorID, profiles.ActivityRescue); err != nil {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "vendor_id", vendorID.String()), "trust activity update failed")
		}
	}
}
