package groupbuys

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

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

// Service defines group buy operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.GroupBuy, error)
	Get(ctx context.Context, id uuid.UUID) (*models.GroupBuy, error)
	Participants(ctx context.Context, id uuid.UUID) ([]models.GroupBuyParticipant, error)
	List(ctx context.Context, input ListInput) ([]models.GroupBuy, error)
	Join(ctx context.Context, input JoinInput) (*models.GroupBuy, error)
	Close(ctx context.Context, input CloseInput) (*models.GroupBuy, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
	trust  trustMarker
	logg   *logger.Logger
}

// NewService builds a group buy service with the required dependencies.
func NewService(repo Repository, tx txRunner, outboxSvc outboxPublisher, trust trustMarker, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("group buy repository required")
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

func (s *service) Create(ctx context.Context, input CreateInput) (*models.GroupBuy, error) {
	if input.OrganizerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if strings.TrimSpace(input.Ingredient) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ingredient is required")
	}
	if !input.TargetQuantity.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "target quantity must be positive")
	}
	if !input.PricePerKg.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price per kg must be positive")
	}
	if input.OriginalPrice.LessThan(input.PricePerKg) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pooled price cannot exceed the original price")
	}
	if strings.TrimSpace(input.City) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "city is required")
	}
	if !input.Deadline.After(time.Now()) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "deadline must be in the future")
	}

	groupBuy := &models.GroupBuy{
		ID:             uuid.New(),
		OrganizerID:    input.OrganizerID,
		Ingredient:     strings.TrimSpace(input.Ingredient),
		TargetQuantity: input.TargetQuantity,
		PricePerKg:     input.PricePerKg,
		OriginalPrice:  input.OriginalPrice,
		City:           strings.TrimSpace(input.City),
		Deadline:       input.Deadline,
		Status:         enums.GroupBuyStatusActive,
		// The organizer counts as the first participant.
		ParticipantCount: 1,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		created, err := repo.Create(ctx, groupBuy)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create group buy")
		}
		groupBuy = created

		event := outbox.DomainEvent{
			EventType:     enums.EventGroupBuyCreated,
			AggregateType: enums.AggregateGroupBuy,
			AggregateID:   created.ID,
			Actor:         &outbox.ActorRef{UserID: input.OrganizerID, Role: input.OrganizerRole, City: input.City},
			Data: CreatedEvent{
				GroupBuyID:     created.ID,
				OrganizerID:    created.OrganizerID,
				Ingredient:     created.Ingredient,
				TargetQuantity: created.TargetQuantity,
				City:           created.City,
				Deadline:       created.Deadline,
			},
		}
		return s.outbox.Emit(ctx, tx, event)
	})
	if err != nil {
		return nil, err
	}

	s.markTrust(ctx, input.OrganizerID)
	return groupBuy, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.GroupBuy, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "group buy id required")
	}
	groupBuy, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "group buy not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load group buy")
	}
	return groupBuy, nil
}

func (s *service) Participants(ctx context.Context, id uuid.UUID) ([]models.GroupBuyParticipant, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListParticipants(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list participants")
	}
	return rows, nil
}

func (s *service) List(ctx context.Context, input ListInput) ([]models.GroupBuy, error) {
	city := strings.TrimSpace(input.City)
	if city == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "city is required")
	}

	status := enums.GroupBuyStatusActive
	if input.Status != "" {
		parsed, err := enums.ParseGroupBuyStatus(input.Status)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown status %q", input.Status))
		}
		status = parsed
	}

	rows, err := s.repo.ListByCity(ctx, city, status, pagination.NormalizeLimit(input.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list group buys")
	}
	return rows, nil
}

// Join folds a contribution into an open pool. The guarded increment is the
// only write that moves current_quantity, so concurrent joins serialize at the
// database row and none is lost.
func (s *service) Join(ctx context.Context, input JoinInput) (*models.GroupBuy, error) {
	if input.GroupBuyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "group buy id required")
	}
	if input.VendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.Quantity.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		affected, err := repo.JoinIncrement(ctx, input.GroupBuyID, input.Quantity)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "apply contribution")
		}
		if affected == 0 {
			exists, err := repo.Exists(ctx, input.GroupBuyID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check group buy")
			}
			if !exists {
				return pkgerrors.New(pkgerrors.CodeNotFound, "group buy not found")
			}
			return pkgerrors.New(pkgerrors.CodeStateConflict, "group buy is no longer active")
		}

		participant := &models.GroupBuyParticipant{
			ID:         uuid.New(),
			GroupBuyID: input.GroupBuyID,
			VendorID:   input.VendorID,
			Quantity:   input.Quantity,
		}
		if err := repo.AddParticipant(ctx, participant); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record participant")
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventGroupBuyJoined,
			AggregateType: enums.AggregateGroupBuy,
			AggregateID:   input.GroupBuyID,
			Actor:         &outbox.ActorRef{UserID: input.VendorID, Role: input.VendorRole},
			Data: JoinedEvent{
				GroupBuyID: input.GroupBuyID,
				VendorID:   input.VendorID,
				Quantity:   input.Quantity,
			},
		}
		return s.outbox.Emit(ctx, tx, event)
	})
	if err != nil {
		return nil, err
	}

	s.markTrust(ctx, input.VendorID)
	return s.Get(ctx, input.GroupBuyID)
}

// Close moves an active pool to a terminal state. Reaching the target does not
// close a pool by itself; the organizer decides when to settle.
func (s *service) Close(ctx context.Context, input CloseInput) (*models.GroupBuy, error) {
	if input.GroupBuyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "group buy id required")
	}
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	target := enums.GroupBuyStatusCancelled
	if input.Completed {
		target = enums.GroupBuyStatusCompleted
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		groupBuy, err := repo.FindByID(ctx, input.GroupBuyID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "group buy not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load group buy")
		}
		if groupBuy.OrganizerID != input.ActorID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only the organizer can close a group buy")
		}

		affected, err := repo.UpdateStatusFromActive(ctx, input.GroupBuyID, target)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "close group buy")
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "group buy already closed")
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventGroupBuyClosed,
			AggregateType: enums.AggregateGroupBuy,
			AggregateID:   input.GroupBuyID,
			Actor:         &outbox.ActorRef{UserID: input.ActorID, Role: input.ActorRole},
			Data: ClosedEvent{
				GroupBuyID: input.GroupBuyID,
				Status:     string(target),
			},
		}
		return s.outbox.Emit(ctx, tx, event)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, input.GroupBuyID)
}

// markTrust is best-effort; a failed profile update never rolls back the
// business write it followed.
func (s *service) markTrust(ctx context.Context, vendorID uuid.UUID) {
	if err := s.trust.MarkActivity(ctx, vendorID, profiles.ActivityGroupBuy); err != nil {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "vendor_id", vendorID.String()), "trust activity update failed")
		}
	}
}
