package reviews

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arjunkedar/mandisathi-backend/pkg/db/models"
	pkgerrors "github.com/arjunkedar/mandisathi-backend/pkg/errors"
	"github.com/arjunkedar/mandisathi-backend/pkg/logger"
	"github.com/arjunkedar/mandisathi-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type trustRefresher interface {
	RecalculateTrust(ctx context.Context, userID uuid.UUID) error
}

// Service defines review operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Review, error)
	ListByVendor(ctx context.Context, input ListInput) ([]models.Review, error)
}

type service struct {
	repo  Repository
	tx    txRunner
	trust trustRefresher
	logg  *logger.Logger
}

// NewService builds a reviews service with the required dependencies.
func NewService(repo Repository, tx txRunner, trust trustRefresher, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reviews repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if trust == nil {
		return nil, fmt.Errorf("trust refresher required")
	}
	return &service{repo: repo, tx: tx, trust: trust, logg: logg}, nil
}

// Create stores the review and folds the rating into the vendor aggregate in
// the same transaction.
func (s *service) Create(ctx context.Context, input CreateInput) (*models.Review, error) {
	if input.VendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id required")
	}
	if input.BuyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.BuyerID == input.VendorID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendors cannot review themselves")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	review := &models.Review{
		ID:           uuid.New(),
		VendorID:     input.VendorID,
		BuyerID:      input.BuyerID,
		Rating:       input.Rating,
		Comment:      input.Comment,
		RescueItemID: input.RescueItemID,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		created, err := repo.Create(ctx, review)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create review")
		}
		review = created

		affected, err := repo.ApplyRatingAggregate(ctx, input.VendorID, input.Rating)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update vendor rating")
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return nil, err
	}

	// A moved average can cross the 4.0 bonus threshold; refresh outside the
	// review transaction, best-effort.
	if err := s.trust.RecalculateTrust(ctx, input.VendorID); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "vendor_id", input.VendorID.String()), "trust refresh failed")
	}

	return review, nil
}

func (s *service) ListByVendor(ctx context.Context, input ListInput) ([]models.Review, error) {
	if input.VendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id required")
	}
	rows, err := s.repo.ListByVendor(ctx, input.VendorID, pagination.NormalizeLimit(input.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}
	return rows, nil
}
