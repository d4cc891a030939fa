package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/arjunkedar/mandisathi-backend/api/responses"
	"github.com/arjunkedar/mandisathi-backend/api/validators"
	"github.com/arjunkedar/mandisathi-backend/internal/reviews"
	pkgerrors "github.com/arjunkedar/mandisathi-backend/pkg/errors"
	"github.com/arjunkedar/mandisathi-backend/pkg/logger"
	"github.com/arjunkedar/mandisathi-backend/pkg/pagination"
)

type createReviewRequest struct {
	VendorID     string  `json:"vendorId" validate:"required,uuid"`
	Rating       int     `json:"rating" validate:"required,min=1,max=5"`
	Comment      *string `json:"comment" validate:"omitempty,max=1000"`
	RescueItemID *string `json:"rescueItemId" validate:"omitempty,uuid"`
}

// ReviewCreate records the caller's rating of a vendor.
func ReviewCreate(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reviews service unavailable"))
			return
		}

		buyerID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createReviewRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vendorID, err := uuid.Parse(body.VendorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid vendorId"))
			return
		}

		var rescueItemID *uuid.UUID
		if body.RescueItemID != nil {
			parsed, err := uuid.Parse(*body.RescueItemID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid rescueItemId"))
				return
			}
			rescueItemID = &parsed
		}

		created, err := svc.Create(r.Context(), reviews.CreateInput{
			VendorID:     vendorID,
			BuyerID:      buyerID,
			Rating:       body.Rating,
			Comment:      body.Comment,
			RescueItemID: rescueItemID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, reviews.FromModel(created))
	}
}

// ReviewList returns a vendor's review feed.
func ReviewList(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reviews service unavailable"))
			return
		}

		vendorID, err := pathUUID(r, "vendorId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListByVendor(r.Context(), reviews.ListInput{
			VendorID: vendorID,
			Limit:    limit,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, reviews.FromModels(list))
	}
}
