package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/arjunkedar/mandisathi-backend/api/middleware"
	"github.com/arjunkedar/mandisathi-backend/api/responses"
	"github.com/arjunkedar/mandisathi-backend/api/validators"
	"github.com/arjunkedar/mandisathi-backend/internal/rescue"
	pkgerrors "github.com/arjunkedar/mandisathi-backend/pkg/errors"
	"github.com/arjunkedar/mandisathi-backend/pkg/logger"
	"github.com/arjunkedar/mandisathi-backend/pkg/pagination"
)

type createRescueItemRequest struct {
	Title         string          `json:"title" validate:"required,max=120"`
	Description   string          `json:"description" validate:"required,max=1000"`
	Type          string          `json:"type" validate:"required,oneof=prepared raw"`
	Quantity      string          `json:"quantity" validate:"required,max=80"`
	OriginalPrice decimal.Decimal `json:"originalPrice" validate:"required"`
	RescuePrice   decimal.Decimal `json:"rescuePrice" validate:"required"`
	City          string          `json:"city" validate:"required,max=80"`
	IsHot         bool            `json:"isHot"`
}

// RescueItemCreate posts a surplus listing.
func RescueItemCreate(svc rescue.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "rescue service unavailable"))
			return
		}

		vendorID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createRescueItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), rescue.CreateInput{
			VendorID:      vendorID,
			VendorRole:    middleware.RoleFromContext(r.Context()),
			Title:         body.Title,
			Description:   body.Description,
			Type:          body.Type,
			Quantity:      body.Quantity,
			OriginalPrice: body.OriginalPrice,
			RescuePrice:   body.RescuePrice,
			City:          body.City,
			IsHot:         body.IsHot,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, rescue.FromModel(created))
	}
}

// RescueItemList returns the city feed of listings.
func RescueItemList(svc rescue.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "rescue service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		city := validators.QueryString(r, "city", middleware.CityFromContext(r.Context()))
		status := validators.QueryString(r, "status", "")

		list, err := svc.List(r.Context(), rescue.ListInput{
			City:   city,
			Status: status,
			Limit:  limit,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rescue.FromModels(list))
	}
}

// RescueItemDetail returns one listing by id.
func RescueItemDetail(svc rescue.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "rescue service unavailable"))
			return
		}

		id, err := pathUUID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rescue.FromModel(item))
	}
}

// RescueItemClaim attempts to claim an available listing for the caller.
func RescueItemClaim(svc rescue.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "rescue service unavailable"))
			return
		}

		claimantID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := pathUUID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		claimed, err := svc.Claim(r.Context(), rescue.ClaimInput{
			ItemID:     id,
			ClaimantID: claimantID,
			ActorRole:  middleware.RoleFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rescue.FromModel(claimed))
	}
}

// RescueItemComplete confirms the hand-off of a claimed listing.
func RescueItemComplete(svc rescue.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "rescue service unavailable"))
			return
		}

		callerID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := pathUUID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		completed, err := svc.Complete(r.Context(), rescue.CompleteInput{
			ItemID:    id,
			ActorID:   callerID,
			ActorRole: middleware.RoleFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rescue.FromModel(completed))
	}
}
