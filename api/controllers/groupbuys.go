package controllers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/arjunkedar/mandisathi-backend/api/middleware"
	"github.com/arjunkedar/mandisathi-backend/api/responses"
	"github.com/arjunkedar/mandisathi-backend/api/validators"
	"github.com/arjunkedar/mandisathi-backend/internal/groupbuys"
	pkgerrors "github.com/arjunkedar/mandisathi-backend/pkg/errors"
	"github.com/arjunkedar/mandisathi-backend/pkg/logger"
	"github.com/arjunkedar/mandisathi-backend/pkg/pagination"
)

type createGroupBuyRequest struct {
	Ingredient     string          `json:"ingredient" validate:"required,max=120"`
	TargetQuantity decimal.Decimal `json:"targetQuantity" validate:"required"`
	PricePerKg     decimal.Decimal `json:"pricePerKg" validate:"required"`
	OriginalPrice  decimal.Decimal `json:"originalPrice" validate:"required"`
	City           string          `json:"city" validate:"required,max=80"`
	Deadline       time.Time       `json:"deadline" validate:"required"`
}

type joinGroupBuyRequest struct {
	Quantity decimal.Decimal `json:"quantity" validate:"required"`
}

type closeGroupBuyRequest struct {
	Completed bool `json:"completed"`
}

// GroupBuyCreate opens a new pooled purchase for the caller's city.
func GroupBuyCreate(svc groupbuys.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "group buy service unavailable"))
			return
		}

		organizerID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createGroupBuyRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), groupbuys.CreateInput{
			OrganizerID:    organizerID,
			OrganizerRole:  middleware.RoleFromContext(r.Context()),
			OrganizerCity:  middleware.CityFromContext(r.Context()),
			Ingredient:     body.Ingredient,
			TargetQuantity: body.TargetQuantity,
			PricePerKg:     body.PricePerKg,
			OriginalPrice:  body.OriginalPrice,
			City:           body.City,
			Deadline:       body.Deadline,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, groupbuys.FromModel(created))
	}
}

// GroupBuyList returns the city feed of pools.
func GroupBuyList(svc groupbuys.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "group buy service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		city := validators.QueryString(r, "city", middleware.CityFromContext(r.Context()))
		status := validators.QueryString(r, "status", "")

		list, err := svc.List(r.Context(), groupbuys.ListInput{
			City:   city,
			Status: status,
			Limit:  limit,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, groupbuys.FromModels(list))
	}
}

type groupBuyDetailResponse struct {
	groupbuys.View
	Participants []groupbuys.ParticipantView `json:"participants"`
}

// GroupBuyDetail returns one pool with its contribution ledger.
func GroupBuyDetail(svc groupbuys.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "group buy service unavailable"))
			return
		}

		id, err := pathUUID(r, "groupBuyId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		participants, err := svc.Participants(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, groupBuyDetailResponse{
			View:         groupbuys.FromModel(detail),
			Participants: groupbuys.FromParticipants(participants),
		})
	}
}

// GroupBuyParticipants returns the contribution ledger for one pool.
func GroupBuyParticipants(svc groupbuys.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "group buy service unavailable"))
			return
		}

		id, err := pathUUID(r, "groupBuyId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.Participants(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, groupbuys.FromParticipants(rows))
	}
}

// GroupBuyJoin records the caller's contribution to an open pool.
func GroupBuyJoin(svc groupbuys.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "group buy service unavailable"))
			return
		}

		vendorID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := pathUUID(r, "groupBuyId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body joinGroupBuyRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		joined, err := svc.Join(r.Context(), groupbuys.JoinInput{
			GroupBuyID: id,
			VendorID:   vendorID,
			VendorRole: middleware.RoleFromContext(r.Context()),
			Quantity:   body.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, groupbuys.FromModel(joined))
	}
}

// GroupBuyClose transitions a pool into a terminal state.
func GroupBuyClose(svc groupbuys.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "group buy service unavailable"))
			return
		}

		callerID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := pathUUID(r, "groupBuyId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body closeGroupBuyRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		closed, err := svc.Close(r.Context(), groupbuys.CloseInput{
			GroupBuyID: id,
			ActorID:    callerID,
			ActorRole:  middleware.RoleFromContext(r.Context()),
			Completed:  body.Completed,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, groupbuys.FromModel(closed))
	}
}
