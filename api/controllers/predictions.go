package controllers

import (
	"net/http"

	"github.com/arjunkedar/mandisathi-backend/api/middleware"
	"github.com/arjunkedar/mandisathi-backend/api/responses"
	"github.com/arjunkedar/mandisathi-backend/api/validators"
	"github.com/arjunkedar/mandisathi-backend/internal/predictions"
	pkgerrors "github.com/arjunkedar/mandisathi-backend/pkg/errors"
	"github.com/arjunkedar/mandisathi-backend/pkg/logger"
)

type generatePredictionRequest struct {
	City       string `json:"city" validate:"omitempty,max=80"`
	VendorType string `json:"vendorType" validate:"omitempty,max=80"`
}

// PredictionGenerate runs a forecast for the caller and stores the result.
func PredictionGenerate(svc predictions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "prediction service unavailable"))
			return
		}

		vendorID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body generatePredictionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		city := body.City
		if city == "" {
			city = middleware.CityFromContext(r.Context())
		}

		generated, err := svc.Generate(r.Context(), predictions.GenerateInput{
			VendorID:   vendorID,
			ActorRole:  middleware.RoleFromContext(r.Context()),
			City:       city,
			VendorType: body.VendorType,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, predictions.FromModel(generated))
	}
}

// PredictionLatest returns the caller's most recent forecast, or null when
// none has been generated yet.
func PredictionLatest(svc predictions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "prediction service unavailable"))
			return
		}

		vendorID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		latest, err := svc.Latest(r.Context(), vendorID)
		if err != nil {
			if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
				responses.WriteSuccess(w, nil)
				return
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, predictions.FromModel(latest))
	}
}

// PredictionHistory returns the caller's forecast history, newest first.
func PredictionHistory(svc predictions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "prediction service unavailable"))
			return
		}

		vendorID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 10, 1, 50)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		history, err := svc.History(r.Context(), vendorID, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, predictions.FromModels(history))
	}
}
