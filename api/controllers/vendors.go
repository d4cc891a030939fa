package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/arjunkedar/mandisathi-backend/api/responses"
	"github.com/arjunkedar/mandisathi-backend/api/validators"
	"github.com/arjunkedar/mandisathi-backend/internal/profiles"
	"github.com/arjunkedar/mandisathi-backend/internal/reviews"
	"github.com/arjunkedar/mandisathi-backend/internal/users"
	pkgerrors "github.com/arjunkedar/mandisathi-backend/pkg/errors"
	"github.com/arjunkedar/mandisathi-backend/pkg/logger"
	"github.com/arjunkedar/mandisathi-backend/pkg/pagination"
)

type vendorDetailResponse struct {
	User    users.Summary  `json:"user"`
	Profile *profiles.View `json:"profile,omitempty"`
	Reviews []reviews.View `json:"reviews"`
}

type updateVendorProfileRequest struct {
	BusinessName   *string `json:"businessName" validate:"omitempty,min=1,max=120"`
	SourcingMethod *string `json:"sourcingMethod" validate:"omitempty,max=120"`
}

// VendorDetail assembles the public vendor page: identity, trust profile and
// recent reviews.
func VendorDetail(userRepo users.Repository, profileSvc profiles.Service, reviewSvc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "vendorId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeVendorDetail(w, r, id, userRepo, profileSvc, reviewSvc, logg)
	}
}

// VendorMe returns the caller's own vendor page.
func VendorMe(userRepo users.Repository, profileSvc profiles.Service, reviewSvc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeVendorDetail(w, r, id, userRepo, profileSvc, reviewSvc, logg)
	}
}

func writeVendorDetail(w http.ResponseWriter, r *http.Request, vendorID uuid.UUID, userRepo users.Repository, profileSvc profiles.Service, reviewSvc reviews.Service, logg *logger.Logger) {
	if userRepo == nil || profileSvc == nil || reviewSvc == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vendor services unavailable"))
		return
	}

	user, err := userRepo.FindByID(r.Context(), vendorID)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}

	detail := vendorDetailResponse{
		User:    users.FromModel(user),
		Reviews: []reviews.View{},
	}

	// Buyers and suppliers have no trust profile; the page still renders.
	profile, err := profileSvc.Get(r.Context(), vendorID)
	if err == nil {
		view := profiles.FromModel(profile)
		detail.Profile = &view
	} else if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}

	list, err := reviewSvc.ListByVendor(r.Context(), reviews.ListInput{
		VendorID: vendorID,
		Limit:    pagination.DefaultLimit,
	})
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}
	detail.Reviews = reviews.FromModels(list)

	responses.WriteSuccess(w, detail)
}

// VendorUpdateMe updates the caller's trust profile fields.
func VendorUpdateMe(profileSvc profiles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if profileSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "profile service unavailable"))
			return
		}

		id, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateVendorProfileRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := profileSvc.Update(r.Context(), id, profiles.UpdateInput{
			BusinessName:   body.BusinessName,
			SourcingMethod: body.SourcingMethod,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, profiles.FromModel(updated))
	}
}
