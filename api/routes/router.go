package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arjunkedar/mandisathi-backend/api/controllers"
	"github.com/arjunkedar/mandisathi-backend/api/middleware"
	"github.com/arjunkedar/mandisathi-backend/internal/auth"
	"github.com/arjunkedar/mandisathi-backend/internal/groupbuys"
	"github.com/arjunkedar/mandisathi-backend/internal/predictions"
	"github.com/arjunkedar/mandisathi-backend/internal/profiles"
	"github.com/arjunkedar/mandisathi-backend/internal/rescue"
	"github.com/arjunkedar/mandisathi-backend/internal/reviews"
	"github.com/arjunkedar/mandisathi-backend/internal/users"
	"github.com/arjunkedar/mandisathi-backend/pkg/auth/session"
	"github.com/arjunkedar/mandisathi-backend/pkg/config"
	"github.com/arjunkedar/mandisathi-backend/pkg/db"
	"github.com/arjunkedar/mandisathi-backend/pkg/enums"
	"github.com/arjunkedar/mandisathi-backend/pkg/logger"
	"github.com/arjunkedar/mandisathi-backend/pkg/metrics"
	"github.com/arjunkedar/mandisathi-backend/pkg/redis"
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          *db.Client
	Redis       *redis.Client
	Sessions    session.AccessSessionChecker
	HTTPMetrics *metrics.HTTPMetrics

	AuthService       auth.Service
	UserRepo          users.Repository
	ProfileService    profiles.Service
	GroupBuyService   groupbuys.Service
	RescueService     rescue.Service
	ReviewService     reviews.Service
	PredictionService predictions.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	authed := middleware.Auth(cfg.JWT, deps.Sessions, logg)
	vendorOnly := middleware.RequireRole(string(enums.UserRoleVendor), logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, deps.Redis, logg))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).Post("/register", controllers.AuthRegister(deps.AuthService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.With(authed).Post("/logout", controllers.AuthLogout(deps.AuthService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())

		r.Get("/groupbuys", controllers.GroupBuyList(deps.GroupBuyService, logg))
		r.Get("/groupbuys/{groupBuyId}", controllers.GroupBuyDetail(deps.GroupBuyService, logg))
		r.Get("/groupbuys/{groupBuyId}/participants", controllers.GroupBuyParticipants(deps.GroupBuyService, logg))
		r.Get("/rescue", controllers.RescueItemList(deps.RescueService, logg))
		r.Get("/rescue/{itemId}", controllers.RescueItemDetail(deps.RescueService, logg))
		r.Get("/vendors/{vendorId}", controllers.VendorDetail(deps.UserRepo, deps.ProfileService, deps.ReviewService, logg))
		r.Get("/reviews/{vendorId}", controllers.ReviewList(deps.ReviewService, logg))

		r.Group(func(r chi.Router) {
			r.Use(authed)

			r.Get("/me/ping", controllers.PrivatePing())

			r.With(vendorOnly).Post("/predict", controllers.PredictionGenerate(deps.PredictionService, logg))
			r.With(vendorOnly).Get("/predict/latest", controllers.PredictionLatest(deps.PredictionService, logg))
			r.With(vendorOnly).Get("/predict/history", controllers.PredictionHistory(deps.PredictionService, logg))

			r.With(vendorOnly).Post("/groupbuys", controllers.GroupBuyCreate(deps.GroupBuyService, logg))
			r.Post("/groupbuys/{groupBuyId}/join", controllers.GroupBuyJoin(deps.GroupBuyService, logg))
			r.Post("/groupbuys/{groupBuyId}/close", controllers.GroupBuyClose(deps.GroupBuyService, logg))

			r.With(vendorOnly).Post("/rescue", controllers.RescueItemCreate(deps.RescueService, logg))
			r.Post("/rescue/{itemId}/claim", controllers.RescueItemClaim(deps.RescueService, logg))
			r.With(vendorOnly).Post("/rescue/{itemId}/complete", controllers.RescueItemComplete(deps.RescueService, logg))

			r.With(vendorOnly).Get("/vendors/me", controllers.VendorMe(deps.UserRepo, deps.ProfileService, deps.ReviewService, logg))
			r.With(vendorOnly).Put("/vendors/me", controllers.VendorUpdateMe(deps.ProfileService, logg))

			r.Post("/reviews", controllers.ReviewCreate(deps.ReviewService, logg))
		})
	})

	return r
}
