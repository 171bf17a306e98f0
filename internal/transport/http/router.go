package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/carmarket-api/internal/application/auth"
	"github.com/carmarket-api/internal/application/catalog"
	"github.com/carmarket-api/internal/application/emi"
	"github.com/carmarket-api/internal/application/inquiry"
	"github.com/carmarket-api/internal/application/listing"
	mediaapp "github.com/carmarket-api/internal/application/media"
	"github.com/carmarket-api/internal/application/moderation"
	"github.com/carmarket-api/internal/application/notification"
	"github.com/carmarket-api/internal/config"
	"github.com/carmarket-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/carmarket-api/internal/infrastructure/jwt"
	s3infra "github.com/carmarket-api/internal/infrastructure/s3"
	"github.com/carmarket-api/internal/infrastructure/smtp"
	"github.com/carmarket-api/internal/infrastructure/sns"
	"github.com/carmarket-api/internal/transport/http/handler"
	appmiddleware "github.com/carmarket-api/internal/transport/http/middleware"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo         *dynamo.UserRepo
	SessionRepo      *dynamo.SessionRepo
	OTPRepo          *dynamo.OTPRepo
	AdminRepo        *dynamo.AdminRepo
	BrandRepo        *dynamo.BrandRepo
	ModelRepo        *dynamo.CarModelRepo
	VariantRepo      *dynamo.CarVariantRepo
	CityRepo         *dynamo.CityRepo
	CarRepo          *dynamo.CarRepo
	MediaRepo        *dynamo.MediaRepo
	ReviewRepo       *dynamo.ReviewRepo
	QueueRepo        *dynamo.ModerationQueueRepo
	InquiryRepo      *dynamo.InquiryRepo
	NotificationRepo *dynamo.NotificationRepo
	ActivityRepo     *dynamo.ActivityRepo
	S3Store          *s3infra.Store
	Mailer           smtp.Mailer
	SMSSender        sns.SMSSender
	JWTProvider      *jwtinfra.Provider
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	passthrough := func(next http.Handler) http.Handler { return next }
	authMw, adminMw, optionalMw := passthrough, passthrough, passthrough
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
		adminMw = appmiddleware.AdminAuth(deps.JWTProvider)
		optionalMw = appmiddleware.OptionalAuth(deps.JWTProvider)
	}

	// 5 requests/second, burst of 10, applied to sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	catalogSvc := catalog.NewService(catalog.ServiceDeps{
		BrandRepo:   deps.BrandRepo,
		ModelRepo:   deps.ModelRepo,
		VariantRepo: deps.VariantRepo,
		CityRepo:    deps.CityRepo,
	})
	notifSvc := notification.NewService(notification.ServiceDeps{
		NotificationRepo: deps.NotificationRepo,
		UserRepo:         deps.UserRepo,
		Mailer:           deps.Mailer,
		SMSSender:        deps.SMSSender,
	})
	authDeps := auth.ServiceDeps{
		OTPRepo:         deps.OTPRepo,
		UserRepo:        deps.UserRepo,
		SessionRepo:     deps.SessionRepo,
		AdminRepo:       deps.AdminRepo,
		Mailer:          deps.Mailer,
		SMSSender:       deps.SMSSender,
		OTPExpiry:       cfg.OTPExpiry,
		OTPMaxAttempts:  cfg.OTPMaxAttempts,
		RefreshTokenDur: cfg.RefreshTokenDur,
		DebugCodes:      cfg.AppEnv == "development",
	}
	if deps.JWTProvider != nil {
		authDeps.JWTProvider = deps.JWTProvider
	}
	authSvc := auth.NewService(authDeps)
	listingSvc := listing.NewService(listing.ServiceDeps{
		CarRepo:   deps.CarRepo,
		MediaRepo: deps.MediaRepo,
		UserRepo:  deps.UserRepo,
		QueueRepo: deps.QueueRepo,
		Objects:   deps.S3Store,
		Taxonomy:  catalogSvc,
	})
	moderationSvc := moderation.NewService(moderation.ServiceDeps{
		CarRepo:      deps.CarRepo,
		ReviewRepo:   deps.ReviewRepo,
		QueueRepo:    deps.QueueRepo,
		ActivityRepo: deps.ActivityRepo,
		Taxonomy:     catalogSvc,
		Notifier:     notifSvc,
	})
	inquirySvc := inquiry.NewService(inquiry.ServiceDeps{
		InquiryRepo:         deps.InquiryRepo,
		CarRepo:             deps.CarRepo,
		Mailer:              deps.Mailer,
		Notifier:            notifSvc,
		InternalNotifyEmail: cfg.InternalNotifyEmail,
	})
	mediaSvc := mediaapp.NewService(mediaapp.ServiceDeps{
		MediaRepo: deps.MediaRepo,
		Objects:   deps.S3Store,
	})
	emiSvc := emi.NewService()

	authH := handler.NewAuthHandler(authSvc)
	profileH := handler.NewProfileHandler(authSvc)
	carH := handler.NewCarHandler(listingSvc)
	inquiryH := handler.NewInquiryHandler(inquirySvc)
	notifH := handler.NewNotificationHandler(notifSvc)
	adminH := handler.NewAdminHandler(moderationSvc, mediaSvc)
	uploadH := handler.NewUploadHandler(mediaSvc)
	utilsH := handler.NewUtilsHandler(emiSvc, catalogSvc, cfg)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/utils/health", utilsH.Health)
		r.Post("/utils/calculate-emi", utilsH.CalculateEMI)
		r.Get("/utils/cities", utilsH.Cities)
		r.Get("/utils/car-data", utilsH.CarData)
		r.Get("/utils/config", utilsH.Config)

		r.With(sensitiveRL.Limit).Post("/auth/send-otp", authH.SendOTP)
		r.With(sensitiveRL.Limit).Post("/auth/verify-otp", authH.VerifyOTP)
		r.Post("/auth/refresh", authH.Refresh)
		r.With(sensitiveRL.Limit).Post("/auth/admin/login", authH.AdminLogin)

		r.Get("/cars", carH.List)
		r.With(optionalMw).Get("/cars/{id}", carH.Get)
		r.With(optionalMw, sensitiveRL.Limit).Post("/cars/{id}/contact", inquiryH.Create)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Post("/auth/logout", authH.Logout)
			r.Get("/auth/me", profileH.Me)
			r.Put("/auth/me", profileH.Update)
			r.Delete("/auth/me", profileH.Delete)

			r.Post("/cars", carH.Create)
			r.Put("/cars/{id}", carH.Update)
			r.Post("/cars/{id}/sold", carH.MarkSold)
			r.Delete("/cars/{id}", carH.Delete)
			r.Get("/cars/{id}/inquiries", inquiryH.ListForCar)

			r.Get("/sellers/listings", carH.SellerListings)
			r.Get("/sellers/stats", carH.SellerStats)

			r.Get("/inquiries", inquiryH.ListForSeller)
			r.Post("/inquiries/{id}/respond", inquiryH.Respond)
			r.Post("/inquiries/{id}/spam", inquiryH.MarkSpam)

			r.Get("/notifications", notifH.List)
			r.Put("/notifications/{id}/read", notifH.MarkRead)

			r.Post("/upload/car-images", uploadH.CarImages)
			r.Post("/upload/car-video", uploadH.CarVideo)
			r.Delete("/upload/files/{id}", uploadH.Delete)
		})

		// ── Admin routes ─────────────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(adminMw)

			r.Get("/admin/cars", adminH.Listings)
			r.Post("/admin/cars/bulk-action", adminH.BulkAction)
			r.Get("/admin/cars/{id}", adminH.GetCar)
			r.Patch("/admin/cars/{id}", adminH.UpdateCar)
			r.Post("/admin/cars/{id}/review", adminH.Review)
			r.Get("/admin/cars/{id}/history", adminH.History)
			r.Get("/admin/moderation-queue", adminH.Queue)
			r.Get("/admin/dashboard", adminH.Dashboard)
			r.Get("/admin/activities", adminH.Activities)
			r.Delete("/admin/files/{id}", uploadH.Delete)
		})
	})

	return r
}
