package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/vonga-club/api/internal/config"
	"github.com/vonga-club/api/internal/database"
	"github.com/vonga-club/api/internal/handler"
	mw "github.com/vonga-club/api/internal/middleware"
	"github.com/vonga-club/api/internal/notify"
	"github.com/vonga-club/api/internal/payments"
	"github.com/vonga-club/api/internal/service"
	"github.com/vonga-club/api/internal/ws"
)

// New creates a Chi router with all application routes wired up.
func New(cfg *config.Config, queries *database.Queries, hub *ws.Hub) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:3000", // Next.js dev server
			"https://vonga.io",
			"https://www.vonga.io",
		},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Stripe-Signature"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	stripeClient := payments.NewClient(cfg.StripeSecretKey, cfg.BaseURL)
	verifier := payments.NewSignatureVerifier(cfg.StripeWebhookSecret)
	notifier := notify.New(
		notify.NewEmailSender(cfg.ResendAPIKey, cfg.ResendFromEmail, cfg.BaseURL),
		notify.NewSlackSender(cfg.SlackWebhookURL, cfg.BaseURL),
	)
	orderService := service.NewOrderService(queries)

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})

	// Auth routes (public)
	authHandler := handler.NewAuthHandler(queries, cfg.JWTSecret)
	authHandler.RegisterRoutes(r)

	// Stripe webhook (authenticated by signature, not JWT)
	webhookHandler := handler.NewWebhookHandler(verifier, orderService, queries, notifier, hub)
	webhookHandler.RegisterRoutes(r)

	// Customer-facing order routes
	orderHandler := handler.NewOrderHandler(queries)
	r.Get("/api/club/orders/{id}", orderHandler.Get)

	paymentHandler := handler.NewPaymentHandler(queries, stripeClient)
	r.Post("/api/club/checkout", paymentHandler.CreateDeposit)
	r.Post("/api/club/payments/second", paymentHandler.CreateSecond)
	r.Post("/api/club/payments/final", paymentHandler.CreateFinal)

	// Lead intake
	leadHandler := handler.NewLeadHandler(queries, notifier, handler.ApptURLs{
		Default:   cfg.ApptURLDefault,
		Pro:       cfg.ApptURLPro,
		SportEdu:  cfg.ApptURLSportEdu,
		Partners:  cfg.ApptURLPartners,
		Community: cfg.ApptURLCommunity,
		Digital:   cfg.ApptURLDigital,
	})
	r.Post("/api/intake/submit", leadHandler.SubmitIntake)
	r.Post("/api/club/get-started", leadHandler.SubmitClubRequest)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/admin/orders", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, w, r)
	})

	// Admin routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))
		r.Use(mw.RequireRole("ADMIN"))

		r.Get("/api/admin/orders", orderHandler.List)

		adminHandler := handler.NewAdminHandler(queries, notifier, hub, cfg.BaseURL)
		r.Post("/api/admin/orders/{id}/approve-design", adminHandler.ApproveDesign)
		r.Post("/api/admin/orders/{id}/ready-to-ship", adminHandler.ReadyToShip)
	})

	return r
}
