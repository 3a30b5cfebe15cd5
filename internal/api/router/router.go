package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/reservation-assistant/internal/conversation"
	httpmiddleware "github.com/wolfman30/reservation-assistant/internal/http/middleware"
	"github.com/wolfman30/reservation-assistant/internal/webchat"
	"github.com/wolfman30/reservation-assistant/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	ConversationHandler *conversation.Handler
	WebChatHandler      *webchat.Handler
	MetricsHandler      http.Handler
	CORSAllowedOrigins  []string
	OwnerCookie         string
	// RateLimiter throttles reservation turns per owner; nil disables it.
	RateLimiter *httpmiddleware.RateLimiter
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	// Owner-scoped endpoints. The request logger runs inside Owner so every
	// line carries the owner id.
	r.Group(func(owned chi.Router) {
		owned.Use(httpmiddleware.Owner(cfg.OwnerCookie))
		if cfg.Logger != nil {
			owned.Use(httpmiddleware.RequestLogger(cfg.Logger))
		}
		if cfg.RateLimiter != nil {
			owned.Use(httpmiddleware.RateLimit(cfg.RateLimiter))
		}

		if cfg.ConversationHandler != nil {
			owned.Group(func(api chi.Router) {
				api.Use(middleware.Compress(5))
				api.Post("/process_reservation", cfg.ConversationHandler.ProcessReservation)
				api.Get("/get_reservations", cfg.ConversationHandler.GetReservations)
			})
		}
		if cfg.WebChatHandler != nil {
			owned.Get("/ws", cfg.WebChatHandler.HandleWebSocket)
		}
	})

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
