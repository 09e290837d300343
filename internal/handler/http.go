package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/gym-wars/internal/config"
	"github.com/gym-wars/internal/domain"
	"github.com/gym-wars/internal/metrics"
	"github.com/gym-wars/internal/service"
	"github.com/gym-wars/internal/store"
)

// maxBodyBytes caps every JSON request body.
const maxBodyBytes = 1 << 20

// Services groups the operations the HTTP API exposes.
type Services struct {
	Leaderboard   *service.LeaderboardService
	Registrations *service.RegistrationService
	Participants  *service.ParticipantService
}

// Handler provides HTTP handlers for the Gym Wars API
type Handler struct {
	leaderboard   *service.LeaderboardService
	registrations *service.RegistrationService
	participants  *service.ParticipantService
	backend       store.Backend
	metrics       *metrics.Metrics
	cfg           *config.Config
	limiter       *IPRateLimiter
	logger        *slog.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(svcs Services, backend store.Backend, m *metrics.Metrics, cfg *config.Config, logger *slog.Logger) *Handler {
	h := &Handler{
		leaderboard:   svcs.Leaderboard,
		registrations: svcs.Registrations,
		participants:  svcs.Participants,
		backend:       backend,
		metrics:       m,
		cfg:           cfg,
		logger:        logger,
	}
	if cfg.RateLimit.Enabled {
		perSecond := rate.Limit(float64(cfg.RateLimit.RequestsPerMinute) / time.Minute.Seconds())
		h.limiter = NewIPRateLimiter(perSecond, cfg.RateLimit.Burst, cfg.RateLimit.CleanupInterval)
	}
	return h
}

// Router creates and configures the HTTP router
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(corsMiddleware(h.cfg.Server.AllowedOrigins))

	// Health check
	r.Get("/health", h.HealthCheck)
	r.Get("/ready", h.ReadyCheck)
	if h.metrics != nil {
		r.Handle("/metrics", h.metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/leaderboard", func(r chi.Router) {
			r.Get("/", h.ListLeaderboard)
			r.Get("/ranked", h.RankedLeaderboard)
			r.With(h.adminOnly).Post("/", h.UpsertLeaderboard)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(h.adminOnly)
			r.Post("/leaderboard", h.AdminUpsertLeaderboard)
			r.Post("/leaderboard/import-registrations", h.ImportRegistrations)
		})

		r.Get("/register-gym", h.GymRegistrationInfo)
		r.With(h.rateLimited).Post("/register-gym", h.RegisterGym)

		for _, path := range []string{"/vendors", "/vendor"} {
			r.Get(path, h.VendorRegistrationInfo)
			r.With(h.rateLimited).Post(path, h.RegisterVendor)
		}

		r.With(h.rateLimited).Post("/gym-requests", h.RequestGym)
		r.Get("/gyms", h.ListGyms)

		r.Route("/participants", func(r chi.Router) {
			r.Get("/", h.FindParticipant)
			r.With(h.rateLimited).Post("/", h.CreateParticipant)
			r.With(h.rateLimited).Put("/", h.UpdateParticipant)
			r.With(h.adminOnly).Get("/export", h.ExportParticipants)
		})
	})

	return r
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Warn("failed to encode response", "error", err)
	}
}

// writeOK writes {"ok": true} plus fields.
func (h *Handler) writeOK(w http.ResponseWriter, fields map[string]any) {
	body := map[string]any{"ok": true}
	for k, v := range fields {
		body[k] = v
	}
	h.writeJSON(w, http.StatusOK, body)
}

// errorBody is the failure envelope.
type errorBody struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// writeError maps err to a status and a client-safe message. Anything not
// recognized is logged and reported as a generic server error.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		h.writeJSON(w, http.StatusBadRequest, errorBody{Error: ve.Error()})
	case errors.Is(err, domain.ErrInvalidRequest):
		h.writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid payload"})
	case errors.Is(err, domain.ErrUnauthorized):
		h.writeJSON(w, http.StatusUnauthorized, errorBody{Error: "Unauthorized"})
	case errors.Is(err, domain.ErrParticipantNotFound):
		h.writeJSON(w, http.StatusNotFound, errorBody{Error: "No participant with that email.", Code: "NOT_FOUND"})
	case errors.Is(err, domain.ErrDuplicateEmail):
		h.writeJSON(w, http.StatusConflict, errorBody{Error: "This email is already registered.", Code: "DUPLICATE_EMAIL"})
	case errors.Is(err, domain.ErrRateLimited):
		h.writeJSON(w, http.StatusTooManyRequests, errorBody{Error: "Too many requests"})
	default:
		h.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"error", err,
		)
		h.writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Server error"})
	}
}

// readBody reads a bounded request body.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, domain.ErrInvalidRequest
	}
	return body, nil
}

// decodeObject reads a JSON object body.
func decodeObject(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	body, err := readBody(w, r)
	if err != nil {
		return nil, err
	}
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return nil, domain.ErrInvalidRequest
	}
	return raw, nil
}

func noStore(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeOK(w, map[string]any{"status": "healthy"})
}

// ReadyCheck reports whether the storage backend is reachable
func (h *Handler) ReadyCheck(w http.ResponseWriter, r *http.Request) {
	if err := store.Ping(r.Context(), h.backend); err != nil {
		h.logger.Warn("readiness check failed", "error", err)
		h.writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "Storage unavailable"})
		return
	}
	h.writeOK(w, map[string]any{"status": "ready", "store": h.cfg.Store.Driver})
}
