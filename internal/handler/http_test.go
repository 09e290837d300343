package handler

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gym-wars/internal/config"
	"github.com/gym-wars/internal/metrics"
	"github.com/gym-wars/internal/service"
	"github.com/gym-wars/internal/store"
	"github.com/gym-wars/internal/validate"
)

const adminToken = "test-admin-token"

type testServer struct {
	router  http.Handler
	backend store.Backend
	metrics *metrics.Metrics
}

func newTestServer(t *testing.T, backend store.Backend, configure func(*config.Config)) *testServer {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Admin.Token = adminToken
	cfg.RateLimit.Enabled = false
	cfg.Store.Driver = config.DriverMemory
	if configure != nil {
		configure(cfg)
	}

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	m := metrics.New()
	deps := service.Deps{Metrics: m, Logger: logger}
	svcs := Services{
		Leaderboard:   service.NewLeaderboardService(backend, cfg.Leaderboard.DefaultView, deps),
		Registrations: service.NewRegistrationService(backend, deps),
		Participants: service.NewParticipantService(backend, validate.ParticipantRules{
			RequirePhone:            cfg.Forms.RequirePhone,
			RequireEmergencyContact: cfg.Forms.RequireEmergencyContact,
		}, cfg.Event.CurrentID, deps),
	}
	return &testServer{
		router:  NewHandler(svcs, backend, m, cfg, logger).Router(),
		backend: backend,
		metrics: m,
	}
}

func (s *testServer) do(t *testing.T, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func admin() map[string]string {
	return map[string]string{AdminTokenHeader: adminToken}
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (s *testServer) stored(t *testing.T, name string) []byte {
	t.Helper()
	data, err := s.backend.Read(context.Background(), name)
	require.NoError(t, err)
	return data
}

func TestHealthAndReady(t *testing.T) {
	s := newTestServer(t, store.NewMemoryBackend(), nil)

	rec := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeJSON(t, rec)["ok"])

	rec = s.do(t, http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, store.NewMemoryBackend(), nil)

	rec := s.do(t, http.MethodOptions, "/api/leaderboard", "", map[string]string{"Origin": "https://gymwars.example"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), AdminTokenHeader)
}

func TestStorageFailureIsGenericServerError(t *testing.T) {
	s := newTestServer(t, brokenBackend{}, nil)

	rec := s.do(t, http.MethodGet, "/api/leaderboard", "", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeJSON(t, rec)
	assert.Equal(t, false, body["ok"])
	assert.Equal(t, "Server error", body["error"])
}

func TestInvalidJSONBody(t *testing.T) {
	s := newTestServer(t, store.NewMemoryBackend(), nil)

	rec := s.do(t, http.MethodPost, "/api/register-gym", "{nope", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid payload", decodeJSON(t, rec)["error"])
}

func TestRateLimitedForms(t *testing.T) {
	s := newTestServer(t, store.NewMemoryBackend(), func(cfg *config.Config) {
		cfg.RateLimit.Enabled = true
		cfg.RateLimit.RequestsPerMinute = 1
		cfg.RateLimit.Burst = 1
	})

	rec := s.do(t, http.MethodPost, "/api/gym-requests", `{}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/gym-requests", `{}`, nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// Reads are never limited.
	rec = s.do(t, http.MethodGet, "/api/gyms", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

type brokenBackend struct{}

func (brokenBackend) Read(context.Context, string) ([]byte, error) {
	return nil, errors.New("disk on fire")
}
func (brokenBackend) Write(context.Context, string, []byte) error { return errors.New("disk on fire") }
func (brokenBackend) Close() error                                { return nil }

func readCSV(t *testing.T, body string) [][]string {
	t.Helper()
	records, err := csv.NewReader(strings.NewReader(body)).ReadAll()
	require.NoError(t, err)
	return records
}
