// Package app wires configuration into storage, notifications and services.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gym-wars/internal/config"
	"github.com/gym-wars/internal/handler"
	"github.com/gym-wars/internal/metrics"
	"github.com/gym-wars/internal/notify"
	"github.com/gym-wars/internal/service"
	"github.com/gym-wars/internal/store"
	"github.com/gym-wars/internal/validate"
)

// App holds the long-lived components of one process.
type App struct {
	Backend   store.Backend
	Publisher notify.Publisher
	Metrics   *metrics.Metrics
	Services  handler.Services
}

// New opens the configured backend and publisher and builds the services.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	logger.Info("opening store", "driver", cfg.Store.Driver)
	backend, err := store.Open(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	publisher, err := notify.New(&cfg.Kafka, logger)
	if err != nil {
		logger.Warn("failed to create kafka publisher, continuing without notifications", "error", err)
		publisher = notify.NopPublisher{}
	}

	m := metrics.New()
	deps := service.Deps{Publisher: publisher, Metrics: m, Logger: logger}
	rules := validate.ParticipantRules{
		RequirePhone:            cfg.Forms.RequirePhone,
		RequireEmergencyContact: cfg.Forms.RequireEmergencyContact,
	}

	return &App{
		Backend:   backend,
		Publisher: publisher,
		Metrics:   m,
		Services: handler.Services{
			Leaderboard:   service.NewLeaderboardService(backend, cfg.Leaderboard.DefaultView, deps),
			Registrations: service.NewRegistrationService(backend, deps),
			Participants:  service.NewParticipantService(backend, rules, cfg.Event.CurrentID, deps),
		},
	}, nil
}

// Close releases the publisher and the backend.
func (a *App) Close() error {
	return errors.Join(a.Publisher.Close(), a.Backend.Close())
}
