// Package store persists whole JSON collections behind a pluggable backend.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/gym-wars/internal/config"
)

// Collection names.
const (
	LeaderboardCollection         = "leaderboard"
	ParticipantsCollection        = "participants"
	GymRegistrationsCollection    = "gym-registrations"
	VendorRegistrationsCollection = "vendor-registrations"
	GymRequestsCollection         = "gym-requests"
)

// Backend reads and writes named collection documents.
type Backend interface {
	// Read returns the stored document, or nil and no error when the
	// collection has never been written.
	Read(ctx context.Context, name string) ([]byte, error)
	Write(ctx context.Context, name string, data []byte) error
	Close() error
}

// Collection is a typed view of one named JSON array.
type Collection[T any] struct {
	backend Backend
	name    string
}

// NewCollection binds a typed collection to a backend.
func NewCollection[T any](backend Backend, name string) *Collection[T] {
	return &Collection[T]{backend: backend, name: name}
}

// Name returns the collection name.
func (c *Collection[T]) Name() string {
	return c.name
}

// Load reads every item. A missing or empty document is an empty collection.
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	data, err := c.backend.Read(ctx, c.name)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", c.name, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", c.name, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Save replaces the whole collection.
func (c *Collection[T]) Save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", c.name, err)
	}
	if err := c.backend.Write(ctx, c.name, append(data, '\n')); err != nil {
		return fmt.Errorf("writing %s: %w", c.name, err)
	}
	return nil
}

// Open builds the backend selected by cfg.Driver.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Backend, error) {
	switch cfg.Store.Driver {
	case config.DriverFile:
		return NewFileBackend(cfg.Store.DataDir, logger), nil
	case config.DriverMemory:
		return NewMemoryBackend(), nil
	case config.DriverRedis:
		b, err := NewRedisBackend(ctx, &cfg.Redis, logger)
		if err != nil {
			return nil, err
		}
		return b, nil
	case config.DriverPostgres:
		b, err := NewPostgresBackend(ctx, &cfg.Postgres, logger)
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// Pinger is implemented by backends backed by a network service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Ping checks backend health. Backends without a remote dependency are
// always healthy.
func Ping(ctx context.Context, b Backend) error {
	if p, ok := b.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
