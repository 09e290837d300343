package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/gym-wars/internal/metrics"
	"github.com/gym-wars/internal/notify"
	"github.com/gym-wars/internal/store"
)

var fixedNow = time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []notify.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev notify.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Type
	}
	return out
}

func testDeps(pub notify.Publisher) Deps {
	return Deps{
		Publisher: pub,
		Metrics:   metrics.New(),
		Logger:    slog.New(slog.NewJSONHandler(io.Discard, nil)),
		Now:       func() time.Time { return fixedNow },
	}
}

// failingBackend fails every operation.
type failingBackend struct{}

var errBackendDown = errors.New("backend down")

func (failingBackend) Read(context.Context, string) ([]byte, error) { return nil, errBackendDown }
func (failingBackend) Write(context.Context, string, []byte) error  { return errBackendDown }
func (failingBackend) Close() error                                 { return nil }

var _ store.Backend = failingBackend{}
