// Package service implements the leaderboard, registration and participant
// operations on top of the collection store.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/gym-wars/internal/domain"
	"github.com/gym-wars/internal/metrics"
	"github.com/gym-wars/internal/notify"
	"github.com/gym-wars/internal/validate"
)

// Deps are the collaborators shared by every service.
type Deps struct {
	Publisher notify.Publisher
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now().UTC()
	}
	return time.Now().UTC()
}

// publish sends ev and only logs failures; notifications never fail a request.
func (d Deps) publish(ctx context.Context, ev notify.Event) {
	if d.Publisher == nil {
		return
	}
	if err := d.Publisher.Publish(ctx, ev); err != nil {
		d.Metrics.PublishFailure()
		d.Logger.Warn("failed to publish event", "type", ev.Type, "id", ev.ID, "error", err)
	}
}

// check validates raw against schema and counts rejections per form.
func (d Deps) check(schema validate.Schema, raw map[string]any) error {
	if err := schema.Validate(raw); err != nil {
		d.Metrics.ValidationFailure(schema.Form)
		return err
	}
	return nil
}

// decodeInto converts a validated body into its typed form.
func decodeInto(raw map[string]any, dst any) error {
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("re-encoding body: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return domain.ErrInvalidRequest
	}
	return nil
}
