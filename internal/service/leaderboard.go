package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/gym-wars/internal/domain"
	"github.com/gym-wars/internal/leaderboard"
	"github.com/gym-wars/internal/store"
)

// LeaderboardService reads, ranks and edits the leaderboard collection.
type LeaderboardService struct {
	raw         *store.Collection[map[string]any]
	rows        *store.Collection[domain.LeaderboardRow]
	gyms        *store.Collection[domain.GymRegistration]
	defaultView string
	deps        Deps
}

// NewLeaderboardService creates a new leaderboard service
func NewLeaderboardService(backend store.Backend, defaultView string, deps Deps) *LeaderboardService {
	return &LeaderboardService{
		raw:         store.NewCollection[map[string]any](backend, store.LeaderboardCollection),
		rows:        store.NewCollection[domain.LeaderboardRow](backend, store.LeaderboardCollection),
		gyms:        store.NewCollection[domain.GymRegistration](backend, store.GymRegistrationsCollection),
		defaultView: defaultView,
		deps:        deps,
	}
}

// Standings is a ranked, optionally filtered view of the leaderboard.
type Standings struct {
	View   string            `json:"view"`
	Data   []domain.Standing `json:"data"`
	States []string          `json:"states"`
}

// List returns every row in stored order, normalized to the canonical shape.
func (s *LeaderboardService) List(ctx context.Context) ([]domain.LeaderboardRow, error) {
	raws, err := s.raw.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading leaderboard: %w", err)
	}
	return leaderboard.NormalizeAll(raws), nil
}

// Ranked filters by state and name query, then ranks with the named view.
// An empty view uses the configured default.
func (s *LeaderboardService) Ranked(ctx context.Context, view, state, query string) (Standings, error) {
	if view == "" {
		view = s.defaultView
	}
	ranker, err := leaderboard.RankerFor(view)
	if err != nil {
		return Standings{}, err
	}

	rows, err := s.List(ctx)
	if err != nil {
		return Standings{}, err
	}

	return Standings{
		View:   ranker.Name(),
		Data:   ranker.Rank(leaderboard.FilterRows(rows, state, query)),
		States: leaderboard.States(rows),
	}, nil
}

// Upsert merges patch into the row with the same id, or creates it, and
// rewrites the collection. It returns the merged row and the admin-ranked
// collection.
func (s *LeaderboardService) Upsert(ctx context.Context, patch domain.RowPatch) (domain.LeaderboardRow, []domain.Standing, error) {
	rows, err := s.List(ctx)
	if err != nil {
		return domain.LeaderboardRow{}, nil, err
	}

	merged, rows := leaderboard.Apply(rows, patch)
	if err := s.rows.Save(ctx, rows); err != nil {
		return domain.LeaderboardRow{}, nil, fmt.Errorf("saving leaderboard: %w", err)
	}

	s.deps.Metrics.LeaderboardWrite("upsert")
	s.deps.Logger.Info("leaderboard row upserted", "id", merged.ID, "total_score", merged.TotalScore)
	return merged, leaderboard.AdminRanker{}.Rank(rows), nil
}

// ImportRegistrations adds a zero-point row for every registered gym whose
// slug is not on the leaderboard yet. Existing rows are left untouched.
func (s *LeaderboardService) ImportRegistrations(ctx context.Context) ([]domain.LeaderboardRow, []domain.Standing, error) {
	rows, err := s.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	regs, err := s.gyms.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("loading gym registrations: %w", err)
	}

	var created []domain.LeaderboardRow
	for _, reg := range regs {
		id := reg.Slug()
		if id == "" || slices.ContainsFunc(rows, func(r domain.LeaderboardRow) bool { return r.ID == id }) {
			continue
		}
		row := leaderboard.Merge(nil, registrationPatch(id, reg))
		rows = append(rows, row)
		created = append(created, row)
	}

	if len(created) > 0 {
		if err := s.rows.Save(ctx, rows); err != nil {
			return nil, nil, fmt.Errorf("saving leaderboard: %w", err)
		}
		s.deps.Metrics.LeaderboardWrite("import-registrations")
	}

	s.deps.Logger.Info("imported gym registrations", "created", len(created), "registrations", len(regs))
	return created, leaderboard.AdminRanker{}.Rank(rows), nil
}

func registrationPatch(id string, reg domain.GymRegistration) domain.RowPatch {
	p := domain.RowPatch{ID: id, Name: domain.Val(reg.GymName)}
	if reg.City != "" {
		p.City = domain.Val(reg.City)
	}
	if leaderboard.IsStateCode(reg.State) {
		p.State = domain.Val(reg.State)
	}
	return p
}

// ImportLegacy normalizes rows from an older export and merges them by id.
// Incoming rows replace stored rows with the same id; new ids are appended.
func (s *LeaderboardService) ImportLegacy(ctx context.Context, raws []map[string]any) (int, error) {
	rows, err := s.List(ctx)
	if err != nil {
		return 0, err
	}

	for _, row := range leaderboard.NormalizeAll(raws) {
		idx := slices.IndexFunc(rows, func(r domain.LeaderboardRow) bool { return r.ID == row.ID })
		if idx >= 0 {
			rows[idx] = row
			continue
		}
		rows = append(rows, row)
	}

	if err := s.rows.Save(ctx, rows); err != nil {
		return 0, fmt.Errorf("saving leaderboard: %w", err)
	}

	s.deps.Metrics.LeaderboardWrite("import-legacy")
	s.deps.Logger.Info("imported legacy leaderboard", "rows", len(raws), "total", len(rows))
	return len(rows), nil
}
