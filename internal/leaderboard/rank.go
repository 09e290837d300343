package leaderboard

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/gym-wars/internal/domain"
)

// Ranker turns canonical rows into display-ordered standings. Implementations
// must not modify the input and must be stable for equal sort keys.
type Ranker interface {
	Name() string
	Rank(rows []domain.LeaderboardRow) []domain.Standing
}

// PublicRanker orders by total score only. Rows with equal totals share a
// rank, the next group takes its 1-based position, and only rank 1 rows are
// credited with an overall win.
type PublicRanker struct{}

// Name implements Ranker.
func (PublicRanker) Name() string { return domain.ViewPublic }

// Rank implements Ranker.
func (PublicRanker) Rank(rows []domain.LeaderboardRow) []domain.Standing {
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b domain.LeaderboardRow) int {
		return cmp.Compare(b.TotalScore, a.TotalScore)
	})

	out := make([]domain.Standing, len(sorted))
	for i, row := range sorted {
		rank := i + 1
		if i > 0 && row.TotalScore == sorted[i-1].TotalScore {
			rank = out[i-1].Rank
		}
		wins := 0
		if rank == 1 {
			wins = 1
		}
		out[i] = domain.Standing{LeaderboardRow: row, Rank: rank, OverallWins: &wins}
	}
	return out
}

// AdminRanker is the management view ordering: total score desc, then wins
// desc, then name asc. Rows share a rank only when all three keys are equal.
type AdminRanker struct{}

// Name implements Ranker.
func (AdminRanker) Name() string { return domain.ViewAdmin }

// Rank implements Ranker.
func (AdminRanker) Rank(rows []domain.LeaderboardRow) []domain.Standing {
	// Collators keep internal buffers, so each call gets its own.
	names := collate.New(language.English)
	compare := func(a, b domain.LeaderboardRow) int {
		if c := cmp.Compare(b.TotalScore, a.TotalScore); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Wins, a.Wins); c != 0 {
			return c
		}
		return names.CompareString(a.Name, b.Name)
	}

	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, compare)

	out := make([]domain.Standing, len(sorted))
	for i, row := range sorted {
		rank := i + 1
		if i > 0 && compare(sorted[i-1], row) == 0 {
			rank = out[i-1].Rank
		}
		out[i] = domain.Standing{LeaderboardRow: row, Rank: rank}
	}
	return out
}

// RankerFor resolves a ranking strategy by view name.
func RankerFor(view string) (Ranker, error) {
	switch strings.ToLower(strings.TrimSpace(view)) {
	case domain.ViewPublic:
		return PublicRanker{}, nil
	case domain.ViewAdmin:
		return AdminRanker{}, nil
	default:
		return nil, domain.InvalidField("view", "Unknown leaderboard view: "+view)
	}
}

// FilterRows keeps rows in the given state (case-insensitive) whose name
// contains query (case-insensitive). Empty arguments do not filter.
func FilterRows(rows []domain.LeaderboardRow, state, query string) []domain.LeaderboardRow {
	state = strings.TrimSpace(state)
	query = strings.ToLower(strings.TrimSpace(query))
	if state == "" && query == "" {
		return rows
	}

	out := make([]domain.LeaderboardRow, 0, len(rows))
	for _, row := range rows {
		if state != "" && (row.State == nil || !strings.EqualFold(*row.State, state)) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(row.Name), query) {
			continue
		}
		out = append(out, row)
	}
	return out
}

// States lists the distinct states present in rows, sorted.
func States(rows []domain.LeaderboardRow) []string {
	var states []string
	for _, row := range rows {
		if row.State != nil && !slices.Contains(states, *row.State) {
			states = append(states, *row.State)
		}
	}
	slices.Sort(states)
	return states
}
