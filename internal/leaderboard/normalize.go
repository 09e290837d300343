// Package leaderboard holds the leaderboard engine: row normalization,
// ranking strategies and admin merge-patch.
package leaderboard

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/gym-wars/internal/domain"
)

// Alias tables. For every canonical field the keys are tried in order: the
// current name, then the event-index key, then older semantic names.
var (
	BuyInPointsKeys          = []string{"buyInPoints", "buyIn", "buy_in", "event0"}
	BurpeeDeadliftPointsKeys = []string{"burpeeDeadliftPoints", "event1", "burpeePoints", "burpeesDeadlift"}
	LungeRelayPointsKeys     = []string{"lungeRelayPoints", "event2", "lungePoints"}
	PullSprintPointsKeys     = []string{"pullSprintPoints", "event3", "pullupSprintPoints"}
	PushTirePointsKeys       = []string{"pushTirePoints", "event4", "pushTirePointsAlt"}

	BurpeeDeadliftTimeKeys = []string{"burpeeDeadliftTime", "event1Time", "burpeeTime"}
	LungeRelayTimeKeys     = []string{"lungeRelayTime", "event2Time"}
	PullSprintTimeKeys     = []string{"pullSprintTime", "event3Time"}
	PushTireTimeKeys       = []string{"pushTireTime", "event4Time"}

	IDKeys         = []string{"id", "slug", "handle"}
	NameKeys       = []string{"name", "gymName"}
	TotalScoreKeys = []string{"totalScore", "score"}
	LocationKeys   = []string{"location", "cityState"}
)

// UnknownGymName names rows that carry no name at all.
const UnknownGymName = "Unknown Gym"

// fallbackID is used when neither an id nor a name yields a usable slug.
const fallbackID = "gym"

// firstOf returns the first value under keys that pick accepts.
func firstOf[T any](raw map[string]any, keys []string, pick func(any) (T, bool)) (T, bool) {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok {
			continue
		}
		if out, ok := pick(v); ok {
			return out, true
		}
	}
	var zero T
	return zero, false
}

// finiteNumber accepts JSON numbers and Go numeric values that are finite.
// Strings are never treated as numbers.
func finiteNumber(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// nonNegativeInt picks a finite number, truncates it and clamps it to
// [0, MaxPoints].
func nonNegativeInt(v any) (int, bool) {
	f, ok := finiteNumber(v)
	if !ok {
		return 0, false
	}
	return int(min(max(f, 0), domain.MaxPoints)), true
}

// nonEmptyString picks strings that are non-empty after trimming.
func nonEmptyString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

func pointsOf(raw map[string]any, keys []string) int {
	n, _ := firstOf(raw, keys, nonNegativeInt)
	return n
}

func timeOf(raw map[string]any, keys []string) *string {
	s, ok := firstOf(raw, keys, nonEmptyString)
	if !ok {
		return nil
	}
	return &s
}

// SplitLocation splits "City, ST" on the first comma into two trimmed parts.
func SplitLocation(s string) (city, state string, ok bool) {
	before, after, found := strings.Cut(s, ",")
	if !found {
		return "", "", false
	}
	return strings.TrimSpace(before), strings.TrimSpace(after), true
}

// FormatLocation renders the display location for a city/state pair.
func FormatLocation(city, state *string) string {
	switch {
	case city != nil && state != nil:
		return *city + ", " + *state
	case state != nil:
		return *state
	case city != nil:
		return *city
	default:
		return ""
	}
}

// Normalize converts a row of any historical shape into the canonical row.
// It is pure and idempotent.
func Normalize(raw map[string]any) domain.LeaderboardRow {
	name, ok := firstOf(raw, NameKeys, nonEmptyString)
	if !ok {
		name = UnknownGymName
	}

	idSource, ok := firstOf(raw, IDKeys, nonEmptyString)
	if !ok {
		idSource = name
	}

	id := domain.Slugify(idSource)
	if id == "" {
		id = fallbackID
	}

	row := domain.LeaderboardRow{
		ID:   id,
		Name: name,

		BuyInPoints:          pointsOf(raw, BuyInPointsKeys),
		BurpeeDeadliftPoints: pointsOf(raw, BurpeeDeadliftPointsKeys),
		LungeRelayPoints:     pointsOf(raw, LungeRelayPointsKeys),
		PullSprintPoints:     pointsOf(raw, PullSprintPointsKeys),
		PushTirePoints:       pointsOf(raw, PushTirePointsKeys),

		BurpeeDeadliftTime: timeOf(raw, BurpeeDeadliftTimeKeys),
		LungeRelayTime:     timeOf(raw, LungeRelayTimeKeys),
		PullSprintTime:     timeOf(raw, PullSprintTimeKeys),
		PushTireTime:       timeOf(raw, PushTireTimeKeys),

		Trainers: pointsOf(raw, []string{"trainers"}),
		Members:  pointsOf(raw, []string{"members"}),
		Wins:     pointsOf(raw, []string{"wins"}),
	}

	resolveLocation(raw, &row)
	resolveTotal(raw, &row)
	return row
}

func resolveLocation(raw map[string]any, row *domain.LeaderboardRow) {
	if city, ok := nonEmptyString(raw["city"]); ok {
		row.City = &city
	}
	if state, ok := nonEmptyString(raw["state"]); ok {
		row.State = &state
	}

	explicit, hasExplicit := firstOf(raw, LocationKeys, nonEmptyString)
	if (row.City == nil || row.State == nil) && hasExplicit {
		if city, state, ok := SplitLocation(explicit); ok {
			row.City = &city
			row.State = &state
		}
	}

	if loc, ok := nonEmptyString(raw["location"]); ok {
		row.Location = loc
		return
	}
	row.Location = FormatLocation(row.City, row.State)
}

func resolveTotal(raw map[string]any, row *domain.LeaderboardRow) {
	// A stored row that says its total was computed gets it recomputed.
	if override, ok := raw["scoreOverride"].(bool); ok && !override {
		row.TotalScore = row.PointsSum()
		return
	}
	if total, ok := firstOf(raw, TotalScoreKeys, nonNegativeInt); ok {
		row.TotalScore = total
		row.ScoreOverride = true
		return
	}
	row.TotalScore = row.PointsSum()
}

// NormalizeAll normalizes a collection and makes ids unique by suffixing
// later duplicates with -2, -3 and so on.
func NormalizeAll(raws []map[string]any) []domain.LeaderboardRow {
	rows := make([]domain.LeaderboardRow, 0, len(raws))
	seen := make(map[string]bool, len(raws))
	for _, raw := range raws {
		row := Normalize(raw)
		id := row.ID
		for n := 2; seen[id]; n++ {
			id = fmt.Sprintf("%s-%d", row.ID, n)
		}
		row.ID = id
		seen[id] = true
		rows = append(rows, row)
	}
	return rows
}

// ToMap renders a canonical row back into its JSON object form.
func ToMap(row domain.LeaderboardRow) (map[string]any, error) {
	data, err := json.Marshal(row)
	if err != nil {
		return nil, fmt.Errorf("marshaling row: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("unmarshaling row: %w", err)
	}
	return out, nil
}
