package domain

import "math"

// View names select a ranking strategy.
const (
	ViewPublic = "public"
	ViewAdmin  = "admin"
)

// Defaults applied when an admin upsert creates a row without these fields.
const (
	DefaultGymName  = "Unnamed Gym"
	DefaultLocation = "Unknown Gym"
)

// LeaderboardRow is the canonical, persisted shape of one gym on the leaderboard.
// Rank and overall wins are derived at read time and never stored here.
type LeaderboardRow struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	City     *string `json:"city"`
	State    *string `json:"state"`
	Location string  `json:"location"`

	BuyInPoints          int `json:"buyInPoints"`
	BurpeeDeadliftPoints int `json:"burpeeDeadliftPoints"`
	LungeRelayPoints     int `json:"lungeRelayPoints"`
	PullSprintPoints     int `json:"pullSprintPoints"`
	PushTirePoints       int `json:"pushTirePoints"`

	BurpeeDeadliftTime *string `json:"burpeeDeadliftTime"`
	LungeRelayTime     *string `json:"lungeRelayTime"`
	PullSprintTime     *string `json:"pullSprintTime"`
	PushTireTime       *string `json:"pushTireTime"`

	Trainers int `json:"trainers"`
	Members  int `json:"members"`
	Wins     int `json:"wins"`

	TotalScore int `json:"totalScore"`
	// ScoreOverride is set when TotalScore was supplied explicitly. When false,
	// TotalScore is recomputed from the point fields on every write.
	ScoreOverride bool `json:"scoreOverride"`
}

// MaxPoints bounds every point field, count and total.
const MaxPoints = math.MaxInt32

// PointsSum returns the sum of the five per-challenge point fields, capped at
// MaxPoints.
func (r LeaderboardRow) PointsSum() int {
	var sum int64
	for _, p := range []int{r.BuyInPoints, r.BurpeeDeadliftPoints, r.LungeRelayPoints, r.PullSprintPoints, r.PushTirePoints} {
		sum += int64(p)
	}
	return int(min(sum, MaxPoints))
}

// Standing is a leaderboard row decorated for display.
type Standing struct {
	LeaderboardRow
	Rank int `json:"rank"`
	// OverallWins is only populated by the public view.
	OverallWins *int `json:"overallWins,omitempty"`
}

// Field is a tri-state patch value: absent, present with a value, or present as null.
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Val returns a Field holding v.
func Val[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

// Null returns a Field explicitly set to null.
func Null[T any]() Field[T] {
	return Field[T]{Set: true, Null: true}
}

// RowPatch is a partial admin update of a leaderboard row. Only fields with
// Set == true are applied.
type RowPatch struct {
	ID       string
	Name     Field[string]
	City     Field[string]
	State    Field[string]
	Location Field[string]

	BuyInPoints          Field[int]
	BurpeeDeadliftPoints Field[int]
	LungeRelayPoints     Field[int]
	PullSprintPoints     Field[int]
	PushTirePoints       Field[int]

	BurpeeDeadliftTime Field[string]
	LungeRelayTime     Field[string]
	PullSprintTime     Field[string]
	PushTireTime       Field[string]

	Trainers Field[int]
	Members  Field[int]
	Wins     Field[int]

	TotalScore Field[int]
}
