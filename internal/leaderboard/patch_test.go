package leaderboard

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gym-wars/internal/domain"
)

func TestDecodePatch_Validation(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
		wantMsg   string
	}{
		{"missing id", `{"name":"x"}`, "id", "Missing field: id"},
		{"blank id", `{"id":"  "}`, "id", "Missing field: id"},
		{"non-slug id", `{"id":"Iron House"}`, "id", ""},
		{"blank name", `{"id":"a","name":" "}`, "name", "Gym name is required"},
		{"bad state", `{"id":"a","state":"New Jersey"}`, "state", "Use 2-letter state code"},
		{"negative points", `{"id":"a","buyInPoints":-1}`, "buyInPoints", "buyInPoints must be a non-negative integer"},
		{"fractional members", `{"id":"a","members":1.5}`, "members", "members must be a non-negative integer"},
		{"string wins", `{"id":"a","wins":"3"}`, "wins", "wins must be a non-negative integer"},
		{"first offending field reported", `{"id":"a","trainers":-1,"members":-1}`, "trainers", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodePatch([]byte(tt.body))
			require.Error(t, err)

			var ve *domain.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.wantField, ve.Field)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, ve.Message)
			}
		})
	}
}

func TestDecodePatch_InvalidJSON(t *testing.T) {
	for _, body := range []string{`not json`, `null`, `[1,2]`} {
		_, err := DecodePatch([]byte(body))
		assert.ErrorIs(t, err, domain.ErrInvalidRequest, body)
	}
}

func TestDecodePatch_Fields(t *testing.T) {
	p, err := DecodePatch([]byte(`{"item":{"id":"iron-house","state":"nj","city":null,"location":"","lungeRelayTime":" 3:10 ","totalScore":null,"wins":4}}`))
	require.NoError(t, err)

	assert.Equal(t, "iron-house", p.ID)
	assert.Equal(t, domain.Val("NJ"), p.State)
	assert.Equal(t, domain.Null[string](), p.City)
	assert.Equal(t, domain.Null[string](), p.Location)
	assert.Equal(t, domain.Val("3:10"), p.LungeRelayTime)
	assert.Equal(t, domain.Null[int](), p.TotalScore)
	assert.Equal(t, domain.Val(4), p.Wins)
	assert.False(t, p.Name.Set)
	assert.False(t, p.BuyInPoints.Set)
}

func TestMerge_CreateDefaults(t *testing.T) {
	got := Merge(nil, domain.RowPatch{ID: "new-gym", BuyInPoints: domain.Val(3), PushTirePoints: domain.Val(2)})

	want := domain.LeaderboardRow{
		ID:             "new-gym",
		Name:           domain.DefaultGymName,
		Location:       domain.DefaultLocation,
		BuyInPoints:    3,
		PushTirePoints: 2,
		TotalScore:     5,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Merge(nil) mismatch (-want +got):\n%s", diff)
	}
}

func TestMerge_PreservesUnspecifiedFields(t *testing.T) {
	city, state, tm := "Edgewater", "NJ", "2:45"
	existing := domain.LeaderboardRow{
		ID: "iron-house", Name: "Iron House",
		City: &city, State: &state, Location: "Edgewater, NJ",
		BuyInPoints: 10, LungeRelayPoints: 4, PullSprintTime: &tm,
		Trainers: 2, Members: 12, Wins: 1,
		TotalScore: 14,
	}

	got := Merge(&existing, domain.RowPatch{ID: "iron-house", PullSprintPoints: domain.Val(6)})

	want := existing
	want.PullSprintPoints = 6
	want.TotalScore = 20
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Merge mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 14, existing.TotalScore, "existing row must not be modified")
}

func TestMerge_TotalScoreOverride(t *testing.T) {
	existing := domain.LeaderboardRow{ID: "a", Name: "A", BuyInPoints: 5, TotalScore: 5}

	overridden := Merge(&existing, domain.RowPatch{ID: "a", TotalScore: domain.Val(40)})
	assert.Equal(t, 40, overridden.TotalScore)
	assert.True(t, overridden.ScoreOverride)

	// Later point edits keep the explicit total.
	kept := Merge(&overridden, domain.RowPatch{ID: "a", BuyInPoints: domain.Val(9)})
	assert.Equal(t, 40, kept.TotalScore)

	cleared := Merge(&kept, domain.RowPatch{ID: "a", TotalScore: domain.Null[int]()})
	assert.Equal(t, 9, cleared.TotalScore)
	assert.False(t, cleared.ScoreOverride)
}

func TestMerge_Location(t *testing.T) {
	city := "Old Town"
	existing := domain.LeaderboardRow{ID: "a", Name: "A", City: &city, Location: "Old Town"}

	t.Run("location splits into city and state", func(t *testing.T) {
		got := Merge(&existing, domain.RowPatch{ID: "a", Location: domain.Val("Newark, NJ")})
		assert.Equal(t, "Newark, NJ", got.Location)
		require.NotNil(t, got.City)
		require.NotNil(t, got.State)
		assert.Equal(t, "Newark", *got.City)
		assert.Equal(t, "NJ", *got.State)
	})

	t.Run("state only recomputes location", func(t *testing.T) {
		got := Merge(&existing, domain.RowPatch{ID: "a", State: domain.Val("PA")})
		assert.Equal(t, "Old Town, PA", got.Location)
	})

	t.Run("clearing city", func(t *testing.T) {
		got := Merge(&existing, domain.RowPatch{ID: "a", City: domain.Null[string]()})
		assert.Nil(t, got.City)
		assert.Equal(t, "", got.Location)
	})

	t.Run("explicit city wins over split", func(t *testing.T) {
		got := Merge(&existing, domain.RowPatch{ID: "a", City: domain.Val("Hoboken"), Location: domain.Val("Newark, NJ")})
		assert.Equal(t, "Hoboken", *got.City)
		assert.Equal(t, "NJ", *got.State)
	})
}

func TestApply(t *testing.T) {
	rows := []domain.LeaderboardRow{
		{ID: "a", Name: "A", TotalScore: 1, BuyInPoints: 1},
		{ID: "b", Name: "B"},
	}

	merged, updated := Apply(rows, domain.RowPatch{ID: "a", Name: domain.Val("Alpha")})
	assert.Equal(t, "Alpha", merged.Name)
	assert.Len(t, updated, 2)
	assert.Equal(t, "Alpha", updated[0].Name)
	assert.Equal(t, "A", rows[0].Name, "input collection must not be modified")

	created, appended := Apply(rows, domain.RowPatch{ID: "c", Name: domain.Val("Charlie")})
	assert.Equal(t, "Charlie", created.Name)
	require.Len(t, appended, 3)
	assert.Equal(t, "c", appended[2].ID)
}
