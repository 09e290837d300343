package leaderboard

import (
	"encoding/json"
	"math"
	"slices"
	"strings"

	"github.com/gym-wars/internal/domain"
)

// DecodePatch parses an admin upsert body. The row may be sent bare or
// wrapped as {"item": {...}}. Fields are validated in a fixed order so the
// first offending field is reported deterministically.
func DecodePatch(body []byte) (domain.RowPatch, error) {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return domain.RowPatch{}, domain.ErrInvalidRequest
	}
	if item, ok := raw["item"].(map[string]any); ok {
		raw = item
	}
	return PatchFromMap(raw)
}

// PatchFromMap builds a validated patch from a decoded JSON object.
func PatchFromMap(raw map[string]any) (domain.RowPatch, error) {
	var p domain.RowPatch

	id, ok := raw["id"].(string)
	id = strings.TrimSpace(id)
	if !ok || id == "" {
		return p, domain.MissingField("id")
	}
	if !domain.IsSlug(id) {
		return p, domain.InvalidField("id", "ID must be a slug of lowercase letters, digits and hyphens")
	}
	p.ID = id

	var err error
	if p.Name, err = requiredText(raw, "name", "Gym name is required"); err != nil {
		return p, err
	}
	if p.City, err = optionalText(raw, "city"); err != nil {
		return p, err
	}
	if p.State, err = stateCode(raw, "state"); err != nil {
		return p, err
	}
	if p.Location, err = optionalText(raw, "location"); err != nil {
		return p, err
	}

	ints := []struct {
		key string
		dst *domain.Field[int]
	}{
		{"trainers", &p.Trainers},
		{"members", &p.Members},
		{"wins", &p.Wins},
		{"buyInPoints", &p.BuyInPoints},
		{"burpeeDeadliftPoints", &p.BurpeeDeadliftPoints},
		{"lungeRelayPoints", &p.LungeRelayPoints},
		{"pullSprintPoints", &p.PullSprintPoints},
		{"pushTirePoints", &p.PushTirePoints},
		{"totalScore", &p.TotalScore},
	}
	for _, f := range ints {
		if *f.dst, err = count(raw, f.key); err != nil {
			return p, err
		}
	}

	times := []struct {
		key string
		dst *domain.Field[string]
	}{
		{"burpeeDeadliftTime", &p.BurpeeDeadliftTime},
		{"lungeRelayTime", &p.LungeRelayTime},
		{"pullSprintTime", &p.PullSprintTime},
		{"pushTireTime", &p.PushTireTime},
	}
	for _, f := range times {
		if *f.dst, err = optionalText(raw, f.key); err != nil {
			return p, err
		}
	}
	return p, nil
}

func requiredText(raw map[string]any, key, message string) (domain.Field[string], error) {
	v, present := raw[key]
	if !present {
		return domain.Field[string]{}, nil
	}
	s, ok := v.(string)
	s = strings.TrimSpace(s)
	if !ok || s == "" {
		return domain.Field[string]{}, domain.InvalidField(key, message)
	}
	return domain.Val(s), nil
}

// optionalText treats null and blank strings as clearing the field.
func optionalText(raw map[string]any, key string) (domain.Field[string], error) {
	v, present := raw[key]
	if !present {
		return domain.Field[string]{}, nil
	}
	if v == nil {
		return domain.Null[string](), nil
	}
	s, ok := v.(string)
	if !ok {
		return domain.Field[string]{}, domain.InvalidField(key, key+" must be a string")
	}
	if s = strings.TrimSpace(s); s == "" {
		return domain.Null[string](), nil
	}
	return domain.Val(s), nil
}

func stateCode(raw map[string]any, key string) (domain.Field[string], error) {
	f, err := optionalText(raw, key)
	if err != nil || !f.Set || f.Null {
		return f, err
	}
	code := strings.ToUpper(f.Value)
	if !IsStateCode(code) {
		return domain.Field[string]{}, domain.InvalidField(key, "Use 2-letter state code")
	}
	return domain.Val(code), nil
}

// IsStateCode reports whether s is two ASCII letters.
func IsStateCode(s string) bool {
	if len(s) != 2 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i] | 0x20
		if c < 'a' || c > 'z' {
			return false
		}
	}
	return true
}

func count(raw map[string]any, key string) (domain.Field[int], error) {
	v, present := raw[key]
	if !present {
		return domain.Field[int]{}, nil
	}
	if v == nil {
		return domain.Null[int](), nil
	}
	f, ok := finiteNumber(v)
	if !ok || f < 0 || f != math.Trunc(f) || f > domain.MaxPoints {
		return domain.Field[int]{}, domain.InvalidField(key, key+" must be a non-negative integer")
	}
	return domain.Val(int(f)), nil
}

// Merge applies patch on top of existing. A nil existing row creates a new row
// with defaults. The total score is recomputed from the point fields unless
// an explicit total is in effect.
func Merge(existing *domain.LeaderboardRow, patch domain.RowPatch) domain.LeaderboardRow {
	var row domain.LeaderboardRow
	if existing != nil {
		row = *existing
	} else {
		row = domain.LeaderboardRow{
			ID:       patch.ID,
			Name:     domain.DefaultGymName,
			Location: domain.DefaultLocation,
		}
	}

	if patch.Name.Set && !patch.Name.Null {
		row.Name = patch.Name.Value
	}

	setOptional(&row.City, patch.City)
	setOptional(&row.State, patch.State)
	switch {
	case patch.Location.Set:
		row.Location = ""
		if !patch.Location.Null {
			row.Location = patch.Location.Value
			if city, state, ok := SplitLocation(patch.Location.Value); ok {
				if !patch.City.Set {
					row.City = &city
				}
				if !patch.State.Set {
					row.State = &state
				}
			}
		}
	case patch.City.Set || patch.State.Set:
		row.Location = FormatLocation(row.City, row.State)
	}
	if existing == nil && row.Location == "" {
		row.Location = domain.DefaultLocation
	}

	setInt(&row.BuyInPoints, patch.BuyInPoints)
	setInt(&row.BurpeeDeadliftPoints, patch.BurpeeDeadliftPoints)
	setInt(&row.LungeRelayPoints, patch.LungeRelayPoints)
	setInt(&row.PullSprintPoints, patch.PullSprintPoints)
	setInt(&row.PushTirePoints, patch.PushTirePoints)

	setOptional(&row.BurpeeDeadliftTime, patch.BurpeeDeadliftTime)
	setOptional(&row.LungeRelayTime, patch.LungeRelayTime)
	setOptional(&row.PullSprintTime, patch.PullSprintTime)
	setOptional(&row.PushTireTime, patch.PushTireTime)

	setInt(&row.Trainers, patch.Trainers)
	setInt(&row.Members, patch.Members)
	setInt(&row.Wins, patch.Wins)

	if patch.TotalScore.Set {
		row.ScoreOverride = !patch.TotalScore.Null
		row.TotalScore = patch.TotalScore.Value
	}
	if !row.ScoreOverride {
		row.TotalScore = row.PointsSum()
	}
	return row
}

func setInt(dst *int, f domain.Field[int]) {
	if !f.Set {
		return
	}
	*dst = f.Value
}

func setOptional(dst **string, f domain.Field[string]) {
	if !f.Set {
		return
	}
	if f.Null {
		*dst = nil
		return
	}
	v := f.Value
	*dst = &v
}

// Apply merges patch into the row with the same id, or appends a new row.
// It returns the merged row and a new collection; rows is not modified.
func Apply(rows []domain.LeaderboardRow, patch domain.RowPatch) (domain.LeaderboardRow, []domain.LeaderboardRow) {
	out := slices.Clone(rows)
	idx := slices.IndexFunc(out, func(r domain.LeaderboardRow) bool { return r.ID == patch.ID })
	if idx < 0 {
		merged := Merge(nil, patch)
		return merged, append(out, merged)
	}
	merged := Merge(&out[idx], patch)
	out[idx] = merged
	return merged, out
}
