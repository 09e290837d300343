package handler

import (
	"net/http"

	"github.com/gym-wars/internal/domain"
	"github.com/gym-wars/internal/leaderboard"
)

// ListLeaderboard returns every row, unranked, in stored order.
func (h *Handler) ListLeaderboard(w http.ResponseWriter, r *http.Request) {
	rows, err := h.leaderboard.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if rows == nil {
		rows = []domain.LeaderboardRow{}
	}
	noStore(w)
	h.writeOK(w, map[string]any{"data": rows})
}

// RankedLeaderboard returns standings ranked on the server.
// Query: view=public|admin, state, q.
func (h *Handler) RankedLeaderboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	standings, err := h.leaderboard.Ranked(r.Context(), q.Get("view"), q.Get("state"), q.Get("q"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	noStore(w)
	h.writeOK(w, map[string]any{
		"view":   standings.View,
		"data":   standings.Data,
		"states": nonNil(standings.States),
	})
}

// UpsertLeaderboard merges one row and returns it.
func (h *Handler) UpsertLeaderboard(w http.ResponseWriter, r *http.Request) {
	merged, _, ok := h.upsert(w, r)
	if !ok {
		return
	}
	h.writeOK(w, map[string]any{"item": merged})
}

// AdminUpsertLeaderboard merges one row and returns it together with the
// admin-ranked collection.
func (h *Handler) AdminUpsertLeaderboard(w http.ResponseWriter, r *http.Request) {
	merged, standings, ok := h.upsert(w, r)
	if !ok {
		return
	}
	h.writeOK(w, map[string]any{"item": merged, "data": standings})
}

func (h *Handler) upsert(w http.ResponseWriter, r *http.Request) (domain.LeaderboardRow, []domain.Standing, bool) {
	body, err := readBody(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return domain.LeaderboardRow{}, nil, false
	}
	patch, err := leaderboard.DecodePatch(body)
	if err != nil {
		h.metrics.ValidationFailure("leaderboard")
		h.writeError(w, r, err)
		return domain.LeaderboardRow{}, nil, false
	}

	merged, standings, err := h.leaderboard.Upsert(r.Context(), patch)
	if err != nil {
		h.writeError(w, r, err)
		return domain.LeaderboardRow{}, nil, false
	}
	noStore(w)
	return merged, standings, true
}

// ImportRegistrations seeds leaderboard rows for registered gyms.
func (h *Handler) ImportRegistrations(w http.ResponseWriter, r *http.Request) {
	created, standings, err := h.leaderboard.ImportRegistrations(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	noStore(w)
	h.writeOK(w, map[string]any{"created": nonNil(created), "data": standings})
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
