package handler

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gym-wars/internal/domain"
	"github.com/gym-wars/internal/export"
)

// FindParticipant looks up a returning participant by email. An unknown
// email is not an error; the participant is null.
func (h *Handler) FindParticipant(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		h.writeError(w, r, domain.InvalidField("email", "Missing email"))
		return
	}

	p, err := h.participants.Find(r.Context(), email)
	switch {
	case domain.IsNotFoundError(err):
		h.writeOK(w, map[string]any{"participant": nil})
	case err != nil:
		h.writeError(w, r, err)
	default:
		h.writeOK(w, map[string]any{"participant": p})
	}
}

// CreateParticipant registers a trainer or member.
func (h *Handler) CreateParticipant(w http.ResponseWriter, r *http.Request) {
	raw, err := decodeObject(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	p, err := h.participants.Create(r.Context(), raw)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeOK(w, map[string]any{"participant": p})
}

// UpdateParticipant merges profile changes for a returning participant.
func (h *Handler) UpdateParticipant(w http.ResponseWriter, r *http.Request) {
	raw, err := decodeObject(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	p, err := h.participants.Update(r.Context(), raw)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeOK(w, map[string]any{"participant": p})
}

// ExportParticipants downloads every participant as CSV, or as a workbook
// with ?format=xlsx.
func (h *Handler) ExportParticipants(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := h.participants.Export(r.Context(), &buf, format); err != nil {
		h.writeError(w, r, err)
		return
	}

	contentType, filename := export.ContentType(format)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	noStore(w)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn("failed to write export", "error", err)
	}
}
