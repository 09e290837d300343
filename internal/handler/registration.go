package handler

import (
	"net/http"
)

// GymRegistrationInfo reports how many gyms have registered.
func (h *Handler) GymRegistrationInfo(w http.ResponseWriter, r *http.Request) {
	count, err := h.registrations.GymCount(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeOK(w, map[string]any{"count": count, "hint": "POST to /api/register-gym to create a registration."})
}

// RegisterGym handles the gym signup form.
func (h *Handler) RegisterGym(w http.ResponseWriter, r *http.Request) {
	raw, err := decodeObject(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	reg, err := h.registrations.RegisterGym(r.Context(), raw)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeOK(w, map[string]any{"id": reg.ID, "rosterLink": reg.RosterLink})
}

// VendorRegistrationInfo reports how many vendors have registered.
func (h *Handler) VendorRegistrationInfo(w http.ResponseWriter, r *http.Request) {
	count, err := h.registrations.VendorCount(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeOK(w, map[string]any{"count": count, "hint": "POST to /api/vendors to register."})
}

// RegisterVendor handles the vendor booth form.
func (h *Handler) RegisterVendor(w http.ResponseWriter, r *http.Request) {
	raw, err := decodeObject(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	reg, err := h.registrations.RegisterVendor(r.Context(), raw)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeOK(w, map[string]any{"id": reg.ID})
}

// RequestGym handles the "request a gym" form.
func (h *Handler) RequestGym(w http.ResponseWriter, r *http.Request) {
	raw, err := decodeObject(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	req, err := h.registrations.RequestGym(r.Context(), raw)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeOK(w, map[string]any{"id": req.ID})
}

// ListGyms returns registered gyms as dropdown options.
func (h *Handler) ListGyms(w http.ResponseWriter, r *http.Request) {
	gyms, err := h.registrations.Gyms(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeOK(w, map[string]any{"data": gyms})
}
