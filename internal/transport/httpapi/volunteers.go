package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/core/matching"
	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/core/services"
)

// GET /volunteers/{id}/matches
func (h *Handler) matches(w http.ResponseWriter, r *http.Request) {
	ranked, err := services.RankEvents(r.Context(), h.store, h.logger, chi.URLParam(r, "id"), h.opts.Now())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if ranked == nil {
		ranked = []matching.RankedEvent{}
	}
	writeJSON(w, http.StatusOK, ranked)
}

// PUT /volunteers/{id}/profile
func (h *Handler) saveProfile(w http.ResponseWriter, r *http.Request) {
	var input services.ProfileInput
	if !h.decodeJSON(w, r, &input) {
		return
	}
	input.ID = chi.URLParam(r, "id")

	profile, err := services.SaveProfile(r.Context(), h.store, h.logger, input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// GET /volunteers/{id}/profile
func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := services.GetProfile(r.Context(), h.store, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// GET /volunteers/{id}/applications
func (h *Handler) volunteerApplications(w http.ResponseWriter, r *http.Request) {
	records, err := services.VolunteerHistory(r.Context(), h.store, h.logger, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if records == nil {
		records = []services.HistoryRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}
