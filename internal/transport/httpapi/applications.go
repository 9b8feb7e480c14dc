package httpapi

import (
	"encoding/json"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/core/model"
	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/core/services"
)

type applyRequest struct {
	VolunteerID string `json:"volunteer_id"`
	EventID     string `json:"event_id"`
}

type transitionRequest struct {
	Status      string   `json:"status"`
	HoursLogged *float64 `json:"hours_logged,omitempty"`
}

type feedbackRequest struct {
	Feedback string          `json:"feedback"`
	Rating   json.RawMessage `json:"rating"`
}

// rating returns the rating as a whole number, or 0 when it is missing, not
// a number or not whole. 0 is out of range, so AttachFeedback reports it as
// InvalidRating after its feedback check.
func (req feedbackRequest) rating() int {
	var f float64
	if err := json.Unmarshal(req.Rating, &f); err != nil {
		return 0
	}
	if f != math.Trunc(f) || f < 1 || f > 5 {
		return 0
	}
	return int(f)
}

// POST /applications
func (h *Handler) apply(w http.ResponseWriter, r *http.Request) {
	var req applyRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	app, err := services.Apply(r.Context(), h.store, h.effects, h.logger, req.VolunteerID, req.EventID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, app)
}

// POST /applications/{id}/transitions
func (h *Handler) transition(w http.ResponseWriter, r *http.Request) {
	var req transitionRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	app, err := services.Transition(r.Context(), h.store, h.effects, h.logger,
		chi.URLParam(r, "id"),
		model.ApplicationStatus(req.Status),
		services.TransitionPayload{HoursLogged: req.HoursLogged})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

// PUT /applications/{id}/feedback
func (h *Handler) feedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	app, err := services.AttachFeedback(r.Context(), h.store, h.effects, h.logger, chi.URLParam(r, "id"), req.Feedback, req.rating())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}
