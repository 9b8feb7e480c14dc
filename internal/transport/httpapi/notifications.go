package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/core/model"
	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/core/services"
)

// GET /users/{id}/notifications?unread=true
func (h *Handler) listNotifications(w http.ResponseWriter, r *http.Request) {
	unreadOnly := false
	if raw := r.URL.Query().Get("unread"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			h.writeError(w, r, model.Validation("unread must be true or false"))
			return
		}
		unreadOnly = v
	}

	notes, err := services.ListNotifications(r.Context(), h.store, chi.URLParam(r, "id"), unreadOnly)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if notes == nil {
		notes = []*model.Notification{}
	}
	writeJSON(w, http.StatusOK, notes)
}

// POST /users/{id}/notifications/read
func (h *Handler) markAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	n, err := services.MarkAllNotificationsRead(r.Context(), h.store, h.logger, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"marked": n})
}

// POST /notifications/{id}/read
func (h *Handler) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	if err := services.MarkNotificationRead(r.Context(), h.store, h.logger, chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
