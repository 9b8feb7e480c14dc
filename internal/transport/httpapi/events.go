package httpapi

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/core/model"
	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/core/services"
)

type eventStatusRequest struct {
	Status string `json:"status"`
}

// GET /events?status=Planned,InProgress&urgency=High&skill=First%20Aid&from=...&to=...&created_by=...
func (h *Handler) listEvents(w http.ResponseWriter, r *http.Request) {
	filter, err := parseEventFilter(r.URL.Query())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	events, err := services.ListEvents(r.Context(), h.store, h.logger, filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if events == nil {
		events = []*model.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

func parseEventFilter(q url.Values) (model.EventFilter, error) {
	var filter model.EventFilter

	if raw := q.Get("status"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			status, err := model.ParseEventStatus(part)
			if err != nil {
				return filter, model.Validation(err.Error())
			}
			filter.Statuses = append(filter.Statuses, status)
		}
	}
	if raw := q.Get("urgency"); raw != "" {
		urgency, err := model.ParseUrgency(raw)
		if err != nil {
			return filter, model.Validation(err.Error())
		}
		filter.Urgency = urgency
	}
	filter.Skill = strings.TrimSpace(q.Get("skill"))
	filter.CreatedBy = strings.TrimSpace(q.Get("created_by"))

	var err error
	if filter.StartsAfter, err = parseTimeParam(q, "from"); err != nil {
		return filter, err
	}
	if filter.EndsBefore, err = parseTimeParam(q, "to"); err != nil {
		return filter, err
	}
	return filter, nil
}

func parseTimeParam(q url.Values, name string) (time.Time, error) {
	raw := q.Get(name)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, model.Validation(name + " must be an RFC3339 timestamp")
	}
	return t.UTC(), nil
}

// POST /events
func (h *Handler) createEvent(w http.ResponseWriter, r *http.Request) {
	var input services.CreateEventInput
	if !h.decodeJSON(w, r, &input) {
		return
	}

	event, err := services.CreateEvent(r.Context(), h.store, h.effects, h.logger, input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

// POST /events/series
func (h *Handler) createEventSeries(w http.ResponseWriter, r *http.Request) {
	var input services.CreateEventSeriesInput
	if !h.decodeJSON(w, r, &input) {
		return
	}
	if strings.TrimSpace(input.RRule) == "" {
		input.RRule = h.opts.SeriesRRule
	}
	if input.MaxOccurrences == 0 {
		input.MaxOccurrences = h.opts.SeriesMaxOccurrences
	}

	events, err := services.CreateEventSeries(r.Context(), h.store, h.effects, h.logger, input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, events)
}

// GET /events/{id}
func (h *Handler) getEvent(w http.ResponseWriter, r *http.Request) {
	event, err := services.GetEvent(r.Context(), h.store, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// PATCH /events/{id}/status
func (h *Handler) setEventStatus(w http.ResponseWriter, r *http.Request) {
	var req eventStatusRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	event, err := services.UpdateEventStatus(r.Context(), h.store, h.logger, chi.URLParam(r, "id"), req.Status)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// GET /events/{id}/applications
func (h *Handler) eventApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := services.EventVolunteers(r.Context(), h.store, h.logger, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if apps == nil {
		apps = []*model.Application{}
	}
	writeJSON(w, http.StatusOK, apps)
}
