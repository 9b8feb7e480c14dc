// Package httpapi exposes the volunteer matching operations as a JSON API.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/core/model"
	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/core/services"
	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/db"
)

const (
	defaultMaxBodyBytes   = 1 << 20
	defaultRequestTimeout = 15 * time.Second
)

// Options tune the handler. Zero values select defaults.
type Options struct {
	MaxBodyBytes   int64
	RequestTimeout time.Duration

	// Applied to series requests that leave rrule or max_occurrences empty
	SeriesRRule          string
	SeriesMaxOccurrences int
	Now                  func() time.Time
}

// Handler holds the dependencies shared by every route
type Handler struct {
	store   db.Database
	effects *services.Effects
	logger  *zap.Logger
	opts    Options
}

func NewHandler(store db.Database, effects *services.Effects, logger *zap.Logger, opts Options) *Handler {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	return &Handler{
		store:   store,
		effects: effects,
		logger:  logger.Named("http"),
		opts:    opts,
	}
}

// Routes builds the router
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(h.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(h.opts.RequestTimeout))
	r.Use(BodyLimit(h.opts.MaxBodyBytes))
	r.Use(RequireJSON)

	r.Get("/health", h.health)

	r.Route("/volunteers/{id}", func(r chi.Router) {
		r.Get("/matches", h.matches)
		r.Put("/profile", h.saveProfile)
		r.Get("/profile", h.getProfile)
		r.Get("/applications", h.volunteerApplications)
	})

	r.Route("/applications", func(r chi.Router) {
		r.Post("/", h.apply)
		r.Post("/{id}/transitions", h.transition)
		r.Put("/{id}/feedback", h.feedback)
	})

	r.Route("/events", func(r chi.Router) {
		r.Get("/", h.listEvents)
		r.Post("/", h.createEvent)
		r.Post("/series", h.createEventSeries)
		r.Get("/{id}", h.getEvent)
		r.Patch("/{id}/status", h.setEventStatus)
		r.Get("/{id}/applications", h.eventApplications)
	})

	r.Get("/users/{id}/notifications", h.listNotifications)
	r.Post("/users/{id}/notifications/read", h.markAllNotificationsRead)
	r.Post("/notifications/{id}/read", h.markNotificationRead)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteProblem(w, http.StatusNotFound, "not found", "no route for "+r.Method+" "+r.URL.Path, nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteProblem(w, http.StatusMethodNotAllowed, "method not allowed", r.Method+" is not supported here", nil)
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		h.logger.Warn("Health check failed", zap.Error(err))
		w.Header().Set("Retry-After", retryAfterSeconds)
		WriteProblem(w, http.StatusServiceUnavailable, "not ready", "database not reachable", nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeJSON strictly decodes the body into v. Failures are written as
// ValidationError problems without decoder internals in the detail.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	defer DrainBody(r)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	err := dec.Decode(v)
	if err == nil {
		return true
	}

	var (
		maxErr  *http.MaxBytesError
		typeErr *json.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &maxErr):
		WriteProblem(w, http.StatusRequestEntityTooLarge, http.StatusText(http.StatusRequestEntityTooLarge),
			fmt.Sprintf("request body must not exceed %d bytes", maxErr.Limit),
			map[string]any{"kind": string(model.KindValidation)})
	case errors.Is(err, io.EOF):
		h.writeError(w, r, model.Validation("request body is required"))
	case errors.As(err, &typeErr) && typeErr.Field != "":
		h.writeError(w, r, model.Validation(fmt.Sprintf("%s has the wrong type", typeErr.Field)))
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		h.writeError(w, r, model.Validation(strings.TrimPrefix(err.Error(), "json: ")))
	default:
		h.writeError(w, r, model.Validation("request body is not valid JSON"))
	}
	return false
}
