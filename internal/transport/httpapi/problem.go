package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/core/model"
)

// retryAfterSeconds is sent with 503 responses for transient storage failures
const retryAfterSeconds = "1"

type Problem struct {
	Type     string              `json:"type,omitempty"`
	Title    string              `json:"title,omitempty"`
	Status   int                 `json:"status,omitempty"`
	Detail   string              `json:"detail,omitempty"`
	Instance string              `json:"instance,omitempty"`
	Errors   map[string][]string `json:"errors,omitempty"`
	Meta     map[string]any      `json:"meta,omitempty"`
}

func WriteProblem(w http.ResponseWriter, status int, title, detail string, meta map[string]any) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Problem{
		Title:  title,
		Status: status,
		Detail: detail,
		Meta:   meta,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusForKind maps domain error kinds to HTTP statuses
func statusForKind(kind model.Kind) int {
	switch kind {
	case model.KindAlreadyApplied, model.KindEventClosed, model.KindEventFull, model.KindInvalidTransition:
		return http.StatusConflict
	case model.KindEventNotFound, model.KindApplicationNotFound, model.KindProfileNotFound, model.KindNotificationNotFound:
		return http.StatusNotFound
	case model.KindInvalidHours, model.KindInvalidRating, model.KindValidation:
		return http.StatusBadRequest
	case model.KindStorageUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// writeError renders err as a problem. Domain errors carry their message in
// detail and their kind in meta.kind; anything else is a 500.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var domainErr *model.Error
	if !errors.As(err, &domainErr) {
		h.logger.Error("Unhandled error",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		WriteProblem(w, http.StatusInternalServerError, "internal error", "an unexpected error occurred", nil)
		return
	}

	status := statusForKind(domainErr.Kind)
	if status == http.StatusServiceUnavailable {
		h.logger.Warn("Storage unavailable",
			zap.String("path", r.URL.Path),
			zap.Error(err))
		w.Header().Set("Retry-After", retryAfterSeconds)
	}

	WriteProblem(w, status, http.StatusText(status), domainErr.Message, map[string]any{"kind": string(domainErr.Kind)})
}
