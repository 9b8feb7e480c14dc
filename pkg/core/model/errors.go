package model

import (
	"errors"
	"fmt"
)

// Kind classifies errors returned by the core operations
type Kind string

const (
	KindAlreadyApplied       Kind = "AlreadyApplied"
	KindEventNotFound        Kind = "EventNotFound"
	KindEventClosed          Kind = "EventClosed"
	KindEventFull            Kind = "EventFull"
	KindInvalidTransition    Kind = "InvalidTransition"
	KindInvalidHours         Kind = "InvalidHours"
	KindInvalidRating        Kind = "InvalidRating"
	KindApplicationNotFound  Kind = "ApplicationNotFound"
	KindProfileNotFound      Kind = "ProfileNotFound"
	KindNotificationNotFound Kind = "NotificationNotFound"
	KindValidation           Kind = "ValidationError"
	KindStorageUnavailable   Kind = "StorageUnavailable"
)

// User-facing messages. Existing callers match on these strings.
const (
	MsgEventNotFound       = "Event not found"
	MsgEventClosed         = "Event is no longer accepting volunteers"
	MsgEventFull           = "Event has reached maximum volunteer capacity"
	MsgInvalidHours        = "Hours logged must be a positive number"
	MsgInvalidRating       = "Rating must be a number between 1 and 5"
	MsgApplicationNotFound = "Application not found"
	MsgProfileNotFound     = "Volunteer profile not found"
	MsgNotificationMissing = "Notification not found"
	MsgFeedbackNotAllowed  = "Feedback can only be provided for participated events"
	MsgFeedbackRequired    = "Feedback is required"
	MsgApplyIDsRequired    = "User ID and Event ID are required"
	MsgApplicationIDReq    = "Application ID is required"
	MsgStatusRequired      = "Status is required"
	MsgStorageUnavailable  = "Storage is temporarily unavailable, please retry"
)

// Error is a typed domain error. Message is safe to show to end users.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds a domain error without an underlying cause
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// AlreadyApplied reports an existing non-canceled application and its status
func AlreadyApplied(status ApplicationStatus) *Error {
	return NewError(KindAlreadyApplied, fmt.Sprintf("You have already applied for this event (Status: %s)", status))
}

// InvalidTransition names the current and requested statuses
func InvalidTransition(from, to ApplicationStatus) *Error {
	return NewError(KindInvalidTransition, fmt.Sprintf("Cannot change application status from %s to %s", from, to))
}

// StorageUnavailable wraps a datastore failure; callers may retry
func StorageUnavailable(err error) *Error {
	return &Error{Kind: KindStorageUnavailable, Message: MsgStorageUnavailable, Err: err}
}

// Validation reports malformed input
func Validation(message string) *Error {
	return NewError(KindValidation, message)
}

// KindOf returns the kind of err, or "" if err is not a domain error
func KindOf(err error) Kind {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return ""
}

// IsKind reports whether err (or any wrapped error) is a domain error of the given kind
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Retryable reports whether a caller may retry the operation that produced err
func Retryable(err error) bool {
	return IsKind(err, KindStorageUnavailable)
}
