package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed tool error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches errors by code so cloned values still compare equal to their template.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// GenericMessage is the only text callers see for failures they cannot act on.
const GenericMessage = "An unexpected error occurred. Please try again later."

// Tool error taxonomy.
var (
	ErrInvalidIdentity    = New("INVALID_IDENTITY", http.StatusBadRequest, "Invalid x-identity format. Use \"email:<email>\" or \"phone:<phone>\".")
	ErrMissingIdentity    = New("INVALID_IDENTITY", http.StatusBadRequest, "Missing x-identity header. Provide email:<email> or phone:<phone>.")
	ErrMissingSecret      = New("MISSING_SECRET", http.StatusBadRequest, "Missing PIN. Provide it either in the \"pin\" header, query parameter, or request body.")
	ErrMissingFields      = New("MISSING_FIELDS", http.StatusBadRequest, "Missing required fields.")
	ErrInvalidDateFormat  = New("INVALID_DATE_FORMAT", http.StatusBadRequest, "Invalid date format. Please use YYYY-MM-DD format.")
	ErrInvalidStudentName = New("INVALID_STUDENT_NAME", http.StatusBadRequest, "Please provide both first and last name of the student.")
	ErrInvalidPhoneFormat = New("INVALID_PHONE_FORMAT", http.StatusBadRequest, "Invalid phone number format. Please use E.164 format (e.g., +1234567890).")
	ErrNotPhoneCapable    = New("NOT_PHONE_CAPABLE", http.StatusBadRequest, "SMS can only be sent to phone numbers. Please provide a phone number in x-identity.")
	ErrInvalidRequest     = New("INVALID_REQUEST", http.StatusBadRequest, "Invalid request")
	ErrUnauthorized       = New("UNAUTHORIZED", http.StatusUnauthorized, "Invalid credentials. Please check your identity and PIN.")
	ErrGuardianNotFound   = New("GUARDIAN_NOT_FOUND", http.StatusNotFound, "Guardian not found.")
	ErrStudentNotFound    = New("STUDENT_NOT_FOUND", http.StatusNotFound, "Student not found.")
	ErrNoStudentsFound    = New("NO_STUDENTS_FOUND", http.StatusNotFound, "No students found for this guardian.")
	ErrTripNotFound       = New("TRIP_NOT_FOUND", http.StatusNotFound, "Field trip not found.")
	ErrNoTripsFound       = New("NO_TRIPS_FOUND", http.StatusNotFound, "No upcoming field trips found for your students' grades.")
	ErrNoAbsencesFound    = New("NO_ABSENCES_FOUND", http.StatusNotFound, "No absence records found.")
	ErrConfiguration      = New("CONFIGURATION_ERROR", http.StatusInternalServerError, "Record store configuration error. Please check environment variables.")
	ErrMessagingConfig    = New("CONFIGURATION_ERROR", http.StatusInternalServerError, "Messaging configuration error. Please check environment variables.")
	ErrHandoffConfig      = New("CONFIGURATION_ERROR", http.StatusInternalServerError, "Missing configuration for FLEX_WORKSPACE_SID OR FLEX_WORKFLOW_SID")
	ErrStoreOperation     = New("STORE_OPERATION_FAILED", http.StatusInternalServerError, GenericMessage)
	ErrHandoffFailed      = New("HANDOFF_FAILED", http.StatusInternalServerError, "Failed to hand over to a human agent")
	ErrUnexpected         = New("UNEXPECTED_ERROR", http.StatusInternalServerError, GenericMessage)
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrUnexpected.Code, ErrUnexpected.Status, ErrUnexpected.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// Store wraps a failed record-store call without exposing its detail to callers.
func Store(err error) *Error {
	return Wrap(err, ErrStoreOperation.Code, ErrStoreOperation.Status, ErrStoreOperation.Message)
}
