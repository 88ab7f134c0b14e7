package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrJobNotFound is returned when a job is not found.
	ErrJobNotFound = errors.New("job not found")
	// ErrApplicationNotFound is returned when an application is not found.
	ErrApplicationNotFound = errors.New("application not found")
	// ErrInvoiceNotFound is returned when an invoice is not found.
	ErrInvoiceNotFound = errors.New("invoice not found")

	// ErrForbidden is returned when an actor fails an ownership or role guard.
	ErrForbidden = errors.New("not authorized to perform this action")
	// ErrWorkerRoleRequired is returned when a non-worker tries to apply or claim.
	ErrWorkerRoleRequired = errors.New("only workers can apply for jobs")
	// ErrOwnJob is returned when a client tries to apply to or claim their own job.
	ErrOwnJob = errors.New("cannot apply to your own job")

	// ErrJobNotOpen is returned on transitions that require an open job.
	ErrJobNotOpen = errors.New("job is not open")
	// ErrJobNotInProgress is returned on transitions that require an in-progress job.
	ErrJobNotInProgress = errors.New("job is not in progress")
	// ErrJobFinalized is returned on any transition attempted from a terminal state.
	ErrJobFinalized = errors.New("job is completed or cancelled")
	// ErrAlreadyApplied is returned on a duplicate application for the same job.
	ErrAlreadyApplied = errors.New("already applied for this job")
	// ErrApplicationDecided is returned when deciding an application that is not pending.
	ErrApplicationDecided = errors.New("application has already been decided")

	// ErrInvalidStatus is returned when a status value outside the enum is supplied.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrCoverLetterRequired is returned when an application carries no cover letter.
	ErrCoverLetterRequired = errors.New("cover letter is required")
	// ErrInvalidAmount is returned when a budget or amount is not positive.
	ErrInvalidAmount = errors.New("amount must be positive")
	// ErrInvalidDeadline is returned when a deadline is not in the future.
	ErrInvalidDeadline = errors.New("deadline must be in the future")
	// ErrInvalidRole is returned when a registration role is outside the enum.
	ErrInvalidRole = errors.New("invalid role")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Not-found, forbidden and
// conflict outcomes keep distinct status codes; anything unrecognized is
// surfaced as an opaque internal error.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrJobNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "JOB_NOT_FOUND")
	case errors.Is(err, ErrApplicationNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "APPLICATION_NOT_FOUND")
	case errors.Is(err, ErrInvoiceNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "INVOICE_NOT_FOUND")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	case errors.Is(err, ErrWorkerRoleRequired):
		return NewHTTPError(http.StatusForbidden, err.Error(), "WORKER_ROLE_REQUIRED")
	case errors.Is(err, ErrOwnJob):
		return NewHTTPError(http.StatusForbidden, err.Error(), "OWN_JOB")
	case errors.Is(err, ErrJobNotOpen):
		return NewHTTPError(http.StatusConflict, err.Error(), "JOB_NOT_OPEN")
	case errors.Is(err, ErrJobNotInProgress):
		return NewHTTPError(http.StatusConflict, err.Error(), "JOB_NOT_IN_PROGRESS")
	case errors.Is(err, ErrJobFinalized):
		return NewHTTPError(http.StatusConflict, err.Error(), "JOB_FINALIZED")
	case errors.Is(err, ErrAlreadyApplied):
		return NewHTTPError(http.StatusConflict, err.Error(), "ALREADY_APPLIED")
	case errors.Is(err, ErrApplicationDecided):
		return NewHTTPError(http.StatusConflict, err.Error(), "APPLICATION_DECIDED")
	case errors.Is(err, ErrInvalidStatus):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_STATUS")
	case errors.Is(err, ErrCoverLetterRequired):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "COVER_LETTER_REQUIRED")
	case errors.Is(err, ErrInvalidAmount):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_AMOUNT")
	case errors.Is(err, ErrInvalidDeadline):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_DEADLINE")
	case errors.Is(err, ErrInvalidRole):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_ROLE")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
