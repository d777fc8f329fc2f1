package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Error codes for categorization
const (
	// Client errors (4xx)
	ErrCodeValidation  = "VALIDATION_ERROR"
	ErrCodeNotFound    = "NOT_FOUND"
	ErrCodeConflict    = "CONFLICT"
	ErrCodeRateLimited = "RATE_LIMITED"
	ErrCodeBadRequest  = "BAD_REQUEST"
	ErrCodeEmptyInput  = "EMPTY_INPUT"

	// Server errors (5xx)
	ErrCodeInternal       = "INTERNAL_ERROR"
	ErrCodeDatabase       = "DATABASE_ERROR"
	ErrCodeExternalAPI    = "EXTERNAL_API_ERROR"
	ErrCodeTimeout        = "TIMEOUT_ERROR"
	ErrCodeServiceUnavail = "SERVICE_UNAVAILABLE"

	// Extraction errors
	ErrCodeFetchFailed        = "FETCH_FAILED"
	ErrCodeParseFailed        = "PARSE_FAILED"
	ErrCodeEnrichmentFailed   = "ENRICHMENT_FAILED"
	ErrCodeInsufficientSignal = "INSUFFICIENT_SIGNAL"
	ErrCodeReportGenFailed    = "REPORT_GENERATION_FAILED"
)

// AppError is the base error type for all application errors
type AppError struct {
	// Error code for programmatic handling
	Code string `json:"code"`

	// Human-readable message
	Message string `json:"message"`

	// Detailed description (optional, for developers)
	Details string `json:"details,omitempty"`

	// HTTP status code
	HTTPStatus int `json:"-"`

	// Original error (for error wrapping)
	Cause error `json:"-"`

	// Metadata for additional context
	Metadata map[string]interface{} `json:"metadata,omitempty"`

	// Timestamp when error occurred
	Timestamp time.Time `json:"timestamp"`

	// Request ID for tracing
	RequestID string `json:"request_id,omitempty"`

	// Retry information
	Retryable  bool          `json:"retryable"`
	RetryAfter time.Duration `json:"retry_after,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for error comparison
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// WithCause adds the underlying cause
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// WithMetadata adds metadata to the error
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// WithRequestID adds request ID for tracing
func (e *AppError) WithRequestID(requestID string) *AppError {
	e.RequestID = requestID
	return e
}

// WithRetry marks the error as retryable
func (e *AppError) WithRetry(after time.Duration) *AppError {
	e.Retryable = true
	e.RetryAfter = after
	return e
}

// ToJSON serializes the error to JSON
func (e *AppError) ToJSON() []byte {
	data, _ := json.Marshal(e)
	return data
}

// Error constructors

// NewError creates a new AppError
func NewError(code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Timestamp:  time.Now().UTC(),
	}
}

// Validation errors

func ErrValidation(message string) *AppError {
	return NewError(ErrCodeValidation, message, http.StatusBadRequest)
}

func ErrValidationField(field, message string) *AppError {
	return NewError(ErrCodeValidation, message, http.StatusBadRequest).
		WithMetadata("field", field)
}

// ErrEmptyInput signals an analysis request with no target URLs.
func ErrEmptyInput() *AppError {
	return NewError(ErrCodeEmptyInput, "no target URLs provided", http.StatusBadRequest)
}

// Not found errors

func ErrNotFound(resource, id string) *AppError {
	return NewError(ErrCodeNotFound, fmt.Sprintf("%s not found: %s", resource, id), http.StatusNotFound).
		WithMetadata("resource", resource).
		WithMetadata("id", id)
}

func ErrAnalysisNotFound(id string) *AppError {
	return ErrNotFound("analysis", id)
}

func ErrReportNotFound(id string) *AppError {
	return ErrNotFound("report", id)
}

// Rate limiting

func ErrRateLimited(retryAfter time.Duration) *AppError {
	return NewError(ErrCodeRateLimited, "Rate limit exceeded", http.StatusTooManyRequests).
		WithRetry(retryAfter)
}

// Conflict errors

func ErrConflict(message string) *AppError {
	return NewError(ErrCodeConflict, message, http.StatusConflict)
}

// Server errors

func ErrInternal(message string) *AppError {
	if message == "" {
		message = "Internal server error"
	}
	return NewError(ErrCodeInternal, message, http.StatusInternalServerError)
}

func ErrDatabase(err error) *AppError {
	return NewError(ErrCodeDatabase, "Database error", http.StatusInternalServerError).
		WithCause(err)
}

func ErrExternalAPI(service string, err error) *AppError {
	return NewError(ErrCodeExternalAPI, fmt.Sprintf("External API error: %s", service), http.StatusBadGateway).
		WithCause(err).
		WithMetadata("service", service).
		WithRetry(5 * time.Second)
}

func ErrTimeout(operation string) *AppError {
	return NewError(ErrCodeTimeout, fmt.Sprintf("Operation timed out: %s", operation), http.StatusGatewayTimeout).
		WithMetadata("operation", operation).
		WithRetry(10 * time.Second)
}

func ErrServiceUnavailable(service string) *AppError {
	return NewError(ErrCodeServiceUnavail, fmt.Sprintf("Service unavailable: %s", service), http.StatusServiceUnavailable).
		WithMetadata("service", service).
		WithRetry(30 * time.Second)
}

// Extraction errors

func ErrFetchFailed(url string, err error) *AppError {
	return NewError(ErrCodeFetchFailed, fmt.Sprintf("Fetch failed: %s", url), http.StatusUnprocessableEntity).
		WithCause(err).
		WithMetadata("url", url)
}

func ErrParseFailed(url string, err error) *AppError {
	return NewError(ErrCodeParseFailed, fmt.Sprintf("Parse failed: %s", url), http.StatusUnprocessableEntity).
		WithCause(err).
		WithMetadata("url", url)
}

func ErrEnrichmentFailed(reason string, err error) *AppError {
	return NewError(ErrCodeEnrichmentFailed, fmt.Sprintf("Enrichment failed: %s", reason), http.StatusUnprocessableEntity).
		WithCause(err)
}

func ErrInsufficientSignal(url string) *AppError {
	return NewError(ErrCodeInsufficientSignal, fmt.Sprintf("No usable brand signal: %s", url), http.StatusUnprocessableEntity).
		WithMetadata("url", url)
}

func ErrReportGenFailed(reason string, err error) *AppError {
	return NewError(ErrCodeReportGenFailed, fmt.Sprintf("Report generation failed: %s", reason), http.StatusUnprocessableEntity).
		WithCause(err)
}

// Helper functions

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError converts an error to AppError if possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// WrapError wraps a standard error into an AppError
func WrapError(err error, code, message string, httpStatus int) *AppError {
	return NewError(code, message, httpStatus).WithCause(err)
}

// GetHTTPStatus returns the HTTP status code for an error
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// GetErrorCode returns the error code for an error
func GetErrorCode(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ErrCodeInternal
}

// DomainError is a structured error for domain operations
type DomainError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for error comparison
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Sentinel domain errors (used with errors.Is)
var (
	ErrNotFoundVal           = &DomainError{Code: ErrCodeNotFound, Message: "not found"}
	ErrInvalidInputVal       = &DomainError{Code: ErrCodeValidation, Message: "invalid input"}
	ErrEmptyInputVal         = &DomainError{Code: ErrCodeEmptyInput, Message: "empty input"}
	ErrFetchFailedVal        = &DomainError{Code: ErrCodeFetchFailed, Message: "fetch failed"}
	ErrParseFailedVal        = &DomainError{Code: ErrCodeParseFailed, Message: "parse failed"}
	ErrEnrichmentFailedVal   = &DomainError{Code: ErrCodeEnrichmentFailed, Message: "enrichment failed"}
	ErrInsufficientSignalVal = &DomainError{Code: ErrCodeInsufficientSignal, Message: "insufficient signal"}
)

// IsSentinelError checks if err matches a sentinel error
func IsSentinelError(err error, sentinel *DomainError) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == sentinel.Code
	}
	return false
}

// NotFoundError creates a not found domain error
func NotFoundError(resource string, id any) *DomainError {
	return &DomainError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Details: map[string]any{"resource": resource, "id": id},
		Err:     ErrNotFoundVal,
	}
}

// ValidationError creates a validation domain error
func ValidationError(field, message string) *DomainError {
	return &DomainError{
		Code:    ErrCodeValidation,
		Message: message,
		Details: map[string]any{"field": field},
		Err:     ErrInvalidInputVal,
	}
}

// FetchError creates a fetch failure domain error for a target URL
func FetchError(url string, err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeFetchFailed,
		Message: fmt.Sprintf("fetch failed: %s", url),
		Details: map[string]any{"url": url},
		Err:     err,
	}
}
