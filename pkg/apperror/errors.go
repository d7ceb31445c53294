package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies an AppError independently of its message, so callers can
// match with errors.Is against the sentinels below.
type Kind string

const (
	KindNotFound           Kind = "not_found"
	KindUnauthorized       Kind = "unauthorized"
	KindBadRequest         Kind = "bad_request"
	KindConflict           Kind = "conflict"
	KindInternal           Kind = "internal"
	KindInvalidReceipt     Kind = "invalid_receipt"
	KindInvalidRenderWidth Kind = "invalid_render_width"
	KindPersistence        Kind = "persistence"
	KindPrinter            Kind = "printer"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Kind    Kind         `json:"-"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`

	cause error
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause, if any.
func (e *AppError) Unwrap() error {
	return e.cause
}

// Is reports whether target is an AppError of the same kind.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	if t.Kind == "" || e.Kind == "" {
		return e == t
	}
	return e.Kind == t.Kind
}

// Common errors
var (
	ErrNotFound           = &AppError{Code: http.StatusNotFound, Kind: KindNotFound, Message: "Resource not found"}
	ErrUnauthorized       = &AppError{Code: http.StatusUnauthorized, Kind: KindUnauthorized, Message: "Unauthorized"}
	ErrBadRequest         = &AppError{Code: http.StatusBadRequest, Kind: KindBadRequest, Message: "Bad request"}
	ErrInternalServer     = &AppError{Code: http.StatusInternalServerError, Kind: KindInternal, Message: "Internal server error"}
	ErrConflict           = &AppError{Code: http.StatusConflict, Kind: KindConflict, Message: "Resource already exists"}
	ErrInvalidCredentials = &AppError{Code: http.StatusUnauthorized, Kind: KindUnauthorized, Message: "Invalid username or password"}
	ErrInvalidToken       = &AppError{Code: http.StatusUnauthorized, Kind: KindUnauthorized, Message: "Could not validate credentials"}

	ErrInvalidReceipt     = &AppError{Code: http.StatusUnprocessableEntity, Kind: KindInvalidReceipt, Message: "Invalid receipt"}
	ErrInvalidRenderWidth = &AppError{Code: http.StatusBadRequest, Kind: KindInvalidRenderWidth, Message: "Invalid line width"}
	ErrPersistence        = &AppError{Code: http.StatusInternalServerError, Kind: KindPersistence, Message: "Internal server error"}
	ErrPrinter            = &AppError{Code: http.StatusBadGateway, Kind: KindPrinter, Message: "Failed to print receipt"}
)

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Kind:    KindBadRequest,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Kind:    KindNotFound,
		Message: resource + " not found",
	}
}

// NewConflictError creates a conflict error with a custom message
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Kind:    KindConflict,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Kind:    KindBadRequest,
		Message: message,
	}
}

// NewInvalidReceiptError reports receipt input that violates the receipt invariants.
func NewInvalidReceiptError(message string) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Kind:    KindInvalidReceipt,
		Message: message,
	}
}

// NewInvalidRenderWidthError reports an unusable line width for text rendering.
func NewInvalidRenderWidthError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Kind:    KindInvalidRenderWidth,
		Message: message,
	}
}

// NewPersistenceError wraps a storage failure. The client sees a generic
// message; the cause stays reachable through errors.Unwrap for logging.
func NewPersistenceError(cause error) *AppError {
	return &AppError{
		Code:    http.StatusInternalServerError,
		Kind:    KindPersistence,
		Message: "Internal server error",
		cause:   cause,
	}
}

// NewPrinterError wraps a failure of the receipt printer. Device details stay
// in the cause and are not shown to the client.
func NewPrinterError(cause error) *AppError {
	return &AppError{
		Code:    http.StatusBadGateway,
		Kind:    KindPrinter,
		Message: "Failed to print receipt",
		cause:   cause,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Kind:    KindInternal,
		Message: "Internal server error",
		cause:   err,
	}
}
