package apperror

import (
	"errors"
	"net/http"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Common errors
var (
	ErrNotFound       = &AppError{Code: http.StatusNotFound, Message: "Resource not found"}
	ErrBadRequest     = &AppError{Code: http.StatusBadRequest, Message: "Bad request"}
	ErrInternalServer = &AppError{Code: http.StatusInternalServerError, Message: "Internal server error"}
	ErrConflict       = &AppError{Code: http.StatusConflict, Message: "Resource already exists"}
	// ErrBusy signals a rejected re-entrant operation (a submit or print
	// fired while one is already outstanding).
	ErrBusy = &AppError{Code: http.StatusConflict, Message: "Operation already in progress"}
)

// Workspace validation sentinels. These never reach the network; they are
// shown inline and either auto-expire or require correction.
var (
	ErrCustomerRequired  = &AppError{Code: http.StatusUnprocessableEntity, Message: "Customer code is required"}
	ErrClosedBill        = &AppError{Code: http.StatusUnprocessableEntity, Message: "Cannot add new lines to a printed bill"}
	ErrNothingToPrint    = &AppError{Code: http.StatusUnprocessableEntity, Message: "No saved lines to print"}
	ErrUnpricedLine      = &AppError{Code: http.StatusUnprocessableEntity, Message: "A bill cannot be closed with unpriced lines"}
	ErrGivenAmountEmpty  = &AppError{Code: http.StatusUnprocessableEntity, Message: "Given amount is required"}
	ErrNoPersistedLines  = &AppError{Code: http.StatusUnprocessableEntity, Message: "No saved lines for this customer"}
	ErrPrintedBillActive = &AppError{Code: http.StatusUnprocessableEntity, Message: "A printed bill is selected"}
)

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Message: resource + " not found",
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

// NewBackendError wraps a backend failure, keeping the backend's own
// message verbatim for the operator.
func NewBackendError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadGateway,
		Message: message,
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
		Message: err.Error(),
	}
}
