// Package errors provides custom error types for the farm operations API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Is reports whether target carries the same error code. Lets callers use
// errors.Is against sentinels even after Wrap/WithMessage.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User & farm errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
	ErrFarmNotFound   = &AppError{Code: "FARM_NOT_FOUND", Message: "Farm not found", StatusCode: http.StatusNotFound}
)

// Activity record errors.
var (
	ErrActivityNotFound = &AppError{Code: "ACTIVITY_NOT_FOUND", Message: "Activity record not found", StatusCode: http.StatusNotFound}
	ErrInvalidModule    = &AppError{Code: "INVALID_MODULE", Message: "Unknown activity module", StatusCode: http.StatusBadRequest}
)

// Ledger errors. The ledger commit either applies in full or not at all;
// a failed commit surfaces verbatim so the caller can re-issue the save
// from current form state. ErrLedgerInconsistent marks an entry with no
// live source record; that means data repair, not a retry.
var (
	ErrLedgerCommitFailed = &AppError{Code: "LEDGER_COMMIT_FAILED", Message: "Failed to commit activity and ledger changes", StatusCode: http.StatusInternalServerError}
	ErrLedgerInconsistent = &AppError{Code: "LEDGER_INCONSISTENT", Message: "Ledger entry has no matching activity record", StatusCode: http.StatusInternalServerError}
)

// Reporting errors.
var (
	ErrFarmingYearNotFound = &AppError{Code: "FARMING_YEAR_NOT_FOUND", Message: "Farming year not found", StatusCode: http.StatusNotFound}
	ErrSeasonNotFound      = &AppError{Code: "SEASON_NOT_FOUND", Message: "Season not found", StatusCode: http.StatusNotFound}
	ErrInvalidWindow       = &AppError{Code: "INVALID_WINDOW", Message: "Invalid reporting window", StatusCode: http.StatusBadRequest}
)

// Budget errors.
var (
	ErrBudgetNotFound = &AppError{Code: "BUDGET_NOT_FOUND", Message: "Budget not found", StatusCode: http.StatusNotFound}
)
