package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Accounts (ACC) ----

func ErrAccountNotFound() *AppError {
	return New("ACC_001", "Account not found", http.StatusNotFound)
}

func ErrAccountInactive() *AppError {
	return New("ACC_002", "Account is inactive", http.StatusConflict)
}

// ---- Ledger (LED) ----

func ErrInsufficientFunds() *AppError {
	return New("LED_001", "Insufficient funds", http.StatusPaymentRequired)
}

func ErrInvalidAmount() *AppError {
	return New("LED_002", "Amount must be greater than zero", http.StatusBadRequest)
}

// ---- Repository (REPO) ----

func ErrDuplicateEntity(entity string) *AppError {
	return New("REPO_001", fmt.Sprintf("%s already exists", entity), http.StatusConflict)
}

func ErrEntityNotFound(entity string) *AppError {
	return New("REPO_002", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ---- Journal (TXN) ----

func ErrTransactionNotFound() *AppError {
	return New("TXN_001", "Transaction not found", http.StatusNotFound)
}

// ---- Validation (VAL) ----

// Validation returns a request validation error.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}
