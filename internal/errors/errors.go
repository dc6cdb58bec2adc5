package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
)

// ErrorType represents different types of errors
type ErrorType string

const (
	ErrorTypeValidation  ErrorType = "validation"
	ErrorTypeCapacity    ErrorType = "capacity"
	ErrorTypeBusy        ErrorType = "busy"
	ErrorTypeExternal    ErrorType = "external_api"
	ErrorTypePersistence ErrorType = "persistence"
	ErrorTypeInternal    ErrorType = "internal"
)

const (
	CodeInvalidInput       = "INVALID_INPUT"
	CodeCapacityExceeded   = "CAPACITY_EXCEEDED"
	CodeSlotBusy           = "SLOT_BUSY"
	CodeProviderError      = "PROVIDER_ERROR"
	CodePersistenceFailure = "PERSISTENCE_FAILURE"
	CodeInternal           = "INTERNAL"
)

// AppError represents an application error with additional context
type AppError struct {
	Type     ErrorType
	Message  string
	Code     string
	Internal error
	Context  map[string]interface{}
	Source   string
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the internal error
func (e *AppError) Unwrap() error {
	return e.Internal
}

// Is matches another AppError by type and code, so the sentinels below work with errors.Is.
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Type == t.Type && e.Code == t.Code
	}
	return false
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// LogFields returns structured logging fields
func (e *AppError) LogFields() []interface{} {
	fields := []interface{}{
		"error_type", e.Type,
		"error_code", e.Code,
		"error_message", e.Message,
		"source", e.Source,
	}

	if e.Internal != nil {
		fields = append(fields, "internal_error", e.Internal.Error())
	}

	for k, v := range e.Context {
		fields = append(fields, k, v)
	}

	return fields
}

// New creates a new AppError
func New(errorType ErrorType, code, message string) *AppError {
	return newAppError(nil, errorType, code, message)
}

// Wrap wraps an existing error into AppError
func Wrap(err error, errorType ErrorType, code, message string) *AppError {
	return newAppError(err, errorType, code, message)
}

// newAppError must be called directly by an exported constructor so that
// Source points at the constructor's caller.
func newAppError(err error, errorType ErrorType, code, message string) *AppError {
	return &AppError{
		Type:     errorType,
		Code:     code,
		Message:  message,
		Internal: err,
		Source:   caller(3),
		Context:  make(map[string]interface{}),
	}
}

// caller reports file:line skip frames up: 1 is newAppError, 2 the constructor.
func caller(skip int) string {
	_, file, line, _ := runtime.Caller(skip)
	return fmt.Sprintf("%s:%d", file, line)
}

// TypeOf returns the ErrorType of err, or ErrorTypeInternal for foreign errors.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeInternal
}

// Handler provides error handling strategies
type Handler struct {
	logger *slog.Logger
}

// NewHandler creates a new error handler
func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{logger: logger}
}

// Handle processes an error according to its type
func (h *Handler) Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		h.handleAppError(ctx, appErr)
	} else {
		h.logger.ErrorContext(ctx, "Unhandled error", "error", err.Error())
	}
}

func (h *Handler) handleAppError(ctx context.Context, err *AppError) {
	switch err.Type {
	case ErrorTypeValidation, ErrorTypeCapacity, ErrorTypeBusy:
		h.logger.WarnContext(ctx, "Rejected request", err.LogFields()...)
	case ErrorTypeExternal, ErrorTypePersistence, ErrorTypeInternal:
		h.logger.ErrorContext(ctx, "Critical error", err.LogFields()...)
	default:
		h.logger.ErrorContext(ctx, "Unknown error type", err.LogFields()...)
	}
}

// LogAndReturn logs an error and returns it
func (h *Handler) LogAndReturn(ctx context.Context, err error) error {
	h.Handle(ctx, err)
	return err
}

// Sentinels for errors.Is; compare by type and code only.
var (
	ErrInvalidInput     = New(ErrorTypeValidation, CodeInvalidInput, "Invalid input provided")
	ErrCapacityExceeded = New(ErrorTypeCapacity, CodeCapacityExceeded, "Meal is full")
	ErrSlotBusy         = New(ErrorTypeBusy, CodeSlotBusy, "Meal slot is busy")
	ErrProvider         = New(ErrorTypeExternal, CodeProviderError, "Food analysis failed")
	ErrPersistence      = New(ErrorTypePersistence, CodePersistenceFailure, "Persistence failed")
	ErrInternal         = New(ErrorTypeInternal, CodeInternal, "Internal error")
)

func NewValidationError(message string) *AppError {
	return newAppError(nil, ErrorTypeValidation, CodeInvalidInput, message)
}

func NewCapacityError(meal string, limit int) *AppError {
	return newAppError(nil, ErrorTypeCapacity, CodeCapacityExceeded, fmt.Sprintf("each meal may hold at most %d entries", limit)).
		WithContext("meal", meal)
}

func NewBusyError(date, meal string) *AppError {
	return newAppError(nil, ErrorTypeBusy, CodeSlotBusy, "an analysis for this meal is still running").
		WithContext("date", date).
		WithContext("meal", meal)
}

func NewProviderError(err error, provider string) *AppError {
	return newAppError(err, ErrorTypeExternal, CodeProviderError, fmt.Sprintf("%s analysis failed", provider)).
		WithContext("provider", provider)
}

func NewPersistenceError(err error, operation string) *AppError {
	return newAppError(err, ErrorTypePersistence, CodePersistenceFailure, fmt.Sprintf("%s failed", operation)).
		WithContext("operation", operation)
}

func NewInternalError(err error) *AppError {
	return newAppError(err, ErrorTypeInternal, CodeInternal, "Internal error")
}
