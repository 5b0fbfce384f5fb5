// Package http provides the JSON API server and its handlers.
//
// This file implements a builder for JSON responses. Successful bodies are
// wrapped as {"data": ...}; a mutation that was applied but not persisted
// adds a "warning" next to the data. Errors are {"error": ...}.

package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/edit"
	"fintrack/internal/ledger"
	"fintrack/internal/services"
)

// PersistWarning is shown when a change is kept in memory only.
const PersistWarning = "Saved in memory, but could not be written to storage"

type envelope struct {
	Data    any    `json:"data,omitempty"`
	Warning string `json:"warning,omitempty"`
	Error   string `json:"error,omitempty"`
	Details any    `json:"details,omitempty"`
}

// JSONResponseBuilder provides a fluent API for JSON responses.
type JSONResponseBuilder struct {
	statusCode int
	body       envelope
	headers    map[string]string
}

// NewJSONResponse creates a builder with a 200 status.
func NewJSONResponse() *JSONResponseBuilder {
	return &JSONResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

func (b *JSONResponseBuilder) Status(code int) *JSONResponseBuilder {
	b.statusCode = code
	return b
}

func (b *JSONResponseBuilder) Data(v any) *JSONResponseBuilder {
	b.body.Data = v
	return b
}

func (b *JSONResponseBuilder) Warning(msg string) *JSONResponseBuilder {
	b.body.Warning = msg
	return b
}

// PersistWarningIf adds the persistence warning when err is a PersistError.
func (b *JSONResponseBuilder) PersistWarningIf(err error) *JSONResponseBuilder {
	if ledger.IsPersistError(err) {
		b.body.Warning = PersistWarning
	}
	return b
}

func (b *JSONResponseBuilder) Error(msg string) *JSONResponseBuilder {
	b.body.Error = msg
	return b
}

func (b *JSONResponseBuilder) Details(v any) *JSONResponseBuilder {
	b.body.Details = v
	return b
}

func (b *JSONResponseBuilder) Header(name, value string) *JSONResponseBuilder {
	b.headers[name] = value
	return b
}

// Write sends the built response. A 204 carries no body.
func (b *JSONResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	if b.statusCode == http.StatusNoContent {
		w.WriteHeader(b.statusCode)
		return
	}

	payload, err := json.Marshal(b.body)
	if err != nil {
		slog.Error("Failed to encode response", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal error"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(b.statusCode)
	_, _ = w.Write(append(payload, '\n'))
}

// ErrorResponse creates an error response with the given status.
func ErrorResponse(statusCode int, message string) *JSONResponseBuilder {
	return NewJSONResponse().Status(statusCode).Error(message)
}

func BadRequestError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

func UnprocessableEntityError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusUnprocessableEntity, message)
}

func NotFoundError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message)
}

func ConflictError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusConflict, message)
}

func InternalServerError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, message)
}

func ServiceUnavailableError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusServiceUnavailable, message)
}

func TooManyRequestsError() *JSONResponseBuilder {
	return ErrorResponse(http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
}

// ErrorFor maps a domain error to its response. Persistence errors are not
// failures and must be handled with PersistWarningIf before calling this.
func ErrorFor(err error) *JSONResponseBuilder {
	switch {
	case errors.Is(err, ErrMalformedBody), errors.Is(err, ErrInvalidID), errors.Is(err, ErrInvalidDate):
		return BadRequestError(err.Error())
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrEmptyDescription),
		errors.Is(err, core.ErrDescriptionLong),
		errors.Is(err, core.ErrEmptyCategory),
		errors.Is(err, core.ErrZeroDate):
		return UnprocessableEntityError(edit.Message(err))
	case errors.Is(err, ledger.ErrNotFound):
		return NotFoundError("Expense not found")
	case errors.Is(err, services.ErrUnknownWindow):
		return NotFoundError(err.Error())
	case errors.Is(err, edit.ErrNotEditing):
		return ConflictError("Row is not being edited")
	}
	return InternalServerError("Internal error")
}
