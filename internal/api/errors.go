package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nerrad567/gridstore-core/internal/registry"
	"github.com/nerrad567/gridstore-core/internal/schema"
)

// Error represents a structured error response.
type Error struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Common error codes.
const (
	ErrCodeBadRequest    = "bad_request"
	ErrCodeNotFound      = "not_found"
	ErrCodeUnauthorized  = "unauthorised"
	ErrCodeForbidden     = "forbidden"
	ErrCodeConflict      = "conflict"
	ErrCodeInternal      = "internal_error"
	ErrCodeValidation    = "validation_error"
	ErrCodeTooLarge      = "payload_too_large"
	ErrCodeUnknownKind   = "unknown_kind"
	ErrCodeTypeMismatch  = "component_type_mismatch"
	ErrCodeInvalidUpload = "invalid_network"
)

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Error{
		Status:  status,
		Code:    code,
		Message: message,
	})
}

// writeBadRequest writes a 400 error response.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

// writeNotFound writes a 404 error response.
func writeNotFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, ErrCodeNotFound, message)
}

// writeUnauthorized writes a 401 error response.
func writeUnauthorized(w http.ResponseWriter, message string) {
	writeError(w, http.StatusUnauthorized, ErrCodeUnauthorized, message)
}

// writeForbidden writes a 403 error response.
func writeForbidden(w http.ResponseWriter, message string) {
	writeError(w, http.StatusForbidden, ErrCodeForbidden, message)
}

// writeInternalError writes a 500 error response.
func writeInternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, ErrCodeInternal, message)
}

// writeEngineError maps an engine or body error to its response.
//
//	validation failure       400
//	unknown kind             404
//	entity not found         404
//	component type mismatch  409
//	oversized body           413
//	anything else            500
func writeEngineError(w http.ResponseWriter, err error) {
	var (
		verr    *schema.ValidationError
		tooBig  *http.MaxBytesError
		status  int
		errCode string
	)
	switch {
	case errors.As(err, &verr):
		status, errCode = http.StatusBadRequest, ErrCodeValidation
	case errors.As(err, &tooBig):
		status, errCode = http.StatusRequestEntityTooLarge, ErrCodeTooLarge
	case errors.Is(err, registry.ErrDispatchNotFound):
		status, errCode = http.StatusNotFound, ErrCodeUnknownKind
	case errors.Is(err, registry.ErrEntityNotFound):
		status, errCode = http.StatusNotFound, ErrCodeNotFound
	case errors.Is(err, registry.ErrComponentTypeMismatch):
		status, errCode = http.StatusConflict, ErrCodeTypeMismatch
	default:
		writeInternalError(w, "internal server error")
		return
	}
	writeError(w, status, errCode, err.Error())
}
