package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/LachieKelly/casino/internal/bet"
	"github.com/LachieKelly/casino/internal/games"
	"github.com/LachieKelly/casino/internal/session"
)

// Error type constants for structured error responses
const (
	ErrTypeValidation = "validation_error"
	ErrTypeBet        = "bet_rejected"
	ErrTypeGame       = "game_error"
	ErrTypeNotFound   = "not_found"
	ErrTypeInternal   = "internal_error"
)

// APIError is the JSON error envelope returned by every endpoint
type APIError struct {
	Type      string                 `json:"type"`
	Message   string                 `json:"message"`
	Context   map[string]interface{} `json:"context,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
	Timestamp string                 `json:"timestamp"`
}

func newAPIError(r *http.Request, errType, message string, context map[string]interface{}) APIError {
	return APIError{
		Type:      errType,
		Message:   message,
		Context:   context,
		RequestID: middleware.GetReqID(r.Context()),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// classify maps a domain error to an HTTP status and error type.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, bet.ErrInvalidAmount),
		errors.Is(err, bet.ErrNoSelection),
		errors.Is(err, bet.ErrInsufficientFunds):
		return http.StatusBadRequest, ErrTypeBet
	case errors.Is(err, games.ErrUnknownGame):
		return http.StatusNotFound, ErrTypeNotFound
	case errors.Is(err, games.ErrBadSelection),
		errors.Is(err, games.ErrBadInput),
		errors.Is(err, session.ErrNoGame):
		return http.StatusBadRequest, ErrTypeValidation
	case errors.Is(err, games.ErrRoundInProgress),
		errors.Is(err, games.ErrRoundOver),
		errors.Is(err, games.ErrNotStarted),
		errors.Is(err, session.ErrNoRound):
		return http.StatusConflict, ErrTypeGame
	}
	return http.StatusInternalServerError, ErrTypeInternal
}
