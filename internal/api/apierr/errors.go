package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/tictacgame-go/internal/model"
)

// APIError is the machine-readable error payload of a failed request
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the envelope every error body uses
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Error codes the API can return
const (
	CodePlayerNotFound = "PLAYER_NOT_FOUND"
	CodeLobbyNotFound  = "LOBBY_NOT_FOUND"
	CodeStatsNotFound  = "STATS_NOT_FOUND"
	CodeInternalError  = "INTERNAL_ERROR"
)

// httpError pairs a status code with the payload to serialize
type httpError struct {
	status   int
	apiError APIError
}

func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError maps err onto a status code and JSON error body. Domain
// sentinels from the model package get specific codes; anything
// unrecognized becomes a generic 500.
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrLobbyNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeLobbyNotFound, "Lobby not found"}}
	case errors.Is(err, model.ErrStatsNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeStatsNotFound, "No recorded matches for player"}}
	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInternalError creates the generic 500 error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
