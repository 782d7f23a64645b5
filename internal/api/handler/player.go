package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/tictacgame-go/internal/api/response"
	"github.com/mcoot/tictacgame-go/internal/storage"
)

// PlayerHandler handles player-related endpoints
type PlayerHandler struct {
	storage storage.Storage
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(storage storage.Storage) *PlayerHandler {
	return &PlayerHandler{
		storage: storage,
	}
}

// Get handles GET /api/v1/players/{username}
func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	creds, err := h.storage.GetCredentialsByUsername(r.Context(), username)
	if err != nil {
		WriteError(w, err)
		return
	}
	player, err := h.storage.GetPlayer(r.Context(), creds.PlayerID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}

// GetStats handles GET /api/v1/players/{username}/stats
func (h *PlayerHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	creds, err := h.storage.GetCredentialsByUsername(r.Context(), username)
	if err != nil {
		WriteError(w, err)
		return
	}
	stats, err := h.storage.GetStats(r.Context(), creds.PlayerID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.StatsFromModel(username, stats))
}
