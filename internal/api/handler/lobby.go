package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/tictacgame-go/internal/api/response"
	"github.com/mcoot/tictacgame-go/internal/model"
	"github.com/mcoot/tictacgame-go/internal/storage"
)

// LobbyHandler handles lobby-related endpoints
type LobbyHandler struct {
	storage storage.Storage
}

// NewLobbyHandler creates a new lobby handler
func NewLobbyHandler(storage storage.Storage) *LobbyHandler {
	return &LobbyHandler{
		storage: storage,
	}
}

// Get handles GET /api/v1/lobbies/{name}
func (h *LobbyHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := model.LobbyName(mux.Vars(r)["name"])

	lobby, err := h.storage.GetLobby(r.Context(), name)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LobbyFromModel(lobby))
}
