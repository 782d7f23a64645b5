package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/tictacgame-go/internal/api/handler"
	apimiddleware "github.com/mcoot/tictacgame-go/internal/api/middleware"
	"github.com/mcoot/tictacgame-go/internal/middleware"
	"github.com/mcoot/tictacgame-go/internal/storage"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger  *slog.Logger
	Storage storage.Storage
}

// NewRouter creates a new API router with all routes configured. The API
// is a read-only observation surface; all gameplay happens over the TCP
// protocol.
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.Storage)
	lobbyHandler := handler.NewLobbyHandler(cfg.Storage)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(apimiddleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))

	// Player routes
	api.HandleFunc("/players/{username}", playerHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/players/{username}/stats", playerHandler.GetStats).Methods(http.MethodGet)

	// Lobby routes
	api.HandleFunc("/lobbies/{name}", lobbyHandler.Get).Methods(http.MethodGet)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
