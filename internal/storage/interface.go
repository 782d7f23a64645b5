package storage

import (
	"context"

	"github.com/mcoot/tictacgame-go/internal/model"
)

// Storage defines the persistence gateway for players, sessions, lobbies,
// match results, and statistics. Callers treat failures as non-fatal to
// in-memory game state; see services/stats.
type Storage interface {
	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)

	// Credential operations
	SaveCredentials(ctx context.Context, creds *model.PlayerCredentials) error
	GetCredentialsByUsername(ctx context.Context, username string) (*model.PlayerCredentials, error)

	// Session operations
	SaveSession(ctx context.Context, session *model.Session) error
	DeleteSession(ctx context.Context, playerID model.PlayerID) error

	// Lobby operations
	SaveLobby(ctx context.Context, lobby *model.Lobby) error
	GetLobby(ctx context.Context, name model.LobbyName) (*model.Lobby, error)
	DeleteLobby(ctx context.Context, name model.LobbyName) error

	// Match result operations
	SaveMatchResult(ctx context.Context, result *model.MatchResult) error

	// Statistics operations
	GetStats(ctx context.Context, playerID model.PlayerID) (*model.PlayerStats, error)
	UpdateStats(ctx context.Context, playerID model.PlayerID, outcome model.Outcome) error
}
