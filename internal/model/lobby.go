package model

import "time"

// LobbyName is the unique, player-chosen identifier for joining lobbies
type LobbyName string

// LobbyState represents a lobby's capacity flag
type LobbyState string

const (
	LobbyStateOpen LobbyState = "open" // awaiting a second player
	LobbyStateFull LobbyState = "full" // paired, match running
)

// Lobby is a named, password-protected matchmaking slot created by one
// player awaiting a second. It transitions open -> full exactly once and
// is destroyed when its match concludes or is abandoned.
type Lobby struct {
	Name         LobbyName
	PasswordHash string // bcrypt hash
	OwnerID      PlayerID
	State        LobbyState
	CreatedAt    time.Time
}
