package model

import "time"

// PlayerID uniquely identifies a player across the system
type PlayerID string

// Player represents a game participant
type Player struct {
	ID        PlayerID
	Username  string
	CreatedAt time.Time
}

// PlayerCredentials holds a player's authentication data.
// Stored separately from Player so password hashes never travel with
// gameplay state.
type PlayerCredentials struct {
	PlayerID     PlayerID
	Username     string // login username (immutable)
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
}

// Session is the ephemeral binding of a player to a live connection.
// It exists from successful authentication until disconnect or explicit
// lobby-menu exit.
type Session struct {
	PlayerID   PlayerID
	RemoteAddr string
	CreatedAt  time.Time
}
