package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")

	// Lobby errors
	ErrLobbyNotFound  = errors.New("lobby not found")
	ErrLobbyNameTaken = errors.New("lobby name already taken")
	ErrLobbyFull      = errors.New("lobby is full")

	// Match errors
	ErrNotPlayerTurn   = errors.New("not this player's turn")
	ErrInvalidPosition = errors.New("position out of range")
	ErrCellOccupied    = errors.New("cell is already occupied")
	ErrMatchOver       = errors.New("match is already over")

	// Statistics errors
	ErrStatsNotFound = errors.New("statistics not found")
)
