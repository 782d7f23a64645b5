package model

import "time"

// Outcome is a single player's result for one completed round
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
	OutcomeDraw Outcome = "draw"
)

// MatchResult records one completed round between two players.
// A nil Winner means the round was a draw.
type MatchResult struct {
	Player1    PlayerID
	Player2    PlayerID
	Winner     *PlayerID
	FinishedAt time.Time
}

// PlayerStats is a player's accumulated match statistics
type PlayerStats struct {
	PlayerID    PlayerID
	GamesPlayed int
	Wins        int
	Losses      int
	Draws       int
}
