package stats

import (
	"context"
	"log/slog"

	"github.com/mcoot/tictacgame-go/internal/dependencies/clock"
	"github.com/mcoot/tictacgame-go/internal/model"
	"github.com/mcoot/tictacgame-go/internal/storage"
)

// Service records match outcomes and per-player statistics through the
// persistence gateway. Every persistence failure here is logged and
// swallowed: an active match must not crash or desynchronize because
// storage is temporarily unavailable, though outcome history may be lost.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new stats service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger,
	}
}

// RecordOutcome persists one completed round: the match row plus a
// statistics update for both players. A nil winner means a draw.
// Called exactly once per completed round.
func (s *Service) RecordOutcome(ctx context.Context, player1, player2 model.PlayerID, winner *model.PlayerID) {
	result := &model.MatchResult{
		Player1:    player1,
		Player2:    player2,
		Winner:     winner,
		FinishedAt: s.clock.Now(),
	}
	if err := s.storage.SaveMatchResult(ctx, result); err != nil {
		s.logger.Error("failed to record match result",
			slog.String("player1", string(player1)),
			slog.String("player2", string(player2)),
			slog.String("error", err.Error()),
		)
	}

	if winner == nil {
		s.updateStats(ctx, player1, model.OutcomeDraw)
		s.updateStats(ctx, player2, model.OutcomeDraw)
		return
	}

	loser := player1
	if *winner == player1 {
		loser = player2
	}
	s.updateStats(ctx, *winner, model.OutcomeWin)
	s.updateStats(ctx, loser, model.OutcomeLoss)
}

func (s *Service) updateStats(ctx context.Context, playerID model.PlayerID, outcome model.Outcome) {
	if err := s.storage.UpdateStats(ctx, playerID, outcome); err != nil {
		s.logger.Error("failed to update player statistics",
			slog.String("player_id", string(playerID)),
			slog.String("outcome", string(outcome)),
			slog.String("error", err.Error()),
		)
	}
}
