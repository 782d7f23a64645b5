package auth

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/tictacgame-go/internal/dependencies/clock"
	"github.com/mcoot/tictacgame-go/internal/dependencies/random"
	"github.com/mcoot/tictacgame-go/internal/model"
	"github.com/mcoot/tictacgame-go/internal/storage"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameExists     = errors.New("username already exists")
)

// PlayerIDAlphabet is the character set for generated player IDs
const PlayerIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Service handles player registration and login
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// New creates a new AuthService
func New(storage storage.Storage, clock clock.Clock, random random.Random, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		random:  random,
		logger:  logger,
	}
}

// Register creates a new player account. Fails with ErrUsernameExists if
// the username is already taken.
func (s *Service) Register(ctx context.Context, username, password string) (*model.Player, error) {
	_, err := s.storage.GetCredentialsByUsername(ctx, username)
	if err == nil {
		return nil, ErrUsernameExists
	}
	if !errors.Is(err, model.ErrPlayerNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	player := &model.Player{
		ID:        model.PlayerID("p_" + s.random.String(16, PlayerIDAlphabet)),
		Username:  username,
		CreatedAt: now,
	}

	creds := &model.PlayerCredentials{
		PlayerID:     player.ID,
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    now,
	}

	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return nil, err
	}
	if err := s.storage.SaveCredentials(ctx, creds); err != nil {
		return nil, err
	}

	s.logger.Info("player registered",
		slog.String("player_id", string(player.ID)),
		slog.String("username", username),
	)

	return player, nil
}

// Login authenticates an existing player. Fails with ErrInvalidCredentials
// for an unknown username or a password hash mismatch; the caller cannot
// distinguish the two.
func (s *Service) Login(ctx context.Context, username, password string) (*model.Player, error) {
	creds, err := s.storage.GetCredentialsByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	player, err := s.storage.GetPlayer(ctx, creds.PlayerID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("player logged in", slog.String("player_id", string(player.ID)))

	return player, nil
}
