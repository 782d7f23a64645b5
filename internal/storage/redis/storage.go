package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/tictacgame-go/internal/model"
	"github.com/mcoot/tictacgame-go/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, playerKey(player.ID), data, 0).Err()
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	data, err := s.client.Get(ctx, playerKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

// Credential operations

func (s *Storage) SaveCredentials(ctx context.Context, creds *model.PlayerCredentials) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, credentialsKey(creds.PlayerID), data, 0)
	pipe.Set(ctx, usernameIndexKey(creds.Username), string(creds.PlayerID), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetCredentialsByUsername(ctx context.Context, username string) (*model.PlayerCredentials, error) {
	playerIDStr, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	data, err := s.client.Get(ctx, credentialsKey(model.PlayerID(playerIDStr))).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var creds model.PlayerCredentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKey(session.PlayerID), data, s.cfg.SessionTTL).Err()
}

func (s *Storage) DeleteSession(ctx context.Context, playerID model.PlayerID) error {
	return s.client.Del(ctx, sessionKey(playerID)).Err()
}

// Lobby operations

func (s *Storage) SaveLobby(ctx context.Context, lobby *model.Lobby) error {
	data, err := json.Marshal(lobby)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, lobbyKey(lobby.Name), data, s.cfg.LobbyTTL).Err()
}

func (s *Storage) GetLobby(ctx context.Context, name model.LobbyName) (*model.Lobby, error) {
	data, err := s.client.Get(ctx, lobbyKey(name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrLobbyNotFound
		}
		return nil, err
	}

	var lobby model.Lobby
	if err := json.Unmarshal(data, &lobby); err != nil {
		return nil, err
	}
	return &lobby, nil
}

func (s *Storage) DeleteLobby(ctx context.Context, name model.LobbyName) error {
	return s.client.Del(ctx, lobbyKey(name)).Err()
}

// Match result operations

func (s *Storage) SaveMatchResult(ctx context.Context, result *model.MatchResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return s.client.RPush(ctx, matchResultsKey(), data).Err()
}

// Statistics operations

func (s *Storage) GetStats(ctx context.Context, playerID model.PlayerID) (*model.PlayerStats, error) {
	fields, err := s.client.HGetAll(ctx, statsKey(playerID)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, model.ErrStatsNotFound
	}

	stats := &model.PlayerStats{PlayerID: playerID}
	stats.GamesPlayed = hashInt(fields, "games_played")
	stats.Wins = hashInt(fields, "wins")
	stats.Losses = hashInt(fields, "losses")
	stats.Draws = hashInt(fields, "draws")
	return stats, nil
}

func (s *Storage) UpdateStats(ctx context.Context, playerID model.PlayerID, outcome model.Outcome) error {
	key := statsKey(playerID)

	pipe := s.client.Pipeline()
	pipe.HIncrBy(ctx, key, "games_played", 1)
	switch outcome {
	case model.OutcomeWin:
		pipe.HIncrBy(ctx, key, "wins", 1)
	case model.OutcomeLoss:
		pipe.HIncrBy(ctx, key, "losses", 1)
	case model.OutcomeDraw:
		pipe.HIncrBy(ctx, key, "draws", 1)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// hashInt parses an integer field from an HGETALL result, defaulting to 0
func hashInt(fields map[string]string, name string) int {
	v, err := strconv.Atoi(fields[name])
	if err != nil {
		return 0
	}
	return v
}
