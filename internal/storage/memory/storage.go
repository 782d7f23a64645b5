package memory

import (
	"context"
	"sync"

	"github.com/mcoot/tictacgame-go/internal/model"
	"github.com/mcoot/tictacgame-go/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	players       map[model.PlayerID]*model.Player
	credentials   map[model.PlayerID]*model.PlayerCredentials
	usernameIndex map[string]model.PlayerID
	sessions      map[model.PlayerID]*model.Session
	lobbies       map[model.LobbyName]*model.Lobby
	matchResults  []*model.MatchResult
	stats         map[model.PlayerID]*model.PlayerStats
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:       make(map[model.PlayerID]*model.Player),
		credentials:   make(map[model.PlayerID]*model.PlayerCredentials),
		usernameIndex: make(map[string]model.PlayerID),
		sessions:      make(map[model.PlayerID]*model.Session),
		lobbies:       make(map[model.LobbyName]*model.Lobby),
		stats:         make(map[model.PlayerID]*model.PlayerStats),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[player.ID] = player
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return player, nil
}

// Credential operations

func (s *Storage) SaveCredentials(ctx context.Context, creds *model.PlayerCredentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credentials[creds.PlayerID] = creds
	s.usernameIndex[creds.Username] = creds.PlayerID
	return nil
}

func (s *Storage) GetCredentialsByUsername(ctx context.Context, username string) (*model.PlayerCredentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	playerID, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	creds, ok := s.credentials[playerID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return creds, nil
}

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.PlayerID] = session
	return nil
}

func (s *Storage) DeleteSession(ctx context.Context, playerID model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, playerID)
	return nil
}

// Lobby operations

func (s *Storage) SaveLobby(ctx context.Context, lobby *model.Lobby) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lobbies[lobby.Name] = lobby
	return nil
}

func (s *Storage) GetLobby(ctx context.Context, name model.LobbyName) (*model.Lobby, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lobby, ok := s.lobbies[name]
	if !ok {
		return nil, model.ErrLobbyNotFound
	}
	return lobby, nil
}

func (s *Storage) DeleteLobby(ctx context.Context, name model.LobbyName) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lobbies, name)
	return nil
}

// Match result operations

func (s *Storage) SaveMatchResult(ctx context.Context, result *model.MatchResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matchResults = append(s.matchResults, result)
	return nil
}

// Statistics operations

func (s *Storage) GetStats(ctx context.Context, playerID model.PlayerID) (*model.PlayerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats, ok := s.stats[playerID]
	if !ok {
		return nil, model.ErrStatsNotFound
	}
	return stats, nil
}

func (s *Storage) UpdateStats(ctx context.Context, playerID model.PlayerID, outcome model.Outcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats, ok := s.stats[playerID]
	if !ok {
		stats = &model.PlayerStats{PlayerID: playerID}
		s.stats[playerID] = stats
	}
	stats.GamesPlayed++
	switch outcome {
	case model.OutcomeWin:
		stats.Wins++
	case model.OutcomeLoss:
		stats.Losses++
	case model.OutcomeDraw:
		stats.Draws++
	}
	return nil
}
