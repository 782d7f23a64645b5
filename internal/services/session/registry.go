package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mcoot/tictacgame-go/internal/dependencies/clock"
	"github.com/mcoot/tictacgame-go/internal/model"
	"github.com/mcoot/tictacgame-go/internal/storage"
	"github.com/mcoot/tictacgame-go/internal/wire"
)

// Registry maps authenticated players to their live connections. It is
// shared by every connection handler: written on authentication and
// session end, read when delivering cross-connection notifications.
//
// The live connection map is authoritative; session records in storage
// are a mirror and their failures are logged and swallowed.
type Registry struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger

	mu    sync.RWMutex
	conns map[model.PlayerID]*wire.Conn
}

// NewRegistry creates a new session registry
func NewRegistry(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Registry {
	return &Registry{
		storage: storage,
		clock:   clock,
		logger:  logger,
		conns:   make(map[model.PlayerID]*wire.Conn),
	}
}

// Bind creates a session for the player on the given connection. A
// player who authenticates on a second connection replaces the first
// binding (last login wins); the superseded handler's eventual Unbind
// then clears whichever binding is current, so concurrent logins by one
// account are tolerated but not kept apart.
func (r *Registry) Bind(ctx context.Context, playerID model.PlayerID, conn *wire.Conn) {
	r.mu.Lock()
	r.conns[playerID] = conn
	r.mu.Unlock()

	record := &model.Session{
		PlayerID:   playerID,
		RemoteAddr: conn.RemoteAddr(),
		CreatedAt:  r.clock.Now(),
	}
	if err := r.storage.SaveSession(ctx, record); err != nil {
		r.logger.Warn("failed to persist session record",
			slog.String("player_id", string(playerID)),
			slog.String("error", err.Error()),
		)
	}
}

// Lookup returns the live connection for a player
func (r *Registry) Lookup(playerID model.PlayerID) (*wire.Conn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.conns[playerID]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return conn, nil
}

// Unbind removes the player's session. Safe to call for a player that is
// already unbound; teardown paths from both match participants may race.
func (r *Registry) Unbind(ctx context.Context, playerID model.PlayerID) {
	r.mu.Lock()
	delete(r.conns, playerID)
	r.mu.Unlock()

	if err := r.storage.DeleteSession(ctx, playerID); err != nil {
		r.logger.Warn("failed to delete session record",
			slog.String("player_id", string(playerID)),
			slog.String("error", err.Error()),
		)
	}
}
