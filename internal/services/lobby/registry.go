package lobby

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/tictacgame-go/internal/dependencies/clock"
	"github.com/mcoot/tictacgame-go/internal/model"
	"github.com/mcoot/tictacgame-go/internal/services/match"
	"github.com/mcoot/tictacgame-go/internal/storage"
	"github.com/mcoot/tictacgame-go/internal/wire"
)

// Registry is the shared matchmaking directory of lobbies awaiting a
// second player. Every connection handler goes through it; create, join,
// and remove are serialized per registry so at most one joiner can ever
// pair with a lobby. The in-memory table is authoritative; lobby records
// in storage are a mirror and their failures are logged and swallowed.
type Registry struct {
	storage  storage.Storage
	clock    clock.Clock
	sessions match.SessionRemover
	recorder match.OutcomeRecorder
	logger   *slog.Logger

	mu      sync.Mutex
	lobbies map[model.LobbyName]*pendingLobby
}

// pendingLobby tracks a lobby between creation and match teardown
type pendingLobby struct {
	lobby     *model.Lobby
	owner     model.Player
	ownerConn *wire.Conn
	ready     chan *match.Engine
}

// NewRegistry creates a new lobby registry
func NewRegistry(
	storage storage.Storage,
	clock clock.Clock,
	sessions match.SessionRemover,
	recorder match.OutcomeRecorder,
	logger *slog.Logger,
) *Registry {
	return &Registry{
		storage:  storage,
		clock:    clock,
		sessions: sessions,
		recorder: recorder,
		logger:   logger,
		lobbies:  make(map[model.LobbyName]*pendingLobby),
	}
}

// Ensure Registry can tear down its own lobbies
var _ match.LobbyRemover = (*Registry)(nil)

// Create registers a new open lobby owned by the given player. The
// returned channel delivers the match engine once a second player joins;
// the owner's handler blocks on it rather than polling. Fails with
// ErrLobbyNameTaken while a lobby of that name exists.
func (r *Registry) Create(
	ctx context.Context,
	name model.LobbyName,
	password string,
	owner model.Player,
	ownerConn *wire.Conn,
) (<-chan *match.Engine, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	lobby := &model.Lobby{
		Name:         name,
		PasswordHash: string(hash),
		OwnerID:      owner.ID,
		State:        model.LobbyStateOpen,
		CreatedAt:    r.clock.Now(),
	}

	pending := &pendingLobby{
		lobby:     lobby,
		owner:     owner,
		ownerConn: ownerConn,
		ready:     make(chan *match.Engine, 1),
	}

	r.mu.Lock()
	if _, exists := r.lobbies[name]; exists {
		r.mu.Unlock()
		return nil, model.ErrLobbyNameTaken
	}
	r.lobbies[name] = pending
	r.mu.Unlock()

	if err := r.storage.SaveLobby(ctx, lobby); err != nil {
		r.logger.Warn("failed to persist lobby record",
			slog.String("lobby", string(name)),
			slog.String("error", err.Error()),
		)
	}

	r.logger.Info("lobby created",
		slog.String("lobby", string(name)),
		slog.String("owner", string(owner.ID)),
	)

	return pending.ready, nil
}

// Join pairs the joiner with an open lobby. A lobby that does not exist
// or whose password does not match is reported as not found; the joiner
// cannot probe for lobby names. The open -> full transition is atomic
// with respect to concurrent joins: exactly one joiner gets the match,
// any other observes ErrLobbyFull. On success the owner's waiting handler
// is unblocked with the new match engine; the owner plays X, the joiner O.
func (r *Registry) Join(
	ctx context.Context,
	name model.LobbyName,
	password string,
	joiner model.Player,
	joinerConn *wire.Conn,
) (*match.Engine, error) {
	r.mu.Lock()
	pending, ok := r.lobbies[name]
	r.mu.Unlock()
	if !ok {
		return nil, model.ErrLobbyNotFound
	}

	// Compare outside the registry lock; bcrypt is deliberately slow
	if err := bcrypt.CompareHashAndPassword([]byte(pending.lobby.PasswordHash), []byte(password)); err != nil {
		return nil, model.ErrLobbyNotFound
	}

	r.mu.Lock()
	pending, ok = r.lobbies[name]
	if !ok {
		r.mu.Unlock()
		return nil, model.ErrLobbyNotFound
	}
	if pending.lobby.State == model.LobbyStateFull {
		r.mu.Unlock()
		return nil, model.ErrLobbyFull
	}
	pending.lobby.State = model.LobbyStateFull

	engine := match.New(match.Config{
		LobbyName: name,
		Players:   [2]model.Player{pending.owner, joiner},
		Conns:     [2]*wire.Conn{pending.ownerConn, joinerConn},
		Recorder:  r.recorder,
		Sessions:  r.sessions,
		Lobbies:   r,
		Logger:    r.logger,
	})
	r.mu.Unlock()

	if err := r.storage.SaveLobby(ctx, pending.lobby); err != nil {
		r.logger.Warn("failed to persist lobby transition",
			slog.String("lobby", string(name)),
			slog.String("error", err.Error()),
		)
	}

	r.logger.Info("lobby paired",
		slog.String("lobby", string(name)),
		slog.String("joiner", string(joiner.ID)),
	)

	pending.ready <- engine
	return engine, nil
}

// Cancel withdraws an open lobby whose owner stopped waiting, typically
// because the server is shutting down. Returns false when the lobby has
// already been paired (or torn down), in which case the match engine has
// already been committed to the owner's ready channel and the owner must
// collect it there instead.
func (r *Registry) Cancel(ctx context.Context, name model.LobbyName, owner model.PlayerID) bool {
	r.mu.Lock()
	pending, ok := r.lobbies[name]
	if !ok || pending.lobby.OwnerID != owner || pending.lobby.State != model.LobbyStateOpen {
		r.mu.Unlock()
		return false
	}
	delete(r.lobbies, name)
	r.mu.Unlock()

	if err := r.storage.DeleteLobby(ctx, name); err != nil {
		r.logger.Warn("failed to delete cancelled lobby record",
			slog.String("lobby", string(name)),
			slog.String("error", err.Error()),
		)
	}

	r.logger.Info("lobby cancelled",
		slog.String("lobby", string(name)),
		slog.String("owner", string(owner)),
	)
	return true
}

// Remove deletes a lobby and its backing record once the resulting match
// has terminated. Idempotent.
func (r *Registry) Remove(ctx context.Context, name model.LobbyName) {
	r.mu.Lock()
	delete(r.lobbies, name)
	r.mu.Unlock()

	if err := r.storage.DeleteLobby(ctx, name); err != nil {
		r.logger.Warn("failed to delete lobby record",
			slog.String("lobby", string(name)),
			slog.String("error", err.Error()),
		)
	}
}
