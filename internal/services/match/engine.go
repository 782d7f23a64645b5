package match

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"

	"github.com/mcoot/tictacgame-go/internal/model"
	"github.com/mcoot/tictacgame-go/internal/wire"
)

// Errors
var (
	ErrInvalidInput = errors.New("input is not a number")
	ErrMatchAborted = errors.New("match aborted by disconnect")
)

// State represents the current phase of a match
type State string

const (
	StatePlaying  State = "playing"  // a round is in progress
	StateVoting   State = "voting"   // round finished, awaiting rematch votes
	StateFinished State = "finished" // rematch declined, match over
	StateAborted  State = "aborted"  // a participant disconnected
)

// Phase is what AwaitTurn resolved to for the calling player
type Phase int

const (
	// PhaseMyTurn means it is the caller's turn to move
	PhaseMyTurn Phase = iota
	// PhaseRoundOver means the round reached win or draw; vote next
	PhaseRoundOver
)

// OutcomeRecorder records one completed round; failures must be non-fatal
type OutcomeRecorder interface {
	RecordOutcome(ctx context.Context, player1, player2 model.PlayerID, winner *model.PlayerID)
}

// SessionRemover tears down a player's session on match end
type SessionRemover interface {
	Unbind(ctx context.Context, playerID model.PlayerID)
}

// LobbyRemover deletes the originating lobby on match end
type LobbyRemover interface {
	Remove(ctx context.Context, name model.LobbyName)
}

// MoveResult describes the effect of a legal move
type MoveResult struct {
	Board  model.Board // snapshot after the move
	Symbol model.Symbol
	Win    bool
	Draw   bool
	Winner model.Player // set when Win
}

// Engine owns one board and the turn state for exactly one pair of
// players. Both connection handlers drive it concurrently: each blocks in
// AwaitTurn until its own turn, reads its own socket, and submits through
// SubmitMove. All state transitions happen under one per-match mutex, so
// an out-of-turn or racing submission can never interleave with a legal
// move's apply-and-evaluate sequence. Unrelated matches share nothing.
type Engine struct {
	lobbyName model.LobbyName

	recorder OutcomeRecorder
	sessions SessionRemover
	lobbies  LobbyRemover
	logger   *slog.Logger

	mu   sync.Mutex
	cond *sync.Cond

	players   [2]model.Player
	conns     [2]*wire.Conn
	xIdx      int // index of the participant playing X this round
	turn      model.Symbol
	board     model.Board
	state     State
	round     int
	votes     [2]*bool
	lastRound MoveResult

	teardownOnce sync.Once
}

// Config wires a new match engine
type Config struct {
	LobbyName model.LobbyName
	// Players[0] is the lobby owner and plays X in the first round
	Players  [2]model.Player
	Conns    [2]*wire.Conn
	Recorder OutcomeRecorder
	Sessions SessionRemover
	Lobbies  LobbyRemover
	Logger   *slog.Logger
}

// New creates a match engine in Setup state: empty board, owner to move as X
func New(cfg Config) *Engine {
	e := &Engine{
		lobbyName: cfg.LobbyName,
		players:   cfg.Players,
		conns:     cfg.Conns,
		recorder:  cfg.Recorder,
		sessions:  cfg.Sessions,
		lobbies:   cfg.Lobbies,
		logger:    cfg.Logger,
		xIdx:      0,
		turn:      model.SymbolX,
		state:     StatePlaying,
	}
	e.cond = sync.NewCond(&e.mu)
	return e
}

// LobbyName returns the name of the originating lobby
func (e *Engine) LobbyName() model.LobbyName {
	return e.lobbyName
}

// Board returns a snapshot of the current board
func (e *Engine) Board() model.Board {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.board
}

// Role returns the symbol the player holds in the current round
func (e *Engine) Role(playerID model.PlayerID) model.Symbol {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.roleLocked(playerID)
}

func (e *Engine) roleLocked(playerID model.PlayerID) model.Symbol {
	if e.players[e.xIdx].ID == playerID {
		return model.SymbolX
	}
	return model.SymbolO
}

func (e *Engine) slot(playerID model.PlayerID) int {
	if e.players[0].ID == playerID {
		return 0
	}
	return 1
}

// Peer returns the opposing player and their connection
func (e *Engine) Peer(playerID model.PlayerID) (model.Player, *wire.Conn) {
	i := 1 - e.slot(playerID)
	return e.players[i], e.conns[i]
}

// RoundResult returns the terminal result of the most recently finished
// round. Handlers woken with PhaseRoundOver use it to report the outcome
// on their own connection; each handler writes only to its own socket, so
// output ordering per client is deterministic.
func (e *Engine) RoundResult() MoveResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastRound
}

// AwaitTurn blocks until it is the player's turn to move, the round has
// reached a terminal state, or the match is aborted. This is a true
// blocking wait on the match condition variable, never a spin.
func (e *Engine) AwaitTurn(playerID model.PlayerID) (Phase, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for {
		switch {
		case e.state == StateAborted:
			return 0, ErrMatchAborted
		case e.state == StateFinished:
			return 0, model.ErrMatchOver
		case e.state == StateVoting:
			return PhaseRoundOver, nil
		case e.roleLocked(playerID) == e.turn:
			return PhaseMyTurn, nil
		}
		e.cond.Wait()
	}
}

// SubmitMove validates and applies one move from the player's raw input
// line. Non-numeric input fails with ErrInvalidInput; out-of-range or
// occupied cells fail with the board's errors; submissions from the
// non-current player fail with ErrNotPlayerTurn. All failures leave the
// board and turn unchanged. A terminal move records the outcome exactly
// once and moves the match to the voting state.
func (e *Engine) SubmitMove(ctx context.Context, playerID model.PlayerID, input string) (MoveResult, error) {
	pos, err := strconv.Atoi(input)
	if err != nil {
		return MoveResult{}, ErrInvalidInput
	}

	e.mu.Lock()
	switch e.state {
	case StateAborted:
		e.mu.Unlock()
		return MoveResult{}, ErrMatchAborted
	case StateFinished, StateVoting:
		e.mu.Unlock()
		return MoveResult{}, model.ErrMatchOver
	}

	sym := e.roleLocked(playerID)
	if sym != e.turn {
		e.mu.Unlock()
		return MoveResult{}, model.ErrNotPlayerTurn
	}

	if err := e.board.Apply(pos, sym); err != nil {
		e.mu.Unlock()
		return MoveResult{}, err
	}

	result := MoveResult{Symbol: sym}

	switch {
	case e.board.HasWin(sym):
		result.Win = true
		result.Winner = e.players[e.slot(playerID)]
		e.state = StateVoting
	case e.board.IsFull():
		result.Draw = true
		e.state = StateVoting
	default:
		e.turn = sym.Other()
	}
	result.Board = e.board
	if result.Win || result.Draw {
		e.lastRound = result
	}

	e.cond.Broadcast()
	e.mu.Unlock()

	// Record outside the lock; only the terminal mover reaches here
	if result.Win {
		winnerID := result.Winner.ID
		e.recorder.RecordOutcome(ctx, e.players[0].ID, e.players[1].ID, &winnerID)
		e.logger.Info("round won",
			slog.String("lobby", string(e.lobbyName)),
			slog.String("winner", string(winnerID)),
		)
	} else if result.Draw {
		e.recorder.RecordOutcome(ctx, e.players[0].ID, e.players[1].ID, nil)
		e.logger.Info("round drawn", slog.String("lobby", string(e.lobbyName)))
	}

	return result, nil
}

// VoteRematch registers the player's vote and blocks until the vote
// resolves. Returns true when both players voted yes: the board is reset
// and the previous 'O' player starts the new round as 'X'. Returns false
// when either player voted no. Fails with ErrMatchAborted if the peer
// disconnected while the vote was pending.
func (e *Engine) VoteRematch(playerID model.PlayerID, again bool) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state {
	case StateAborted:
		return false, ErrMatchAborted
	case StateFinished:
		return false, nil
	case StatePlaying:
		return false, model.ErrNotPlayerTurn
	}

	if !again {
		// One no is decisive; the peer's pending vote no longer matters
		e.state = StateFinished
		e.cond.Broadcast()
		return false, nil
	}

	e.votes[e.slot(playerID)] = &again

	if other := e.votes[1-e.slot(playerID)]; other != nil && *other {
		// Both yes: swap roles relative to the previous round and restart
		e.xIdx = 1 - e.xIdx
		e.board.Reset()
		e.votes = [2]*bool{}
		e.turn = model.SymbolX
		e.round++
		e.state = StatePlaying
		e.cond.Broadcast()
		return true, nil
	}

	// Wait for the peer's vote to resolve the match one way or the other
	current := e.round
	for {
		e.cond.Wait()
		switch {
		case e.state == StateAborted:
			return false, ErrMatchAborted
		case e.state == StateFinished:
			return false, nil
		case e.round > current:
			return true, nil
		}
	}
}

// Abort marks the match as dead after a disconnect and wakes any blocked
// participant. Idempotent; it does not record an outcome for the
// interrupted round.
func (e *Engine) Abort() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateAborted || e.state == StateFinished {
		return
	}
	e.state = StateAborted
	e.cond.Broadcast()
}

// Teardown releases everything the match holds: both sessions, the
// originating lobby, and both connections. Runs at most once no matter
// which participant's handler gets here first, and regardless of which
// phase the match was in.
func (e *Engine) Teardown(ctx context.Context) {
	e.teardownOnce.Do(func() {
		for i := range e.players {
			e.sessions.Unbind(ctx, e.players[i].ID)
		}
		e.lobbies.Remove(ctx, e.lobbyName)
		for _, c := range e.conns {
			_ = c.Close()
		}
		e.logger.Info("match torn down", slog.String("lobby", string(e.lobbyName)))
	})
}
