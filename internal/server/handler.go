package server

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/mcoot/tictacgame-go/internal/model"
	"github.com/mcoot/tictacgame-go/internal/services/auth"
	"github.com/mcoot/tictacgame-go/internal/services/lobby"
	"github.com/mcoot/tictacgame-go/internal/services/match"
	"github.com/mcoot/tictacgame-go/internal/services/session"
	"github.com/mcoot/tictacgame-go/internal/wire"
)

// field validation errors, recovered locally by re-prompting
var (
	errWrongFieldCount = errors.New("input must contain exactly one space")
	errEmptyField      = errors.New("both fields are required")
)

// Handler drives the protocol state machine for one accepted connection:
// authentication, lobby selection, then delegation into a match engine.
// One handler runs per connection, concurrently with all others; the
// only shared state it touches goes through the session and lobby
// registries and the per-match engine.
type Handler struct {
	conn     *wire.Conn
	auth     *auth.Service
	sessions *session.Registry
	lobbies  *lobby.Registry
	logger   *slog.Logger
}

// NewHandler creates a handler for one connection
func NewHandler(
	conn *wire.Conn,
	auth *auth.Service,
	sessions *session.Registry,
	lobbies *lobby.Registry,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		conn:     conn,
		auth:     auth,
		sessions: sessions,
		lobbies:  lobbies,
		logger:   logger,
	}
}

// Run executes the connection's full lifecycle. It returns when the
// connection terminates for any reason; all cleanup has happened by then.
func (h *Handler) Run(ctx context.Context) {
	defer func() { _ = h.conn.Close() }()

	player, err := h.authenticate(ctx)
	if err != nil {
		// Receive failure before authentication; nothing to clean up
		return
	}

	h.sessions.Bind(ctx, player.ID, h.conn)
	h.lobbyMenu(ctx, player)
}

// authenticate loops the auth menu until the client registers or logs in
// successfully. Only a receive failure exits with an error.
func (h *Handler) authenticate(ctx context.Context) (model.Player, error) {
	for {
		if err := h.conn.Send(MsgAuthMenu); err != nil {
			return model.Player{}, err
		}
		choice, err := h.conn.ReadLine()
		if err != nil {
			return model.Player{}, err
		}

		switch choice {
		case "1":
			return h.credentialLoop(ctx, h.register, registerFailureMsg)
		case "2":
			return h.credentialLoop(ctx, h.login, loginFailureMsg)
		default:
			if err := h.conn.Send(MsgBadAuthKey); err != nil {
				return model.Player{}, err
			}
		}
	}
}

// credentialLoop prompts for "username password" until attempt succeeds;
// failMsg translates an attempt's failure into the client-facing message
func (h *Handler) credentialLoop(
	ctx context.Context,
	attempt func(ctx context.Context, username, password string) (model.Player, error),
	failMsg func(error) string,
) (model.Player, error) {
	for {
		if err := h.conn.Send(MsgAccountPrompt); err != nil {
			return model.Player{}, err
		}
		line, err := h.conn.ReadLine()
		if err != nil {
			return model.Player{}, err
		}

		username, password, ferr := splitFields(line)
		if ferr != nil {
			if err := h.conn.Send(fieldErrorMessage(ferr)); err != nil {
				return model.Player{}, err
			}
			continue
		}

		player, aerr := attempt(ctx, username, password)
		if aerr != nil {
			if err := h.conn.Send(failMsg(aerr)); err != nil {
				return model.Player{}, err
			}
			continue
		}
		return player, nil
	}
}

// registerFailureMsg distinguishes a taken username from a backend
// failure so a storage outage is not reported as bad credentials
func registerFailureMsg(err error) string {
	if errors.Is(err, auth.ErrUsernameExists) {
		return MsgRegisterFailed
	}
	return MsgRegisterError
}

func loginFailureMsg(error) string {
	return MsgLoginFailed
}

func (h *Handler) register(ctx context.Context, username, password string) (model.Player, error) {
	player, err := h.auth.Register(ctx, username, password)
	if err != nil {
		return model.Player{}, err
	}
	return *player, nil
}

func (h *Handler) login(ctx context.Context, username, password string) (model.Player, error) {
	player, err := h.auth.Login(ctx, username, password)
	if err != nil {
		return model.Player{}, err
	}
	return *player, nil
}

// lobbyMenu loops the lobby menu until the player exits, a match runs to
// completion, or the connection drops. The session is always unbound by
// the time it returns.
func (h *Handler) lobbyMenu(ctx context.Context, player model.Player) {
	for {
		if err := h.conn.Send(MsgLobbyMenu); err != nil {
			h.sessions.Unbind(ctx, player.ID)
			return
		}
		choice, err := h.conn.ReadLine()
		if err != nil {
			h.sessions.Unbind(ctx, player.ID)
			return
		}

		switch choice {
		case "1":
			done, err := h.createAndWait(ctx, player)
			if err != nil {
				h.sessions.Unbind(ctx, player.ID)
				return
			}
			if done {
				// Match finished; the engine already tore the session down
				return
			}
		case "2":
			done, err := h.join(ctx, player)
			if err != nil {
				h.sessions.Unbind(ctx, player.ID)
				return
			}
			if done {
				return
			}
		case "3":
			h.sessions.Unbind(ctx, player.ID)
			return
		default:
			if err := h.conn.Send(MsgBadLobbyKey); err != nil {
				h.sessions.Unbind(ctx, player.ID)
				return
			}
		}
	}
}

// createAndWait creates a lobby and blocks until a second player pairs
// with it, then plays the match. Returns done=false to re-show the lobby
// menu after a recoverable failure.
func (h *Handler) createAndWait(ctx context.Context, player model.Player) (done bool, err error) {
	name, password, ok, err := h.lobbyDetails()
	if err != nil || !ok {
		return false, err
	}

	ready, cerr := h.lobbies.Create(ctx, name, password, player, h.conn)
	if cerr != nil {
		if errors.Is(cerr, model.ErrLobbyNameTaken) {
			return false, h.conn.Send(MsgCreateFailed)
		}
		return false, cerr
	}

	if err := h.conn.Send(MsgAwaitingPartner); err != nil {
		// The lobby stays registered; the dead socket surfaces once a
		// joiner arrives and the match's first exchange fails
		h.logger.Warn("owner send failed while awaiting partner",
			slog.String("player_id", string(player.ID)),
		)
	}

	// True blocking wait; resolved by the joining handler at pairing
	// time, or abandoned when the server shuts down
	select {
	case engine := <-ready:
		h.runMatch(ctx, player, engine)
		return true, nil
	case <-ctx.Done():
		if !h.lobbies.Cancel(ctx, name, player.ID) {
			// A joiner committed the pairing first; the engine is
			// already on its way, so take it and end the match
			engine := <-ready
			engine.Abort()
			engine.Teardown(ctx)
		}
		return false, ctx.Err()
	}
}

// join pairs with an existing lobby and plays the match
func (h *Handler) join(ctx context.Context, player model.Player) (done bool, err error) {
	name, password, ok, err := h.lobbyDetails()
	if err != nil || !ok {
		return false, err
	}

	engine, jerr := h.lobbies.Join(ctx, name, password, player, h.conn)
	if jerr != nil {
		switch {
		case errors.Is(jerr, model.ErrLobbyNotFound):
			return false, h.conn.Send(MsgJoinFailed)
		case errors.Is(jerr, model.ErrLobbyFull):
			return false, h.conn.Send(MsgLobbyFull)
		default:
			return false, jerr
		}
	}

	if err := h.conn.Send(MsgWelcome); err != nil {
		h.abortMatch(engine, player)
		engine.Teardown(ctx)
		return true, nil
	}

	h.runMatch(ctx, player, engine)
	return true, nil
}

// lobbyDetails prompts for and validates "name password". ok=false means
// a validation failure already reported to the client.
func (h *Handler) lobbyDetails() (name model.LobbyName, password string, ok bool, err error) {
	if err := h.conn.Send(MsgLobbyPrompt); err != nil {
		return "", "", false, err
	}
	line, err := h.conn.ReadLine()
	if err != nil {
		return "", "", false, err
	}

	rawName, rawPassword, ferr := splitFields(line)
	if ferr != nil {
		return "", "", false, h.conn.Send(fieldErrorMessage(ferr))
	}
	return model.LobbyName(rawName), rawPassword, true, nil
}

// abortMatch ends the match after a failure on this handler's own
// connection. The farewell goes to the peer from here, before teardown
// can close the peer's connection; the peer's handler stays silent when
// it observes the abort.
func (h *Handler) abortMatch(engine *match.Engine, player model.Player) {
	engine.Abort()
	_, peerConn := engine.Peer(player.ID)
	_ = peerConn.Send(MsgOpponentGone)
}

// runMatch participates in the match until it terminates. The handler
// reads only its own socket and writes only to its own socket; the engine
// serializes both players' moves and hands each handler the round outcome
// to report. Teardown is guaranteed on every exit path and runs once
// across both participants.
func (h *Handler) runMatch(ctx context.Context, player model.Player, engine *match.Engine) {
	defer engine.Teardown(ctx)

	for {
		start := MsgPlayingO
		if engine.Role(player.ID) == model.SymbolX {
			start = MsgPlayingX
		}
		if err := h.conn.Send(start); err != nil {
			h.abortMatch(engine, player)
			return
		}

		if !h.playRound(ctx, player, engine) {
			return
		}

		if err := h.reportRound(player, engine.RoundResult()); err != nil {
			h.abortMatch(engine, player)
			return
		}

		again, err := h.rematchVote(player, engine)
		if err != nil || !again {
			return
		}
	}
}

// playRound drives one board from empty to win or draw. Returns false if
// the match ended without reaching the vote (disconnect on either side).
func (h *Handler) playRound(ctx context.Context, player model.Player, engine *match.Engine) bool {
	for {
		phase, err := engine.AwaitTurn(player.ID)
		if err != nil {
			return false
		}
		if phase == match.PhaseRoundOver {
			return true
		}

		board := engine.Board()
		if err := h.conn.Send(MsgCurrentBoard + "\n" + board.Render()); err != nil {
			h.abortMatch(engine, player)
			return false
		}
		if err := h.conn.Send(MsgMovePrompt); err != nil {
			h.abortMatch(engine, player)
			return false
		}
		line, err := h.conn.ReadLine()
		if err != nil {
			h.abortMatch(engine, player)
			return false
		}

		result, merr := engine.SubmitMove(ctx, player.ID, line)
		switch {
		case errors.Is(merr, match.ErrInvalidInput):
			if err := h.conn.Send(MsgInvalidInput); err != nil {
				h.abortMatch(engine, player)
				return false
			}
			continue
		case errors.Is(merr, model.ErrInvalidPosition), errors.Is(merr, model.ErrCellOccupied):
			if err := h.conn.Send(MsgIllegalMove); err != nil {
				h.abortMatch(engine, player)
				return false
			}
			continue
		case merr != nil:
			return false
		}

		if result.Win || result.Draw {
			return true
		}
	}
}

// reportRound tells this player how the round ended
func (h *Handler) reportRound(player model.Player, result match.MoveResult) error {
	switch {
	case result.Win:
		if err := h.conn.Sendf("Player %c (%s) wins!", result.Symbol, result.Winner.Username); err != nil {
			return err
		}
	case result.Draw:
		if err := h.conn.Send(MsgDraw); err != nil {
			return err
		}
	default:
		// Round ended without a terminal move; nothing to report
		return nil
	}
	return h.conn.Send(MsgFinalBoard + "\n" + result.Board.Render())
}

// rematchVote collects this player's vote and blocks until the vote
// resolves for both players
func (h *Handler) rematchVote(player model.Player, engine *match.Engine) (bool, error) {
	for {
		if err := h.conn.Send(MsgRematchPrompt); err != nil {
			h.abortMatch(engine, player)
			return false, err
		}
		line, err := h.conn.ReadLine()
		if err != nil {
			h.abortMatch(engine, player)
			return false, err
		}

		if line != RematchYes && line != RematchNo {
			if err := h.conn.Send(MsgInvalidRematch); err != nil {
				h.abortMatch(engine, player)
				return false, err
			}
			continue
		}

		return engine.VoteRematch(player.ID, line == RematchYes)
	}
}

// splitFields validates the "two fields, exactly one space" input rule
func splitFields(line string) (string, string, error) {
	if strings.Count(line, " ") != 1 {
		return "", "", errWrongFieldCount
	}
	first, second, _ := strings.Cut(line, " ")
	if first == "" || second == "" {
		return "", "", errEmptyField
	}
	return first, second, nil
}

func fieldErrorMessage(err error) string {
	if errors.Is(err, errWrongFieldCount) {
		return MsgOneSpace
	}
	return MsgEmptyFields
}
