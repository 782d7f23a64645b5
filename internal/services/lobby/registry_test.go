package lobby

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/tictacgame-go/internal/dependencies/mocks"
	"github.com/mcoot/tictacgame-go/internal/model"
	"github.com/mcoot/tictacgame-go/internal/storage/memory"
	"github.com/mcoot/tictacgame-go/internal/testutil"
	"github.com/mcoot/tictacgame-go/internal/wire"
)

type noopSessions struct{}

func (noopSessions) Unbind(context.Context, model.PlayerID) {}

type noopRecorder struct{}

func (noopRecorder) RecordOutcome(context.Context, model.PlayerID, model.PlayerID, *model.PlayerID) {
}

type RegistrySuite struct {
	suite.Suite
	storage  *memory.Storage
	registry *Registry
	ctx      context.Context
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func (s *RegistrySuite) SetupTest() {
	s.storage = memory.New()
	clock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.registry = NewRegistry(s.storage, clock, noopSessions{}, noopRecorder{}, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *RegistrySuite) newConn() *wire.Conn {
	_, server := net.Pipe()
	return wire.New(server)
}

func (s *RegistrySuite) player(id string) model.Player {
	return model.Player{ID: model.PlayerID(id), Username: id}
}

func (s *RegistrySuite) TestCreateSucceeds() {
	ready, err := s.registry.Create(s.ctx, "room1", "pw1", s.player("owner"), s.newConn())
	s.Require().NoError(err)
	s.Require().NotNil(ready)

	// The record is mirrored into storage with a hashed password
	lobby, err := s.storage.GetLobby(s.ctx, "room1")
	s.Require().NoError(err)
	s.Equal(model.LobbyStateOpen, lobby.State)
	s.Equal(model.PlayerID("owner"), lobby.OwnerID)
	s.NotEqual("pw1", lobby.PasswordHash)
}

func (s *RegistrySuite) TestCreateDuplicateNameRejected() {
	_, err := s.registry.Create(s.ctx, "room1", "pw1", s.player("owner"), s.newConn())
	s.Require().NoError(err)

	_, err = s.registry.Create(s.ctx, "room1", "pw2", s.player("other"), s.newConn())
	s.ErrorIs(err, model.ErrLobbyNameTaken)
}

func (s *RegistrySuite) TestJoinPairsAndUnblocksOwner() {
	ready, err := s.registry.Create(s.ctx, "room1", "pw1", s.player("owner"), s.newConn())
	s.Require().NoError(err)

	engine, err := s.registry.Join(s.ctx, "room1", "pw1", s.player("joiner"), s.newConn())
	s.Require().NoError(err)
	s.Require().NotNil(engine)

	// The owner's blocking wait resolves with the same engine
	select {
	case ownerEngine := <-ready:
		s.Same(engine, ownerEngine)
	case <-time.After(time.Second):
		s.FailNow("owner was never unblocked")
	}

	// Owner plays X, joiner plays O
	s.Equal(model.SymbolX, engine.Role("owner"))
	s.Equal(model.SymbolO, engine.Role("joiner"))

	lobby, err := s.storage.GetLobby(s.ctx, "room1")
	s.Require().NoError(err)
	s.Equal(model.LobbyStateFull, lobby.State)
}

func (s *RegistrySuite) TestJoinUnknownLobby() {
	_, err := s.registry.Join(s.ctx, "nope", "pw1", s.player("joiner"), s.newConn())
	s.ErrorIs(err, model.ErrLobbyNotFound)
}

func (s *RegistrySuite) TestJoinWrongPasswordLooksLikeNotFound() {
	_, err := s.registry.Create(s.ctx, "room1", "pw1", s.player("owner"), s.newConn())
	s.Require().NoError(err)

	_, err = s.registry.Join(s.ctx, "room1", "wrong", s.player("joiner"), s.newConn())
	s.ErrorIs(err, model.ErrLobbyNotFound)
}

func (s *RegistrySuite) TestJoinFullLobbyRejected() {
	_, err := s.registry.Create(s.ctx, "room1", "pw1", s.player("owner"), s.newConn())
	s.Require().NoError(err)

	_, err = s.registry.Join(s.ctx, "room1", "pw1", s.player("joiner"), s.newConn())
	s.Require().NoError(err)

	_, err = s.registry.Join(s.ctx, "room1", "pw1", s.player("third"), s.newConn())
	s.ErrorIs(err, model.ErrLobbyFull)
}

func (s *RegistrySuite) TestConcurrentJoinsExactlyOneSucceeds() {
	_, err := s.registry.Create(s.ctx, "room1", "pw1", s.player("owner"), s.newConn())
	s.Require().NoError(err)

	const joiners = 8
	var wg sync.WaitGroup
	errs := make([]error, joiners)
	for i := 0; i < joiners; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			joiner := s.player(string(rune('a' + i)))
			_, errs[i] = s.registry.Join(s.ctx, "room1", "pw1", joiner, s.newConn())
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			s.ErrorIs(err, model.ErrLobbyFull)
		}
	}
	s.Equal(1, succeeded)
}

func (s *RegistrySuite) TestCancelWithdrawsOpenLobby() {
	_, err := s.registry.Create(s.ctx, "room1", "pw1", s.player("owner"), s.newConn())
	s.Require().NoError(err)

	s.True(s.registry.Cancel(s.ctx, "room1", "owner"))

	_, err = s.registry.Join(s.ctx, "room1", "pw1", s.player("joiner"), s.newConn())
	s.ErrorIs(err, model.ErrLobbyNotFound)
	_, err = s.storage.GetLobby(s.ctx, "room1")
	s.ErrorIs(err, model.ErrLobbyNotFound)
}

func (s *RegistrySuite) TestCancelAfterPairingReportsEngineCommitted() {
	ready, err := s.registry.Create(s.ctx, "room1", "pw1", s.player("owner"), s.newConn())
	s.Require().NoError(err)

	engine, err := s.registry.Join(s.ctx, "room1", "pw1", s.player("joiner"), s.newConn())
	s.Require().NoError(err)

	// Too late to withdraw; the engine is already on the ready channel
	s.False(s.registry.Cancel(s.ctx, "room1", "owner"))

	select {
	case ownerEngine := <-ready:
		s.Same(engine, ownerEngine)
	case <-time.After(time.Second):
		s.FailNow("engine was not delivered")
	}
}

func (s *RegistrySuite) TestRemoveFreesName() {
	_, err := s.registry.Create(s.ctx, "room1", "pw1", s.player("owner"), s.newConn())
	s.Require().NoError(err)

	s.registry.Remove(s.ctx, "room1")

	_, err = s.storage.GetLobby(s.ctx, "room1")
	s.ErrorIs(err, model.ErrLobbyNotFound)

	_, err = s.registry.Create(s.ctx, "room1", "pw1", s.player("owner"), s.newConn())
	s.NoError(err)
}
