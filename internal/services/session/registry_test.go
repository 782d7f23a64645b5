package session

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
	s.registry = NewRegistry(s.storage, clock, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *RegistrySuite) newConn() *wire.Conn {
	_, server := net.Pipe()
	return wire.New(server)
}

func (s *RegistrySuite) TestBindAndLookup() {
	conn := s.newConn()
	s.registry.Bind(s.ctx, "player-1", conn)

	found, err := s.registry.Lookup("player-1")
	s.Require().NoError(err)
	s.Same(conn, found)
}

func (s *RegistrySuite) TestLookupUnknownPlayer() {
	_, err := s.registry.Lookup("nobody")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *RegistrySuite) TestSecondBindReplacesFirst() {
	first := s.newConn()
	second := s.newConn()

	// Last login wins; a later Unbind clears whichever binding is current
	s.registry.Bind(s.ctx, "player-1", first)
	s.registry.Bind(s.ctx, "player-1", second)

	found, err := s.registry.Lookup("player-1")
	s.Require().NoError(err)
	s.Same(second, found)

	s.registry.Unbind(s.ctx, "player-1")
	_, err = s.registry.Lookup("player-1")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *RegistrySuite) TestUnbindRemovesSession() {
	s.registry.Bind(s.ctx, "player-1", s.newConn())
	s.registry.Unbind(s.ctx, "player-1")

	_, err := s.registry.Lookup("player-1")
	s.ErrorIs(err, model.ErrSessionNotFound)

	// Unbinding again is harmless; teardown paths may race
	s.registry.Unbind(s.ctx, "player-1")
}

func (s *RegistrySuite) TestConcurrentBindUnbind() {
	const players = 16
	var wg sync.WaitGroup
	for i := 0; i < players; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := model.PlayerID(rune('a' + i))
			s.registry.Bind(s.ctx, id, s.newConn())
			_, _ = s.registry.Lookup(id)
			s.registry.Unbind(s.ctx, id)
		}(i)
	}
	wg.Wait()

	for i := 0; i < players; i++ {
		_, err := s.registry.Lookup(model.PlayerID(rune('a' + i)))
		s.ErrorIs(err, model.ErrSessionNotFound)
	}
}
