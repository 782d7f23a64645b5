package factory

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/tictacgame-go/internal/model"
	"github.com/mcoot/tictacgame-go/internal/wire"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

func (s *IntegrationSuite) newConn() *wire.Conn {
	_, server := net.Pipe()
	return wire.New(server)
}

// Test: Complete match flow from registration to recorded statistics
func (s *IntegrationSuite) TestCompleteMatchFlow() {
	// Setup: Queue generated player IDs
	s.app.MockRandom.QueueString("aaaaaaaaaaaaaaaa", "bbbbbbbbbbbbbbbb")

	// Step 1: Register two players
	owner, err := s.app.AuthService.Register(s.ctx, "alice", "pw-alice")
	s.Require().NoError(err)
	joiner, err := s.app.AuthService.Register(s.ctx, "bob", "pw-bob")
	s.Require().NoError(err)
	s.NotEqual(owner.ID, joiner.ID)

	// Step 2: Bind both sessions
	ownerConn := s.newConn()
	joinerConn := s.newConn()
	s.app.SessionRegistry.Bind(s.ctx, owner.ID, ownerConn)
	s.app.SessionRegistry.Bind(s.ctx, joiner.ID, joinerConn)

	// Step 3: Owner creates a lobby, joiner pairs with it
	ready, err := s.app.LobbyRegistry.Create(s.ctx, "room1", "pw1", *owner, ownerConn)
	s.Require().NoError(err)

	engine, err := s.app.LobbyRegistry.Join(s.ctx, "room1", "pw1", *joiner, joinerConn)
	s.Require().NoError(err)

	select {
	case ownerEngine := <-ready:
		s.Same(engine, ownerEngine)
	case <-time.After(time.Second):
		s.FailNow("owner was never unblocked")
	}

	// Step 4: Owner plays X and wins down the left column
	s.Equal(model.SymbolX, engine.Role(owner.ID))
	moves := []struct {
		player model.PlayerID
		input  string
	}{
		{owner.ID, "1"}, {joiner.ID, "2"},
		{owner.ID, "4"}, {joiner.ID, "5"},
		{owner.ID, "7"},
	}
	for i, m := range moves {
		result, err := engine.SubmitMove(s.ctx, m.player, m.input)
		s.Require().NoError(err)
		if i == len(moves)-1 {
			s.True(result.Win)
			s.Equal(owner.ID, result.Winner.ID)
		} else {
			s.False(result.Win)
			s.False(result.Draw)
		}
	}

	// Step 5: The outcome is recorded for both players
	ownerStats, err := s.app.Storage.GetStats(s.ctx, owner.ID)
	s.Require().NoError(err)
	s.Equal(1, ownerStats.GamesPlayed)
	s.Equal(1, ownerStats.Wins)

	joinerStats, err := s.app.Storage.GetStats(s.ctx, joiner.ID)
	s.Require().NoError(err)
	s.Equal(1, joinerStats.GamesPlayed)
	s.Equal(1, joinerStats.Losses)

	// Step 6: Both decline the rematch; teardown releases everything
	again, err := engine.VoteRematch(owner.ID, false)
	s.Require().NoError(err)
	s.False(again)

	engine.Teardown(s.ctx)

	_, err = s.app.SessionRegistry.Lookup(owner.ID)
	s.ErrorIs(err, model.ErrSessionNotFound)
	_, err = s.app.SessionRegistry.Lookup(joiner.ID)
	s.ErrorIs(err, model.ErrSessionNotFound)
	_, err = s.app.Storage.GetLobby(s.ctx, "room1")
	s.ErrorIs(err, model.ErrLobbyNotFound)
}

// Test: Rematch swaps roles and a second round records separately
func (s *IntegrationSuite) TestRematchAccumulatesStats() {
	s.app.MockRandom.QueueString("cccccccccccccccc", "dddddddddddddddd")

	owner, err := s.app.AuthService.Register(s.ctx, "carol", "pw")
	s.Require().NoError(err)
	joiner, err := s.app.AuthService.Register(s.ctx, "dave", "pw")
	s.Require().NoError(err)

	ready, err := s.app.LobbyRegistry.Create(s.ctx, "room2", "pw2", *owner, s.newConn())
	s.Require().NoError(err)
	engine, err := s.app.LobbyRegistry.Join(s.ctx, "room2", "pw2", *joiner, s.newConn())
	s.Require().NoError(err)
	<-ready

	// Round 1: owner (X) wins the top row
	for _, m := range []struct {
		player model.PlayerID
		input  string
	}{
		{owner.ID, "1"}, {joiner.ID, "4"},
		{owner.ID, "2"}, {joiner.ID, "5"},
		{owner.ID, "3"},
	} {
		_, err := engine.SubmitMove(s.ctx, m.player, m.input)
		s.Require().NoError(err)
	}

	// Both vote yes; the joiner holds X in round 2
	voted := make(chan error, 1)
	go func() {
		_, err := engine.VoteRematch(owner.ID, true)
		voted <- err
	}()
	again, err := engine.VoteRematch(joiner.ID, true)
	s.Require().NoError(err)
	s.True(again)
	s.Require().NoError(<-voted)
	s.Equal(model.SymbolX, engine.Role(joiner.ID))

	// Round 2: joiner (X) wins the left column
	for _, m := range []struct {
		player model.PlayerID
		input  string
	}{
		{joiner.ID, "1"}, {owner.ID, "2"},
		{joiner.ID, "4"}, {owner.ID, "5"},
		{joiner.ID, "7"},
	} {
		_, err := engine.SubmitMove(s.ctx, m.player, m.input)
		s.Require().NoError(err)
	}

	ownerStats, err := s.app.Storage.GetStats(s.ctx, owner.ID)
	s.Require().NoError(err)
	s.Equal(2, ownerStats.GamesPlayed)
	s.Equal(1, ownerStats.Wins)
	s.Equal(1, ownerStats.Losses)

	joinerStats, err := s.app.Storage.GetStats(s.ctx, joiner.ID)
	s.Require().NoError(err)
	s.Equal(2, joinerStats.GamesPlayed)
	s.Equal(1, joinerStats.Wins)
	s.Equal(1, joinerStats.Losses)
}
