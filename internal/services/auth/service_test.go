package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/tictacgame-go/internal/dependencies/mocks"
	"github.com/mcoot/tictacgame-go/internal/model"
	"github.com/mcoot/tictacgame-go/internal/storage/memory"
	"github.com/mcoot/tictacgame-go/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	random  *mocks.MockRandom
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.service = New(s.storage, s.clock, s.random, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestRegisterSucceeds() {
	s.random.QueueString("abc123")

	player, err := s.service.Register(s.ctx, "alice", "secret")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("p_abc123"), player.ID)
	s.Equal("alice", player.Username)
	s.Equal(s.clock.Now(), player.CreatedAt)
}

func (s *ServiceSuite) TestRegisterHashesPassword() {
	s.random.QueueString("abc123")

	_, err := s.service.Register(s.ctx, "alice", "secret")
	s.Require().NoError(err)

	creds, err := s.storage.GetCredentialsByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.NotEqual("secret", creds.PasswordHash)
	s.NoError(bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte("secret")))
}

func (s *ServiceSuite) TestRegisterDuplicateUsername() {
	s.random.QueueString("abc123", "def456")

	_, err := s.service.Register(s.ctx, "alice", "secret")
	s.Require().NoError(err)

	_, err = s.service.Register(s.ctx, "alice", "other")
	s.ErrorIs(err, ErrUsernameExists)
}

func (s *ServiceSuite) TestLoginSucceeds() {
	s.random.QueueString("abc123")
	registered, err := s.service.Register(s.ctx, "alice", "secret")
	s.Require().NoError(err)

	player, err := s.service.Login(s.ctx, "alice", "secret")
	s.Require().NoError(err)
	s.Equal(registered.ID, player.ID)
}

func (s *ServiceSuite) TestLoginWrongPassword() {
	s.random.QueueString("abc123")
	_, err := s.service.Register(s.ctx, "alice", "secret")
	s.Require().NoError(err)

	_, err = s.service.Login(s.ctx, "alice", "wrong")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestLoginUnknownUsername() {
	_, err := s.service.Login(s.ctx, "nobody", "secret")
	s.ErrorIs(err, ErrInvalidCredentials)
}
