package mocks

import (
	"time"

	"github.com/mcoot/tictacgame-go/internal/dependencies/clock"
)

// MockClock is a Clock frozen at a fixed instant
type MockClock struct {
	CurrentTime time.Time
}

var _ clock.Clock = (*MockClock)(nil)

// NewMockClock creates a clock pinned to t
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{CurrentTime: t}
}

func (c *MockClock) Now() time.Time {
	return c.CurrentTime
}
