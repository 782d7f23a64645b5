package mocks

import (
	"github.com/mcoot/tictacgame-go/internal/dependencies/random"
)

// MockRandom replays queued strings instead of generating them, so tests
// know the player IDs a registration will produce
type MockRandom struct {
	queue []string
	next  int
}

var _ random.Random = (*MockRandom)(nil)

func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// String returns the next queued value, or "" when the queue is exhausted.
// The requested length and alphabet are ignored.
func (r *MockRandom) String(length int, alphabet string) string {
	if r.next >= len(r.queue) {
		return ""
	}
	v := r.queue[r.next]
	r.next++
	return v
}

// QueueString appends values to be returned by subsequent String calls
func (r *MockRandom) QueueString(values ...string) {
	r.queue = append(r.queue, values...)
}
