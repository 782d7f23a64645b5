package wire

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"sync"
)

// ReadBufferSize is the fixed buffer size for receives
const ReadBufferSize = 1024

// Conn wraps a stream connection with the line-oriented text protocol:
// newline-delimited messages, one buffered reader per connection, and a
// write mutex so both match participants can safely send to the same peer.
type Conn struct {
	nc net.Conn
	r  *bufio.Reader

	wmu       sync.Mutex
	closeOnce sync.Once
	closeErr  error
}

// New wraps a net.Conn for line-based exchange
func New(nc net.Conn) *Conn {
	return &Conn{
		nc: nc,
		r:  bufio.NewReaderSize(nc, ReadBufferSize),
	}
}

// ReadLine blocks until the peer's next line arrives and returns it with
// the trailing newline stripped. Receives have no timeout; a silent peer
// blocks the caller indefinitely.
func (c *Conn) ReadLine() (string, error) {
	line, err := c.r.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Send writes one message to the peer, appending the terminating newline
// if absent. Safe for concurrent use.
func (c *Conn) Send(msg string) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	_, err := c.nc.Write([]byte(msg))
	return err
}

// Sendf formats and sends one message
func (c *Conn) Sendf(format string, args ...any) error {
	return c.Send(fmt.Sprintf(format, args...))
}

// Close closes the underlying connection. Safe to call more than once;
// cleanup paths from both match participants may race here.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.nc.Close()
	})
	return c.closeErr
}

// RemoteAddr returns the peer's address for session records and logging
func (c *Conn) RemoteAddr() string {
	if c.nc.RemoteAddr() == nil {
		return ""
	}
	return c.nc.RemoteAddr().String()
}
