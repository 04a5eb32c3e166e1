// Connection wraps a single live websocket channel to a dashboard client in Argus.
// All writes to the peer go through the write pump, the rest of the application
// only ever calls Send which enqueues on a bounded buffer.

package ws

import (
	"Argus/internal/errors"
	"Argus/pkg/log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/xid"
)

const (
	// Maximum size of the outbound buffer per connection.
	// A peer lagging behind this far gets its sends dropped and reported as failed.
	sendBufferSize = 256
	// Interval of keepalive pings written by the pump.
	pingPeriod = 45 * time.Second
)

// Connection represents one live bidirectional channel to a client.
// Its identity handle is unique for the connection's lifetime.
type Connection struct {
	id           string
	conn         *websocket.Conn
	send         chan []byte
	writeTimeout time.Duration
	logger       log.Logger

	closeOnce sync.Once
	done      chan struct{}
}

// NewConnection wraps an upgraded websocket connection.
// The caller is expected to run StartWriter exactly once.
func NewConnection(conn *websocket.Conn, writeTimeout time.Duration, logger log.Logger) *Connection {
	return &Connection{
		id:           xid.New().String(),
		conn:         conn,
		send:         make(chan []byte, sendBufferSize),
		writeTimeout: writeTimeout,
		done:         make(chan struct{}),
		logger:       logger,
	}
}

// ID returns the opaque per-connection handle.
func (c *Connection) ID() string {
	return c.id
}

// Send enqueues one wire payload for delivery to the peer.
// It never blocks, a full buffer or a closed connection is reported as a
// failed send and the payload is dropped.
func (c *Connection) Send(payload []byte) error {
	select {
	case <-c.done:
		return errors.New("connection closed")
	default:
	}
	select {
	case c.send <- payload:
		return nil
	default:
		return errors.New("send buffer full")
	}
}

// StartWriter launches the write pump which owns every write on the underlying
// transport, message writes and keepalive pings both.
func (c *Connection) StartWriter() {
	go c.writePump()
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case payload := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
			if werr := c.conn.WriteMessage(websocket.TextMessage, payload); werr != nil {
				// Peer is gone or too slow, the read loop will observe the
				// closed transport and trigger unregistration.
				c.logger.Warn().Err(werr).Msgf("Write failed on connection %s", c.id)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
			if werr := c.conn.WriteMessage(websocket.PingMessage, nil); werr != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

// Close shuts the underlying transport down, repeated calls are no-ops.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}
