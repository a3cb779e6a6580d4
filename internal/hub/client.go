package hub

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// State is the liveness of a client. Transitions are one-way:
// Open -> Closing -> Closed.
type State int32

const (
	StateOpen State = iota
	StateClosing
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Conn is the subset of *websocket.Conn the registry uses.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	SetReadLimit(limit int64)
	Close() error
}

// Client is a registered observer connection.
type Client struct {
	id    string
	conn  Conn
	send  chan []byte
	state atomic.Int32

	done      chan struct{}
	closeOnce sync.Once
}

func newClient(conn Conn, buffer int) *Client {
	return &Client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, buffer),
		done: make(chan struct{}),
	}
}

// ID returns the client's unique id.
func (c *Client) ID() string { return c.id }

// State returns the current liveness state.
func (c *Client) State() State { return State(c.state.Load()) }

// enqueue queues payload without blocking. It fails when the client is not
// open or its queue is full.
func (c *Client) enqueue(payload []byte) bool {
	if c.State() != StateOpen {
		return false
	}
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

func (c *Client) markClosing() bool {
	return c.state.CompareAndSwap(int32(StateOpen), int32(StateClosing))
}

// shutdown moves the client to Closed and closes the socket. Idempotent.
func (c *Client) shutdown() {
	c.closeOnce.Do(func() {
		c.state.Store(int32(StateClosed))
		close(c.done)
		_ = c.conn.Close()
	})
}

func (r *Registry) writePump(c *Client) {
	ticker := time.NewTicker(r.pingPeriod)
	defer func() {
		ticker.Stop()
		r.Deregister(c)
	}()
	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(r.writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				if c.markClosing() {
					sendFailures.Inc()
					r.log.Warn().Str("client", c.id).Err(err).Msg("send failed; dropping connection")
				}
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(r.writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.markClosing()
				r.log.Debug().Str("client", c.id).Err(err).Msg("ping failed")
				return
			}
		case <-c.done:
			return
		}
	}
}

func (r *Registry) readPump(c *Client) {
	defer r.Deregister(c)
	c.conn.SetReadLimit(r.maxMessage)
	_ = c.conn.SetReadDeadline(time.Now().Add(r.pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(r.pongWait))
	})
	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				r.log.Debug().Str("client", c.id).Err(err).Msg("read ended")
			}
			c.markClosing()
			return
		}
		if err := r.Relay(msg); err != nil {
			r.log.Debug().Str("client", c.id).Err(err).Msg("relay rejected message")
		}
	}
}
