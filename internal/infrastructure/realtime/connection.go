package realtime

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Close codes used by the server when it terminates a socket.
const (
	CloseSessionReplaced = 4001
	CloseSlowConsumer    = 4008
)

var (
	ErrConnectionClosed = errors.New("realtime: connection closed")
	ErrBufferExceeded   = errors.New("realtime: connection buffer exceeded")
)

// Conn is the handle the Registry keeps for a live transport. Send must not
// block on network I/O.
type Conn interface {
	Send(payload []byte) error
}

// ConnectionOptions tunes the outbound side of a Connection.
type ConnectionOptions struct {
	SendBuffer int
	WriteWait  time.Duration
	PingPeriod time.Duration
}

func (o ConnectionOptions) withDefaults() ConnectionOptions {
	if o.SendBuffer <= 0 {
		o.SendBuffer = 128
	}
	if o.WriteWait <= 0 {
		o.WriteWait = 10 * time.Second
	}
	if o.PingPeriod <= 0 {
		o.PingPeriod = 30 * time.Second
	}
	return o
}

// Connection wraps a websocket and serialises outbound writes through a
// buffered queue drained by a single write loop. Safe for concurrent use.
type Connection struct {
	ID     string
	UserID int64

	ws       *websocket.Conn
	opts     ConnectionOptions
	send     chan []byte
	once     sync.Once
	start    sync.Once
	close    chan struct{}
	released chan struct{}
}

// NewConnection constructs a Connection bound to userID.
func NewConnection(userID int64, ws *websocket.Conn, opts ConnectionOptions) *Connection {
	opts = opts.withDefaults()
	return &Connection{
		ID:     uuid.NewString(),
		UserID: userID,
		ws:     ws,
		opts:   opts,
		send:     make(chan []byte, opts.SendBuffer),
		close:    make(chan struct{}),
		released: make(chan struct{}),
	}
}

// Start launches the write loop. Extra calls are ignored.
func (c *Connection) Start() {
	c.start.Do(func() { go c.writeLoop() })
}

// Send enqueues payload for delivery. A peer whose buffer is full is closed so
// a slow reader never stalls the caller.
func (c *Connection) Send(payload []byte) error {
	select {
	case <-c.close:
		return ErrConnectionClosed
	default:
	}

	select {
	case c.send <- payload:
		// select picks at random when Close raced the enqueue
		select {
		case <-c.close:
			return ErrConnectionClosed
		default:
			return nil
		}
	default:
		c.Close(CloseSlowConsumer, "send buffer full")
		return ErrBufferExceeded
	}
}

// Close marks the connection closed and releases the socket in the
// background. It never waits on the peer. Safe to call more than once.
func (c *Connection) Close(code int, reason string) {
	c.once.Do(func() {
		close(c.close)
		go c.release(code, reason)
	})
}

// release sends the close frame and drops the transport. WriteControl waits
// for a write stuck on a slow peer, bounded by WriteWait.
func (c *Connection) release(code int, reason string) {
	defer close(c.released)
	deadline := time.Now().Add(c.opts.WriteWait)
	_ = c.ws.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), deadline)
	_ = c.ws.Close()
}

// Done is closed once the connection has been closed.
func (c *Connection) Done() <-chan struct{} {
	return c.close
}

// Released is closed once the underlying socket has been closed.
func (c *Connection) Released() <-chan struct{} {
	return c.released
}

func (c *Connection) writeLoop() {
	ticker := time.NewTicker(c.opts.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.close:
			return
		case msg := <-c.send:
			if err := c.writeMessage(msg); err != nil {
				c.Close(websocket.CloseInternalServerErr, "write failed")
				return
			}
		case <-ticker.C:
			if err := c.writePing(); err != nil {
				c.Close(websocket.CloseInternalServerErr, "ping failed")
				return
			}
		}
	}
}

func (c *Connection) writeMessage(payload []byte) error {
	if err := c.ws.SetWriteDeadline(time.Now().Add(c.opts.WriteWait)); err != nil {
		return err
	}
	return c.ws.WriteMessage(websocket.TextMessage, payload)
}

func (c *Connection) writePing() error {
	return c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.opts.WriteWait))
}
