package server

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096
)

// Connection represents a WebSocket connection playing one Session
type Connection struct {
	conn      *websocket.Conn
	session   *Session
	send      chan *Message
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	clock       quartz.Clock
	idleTimeout time.Duration
	idle        *quartz.Timer
}

// NewConnection creates a new connection wrapper
func NewConnection(conn *websocket.Conn, session *Session, logger *log.Logger, clock quartz.Clock, idleTimeout time.Duration) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	return &Connection{
		conn:        conn,
		session:     session,
		send:        make(chan *Message, 64),
		logger:      logger.WithPrefix("conn").With("session", session.ID),
		ctx:         ctx,
		cancel:      cancel,
		clock:       clock,
		idleTimeout: idleTimeout,
	}
}

// Start begins handling the connection. The idle timer starts before the
// welcome is queued so a silent client is always timed out.
func (c *Connection) Start() {
	c.idle = c.clock.AfterFunc(c.idleTimeout, c.timeout, "idle")
	c.queue(c.session.Welcome())
	c.queue(c.session.stateReply())
	go c.writePump()
	go c.readPump()
}

// Done is closed once the connection has shut down
func (c *Connection) Done() <-chan struct{} {
	return c.ctx.Done()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		if c.idle != nil {
			c.idle.Stop()
		}
		err = c.conn.Close()
	})
	return err
}

func (c *Connection) timeout() {
	c.logger.Info("Closing idle connection", "timeout", c.idleTimeout)
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "idle timeout")
	_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	_ = c.Close()
}

func (c *Connection) queue(msgs []*Message) {
	for _, msg := range msgs {
		select {
		case c.send <- msg:
		case <-c.ctx.Done():
			return
		default:
			c.logger.Warn("Connection send buffer full, closing connection")
			_ = c.Close()
			return
		}
	}
}

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}
		c.idle.Reset(c.idleTimeout, "idle")

		c.logger.Debug("Received message", "type", msg.Type)
		c.queue(c.session.Handle(&msg))
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Close()
	}()

	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}
