package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/wordarena/go/internal/protocol"
	"github.com/rs/zerolog/log"
)

// State is the lifecycle of the gateway socket.
type State string

const (
	StateDisconnected         State = "disconnected"
	StateConnecting           State = "connecting"
	StateAwaitingHandshakeAck State = "awaiting_handshake_ack"
	StateReady                State = "ready"
	StateFailed               State = "failed"
)

// ConnectionConfig holds configuration for the gateway socket
type ConnectionConfig struct {
	URL               string
	HeartbeatInterval time.Duration
	WriteTimeout      time.Duration
	MaxMessageSize    int64
	ReadBufferSize    int
	WriteBufferSize   int
	SendBufferSize    int
}

// DefaultConnectionConfig returns default gateway configuration
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		URL:               "ws://localhost:8000/gateway",
		HeartbeatInterval: 7 * time.Second,
		WriteTimeout:      10 * time.Second,
		MaxMessageSize:    64 * 1024,
		ReadBufferSize:    1024,
		WriteBufferSize:   1024,
		SendBufferSize:    64,
	}
}

// Listener receives inbound frames and state changes. Both are called from
// connection goroutines, in the order they happen on the socket.
type Listener interface {
	HandleFrame(frame protocol.Frame)
	HandleState(state State)
}

// Connection is the single gateway socket of a session.
type Connection struct {
	ID string

	config   ConnectionConfig
	clock    clockwork.Clock
	dialer   *websocket.Dialer
	listener Listener

	mu               sync.Mutex
	state            State
	token            string
	conn             *websocket.Conn
	send             chan []byte
	identify         chan []byte
	done             chan struct{}
	generation       uint64
	serverID         string
	lastHeartbeatAck time.Time
}

// NewConnection creates a disconnected gateway connection
func NewConnection(config ConnectionConfig, clock clockwork.Clock, listener Listener) *Connection {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Connection{
		ID:     uuid.New().String(),
		config: config,
		clock:  clock,
		dialer: &websocket.Dialer{
			ReadBufferSize:   config.ReadBufferSize,
			WriteBufferSize:  config.WriteBufferSize,
			HandshakeTimeout: config.WriteTimeout,
		},
		listener: listener,
		state:    StateDisconnected,
	}
}

// State returns the current connection state.
func (c *Connection) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Ready reports whether application frames may be sent.
func (c *Connection) Ready() bool {
	return c.State() == StateReady
}

// ServerID returns the id the server assigned in its hello frame.
func (c *Connection) ServerID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.serverID
}

// LastHeartbeatAck returns when the server last acknowledged a heartbeat.
func (c *Connection) LastHeartbeatAck() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastHeartbeatAck
}

// Open dials the gateway in the background. It is a no-op while a socket is
// open or being dialed.
func (c *Connection) Open(ctx context.Context, token string) {
	c.mu.Lock()
	if c.conn != nil || c.state == StateConnecting {
		c.mu.Unlock()
		log.Debug().Str("connection_id", c.ID).Msg("open ignored, connection already open")
		return
	}
	c.generation++
	gen := c.generation
	c.token = token
	c.state = StateConnecting
	c.mu.Unlock()

	c.notify(StateConnecting)
	go c.dial(ctx, gen)
}

func (c *Connection) dial(ctx context.Context, gen uint64) {
	conn, _, err := c.dialer.DialContext(ctx, c.config.URL, nil)
	if err != nil {
		log.Warn().
			Err(err).
			Str("connection_id", c.ID).
			Str("url", c.config.URL).
			Msg("failed to dial gateway")
		c.mu.Lock()
		current := gen == c.generation
		if current {
			c.state = StateFailed
		}
		c.mu.Unlock()
		if current {
			c.notify(StateFailed)
		}
		return
	}

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		conn.Close()
		return
	}
	c.conn = conn
	c.send = make(chan []byte, c.config.SendBufferSize)
	c.identify = make(chan []byte, 1)
	c.done = make(chan struct{})
	send, identify, done := c.send, c.identify, c.done
	c.mu.Unlock()

	go c.writePump(gen, conn, send, identify, done)
	go c.readPump(gen, conn)

	log.Info().
		Str("connection_id", c.ID).
		Str("url", c.config.URL).
		Msg("gateway socket established, waiting for hello")
}

// Identify answers the server hello with the session token.
func (c *Connection) Identify() error {
	c.mu.Lock()
	if c.conn == nil {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.state != StateConnecting {
		c.mu.Unlock()
		return nil
	}
	frame, err := protocol.IdentifyFrame(c.token)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	data, err := protocol.Encode(frame)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.state = StateAwaitingHandshakeAck
	identify := c.identify
	c.mu.Unlock()

	identify <- data
	c.notify(StateAwaitingHandshakeAck)
	return nil
}

// Send queues an application frame. Frames are only accepted while Ready.
func (c *Connection) Send(frame protocol.Frame) error {
	data, err := protocol.Encode(frame)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateReady {
		return ErrNotReady
	}
	select {
	case c.send <- data:
		return nil
	default:
		log.Warn().Str("connection_id", c.ID).Msg("send buffer full, dropping frame")
		return ErrSendBufferFull
	}
}

// Close shuts the socket down. A later Open starts a fresh socket.
func (c *Connection) Close() {
	c.mu.Lock()
	conn := c.teardownLocked()
	wasOpen := conn != nil || c.state != StateDisconnected
	c.state = StateDisconnected
	c.mu.Unlock()

	if wasOpen {
		log.Info().Str("connection_id", c.ID).Msg("gateway connection closed")
		c.notify(StateDisconnected)
	}
}

// fail moves a live connection of the given generation to Failed.
func (c *Connection) fail(gen uint64, reason string) {
	c.mu.Lock()
	if gen != c.generation || c.conn == nil {
		c.mu.Unlock()
		return
	}
	c.teardownLocked()
	c.state = StateFailed
	c.mu.Unlock()

	log.Warn().
		Str("connection_id", c.ID).
		Str("reason", reason).
		Msg("gateway connection failed")
	c.notify(StateFailed)
}

// teardownLocked detaches the socket and signals its write pump, which sends
// the close frame and closes the socket.
func (c *Connection) teardownLocked() *websocket.Conn {
	c.generation++
	conn := c.conn
	if conn != nil {
		close(c.done)
	}
	c.conn = nil
	c.send = nil
	c.identify = nil
	c.done = nil
	return conn
}

func (c *Connection) markReady(gen uint64) bool {
	c.mu.Lock()
	if gen != c.generation || c.state != StateAwaitingHandshakeAck {
		c.mu.Unlock()
		return false
	}
	c.state = StateReady
	c.mu.Unlock()

	log.Info().Str("connection_id", c.ID).Msg("gateway handshake complete")
	c.notify(StateReady)
	return true
}

func (c *Connection) notify(state State) {
	if c.listener != nil {
		c.listener.HandleState(state)
	}
}

// writePump owns all writes to the socket, including the heartbeat which is
// armed once the handshake completes. It is the only goroutine that closes
// the socket.
func (c *Connection) writePump(gen uint64, conn *websocket.Conn, send <-chan []byte, identify <-chan []byte, done <-chan struct{}) {
	var ticker clockwork.Ticker
	var heartbeat <-chan time.Time
	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
		conn.Close()
	}()

	heartbeatData, err := protocol.Encode(protocol.HeartbeatFrame())
	if err != nil {
		log.Error().Err(err).Msg("failed to encode heartbeat")
		return
	}

	for {
		select {
		case <-done:
			conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
			conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return

		case data := <-identify:
			if err := c.write(conn, data); err != nil {
				c.fail(gen, fmt.Sprintf("identify write: %v", err))
				return
			}
			if c.markReady(gen) {
				ticker = c.clock.NewTicker(c.config.HeartbeatInterval)
				heartbeat = ticker.Chan()
			}

		case data := <-send:
			if err := c.write(conn, data); err != nil {
				c.fail(gen, fmt.Sprintf("write: %v", err))
				return
			}

		case <-heartbeat:
			if err := c.write(conn, heartbeatData); err != nil {
				c.fail(gen, fmt.Sprintf("heartbeat write: %v", err))
				return
			}
			log.Debug().Str("connection_id", c.ID).Msg("heartbeat sent")
		}
	}
}

func (c *Connection) write(conn *websocket.Conn, data []byte) error {
	conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
	return conn.WriteMessage(websocket.TextMessage, data)
}

// readPump decodes inbound frames and hands them to the listener in order.
func (c *Connection) readPump(gen uint64, conn *websocket.Conn) {
	conn.SetReadLimit(c.config.MaxMessageSize)

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("unexpected gateway close error")
			}
			c.fail(gen, "read closed")
			return
		}

		frame, err := protocol.Decode(message)
		if err != nil {
			log.Warn().
				Err(err).
				Str("connection_id", c.ID).
				Msg("dropping malformed frame")
			continue
		}

		switch frame.Op {
		case protocol.OpInvalidSession:
			c.fail(gen, "invalid session")
			return

		case protocol.OpHeartbeatAck:
			c.mu.Lock()
			c.lastHeartbeatAck = c.clock.Now()
			c.mu.Unlock()
			continue

		case protocol.OpHello:
			var hello protocol.HelloPayload
			if len(frame.Data) > 0 {
				if err := json.Unmarshal(frame.Data, &hello); err != nil {
					log.Debug().Err(err).Msg("hello without server id")
				}
			}
			c.mu.Lock()
			c.serverID = hello.WID
			c.mu.Unlock()
		}

		if c.listener != nil {
			c.listener.HandleFrame(frame)
		}
	}
}
