package events

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/thenoetrevino/pasoboard/internal/types"
)

// Client is a websocket subscription to one board's change events.
// It handles ping replies, sequence de-duplication, and reconnection.
type Client struct {
	endpoint string
	actorID  types.UserID
	boardID  types.BoardID
	dialer   *websocket.Dialer

	conn   *websocket.Conn
	mu     sync.Mutex // Protects conn and closed; also serializes writes
	closed bool

	// Reconnection configuration
	maxRetries int
	baseDelay  time.Duration

	// Event tracking
	lastSequence int64
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithReconnect sets how many reconnection attempts are made and the initial backoff
func WithReconnect(maxRetries int, baseDelay time.Duration) ClientOption {
	return func(c *Client) {
		c.maxRetries = maxRetries
		c.baseDelay = baseDelay
	}
}

// NewClient creates a client for the board's event stream but does not connect.
// baseURL is the HTTP address of the server, e.g. http://localhost:8080.
func NewClient(baseURL string, boardID types.BoardID, actorID types.UserID, opts ...ClientOption) (*Client, error) {
	endpoint, err := StreamURL(baseURL, boardID)
	if err != nil {
		return nil, err
	}

	c := &Client{
		endpoint:   endpoint,
		actorID:    actorID,
		boardID:    boardID,
		dialer:     websocket.DefaultDialer,
		maxRetries: 5,
		baseDelay:  1 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// StreamURL converts an HTTP base URL to the board's websocket endpoint
func StreamURL(baseURL string, boardID types.BoardID) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}

	switch u.Scheme {
	case "http", "":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("invalid base url %q: unsupported scheme %q", baseURL, u.Scheme)
	}

	u.Path = strings.TrimSuffix(u.Path, "/") + "/ws/boards/" + strconv.Itoa(boardID.ToInt())
	return u.String(), nil
}

// Connect dials the event stream and subscribes to the board
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	header := http.Header{}
	if c.actorID.Valid() {
		header.Set("X-User-ID", strconv.Itoa(c.actorID.ToInt()))
	}

	conn, resp, err := c.dialer.DialContext(ctx, c.endpoint, header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return ClassifyConnectError(err, resp)
	}

	msg := Message{
		Version:   ProtocolVersion,
		Type:      "subscribe",
		Subscribe: &SubscribeMessage{BoardID: c.boardID},
	}
	if err := conn.WriteJSON(msg); err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			slog.Error("error closing event stream", "error", closeErr)
		}
		return fmt.Errorf("failed to send subscription: %w", err)
	}

	c.conn = conn
	// Sequence numbers are per connection
	c.lastSequence = 0
	return nil
}

// Listen returns a channel of board change events. Connection loss is
// retried with exponential backoff; the channel is closed when ctx is done,
// the client is closed, or reconnection gives up.
func (c *Client) Listen(ctx context.Context) (<-chan Event, error) {
	c.mu.Lock()
	connected := c.conn != nil
	c.mu.Unlock()

	if !connected {
		if err := c.Connect(ctx); err != nil {
			return nil, err
		}
	}

	eventChan := make(chan Event, 10)
	go c.listenLoop(ctx, eventChan)
	return eventChan, nil
}

func (c *Client) listenLoop(ctx context.Context, eventChan chan Event) {
	defer close(eventChan)

	for {
		err := c.readEvents(ctx, eventChan)
		if ctx.Err() != nil || c.isClosed() {
			return
		}

		slog.Warn("event stream lost, reconnecting", "board_id", c.boardID, "error", err)

		if !c.reconnect(ctx) {
			slog.Error("giving up on event stream", "board_id", c.boardID, "attempts", c.maxRetries)
			return
		}
	}
}

// readEvents reads messages until the connection fails
func (c *Client) readEvents(ctx context.Context, eventChan chan Event) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}

	// Unblock the read when ctx ends
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	for {
		// Hung connections surface as read timeouts
		if err := conn.SetReadDeadline(time.Now().Add(90 * time.Second)); err != nil {
			return fmt.Errorf("failed to set read deadline: %w", err)
		}

		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			return fmt.Errorf("failed to decode message: %w", err)
		}

		if msg.Version != 0 && msg.Version != ProtocolVersion {
			slog.Warn("event protocol version mismatch", "got", msg.Version, "want", ProtocolVersion)
		}

		switch msg.Type {
		case "event":
			if msg.Event == nil {
				continue
			}
			if msg.Event.SequenceID <= c.lastSequence {
				continue
			}
			c.lastSequence = msg.Event.SequenceID
			select {
			case eventChan <- *msg.Event:
			case <-ctx.Done():
				return ctx.Err()
			}

		case "ping":
			if err := c.write(Message{Version: ProtocolVersion, Type: "pong"}); err != nil && !isConnectionError(err) {
				slog.Warn("failed to send pong", "error", err)
			}
		}
	}
}

func (c *Client) write(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return ErrNotConnected
	}
	if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
		return fmt.Errorf("connection error: %w", err)
	}
	return c.conn.WriteJSON(msg)
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "broken pipe") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "use of closed network connection")
}

// reconnect retries Connect with exponential backoff: 1s, 2s, 4s, 8s, 16s by default
func (c *Client) reconnect(ctx context.Context) bool {
	delay := c.baseDelay

	for i := 0; i < c.maxRetries; i++ {
		select {
		case <-ctx.Done():
			return false
		case <-time.After(delay):
			c.mu.Lock()
			if c.conn != nil {
				_ = c.conn.Close()
				c.conn = nil
			}
			c.mu.Unlock()

			err := c.Connect(ctx)
			if err == nil {
				slog.Info("reconnected to event stream", "attempt", i+1, "board_id", c.boardID)
				return true
			}
			slog.Debug("reconnection attempt failed",
				"attempt", i+1,
				"max_retries", c.maxRetries,
				"retry_in", delay,
				"error", err)
			delay *= 2
		}
	}

	return false
}

func (c *Client) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Close closes the connection and stops the listen loop
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	if c.conn == nil {
		return nil
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	err := c.conn.Close()
	c.conn = nil
	return err
}
