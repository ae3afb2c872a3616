package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/thenoetrevino/pasoboard/internal/events"
	"github.com/thenoetrevino/pasoboard/internal/types"
)

// ErrHubClosed is returned by SendEvent after Shutdown
var ErrHubClosed = errors.New("hub closed")

// Options tunes queue sizes and health checking
type Options struct {
	BroadcastBuffer int
	ClientBuffer    int
	PingInterval    time.Duration
	StaleAfter      time.Duration // clients silent this long are dropped
	PublishTimeout  time.Duration
}

// DefaultOptions returns the production settings
func DefaultOptions() Options {
	return Options{
		BroadcastBuffer: 100,
		ClientBuffer:    10,
		PingInterval:    30 * time.Second,
		StaleAfter:      90 * time.Second,
		PublishTimeout:  2 * time.Second,
	}
}

// client is one websocket watcher
type client struct {
	conn         *websocket.Conn
	send         chan events.Message
	subscription events.SubscribeMessage
	lastPong     time.Time
	closed       bool       // send has been closed
	mu           sync.Mutex // Protects subscription, lastPong and closed
}

// closeSend closes the send queue once
func (c *client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// Hub fans board change events out to websocket watchers.
// Events enter through the broker so every instance sees every change.
type Hub struct {
	broker          Broker
	upgrader        websocket.Upgrader
	clients         map[*client]bool
	mu              sync.RWMutex
	ctx             context.Context
	cancel          context.CancelFunc
	broadcast       chan events.Event
	metrics         *Metrics
	sequenceCounter atomic.Int64
	opts            Options
	shutdownOnce    sync.Once
}

// NewHub creates a hub on top of broker. Zero option fields take their defaults.
func NewHub(broker Broker, opts Options) *Hub {
	def := DefaultOptions()
	if opts.BroadcastBuffer <= 0 {
		opts.BroadcastBuffer = def.BroadcastBuffer
	}
	if opts.ClientBuffer <= 0 {
		opts.ClientBuffer = def.ClientBuffer
	}
	if opts.PingInterval <= 0 {
		opts.PingInterval = def.PingInterval
	}
	if opts.StaleAfter <= 0 {
		opts.StaleAfter = def.StaleAfter
	}
	if opts.PublishTimeout <= 0 {
		opts.PublishTimeout = def.PublishTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Hub{
		broker: broker,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients:   make(map[*client]bool),
		ctx:       ctx,
		cancel:    cancel,
		broadcast: make(chan events.Event, opts.BroadcastBuffer),
		metrics:   NewMetrics(),
		opts:      opts,
	}
}

// Start subscribes to the broker and runs the broadcast and health loops.
// It blocks until ctx is cancelled or Shutdown is called.
func (h *Hub) Start(ctx context.Context) error {
	combinedCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		select {
		case <-h.ctx.Done():
			cancel()
		case <-combinedCtx.Done():
		}
	}()

	incoming, err := h.broker.Subscribe(combinedCtx)
	if err != nil {
		return fmt.Errorf("subscribe to broker: %w", err)
	}

	slog.Info("event hub started")

	go h.broadcastLoop(combinedCtx)
	go h.monitorHealth(combinedCtx)

	for event := range incoming {
		h.metrics.IncEventsReceived()
		select {
		case h.broadcast <- event:
		default:
			h.metrics.IncEventsDropped()
			slog.Warn("broadcast channel full, event dropped", "board_id", event.BoardID)
		}
	}

	return h.Shutdown()
}

// SendEvent publishes a board change through the broker
func (h *Hub) SendEvent(event events.Event) error {
	if h.ctx.Err() != nil {
		return ErrHubClosed
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	ctx, cancel := context.WithTimeout(h.ctx, h.opts.PublishTimeout)
	defer cancel()

	if err := h.broker.Publish(ctx, event); err != nil {
		h.metrics.IncBrokerErrors()
		return err
	}
	h.metrics.IncEventsPublished()
	return nil
}

// ServeWS upgrades the request and registers a watcher of boardID.
// Authorization is the caller's job.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, boardID types.BoardID) {
	if h.ctx.Err() != nil {
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response
		slog.Debug("websocket upgrade failed", "error", err)
		return
	}

	c := &client{
		conn:         conn,
		send:         make(chan events.Message, h.opts.ClientBuffer),
		subscription: events.SubscribeMessage{BoardID: boardID},
		lastPong:     time.Now(),
	}

	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()
	h.updateClientCount()

	slog.Info("watcher connected", "board_id", boardID, "total_clients", h.ClientCount())

	go h.clientWriter(c)
	go h.handleClient(c)
}

// broadcastLoop stamps sequence numbers and distributes events to subscribed clients
func (h *Hub) broadcastLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case event := <-h.broadcast:
			event.SequenceID = h.sequenceCounter.Add(1)

			h.mu.RLock()
			for c := range h.clients {
				c.mu.Lock()
				isSubscribed := c.subscription.Matches(event.BoardID)
				c.mu.Unlock()

				if !isSubscribed {
					continue
				}

				msg := events.Message{
					Version: events.ProtocolVersion,
					Type:    "event",
					Event:   &event,
				}
				// Slow clients miss events rather than stall the loop
				if !h.sendToClient(c, msg) {
					h.metrics.IncEventsDropped()
					slog.Warn("client send queue full, event dropped", "board_id", event.BoardID)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// handleClient reads subscribe and pong messages from a watcher
func (h *Hub) handleClient(c *client) {
	defer func() {
		h.removeClient(c)
		slog.Info("watcher disconnected", "total_clients", h.ClientCount())
	}()

	for {
		var msg events.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		if msg.Version != 0 && msg.Version != events.ProtocolVersion {
			slog.Warn("watcher protocol version mismatch", "got", msg.Version, "want", events.ProtocolVersion)
		}

		switch msg.Type {
		case "subscribe":
			if msg.Subscribe != nil {
				c.mu.Lock()
				c.subscription = *msg.Subscribe
				c.mu.Unlock()
				slog.Debug("watcher subscribed", "board_id", msg.Subscribe.BoardID)
			}

		case "pong":
			c.mu.Lock()
			c.lastPong = time.Now()
			c.mu.Unlock()
		}
	}
}

// clientWriter is the only goroutine writing to c.conn
func (h *Hub) clientWriter(c *client) {
	for msg := range c.send {
		if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
			return
		}
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
		time.Now().Add(time.Second))
}

// monitorHealth sends pings and removes clients that stopped answering
func (h *Hub) monitorHealth(ctx context.Context) {
	ticker := time.NewTicker(h.opts.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			// Collect under the hub lock, act outside it
			h.mu.RLock()
			clients := make([]*client, 0, len(h.clients))
			for c := range h.clients {
				clients = append(clients, c)
			}
			h.mu.RUnlock()

			now := time.Now()
			ping := events.Message{Version: events.ProtocolVersion, Type: "ping"}

			for _, c := range clients {
				c.mu.Lock()
				lastPong := c.lastPong
				c.mu.Unlock()

				if now.Sub(lastPong) > h.opts.StaleAfter {
					slog.Info("removing stale watcher", "last_pong_ago", now.Sub(lastPong))
					h.removeClient(c)
					continue
				}
				if !h.sendToClient(c, ping) {
					slog.Debug("failed to queue ping (queue full)")
				}
			}
		}
	}
}

// Metrics returns the hub's live counters
func (h *Hub) Metrics() *Metrics {
	return h.metrics
}

// ClientCount returns the number of connected watchers
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Shutdown disconnects every watcher and stops the loops
func (h *Hub) Shutdown() error {
	h.shutdownOnce.Do(func() {
		slog.Info("shutting down event hub")

		h.cancel()

		h.mu.Lock()
		clients := h.clients
		h.clients = make(map[*client]bool)
		h.mu.Unlock()

		for c := range clients {
			c.closeSend()
			_ = c.conn.Close()
		}
		h.updateClientCount()
	})

	return nil
}

func (h *Hub) updateClientCount() {
	h.metrics.SetConnectedClients(int32(h.ClientCount()))
}

// removeClient safely removes a client from the hub
func (h *Hub) removeClient(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()

	c.closeSend()
	if err := c.conn.Close(); err != nil {
		slog.Debug("error closing watcher connection", "error", err)
	}

	h.updateClientCount()
}

// sendToClient queues a message without blocking.
// Returns false if the queue is full.
func (h *Hub) sendToClient(c *client, msg events.Message) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}

	select {
	case c.send <- msg:
		h.metrics.IncEventsSent()
		return true
	default:
		return false
	}
}
