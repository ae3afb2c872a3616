package syncclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/thenoetrevino/pasoboard/internal/models"
	"github.com/thenoetrevino/pasoboard/internal/snapshot"
	"github.com/thenoetrevino/pasoboard/internal/types"
)

// DefaultTimeout bounds every request unless WithTimeout says otherwise
const DefaultTimeout = 10 * time.Second

// Ack is the server's confirmation of a bulk update
type Ack struct {
	Message      string `json:"message"`
	UpdatedCount int    `json:"updatedCount"`
}

// Persister stores bulk position updates
type Persister interface {
	PersistCards(ctx context.Context, boardID types.BoardID, updates []models.CardUpdate) (*Ack, error)
	PersistColumns(ctx context.Context, boardID types.BoardID, updates []models.ColumnUpdate) (*Ack, error)
}

var _ Persister = (*Client)(nil)

// Client talks to the board server. It never retries: a failed request
// is reported once and the caller decides what to undo.
type Client struct {
	baseURL    string
	actorID    types.UserID
	httpClient *http.Client
	timeout    time.Duration
}

// Option configures a Client
type Option func(*Client)

// WithTimeout bounds each request
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a client for the server at baseURL acting as actorID
func NewClient(baseURL string, actorID types.UserID, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		actorID:    actorID,
		httpClient: http.DefaultClient,
		timeout:    DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type cardBatch struct {
	Updates []models.CardUpdate `json:"updates"`
}

type columnBatch struct {
	Updates []models.ColumnUpdate `json:"updates"`
}

// PersistCards sends the whole card batch in one request
func (c *Client) PersistCards(ctx context.Context, boardID types.BoardID, updates []models.CardUpdate) (*Ack, error) {
	path := fmt.Sprintf("/api/boards/%d/cards/reorder", boardID)
	var ack Ack
	if err := c.do(ctx, http.MethodPost, path, cardBatch{Updates: updates}, &ack); err != nil {
		return nil, err
	}
	return &ack, nil
}

// PersistColumns sends the whole column batch in one request
func (c *Client) PersistColumns(ctx context.Context, boardID types.BoardID, updates []models.ColumnUpdate) (*Ack, error) {
	path := fmt.Sprintf("/api/boards/%d/columns/reorder", boardID)
	var ack Ack
	if err := c.do(ctx, http.MethodPost, path, columnBatch{Updates: updates}, &ack); err != nil {
		return nil, err
	}
	return &ack, nil
}

// FetchBoard reads the board and builds a Snapshot from it
func (c *Client) FetchBoard(ctx context.Context, boardID types.BoardID) (*snapshot.Snapshot, error) {
	var payload snapshot.Payload
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/boards/%d", boardID), nil, &payload); err != nil {
		return nil, err
	}
	return snapshot.FromPayload(payload), nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.actorID.Valid() {
		req.Header.Set("X-User-ID", strconv.Itoa(c.actorID.ToInt()))
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportError(ctx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	slog.Debug("sync request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
		"request_id", req.Header.Get("X-Request-ID"))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &PersistenceError{
			Kind:    statusKind(resp.StatusCode),
			Status:  resp.StatusCode,
			Message: errorMessage(resp.Body),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return transportError(ctx, fmt.Errorf("failed to decode response: %w", err))
	}
	return nil
}

func transportError(ctx context.Context, err error) error {
	kind := KindNetwork
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		kind = KindTimeout
	}
	return &PersistenceError{Kind: kind, Message: err.Error(), Err: err}
}

// errorMessage extracts {"error": "..."} from a failure body
func errorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 64<<10))
	if err != nil {
		return err.Error()
	}
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &payload) == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(data))
}
