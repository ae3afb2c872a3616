package syncclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/pasoboard/internal/models"
	"github.com/thenoetrevino/pasoboard/internal/types"
)

type recordedRequest struct {
	Method    string
	Path      string
	UserID    string
	RequestID string
	Body      map[string]json.RawMessage
}

func newTestServer(t *testing.T, status int, response string) (*httptest.Server, chan recordedRequest) {
	t.Helper()

	requests := make(chan recordedRequest, 10)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{
			Method:    r.Method,
			Path:      r.URL.Path,
			UserID:    r.Header.Get("X-User-ID"),
			RequestID: r.Header.Get("X-Request-ID"),
		}
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&rec.Body)
		}
		requests <- rec

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv, requests
}

func TestPersistCards_SendsWholeBatch(t *testing.T) {
	srv, requests := newTestServer(t, http.StatusOK, `{"message":"ok","updatedCount":3}`)
	client := NewClient(srv.URL, 7)

	updates := []models.CardUpdate{
		{ID: 13, ColumnID: 1, Position: 1},
		{ID: 11, ColumnID: 1, Position: 2},
		{ID: 12, ColumnID: 1, Position: 3},
	}
	ack, err := client.PersistCards(context.Background(), 4, updates)
	require.NoError(t, err)
	assert.Equal(t, 3, ack.UpdatedCount)

	req := <-requests
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/api/boards/4/cards/reorder", req.Path)
	assert.Equal(t, "7", req.UserID)
	assert.NotEmpty(t, req.RequestID)

	var sent []models.CardUpdate
	require.NoError(t, json.Unmarshal(req.Body["updates"], &sent))
	assert.Equal(t, updates, sent)
	assert.Len(t, requests, 0, "exactly one request per batch")
}

func TestPersistColumns_Path(t *testing.T) {
	srv, requests := newTestServer(t, http.StatusOK, `{"message":"ok","updatedCount":2}`)
	client := NewClient(srv.URL, 7)

	_, err := client.PersistColumns(context.Background(), 4, []models.ColumnUpdate{{ID: 2, Position: 1}, {ID: 1, Position: 2}})
	require.NoError(t, err)

	req := <-requests
	assert.Equal(t, "/api/boards/4/columns/reorder", req.Path)
}

func TestPersist_ErrorClassification(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		kind        Kind
		consistency bool
		message     string
	}{
		{"conflict", http.StatusConflict, `{"error":"card 99 not on board"}`, KindConsistency, true, "card 99 not on board"},
		{"unprocessable", http.StatusUnprocessableEntity, `{"error":"bad"}`, KindConsistency, true, "bad"},
		{"forbidden", http.StatusForbidden, `{"error":"viewer"}`, KindRejected, false, "viewer"},
		{"server error", http.StatusInternalServerError, `oops`, KindRejected, false, "oops"},
		{"gateway timeout", http.StatusGatewayTimeout, ``, KindTimeout, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t, tt.status, tt.body)
			client := NewClient(srv.URL, 1)

			ack, err := client.PersistCards(context.Background(), 1, []models.CardUpdate{{ID: 1, ColumnID: 1, Position: 1}})
			assert.Nil(t, ack)
			require.ErrorIs(t, err, ErrPersistence)
			assert.Equal(t, tt.consistency, errors.Is(err, ErrConsistency))

			var perr *PersistenceError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.kind, perr.Kind)
			assert.Equal(t, tt.status, perr.Status)
			assert.Equal(t, tt.message, perr.Message)
		})
	}
}

func TestPersist_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClient(url, 1)
	_, err := client.PersistCards(context.Background(), 1, []models.CardUpdate{{ID: 1, ColumnID: 1, Position: 1}})

	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, KindNetwork, perr.Kind)
	assert.Zero(t, perr.Status)
}

func TestPersist_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	client := NewClient(srv.URL, 1, WithTimeout(30*time.Millisecond))

	start := time.Now()
	_, err := client.PersistColumns(context.Background(), 1, []models.ColumnUpdate{{ID: 1, Position: 1}})

	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, KindTimeout, perr.Kind)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestFetchBoard_NormalizesPayload(t *testing.T) {
	body := `{"board":{"id":4,"name":"Roadmap"},"columns":{"id":1,"name":"Todo","position":1,"cards":{"id":10,"title":"only","position":1}}}`
	srv, requests := newTestServer(t, http.StatusOK, body)
	client := NewClient(srv.URL, 1)

	s, err := client.FetchBoard(context.Background(), 4)
	require.NoError(t, err)

	assert.Equal(t, "/api/boards/4", (<-requests).Path)
	require.Len(t, s.Columns, 1)
	card, ok := s.Card(10)
	require.True(t, ok)
	assert.Equal(t, types.ColumnID(1), card.ColumnID)
}

func TestFetchBoard_NotFound(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusNotFound, `{"error":"board not found"}`)
	client := NewClient(srv.URL, 1)

	_, err := client.FetchBoard(context.Background(), 4)

	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, http.StatusNotFound, perr.Status)
	assert.Contains(t, err.Error(), "board not found")
}
