package syncclient

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/pasoboard/internal/models"
)

func TestFetchAccess(t *testing.T) {
	srv, requests := newTestServer(t, http.StatusOK, `{"role":"viewer","canReorder":false}`)
	client := NewClient(srv.URL, 3)

	access, err := client.FetchAccess(context.Background(), 8)
	require.NoError(t, err)
	assert.Equal(t, models.RoleViewer, access.Role)
	assert.False(t, access.CanReorder)

	req := <-requests
	assert.Equal(t, "/api/boards/8/access", req.Path)
	assert.Equal(t, "3", req.UserID)
}

func TestCreateCard(t *testing.T) {
	srv, requests := newTestServer(t, http.StatusCreated, `{"id":51,"columnId":6,"title":"write docs","position":4}`)
	client := NewClient(srv.URL, 1)

	card, err := client.CreateCard(context.Background(), 6, NewCard{Title: "write docs", Priority: 3})
	require.NoError(t, err)
	assert.Equal(t, 4, card.Position)

	req := <-requests
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/api/columns/6/cards", req.Path)
	assert.JSONEq(t, `"write docs"`, string(req.Body["title"]))
	assert.JSONEq(t, `3`, string(req.Body["priority"]))
	assert.NotContains(t, req.Body, "assignee")
}

func TestDeleteColumn_Conflict(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusConflict, `{"error":"column 6 holds 2 cards"}`)
	client := NewClient(srv.URL, 1)

	err := client.DeleteColumn(context.Background(), 6)
	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, KindConsistency, perr.Kind)
	assert.Contains(t, perr.Message, "holds 2 cards")
}

func TestAddMember(t *testing.T) {
	srv, requests := newTestServer(t, http.StatusCreated, `{"boardId":2,"userId":9,"role":"member"}`)
	client := NewClient(srv.URL, 1)

	m, err := client.AddMember(context.Background(), 2, 9, models.RoleMember)
	require.NoError(t, err)
	assert.Equal(t, models.RoleMember, m.Role)

	req := <-requests
	assert.Equal(t, "/api/boards/2/members", req.Path)
	assert.JSONEq(t, `9`, string(req.Body["userId"]))
	assert.JSONEq(t, `"member"`, string(req.Body["role"]))
}

func TestSetArchived(t *testing.T) {
	srv, requests := newTestServer(t, http.StatusOK, `{"archived":true}`)
	client := NewClient(srv.URL, 1)

	require.NoError(t, client.SetArchived(context.Background(), 2, true))

	req := <-requests
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/api/boards/2/archived", req.Path)
	assert.JSONEq(t, `true`, string(req.Body["archived"]))
}
