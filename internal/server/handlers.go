package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/thenoetrevino/pasoboard/internal/models"
	"github.com/thenoetrevino/pasoboard/internal/rbac"
	"github.com/thenoetrevino/pasoboard/internal/services/board"
	"github.com/thenoetrevino/pasoboard/internal/snapshot"
	"github.com/thenoetrevino/pasoboard/internal/types"
)

func (s *Server) handleCreateBoard(w http.ResponseWriter, r *http.Request) {
	actorID, err := actor(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var body struct {
		Name string `json:"name"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		s.fail(w, r, err)
		return
	}

	b, err := s.boards.CreateBoard(r.Context(), actorID, body.Name)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (s *Server) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	actorID, boardID, ok := s.actorAndBoard(w, r)
	if !ok {
		return
	}

	snap, err := s.boards.GetSnapshot(r.Context(), actorID, boardID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot.ToPayload(snap))
}

func (s *Server) handleGetAccess(w http.ResponseWriter, r *http.Request) {
	actorID, boardID, ok := s.actorAndBoard(w, r)
	if !ok {
		return
	}

	b, role, err := s.boards.Authorize(r.Context(), actorID, boardID, rbac.ActionRead)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"role":       role,
		"canReorder": rbac.CanReorder(role) && !b.Archived,
	})
}

func (s *Server) handleSetArchived(w http.ResponseWriter, r *http.Request) {
	actorID, boardID, ok := s.actorAndBoard(w, r)
	if !ok {
		return
	}

	var body struct {
		Archived bool `json:"archived"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		s.fail(w, r, err)
		return
	}

	if err := s.boards.SetArchived(r.Context(), actorID, boardID, body.Archived); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"archived": body.Archived})
}

func (s *Server) handleAddMember(w http.ResponseWriter, r *http.Request) {
	actorID, boardID, ok := s.actorAndBoard(w, r)
	if !ok {
		return
	}

	var body struct {
		UserID types.UserID `json:"userId"`
		Role   models.Role  `json:"role"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		s.fail(w, r, err)
		return
	}

	if err := s.boards.AddMember(r.Context(), actorID, boardID, body.UserID, body.Role); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, models.Member{BoardID: boardID, UserID: body.UserID, Role: body.Role})
}

func (s *Server) handleCreateColumn(w http.ResponseWriter, r *http.Request) {
	actorID, boardID, ok := s.actorAndBoard(w, r)
	if !ok {
		return
	}

	var body struct {
		Name string `json:"name"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		s.fail(w, r, err)
		return
	}

	column, err := s.boards.CreateColumn(r.Context(), actorID, boardID, body.Name)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, column)
}

func (s *Server) handleDeleteColumn(w http.ResponseWriter, r *http.Request) {
	actorID, err := actor(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	id, err := pathID(r, "columnID")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if err := s.boards.DeleteColumn(r.Context(), actorID, types.ColumnID(id)); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	actorID, err := actor(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	id, err := pathID(r, "columnID")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var body struct {
		Title    string     `json:"title"`
		Assignee string     `json:"assignee"`
		DueDate  *time.Time `json:"dueDate"`
		Priority int        `json:"priority"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		s.fail(w, r, err)
		return
	}

	card, err := s.boards.CreateCard(r.Context(), actorID, board.CreateCardRequest{
		ColumnID: types.ColumnID(id),
		Title:    body.Title,
		Assignee: body.Assignee,
		DueDate:  body.DueDate,
		Priority: body.Priority,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, card)
}

func (s *Server) handleReorderCards(w http.ResponseWriter, r *http.Request) {
	actorID, boardID, ok := s.actorAndBoard(w, r)
	if !ok {
		return
	}

	var body struct {
		Updates []models.CardUpdate `json:"updates"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		s.fail(w, r, err)
		return
	}

	n, err := s.reorders.ReorderCards(r.Context(), actorID, boardID, body.Updates)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":      fmt.Sprintf("updated %d cards", n),
		"updatedCount": n,
	})
}

func (s *Server) handleReorderColumns(w http.ResponseWriter, r *http.Request) {
	actorID, boardID, ok := s.actorAndBoard(w, r)
	if !ok {
		return
	}

	var body struct {
		Updates []models.ColumnUpdate `json:"updates"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		s.fail(w, r, err)
		return
	}

	n, err := s.reorders.ReorderColumns(r.Context(), actorID, boardID, body.Updates)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":      fmt.Sprintf("updated %d columns", n),
		"updatedCount": n,
	})
}
