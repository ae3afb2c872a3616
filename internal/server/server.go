// Package server exposes boards over HTTP and upgrades board watchers to
// websockets.
package server

import (
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

	"github.com/thenoetrevino/pasoboard/internal/daemon"
	"github.com/thenoetrevino/pasoboard/internal/rbac"
	"github.com/thenoetrevino/pasoboard/internal/services/board"
	"github.com/thenoetrevino/pasoboard/internal/services/reorder"
	"github.com/thenoetrevino/pasoboard/internal/types"
)

// maxBodyBytes bounds request bodies
const maxBodyBytes = 1 << 20

// Pinger reports whether the store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server routes HTTP requests to the board services
type Server struct {
	boards   board.Service
	reorders reorder.Service
	hub      *daemon.Hub
	store    Pinger
}

// New creates a Server. hub may be nil, in which case watching is unavailable.
func New(boards board.Service, reorders reorder.Service, hub *daemon.Hub, store Pinger) *Server {
	return &Server{boards: boards, reorders: reorders, hub: hub, store: store}
}

// Handler returns the routed handler wrapped in middleware
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/ready", s.handleReady)
	mux.HandleFunc("GET /api/metrics", s.handleMetrics)

	mux.HandleFunc("POST /api/boards", s.handleCreateBoard)
	mux.HandleFunc("GET /api/boards/{boardID}", s.handleGetBoard)
	mux.HandleFunc("GET /api/boards/{boardID}/access", s.handleGetAccess)
	mux.HandleFunc("PUT /api/boards/{boardID}/archived", s.handleSetArchived)
	mux.HandleFunc("POST /api/boards/{boardID}/members", s.handleAddMember)
	mux.HandleFunc("POST /api/boards/{boardID}/columns", s.handleCreateColumn)
	mux.HandleFunc("DELETE /api/columns/{columnID}", s.handleDeleteColumn)
	mux.HandleFunc("POST /api/columns/{columnID}/cards", s.handleCreateCard)
	mux.HandleFunc("POST /api/boards/{boardID}/cards/reorder", s.handleReorderCards)
	mux.HandleFunc("POST /api/boards/{boardID}/columns/reorder", s.handleReorderColumns)

	mux.HandleFunc("GET /ws/boards/{boardID}", s.handleWatch)

	return withMiddleware(mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	statusCode := http.StatusOK
	checks := map[string]any{
		"database": map[string]any{"status": "ok"},
	}

	if err := s.store.Ping(ctx); err != nil {
		status = "not_ready"
		statusCode = http.StatusServiceUnavailable
		checks["database"] = map[string]any{
			"status": "error",
			"error":  err.Error(),
		}
	}

	writeJSON(w, statusCode, map[string]any{
		"ok":     status == "ready",
		"status": status,
		"checks": checks,
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		writeError(w, domainError(http.StatusServiceUnavailable, "HUB_UNAVAILABLE", "Realtime hub is not running"))
		return
	}
	writeJSON(w, http.StatusOK, s.hub.Metrics().GetSnapshot())
}

func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		writeError(w, domainError(http.StatusServiceUnavailable, "HUB_UNAVAILABLE", "Realtime hub is not running"))
		return
	}

	actorID, boardID, ok := s.actorAndBoard(w, r)
	if !ok {
		return
	}
	if _, _, err := s.boards.Authorize(r.Context(), actorID, boardID, rbac.ActionRead); err != nil {
		s.fail(w, r, err)
		return
	}

	s.hub.ServeWS(w, r, boardID)
}

// actor reads the trusted X-User-ID header
func actor(r *http.Request) (types.UserID, error) {
	raw := strings.TrimSpace(r.Header.Get("X-User-ID"))
	if raw == "" {
		return 0, errMissingActor
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, domainError(http.StatusUnauthorized, "UNAUTHORIZED", "X-User-ID must be a positive integer")
	}
	return types.UserID(id), nil
}

func pathID(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(r.PathValue(name))
	if err != nil || id <= 0 {
		return 0, domainError(http.StatusBadRequest, "INVALID_ID", fmt.Sprintf("%s must be a positive integer", name))
	}
	return id, nil
}

// actorAndBoard resolves the actor and board path value, writing the error
// response itself when either is unusable
func (s *Server) actorAndBoard(w http.ResponseWriter, r *http.Request) (types.UserID, types.BoardID, bool) {
	actorID, err := actor(r)
	if err != nil {
		s.fail(w, r, err)
		return 0, 0, false
	}
	id, err := pathID(r, "boardID")
	if err != nil {
		s.fail(w, r, err)
		return 0, 0, false
	}
	return actorID, types.BoardID(id), true
}

// fail maps err and writes it, logging server-side failures
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	domainErr := mapError(err)
	if domainErr.Status >= http.StatusInternalServerError {
		slog.Error("request failed",
			"request_id", RequestID(r.Context()),
			"path", r.URL.Path,
			"error", err)
	}
	writeError(w, domainErr)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Debug("failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err *DomainError) {
	writeJSON(w, err.Status, map[string]any{
		"code":  err.Code,
		"error": err.Message,
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, target any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return domainError(http.StatusBadRequest, "INVALID_BODY", "request body is empty")
		}
		return domainError(http.StatusBadRequest, "INVALID_BODY", "invalid JSON body")
	}
	return nil
}
