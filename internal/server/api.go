package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/greenside-labs/go-putt/internal/applog"
	"github.com/greenside-labs/go-putt/internal/putt"
	"github.com/greenside-labs/go-putt/internal/query"
	"github.com/greenside-labs/go-putt/internal/stats"
	"github.com/greenside-labs/go-putt/internal/store"
)

// maxBodyBytes bounds a submitted envelope. A session with every drill
// filled in is a few KB; anything near this limit is not a session.
const maxBodyBytes = 1 << 20

// msgPlayerIDParam is the GET-side counterpart of putt.ErrPlayerID: the
// same character rules, phrased for a query parameter. Part of the wire
// contract like the validator messages.
const msgPlayerIDParam = "playerId query param is required (A-Z a-z 0-9 _ - only, max 64)"

// SubmitResponse is returned by POST /sessions on success.
type SubmitResponse struct {
	OK        bool   `json:"ok"`
	Stored    bool   `json:"stored"`
	SessionID string `json:"sessionId"`
	PlayerID  string `json:"playerId"`
}

// HistoryResponse is returned by GET /sessions. Sessions carries the
// stored lines verbatim so unknown envelope fields survive the round trip.
type HistoryResponse struct {
	OK       bool              `json:"ok"`
	PlayerID string            `json:"playerId"`
	Count    int               `json:"count"`
	Sessions []json.RawMessage `json:"sessions"`
}

// StatsResponse is returned by GET /stats.
type StatsResponse struct {
	OK       bool                   `json:"ok"`
	PlayerID string                 `json:"playerId"`
	Meta     stats.Meta             `json:"meta"`
	Games    map[string]stats.Entry `json:"games"`
}

// ErrorResponse is the error body for every non-2xx response.
type ErrorResponse struct {
	OK        bool   `json:"ok"`
	Error     string `json:"error"`
	SessionID string `json:"sessionId,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// handleSubmitSession stores one envelope: validate, then append under the
// store's exclusive lock. Validation failures are client errors with the
// violation spelled out; duplicates get their own status so clients treat
// them as already-saved rather than as a bug.
func (s *Server) handleSubmitSession(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		sessionsRejectedTotal.WithLabelValues("empty_body").Inc()
		writeError(w, http.StatusBadRequest, putt.ErrEmptyBody.Error())
		return
	}

	env, err := putt.ParseAndValidate(raw)
	if err != nil {
		sessionsRejectedTotal.WithLabelValues(putt.Reason(err)).Inc()
		applog.Log.Info("Rejected session", "reason", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess := env.Session
	if err := s.store.Append(raw, sess.SessionID); err != nil {
		if errors.Is(err, store.ErrDuplicateSession) {
			sessionsDuplicateTotal.Inc()
			applog.Log.Info("Duplicate session", "session_id", sess.SessionID, "player_id", sess.PlayerID)
			writeJSON(w, http.StatusConflict, ErrorResponse{
				Error:     "Duplicate sessionId (already stored)",
				SessionID: sess.SessionID,
			})
			return
		}
		applog.Log.Error("Append failed", "session_id", sess.SessionID, "error", err)
		writeError(w, http.StatusInternalServerError, "Could not store session")
		return
	}

	sessionsAppendedTotal.Inc()
	appendDurationSeconds.Observe(time.Since(start).Seconds())
	applog.Log.Info("Stored session",
		"session_id", sess.SessionID,
		"player_id", sess.PlayerID,
		"games", len(sess.Games))

	writeJSON(w, http.StatusCreated, SubmitResponse{
		OK:        true,
		Stored:    true,
		SessionID: sess.SessionID,
		PlayerID:  sess.PlayerID,
	})
}

// handleGetSessions returns history for one player, newest first.
func (s *Server) handleGetSessions(w http.ResponseWriter, r *http.Request) {
	playerID := strings.TrimSpace(r.URL.Query().Get("playerId"))
	if !putt.ValidPlayerID(playerID) {
		writeError(w, http.StatusBadRequest, msgPlayerIDParam)
		return
	}

	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		// Non-numeric values fall through to the default.
		limit, _ = strconv.Atoi(l)
	}

	records, err := query.History(s.store, playerID, limit)
	if err != nil {
		applog.Log.Error("History query failed", "player_id", playerID, "error", err)
		writeError(w, http.StatusInternalServerError, "Could not read session history")
		return
	}
	sessions := make([]json.RawMessage, 0, len(records))
	for _, rec := range records {
		sessions = append(sessions, rec.Raw)
	}

	historyRequestsTotal.Inc()
	writeJSON(w, http.StatusOK, HistoryResponse{
		OK:       true,
		PlayerID: playerID,
		Count:    len(sessions),
		Sessions: sessions,
	})
}

// handleGetStats returns the per-drill last/personal-best summary.
func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	playerID := strings.TrimSpace(r.URL.Query().Get("playerId"))
	if !putt.ValidPlayerID(playerID) {
		writeError(w, http.StatusBadRequest, msgPlayerIDParam)
		return
	}

	start := time.Now()
	summary, err := s.stats.Compute(playerID)
	if err != nil {
		applog.Log.Error("Stats scan failed", "player_id", playerID, "error", err)
		writeError(w, http.StatusInternalServerError, "Could not compute stats")
		return
	}
	statsScanDurationSeconds.Observe(time.Since(start).Seconds())

	writeJSON(w, http.StatusOK, StatsResponse{
		OK:       true,
		PlayerID: summary.PlayerID,
		Meta:     summary.Meta,
		Games:    summary.Games,
	})
}

// handleHealth returns a health check response.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
