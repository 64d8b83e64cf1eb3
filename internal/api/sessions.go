package api

import (
	"encoding/json"
	"net/http"
	"time"

	"example.com/fitpoints/internal/domain"
	"example.com/fitpoints/internal/persistence"
)

func (h *Handler) sessionsRoot(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.logSession(w, r)
	case http.MethodGet:
		h.listSessions(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) sessionByID(w http.ResponseWriter, r *http.Request) {
	parts := pathSuffix(r.URL.Path, "/v1/sessions/")
	if len(parts) != 1 {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing session id")
		return
	}
	id := parts[0]

	switch r.Method {
	case http.MethodGet:
		h.getSession(w, r, id)
	case http.MethodPatch:
		h.updateSession(w, r, id)
	case http.MethodDelete:
		h.deleteSession(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

// LogSessionRequest is the payload for POST /v1/sessions.
type LogSessionRequest struct {
	UserID      string    `json:"user_id"`
	WorkoutType string    `json:"workout_type"`
	Date        time.Time `json:"date"`
	DurationMin int       `json:"duration_min"`
	ProgramID   string    `json:"program_id,omitempty"`
	Notes       string    `json:"notes,omitempty"`
}

// SessionView exposes full details about a session.
type SessionView struct {
	SessionID   string    `json:"session_id"`
	UserID      string    `json:"user_id"`
	WorkoutType string    `json:"workout_type"`
	Date        time.Time `json:"date"`
	DurationMin int       `json:"duration_min"`
	ProgramID   string    `json:"program_id,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SweepFailureView reports one reward the automatic sweep could not unlock.
type SweepFailureView struct {
	RewardID string `json:"reward_id"`
	Reason   string `json:"reason"`
}

// LogSessionResponse reports everything the session triggered.
type LogSessionResponse struct {
	Session         SessionView        `json:"session"`
	PointsEarned    int                `json:"points_earned"`
	UpdatedGoals    []GoalView         `json:"updated_goals"`
	UnlockedRewards []UserRewardView   `json:"unlocked_rewards"`
	SweepFailures   []SweepFailureView `json:"sweep_failures,omitempty"`
}

// ListSessionsResponse packages list results.
type ListSessionsResponse struct {
	Items      []SessionView `json:"items"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

func (h *Handler) logSession(w http.ResponseWriter, r *http.Request) {
	var req LogSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	report, err := h.tracker.LogSession(r.Context(), domain.CreateSessionInput{
		UserID:      req.UserID,
		Type:        domain.WorkoutType(req.WorkoutType),
		Date:        req.Date,
		DurationMin: req.DurationMin,
		ProgramID:   req.ProgramID,
		Notes:       req.Notes,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := LogSessionResponse{
		Session:         toSessionView(*report.Session),
		PointsEarned:    report.PointsEarned,
		UpdatedGoals:    make([]GoalView, 0, len(report.UpdatedGoals)),
		UnlockedRewards: make([]UserRewardView, 0, len(report.UnlockedRewards)),
	}
	for _, goal := range report.UpdatedGoals {
		resp.UpdatedGoals = append(resp.UpdatedGoals, toGoalView(goal))
	}
	for _, row := range report.UnlockedRewards {
		resp.UnlockedRewards = append(resp.UnlockedRewards, toUserRewardView(row))
	}
	for _, failure := range report.SweepFailures {
		resp.SweepFailures = append(resp.SweepFailures, SweepFailureView{
			RewardID: failure.RewardID,
			Reason:   failure.Err.Error(),
		})
	}

	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) listSessions(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "missing user_id parameter")
		return
	}

	limit := queryInt(r, "limit", 20)

	cursor, err := persistence.DecodeCursor(r.URL.Query().Get("cursor"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "invalid cursor")
		return
	}

	sessions, next, err := h.sessions.ListSessionsByUser(r.Context(), userID, cursor, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	items := make([]SessionView, 0, len(sessions))
	for _, session := range sessions {
		items = append(items, toSessionView(session))
	}

	writeJSON(w, http.StatusOK, ListSessionsResponse{
		Items:      items,
		NextCursor: persistence.EncodeCursor(next),
	})
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request, id string) {
	session, err := h.sessions.GetSession(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionView(*session))
}

// UpdateSessionRequest is the payload for PATCH /v1/sessions/{id}.
type UpdateSessionRequest struct {
	WorkoutType *string    `json:"workout_type,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
	DurationMin *int       `json:"duration_min,omitempty"`
	ProgramID   *string    `json:"program_id,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
}

func (h *Handler) updateSession(w http.ResponseWriter, r *http.Request, id string) {
	var req UpdateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	upd := domain.SessionUpdate{
		Date:        req.Date,
		DurationMin: req.DurationMin,
		ProgramID:   req.ProgramID,
		Notes:       req.Notes,
	}
	if req.WorkoutType != nil {
		t := domain.WorkoutType(*req.WorkoutType)
		upd.Type = &t
	}

	session, err := h.sessions.UpdateSession(r.Context(), id, upd)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionView(*session))
}

func (h *Handler) deleteSession(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.sessions.DeleteSession(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toSessionView(session domain.WorkoutSession) SessionView {
	return SessionView{
		SessionID:   session.ID,
		UserID:      session.UserID,
		WorkoutType: string(session.Type),
		Date:        session.Date,
		DurationMin: session.DurationMin,
		ProgramID:   session.ProgramID,
		Notes:       session.Notes,
		CreatedAt:   session.CreatedAt,
		UpdatedAt:   session.UpdatedAt,
	}
}
