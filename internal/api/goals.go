package api

import (
	"encoding/json"
	"net/http"
	"time"

	"example.com/fitpoints/internal/domain"
)

func (h *Handler) goalsRoot(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createGoal(w, r)
	case http.MethodGet:
		h.listGoals(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) goalSubtree(w http.ResponseWriter, r *http.Request) {
	parts := pathSuffix(r.URL.Path, "/v1/goals/")
	switch {
	case len(parts) == 1:
		h.goalByID(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "reset":
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
			return
		}
		h.resetGoal(w, r, parts[0])
	default:
		writeError(w, http.StatusBadRequest, "invalid_request", "unknown goal path")
	}
}

func (h *Handler) goalByID(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		h.getGoal(w, r, id)
	case http.MethodPatch:
		h.updateGoal(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

// CreateGoalRequest is the payload for POST /v1/goals.
type CreateGoalRequest struct {
	UserID         string `json:"user_id"`
	Name           string `json:"name"`
	PointsRequired int    `json:"points_required"`
	Description    string `json:"description,omitempty"`
	RewardID       string `json:"reward_id,omitempty"`
}

// GoalView exposes full details about a goal.
type GoalView struct {
	GoalID            string    `json:"goal_id"`
	UserID            string    `json:"user_id"`
	Name              string    `json:"name"`
	Description       string    `json:"description,omitempty"`
	PointsRequired    int       `json:"points_required"`
	PointsAccumulated int       `json:"points_accumulated"`
	Completed         bool      `json:"completed"`
	RewardID          string    `json:"reward_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ListGoalsResponse packages list results.
type ListGoalsResponse struct {
	Items []GoalView `json:"items"`
}

func (h *Handler) createGoal(w http.ResponseWriter, r *http.Request) {
	var req CreateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	goal, err := h.goals.CreateGoal(r.Context(), domain.CreateGoalInput{
		UserID:         req.UserID,
		Name:           req.Name,
		PointsRequired: req.PointsRequired,
		Description:    req.Description,
		RewardID:       req.RewardID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toGoalView(*goal))
}

func (h *Handler) listGoals(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "missing user_id parameter")
		return
	}

	var goals []domain.Goal
	var err error
	if r.URL.Query().Get("completed") == "true" {
		goals, err = h.goals.ListCompletedGoals(r.Context(), userID)
	} else {
		goals, err = h.goals.ListGoalsByUser(r.Context(), userID)
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}

	items := make([]GoalView, 0, len(goals))
	for _, goal := range goals {
		items = append(items, toGoalView(goal))
	}
	writeJSON(w, http.StatusOK, ListGoalsResponse{Items: items})
}

func (h *Handler) getGoal(w http.ResponseWriter, r *http.Request, id string) {
	goal, err := h.goals.GetGoal(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGoalView(*goal))
}

// UpdateGoalRequest is the payload for PATCH /v1/goals/{id}.
type UpdateGoalRequest struct {
	Name           *string `json:"name,omitempty"`
	PointsRequired *int    `json:"points_required,omitempty"`
	Description    *string `json:"description,omitempty"`
	RewardID       *string `json:"reward_id,omitempty"`
}

func (h *Handler) updateGoal(w http.ResponseWriter, r *http.Request, id string) {
	var req UpdateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	goal, err := h.goals.UpdateGoal(r.Context(), id, domain.GoalUpdate{
		Name:           req.Name,
		PointsRequired: req.PointsRequired,
		Description:    req.Description,
		RewardID:       req.RewardID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGoalView(*goal))
}

func (h *Handler) resetGoal(w http.ResponseWriter, r *http.Request, id string) {
	goal, err := h.goals.ResetGoal(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGoalView(*goal))
}

func toGoalView(goal domain.Goal) GoalView {
	return GoalView{
		GoalID:            goal.ID,
		UserID:            goal.UserID,
		Name:              goal.Name,
		Description:       goal.Description,
		PointsRequired:    goal.PointsRequired,
		PointsAccumulated: goal.PointsAccumulated,
		Completed:         goal.Completed,
		RewardID:          goal.RewardID,
		CreatedAt:         goal.CreatedAt,
		UpdatedAt:         goal.UpdatedAt,
	}
}
