package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"example.com/fitpoints/internal/domain"
)

func (h *Handler) usersRoot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	h.createUser(w, r)
}

func (h *Handler) userSubtree(w http.ResponseWriter, r *http.Request) {
	parts := pathSuffix(r.URL.Path, "/v1/users/")
	if len(parts) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing user id")
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	id := parts[0]
	switch {
	case len(parts) == 1:
		h.getUser(w, r, id)
	case len(parts) == 2 && parts[1] == "rewards":
		h.userRewards(w, r, id)
	case len(parts) == 2 && parts[1] == "stats":
		h.userStats(w, r, id)
	case len(parts) == 2 && parts[1] == "points":
		h.userPoints(w, r, id)
	default:
		writeError(w, http.StatusBadRequest, "invalid_request", "unknown user path")
	}
}

// CreateUserRequest is the payload for POST /v1/users.
type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// UserView exposes account details and the current balance.
type UserView struct {
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Points    int       `json:"points"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "name is required")
		return
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:        h.ids.NewID(),
		Name:      req.Name,
		Email:     req.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.users.Save(r.Context(), user); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserView(*user))
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request, id string) {
	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "not_found", "user not found")
		return
	}
	writeJSON(w, http.StatusOK, toUserView(*user))
}

// UnlockedRewardsResponse lists the catalog entries a user has unlocked.
type UnlockedRewardsResponse struct {
	Items []RewardView `json:"items"`
}

func (h *Handler) userRewards(w http.ResponseWriter, r *http.Request, id string) {
	rewards, err := h.rewards.GetUnlockedRewards(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	items := make([]RewardView, 0, len(rewards))
	for _, reward := range rewards {
		items = append(items, toRewardView(reward))
	}
	writeJSON(w, http.StatusOK, UnlockedRewardsResponse{Items: items})
}

// WeeklyStatView is one (week, workout type) aggregate.
type WeeklyStatView struct {
	WeekStart    time.Time `json:"week_start"`
	WorkoutType  string    `json:"workout_type"`
	SessionCount int       `json:"session_count"`
	TotalMinutes int       `json:"total_minutes"`
}

// WeeklyStatsResponse packages the stats projection for a user.
type WeeklyStatsResponse struct {
	Items []WeeklyStatView `json:"items"`
}

func (h *Handler) userStats(w http.ResponseWriter, r *http.Request, id string) {
	weeks := queryInt(r, "weeks", 4)

	stats, err := h.stats.WeeklyStats(r.Context(), id, weeks)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	items := make([]WeeklyStatView, 0, len(stats))
	for _, stat := range stats {
		items = append(items, WeeklyStatView{
			WeekStart:    stat.WeekStart,
			WorkoutType:  stat.WorkoutType,
			SessionCount: stat.SessionCount,
			TotalMinutes: stat.TotalMinutes,
		})
	}
	writeJSON(w, http.StatusOK, WeeklyStatsResponse{Items: items})
}

// WeeklyPointsResponse reports scoring state for one week.
type WeeklyPointsResponse struct {
	UserID     string    `json:"user_id"`
	WeekStart  time.Time `json:"week_start"`
	Calculated int       `json:"calculated"`
	Balance    int       `json:"balance"`
}

func (h *Handler) userPoints(w http.ResponseWriter, r *http.Request, id string) {
	at := time.Now()
	if raw := r.URL.Query().Get("week"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", "invalid week parameter")
			return
		}
		at = parsed
	}
	weekStart := domain.StartOfWeek(at)

	calculated, err := h.points.CalculateWeeklyPoints(r.Context(), id, weekStart)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "not_found", "user not found")
		return
	}

	writeJSON(w, http.StatusOK, WeeklyPointsResponse{
		UserID:     id,
		WeekStart:  weekStart,
		Calculated: calculated,
		Balance:    user.Points,
	})
}

func toUserView(user domain.User) UserView {
	return UserView{
		UserID:    user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Points:    user.Points,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
