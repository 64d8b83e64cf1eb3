package api

import (
	"encoding/json"
	"net/http"
	"time"

	"example.com/fitpoints/internal/domain"
)

func (h *Handler) rewardsRoot(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createReward(w, r)
	case http.MethodGet:
		h.listRewards(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) rewardSubtree(w http.ResponseWriter, r *http.Request) {
	parts := pathSuffix(r.URL.Path, "/v1/rewards/")
	switch {
	case len(parts) == 1:
		h.rewardByID(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "unlock":
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
			return
		}
		h.unlockReward(w, r, parts[0])
	default:
		writeError(w, http.StatusBadRequest, "invalid_request", "unknown reward path")
	}
}

func (h *Handler) rewardByID(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		h.getReward(w, r, id)
	case http.MethodPatch:
		h.updateReward(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

// CreateRewardRequest is the payload for POST /v1/rewards.
type CreateRewardRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Tier        int    `json:"tier"`
	PointsCost  int    `json:"points_cost"`
	ImageURL    string `json:"image_url,omitempty"`
}

// RewardView exposes full details about a catalog entry.
type RewardView struct {
	RewardID    string    `json:"reward_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Tier        int       `json:"tier"`
	PointsCost  int       `json:"points_cost"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UserRewardView exposes one user's unlock state for a reward.
type UserRewardView struct {
	UserRewardID string     `json:"user_reward_id"`
	UserID       string     `json:"user_id"`
	RewardID     string     `json:"reward_id"`
	Unlocked     bool       `json:"unlocked"`
	UnlockedAt   *time.Time `json:"unlocked_at,omitempty"`
}

// ListRewardsResponse packages catalog results.
type ListRewardsResponse struct {
	Items []RewardView `json:"items"`
}

func (h *Handler) createReward(w http.ResponseWriter, r *http.Request) {
	var req CreateRewardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	reward, err := h.rewards.CreateReward(r.Context(), domain.CreateRewardInput{
		Name:        req.Name,
		Description: req.Description,
		Tier:        domain.RewardTier(req.Tier),
		PointsCost:  req.PointsCost,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRewardView(*reward))
}

func (h *Handler) listRewards(w http.ResponseWriter, r *http.Request) {
	rewards, err := h.rewards.ListRewards(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	items := make([]RewardView, 0, len(rewards))
	for _, reward := range rewards {
		items = append(items, toRewardView(reward))
	}
	writeJSON(w, http.StatusOK, ListRewardsResponse{Items: items})
}

func (h *Handler) getReward(w http.ResponseWriter, r *http.Request, id string) {
	reward, err := h.rewards.GetReward(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRewardView(*reward))
}

// UpdateRewardRequest is the payload for PATCH /v1/rewards/{id}.
type UpdateRewardRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Tier        *int    `json:"tier,omitempty"`
	PointsCost  *int    `json:"points_cost,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
}

func (h *Handler) updateReward(w http.ResponseWriter, r *http.Request, id string) {
	var req UpdateRewardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	upd := domain.RewardUpdate{
		Name:        req.Name,
		Description: req.Description,
		PointsCost:  req.PointsCost,
		ImageURL:    req.ImageURL,
	}
	if req.Tier != nil {
		tier := domain.RewardTier(*req.Tier)
		upd.Tier = &tier
	}

	reward, err := h.rewards.UpdateReward(r.Context(), id, upd)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRewardView(*reward))
}

// UnlockRewardRequest is the payload for POST /v1/rewards/{id}/unlock.
type UnlockRewardRequest struct {
	UserID string `json:"user_id"`
}

func (h *Handler) unlockReward(w http.ResponseWriter, r *http.Request, rewardID string) {
	var req UnlockRewardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "missing user_id")
		return
	}

	row, err := h.rewards.UnlockReward(r.Context(), req.UserID, rewardID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserRewardView(*row))
}

func toRewardView(reward domain.Reward) RewardView {
	return RewardView{
		RewardID:    reward.ID,
		Name:        reward.Name,
		Description: reward.Description,
		Tier:        int(reward.Tier),
		PointsCost:  reward.PointsCost,
		ImageURL:    reward.ImageURL,
		CreatedAt:   reward.CreatedAt,
		UpdatedAt:   reward.UpdatedAt,
	}
}

func toUserRewardView(row domain.UserReward) UserRewardView {
	return UserRewardView{
		UserRewardID: row.ID,
		UserID:       row.UserID,
		RewardID:     row.RewardID,
		Unlocked:     row.Unlocked,
		UnlockedAt:   row.UnlockedAt,
	}
}
