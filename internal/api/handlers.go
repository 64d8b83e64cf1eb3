// Package api exposes HTTP handlers for the points engine.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"example.com/fitpoints/internal/domain"
)

// Handler coordinates HTTP requests with the domain services.
type Handler struct {
	tracker  *domain.Tracker
	sessions *domain.SessionService
	programs *domain.ProgramService
	goals    *domain.GoalService
	rewards  *domain.RewardService
	points   *domain.PointsService
	stats    *domain.StatsService
	users    domain.UserRepository
	ids      domain.IDGenerator
}

// Services bundles the constructor dependencies of a Handler.
type Services struct {
	Tracker  *domain.Tracker
	Sessions *domain.SessionService
	Programs *domain.ProgramService
	Goals    *domain.GoalService
	Rewards  *domain.RewardService
	Points   *domain.PointsService
	Stats    *domain.StatsService
	Users    domain.UserRepository
	IDs      domain.IDGenerator
}

// NewHandler builds a Handler.
func NewHandler(s Services) *Handler {
	ids := s.IDs
	if ids == nil {
		ids = domain.UUIDGenerator{}
	}
	return &Handler{
		tracker:  s.Tracker,
		sessions: s.Sessions,
		programs: s.Programs,
		goals:    s.Goals,
		rewards:  s.Rewards,
		points:   s.Points,
		stats:    s.Stats,
		users:    s.Users,
		ids:      ids,
	}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/sessions", h.sessionsRoot)
	mux.HandleFunc("/v1/sessions/", h.sessionByID)
	mux.HandleFunc("/v1/programs", h.programsRoot)
	mux.HandleFunc("/v1/programs/", h.programSubtree)
	mux.HandleFunc("/v1/goals", h.goalsRoot)
	mux.HandleFunc("/v1/goals/", h.goalSubtree)
	mux.HandleFunc("/v1/rewards", h.rewardsRoot)
	mux.HandleFunc("/v1/rewards/", h.rewardSubtree)
	mux.HandleFunc("/v1/users", h.usersRoot)
	mux.HandleFunc("/v1/users/", h.userSubtree)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// pathSuffix strips the prefix and splits the remainder on "/". Empty when
// the path equals the prefix.
func pathSuffix(path, prefix string) []string {
	rest := strings.TrimPrefix(path, prefix)
	rest = strings.Trim(rest, "/")
	if rest == "" {
		return nil
	}
	return strings.Split(rest, "/")
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

// writeDomainError maps typed domain errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	var notFound *domain.NotFoundError
	if errors.As(err, &notFound) {
		writeError(w, http.StatusNotFound, "not_found", notFound.Error())
		return
	}
	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		writeError(w, http.StatusBadRequest, "validation_failed", validation.Error())
		return
	}
	var insufficient *domain.InsufficientPointsError
	if errors.As(err, &insufficient) {
		writeError(w, http.StatusUnprocessableEntity, "insufficient_points", insufficient.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, "server_error", err.Error())
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
