package api

import (
	"encoding/json"
	"net/http"
	"time"

	"example.com/fitpoints/internal/domain"
)

func (h *Handler) programsRoot(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createProgram(w, r)
	case http.MethodGet:
		h.listPrograms(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) programSubtree(w http.ResponseWriter, r *http.Request) {
	parts := pathSuffix(r.URL.Path, "/v1/programs/")
	switch {
	case len(parts) == 1:
		h.programByID(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "exercises":
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
			return
		}
		h.addExercise(w, r, parts[0])
	case len(parts) == 3 && parts[1] == "exercises":
		h.exerciseByName(w, r, parts[0], parts[2])
	default:
		writeError(w, http.StatusBadRequest, "invalid_request", "unknown program path")
	}
}

func (h *Handler) programByID(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		h.getProgram(w, r, id)
	case http.MethodPatch:
		h.updateProgram(w, r, id)
	case http.MethodDelete:
		h.deleteProgram(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

// ExercisePayload mirrors one exercise of a program template.
type ExercisePayload struct {
	Name        string  `json:"name"`
	Sets        int     `json:"sets"`
	Reps        int     `json:"reps"`
	WeightKG    float64 `json:"weight_kg,omitempty"`
	DurationMin int     `json:"duration_min,omitempty"`
	Notes       string  `json:"notes,omitempty"`
}

// CreateProgramRequest is the payload for POST /v1/programs.
type CreateProgramRequest struct {
	UserID      string            `json:"user_id"`
	Name        string            `json:"name"`
	WorkoutType string            `json:"workout_type"`
	Description string            `json:"description,omitempty"`
	Exercises   []ExercisePayload `json:"exercises,omitempty"`
}

// ProgramView exposes full details about a program template.
type ProgramView struct {
	ProgramID   string            `json:"program_id"`
	UserID      string            `json:"user_id"`
	Name        string            `json:"name"`
	WorkoutType string            `json:"workout_type"`
	Description string            `json:"description,omitempty"`
	Exercises   []ExercisePayload `json:"exercises"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// ListProgramsResponse packages list results.
type ListProgramsResponse struct {
	Items []ProgramView `json:"items"`
}

func (h *Handler) createProgram(w http.ResponseWriter, r *http.Request) {
	var req CreateProgramRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	program, err := h.programs.CreateProgram(r.Context(), domain.CreateProgramInput{
		UserID:      req.UserID,
		Name:        req.Name,
		Type:        domain.WorkoutType(req.WorkoutType),
		Description: req.Description,
		Exercises:   toDomainExercises(req.Exercises),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProgramView(*program))
}

func (h *Handler) listPrograms(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "missing user_id parameter")
		return
	}

	var programs []domain.Program
	var err error
	if workoutType := r.URL.Query().Get("workout_type"); workoutType != "" {
		programs, err = h.programs.ListProgramsByUserAndType(r.Context(), userID, domain.WorkoutType(workoutType))
	} else {
		programs, err = h.programs.ListProgramsByUser(r.Context(), userID)
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}

	items := make([]ProgramView, 0, len(programs))
	for _, program := range programs {
		items = append(items, toProgramView(program))
	}
	writeJSON(w, http.StatusOK, ListProgramsResponse{Items: items})
}

func (h *Handler) getProgram(w http.ResponseWriter, r *http.Request, id string) {
	program, err := h.programs.GetProgram(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProgramView(*program))
}

// UpdateProgramRequest is the payload for PATCH /v1/programs/{id}.
type UpdateProgramRequest struct {
	Name        *string           `json:"name,omitempty"`
	WorkoutType *string           `json:"workout_type,omitempty"`
	Description *string           `json:"description,omitempty"`
	Exercises   []ExercisePayload `json:"exercises,omitempty"`
}

func (h *Handler) updateProgram(w http.ResponseWriter, r *http.Request, id string) {
	var req UpdateProgramRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	upd := domain.ProgramUpdate{
		Name:        req.Name,
		Description: req.Description,
		Exercises:   toDomainExercises(req.Exercises),
	}
	if req.WorkoutType != nil {
		t := domain.WorkoutType(*req.WorkoutType)
		upd.Type = &t
	}

	program, err := h.programs.UpdateProgram(r.Context(), id, upd)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProgramView(*program))
}

func (h *Handler) deleteProgram(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.programs.DeleteProgram(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) addExercise(w http.ResponseWriter, r *http.Request, programID string) {
	var req ExercisePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	program, err := h.programs.AddExercise(r.Context(), programID, toDomainExercise(req))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProgramView(*program))
}

func (h *Handler) exerciseByName(w http.ResponseWriter, r *http.Request, programID, name string) {
	switch r.Method {
	case http.MethodPut:
		var req ExercisePayload
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
			return
		}
		program, err := h.programs.UpdateExercise(r.Context(), programID, name, toDomainExercise(req))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toProgramView(*program))
	case http.MethodDelete:
		program, err := h.programs.RemoveExercise(r.Context(), programID, name)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toProgramView(*program))
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func toDomainExercise(p ExercisePayload) domain.ProgramExercise {
	return domain.ProgramExercise{
		Name:        p.Name,
		Sets:        p.Sets,
		Reps:        p.Reps,
		WeightKG:    p.WeightKG,
		DurationMin: p.DurationMin,
		Notes:       p.Notes,
	}
}

func toDomainExercises(payloads []ExercisePayload) []domain.ProgramExercise {
	if payloads == nil {
		return nil
	}
	exercises := make([]domain.ProgramExercise, 0, len(payloads))
	for _, p := range payloads {
		exercises = append(exercises, toDomainExercise(p))
	}
	return exercises
}

func toProgramView(program domain.Program) ProgramView {
	exercises := make([]ExercisePayload, 0, len(program.Exercises))
	for _, ex := range program.Exercises {
		exercises = append(exercises, ExercisePayload{
			Name:        ex.Name,
			Sets:        ex.Sets,
			Reps:        ex.Reps,
			WeightKG:    ex.WeightKG,
			DurationMin: ex.DurationMin,
			Notes:       ex.Notes,
		})
	}
	return ProgramView{
		ProgramID:   program.ID,
		UserID:      program.UserID,
		Name:        program.Name,
		WorkoutType: string(program.Type),
		Description: program.Description,
		Exercises:   exercises,
		CreatedAt:   program.CreatedAt,
		UpdatedAt:   program.UpdatedAt,
	}
}
