package domain

import (
	"context"
	"strings"
)

// ProgramService manages reusable workout templates.
type ProgramService struct {
	programs ProgramRepository
	ids      IDGenerator
}

// NewProgramService constructs a ProgramService.
func NewProgramService(programs ProgramRepository, ids IDGenerator) *ProgramService {
	return &ProgramService{programs: programs, ids: ids}
}

// CreateProgramInput captures the payload for a new program.
type CreateProgramInput struct {
	UserID      string
	Name        string
	Type        WorkoutType
	Description string
	Exercises   []ProgramExercise
}

// Validate ensures the input is well formed.
func (in CreateProgramInput) Validate() error {
	if strings.TrimSpace(in.UserID) == "" {
		return ErrValidation("user_id", "must not be empty")
	}
	if strings.TrimSpace(in.Name) == "" {
		return ErrValidation("name", "must not be empty")
	}
	if !ValidWorkoutType(in.Type) {
		return ErrValidation("type", "unknown workout type")
	}
	for _, ex := range in.Exercises {
		if err := validateExercise(ex); err != nil {
			return err
		}
	}
	return nil
}

func validateExercise(ex ProgramExercise) error {
	if strings.TrimSpace(ex.Name) == "" {
		return ErrValidation("exercise.name", "must not be empty")
	}
	if ex.Sets <= 0 {
		return ErrValidation("exercise.sets", "must be > 0")
	}
	if ex.Reps <= 0 {
		return ErrValidation("exercise.reps", "must be > 0")
	}
	return nil
}

// CreateProgram persists a new program template.
func (s *ProgramService) CreateProgram(ctx context.Context, in CreateProgramInput) (*Program, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	now := nowUTC()
	program := &Program{
		ID:          s.ids.NewID(),
		UserID:      in.UserID,
		Name:        in.Name,
		Type:        in.Type,
		Description: in.Description,
		Exercises:   in.Exercises,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.programs.Save(ctx, program); err != nil {
		return nil, err
	}
	return program, nil
}

// ProgramUpdate carries the optional fields of a program update.
type ProgramUpdate struct {
	Name        *string
	Type        *WorkoutType
	Description *string
	Exercises   []ProgramExercise
}

// UpdateProgram edits template details, replacing the exercise list when one
// is supplied.
func (s *ProgramService) UpdateProgram(ctx context.Context, id string, upd ProgramUpdate) (*Program, error) {
	program, err := s.getProgram(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		if strings.TrimSpace(*upd.Name) == "" {
			return nil, ErrValidation("name", "must not be empty")
		}
		program.Name = *upd.Name
	}
	if upd.Type != nil {
		if !ValidWorkoutType(*upd.Type) {
			return nil, ErrValidation("type", "unknown workout type")
		}
		program.Type = *upd.Type
	}
	if upd.Description != nil {
		program.Description = *upd.Description
	}
	if upd.Exercises != nil {
		for _, ex := range upd.Exercises {
			if err := validateExercise(ex); err != nil {
				return nil, err
			}
		}
		program.Exercises = upd.Exercises
	}
	program.UpdatedAt = nowUTC()

	if err := s.programs.Save(ctx, program); err != nil {
		return nil, err
	}
	return program, nil
}

// GetProgram fetches a program by id.
func (s *ProgramService) GetProgram(ctx context.Context, id string) (*Program, error) {
	return s.getProgram(ctx, id)
}

// ListProgramsByUser returns all of a user's programs.
func (s *ProgramService) ListProgramsByUser(ctx context.Context, userID string) ([]Program, error) {
	return s.programs.ListByUser(ctx, userID)
}

// ListProgramsByUserAndType filters a user's programs by workout type.
func (s *ProgramService) ListProgramsByUserAndType(ctx context.Context, userID string, t WorkoutType) ([]Program, error) {
	programs, err := s.programs.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	filtered := make([]Program, 0, len(programs))
	for _, p := range programs {
		if p.Type == t {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// DeleteProgram removes a template.
func (s *ProgramService) DeleteProgram(ctx context.Context, id string) error {
	if _, err := s.getProgram(ctx, id); err != nil {
		return err
	}
	return s.programs.Delete(ctx, id)
}

// AddExercise appends an exercise to the program.
func (s *ProgramService) AddExercise(ctx context.Context, programID string, ex ProgramExercise) (*Program, error) {
	program, err := s.getProgram(ctx, programID)
	if err != nil {
		return nil, err
	}
	if err := validateExercise(ex); err != nil {
		return nil, err
	}
	program.AddExercise(ex)
	if err := s.programs.Save(ctx, program); err != nil {
		return nil, err
	}
	return program, nil
}

// UpdateExercise replaces the named exercise.
func (s *ProgramService) UpdateExercise(ctx context.Context, programID, name string, ex ProgramExercise) (*Program, error) {
	program, err := s.getProgram(ctx, programID)
	if err != nil {
		return nil, err
	}
	ex.Name = name
	if err := validateExercise(ex); err != nil {
		return nil, err
	}
	if !program.UpdateExercise(name, ex) {
		return nil, ErrNotFound("exercise", name)
	}
	if err := s.programs.Save(ctx, program); err != nil {
		return nil, err
	}
	return program, nil
}

// RemoveExercise drops the named exercise from the program.
func (s *ProgramService) RemoveExercise(ctx context.Context, programID, name string) (*Program, error) {
	program, err := s.getProgram(ctx, programID)
	if err != nil {
		return nil, err
	}
	program.RemoveExercise(name)
	if err := s.programs.Save(ctx, program); err != nil {
		return nil, err
	}
	return program, nil
}

func (s *ProgramService) getProgram(ctx context.Context, id string) (*Program, error) {
	program, err := s.programs.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if program == nil {
		return nil, ErrNotFound("program", id)
	}
	return program, nil
}
