package domain

import (
	"context"
	"strings"
	"time"
)

// SessionService manages workout sessions.
type SessionService struct {
	sessions SessionRepository
	programs ProgramRepository
	ids      IDGenerator
}

// NewSessionService constructs a SessionService.
func NewSessionService(sessions SessionRepository, programs ProgramRepository, ids IDGenerator) *SessionService {
	return &SessionService{sessions: sessions, programs: programs, ids: ids}
}

// CreateSessionInput captures the payload for a new session.
type CreateSessionInput struct {
	UserID      string
	Type        WorkoutType
	Date        time.Time
	DurationMin int
	ProgramID   string
	Notes       string
}

// Validate ensures the input is well formed.
func (in CreateSessionInput) Validate() error {
	if strings.TrimSpace(in.UserID) == "" {
		return ErrValidation("user_id", "must not be empty")
	}
	if !ValidWorkoutType(in.Type) {
		return ErrValidation("type", "unknown workout type")
	}
	if in.Date.IsZero() {
		return ErrValidation("date", "must be set")
	}
	if in.DurationMin <= 0 {
		return ErrValidation("duration_min", "must be > 0")
	}
	return nil
}

// CreateSession persists a new workout session, validating that any linked
// program exists.
func (s *SessionService) CreateSession(ctx context.Context, in CreateSessionInput) (*WorkoutSession, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	if in.ProgramID != "" {
		if err := s.requireProgram(ctx, in.ProgramID); err != nil {
			return nil, err
		}
	}

	now := nowUTC()
	session := &WorkoutSession{
		ID:          s.ids.NewID(),
		UserID:      in.UserID,
		Type:        in.Type,
		Date:        in.Date,
		DurationMin: in.DurationMin,
		ProgramID:   in.ProgramID,
		Notes:       in.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// UpdateSession edits a session; sessions are otherwise immutable once created.
func (s *SessionService) UpdateSession(ctx context.Context, id string, upd SessionUpdate) (*WorkoutSession, error) {
	session, err := s.getSession(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Type != nil && !ValidWorkoutType(*upd.Type) {
		return nil, ErrValidation("type", "unknown workout type")
	}
	if upd.DurationMin != nil && *upd.DurationMin <= 0 {
		return nil, ErrValidation("duration_min", "must be > 0")
	}
	if upd.ProgramID != nil && *upd.ProgramID != "" {
		if err := s.requireProgram(ctx, *upd.ProgramID); err != nil {
			return nil, err
		}
	}

	session.Apply(upd)
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// GetSession fetches a session by id.
func (s *SessionService) GetSession(ctx context.Context, id string) (*WorkoutSession, error) {
	return s.getSession(ctx, id)
}

// ListSessionsByUser returns sessions newest-first with cursor pagination.
func (s *SessionService) ListSessionsByUser(ctx context.Context, userID string, cursor *Cursor, limit int) ([]WorkoutSession, *Cursor, error) {
	return s.sessions.ListByUser(ctx, userID, cursor, limit)
}

// ListSessionsByUserAndDateRange returns the user's sessions dated within
// [from, to] inclusive.
func (s *SessionService) ListSessionsByUserAndDateRange(ctx context.Context, userID string, from, to time.Time) ([]WorkoutSession, error) {
	return s.sessions.ListByUserAndDateRange(ctx, userID, from, to)
}

// DeleteSession removes a session. The scoring path never deletes sessions.
func (s *SessionService) DeleteSession(ctx context.Context, id string) error {
	if _, err := s.getSession(ctx, id); err != nil {
		return err
	}
	return s.sessions.Delete(ctx, id)
}

// ApplyProgram links an existing program to the session.
func (s *SessionService) ApplyProgram(ctx context.Context, sessionID, programID string) (*WorkoutSession, error) {
	session, err := s.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.requireProgram(ctx, programID); err != nil {
		return nil, err
	}

	session.Apply(SessionUpdate{ProgramID: &programID})
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *SessionService) getSession(ctx context.Context, id string) (*WorkoutSession, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNotFound("workout session", id)
	}
	return session, nil
}

func (s *SessionService) requireProgram(ctx context.Context, programID string) error {
	program, err := s.programs.Get(ctx, programID)
	if err != nil {
		return err
	}
	if program == nil {
		return ErrNotFound("program", programID)
	}
	return nil
}
