// Package domain defines the business logic for the fitness points engine.
package domain

import "time"

func nowUTC() time.Time { return time.Now().UTC() }

// WorkoutType enumerates the supported workout categories.
type WorkoutType string

const (
	WorkoutCrossfit WorkoutType = "crossfit"
	WorkoutPilates  WorkoutType = "pilates"
	WorkoutGym      WorkoutType = "gym"
	WorkoutRunning  WorkoutType = "running"
	WorkoutSwimming WorkoutType = "swimming"
	WorkoutYoga     WorkoutType = "yoga"
	WorkoutOther    WorkoutType = "other"
)

// ValidWorkoutType reports whether t is one of the known categories.
func ValidWorkoutType(t WorkoutType) bool {
	switch t {
	case WorkoutCrossfit, WorkoutPilates, WorkoutGym, WorkoutRunning, WorkoutSwimming, WorkoutYoga, WorkoutOther:
		return true
	}
	return false
}

// User owns a running point balance. The balance is mutated only through
// AddPoints and UsePoints so the non-negativity invariant lives in one place.
type User struct {
	ID        string
	Name      string
	Email     string
	Points    int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AddPoints increases the balance. Non-positive deltas are ignored.
func (u *User) AddPoints(points int) {
	if points <= 0 {
		return
	}
	u.Points += points
	u.UpdatedAt = time.Now().UTC()
}

// UsePoints deducts from the balance, refusing to go negative.
func (u *User) UsePoints(points int) bool {
	if points < 0 || u.Points < points {
		return false
	}
	u.Points -= points
	u.UpdatedAt = time.Now().UTC()
	return true
}

// WorkoutSession is one logged workout occurrence.
type WorkoutSession struct {
	ID          string
	UserID      string
	Type        WorkoutType
	Date        time.Time
	DurationMin int
	ProgramID   string
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SessionUpdate carries the optional fields of a session update. Nil fields
// are left untouched.
type SessionUpdate struct {
	Type        *WorkoutType
	Date        *time.Time
	DurationMin *int
	ProgramID   *string
	Notes       *string
}

// Apply merges the update into the session and re-stamps UpdatedAt.
func (s *WorkoutSession) Apply(upd SessionUpdate) {
	if upd.Type != nil {
		s.Type = *upd.Type
	}
	if upd.Date != nil {
		s.Date = *upd.Date
	}
	if upd.DurationMin != nil {
		s.DurationMin = *upd.DurationMin
	}
	if upd.ProgramID != nil {
		s.ProgramID = *upd.ProgramID
	}
	if upd.Notes != nil {
		s.Notes = *upd.Notes
	}
	s.UpdatedAt = time.Now().UTC()
}

// ProgramExercise is one entry of a program template.
type ProgramExercise struct {
	Name        string
	Sets        int
	Reps        int
	WeightKG    float64
	DurationMin int
	Notes       string
}

// Program is a reusable named workout template. The scoring path only reads
// programs, to validate that a session's ProgramID references one.
type Program struct {
	ID          string
	UserID      string
	Name        string
	Type        WorkoutType
	Description string
	Exercises   []ProgramExercise
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AddExercise appends an exercise to the template.
func (p *Program) AddExercise(ex ProgramExercise) {
	p.Exercises = append(p.Exercises, ex)
	p.UpdatedAt = time.Now().UTC()
}

// RemoveExercise drops the named exercise. Unknown names are a no-op.
func (p *Program) RemoveExercise(name string) {
	kept := p.Exercises[:0]
	for _, ex := range p.Exercises {
		if ex.Name != name {
			kept = append(kept, ex)
		}
	}
	p.Exercises = kept
	p.UpdatedAt = time.Now().UTC()
}

// UpdateExercise replaces the named exercise in place and reports whether it
// was found.
func (p *Program) UpdateExercise(name string, ex ProgramExercise) bool {
	for i := range p.Exercises {
		if p.Exercises[i].Name == name {
			ex.Name = name
			p.Exercises[i] = ex
			p.UpdatedAt = time.Now().UTC()
			return true
		}
	}
	return false
}

// RewardTier orders rewards from entry-level (1) to top-shelf (5).
type RewardTier int

// Reward is a point-priced unlockable item. Read-mostly; mutated only through
// administrative updates.
type Reward struct {
	ID          string
	Name        string
	Description string
	Tier        RewardTier
	PointsCost  int
	ImageURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UserReward joins a user to a reward and tracks the unlock state. At most
// one row exists per (UserID, RewardID); once unlocked it stays unlocked.
type UserReward struct {
	ID         string
	UserID     string
	RewardID   string
	Unlocked   bool
	UnlockedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Unlock flips the row to unlocked. Safe to call repeatedly.
func (ur *UserReward) Unlock() {
	if ur.Unlocked {
		return
	}
	now := time.Now().UTC()
	ur.Unlocked = true
	ur.UnlockedAt = &now
	ur.UpdatedAt = now
}

// Goal is a user-defined point-accumulation target, optionally paying out a
// reward on completion.
type Goal struct {
	ID                string
	UserID            string
	Name              string
	Description       string
	PointsRequired    int
	PointsAccumulated int
	Completed         bool
	RewardID          string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// AddPoints accrues progress and flips Completed the first time the threshold
// is crossed. The transition is one-way until Reset.
func (g *Goal) AddPoints(points int) {
	g.PointsAccumulated += points
	if !g.Completed && g.PointsAccumulated >= g.PointsRequired {
		g.Completed = true
	}
	g.UpdatedAt = time.Now().UTC()
}

// Reset returns the goal to its initial unearned state.
func (g *Goal) Reset() {
	g.PointsAccumulated = 0
	g.Completed = false
	g.UpdatedAt = time.Now().UTC()
}
