package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"example.com/liftlog/internal/observability"
)

// LogExerciseInput captures the payload for logging a lift.
type LogExerciseInput struct {
	TypeID  string
	ClassID string
	Weight  float64
	Date    time.Time
	Note    string
	Public  bool
}

// LogExercise inserts the exercise together with its derived PR record and
// the owner's counter increment. The exercise type must belong to the
// caller and the class must exist.
func (s *Service) LogExercise(ctx context.Context, callerID string, input LogExerciseInput) (*Exercise, error) {
	if input.Weight < 0 {
		return nil, fmt.Errorf("%w: weight must not be negative", ErrValidation)
	}
	if input.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrValidation)
	}

	et, err := s.repo.GetType(ctx, input.TypeID)
	if err != nil {
		return nil, err
	}
	if et == nil || et.UserID != callerID {
		return nil, fmt.Errorf("%w: exercise type %s", ErrNotFound, input.TypeID)
	}

	class, err := s.repo.GetClass(ctx, input.ClassID)
	if err != nil {
		return nil, err
	}
	if class == nil {
		return nil, fmt.Errorf("%w: exercise class %s", ErrNotFound, input.ClassID)
	}

	estimates, err := OneRepMax(input.Weight, class.Reps)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	classID := class.ID
	ex := Exercise{
		ID:        uuid.NewString(),
		UserID:    callerID,
		TypeID:    et.ID,
		ClassID:   &classID,
		Weight:    input.Weight,
		Date:      input.Date,
		Public:    input.Public,
		Note:      input.Note,
		CreatedAt: now,
	}
	record := PRRecord{
		ID:        uuid.NewString(),
		UserID:    callerID,
		TypeID:    et.ID,
		ClassID:   &classID,
		Epley:     estimates.Epley,
		Lombardi:  estimates.Lombardi,
		Brzycki:   estimates.Brzycki,
		Weight:    input.Weight,
		Date:      input.Date,
		CreatedAt: now,
	}

	if err := s.repo.CreateExercise(ctx, ex, record); err != nil {
		return nil, err
	}
	observability.RecordExerciseLogged(now)
	return &ex, nil
}

// GetExercise returns a single exercise. Private exercises are only
// visible to their owner; to anyone else they do not exist.
func (s *Service) GetExercise(ctx context.Context, callerID, exerciseID string) (*Exercise, error) {
	ex, err := s.repo.GetExercise(ctx, exerciseID)
	if err != nil {
		return nil, err
	}
	if ex == nil || (!ex.Public && ex.UserID != callerID) {
		return nil, fmt.Errorf("%w: exercise %s", ErrNotFound, exerciseID)
	}
	return ex, nil
}

// EditExerciseInput captures the mutable fields of an exercise.
type EditExerciseInput struct {
	TypeID string
	Weight float64
	Date   time.Time
	Note   string
}

// EditExercise mutates type, weight, date and note in place. Only the owner
// may edit; counters and PR history are untouched.
func (s *Service) EditExercise(ctx context.Context, callerID, exerciseID string, input EditExerciseInput) error {
	ex, err := s.repo.GetExercise(ctx, exerciseID)
	if err != nil {
		return err
	}
	if ex == nil {
		return fmt.Errorf("%w: exercise %s", ErrNotFound, exerciseID)
	}
	if ex.UserID != callerID {
		return fmt.Errorf("%w: exercise %s", ErrForbidden, exerciseID)
	}
	if input.Weight < 0 {
		return fmt.Errorf("%w: weight must not be negative", ErrValidation)
	}
	if input.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrValidation)
	}

	et, err := s.repo.GetType(ctx, input.TypeID)
	if err != nil {
		return err
	}
	if et == nil || et.UserID != callerID {
		return fmt.Errorf("%w: exercise type %s", ErrNotFound, input.TypeID)
	}

	ex.TypeID = et.ID
	ex.Weight = input.Weight
	ex.Date = input.Date
	ex.Note = input.Note
	return s.repo.UpdateExercise(ctx, *ex)
}

// RemoveExercise deletes the exercise and decrements the owner's counter.
// PR history derived from the exercise survives.
func (s *Service) RemoveExercise(ctx context.Context, callerID, exerciseID string) error {
	ex, err := s.repo.GetExercise(ctx, exerciseID)
	if err != nil {
		return err
	}
	if ex == nil {
		return fmt.Errorf("%w: exercise %s", ErrNotFound, exerciseID)
	}
	if ex.UserID != callerID {
		return fmt.Errorf("%w: exercise %s", ErrForbidden, exerciseID)
	}
	return s.repo.DeleteExercise(ctx, ex.ID)
}

// ListExercises returns the caller's exercises, optionally filtered by
// type, newest date first.
func (s *Service) ListExercises(ctx context.Context, callerID string, typeID *string) ([]ExerciseEntry, error) {
	return s.repo.ListByOwner(ctx, callerID, typeID)
}

// PublicFeed returns public exercises across all users, newest date first.
func (s *Service) PublicFeed(ctx context.Context) ([]ExerciseEntry, error) {
	return s.repo.ListPublic(ctx)
}

// ListTypes returns the caller's exercise types ordered by name.
func (s *Service) ListTypes(ctx context.Context, callerID string) ([]ExerciseType, error) {
	return s.repo.ListTypes(ctx, callerID)
}

// ListClasses returns the shared rep-scheme reference data.
func (s *Service) ListClasses(ctx context.Context) ([]ExerciseClass, error) {
	return s.repo.ListClasses(ctx)
}

// AddType creates an exercise type owned by the caller.
func (s *Service) AddType(ctx context.Context, callerID, name string) (*ExerciseType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: type name is required", ErrValidation)
	}
	et := ExerciseType{ID: uuid.NewString(), UserID: callerID, Name: name}
	if err := s.repo.CreateType(ctx, et); err != nil {
		return nil, err
	}
	return &et, nil
}

// DeleteType removes the type and, via cascade, its dependent exercises.
// The owner's exercise count shrinks by the number of cascaded rows in the
// same unit.
func (s *Service) DeleteType(ctx context.Context, callerID, typeID string) error {
	et, err := s.repo.GetType(ctx, typeID)
	if err != nil {
		return err
	}
	if et == nil {
		return fmt.Errorf("%w: exercise type %s", ErrNotFound, typeID)
	}
	if et.UserID != callerID {
		return fmt.Errorf("%w: exercise type %s", ErrForbidden, typeID)
	}
	_, err = s.repo.DeleteTypeCascade(ctx, et.ID)
	return err
}
