package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"example.com/liftlog/internal/observability"
)

// Comments returns all comments for an exercise, newest first. Any
// authenticated user may view comments on any exercise.
func (s *Service) Comments(ctx context.Context, exerciseID string) ([]CommentEntry, error) {
	ex, err := s.repo.GetExercise(ctx, exerciseID)
	if err != nil {
		return nil, err
	}
	if ex == nil {
		return nil, fmt.Errorf("%w: exercise %s", ErrNotFound, exerciseID)
	}
	return s.repo.ListComments(ctx, exerciseID)
}

// AddComment attaches a comment to an exercise. The insert and both counter
// increments (on the exercise and on the author) apply as one unit.
func (s *Service) AddComment(ctx context.Context, callerID, exerciseID, text string) (*Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: comment text is required", ErrValidation)
	}

	ex, err := s.repo.GetExercise(ctx, exerciseID)
	if err != nil {
		return nil, err
	}
	if ex == nil {
		return nil, fmt.Errorf("%w: exercise %s", ErrNotFound, exerciseID)
	}

	c := Comment{
		ID:         uuid.NewString(),
		ExerciseID: ex.ID,
		UserID:     callerID,
		Text:       text,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repo.AddComment(ctx, c); err != nil {
		return nil, err
	}
	observability.RecordCommentAdded()
	return &c, nil
}

// Stats groups the caller's exercises per (type, class) and pairs the
// result with the latest known PR record per type. "Latest" is by record
// date with insertion order as the tie-break, deliberately surfacing
// recency over peak performance.
func (s *Service) Stats(ctx context.Context, callerID string) (*StatsReport, error) {
	groups, err := s.repo.GroupStats(ctx, callerID)
	if err != nil {
		return nil, err
	}
	records, err := s.repo.LatestRecords(ctx, callerID)
	if err != nil {
		return nil, err
	}
	return &StatsReport{Groups: groups, Records: records}, nil
}
