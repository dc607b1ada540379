package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"example.com/liftlog/internal/observability"
)

const (
	minUsernameLen = 4
	minPasswordLen = 8
)

// seedTypeNames are the exercise types created for every new account.
var seedTypeNames = []string{"Bench press", "Deadlift", "Back squat"}

// LoginLimiter throttles authentication attempts per client origin.
type LoginLimiter interface {
	Allow(origin string) bool
	RecordFailure(origin string)
	Reset(origin string)
}

// noopLimiter performs no throttling.
type noopLimiter struct{}

func (noopLimiter) Allow(string) bool    { return true }
func (noopLimiter) RecordFailure(string) {}
func (noopLimiter) Reset(string)         {}

// Service orchestrates the exercise-logging workflows.
type Service struct {
	repo    Repository
	limiter LoginLimiter
}

// NewService constructs a Service. A nil limiter disables login throttling.
func NewService(repo Repository, limiter LoginLimiter) *Service {
	if limiter == nil {
		limiter = noopLimiter{}
	}
	return &Service{repo: repo, limiter: limiter}
}

// RegisterInput captures the registration payload.
type RegisterInput struct {
	Username      string
	Password      string
	PasswordAgain string
	DefaultPublic bool
}

// Register creates the account and its three seeded exercise types. The new
// user starts with zero counters and is not logged in.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	username := strings.TrimSpace(input.Username)
	if len(username) < minUsernameLen {
		return nil, fmt.Errorf("%w: username must be at least %d characters", ErrValidation, minUsernameLen)
	}
	if len(input.Password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLen)
	}
	if input.Password != input.PasswordAgain {
		return nil, fmt.Errorf("%w: passwords don't match", ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := User{
		ID:            uuid.NewString(),
		Username:      username,
		PasswordHash:  string(hash),
		DefaultPublic: input.DefaultPublic,
		CreatedAt:     time.Now().UTC(),
	}

	seeds := make([]ExerciseType, 0, len(seedTypeNames))
	for _, name := range seedTypeNames {
		seeds = append(seeds, ExerciseType{ID: uuid.NewString(), UserID: user.ID, Name: name})
	}

	if err := s.repo.CreateUser(ctx, user, seeds); err != nil {
		return nil, err
	}
	return &user, nil
}

// Authenticate verifies credentials under the per-origin throttle and
// records an audit event for the attempt. The error for an unknown username
// is indistinguishable from the error for a wrong password.
func (s *Service) Authenticate(ctx context.Context, username, password, origin string) (*User, error) {
	if !s.limiter.Allow(origin) {
		observability.RecordLoginThrottled()
		return nil, ErrTooManyAttempts
	}

	user, err := s.repo.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}

	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.limiter.RecordFailure(origin)
		ev := AuthEvent{
			ID:         uuid.NewString(),
			Username:   username,
			Origin:     origin,
			Success:    false,
			Reason:     "bad credentials",
			OccurredAt: time.Now().UTC(),
		}
		if user != nil {
			ev.UserID = user.ID
		}
		if auditErr := s.repo.RecordAuthEvent(ctx, ev); auditErr != nil {
			return nil, auditErr
		}
		observability.RecordLogin(false)
		return nil, ErrBadCredentials
	}

	s.limiter.Reset(origin)
	if err := s.repo.RecordAuthEvent(ctx, AuthEvent{
		ID:         uuid.NewString(),
		Username:   user.Username,
		UserID:     user.ID,
		Origin:     origin,
		Success:    true,
		OccurredAt: time.Now().UTC(),
	}); err != nil {
		return nil, err
	}
	observability.RecordLogin(true)
	return user, nil
}

// Profile returns the public summary for any account.
func (s *Service) Profile(ctx context.Context, userID string) (*Profile, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}
	last, err := s.repo.LastExerciseDate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Profile{
		UserID:        user.ID,
		Username:      user.Username,
		CreatedAt:     user.CreatedAt,
		ExerciseCount: user.ExerciseCount,
		CommentCount:  user.CommentCount,
		LastExercise:  last,
	}, nil
}
