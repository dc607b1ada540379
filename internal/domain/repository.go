package domain

import (
	"context"
	"time"
)

// Repository captures persistence operations. Every mutating method is one
// atomic unit: the row writes, the counter maintenance and any recorded
// event either all apply or none do.
type Repository interface {
	// CreateUser persists the user together with its seeded exercise types.
	// Returns ErrUsernameTaken on a username conflict.
	CreateUser(ctx context.Context, user User, seedTypes []ExerciseType) error
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	LastExerciseDate(ctx context.Context, userID string) (*time.Time, error)

	ListTypes(ctx context.Context, userID string) ([]ExerciseType, error)
	GetType(ctx context.Context, id string) (*ExerciseType, error)
	CreateType(ctx context.Context, t ExerciseType) error
	// DeleteTypeCascade removes the type and its dependent exercises and
	// decrements the owner's exercise count by the number of cascaded rows.
	// Returns how many exercises were removed.
	DeleteTypeCascade(ctx context.Context, typeID string) (int, error)

	GetClass(ctx context.Context, id string) (*ExerciseClass, error)
	ListClasses(ctx context.Context) ([]ExerciseClass, error)

	// CreateExercise inserts the exercise, its derived PR record and the
	// owner's counter increment as one unit.
	CreateExercise(ctx context.Context, ex Exercise, record PRRecord) error
	GetExercise(ctx context.Context, id string) (*Exercise, error)
	// UpdateExercise mutates type, weight, date and note in place. Counters
	// and PR history are untouched.
	UpdateExercise(ctx context.Context, ex Exercise) error
	// DeleteExercise removes the row and decrements the owner's exercise
	// count. PR records derived from the exercise are retained.
	DeleteExercise(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, userID string, typeID *string) ([]ExerciseEntry, error)
	ListPublic(ctx context.Context) ([]ExerciseEntry, error)

	ListComments(ctx context.Context, exerciseID string) ([]CommentEntry, error)
	// AddComment inserts the comment and increments both the exercise's and
	// the author's comment counters as one unit.
	AddComment(ctx context.Context, c Comment) error

	GroupStats(ctx context.Context, userID string) ([]GroupStat, error)
	// LatestRecords returns the most recent PR record per exercise type,
	// ordered by type name. Recency is by record date, then insertion order.
	LatestRecords(ctx context.Context, userID string) ([]PRRecord, error)
	ListRecords(ctx context.Context, userID string) ([]PRRecord, error)

	RecordAuthEvent(ctx context.Context, ev AuthEvent) error
}
