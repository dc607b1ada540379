// Package domain defines the business logic for the lift log service.
package domain

import "time"

// User is a registered account. ExerciseCount and CommentCount are
// denormalized caches kept in step with the owned rows by every mutation.
type User struct {
	ID            string
	Username      string
	PasswordHash  string
	DefaultPublic bool
	CreatedAt     time.Time
	ExerciseCount int
	CommentCount  int
}

// ExerciseType is a user-owned lift category, e.g. "Bench press".
type ExerciseType struct {
	ID     string
	UserID string
	Name   string
}

// ExerciseClass is shared reference data describing a rep scheme.
type ExerciseClass struct {
	ID    string
	Label string
	Reps  int
}

// Exercise is a single logged lift.
type Exercise struct {
	ID           string
	UserID       string
	TypeID       string
	ClassID      *string // survives class removal as NULL
	Weight       float64
	Date         time.Time
	Public       bool
	Note         string
	CommentCount int
	CreatedAt    time.Time
}

// PRRecord is an append-only one-rep-max projection created alongside an
// exercise. It is never updated, and removing the source exercise does not
// remove it.
type PRRecord struct {
	ID        string
	UserID    string
	TypeID    string
	ClassID   *string
	Epley     int
	Lombardi  int
	Brzycki   int
	Weight    float64
	Date      time.Time
	CreatedAt time.Time
}

// Comment is attached to an exercise by any authenticated user.
type Comment struct {
	ID         string
	ExerciseID string
	UserID     string
	Text       string
	CreatedAt  time.Time
}

// ExerciseEntry is an exercise joined with its owner and reference rows for
// listing.
type ExerciseEntry struct {
	Exercise
	Username   string
	TypeName   string
	ClassLabel *string
}

// CommentEntry is a comment joined with its author's username.
type CommentEntry struct {
	Comment
	Username string
}

// GroupStat aggregates a user's exercises per (type, class).
type GroupStat struct {
	TypeName   string
	ClassLabel *string
	MaxWeight  float64
	LiftCount  int
	LastDate   time.Time
}

// StatsReport bundles the grouped aggregates with the latest known PR per
// exercise type.
type StatsReport struct {
	Groups  []GroupStat
	Records []PRRecord
}

// Profile is the public summary of an account.
type Profile struct {
	UserID        string
	Username      string
	CreatedAt     time.Time
	ExerciseCount int
	CommentCount  int
	LastExercise  *time.Time // nil means no exercises yet
}

// AuthEvent is an audit record of a login attempt.
type AuthEvent struct {
	ID         string
	Username   string
	UserID     string // empty when the username did not resolve
	Origin     string
	Success    bool
	Reason     string
	OccurredAt time.Time
}
