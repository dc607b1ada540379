// Package events defines the payloads recorded in the outbox and delivered
// to Kafka.
package events

import "time"

// UserRegistered is emitted when a new account is created.
type UserRegistered struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	SeedTypes []string  `json:"seed_types"`
}

// ExerciseLogged is emitted when an exercise and its derived PR record are
// persisted.
type ExerciseLogged struct {
	ExerciseID string    `json:"exercise_id"`
	UserID     string    `json:"user_id"`
	TypeID     string    `json:"type_id"`
	ClassID    string    `json:"class_id,omitempty"`
	Weight     float64   `json:"weight"`
	Date       time.Time `json:"date"`
	Public     bool      `json:"public"`
	Epley      int       `json:"e1rm_epley"`
	Lombardi   int       `json:"e1rm_lombardi"`
	Brzycki    int       `json:"e1rm_brzycki"`
}

// ExerciseRemoved is emitted when an exercise row is deleted.
type ExerciseRemoved struct {
	ExerciseID string    `json:"exercise_id"`
	UserID     string    `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// AuthLogin is the audit event for a login attempt.
type AuthLogin struct {
	EventID    string    `json:"event_id"`
	Username   string    `json:"username"`
	UserID     string    `json:"user_id,omitempty"`
	Origin     string    `json:"origin"`
	Success    bool      `json:"success"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
