// Package postgres provides pgx-backed persistence for the lift log.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/liftlog/internal/domain"
	"example.com/liftlog/internal/events"
)

// Repository provides Postgres-backed persistence for the domain plus the
// outbox rows recorded alongside mutations.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateUser persists the user and its seeded exercise types inside a
// single transaction.
func (r *Repository) CreateUser(ctx context.Context, user domain.User, seedTypes []domain.ExerciseType) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const insertUser = `INSERT INTO users (user_id, username, password_hash, default_public, created_at, exercise_count, comment_count)
        VALUES ($1,$2,$3,$4,$5,0,0)`

	if _, err := tx.Exec(ctx, insertUser, user.ID, user.Username, user.PasswordHash, user.DefaultPublic, user.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrUsernameTaken, user.Username)
		}
		return err
	}

	names := make([]string, 0, len(seedTypes))
	for _, et := range seedTypes {
		if _, err := tx.Exec(ctx, `INSERT INTO exercise_types (type_id, user_id, name) VALUES ($1,$2,$3)`, et.ID, et.UserID, et.Name); err != nil {
			return err
		}
		names = append(names, et.Name)
	}

	if err := insertOutbox(ctx, tx, "user", user.ID, "user.registered", user.ID, events.UserRegistered{
		UserID:    user.ID,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
		SeedTypes: names,
	}); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

const userColumns = `user_id, username, password_hash, default_public, created_at, exercise_count, comment_count`

// GetUser retrieves a user by ID. A missing row yields (nil, nil).
func (r *Repository) GetUser(ctx context.Context, id string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE user_id=$1`, id)
	return scanUser(row)
}

// GetUserByUsername retrieves a user by username. A missing row yields
// (nil, nil).
func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username=$1`, username)
	return scanUser(row)
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.DefaultPublic, &u.CreatedAt, &u.ExerciseCount, &u.CommentCount); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// LastExerciseDate returns the date of the user's most recent exercise, or
// nil when none exist.
func (r *Repository) LastExerciseDate(ctx context.Context, userID string) (*time.Time, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT performed_on FROM exercises WHERE user_id=$1 ORDER BY performed_on DESC, created_at DESC LIMIT 1`, userID)
	var ts time.Time
	if err := row.Scan(&ts); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &ts, nil
}

// ListTypes returns a user's exercise types ordered by name.
func (r *Repository) ListTypes(ctx context.Context, userID string) ([]domain.ExerciseType, error) {
	rows, err := r.pool.Query(ctx, `SELECT type_id, user_id, name FROM exercise_types WHERE user_id=$1 ORDER BY name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []domain.ExerciseType
	for rows.Next() {
		var et domain.ExerciseType
		if err := rows.Scan(&et.ID, &et.UserID, &et.Name); err != nil {
			return nil, err
		}
		types = append(types, et)
	}
	return types, rows.Err()
}

// GetType retrieves an exercise type by ID. A missing row yields (nil, nil).
func (r *Repository) GetType(ctx context.Context, id string) (*domain.ExerciseType, error) {
	row := r.pool.QueryRow(ctx, `SELECT type_id, user_id, name FROM exercise_types WHERE type_id=$1`, id)
	var et domain.ExerciseType
	if err := row.Scan(&et.ID, &et.UserID, &et.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &et, nil
}

// CreateType inserts an exercise type.
func (r *Repository) CreateType(ctx context.Context, t domain.ExerciseType) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO exercise_types (type_id, user_id, name) VALUES ($1,$2,$3)`, t.ID, t.UserID, t.Name)
	return err
}

// DeleteTypeCascade removes the type, cascading its exercises (and their
// comments), while keeping every counter consistent in the same
// transaction. PR history for the type is removed by the store-level
// cascade as well.
func (r *Repository) DeleteTypeCascade(ctx context.Context, typeID string) (int, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var ownerID string
	if err := tx.QueryRow(ctx, `SELECT user_id FROM exercise_types WHERE type_id=$1`, typeID).Scan(&ownerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%w: exercise type %s", domain.ErrNotFound, typeID)
		}
		return 0, err
	}

	// Commenters lose the comments that cascade away with the exercises.
	const fixCommenters = `UPDATE users u SET comment_count = u.comment_count - sub.n
        FROM (SELECT c.user_id, COUNT(*) AS n
                FROM comments c
                JOIN exercises e ON e.exercise_id = c.exercise_id
               WHERE e.type_id = $1
               GROUP BY c.user_id) sub
        WHERE u.user_id = sub.user_id`
	if _, err := tx.Exec(ctx, fixCommenters, typeID); err != nil {
		return 0, err
	}

	var removed int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM exercises WHERE type_id=$1`, typeID).Scan(&removed); err != nil {
		return 0, err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM exercise_types WHERE type_id=$1`, typeID); err != nil {
		return 0, err
	}

	if removed > 0 {
		if _, err := tx.Exec(ctx, `UPDATE users SET exercise_count = exercise_count - $1 WHERE user_id=$2`, removed, ownerID); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return removed, nil
}

// GetClass retrieves a rep-scheme class. A missing row yields (nil, nil).
func (r *Repository) GetClass(ctx context.Context, id string) (*domain.ExerciseClass, error) {
	row := r.pool.QueryRow(ctx, `SELECT class_id, label, reps FROM exercise_classes WHERE class_id=$1`, id)
	var c domain.ExerciseClass
	if err := row.Scan(&c.ID, &c.Label, &c.Reps); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// ListClasses returns the shared rep-scheme reference data.
func (r *Repository) ListClasses(ctx context.Context) ([]domain.ExerciseClass, error) {
	rows, err := r.pool.Query(ctx, `SELECT class_id, label, reps FROM exercise_classes ORDER BY reps`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []domain.ExerciseClass
	for rows.Next() {
		var c domain.ExerciseClass
		if err := rows.Scan(&c.ID, &c.Label, &c.Reps); err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// EventMetadata describes how to route an outbox event.
type EventMetadata struct {
	Topic string
}

var eventCatalog = map[string]EventMetadata{
	"user.registered":  {Topic: "liftlog_user_events"},
	"exercise.logged":  {Topic: "liftlog_exercise_events"},
	"exercise.removed": {Topic: "liftlog_exercise_events"},
	"auth.login":       {Topic: "liftlog_auth_audit"},
}

func insertOutbox(ctx context.Context, tx pgx.Tx, aggregateType, aggregateID, eventType, partitionKey string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	meta := eventCatalog[eventType]
	if meta.Topic == "" {
		return fmt.Errorf("unknown event type: %s", eventType)
	}

	dedupeKey := fmt.Sprintf("%s:%s", aggregateID, eventType)

	const stmt = `INSERT INTO outbox (aggregate_type, aggregate_id, event_type, topic, partition_key, payload, dedupe_key)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`

	_, err = tx.Exec(ctx, stmt, aggregateType, aggregateID, eventType, meta.Topic, partitionKey, body, dedupeKey)
	return err
}
