package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"example.com/liftlog/internal/domain"
	"example.com/liftlog/internal/events"
)

// CreateExercise inserts the exercise, its derived PR record, the owner's
// counter increment and the outbox event inside a single transaction.
func (r *Repository) CreateExercise(ctx context.Context, ex domain.Exercise, record domain.PRRecord) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const insertExercise = `INSERT INTO exercises (exercise_id, user_id, type_id, class_id, weight, performed_on, public, note, comment_count, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,0,$9)`

	if _, err := tx.Exec(ctx, insertExercise,
		ex.ID, ex.UserID, ex.TypeID, ex.ClassID, ex.Weight, ex.Date, ex.Public, ex.Note, ex.CreatedAt,
	); err != nil {
		return err
	}

	const insertRecord = `INSERT INTO pr_records (record_id, user_id, type_id, class_id, e1rm_epley, e1rm_lombardi, e1rm_brzycki, source_weight, recorded_on, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`

	if _, err := tx.Exec(ctx, insertRecord,
		record.ID, record.UserID, record.TypeID, record.ClassID,
		record.Epley, record.Lombardi, record.Brzycki, record.Weight, record.Date, record.CreatedAt,
	); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `UPDATE users SET exercise_count = exercise_count + 1 WHERE user_id=$1`, ex.UserID); err != nil {
		return err
	}

	classID := ""
	if ex.ClassID != nil {
		classID = *ex.ClassID
	}
	if err := insertOutbox(ctx, tx, "exercise", ex.ID, "exercise.logged", ex.UserID, events.ExerciseLogged{
		ExerciseID: ex.ID,
		UserID:     ex.UserID,
		TypeID:     ex.TypeID,
		ClassID:    classID,
		Weight:     ex.Weight,
		Date:       ex.Date,
		Public:     ex.Public,
		Epley:      record.Epley,
		Lombardi:   record.Lombardi,
		Brzycki:    record.Brzycki,
	}); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

const exerciseColumns = `exercise_id, user_id, type_id, class_id, weight, performed_on, public, note, comment_count, created_at`

// GetExercise retrieves an exercise by ID. A missing row yields (nil, nil).
func (r *Repository) GetExercise(ctx context.Context, id string) (*domain.Exercise, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+exerciseColumns+` FROM exercises WHERE exercise_id=$1`, id)
	var ex domain.Exercise
	if err := row.Scan(&ex.ID, &ex.UserID, &ex.TypeID, &ex.ClassID, &ex.Weight, &ex.Date, &ex.Public, &ex.Note, &ex.CommentCount, &ex.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &ex, nil
}

// UpdateExercise mutates type, weight, date and note in place.
func (r *Repository) UpdateExercise(ctx context.Context, ex domain.Exercise) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE exercises SET type_id=$1, weight=$2, performed_on=$3, note=$4 WHERE exercise_id=$5`,
		ex.TypeID, ex.Weight, ex.Date, ex.Note, ex.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: exercise %s", domain.ErrNotFound, ex.ID)
	}
	return nil
}

// DeleteExercise removes the row, its comments via cascade, and settles all
// affected counters in the same transaction. PR records are retained.
func (r *Repository) DeleteExercise(ctx context.Context, id string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Commenters lose the comments that cascade away with the exercise.
	const fixCommenters = `UPDATE users u SET comment_count = u.comment_count - sub.n
        FROM (SELECT user_id, COUNT(*) AS n FROM comments WHERE exercise_id = $1 GROUP BY user_id) sub
        WHERE u.user_id = sub.user_id`
	if _, err := tx.Exec(ctx, fixCommenters, id); err != nil {
		return err
	}

	var ownerID string
	if err := tx.QueryRow(ctx, `DELETE FROM exercises WHERE exercise_id=$1 RETURNING user_id`, id).Scan(&ownerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: exercise %s", domain.ErrNotFound, id)
		}
		return err
	}

	if _, err := tx.Exec(ctx, `UPDATE users SET exercise_count = exercise_count - 1 WHERE user_id=$1`, ownerID); err != nil {
		return err
	}

	if err := insertOutbox(ctx, tx, "exercise", id, "exercise.removed", ownerID, events.ExerciseRemoved{
		ExerciseID: id,
		UserID:     ownerID,
		OccurredAt: time.Now().UTC(),
	}); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

const entryQuery = `SELECT e.exercise_id, e.user_id, e.type_id, e.class_id, e.weight, e.performed_on, e.public, e.note, e.comment_count, e.created_at,
           u.username, t.name, c.label
      FROM exercises e
      JOIN users u ON u.user_id = e.user_id
      JOIN exercise_types t ON t.type_id = e.type_id
      LEFT JOIN exercise_classes c ON c.class_id = e.class_id`

// ListByOwner returns a user's exercises, optionally filtered by type,
// newest date first with insertion order as the tie-break.
func (r *Repository) ListByOwner(ctx context.Context, userID string, typeID *string) ([]domain.ExerciseEntry, error) {
	query := entryQuery + ` WHERE e.user_id=$1`
	args := []interface{}{userID}
	if typeID != nil {
		query += ` AND e.type_id=$2`
		args = append(args, *typeID)
	}
	query += ` ORDER BY e.performed_on DESC, e.created_at DESC, e.exercise_id DESC`
	return r.queryEntries(ctx, query, args...)
}

// ListPublic returns public exercises across all users, newest date first.
func (r *Repository) ListPublic(ctx context.Context) ([]domain.ExerciseEntry, error) {
	query := entryQuery + ` WHERE e.public ORDER BY e.performed_on DESC, e.created_at DESC, e.exercise_id DESC`
	return r.queryEntries(ctx, query)
}

func (r *Repository) queryEntries(ctx context.Context, query string, args ...interface{}) ([]domain.ExerciseEntry, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.ExerciseEntry
	for rows.Next() {
		var entry domain.ExerciseEntry
		if err := rows.Scan(
			&entry.ID, &entry.UserID, &entry.TypeID, &entry.ClassID, &entry.Weight, &entry.Date,
			&entry.Public, &entry.Note, &entry.CommentCount, &entry.CreatedAt,
			&entry.Username, &entry.TypeName, &entry.ClassLabel,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
