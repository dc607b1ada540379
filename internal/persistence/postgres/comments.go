package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"example.com/liftlog/internal/domain"
)

// ListComments returns an exercise's comments joined with their authors,
// newest first.
func (r *Repository) ListComments(ctx context.Context, exerciseID string) ([]domain.CommentEntry, error) {
	const query = `SELECT c.comment_id, c.exercise_id, c.user_id, c.body, c.created_at, u.username
        FROM comments c
        JOIN users u ON u.user_id = c.user_id
        WHERE c.exercise_id=$1
        ORDER BY c.created_at DESC, c.comment_id DESC`

	rows, err := r.pool.Query(ctx, query, exerciseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.CommentEntry
	for rows.Next() {
		var entry domain.CommentEntry
		if err := rows.Scan(&entry.ID, &entry.ExerciseID, &entry.UserID, &entry.Text, &entry.CreatedAt, &entry.Username); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// AddComment inserts the comment and increments the exercise's and the
// author's comment counters in the same transaction.
func (r *Repository) AddComment(ctx context.Context, c domain.Comment) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const insert = `INSERT INTO comments (comment_id, exercise_id, user_id, body, created_at) VALUES ($1,$2,$3,$4,$5)`
	if _, err := tx.Exec(ctx, insert, c.ID, c.ExerciseID, c.UserID, c.Text, c.CreatedAt); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `UPDATE exercises SET comment_count = comment_count + 1 WHERE exercise_id=$1`, c.ExerciseID); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `UPDATE users SET comment_count = comment_count + 1 WHERE user_id=$1`, c.UserID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
