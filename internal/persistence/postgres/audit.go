package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"example.com/liftlog/internal/domain"
	"example.com/liftlog/internal/events"
)

// RecordAuthEvent persists the audit row and its outbox event in one
// transaction so the durable trail and the published trail cannot diverge.
func (r *Repository) RecordAuthEvent(ctx context.Context, ev domain.AuthEvent) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const insert = `INSERT INTO auth_audit (event_id, username, user_id, origin, success, reason, occurred_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`

	if _, err := tx.Exec(ctx, insert, ev.ID, ev.Username, nullIfEmpty(ev.UserID), ev.Origin, ev.Success, ev.Reason, ev.OccurredAt); err != nil {
		return err
	}

	if err := insertOutbox(ctx, tx, "auth", ev.ID, "auth.login", ev.Origin, events.AuthLogin{
		EventID:    ev.ID,
		Username:   ev.Username,
		UserID:     ev.UserID,
		Origin:     ev.Origin,
		Success:    ev.Success,
		Reason:     ev.Reason,
		OccurredAt: ev.OccurredAt,
	}); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func nullIfEmpty(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}
