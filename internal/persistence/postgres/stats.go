package postgres

import (
	"context"

	"example.com/liftlog/internal/domain"
)

// GroupStats aggregates a user's exercises per (type, class).
func (r *Repository) GroupStats(ctx context.Context, userID string) ([]domain.GroupStat, error) {
	const query = `SELECT t.name, c.label, MAX(e.weight), COUNT(*), MAX(e.performed_on)
        FROM exercises e
        JOIN exercise_types t ON t.type_id = e.type_id
        LEFT JOIN exercise_classes c ON c.class_id = e.class_id
        WHERE e.user_id=$1
        GROUP BY t.name, c.label
        ORDER BY t.name, c.label`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []domain.GroupStat
	for rows.Next() {
		var gs domain.GroupStat
		if err := rows.Scan(&gs.TypeName, &gs.ClassLabel, &gs.MaxWeight, &gs.LiftCount, &gs.LastDate); err != nil {
			return nil, err
		}
		stats = append(stats, gs)
	}
	return stats, rows.Err()
}

const recordColumns = `r.record_id, r.user_id, r.type_id, r.class_id, r.e1rm_epley, r.e1rm_lombardi, r.e1rm_brzycki, r.source_weight, r.recorded_on, r.created_at`

// LatestRecords returns the most recent PR record per exercise type,
// ordered by type name. Recency is record date first, insertion order
// second.
func (r *Repository) LatestRecords(ctx context.Context, userID string) ([]domain.PRRecord, error) {
	const query = `SELECT record_id, user_id, type_id, class_id, e1rm_epley, e1rm_lombardi, e1rm_brzycki, source_weight, recorded_on, created_at
        FROM (SELECT DISTINCT ON (r.type_id) ` + recordColumns + `, t.name AS type_name
                FROM pr_records r
                JOIN exercise_types t ON t.type_id = r.type_id
               WHERE r.user_id=$1
               ORDER BY r.type_id, r.recorded_on DESC, r.seq DESC) latest
        ORDER BY type_name`

	return r.queryRecords(ctx, query, userID)
}

// ListRecords returns the full PR history for a user, newest first.
func (r *Repository) ListRecords(ctx context.Context, userID string) ([]domain.PRRecord, error) {
	const query = `SELECT ` + recordColumns + `
        FROM pr_records r
        WHERE r.user_id=$1
        ORDER BY r.recorded_on DESC, r.seq DESC`

	return r.queryRecords(ctx, query, userID)
}

func (r *Repository) queryRecords(ctx context.Context, query string, args ...interface{}) ([]domain.PRRecord, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.PRRecord
	for rows.Next() {
		var rec domain.PRRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.TypeID, &rec.ClassID,
			&rec.Epley, &rec.Lombardi, &rec.Brzycki, &rec.Weight, &rec.Date, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
