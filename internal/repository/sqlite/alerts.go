package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"mindpulse/internal/model"
)

const alertColumns = `id, user_id, analysis_id, kind, status, payload, created_at`

type alertRepo struct {
	db *sql.DB
}

func scanAlert(row scanner) (*model.Alert, error) {
	var (
		a       model.Alert
		payload string
		created int64
	)
	if err := row.Scan(&a.ID, &a.UserID, &a.AnalysisID, &a.Kind, &a.Status, &payload, &created); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(payload), &a.Payload); err != nil {
		return nil, err
	}
	a.CreatedAt = fromMillis(created)
	return &a, nil
}

func (r *alertRepo) list(ctx context.Context, query string, args ...any) ([]*model.Alert, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	alerts := []*model.Alert{}
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

func (r *alertRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*model.Alert, error) {
	return r.list(ctx,
		`SELECT `+alertColumns+` FROM alerts WHERE user_id = ? ORDER BY created_at DESC, id LIMIT ?`,
		userID, limit)
}

func (r *alertRepo) ListByAnalysis(ctx context.Context, analysisID string) ([]*model.Alert, error) {
	return r.list(ctx, `SELECT `+alertColumns+` FROM alerts WHERE analysis_id = ? ORDER BY id`, analysisID)
}

func (r *alertRepo) GetForUser(ctx context.Context, id, userID string) (*model.Alert, error) {
	a, err := scanAlert(r.db.QueryRowContext(ctx,
		`SELECT `+alertColumns+` FROM alerts WHERE id = ? AND user_id = ?`, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return a, err
}

func (r *alertRepo) UpdateStatus(ctx context.Context, id string, status model.AlertStatus) error {
	_, err := r.db.ExecContext(ctx, `UPDATE alerts SET status = ? WHERE id = ?`, status, id)
	return err
}

func (r *alertRepo) CountOpen(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM alerts WHERE user_id = ? AND status = ?`, userID, model.AlertOpen).Scan(&n)
	return n, err
}
