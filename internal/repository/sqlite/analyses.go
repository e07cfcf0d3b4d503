package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"mindpulse/internal/model"
	"mindpulse/internal/repository"
)

const analysisColumns = `id, checkin_id, user_id, model_version, summary, stress_level, risk_score, overall_wellness, confidence, created_at`

type analysisRepo struct {
	db *sql.DB
}

func scanAnalysis(row scanner) (*model.Analysis, error) {
	var (
		a       model.Analysis
		created int64
	)
	err := row.Scan(&a.ID, &a.CheckinID, &a.UserID, &a.ModelVersion, &a.Summary,
		&a.Labels.StressLevel, &a.Labels.RiskScore, &a.Labels.OverallWellness, &a.Confidence, &created)
	if err != nil {
		return nil, err
	}
	a.CreatedAt = fromMillis(created)
	return &a, nil
}

func (r *analysisRepo) SaveWithAlerts(ctx context.Context, a *model.Analysis, alerts []*model.Alert) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO analyses (`+analysisColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.CheckinID, a.UserID, a.ModelVersion, a.Summary,
		a.Labels.StressLevel, a.Labels.RiskScore, a.Labels.OverallWellness, a.Confidence, toMillis(a.CreatedAt))
	if isUniqueViolation(err) {
		return repository.ErrDuplicate
	}
	if err != nil {
		return err
	}

	for _, al := range alerts {
		payload, mErr := json.Marshal(al.Payload)
		if mErr != nil {
			err = mErr
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO alerts (`+alertColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			al.ID, al.UserID, al.AnalysisID, al.Kind, al.Status, string(payload), toMillis(al.CreatedAt))
		if err != nil {
			return fmt.Errorf("insert alert %s: %w", al.Kind, err)
		}
	}
	return tx.Commit()
}

func (r *analysisRepo) GetByCheckinID(ctx context.Context, checkinID string) (*model.Analysis, error) {
	return r.getOne(ctx, `SELECT `+analysisColumns+` FROM analyses WHERE checkin_id = ?`, checkinID)
}

func (r *analysisRepo) GetForUser(ctx context.Context, id, userID string) (*model.Analysis, error) {
	return r.getOne(ctx, `SELECT `+analysisColumns+` FROM analyses WHERE id = ? AND user_id = ?`, id, userID)
}

func (r *analysisRepo) getOne(ctx context.Context, query string, args ...any) (*model.Analysis, error) {
	a, err := scanAnalysis(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return a, err
}

func (r *analysisRepo) ListRecentByUser(ctx context.Context, userID string, limit int) ([]*model.Analysis, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+analysisColumns+` FROM analyses WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	analyses := []*model.Analysis{}
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		analyses = append(analyses, a)
	}
	return analyses, rows.Err()
}
