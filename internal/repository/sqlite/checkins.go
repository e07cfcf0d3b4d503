package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"mindpulse/internal/model"
)

const checkinColumns = `id, user_id, mood, sleep_hours, notes, created_at`

type checkinRepo struct {
	db *sql.DB
}

func scanCheckin(row scanner) (*model.Checkin, error) {
	var (
		c       model.Checkin
		created int64
	)
	if err := row.Scan(&c.ID, &c.UserID, &c.Mood, &c.SleepHours, &c.Notes, &created); err != nil {
		return nil, err
	}
	c.CreatedAt = fromMillis(created)
	return &c, nil
}

func (r *checkinRepo) Create(ctx context.Context, c *model.Checkin) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO checkins (`+checkinColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.Mood, c.SleepHours, c.Notes, toMillis(c.CreatedAt))
	return err
}

func (r *checkinRepo) GetByID(ctx context.Context, id string) (*model.Checkin, error) {
	return r.getOne(ctx, `SELECT `+checkinColumns+` FROM checkins WHERE id = ?`, id)
}

func (r *checkinRepo) GetForUser(ctx context.Context, id, userID string) (*model.Checkin, error) {
	return r.getOne(ctx, `SELECT `+checkinColumns+` FROM checkins WHERE id = ? AND user_id = ?`, id, userID)
}

func (r *checkinRepo) getOne(ctx context.Context, query string, args ...any) (*model.Checkin, error) {
	c, err := scanCheckin(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

func (r *checkinRepo) ListByUserSince(ctx context.Context, userID string, since time.Time) ([]*model.Checkin, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+checkinColumns+` FROM checkins WHERE user_id = ? AND created_at >= ? ORDER BY created_at, id`,
		userID, toMillis(since))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	checkins := []*model.Checkin{}
	for rows.Next() {
		c, err := scanCheckin(rows)
		if err != nil {
			return nil, err
		}
		checkins = append(checkins, c)
	}
	return checkins, rows.Err()
}
