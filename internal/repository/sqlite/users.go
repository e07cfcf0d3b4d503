package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"mindpulse/internal/model"
	"mindpulse/internal/repository"
)

const userColumns = `id, email, hashed_password, full_name, role, is_active, created_at, updated_at, last_login`

type userRepo struct {
	db *sql.DB
}

func scanUser(row scanner) (*model.User, error) {
	var (
		u                model.User
		active           int
		created, updated int64
		lastLogin        sql.NullInt64
	)
	if err := row.Scan(&u.ID, &u.Email, &u.HashedPassword, &u.FullName, &u.Role, &active, &created, &updated, &lastLogin); err != nil {
		return nil, err
	}
	u.IsActive = active == 1
	u.CreatedAt = fromMillis(created)
	u.UpdatedAt = fromMillis(updated)
	if lastLogin.Valid {
		t := fromMillis(lastLogin.Int64)
		u.LastLogin = &t
	}
	return &u, nil
}

func nullableMillis(u *model.User) sql.NullInt64 {
	if u.LastLogin == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: toMillis(*u.LastLogin), Valid: true}
}

func (r *userRepo) Create(ctx context.Context, u *model.User) error {
	ts := now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = ts
	}
	u.UpdatedAt = ts

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.HashedPassword, u.FullName, u.Role, boolToInt(u.IsActive),
		toMillis(u.CreatedAt), toMillis(u.UpdatedAt), nullableMillis(u))
	if isUniqueViolation(err) {
		return repository.ErrDuplicate
	}
	return err
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
}

func (r *userRepo) getOne(ctx context.Context, query string, args ...any) (*model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

func (r *userRepo) Update(ctx context.Context, u *model.User) error {
	u.UpdatedAt = now()
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET email = ?, hashed_password = ?, full_name = ?, role = ?, is_active = ?, updated_at = ?, last_login = ?
		 WHERE id = ?`,
		u.Email, u.HashedPassword, u.FullName, u.Role, boolToInt(u.IsActive), toMillis(u.UpdatedAt), nullableMillis(u), u.ID)
	if isUniqueViolation(err) {
		return repository.ErrDuplicate
	}
	return err
}

func (r *userRepo) List(ctx context.Context, search string, offset, limit int) ([]*model.User, int64, error) {
	where := `is_active = 1`
	var args []any
	if search != "" {
		pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
		where += ` AND (lower(email) LIKE ? ESCAPE '\' OR lower(full_name) LIKE ? ESCAPE '\')`
		args = append(args, pattern, pattern)
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM users WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE `+where+` ORDER BY created_at, id LIMIT ? OFFSET ?`,
		append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := []*model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

type settingsRepo struct {
	db *sql.DB
}

func (r *settingsRepo) Get(ctx context.Context, userID string) (*model.UserSettings, error) {
	var (
		s   model.UserSettings
		raw string
	)
	err := r.db.QueryRowContext(ctx, `SELECT id, user_id, preferences FROM user_settings WHERE user_id = ?`, userID).
		Scan(&s.ID, &s.UserID, &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(raw), &s.Preferences); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *settingsRepo) Upsert(ctx context.Context, s *model.UserSettings) error {
	raw, err := json.Marshal(s.Preferences)
	if err != nil {
		return err
	}
	return r.db.QueryRowContext(ctx,
		`INSERT INTO user_settings (id, user_id, preferences) VALUES (?, ?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET preferences = excluded.preferences
		 RETURNING id`,
		s.ID, s.UserID, string(raw)).Scan(&s.ID)
}
