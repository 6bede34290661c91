package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/garnizeh/skillswap/pkg/models"
	"github.com/garnizeh/skillswap/pkg/repository"
)

const userColumns = `id, username, email, password_hash, name, location, profile_photo, bio, availability, is_public, is_admin, is_banned, created`

func scanUser(s rowScanner) (*models.User, error) {
	var u models.User
	var location, photo, bio, availability sql.NullString
	if err := s.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Name, &location, &photo, &bio, &availability, &u.IsPublic, &u.IsAdmin, &u.IsBanned, &u.Created); err != nil {
		return nil, err
	}
	u.Location = location.String
	u.ProfilePhoto = photo.String
	u.Bio = bio.String
	u.Availability = availability.String
	return &u, nil
}

func (r *SQLiteRepo) CreateUser(ctx context.Context, u *models.User) (int64, error) {
	if u == nil {
		return 0, fmt.Errorf("user is nil")
	}

	res, err := r.conn.Exec(ctx, `INSERT INTO users (username, email, password_hash, name, location, is_public, is_admin, created) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.Username, u.Email, u.PasswordHash, u.Name, nullString(u.Location), boolInt(u.IsPublic), boolInt(u.IsAdmin), now())
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("create user %q: %w", u.Username, repository.ErrDuplicate)
		}
		return 0, fmt.Errorf("create user: %w", err)
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	u, err := scanUser(r.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return u, nil
}

func (r *SQLiteRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := scanUser(r.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return u, nil
}

func (r *SQLiteRepo) UpdateProfile(ctx context.Context, id int64, upd models.ProfileUpdate) error {
	if upd.Empty() {
		return nil
	}

	var sets []string
	var args []any
	if upd.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *upd.Name)
	}
	if upd.Location != nil {
		sets = append(sets, "location = ?")
		args = append(args, nullString(*upd.Location))
	}
	if upd.Bio != nil {
		sets = append(sets, "bio = ?")
		args = append(args, nullString(*upd.Bio))
	}
	if upd.Availability != nil {
		sets = append(sets, "availability = ?")
		args = append(args, nullString(*upd.Availability))
	}
	if upd.IsPublic != nil {
		sets = append(sets, "is_public = ?")
		args = append(args, boolInt(*upd.IsPublic))
	}
	args = append(args, id)

	if _, err := r.conn.Exec(ctx, `UPDATE users SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...); err != nil {
		return fmt.Errorf("update profile %d: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepo) SetProfilePhoto(ctx context.Context, id int64, filename string) error {
	if _, err := r.conn.Exec(ctx, `UPDATE users SET profile_photo = ? WHERE id = ?`, filename, id); err != nil {
		return fmt.Errorf("set profile photo %d: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepo) SetBanned(ctx context.Context, id int64, banned bool) (bool, error) {
	return r.setFlag(ctx, "is_banned", id, banned)
}

func (r *SQLiteRepo) SetAdmin(ctx context.Context, id int64, admin bool) (bool, error) {
	return r.setFlag(ctx, "is_admin", id, admin)
}

// setFlag updates a boolean column. column is never user input.
func (r *SQLiteRepo) setFlag(ctx context.Context, column string, id int64, v bool) (bool, error) {
	res, err := r.conn.Exec(ctx, `UPDATE users SET `+column+` = ? WHERE id = ?`, boolInt(v), id)
	if err != nil {
		return false, fmt.Errorf("set %s for user %d: %w", column, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *SQLiteRepo) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return r.queryUsers(ctx, `SELECT `+userColumns+` FROM users ORDER BY created DESC, id DESC LIMIT ? OFFSET ?`, limit, offset)
}

func (r *SQLiteRepo) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := r.conn.QueryRow(ctx, `SELECT COUNT(1) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// SearchUsers matches public, non-banned users by name, location or skill name.
func (r *SQLiteRepo) SearchUsers(ctx context.Context, q string, limit, offset int) ([]models.User, error) {
	pattern := "%" + q + "%"
	return r.queryUsers(ctx, `SELECT `+userColumns+` FROM users u
		WHERE u.is_public = 1 AND u.is_banned = 0 AND (
			u.name LIKE ? OR u.location LIKE ?
			OR EXISTS (SELECT 1 FROM skills_offered so WHERE so.user_id = u.id AND so.skill_name LIKE ?)
			OR EXISTS (SELECT 1 FROM skills_wanted sw WHERE sw.user_id = u.id AND sw.skill_name LIKE ?)
		)
		ORDER BY u.id
		LIMIT ? OFFSET ?`, pattern, pattern, pattern, pattern, limit, offset)
}

func (r *SQLiteRepo) queryUsers(ctx context.Context, query string, args ...any) ([]models.User, error) {
	rows, err := r.conn.QueryRows(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}
