package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/coder-dipesh/equilo/internal/core"
)

func (r *SQLiteRepository) CreateUser(ctx context.Context, user *core.User, passwordHash string) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, email, display_name, password_hash)
		 VALUES (?, ?, ?, ?)`,
		user.Username, user.Email, user.DisplayName, passwordHash,
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("user id: %w", err)
	}
	user.ID = id
	return nil
}

func (r *SQLiteRepository) GetUserByID(ctx context.Context, id int64) (*core.User, error) {
	user := &core.User{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, email, display_name FROM users WHERE id = ?`, id,
	).Scan(&user.ID, &user.Username, &user.Email, &user.DisplayName)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (r *SQLiteRepository) GetUserByUsername(ctx context.Context, username string) (*core.User, string, error) {
	return r.getUserWithHash(ctx, "username", username)
}

func (r *SQLiteRepository) GetUserByEmail(ctx context.Context, email string) (*core.User, string, error) {
	return r.getUserWithHash(ctx, "email", email)
}

func (r *SQLiteRepository) getUserWithHash(ctx context.Context, column, value string) (*core.User, string, error) {
	user := &core.User{}
	var hash string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, email, display_name, password_hash FROM users WHERE `+column+` = ?`, value,
	).Scan(&user.ID, &user.Username, &user.Email, &user.DisplayName, &hash)
	if err == sql.ErrNoRows {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("get user by %s: %w", column, err)
	}
	return user, hash, nil
}

// UsersByID returns the users for the given ids. Unknown ids are simply
// absent from the result map.
func (r *SQLiteRepository) UsersByID(ctx context.Context, ids []int64) (map[int64]core.User, error) {
	users := make(map[int64]core.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, username, email, display_name FROM users WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var u core.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.DisplayName); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users[u.ID] = u
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

func (r *SQLiteRepository) UpdateDisplayName(ctx context.Context, userID int64, displayName string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET display_name = ? WHERE id = ?`, displayName, userID)
	if err != nil {
		return fmt.Errorf("update display name: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
