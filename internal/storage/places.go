package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/coder-dipesh/equilo/internal/core"
)

// CreatePlace inserts a place together with its owner membership and the
// default expense categories, all in one transaction.
func (r *SQLiteRepository) CreatePlace(ctx context.Context, place *core.Place) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO places (name, created_by) VALUES (?, ?)`,
		place.Name, place.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert place: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("place id: %w", err)
	}
	place.ID = id

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO place_members (place_id, user_id, role) VALUES (?, ?, ?)`,
		id, place.CreatedBy, core.RoleOwner,
	); err != nil {
		return fmt.Errorf("insert owner membership: %w", err)
	}

	for _, name := range core.DefaultCategories {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO expense_categories (place_id, name) VALUES (?, ?)`,
			id, name,
		); err != nil {
			return fmt.Errorf("insert default category %s: %w", name, err)
		}
	}

	return tx.Commit()
}

func (r *SQLiteRepository) GetPlace(ctx context.Context, id int64) (*core.Place, error) {
	place := &core.Place{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_by, created_at FROM places WHERE id = ?`, id,
	).Scan(&place.ID, &place.Name, &place.CreatedBy, &place.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get place: %w", err)
	}
	return place, nil
}

func (r *SQLiteRepository) UpdatePlace(ctx context.Context, place *core.Place) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE places SET name = ? WHERE id = ?`, place.Name, place.ID)
	if err != nil {
		return fmt.Errorf("update place: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) DeletePlace(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM places WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete place: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListPlacesForUser returns all places the user is a member of, newest first.
func (r *SQLiteRepository) ListPlacesForUser(ctx context.Context, userID int64) ([]core.Place, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT p.id, p.name, p.created_by, p.created_at
		 FROM places p
		 JOIN place_members m ON m.place_id = p.id
		 WHERE m.user_id = ?
		 ORDER BY p.created_at DESC, p.id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list places: %w", err)
	}
	defer rows.Close()

	var places []core.Place
	for rows.Next() {
		var p core.Place
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedBy, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan place: %w", err)
		}
		places = append(places, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate places: %w", err)
	}
	return places, nil
}

// MemberRole returns the role of userID in placeID, or ErrNotFound when the
// user is not a member.
func (r *SQLiteRepository) MemberRole(ctx context.Context, placeID, userID int64) (core.MemberRole, error) {
	var role core.MemberRole
	err := r.db.QueryRowContext(ctx,
		`SELECT role FROM place_members WHERE place_id = ? AND user_id = ?`,
		placeID, userID,
	).Scan(&role)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("member role: %w", err)
	}
	return role, nil
}

func (r *SQLiteRepository) AddMember(ctx context.Context, placeID, userID int64, role core.MemberRole) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO place_members (place_id, user_id, role) VALUES (?, ?, ?)`,
		placeID, userID, role)
	if err != nil {
		return fmt.Errorf("add member: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) RemoveMember(ctx context.Context, placeID, userID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM place_members WHERE place_id = ? AND user_id = ?`, placeID, userID)
	if err != nil {
		return fmt.Errorf("remove member: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) ListMembers(ctx context.Context, placeID int64) ([]core.PlaceMember, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT place_id, user_id, role, joined_at
		 FROM place_members WHERE place_id = ? ORDER BY joined_at, user_id`, placeID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []core.PlaceMember
	for rows.Next() {
		var m core.PlaceMember
		if err := rows.Scan(&m.PlaceID, &m.UserID, &m.Role, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}
	return members, nil
}

func (r *SQLiteRepository) CreateCategory(ctx context.Context, category *core.ExpenseCategory) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expense_categories (place_id, name) VALUES (?, ?)`,
		category.PlaceID, category.Name)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("category id: %w", err)
	}
	category.ID = id
	return nil
}

func (r *SQLiteRepository) ListCategories(ctx context.Context, placeID int64) ([]core.ExpenseCategory, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, place_id, name FROM expense_categories WHERE place_id = ? ORDER BY name`, placeID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []core.ExpenseCategory
	for rows.Next() {
		var c core.ExpenseCategory
		if err := rows.Scan(&c.ID, &c.PlaceID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}

func (r *SQLiteRepository) GetCategory(ctx context.Context, placeID, categoryID int64) (*core.ExpenseCategory, error) {
	c := &core.ExpenseCategory{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, place_id, name FROM expense_categories WHERE id = ? AND place_id = ?`,
		categoryID, placeID,
	).Scan(&c.ID, &c.PlaceID, &c.Name)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) UpdateCategory(ctx context.Context, category *core.ExpenseCategory) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE expense_categories SET name = ? WHERE id = ? AND place_id = ?`,
		category.Name, category.ID, category.PlaceID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) DeleteCategory(ctx context.Context, placeID, categoryID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM expense_categories WHERE id = ? AND place_id = ?`, categoryID, placeID)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
