package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/coder-dipesh/equilo/internal/core"
)

func (r *SQLiteRepository) CreateInvite(ctx context.Context, invite *core.PlaceInvite) error {
	var expiresAt any
	if !invite.ExpiresAt.IsZero() {
		expiresAt = invite.ExpiresAt
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO place_invites (place_id, token, invited_email, status, created_by, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		invite.PlaceID, invite.Token, invite.Email, invite.Status, invite.InvitedBy, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("insert invite: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("invite id: %w", err)
	}
	invite.ID = id
	return nil
}

func (r *SQLiteRepository) GetInviteByToken(ctx context.Context, token string) (*core.PlaceInvite, error) {
	invite := &core.PlaceInvite{}
	var expiresAt sql.NullTime
	err := r.db.QueryRowContext(ctx,
		`SELECT id, place_id, token, invited_email, status, created_by, created_at, expires_at
		 FROM place_invites WHERE token = ?`, token,
	).Scan(&invite.ID, &invite.PlaceID, &invite.Token, &invite.Email, &invite.Status,
		&invite.InvitedBy, &invite.CreatedAt, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get invite: %w", err)
	}
	if expiresAt.Valid {
		invite.ExpiresAt = expiresAt.Time
	}
	return invite, nil
}

func (r *SQLiteRepository) GetInvite(ctx context.Context, inviteID int64) (*core.PlaceInvite, error) {
	invite := &core.PlaceInvite{}
	var expiresAt sql.NullTime
	err := r.db.QueryRowContext(ctx,
		`SELECT id, place_id, token, invited_email, status, created_by, created_at, expires_at
		 FROM place_invites WHERE id = ?`, inviteID,
	).Scan(&invite.ID, &invite.PlaceID, &invite.Token, &invite.Email, &invite.Status,
		&invite.InvitedBy, &invite.CreatedAt, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get invite: %w", err)
	}
	if expiresAt.Valid {
		invite.ExpiresAt = expiresAt.Time
	}
	return invite, nil
}

func (r *SQLiteRepository) ListInvites(ctx context.Context, placeID int64) ([]core.PlaceInvite, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, place_id, token, invited_email, status, created_by, created_at, expires_at
		 FROM place_invites WHERE place_id = ? ORDER BY created_at DESC, id DESC`, placeID)
	if err != nil {
		return nil, fmt.Errorf("list invites: %w", err)
	}
	defer rows.Close()

	var invites []core.PlaceInvite
	for rows.Next() {
		var invite core.PlaceInvite
		var expiresAt sql.NullTime
		if err := rows.Scan(&invite.ID, &invite.PlaceID, &invite.Token, &invite.Email,
			&invite.Status, &invite.InvitedBy, &invite.CreatedAt, &expiresAt); err != nil {
			return nil, fmt.Errorf("scan invite: %w", err)
		}
		if expiresAt.Valid {
			invite.ExpiresAt = expiresAt.Time
		}
		invites = append(invites, invite)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invites: %w", err)
	}
	return invites, nil
}

func (r *SQLiteRepository) SetInviteStatus(ctx context.Context, inviteID int64, status core.InviteStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE place_invites SET status = ? WHERE id = ?`, status, inviteID)
	if err != nil {
		return fmt.Errorf("set invite status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ExpireStaleInvites marks pending invites whose deadline has passed as
// expired. Returns the number of invites touched.
func (r *SQLiteRepository) ExpireStaleInvites(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE place_invites SET status = ?
		 WHERE status = ? AND expires_at IS NOT NULL AND expires_at < ?`,
		core.InviteExpired, core.InvitePending, now)
	if err != nil {
		return 0, fmt.Errorf("expire invites: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
