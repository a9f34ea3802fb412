// internal/database/invites.go
package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minemaniauk/gamerooms/internal/models"
)

// PostgresInviteStore persists invites. The unique (room_id, target_id)
// constraint backs invite idempotency at the storage level; the service
// checks ExistsFor first so a duplicate insert is a silent no-op.
type PostgresInviteStore struct {
	pool *pgxpool.Pool
}

// NewPostgresInviteStore wraps a pgx pool.
func NewPostgresInviteStore(pool *pgxpool.Pool) *PostgresInviteStore {
	return &PostgresInviteStore{pool: pool}
}

// Create inserts the invite. Conflicting (room_id, target_id) rows are left
// untouched.
func (s *PostgresInviteStore) Create(ctx context.Context, invite *models.Invite) error {
	q := `
		INSERT INTO invites (id, room_id, target_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (room_id, target_id) DO NOTHING
	`
	_, err := s.pool.Exec(ctx, q, invite.ID, invite.RoomID, invite.TargetID, invite.CreatedAt)
	return err
}

// Get fetches an invite by id, returning (nil, nil) when absent.
func (s *PostgresInviteStore) Get(ctx context.Context, id uuid.UUID) (*models.Invite, error) {
	var invite models.Invite
	q := `
		SELECT id, room_id, target_id, created_at
		FROM invites
		WHERE id = $1
	`
	err := s.pool.QueryRow(ctx, q, id).Scan(&invite.ID, &invite.RoomID, &invite.TargetID, &invite.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

// Delete removes an invite by id.
func (s *PostgresInviteStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM invites WHERE id = $1`, id)
	return err
}

// ListByTarget returns every invite targeting userID, oldest first.
func (s *PostgresInviteStore) ListByTarget(ctx context.Context, userID uuid.UUID) ([]models.Invite, error) {
	q := `
		SELECT id, room_id, target_id, created_at
		FROM invites
		WHERE target_id = $1
		ORDER BY created_at
	`
	rows, err := s.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Invite
	for rows.Next() {
		var invite models.Invite
		if err := rows.Scan(&invite.ID, &invite.RoomID, &invite.TargetID, &invite.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, invite)
	}
	return list, rows.Err()
}

// ExistsFor reports whether a live invite exists for (roomID, userID).
func (s *PostgresInviteStore) ExistsFor(ctx context.Context, roomID, userID uuid.UUID) (bool, error) {
	var exists bool
	q := `SELECT EXISTS (SELECT 1 FROM invites WHERE room_id = $1 AND target_id = $2)`
	if err := s.pool.QueryRow(ctx, q, roomID, userID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// DeleteByRoom removes every invite referencing roomID.
func (s *PostgresInviteStore) DeleteByRoom(ctx context.Context, roomID uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM invites WHERE room_id = $1`, roomID)
	return err
}
