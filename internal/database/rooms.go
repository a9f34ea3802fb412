// internal/database/rooms.go
package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minemaniauk/gamerooms/internal/models"
)

// PostgresRoomStore persists game rooms in the rooms and room_members
// tables. Member order is kept via an explicit position column so display
// slotting stays stable across saves.
type PostgresRoomStore struct {
	pool *pgxpool.Pool
}

// NewPostgresRoomStore wraps a pgx pool.
func NewPostgresRoomStore(pool *pgxpool.Pool) *PostgresRoomStore {
	return &PostgresRoomStore{pool: pool}
}

// Create inserts the room row and its member rows in one transaction.
func (s *PostgresRoomStore) Create(ctx context.Context, room *models.GameRoom) error {
	return pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		q := `
			INSERT INTO rooms (id, owner_id, game_type, private, arena_id, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		if _, err := tx.Exec(ctx, q, room.ID, room.OwnerID, room.GameType, room.Private, room.ArenaID, room.CreatedAt); err != nil {
			return err
		}
		return insertMembers(ctx, tx, room)
	})
}

// Get fetches a room by id, returning (nil, nil) when absent.
func (s *PostgresRoomStore) Get(ctx context.Context, id uuid.UUID) (*models.GameRoom, error) {
	var room models.GameRoom
	q := `
		SELECT id, owner_id, game_type, private, arena_id, created_at
		FROM rooms
		WHERE id = $1
	`
	err := s.pool.QueryRow(ctx, q, id).Scan(
		&room.ID, &room.OwnerID, &room.GameType, &room.Private, &room.ArenaID, &room.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadMembers(ctx, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

// Save rewrites the room row and replaces its member rows.
func (s *PostgresRoomStore) Save(ctx context.Context, room *models.GameRoom) error {
	return pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		q := `
			UPDATE rooms
			SET private = $2, arena_id = $3
			WHERE id = $1
		`
		if _, err := tx.Exec(ctx, q, room.ID, room.Private, room.ArenaID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM room_members WHERE room_id = $1`, room.ID); err != nil {
			return err
		}
		return insertMembers(ctx, tx, room)
	})
}

// Delete removes the room; member rows cascade.
func (s *PostgresRoomStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	return err
}

// ListPublicAvailable returns public rooms that have no arena assignment, in
// creation order.
func (s *PostgresRoomStore) ListPublicAvailable(ctx context.Context) ([]models.GameRoom, error) {
	q := `
		SELECT id, owner_id, game_type, private, arena_id, created_at
		FROM rooms
		WHERE private = false AND arena_id IS NULL
		ORDER BY created_at
	`
	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.GameRoom
	for rows.Next() {
		var room models.GameRoom
		if err := rows.Scan(&room.ID, &room.OwnerID, &room.GameType, &room.Private, &room.ArenaID, &room.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, room)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range list {
		if err := s.loadMembers(ctx, &list[i]); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (s *PostgresRoomStore) loadMembers(ctx context.Context, room *models.GameRoom) error {
	q := `
		SELECT user_id
		FROM room_members
		WHERE room_id = $1
		ORDER BY position
	`
	rows, err := s.pool.Query(ctx, q, room.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	room.MemberIDs = room.MemberIDs[:0]
	for rows.Next() {
		var userID uuid.UUID
		if err := rows.Scan(&userID); err != nil {
			return err
		}
		room.MemberIDs = append(room.MemberIDs, userID)
	}
	return rows.Err()
}

func insertMembers(ctx context.Context, tx pgx.Tx, room *models.GameRoom) error {
	q := `
		INSERT INTO room_members (room_id, user_id, position)
		VALUES ($1, $2, $3)
	`
	for i, userID := range room.MemberIDs {
		if _, err := tx.Exec(ctx, q, room.ID, userID, i); err != nil {
			return err
		}
	}
	return nil
}
