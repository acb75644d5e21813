package adapter

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	chat "github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/domain"
	repository "github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/persistence/repository/port"
)

// PgRoomStore persists rooms and rosters in Postgres. Roster membership lives
// in chat.room_member; member_count on chat.room is recomputed from it inside
// the same transaction as every roster mutation, so the two can never drift.
type PgRoomStore struct {
	pool *pgxpool.Pool
}

func NewPgRoomStore(pool *pgxpool.Pool) *PgRoomStore {
	return &PgRoomStore{pool: pool}
}

var _ repository.RoomStore = (*PgRoomStore)(nil)

func (r *PgRoomStore) Find(ctx context.Context, roomID string) (*chat.Room, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgRoomStore: nil pool")
	}
	var room chat.Room
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, name, description, room_type, route_id::text, station_id,
		       member_count, created_by::text, is_active, last_message_at, created_at
		FROM chat.room
		WHERE id = $1::uuid AND is_active
	`, roomID).Scan(&room.ID, &room.Name, &room.Description, &room.Type, &room.RouteID,
		&room.StationID, &room.MemberCount, &room.CreatedBy, &room.IsActive,
		&room.LastMessageAt, &room.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, chat.ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *PgRoomStore) AddMember(ctx context.Context, roomID, userID string) (int, bool, error) {
	if r == nil || r.pool == nil {
		return 0, false, errors.New("PgRoomStore: nil pool")
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, false, err
	}
	defer tx.Rollback(ctx)

	ct, err := tx.Exec(ctx, `
		INSERT INTO chat.room_member (room_id, user_id)
		VALUES ($1::uuid, $2::uuid)
		ON CONFLICT (room_id, user_id) DO NOTHING
	`, roomID, userID)
	if err != nil {
		return 0, false, err
	}
	added := ct.RowsAffected() > 0

	var count int
	err = tx.QueryRow(ctx, `
		UPDATE chat.room
		SET member_count = (SELECT count(*) FROM chat.room_member WHERE room_id = $1::uuid)
		WHERE id = $1::uuid
		RETURNING member_count
	`, roomID).Scan(&count)
	if err != nil {
		return 0, false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, false, err
	}
	return count, added, nil
}

func (r *PgRoomStore) RemoveMember(ctx context.Context, roomID, userID string) (int, bool, error) {
	if r == nil || r.pool == nil {
		return 0, false, errors.New("PgRoomStore: nil pool")
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, false, err
	}
	defer tx.Rollback(ctx)

	ct, err := tx.Exec(ctx, `
		DELETE FROM chat.room_member
		WHERE room_id = $1::uuid AND user_id = $2::uuid
	`, roomID, userID)
	if err != nil {
		return 0, false, err
	}
	removed := ct.RowsAffected() > 0

	var count int
	err = tx.QueryRow(ctx, `
		UPDATE chat.room
		SET member_count = (SELECT count(*) FROM chat.room_member WHERE room_id = $1::uuid)
		WHERE id = $1::uuid
		RETURNING member_count
	`, roomID).Scan(&count)
	if err != nil {
		return 0, false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, false, err
	}
	return count, removed, nil
}

func (r *PgRoomStore) IsMember(ctx context.Context, roomID, userID string) (bool, error) {
	if r == nil || r.pool == nil {
		return false, errors.New("PgRoomStore: nil pool")
	}
	var ok bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM chat.room_member
			WHERE room_id = $1::uuid AND user_id = $2::uuid
		)
	`, roomID, userID).Scan(&ok)
	return ok, err
}

func (r *PgRoomStore) MembersOf(ctx context.Context, roomID string) ([]chat.RoomMember, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgRoomStore: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT u.id::text, u.username, u.avatar, u.is_online, u.last_active
		FROM chat.room_member rm
		JOIN chat.app_user u ON u.id = rm.user_id
		WHERE rm.room_id = $1::uuid
		ORDER BY u.username
	`, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []chat.RoomMember
	for rows.Next() {
		var m chat.RoomMember
		if err := rows.Scan(&m.UserID, &m.Username, &m.Avatar, &m.IsOnline, &m.LastActive); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *PgRoomStore) TouchLastActivity(ctx context.Context, roomID string) error {
	if r == nil || r.pool == nil {
		return errors.New("PgRoomStore: nil pool")
	}
	_, err := r.pool.Exec(ctx, `
		UPDATE chat.room SET last_message_at = now() WHERE id = $1::uuid
	`, roomID)
	return err
}

func (r *PgRoomStore) ListActive(ctx context.Context, limit int) ([]chat.Room, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgRoomStore: nil pool")
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, name, description, room_type, route_id::text, station_id,
		       member_count, created_by::text, is_active, last_message_at, created_at
		FROM chat.room
		WHERE is_active
		ORDER BY last_message_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []chat.Room
	for rows.Next() {
		var room chat.Room
		if err := rows.Scan(&room.ID, &room.Name, &room.Description, &room.Type, &room.RouteID,
			&room.StationID, &room.MemberCount, &room.CreatedBy, &room.IsActive,
			&room.LastMessageAt, &room.CreatedAt); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}
