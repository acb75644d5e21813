package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	chat "github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/domain"
	repository "github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/persistence/repository/port"
)

// PgMessageStore persists messages in Postgres. Read receipts live in
// chat.message_read keyed by (message_id, user_id), which makes MarkRead
// naturally idempotent.
type PgMessageStore struct {
	pool *pgxpool.Pool
}

func NewPgMessageStore(pool *pgxpool.Pool) *PgMessageStore {
	return &PgMessageStore{pool: pool}
}

var _ repository.MessageStore = (*PgMessageStore)(nil)

const messageColumns = `
	m.id::text, m.room_id::text, m.sender_id::text, m.sender_username,
	m.msg_type, m.content, m.image_data, m.commute_update, m.reply_to::text,
	m.is_deleted, m.edited_at, m.created_at,
	COALESCE(
		jsonb_agg(jsonb_build_object('userId', r.user_id::text, 'readAt', r.read_at))
			FILTER (WHERE r.user_id IS NOT NULL),
		'[]'
	)`

func scanMessage(row pgx.Row) (*chat.Message, error) {
	var (
		m      chat.Message
		readBy []byte
	)
	err := row.Scan(&m.ID, &m.RoomID, &m.SenderID, &m.SenderUsername,
		&m.Type, &m.Content, &m.ImageData, &m.CommuteUpdate, &m.ReplyTo,
		&m.IsDeleted, &m.EditedAt, &m.CreatedAt, &readBy)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(readBy, &m.ReadBy); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *PgMessageStore) Append(ctx context.Context, m chat.Message) (*chat.Message, error) {
	if s == nil || s.pool == nil {
		return nil, errors.New("PgMessageStore: nil pool")
	}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO chat.message (
			room_id, sender_id, sender_username, msg_type, content,
			image_data, commute_update, reply_to, created_at
		) VALUES ($1::uuid, $2::uuid, $3, $4, $5, $6, $7, $8::uuid, $9)
		RETURNING id::text, created_at
	`, m.RoomID, m.SenderID, m.SenderUsername, m.Type, m.Content,
		m.ImageData, m.CommuteUpdate, m.ReplyTo, m.CreatedAt).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *PgMessageStore) Get(ctx context.Context, messageID string) (*chat.Message, error) {
	if s == nil || s.pool == nil {
		return nil, errors.New("PgMessageStore: nil pool")
	}
	row := s.pool.QueryRow(ctx, `
		SELECT `+messageColumns+`
		FROM chat.message m
		LEFT JOIN chat.message_read r ON r.message_id = m.id
		WHERE m.id = $1::uuid
		GROUP BY m.id
	`, messageID)
	m, err := scanMessage(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, chat.ErrMessageNotFound
	}
	return m, err
}

func (s *PgMessageStore) ListByRoom(ctx context.Context, roomID string, page, limit int) ([]chat.Message, int, error) {
	if s == nil || s.pool == nil {
		return nil, 0, errors.New("PgMessageStore: nil pool")
	}
	if limit <= 0 {
		limit = 50
	}
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	rows, err := s.pool.Query(ctx, `
		SELECT `+messageColumns+`
		FROM chat.message m
		LEFT JOIN chat.message_read r ON r.message_id = m.id
		WHERE m.room_id = $1::uuid AND NOT m.is_deleted
		GROUP BY m.id
		ORDER BY m.created_at DESC
		LIMIT $2 OFFSET $3
	`, roomID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var msgs []chat.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, 0, err
		}
		msgs = append(msgs, *m)
	}
	if rows.Err() != nil {
		return nil, 0, rows.Err()
	}

	var total int
	err = s.pool.QueryRow(ctx, `
		SELECT count(*) FROM chat.message
		WHERE room_id = $1::uuid AND NOT is_deleted
	`, roomID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}
	return msgs, total, nil
}

func (s *PgMessageStore) Edit(ctx context.Context, messageID string, content *string, imageData *string, editedAt time.Time) error {
	if s == nil || s.pool == nil {
		return errors.New("PgMessageStore: nil pool")
	}
	ct, err := s.pool.Exec(ctx, `
		UPDATE chat.message
		SET content = COALESCE($2, content),
		    image_data = COALESCE($3, image_data),
		    edited_at = $4
		WHERE id = $1::uuid AND NOT is_deleted
	`, messageID, content, imageData, editedAt)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return chat.ErrMessageNotFound
	}
	return nil
}

func (s *PgMessageStore) SoftDelete(ctx context.Context, messageID string, at time.Time) error {
	if s == nil || s.pool == nil {
		return errors.New("PgMessageStore: nil pool")
	}
	// Deleting twice is a no-op, not an error.
	_, err := s.pool.Exec(ctx, `
		UPDATE chat.message
		SET is_deleted = true, edited_at = $2
		WHERE id = $1::uuid AND NOT is_deleted
	`, messageID, at)
	return err
}

func (s *PgMessageStore) MarkRead(ctx context.Context, messageID, userID string, at time.Time) error {
	if s == nil || s.pool == nil {
		return errors.New("PgMessageStore: nil pool")
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO chat.message_read (message_id, user_id, read_at)
		VALUES ($1::uuid, $2::uuid, $3)
		ON CONFLICT (message_id, user_id) DO NOTHING
	`, messageID, userID, at)
	return err
}
