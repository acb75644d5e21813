package adapter

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	chat "github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/domain"
	repository "github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/persistence/repository/port"
)

// ErrUserNotFound is returned when no directory record matches the ID.
var ErrUserNotFound = errors.New("directory: user not found")

// PgUserStore reads and updates directory records in Postgres. Credential
// material never passes through here.
type PgUserStore struct {
	pool *pgxpool.Pool
}

func NewPgUserStore(pool *pgxpool.Pool) *PgUserStore {
	return &PgUserStore{pool: pool}
}

var _ repository.UserReader = (*PgUserStore)(nil)

func (s *PgUserStore) FindByID(ctx context.Context, userID string) (*chat.User, error) {
	if s == nil || s.pool == nil {
		return nil, errors.New("PgUserStore: nil pool")
	}
	var u chat.User
	err := s.pool.QueryRow(ctx, `
		SELECT id::text, username, full_name, avatar, role, status,
		       is_online, last_active, created_at
		FROM chat.app_user
		WHERE id = $1::uuid
	`, userID).Scan(&u.ID, &u.Username, &u.FullName, &u.Avatar, &u.Role, &u.Status,
		&u.IsOnline, &u.LastActive, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// SetOnline flips the online flag and bumps last_active.
func (s *PgUserStore) SetOnline(ctx context.Context, userID string, online bool) error {
	if s == nil || s.pool == nil {
		return errors.New("PgUserStore: nil pool")
	}
	_, err := s.pool.Exec(ctx, `
		UPDATE chat.app_user
		SET is_online = $2, last_active = now()
		WHERE id = $1::uuid
	`, userID, online)
	return err
}
