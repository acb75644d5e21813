package repository

import (
	"context"
	"errors"

	chat "github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/domain"
)

// ErrInvalidCredential signals a bad, expired or revoked credential, or a user
// that is no longer active. Connections presenting one are refused.
var ErrInvalidCredential = errors.New("directory: invalid credential")

// UserDirectory is the authentication and presence boundary the realtime core
// consumes. Credential storage and password checks live behind it.
type UserDirectory interface {
	// Verify resolves an opaque bearer credential to an identity.
	// Inactive or banned users are treated as invalid.
	Verify(ctx context.Context, credential string) (*chat.Identity, error)

	// SetOnline flips the user's directory online flag and last-active timestamp.
	SetOnline(ctx context.Context, userID string, online bool) error
}

// UserReader looks up directory records by ID. Used by credential verifiers
// and roster display queries.
type UserReader interface {
	FindByID(ctx context.Context, userID string) (*chat.User, error)
}
