package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	cacheport "github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/infrastructure/cache/port"
	chat "github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/domain"
	repository "github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/persistence/repository/port"
)

// identityTTL bounds how long a verified credential is served from cache.
// Short enough that a ban or deactivation takes effect quickly.
const identityTTL = 60 * time.Second

// UserStatusWriter flips the directory online flag; the Postgres user store
// satisfies it.
type UserStatusWriter interface {
	SetOnline(ctx context.Context, userID string, online bool) error
}

// Directory verifies bearer credentials (HS256 JWTs carrying a userId claim)
// against the user store and implements the UserDirectory port the realtime
// core consumes. Verified identities are cached briefly to keep reconnect
// storms off the database. The cache is optional; a nil cache means every
// verification hits the store.
type Directory struct {
	users  repository.UserReader
	status UserStatusWriter
	cache  cacheport.Cache
	secret []byte
	log    *slog.Logger
}

// NewDirectory wires the directory. The signing secret comes from JWT_SECRET.
func NewDirectory(users repository.UserReader, status UserStatusWriter, cache cacheport.Cache, log *slog.Logger) (*Directory, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("auth: JWT_SECRET environment variable is not set")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Directory{users: users, status: status, cache: cache, secret: []byte(secret), log: log}, nil
}

var _ repository.UserDirectory = (*Directory)(nil)

type tokenClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// Verify resolves a bearer token to an identity. Expired or malformed tokens,
// unknown users and non-active accounts all map to ErrInvalidCredential.
func (d *Directory) Verify(ctx context.Context, credential string) (*chat.Identity, error) {
	if credential == "" {
		return nil, repository.ErrInvalidCredential
	}

	if ident := d.cached(ctx, credential); ident != nil {
		return ident, nil
	}

	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(credential, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return d.secret, nil
	})
	if err != nil || !token.Valid || claims.UserID == "" {
		return nil, repository.ErrInvalidCredential
	}

	user, err := d.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, repository.ErrInvalidCredential
	}
	if user.Status != chat.StatusActive {
		return nil, repository.ErrInvalidCredential
	}

	ident := &chat.Identity{UserID: user.ID, Username: user.Username, Role: user.Role}
	d.remember(ctx, credential, ident)
	return ident, nil
}

// SetOnline forwards presence transitions to the user store.
func (d *Directory) SetOnline(ctx context.Context, userID string, online bool) error {
	return d.status.SetOnline(ctx, userID, online)
}

func (d *Directory) cacheKey(credential string) string {
	return "auth:ident:" + credential
}

func (d *Directory) cached(ctx context.Context, credential string) *chat.Identity {
	if d.cache == nil {
		return nil
	}
	raw, err := d.cache.Get(ctx, d.cacheKey(credential))
	if err != nil {
		if !errors.Is(err, cacheport.ErrMiss) {
			d.log.Warn("auth: identity cache read failed", "err", err)
		}
		return nil
	}
	var ident chat.Identity
	if err := json.Unmarshal([]byte(raw), &ident); err != nil {
		return nil
	}
	return &ident
}

func (d *Directory) remember(ctx context.Context, credential string, ident *chat.Identity) {
	if d.cache == nil {
		return
	}
	raw, err := json.Marshal(ident)
	if err != nil {
		return
	}
	if err := d.cache.Set(ctx, d.cacheKey(credential), string(raw), identityTTL); err != nil {
		d.log.Warn("auth: identity cache write failed", "err", err)
	}
}
