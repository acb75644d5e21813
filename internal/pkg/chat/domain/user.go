package chat

import "time"

// Role controls what a user may do beyond their own content.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Privileged reports whether the role may act on other users' messages.
func (r Role) Privileged() bool {
	return r == RoleModerator || r == RoleAdmin
}

// Status is the account state. Only active users may open sessions.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusBanned   Status = "banned"
)

// Identity is the authenticated principal attached to a connection or request.
type Identity struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// User is the directory record the chat engine reads. Credentials live elsewhere.
type User struct {
	ID         string    `db:"id"`
	Username   string    `db:"username"`
	FullName   *string   `db:"full_name"`
	Avatar     *string   `db:"avatar"`
	Role       Role      `db:"role"`
	Status     Status    `db:"status"`
	IsOnline   bool      `db:"is_online"`
	LastActive time.Time `db:"last_active"`
	CreatedAt  time.Time `db:"created_at"`
}
