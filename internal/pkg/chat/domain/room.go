package chat

import "time"

// RoomType distinguishes route-bound, station-bound and general rooms.
type RoomType string

const (
	RoomTypeRoute   RoomType = "route"
	RoomTypeStation RoomType = "station"
	RoomTypeGeneral RoomType = "general"
)

// Room is a chat room tied to a transit route or station.
// MemberCount must always equal the size of the persisted member set; the two
// are updated together by the room store, never independently.
type Room struct {
	ID            string    `db:"id"`
	Name          string    `db:"name"`
	Description   *string   `db:"description"`
	Type          RoomType  `db:"room_type"`
	RouteID       *string   `db:"route_id"`
	StationID     *string   `db:"station_id"`
	MemberCount   int       `db:"member_count"`
	CreatedBy     string    `db:"created_by"`
	IsActive      bool      `db:"is_active"`
	LastMessageAt time.Time `db:"last_message_at"`
	CreatedAt     time.Time `db:"created_at"`
}

// RoomMember is a roster entry joined with directory fields for display.
type RoomMember struct {
	UserID     string    `json:"userId"`
	Username   string    `json:"username"`
	Avatar     *string   `json:"avatar,omitempty"`
	IsOnline   bool      `json:"isOnline"`
	LastActive time.Time `json:"lastActive"`
}
