package realtime

import (
	"time"

	chat "github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/domain"
)

// Outbound event frames. Every frame carries a "type" tag so clients dispatch
// without inspecting the payload. Events are transient: built, marshaled and
// delivered within a single fanout call, never stored.

// MessagePayload is the wire rendering of a persisted message.
type MessagePayload struct {
	ID             string             `json:"id"`
	RoomID         string             `json:"roomId"`
	SenderID       string             `json:"senderId"`
	SenderUsername string             `json:"senderUsername"`
	MessageType    string             `json:"messageType"`
	Content        string             `json:"content"`
	ImageData      *string            `json:"imageData,omitempty"`
	CommuteUpdate  *string            `json:"commuteUpdate,omitempty"`
	ReplyTo        *string            `json:"replyTo,omitempty"`
	EditedAt       *time.Time         `json:"editedAt,omitempty"`
	CreatedAt      time.Time          `json:"createdAt"`
	ReadBy         []chat.ReadReceipt `json:"readBy,omitempty"`
}

// ToMessagePayload converts a domain message for the wire.
func ToMessagePayload(m chat.Message) MessagePayload {
	return MessagePayload{
		ID:             m.ID,
		RoomID:         m.RoomID,
		SenderID:       m.SenderID,
		SenderUsername: m.SenderUsername,
		MessageType:    string(m.Type),
		Content:        m.Content,
		ImageData:      m.ImageData,
		CommuteUpdate:  m.CommuteUpdate,
		ReplyTo:        m.ReplyTo,
		EditedAt:       m.EditedAt,
		CreatedAt:      m.CreatedAt,
		ReadBy:         m.ReadBy,
	}
}

type RoomJoinedEvent struct {
	Type             string `json:"type"`
	RoomID           string `json:"roomId"`
	RoomName         string `json:"roomName"`
	ActiveUsersCount int    `json:"activeUsersCount"`
}

func NewRoomJoinedEvent(roomID, roomName string, count int) RoomJoinedEvent {
	return RoomJoinedEvent{Type: "room_joined", RoomID: roomID, RoomName: roomName, ActiveUsersCount: count}
}

type RoomLeftEvent struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId"`
}

func NewRoomLeftEvent(roomID string) RoomLeftEvent {
	return RoomLeftEvent{Type: "room_left", RoomID: roomID}
}

type UserJoinedEvent struct {
	Type     string `json:"type"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
	RoomID   string `json:"roomId"`
}

func NewUserJoinedEvent(userID, username, roomID string) UserJoinedEvent {
	return UserJoinedEvent{Type: "user_joined", UserID: userID, Username: username, RoomID: roomID}
}

type UserLeftEvent struct {
	Type     string `json:"type"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
	RoomID   string `json:"roomId"`
}

func NewUserLeftEvent(userID, username, roomID string) UserLeftEvent {
	return UserLeftEvent{Type: "user_left", UserID: userID, Username: username, RoomID: roomID}
}

type NewMessageEvent struct {
	Type    string         `json:"type"`
	Message MessagePayload `json:"message"`
}

func NewMessageBroadcast(m chat.Message) NewMessageEvent {
	return NewMessageEvent{Type: "new_message", Message: ToMessagePayload(m)}
}

type UserTypingEvent struct {
	Type     string `json:"type"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
	RoomID   string `json:"roomId"`
	IsTyping bool   `json:"isTyping"`
}

func NewUserTypingEvent(userID, username, roomID string, isTyping bool) UserTypingEvent {
	return UserTypingEvent{Type: "user_typing", UserID: userID, Username: username, RoomID: roomID, IsTyping: isTyping}
}

type CommuteUpdateEvent struct {
	Type       string         `json:"type"`
	Message    MessagePayload `json:"message"`
	UpdateType string         `json:"updateType"`
	Username   string         `json:"username"`
}

func NewCommuteUpdateEvent(m chat.Message, updateType, username string) CommuteUpdateEvent {
	return CommuteUpdateEvent{Type: "commute_update", Message: ToMessagePayload(m), UpdateType: updateType, Username: username}
}

type RoomUsersEvent struct {
	Type        string            `json:"type"`
	RoomID      string            `json:"roomId"`
	ActiveUsers []chat.RoomMember `json:"activeUsers"`
	TotalCount  int               `json:"totalCount"`
}

func NewRoomUsersEvent(roomID string, members []chat.RoomMember) RoomUsersEvent {
	return RoomUsersEvent{Type: "room_users", RoomID: roomID, ActiveUsers: members, TotalCount: len(members)}
}

type ErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewErrorEvent(message string) ErrorEvent {
	return ErrorEvent{Type: "error", Message: message}
}
