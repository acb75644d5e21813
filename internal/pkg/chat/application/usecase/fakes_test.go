package usecase

import (
	"context"
	"errors"
	"strconv"
	"time"

	chat "github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/domain"
)

// memRoomStore backs room lookups for the history use cases.
type memRoomStore struct {
	rooms map[string]*chat.Room
	fail  bool
}

func newMemRoomStore(rooms ...*chat.Room) *memRoomStore {
	s := &memRoomStore{rooms: make(map[string]*chat.Room)}
	for _, r := range rooms {
		s.rooms[r.ID] = r
	}
	return s
}

func (s *memRoomStore) Find(ctx context.Context, roomID string) (*chat.Room, error) {
	if s.fail {
		return nil, errors.New("mem: find failed")
	}
	r, ok := s.rooms[roomID]
	if !ok || !r.IsActive {
		return nil, chat.ErrRoomNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *memRoomStore) AddMember(ctx context.Context, roomID, userID string) (int, bool, error) {
	return 0, false, errors.New("mem: not implemented")
}

func (s *memRoomStore) RemoveMember(ctx context.Context, roomID, userID string) (int, bool, error) {
	return 0, false, errors.New("mem: not implemented")
}

func (s *memRoomStore) IsMember(ctx context.Context, roomID, userID string) (bool, error) {
	return false, nil
}

func (s *memRoomStore) MembersOf(ctx context.Context, roomID string) ([]chat.RoomMember, error) {
	return nil, nil
}

func (s *memRoomStore) TouchLastActivity(ctx context.Context, roomID string) error { return nil }

func (s *memRoomStore) ListActive(ctx context.Context, limit int) ([]chat.Room, error) {
	out := make([]chat.Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		if r.IsActive {
			out = append(out, *r)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// memMessageStore keeps messages in insertion order and pages newest first,
// mirroring the Postgres adapter's contract.
type memMessageStore struct {
	messages []chat.Message
	nextID   int
}

func newMemMessageStore(seed ...chat.Message) *memMessageStore {
	s := &memMessageStore{}
	for _, m := range seed {
		s.nextID++
		if m.ID == "" {
			m.ID = "m" + strconv.Itoa(s.nextID)
		}
		s.messages = append(s.messages, m)
	}
	return s
}

func (s *memMessageStore) Append(ctx context.Context, m chat.Message) (*chat.Message, error) {
	s.nextID++
	m.ID = "m" + strconv.Itoa(s.nextID)
	s.messages = append(s.messages, m)
	cp := m
	return &cp, nil
}

func (s *memMessageStore) Get(ctx context.Context, messageID string) (*chat.Message, error) {
	for i := range s.messages {
		if s.messages[i].ID == messageID {
			cp := s.messages[i]
			return &cp, nil
		}
	}
	return nil, chat.ErrMessageNotFound
}

func (s *memMessageStore) ListByRoom(ctx context.Context, roomID string, page, limit int) ([]chat.Message, int, error) {
	var live []chat.Message
	for _, m := range s.messages {
		if m.RoomID == roomID && !m.IsDeleted {
			live = append(live, m)
		}
	}
	// newest first
	for i, j := 0, len(live)-1; i < j; i, j = i+1, j-1 {
		live[i], live[j] = live[j], live[i]
	}
	start := (page - 1) * limit
	if start >= len(live) {
		return nil, len(live), nil
	}
	end := start + limit
	if end > len(live) {
		end = len(live)
	}
	return live[start:end], len(live), nil
}

func (s *memMessageStore) Edit(ctx context.Context, messageID string, content *string, imageData *string, editedAt time.Time) error {
	for i := range s.messages {
		if s.messages[i].ID == messageID {
			if content != nil {
				s.messages[i].Content = *content
			}
			if imageData != nil {
				s.messages[i].ImageData = imageData
			}
			s.messages[i].EditedAt = &editedAt
			return nil
		}
	}
	return chat.ErrMessageNotFound
}

func (s *memMessageStore) SoftDelete(ctx context.Context, messageID string, at time.Time) error {
	for i := range s.messages {
		if s.messages[i].ID == messageID {
			s.messages[i].IsDeleted = true
			return nil
		}
	}
	return chat.ErrMessageNotFound
}

func (s *memMessageStore) MarkRead(ctx context.Context, messageID, userID string, at time.Time) error {
	for i := range s.messages {
		if s.messages[i].ID == messageID {
			s.messages[i].MarkRead(userID, at)
			return nil
		}
	}
	return chat.ErrMessageNotFound
}
