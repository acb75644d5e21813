package realtime

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	chat "github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/domain"
)

// stubSession is an in-memory Session capturing everything sent to it.
type stubSession struct {
	id       string
	userID   string
	username string

	mu      sync.Mutex
	frames  [][]byte
	failing bool
	closed  bool
}

func newStubSession(id, userID, username string) *stubSession {
	return &stubSession{id: id, userID: userID, username: username}
}

func (s *stubSession) ID() string       { return s.id }
func (s *stubSession) UserID() string   { return s.userID }
func (s *stubSession) Username() string { return s.username }

func (s *stubSession) Send(payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return errors.New("stub: send failed")
	}
	cp := make([]byte, len(payload))
	copy(cp, payload)
	s.frames = append(s.frames, cp)
	return nil
}

func (s *stubSession) Close(code int, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *stubSession) sent() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.frames))
	for _, f := range s.frames {
		out = append(out, string(f))
	}
	return out
}

func (s *stubSession) lastFrame() string {
	frames := s.sent()
	if len(frames) == 0 {
		return ""
	}
	return frames[len(frames)-1]
}

// fakeDirectory records SetOnline transitions.
type fakeDirectory struct {
	mu     sync.Mutex
	online map[string]bool
	calls  []string // "userID:true" in call order
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{online: make(map[string]bool)}
}

func (d *fakeDirectory) Verify(ctx context.Context, credential string) (*chat.Identity, error) {
	return nil, errors.New("not implemented")
}

func (d *fakeDirectory) SetOnline(ctx context.Context, userID string, online bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.online[userID] = online
	state := ":false"
	if online {
		state = ":true"
	}
	d.calls = append(d.calls, userID+state)
	return nil
}

func (d *fakeDirectory) transitions() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.calls...)
}

// fakeRoomStore is an in-memory RoomStore with injectable failures.
type fakeRoomStore struct {
	mu      sync.Mutex
	rooms   map[string]*chat.Room
	members map[string]map[string]struct{} // room ID -> user set

	failAdds    int // fail the next N AddMember calls
	failRemoves int
}

func newFakeRoomStore(rooms ...*chat.Room) *fakeRoomStore {
	s := &fakeRoomStore{
		rooms:   make(map[string]*chat.Room),
		members: make(map[string]map[string]struct{}),
	}
	for _, r := range rooms {
		s.rooms[r.ID] = r
		s.members[r.ID] = make(map[string]struct{})
	}
	return s
}

func (s *fakeRoomStore) Find(ctx context.Context, roomID string) (*chat.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[roomID]
	if !ok || !r.IsActive {
		return nil, chat.ErrRoomNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *fakeRoomStore) AddMember(ctx context.Context, roomID, userID string) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAdds > 0 {
		s.failAdds--
		return 0, false, errors.New("fake: add failed")
	}
	set, ok := s.members[roomID]
	if !ok {
		return 0, false, chat.ErrRoomNotFound
	}
	_, exists := set[userID]
	if !exists {
		set[userID] = struct{}{}
	}
	s.rooms[roomID].MemberCount = len(set)
	return len(set), !exists, nil
}

func (s *fakeRoomStore) RemoveMember(ctx context.Context, roomID, userID string) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failRemoves > 0 {
		s.failRemoves--
		return 0, false, errors.New("fake: remove failed")
	}
	set, ok := s.members[roomID]
	if !ok {
		return 0, false, chat.ErrRoomNotFound
	}
	_, exists := set[userID]
	delete(set, userID)
	s.rooms[roomID].MemberCount = len(set)
	return len(set), exists, nil
}

func (s *fakeRoomStore) IsMember(ctx context.Context, roomID, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.members[roomID]
	if !ok {
		return false, nil
	}
	_, in := set[userID]
	return in, nil
}

func (s *fakeRoomStore) MembersOf(ctx context.Context, roomID string) ([]chat.RoomMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]chat.RoomMember, 0, len(s.members[roomID]))
	for userID := range s.members[roomID] {
		out = append(out, chat.RoomMember{UserID: userID, Username: userID})
	}
	return out, nil
}

func (s *fakeRoomStore) TouchLastActivity(ctx context.Context, roomID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.rooms[roomID]; ok {
		r.LastMessageAt = time.Now().UTC()
	}
	return nil
}

func (s *fakeRoomStore) ListActive(ctx context.Context, limit int) ([]chat.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]chat.Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		if r.IsActive {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *fakeRoomStore) memberCount(roomID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.members[roomID])
}

// fakeMessageStore is an in-memory MessageStore.
type fakeMessageStore struct {
	mu       sync.Mutex
	messages []chat.Message
	nextID   int
}

func newFakeMessageStore() *fakeMessageStore {
	return &fakeMessageStore{}
}

func (s *fakeMessageStore) Append(ctx context.Context, m chat.Message) (*chat.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	m.ID = "msg-" + strconv.Itoa(s.nextID)
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	s.messages = append(s.messages, m)
	cp := m
	return &cp, nil
}

func (s *fakeMessageStore) Get(ctx context.Context, messageID string) (*chat.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.messages {
		if s.messages[i].ID == messageID {
			cp := s.messages[i]
			return &cp, nil
		}
	}
	return nil, chat.ErrMessageNotFound
}

func (s *fakeMessageStore) ListByRoom(ctx context.Context, roomID string, page, limit int) ([]chat.Message, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []chat.Message
	for _, m := range s.messages {
		if m.RoomID == roomID && !m.IsDeleted {
			out = append(out, m)
		}
	}
	return out, len(out), nil
}

func (s *fakeMessageStore) Edit(ctx context.Context, messageID string, content *string, imageData *string, editedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
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

func (s *fakeMessageStore) SoftDelete(ctx context.Context, messageID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.messages {
		if s.messages[i].ID == messageID {
			s.messages[i].IsDeleted = true
			return nil
		}
	}
	return chat.ErrMessageNotFound
}

func (s *fakeMessageStore) MarkRead(ctx context.Context, messageID, userID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.messages {
		if s.messages[i].ID == messageID {
			s.messages[i].MarkRead(userID, at)
			return nil
		}
	}
	return chat.ErrMessageNotFound
}

func (s *fakeMessageStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}
