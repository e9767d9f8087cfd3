// Package plugintest provides an in-memory host for testing plugins without
// loading them into a real client.
package plugintest

import (
	"sort"
	"sync"
	"unsafe"

	"github.com/Dessix/mumble-plugin-go/domain/entities"
)

type (
	pid  = entities.PluginID
	conn = entities.ConnectionID
	uid  = entities.UserID
	cid  = entities.ChannelID
	code = entities.ErrorCode
)

// User is a user known to the fake host.
type User struct {
	Name         string
	Hash         string
	Comment      string
	Channel      entities.ChannelID
	LocallyMuted bool
}

// Channel is a channel known to the fake host.
type Channel struct {
	Name        string
	Description string
}

// SentData records one sendData call.
type SentData struct {
	Connection entities.ConnectionID
	Users      []entities.UserID
	Data       []byte
	DataID     string
}

// Move records one requestUserMove call. HasPassword is false when the
// plugin passed no password at all.
type Move struct {
	Connection  entities.ConnectionID
	User        entities.UserID
	Channel     entities.ChannelID
	Password    string
	HasPassword bool
}

// FakeHost is an in-memory host with one server connection. Every string or
// array it hands out is tracked until the plugin frees it, so tests can
// assert nothing leaked.
type FakeHost struct {
	mu sync.Mutex

	ID         entities.PluginID
	Connection entities.ConnectionID
	LocalUser  entities.UserID
	ServerHash string
	Synced     bool

	users    map[uid]*User
	channels map[cid]*Channel
	failures map[string]code

	mode         entities.TransmissionMode
	muted        bool
	deafened     bool
	micOverwrite bool
	comment      string

	allocs map[unsafe.Pointer]any
	frees  int

	logs    []string
	sent    []SentData
	moves   []Move
	samples []string
}

// NewFakeHost creates a host assigning id, connected and synchronized on
// connection 1 with the local user 1 in the root channel 0.
func NewFakeHost(id entities.PluginID) *FakeHost {
	h := &FakeHost{
		ID:         id,
		Connection: 1,
		LocalUser:  1,
		ServerHash: "server-hash",
		Synced:     true,
		users:      map[uid]*User{},
		channels:   map[cid]*Channel{0: {Name: "Root"}},
		failures:   map[string]code{},
		allocs:     map[unsafe.Pointer]any{},
	}
	h.users[1] = &User{Name: "local", Hash: "local-hash", Channel: 0}
	return h
}

// AddUser adds or replaces a user.
func (h *FakeHost) AddUser(id entities.UserID, u User) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.users[id] = &u
}

// AddChannel adds or replaces a channel.
func (h *FakeHost) AddChannel(id entities.ChannelID, c Channel) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.channels[id] = &c
}

// Fail makes the host function named op (the host's camelCase name, e.g.
// "getUserName") return c until Recover is called.
func (h *FakeHost) Fail(op string, c entities.ErrorCode) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failures[op] = c
}

// Recover undoes Fail for op.
func (h *FakeHost) Recover(op string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.failures, op)
}

// Disconnect drops the server connection.
func (h *FakeHost) Disconnect() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Connection = -1
}

// User returns a copy of the user with the given id.
func (h *FakeHost) User(id entities.UserID) (User, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	u, ok := h.users[id]
	if !ok {
		return User{}, false
	}
	return *u, true
}

// Live returns the number of allocations the plugin has not freed yet.
func (h *FakeHost) Live() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.allocs)
}

// Frees returns the number of successful freeMemory calls.
func (h *FakeHost) Frees() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frees
}

// Logs returns the messages the plugin logged.
func (h *FakeHost) Logs() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.logs...)
}

// Sent returns the recorded sendData calls.
func (h *FakeHost) Sent() []SentData {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]SentData(nil), h.sent...)
}

// Moves returns the recorded requestUserMove calls.
func (h *FakeHost) Moves() []Move {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Move(nil), h.moves...)
}

// Samples returns the paths the plugin asked to play.
func (h *FakeHost) Samples() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.samples...)
}

// Comment returns the local user's comment as last set by the plugin.
func (h *FakeHost) Comment() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.comment
}

// LocalUserState returns the local mute, deaf and microphone overwrite flags.
func (h *FakeHost) LocalUserState() (muted, deafened, micOverwrite bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.muted, h.deafened, h.micOverwrite
}

// TransmissionMode returns the local user's transmission mode.
func (h *FakeHost) TransmissionMode() entities.TransmissionMode {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.mode
}

// allocString hands out a NUL-terminated copy of s. Callers hold h.mu.
func (h *FakeHost) allocString(s string) unsafe.Pointer {
	buf := make([]byte, len(s)+1)
	copy(buf, s)
	p := unsafe.Pointer(&buf[0])
	h.allocs[p] = buf
	return p
}

// allocArray hands out a copy of items. Callers hold h.mu.
func allocArray[T any](h *FakeHost, items []T) (unsafe.Pointer, uintptr) {
	if len(items) == 0 {
		return nil, 0
	}
	buf := append([]T(nil), items...)
	p := unsafe.Pointer(&buf[0])
	h.allocs[p] = buf
	return p, uintptr(len(buf))
}

// check applies injected failures and validates the identity. Callers hold
// h.mu.
func (h *FakeHost) check(op string, id pid) code {
	if c, ok := h.failures[op]; ok {
		return c
	}
	if id != h.ID {
		return entities.ErrInvalidPluginID
	}
	return entities.OK
}

func (h *FakeHost) connection(c conn) code {
	if c != h.Connection || c < 0 {
		return entities.ErrConnectionNotFound
	}
	return entities.OK
}

func (h *FakeHost) user(c conn, u uid) (*User, code) {
	if st := h.connection(c); st != entities.OK {
		return nil, st
	}
	usr, ok := h.users[u]
	if !ok {
		return nil, entities.ErrUserNotFound
	}
	return usr, entities.OK
}

func (h *FakeHost) channel(c conn, ch cid) (*Channel, code) {
	if st := h.connection(c); st != entities.OK {
		return nil, st
	}
	chn, ok := h.channels[ch]
	if !ok {
		return nil, entities.ErrChannelNotFound
	}
	return chn, entities.OK
}

func (h *FakeHost) sortedUsers(filter func(*User) bool) []uid {
	ids := make([]uid, 0, len(h.users))
	for id, u := range h.users {
		if filter == nil || filter(u) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (h *FakeHost) sortedChannels() []cid {
	ids := make([]cid, 0, len(h.channels))
	for id := range h.channels {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
