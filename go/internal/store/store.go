package store

import (
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/wordarena/go/internal/countdown"
	"github.com/mcdev12/wordarena/go/internal/game"
	"github.com/mcdev12/wordarena/go/internal/gateway"
	"github.com/mcdev12/wordarena/go/internal/presence"
	"github.com/mcdev12/wordarena/go/internal/users"
)

// Slice names a part of the snapshot.
type Slice string

const (
	SliceUser      Slice = "user"
	SliceSocket    Slice = "socket"
	SliceChannel   Slice = "channel"
	SliceGame      Slice = "game"
	SliceCountdown Slice = "countdown"
)

// Slices lists every slice in publication order.
var Slices = []Slice{SliceUser, SliceSocket, SliceChannel, SliceGame, SliceCountdown}

// SocketState is the connection as seen by the presentation layer.
type SocketState struct {
	State            gateway.State `json:"state"`
	ServerID         string        `json:"server_id,omitempty"`
	LastHeartbeatAck *time.Time    `json:"last_heartbeat_ack,omitempty"`
}

// Snapshot is the full read-only state. Slices hold values that are never
// mutated after being stored.
type Snapshot struct {
	Version   uint64             `json:"version"`
	User      *users.Identity    `json:"user,omitempty"`
	Socket    SocketState        `json:"socket"`
	Channel   presence.Directory `json:"channel"`
	Game      game.Session       `json:"game"`
	Countdown countdown.State    `json:"countdown"`
}

// Slice returns the value of a named slice.
func (s Snapshot) Slice(name Slice) interface{} {
	switch name {
	case SliceUser:
		return s.User
	case SliceSocket:
		return s.Socket
	case SliceChannel:
		return s.Channel
	case SliceGame:
		return s.Game
	case SliceCountdown:
		return s.Countdown
	}
	return nil
}

// Listener is called after a slice changed, with the snapshot that contains
// the change.
type Listener func(slice Slice, snapshot Snapshot)

// Store keeps the named slices and notifies subscribers of changes.
type Store struct {
	mu          sync.RWMutex
	snapshot    Snapshot
	subscribers map[string]Listener
	order       []string
}

// New creates a store with empty slices
func New() *Store {
	return &Store{
		snapshot:    empty(),
		subscribers: make(map[string]Listener),
	}
}

func empty() Snapshot {
	return Snapshot{
		Socket:  SocketState{State: gateway.StateDisconnected},
		Channel: presence.New(),
		Game:    game.Idle(),
	}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Subscribe registers a listener and returns its id.
func (s *Store) Subscribe(listener Listener) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New().String()
	s.subscribers[id] = listener
	s.order = append(s.order, id)
	return id
}

// Unsubscribe removes a listener.
func (s *Store) Unsubscribe(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.subscribers, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *Store) SetUser(user *users.Identity) {
	s.update(SliceUser, func(snap *Snapshot) { snap.User = user })
}

func (s *Store) SetSocket(socket SocketState) {
	s.update(SliceSocket, func(snap *Snapshot) { snap.Socket = socket })
}

func (s *Store) SetChannel(directory presence.Directory) {
	s.update(SliceChannel, func(snap *Snapshot) { snap.Channel = directory })
}

func (s *Store) SetGame(session game.Session) {
	s.update(SliceGame, func(snap *Snapshot) { snap.Game = session })
}

func (s *Store) SetCountdown(state countdown.State) {
	s.update(SliceCountdown, func(snap *Snapshot) { snap.Countdown = state })
}

// Reset clears every slice and notifies each one that changed.
func (s *Store) Reset() {
	fresh := empty()
	s.SetUser(fresh.User)
	s.SetSocket(fresh.Socket)
	s.SetChannel(fresh.Channel)
	s.SetGame(fresh.Game)
	s.SetCountdown(fresh.Countdown)
}

// update applies fn and notifies subscribers only when the slice changed.
func (s *Store) update(slice Slice, fn func(*Snapshot)) {
	s.mu.Lock()
	next := s.snapshot
	fn(&next)
	if reflect.DeepEqual(next.Slice(slice), s.snapshot.Slice(slice)) {
		s.mu.Unlock()
		return
	}
	next.Version = s.snapshot.Version + 1
	s.snapshot = next

	listeners := make([]Listener, 0, len(s.order))
	for _, id := range s.order {
		listeners = append(listeners, s.subscribers[id])
	}
	s.mu.Unlock()

	for _, listener := range listeners {
		listener(slice, next)
	}
}
