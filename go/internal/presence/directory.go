package presence

import (
	"errors"
	"fmt"
	"sort"

	"github.com/mcdev12/wordarena/go/internal/protocol"
)

// Channel is a matchmaking category. The hint channel reveals one letter of
// the opponent's word at the start of a duel.
type Channel string

const (
	ChannelWithHint Channel = "harfli"
	ChannelHidden   Channel = "harfsiz"
)

// Channels lists the selectable channels.
var Channels = []Channel{ChannelWithHint, ChannelHidden}

// RoomSizes lists the selectable word lengths.
var RoomSizes = []int{4, 5, 6, 7}

var (
	ErrUnknownChannel = errors.New("unknown channel")
	ErrInvalidRoom    = errors.New("invalid room size")
)

// Status is the simplified presence of a room member.
type Status string

const (
	StatusAvailable Status = "available"
	StatusBusy      Status = "busy"
)

// StatusFromCode maps the server presence code onto Available/Busy.
func StatusFromCode(code protocol.PresenceCode) Status {
	if code == protocol.PresenceOnline {
		return StatusAvailable
	}
	return StatusBusy
}

// Member is a joinable user in the current room.
type Member struct {
	UID         string `json:"uid"`
	DisplayName string `json:"display_name"`
	Status      Status `json:"status"`
}

// Directory is the room selection plus its member list. All methods return a
// new Directory and never mutate the receiver's map.
type Directory struct {
	Channel  Channel           `json:"channel,omitempty"`
	RoomSize int               `json:"room_size,omitempty"`
	Users    map[string]Member `json:"users"`
}

// New returns an empty directory.
func New() Directory {
	return Directory{Users: map[string]Member{}}
}

// Selected reports whether both channel and room are chosen.
func (d Directory) Selected() bool {
	return d.Channel != "" && d.RoomSize != 0
}

// SetChannel selects a channel. A join intent is returned when the selection
// changed and both channel and room are set.
func (d Directory) SetChannel(channel Channel) (Directory, *protocol.Intent, error) {
	if !validChannel(channel) {
		return d, nil, fmt.Errorf("%w: %q", ErrUnknownChannel, channel)
	}
	if d.Channel == channel {
		return d, nil, nil
	}
	next := d.clone()
	next.Channel = channel
	return next, next.JoinIntent(), nil
}

// SetRoom selects a room (word length). Same emission rule as SetChannel.
func (d Directory) SetRoom(size int) (Directory, *protocol.Intent, error) {
	if !validRoom(size) {
		return d, nil, fmt.Errorf("%w: %d", ErrInvalidRoom, size)
	}
	if d.RoomSize == size {
		return d, nil, nil
	}
	next := d.clone()
	next.RoomSize = size
	return next, next.JoinIntent(), nil
}

// ReplaceUsers applies a room snapshot, discarding previous membership.
func (d Directory) ReplaceUsers(users []protocol.User) Directory {
	next := d
	next.Users = make(map[string]Member, len(users))
	for _, u := range users {
		next.Users[u.UID] = memberFrom(u)
	}
	return next
}

// AddUser inserts or replaces a single member.
func (d Directory) AddUser(user protocol.User) Directory {
	next := d.clone()
	next.Users[user.UID] = memberFrom(user)
	return next
}

// RemoveUser drops a member. Unknown ids are a no-op.
func (d Directory) RemoveUser(uid string) Directory {
	if _, ok := d.Users[uid]; !ok {
		return d
	}
	next := d.clone()
	delete(next.Users, uid)
	return next
}

// ApplyStatus merges presence updates. Users not mentioned are untouched and
// users not in the room are not added.
func (d Directory) ApplyStatus(updates []protocol.User) Directory {
	next := d.clone()
	for _, u := range updates {
		member, ok := next.Users[u.UID]
		if !ok {
			continue
		}
		member.Status = StatusFromCode(u.Status)
		next.Users[u.UID] = member
	}
	return next
}

// Members returns the member list ordered by display name.
func (d Directory) Members() []Member {
	members := make([]Member, 0, len(d.Users))
	for _, m := range d.Users {
		members = append(members, m)
	}
	sort.Slice(members, func(i, j int) bool {
		if members[i].DisplayName == members[j].DisplayName {
			return members[i].UID < members[j].UID
		}
		return members[i].DisplayName < members[j].DisplayName
	})
	return members
}

// JoinIntent returns the join intent for the current selection, or nil when
// channel or room is missing.
func (d Directory) JoinIntent() *protocol.Intent {
	if !d.Selected() {
		return nil
	}
	intent := protocol.JoinRoom(string(d.Channel), d.RoomSize)
	return &intent
}

func (d Directory) clone() Directory {
	next := d
	next.Users = make(map[string]Member, len(d.Users))
	for uid, m := range d.Users {
		next.Users[uid] = m
	}
	return next
}

func memberFrom(u protocol.User) Member {
	return Member{
		UID:         u.UID,
		DisplayName: u.Username,
		Status:      StatusFromCode(u.Status),
	}
}

func validChannel(channel Channel) bool {
	for _, c := range Channels {
		if c == channel {
			return true
		}
	}
	return false
}

func validRoom(size int) bool {
	for _, s := range RoomSizes {
		if s == size {
			return true
		}
	}
	return false
}
