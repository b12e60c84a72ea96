package presence

import (
	"testing"

	"github.com/mcdev12/wordarena/go/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectionEmitsJoinOnceBothSet(t *testing.T) {
	d := New()

	d, intent, err := d.SetChannel(ChannelWithHint)
	require.NoError(t, err)
	assert.Nil(t, intent, "room not selected yet")

	d, intent, err = d.SetRoom(5)
	require.NoError(t, err)
	require.NotNil(t, intent)
	assert.Equal(t, protocol.OpJoinRoom, intent.Op)
	assert.Equal(t, protocol.JoinRoomRequest{Channel: "harfli", Room: 5}, intent.Payload)

	// Same selection again does not re-join.
	d, intent, err = d.SetRoom(5)
	require.NoError(t, err)
	assert.Nil(t, intent)

	_, intent, err = d.SetChannel(ChannelHidden)
	require.NoError(t, err)
	require.NotNil(t, intent)
	assert.Equal(t, protocol.JoinRoomRequest{Channel: "harfsiz", Room: 5}, intent.Payload)
}

func TestSelectionRejectsUnknownValues(t *testing.T) {
	d := New()

	_, _, err := d.SetChannel("vip")
	assert.ErrorIs(t, err, ErrUnknownChannel)

	_, _, err = d.SetRoom(9)
	assert.ErrorIs(t, err, ErrInvalidRoom)
}

func TestMembershipEvents(t *testing.T) {
	d := New().ReplaceUsers([]protocol.User{
		{UID: "u1", Username: "alice", Status: protocol.PresenceOnline},
		{UID: "u2", Username: "bob", Status: protocol.PresencePlaying},
	})
	require.Len(t, d.Users, 2)
	assert.Equal(t, StatusBusy, d.Users["u2"].Status)

	before := d
	d = d.AddUser(protocol.User{UID: "u3", Username: "carol", Status: protocol.PresenceOnline})
	assert.Len(t, d.Users, 3)
	assert.Len(t, before.Users, 2, "previous directory must not change")

	d = d.RemoveUser("u1")
	assert.Len(t, d.Users, 2)
	_, ok := d.Users["u1"]
	assert.False(t, ok)

	d = d.RemoveUser("missing")
	assert.Len(t, d.Users, 2)

	// Snapshot replaces wholesale.
	d = d.ReplaceUsers([]protocol.User{{UID: "u9", Username: "zed", Status: protocol.PresenceOnline}})
	assert.Equal(t, map[string]Member{"u9": {UID: "u9", DisplayName: "zed", Status: StatusAvailable}}, d.Users)
}

func TestApplyStatusIsPartialAndIdempotent(t *testing.T) {
	d := New().ReplaceUsers([]protocol.User{
		{UID: "u1", Username: "alice", Status: protocol.PresenceOnline},
		{UID: "u2", Username: "bob", Status: protocol.PresenceOnline},
	})
	update := []protocol.User{
		{UID: "u2", Status: protocol.PresencePlaying},
		{UID: "ghost", Status: protocol.PresencePlaying},
	}

	once := d.ApplyStatus(update)
	twice := once.ApplyStatus(update)

	assert.Equal(t, once.Users, twice.Users)
	assert.Equal(t, StatusAvailable, once.Users["u1"].Status)
	assert.Equal(t, StatusBusy, once.Users["u2"].Status)
	assert.Equal(t, "bob", once.Users["u2"].DisplayName)
	assert.NotContains(t, once.Users, "ghost")
	assert.Equal(t, StatusAvailable, d.Users["u2"].Status, "previous directory must not change")
}

func TestMembersOrdered(t *testing.T) {
	d := New().ReplaceUsers([]protocol.User{
		{UID: "u2", Username: "bob"},
		{UID: "u1", Username: "alice"},
	})
	members := d.Members()
	require.Len(t, members, 2)
	assert.Equal(t, "alice", members[0].DisplayName)
	assert.Equal(t, "bob", members[1].DisplayName)
}

func TestJoinIntentNeedsBoth(t *testing.T) {
	d := New()
	assert.Nil(t, d.JoinIntent())

	d, _, err := d.SetRoom(6)
	require.NoError(t, err)
	assert.Nil(t, d.JoinIntent())

	d, _, err = d.SetChannel(ChannelHidden)
	require.NoError(t, err)
	intent := d.JoinIntent()
	require.NotNil(t, intent)
	assert.Equal(t, protocol.JoinRoom("harfsiz", 6), *intent)
}
