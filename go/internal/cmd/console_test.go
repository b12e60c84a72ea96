package main

import (
	"bytes"
	"testing"

	"github.com/mcdev12/wordarena/go/internal/arena"
	"github.com/mcdev12/wordarena/go/internal/game"
	"github.com/mcdev12/wordarena/go/internal/protocol"
	"github.com/mcdev12/wordarena/go/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line    string
		intents []arena.Intent
		control string
	}{
		{line: "channel harfli", intents: []arena.Intent{{Type: arena.IntentChannel, Value: "harfli"}}},
		{line: "room 5", intents: []arena.Intent{{Type: arena.IntentRoom, Value: "5"}}},
		{line: "DUEL u2", intents: []arena.Intent{{Type: arena.IntentDuel, Value: "u2"}}},
		{line: "type kuş", intents: []arena.Intent{
			{Type: arena.IntentKey, Value: "k"},
			{Type: arena.IntentKey, Value: "u"},
			{Type: arena.IntentKey, Value: "ş"},
		}},
		{line: "del", intents: []arena.Intent{{Type: arena.IntentDelete}}},
		{line: "fg", intents: []arena.Intent{{Type: arena.IntentForeground}}},
		{line: "quit", control: "quit"},
		{line: "   ", intents: nil},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			cmd, err := parseCommand(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.intents, cmd.intents)
			assert.Equal(t, tt.control, cmd.control)
		})
	}
}

func TestParseCommandErrors(t *testing.T) {
	for _, line := range []string{"room", "duel a b", "dance"} {
		_, err := parseCommand(line)
		assert.Error(t, err, line)
	}
}

func TestRenderPlayingBoard(t *testing.T) {
	session := game.Idle()
	session, _ = session.SendRequest("u2")
	session = session.Accepted("g1", game.Player{UID: "u2", DisplayName: "bob"}, nil, 4)
	for _, key := range []string{"k", "u", "ş", "u"} {
		session = session.KeyPress(key)
	}
	session, _ = session.Enter()
	session = session.WordAccepted("g1")
	session = session.Start("g1")
	session = session.CheckWord(true, nil, []protocol.LetterResult{
		{Value: "K", Status: protocol.LetterCorrect},
		{Value: "A", Status: protocol.LetterAbsent},
		{Value: "R", Status: protocol.LetterPresent},
		{Value: "A", Status: protocol.LetterAbsent},
	})

	snap := store.New().Snapshot()
	snap.Game = session

	var out bytes.Buffer
	render(&out, snap)

	assert.Contains(t, out.String(), "game in_progress vs bob")
	assert.Contains(t, out.String(), "> [K+ A- R~ A-]")
}
