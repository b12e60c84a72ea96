package protocol

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntentRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		intent Intent
		into   interface{}
	}{
		{name: "join room", intent: JoinRoom("harfli", 5), into: &JoinRoomRequest{}},
		{name: "duel request", intent: RequestDuel("u2"), into: &DuelRequestPayload{}},
		{name: "accept", intent: AcceptDuel("g1"), into: &DuelResponsePayload{}},
		{name: "reject", intent: RejectDuel("g1"), into: &DuelResponsePayload{}},
		{name: "confirm word", intent: ConfirmWord("g1", "KALEM"), into: &ConfirmWordPayload{}},
		{name: "submit guess", intent: SubmitGuess("KALEM"), into: &SubmitGuessPayload{}},
		{name: "confirm timeout", intent: ConfirmTimeout(), into: &EmptyPayload{}},
		{name: "game timeout", intent: GameTimeout(), into: &EmptyPayload{}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			data, err := test.intent.Encode()
			require.NoError(t, err)

			frame, err := Decode(data)
			require.NoError(t, err)
			assert.Equal(t, test.intent.Op, frame.Op)

			require.NoError(t, json.Unmarshal(frame.Data, test.into))
			got := reflect.ValueOf(test.into).Elem().Interface()
			assert.Equal(t, test.intent.Payload, got)
		})
	}
}

func TestGameTimeoutWireFormat(t *testing.T) {
	data, err := GameTimeout().Encode()
	require.NoError(t, err)
	assert.JSONEq(t, `{"op":12,"d":{}}`, string(data))
}

func TestHeartbeatWireFormat(t *testing.T) {
	data, err := Encode(HeartbeatFrame())
	require.NoError(t, err)
	assert.JSONEq(t, `{"op":1}`, string(data))
}

func TestIdentifyFrame(t *testing.T) {
	frame, err := IdentifyFrame("secret")
	require.NoError(t, err)
	data, err := Encode(frame)
	require.NoError(t, err)
	assert.JSONEq(t, `{"op":2,"d":{"token":"secret"}}`, string(data))
}

func TestDecodeMalformed(t *testing.T) {
	_, err := Decode([]byte("{op:"))
	assert.ErrorIs(t, err, ErrMalformedFrame)
}

func TestParseEventPayload(t *testing.T) {
	t.Run("check word own row", func(t *testing.T) {
		frame, err := Decode([]byte(`{"op":0,"t":"CHECK_WORD","d":{"valid":true,"row":null,"letters":[{"value":"K","status":"correct"}]}}`))
		require.NoError(t, err)

		payload, err := ParseEventPayload(frame)
		require.NoError(t, err)
		check, ok := payload.(*CheckWordPayload)
		require.True(t, ok)
		assert.True(t, check.Valid)
		assert.Nil(t, check.Row)
		assert.Equal(t, []LetterResult{{Value: "K", Status: LetterCorrect}}, check.Letters)
	})

	t.Run("check word opponent row", func(t *testing.T) {
		frame, err := Decode([]byte(`{"op":0,"t":"CHECK_WORD","d":{"valid":true,"row":2,"letters":[]}}`))
		require.NoError(t, err)

		payload, err := ParseEventPayload(frame)
		require.NoError(t, err)
		check := payload.(*CheckWordPayload)
		require.NotNil(t, check.Row)
		assert.Equal(t, 2, *check.Row)
	})

	t.Run("game accepted with hint", func(t *testing.T) {
		frame, err := Decode([]byte(`{"op":0,"t":"GAME_ACCEPTED","d":{"game_id":"g1","opponent":{"uid":"u2","username":"bob"},"letter":"A","index":3}}`))
		require.NoError(t, err)

		payload, err := ParseEventPayload(frame)
		require.NoError(t, err)
		accepted := payload.(*GameAcceptedPayload)
		assert.Equal(t, "g1", accepted.GameID)
		assert.Equal(t, "bob", accepted.Opponent.Username)
		require.NotNil(t, accepted.Letter)
		require.NotNil(t, accepted.Index)
		assert.Equal(t, "A", *accepted.Letter)
		assert.Equal(t, 3, *accepted.Index)
	})

	t.Run("empty data", func(t *testing.T) {
		payload, err := ParseEventPayload(Frame{Op: OpDispatch, Type: EventOtherPlayerFinished})
		require.NoError(t, err)
		assert.IsType(t, &EmptyPayload{}, payload)
	})

	t.Run("unknown event", func(t *testing.T) {
		payload, err := ParseEventPayload(Frame{Op: OpDispatch, Type: "SOMETHING_NEW", Data: json.RawMessage(`{"x":1}`)})
		assert.NoError(t, err)
		assert.Nil(t, payload)
	})

	t.Run("bad payload", func(t *testing.T) {
		_, err := ParseEventPayload(Frame{Op: OpDispatch, Type: EventCheckWord, Data: json.RawMessage(`{"valid":"yes"}`)})
		assert.Error(t, err)
	})
}
