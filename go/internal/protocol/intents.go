package protocol

import (
	"encoding/json"
	"fmt"
)

// Intent is a local action that becomes one outbound frame.
type Intent struct {
	Op      Op
	Payload interface{}
}

// NewIntent pairs an op code with its payload. A nil payload is sent as {}
// because the server drops frames without a "d" field.
func NewIntent(op Op, payload interface{}) Intent {
	if payload == nil {
		payload = EmptyPayload{}
	}
	return Intent{Op: op, Payload: payload}
}

// Frame serializes the intent payload into a frame.
func (i Intent) Frame() (Frame, error) {
	payload := i.Payload
	if payload == nil {
		payload = EmptyPayload{}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Frame{}, fmt.Errorf("failed to marshal op %d payload: %w", i.Op, err)
	}
	return Frame{Op: i.Op, Data: data}, nil
}

// Encode serializes the intent straight to socket bytes.
func (i Intent) Encode() ([]byte, error) {
	frame, err := i.Frame()
	if err != nil {
		return nil, err
	}
	return Encode(frame)
}

func JoinRoom(channel string, room int) Intent {
	return NewIntent(OpJoinRoom, JoinRoomRequest{Channel: channel, Room: room})
}

func RequestDuel(uid string) Intent {
	return NewIntent(OpDuelRequest, DuelRequestPayload{UID: uid})
}

func AcceptDuel(gameID string) Intent {
	return NewIntent(OpDuelAccept, DuelResponsePayload{GameID: gameID})
}

func RejectDuel(gameID string) Intent {
	return NewIntent(OpDuelReject, DuelResponsePayload{GameID: gameID})
}

func ConfirmWord(gameID, word string) Intent {
	return NewIntent(OpConfirmWord, ConfirmWordPayload{GameID: gameID, Word: word})
}

func SubmitGuess(word string) Intent {
	return NewIntent(OpSubmitGuess, SubmitGuessPayload{Word: word})
}

func ConfirmTimeout() Intent {
	return NewIntent(OpConfirmTimeout, nil)
}

func GameTimeout() Intent {
	return NewIntent(OpGameTimeout, nil)
}
