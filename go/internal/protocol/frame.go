package protocol

import (
	"encoding/json"
	"fmt"
)

// Op is the operation code carried by every gateway frame.
type Op int

// Op codes are direction dependent: 10 and 11 mean different things inbound
// and outbound.
const (
	OpDispatch       Op = 0 // inbound application event
	OpHeartbeat      Op = 1 // outbound liveness frame
	OpIdentify       Op = 2 // outbound handshake reply carrying the token
	OpJoinRoom       Op = 3
	OpDuelRequest    Op = 4
	OpDuelAccept     Op = 5
	OpDuelReject     Op = 6
	OpConfirmWord    Op = 7
	OpInvalidSession Op = 8  // inbound, server refused the token
	OpHello          Op = 10 // inbound handshake prompt
	OpSubmitGuess    Op = 10 // outbound guess row
	OpHeartbeatAck   Op = 11 // inbound
	OpConfirmTimeout Op = 11 // outbound, word-confirmation countdown expired
	OpGameTimeout    Op = 12 // outbound, turn countdown expired
)

// Frame is the JSON envelope exchanged over the gateway socket.
type Frame struct {
	Op   Op              `json:"op"`
	Type EventType       `json:"t,omitempty"`
	Data json.RawMessage `json:"d,omitempty"`
}

// Decode parses a raw socket message into a Frame.
func Decode(data []byte) (Frame, error) {
	var frame Frame
	if err := json.Unmarshal(data, &frame); err != nil {
		return Frame{}, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	return frame, nil
}

// Encode serializes a frame for the socket.
func Encode(frame Frame) ([]byte, error) {
	data, err := json.Marshal(frame)
	if err != nil {
		return nil, fmt.Errorf("failed to encode frame: %w", err)
	}
	return data, nil
}

// HeartbeatFrame returns the bare {op: 1} liveness frame.
func HeartbeatFrame() Frame {
	return Frame{Op: OpHeartbeat}
}

// IdentifyFrame builds the handshake reply for a hello prompt.
func IdentifyFrame(token string) (Frame, error) {
	return NewIntent(OpIdentify, IdentifyPayload{Token: token}).Frame()
}
