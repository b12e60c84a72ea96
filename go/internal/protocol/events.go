package protocol

import (
	"encoding/json"
	"fmt"
)

// EventType is the tag of an inbound application event (frame field "t").
type EventType string

const (
	EventJoinRoom            EventType = "JOIN_ROOM"
	EventUserJoinRoom        EventType = "USER_JOIN_ROOM"
	EventUserLeaveRoom       EventType = "USER_LEAVE_ROOM"
	EventGameRequest         EventType = "GAME_REQUEST"
	EventGameAccepted        EventType = "GAME_ACCEPTED"
	EventGameRejected        EventType = "GAME_REJECTED"
	EventStatusUpdate        EventType = "STATUS_UPDATE"
	EventConfirmedWord       EventType = "CONFIRMED_WORD"
	EventStartGame           EventType = "START_GAME"
	EventCheckWord           EventType = "CHECK_WORD"
	EventTryAgain            EventType = "TRY_AGAIN"
	EventRandomWord          EventType = "RANDOM_WORD"
	EventOtherPlayerFinished EventType = "OTHER_PLAYER_FINISHED"
	EventLoseGame            EventType = "LOSE_GAME"
	EventWonGame             EventType = "WON_GAME"
)

// ParseEventPayload decodes the data of a dispatch frame into the payload
// struct registered for its event type. Unknown types return nil, nil.
func ParseEventPayload(frame Frame) (interface{}, error) {
	var payload interface{}

	switch frame.Type {
	case EventJoinRoom:
		payload = &JoinRoomPayload{}
	case EventUserJoinRoom, EventUserLeaveRoom:
		payload = &UserRoomPayload{}
	case EventGameRequest:
		payload = &GameRequestPayload{}
	case EventGameAccepted:
		payload = &GameAcceptedPayload{}
	case EventGameRejected, EventConfirmedWord, EventStartGame:
		payload = &GameRefPayload{}
	case EventStatusUpdate:
		payload = &StatusUpdatePayload{}
	case EventCheckWord:
		payload = &CheckWordPayload{}
	case EventRandomWord:
		payload = &RandomWordPayload{}
	case EventTryAgain, EventOtherPlayerFinished:
		payload = &EmptyPayload{}
	case EventLoseGame, EventWonGame:
		payload = &ResultsPayload{}
	default:
		return nil, nil
	}

	if len(frame.Data) == 0 || string(frame.Data) == "null" {
		return payload, nil
	}
	if err := json.Unmarshal(frame.Data, payload); err != nil {
		return nil, fmt.Errorf("failed to parse %s payload: %w", frame.Type, err)
	}
	return payload, nil
}
