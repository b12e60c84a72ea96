package arena

import (
	"fmt"
	"strconv"

	"github.com/mcdev12/wordarena/go/internal/game"
	"github.com/mcdev12/wordarena/go/internal/protocol"
)

// IntentType names a presentation-layer action.
type IntentType string

const (
	IntentChannel    IntentType = "channel"
	IntentRoom       IntentType = "room"
	IntentDuel       IntentType = "duel"
	IntentAccept     IntentType = "accept"
	IntentReject     IntentType = "reject"
	IntentKey        IntentType = "key"
	IntentDelete     IntentType = "delete"
	IntentEnter      IntentType = "enter"
	IntentBack       IntentType = "back"
	IntentForeground IntentType = "foreground"
	IntentBackground IntentType = "background"
)

// Intent is a user action coming from the presentation layer.
type Intent struct {
	Type  IntentType `json:"type"`
	Value string     `json:"value,omitempty"`
}

type transition func(game.Session) (game.Session, []protocol.Intent)

func silent(fn func(game.Session) game.Session) transition {
	return func(s game.Session) (game.Session, []protocol.Intent) {
		return fn(s), nil
	}
}

// action turns an intent into a function for the session loop.
func (r *Runtime) action(intent Intent) (func(), error) {
	switch intent.Type {
	case IntentChannel:
		return func() { r.selectChannel(intent.Value) }, nil

	case IntentRoom:
		size, err := strconv.Atoi(intent.Value)
		if err != nil {
			return nil, fmt.Errorf("invalid room %q: %w", intent.Value, err)
		}
		return func() { r.selectRoom(size) }, nil

	case IntentDuel:
		if intent.Value == "" {
			return nil, fmt.Errorf("duel intent needs a user id")
		}
		return r.gameAction(func(s game.Session) (game.Session, []protocol.Intent) {
			return s.SendRequest(intent.Value)
		}), nil

	case IntentAccept:
		return r.gameAction(game.Session.Accept), nil

	case IntentReject:
		return r.gameAction(game.Session.Reject), nil

	case IntentKey:
		return r.gameAction(silent(func(s game.Session) game.Session {
			return s.KeyPress(intent.Value)
		})), nil

	case IntentDelete:
		return r.gameAction(silent(game.Session.DeleteLetter)), nil

	case IntentEnter:
		return r.gameAction(game.Session.Enter), nil

	case IntentBack:
		return r.gameAction(silent(game.Session.ReturnToRooms)), nil

	case IntentForeground:
		return r.foreground, nil

	case IntentBackground:
		return r.background, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownIntent, intent.Type)
}

func (r *Runtime) gameAction(fn transition) func() {
	return func() {
		next := r.state
		var intents []protocol.Intent
		next.Game, intents = fn(r.state.Game)
		r.apply(next, intents)
	}
}
