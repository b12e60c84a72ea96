package router

import (
	"errors"

	"github.com/mcdev12/wordarena/go/internal/game"
	"github.com/mcdev12/wordarena/go/internal/gateway"
	"github.com/mcdev12/wordarena/go/internal/presence"
	"github.com/mcdev12/wordarena/go/internal/protocol"
	"github.com/rs/zerolog/log"
)

// State is everything the router's handlers may change.
type State struct {
	// Self is the socket id the server assigned in its hello. Room user
	// objects carry it as their uid.
	Self      string
	Game      game.Session
	Directory presence.Directory
}

// Handler applies one decoded event payload to the state and returns the
// intents to send in response.
type Handler func(state State, payload interface{}) (State, []protocol.Intent)

// Sender is the subset of the gateway connection the router needs.
type Sender interface {
	Ready() bool
	Identify() error
	Send(frame protocol.Frame) error
}

// Router maps inbound frames to handlers and local intents to outbound frames.
type Router struct {
	sender   Sender
	handlers map[protocol.EventType]Handler
}

// New creates a router with the default event table.
func New(sender Sender) *Router {
	r := &Router{
		sender:   sender,
		handlers: make(map[protocol.EventType]Handler),
	}
	for eventType, handler := range DefaultHandlers() {
		r.Register(eventType, handler)
	}
	return r
}

// Register replaces the handler for an event type.
func (r *Router) Register(eventType protocol.EventType, handler Handler) {
	r.handlers[eventType] = handler
}

// Dispatch applies an inbound frame and emits the intents its handler
// produced. Frames that are not application events, unknown event types and
// undecodable payloads leave the state untouched.
func (r *Router) Dispatch(state State, frame protocol.Frame) State {
	switch frame.Op {
	case protocol.OpHello:
		if err := r.sender.Identify(); err != nil {
			log.Warn().Err(err).Msg("failed to answer gateway hello")
		}
		return state

	case protocol.OpDispatch:
		// handled below

	default:
		return state
	}

	handler, ok := r.handlers[frame.Type]
	if !ok {
		log.Debug().Str("event_type", string(frame.Type)).Msg("ignoring unknown event")
		return state
	}

	payload, err := protocol.ParseEventPayload(frame)
	if err != nil {
		log.Warn().
			Err(err).
			Str("event_type", string(frame.Type)).
			Msg("dropping event with bad payload")
		return state
	}

	log.Debug().Str("event_type", string(frame.Type)).Msg("dispatching event")

	next, intents := handler(state, payload)
	r.EmitAll(intents)
	return next
}

// Emit serializes an intent and hands it to the connection. Intents are
// dropped while the connection is not ready.
func (r *Router) Emit(intent protocol.Intent) {
	if !r.sender.Ready() {
		log.Debug().Int("op", int(intent.Op)).Msg("connection not ready, dropping intent")
		return
	}

	frame, err := intent.Frame()
	if err != nil {
		log.Error().Err(err).Int("op", int(intent.Op)).Msg("failed to encode intent")
		return
	}

	if err := r.sender.Send(frame); err != nil {
		level := log.Warn()
		if errors.Is(err, gateway.ErrNotReady) {
			level = log.Debug()
		}
		level.Err(err).Int("op", int(intent.Op)).Msg("failed to send intent")
	}
}

// EmitAll emits intents in order.
func (r *Router) EmitAll(intents []protocol.Intent) {
	for _, intent := range intents {
		r.Emit(intent)
	}
}
