package bridge

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/wordarena/go/internal/arena"
	"github.com/mcdev12/wordarena/go/internal/store"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// Config holds configuration for the presentation bridge
type Config struct {
	URL           string
	StatePrefix   string // slices are published to <prefix>.<slice>
	IntentSubject string
	MaxReconnects int
	ReconnectWait time.Duration
}

// DefaultConfig returns default bridge configuration
func DefaultConfig() Config {
	return Config{
		URL:           nats.DefaultURL,
		StatePrefix:   "arena.state",
		IntentSubject: "arena.intents",
		MaxReconnects: -1, // Infinite
		ReconnectWait: 2 * time.Second,
	}
}

// Publisher is the part of a NATS connection used to publish state.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Submitter receives intents from the presentation layer.
type Submitter interface {
	Submit(intent arena.Intent) error
}

// StateMessage is the envelope of a published slice.
type StateMessage struct {
	ID        string          `json:"id"`
	Slice     store.Slice     `json:"slice"`
	Version   uint64          `json:"version"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// IntentMessage is an intent as sent by a presentation client.
type IntentMessage struct {
	ID    string           `json:"id,omitempty"`
	Type  arena.IntentType `json:"type"`
	Value string           `json:"value,omitempty"`
}

// IntentReply answers request/reply intents.
type IntentReply struct {
	ID    string `json:"id"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Bridge publishes store changes to NATS and feeds intents from NATS into
// the session.
type Bridge struct {
	config    Config
	publisher Publisher
	nc        *nats.Conn
	submitter Submitter
	store     *store.Store

	storeSubID string
	sub        *nats.Subscription
}

// Connect opens a NATS connection with the bridge's reconnect policy.
func Connect(config Config) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name("wordarena-bridge"),
		nats.MaxReconnects(config.MaxReconnects),
		nats.ReconnectWait(config.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
	}

	nc, err := nats.Connect(config.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return nc, nil
}

// New creates a bridge over an open NATS connection.
func New(nc *nats.Conn, config Config, submitter Submitter, st *store.Store) *Bridge {
	return &Bridge{
		config:    config,
		publisher: nc,
		nc:        nc,
		submitter: submitter,
		store:     st,
	}
}

// Start publishes the current snapshot, then every change, and subscribes to
// the intent subject.
func (b *Bridge) Start() error {
	if b.nc != nil {
		sub, err := b.nc.Subscribe(b.config.IntentSubject, b.handleMsg)
		if err != nil {
			return fmt.Errorf("subscribe to %s: %w", b.config.IntentSubject, err)
		}
		b.sub = sub
	}

	snapshot := b.store.Snapshot()
	for _, slice := range store.Slices {
		b.publishSlice(slice, snapshot)
	}
	b.storeSubID = b.store.Subscribe(b.publishSlice)

	log.Info().
		Str("state_prefix", b.config.StatePrefix).
		Str("intent_subject", b.config.IntentSubject).
		Msg("presentation bridge started")
	return nil
}

// Stop unsubscribes from the store and NATS.
func (b *Bridge) Stop() error {
	if b.storeSubID != "" {
		b.store.Unsubscribe(b.storeSubID)
		b.storeSubID = ""
	}
	if b.sub != nil {
		if err := b.sub.Unsubscribe(); err != nil {
			return fmt.Errorf("unsubscribe intents: %w", err)
		}
		b.sub = nil
	}
	return nil
}

func (b *Bridge) publishSlice(slice store.Slice, snapshot store.Snapshot) {
	data, err := json.Marshal(snapshot.Slice(slice))
	if err != nil {
		log.Error().Err(err).Str("slice", string(slice)).Msg("failed to marshal slice")
		return
	}

	message, err := json.Marshal(StateMessage{
		ID:        uuid.New().String(),
		Slice:     slice,
		Version:   snapshot.Version,
		Timestamp: time.Now().UTC(),
		Data:      data,
	})
	if err != nil {
		log.Error().Err(err).Str("slice", string(slice)).Msg("failed to marshal state message")
		return
	}

	subject := fmt.Sprintf("%s.%s", b.config.StatePrefix, slice)
	if err := b.publisher.Publish(subject, message); err != nil {
		log.Warn().Err(err).Str("subject", subject).Msg("failed to publish slice")
		return
	}

	log.Debug().
		Str("subject", subject).
		Uint64("version", snapshot.Version).
		Int("size", len(message)).
		Msg("published slice")
}

func (b *Bridge) handleMsg(msg *nats.Msg) {
	reply := b.handleIntent(msg.Data)
	if msg.Reply == "" {
		return
	}
	data, err := json.Marshal(reply)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal intent reply")
		return
	}
	if err := msg.Respond(data); err != nil {
		log.Warn().Err(err).Msg("failed to answer intent")
	}
}

// handleIntent decodes and submits one intent message.
func (b *Bridge) handleIntent(data []byte) IntentReply {
	var message IntentMessage
	if err := json.Unmarshal(data, &message); err != nil {
		log.Warn().Err(err).Msg("dropping malformed intent")
		return IntentReply{OK: false, Error: "malformed intent"}
	}
	if message.ID == "" {
		message.ID = uuid.New().String()
	}

	err := b.submitter.Submit(arena.Intent{Type: message.Type, Value: message.Value})
	if err != nil {
		log.Warn().
			Err(err).
			Str("intent_id", message.ID).
			Str("type", string(message.Type)).
			Msg("intent rejected")
		return IntentReply{ID: message.ID, OK: false, Error: err.Error()}
	}

	log.Debug().
		Str("intent_id", message.ID).
		Str("type", string(message.Type)).
		Msg("intent submitted")
	return IntentReply{ID: message.ID, OK: true}
}
