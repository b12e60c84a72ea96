package arena

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/wordarena/go/internal/countdown"
	"github.com/mcdev12/wordarena/go/internal/game"
	"github.com/mcdev12/wordarena/go/internal/gateway"
	"github.com/mcdev12/wordarena/go/internal/presence"
	"github.com/mcdev12/wordarena/go/internal/protocol"
	"github.com/mcdev12/wordarena/go/internal/router"
	"github.com/mcdev12/wordarena/go/internal/store"
	"github.com/mcdev12/wordarena/go/internal/users"
	"github.com/rs/zerolog/log"
)

// Config holds the runtime settings
type Config struct {
	Gateway              gateway.ConnectionConfig
	Budgets              countdown.Budgets
	RevealDelayPerLetter time.Duration
	EventBufferSize      int
}

// DefaultConfig returns default runtime configuration
func DefaultConfig() Config {
	return Config{
		Gateway:              gateway.DefaultConnectionConfig(),
		Budgets:              countdown.DefaultBudgets(),
		RevealDelayPerLetter: 500 * time.Millisecond,
		EventBufferSize:      256,
	}
}

// Runtime runs one authenticated session. Frames, intents, timer fires and
// lifecycle changes are all funnelled through a single loop, so everything
// below Run is single threaded.
type Runtime struct {
	config Config
	clock  clockwork.Clock
	users  *users.App
	store  *store.Store
	conn   *gateway.Connection
	router *router.Router
	coord  *countdown.Coordinator

	events chan func()
	done   chan struct{}

	// Connection state changes are queued here instead of on events because
	// the loop itself drives the connection and must never wait on itself.
	socketMu     sync.Mutex
	socketStates []gateway.State
	socketWake   chan struct{}

	// owned by the loop
	ctx            context.Context
	state          router.State
	reveal         clockwork.Timer
	revealGen      uint64
	backgroundedAt time.Time
}

// New wires a runtime. Nothing happens until Run is called.
func New(config Config, clock clockwork.Clock, usersApp *users.App, st *store.Store) *Runtime {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if config.EventBufferSize <= 0 {
		config.EventBufferSize = DefaultConfig().EventBufferSize
	}

	r := &Runtime{
		config: config,
		clock:  clock,
		users:  usersApp,
		store:  st,
		events:     make(chan func(), config.EventBufferSize),
		done:       make(chan struct{}),
		socketWake: make(chan struct{}, 1),
		ctx:        context.Background(),
		state:      router.State{Game: game.Idle(), Directory: presence.New()},
	}
	r.conn = gateway.NewConnection(config.Gateway, clock, r)
	r.router = router.New(r.conn)
	r.coord = countdown.NewCoordinator(clock, config.Budgets, r.router, r.Post, st.SetCountdown)
	return r
}

// Store returns the state container the runtime publishes to.
func (r *Runtime) Store() *store.Store {
	return r.store
}

// Connection returns the gateway connection.
func (r *Runtime) Connection() *gateway.Connection {
	return r.conn
}

// Run processes events until ctx is cancelled. The connection is closed and
// every timer cancelled on return.
func (r *Runtime) Run(ctx context.Context) error {
	r.ctx = ctx
	defer r.shutdown()

	log.Info().Str("connection_id", r.conn.ID).Msg("session loop started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("session loop stopping")
			return ctx.Err()
		case fn := <-r.events:
			fn()
		case <-r.socketWake:
			r.drainSocket()
		}
	}
}

// Post queues fn on the session loop. It is dropped once the loop exited.
func (r *Runtime) Post(fn func()) {
	select {
	case r.events <- fn:
	case <-r.done:
	}
}

// Connect opens the gateway for the current user.
func (r *Runtime) Connect() error {
	session := r.users.Current()
	if session == nil {
		return ErrNotAuthenticated
	}
	return r.post(func() {
		identity := session.Identity
		r.store.SetUser(&identity)
		r.conn.Open(r.ctx, session.Token)
	})
}

// Submit queues a presentation-layer intent.
func (r *Runtime) Submit(intent Intent) error {
	if r.users.Current() == nil {
		return ErrNotAuthenticated
	}
	fn, err := r.action(intent)
	if err != nil {
		return err
	}
	return r.post(fn)
}

// Logout closes the connection, cancels every timer and clears all state.
func (r *Runtime) Logout() error {
	if r.users.Current() == nil {
		return ErrNotAuthenticated
	}
	return r.post(func() {
		r.conn.Close()
		r.coord.Stop()
		r.cancelReveal()
		r.state = router.State{Game: game.Idle(), Directory: presence.New()}
		r.users.Logout()
		r.store.Reset()
	})
}

func (r *Runtime) post(fn func()) error {
	select {
	case <-r.done:
		return ErrStopped
	default:
	}
	r.Post(fn)
	return nil
}

// HandleFrame implements gateway.Listener.
func (r *Runtime) HandleFrame(frame protocol.Frame) {
	r.Post(func() { r.dispatch(frame) })
}

// HandleState implements gateway.Listener. It never blocks, so the loop may
// open, close or identify the connection directly.
func (r *Runtime) HandleState(state gateway.State) {
	r.socketMu.Lock()
	r.socketStates = append(r.socketStates, state)
	r.socketMu.Unlock()

	select {
	case r.socketWake <- struct{}{}:
	default:
	}
}

func (r *Runtime) drainSocket() {
	r.socketMu.Lock()
	states := r.socketStates
	r.socketStates = nil
	r.socketMu.Unlock()

	for _, state := range states {
		r.syncSocket(state)
	}
}

func (r *Runtime) dispatch(frame protocol.Frame) {
	if frame.Op == protocol.OpHello {
		r.state.Self = r.conn.ServerID()
	}
	next := r.router.Dispatch(r.state, frame)
	r.apply(next, nil)
}

// apply installs the next state, sends its intents and publishes it. Timers
// are synced before the store is updated so observers never see a state
// whose timers are not yet armed.
func (r *Runtime) apply(next router.State, intents []protocol.Intent) {
	r.state = next
	r.router.EmitAll(intents)

	r.coord.Observe(r.state.Game)
	r.syncReveal()

	r.store.SetChannel(r.state.Directory)
	r.store.SetGame(r.state.Game)
}

func (r *Runtime) selectChannel(value string) {
	directory, intent, err := r.state.Directory.SetChannel(presence.Channel(value))
	if err != nil {
		log.Warn().Err(err).Msg("channel not selected")
		return
	}
	r.applyDirectory(directory, intent)
}

func (r *Runtime) selectRoom(size int) {
	directory, intent, err := r.state.Directory.SetRoom(size)
	if err != nil {
		log.Warn().Err(err).Msg("room not selected")
		return
	}
	r.applyDirectory(directory, intent)
}

func (r *Runtime) applyDirectory(directory presence.Directory, intent *protocol.Intent) {
	next := r.state
	next.Directory = directory
	var intents []protocol.Intent
	if intent != nil {
		intents = append(intents, *intent)
	}
	r.apply(next, intents)
}

// syncSocket publishes the connection state. A fresh Ready re-joins the
// selected room because the server forgets membership with the socket.
func (r *Runtime) syncSocket(state gateway.State) {
	current := r.conn.State()
	socket := store.SocketState{
		State:    current,
		ServerID: r.conn.ServerID(),
	}
	if ack := r.conn.LastHeartbeatAck(); !ack.IsZero() {
		socket.LastHeartbeatAck = &ack
	}

	previous := r.store.Snapshot().Socket.State
	r.store.SetSocket(socket)

	if current == gateway.StateReady && previous != gateway.StateReady {
		if intent := r.state.Directory.JoinIntent(); intent != nil {
			r.router.Emit(*intent)
		}
	}

	log.Debug().
		Str("reported", string(state)).
		Str("state", string(current)).
		Msg("socket state changed")
}

// syncReveal keeps a single reveal timer alive while an evaluated own row is
// being shown.
func (r *Runtime) syncReveal() {
	if !r.state.Game.Revealing {
		r.cancelReveal()
		return
	}
	if r.reveal != nil {
		return
	}

	delay := r.config.RevealDelayPerLetter * time.Duration(r.state.Game.RoomSize)
	r.revealGen++
	gen := r.revealGen
	r.reveal = r.clock.AfterFunc(delay, func() {
		r.Post(func() { r.finishReveal(gen) })
	})
}

func (r *Runtime) cancelReveal() {
	if r.reveal == nil {
		return
	}
	r.reveal.Stop()
	r.reveal = nil
	r.revealGen++
}

func (r *Runtime) finishReveal(gen uint64) {
	if gen != r.revealGen {
		return
	}
	r.reveal = nil
	next := r.state
	next.Game = r.state.Game.FinishReveal()
	r.apply(next, nil)
}

func (r *Runtime) background() {
	r.backgroundedAt = r.clock.Now()
	log.Info().Msg("session backgrounded")
}

// foreground recomputes the countdown from its anchored deadline and re-opens
// a dead connection.
func (r *Runtime) foreground() {
	if !r.backgroundedAt.IsZero() {
		log.Info().
			Dur("away", r.clock.Since(r.backgroundedAt)).
			Msg("session foregrounded")
		r.backgroundedAt = time.Time{}
	}

	r.coord.Resume()

	switch r.conn.State() {
	case gateway.StateFailed, gateway.StateDisconnected:
		if session := r.users.Current(); session != nil {
			r.conn.Open(r.ctx, session.Token)
		}
	}
}

func (r *Runtime) shutdown() {
	close(r.done)
	r.conn.Close()
	r.coord.Stop()
	r.cancelReveal()
}
