package countdown

import (
	"math"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/wordarena/go/internal/game"
	"github.com/mcdev12/wordarena/go/internal/protocol"
	"github.com/rs/zerolog/log"
)

// Phase identifies which time budget is running.
type Phase string

const (
	PhaseNone             Phase = ""
	PhaseConfirm          Phase = "confirm"
	PhaseTurn             Phase = "turn"
	PhaseOpponentFinished Phase = "opponent_finished"
)

// Budgets holds the per-phase time budgets.
type Budgets struct {
	Confirm          time.Duration `yaml:"confirm_budget"`
	Turn             time.Duration `yaml:"turn_budget"`
	OpponentFinished time.Duration `yaml:"opponent_finished_budget"`
}

// DefaultBudgets returns 60s to confirm a word, 70s per turn and 10s once the
// opponent has finished.
func DefaultBudgets() Budgets {
	return Budgets{
		Confirm:          60 * time.Second,
		Turn:             70 * time.Second,
		OpponentFinished: 10 * time.Second,
	}
}

func (b Budgets) forPhase(phase Phase) time.Duration {
	switch phase {
	case PhaseConfirm:
		return b.Confirm
	case PhaseTurn:
		return b.Turn
	case PhaseOpponentFinished:
		return b.OpponentFinished
	}
	return 0
}

// State is the countdown slice exposed to the presentation layer.
type State struct {
	Phase            Phase      `json:"phase"`
	SecondsRemaining int        `json:"seconds_remaining"`
	Deadline         *time.Time `json:"deadline,omitempty"`
	Running          bool       `json:"running"`
}

// Emitter sends forced-resolution intents.
type Emitter interface {
	Emit(intent protocol.Intent)
}

// Poster runs a function on the session loop.
type Poster func(fn func())

// phaseKey identifies one armed phase. A new key means a new transition and
// re-arms the countdown; the same key leaves the running countdown alone.
type phaseKey struct {
	phase   Phase
	gameID  string
	attempt int
	row     int
}

// Coordinator derives the countdown from session transitions. Only one ticker
// is alive at a time and every method must be called from the session loop.
type Coordinator struct {
	clock    clockwork.Clock
	budgets  Budgets
	emitter  Emitter
	post     Poster
	onChange func(State)

	state      State
	key        phaseKey
	ticker     clockwork.Ticker
	stopCh     chan struct{}
	generation uint64
}

// NewCoordinator creates a coordinator. onChange receives every new State.
func NewCoordinator(clock clockwork.Clock, budgets Budgets, emitter Emitter, post Poster, onChange func(State)) *Coordinator {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if onChange == nil {
		onChange = func(State) {}
	}
	return &Coordinator{
		clock:    clock,
		budgets:  budgets,
		emitter:  emitter,
		post:     post,
		onChange: onChange,
	}
}

// State returns the current countdown state.
func (c *Coordinator) State() State {
	return c.state
}

// Observe is called after every session change and re-arms or cancels the
// countdown when the phase key changes.
func (c *Coordinator) Observe(session game.Session) {
	key := keyFor(session)
	if key == c.key {
		return
	}
	c.key = key

	if key.phase == PhaseNone {
		c.Stop()
		return
	}
	c.arm(key.phase)
}

// Stop cancels any running countdown and clears the phase.
func (c *Coordinator) Stop() {
	c.cancel()
	c.key = phaseKey{}
	c.setState(State{})
}

// Resume recomputes the remaining time from the anchored deadline, used when
// the process comes back from the background. An elapsed deadline expires
// immediately.
func (c *Coordinator) Resume() {
	if !c.state.Running || c.state.Deadline == nil {
		return
	}
	remaining := c.secondsUntil(*c.state.Deadline)
	next := c.state
	next.SecondsRemaining = remaining
	c.setState(next)

	if remaining == 0 {
		c.expire()
	}
}

func (c *Coordinator) arm(phase Phase) {
	c.cancel()

	budget := c.budgets.forPhase(phase)
	deadline := c.clock.Now().Add(budget)
	c.setState(State{
		Phase:            phase,
		SecondsRemaining: int(budget / time.Second),
		Deadline:         &deadline,
		Running:          true,
	})

	c.generation++
	gen := c.generation
	ticker := c.clock.NewTicker(time.Second)
	stop := make(chan struct{})
	c.ticker = ticker
	c.stopCh = stop

	go func(t clockwork.Ticker) {
		for {
			select {
			case <-t.Chan():
				c.post(func() { c.tick(gen) })
			case <-stop:
				return
			}
		}
	}(ticker)

	log.Debug().
		Str("phase", string(phase)).
		Time("deadline", deadline).
		Msg("countdown armed")
}

// cancel stops the ticker. Ticks already posted from it are discarded by the
// generation check in tick.
func (c *Coordinator) cancel() {
	if c.ticker == nil {
		return
	}
	c.ticker.Stop()
	close(c.stopCh)
	c.ticker = nil
	c.stopCh = nil
	c.generation++
}

func (c *Coordinator) tick(gen uint64) {
	if gen != c.generation || !c.state.Running {
		return
	}

	remaining := c.state.SecondsRemaining - 1
	if c.state.Deadline != nil {
		if fromClock := c.secondsUntil(*c.state.Deadline); fromClock < remaining {
			remaining = fromClock
		}
	}
	if remaining < 0 {
		remaining = 0
	}

	next := c.state
	next.SecondsRemaining = remaining
	c.setState(next)

	if remaining == 0 {
		c.expire()
	}
}

// expire handles a countdown reaching zero. Confirmation and turn phases send
// their timeout op and reset to the phase budget; the opponent-finished phase
// sends nothing because the server resolves the duel on its own.
func (c *Coordinator) expire() {
	phase := c.state.Phase
	c.cancel()

	switch phase {
	case PhaseConfirm:
		c.emitter.Emit(protocol.ConfirmTimeout())
	case PhaseTurn:
		c.emitter.Emit(protocol.GameTimeout())
	case PhaseOpponentFinished:
		c.setState(State{Phase: phase})
		log.Debug().Msg("opponent-finished countdown elapsed, waiting for result")
		return
	}

	log.Info().Str("phase", string(phase)).Msg("countdown expired")
	c.setState(State{
		Phase:            phase,
		SecondsRemaining: int(c.budgets.forPhase(phase) / time.Second),
	})
}

func (c *Coordinator) secondsUntil(deadline time.Time) int {
	d := deadline.Sub(c.clock.Now())
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Seconds()))
}

func (c *Coordinator) setState(state State) {
	c.state = state
	c.onChange(state)
}

func keyFor(s game.Session) phaseKey {
	switch s.Status {
	case game.StatusAccepted:
		return phaseKey{phase: PhaseConfirm, gameID: s.GameID, attempt: s.Attempt}
	case game.StatusWordConfirming:
		if s.WordConfirmed {
			return phaseKey{}
		}
		return phaseKey{phase: PhaseConfirm, gameID: s.GameID, attempt: s.Attempt}
	case game.StatusInProgress:
		if s.Exhausted {
			return phaseKey{}
		}
		return phaseKey{phase: PhaseTurn, gameID: s.GameID, row: s.Cursor.Row}
	case game.StatusOpponentFinished:
		if s.Exhausted {
			return phaseKey{}
		}
		return phaseKey{phase: PhaseOpponentFinished, gameID: s.GameID, row: s.Cursor.Row}
	}
	return phaseKey{}
}
