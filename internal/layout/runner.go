package layout

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTickInterval spaces simulation steps so the driving loop yields
// between ticks instead of spinning synchronously.
const DefaultTickInterval = 16 * time.Millisecond

// RunnerConfig configures a Runner.
type RunnerConfig struct {
	// Interval between ticks. Defaults to DefaultTickInterval.
	Interval time.Duration

	// OnTick is called after every applied tick.
	OnTick func(sim *Simulation)

	// OnSettle is called once when the simulation settles.
	OnSettle func(sim *Simulation)

	// Logger for run lifecycle events. Nil means no logging.
	Logger *zerolog.Logger
}

// Runner drives a simulation with discrete scheduled ticks. Each Start fully
// stops any in-flight run first and tags the new run with a generation
// counter, so late ticks or callbacks from a superseded run are no-ops and
// two runs can never fight over the same state.
type Runner struct {
	cfg RunnerConfig
	log zerolog.Logger

	mu         sync.Mutex
	generation uint64
	stop       chan struct{}
	done       chan struct{}
	running    bool

	// simMu serializes ticks with external mutations made through Do.
	simMu sync.Mutex
}

// NewRunner creates a runner.
func NewRunner(cfg RunnerConfig) *Runner {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultTickInterval
	}
	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = *cfg.Logger
	}
	return &Runner{cfg: cfg, log: log}
}

// Start begins ticking the given simulation. Any previous run is stopped and
// joined before the new one begins.
func (r *Runner) Start(sim *Simulation) {
	r.Stop()

	r.mu.Lock()
	r.generation++
	gen := r.generation
	stop := make(chan struct{})
	done := make(chan struct{})
	r.stop, r.done = stop, done
	r.running = true
	r.mu.Unlock()

	r.log.Debug().Uint64("generation", gen).Int("nodes", len(sim.Nodes())).Msg("simulation run started")
	go r.loop(sim, gen, stop, done)
}

// Stop halts the current run and waits for its loop to exit. Safe to call
// when nothing is running.
func (r *Runner) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	stop, done := r.stop, r.done
	r.running = false
	r.mu.Unlock()

	close(stop)
	<-done
}

// Do runs fn while ticking is excluded, so callers can mutate the simulation
// (promote, resize, drag) without racing a tick in flight.
func (r *Runner) Do(fn func()) {
	r.simMu.Lock()
	defer r.simMu.Unlock()
	fn()
}

// Running reports whether a run is in progress.
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// current reports whether gen is still the live generation.
func (r *Runner) current(gen uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.generation == gen && r.running
}

func (r *Runner) loop(sim *Simulation, gen uint64, stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			r.log.Debug().Uint64("generation", gen).Msg("simulation run stopped")
			return
		case <-ticker.C:
			if !r.current(gen) {
				return
			}

			r.simMu.Lock()
			active := sim.Tick()
			r.simMu.Unlock()

			if r.cfg.OnTick != nil && r.current(gen) {
				r.cfg.OnTick(sim)
			}
			if !active {
				if r.cfg.OnSettle != nil && r.current(gen) {
					r.cfg.OnSettle(sim)
				}
				r.log.Debug().Uint64("generation", gen).Int("ticks", sim.Ticks()).Msg("simulation settled")
				r.finish(gen)
				return
			}
		}
	}
}

// finish clears the running flag if gen is still live.
func (r *Runner) finish(gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.generation == gen {
		r.running = false
	}
}
