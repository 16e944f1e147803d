package engine

import (
	"sync"
	"time"

	"github.com/airlock-systems/breathe/pkg/packet"
)

// Per spec.md §9, the engine is held as one explicit process-wide object;
// these package-level functions delegate to it rather than smuggling state
// through a hidden global. running guards re-entry: Configure/Run are not
// reentrant with respect to each other, and a second concurrent Run is a
// programming error, not a race to paper over.
var (
	singletonMu sync.Mutex
	singleton   *Engine
	running     bool
)

// Init installs a fresh, empty Engine as the process singleton. Safe to
// call again to reset state between independent runs (e.g. in tests).
func Init() {
	singletonMu.Lock()
	defer singletonMu.Unlock()
	singleton = New()
}

// instance returns the singleton, lazily creating an empty one if Init was
// never called. Spec.md §7: "configure never called before main" is not an
// error — it runs an empty network.
func instance() *Engine {
	if singleton == nil {
		singleton = New()
	}
	return singleton
}

// Configure reconciles the process-wide engine's app network to cfg.
func Configure(cfg *Configuration) error {
	singletonMu.Lock()
	defer singletonMu.Unlock()
	return instance().configure(cfg)
}

// Main runs the process-wide engine's breathe loop. Panics if called while
// another Main is already in progress on the same engine: re-entrant
// Configure/Main from inside an app callback is explicitly undefined by
// spec.md §5.
func Main(opts Options) error {
	singletonMu.Lock()
	if running {
		singletonMu.Unlock()
		panic("engine: Main is not reentrant")
	}
	running = true
	e := instance()
	singletonMu.Unlock()

	err := e.Run(opts)

	singletonMu.Lock()
	running = false
	singletonMu.Unlock()
	return err
}

// Now returns the process-wide engine's current time (latched during a
// breath).
func Now() time.Time {
	singletonMu.Lock()
	defer singletonMu.Unlock()
	return instance().Now()
}

// State returns the process-wide engine, for read access to Stats/Inhale/
// Exhale and for tests. Named after the original's state() accessor.
func State() *Engine {
	singletonMu.Lock()
	defer singletonMu.Unlock()
	return instance()
}

// Free records that p was freed, against the process-wide engine.
func Free(p *packet.Packet) {
	singletonMu.Lock()
	defer singletonMu.Unlock()
	instance().Free(p)
}
