package engine

import (
	"time"

	"github.com/airlock-systems/breathe/pkg/packet"
	"github.com/airlock-systems/breathe/pkg/util"
)

// MaxSleep is the upper bound, in microseconds, on the adaptive inter-breath
// sleep (spec.md §4.6).
const MaxSleep = 100

// Stats holds the engine-wide counters maintained across breathes.
type Stats struct {
	Breaths   uint64
	Frees     uint64
	FreeBits  uint64
	FreeBytes uint64
}

// Options controls the Run loop's termination and end-of-run reporting.
type Options struct {
	// Done is evaluated before each non-initial breath; the loop stops
	// once it returns true.
	Done func() bool
	// Duration is shorthand for Done = engine's own timeout(Duration).
	// Mutually exclusive with Done.
	Duration *time.Duration

	NoReport    bool
	ReportLoad  bool
	ReportLinks bool
	ReportApps  bool
}

// Engine hosts one app network and drives its breathe loop. The zero value
// is not usable; construct with New.
type Engine struct {
	links *linkRegistry
	apps  *appRegistry
	clock clock

	inhale []string
	exhale []string

	stats     Stats
	lastFrees uint64
	sleep     uint64

	lastLoadReport   *time.Time
	reportedFrees    uint64
	reportedFreeBits uint64
	reportedFreeByt  uint64
	reportedBreaths  uint64

	sinks []ReportSink
}

// New returns an empty, unconfigured Engine.
func New() *Engine {
	return &Engine{
		links: newLinkRegistry(),
		apps:  newAppRegistry(),
	}
}

// Configure reconciles the live app network to match cfg (spec.md §4.4).
func (e *Engine) Configure(cfg *Configuration) error {
	return e.configure(cfg)
}

// AddReportSink registers an external reporter (e.g. a Redis publisher)
// that receives a copy of every load/link/app report alongside the
// console output.
func (e *Engine) AddReportSink(s ReportSink) {
	e.sinks = append(e.sinks, s)
}

// Now returns the latched per-breath instant if a breath is in progress,
// otherwise the current monotonic time.
func (e *Engine) Now() time.Time { return e.clock.now() }

// Timeout returns a one-shot predicate that is true once d has elapsed
// past Now().
func (e *Engine) Timeout(d time.Duration) func() bool { return e.clock.timeout(d) }

// Throttle returns a predicate true at most once per interval d.
func (e *Engine) Throttle(d time.Duration) func() bool { return e.clock.throttle(d) }

// Stats returns a snapshot of the engine-wide counters.
func (e *Engine) Stats() Stats { return e.stats }

// Sleep returns the current adaptive inter-breath sleep, in microseconds.
func (e *Engine) Sleep() uint64 { return e.sleep }

// Inhale returns the current pull-phase app order.
func (e *Engine) Inhale() []string { return append([]string(nil), e.inhale...) }

// Exhale returns the current push-phase app order.
func (e *Engine) Exhale() []string { return append([]string(nil), e.exhale...) }

// Free records that p was freed by an app, accounting its size toward the
// load report. Apps call this (rather than the engine inspecting packets
// itself) because packet payload semantics are outside the engine's scope.
func (e *Engine) Free(p *packet.Packet) {
	e.stats.Frees++
	bytes := uint64(p.Length())
	e.stats.FreeBytes += bytes
	e.stats.FreeBits += bytes * 8
}

// breathe performs one inhale-then-exhale pass.
func (e *Engine) breathe() {
	e.clock.latch(time.Now())
	for _, name := range e.inhale {
		a, ok := e.apps.get(name)
		if !ok {
			continue
		}
		a.app.Pull(a.slots())
	}
	for _, name := range e.exhale {
		a, ok := e.apps.get(name)
		if !ok {
			continue
		}
		a.app.Push(a.slots())
	}
	e.stats.Breaths++
}

// paceBreathing adapts the inter-breath sleep: halved on any breath that
// freed at least one packet, incremented by one microsecond (capped at
// MaxSleep) on an idle breath.
func (e *Engine) paceBreathing() {
	if e.lastFrees == e.stats.Frees {
		if e.sleep < MaxSleep {
			e.sleep++
		}
		time.Sleep(time.Duration(e.sleep) * time.Microsecond)
	} else {
		e.sleep /= 2
	}
	e.lastFrees = e.stats.Frees
}

// Run drives the breathe loop per Options and, on exit, clears the latched
// clock so subsequent Now() calls return true monotonic time. The first
// breath runs unconditionally; Options.Done is consulted before every
// breath after that.
func (e *Engine) Run(opts Options) error {
	done := opts.Done
	if opts.Duration != nil {
		if done != nil {
			return util.NewOptionsError("both Done and Duration were set")
		}
		done = e.clock.timeout(*opts.Duration)
	}

	// The first load report covers the time since the engine's first Run.
	if e.lastLoadReport == nil {
		start := e.clock.now()
		e.lastLoadReport = &start
	}

	e.breathe()
	for done == nil || !done() {
		e.paceBreathing()
		e.breathe()
	}

	if !opts.NoReport {
		if opts.ReportLoad {
			e.ReportLoad()
		}
		if opts.ReportLinks {
			e.ReportLinks()
		}
		if opts.ReportApps {
			e.ReportApps()
		}
	}

	e.clock.unlatch()
	return nil
}
