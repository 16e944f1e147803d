package engine

import "github.com/airlock-systems/breathe/pkg/linkbuf"

// PullNpackets is the recommended number of packets an app may enqueue per
// pull() invocation: a convention, not enforced by the engine.
const PullNpackets = linkbuf.MaxPackets / 10

// Slots is the view of an app's bound input/output links passed to its
// pull and push hooks. It is populated by the Reconciler and is read-only
// from the app's perspective during a breath.
type Slots struct {
	Input  map[string]*linkbuf.Link
	Output map[string]*linkbuf.Link
}

// App is the capability set the engine requires of every hosted app. All
// hooks are optional; the has_* predicate gates whether the engine invokes
// the corresponding method.
type App interface {
	HasPull() bool
	Pull(slots Slots)

	HasPush() bool
	Push(slots Slots)

	HasStop() bool
	Stop()

	HasReport() bool
	Report()
}

// BaseApp gives concrete apps false/no-op defaults for every hook, so an
// app only overrides the ones it implements — the same "optional hook"
// shape spec.md's App capability set describes.
type BaseApp struct{}

func (BaseApp) HasPull() bool    { return false }
func (BaseApp) Pull(Slots)       {}
func (BaseApp) HasPush() bool    { return false }
func (BaseApp) Push(Slots)       {}
func (BaseApp) HasStop() bool    { return false }
func (BaseApp) Stop()            {}
func (BaseApp) HasReport() bool  { return false }
func (BaseApp) Report()          {}

// AppConfig instantiates an App and carries a stable identity used for
// configuration-equality checks across reconfigure calls.
type AppConfig interface {
	New() App
	Identity() string
}

// appState is the engine's bookkeeping for one live app instance.
type appState struct {
	app    App
	conf   AppConfig
	input  map[string]*linkbuf.Link
	output map[string]*linkbuf.Link
}

func newAppState(conf AppConfig) *appState {
	return &appState{
		app:    conf.New(),
		conf:   conf,
		input:  make(map[string]*linkbuf.Link),
		output: make(map[string]*linkbuf.Link),
	}
}

func (a *appState) slots() Slots {
	return Slots{Input: a.input, Output: a.output}
}

// appRegistry holds every live app instance, indexed by name.
type appRegistry struct {
	apps map[string]*appState
}

func newAppRegistry() *appRegistry {
	return &appRegistry{apps: make(map[string]*appState)}
}

// start instantiates conf and inserts it under name. Fails if name is
// already present.
func (r *appRegistry) start(name string, conf AppConfig) {
	if _, exists := r.apps[name]; exists {
		panic("engine: app " + name + " already started")
	}
	r.apps[name] = newAppState(conf)
}

// stop invokes the app's stop hook (if any) and removes it.
func (r *appRegistry) stop(name string) {
	a, ok := r.apps[name]
	if !ok {
		return
	}
	if a.app.HasStop() {
		a.app.Stop()
	}
	delete(r.apps, name)
}

func (r *appRegistry) get(name string) (*appState, bool) {
	a, ok := r.apps[name]
	return a, ok
}

func (r *appRegistry) bindOutput(name, slot string, link *linkbuf.Link) {
	r.apps[name].output[slot] = link
}

func (r *appRegistry) bindInput(name, slot string, link *linkbuf.Link) {
	r.apps[name].input[slot] = link
}

func (r *appRegistry) unbindOutput(name, slot string) {
	delete(r.apps[name].output, slot)
}

func (r *appRegistry) unbindInput(name, slot string) {
	delete(r.apps[name].input, slot)
}

func (r *appRegistry) names() []string {
	names := make([]string, 0, len(r.apps))
	for name := range r.apps {
		names = append(names, name)
	}
	return names
}
