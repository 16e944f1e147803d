package engine_test

import (
	"github.com/airlock-systems/breathe/pkg/engine"
)

// fakeApp is a minimal App used across engine tests: its pull/push
// capability is fixed at construction time by fakeConfig.
type fakeApp struct {
	engine.BaseApp
	pull, push bool
}

func (a *fakeApp) HasPull() bool { return a.pull }
func (a *fakeApp) HasPush() bool { return a.push }

// fakeConfig is an AppConfig whose identity is an explicit string, so tests
// can control equality independent of the pull/push shape.
type fakeConfig struct {
	id         string
	pull, push bool
}

func (c fakeConfig) New() engine.App  { return &fakeApp{pull: c.pull, push: c.push} }
func (c fakeConfig) Identity() string { return c.id }
