// Package basicapps provides the minimal reference apps the engine's own
// scenario tests and demo command exercise: Source, Sink, and Tee. They
// are external-collaborator apps, not part of the engine core — spec.md
// names "defining concrete apps" as a Non-goal of the core itself.
package basicapps

import (
	"strconv"

	"github.com/airlock-systems/breathe/pkg/engine"
	"github.com/airlock-systems/breathe/pkg/packet"
)

// SourceConfig configures a Source app that pulls fixed-size packets onto
// its "output" slot.
type SourceConfig struct {
	Size int
}

func (c SourceConfig) New() engine.App  { return &sourceApp{size: c.Size} }
func (c SourceConfig) Identity() string { return identity("source", c.Size) }

type sourceApp struct {
	engine.BaseApp
	size int
}

func (a *sourceApp) HasPull() bool { return true }

func (a *sourceApp) Pull(slots engine.Slots) {
	link, ok := slots.Output["output"]
	if !ok {
		return
	}
	data := make([]byte, a.size)
	for i := 0; i < engine.PullNpackets && !link.Full(); i++ {
		link.Transmit(packet.New(data))
	}
}

// SinkConfig configures a Sink app that discards every packet arriving on
// its "input" slot, freeing it through the process-wide engine so its size
// is accounted in the load report.
type SinkConfig struct{}

func (c SinkConfig) New() engine.App  { return &sinkApp{} }
func (c SinkConfig) Identity() string { return "sink" }

type sinkApp struct {
	engine.BaseApp
}

func (a *sinkApp) HasPush() bool { return true }

func (a *sinkApp) Push(slots engine.Slots) {
	link, ok := slots.Input["input"]
	if !ok {
		return
	}
	for {
		p, ok := link.Receive()
		if !ok {
			return
		}
		engine.Free(p)
	}
}

// TeeConfig configures a Tee app that forwards every packet arriving on any
// input slot to every output slot; the same packet is enqueued on each
// output, not copied.
type TeeConfig struct{}

func (c TeeConfig) New() engine.App  { return &teeApp{} }
func (c TeeConfig) Identity() string { return "tee" }

type teeApp struct {
	engine.BaseApp
}

func (a *teeApp) HasPush() bool { return true }

func (a *teeApp) Push(slots engine.Slots) {
	for _, in := range slots.Input {
		for {
			p, ok := in.Receive()
			if !ok {
				break
			}
			for _, out := range slots.Output {
				out.Transmit(p)
			}
		}
	}
}

func identity(kind string, size int) string {
	if size == 0 {
		return kind
	}
	return kind + ":size=" + strconv.Itoa(size)
}
