package engine

import (
	"fmt"
	"time"

	"github.com/airlock-systems/breathe/pkg/cli"
	"github.com/airlock-systems/breathe/pkg/util"
)

// LoadReport is one load-report interval's metrics (spec.md §4.7).
type LoadReport struct {
	IntervalSeconds float64
	FreesPerSec     uint64
	FreeGbps        float64
	FreesPerBreath  uint64
	BytesPerPacket  uint64
	Sleep           uint64
}

// LinkReport is one link's report line.
type LinkReport struct {
	Spec            string
	TxPackets       uint64
	LossRatePercent uint64
}

// AppReport is one app's report line.
type AppReport struct {
	Name    string
	Inputs  int
	Outputs int
}

// ReportSink receives a copy of every report alongside the console output.
// pkg/reportsink implements one backed by Redis.
type ReportSink interface {
	Load(LoadReport)
	Link(LinkReport)
	App(AppReport)
}

// lossRate computes the percentage of packets dropped out of drop+sent.
// loss_rate(0, n) == 0 for any n; loss_rate(d, 0) == 100 for any d>0.
func lossRate(drop, sent uint64) uint64 {
	if drop == 0 {
		return 0
	}
	return drop * 100 / (drop + sent)
}

// ReportLoad prints the load metrics for the interval since the previous
// load report (or, for the first report, since the engine's first Run) and
// records the current counters so the next interval's deltas are computed
// correctly. On an engine that has neither run nor reported, it only records
// the counters.
func (e *Engine) ReportLoad() {
	now := e.Now()
	if e.lastLoadReport != nil {
		interval := now.Sub(*e.lastLoadReport).Seconds()
		newFrees := e.stats.Frees - e.reportedFrees
		newBits := e.stats.FreeBits - e.reportedFreeBits
		newBytes := e.stats.FreeBytes - e.reportedFreeByt
		newBreaths := e.stats.Breaths - e.reportedBreaths

		var fps uint64
		if interval > 0 {
			fps = uint64(float64(newFrees) / interval)
		}
		var fbps float64
		if interval > 0 {
			fbps = float64(newBits) / interval
		}
		var fpb uint64
		if newBreaths > 0 {
			fpb = newFrees / newBreaths
		}
		var bpp uint64
		if newFrees > 0 {
			bpp = newBytes / newFrees
		}

		report := LoadReport{
			IntervalSeconds: interval,
			FreesPerSec:     fps,
			FreeGbps:        fbps / 1e9,
			FreesPerBreath:  fpb,
			BytesPerPacket:  bpp,
			Sleep:           e.sleep,
		}
		fmt.Printf("load: time: %.2f fps: %d fpGbps: %.3f fpb: %d bpp: %d sleep: %d\n",
			report.IntervalSeconds, report.FreesPerSec, report.FreeGbps,
			report.FreesPerBreath, report.BytesPerPacket, report.Sleep)
		for _, sink := range e.sinks {
			sink.Load(report)
		}
	}

	e.lastLoadReport = &now
	e.reportedFrees = e.stats.Frees
	e.reportedFreeBits = e.stats.FreeBits
	e.reportedFreeByt = e.stats.FreeBytes
	e.reportedBreaths = e.stats.Breaths
}

// colorLossRate renders a loss-rate percentage, colored by severity: green
// under 1%, yellow under 10%, red at or above it.
func colorLossRate(percent uint64) string {
	text := fmt.Sprintf("%d%%", percent)
	switch {
	case percent >= 10:
		return cli.Red(text)
	case percent >= 1:
		return cli.Yellow(text)
	default:
		return cli.Green(text)
	}
}

// ReportLinks prints every link in name-sorted order with its packet count
// and loss rate.
func (e *Engine) ReportLinks() {
	util.WithFields(nil).Info("link report")
	table := cli.NewTable("LINK", "SENT", "LOSS RATE")
	for _, entry := range e.links.iter() {
		report := LinkReport{
			Spec:            entry.Spec,
			TxPackets:       entry.Link.Txpackets,
			LossRatePercent: lossRate(entry.Link.Txdrop, entry.Link.Txpackets),
		}
		table.Row(report.Spec, fmt.Sprintf("%d", report.TxPackets), colorLossRate(report.LossRatePercent))
		for _, sink := range e.sinks {
			sink.Link(report)
		}
	}
	table.Flush()
}

// ReportApps prints each app's input/output link counts, and invokes the
// app's own report hook if it has one.
func (e *Engine) ReportApps() {
	table := cli.NewTable("APP", "INPUTS", "OUTPUTS")
	for _, name := range e.apps.names() {
		a, ok := e.apps.get(name)
		if !ok {
			continue
		}
		report := AppReport{Name: name, Inputs: len(a.input), Outputs: len(a.output)}
		table.Row(report.Name, fmt.Sprintf("%d", report.Inputs), fmt.Sprintf("%d", report.Outputs))
		for _, sink := range e.sinks {
			sink.App(report)
		}
	}
	table.Flush()
	for _, name := range e.apps.names() {
		a, ok := e.apps.get(name)
		if ok && a.app.HasReport() {
			a.app.Report()
		}
	}
}
