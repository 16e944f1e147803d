// Package reportsink provides engine.ReportSink implementations external to
// the engine core. RedisSink mirrors the console load/link/app reports into
// Redis hashes, the way a state-database client mirrors live state into
// Redis for other processes to observe.
package reportsink

import (
	"context"
	"fmt"

	"github.com/airlock-systems/breathe/pkg/engine"
	"github.com/go-redis/redis/v8"
)

// RedisSink publishes reports as Redis hashes under a configurable key
// prefix: "<prefix>:load", "<prefix>:link:<spec>", "<prefix>:app:<name>".
type RedisSink struct {
	client *redis.Client
	ctx    context.Context
	prefix string
}

// NewRedisSink returns a sink for the Redis server at addr (e.g.
// "127.0.0.1:6379") that publishes under prefix; it does not contact the
// server, Connect does. A zero-value prefix defaults to "breathe".
func NewRedisSink(addr, prefix string) *RedisSink {
	if prefix == "" {
		prefix = "breathe"
	}
	return &RedisSink{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ctx:    context.Background(),
		prefix: prefix,
	}
}

// Connect tests the connection.
func (s *RedisSink) Connect() error {
	return s.client.Ping(s.ctx).Err()
}

// Close closes the underlying Redis connection.
func (s *RedisSink) Close() error {
	return s.client.Close()
}

var _ engine.ReportSink = (*RedisSink)(nil)

// Load writes the latest load report to "<prefix>:load".
func (s *RedisSink) Load(r engine.LoadReport) {
	key := s.prefix + ":load"
	s.client.HSet(s.ctx, key, map[string]interface{}{
		"interval_seconds": r.IntervalSeconds,
		"frees_per_sec":    r.FreesPerSec,
		"free_gbps":        r.FreeGbps,
		"frees_per_breath": r.FreesPerBreath,
		"bytes_per_packet": r.BytesPerPacket,
		"sleep":            r.Sleep,
	})
}

// Link writes one link's report to "<prefix>:link:<spec>".
func (s *RedisSink) Link(r engine.LinkReport) {
	key := fmt.Sprintf("%s:link:%s", s.prefix, r.Spec)
	s.client.HSet(s.ctx, key, map[string]interface{}{
		"tx_packets": r.TxPackets,
		"loss_rate":  r.LossRatePercent,
	})
}

// App writes one app's report to "<prefix>:app:<name>".
func (s *RedisSink) App(r engine.AppReport) {
	key := fmt.Sprintf("%s:app:%s", s.prefix, r.Name)
	s.client.HSet(s.ctx, key, map[string]interface{}{
		"inputs":  r.Inputs,
		"outputs": r.Outputs,
	})
}
