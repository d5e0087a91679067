/*
 * MIT License
 *
 * Copyright (c) 2026 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package redislane is the public facade over the lane-dispatch core: a
// fixed array of long-lived multiplexed connections to a single Redis
// server, selected by a pluggable strategy, to keep one slow blocking
// command from head-of-line-blocking every other command sharing a
// connection. It re-exports lanemgr.Manager/Borrow, the strategy
// constructors, and the default metrics sinks so a caller never has to
// import the internal packages directly.
package redislane

import (
	"context"

	"github.com/nabbar/redislane/config"
	"github.com/nabbar/redislane/driver"
	"github.com/nabbar/redislane/identity"
	"github.com/nabbar/redislane/lanemgr"
	"github.com/nabbar/redislane/logging"
	"github.com/nabbar/redislane/metrics"
	"github.com/nabbar/redislane/strategy"
	"github.com/prometheus/client_golang/prometheus"
)

// Manager is the lane manager: construct one per logical Redis
// connection_name, share it across every caller that talks to that
// server.
type Manager = lanemgr.Manager

// Borrow is the scoped, single-use right to issue commands on one lane.
type Borrow = lanemgr.Borrow

// Caller is the opaque identity strategies and the pin table key on
// (goroutine/session/tenant, chosen by the integration layer).
type Caller = identity.Caller

// Conn is the driver command surface a Borrow exposes.
type Conn = driver.Conn

// ConnFactory opens the underlying driver connections a Manager owns.
type ConnFactory = driver.ConnFactory

// Strategy is the pluggable lane-selection contract.
type Strategy = strategy.Strategy

// NewRoundRobin builds the round-robin lane-selection strategy: a
// fetch-and-add counter modulo N, no retries possible.
func NewRoundRobin() Strategy { return strategy.NewRoundRobin() }

// NewThreadAffinity builds the thread-affinity strategy: caller identity
// hashed directly to a lane index, with no per-caller state.
func NewThreadAffinity() Strategy { return strategy.NewThreadAffinity() }

// NewLeastUsed builds the least-used strategy: argmin over live in-flight
// counts, ties broken by lowest lane index.
func NewLeastUsed() Strategy { return strategy.NewLeastUsed() }

// StrategyFor resolves one of the three documented strategy names from a
// loaded config.Config into a constructed Strategy.
func StrategyFor(s config.Strategy) Strategy {
	switch s {
	case config.StrategyThreadAffinity:
		return strategy.NewThreadAffinity()
	case config.StrategyLeastUsed:
		return strategy.NewLeastUsed()
	default:
		return strategy.NewRoundRobin()
	}
}

// NoOpMetrics returns the zero-cost default metrics sink.
func NoOpMetrics() metrics.Sink { return metrics.NoOp() }

// PrometheusMetrics returns a Prometheus-backed metrics sink registered
// against reg, bounded at cfg.MetricsCacheMax distinct series.
func PrometheusMetrics(reg prometheus.Registerer, cfg config.Config) metrics.Sink {
	return metrics.Prometheus(reg, cfg.MetricsCacheMax)
}

// New constructs a Manager from a loaded, validated config.Config, a
// connection factory, and a metrics sink. log may be nil, in which case a
// default logging.Logger is used.
func New(ctx context.Context, cfg config.Config, factory ConnFactory, sink metrics.Sink, log logging.Logger) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return lanemgr.New(ctx, factory, cfg.NumLanes, StrategyFor(cfg.Strategy), sink, cfg.ConnectionName, log)
}
