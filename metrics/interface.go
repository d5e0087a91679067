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

// Package metrics defines the uniform counter/gauge surface the core emits
// through, with a zero-cost no-op default and a Prometheus-backed
// implementation. Metric names and tag keys are part of the external
// interface and stay byte-stable across implementations.
package metrics

const (
	NameLaneSelections      = "lane_selections_total"
	NameLaneInFlight        = "lane_in_flight"
	NameHolBlockingEstimate = "hol_blocking_estimated"
	NameLanesTotal          = "lanes_total"
	NameStrategyCasRetries  = "strategy_cas_retries_total"
)

// Sink is the trait the core emits metrics through. Every method must be
// safe to call from any goroutine and must never block on a hot path; a
// sink that wraps a slow backend is responsible for its own buffering.
type Sink interface {
	// IncSelections increments lane.selections, tagged by connectionName,
	// laneIndex and strategyName.
	IncSelections(connectionName string, laneIndex int, strategyName string)

	// SetInFlight sets lane.in_flight to value, tagged by connectionName
	// and laneIndex.
	SetInFlight(connectionName string, laneIndex int, value int64)

	// SetHolBlockingEstimate sets hol.blocking.estimated (100/N) for
	// connectionName. Registered once at construction.
	SetHolBlockingEstimate(connectionName string, value float64)

	// SetLanesTotal sets lanes.total to n for connectionName.
	SetLanesTotal(connectionName string, n int)

	// IncCasRetries increments strategy.cas.retries, tagged by
	// connectionName and strategyName. The count comes unconditionally
	// from the lane's release-side CAS loop and is forwarded for
	// whichever strategy is active, whether or not that strategy's own
	// SelectLane uses CAS: round-robin's selection is a plain fetch-and-
	// add, but a round-robin-configured manager's release path still runs
	// the loop and can report retries.
	IncCasRetries(connectionName string, strategyName string)

	// RemoveConnection drops every series tagged with connectionName.
	// Called once from the manager's destroy path.
	RemoveConnection(connectionName string)
}
