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

// Package strategy implements the pluggable lane-selection policies:
// round-robin, thread-affinity, and least-used. There is no plugin
// discovery: strategies are chosen at configuration time and expressed
// as a closed interface with three known implementations.
package strategy

import "github.com/nabbar/redislane/identity"

// LaneView is the non-owning view a strategy reads lane state through.
// Strategies never own lanes; least-used is the only implementation that
// uses this.
type LaneView interface {
	Index() int
	InFlight() int64
}

// Strategy picks a lane index given N. SelectLane must be infallible,
// thread-safe, and wait-free: it runs on every acquire. Name is a stable
// metrics dimension. OnConnectionAcquired/Released are life-cycle hooks;
// all three implementations leave them as no-ops (least-used reads the
// lane's own in-flight counter instead). Initialize is an
// optional two-phase init point for strategies that need a view of the
// lane array: constructed with no lanes, then bound via Initialize once
// the manager has opened them, so no strategy ever owns lanes and no
// cyclic construction dependency exists between strategy and lane array.
type Strategy interface {
	SelectLane(n int, caller identity.Caller) int
	Name() string
	OnConnectionAcquired(laneIndex int)
	OnConnectionReleased(laneIndex int)
	Initialize(lanes []LaneView)
}
