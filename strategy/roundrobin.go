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

package strategy

import (
	"math"
	"sync/atomic"

	"github.com/nabbar/redislane/identity"
)

type roundRobin struct {
	counter atomic.Uint64
}

// NewRoundRobin returns a strategy that load-and-increments a monotonic
// atomic counter and reduces it modulo N. atomic.Uint64 has no sign bit,
// so unsigned modulo needs no masking. When the counter wraps from
// math.MaxUint64 back to 0, the caller that drew math.MaxUint64 advances
// it so the next value continues the cyclic sequence with no gap or
// repeat, even when N does not divide 2^64. A caller racing that wrap may
// still draw one out-of-sequence index.
func NewRoundRobin() Strategy {
	return &roundRobin{}
}

func (r *roundRobin) SelectLane(n int, _ identity.Caller) int {
	v := r.counter.Add(1) - 1
	if v == math.MaxUint64 {
		// The counter has just wrapped to 0: move it to the residue that
		// follows v so the sequence mod n stays contiguous.
		r.counter.Add((v%uint64(n) + 1) % uint64(n))
	}
	return int(v % uint64(n))
}

func (r *roundRobin) Name() string {
	return "round-robin"
}

func (r *roundRobin) OnConnectionAcquired(int) {}
func (r *roundRobin) OnConnectionReleased(int) {}
func (r *roundRobin) Initialize([]LaneView)    {}

// ForceCounter sets the internal counter to v. Exported only for
// overflow-boundary tests that need to force the counter near wraparound;
// production code never calls this.
func (r *roundRobin) ForceCounter(v uint64) {
	r.counter.Store(v)
}

// RoundRobinForTest exposes ForceCounter to test code outside this
// package without widening the Strategy interface itself.
type RoundRobinForTest interface {
	Strategy
	ForceCounter(v uint64)
}

var _ RoundRobinForTest = (*roundRobin)(nil)
