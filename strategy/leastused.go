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
	"sync/atomic"

	"github.com/nabbar/redislane/identity"
)

type leastUsed struct {
	lanes atomic.Pointer[[]LaneView]
}

// NewLeastUsed returns a strategy that scans every lane's in-flight
// counter with relaxed atomic reads and picks the lowest, breaking ties
// on the smallest index. It is constructed with no lane view (two-phase
// init, see Initialize) so that no cyclic dependency exists between the
// strategy and the lane array at construction time.
func NewLeastUsed() Strategy {
	return &leastUsed{}
}

func (l *leastUsed) Initialize(lanes []LaneView) {
	cp := make([]LaneView, len(lanes))
	copy(cp, lanes)
	l.lanes.Store(&cp)
}

func (l *leastUsed) SelectLane(n int, _ identity.Caller) int {
	p := l.lanes.Load()
	if p == nil || len(*p) == 0 {
		return 0
	}

	views := *p
	best := 0
	bestVal := views[0].InFlight()

	for i := 1; i < n && i < len(views); i++ {
		v := views[i].InFlight()
		if v < bestVal {
			best = i
			bestVal = v
		}
	}

	return best
}

func (l *leastUsed) Name() string {
	return "least-used"
}

// OnConnectionAcquired and OnConnectionReleased exist to satisfy the
// Strategy contract's life-cycle hooks. A strategy-maintained mirror
// counter would only duplicate what the lane already tracks, so these are
// no-ops here: the lane itself is the single source of truth SelectLane
// reads from.
func (l *leastUsed) OnConnectionAcquired(int) {}
func (l *leastUsed) OnConnectionReleased(int) {}
