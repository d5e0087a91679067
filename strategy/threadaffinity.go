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

import "github.com/nabbar/redislane/identity"

type threadAffinity struct{}

// NewThreadAffinity returns a strategy that derives a lane purely from
// the caller's stable identity, scrambled through a non-cryptographic
// avalanche hash. It holds no per-caller state whatsoever: per-caller
// storage would leak when a caller token does not survive
// teardown/recreation in hosted environments.
func NewThreadAffinity() Strategy {
	return &threadAffinity{}
}

func (t *threadAffinity) SelectLane(n int, caller identity.Caller) int {
	return identity.LaneFor(caller, n)
}

func (t *threadAffinity) Name() string {
	return "thread-affinity"
}

func (t *threadAffinity) OnConnectionAcquired(int) {}
func (t *threadAffinity) OnConnectionReleased(int) {}
func (t *threadAffinity) Initialize([]LaneView)    {}
