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

// Package pubsub tracks dedicated pub/sub connections, kept strictly
// separate from the command lanes: once a connection enters subscribe
// mode its response stream is no longer positionally matched to a command
// FIFO, and the server rejects nearly all other commands on it.
package pubsub

import (
	"sync"
	"sync/atomic"

	"github.com/nabbar/redislane/driver"
)

// Handle is the value a caller receives from Create. Its Release removes
// it from the tracker and closes the underlying connection; a second
// Release on the same handle is a silent no-op.
type Handle struct {
	id   uint64
	conn driver.PubSubConn
	t    *Tracker
}

// Release is idempotent: releasing a handle already removed from the
// tracker (including a second call on the same handle) returns false and
// does nothing further, matching the core's PubSubReleaseNonmember
// taxonomy entry (a silent no-op, not an error).
func (h *Handle) Release() bool {
	return h.t.release(h)
}

// Tracker holds the set of open pub/sub handles. Reads (Count) are
// lock-free; writes (Create, Release, CloseAll) take an internal lock.
// Iteration during CloseAll uses a point-in-time snapshot so a concurrent
// Release can never cause a double-close or a miss.
type Tracker struct {
	mu            sync.Mutex
	set           map[uint64]*Handle
	count         atomic.Int64
	nextID        atomic.Uint64
	warnThreshold int
	onWarn        func(size int)
}

// New returns an empty Tracker. warnThreshold is the soft warning size
// (pubsub_warn_threshold); pass <= 0 to use the default of 100. onWarn is
// called at most once per threshold crossing and may be nil.
func New(warnThreshold int, onWarn func(size int)) *Tracker {
	if warnThreshold <= 0 {
		warnThreshold = 100
	}

	return &Tracker{
		set:           make(map[uint64]*Handle),
		warnThreshold: warnThreshold,
		onWarn:        onWarn,
	}
}

// Create opens conn as a new tracked pub/sub handle.
func (t *Tracker) Create(conn driver.PubSubConn) *Handle {
	t.mu.Lock()
	h := &Handle{id: t.nextID.Add(1), conn: conn, t: t}
	t.set[h.id] = h
	n := len(t.set)
	t.count.Store(int64(n))
	t.mu.Unlock()

	if t.onWarn != nil && t.warnThreshold > 0 && n == t.warnThreshold+1 {
		t.onWarn(n)
	}

	return h
}

func (t *Tracker) release(h *Handle) bool {
	t.mu.Lock()
	_, present := t.set[h.id]
	if present {
		delete(t.set, h.id)
		t.count.Store(int64(len(t.set)))
	}
	t.mu.Unlock()

	if !present {
		return false
	}

	_ = h.conn.Close()
	return true
}

// Count returns the current tracked size. Lock-free.
func (t *Tracker) Count() int {
	return int(t.count.Load())
}

// CloseAll closes every tracked handle from a point-in-time snapshot and
// clears the set. Safe to call concurrently with Release: a handle
// released mid-snapshot is closed at most once.
func (t *Tracker) CloseAll() {
	t.mu.Lock()
	snapshot := make([]*Handle, 0, len(t.set))
	for _, h := range t.set {
		snapshot = append(snapshot, h)
	}
	t.set = make(map[uint64]*Handle)
	t.count.Store(0)
	t.mu.Unlock()

	for _, h := range snapshot {
		_ = h.conn.Close()
	}
}
