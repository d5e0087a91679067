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

// Package lane owns one long-lived multiplexed connection: a stable
// index, the owned driver.Conn, an atomic in-flight count, and a
// reference to the shared metrics sink. None of its operations can fail;
// they are infallible and wait-free, as required of anything on the
// acquire/release hot path.
package lane

import (
	"sync/atomic"

	"github.com/nabbar/redislane/driver"
	"github.com/nabbar/redislane/metrics"
)

// State models the per-lane life-cycle: UNINITIALIZED -> CONNECTING ->
// CONNECTED <-> RECONNECTING -> CLOSED. CLOSED is terminal; RECONNECTING
// only reaches CLOSED through destroy().
type State uint8

const (
	StateUninitialized State = iota
	StateConnecting
	StateConnected
	StateReconnecting
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Lane is exclusive owner of its driver.Conn; only the manager's destroy
// path may close it. Lane identity (the pointer) is stable for its whole
// lifetime: the driver's internal reconnect path may replace the
// underlying socket, never the Lane object itself.
type Lane struct {
	index          int
	connectionName string
	conn           driver.Conn
	inFlight       atomic.Int64
	state          atomic.Uint32
	sink           metrics.Sink
}

// New wraps conn as lane index within connectionName, reporting through
// sink. The lane starts CONNECTED: by the time a Lane exists, its
// connection has already been opened successfully by the caller (the
// lane manager's construction path).
func New(index int, connectionName string, conn driver.Conn, sink metrics.Sink) *Lane {
	l := &Lane{
		index:          index,
		connectionName: connectionName,
		conn:           conn,
		sink:           sink,
	}
	l.state.Store(uint32(StateConnected))
	return l
}

// Index returns this lane's stable, unique-within-manager position.
func (l *Lane) Index() int {
	return l.index
}

// Conn exposes the driver's command API unchanged. The returned value
// must never be closed by the caller; only RecordRelease decrements the
// in-flight counter, and only the manager's destroy path ever calls
// Close.
func (l *Lane) Conn() driver.Conn {
	return l.conn
}

// State returns the current life-cycle state.
func (l *Lane) State() State {
	return State(l.state.Load())
}

// SetState transitions the lane's life-cycle state. Close is its only
// caller in this module; nothing here moves a lane into RECONNECTING or
// back to CONNECTED when the driver reconnects.
func (l *Lane) SetState(s State) {
	l.state.Store(uint32(s))
}

// InFlight returns the current outstanding-borrow count. Never negative.
func (l *Lane) InFlight() int64 {
	return l.inFlight.Load()
}

// RecordAcquire atomically increments in-flight and emits the gauge.
// Infallible and wait-free.
func (l *Lane) RecordAcquire() {
	v := l.inFlight.Add(1)
	l.sink.SetInFlight(l.connectionName, l.index, v)
}

// RecordRelease atomically decrements in-flight, clamped at zero: the
// release path may be invoked more than once per acquire in pathological
// client code and must never produce a negative value. It returns the
// number of failed CAS attempts it had to retry past, so a caller that
// wants to surface strategy.cas.retries can do so without this package
// knowing which strategy is active.
func (l *Lane) RecordRelease() (retries int) {
	for {
		cur := l.inFlight.Load()
		if cur <= 0 {
			l.sink.SetInFlight(l.connectionName, l.index, 0)
			return retries
		}
		if l.inFlight.CompareAndSwap(cur, cur-1) {
			l.sink.SetInFlight(l.connectionName, l.index, cur-1)
			return retries
		}
		retries++
	}
}

// IsOpen reads the connection handle's open flag.
func (l *Lane) IsOpen() bool {
	return l.conn.IsOpen()
}

// Close is idempotent and may be called only from the manager's destroy
// path: it sends the protocol's graceful disconnect and marks the lane
// CLOSED regardless of the result (errors during shutdown are logged and
// swallowed by the caller).
func (l *Lane) Close() error {
	l.SetState(StateClosed)
	return l.conn.Close()
}
