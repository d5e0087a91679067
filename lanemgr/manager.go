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

// Package lanemgr holds the lane array, runs the configured selection
// strategy, enforces the manager life cycle, routes pub/sub traffic away
// from command lanes, and exposes the borrow API callers acquire and
// release lanes through.
package lanemgr

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/nabbar/redislane/driver"
	liberrpool "github.com/nabbar/redislane/errors/pool"
	"github.com/nabbar/redislane/identity"
	"github.com/nabbar/redislane/lane"
	"github.com/nabbar/redislane/logging"
	"github.com/nabbar/redislane/metrics"
	"github.com/nabbar/redislane/pubsub"
	"github.com/nabbar/redislane/strategy"
)

// pinTable is the transaction-affinity map: caller identity to pinned lane
// index, held only between WATCH/MULTI and the matching EXEC/DISCARD.
type pinTable struct {
	m sync.Map
}

func (p *pinTable) load(caller identity.Caller) (int, bool) {
	v, ok := p.m.Load(caller)
	if !ok {
		return 0, false
	}
	return v.(int), true
}

func (p *pinTable) store(caller identity.Caller, laneIndex int) {
	p.m.Store(caller, laneIndex)
}

func (p *pinTable) delete(caller identity.Caller) {
	p.m.Delete(caller)
}

// Stats is a construction-time-plus-runtime snapshot, exposed for
// introspection beyond what the metrics sink carries (e.g. a health
// endpoint that cannot scrape Prometheus). Not part of the driver or
// metrics contracts; purely additive.
type Stats struct {
	NumLanes       int
	OpenLanes      int
	ConnectionName string
	StrategyName   string
	PubSubCount    int
	Destroyed      bool
}

// Manager is the lane manager of the data model: an immutable array of N
// lanes, a strategy, a pub/sub tracker, a metrics sink, a connection-name
// label, a volatile destroyed flag, and a transaction-pin table keyed by
// caller identity.
type Manager struct {
	lanes          []*lane.Lane
	strategy       strategy.Strategy
	tracker        *pubsub.Tracker
	sink           metrics.Sink
	connectionName string
	destroyed      atomic.Bool
	pins           pinTable
	log            logging.Logger
}

// New constructs a Manager with N lanes opened through factory, routed
// through strat, reporting through sink. Preconditions: 1 <= n <= 64,
// strat and sink non-nil. On any lane-opening failure, every lane already
// opened is closed and construction fails with ErrInitializationFailed.
// The underlying driver's reconnect policy (reject-while-disconnected) is
// configured by the caller before factory is handed to New; this package
// never touches that policy itself.
func New(ctx context.Context, factory driver.ConnFactory, n int, strat strategy.Strategy, sink metrics.Sink, connectionName string, log logging.Logger) (*Manager, error) {
	if n < 1 || n > 64 {
		return nil, ErrConfigurationInvalid.Error()
	}
	if strat == nil || sink == nil {
		return nil, ErrConfigurationInvalid.Error()
	}
	if connectionName == "" {
		connectionName = "default"
	}
	if log == nil {
		log = logging.New(ctx, logging.InfoLevel)
	}

	m := &Manager{
		strategy:       strat,
		sink:           sink,
		connectionName: connectionName,
		log:            log,
	}

	lanes, err := openLanes(ctx, factory, n, connectionName, sink)
	if err != nil {
		return nil, err
	}
	m.lanes = lanes

	m.tracker = pubsub.New(0, func(size int) {
		m.log.Warning("pub/sub tracker size exceeded configured threshold", fieldsFor(m, "pubsub_size", size))
	})

	views := make([]strategy.LaneView, len(m.lanes))
	for i, l := range m.lanes {
		views[i] = l
	}
	m.strategy.Initialize(views)

	m.sink.SetLanesTotal(m.connectionName, n)
	m.sink.SetHolBlockingEstimate(m.connectionName, 100/float64(n))

	m.log.Info("lane manager constructed", fieldsFor(m, "num_lanes", n))

	return m, nil
}

func openLanes(ctx context.Context, factory driver.ConnFactory, n int, connectionName string, sink metrics.Sink) ([]*lane.Lane, error) {
	lanes := make([]*lane.Lane, 0, n)

	for i := 0; i < n; i++ {
		conn, err := factory.Open(ctx)
		if err != nil {
			for _, l := range lanes {
				_ = l.Close()
			}
			return nil, ErrInitializationFailed.Error(err)
		}
		lanes = append(lanes, lane.New(i, connectionName, conn, sink))
	}

	return lanes, nil
}

func fieldsFor(m *Manager, kv ...interface{}) logging.Fields {
	f := logging.NewFields().Add("connection_name", m.connectionName)
	for i := 0; i+1 < len(kv); i += 2 {
		if key, ok := kv[i].(string); ok {
			f = f.Add(key, kv[i+1])
		}
	}
	return f
}

// Borrow is the scoped right to issue commands on a specific lane. Its
// Release decrements the in-flight count and notifies the strategy, but
// never closes the underlying connection. Release is idempotent: a
// second Release on the same Borrow is an observable no-op.
type Borrow struct {
	mgr      *Manager
	l        *lane.Lane
	released atomic.Bool
}

// Conn exposes the underlying driver's command API unchanged.
func (b *Borrow) Conn() driver.Conn {
	return b.l.Conn()
}

// LaneIndex returns the index of the lane this borrow is bound to.
func (b *Borrow) LaneIndex() int {
	return b.l.Index()
}

// Release decrements the lane's in-flight counter (clamped at zero),
// notifies the strategy's release hook, and emits the gauge. Calling it
// more than once on the same Borrow after the first call is a no-op.
func (b *Borrow) Release() {
	if !b.released.CompareAndSwap(false, true) {
		return
	}

	retries := b.l.RecordRelease()
	b.mgr.strategy.OnConnectionReleased(b.l.Index())

	if retries > 0 {
		b.mgr.sink.IncCasRetries(b.mgr.connectionName, b.mgr.strategy.Name())
	}
}

// Acquire returns a Borrow for the next lane, consulting the transaction
// pin table first, falling back to the strategy. Fails with ErrDestroyed
// once the manager has been destroyed.
func (m *Manager) Acquire(caller identity.Caller) (*Borrow, error) {
	if m.destroyed.Load() {
		return nil, ErrDestroyed.Error()
	}

	if idx, ok := m.pins.load(caller); ok {
		l := m.lanes[idx]
		l.RecordAcquire()
		return &Borrow{mgr: m, l: l}, nil
	}

	n := len(m.lanes)
	idx := m.strategy.SelectLane(n, caller)
	m.strategy.OnConnectionAcquired(idx)

	l := m.lanes[idx]
	l.RecordAcquire()

	m.sink.IncSelections(m.connectionName, idx, m.strategy.Name())

	return &Borrow{mgr: m, l: l}, nil
}

// Observe inspects a command name and updates the transaction pin table:
// WATCH/MULTI pins caller to the borrow's lane; EXEC/DISCARD clears the
// pin. The caller's own code decides when to call this: the core does
// not parse RESP, so it relies on the integration layer to classify.
func (m *Manager) Observe(caller identity.Caller, b *Borrow, class driver.CommandClass) {
	switch class {
	case driver.CommandClassTxBegin:
		m.pins.store(caller, b.LaneIndex())
	case driver.CommandClassTxEnd:
		m.pins.delete(caller)
	}
}

// PubSubAcquire opens a dedicated pub/sub connection through factory,
// tracked separately from the command lanes. It never consumes a lane.
func (m *Manager) PubSubAcquire(ctx context.Context, factory driver.ConnFactory) (*pubsub.Handle, error) {
	if m.destroyed.Load() {
		return nil, ErrDestroyed.Error()
	}

	conn, err := factory.OpenPubSub(ctx)
	if err != nil {
		return nil, ErrDriverFault.Error(err)
	}

	return m.tracker.Create(conn), nil
}

// OpenLaneCount returns the number of lanes currently reporting open.
func (m *Manager) OpenLaneCount() int {
	n := 0
	for _, l := range m.lanes {
		if l.IsOpen() {
			n++
		}
	}
	return n
}

// PubSubCount returns the current size of the pub/sub tracker.
func (m *Manager) PubSubCount() int {
	return m.tracker.Count()
}

// Stats returns a point-in-time introspection snapshot.
func (m *Manager) Stats() Stats {
	return Stats{
		NumLanes:       len(m.lanes),
		OpenLanes:      m.OpenLaneCount(),
		ConnectionName: m.connectionName,
		StrategyName:   m.strategy.Name(),
		PubSubCount:    m.tracker.Count(),
		Destroyed:      m.destroyed.Load(),
	}
}

// Destroy is idempotent: it sets the destroyed flag (visible to all
// subsequent callers), closes every lane, closes the pub/sub tracker, and
// removes all per-connection series from the metrics sink. It never
// returns an error; any failure while closing a lane is logged and
// swallowed.
func (m *Manager) Destroy() {
	if !m.destroyed.CompareAndSwap(false, true) {
		return
	}

	var wg sync.WaitGroup
	failures := liberrpool.New()
	wg.Add(len(m.lanes))
	for _, l := range m.lanes {
		l := l
		go func() {
			defer wg.Done()
			if err := l.Close(); err != nil {
				failures.Add(fmt.Errorf("lane %d: %w", l.Index(), err))
			}
		}()
	}
	wg.Wait()

	if err := failures.Error(); err != nil {
		m.log.Warning("one or more lanes reported an error during destroy", fieldsFor(m, "error", err.Error(), "failed_lanes", failures.Len()))
	}

	m.tracker.CloseAll()
	m.sink.RemoveConnection(m.connectionName)

	m.log.Info("lane manager destroyed", fieldsFor(m))
}
