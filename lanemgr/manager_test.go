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

package lanemgr_test

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/nabbar/redislane/driver"
	"github.com/nabbar/redislane/identity"
	"github.com/nabbar/redislane/lanemgr"
	"github.com/nabbar/redislane/metrics"
	"github.com/nabbar/redislane/strategy"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type fakeResult struct{}

func (fakeResult) Err() error { return nil }

type fakeConn struct {
	closed atomic.Bool
}

func (c *fakeConn) IsOpen() bool { return !c.closed.Load() }
func (c *fakeConn) Close() error { c.closed.Store(true); return nil }
func (c *fakeConn) Do(_ context.Context, _ ...interface{}) driver.Result {
	return fakeResult{}
}

type fakePubSubConn struct{}

func (fakePubSubConn) Close() error { return nil }

type fakeFactory struct {
	failAt int32
	opened atomic.Int32

	mu    sync.Mutex
	conns []*fakeConn
}

func (f *fakeFactory) Open(_ context.Context) (driver.Conn, error) {
	n := f.opened.Add(1)
	if f.failAt > 0 && n == f.failAt {
		return nil, errFailedOpen
	}
	c := &fakeConn{}
	f.mu.Lock()
	f.conns = append(f.conns, c)
	f.mu.Unlock()
	return c, nil
}

// inFlightSink records the lane in-flight gauge values the manager emits.
type inFlightSink struct {
	metrics.Sink
	last     atomic.Int64
	negative atomic.Bool
}

func (s *inFlightSink) SetInFlight(_ string, _ int, v int64) {
	s.last.Store(v)
	if v < 0 {
		s.negative.Store(true)
	}
}

func (f *fakeFactory) OpenPubSub(_ context.Context) (driver.PubSubConn, error) {
	return fakePubSubConn{}, nil
}

type simpleErr string

func (e simpleErr) Error() string { return string(e) }

const errFailedOpen = simpleErr("simulated dial failure")

var _ = Describe("lanemgr", func() {
	It("constructs N open lanes and reports OpenLaneCount", func() {
		mgr, err := lanemgr.New(context.Background(), &fakeFactory{}, 8, strategy.NewRoundRobin(), metrics.NoOp(), "default", nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(mgr.OpenLaneCount()).To(Equal(8))
	})

	It("rejects N outside [1,64]", func() {
		_, err := lanemgr.New(context.Background(), &fakeFactory{}, 0, strategy.NewRoundRobin(), metrics.NoOp(), "default", nil)
		Expect(err).To(HaveOccurred())

		_, err = lanemgr.New(context.Background(), &fakeFactory{}, 65, strategy.NewRoundRobin(), metrics.NoOp(), "default", nil)
		Expect(err).To(HaveOccurred())
	})

	It("accepts the boundary values N=1 and N=64", func() {
		mgr1, err := lanemgr.New(context.Background(), &fakeFactory{}, 1, strategy.NewRoundRobin(), metrics.NoOp(), "default", nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(mgr1.OpenLaneCount()).To(Equal(1))

		mgr64, err := lanemgr.New(context.Background(), &fakeFactory{}, 64, strategy.NewRoundRobin(), metrics.NoOp(), "default", nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(mgr64.OpenLaneCount()).To(Equal(64))
	})

	It("rolls back every opened lane when one fails to open", func() {
		f := &fakeFactory{failAt: 4}
		_, err := lanemgr.New(context.Background(), f, 8, strategy.NewRoundRobin(), metrics.NoOp(), "default", nil)
		Expect(err).To(HaveOccurred())

		Expect(f.conns).To(HaveLen(3))
		for _, c := range f.conns {
			Expect(c.IsOpen()).To(BeFalse())
		}
	})

	It("rejects Acquire once destroyed", func() {
		mgr, err := lanemgr.New(context.Background(), &fakeFactory{}, 4, strategy.NewRoundRobin(), metrics.NoOp(), "default", nil)
		Expect(err).ToNot(HaveOccurred())

		mgr.Destroy()
		_, err = mgr.Acquire(identity.Caller(1))
		Expect(err).To(HaveOccurred())
	})

	It("Destroy is idempotent", func() {
		mgr, err := lanemgr.New(context.Background(), &fakeFactory{}, 4, strategy.NewRoundRobin(), metrics.NoOp(), "default", nil)
		Expect(err).ToNot(HaveOccurred())

		mgr.Destroy()
		mgr.Destroy()
		mgr.Destroy()
		Expect(mgr.OpenLaneCount()).To(Equal(0))
	})

	It("Borrow.Release is idempotent: a second release does not double-decrement", func() {
		sink := &inFlightSink{Sink: metrics.NoOp()}
		mgr, err := lanemgr.New(context.Background(), &fakeFactory{}, 4, strategy.NewRoundRobin(), sink, "default", nil)
		Expect(err).ToNot(HaveOccurred())

		caller := identity.Caller(1)
		b, err := mgr.Acquire(caller)
		Expect(err).ToNot(HaveOccurred())

		// Pin the caller so a second borrow lands on the same lane.
		mgr.Observe(caller, b, driver.CommandClassTxBegin)
		other, err := mgr.Acquire(caller)
		Expect(err).ToNot(HaveOccurred())
		Expect(other.LaneIndex()).To(Equal(b.LaneIndex()))
		Expect(sink.last.Load()).To(Equal(int64(2)))

		b.Release()
		b.Release()
		b.Release()
		Expect(sink.last.Load()).To(Equal(int64(1)))
	})

	It("pins a caller's lane across WATCH/MULTI...EXEC and releases the pin after EXEC", func() {
		mgr, err := lanemgr.New(context.Background(), &fakeFactory{}, 8, strategy.NewRoundRobin(), metrics.NoOp(), "default", nil)
		Expect(err).ToNot(HaveOccurred())

		caller := identity.Caller(42)

		b1, err := mgr.Acquire(caller)
		Expect(err).ToNot(HaveOccurred())
		mgr.Observe(caller, b1, driver.CommandClassTxBegin)
		pinnedIndex := b1.LaneIndex()
		b1.Release()

		for i := 0; i < 20; i++ {
			b, err := mgr.Acquire(caller)
			Expect(err).ToNot(HaveOccurred())
			Expect(b.LaneIndex()).To(Equal(pinnedIndex))
			b.Release()
		}

		bEnd, err := mgr.Acquire(caller)
		Expect(err).ToNot(HaveOccurred())
		mgr.Observe(caller, bEnd, driver.CommandClassTxEnd)
		bEnd.Release()

		after, err := mgr.Acquire(caller)
		Expect(err).ToNot(HaveOccurred())
		Expect(after.LaneIndex()).ToNot(Equal(pinnedIndex))
		after.Release()
	})

	It("keeps open_lane_count unchanged across a pub/sub acquire", func() {
		f := &fakeFactory{}
		mgr, err := lanemgr.New(context.Background(), f, 4, strategy.NewRoundRobin(), metrics.NoOp(), "default", nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(mgr.OpenLaneCount()).To(Equal(4))

		h, err := mgr.PubSubAcquire(context.Background(), f)
		Expect(err).ToNot(HaveOccurred())
		Expect(mgr.OpenLaneCount()).To(Equal(4))
		Expect(mgr.PubSubCount()).To(Equal(1))

		h.Release()
		Expect(mgr.PubSubCount()).To(Equal(0))
	})

	It("keeps in-flight non-negative across a mix of acquire/release goroutines", func() {
		sink := &inFlightSink{Sink: metrics.NoOp()}
		mgr, err := lanemgr.New(context.Background(), &fakeFactory{}, 8, strategy.NewLeastUsed(), sink, "default", nil)
		Expect(err).ToNot(HaveOccurred())

		var wg sync.WaitGroup
		workers := 32
		perWorker := 200
		wg.Add(workers)
		for w := 0; w < workers; w++ {
			go func(caller identity.Caller) {
				defer wg.Done()
				for i := 0; i < perWorker; i++ {
					b, err := mgr.Acquire(caller)
					if err != nil {
						continue
					}
					b.Release()
				}
			}(identity.Caller(w))
		}
		wg.Wait()

		Expect(sink.negative.Load()).To(BeFalse())
	})
})
