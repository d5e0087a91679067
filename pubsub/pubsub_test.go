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

package pubsub_test

import (
	"sync"
	"sync/atomic"

	"github.com/nabbar/redislane/pubsub"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type fakePubSubConn struct {
	closes atomic.Int32
}

func (c *fakePubSubConn) Close() error {
	c.closes.Add(1)
	return nil
}

var _ = Describe("pubsub", func() {
	It("Create adds a handle and Count reflects it", func() {
		tr := pubsub.New(100, nil)
		Expect(tr.Count()).To(Equal(0))

		h := tr.Create(&fakePubSubConn{})
		Expect(tr.Count()).To(Equal(1))
		Expect(h).ToNot(BeNil())
	})

	It("Release is idempotent: second release on the same handle is a no-op", func() {
		tr := pubsub.New(100, nil)
		conn := &fakePubSubConn{}
		h := tr.Create(conn)

		Expect(h.Release()).To(BeTrue())
		Expect(tr.Count()).To(Equal(0))
		Expect(conn.closes.Load()).To(Equal(int32(1)))

		Expect(h.Release()).To(BeFalse())
		Expect(tr.Count()).To(Equal(0))
		Expect(conn.closes.Load()).To(Equal(int32(1)))
	})

	It("CloseAll closes every tracked handle exactly once and resets count to 0", func() {
		tr := pubsub.New(100, nil)
		conns := make([]*fakePubSubConn, 10)
		for i := range conns {
			conns[i] = &fakePubSubConn{}
			tr.Create(conns[i])
		}
		Expect(tr.Count()).To(Equal(10))

		tr.CloseAll()

		Expect(tr.Count()).To(Equal(0))
		for _, c := range conns {
			Expect(c.closes.Load()).To(Equal(int32(1)))
		}
	})

	It("count never goes negative under concurrent creates and releases", func() {
		tr := pubsub.New(1000, nil)
		var wg sync.WaitGroup
		handles := make([]*pubsub.Handle, 200)

		wg.Add(len(handles))
		for i := range handles {
			go func(i int) {
				defer wg.Done()
				handles[i] = tr.Create(&fakePubSubConn{})
			}(i)
		}
		wg.Wait()
		Expect(tr.Count()).To(Equal(200))

		wg.Add(len(handles))
		for i := range handles {
			go func(i int) {
				defer wg.Done()
				handles[i].Release()
				handles[i].Release()
			}(i)
		}
		wg.Wait()

		Expect(tr.Count()).To(Equal(0))
		Expect(tr.Count()).To(BeNumerically(">=", 0))
	})

	It("fires the soft warning exactly once when the threshold is crossed", func() {
		var fired int32
		tr := pubsub.New(3, func(size int) {
			atomic.AddInt32(&fired, 1)
			Expect(size).To(Equal(4))
		})

		for i := 0; i < 5; i++ {
			tr.Create(&fakePubSubConn{})
		}

		Expect(atomic.LoadInt32(&fired)).To(Equal(int32(1)))
	})

	It("CloseAll racing Release never double-closes", func() {
		tr := pubsub.New(1000, nil)
		conns := make([]*fakePubSubConn, 50)
		handles := make([]*pubsub.Handle, 50)
		for i := range conns {
			conns[i] = &fakePubSubConn{}
			handles[i] = tr.Create(conns[i])
		}

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.CloseAll()
		}()

		for _, h := range handles {
			h.Release()
		}
		wg.Wait()

		for _, c := range conns {
			Expect(c.closes.Load()).To(Equal(int32(1)))
		}
	})
})
