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

package strategy_test

import (
	"sync"

	"github.com/nabbar/redislane/identity"
	"github.com/nabbar/redislane/strategy"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type fakeLaneView struct {
	index    int
	inFlight int64
}

func (f *fakeLaneView) Index() int      { return f.index }
func (f *fakeLaneView) InFlight() int64 { return f.inFlight }

var _ = Describe("strategy", func() {
	ns := []int{1, 2, 4, 7, 8, 16, 32, 64}

	DescribeTable("every strategy returns a value in [0, n)",
		func(name string, s strategy.Strategy) {
			for _, n := range ns {
				views := make([]strategy.LaneView, n)
				for i := range views {
					views[i] = &fakeLaneView{index: i}
				}
				s.Initialize(views)

				for c := 0; c < 50; c++ {
					i := s.SelectLane(n, identity.Caller(c))
					Expect(i).To(BeNumerically(">=", 0))
					Expect(i).To(BeNumerically("<", n))
				}
			}
		},
		Entry("round-robin", "round-robin", strategy.NewRoundRobin()),
		Entry("thread-affinity", "thread-affinity", strategy.NewThreadAffinity()),
		Entry("least-used", "least-used", strategy.NewLeastUsed()),
	)

	Describe("round-robin", func() {
		It("returns each lane exactly K times over K*N sequential calls", func() {
			s := strategy.NewRoundRobin()
			n, k := 8, 125
			counts := make([]int, n)
			for i := 0; i < n*k; i++ {
				counts[s.SelectLane(n, 0)]++
			}
			for _, c := range counts {
				Expect(c).To(Equal(k))
			}
		})

		It("produces 0,1,2,...,N-1,0,1,... on a single thread", func() {
			s := strategy.NewRoundRobin()
			n := 4
			for rep := 0; rep < 3; rep++ {
				for i := 0; i < n; i++ {
					Expect(s.SelectLane(n, 0)).To(Equal(i))
				}
			}
		})

		It("wraps through overflow with no gap, skip, or sign flip", func() {
			s := strategy.NewRoundRobin()
			rr := s.(strategy.RoundRobinForTest)
			rr.ForceCounter(^uint64(0) - 10)

			n := 8
			prev := -1
			for i := 0; i < 20; i++ {
				got := s.SelectLane(n, 0)
				Expect(got).To(BeNumerically(">=", 0))
				Expect(got).To(BeNumerically("<", n))
				if prev >= 0 {
					Expect(got).To(Equal((prev + 1) % n))
				}
				prev = got
			}
		})

		It("wraps cleanly at a non-power-of-2 N", func() {
			s := strategy.NewRoundRobin()
			rr := s.(strategy.RoundRobinForTest)
			rr.ForceCounter(^uint64(0) - 5)

			n := 7
			seen := make([]int, 0, 12)
			prev := -1
			for i := 0; i < 12; i++ {
				got := s.SelectLane(n, 0)
				Expect(got).To(BeNumerically(">=", 0))
				Expect(got).To(BeNumerically("<", n))
				if prev >= 0 {
					Expect(got).To(Equal((prev + 1) % n))
				}
				prev = got
				seen = append(seen, got)
			}

			for i := 1; i < len(seen); i++ {
				if seen[i] == seen[i-1] {
					Fail("round-robin produced a duplicate index across the 64-bit wraparound boundary")
				}
			}
		})

		It("is uniform within +/-5% under concurrent contention", func() {
			s := strategy.NewRoundRobin()
			n := 8
			total := n * 10000
			counts := make([]int64, n)
			var wg sync.WaitGroup
			var mu sync.Mutex

			workers := 32
			per := total / workers
			wg.Add(workers)
			for w := 0; w < workers; w++ {
				go func() {
					defer wg.Done()
					local := make([]int64, n)
					for i := 0; i < per; i++ {
						local[s.SelectLane(n, 0)]++
					}
					mu.Lock()
					for i := range local {
						counts[i] += local[i]
					}
					mu.Unlock()
				}()
			}
			wg.Wait()

			expected := float64(total) / float64(n)
			for _, c := range counts {
				Expect(float64(c)).To(BeNumerically("~", expected, expected*0.05))
			}
		})
	})

	Describe("thread-affinity", func() {
		It("always returns the same lane for the same caller identity", func() {
			s := strategy.NewThreadAffinity()
			caller := identity.Caller(9001)
			first := s.SelectLane(8, caller)
			for i := 0; i < 1000; i++ {
				Expect(s.SelectLane(8, caller)).To(Equal(first))
			}
		})

		It("covers all eight indices across 16 concurrent threads doing 1000 calls each", func() {
			s := strategy.NewThreadAffinity()
			n := 8
			seen := make([]bool, n)
			var mu sync.Mutex
			var wg sync.WaitGroup

			wg.Add(16)
			for t := 0; t < 16; t++ {
				go func(caller identity.Caller) {
					defer wg.Done()
					first := s.SelectLane(n, caller)
					for i := 0; i < 1000; i++ {
						got := s.SelectLane(n, caller)
						Expect(got).To(Equal(first))
					}
					mu.Lock()
					seen[first] = true
					mu.Unlock()
				}(identity.Caller(t))
			}
			wg.Wait()

			distinct := 0
			for _, hit := range seen {
				if hit {
					distinct++
				}
			}
			Expect(distinct).To(Equal(n))
		})
	})

	Describe("least-used", func() {
		It("picks argmin with ties broken by smallest index", func() {
			s := strategy.NewLeastUsed()
			views := []strategy.LaneView{
				&fakeLaneView{index: 0, inFlight: 5},
				&fakeLaneView{index: 1, inFlight: 0},
				&fakeLaneView{index: 2, inFlight: 10},
				&fakeLaneView{index: 3, inFlight: 3},
			}
			s.Initialize(views)
			Expect(s.SelectLane(4, 0)).To(Equal(1))

			views2 := []strategy.LaneView{
				&fakeLaneView{index: 0, inFlight: 0},
				&fakeLaneView{index: 1, inFlight: 3},
				&fakeLaneView{index: 2, inFlight: 0},
				&fakeLaneView{index: 3, inFlight: 7},
			}
			s.Initialize(views2)
			Expect(s.SelectLane(4, 0)).To(Equal(0))
		})

		It("trivially selects lane 0 when N=1", func() {
			s := strategy.NewLeastUsed()
			s.Initialize([]strategy.LaneView{&fakeLaneView{index: 0, inFlight: 42}})
			Expect(s.SelectLane(1, 0)).To(Equal(0))
		})
	})
})
