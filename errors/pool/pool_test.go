/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
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

package pool_test

import (
	"errors"
	"fmt"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/redislane/errors/pool"
)

var _ = Describe("Pool", func() {
	var p pool.Pool

	BeforeEach(func() {
		p = pool.New()
	})

	It("starts empty", func() {
		Expect(p.Len()).To(Equal(0))
		Expect(p.Error()).To(BeNil())
	})

	It("ignores nil errors", func() {
		p.Add(nil, nil)
		Expect(p.Len()).To(Equal(0))
		Expect(p.Error()).To(BeNil())
	})

	It("collects added errors", func() {
		p.Add(errors.New("first"), errors.New("second"))
		Expect(p.Len()).To(Equal(2))
		Expect(p.Error()).NotTo(BeNil())
	})

	It("skips nil errors mixed in with real ones", func() {
		p.Add(errors.New("real"), nil, errors.New("also real"))
		Expect(p.Len()).To(Equal(2))
	})

	It("combines every error into one via Error", func() {
		p.Add(errors.New("boom"))
		err := p.Error()
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("boom"))
	})

	It("is safe for concurrent Add from many goroutines", func() {
		var wg sync.WaitGroup
		const n = 100
		wg.Add(n)
		for i := 0; i < n; i++ {
			i := i
			go func() {
				defer wg.Done()
				p.Add(fmt.Errorf("err-%d", i))
			}()
		}
		wg.Wait()

		Expect(p.Len()).To(Equal(n))
	})
})
