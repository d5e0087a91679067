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

package pool

import (
	"sync"

	liberr "github.com/nabbar/redislane/errors"
)

// mod is the concrete implementation of Pool: a mutex-guarded slice, since
// the only access pattern is concurrent Add followed by a single drain.
type mod struct {
	mu  sync.Mutex
	err []error
}

func (o *mod) Add(e ...error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, err := range e {
		if err != nil {
			o.err = append(o.err, err)
		}
	}
}

func (o *mod) Error() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	return liberr.UnknownError.IfError(o.err...)
}

func (o *mod) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()

	return len(o.err)
}
