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

package errors

import "strings"

// ers is the sole implementation of Error: a code, its own message, and
// the parent errors added to it.
type ers struct {
	c uint16
	e string
	p []error
}

// Add appends parent, ignoring nils. A parent that is itself an *ers is
// kept as one entry; Error() renders it recursively, so its own parents
// still appear in the single "; "-joined line.
func (e *ers) Add(parent ...error) {
	for _, v := range parent {
		if v == nil {
			continue
		}

		if er, ok := v.(*ers); ok && er != nil {
			e.p = append(e.p, er)
			continue
		}

		e.p = append(e.p, v)
	}
}

func (e *ers) HasParent() bool {
	return len(e.p) > 0
}

// Error renders the error's own message, plus every parent's message
// joined in, so a single log line carries the whole hierarchy.
func (e *ers) Error() string {
	if len(e.p) == 0 {
		return e.e
	}

	msgs := make([]string, 0, len(e.p)+1)
	if e.e != "" {
		msgs = append(msgs, e.e)
	}
	for _, p := range e.p {
		msgs = append(msgs, p.Error())
	}

	return strings.Join(msgs, "; ")
}
