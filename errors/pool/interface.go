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

// Package pool collects errors raised by a fan-out of concurrent operations
// (e.g. closing every lane of a manager) into one combined error, so a
// caller gets a single Error() check instead of threading a []error through
// a sync.WaitGroup by hand.
package pool

// Pool is a thread-safe error collection fed by concurrent goroutines and
// drained once, after they all finish.
type Pool interface {
	// Add appends non-nil errors to the pool. Safe for concurrent use.
	Add(e ...error)

	// Error combines every error added so far into one, or nil if none
	// were added.
	Error() error

	// Len returns the number of errors added so far.
	Len() int
}

// New returns an empty Pool.
func New() Pool {
	return &mod{}
}
