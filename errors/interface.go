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

// Package errors gives every other package in this module a shared error
// taxonomy: a CodeError per failure class, registered against a package-
// specific message function, and an Error value that can accumulate
// parent errors (e.g. one validation failure per struct field) behind a
// single check.
//
// Example usage:
//
//	err := ErrConfigurationInvalid.Error(nil)
//	err.Add(er1, er2)
//	if err.HasParent() {
//	    return err
//	}
//
// Sub-packages:
//   - pool: fan-out error collection for concurrent operations
package errors

// Error is a code-classified error that can carry parent errors, e.g. one
// entry per failed validation constraint. Add is not safe for concurrent
// use; construct one Error per goroutine and merge afterward if needed.
type Error interface {
	error

	// Add appends non-nil parent errors to this Error's hierarchy.
	Add(parent ...error)

	// HasParent reports whether any parent error was ever added.
	HasParent() bool
}

// New returns an Error with the given code and message, wrapping any
// non-nil parent errors.
func New(code uint16, message string, parent ...error) Error {
	e := &ers{c: code, e: message}
	e.Add(parent...)
	return e
}

// IfError returns an Error wrapping parent, or nil if every parent is nil.
// Used to collapse a pool of possibly-nil errors into a single check.
func IfError(code uint16, message string, parent ...error) Error {
	e := &ers{c: code, e: message}
	e.Add(parent...)
	if !e.HasParent() {
		return nil
	}
	return e
}
