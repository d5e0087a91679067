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

package logging

import "github.com/sirupsen/logrus"

// Fields is an immutable bag of structured log fields. Add and Merge both
// return a new Fields, leaving the receiver untouched, so a logger's
// default field set can be cloned once per entry without the caller
// fearing another goroutine mutates it concurrently.
type Fields struct {
	m map[string]interface{}
}

// NewFields returns an empty Fields.
func NewFields() Fields {
	return Fields{m: make(map[string]interface{})}
}

// Add returns a copy of f with key set to val.
func (f Fields) Add(key string, val interface{}) Fields {
	out := f.Clone()
	out.m[key] = val
	return out
}

// Clone returns an independent copy of f.
func (f Fields) Clone() Fields {
	out := make(map[string]interface{}, len(f.m))
	for k, v := range f.m {
		out[k] = v
	}
	return Fields{m: out}
}

// Merge returns a copy of f with every key of other applied on top.
func (f Fields) Merge(other Fields) Fields {
	out := f.Clone()
	for k, v := range other.m {
		out.m[k] = v
	}
	return out
}

// Logrus converts f to the map shape logrus.Entry.WithFields expects.
func (f Fields) Logrus() logrus.Fields {
	return logrus.Fields(f.m)
}
