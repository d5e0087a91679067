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

// Package logging is a trimmed facade over logrus: a severity Level and an
// immutable Fields bag, both scoped to what the lane manager needs, with
// none of the multi-sink hook architecture (syslog, gorm, hclog, gin) this
// module has no surface for. It exists so lane lifecycle events never go
// through the bare standard log package.
package logging

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// Logger is the narrow surface the core needs: INFO on successful
// construction and destroy, WARN on pub/sub threshold breach and on any
// error during destroy shutdown, DEBUG on individual lane lifecycle
// events. None of these may be called from a hot path (acquire/
// selection/release).
type Logger interface {
	Debug(message string, fields Fields)
	Info(message string, fields Fields)
	Warning(message string, fields Fields)
	Error(message string, fields Fields)

	// WithField returns a derived Logger carrying one extra default field
	// (e.g. connection_name) added to every subsequent entry.
	WithField(key string, val interface{}) Logger
}

type logger struct {
	mu  sync.Mutex
	lvl Level
	ent *logrus.Logger
	flt Fields
}

// New returns a Logger writing through logrus at the given minimum level.
// ctx is accepted for call-site symmetry with the rest of the module's
// constructors; the logger itself carries no context-scoped state.
func New(ctx context.Context, lvl Level) Logger {
	if ctx == nil {
		ctx = context.Background()
	}

	l := logrus.New()
	l.SetLevel(lvl.Logrus())

	return &logger{
		lvl: lvl,
		ent: l,
		flt: NewFields(),
	}
}

func (o *logger) entry(fields Fields) *logrus.Entry {
	return o.ent.WithFields(o.flt.Merge(fields).Logrus())
}

func (o *logger) Debug(message string, fields Fields) {
	o.entry(fields).Debug(message)
}

func (o *logger) Info(message string, fields Fields) {
	o.entry(fields).Info(message)
}

func (o *logger) Warning(message string, fields Fields) {
	o.entry(fields).Warn(message)
}

func (o *logger) Error(message string, fields Fields) {
	o.entry(fields).Error(message)
}

func (o *logger) WithField(key string, val interface{}) Logger {
	o.mu.Lock()
	defer o.mu.Unlock()

	return &logger{
		lvl: o.lvl,
		ent: o.ent,
		flt: o.flt.Add(key, val),
	}
}
