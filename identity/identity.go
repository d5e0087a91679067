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

// Package identity derives the stable caller token the thread-affinity
// strategy and the transaction pin table key on. No per-caller storage is
// kept anywhere in this package: every call is a pure function of the
// input token, so a caller can be discarded and recomputed freely without
// ever needing a lookup table.
package identity

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

// Caller is the stable 64-bit identity of whatever the host environment
// provides as a thread/task/request token. Callers that have no native
// thread id derive one explicitly (e.g. a goroutine-local token threaded
// through context) and pass it in; this package only mixes it.
type Caller uint64

// Avalanche scrambles a raw caller token through xxhash so that nearby
// token values (e.g. sequential goroutine ids) do not cluster on nearby
// lane indices.
func Avalanche(raw Caller) uint64 {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(raw))
	return xxhash.Sum64(b[:])
}

// LaneFor mixes raw through Avalanche and folds it into [0, n). n must be
// > 0; the core never calls this with n == 0 because construction rejects
// NumLanes outside [1, 64].
func LaneFor(raw Caller, n int) int {
	h := Avalanche(raw) & 0x7FFFFFFF
	return int(h) % n
}

// FromUUID derives a Caller from a session/request identifier that has no
// native integer thread id of its own (e.g. a per-request UUID assigned
// by an HTTP or job-queue integration layer). The first eight bytes of id
// are folded in as the raw token before Avalanche mixes them.
func FromUUID(id uuid.UUID) Caller {
	return Caller(binary.LittleEndian.Uint64(id[:8]))
}
