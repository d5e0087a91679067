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

// Package driver is the thin contract the core drives an underlying Redis
// client through. RESP encoding, TCP/TLS I/O, and reconnect back-off all
// live on the other side of this interface; the core never touches them
// directly. goredis.go is the only file in this module allowed to import
// github.com/redis/go-redis/v9.
package driver

import "context"

// Conn is one owning handle to a long-lived connection. Only the lane
// that owns it may close it.
type Conn interface {
	// IsOpen reports current liveness with the visibility guarantees the
	// lane needs to answer is_open() without a lock.
	IsOpen() bool

	// Close sends the protocol's graceful disconnect and releases the
	// socket. Idempotent.
	Close() error

	// Do issues a command on this connection. It is the only path by
	// which a caller holding a borrow reaches the underlying driver.
	Do(ctx context.Context, args ...interface{}) Result
}

// Result is the minimal surface the core needs from a command reply: it
// never inspects the payload, only whether the call itself failed.
type Result interface {
	Err() error
}

// PubSubConn is a dedicated connection that has entered subscribe mode
// and no longer participates in positional command/response matching.
type PubSubConn interface {
	Close() error
}

// ConnFactory opens new owning connections. An integration layer supplies
// one concrete implementation (see NewGoRedisFactory) backing it with a
// real client.
type ConnFactory interface {
	// Open returns a new command connection.
	Open(ctx context.Context) (Conn, error)

	// OpenPubSub returns a new dedicated pub/sub connection.
	OpenPubSub(ctx context.Context) (PubSubConn, error)
}

// CommandClass classifies a command name for transaction-affinity
// purposes. The core never parses RESP; it only needs to recognize the
// three cases below.
type CommandClass uint8

const (
	CommandClassNone CommandClass = iota
	// CommandClassTxBegin marks WATCH/MULTI: the first command of a
	// transaction, which establishes pin-table affinity.
	CommandClassTxBegin
	// CommandClassTxEnd marks EXEC/DISCARD: the last command of a
	// transaction, which releases pin-table affinity.
	CommandClassTxEnd
)

var txBeginCommands = map[string]bool{
	"WATCH": true,
	"MULTI": true,
}

var txEndCommands = map[string]bool{
	"EXEC":    true,
	"DISCARD": true,
}

// ClassifyCommand recognizes WATCH/MULTI as transaction-initiating and
// EXEC/DISCARD as transaction-terminating. Matching is case-insensitive
// on the RESP command name; everything else classifies as
// CommandClassNone. The core does not otherwise inspect commands.
func ClassifyCommand(name string) CommandClass {
	u := upperASCII(name)

	if txBeginCommands[u] {
		return CommandClassTxBegin
	}

	if txEndCommands[u] {
		return CommandClassTxEnd
	}

	return CommandClassNone
}

func upperASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return string(b)
}
