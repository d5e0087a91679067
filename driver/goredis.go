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

package driver

import (
	"context"
	"sync/atomic"

	"github.com/redis/go-redis/v9"
)

// GoRedisOptions carries the dial/auth surface an integration layer needs
// before handing a *redis.Client to NewGoRedisFactory. Nothing in this
// module reads it or sets reconnect or disconnected behavior on the
// client; NewGoRedisFactory uses the client exactly as configured.
type GoRedisOptions struct {
	Addr     string
	Username string
	Password string
	DB       int
}

type goRedisFactory struct {
	cli *redis.Client
}

// NewGoRedisFactory wraps an already-configured *redis.Client. The
// reconnect policy (automatic reconnect with exponential back-off, reject
// while disconnected rather than buffering) is configured on cli itself
// by the integration layer before this factory is constructed; the core
// only consumes the resulting Conn/PubSubConn handles.
func NewGoRedisFactory(cli *redis.Client) ConnFactory {
	return &goRedisFactory{cli: cli}
}

func (f *goRedisFactory) Open(ctx context.Context) (Conn, error) {
	c := f.cli.Conn()

	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, err
	}

	return &goRedisConn{conn: c}, nil
}

func (f *goRedisFactory) OpenPubSub(ctx context.Context) (PubSubConn, error) {
	ps := f.cli.Subscribe(ctx)
	return &goRedisPubSub{ps: ps}, nil
}

type goRedisConn struct {
	conn   *redis.Conn
	closed atomic.Bool
}

// IsOpen reports whether Close has been called on this handle. It does
// not probe the socket, so a connection the server has dropped still
// reports open until Close.
func (c *goRedisConn) IsOpen() bool {
	return !c.closed.Load()
}

func (c *goRedisConn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.conn.Close()
}

func (c *goRedisConn) Do(ctx context.Context, args ...interface{}) Result {
	return c.conn.Do(ctx, args...)
}

type goRedisPubSub struct {
	ps *redis.PubSub
}

func (p *goRedisPubSub) Close() error {
	return p.ps.Close()
}
