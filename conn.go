// Copyright 2020 lesismal. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package rawhttp

import (
	"net"
	"sync"
	"time"

	"github.com/lesismal/rawhttp/logging"
)

// Conn wraps net.Conn.
type Conn struct {
	e *Engine

	hash int

	mux sync.Mutex

	conn net.Conn

	closed   bool
	closeErr error

	execList []func()

	// user session
	session interface{}
}

func newConn(e *Engine, conn net.Conn) *Conn {
	c := &Conn{
		e:    e,
		conn: conn,
	}

	if addr := conn.RemoteAddr(); addr != nil {
		for _, ch := range addr.String() {
			c.hash = 31*c.hash + int(ch)
		}
	}
	if c.hash < 0 {
		c.hash = -c.hash
	}

	return c
}

// Hash returns a hashcode.
func (c *Conn) Hash() int {
	return c.hash
}

// Write wraps net.Conn.Write, a failed write closes the Conn.
func (c *Conn) Write(b []byte) (int, error) {
	n, err := c.conn.Write(b)
	if err != nil {
		_ = c.CloseWithError(err)
	}
	return n, err
}

// Writev wraps net.Buffers.WriteTo.
func (c *Conn) Writev(in [][]byte) (int, error) {
	buffers := net.Buffers(in)
	n, err := buffers.WriteTo(c.conn)
	if err != nil {
		_ = c.CloseWithError(err)
	}
	return int(n), err
}

// Close wraps net.Conn.Close.
func (c *Conn) Close() error {
	return c.CloseWithError(nil)
}

// CloseWithError closes the Conn and records err as the reason passed to OnClose.
func (c *Conn) CloseWithError(err error) error {
	c.mux.Lock()
	if c.closed {
		c.mux.Unlock()
		return nil
	}
	c.closed = true
	c.closeErr = err
	cerr := c.conn.Close()
	c.mux.Unlock()

	if c.e != nil {
		c.e.deleteConn(c)
	}
	return cerr
}

// IsClosed .
func (c *Conn) IsClosed() (bool, error) {
	c.mux.Lock()
	defer c.mux.Unlock()
	return c.closed, c.closeErr
}

// Execute queues f on the engine's executor. Tasks of the same Conn run one at a time in
// the order they were queued. It returns false if the Conn is closed.
func (c *Conn) Execute(f func()) bool {
	c.mux.Lock()
	if c.closed {
		c.mux.Unlock()
		return false
	}

	isHead := (len(c.execList) == 0)
	c.execList = append(c.execList, f)
	c.mux.Unlock()

	if isHead {
		c.e.Execute(func() {
			i := 0
			for {
				func() {
					defer func() {
						if err := recover(); err != nil {
							logging.Error("conn execute failed: %v\n%s\n", err, stack())
						}
					}()
					f()
				}()

				c.mux.Lock()
				i++
				if len(c.execList) == i {
					c.execList = c.execList[0:0]
					c.mux.Unlock()
					return
				}
				f = c.execList[i]
				c.mux.Unlock()
			}
		})
	}

	return true
}

// LocalAddr wraps net.Conn.LocalAddr.
func (c *Conn) LocalAddr() net.Addr {
	return c.conn.LocalAddr()
}

// RemoteAddr wraps net.Conn.RemoteAddr.
func (c *Conn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// SetDeadline wraps net.Conn.SetDeadline.
func (c *Conn) SetDeadline(t time.Time) error {
	return c.conn.SetDeadline(t)
}

// SetReadDeadline wraps net.Conn.SetReadDeadline.
func (c *Conn) SetReadDeadline(t time.Time) error {
	return c.conn.SetReadDeadline(t)
}

// SetWriteDeadline wraps net.Conn.SetWriteDeadline.
func (c *Conn) SetWriteDeadline(t time.Time) error {
	return c.conn.SetWriteDeadline(t)
}

// Session returns user session.
func (c *Conn) Session() interface{} {
	c.mux.Lock()
	defer c.mux.Unlock()
	return c.session
}

// SetSession sets user session.
func (c *Conn) SetSession(session interface{}) {
	c.mux.Lock()
	c.session = session
	c.mux.Unlock()
}
