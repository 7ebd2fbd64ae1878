// Copyright 2020 lesismal. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package rawhttp

import (
	"context"
	"net"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lesismal/rawhttp/logging"
	"github.com/lesismal/rawhttp/mempool"
)

const (
	// DefaultReadBufferSize .
	DefaultReadBufferSize = 1024 * 32

	// DefaultMaxLoad .
	DefaultMaxLoad = 1024 * 64
)

// Config Of Engine.
type Config struct {
	// Name describes your engine name for logging, it's set to "RAW" by default.
	Name string

	// Network is the listening protocol, used with Addrs toghter, it's set to "tcp" by default.
	Network string

	// Addrs is the listening addr list.
	// if it is empty, no listener created, connections are added with AddConn only.
	Addrs []string

	// ReadBufferSize represents buffer size for reading, it's set to 32k by default.
	// It's the upper bound of a single fragment passed to OnData.
	ReadBufferSize int

	// MaxLoad represents the max online num, it's set to 64k by default.
	MaxLoad int

	// ReadTimeout is set as the read deadline before every read, 0 means no timeout.
	ReadTimeout time.Duration

	// Listen is used to create listener for Engine, it's set to net.Listen by default.
	Listen func(network, addr string) (net.Listener, error)
}

// Engine accepts connections and delivers what each of them reads, in order, to OnData.
type Engine struct {
	Config
	sync.WaitGroup

	// Execute runs the tasks queued by Conn.Execute, it runs them synchronously by default.
	Execute func(f func())

	mux    sync.Mutex
	wgConn sync.WaitGroup
	online int64

	conns     map[*Conn]struct{}
	listeners []*poller
	stopped   bool

	onOpen            func(c *Conn)
	onClose           func(c *Conn, err error)
	onData            func(c *Conn, data []byte)
	onReadBufferAlloc func(c *Conn) []byte
	onReadBufferFree  func(c *Conn, buffer []byte)
	onStop            func()
}

// NewEngine is a factory impl.
func NewEngine(conf Config) *Engine {
	if conf.Name == "" {
		conf.Name = "RAW"
	}
	if conf.Network == "" {
		conf.Network = "tcp"
	}
	if conf.ReadBufferSize <= 0 {
		conf.ReadBufferSize = DefaultReadBufferSize
	}
	if conf.MaxLoad <= 0 {
		conf.MaxLoad = DefaultMaxLoad
	}
	if conf.Listen == nil {
		conf.Listen = net.Listen
	}
	conf.Addrs = append([]string{}, conf.Addrs...)

	e := &Engine{
		Config: conf,
		conns:  map[*Conn]struct{}{},
	}
	e.initHandlers()
	return e
}

// Start creates the listeners and starts accepting.
func (e *Engine) Start() error {
	for i := range e.Addrs {
		ln, err := newPoller(e, i)
		if err != nil {
			for _, l := range e.listeners {
				l.stop()
			}
			e.listeners = nil
			return err
		}
		e.Addrs[i] = ln.listener.Addr().String()
		e.listeners = append(e.listeners, ln)
	}

	for _, l := range e.listeners {
		e.Add(1)
		go l.start()
	}

	if len(e.Addrs) == 0 {
		logging.Info("RAW Engine[%v] start", e.Name)
	} else {
		logging.Info("RAW Engine[%v] start listen on: [\"%v@%v\"]", e.Name, e.Network, strings.Join(e.Addrs, `", "`))
	}
	return nil
}

// Stop closes listeners and conns, then waits for every OnClose to return.
func (e *Engine) Stop() {
	for _, l := range e.listeners {
		l.stop()
	}

	e.mux.Lock()
	if e.stopped {
		e.mux.Unlock()
		return
	}
	e.stopped = true
	conns := e.conns
	e.conns = map[*Conn]struct{}{}
	e.mux.Unlock()

	for c := range conns {
		_ = c.Close()
	}

	e.wgConn.Wait()
	e.onStop()
	e.Wait()
	logging.Info("RAW Engine[%v] stop", e.Name)
}

// Shutdown stops Engine gracefully with context.
func (e *Engine) Shutdown(ctx context.Context) error {
	ch := make(chan struct{})
	go func() {
		e.Stop()
		close(ch)
	}()

	select {
	case <-ch:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

// Online returns the number of open connections.
func (e *Engine) Online() int {
	return int(atomic.LoadInt64(&e.online))
}

// AddConn adds an established connection and starts reading from it.
func (e *Engine) AddConn(conn net.Conn) (*Conn, error) {
	if atomic.AddInt64(&e.online, 1) > int64(e.MaxLoad) {
		atomic.AddInt64(&e.online, -1)
		conn.Close()
		return nil, ErrOverload
	}

	c := newConn(e, conn)
	e.mux.Lock()
	if e.stopped {
		e.mux.Unlock()
		atomic.AddInt64(&e.online, -1)
		conn.Close()
		return nil, ErrEngineStopped
	}
	e.conns[c] = struct{}{}
	e.wgConn.Add(1)
	e.mux.Unlock()

	e.onOpen(c)
	e.Add(1)
	go e.readConn(c)
	return c, nil
}

func (e *Engine) readConn(c *Conn) {
	defer e.Done()
	for {
		if e.ReadTimeout > 0 {
			_ = c.SetReadDeadline(time.Now().Add(e.ReadTimeout))
		}
		buffer := e.onReadBufferAlloc(c)
		n, err := c.conn.Read(buffer)
		if n > 0 {
			e.onData(c, buffer[:n])
		}
		e.onReadBufferFree(c, buffer)
		if err != nil {
			_ = c.CloseWithError(err)
			return
		}
		if closed, _ := c.IsClosed(); closed {
			return
		}
	}
}

func (e *Engine) deleteConn(c *Conn) {
	e.mux.Lock()
	delete(e.conns, c)
	e.mux.Unlock()
	atomic.AddInt64(&e.online, -1)
	defer e.wgConn.Done()
	e.onClose(c, c.closeErr)
}

// OnOpen registers callback for new connection.
func (e *Engine) OnOpen(h func(c *Conn)) {
	if h == nil {
		panic("invalid nil handler")
	}
	e.onOpen = h
}

// OnClose registers callback for disconnected.
func (e *Engine) OnClose(h func(c *Conn, err error)) {
	if h == nil {
		panic("invalid nil handler")
	}
	e.onClose = h
}

// OnData registers callback for data. data is only valid during the call.
func (e *Engine) OnData(h func(c *Conn, data []byte)) {
	if h == nil {
		panic("invalid nil handler")
	}
	e.onData = h
}

// OnReadBufferAlloc registers callback for memory allocating.
func (e *Engine) OnReadBufferAlloc(h func(c *Conn) []byte) {
	if h == nil {
		panic("invalid nil handler")
	}
	e.onReadBufferAlloc = h
}

// OnReadBufferFree registers callback for memory release.
func (e *Engine) OnReadBufferFree(h func(c *Conn, b []byte)) {
	if h == nil {
		panic("invalid nil handler")
	}
	e.onReadBufferFree = h
}

// OnStop registers callback before Engine is stopped.
func (e *Engine) OnStop(h func()) {
	if h == nil {
		panic("invalid nil handler")
	}
	e.onStop = h
}

func (e *Engine) initHandlers() {
	e.OnOpen(func(c *Conn) {})
	e.OnClose(func(c *Conn, err error) {})
	e.OnData(func(c *Conn, data []byte) {})
	e.OnReadBufferAlloc(func(c *Conn) []byte {
		return mempool.Malloc(e.ReadBufferSize)
	})
	e.OnReadBufferFree(func(c *Conn, buffer []byte) {
		mempool.Free(buffer)
	})
	e.OnStop(func() {})

	if e.Execute == nil {
		e.Execute = func(f func()) {
			f()
		}
	}
}

func stack() []byte {
	const size = 64 << 10
	buf := make([]byte, size)
	return buf[:runtime.Stack(buf, false)]
}
