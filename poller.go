// Copyright 2020 lesismal. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package rawhttp

import (
	"errors"
	"net"
	"sync/atomic"
	"time"

	"github.com/lesismal/rawhttp/logging"
)

// poller owns one listener and its accept loop.
type poller struct {
	e *Engine

	index int

	listener net.Listener
	shutdown int32
}

func newPoller(e *Engine, index int) (*poller, error) {
	ln, err := e.Listen(e.Network, e.Addrs[index])
	if err != nil {
		return nil, err
	}
	return &poller{e: e, index: index, listener: ln}, nil
}

func (p *poller) accept() error {
	conn, err := p.listener.Accept()
	if err != nil {
		return err
	}
	if _, err = p.e.AddConn(conn); err != nil {
		logging.Warn("RAW[%v] listener[%v] drop conn from %v: %v", p.e.Name, p.index, conn.RemoteAddr(), err)
	}
	return nil
}

func (p *poller) start() {
	defer p.e.Done()

	logging.Debug("RAW[%v] listener[%v] start", p.e.Name, p.index)
	defer logging.Debug("RAW[%v] listener[%v] stopped", p.e.Name, p.index)

	for atomic.LoadInt32(&p.shutdown) == 0 {
		err := p.accept()
		if err == nil {
			continue
		}
		if atomic.LoadInt32(&p.shutdown) == 1 || errors.Is(err, net.ErrClosed) {
			return
		}
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			logging.Error("RAW[%v] Accept error: %v; retrying...", p.e.Name, err)
			time.Sleep(time.Second / 20)
			continue
		}
		logging.Error("RAW[%v] Accept error: %v", p.e.Name, err)
		return
	}
}

func (p *poller) stop() {
	if atomic.CompareAndSwapInt32(&p.shutdown, 0, 1) {
		logging.Debug("RAW[%v] listener[%v] stop...", p.e.Name, p.index)
		p.listener.Close()
	}
}
