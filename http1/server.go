// Copyright 2020 lesismal. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package http1

import (
	"errors"
	"io"
	"net"
	"runtime"
	"sync"

	"github.com/lesismal/rawhttp"
	"github.com/lesismal/rawhttp/logging"
	"github.com/lesismal/rawhttp/taskpool"
)

const (
	// DefaultHandlerQueueSize .
	DefaultHandlerQueueSize = 1024
)

// Handler responds to a parsed request. w is the connection: a handler that streams its
// own response, e.g. a chunked body, writes to w and returns nil. Otherwise the returned
// Response is written to the connection.
type Handler func(w io.Writer, req *Request) *Response

// Config .
type Config struct {
	rawhttp.Config

	// Parser configures the parser of every connection.
	Parser ParserConfig

	// HandlerPoolSize represents max handler goroutine num, it's set to runtime.NumCPU() * 256 by default.
	HandlerPoolSize int

	// HandlerQueueSize represents the handler task queue size, it's set to 1024 by default.
	HandlerQueueSize int

	// DisableBadRequestReply closes a connection carrying a malformed request without
	// writing "400 Bad Request" first.
	DisableBadRequestReply bool
}

// Server connects an Engine, one Parser per connection and a Handler.
// Each connection serves a single request and is closed afterwards.
type Server struct {
	*rawhttp.Engine

	conf    Config
	handler Handler
	pool    *taskpool.TaskPool
}

type session struct {
	mux    sync.Mutex
	parser *Parser
}

// detach takes the parser out of the session, later fragments are ignored.
func (s *session) detach() *Parser {
	s.mux.Lock()
	p := s.parser
	s.parser = nil
	s.mux.Unlock()
	return p
}

// NewServer .
func NewServer(conf Config, handler Handler) *Server {
	if handler == nil {
		panic("invalid nil handler")
	}
	if conf.HandlerPoolSize <= 0 {
		conf.HandlerPoolSize = runtime.NumCPU() * 256
	}
	if conf.HandlerQueueSize <= 0 {
		conf.HandlerQueueSize = DefaultHandlerQueueSize
	}

	engine := rawhttp.NewEngine(conf.Config)
	pool := taskpool.New(conf.HandlerPoolSize, conf.HandlerQueueSize)
	engine.Execute = pool.Go

	s := &Server{
		Engine:  engine,
		conf:    conf,
		handler: handler,
		pool:    pool,
	}

	engine.OnOpen(s.onOpen)
	engine.OnData(s.onData)
	engine.OnClose(s.onClose)
	engine.OnStop(pool.Stop)

	return s
}

func (s *Server) onOpen(c *rawhttp.Conn) {
	c.SetSession(&session{parser: NewParser(s.conf.Parser)})
}

func (s *Server) onData(c *rawhttp.Conn, data []byte) {
	sess, ok := c.Session().(*session)
	if !ok {
		logging.Error("RAW[%v] invalid session on conn %v", s.Name, c.RemoteAddr())
		_ = c.Close()
		return
	}

	sess.mux.Lock()
	p := sess.parser
	if p == nil {
		sess.mux.Unlock()
		return
	}
	out := p.Parse(data)
	if out.Status != StatusIncomplete {
		sess.parser = nil
	}
	sess.mux.Unlock()

	switch out.Status {
	case StatusIncomplete:
	case StatusDone:
		req, _ := p.Request()
		p.Release()
		c.Execute(func() {
			s.serve(c, req)
		})
	case StatusFailed:
		p.Release()
		logging.Debug("RAW[%v] parse request from %v failed: %v", s.Name, c.RemoteAddr(), out.Err)
		if s.conf.DisableBadRequestReply || !errors.Is(out.Err, ErrMalformedRequest) {
			_ = c.CloseWithError(out.Err)
			return
		}
		c.Execute(func() {
			s.writeError(c, StatusBadRequest)
			_ = c.CloseWithError(out.Err)
		})
	}
}

func (s *Server) onClose(c *rawhttp.Conn, err error) {
	sess, ok := c.Session().(*session)
	if !ok {
		return
	}
	if p := sess.detach(); p != nil {
		logging.Debug("RAW[%v] conn %v closed before the request was complete: %v", s.Name, c.RemoteAddr(), err)
		p.Release()
	}
}

func (s *Server) serve(c *rawhttp.Conn, req *Request) {
	defer c.Close()

	w := &countingWriter{w: c}
	res, panicked := s.call(w, req)
	if panicked {
		if w.n == 0 {
			s.writeError(c, StatusInternalServerError)
		}
		return
	}
	if res == nil {
		return
	}
	if _, err := res.WriteTo(c); err != nil && !errors.Is(err, net.ErrClosed) {
		logging.Debug("RAW[%v] write response to %v failed: %v", s.Name, c.RemoteAddr(), err)
	}
}

func (s *Server) call(w io.Writer, req *Request) (res *Response, panicked bool) {
	defer func() {
		if err := recover(); err != nil {
			const size = 64 << 10
			buf := make([]byte, size)
			buf = buf[:runtime.Stack(buf, false)]
			logging.Error("RAW[%v] handler for %v %v failed: %v\n%s\n", s.Name, req.RequestLine.Method, req.RequestLine.RequestTarget, err, buf)
			panicked = true
		}
	}()
	return s.handler(w, req), false
}

func (s *Server) writeError(w io.Writer, code StatusCode) {
	res := NewResponse()
	_ = res.WriteStatusLine(code)
	_ = res.WriteBody([]byte(ReasonPhrase(code) + "\n"))
	if _, err := res.WriteTo(w); err != nil {
		logging.Debug("RAW[%v] write %d response failed: %v", s.Name, code, err)
	}
}

type countingWriter struct {
	w io.Writer
	n int
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += n
	return n, err
}
