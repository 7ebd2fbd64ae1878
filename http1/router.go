// Copyright 2020 lesismal. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package http1

import (
	"io"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
)

// Param is a single path parameter captured by a Router pattern.
type Param struct {
	Key   string
	Value string
}

// Params .
type Params []Param

// ByName returns the value of the first Param named name, or "".
func (ps Params) ByName(name string) string {
	for _, p := range ps {
		if p.Key == name {
			return p.Value
		}
	}
	return ""
}

// Router dispatches requests by method and path to Handlers. Patterns follow httprouter:
// "/user/:name" captures one segment, "/static/*filepath" captures the rest.
type Router struct {
	router *httprouter.Router

	// NotFound is called when no pattern matches, it replies 404 by default.
	NotFound Handler
}

// NewRouter .
func NewRouter() *Router {
	return &Router{
		router:   httprouter.New(),
		NotFound: notFound,
	}
}

// routeMatch receives the Handler picked by the httprouter tree. It satisfies
// http.ResponseWriter only to travel through httprouter.Handle.
type routeMatch struct {
	handler Handler
}

func (m *routeMatch) Header() http.Header         { return nil }
func (m *routeMatch) Write(b []byte) (int, error) { return len(b), nil }
func (m *routeMatch) WriteHeader(int)             {}

// Handle registers h for method and path. It panics on conflicting patterns.
func (r *Router) Handle(method, path string, h Handler) {
	if h == nil {
		panic("invalid nil handler")
	}
	r.router.Handle(method, path, func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		if m, ok := w.(*routeMatch); ok {
			m.handler = h
		}
	})
}

// GET .
func (r *Router) GET(path string, h Handler) {
	r.Handle("GET", path, h)
}

// POST .
func (r *Router) POST(path string, h Handler) {
	r.Handle("POST", path, h)
}

// Serve is a Handler dispatching req. The matched path parameters are set on req.Params.
func (r *Router) Serve(w io.Writer, req *Request) *Response {
	path := req.RequestLine.RequestTarget
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if !strings.HasPrefix(path, "/") {
		return r.NotFound(w, req)
	}

	handle, ps, _ := r.router.Lookup(req.RequestLine.Method, path)
	if handle == nil {
		return r.NotFound(w, req)
	}
	m := &routeMatch{}
	handle(m, nil, ps)
	if m.handler == nil {
		return r.NotFound(w, req)
	}

	if len(ps) > 0 {
		req.Params = make(Params, len(ps))
		for i, p := range ps {
			req.Params[i] = Param{Key: p.Key, Value: p.Value}
		}
	}
	return m.handler(w, req)
}

func notFound(w io.Writer, req *Request) *Response {
	res := NewResponse()
	_ = res.WriteStatusLine(StatusNotFound)
	_ = res.WriteBody([]byte("Not Found\n"))
	return res
}
