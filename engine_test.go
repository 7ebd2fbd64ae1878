package rawhttp

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"testing"
	"time"
)

func TestEngineEcho(t *testing.T) {
	e := NewEngine(Config{Addrs: []string{"127.0.0.1:0"}, ReadBufferSize: 4})
	e.OnData(func(c *Conn, data []byte) {
		if len(data) > 4 {
			t.Errorf("fragment larger than read buffer: %v", len(data))
		}
		if _, err := c.Write(data); err != nil {
			t.Errorf("write failed: %v", err)
		}
	})
	if err := e.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer e.Stop()

	c, err := net.Dial("tcp", e.Addrs[0])
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	msg := "GET /coffee HTTP/1.1\r\nHost: localhost:42069\r\n\r\n"
	if _, err := c.Write([]byte(msg)); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	_ = c.SetReadDeadline(time.Now().Add(5 * time.Second))
	buf := make([]byte, len(msg))
	if _, err := io.ReadFull(c, buf); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(buf) != msg {
		t.Fatalf("invalid echo: %q", buf)
	}
}

func TestEngineOpenClose(t *testing.T) {
	e := NewEngine(Config{})
	opened := make(chan *Conn, 1)
	closed := make(chan error, 1)
	e.OnOpen(func(c *Conn) {
		opened <- c
	})
	e.OnClose(func(c *Conn, err error) {
		closed <- err
	})
	if err := e.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer e.Stop()

	client, server := net.Pipe()
	c, err := e.AddConn(server)
	if err != nil {
		t.Fatalf("AddConn failed: %v", err)
	}
	if got := <-opened; got != c {
		t.Fatalf("OnOpen got another conn")
	}
	if e.Online() != 1 {
		t.Fatalf("invalid online num: %v", e.Online())
	}

	errClosing := errors.New("closing")
	_ = c.CloseWithError(errClosing)
	_ = c.Close()
	if err := <-closed; !errors.Is(err, errClosing) {
		t.Fatalf("invalid close reason: %v", err)
	}
	if closed, err := c.IsClosed(); !closed || !errors.Is(err, errClosing) {
		t.Fatalf("invalid close state: %v, %v", closed, err)
	}
	if e.Online() != 0 {
		t.Fatalf("invalid online num: %v", e.Online())
	}
	client.Close()
}

func TestEngineOverload(t *testing.T) {
	e := NewEngine(Config{MaxLoad: 1})
	if err := e.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	_, s1 := net.Pipe()
	if _, err := e.AddConn(s1); err != nil {
		t.Fatalf("AddConn failed: %v", err)
	}
	_, s2 := net.Pipe()
	if _, err := e.AddConn(s2); !errors.Is(err, ErrOverload) {
		t.Fatalf("AddConn over MaxLoad: %v", err)
	}

	e.Stop()
	if e.Online() != 0 {
		t.Fatalf("invalid online num after Stop: %v", e.Online())
	}
	_, s3 := net.Pipe()
	if _, err := e.AddConn(s3); !errors.Is(err, ErrEngineStopped) {
		t.Fatalf("AddConn after Stop: %v", err)
	}
}

func TestConnExecuteOrder(t *testing.T) {
	e := NewEngine(Config{})
	e.Execute = func(f func()) {
		go f()
	}
	if err := e.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer e.Stop()

	_, server := net.Pipe()
	c, err := e.AddConn(server)
	if err != nil {
		t.Fatalf("AddConn failed: %v", err)
	}

	const n = 1000
	var (
		wg  sync.WaitGroup
		mux sync.Mutex
		got []int
	)
	wg.Add(n)
	for i := 0; i < n; i++ {
		i := i
		c.Execute(func() {
			defer wg.Done()
			if i%100 == 0 {
				panic("recovered")
			}
			mux.Lock()
			got = append(got, i)
			mux.Unlock()
		})
	}
	wg.Wait()

	prev := -1
	for _, v := range got {
		if v <= prev {
			t.Fatalf("tasks out of order: %v after %v", v, prev)
		}
		prev = v
	}
	if len(got) != n-n/100 {
		t.Fatalf("invalid task num: %v", len(got))
	}

	_ = c.Close()
	if c.Execute(func() {}) {
		t.Fatalf("Execute on a closed conn")
	}
}

func TestEngineShutdown(t *testing.T) {
	e := NewEngine(Config{Addrs: []string{"127.0.0.1:0"}})
	if err := e.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	c, err := net.Dial("tcp", e.Addrs[0])
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}
	_ = c.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, err := c.Read(make([]byte, 1)); err == nil {
		t.Fatalf("conn still open after Shutdown")
	}
}
