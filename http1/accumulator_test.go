package http1

import (
	"testing"
)

func TestAccumulator(t *testing.T) {
	var a Accumulator
	defer a.Release()

	if b := a.Feed(nil); len(b) != 0 {
		t.Fatalf("invalid buffer: %q", b)
	}
	if b := a.Feed([]byte("GET / HT")); string(b) != "GET / HT" {
		t.Fatalf("invalid buffer: %q", b)
	}
	a.Consume(0)
	if b := a.Feed([]byte("TP/1.1\r\nHo")); string(b) != "GET / HTTP/1.1\r\nHo" {
		t.Fatalf("invalid buffer: %q", b)
	}
	a.Consume(16)
	if string(a.Bytes()) != "Ho" || a.Len() != 2 {
		t.Fatalf("invalid pending bytes: %q", a.Bytes())
	}
	if b := a.Feed([]byte("st: x\r\n")); string(b) != "Host: x\r\n" {
		t.Fatalf("invalid buffer: %q", b)
	}
	a.Consume(9)
	if b := a.Feed(nil); len(b) != 0 {
		t.Fatalf("invalid buffer: %q", b)
	}
}

func TestAccumulatorConsumeBounds(t *testing.T) {
	var a Accumulator
	defer a.Release()

	a.Feed([]byte("abc"))
	a.Consume(-1)
	if a.Len() != 3 {
		t.Fatalf("invalid len: %v", a.Len())
	}
	a.Consume(10)
	if a.Len() != 0 {
		t.Fatalf("invalid len: %v", a.Len())
	}
	if b := a.Feed([]byte("d")); string(b) != "d" {
		t.Fatalf("invalid buffer: %q", b)
	}
}

func TestAccumulatorGrow(t *testing.T) {
	var a Accumulator
	defer a.Release()

	want := make([]byte, 0, 64*1024)
	for i := 0; i < 64*1024; i++ {
		c := byte('a' + i%26)
		want = append(want, c)
		if b := a.Feed([]byte{c}); len(b) != len(want) {
			t.Fatalf("invalid len: %v, want %v", len(b), len(want))
		}
	}
	if string(a.Bytes()) != string(want) {
		t.Fatalf("pending bytes differ")
	}

	a.Release()
	if a.Len() != 0 || len(a.Bytes()) != 0 {
		t.Fatalf("release left bytes: %v", a.Len())
	}
}
