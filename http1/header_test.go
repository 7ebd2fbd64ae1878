package http1

import (
	"errors"
	"testing"
)

func TestHeaderParseLine(t *testing.T) {
	h := NewHeader()
	out := h.ParseLine([]byte("Host: localhost:42069\r\n\r\n"))
	if out.Status != StatusParsed || out.N != 23 {
		t.Fatalf("invalid outcome: %+v", out)
	}
	if v, ok := h.Get("Host"); !ok || v != "localhost:42069" {
		t.Fatalf("invalid value: %q", v)
	}
	if h.Len() != 1 {
		t.Fatalf("invalid len: %v", h.Len())
	}
}

func TestHeaderParseLineSpacing(t *testing.T) {
	h := NewHeader()
	out := h.ParseLine([]byte("   Host:   localhost   \r\n\r\n"))
	if out.Status != StatusParsed || out.N != 25 {
		t.Fatalf("invalid outcome: %+v", out)
	}
	if h["host"] != "localhost" {
		t.Fatalf("invalid value: %q", h["host"])
	}

	h = NewHeader()
	if out := h.ParseLine([]byte("Accept:\t*/*\t\r\n")); out.Status != StatusParsed || h["accept"] != "*/*" {
		t.Fatalf("invalid outcome: %+v, %v", out, h)
	}
}

func TestHeaderParseLineSuccessive(t *testing.T) {
	data := []byte("Host: localhost:42069\r\nUser-Agent: curl/7.81.0\r\n\r\n")
	h := NewHeader()
	out := h.ParseLine(data)
	if out.Status != StatusParsed || out.N != 23 {
		t.Fatalf("invalid outcome: %+v", out)
	}
	data = data[out.N:]
	out = h.ParseLine(data)
	if out.Status != StatusParsed || out.N != 26 {
		t.Fatalf("invalid outcome: %+v", out)
	}
	data = data[out.N:]
	out = h.ParseLine(data)
	if out.Status != StatusDone || out.N != 0 {
		t.Fatalf("invalid outcome: %+v", out)
	}
	if h["host"] != "localhost:42069" || h["user-agent"] != "curl/7.81.0" {
		t.Fatalf("invalid header: %v", h)
	}
}

func TestHeaderParseLineDone(t *testing.T) {
	for _, data := range []string{"\r\n", "  \r\n", "\t \r\nHost: x\r\n"} {
		h := NewHeader()
		out := h.ParseLine([]byte(data))
		if out.Status != StatusDone || out.N != 0 {
			t.Fatalf("%q: invalid outcome: %+v", data, out)
		}
		if h.Len() != 0 {
			t.Fatalf("%q: unexpected header: %v", data, h)
		}
	}
}

func TestHeaderParseLineFatal(t *testing.T) {
	for _, data := range []string{
		"Host : localhost:42069\r\n\r\n",
		"Ho st: x\r\n",
		"H\"ost: x\r\n",
		"Host\t: x\r\n",
		"{}: x\r\n",
	} {
		h := NewHeader()
		out := h.ParseLine([]byte(data))
		if out.Status != StatusFailed {
			t.Fatalf("%q: invalid status: %v", data, out.Status)
		}
		if !errors.Is(out.Err, ErrInvalidCharInHeader) || !errors.Is(out.Err, ErrMalformedRequest) {
			t.Fatalf("%q: invalid error: %v", data, out.Err)
		}
		if out.N != 0 || h.Len() != 0 {
			t.Fatalf("%q: failed line consumed: %+v, %v", data, out, h)
		}
	}
}

func TestHeaderParseLineSoft(t *testing.T) {
	for _, data := range []string{
		"Host: localhost",
		"Host: localhost\r",
		"no colon here\r\n",
		": value\r\n",
		"   : value\r\n",
		"Host:\r\n",
		"Host:    \r\n",
	} {
		h := NewHeader()
		out := h.ParseLine([]byte(data))
		if out.Status != StatusIncomplete || out.N != 0 || out.Err != nil {
			t.Fatalf("%q: invalid outcome: %+v", data, out)
		}
		if h.Len() != 0 {
			t.Fatalf("%q: unexpected header: %v", data, h)
		}
	}
}

func TestHeaderFold(t *testing.T) {
	h := NewHeader()
	for _, line := range []string{"Set-Person: lane-loves-go\r\n", "set-person: prime-loves-zig\r\n", "SET-PERSON: tj-loves-ocaml\r\n"} {
		if out := h.ParseLine([]byte(line)); out.Status != StatusParsed {
			t.Fatalf("%q: invalid status: %v", line, out.Status)
		}
	}
	want := "lane-loves-go, prime-loves-zig, tj-loves-ocaml"
	if v, _ := h.Get("Set-Person"); v != want {
		t.Fatalf("invalid folded value: %q", v)
	}
	if h.Len() != 1 {
		t.Fatalf("invalid len: %v", h.Len())
	}
}

func TestHeaderSetDel(t *testing.T) {
	h := NewHeader()
	h.Set("Content-Type", "text/plain")
	h.Set("content-type", "text/html")
	if v, ok := h.Get("CONTENT-TYPE"); !ok || v != "text/html" {
		t.Fatalf("invalid value: %q", v)
	}
	h.Del("Content-Type")
	if _, ok := h.Get("content-type"); ok || h.Len() != 0 {
		t.Fatalf("delete failed: %v", h)
	}
}
