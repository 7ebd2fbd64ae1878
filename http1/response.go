// Copyright 2020 lesismal. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package http1

import (
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/lesismal/rawhttp/mempool"
)

// StatusCode .
type StatusCode int

const (
	StatusOK                  StatusCode = 200
	StatusBadRequest          StatusCode = 400
	StatusNotFound            StatusCode = 404
	StatusInternalServerError StatusCode = 500
)

var reasonPhrases = map[StatusCode]string{
	StatusOK:                  "OK",
	StatusBadRequest:          "Bad Request",
	StatusInternalServerError: "Internal Server Error",
}

// ReasonPhrase returns the phrase of a known code and "" for any other.
func ReasonPhrase(code StatusCode) string {
	return reasonPhrases[code]
}

const (
	contentTypeHeader      = "Content-Type"
	connectionHeader       = "Connection"
	contentLengthHeader    = "Content-Length"
	transferEncodingHeader = "Transfer-Encoding"

	responseVersion = "1.1"
)

type headerField struct {
	key   string
	value string
}

// Response assembles a status line, a header block and a body.
//
// A Response is write-once: Bytes finalizes it and every later Write* call returns
// ErrResponseFinalized.
type Response struct {
	statusCode StatusCode
	fields     []headerField
	body       []byte
	finalized  bool
}

// NewResponse creates a 200 Response carrying the default headers
// "Content-Type: text/plain" and "Connection: close".
func NewResponse() *Response {
	return &Response{
		statusCode: StatusOK,
		fields: []headerField{
			{key: contentTypeHeader, value: "text/plain"},
			{key: connectionHeader, value: "close"},
		},
	}
}

// StatusCode .
func (res *Response) StatusCode() StatusCode {
	return res.statusCode
}

// Header returns the current value of key, matched case-insensitively.
func (res *Response) Header(key string) (string, bool) {
	if i := res.index(key); i >= 0 {
		return res.fields[i].value, true
	}
	return "", false
}

// Body .
func (res *Response) Body() []byte {
	return res.body
}

// WriteStatusLine sets the status code. Unknown codes get an empty reason phrase.
func (res *Response) WriteStatusLine(code StatusCode) error {
	if res.finalized {
		return ErrResponseFinalized
	}
	res.statusCode = code
	return nil
}

// WriteHeaders merges extra over the current headers. Existing keys, matched
// case-insensitively, keep their position and spelling and take the new value; new keys
// are appended in sorted order. Calling it with no headers changes nothing.
func (res *Response) WriteHeaders(extra map[string]string) error {
	if res.finalized {
		return ErrResponseFinalized
	}
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		res.set(k, extra[k])
	}
	return nil
}

// WriteBody sets the body and its Content-Length.
func (res *Response) WriteBody(body []byte) error {
	if res.finalized {
		return ErrResponseFinalized
	}
	res.body = append(res.body[:0], body...)
	res.set(contentLengthHeader, strconv.Itoa(len(body)))
	return nil
}

// Bytes returns status line, header block and body, and finalizes the Response.
func (res *Response) Bytes() []byte {
	res.finalized = true
	buf := res.appendHead(nil)
	return append(buf, res.body...)
}

// WriteTo writes Bytes to w.
func (res *Response) WriteTo(w io.Writer) (int64, error) {
	res.finalized = true
	buf := res.appendHead(mempool.Malloc(res.headSize() + len(res.body))[:0])
	buf = mempool.Append(buf, res.body...)
	n, err := w.Write(buf)
	mempool.Free(buf)
	return int64(n), err
}

// WriteHead writes the status line and header block only, for a body streamed afterwards
// with WriteChunkedBody. It finalizes the Response.
func (res *Response) WriteHead(w io.Writer) error {
	res.finalized = true
	buf := res.appendHead(mempool.Malloc(res.headSize())[:0])
	_, err := w.Write(buf)
	mempool.Free(buf)
	return err
}

func (res *Response) appendHead(buf []byte) []byte {
	buf = mempool.AppendString(buf, "HTTP/"+responseVersion+" ")
	buf = mempool.AppendString(buf, strconv.Itoa(int(res.statusCode)))
	buf = mempool.AppendString(buf, " ")
	buf = mempool.AppendString(buf, ReasonPhrase(res.statusCode))
	buf = mempool.AppendString(buf, crlf)
	for _, f := range res.fields {
		buf = mempool.AppendString(buf, f.key)
		buf = mempool.AppendString(buf, ": ")
		buf = mempool.AppendString(buf, f.value)
		buf = mempool.AppendString(buf, crlf)
	}
	return mempool.AppendString(buf, crlf)
}

func (res *Response) headSize() int {
	// "HTTP/1.1 " + code + " " + reason + CRLF
	n := 9 + 3 + 1 + len(ReasonPhrase(res.statusCode)) + 2
	for _, f := range res.fields {
		n += len(f.key) + 2 + len(f.value) + 2
	}
	return n + 2
}

func (res *Response) index(key string) int {
	for i, f := range res.fields {
		if strings.EqualFold(f.key, key) {
			return i
		}
	}
	return -1
}

func (res *Response) set(key, value string) {
	if i := res.index(key); i >= 0 {
		res.fields[i].value = value
		return
	}
	res.fields = append(res.fields, headerField{key: key, value: value})
}

// WriteChunkedBody writes chunk to w as one chunked transfer-coding frame. An empty chunk
// writes nothing, the stream is ended with WriteChunkedBodyDone.
func WriteChunkedBody(w io.Writer, chunk []byte) (int, error) {
	if len(chunk) == 0 {
		return 0, nil
	}
	size := strconv.FormatInt(int64(len(chunk)), 16)
	buf := mempool.Malloc(len(size) + len(chunk) + 4)[:0]
	buf = mempool.AppendString(buf, size)
	buf = mempool.AppendString(buf, crlf)
	buf = mempool.Append(buf, chunk...)
	buf = mempool.AppendString(buf, crlf)
	_, err := w.Write(buf)
	mempool.Free(buf)
	if err != nil {
		return 0, err
	}
	return len(chunk), nil
}

// WriteChunkedBodyDone writes the terminal zero-length chunk.
func WriteChunkedBodyDone(w io.Writer) error {
	_, err := io.WriteString(w, "0"+crlf+crlf)
	return err
}

// ChunkedWriter is an io.Writer turning every Write into one chunk frame.
type ChunkedWriter struct {
	w io.Writer
}

// NewChunkedWriter .
func NewChunkedWriter(w io.Writer) *ChunkedWriter {
	return &ChunkedWriter{w: w}
}

// Write .
func (cw *ChunkedWriter) Write(p []byte) (int, error) {
	return WriteChunkedBody(cw.w, p)
}

// Close writes the terminal chunk, it does not close the underlying writer.
func (cw *ChunkedWriter) Close() error {
	return WriteChunkedBodyDone(cw.w)
}
