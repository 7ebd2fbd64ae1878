// Copyright 2020 lesismal. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package http1

import (
	"bytes"
	"strings"
)

// Header maps lower-cased field-names to their values.
type Header map[string]string

// NewHeader .
func NewHeader() Header {
	return Header{}
}

// Get returns the value of key, matched case-insensitively.
func (h Header) Get(key string) (string, bool) {
	v, ok := h[strings.ToLower(key)]
	return v, ok
}

// Set replaces the value of key.
func (h Header) Set(key, value string) {
	h[strings.ToLower(key)] = value
}

// Add appends value to key, folding repeated names with ", ".
func (h Header) Add(key, value string) {
	key = strings.ToLower(key)
	if v, ok := h[key]; ok {
		h[key] = v + ", " + value
		return
	}
	h[key] = value
}

// Del .
func (h Header) Del(key string) {
	delete(h, strings.ToLower(key))
}

// Len .
func (h Header) Len() int {
	return len(h)
}

// ParseLine parses one field-line at the head of data into h.
//
// StatusDone (with N == 0) means the line is blank and the header block is over.
// StatusIncomplete means either no CRLF yet, or a line that does not yield a name and a
// value; both wait for more data. A field-name byte outside the token set is fatal.
func (h Header) ParseLine(data []byte) Outcome {
	idx := bytes.Index(data, []byte(crlf))
	if idx < 0 {
		return incomplete()
	}

	line := data[:idx]
	colon := bytes.IndexByte(line, ':')
	if colon < 0 {
		if len(trimSpace(line)) == 0 {
			return Outcome{Status: StatusDone}
		}
		return incomplete()
	}

	name := trimLeftSpace(line[:colon])
	for _, c := range name {
		if !isToken(c) {
			return failed(errorf(ErrInvalidCharInHeader, "%q in field-name %q", c, name))
		}
	}

	value := trimSpace(line[colon+1:])
	if len(name) == 0 || len(value) == 0 {
		return incomplete()
	}

	h.Add(lower(name), string(value))

	return parsed(idx + len(crlf))
}
