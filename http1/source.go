// Copyright 2020 lesismal. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package http1

import (
	"errors"
	"io"
)

// DefaultReadSize is the fragment size of a ReaderSource created with size <= 0.
const DefaultReadSize = 1024 * 4

// Source produces a finite sequence of byte fragments. Next returns io.EOF once the input
// is exhausted, any other error is a transport error. A fragment is only valid until the
// next call.
type Source interface {
	Next() ([]byte, error)
}

// ReaderSource reads fragments from a stream or socket.
type ReaderSource struct {
	r   io.Reader
	buf []byte
}

// NewReaderSource .
func NewReaderSource(r io.Reader, size int) *ReaderSource {
	if size <= 0 {
		size = DefaultReadSize
	}
	return &ReaderSource{r: r, buf: make([]byte, size)}
}

// Next .
func (s *ReaderSource) Next() ([]byte, error) {
	for {
		n, err := s.r.Read(s.buf)
		if n > 0 {
			// the error, if any, is returned again by the next Read.
			return s.buf[:n], nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// ChunkSource emits data in fixed-size pieces, the last one may be shorter.
type ChunkSource struct {
	data []byte
	size int
	pos  int
}

// NewChunkSource .
func NewChunkSource(data []byte, size int) *ChunkSource {
	if size <= 0 {
		size = 1
	}
	return &ChunkSource{data: data, size: size}
}

// Next .
func (s *ChunkSource) Next() ([]byte, error) {
	if s.pos >= len(s.data) {
		return nil, io.EOF
	}
	end := s.pos + s.size
	if end > len(s.data) {
		end = len(s.data)
	}
	chunk := s.data[s.pos:end]
	s.pos = end
	return chunk, nil
}

// ReadRequest drives a Parser with src until the header block is complete.
//
// A transport error is returned as is, end of input before the header block is over
// returns io.ErrUnexpectedEOF and a malformed request returns an error wrapping
// ErrMalformedRequest.
func ReadRequest(src Source, conf ParserConfig) (*Request, error) {
	p := NewParser(conf)
	defer p.Release()

	for {
		fragment, err := src.Next()
		if len(fragment) > 0 {
			out := p.Parse(fragment)
			switch out.Status {
			case StatusDone:
				req, _ := p.Request()
				return req, nil
			case StatusFailed:
				return nil, out.Err
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.ErrUnexpectedEOF
			}
			return nil, err
		}
	}
}
