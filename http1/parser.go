// Copyright 2020 lesismal. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package http1

import (
	"bytes"
)

const (
	// DefaultMaxHeaderBytes bounds the unconsumed bytes a parser keeps.
	DefaultMaxHeaderBytes = 1024 * 1024
)

// ParserConfig .
type ParserConfig struct {
	// MaxHeaderBytes is the max size of pending, unconsumed bytes, it's set to 1m by default.
	MaxHeaderBytes int

	// StrictVersion rejects every HTTP version but 1.1.
	StrictVersion bool
}

// Request is a parsed request-line and header block.
type Request struct {
	RequestLine RequestLine
	Header      Header

	// Params holds the path parameters set by a Router.
	Params Params
}

// Parser parses the start-line and header block of one request fed in arbitrary fragments.
// A Parser belongs to a single connection and must not be fed concurrently.
type Parser struct {
	conf ParserConfig

	state  ParserState
	err    error
	line   RequestLine
	header Header

	acc Accumulator
}

// NewParser creates a Parser in StateInitialized.
func NewParser(conf ParserConfig) *Parser {
	if conf.MaxHeaderBytes <= 0 {
		conf.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
	return &Parser{
		conf:   conf,
		state:  StateInitialized,
		header: NewHeader(),
	}
}

// State .
func (p *Parser) State() ParserState {
	return p.state
}

// Err returns the fatal error that stopped the parser, if any.
func (p *Parser) Err() error {
	return p.err
}

// RequestLine returns the start-line once it has been parsed.
func (p *Parser) RequestLine() (RequestLine, bool) {
	if p.state == StateInitialized {
		return RequestLine{}, false
	}
	return p.line, true
}

// Header returns the field-lines parsed so far.
func (p *Parser) Header() Header {
	return p.header
}

// Request returns the parsed request once the parser is done.
func (p *Parser) Request() (*Request, bool) {
	if p.state != StateDone {
		return nil, false
	}
	return &Request{RequestLine: p.line, Header: p.header}, true
}

// Buffered returns the bytes received after the header block. They are not parsed.
func (p *Parser) Buffered() []byte {
	if p.state != StateDone {
		return nil
	}
	return p.acc.Bytes()
}

// Parse feeds one fragment and advances the state machine as far as the pending bytes allow.
//
// It returns StatusIncomplete while more data is needed, StatusDone once the header block is
// complete and StatusFailed on a malformed request. Feeding a done parser fails with
// ErrParserDone, feeding a failed one with ErrParserFailed.
func (p *Parser) Parse(fragment []byte) Outcome {
	switch {
	case p.err != nil:
		return failed(ErrParserFailed)
	case p.state == StateDone:
		return failed(ErrParserDone)
	}

	data := p.acc.Feed(fragment)
	offset := 0
	out := p.advance(data, &offset)
	p.acc.Consume(offset)
	out.N = offset

	if out.Status == StatusIncomplete && p.acc.Len() > p.conf.MaxHeaderBytes {
		out = failed(errorf(ErrTooLong, "%d bytes pending", p.acc.Len()))
		out.N = offset
	}
	if out.Status == StatusFailed {
		p.err = out.Err
	}
	return out
}

func (p *Parser) advance(data []byte, offset *int) Outcome {
	for {
		switch p.state {
		case StateInitialized:
			line, out := parseRequestLine(data[*offset:], p.conf.StrictVersion)
			switch out.Status {
			case StatusIncomplete:
				return incomplete()
			case StatusFailed:
				return out
			}
			p.line = line
			*offset += out.N
			p.state = StateParsingHeaders

		case StateParsingHeaders:
			rest := data[*offset:]
			out := p.header.ParseLine(rest)
			switch out.Status {
			case StatusIncomplete:
				return incomplete()
			case StatusFailed:
				return out
			case StatusDone:
				*offset += bytes.Index(rest, []byte(crlf)) + len(crlf)
				p.state = StateDone
				return Outcome{Status: StatusDone}
			}
			*offset += out.N

		default:
			return failed(ErrParserDone)
		}
	}
}

// Reset makes the parser ready for a new request and releases its buffer.
func (p *Parser) Reset() {
	p.acc.Release()
	p.state = StateInitialized
	p.err = nil
	p.line = RequestLine{}
	p.header = NewHeader()
}

// Release frees the parser's buffer, the parser must not be used afterwards.
func (p *Parser) Release() {
	p.acc.Release()
}
