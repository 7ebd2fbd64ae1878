// Copyright 2020 lesismal. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package http1

// ParserState is the position of a Parser inside a request.
type ParserState int8

const (
	// StateInitialized waits for the request-line.
	StateInitialized ParserState = iota
	// StateParsingHeaders consumes field-lines until the blank line.
	StateParsingHeaders
	// StateDone is terminal, the request-line and header block are complete.
	StateDone
)

func (s ParserState) String() string {
	switch s {
	case StateInitialized:
		return "initialized"
	case StateParsingHeaders:
		return "parsing headers"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Status tags the Outcome of a single parse step.
type Status int8

const (
	// StatusIncomplete means more bytes are needed, nothing was consumed.
	StatusIncomplete Status = iota
	// StatusParsed means N bytes were consumed and produced a value.
	StatusParsed
	// StatusDone marks the end of the header block, or a complete request for Parser.Parse.
	StatusDone
	// StatusFailed is terminal, Err holds the reason.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIncomplete:
		return "incomplete"
	case StatusParsed:
		return "parsed"
	case StatusDone:
		return "done"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the result of a parse step.
type Outcome struct {
	Status Status
	// N is the number of bytes consumed.
	N int
	// Err is set only when Status is StatusFailed.
	Err error
}

func incomplete() Outcome {
	return Outcome{Status: StatusIncomplete}
}

func parsed(n int) Outcome {
	return Outcome{Status: StatusParsed, N: n}
}

func failed(err error) Outcome {
	return Outcome{Status: StatusFailed, Err: err}
}
