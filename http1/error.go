// Copyright 2020 lesismal. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package http1

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedRequest is wrapped by every request-line and field-line error.
	ErrMalformedRequest = errors.New("malformed request")

	// ErrInvalidRequestLine .
	ErrInvalidRequestLine = malformed("invalid request line: expected 3 non-empty parts")

	// ErrInvalidMethod .
	ErrInvalidMethod = malformed("invalid HTTP method")

	// ErrInvalidHTTPVersion .
	ErrInvalidHTTPVersion = malformed("invalid HTTP version")

	// ErrUnsupportedHTTPVersion is returned for any version but 1.1 when StrictVersion is set.
	ErrUnsupportedHTTPVersion = malformed("unsupported HTTP version")

	// ErrInvalidRequestTarget .
	ErrInvalidRequestTarget = malformed("invalid request target")

	// ErrInvalidCharInHeader .
	ErrInvalidCharInHeader = malformed("invalid character in header")

	// ErrTooLong .
	ErrTooLong = malformed("invalid http message: too long")
)

var (
	// ErrParserDone is returned when a finished parser is fed again.
	ErrParserDone = errors.New("parser already done")

	// ErrParserFailed is returned when a parser is fed after a fatal error.
	ErrParserFailed = errors.New("parser already failed")
)

var (
	// ErrResponseFinalized is returned when a Response is modified after Bytes was called.
	ErrResponseFinalized = errors.New("response already finalized")
)

type malformedError struct {
	msg string
}

func (e *malformedError) Error() string {
	return e.msg
}

func (e *malformedError) Unwrap() error {
	return ErrMalformedRequest
}

func malformed(msg string) error {
	return &malformedError{msg: msg}
}

func errorf(err error, format string, v ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{err}, v...)...)
}
