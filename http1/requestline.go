// Copyright 2020 lesismal. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package http1

import (
	"bytes"
	"strings"
)

const versionPrefix = "HTTP/"

// RequestLine is the start-line of a request.
type RequestLine struct {
	Method        string
	RequestTarget string
	// HTTPVersion is "major.minor", without the "HTTP/" prefix.
	HTTPVersion string
}

// ParseRequestLine parses the start-line at the head of data with the permissive version
// policy: any <digits>.<digits> is accepted.
func ParseRequestLine(data []byte) (RequestLine, Outcome) {
	return parseRequestLine(data, false)
}

func parseRequestLine(data []byte, strictVersion bool) (RequestLine, Outcome) {
	idx := bytes.Index(data, []byte(crlf))
	if idx < 0 {
		return RequestLine{}, incomplete()
	}

	parts := strings.Split(string(data[:idx]), " ")
	if len(parts) != 3 {
		return RequestLine{}, failed(errorf(ErrInvalidRequestLine, "got %d parts", len(parts)))
	}
	for i, part := range parts {
		if part == "" {
			return RequestLine{}, failed(errorf(ErrInvalidRequestLine, "part %d is empty", i))
		}
	}

	method, target, proto := parts[0], parts[1], parts[2]
	for i := 0; i < len(method); i++ {
		if !isUpper(method[i]) {
			return RequestLine{}, failed(errorf(ErrInvalidMethod, "%q", method))
		}
	}

	version, err := parseVersion(proto)
	if err != nil {
		return RequestLine{}, failed(err)
	}
	if strictVersion && version != "1.1" {
		return RequestLine{}, failed(errorf(ErrUnsupportedHTTPVersion, "%q", proto))
	}

	if target == "" {
		return RequestLine{}, failed(ErrInvalidRequestTarget)
	}

	return RequestLine{
		Method:        method,
		RequestTarget: target,
		HTTPVersion:   version,
	}, parsed(idx + len(crlf))
}

func parseVersion(proto string) (string, error) {
	if !strings.HasPrefix(proto, versionPrefix) {
		return "", errorf(ErrInvalidHTTPVersion, "%q", proto)
	}
	version := proto[len(versionPrefix):]
	major, minor, ok := strings.Cut(version, ".")
	if !ok || !isDigits(major) || !isDigits(minor) {
		return "", errorf(ErrInvalidHTTPVersion, "%q", proto)
	}
	return version, nil
}
