// Copyright 2020 lesismal. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package http1

const (
	crlf = "\r\n"

	// specials allowed in a field-name besides letters and digits.
	tokenSpecials = "!#$%&'*+-.^_`|~"
)

var (
	tokenCharMap  = [256]bool{}
	numCharMap    = [256]bool{}
	upperCharMap  = [256]bool{}
	spaceCharMap  = [256]bool{' ': true, '\t': true}
	lowerCaseDist = byte('a' - 'A')
)

func init() {
	for i := byte(0); i < 10; i++ {
		numCharMap['0'+i] = true
		tokenCharMap['0'+i] = true
	}
	for i := byte(0); i < 26; i++ {
		upperCharMap['A'+i] = true
		tokenCharMap['A'+i] = true
		tokenCharMap['a'+i] = true
	}
	for i := 0; i < len(tokenSpecials); i++ {
		tokenCharMap[tokenSpecials[i]] = true
	}
}

func isToken(c byte) bool {
	return tokenCharMap[c]
}

func isNum(c byte) bool {
	return numCharMap[c]
}

func isUpper(c byte) bool {
	return upperCharMap[c]
}

func isSpace(c byte) bool {
	return spaceCharMap[c]
}

// isDigits reports whether s is a non-empty run of 0-9.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isNum(s[i]) {
			return false
		}
	}
	return true
}

// lower lower-cases ASCII letters only, field-names are already known to be tokens.
func lower(b []byte) string {
	buf := make([]byte, len(b))
	for i, c := range b {
		if isUpper(c) {
			c += lowerCaseDist
		}
		buf[i] = c
	}
	return string(buf)
}

func trimLeftSpace(b []byte) []byte {
	i := 0
	for i < len(b) && isSpace(b[i]) {
		i++
	}
	return b[i:]
}

func trimSpace(b []byte) []byte {
	b = trimLeftSpace(b)
	j := len(b)
	for j > 0 && isSpace(b[j-1]) {
		j--
	}
	return b[:j]
}
