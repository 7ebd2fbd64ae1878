// Copyright 2020 lesismal. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package http1

import (
	"github.com/lesismal/rawhttp/mempool"
)

// Accumulator keeps the bytes a parser has not consumed yet across fragment arrivals.
//
// Each round is Feed then Consume: Feed first drops the bytes reported by the previous
// Consume and then appends the new fragment, so the returned buffer always starts at the
// first unconsumed byte.
type Accumulator struct {
	buf      []byte
	consumed int
}

// Feed merges fragment into the pending bytes and returns everything not yet consumed.
// The returned slice is only valid until the next call on the Accumulator.
func (a *Accumulator) Feed(fragment []byte) []byte {
	a.discard()
	if len(fragment) > 0 {
		if a.buf == nil {
			a.buf = mempool.Malloc(len(fragment))[:0]
		}
		a.buf = mempool.Append(a.buf, fragment...)
	}
	return a.buf
}

// Consume records that the first n bytes of the last Feed result were used.
func (a *Accumulator) Consume(n int) {
	if n < 0 {
		n = 0
	}
	if n > len(a.buf) {
		n = len(a.buf)
	}
	a.consumed = n
}

// Bytes returns the bytes not consumed so far.
func (a *Accumulator) Bytes() []byte {
	return a.buf[a.consumed:]
}

// Len returns len(Bytes()).
func (a *Accumulator) Len() int {
	return len(a.buf) - a.consumed
}

// Release hands the storage back to the pool and empties the Accumulator.
func (a *Accumulator) Release() {
	if a.buf != nil {
		mempool.Free(a.buf)
	}
	a.buf = nil
	a.consumed = 0
}

func (a *Accumulator) discard() {
	if a.consumed == 0 {
		return
	}
	n := copy(a.buf, a.buf[a.consumed:])
	a.buf = a.buf[:n]
	a.consumed = 0
}
