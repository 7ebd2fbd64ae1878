// Copyright 2020 lesismal. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package mempool

import (
	"sync"
)

// Allocator hands out byte slices and takes them back when they are no longer used.
type Allocator interface {
	Malloc(size int) []byte
	Realloc(buf []byte, size int) []byte
	Append(buf []byte, more ...byte) []byte
	AppendString(buf []byte, more string) []byte
	Free(buf []byte)
}

// DefaultMemPool backs read buffers, parser accumulators and response buffers.
var DefaultMemPool = New(1024, 1024*1024)

// MemPool recycles buffers whose capacity is at most freeSize through a sync.Pool;
// larger buffers are left to the GC.
type MemPool struct {
	bufSize  int
	freeSize int
	pool     *sync.Pool
}

// New .
func New(bufSize, freeSize int) Allocator {
	if bufSize <= 0 {
		bufSize = 64
	}
	if freeSize <= 0 {
		freeSize = 64 * 1024
	}
	if freeSize < bufSize {
		freeSize = bufSize
	}

	mp := &MemPool{
		bufSize:  bufSize,
		freeSize: freeSize,
		pool:     &sync.Pool{},
	}
	mp.pool.New = func() interface{} {
		buf := make([]byte, bufSize)
		return &buf
	}

	return mp
}

// Malloc returns a slice of len size.
func (mp *MemPool) Malloc(size int) []byte {
	if size > mp.freeSize {
		return make([]byte, size)
	}
	pbuf := mp.pool.Get().(*[]byte)
	if cap(*pbuf) < size {
		mp.pool.Put(pbuf)
		return make([]byte, size, mp.roundUp(size))
	}
	return (*pbuf)[:size]
}

// Realloc returns a slice of len size holding buf's content, buf must not be used afterwards.
func (mp *MemPool) Realloc(buf []byte, size int) []byte {
	if size <= cap(buf) {
		return buf[:size]
	}
	newBuf := mp.Malloc(size)
	copy(newBuf, buf)
	mp.Free(buf)
	return newBuf
}

// Append appends more to buf, growing it from the pool when needed.
func (mp *MemPool) Append(buf []byte, more ...byte) []byte {
	if len(more) == 0 {
		return buf
	}
	l := len(buf)
	if l+len(more) > cap(buf) {
		buf = mp.Realloc(buf, mp.roundUp(l+len(more)))
	}
	buf = buf[:l+len(more)]
	copy(buf[l:], more)
	return buf
}

// AppendString .
func (mp *MemPool) AppendString(buf []byte, more string) []byte {
	if len(more) == 0 {
		return buf
	}
	l := len(buf)
	if l+len(more) > cap(buf) {
		buf = mp.Realloc(buf, mp.roundUp(l+len(more)))
	}
	buf = buf[:l+len(more)]
	copy(buf[l:], more)
	return buf
}

// Free puts buf back into the pool.
func (mp *MemPool) Free(buf []byte) {
	if cap(buf) == 0 || cap(buf) > mp.freeSize {
		return
	}
	buf = buf[:0]
	mp.pool.Put(&buf)
}

func (mp *MemPool) roundUp(size int) int {
	n := mp.bufSize
	for n < size {
		n <<= 1
	}
	return n
}

// Malloc exports default package method.
func Malloc(size int) []byte {
	return DefaultMemPool.Malloc(size)
}

// Realloc exports default package method.
func Realloc(buf []byte, size int) []byte {
	return DefaultMemPool.Realloc(buf, size)
}

// Append exports default package method.
func Append(buf []byte, more ...byte) []byte {
	return DefaultMemPool.Append(buf, more...)
}

// AppendString exports default package method.
func AppendString(buf []byte, more string) []byte {
	return DefaultMemPool.AppendString(buf, more)
}

// Free exports default package method.
func Free(buf []byte) {
	DefaultMemPool.Free(buf)
}

// Init replaces DefaultMemPool.
func Init(bufSize, freeSize int) {
	DefaultMemPool = New(bufSize, freeSize)
}
