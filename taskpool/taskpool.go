// Copyright 2020 lesismal. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package taskpool

import (
	"errors"
	"sync"
	"sync/atomic"
)

// ErrStopped is returned by TryGo once the pool is stopped.
var ErrStopped = errors.New("taskpool stopped")

const (
	runningFlag = iota
	closedFlag
)

// TaskPool runs tasks on at most maxConcurrent goroutines; tasks beyond that wait in a queue
// and are picked up by the busy goroutines when they finish.
type TaskPool struct {
	concurrent    int64
	maxConcurrent int64
	closed        int64
	chQueue       chan func()
	chClose       chan struct{}
	wg            sync.WaitGroup
}

// Go runs f on the pool, blocking while the queue is full. It is a no-op once stopped.
func (tp *TaskPool) Go(f func()) {
	_ = tp.TryGo(f)
}

// TryGo is Go reporting whether f was accepted.
func (tp *TaskPool) TryGo(f func()) error {
	if f == nil {
		return nil
	}
	if tp.isClosed() {
		return ErrStopped
	}

	if atomic.AddInt64(&tp.concurrent, 1) <= tp.maxConcurrent {
		tp.wg.Add(1)
		go tp.run(f)
		return nil
	}

	atomic.AddInt64(&tp.concurrent, -1)
	select {
	case tp.chQueue <- f:
		return nil
	case <-tp.chClose:
		return ErrStopped
	}
}

func (tp *TaskPool) run(f func()) {
	defer func() {
		atomic.AddInt64(&tp.concurrent, -1)
		tp.wg.Done()
	}()
	call(f)
	for {
		select {
		case f = <-tp.chQueue:
			call(f)
		default:
			return
		}
	}
}

// Running returns the number of busy goroutines.
func (tp *TaskPool) Running() int {
	return int(atomic.LoadInt64(&tp.concurrent))
}

func (tp *TaskPool) isClosed() bool {
	return atomic.LoadInt64(&tp.closed) == closedFlag
}

func (tp *TaskPool) setClosed() bool {
	return atomic.CompareAndSwapInt64(&tp.closed, runningFlag, closedFlag)
}

// Stop refuses new tasks, drains the queue and waits for running tasks to finish.
func (tp *TaskPool) Stop() {
	if !tp.setClosed() {
		return
	}
	close(tp.chClose)
	for {
		select {
		case f := <-tp.chQueue:
			call(f)
			continue
		default:
		}
		break
	}
	tp.wg.Wait()
}

// New .
func New(maxConcurrent int, queueSize int) *TaskPool {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	tp := &TaskPool{
		maxConcurrent: int64(maxConcurrent),
		chQueue:       make(chan func(), queueSize),
		chClose:       make(chan struct{}),
	}
	// the queue drainer keeps queued tasks moving when every runner has already exited.
	tp.wg.Add(1)
	go func() {
		defer tp.wg.Done()
		for {
			select {
			case f := <-tp.chQueue:
				call(f)
			case <-tp.chClose:
				return
			}
		}
	}()
	return tp
}
