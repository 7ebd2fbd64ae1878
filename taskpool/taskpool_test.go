package taskpool

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

const testLoopNum = 1024
const sleepTime = time.Nanosecond * 10

func TestTaskPoolGo(t *testing.T) {
	p := New(8, 64)
	defer p.Stop()

	var n int64
	wg := sync.WaitGroup{}
	wg.Add(testLoopNum)
	for j := 0; j < testLoopNum; j++ {
		p.Go(func() {
			defer wg.Done()
			atomic.AddInt64(&n, 1)
		})
	}
	wg.Wait()
	if n != testLoopNum {
		t.Fatalf("invalid task count: %v != %v", n, testLoopNum)
	}
}

func TestTaskPoolRecover(t *testing.T) {
	p := New(2, 2)
	defer p.Stop()

	done := make(chan struct{})
	p.Go(func() {
		panic("boom")
	})
	p.Go(func() {
		close(done)
	})
	select {
	case <-done:
	case <-time.After(time.Second * 3):
		t.Fatalf("pool stalled after a panicking task")
	}
}

func TestTaskPoolStop(t *testing.T) {
	p := New(1, 1)
	p.Stop()
	p.Stop()
	if err := p.TryGo(func() {}); err != ErrStopped {
		t.Fatalf("TryGo after Stop: %v", err)
	}
}

func BenchmarkTaskPoolGo(b *testing.B) {
	p := New(32, 512)
	defer p.Stop()

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		wg := sync.WaitGroup{}
		wg.Add(testLoopNum)
		for j := 0; j < testLoopNum; j++ {
			p.Go(func() {
				if sleepTime > 0 {
					time.Sleep(sleepTime)
				}
				wg.Done()
			})
		}
		wg.Wait()
	}
}
