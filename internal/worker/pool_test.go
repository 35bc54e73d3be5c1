package worker

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"
)

var errUnreadable = errors.New("unreadable notice")

// noticeResult carries the source a job worked on
type noticeResult struct {
	source string
	err    error
}

func (r *noticeResult) GetError() error { return r.err }

// noticeJob pretends to extract one obituary source
type noticeJob struct {
	source string
	delay  time.Duration
	fail   bool
	ran    *atomic.Int32
	active *gauge
}

func (j *noticeJob) Execute(ctx context.Context) Result {
	if j.ran != nil {
		j.ran.Add(1)
	}
	if j.active != nil {
		j.active.enter()
		defer j.active.leave()
	}
	if j.delay > 0 {
		select {
		case <-time.After(j.delay):
		case <-ctx.Done():
			return &noticeResult{source: j.source, err: ctx.Err()}
		}
	}
	if j.fail {
		return &noticeResult{source: j.source, err: errUnreadable}
	}
	return &noticeResult{source: j.source}
}

// gauge records the highest number of jobs running at once
type gauge struct {
	cur, peak atomic.Int32
}

func (g *gauge) enter() {
	n := g.cur.Add(1)
	for {
		p := g.peak.Load()
		if n <= p || g.peak.CompareAndSwap(p, n) {
			return
		}
	}
}

func (g *gauge) leave() { g.cur.Add(-1) }

func TestNewPool_WorkerCount(t *testing.T) {
	for in, want := range map[int]int{5: 5, 0: 1, -3: 1} {
		if got := NewPool(context.Background(), in).workers; got != want {
			t.Errorf("NewPool(%d): expected %d workers, got %d", in, want, got)
		}
	}
}

func TestPool_RunsEveryNotice(t *testing.T) {
	pool := NewPool(context.Background(), 3)
	pool.Start()

	var ran atomic.Int32
	for i := 0; i < 12; i++ {
		pool.Submit(&noticeJob{source: fmt.Sprintf("notice-%d.txt", i), ran: &ran})
	}

	results := pool.Wait()
	if len(results) != 12 {
		t.Errorf("expected 12 results, got %d", len(results))
	}
	if ran.Load() != 12 {
		t.Errorf("expected 12 executions, got %d", ran.Load())
	}
}

func TestPool_NeverExceedsWorkers(t *testing.T) {
	const workers = 4
	pool := NewPool(context.Background(), workers)
	pool.Start()

	g := &gauge{}
	for i := 0; i < 40; i++ {
		pool.Submit(&noticeJob{delay: 5 * time.Millisecond, active: g})
	}
	pool.Wait()

	if peak := g.peak.Load(); peak > workers {
		t.Errorf("peak concurrency %d exceeded %d workers", peak, workers)
	}
}

func TestPool_ErrorsStayWithTheirJob(t *testing.T) {
	pool := NewPool(context.Background(), 2)
	pool.Start()

	pool.Submit(&noticeJob{source: "good.txt"})
	pool.Submit(&noticeJob{source: "bad.txt", fail: true})
	pool.Submit(&noticeJob{source: "also-good.txt"})

	results := pool.Wait()
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for _, r := range results {
		nr := r.(*noticeResult)
		if wantErr := nr.source == "bad.txt"; (nr.err != nil) != wantErr {
			t.Errorf("%s: unexpected error state %v", nr.source, nr.err)
		}
	}
	if !errors.Is(results[1].GetError(), errUnreadable) {
		t.Errorf("expected errUnreadable for bad.txt, got %v", results[1].GetError())
	}
}

func TestPool_ResultsInSubmissionOrder(t *testing.T) {
	pool := NewPool(context.Background(), 4)
	pool.Start()

	const count = 8
	for i := 0; i < count; i++ {
		// later submissions finish first
		pool.Submit(&noticeJob{
			source: fmt.Sprintf("n%d", i),
			delay:  time.Duration(count-i) * 5 * time.Millisecond,
		})
	}

	results := pool.Wait()
	if len(results) != count {
		t.Fatalf("expected %d results, got %d", count, len(results))
	}
	for i, r := range results {
		if got, want := r.(*noticeResult).source, fmt.Sprintf("n%d", i); got != want {
			t.Errorf("position %d: expected %s, got %s", i, want, got)
		}
	}
}

func TestPool_SubmitAfterShutdownReturnsFalse(t *testing.T) {
	// the queue has room after Shutdown, so a racy Submit would accept work
	for i := 0; i < 50; i++ {
		pool := NewPool(context.Background(), 2)
		pool.Start()
		pool.Shutdown()

		done := make(chan bool)
		go func() { done <- pool.Submit(&noticeJob{}) }()

		select {
		case queued := <-done:
			if queued {
				t.Fatalf("run %d: expected Submit to report false after shutdown", i)
			}
		case <-time.After(time.Second):
			t.Fatal("Submit after shutdown blocked")
		}
	}
}

func TestPool_ShutdownInterruptsRunningJob(t *testing.T) {
	pool := NewPool(context.Background(), 1)
	pool.Start()

	g := &gauge{}
	pool.Submit(&noticeJob{delay: 10 * time.Second, active: g})
	for g.cur.Load() == 0 {
		time.Sleep(time.Millisecond)
	}

	stopped := make(chan struct{})
	go func() {
		pool.Shutdown()
		<-pool.collectorDone
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Shutdown did not interrupt the running job")
	}
}

func TestPool_SubmitDoesNotBlockOnBacklog(t *testing.T) {
	pool := NewPool(context.Background(), 1)
	pool.Start()

	done := make(chan []Result)
	go func() {
		for i := 0; i < 200; i++ {
			pool.Submit(&noticeJob{})
		}
		done <- pool.Wait()
	}()

	select {
	case results := <-done:
		if len(results) != 200 {
			t.Errorf("expected 200 results, got %d", len(results))
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Submit blocked with more jobs than channel capacity")
	}
}

func TestPool_ParentCancelStopsPool(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pool := NewPool(ctx, 2)
	pool.Start()
	cancel()

	pool.Submit(&noticeJob{})
	if results := pool.Wait(); len(results) > 1 {
		t.Errorf("expected at most 1 result, got %d", len(results))
	}
}
