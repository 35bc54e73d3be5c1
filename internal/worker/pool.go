package worker

import (
	"context"
	"slices"
	"sync"
)

// Job represents a unit of work to be executed
type Job interface {
	Execute(ctx context.Context) Result
}

// Result represents the result of a job execution
type Result interface {
	GetError() error
}

type indexedJob struct {
	index int
	job   Job
}

type indexedResult struct {
	index  int
	result Result
}

// Pool runs jobs on a fixed number of goroutines and hands the results
// back in submission order
type Pool struct {
	workers       int
	jobQueue      chan indexedJob
	results       chan indexedResult
	wg            sync.WaitGroup
	ctx           context.Context
	cancelFunc    context.CancelFunc
	closeOnce     sync.Once
	submitted     int
	collected     []indexedResult
	collectorDone chan struct{}
}

// NewPool creates a pool bound to ctx; cancelling ctx stops the workers
func NewPool(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool{
		workers:    workers,
		jobQueue:   make(chan indexedJob, workers*2),
		results:    make(chan indexedResult, workers*2),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Start starts the worker goroutines and the result collector.
// Results are drained as they arrive so Submit never blocks on a
// full results channel.
func (p *Pool) Start() {
	p.collectorDone = make(chan struct{})
	go func() {
		defer close(p.collectorDone)
		for ir := range p.results {
			p.collected = append(p.collected, ir)
		}
	}()

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case ij, ok := <-p.jobQueue:
			if !ok {
				return
			}
			result := ij.job.Execute(p.ctx)
			select {
			case p.results <- indexedResult{index: ij.index, result: result}:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues a job. It reports false when the pool was shut down
// before the job could be queued. Submit must not be called
// concurrently with itself or after Wait.
func (p *Pool) Submit(job Job) bool {
	// a stopped pool may still have queue room; never hand it work
	if p.ctx.Err() != nil {
		return false
	}
	select {
	case <-p.ctx.Done():
		return false
	case p.jobQueue <- indexedJob{index: p.submitted, job: job}:
		p.submitted++
		return true
	}
}

// Wait waits for the queued jobs and returns their results in the order
// the jobs were submitted. Jobs abandoned by a shutdown have no result.
func (p *Pool) Wait() []Result {
	close(p.jobQueue)
	p.wg.Wait()
	p.closeResults()
	<-p.collectorDone
	p.cancelFunc()

	slices.SortFunc(p.collected, func(a, b indexedResult) int {
		return a.index - b.index
	})

	results := make([]Result, 0, len(p.collected))
	for _, ir := range p.collected {
		results = append(results, ir.result)
	}
	return results
}

// Shutdown stops the pool immediately
func (p *Pool) Shutdown() {
	p.cancelFunc()
	p.wg.Wait()
	p.closeResults()
}

func (p *Pool) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}
