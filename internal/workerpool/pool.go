// Package workerpool runs plain-data jobs on a fixed set of goroutines.
package workerpool

import (
	"errors"
	"runtime"
	"sync"
)

// ErrClosed is returned by Submit after Close.
var ErrClosed = errors.New("workerpool: closed")

// Pool executes jobs of type J with a single handler. Jobs carry all of their
// inputs; the handler must not share mutable state between jobs beyond what
// the job itself points to.
type Pool[J any] struct {
	jobs    chan J
	handler func(J)
	workers int

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// New starts a pool. workers <= 0 means one goroutine per CPU.
func New[J any](workers, queue int, handler func(J)) *Pool[J] {
	if workers <= 0 {
		workers = max(runtime.NumCPU(), 1)
	}
	if queue < 0 {
		queue = 0
	}
	p := &Pool[J]{
		jobs:    make(chan J, queue),
		handler: handler,
		workers: workers,
	}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

// Workers returns the number of goroutines serving the pool.
func (p *Pool[J]) Workers() int {
	return p.workers
}

// Submit enqueues a job, blocking while the queue is full.
func (p *Pool[J]) Submit(job J) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	p.jobs <- job
	return nil
}

// Close stops accepting jobs and waits for queued ones to finish.
func (p *Pool[J]) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()
	p.wg.Wait()
}

func (p *Pool[J]) worker() {
	defer p.wg.Done()
	for job := range p.jobs {
		p.handler(job)
	}
}
