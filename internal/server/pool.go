package server

import (
	"errors"
	"fmt"
	"sync"
)

var errPoolClosed = errors.New("worker pool is closed")

// workerPool runs capture decodes on a fixed set of goroutines so that a
// burst of uploads cannot start an unbounded number of decoders.
type workerPool struct {
	jobs chan func()
	done chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

func newWorkerPool(size int) *workerPool {
	if size < 1 {
		size = 1
	}
	p := &workerPool{
		jobs: make(chan func()),
		done: make(chan struct{}),
	}
	p.wg.Add(size)
	for i := 0; i < size; i++ {
		go func() {
			defer p.wg.Done()
			for {
				select {
				case job := <-p.jobs:
					job()
				case <-p.done:
					return
				}
			}
		}()
	}
	return p
}

// Do runs fn on a worker and waits for it to finish. A panic in fn is
// returned as an error, as is a call after Close.
func (p *workerPool) Do(fn func() error) error {
	result := make(chan error, 1)
	job := func() {
		defer func() {
			if r := recover(); r != nil {
				result <- fmt.Errorf("worker panic: %v", r)
			}
		}()
		result <- fn()
	}

	select {
	case <-p.done:
		return errPoolClosed
	default:
	}
	select {
	case p.jobs <- job:
	case <-p.done:
		return errPoolClosed
	}
	return <-result
}

// Close stops the workers once their current jobs finish. It is safe to
// call more than once.
func (p *workerPool) Close() {
	p.once.Do(func() {
		close(p.done)
	})
	p.wg.Wait()
}
