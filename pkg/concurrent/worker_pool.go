package concurrent

import (
	"errors"
	"time"
)

var ErrScheduleTimeout = errors.New("schedule error: timed out")

// WorkerPool bounds the number of goroutines serving connection events.
// Tasks queue on a small channel; when the queue is full a new worker is
// started if the pool is not yet at capacity, otherwise Schedule blocks
// (or times out).
type WorkerPool struct {
	sem  chan struct{}
	work chan func()
}

func NewWorkerPool(maxWorkers, queueSize int) *WorkerPool {
	return &WorkerPool{
		sem:  make(chan struct{}, maxWorkers),
		work: make(chan func(), queueSize),
	}
}

// Spawn pre-starts n idle workers, up to the pool capacity.
func (p *WorkerPool) Spawn(n int) {
	for i := 0; i < n; i++ {
		select {
		case p.sem <- struct{}{}:
			go p.worker(nil)
		default:
			return
		}
	}
}

// Schedule runs task on the pool, blocking until a worker is free.
func (p *WorkerPool) Schedule(task func()) error {
	return p.schedule(task, nil)
}

// ScheduleTimeout is Schedule with an upper bound on the wait.
func (p *WorkerPool) ScheduleTimeout(timeout time.Duration, task func()) error {
	return p.schedule(task, time.After(timeout))
}

func (p *WorkerPool) schedule(task func(), timeout <-chan time.Time) error {
	select {
	case <-timeout:
		return ErrScheduleTimeout
	case p.work <- task:
		return nil
	case p.sem <- struct{}{}:
		go p.worker(task)
		return nil
	}
}

// Close lets workers exit after the queued tasks drain. No Schedule
// calls may follow.
func (p *WorkerPool) Close() {
	close(p.work)
}

func (p *WorkerPool) worker(task func()) {
	defer func() { <-p.sem }()

	if task != nil {
		task()
	}
	for task := range p.work {
		task()
	}
}
