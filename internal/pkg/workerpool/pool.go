// Package workerpool runs fire-and-forget background jobs. The form service
// uses it for the advisory logic checks that follow every save: the checks
// are diagnostic, so a dropped job under load is acceptable and the latest
// completed run wins.
package workerpool

import (
	"context"
	"log"
	"sync"
	"time"
)

type Job func(ctx context.Context)

type WorkerPool struct {
	queue chan Job
	wg    sync.WaitGroup
}

func NewWorkerPool(ctx context.Context, workerCount int, queueSize int) *WorkerPool {
	pool := &WorkerPool{
		queue: make(chan Job, queueSize),
	}

	for i := 0; i < workerCount; i++ {
		go pool.worker(ctx)
	}

	return pool
}

func (p *WorkerPool) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			log.Println("worker received shutdown signal")
			return
		case job, ok := <-p.queue:
			if !ok {
				// queue closed
				return
			}
			p.wg.Add(1)
			job(ctx) // jobs can watch the cancellation context
			p.wg.Done()
		}
	}
}

// Submit enqueues a job. It never blocks; a full queue drops the job and
// reports false.
func (p *WorkerPool) Submit(job Job) bool {
	select {
	case p.queue <- job:
		return true
	default:
		log.Println("worker pool queue full: job dropped")
		return false
	}
}

func (p *WorkerPool) Shutdown(ctx context.Context) {
	close(p.queue)

	done := make(chan struct{})

	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		log.Println("worker pool shutdown timed out")
	case <-done:
		log.Println("worker pool shutdown complete")
	}
}

// WithRetry wraps a fallible job so the pool retries it with a fixed delay.
func WithRetry(retries int, delay time.Duration, job func() error) Job {
	return func(ctx context.Context) {
		for i := 0; i < retries; i++ {
			if ctx.Err() != nil {
				log.Println("job canceled before execution")
				return
			}

			err := job()

			if err == nil {
				return
			}
			log.Printf("job failed (attempt %d/%d): %v", i+1, retries, err)
			time.Sleep(delay)
		}
		log.Println("job failed after max retries")
	}
}
