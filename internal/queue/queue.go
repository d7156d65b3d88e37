package queue

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

type Job struct {
	Fn   func() error
	Errc chan error
}

// RequestQueueManager runs jobs on a fixed pool of workers fed by a
// bounded channel.
type RequestQueueManager struct {
	JobQueue   chan Job
	MaxWorkers int

	wg       sync.WaitGroup
	mu       sync.RWMutex
	stopped  bool
	stopOnce sync.Once
}

func NewRequestQueueManager(queueSize int, maxWorkers int) *RequestQueueManager {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	manager := &RequestQueueManager{
		JobQueue:   make(chan Job, queueSize),
		MaxWorkers: maxWorkers,
	}
	manager.startWorkers()
	return manager
}

func (rqm *RequestQueueManager) startWorkers() {
	for i := 0; i < rqm.MaxWorkers; i++ {
		rqm.wg.Add(1)
		go func(workerID int) {
			defer rqm.wg.Done()
			log.Debug().Int("worker", workerID).Msg("[queue] worker started")
			for job := range rqm.JobQueue {
				err := job.Fn()
				if job.Errc != nil {
					job.Errc <- err
				}
			}
			log.Debug().Int("worker", workerID).Msg("[queue] worker stopped")
		}(i)
	}
}

// EnqueueJob blocks until a worker slot is free. It reports false when the
// manager is shut down or ctx ends first; the job is then never run.
func (rqm *RequestQueueManager) EnqueueJob(ctx context.Context, job Job) bool {
	rqm.mu.RLock()
	defer rqm.mu.RUnlock()
	if rqm.stopped {
		return false
	}

	select {
	case rqm.JobQueue <- job:
		return true
	case <-ctx.Done():
		return false
	}
}

// Shutdown stops accepting jobs and waits for queued ones to finish.
func (rqm *RequestQueueManager) Shutdown() {
	rqm.stopOnce.Do(func() {
		rqm.mu.Lock()
		rqm.stopped = true
		close(rqm.JobQueue)
		rqm.mu.Unlock()
	})
	rqm.wg.Wait()
}
