package queue

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestEnqueueJobRunsAndReportsError(t *testing.T) {
	rqm := NewRequestQueueManager(4, 2)
	defer rqm.Shutdown()

	boom := errors.New("boom")
	errc := make(chan error, 1)
	if !rqm.EnqueueJob(context.Background(), Job{Fn: func() error { return boom }, Errc: errc}) {
		t.Fatal("job was not accepted")
	}
	if err := <-errc; !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestShutdownDrainsQueuedJobs(t *testing.T) {
	rqm := NewRequestQueueManager(8, 1)

	var ran atomic.Int32
	for i := 0; i < 5; i++ {
		rqm.EnqueueJob(context.Background(), Job{Fn: func() error {
			ran.Add(1)
			return nil
		}})
	}
	rqm.Shutdown()

	if got := ran.Load(); got != 5 {
		t.Fatalf("expected 5 jobs to run, got %d", got)
	}
	if rqm.EnqueueJob(context.Background(), Job{Fn: func() error { return nil }}) {
		t.Fatal("expected enqueue after shutdown to be rejected")
	}
}

func TestEnqueueJobHonoursContext(t *testing.T) {
	rqm := NewRequestQueueManager(0, 1)
	release := make(chan struct{})
	defer func() {
		close(release)
		rqm.Shutdown()
	}()

	started := make(chan struct{})
	rqm.EnqueueJob(context.Background(), Job{Fn: func() error {
		close(started)
		<-release
		return nil
	}})
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if rqm.EnqueueJob(ctx, Job{Fn: func() error { return nil }}) {
		t.Fatal("expected enqueue to give up when the only worker is busy")
	}
}
