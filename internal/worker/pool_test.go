package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ItemVault_Go/internal/logger"
	"github.com/osse101/ItemVault_Go/internal/testing/leaktest"
)

type testJob struct {
	executed *int32
	ids      chan string
}

func (j *testJob) Name() string { return "test" }

func (j *testJob) Process(ctx context.Context) error {
	atomic.AddInt32(j.executed, 1)
	if j.ids != nil {
		j.ids <- logger.GetRequestID(ctx)
	}
	return nil
}

type blockingJob struct {
	started chan struct{}
}

func (j *blockingJob) Name() string { return "blocking" }

func (j *blockingJob) Process(ctx context.Context) error {
	close(j.started)
	<-ctx.Done()
	return ctx.Err()
}

func TestPool(t *testing.T) {
	// ARRANGE
	checker := leaktest.NewGoroutineChecker(t)
	var executed int32
	ids := make(chan string, TestExpectedJobCount)
	pool := NewPool(TestWorkerCount, TestQueueSize)
	pool.Start()
	job := &testJob{executed: &executed, ids: ids}

	// ACT
	id1, err := pool.Enqueue(job)
	require.NoError(t, err)
	id2, err := pool.Enqueue(job)
	require.NoError(t, err)

	// ASSERT
	got := map[string]bool{}
	for i := 0; i < TestExpectedJobCount; i++ {
		select {
		case id := <-ids:
			got[id] = true
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for jobs")
		}
	}
	assert.True(t, got[id1])
	assert.True(t, got[id2])
	assert.NotEqual(t, id1, id2)

	pool.Stop()
	assert.Equal(t, int32(TestExpectedJobCount), atomic.LoadInt32(&executed))
	checker.Check(0)
}

func TestPool_TryEnqueueWhenFull(t *testing.T) {
	pool := NewPool(1, 1)
	pool.Start()
	defer pool.Stop()

	blocker := &blockingJob{started: make(chan struct{})}
	_, ok := pool.TryEnqueue(blocker)
	require.True(t, ok)
	<-blocker.started

	var executed int32
	_, ok = pool.TryEnqueue(&testJob{executed: &executed})
	assert.True(t, ok, "one slot in the queue")

	_, ok = pool.TryEnqueue(&testJob{executed: &executed})
	assert.False(t, ok, "queue full")
}

func TestPool_StopCancelsRunningJobs(t *testing.T) {
	pool := NewPool(1, 1)
	pool.Start()

	blocker := &blockingJob{started: make(chan struct{})}
	_, err := pool.Enqueue(blocker)
	require.NoError(t, err)
	<-blocker.started

	pool.Stop()

	_, err = pool.Enqueue(blocker)
	assert.ErrorIs(t, err, ErrPoolStopped)
	_, ok := pool.TryEnqueue(blocker)
	assert.False(t, ok)
}
