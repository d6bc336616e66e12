package patch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathLocks_FailFastWhileHeld(t *testing.T) {
	locks := newPathLocks()
	ctx := context.Background()

	release, err := locks.acquire(ctx, "/tmp/a", true)
	require.NoError(t, err)

	_, err = locks.acquire(ctx, "/tmp/a", true)
	require.Error(t, err)
	assert.True(t, IsCode(err, CodeBusy))

	release()

	release2, err := locks.acquire(ctx, "/tmp/a", true)
	require.NoError(t, err)
	release2()
}

func TestPathLocks_DifferentPathsAreIndependent(t *testing.T) {
	locks := newPathLocks()
	ctx := context.Background()

	releaseA, err := locks.acquire(ctx, "/tmp/a", true)
	require.NoError(t, err)
	defer releaseA()

	releaseB, err := locks.acquire(ctx, "/tmp/b", true)
	require.NoError(t, err)
	releaseB()
}

func TestPathLocks_BlockingAcquireWaitsForRelease(t *testing.T) {
	locks := newPathLocks()
	ctx := context.Background()

	release, err := locks.acquire(ctx, "/tmp/a", false)
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		release2, err := locks.acquire(ctx, "/tmp/a", false)
		assert.NoError(t, err)
		release2()
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("second acquire succeeded while lock was held")
	case <-time.After(20 * time.Millisecond):
	}

	release()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second acquire never completed after release")
	}
}

func TestPathLocks_CancelWhileWaiting(t *testing.T) {
	locks := newPathLocks()

	release, err := locks.acquire(context.Background(), "/tmp/a", false)
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	errs := make(chan error, 1)
	go func() {
		_, err := locks.acquire(ctx, "/tmp/a", false)
		errs <- err
	}()

	cancel()

	select {
	case err := <-errs:
		require.Error(t, err)
		assert.True(t, IsCode(err, CodeBusy))
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("waiter did not observe cancellation")
	}
}

func TestPathLocks_EntriesAreReclaimed(t *testing.T) {
	locks := newPathLocks()

	release, err := locks.acquire(context.Background(), "/tmp/a", true)
	require.NoError(t, err)
	release()

	locks.mu.Lock()
	defer locks.mu.Unlock()
	assert.Empty(t, locks.entries)
}
