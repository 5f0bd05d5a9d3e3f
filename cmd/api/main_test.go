package main

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSweeper struct {
	calls atomic.Int32
}

func (s *stubSweeper) DeleteExpired(ctx context.Context) (int64, error) {
	s.calls.Add(1)
	return 1, nil
}

func TestSweepExpiredTokensRunsOnIntervalAndStopsOnCancel(t *testing.T) {
	sweeper := &stubSweeper{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		sweepExpiredTokens(ctx, sweeper, 10*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return sweeper.calls.Load() >= 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweep goroutine did not stop after cancellation")
	}

	settled := sweeper.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, settled, sweeper.calls.Load(), "no sweeps may run after shutdown")
}
