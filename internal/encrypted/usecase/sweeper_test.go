package usecase

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"chatz/pkg/logger"

	"github.com/stretchr/testify/assert"
)

type countingCleaner struct{ calls atomic.Int32 }

func (c *countingCleaner) CleanupExpired(context.Context) int {
	c.calls.Add(1)
	return 0
}

func TestSweeper_RunsUntilCancelled(t *testing.T) {
	target := &countingCleaner{}
	s := NewSweeper(target, 5*time.Millisecond, logger.Logger{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return target.calls.Load() >= 2 }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
