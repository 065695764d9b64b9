package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSleepCtxCompletesWhenContextAlive(t *testing.T) {
	done := sleepCtx(context.Background(), time.Millisecond)

	assert.True(t, done)
}

func TestSleepCtxReturnsEarlyOnCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	done := sleepCtx(ctx, 10*time.Second)

	assert.False(t, done)
	assert.Less(t, time.Since(start), time.Second)
}
