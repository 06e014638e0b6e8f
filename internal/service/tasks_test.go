package service

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestRunnerRunsTask(t *testing.T) {
	r := NewRunner(zerolog.Nop())

	var ran atomic.Bool
	r.Go("mark", func(ctx context.Context) error {
		ran.Store(true)
		return nil
	})
	r.Wait()

	assert.True(t, ran.Load())
}

func TestRunnerWaitCoversAllTasks(t *testing.T) {
	r := NewRunner(zerolog.Nop())

	var count atomic.Int32
	for i := 0; i < 5; i++ {
		r.Go("count", func(ctx context.Context) error {
			count.Add(1)
			return nil
		})
	}
	r.Wait()

	assert.Equal(t, int32(5), count.Load())
}

func TestRunnerSwallowsTaskError(t *testing.T) {
	r := NewRunner(zerolog.Nop())

	r.Go("fail", func(ctx context.Context) error {
		return assert.AnError
	})

	// Must not panic or block; the failure is only logged.
	r.Wait()
}

func TestRunnerTaskGetsLiveContext(t *testing.T) {
	r := NewRunner(zerolog.Nop())

	var taskErr error
	r.Go("live-context", func(ctx context.Context) error {
		taskErr = ctx.Err()
		return nil
	})
	r.Wait()

	assert.NoError(t, taskErr)
}
