package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Runner executes fire-and-forget background tasks, decoupled from the
// request/response cycle that scheduled them. Task failures are logged, never
// surfaced to the caller.
type Runner struct {
	log     zerolog.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewRunner(log zerolog.Logger) *Runner {
	return &Runner{
		log:     log.With().Str("component", "tasks").Logger(),
		timeout: 2 * time.Minute,
	}
}

// Go schedules fn on its own goroutine with a fresh context; the scheduling
// request's context is deliberately not inherited.
func (r *Runner) Go(name string, fn func(ctx context.Context) error) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			r.log.Error().Err(err).Str("task", name).Msg("background task failed")
		}
	}()
}

// Wait blocks until all scheduled tasks have finished. Used on shutdown and
// in tests.
func (r *Runner) Wait() {
	r.wg.Wait()
}
