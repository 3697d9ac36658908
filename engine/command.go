package engine

import "context"

// command is one mutation of canonical state. apply, commit and rollback run
// with the engine lock held; run does not.
type command[R any] interface {
	// apply makes the optimistic local change. Returning false aborts the
	// command before any repository call.
	apply() bool
	run(ctx context.Context) (R, error)
	commit(result R)
	rollback()
}

// execute drives cmd through apply, run and then commit or rollback.
// Failures are recorded on the engine under failMessage and reported as
// false; nothing is returned as an error.
func execute[R any](ctx context.Context, e *Engine, cmd command[R], failMessage string) (R, bool) {
	var zero R

	e.mu.Lock()
	ok := cmd.apply()
	e.mu.Unlock()
	if !ok {
		return zero, false
	}

	result, err := cmd.run(ctx)

	e.mu.Lock()
	if err != nil {
		cmd.rollback()
		e.recordFailure(err, failMessage)
		e.mu.Unlock()
		e.notifyAuth(err)
		return zero, false
	}
	cmd.commit(result)
	e.mu.Unlock()
	return result, true
}
