// Package task provides a cooperative, frame-driven task runtime.
//
// Tasks never block. The Scheduler polls every live task once per frame
// from the game loop, so all sequencing code runs on one goroutine and
// needs no locking. A task suspends by returning done=false from Poll
// and resumes on the next frame.
package task

import (
	"context"
	"errors"
	"fmt"
)

// ErrTimeout is returned when a suspended task exceeds its time budget.
var ErrTimeout = errors.New("task: timed out")

// Task is a unit of cooperative work.
type Task interface {
	// Poll advances the task by one frame.
	// dt is the frame delta time in seconds.
	// Returns done=true once the task has finished; err reports failure.
	Poll(ctx context.Context, dt float64) (done bool, err error)
}

// Func adapts a plain function to the Task interface.
type Func func(ctx context.Context, dt float64) (bool, error)

// Poll calls fn.
func (fn Func) Poll(ctx context.Context, dt float64) (bool, error) {
	return fn(ctx, dt)
}

// Waitable is anything whose completion can be observed by polling.
type Waitable interface {
	Done() bool
	Err() error
}

// Do runs fn once and finishes in the same frame.
func Do(fn func() error) Task {
	return Func(func(ctx context.Context, dt float64) (bool, error) {
		return true, fn()
	})
}

// Until suspends until cond reports true.
func Until(cond func() bool) Task {
	return Func(func(ctx context.Context, dt float64) (bool, error) {
		return cond(), nil
	})
}

// Await suspends until w is done and finishes with its error.
func Await(w Waitable) Task {
	return Func(func(ctx context.Context, dt float64) (bool, error) {
		if !w.Done() {
			return false, nil
		}
		return true, w.Err()
	})
}

// Lazy defers building a task until its first poll, so decisions that
// depend on engine state are made when the step actually runs.
func Lazy(build func() (Task, error)) Task {
	var inner Task
	return Func(func(ctx context.Context, dt float64) (bool, error) {
		if inner == nil {
			t, err := build()
			if err != nil {
				return true, err
			}
			if t == nil {
				return true, nil
			}
			inner = t
		}
		return inner.Poll(ctx, dt)
	})
}

type sequence struct {
	steps []Task
	idx   int
}

// Seq runs tasks one after another. A finished step hands over to the
// next one within the same frame; the first error stops the sequence.
func Seq(tasks ...Task) Task {
	return &sequence{steps: tasks}
}

func (s *sequence) Poll(ctx context.Context, dt float64) (bool, error) {
	for s.idx < len(s.steps) {
		done, err := s.steps[s.idx].Poll(ctx, dt)
		if err != nil {
			return true, err
		}
		if !done {
			return false, nil
		}
		s.idx++
		// Later steps in this frame have not consumed any time yet.
		dt = 0
	}
	return true, nil
}

type timeout struct {
	inner   Task
	limit   float64
	elapsed float64
}

// WithTimeout fails with ErrTimeout once inner has been suspended for
// limit seconds of scheduler time. A limit of zero or less disables it.
func WithTimeout(limit float64, inner Task) Task {
	if limit <= 0 {
		return inner
	}
	return &timeout{inner: inner, limit: limit}
}

func (t *timeout) Poll(ctx context.Context, dt float64) (bool, error) {
	done, err := t.inner.Poll(ctx, dt)
	if done || err != nil {
		return true, err
	}
	t.elapsed += dt
	if t.elapsed >= t.limit {
		return true, fmt.Errorf("%w after %.2fs", ErrTimeout, t.elapsed)
	}
	return false, nil
}

// Join waits for every waitable to finish. The first error in argument
// order is returned, but only after all of them are done.
func Join(ws ...Waitable) Task {
	return Func(func(ctx context.Context, dt float64) (bool, error) {
		for _, w := range ws {
			if !w.Done() {
				return false, nil
			}
		}
		for _, w := range ws {
			if err := w.Err(); err != nil {
				return true, err
			}
		}
		return true, nil
	})
}
