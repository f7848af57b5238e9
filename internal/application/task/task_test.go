package task

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeOp struct {
	done bool
	err  error
}

func (f *fakeOp) Done() bool { return f.done }
func (f *fakeOp) Err() error { return f.err }

func TestSeq(t *testing.T) {
	t.Run("runs steps in order", func(t *testing.T) {
		var order []int
		step := func(i int) Task {
			return Do(func() error {
				order = append(order, i)
				return nil
			})
		}
		done, err := Seq(step(1), step(2), step(3)).Poll(context.Background(), dt)
		assert.True(t, done)
		assert.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, order)
	})

	t.Run("suspends on unfinished step", func(t *testing.T) {
		op := &fakeOp{}
		ran := false
		seq := Seq(Await(op), Do(func() error {
			ran = true
			return nil
		}))

		done, _ := seq.Poll(context.Background(), dt)
		assert.False(t, done)
		assert.False(t, ran)

		op.done = true
		done, err := seq.Poll(context.Background(), dt)
		assert.True(t, done)
		assert.NoError(t, err)
		assert.True(t, ran)
	})

	t.Run("stops on first error", func(t *testing.T) {
		boom := errors.New("boom")
		ran := false
		seq := Seq(Do(func() error { return boom }), Do(func() error {
			ran = true
			return nil
		}))
		done, err := seq.Poll(context.Background(), dt)
		assert.True(t, done)
		assert.ErrorIs(t, err, boom)
		assert.False(t, ran)
	})
}

func TestAwait_PropagatesError(t *testing.T) {
	op := &fakeOp{done: true, err: assert.AnError}
	done, err := Await(op).Poll(context.Background(), dt)
	assert.True(t, done)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestLazy_BuildsOnFirstPoll(t *testing.T) {
	built := 0
	lazy := Lazy(func() (Task, error) {
		built++
		return Until(func() bool { return built > 0 }), nil
	})
	assert.Equal(t, 0, built)

	done, err := lazy.Poll(context.Background(), dt)
	assert.True(t, done)
	assert.NoError(t, err)
	assert.Equal(t, 1, built)
}

func TestLazy_NilTaskFinishes(t *testing.T) {
	done, err := Lazy(func() (Task, error) { return nil, nil }).Poll(context.Background(), dt)
	assert.True(t, done)
	assert.NoError(t, err)
}

func TestWithTimeout(t *testing.T) {
	t.Run("expires", func(t *testing.T) {
		tt := WithTimeout(0.105, Until(func() bool { return false }))
		var err error
		done := false
		polls := 0
		for !done && polls < 100 {
			done, err = tt.Poll(context.Background(), dt)
			polls++
		}
		assert.True(t, done)
		assert.ErrorIs(t, err, ErrTimeout)
		assert.Equal(t, 7, polls)
	})

	t.Run("zero disables", func(t *testing.T) {
		inner := Until(func() bool { return false })
		tt := WithTimeout(0, inner)
		for i := 0; i < 1000; i++ {
			done, err := tt.Poll(context.Background(), dt)
			assert.False(t, done)
			assert.NoError(t, err)
		}
	})

	t.Run("inner finishes first", func(t *testing.T) {
		op := &fakeOp{}
		tt := WithTimeout(1, Await(op))
		done, _ := tt.Poll(context.Background(), dt)
		assert.False(t, done)
		op.done = true
		done, err := tt.Poll(context.Background(), dt)
		assert.True(t, done)
		assert.NoError(t, err)
	})
}

func TestJoin(t *testing.T) {
	a, b := &fakeOp{}, &fakeOp{}
	join := Join(a, b)

	a.done, a.err = true, assert.AnError
	done, err := join.Poll(context.Background(), dt)
	assert.False(t, done, "join waits for every member even after a failure")
	assert.NoError(t, err)

	b.done = true
	done, err = join.Poll(context.Background(), dt)
	assert.True(t, done)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestJoin_Empty(t *testing.T) {
	done, err := Join().Poll(context.Background(), dt)
	assert.True(t, done)
	assert.NoError(t, err)
}
