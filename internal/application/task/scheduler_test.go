package task

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dt = 1.0 / 60.0

// countdown finishes after n polls.
func countdown(n int, polls *int) Task {
	return Func(func(ctx context.Context, dt float64) (bool, error) {
		*polls++
		return *polls >= n, nil
	})
}

func TestScheduler_SpawnedTaskStartsNextTick(t *testing.T) {
	s := NewScheduler()
	polls := 0
	h := s.Spawn(context.Background(), "count", countdown(3, &polls))

	assert.Equal(t, 0, polls, "Spawn must not poll")
	assert.False(t, h.Done())
	assert.Equal(t, 1, s.Len())

	s.Tick(dt)
	assert.Equal(t, 1, polls)
	s.Tick(dt)
	s.Tick(dt)
	assert.True(t, h.Done())
	assert.NoError(t, h.Err())
	assert.Equal(t, 0, s.Len())

	s.Tick(dt)
	assert.Equal(t, 3, polls, "finished tasks are not polled again")
	assert.Equal(t, 4, s.Frame())
	assert.InDelta(t, 4*dt, s.Now(), 1e-9)
}

func TestScheduler_PollOrderFollowsSpawnOrder(t *testing.T) {
	s := NewScheduler()
	var order []string
	for _, name := range []string{"a", "b", "c"} {
		name := name
		s.Spawn(context.Background(), name, Do(func() error {
			order = append(order, name)
			return nil
		}))
	}
	s.Tick(dt)
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestScheduler_SpawnDuringTickIsDeferred(t *testing.T) {
	s := NewScheduler()
	var child *Handle
	s.Spawn(context.Background(), "parent", Do(func() error {
		child = s.Spawn(context.Background(), "child", Do(func() error { return nil }))
		return nil
	}))

	s.Tick(dt)
	require.NotNil(t, child)
	assert.False(t, child.Done())

	s.Tick(dt)
	assert.True(t, child.Done())
}

func TestScheduler_ErrorFinishesHandle(t *testing.T) {
	s := NewScheduler()
	boom := errors.New("boom")
	h := s.Spawn(context.Background(), "fail", Do(func() error { return boom }))

	var got error
	calls := 0
	h.OnComplete(func(err error) {
		calls++
		got = err
	})

	s.Tick(dt)
	assert.True(t, h.Done())
	assert.ErrorIs(t, h.Err(), boom)
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, got, boom)
}

func TestHandle_Cancel(t *testing.T) {
	s := NewScheduler()
	h := s.Spawn(context.Background(), "forever", Until(func() bool { return false }))

	s.Tick(dt)
	assert.False(t, h.Done())

	h.Cancel()
	s.Tick(dt)
	assert.True(t, h.Done())
	assert.ErrorIs(t, h.Err(), context.Canceled)
}

func TestHandle_ParentContextCancel(t *testing.T) {
	s := NewScheduler()
	ctx, cancel := context.WithCancel(context.Background())
	h := s.Spawn(ctx, "forever", Until(func() bool { return false }))

	cancel()
	s.Tick(dt)
	assert.ErrorIs(t, h.Err(), context.Canceled)
}

func TestHandle_OnCompleteAfterDone(t *testing.T) {
	h := Completed("rejected", assert.AnError)
	assert.True(t, h.Done())
	assert.Equal(t, "rejected", h.Name())

	var got error
	h.OnComplete(func(err error) { got = err })
	assert.ErrorIs(t, got, assert.AnError)
	assert.ErrorIs(t, h.Context().Err(), context.Canceled)
}
