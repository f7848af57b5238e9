package task

import "context"

// Handle is an opaque reference to a spawned task.
// It is only read and written from the scheduler goroutine.
type Handle struct {
	name      string
	ctx       context.Context
	cancel    context.CancelFunc
	done      bool
	err       error
	callbacks []func(error)
}

func newHandle(ctx context.Context, name string) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	return &Handle{name: name, ctx: ctx, cancel: cancel}
}

// Completed returns a handle that is already finished with err.
// Used when an operation is rejected before anything is scheduled.
func Completed(name string, err error) *Handle {
	h := newHandle(context.Background(), name)
	h.finish(err)
	return h
}

// Name returns the label the task was spawned with.
func (h *Handle) Name() string { return h.name }

// Done reports whether the task has finished.
func (h *Handle) Done() bool { return h.done }

// Err returns the task's failure, or nil while running or on success.
func (h *Handle) Err() error { return h.err }

// Context returns the context the task runs under. It is cancelled
// when the task finishes or Cancel is called.
func (h *Handle) Context() context.Context { return h.ctx }

// Cancel requests cancellation. The task fails with context.Canceled
// on the next tick.
func (h *Handle) Cancel() {
	h.cancel()
}

// OnComplete registers fn to run when the task finishes.
// If it already has, fn runs immediately.
func (h *Handle) OnComplete(fn func(err error)) {
	if h.done {
		fn(h.err)
		return
	}
	h.callbacks = append(h.callbacks, fn)
}

func (h *Handle) finish(err error) {
	if h.done {
		return
	}
	h.done = true
	h.err = err
	h.cancel()
	callbacks := h.callbacks
	h.callbacks = nil
	for _, fn := range callbacks {
		fn(err)
	}
}
