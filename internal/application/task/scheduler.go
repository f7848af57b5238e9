package task

import "context"

type entry struct {
	handle *Handle
	task   Task
}

// Scheduler polls spawned tasks once per Tick, in spawn order.
// Tasks spawned during a Tick are first polled on the following Tick.
type Scheduler struct {
	now     float64
	frame   int
	running []entry
	pending []entry
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Spawn schedules t under ctx and returns its handle.
func (s *Scheduler) Spawn(ctx context.Context, name string, t Task) *Handle {
	if ctx == nil {
		ctx = context.Background()
	}
	h := newHandle(ctx, name)
	s.pending = append(s.pending, entry{handle: h, task: t})
	return h
}

// Tick advances scheduler time by dt seconds and polls every live task.
func (s *Scheduler) Tick(dt float64) {
	s.now += dt
	s.frame++

	if len(s.pending) > 0 {
		s.running = append(s.running, s.pending...)
		s.pending = nil
	}

	live := s.running[:0]
	for _, e := range s.running {
		if e.handle.done {
			continue
		}
		if err := e.handle.ctx.Err(); err != nil {
			e.handle.finish(err)
			continue
		}
		done, err := e.task.Poll(e.handle.ctx, dt)
		if done || err != nil {
			e.handle.finish(err)
			continue
		}
		live = append(live, e)
	}
	// Clear the tail so finished tasks can be collected.
	for i := len(live); i < len(s.running); i++ {
		s.running[i] = entry{}
	}
	s.running = live
}

// Now returns the accumulated scheduler time in seconds.
func (s *Scheduler) Now() float64 { return s.now }

// Frame returns the number of ticks so far.
func (s *Scheduler) Frame() int { return s.frame }

// Len returns the number of tasks that have not finished yet.
func (s *Scheduler) Len() int {
	n := len(s.pending)
	for _, e := range s.running {
		if !e.handle.done {
			n++
		}
	}
	return n
}
