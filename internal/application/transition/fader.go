// Package transition implements the fade-out / await / fade-in state machine
// that masks scene operations behind a full-screen overlay.
package transition

import (
	"context"
	"errors"
	"fmt"

	"github.com/younwookim/asyncloader/internal/application/state"
	"github.com/younwookim/asyncloader/internal/application/task"
	"github.com/younwookim/asyncloader/internal/infrastructure/log"
)

// ErrFadeInProgress is returned when a fade is requested while another
// one has not returned to Idle yet.
var ErrFadeInProgress = errors.New("transition: fade already in progress")

// MinDuration is the shortest recommended fade, in seconds.
const MinDuration = 0.25

// Overlay is the full-screen surface the fader drives.
type Overlay interface {
	SetOpacity(alpha float64)
	SetVisible(visible bool)
}

// State is a snapshot of the fader.
type State struct {
	Phase   state.Phase
	Fading  bool
	Opacity float64
	// PercentLoaded is best effort, as reported by the wrapped operation.
	PercentLoaded float64
}

// Config controls fade timing.
type Config struct {
	// Duration of each ramp in seconds.
	Duration float64
	// Timeout bounds the whole AwaitingOperation phase in seconds, however
	// many engine operations the wrapped request performs; 0 waits forever.
	// Per-operation limits belong to the loader, not here.
	Timeout float64
}

// Fader owns the overlay and the fade state. Only one fade may be in
// flight; overlapping requests are rejected with ErrFadeInProgress.
type Fader struct {
	sched   *task.Scheduler
	overlay Overlay
	cfg     Config
	log     *log.Logger
	st      State
}

// NewFader creates an idle fader and clears the overlay.
func NewFader(sched *task.Scheduler, overlay Overlay, cfg Config, logger *log.Logger) *Fader {
	f := &Fader{
		sched:   sched,
		overlay: overlay,
		cfg:     cfg,
		log:     logger.Named("fader"),
	}
	f.setOpacity(0)
	return f
}

// State returns the current fade state.
func (f *Fader) State() State { return f.st }

// ReportProgress records the wrapped operation's progress.
func (f *Fader) ReportProgress(p float64) {
	f.st.PercentLoaded = clamp01(p)
}

// Fade fades the overlay in, starts op once the screen is fully opaque,
// waits for it and fades back out. The returned handle finishes with
// op's error after the fade-in, or with task.ErrTimeout if op outlives
// the configured timeout.
//
// op never starts before the fade-out has finished, so nothing it
// unloads or loads is seen half done. A faded request therefore takes
// at least two fade durations plus op's own time.
func (f *Fader) Fade(ctx context.Context, name string, op func(ctx context.Context) *task.Handle) *task.Handle {
	if f.st.Phase.Busy() {
		f.log.Warnw("fade rejected", "request", name, "phase", f.st.Phase.String())
		return task.Completed(name, fmt.Errorf("%s: %w", name, ErrFadeInProgress))
	}

	f.overlay.SetVisible(true)
	f.st.Fading = true
	f.st.PercentLoaded = 0
	f.setPhase(state.PhaseFadingOut)

	r := &run{f: f, name: name, op: op}
	h := f.sched.Spawn(ctx, name, r)
	h.OnComplete(func(err error) {
		// Cancelled from outside: never leave the screen black.
		if f.st.Phase.Busy() {
			r.abort()
		}
	})
	return h
}

func (f *Fader) setPhase(p state.Phase) {
	f.log.Debugw("fade phase", "from", f.st.Phase.String(), "to", p.String())
	f.st.Phase = p
}

func (f *Fader) setOpacity(alpha float64) {
	f.st.Opacity = alpha
	f.overlay.SetOpacity(alpha)
}

func (f *Fader) reset() {
	f.setOpacity(0)
	f.st.Fading = false
	f.overlay.SetVisible(false)
	f.setPhase(state.PhaseIdle)
}

type run struct {
	f       *Fader
	name    string
	op      func(ctx context.Context) *task.Handle
	inner   *task.Handle
	elapsed float64
	waited  float64
	opErr   error
}

func (r *run) Poll(ctx context.Context, dt float64) (bool, error) {
	f := r.f
	switch f.st.Phase {
	case state.PhaseFadingOut:
		if r.ramp(0, 1, dt) {
			f.setPhase(state.PhaseAwaitingOperation)
			r.inner = r.op(ctx)
		}
		return false, nil

	case state.PhaseAwaitingOperation:
		if r.inner.Done() {
			r.opErr = r.inner.Err()
			f.st.PercentLoaded = 1
			f.setPhase(state.PhaseFadingIn)
			return false, nil
		}
		if f.cfg.Timeout > 0 {
			r.waited += dt
			if r.waited >= f.cfg.Timeout {
				f.log.Warnw("fade timed out waiting for operation", "request", r.name, "waited", r.waited)
				r.abort()
				return true, fmt.Errorf("%s: %w", r.name, task.ErrTimeout)
			}
		}
		return false, nil

	case state.PhaseFadingIn:
		if r.ramp(1, 0, dt) {
			f.reset()
			return true, r.opErr
		}
		return false, nil

	default:
		return true, nil
	}
}

// ramp samples a linear fade once per frame and reports true on the
// frame it lands exactly on `to`.
func (r *run) ramp(from, to, dt float64) bool {
	d := r.f.cfg.Duration
	if r.elapsed < d {
		r.f.setOpacity(lerp(from, to, r.elapsed/d))
		r.elapsed += dt
		return false
	}
	r.f.setOpacity(to)
	r.elapsed = 0
	return true
}

func (r *run) abort() {
	if r.inner != nil && !r.inner.Done() {
		r.inner.Cancel()
	}
	r.f.reset()
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*clamp01(t)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
