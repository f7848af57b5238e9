package loader

import (
	"context"
	"fmt"

	"github.com/younwookim/asyncloader/internal/application/scene"
	"github.com/younwookim/asyncloader/internal/application/task"
)

// waitOp suspends until op is done, reporting progress to the fader.
func (l *Loader) waitOp(op scene.Operation, report bool) task.Task {
	return task.WithTimeout(l.cfg.OperationTimeout, task.Func(func(ctx context.Context, dt float64) (bool, error) {
		if report {
			l.fader.ReportProgress(op.Progress())
		}
		if !op.Done() {
			return false, nil
		}
		return true, op.Err()
	}))
}

// loadOne requests an additive load and emits SceneLoaded once the
// engine reports it done. Engine failures are returned, not retried.
// A load whose request is cancelled or times out is handed to trackLoad,
// which unloads the scene if the engine finishes it anyway.
func (l *Loader) loadOne(name string) task.Task {
	var (
		tr   *pendingLoad
		wait task.Task
	)
	return task.Func(func(ctx context.Context, dt float64) (bool, error) {
		if tr == nil {
			if name == "" {
				return true, l.invalid("load")
			}
			op, err := l.engine.LoadSceneAsync(name)
			if err != nil {
				l.log.Errorw("load failed to start", "scene", name, "error", err)
				return true, fmt.Errorf("load %q: %w", name, err)
			}
			l.log.Debugw("loading scene", "scene", name)
			tr = &pendingLoad{name: name, op: op, ctx: ctx}
			wait = wrapErr(l.waitOp(op, true), "load %q", name)
			l.sched.Spawn(context.Background(), "track load "+name, l.trackLoad(tr))
		}

		done, err := wait.Poll(ctx, dt)
		if err != nil {
			tr.abandoned = true
			return true, err
		}
		if !done {
			return false, nil
		}
		tr.claimed = true
		l.emit(Event{Kind: SceneLoaded, Scene: name})
		return true, nil
	})
}

// pendingLoad is shared between a load request and its tracker.
type pendingLoad struct {
	name      string
	op        scene.Operation
	ctx       context.Context
	claimed   bool
	abandoned bool
}

// trackLoad outlives the request that started a load. If the request
// gives up (cancelled or timed out) and the engine still finishes the
// load, the scene is unloaded again without any event, since no
// SceneLoaded was ever announced for it.
func (l *Loader) trackLoad(p *pendingLoad) task.Task {
	return task.Func(func(ctx context.Context, dt float64) (bool, error) {
		if p.claimed {
			return true, nil
		}
		if !p.abandoned && p.ctx.Err() == nil {
			return false, nil
		}
		if !p.op.Done() {
			return false, nil
		}
		if p.op.Err() != nil {
			return true, nil
		}
		l.log.Warnw("scene finished loading after its request was abandoned, unloading", "scene", p.name)
		if _, err := l.engine.UnloadSceneAsync(p.name); err != nil {
			l.log.Errorw("failed to unload abandoned scene", "scene", p.name, "error", err)
		}
		return true, nil
	})
}

// unloadOne unloads name if the engine has it loaded.
func (l *Loader) unloadOne(name string) task.Task {
	return task.Lazy(func() (task.Task, error) {
		if name == "" {
			return nil, l.invalid("unload")
		}
		if !l.engine.IsSceneLoaded(name) {
			l.log.Warnw("scene is not loaded", "scene", name)
			return nil, nil
		}
		if l.engine.IsSceneUnloading(name) {
			l.log.Warnw("scene is already unloading", "scene", name)
			return nil, nil
		}
		op, err := l.engine.UnloadSceneAsync(name)
		if err != nil {
			l.log.Errorw("unload failed to start", "scene", name, "error", err)
			return nil, fmt.Errorf("unload %q: %w", name, err)
		}
		l.log.Debugw("unloading scene", "scene", name)
		return task.Seq(
			wrapErr(l.waitOp(op, false), "unload %q", name),
			task.Do(func() error {
				l.emit(Event{Kind: SceneUnloaded, Scene: name})
				return nil
			}),
		), nil
	})
}

// loadSequence loads names strictly one after another.
func (l *Loader) loadSequence(names []string) task.Task {
	steps := make([]task.Task, len(names))
	for i, name := range names {
		steps[i] = l.loadOne(name)
	}
	return task.Seq(steps...)
}

// activate loads name if needed and then marks it active.
func (l *Loader) activate(name string) task.Task {
	setActive := task.Do(func() error {
		if err := l.engine.SetActiveScene(name); err != nil {
			return fmt.Errorf("set active %q: %w", name, err)
		}
		l.log.Debugw("active scene set", "scene", name)
		return nil
	})
	return task.Lazy(func() (task.Task, error) {
		if l.engine.IsSceneLoaded(name) {
			return setActive, nil
		}
		return task.Seq(l.loadOne(name), setActive), nil
	})
}

// wrapErr prefixes errors from t with a description of the step.
func wrapErr(t task.Task, format string, args ...any) task.Task {
	return task.Func(func(ctx context.Context, dt float64) (bool, error) {
		done, err := t.Poll(ctx, dt)
		if err != nil {
			return true, fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
		}
		return done, nil
	})
}
