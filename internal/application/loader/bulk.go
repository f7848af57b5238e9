package loader

import (
	"context"
	"fmt"

	"github.com/younwookim/asyncloader/internal/application/scene"
	"github.com/younwookim/asyncloader/internal/application/task"
)

type pendingUnload struct {
	name   string
	op     scene.Operation
	logged bool
}

// bulkUnload emits BulkUnloadStarting once, then requests an unload for
// every loaded scene the catalog does not mark persistent. It finishes
// when all of those unloads are done; the first failure is returned.
func (l *Loader) bulkUnload() task.Task {
	return task.Lazy(func() (task.Task, error) {
		l.emit(Event{Kind: BulkUnloadStarting})

		var (
			pending  []*pendingUnload
			firstErr error
		)
		for _, name := range l.engine.LoadedScenes() {
			if l.catalog.IsPersistent(name) {
				l.log.Debugw("keeping persistent scene", "scene", name)
				continue
			}
			if l.engine.IsSceneUnloading(name) {
				l.log.Debugw("scene already unloading", "scene", name)
				continue
			}
			op, err := l.engine.UnloadSceneAsync(name)
			if err != nil {
				l.log.Errorw("failed to unload scene", "scene", name, "error", err)
				if firstErr == nil {
					firstErr = fmt.Errorf("unload %q: %w", name, err)
				}
				continue
			}
			pending = append(pending, &pendingUnload{name: name, op: op})
		}
		l.log.Infow("unloading non-persistent scenes", "count", len(pending))

		wait := task.Func(func(ctx context.Context, dt float64) (bool, error) {
			all := true
			for _, p := range pending {
				if !p.op.Done() {
					all = false
					continue
				}
				if !p.logged {
					p.logged = true
					if err := p.op.Err(); err != nil {
						l.log.Errorw("failed to unload scene", "scene", p.name, "error", err)
						if firstErr == nil {
							firstErr = fmt.Errorf("unload %q: %w", p.name, err)
						}
					} else {
						l.log.Debugw("unloaded scene", "scene", p.name)
					}
				}
			}
			if !all {
				return false, nil
			}
			return true, firstErr
		})
		return task.WithTimeout(l.cfg.OperationTimeout, wait), nil
	})
}
