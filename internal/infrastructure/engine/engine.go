// Package engine hosts additively loaded ebiten scenes.
//
// Scene construction (asset decoding, level parsing) runs on background
// goroutines, bounded by a semaphore. Results are only applied to the
// loaded set from Update, on the game loop, so scene lifecycles and the
// loaded list never change underneath the loader.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/sync/semaphore"

	"github.com/younwookim/asyncloader/internal/application/scene"
	"github.com/younwookim/asyncloader/internal/infrastructure/log"
)

var (
	// ErrUnknownScene is returned when no factory is registered under a name.
	ErrUnknownScene = errors.New("engine: unknown scene")
	// ErrNotLoaded is returned when a scene is expected to be loaded but is not.
	ErrNotLoaded = errors.New("engine: scene not loaded")
)

// Factory builds a scene. It runs on a background goroutine and may report
// progress in [0, 1].
type Factory func(ctx context.Context, progress func(float64)) (scene.Scene, error)

type instance struct {
	name      string
	scene     scene.Scene
	unloading bool
}

// Engine implements loader.Engine over ebiten scenes.
type Engine struct {
	factories map[string]Factory
	loaded    []*instance
	active    *instance
	loads     []*loadOp
	unloads   []*unloadOp

	sem    *semaphore.Weighted
	ctx    context.Context
	cancel context.CancelFunc
	log    *log.Logger
}

// New creates an engine that builds at most maxConcurrent scenes at once.
func New(maxConcurrent int64, logger *log.Logger) *Engine {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Engine{
		factories: make(map[string]Factory),
		sem:       semaphore.NewWeighted(maxConcurrent),
		ctx:       ctx,
		cancel:    cancel,
		log:       logger.Named("engine"),
	}
}

// Register makes a scene known to the build under name.
func (e *Engine) Register(name string, f Factory) {
	e.factories[name] = f
}

// LoadSceneAsync starts building name in the background.
func (e *Engine) LoadSceneAsync(name string) (scene.Operation, error) {
	f, ok := e.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownScene, name)
	}
	op := &loadOp{name: name}
	e.loads = append(e.loads, op)
	go e.build(op, f)
	return op, nil
}

func (e *Engine) build(op *loadOp, f Factory) {
	if err := e.sem.Acquire(e.ctx, 1); err != nil {
		op.finish(nil, err)
		return
	}
	defer e.sem.Release(1)

	s, err := f(e.ctx, op.setProgress)
	if err == nil && s == nil {
		err = fmt.Errorf("factory for %s returned no scene", op.name)
	}
	op.finish(s, err)
}

// UnloadSceneAsync schedules the first loaded instance of name for removal
// on the next Update.
func (e *Engine) UnloadSceneAsync(name string) (scene.Operation, error) {
	for _, inst := range e.loaded {
		if inst.name == name && !inst.unloading {
			inst.unloading = true
			op := &unloadOp{inst: inst}
			e.unloads = append(e.unloads, op)
			return op, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotLoaded, name)
}

// IsSceneLoaded reports whether any instance of name is loaded. A scene
// stays loaded until its unload completes.
func (e *Engine) IsSceneLoaded(name string) bool {
	return e.find(name) != nil
}

// IsSceneUnloading reports whether name is loaded and every loaded
// instance of it already has an unload pending.
func (e *Engine) IsSceneUnloading(name string) bool {
	found := false
	for _, inst := range e.loaded {
		if inst.name != name {
			continue
		}
		if !inst.unloading {
			return false
		}
		found = true
	}
	return found
}

// SetActiveScene marks the first loaded instance of name active.
func (e *Engine) SetActiveScene(name string) error {
	inst := e.find(name)
	if inst == nil {
		return fmt.Errorf("%w: %s", ErrNotLoaded, name)
	}
	e.active = inst
	return nil
}

// ActiveScene returns the active scene's name, or "" if none.
func (e *Engine) ActiveScene() string {
	if e.active == nil {
		return ""
	}
	return e.active.name
}

// LoadedScenes lists loaded scene names in load order.
func (e *Engine) LoadedScenes() []string {
	names := make([]string, len(e.loaded))
	for i, inst := range e.loaded {
		names[i] = inst.name
	}
	return names
}

// Update applies finished loads and pending unloads, then updates every
// loaded scene in load order.
func (e *Engine) Update(dt float64) error {
	e.applyLoads()
	e.applyUnloads()

	for _, inst := range e.loaded {
		if err := inst.scene.Update(dt); err != nil {
			return fmt.Errorf("scene %s: %w", inst.name, err)
		}
	}
	return nil
}

// Draw renders loaded scenes in load order.
func (e *Engine) Draw(screen *ebiten.Image) {
	for _, inst := range e.loaded {
		inst.scene.Draw(screen)
	}
}

// Close stops background builds and exits every loaded scene.
func (e *Engine) Close() {
	e.cancel()
	for i := len(e.loaded) - 1; i >= 0; i-- {
		e.loaded[i].scene.OnExit()
	}
	e.loaded = nil
	e.active = nil
}

func (e *Engine) applyLoads() {
	pending := e.loads[:0]
	for _, op := range e.loads {
		s, finished, err := op.result()
		if !finished {
			pending = append(pending, op)
			continue
		}
		if err != nil {
			e.log.Errorw("scene load failed", "scene", op.name, "error", err)
			op.complete(err)
			continue
		}
		inst := &instance{name: op.name, scene: s}
		e.loaded = append(e.loaded, inst)
		s.OnEnter()
		e.log.Debugw("scene loaded", "scene", op.name)
		op.complete(nil)
	}
	e.loads = pending
}

func (e *Engine) applyUnloads() {
	for _, op := range e.unloads {
		e.remove(op.inst)
		op.inst.scene.OnExit()
		if e.active == op.inst {
			e.active = nil
		}
		e.log.Debugw("scene unloaded", "scene", op.inst.name)
		op.done = true
	}
	e.unloads = nil
}

func (e *Engine) find(name string) *instance {
	for _, inst := range e.loaded {
		if inst.name == name {
			return inst
		}
	}
	return nil
}

func (e *Engine) remove(target *instance) {
	for i, inst := range e.loaded {
		if inst == target {
			e.loaded = append(e.loaded[:i], e.loaded[i+1:]...)
			return
		}
	}
}

// loadOp is shared with the build goroutine; the bg* fields are guarded
// by mu, done and err are only touched on the game loop.
type loadOp struct {
	name string

	mu         sync.Mutex
	progress   float64
	bgScene    scene.Scene
	bgErr      error
	bgFinished bool

	done bool
	err  error
}

func (o *loadOp) setProgress(p float64) {
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	o.mu.Lock()
	o.progress = p
	o.mu.Unlock()
}

func (o *loadOp) finish(s scene.Scene, err error) {
	o.mu.Lock()
	o.bgScene, o.bgErr, o.bgFinished = s, err, true
	if err == nil {
		o.progress = 1
	}
	o.mu.Unlock()
}

func (o *loadOp) result() (scene.Scene, bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.bgScene, o.bgFinished, o.bgErr
}

func (o *loadOp) complete(err error) {
	o.err = err
	o.done = true
}

func (o *loadOp) Done() bool { return o.done }
func (o *loadOp) Err() error { return o.err }

func (o *loadOp) Progress() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.progress
}

type unloadOp struct {
	inst *instance
	done bool
}

func (o *unloadOp) Done() bool { return o.done }
func (o *unloadOp) Err() error { return nil }

func (o *unloadOp) Progress() float64 {
	if o.done {
		return 1
	}
	return 0
}
