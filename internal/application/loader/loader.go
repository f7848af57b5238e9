// Package loader orchestrates additive scene loading and unloading.
//
// Every entry point returns a *task.Handle immediately; the work itself
// runs on the task scheduler, one poll per frame. A request may unload
// every non-persistent scene first, load one or more scenes in order,
// mark one of them active, and be masked by a fade transition. When a
// fade is requested it brackets the whole composite (unload, load,
// activate), which starts only once the screen is fully opaque.
package loader

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/younwookim/asyncloader/internal/application/scene"
	"github.com/younwookim/asyncloader/internal/application/task"
	"github.com/younwookim/asyncloader/internal/application/transition"
	"github.com/younwookim/asyncloader/internal/domain/catalog"
	"github.com/younwookim/asyncloader/internal/infrastructure/log"
)

// ErrInvalidScene is returned for an empty scene name.
var ErrInvalidScene = errors.New("loader: invalid scene")

// Engine is the scene host the loader drives. The loader never keeps its
// own copy of the loaded set; it asks the engine before every decision.
type Engine interface {
	// LoadSceneAsync starts an additive load. Unknown names fail here.
	LoadSceneAsync(name string) (scene.Operation, error)
	UnloadSceneAsync(name string) (scene.Operation, error)
	// IsSceneLoaded stays true until an unload completes.
	IsSceneLoaded(name string) bool
	// IsSceneUnloading reports whether every loaded instance of name
	// already has an unload in flight.
	IsSceneUnloading(name string) bool
	SetActiveScene(name string) error
	// LoadedScenes lists loaded scenes in load order.
	LoadedScenes() []string
}

// Config controls loader timing.
type Config struct {
	// OperationTimeout bounds every wait on the engine, in seconds; 0 disables.
	OperationTimeout float64
}

// Request describes one orchestration call.
type Request struct {
	Scenes       []string
	Active       string
	UnloadOthers bool
	Fade         bool
}

// Option customises a load request.
type Option func(*Request)

// WithActive marks name as the active scene once everything is loaded.
func WithActive(name string) Option {
	return func(r *Request) { r.Active = name }
}

// WithUnloadOthers unloads every non-persistent scene before loading.
func WithUnloadOthers() Option {
	return func(r *Request) { r.UnloadOthers = true }
}

// WithFade masks the request behind a fade transition.
func WithFade() Option {
	return func(r *Request) { r.Fade = true }
}

// Loader is the scene transition orchestrator.
type Loader struct {
	engine    Engine
	catalog   *catalog.Catalog
	sched     *task.Scheduler
	fader     *transition.Fader
	cfg       Config
	log       *log.Logger
	listeners []Listener
}

// New creates a loader.
func New(engine Engine, cat *catalog.Catalog, sched *task.Scheduler, fader *transition.Fader, cfg Config, logger *log.Logger) *Loader {
	return &Loader{
		engine:  engine,
		catalog: cat,
		sched:   sched,
		fader:   fader,
		cfg:     cfg,
		log:     logger.Named("loader"),
	}
}

// LoadScene loads a single scene additively.
func (l *Loader) LoadScene(ctx context.Context, name string, opts ...Option) *task.Handle {
	return l.Load(ctx, newRequest([]string{name}, opts))
}

// LoadScenes loads scenes one after another in list order.
func (l *Loader) LoadScenes(ctx context.Context, names []string, opts ...Option) *task.Handle {
	return l.Load(ctx, newRequest(names, opts))
}

// Load runs a fully specified request.
func (l *Loader) Load(ctx context.Context, req Request) *task.Handle {
	label := "load " + strings.Join(req.Scenes, ",")
	l.log.Infow("load requested",
		"scenes", req.Scenes,
		"active", req.Active,
		"unloadOthers", req.UnloadOthers,
		"fade", req.Fade,
	)

	composite := func(ctx context.Context) *task.Handle {
		return l.sched.Spawn(ctx, label, l.compose(req))
	}
	if req.Fade {
		return l.fader.Fade(ctx, label, composite)
	}
	return composite(ctx)
}

// UnloadScene unloads one scene if it is loaded. Unloading a scene that
// is not loaded only logs a warning.
func (l *Loader) UnloadScene(ctx context.Context, name string) *task.Handle {
	return l.sched.Spawn(ctx, "unload "+name, l.unloadOne(name))
}

// UnloadScenes unloads each scene independently, one handle per element.
func (l *Loader) UnloadScenes(ctx context.Context, names []string) []*task.Handle {
	handles := make([]*task.Handle, len(names))
	for i, name := range names {
		handles[i] = l.UnloadScene(ctx, name)
	}
	return handles
}

// UnloadNonPersistent unloads every loaded scene the catalog does not
// mark persistent. The handle completes once every unload has finished.
func (l *Loader) UnloadNonPersistent(ctx context.Context) *task.Handle {
	return l.sched.Spawn(ctx, "unload non-persistent", l.bulkUnload())
}

// All joins handles into one that finishes when every one of them has.
func (l *Loader) All(ctx context.Context, handles ...*task.Handle) *task.Handle {
	ws := make([]task.Waitable, len(handles))
	for i, h := range handles {
		ws[i] = h
	}
	return l.sched.Spawn(ctx, "join", task.Join(ws...))
}

// LoadedScenes lists the scenes the engine currently has loaded.
func (l *Loader) LoadedScenes() []string {
	return l.engine.LoadedScenes()
}

// PersistentScenes lists the configured persistent scenes.
func (l *Loader) PersistentScenes() []string {
	return l.catalog.Persistent()
}

// FadeState returns the fade state snapshot.
func (l *Loader) FadeState() transition.State {
	return l.fader.State()
}

// IsFading reports whether a fade transition is in flight.
func (l *Loader) IsFading() bool {
	return l.fader.State().Fading
}

// PercentLoaded returns the best-effort progress of the current load.
func (l *Loader) PercentLoaded() float64 {
	return l.fader.State().PercentLoaded
}

func newRequest(names []string, opts []Option) Request {
	req := Request{Scenes: names}
	for _, opt := range opts {
		opt(&req)
	}
	return req
}

func (l *Loader) compose(req Request) task.Task {
	var steps []task.Task
	if req.UnloadOthers {
		steps = append(steps, l.bulkUnload())
	}
	steps = append(steps, l.loadSequence(req.Scenes))
	if req.Active != "" {
		steps = append(steps, l.activate(req.Active))
	}
	return task.Seq(steps...)
}

func (l *Loader) invalid(op string) error {
	l.log.Warnw("scene is empty", "op", op)
	return fmt.Errorf("%s: %w", op, ErrInvalidScene)
}
