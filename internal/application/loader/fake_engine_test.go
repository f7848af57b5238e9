package loader

import (
	"errors"
	"fmt"

	"github.com/younwookim/asyncloader/internal/application/scene"
)

var (
	errUnknownScene = errors.New("fake: unknown scene")
	errNotLoaded    = errors.New("fake: scene not loaded")
)

type opKind int

const (
	opLoad opKind = iota
	opUnload
)

// fakeOp completes after a fixed number of engine frames
type fakeOp struct {
	kind      opKind
	name      string
	left      int
	total     int
	never     bool
	failWith  error
	done      bool
	err       error
	started   int
	doneFrame int
}

func (o *fakeOp) Done() bool { return o.done }
func (o *fakeOp) Err() error { return o.err }

func (o *fakeOp) Progress() float64 {
	if o.done {
		return 1
	}
	if o.total == 0 {
		return 0
	}
	return float64(o.total-o.left) / float64(o.total)
}

// fakeEngine is a test double for Engine with frame-based latency
type fakeEngine struct {
	known   map[string]bool
	loaded  []string
	active  string
	latency int
	// unloading counts instances per name with an unload in flight,
	// mirroring the real engine's per-instance flag
	unloading map[string]int
	frame     int

	never    map[string]bool
	failLoad map[string]error

	ops         []*fakeOp
	loadCalls   []string
	unloadCalls []string
	activeCalls []string
}

var _ Engine = (*fakeEngine)(nil)

func newFakeEngine(latency int, known ...string) *fakeEngine {
	e := &fakeEngine{
		known:     make(map[string]bool),
		latency:   latency,
		unloading: make(map[string]int),
		never:     make(map[string]bool),
		failLoad:  make(map[string]error),
	}
	for _, n := range known {
		e.known[n] = true
	}
	return e
}

// preload marks scenes as already loaded without going through an op
func (e *fakeEngine) preload(names ...string) {
	e.loaded = append(e.loaded, names...)
}

func (e *fakeEngine) LoadSceneAsync(name string) (scene.Operation, error) {
	e.loadCalls = append(e.loadCalls, name)
	if !e.known[name] {
		return nil, fmt.Errorf("%w: %s", errUnknownScene, name)
	}
	op := &fakeOp{kind: opLoad, name: name, left: e.latency, total: e.latency, never: e.never[name], failWith: e.failLoad[name], started: e.frame}
	e.ops = append(e.ops, op)
	return op, nil
}

func (e *fakeEngine) UnloadSceneAsync(name string) (scene.Operation, error) {
	e.unloadCalls = append(e.unloadCalls, name)
	if !e.IsSceneLoaded(name) || e.IsSceneUnloading(name) {
		return nil, fmt.Errorf("%w: %s", errNotLoaded, name)
	}
	e.unloading[name]++
	op := &fakeOp{kind: opUnload, name: name, left: e.latency, total: e.latency, started: e.frame}
	e.ops = append(e.ops, op)
	return op, nil
}

func (e *fakeEngine) IsSceneLoaded(name string) bool {
	for _, n := range e.loaded {
		if n == name {
			return true
		}
	}
	return false
}

func (e *fakeEngine) IsSceneUnloading(name string) bool {
	n := 0
	for _, l := range e.loaded {
		if l == name {
			n++
		}
	}
	return n > 0 && e.unloading[name] >= n
}

func (e *fakeEngine) SetActiveScene(name string) error {
	e.activeCalls = append(e.activeCalls, name)
	if !e.IsSceneLoaded(name) {
		return fmt.Errorf("%w: %s", errNotLoaded, name)
	}
	e.active = name
	return nil
}

func (e *fakeEngine) LoadedScenes() []string {
	out := make([]string, len(e.loaded))
	copy(out, e.loaded)
	return out
}

// advance runs one engine frame, completing ops whose latency has elapsed
func (e *fakeEngine) advance() {
	e.frame++
	live := e.ops[:0]
	for _, op := range e.ops {
		if op.never {
			live = append(live, op)
			continue
		}
		if op.left > 0 {
			op.left--
		}
		if op.left > 0 {
			live = append(live, op)
			continue
		}
		op.done = true
		op.doneFrame = e.frame
		if op.failWith != nil {
			op.err = op.failWith
			continue
		}
		switch op.kind {
		case opLoad:
			e.loaded = append(e.loaded, op.name)
		case opUnload:
			e.unloading[op.name]--
			e.remove(op.name)
		}
	}
	e.ops = live
}

func (e *fakeEngine) remove(name string) {
	for i, n := range e.loaded {
		if n == name {
			e.loaded = append(e.loaded[:i], e.loaded[i+1:]...)
			return
		}
	}
}
