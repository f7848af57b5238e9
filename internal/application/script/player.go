// Package script replays and records frame-indexed scene requests.
package script

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/younwookim/asyncloader/internal/application/loader"
	"github.com/younwookim/asyncloader/internal/application/task"
)

// Version is the only script version understood.
const Version = "1.0"

// ErrInvalidScript is returned for scripts that cannot be played back.
var ErrInvalidScript = errors.New("script: invalid")

// Requester is the part of the loader a script drives.
type Requester interface {
	Load(ctx context.Context, req loader.Request) *task.Handle
	UnloadScenes(ctx context.Context, names []string) []*task.Handle
	UnloadNonPersistent(ctx context.Context) *task.Handle
}

// Player issues script steps once their frame is reached
type Player struct {
	data Script
	next int
}

// NewPlayer creates a new player from script data
func NewPlayer(data Script) *Player {
	return &Player{data: data}
}

// LoadScript loads and validates a script from a file
func LoadScript(filename string) (*Script, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return Decode(file)
}

// Decode reads and validates a script
func Decode(r io.Reader) (*Script, error) {
	var data Script
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode script: %w", err)
	}
	if err := data.Validate(); err != nil {
		return nil, err
	}
	return &data, nil
}

// Validate checks the version, the operations and that frames never go
// backwards.
func (s *Script) Validate() error {
	if s.Version != Version {
		return fmt.Errorf("%w: unsupported version %q", ErrInvalidScript, s.Version)
	}
	last := 0
	for i, st := range s.Steps {
		if st.F < last {
			return fmt.Errorf("%w: step %d at frame %d comes after frame %d", ErrInvalidScript, i, st.F, last)
		}
		last = st.F
		switch st.Op {
		case OpLoad, OpUnload:
			if len(st.Scenes) == 0 {
				return fmt.Errorf("%w: step %d (%s) has no scenes", ErrInvalidScript, i, st.Op)
			}
		case OpUnloadOthers:
		default:
			return fmt.Errorf("%w: step %d has unknown op %q", ErrInvalidScript, i, st.Op)
		}
	}
	return nil
}

// Due returns the steps scheduled at or before frame that have not been
// returned yet, and advances past them.
func (p *Player) Due(frame int) []Step {
	start := p.next
	for p.next < len(p.data.Steps) && p.data.Steps[p.next].F <= frame {
		p.next++
	}
	return p.data.Steps[start:p.next]
}

// Play issues every due step through r and returns the handles they
// produced.
func (p *Player) Play(ctx context.Context, r Requester, frame int) []*task.Handle {
	var handles []*task.Handle
	for _, st := range p.Due(frame) {
		handles = append(handles, Issue(ctx, r, st)...)
	}
	return handles
}

// Issue sends one step to r.
func Issue(ctx context.Context, r Requester, st Step) []*task.Handle {
	switch st.Op {
	case OpLoad:
		return []*task.Handle{r.Load(ctx, loader.Request{
			Scenes:       st.Scenes,
			Active:       st.Active,
			UnloadOthers: st.UnloadOthers,
			Fade:         st.Fade,
		})}
	case OpUnload:
		return r.UnloadScenes(ctx, st.Scenes)
	case OpUnloadOthers:
		return []*task.Handle{r.UnloadNonPersistent(ctx)}
	}
	return nil
}

// Done reports whether every step has been issued
func (p *Player) Done() bool {
	return p.next >= len(p.data.Steps)
}

// CurrentStep returns the index of the next step to issue
func (p *Player) CurrentStep() int {
	return p.next
}

// TotalSteps returns the total number of steps
func (p *Player) TotalSteps() int {
	return len(p.data.Steps)
}

// LastFrame returns the frame of the final step, or 0 for an empty script
func (p *Player) LastFrame() int {
	if len(p.data.Steps) == 0 {
		return 0
	}
	return p.data.Steps[len(p.data.Steps)-1].F
}

// Reset resets the player to the beginning
func (p *Player) Reset() {
	p.next = 0
}
