// Package game provides the main game loop that drives loaded scenes,
// the transition scheduler and the fade overlay.
package game

import "github.com/hajimehoshi/ebiten/v2"

// World hosts the loaded scenes.
type World interface {
	Update(dt float64) error
	Draw(screen *ebiten.Image)
}

// Ticker advances cooperative tasks by one frame.
type Ticker interface {
	Tick(dt float64)
}

// Drawer renders on top of the world.
type Drawer interface {
	Draw(screen *ebiten.Image)
}

// Hook runs at the start of every Update, before the world. frame counts
// Update calls starting at 0.
type Hook func(frame int) error

// Game implements ebiten.Game.
type Game struct {
	world   World
	sched   Ticker
	overlay Drawer
	hooks   []Hook
	frame   int
	screenW int
	screenH int
	dt      float64
}

// New creates a new Game. overlay may be nil.
func New(world World, sched Ticker, overlay Drawer, screenW, screenH int) *Game {
	return &Game{
		world:   world,
		sched:   sched,
		overlay: overlay,
		screenW: screenW,
		screenH: screenH,
		dt:      1.0 / 60.0, // Default to 60 FPS
	}
}

// AddHook registers fn to run every frame, in registration order.
func (g *Game) AddHook(fn Hook) {
	g.hooks = append(g.hooks, fn)
}

// Update runs hooks, then the world, then the scheduler, so tasks observe
// operations the world completed in the same frame.
// Implements ebiten.Game interface.
func (g *Game) Update() error {
	frame := g.frame
	g.frame++

	for _, h := range g.hooks {
		if err := h(frame); err != nil {
			return err
		}
	}
	if err := g.world.Update(g.dt); err != nil {
		return err
	}
	g.sched.Tick(g.dt)
	return nil
}

// Draw renders the world, then the overlay on top.
// Implements ebiten.Game interface.
func (g *Game) Draw(screen *ebiten.Image) {
	g.world.Draw(screen)
	if g.overlay != nil {
		g.overlay.Draw(screen)
	}
}

// Layout returns the game's logical screen dimensions.
// Implements ebiten.Game interface.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.screenW, g.screenH
}

// SetDT sets the delta time used for updates.
// Useful for testing or custom frame rates.
func (g *Game) SetDT(dt float64) {
	g.dt = dt
}

// Frame returns the number of Update calls so far.
func (g *Game) Frame() int { return g.frame }
