package main

import (
	"context"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"golang.org/x/image/colornames"

	"github.com/younwookim/asyncloader/internal/application/scene"
	"github.com/younwookim/asyncloader/internal/infrastructure/engine"
)

const (
	screenW = 320
	screenH = 240
	panelY  = 72
)

// panel is a demo scene: a coloured block with a label, somewhere below
// the status text.
type panel struct {
	label string
	clr   color.RGBA
	x, y  float64
	w, h  float64
	t     float64
}

func (p *panel) Update(dt float64) error {
	p.t += dt
	return nil
}

func (p *panel) Draw(screen *ebiten.Image) {
	ebitenutil.DrawRect(screen, p.x, p.y, p.w, p.h, p.clr)
	ebitenutil.DebugPrintAt(screen, p.label, int(p.x)+4, int(p.y)+4)
}

func (p *panel) OnEnter() { p.t = 0 }
func (p *panel) OnExit()  {}

// statusScene fills the background and prints loader state. It is the
// persistent scene, so everything else draws on top of it.
type statusScene struct {
	text func() string
}

func (s *statusScene) Update(dt float64) error { return nil }

func (s *statusScene) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Darkslategray)
	ebitenutil.DebugPrint(screen, s.text())
}

func (s *statusScene) OnEnter() {}
func (s *statusScene) OnExit()  {}

// slow wraps a scene constructor with simulated asset loading that
// reports progress in steps.
func slow(steps int, step time.Duration, newScene func() scene.Scene) engine.Factory {
	return func(ctx context.Context, progress func(float64)) (scene.Scene, error) {
		for i := 0; i < steps; i++ {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(step):
			}
			progress(float64(i+1) / float64(steps))
		}
		return newScene(), nil
	}
}

func registerScenes(e *engine.Engine, status func() string) {
	e.Register("Persistent", slow(1, 0, func() scene.Scene {
		return &statusScene{text: status}
	}))
	e.Register("Main", slow(10, 60*time.Millisecond, func() scene.Scene {
		return &panel{label: "Main", clr: colornames.Steelblue, x: 0, y: panelY, w: screenW, h: screenH - panelY}
	}))
	e.Register("UI", slow(4, 50*time.Millisecond, func() scene.Scene {
		return &panel{label: "UI", clr: colornames.Darkorange, x: 8, y: panelY + 24, w: 96, h: 48}
	}))
	e.Register("HUD", slow(4, 50*time.Millisecond, func() scene.Scene {
		return &panel{label: "HUD", clr: colornames.Seagreen, x: screenW - 104, y: panelY + 24, w: 96, h: 48}
	}))
	e.Register("Level1", slow(20, 75*time.Millisecond, func() scene.Scene {
		return &panel{label: "Level1", clr: colornames.Indianred, x: 0, y: panelY, w: screenW, h: screenH - panelY}
	}))
}
