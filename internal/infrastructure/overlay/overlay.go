// Package overlay draws the full-screen fade surface.
package overlay

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"golang.org/x/image/colornames"
)

// Overlay is a solid colour rectangle covering the whole screen.
// It implements transition.Overlay.
type Overlay struct {
	clr     color.RGBA
	opacity float64
	visible bool
}

// New creates a hidden, fully transparent overlay of the given colour.
func New(clr color.RGBA) *Overlay {
	return &Overlay{clr: clr}
}

// SetOpacity sets the overlay alpha, clamped to [0, 1].
func (o *Overlay) SetOpacity(alpha float64) {
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}
	o.opacity = alpha
}

// SetVisible shows or hides the overlay.
func (o *Overlay) SetVisible(visible bool) {
	o.visible = visible
}

// Opacity returns the current alpha.
func (o *Overlay) Opacity() float64 { return o.opacity }

// Visible reports whether the overlay is drawn at all.
func (o *Overlay) Visible() bool { return o.visible }

// Color returns the overlay colour at its current opacity.
func (o *Overlay) Color() color.NRGBA {
	return color.NRGBA{R: o.clr.R, G: o.clr.G, B: o.clr.B, A: uint8(o.opacity*255 + 0.5)}
}

// Draw renders the overlay on top of screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	if !o.visible || o.opacity <= 0 {
		return
	}
	b := screen.Bounds()
	ebitenutil.DrawRect(screen, float64(b.Min.X), float64(b.Min.Y), float64(b.Dx()), float64(b.Dy()), o.Color())
}

// ParseColor accepts an x/image/colornames name ("black", "midnightblue")
// or a #rrggbb hex value.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return colornames.Black, nil
	}
	if c, ok := colornames.Map[s]; ok {
		return c, nil
	}
	if strings.HasPrefix(s, "#") && len(s) == 7 {
		v, err := strconv.ParseUint(s[1:], 16, 32)
		if err == nil {
			return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
		}
	}
	return color.RGBA{}, fmt.Errorf("overlay: unknown color %q", s)
}
