package game

import (
	"errors"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
)

// mockWorld is a test double for World
type mockWorld struct {
	calls        *[]string
	updateCalled int
	drawCalled   int
	lastDT       float64
	updateErr    error
}

func (m *mockWorld) Update(dt float64) error {
	m.updateCalled++
	m.lastDT = dt
	*m.calls = append(*m.calls, "world")
	return m.updateErr
}

func (m *mockWorld) Draw(screen *ebiten.Image) {
	m.drawCalled++
	*m.calls = append(*m.calls, "draw world")
}

type mockTicker struct {
	calls *[]string
	ticks int
}

func (m *mockTicker) Tick(dt float64) {
	m.ticks++
	*m.calls = append(*m.calls, "tick")
}

type mockOverlay struct {
	calls *[]string
}

func (m *mockOverlay) Draw(screen *ebiten.Image) {
	*m.calls = append(*m.calls, "draw overlay")
}

func newTestGame() (*Game, *mockWorld, *mockTicker, *[]string) {
	var calls []string
	w := &mockWorld{calls: &calls}
	s := &mockTicker{calls: &calls}
	g := New(w, s, &mockOverlay{calls: &calls}, 320, 240)
	return g, w, s, &calls
}

func TestGame_UpdateOrder(t *testing.T) {
	g, w, s, calls := newTestGame()
	g.AddHook(func(frame int) error {
		*calls = append(*calls, "hook")
		return nil
	})

	err := g.Update()
	assert.NoError(t, err)
	assert.Equal(t, []string{"hook", "world", "tick"}, *calls)
	assert.Equal(t, 1, w.updateCalled)
	assert.Equal(t, 1, s.ticks)
	assert.Equal(t, 1, g.Frame())
}

func TestGame_HookFrames(t *testing.T) {
	g, _, _, _ := newTestGame()
	var seen []int
	g.AddHook(func(frame int) error {
		seen = append(seen, frame)
		return nil
	})

	for i := 0; i < 3; i++ {
		assert.NoError(t, g.Update())
	}
	assert.Equal(t, []int{0, 1, 2}, seen)
}

func TestGame_HookErrorStopsFrame(t *testing.T) {
	g, w, s, _ := newTestGame()
	quit := errors.New("quit")
	g.AddHook(func(frame int) error { return quit })

	err := g.Update()
	assert.ErrorIs(t, err, quit)
	assert.Equal(t, 0, w.updateCalled)
	assert.Equal(t, 0, s.ticks)
}

func TestGame_UpdateError(t *testing.T) {
	g, w, s, _ := newTestGame()
	w.updateErr = assert.AnError

	err := g.Update()
	assert.Error(t, err, "Error should propagate from world")
	assert.Equal(t, 0, s.ticks, "scheduler not ticked after a world error")
}

func TestGame_DrawOverlayOnTop(t *testing.T) {
	g, w, _, calls := newTestGame()

	// Create a dummy image for testing
	img := ebiten.NewImage(320, 240)
	g.Draw(img)

	assert.Equal(t, 1, w.drawCalled)
	assert.Equal(t, []string{"draw world", "draw overlay"}, *calls)
}

func TestGame_DrawWithoutOverlay(t *testing.T) {
	var calls []string
	w := &mockWorld{calls: &calls}
	g := New(w, &mockTicker{calls: &calls}, nil, 320, 240)

	g.Draw(ebiten.NewImage(320, 240))
	assert.Equal(t, []string{"draw world"}, calls)
}

func TestGame_Layout(t *testing.T) {
	g, _, _, _ := newTestGame()

	w, h := g.Layout(640, 480)
	assert.Equal(t, 320, w)
	assert.Equal(t, 240, h)
}

func TestGame_SetDT(t *testing.T) {
	g, w, _, _ := newTestGame()
	g.SetDT(0.5)

	assert.NoError(t, g.Update())
	assert.Equal(t, 0.5, w.lastDT)
}
