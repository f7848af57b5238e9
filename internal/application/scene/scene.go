// Package scene defines the Scene interface for additively loaded screens
// and the Operation handle reported by asynchronous scene loads.
//
// Any number of scenes may be loaded at once. The host game loop updates
// and draws every loaded scene in load order; one of them may be marked
// active by the loader.
package scene

import "github.com/hajimehoshi/ebiten/v2"

// Scene represents one additively loaded screen (world, HUD, menu, etc.)
type Scene interface {
	// Update updates the scene state.
	// dt is the delta time in seconds (typically 1/60).
	// Returns an error to terminate the game.
	Update(dt float64) error

	// Draw renders the scene to the screen.
	// Scenes are drawn in load order, so later scenes draw on top.
	Draw(screen *ebiten.Image)

	// OnEnter is called on the game loop once the scene has finished loading.
	OnEnter()

	// OnExit is called on the game loop when the scene is unloaded.
	// Use this for cleanup, saving state, or resource release.
	OnExit()
}

// Operation is an in-flight asynchronous load or unload.
type Operation interface {
	// Done reports whether the engine has finished the operation.
	Done() bool

	// Progress returns a best-effort completion ratio in [0, 1].
	Progress() float64

	// Err returns the failure once Done, nil otherwise.
	Err() error
}
