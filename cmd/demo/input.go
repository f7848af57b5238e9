package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/younwookim/asyncloader/internal/application/loader"
	"github.com/younwookim/asyncloader/internal/application/script"
	"github.com/younwookim/asyncloader/internal/infrastructure/log"
)

// binding maps a key to a scripted step so interactive requests can be
// recorded and replayed
type binding struct {
	key  ebiten.Key
	step script.Step
}

var bindings = []binding{
	{ebiten.Key1, script.Step{Op: script.OpLoad, Scenes: []string{"Main", "UI", "HUD"}, Active: "Main", UnloadOthers: true, Fade: true}},
	{ebiten.Key2, script.Step{Op: script.OpLoad, Scenes: []string{"Level1"}, Active: "Level1", UnloadOthers: true, Fade: true}},
	{ebiten.Key3, script.Step{Op: script.OpLoad, Scenes: []string{"Level2"}, Fade: true}},
	{ebiten.KeyH, script.Step{Op: script.OpLoad, Scenes: []string{"HUD"}}},
	{ebiten.KeyU, script.Step{Op: script.OpUnload, Scenes: []string{"HUD"}}},
	{ebiten.KeyX, script.Step{Op: script.OpUnloadOthers}},
}

const helpText = "1:Main+UI+HUD 2:Level1 3:Level2 H/U:HUD X:clear ESC:quit"

// controller turns key presses and script steps into loader requests
type controller struct {
	ctx      context.Context
	loader   *loader.Loader
	player   *script.Player
	recorder *script.Recorder
	record   string
	log      *log.Logger
}

func (c *controller) update(frame int) error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		c.saveRecording()
	}

	if c.player != nil {
		for _, st := range c.player.Due(frame) {
			c.issue(st)
		}
	}
	for _, b := range bindings {
		if !inpututil.IsKeyJustPressed(b.key) {
			continue
		}
		if c.recorder != nil {
			c.recorder.Record(frame, b.step)
		}
		c.issue(b.step)
	}
	return nil
}

func (c *controller) issue(st script.Step) {
	for _, h := range script.Issue(c.ctx, c.loader, st) {
		name := h.Name()
		h.OnComplete(func(err error) {
			if err != nil {
				c.log.Warnw("request failed", "request", name, "error", err)
				return
			}
			c.log.Infow("request finished", "request", name)
		})
	}
}

func (c *controller) saveRecording() {
	if c.recorder == nil {
		return
	}

	filename := c.record
	if filename == "" {
		filename = script.GenerateFilename()
	}

	if err := c.recorder.Save(filename); err != nil {
		c.log.Warnw("failed to save recording", "error", err)
	} else {
		c.log.Infow("recording saved", "file", filename, "steps", c.recorder.StepCount())
	}
}

func (c *controller) status() string {
	st := c.loader.FadeState()
	return fmt.Sprintf("%s\nphase: %s  loaded: %3.0f%%\nscenes: %s\npersistent: %s",
		helpText,
		st.Phase,
		st.PercentLoaded*100,
		strings.Join(c.loader.LoadedScenes(), ", "),
		strings.Join(c.loader.PersistentScenes(), ", "),
	)
}
