package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/joho/godotenv"

	"github.com/younwookim/asyncloader/internal/application/game"
	"github.com/younwookim/asyncloader/internal/application/loader"
	"github.com/younwookim/asyncloader/internal/application/script"
	"github.com/younwookim/asyncloader/internal/application/task"
	"github.com/younwookim/asyncloader/internal/application/transition"
	"github.com/younwookim/asyncloader/internal/domain/catalog"
	"github.com/younwookim/asyncloader/internal/infrastructure/config"
	"github.com/younwookim/asyncloader/internal/infrastructure/engine"
	"github.com/younwookim/asyncloader/internal/infrastructure/log"
	"github.com/younwookim/asyncloader/internal/infrastructure/overlay"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// Parse command line flags
	configDir := flag.String("config", "", "Directory holding loader.yaml; watched for changes (default: embedded)")
	scriptFile := flag.String("script", "", "Replay requests from a script file (e.g., -script configs/demo_script.json)")
	recordFile := flag.String("record", "", "Record key requests to file (e.g., -record script.json)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	// .env is optional
	_ = godotenv.Load()
	if *configDir == "" {
		*configDir = os.Getenv("ASYNCLOADER_CONFIG")
	}
	if os.Getenv("ASYNCLOADER_DEBUG") == "true" || os.Getenv("ASYNCLOADER_DEBUG") == "1" {
		*debug = true
	}

	bootLog, err := log.NewLogger(true, *debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	cfgLoader, err := newConfigLoader(*configDir, bootLog)
	if err != nil {
		return err
	}
	cfg, err := cfgLoader.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := log.NewLogger(cfg.Log.Development, cfg.Log.Debug || *debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cat := catalog.New(cfg.Descriptors())
	if *configDir != "" {
		w, err := config.NewWatcher(*configDir)
		if err != nil {
			return fmt.Errorf("failed to watch %s: %w", *configDir, err)
		}
		defer w.Close()
		go config.NewLoader(*configDir, logger).Reload(ctx, w, cat)
	}

	fadeColor, err := overlay.ParseColor(cfg.Fade.Color)
	if err != nil {
		return err
	}
	ov := overlay.New(fadeColor)

	eng := engine.New(cfg.ConcurrentLoads(), logger)
	defer eng.Close()

	sched := task.NewScheduler()
	fader := transition.NewFader(sched, ov, transition.Config{
		Duration: cfg.Fade.Duration,
		Timeout:  cfg.Fade.Timeout,
	}, logger)
	l := loader.New(eng, cat, sched, fader, loader.Config{OperationTimeout: cfg.OperationTimeout}, logger)
	l.Subscribe(func(e loader.Event) {
		logger.Debugw("loader event", "kind", e.Kind, "scene", e.Scene)
	})

	ctrl := &controller{ctx: ctx, loader: l, record: *recordFile, log: logger.Named("demo")}
	registerScenes(eng, ctrl.status)

	if *scriptFile != "" {
		data, err := script.LoadScript(*scriptFile)
		if err != nil {
			return fmt.Errorf("failed to load script: %w", err)
		}
		ctrl.player = script.NewPlayer(*data)
		logger.Infow("replaying script", "file", *scriptFile, "steps", ctrl.player.TotalSteps())
	}
	if *recordFile != "" {
		ctrl.recorder = script.NewRecorder()
		logger.Infow("recording enabled", "file", *recordFile)
	}

	// The persistent status scene is up before anything else.
	l.LoadScene(ctx, "Persistent")

	g := game.New(eng, sched, ov, screenW, screenH)
	g.AddHook(ctrl.update)

	ebiten.SetWindowSize(screenW*2, screenH*2)
	ebiten.SetWindowTitle("Async Scene Loader")
	ebiten.SetTPS(60)

	err = ebiten.RunGame(g)
	if ctrl.recorder != nil && ctrl.recorder.StepCount() > 0 {
		ctrl.saveRecording()
	}
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

func newConfigLoader(dir string, logger *log.Logger) (*config.Loader, error) {
	if dir != "" {
		return config.NewLoader(dir, logger), nil
	}
	// Load configurations using embedded filesystem
	fsys, err := fs.Sub(configFS, "configs")
	if err != nil {
		return nil, fmt.Errorf("failed to get config subfs: %w", err)
	}
	return config.NewFSLoader(fsys, "configs", logger), nil
}
