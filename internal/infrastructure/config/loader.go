package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/younwookim/asyncloader/internal/application/transition"
	"github.com/younwookim/asyncloader/internal/infrastructure/log"
)

// FileName is the configuration file read by Load.
const FileName = "loader.yaml"

// ErrUnsupportedVersion is returned for any version other than 1.
var ErrUnsupportedVersion = errors.New("config: unsupported version")

// Loader loads loader.yaml using fs.FS interface
type Loader struct {
	fsys     fs.FS
	basePath string
	log      *log.Logger
}

// NewLoader creates a new config loader from filesystem path
func NewLoader(basePath string, logger *log.Logger) *Loader {
	return NewFSLoader(os.DirFS(basePath), basePath, logger)
}

// NewFSLoader creates a new config loader from fs.FS
func NewFSLoader(fsys fs.FS, basePath string, logger *log.Logger) *Loader {
	return &Loader{
		fsys:     fsys,
		basePath: basePath,
		log:      logger.Named("config"),
	}
}

// BasePath is the directory the loader reads from, for watching.
func (l *Loader) BasePath() string { return l.basePath }

// Load reads and validates loader.yaml.
func (l *Loader) Load() (*LoaderConfig, error) {
	data, err := fs.ReadFile(l.fsys, FileName)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	var cfg LoaderConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}
	if cfg.Version != 1 {
		return nil, fmt.Errorf("%w: %s version %d", ErrUnsupportedVersion, FileName, cfg.Version)
	}
	if err := l.normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (l *Loader) normalize(cfg *LoaderConfig) error {
	for i, s := range cfg.Scenes {
		if s.Name == "" {
			return fmt.Errorf("%s: scene %d has no name", FileName, i)
		}
	}
	if cfg.Fade.Duration < transition.MinDuration {
		l.log.Warnw("fade duration below minimum, raising",
			"duration", cfg.Fade.Duration, "minimum", transition.MinDuration)
		cfg.Fade.Duration = transition.MinDuration
	}
	if cfg.OperationTimeout < 0 {
		cfg.OperationTimeout = 0
	}
	if cfg.Fade.Timeout < 0 {
		cfg.Fade.Timeout = 0
	}
	if cfg.Fade.Color == "" {
		cfg.Fade.Color = "black"
	}
	return nil
}
