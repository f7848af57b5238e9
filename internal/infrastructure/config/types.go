package config

import "github.com/younwookim/asyncloader/internal/domain/catalog"

// LoaderConfig is the root of loader.yaml
type LoaderConfig struct {
	Version            int           `yaml:"version"`
	Scenes             []SceneConfig `yaml:"scenes"`
	Fade               FadeConfig    `yaml:"fade"`
	OperationTimeout   float64       `yaml:"operation_timeout"`
	MaxConcurrentLoads int64         `yaml:"max_concurrent_loads"`
	Log                LogConfig     `yaml:"log"`
}

// SceneConfig describes one scene in the build.
type SceneConfig struct {
	Name       string `yaml:"name"`
	Persistent bool   `yaml:"persistent"`
}

// FadeConfig controls the transition overlay. Timeout bounds a whole
// faded request; operation_timeout bounds each engine wait inside it.
type FadeConfig struct {
	Color    string  `yaml:"color"`
	Duration float64 `yaml:"duration"`
	Timeout  float64 `yaml:"timeout"`
}

// LogConfig selects the zap configuration.
type LogConfig struct {
	Development bool `yaml:"development"`
	Debug       bool `yaml:"debug"`
}

// Descriptors converts the scene list for the catalog.
func (c *LoaderConfig) Descriptors() []catalog.Descriptor {
	out := make([]catalog.Descriptor, len(c.Scenes))
	for i, s := range c.Scenes {
		out[i] = catalog.Descriptor{Name: s.Name, Persistent: s.Persistent}
	}
	return out
}

// ConcurrentLoads returns max_concurrent_loads, defaulting to 1.
func (c *LoaderConfig) ConcurrentLoads() int64 {
	if c.MaxConcurrentLoads < 1 {
		return 1
	}
	return c.MaxConcurrentLoads
}
