// Package config loads the deadair.yaml render configuration for a show
// project. Missing files and omitted fields fall back to defaults; strict
// validation is a separate, explicit pass.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config captures the orchestration settings for a show project.
type Config struct {
	Version   int             `yaml:"version"`
	Video     VideoConfig     `yaml:"video"`
	Audio     AudioConfig     `yaml:"audio"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Palette   PaletteConfig   `yaml:"palette"`
	Export    ExportConfig    `yaml:"export"`
	Files     FilesConfig     `yaml:"files"`
}

// VideoConfig contains output timing information.
type VideoConfig struct {
	FPS int `yaml:"fps"`
}

// AudioConfig tunes the shared feature snapshot.
type AudioConfig struct {
	RollingRadiusFrames int     `yaml:"rolling_radius_frames"`
	BandLowMax          float64 `yaml:"band_low_max"`
	BandMidMax          float64 `yaml:"band_mid_max"`
}

// SchedulerConfig controls window length and layer budgets.
type SchedulerConfig struct {
	WindowSeconds float64         `yaml:"window_seconds"`
	LayerBudget   float64         `yaml:"layer_budget"`
	LayerBudgets  map[int]float64 `yaml:"layer_budgets,omitempty"`
}

// PaletteConfig controls song-identity color blending.
type PaletteConfig struct {
	BlendWeight float64 `yaml:"blend_weight"`
}

// ExportConfig controls the parameter-stream export.
type ExportConfig struct {
	ChunkFrames int `yaml:"chunk_frames"`
	Workers     int `yaml:"workers"`
}

// FilesConfig names the static inputs, relative to the project root.
type FilesConfig struct {
	Catalog  string `yaml:"catalog"`
	Show     string `yaml:"show"`
	Features string `yaml:"features"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Version: 1,
		Video: VideoConfig{
			FPS: 30,
		},
		Audio: AudioConfig{
			RollingRadiusFrames: 75,
			BandLowMax:          0.35,
			BandMidMax:          0.65,
		},
		Scheduler: SchedulerConfig{
			WindowSeconds: 8,
			LayerBudget:   3,
		},
		Palette: PaletteConfig{
			BlendWeight: 0.3,
		},
		Export: ExportConfig{
			ChunkFrames: 1800,
			Workers:     4,
		},
		Files: FilesConfig{
			Catalog:  "catalog.yaml",
			Show:     "show.json",
			Features: "features.json",
		},
	}
}

// Load reads the YAML configuration from disk if it exists, otherwise returns
// the default configuration.
func Load(path string) (Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			cfg.ApplyDefaults()
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyDefaults ensures fields fall back to sensible defaults when the YAML
// omits them.
func (c *Config) ApplyDefaults() {
	defaults := Default()

	if c.Version == 0 {
		c.Version = defaults.Version
	}
	if c.Video.FPS == 0 {
		c.Video.FPS = defaults.Video.FPS
	}
	if c.Audio.RollingRadiusFrames == 0 {
		c.Audio.RollingRadiusFrames = defaults.Audio.RollingRadiusFrames
	}
	if c.Audio.BandLowMax == 0 {
		c.Audio.BandLowMax = defaults.Audio.BandLowMax
	}
	if c.Audio.BandMidMax == 0 {
		c.Audio.BandMidMax = defaults.Audio.BandMidMax
	}
	if c.Scheduler.WindowSeconds == 0 {
		c.Scheduler.WindowSeconds = defaults.Scheduler.WindowSeconds
	}
	if c.Scheduler.LayerBudget == 0 {
		c.Scheduler.LayerBudget = defaults.Scheduler.LayerBudget
	}
	if c.Palette.BlendWeight == 0 {
		c.Palette.BlendWeight = defaults.Palette.BlendWeight
	}
	if c.Export.ChunkFrames == 0 {
		c.Export.ChunkFrames = defaults.Export.ChunkFrames
	}
	if c.Export.Workers == 0 {
		c.Export.Workers = defaults.Export.Workers
	}
	if c.Files.Catalog == "" {
		c.Files.Catalog = defaults.Files.Catalog
	}
	if c.Files.Show == "" {
		c.Files.Show = defaults.Files.Show
	}
	if c.Files.Features == "" {
		c.Files.Features = defaults.Files.Features
	}
}

// WindowFrames returns the scheduling window length in frames.
func (c Config) WindowFrames() int {
	frames := int(c.Scheduler.WindowSeconds * float64(c.Video.FPS))
	if frames <= 0 {
		frames = 1
	}
	return frames
}

// Marshal returns the YAML encoding of the configuration.
func (c Config) Marshal() ([]byte, error) {
	buf, err := yaml.Marshal(&c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return buf, nil
}
