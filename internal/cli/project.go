package cli

import (
	"fmt"

	"github.com/JackStrawNYC/dead-air-sub002/internal/audiofeat"
	"github.com/JackStrawNYC/dead-air-sub002/internal/catalog"
	"github.com/JackStrawNYC/dead-air-sub002/internal/config"
	"github.com/JackStrawNYC/dead-air-sub002/internal/engine"
	"github.com/JackStrawNYC/dead-air-sub002/internal/paths"
	"github.com/JackStrawNYC/dead-air-sub002/internal/show"
)

// projectContext bundles everything a command needs once the show inputs are
// loaded.
type projectContext struct {
	Paths   paths.ProjectPaths
	Config  config.Config
	Catalog *catalog.Catalog
	Show    show.Show
	Engine  *engine.Engine
}

// resolveProject loads paths and config for the current --project flag.
func resolveProject() (paths.ProjectPaths, config.Config, error) {
	pp, err := paths.Resolve(projectDir)
	if err != nil {
		return paths.ProjectPaths{}, config.Config{}, err
	}

	exists, err := paths.DirExists(pp.Root)
	if err != nil {
		return paths.ProjectPaths{}, config.Config{}, fmt.Errorf("stat project dir: %w", err)
	}
	if !exists {
		return paths.ProjectPaths{}, config.Config{}, fmt.Errorf("project directory does not exist: %s", pp.Root)
	}

	cfg, err := config.Load(pp.ConfigFile)
	if err != nil {
		return paths.ProjectPaths{}, config.Config{}, err
	}
	pp = paths.ApplyConfig(pp, cfg)
	return pp, cfg, nil
}

// loadProject loads the full show context and constructs the engine.
func loadProject() (*projectContext, error) {
	pp, cfg, err := resolveProject()
	if err != nil {
		return nil, err
	}

	cat, err := catalog.Load(pp.CatalogFile)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	sh, err := show.Load(pp.ShowFile)
	if err != nil {
		return nil, fmt.Errorf("load show: %w", err)
	}

	frames, err := audiofeat.LoadFrames(pp.FeaturesFile)
	if err != nil {
		return nil, fmt.Errorf("load features: %w", err)
	}
	provider, err := audiofeat.NewProvider(frames, cfg.Audio.RollingRadiusFrames, audiofeat.Thresholds{
		LowMax: cfg.Audio.BandLowMax,
		MidMax: cfg.Audio.BandMidMax,
	})
	if err != nil {
		return nil, fmt.Errorf("build feature provider: %w", err)
	}

	return &projectContext{
		Paths:   pp,
		Config:  cfg,
		Catalog: cat,
		Show:    sh,
		Engine:  engine.New(cfg, cat, sh, provider),
	}, nil
}
