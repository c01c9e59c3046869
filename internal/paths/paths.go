// Package paths resolves canonical file locations for a show project.
package paths

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/JackStrawNYC/dead-air-sub002/internal/config"
)

// ProjectPaths captures canonical locations for a show project.
type ProjectPaths struct {
	Root         string
	ConfigFile   string
	CatalogFile  string
	ShowFile     string
	FeaturesFile string
	ExportDir    string
	LogsDir      string
}

// Resolve determines the project root using the optional --project flag or the
// current working directory when the flag is empty.
func Resolve(projectFlag string) (ProjectPaths, error) {
	var (
		root string
		err  error
	)

	if projectFlag != "" {
		root, err = filepath.Abs(projectFlag)
	} else {
		root, err = os.Getwd()
	}
	if err != nil {
		return ProjectPaths{}, fmt.Errorf("resolve project root: %w", err)
	}

	return newProjectPaths(root), nil
}

func newProjectPaths(root string) ProjectPaths {
	return ProjectPaths{
		Root:         root,
		ConfigFile:   filepath.Join(root, "deadair.yaml"),
		CatalogFile:  filepath.Join(root, "catalog.yaml"),
		ShowFile:     filepath.Join(root, "show.json"),
		FeaturesFile: filepath.Join(root, "features.json"),
		ExportDir:    filepath.Join(root, "export"),
		LogsDir:      filepath.Join(root, "logs"),
	}
}

// ApplyConfig repoints the input files at config-specified locations.
func ApplyConfig(pp ProjectPaths, cfg config.Config) ProjectPaths {
	if cfg.Files.Catalog != "" {
		pp.CatalogFile = resolveProjectPath(pp.Root, cfg.Files.Catalog)
	}
	if cfg.Files.Show != "" {
		pp.ShowFile = resolveProjectPath(pp.Root, cfg.Files.Show)
	}
	if cfg.Files.Features != "" {
		pp.FeaturesFile = resolveProjectPath(pp.Root, cfg.Files.Features)
	}
	return pp
}

func resolveProjectPath(root, value string) string {
	if filepath.IsAbs(value) {
		return filepath.Clean(value)
	}
	return filepath.Join(root, value)
}

// EnsureRoot makes sure the project root exists on disk.
func (p ProjectPaths) EnsureRoot() error {
	if err := os.MkdirAll(p.Root, 0o755); err != nil {
		return fmt.Errorf("create project root: %w", err)
	}
	return nil
}

// EnsureMetaDirs creates the export and logs directories.
func (p ProjectPaths) EnsureMetaDirs() error {
	for _, dir := range []string{p.ExportDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// FileExists reports whether a path exists and is a regular file.
func FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// DirExists reports whether a path exists and is a directory.
func DirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}
