package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// ValidationResult captures a single validation finding.
type ValidationResult struct {
	Level   string `json:"level"` // "error" or "warning"
	Message string `json:"message"`
}

// ValidateStrict runs all strict validations against the config and returns
// structured results. These checks go beyond ApplyDefaults: they catch values
// that would silently distort a render rather than crash it.
func (c Config) ValidateStrict(projectRoot string) []ValidationResult {
	var results []ValidationResult
	results = append(results, c.validateInputFiles(projectRoot)...)
	results = append(results, c.validateTiming()...)
	results = append(results, c.validateBands()...)
	results = append(results, c.validateBudgets()...)
	results = append(results, c.validateBlend()...)
	return results
}

func (c Config) validateInputFiles(projectRoot string) []ValidationResult {
	var results []ValidationResult
	files := []struct {
		label string
		path  string
	}{
		{"catalog", c.Files.Catalog},
		{"show", c.Files.Show},
		{"features", c.Files.Features},
	}
	for _, f := range files {
		resolved := f.path
		if !filepath.IsAbs(resolved) {
			resolved = filepath.Join(projectRoot, resolved)
		}
		if _, err := os.Stat(resolved); err != nil {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("%s file %q not found", f.label, f.path),
			})
		}
	}
	return results
}

func (c Config) validateTiming() []ValidationResult {
	var results []ValidationResult
	if c.Video.FPS <= 0 {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: fmt.Sprintf("video fps must be positive, got %d", c.Video.FPS),
		})
	}
	if c.Scheduler.WindowSeconds <= 0 {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: fmt.Sprintf("scheduler window_seconds must be positive, got %v", c.Scheduler.WindowSeconds),
		})
	}
	if c.Scheduler.WindowSeconds > 0 && c.Scheduler.WindowSeconds < 1 {
		results = append(results, ValidationResult{
			Level:   "warning",
			Message: "scheduler window under one second re-evaluates selections nearly per frame",
		})
	}
	return results
}

func (c Config) validateBands() []ValidationResult {
	var results []ValidationResult
	low, mid := c.Audio.BandLowMax, c.Audio.BandMidMax
	if low <= 0 || low >= 1 || mid <= 0 || mid >= 1 || mid <= low {
		results = append(results, ValidationResult{
			Level: "error",
			Message: fmt.Sprintf(
				"energy band thresholds must satisfy 0 < band_low_max < band_mid_max < 1, got %v and %v", low, mid),
		})
	}
	return results
}

func (c Config) validateBudgets() []ValidationResult {
	var results []ValidationResult
	if c.Scheduler.LayerBudget <= 0 {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: fmt.Sprintf("scheduler layer_budget must be positive, got %v", c.Scheduler.LayerBudget),
		})
	}
	for layer, budget := range c.Scheduler.LayerBudgets {
		if layer < 1 || layer > 10 {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("layer_budgets references layer %d outside 1-10", layer),
			})
		}
		if budget <= 0 {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("layer_budgets[%d] must be positive, got %v", layer, budget),
			})
		}
	}
	return results
}

func (c Config) validateBlend() []ValidationResult {
	var results []ValidationResult
	if c.Palette.BlendWeight < 0 || c.Palette.BlendWeight > 1 {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: fmt.Sprintf("palette blend_weight must be in [0,1], got %v", c.Palette.BlendWeight),
		})
	}
	return results
}

// HasErrors reports whether any result is an error (as opposed to a warning).
func HasErrors(results []ValidationResult) bool {
	for _, r := range results {
		if r.Level == "error" {
			return true
		}
	}
	return false
}
