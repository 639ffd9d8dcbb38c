// Package config handles landscape configuration loading and validation.
package config

import (
	"fmt"
	"slices"

	"go.uber.org/multierr"

	lmath "github.com/Faultbox/runtime-landscape/pkg/math"
)

// Rebuild modes.
const (
	ModeDeferred  = "deferred"
	ModeImmediate = "immediate"
)

// Config holds all landscape settings.
type Config struct {
	Landscape  LandscapeConfig  `yaml:"landscape"`
	Rebuild    RebuildConfig    `yaml:"rebuild"`
	Vegetation VegetationConfig `yaml:"vegetation"`
	Navigation NavigationConfig `yaml:"navigation"`
	Debug      DebugConfig      `yaml:"debug"`
	Data       DataConfig       `yaml:"data"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LandscapeConfig describes the surface grid.
type LandscapeConfig struct {
	Size             [2]float32 `yaml:"size"`       // world units
	Resolution       [2]int     `yaml:"resolution"` // quads across the whole surface
	PatchGrid        [2]int     `yaml:"patch_grid"`
	HeightScale      float32    `yaml:"height_scale"`
	UpdateCollision  bool       `yaml:"update_collision"`
	UpdateNavigation bool       `yaml:"update_navigation"`
}

// RebuildConfig controls the rebuild coordinator.
type RebuildConfig struct {
	Workers int    `yaml:"workers"` // 0 = runtime.NumCPU()
	Mode    string `yaml:"mode"`
	Seed    uint64 `yaml:"seed"`
}

// VegetationConfig holds grass placement tuning.
type VegetationConfig struct {
	MinPaintWeight float32 `yaml:"min_paint_weight"`
	DensityScale   float32 `yaml:"density_scale"`
}

// NavigationConfig holds walkability settings.
type NavigationConfig struct {
	MaxSlopeDegrees float32 `yaml:"max_slope_degrees"`
}

// DebugConfig holds debug visualization toggles.
type DebugConfig struct {
	Enabled             bool   `yaml:"enabled"`
	Checkerboard        bool   `yaml:"checkerboard"`
	IndexGreyscale      bool   `yaml:"index_greyscale"`
	ShowPatchesWithHole bool   `yaml:"show_patches_with_hole"`
	Color1              string `yaml:"color1"`
	Color2              string `yaml:"color2"`
}

// DataConfig holds input file paths.
type DataConfig struct {
	Heightmap string `yaml:"heightmap"`
	Scene     string `yaml:"scene"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Landscape: LandscapeConfig{
			Size:             [2]float32{1000, 1000},
			Resolution:       [2]int{10, 10},
			PatchGrid:        [2]int{2, 2},
			HeightScale:      1,
			UpdateCollision:  true,
			UpdateNavigation: true,
		},
		Rebuild: RebuildConfig{
			Workers: 0,
			Mode:    ModeDeferred,
			Seed:    1,
		},
		Vegetation: VegetationConfig{
			MinPaintWeight: 0.2,
			DensityScale:   0.00001,
		},
		Navigation: NavigationConfig{
			MaxSlopeDegrees: 40,
		},
		Debug: DebugConfig{
			Color1: "#0000ff",
			Color2: "#50c878",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var err error
	l := c.Landscape
	if l.Size[0] <= 0 || l.Size[1] <= 0 {
		err = multierr.Append(err, fmt.Errorf("landscape.size must be positive, got %v", l.Size))
	}
	if l.Resolution[0] <= 0 || l.Resolution[1] <= 0 {
		err = multierr.Append(err, fmt.Errorf("landscape.resolution must be positive, got %v", l.Resolution))
	}
	if l.PatchGrid[0] <= 0 || l.PatchGrid[1] <= 0 {
		err = multierr.Append(err, fmt.Errorf("landscape.patch_grid must be positive, got %v", l.PatchGrid))
	}
	if c.Rebuild.Workers < 0 {
		err = multierr.Append(err, fmt.Errorf("rebuild.workers must not be negative, got %d", c.Rebuild.Workers))
	}
	if c.Rebuild.Mode != ModeDeferred && c.Rebuild.Mode != ModeImmediate {
		err = multierr.Append(err, fmt.Errorf("rebuild.mode must be %q or %q, got %q", ModeDeferred, ModeImmediate, c.Rebuild.Mode))
	}
	if w := c.Vegetation.MinPaintWeight; w < 0 || w > 1 {
		err = multierr.Append(err, fmt.Errorf("vegetation.min_paint_weight must be in [0,1], got %v", w))
	}
	if c.Vegetation.DensityScale < 0 {
		err = multierr.Append(err, fmt.Errorf("vegetation.density_scale must not be negative, got %v", c.Vegetation.DensityScale))
	}
	if s := c.Navigation.MaxSlopeDegrees; s <= 0 || s > 90 {
		err = multierr.Append(err, fmt.Errorf("navigation.max_slope_degrees must be in (0,90], got %v", s))
	}
	for name, hex := range map[string]string{"debug.color1": c.Debug.Color1, "debug.color2": c.Debug.Color2} {
		if _, perr := lmath.ParseHexColor(hex); perr != nil {
			err = multierr.Append(err, fmt.Errorf("%s: %w", name, perr))
		}
	}
	if !slices.Contains([]string{"debug", "info", "warn", "warning", "error"}, c.Logging.Level) {
		err = multierr.Append(err, fmt.Errorf("logging.level %q is not a known level", c.Logging.Level))
	}
	return err
}

// Divisible reports whether the resolution is a whole multiple of the patch
// grid on both axes.
func (l LandscapeConfig) Divisible() bool {
	return l.PatchGrid[0] > 0 && l.PatchGrid[1] > 0 &&
		l.Resolution[0]%l.PatchGrid[0] == 0 && l.Resolution[1]%l.PatchGrid[1] == 0
}
