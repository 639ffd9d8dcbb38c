package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/runtime-landscape/internal/config"
	"github.com/Faultbox/runtime-landscape/internal/heightsource"
	"github.com/Faultbox/runtime-landscape/internal/landscape"
	"github.com/Faultbox/runtime-landscape/internal/logger"
	"github.com/Faultbox/runtime-landscape/internal/scene"
	lmath "github.com/Faultbox/runtime-landscape/pkg/math"
)

const buildTimeout = 5 * time.Minute

// surfaceConfig maps the file configuration onto the surface configuration.
func surfaceConfig(cfg *config.Config) (landscape.Config, error) {
	c1, err := lmath.ParseHexColor(cfg.Debug.Color1)
	if err != nil {
		return landscape.Config{}, fmt.Errorf("debug.color1: %w", err)
	}
	c2, err := lmath.ParseHexColor(cfg.Debug.Color2)
	if err != nil {
		return landscape.Config{}, fmt.Errorf("debug.color2: %w", err)
	}

	mode := landscape.RebuildDeferred
	if cfg.Rebuild.Mode == config.ModeImmediate {
		mode = landscape.RebuildImmediate
	}
	l := cfg.Landscape
	return landscape.Config{
		Size:             lmath.Vec2{X: l.Size[0], Y: l.Size[1]},
		Resolution:       l.Resolution,
		PatchGrid:        l.PatchGrid,
		HeightScale:      l.HeightScale,
		UpdateCollision:  l.UpdateCollision,
		UpdateNavigation: l.UpdateNavigation,
		Workers:          cfg.Rebuild.Workers,
		Mode:             mode,
		Seed:             cfg.Rebuild.Seed,
		Vegetation: landscape.VegetationConfig{
			MinPaintWeight: cfg.Vegetation.MinPaintWeight,
			DensityScale:   cfg.Vegetation.DensityScale,
		},
		Debug: landscape.DebugConfig{
			Enabled:             cfg.Debug.Enabled,
			Checkerboard:        cfg.Debug.Checkerboard,
			IndexGreyscale:      cfg.Debug.IndexGreyscale,
			ShowPatchesWithHole: cfg.Debug.ShowPatchesWithHole,
			Color1:              c1,
			Color2:              c2,
		},
	}, nil
}

// heightProvider opens the configured heightmap, or a flat grid matching
// the resolution when none is set.
func heightProvider(cfg *config.Config) (landscape.HeightProvider, error) {
	if cfg.Data.Heightmap == "" {
		r := cfg.Landscape.Resolution
		return heightsource.Flat(r[0]+1, r[1]+1, 0), nil
	}
	return heightsource.Load(cfg.Data.Heightmap, heightsource.Options{})
}

// openSurface creates, initializes and fully builds a surface, applying the
// configured scene.
func openSurface(cfg *config.Config, hooks landscape.Hooks) (*landscape.Surface, error) {
	scfg, err := surfaceConfig(cfg)
	if err != nil {
		return nil, err
	}
	s, err := landscape.New(scfg, hooks)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), buildTimeout)
	defer cancel()

	src, err := heightProvider(cfg)
	if err != nil {
		s.Close()
		return nil, err
	}
	if err := s.Initialize(ctx, src); err != nil {
		s.Close()
		return nil, err
	}

	if cfg.Data.Scene != "" {
		doc, err := scene.Load(cfg.Data.Scene)
		if err != nil {
			s.Close()
			return nil, err
		}
		if _, err := doc.Apply(s); err != nil {
			s.Close()
			return nil, fmt.Errorf("applying scene: %w", err)
		}
	}

	start := time.Now()
	if err := s.Flush(ctx); err != nil {
		s.Close()
		return nil, fmt.Errorf("building surface: %w", err)
	}
	logger.Named("cli").Info("surface built", zap.Duration("took", time.Since(start)))
	return s, nil
}
