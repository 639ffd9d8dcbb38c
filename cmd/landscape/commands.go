package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/Faultbox/runtime-landscape/internal/config"
	"github.com/Faultbox/runtime-landscape/internal/export"
	"github.com/Faultbox/runtime-landscape/internal/landscape"
	"github.com/Faultbox/runtime-landscape/internal/navigation"
	lmath "github.com/Faultbox/runtime-landscape/pkg/math"
)

func cmdInfo(cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "List every patch")
	if err := fs.Parse(args); err != nil {
		return err
	}

	scfg, err := surfaceConfig(cfg)
	if err != nil {
		return err
	}
	s, err := landscape.New(scfg, landscape.Hooks{})
	if err != nil {
		return err
	}
	defer s.Close()

	res := s.PatchResolution()
	fmt.Fprintf(out, "Size:        %gx%g\n", scfg.Size.X, scfg.Size.Y)
	fmt.Fprintf(out, "Resolution:  %dx%d quads\n", scfg.Resolution[0], scfg.Resolution[1])
	fmt.Fprintf(out, "Patches:     %d (%dx%d)\n", s.PatchCount(), scfg.PatchGrid[0], scfg.PatchGrid[1])
	fmt.Fprintf(out, "Patch:       %dx%d quads, %d vertices, %gx%g units\n",
		res[0], res[1], s.VerticesPerPatch(), s.PatchSize().X, s.PatchSize().Y)
	fmt.Fprintf(out, "Quad:        %gx%g units\n", s.QuadSize().X, s.QuadSize().Y)
	if !cfg.Landscape.Divisible() {
		fmt.Fprintln(out, "Warning:     resolution is not a multiple of the patch grid")
	}

	if *verbose {
		fmt.Fprintln(out)
		for i := range s.PatchCount() {
			col, row := s.PatchCoordinates(i)
			b := s.PatchBounds(i)
			fmt.Fprintf(out, "  patch %-4d (%d,%d)  [%g,%g]-[%g,%g]\n", i, col, row, b.Min.X, b.Min.Y, b.Max.X, b.Max.Y)
		}
	}
	return nil
}

func cmdConfig(cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	output := fs.String("o", "", "Save to a file instead of printing")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *output == "" {
		return cfg.Encode(out)
	}
	if err := cfg.SaveTo(*output); err != nil {
		return err
	}
	fmt.Fprintf(out, "Saved:      %s\n", *output)
	return nil
}

func cmdBuild(cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	output := fs.String("o", "", "Export geometry to an OBJ file (.zst to compress)")
	masks := fs.String("masks", "", "Write ground type paint masks as PNGs into this directory")
	preview := fs.String("preview", "", "Write a greyscale height preview PNG")
	if err := fs.Parse(args); err != nil {
		return err
	}

	instances := landscape.NewInstanceStore()
	s, err := openSurface(cfg, landscape.Hooks{Instances: instances})
	if err != nil {
		return err
	}
	defer s.Close()

	var vertices, triangles, holes int
	var size uint64
	for _, p := range s.Patches() {
		holes += p.HoleCount()
		if g := p.Geometry(); g != nil {
			vertices += g.VertexCount()
			triangles += g.TriangleCount()
			size += g.SizeBytes()
		}
	}
	st := s.Stats()
	fmt.Fprintf(out, "Patches:    %d built, %d skipped\n", st.Published, st.Skipped)
	fmt.Fprintf(out, "Vertices:   %s\n", humanize.Comma(int64(vertices)))
	fmt.Fprintf(out, "Triangles:  %s\n", humanize.Comma(int64(triangles)))
	fmt.Fprintf(out, "Cut:        %d vertices\n", holes)
	fmt.Fprintf(out, "Layers:     %d\n", len(s.Layers()))
	fmt.Fprintf(out, "Grass:      %s instances\n", humanize.Comma(int64(instances.Count())))
	fmt.Fprintf(out, "Memory:     %s\n", humanize.IBytes(size))

	if *output != "" {
		est, err := export.WriteFile(*output, s)
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		fmt.Fprintf(out, "Exported:   %s (%s obj)\n", *output, humanize.Bytes(uint64(est.Bytes)))
	}
	if *masks != "" {
		paths, err := export.WritePaintMasks(*masks, s.Paint())
		if err != nil {
			return fmt.Errorf("paint masks: %w", err)
		}
		fmt.Fprintf(out, "Masks:      %d written to %s\n", len(paths), *masks)
	}
	if *preview != "" {
		if err := export.WriteHeightPreview(*preview, s); err != nil {
			return fmt.Errorf("height preview: %w", err)
		}
		fmt.Fprintf(out, "Preview:    %s\n", *preview)
	}
	return nil
}

func cmdProbe(cfg *config.Config, args []string, out io.Writer) error {
	if len(args) != 2 {
		return errors.New("usage: landscape probe <x> <y>")
	}
	x, err := strconv.ParseFloat(args[0], 32)
	if err != nil {
		return fmt.Errorf("x: %w", err)
	}
	y, err := strconv.ParseFloat(args[1], 32)
	if err != nil {
		return fmt.Errorf("y: %w", err)
	}

	s, err := openSurface(cfg, landscape.Hooks{})
	if err != nil {
		return err
	}
	defer s.Close()

	h, ok := s.HeightAt(float32(x), float32(y))
	if !ok {
		return fmt.Errorf("(%g, %g) is outside the surface", x, y)
	}
	fmt.Fprintf(out, "%g\n", h)
	return nil
}

func cmdPath(cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("path", flag.ContinueOnError)
	from := fs.String("from", "", "Start position x,y")
	to := fs.String("to", "", "Goal position x,y")
	if err := fs.Parse(args); err != nil {
		return err
	}
	start, err := parseVec2(*from)
	if err != nil {
		return fmt.Errorf("-from: %w", err)
	}
	goal, err := parseVec2(*to)
	if err != nil {
		return fmt.Errorf("-to: %w", err)
	}

	scfg, err := surfaceConfig(cfg)
	if err != nil {
		return err
	}
	patchRes := [2]int{
		max(scfg.Resolution[0]/scfg.PatchGrid[0], 1),
		max(scfg.Resolution[1]/scfg.PatchGrid[1], 1),
	}
	quad := lmath.Vec2{X: scfg.Size.X / float32(scfg.Resolution[0]), Y: scfg.Size.Y / float32(scfg.Resolution[1])}
	nav := navigation.NewGrid(scfg.PatchGrid, patchRes, quad, cfg.Navigation.MaxSlopeDegrees)

	// Navigation must be on for the grid to see any geometry.
	cfg.Landscape.UpdateNavigation = true
	s, err := openSurface(cfg, landscape.Hooks{Navigation: nav})
	if err != nil {
		return err
	}
	defer s.Close()

	path := nav.FindWorldPath(start, goal)
	if path == nil {
		return fmt.Errorf("no walkable path from %v to %v", *from, *to)
	}
	for _, p := range path {
		fmt.Fprintf(out, "%g %g %g\n", p.X, p.Y, p.Z)
	}
	return nil
}

// parseVec2 parses "x,y".
func parseVec2(s string) (lmath.Vec2, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return lmath.Vec2{}, fmt.Errorf("want x,y, got %q", s)
	}
	var v [2]float32
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return lmath.Vec2{}, fmt.Errorf("parsing %q: %w", p, err)
		}
		v[i] = float32(f)
	}
	return lmath.Vec2{X: v[0], Y: v[1]}, nil
}
