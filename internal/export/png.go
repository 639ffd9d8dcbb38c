package export

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"slices"

	"github.com/Faultbox/runtime-landscape/internal/landscape"
)

// WritePaintMasks saves one greyscale PNG per painted ground type into dir
// and returns the written paths.
func WritePaintMasks(dir string, paint *landscape.PaintTargets) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}
	names := paint.GroundTypes()
	slices.Sort(names)

	var paths []string
	for _, name := range names {
		mask := paint.Mask(name)
		if mask == nil {
			continue
		}
		img := image.NewGray(mask.Rect)
		copy(img.Pix, mask.Pix)
		path := filepath.Join(dir, name+".png")
		if err := writePNG(path, img); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// HeightPreview renders the published surface heights with one pixel per
// vertex, scaled so the lowest vertex is black and the highest white.
// Unbuilt patches stay black.
func HeightPreview(s *landscape.Surface) *image.Gray16 {
	cfg := s.Config()
	res := s.PatchResolution()
	w := res[0]*cfg.PatchGrid[0] + 1
	h := res[1]*cfg.PatchGrid[1] + 1
	img := image.NewGray16(image.Rect(0, 0, w, h))

	lo, hi := float32(0), float32(0)
	first := true
	for _, p := range s.Patches() {
		if g := p.Geometry(); g != nil && g.VertexCount() > 0 {
			if first || g.MinHeight < lo {
				lo = g.MinHeight
			}
			if first || g.MaxHeight > hi {
				hi = g.MaxHeight
			}
			first = false
		}
	}
	span := hi - lo
	if span <= 0 {
		span = 1
	}

	q := s.QuadSize()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			z, ok := s.HeightAt(float32(x)*q.X, float32(y)*q.Y)
			if !ok {
				continue
			}
			v := (z - lo) / span
			img.SetGray16(x, y, color.Gray16{Y: uint16(v*65535 + 0.5)})
		}
	}
	return img
}

// WriteHeightPreview saves HeightPreview as a PNG.
func WriteHeightPreview(path string, s *landscape.Surface) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}
	return writePNG(path, HeightPreview(s))
}

func writePNG(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return file.Close()
}
