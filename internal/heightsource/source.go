// Package heightsource provides height data for a landscape surface: in-memory
// grids, generated grids, greyscale images and raw 16-bit heightmaps.
package heightsource

import (
	"errors"
	"fmt"

	"github.com/Faultbox/runtime-landscape/internal/landscape"
)

// Height source errors.
var (
	ErrEmptyGrid         = errors.New("heightsource: empty grid")
	ErrSizeMismatch      = errors.New("heightsource: value count does not match grid size")
	ErrUnsupportedFormat = errors.New("heightsource: unsupported heightmap format")
	ErrTruncatedRaw      = errors.New("heightsource: truncated raw heightmap")
)

// DefaultMaxHeight is the height of a full-scale sample when no maximum is
// configured.
const DefaultMaxHeight = 256

// Grid serves a fixed in-memory height grid.
type Grid struct {
	landscape.HeightGrid
}

// NewGrid wraps row-major values. len(values) must be width*height.
func NewGrid(width, height int, values []float32) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyGrid, width, height)
	}
	if len(values) != width*height {
		return nil, fmt.Errorf("%w: got %d values for %dx%d", ErrSizeMismatch, len(values), width, height)
	}
	return &Grid{landscape.HeightGrid{Width: width, Height: height, Values: values}}, nil
}

// Flat returns a grid with every sample set to h.
func Flat(width, height int, h float32) *Grid {
	values := make([]float32, width*height)
	for i := range values {
		values[i] = h
	}
	return &Grid{landscape.HeightGrid{Width: width, Height: height, Values: values}}
}

// HeightValues implements landscape.HeightProvider.
func (g *Grid) HeightValues() (landscape.HeightGrid, error) {
	if g.Width <= 0 || g.Height <= 0 {
		return landscape.HeightGrid{}, ErrEmptyGrid
	}
	return g.HeightGrid, nil
}

// At returns the sample at (x, y) and false when out of range.
func (g *Grid) At(x, y int) (float32, bool) {
	if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return 0, false
	}
	return g.Values[y*g.Width+x], true
}

// Func generates heights from a function of the sample coordinates.
type Func struct {
	Width, Height int
	Fn            func(x, y int) float32
}

// HeightValues implements landscape.HeightProvider.
func (f Func) HeightValues() (landscape.HeightGrid, error) {
	if f.Width <= 0 || f.Height <= 0 || f.Fn == nil {
		return landscape.HeightGrid{}, ErrEmptyGrid
	}
	values := make([]float32, 0, f.Width*f.Height)
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			values = append(values, f.Fn(x, y))
		}
	}
	return landscape.HeightGrid{Width: f.Width, Height: f.Height, Values: values}, nil
}

func sampleScale(maxHeight float32) float32 {
	if maxHeight == 0 {
		maxHeight = DefaultMaxHeight
	}
	return maxHeight / 65535
}
