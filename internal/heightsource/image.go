package heightsource

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	// Registered decoders for image.Decode.
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/Faultbox/runtime-landscape/internal/logger"
)

// Options controls how a heightmap file is interpreted.
type Options struct {
	// MaxHeight is the height of a full-scale sample. Zero means
	// DefaultMaxHeight.
	MaxHeight float32
	// Width and Height are required for raw files that are not square.
	Width, Height int
}

// DecodeImage reads a PNG, TIFF or BMP image and converts its luminance into
// heights. 8-bit images are widened to 16 bits before scaling.
func DecodeImage(r io.Reader, maxHeight float32) (*Grid, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("decoding heightmap image: %w", err)
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil, format, ErrEmptyGrid
	}

	scale := sampleScale(maxHeight)
	values := make([]float32, 0, w*h)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g := color.Gray16Model.Convert(img.At(x, y)).(color.Gray16)
			values = append(values, float32(g.Y)*scale)
		}
	}
	grid, err := NewGrid(w, h, values)
	return grid, format, err
}

// Load reads a heightmap file. The format follows the extension: .png,
// .tif/.tiff and .bmp are images, .raw and .r16 are little-endian 16-bit
// samples.
func Load(path string, opts Options) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening heightmap: %w", err)
	}
	defer f.Close()

	var size int64
	if st, err := f.Stat(); err == nil {
		size = st.Size()
	}

	var grid *Grid
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch format {
	case "png", "tif", "tiff", "bmp":
		grid, format, err = DecodeImage(f, opts.MaxHeight)
	case "raw", "r16":
		grid, err = DecodeRaw16(f, size, opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	logger.Named("heightsource").Info("heightmap loaded",
		zap.String("path", path),
		zap.String("format", format),
		zap.Int("width", grid.Width),
		zap.Int("height", grid.Height),
		zap.String("size", humanize.Bytes(uint64(size))))
	return grid, nil
}
