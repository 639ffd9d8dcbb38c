package heightsource

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// DecodeRaw16 reads little-endian unsigned 16-bit samples. When opts does
// not give the dimensions, the data is assumed square and size (the byte
// length of r) is used to find the side.
func DecodeRaw16(r io.Reader, size int64, opts Options) (*Grid, error) {
	w, h := opts.Width, opts.Height
	if w <= 0 || h <= 0 {
		side := int(math.Sqrt(float64(size / 2)))
		if side == 0 || int64(side*side*2) != size {
			return nil, fmt.Errorf("%w: %d bytes is not a square 16-bit grid, give the dimensions", ErrSizeMismatch, size)
		}
		w, h = side, side
	}

	samples := make([]uint16, w*h)
	if err := binary.Read(bufio.NewReader(r), binary.LittleEndian, samples); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: want %d samples", ErrTruncatedRaw, w*h)
		}
		return nil, fmt.Errorf("reading raw heightmap: %w", err)
	}

	scale := sampleScale(opts.MaxHeight)
	values := make([]float32, len(samples))
	for i, s := range samples {
		values[i] = float32(s) * scale
	}
	return NewGrid(w, h, values)
}

// EncodeRaw16 writes heights as little-endian 16-bit samples, clamping to
// the representable range.
func EncodeRaw16(w io.Writer, g *Grid, maxHeight float32) error {
	scale := sampleScale(maxHeight)
	samples := make([]uint16, len(g.Values))
	for i, v := range g.Values {
		s := math.Round(float64(v / scale))
		samples[i] = uint16(max(0, min(s, math.MaxUint16)))
	}
	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, samples); err != nil {
		return fmt.Errorf("writing raw heightmap: %w", err)
	}
	return bw.Flush()
}
