// Package export writes published landscape geometry to files.
package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"

	"github.com/Faultbox/runtime-landscape/internal/landscape"
	"github.com/Faultbox/runtime-landscape/internal/logger"
)

// Stats summarizes an export.
type Stats struct {
	Patches   int
	Vertices  int
	Triangles int
	Bytes     int64
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// WriteOBJ writes the given meshes as one Wavefront OBJ document with a
// group per patch. Vertex colors follow the position as r g b in [0,1].
// Nil entries are skipped.
func WriteOBJ(w io.Writer, meshes []*landscape.Geometry) (Stats, error) {
	cw := &countingWriter{w: w}
	bw := bufio.NewWriterSize(cw, 256*1024)

	var st Stats
	fmt.Fprintln(bw, "# runtime-landscape export")
	fmt.Fprintln(bw, "o landscape")

	base := 1
	for _, g := range meshes {
		if g == nil {
			continue
		}
		fmt.Fprintf(bw, "g patch_%d\n", g.Patch)
		for i, v := range g.Vertices {
			c := g.Colors[i]
			fmt.Fprintf(bw, "v %g %g %g %.4f %.4f %.4f\n", v.X, v.Y, v.Z,
				float32(c.R)/255, float32(c.G)/255, float32(c.B)/255)
		}
		for _, uv := range g.UV0 {
			fmt.Fprintf(bw, "vt %g %g\n", uv.X, uv.Y)
		}
		for _, n := range g.Normals {
			fmt.Fprintf(bw, "vn %g %g %g\n", n.X, n.Y, n.Z)
		}
		for i := 0; i+2 < len(g.Triangles); i += 3 {
			a := base + int(g.Triangles[i])
			b := base + int(g.Triangles[i+1])
			c := base + int(g.Triangles[i+2])
			fmt.Fprintf(bw, "f %d/%d/%d %d/%d/%d %d/%d/%d\n", a, a, a, b, b, b, c, c, c)
		}
		base += len(g.Vertices)
		st.Patches++
		st.Vertices += g.VertexCount()
		st.Triangles += g.TriangleCount()
	}

	if err := bw.Flush(); err != nil {
		return st, fmt.Errorf("writing obj: %w", err)
	}
	st.Bytes = cw.n
	return st, nil
}

// Meshes collects the published geometry of every patch of s.
func Meshes(s *landscape.Surface) []*landscape.Geometry {
	patches := s.Patches()
	out := make([]*landscape.Geometry, len(patches))
	for i, p := range patches {
		out[i] = p.Geometry()
	}
	return out
}

// WriteFile exports the published geometry of s to path. A path ending in
// .zst is zstd-compressed.
func WriteFile(path string, s *landscape.Surface) (Stats, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Stats{}, fmt.Errorf("creating export dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return Stats{}, err
	}
	defer f.Close()

	var st Stats
	if strings.HasSuffix(path, ".zst") {
		enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return Stats{}, err
		}
		st, err = WriteOBJ(enc, Meshes(s))
		if cerr := enc.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return st, err
		}
	} else if st, err = WriteOBJ(f, Meshes(s)); err != nil {
		return st, err
	}

	written := st.Bytes
	if info, err := f.Stat(); err == nil {
		written = info.Size()
	}
	logger.Named("export").Info("geometry exported",
		zap.String("path", path),
		zap.Int("patches", st.Patches),
		zap.Int("triangles", st.Triangles),
		zap.String("obj_size", humanize.Bytes(uint64(st.Bytes))),
		zap.String("file_size", humanize.Bytes(uint64(written))))
	return st, f.Close()
}
