// Package landscape implements a tiled terrain surface whose layers, holes
// and vegetation can be edited at runtime. Edits invalidate only the patches
// they touch; patches are rebuilt one at a time with their vertex rows
// computed on a worker pool.
//
// A Surface is driven from a single goroutine: edits, Tick and Flush must not
// be called concurrently. Published geometry may be read from anywhere.
package landscape

import (
	"cmp"
	"context"
	"fmt"
	"runtime"
	"slices"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/runtime-landscape/internal/logger"
	lmath "github.com/Faultbox/runtime-landscape/pkg/math"
)

// RebuildMode selects how edits reach the geometry.
type RebuildMode uint8

const (
	// RebuildDeferred marks patches stale and rebuilds them from Tick.
	RebuildDeferred RebuildMode = iota
	// RebuildImmediate regenerates affected patches synchronously.
	RebuildImmediate
)

// Config is the construction-time configuration of a Surface.
type Config struct {
	Size             lmath.Vec2
	Resolution       [2]int // quads across the surface
	PatchGrid        [2]int
	HeightScale      float32
	UpdateCollision  bool
	UpdateNavigation bool
	Workers          int // 0 = runtime.NumCPU()
	Mode             RebuildMode
	Seed             uint64
	Vegetation       VegetationConfig
	Debug            DebugConfig
}

// DefaultConfig returns a 1000x1000 surface with 10x10 quads in 2x2 patches.
func DefaultConfig() Config {
	return Config{
		Size:             lmath.Vec2{X: 1000, Y: 1000},
		Resolution:       [2]int{10, 10},
		PatchGrid:        [2]int{2, 2},
		HeightScale:      1,
		UpdateCollision:  true,
		UpdateNavigation: true,
		Seed:             1,
		Vegetation:       VegetationConfig{MinPaintWeight: 0.2, DensityScale: 1e-5},
		Debug:            DefaultDebugConfig(),
	}
}

type layerEntry struct {
	layer *Layer
	seq   uint64
}

// Surface owns the patches of one landscape together with the layers and
// hole volumes applied to it.
type Surface struct {
	cfg   Config
	log   *zap.Logger
	hooks Hooks

	patchRes  [2]int
	patchSize lmath.Vec2
	spacing   lmath.Vec2

	patches []*Patch
	layers  map[LayerID]*layerEntry
	nextSeq uint64
	holes   []*HoleVolume

	paint *PaintTargets
	veg   *vegetationPlan

	dirty  []int
	coord  *coordinator
	closed bool
}

// New creates an empty surface. Call Initialize or InitializeFromBuffers to
// create its patches.
func New(cfg Config, hooks Hooks) (*Surface, error) {
	if cfg.Size.X <= 0 || cfg.Size.Y <= 0 {
		return nil, fmt.Errorf("landscape size must be positive, got %v", cfg.Size)
	}
	if cfg.Resolution[0] <= 0 || cfg.Resolution[1] <= 0 || cfg.PatchGrid[0] <= 0 || cfg.PatchGrid[1] <= 0 {
		return nil, fmt.Errorf("resolution %v and patch grid %v must be positive", cfg.Resolution, cfg.PatchGrid)
	}
	if cfg.HeightScale == 0 {
		cfg.HeightScale = 1
	}

	log := logger.Named("landscape")
	if cfg.Resolution[0]%cfg.PatchGrid[0] != 0 || cfg.Resolution[1]%cfg.PatchGrid[1] != 0 {
		log.Warn("resolution is not a multiple of the patch grid, trailing quads are dropped",
			zap.Ints("resolution", cfg.Resolution[:]),
			zap.Ints("patch_grid", cfg.PatchGrid[:]))
	}

	s := &Surface{
		cfg:    cfg,
		log:    log,
		hooks:  hooks,
		layers: make(map[LayerID]*layerEntry),
	}
	s.patchRes = [2]int{
		max(cfg.Resolution[0]/cfg.PatchGrid[0], 1),
		max(cfg.Resolution[1]/cfg.PatchGrid[1], 1),
	}
	s.spacing = lmath.Vec2{
		X: cfg.Size.X / float32(cfg.Resolution[0]),
		Y: cfg.Size.Y / float32(cfg.Resolution[1]),
	}
	s.patchSize = lmath.Vec2{
		X: s.spacing.X * float32(s.patchRes[0]),
		Y: s.spacing.Y * float32(s.patchRes[1]),
	}

	veg, err := newVegetationPlan(cfg.Vegetation, s.spacing)
	if err != nil {
		return nil, fmt.Errorf("vegetation: %w", err)
	}
	s.veg = veg
	s.paint = newPaintTargets(
		s.patchRes[0]*cfg.PatchGrid[0]+1,
		s.patchRes[1]*cfg.PatchGrid[1]+1,
		s.spacing,
	)
	s.coord = newCoordinator(s, logger.Named("rebuild"), cfg.Workers, s.patchRes[1]+1)

	log.Info("surface created",
		zap.Int("patches", s.PatchCount()),
		zap.Ints("patch_resolution", s.patchRes[:]),
		zap.Int("vertices_per_patch", s.VerticesPerPatch()),
		zap.Int("workers", s.coord.pool.Workers()))
	return s, nil
}

// Config returns the configuration the surface was built with.
func (s *Surface) Config() Config { return s.cfg }

// PatchCount returns Nx*Ny.
func (s *Surface) PatchCount() int { return s.cfg.PatchGrid[0] * s.cfg.PatchGrid[1] }

// PatchResolution returns the quads per patch on each axis.
func (s *Surface) PatchResolution() [2]int { return s.patchRes }

// PatchSize returns the plane size of one patch.
func (s *Surface) PatchSize() lmath.Vec2 { return s.patchSize }

// QuadSize returns the distance between neighbouring vertices.
func (s *Surface) QuadSize() lmath.Vec2 { return s.spacing }

// VerticesPerPatch returns (rx+1)*(ry+1).
func (s *Surface) VerticesPerPatch() int {
	return (s.patchRes[0] + 1) * (s.patchRes[1] + 1)
}

// Paint returns the ground type rasters.
func (s *Surface) Paint() *PaintTargets { return s.paint }

// Patch returns a patch by index.
func (s *Surface) Patch(index int) (*Patch, error) {
	if s.patches == nil {
		return nil, ErrNotInitialized
	}
	if index < 0 || index >= len(s.patches) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPatch, index)
	}
	return s.patches[index], nil
}

// Patches returns every patch in index order.
func (s *Surface) Patches() []*Patch {
	return slices.Clone(s.patches)
}

// Stats returns coordinator counters.
func (s *Surface) Stats() RebuildStats {
	return s.coord.stats
}

// Initialize (re)creates the patches from a height provider. Layers and hole
// volumes already registered are carried over. Any rebuild in flight is
// abandoned.
func (s *Surface) Initialize(ctx context.Context, src HeightProvider) error {
	if s.closed {
		return ErrClosed
	}
	grid, err := src.HeightValues()
	if err != nil {
		return fmt.Errorf("reading height values: %w", err)
	}
	if grid.Width <= 0 || grid.Height <= 0 {
		return fmt.Errorf("height grid %dx%d is empty", grid.Width, grid.Height)
	}

	start := time.Now()
	patches := make([]*Patch, s.PatchCount())
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(runtime.NumCPU(), 1))
	for i := range patches {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			col, row := s.PatchCoordinates(i)
			heights, missing := s.resample(grid, col, row)
			if missing > 0 {
				s.log.Warn("height samples out of range, using zero",
					zap.Int("patch", i), zap.Int("samples", missing))
			}
			patches[i] = newPatch(i, col, row, heights)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("initializing patches: %w", err)
	}

	s.install(patches)
	s.log.Info("surface initialized",
		zap.Int("source_width", grid.Width),
		zap.Int("source_height", grid.Height),
		zap.Duration("took", time.Since(start)))
	return nil
}

// InitializeFromBuffers creates patches from ready-made per-patch height
// buffers, one per patch in index order. A buffer whose length does not
// match VerticesPerPatch is kept; that patch is skipped at rebuild time.
func (s *Surface) InitializeFromBuffers(buffers [][]float32) error {
	if s.closed {
		return ErrClosed
	}
	if len(buffers) != s.PatchCount() {
		return fmt.Errorf("got %d height buffers for %d patches", len(buffers), s.PatchCount())
	}
	patches := make([]*Patch, len(buffers))
	for i, b := range buffers {
		col, row := s.PatchCoordinates(i)
		patches[i] = newPatch(i, col, row, slices.Clone(b))
	}
	s.install(patches)
	return nil
}

// resample picks the nearest source sample for every vertex of a patch using
// a whole-number stride.
func (s *Surface) resample(grid HeightGrid, col, row int) ([]float32, int) {
	totalX := s.patchRes[0] * s.cfg.PatchGrid[0]
	totalY := s.patchRes[1] * s.cfg.PatchGrid[1]
	strideX := max(1, (grid.Width-1)/totalX)
	strideY := max(1, (grid.Height-1)/totalY)

	rx, ry := s.patchRes[0], s.patchRes[1]
	out := make([]float32, 0, (rx+1)*(ry+1))
	missing := 0
	for y := 0; y <= ry; y++ {
		sy := (row*ry + y) * strideY
		for x := 0; x <= rx; x++ {
			sx := (col*rx + x) * strideX
			i := sy*grid.Width + sx
			if sx >= grid.Width || sy >= grid.Height || i >= len(grid.Values) {
				out = append(out, 0)
				missing++
				continue
			}
			out = append(out, grid.Values[i]*s.cfg.HeightScale)
		}
	}
	return out, missing
}

// install swaps in a new patch set, re-applies registered layers and holes
// and requests a rebuild of everything.
func (s *Surface) install(patches []*Patch) {
	s.Cancel()
	s.patches = patches
	for _, e := range s.orderedLayers() {
		for _, i := range s.PatchesInArea(e.layer.Bounds()) {
			s.patches[i].AddLayer(e.layer.ID)
		}
	}
	for _, p := range s.patches {
		s.recomputeVolumeHoles(p)
	}
	for i := range s.patches {
		s.invalidate(i)
	}
}

func (s *Surface) orderedLayers() []*layerEntry {
	out := make([]*layerEntry, 0, len(s.layers))
	for _, e := range s.layers {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b *layerEntry) int { return cmp.Compare(a.seq, b.seq) })
	return out
}

// Layers returns copies of the registered layers in application order.
func (s *Surface) Layers() []Layer {
	entries := s.orderedLayers()
	out := make([]Layer, len(entries))
	for i, e := range entries {
		out[i] = *e.layer.clone()
	}
	return out
}

// Layer returns a copy of a registered layer.
func (s *Surface) Layer(id LayerID) (Layer, error) {
	e, ok := s.layers[id]
	if !ok {
		return Layer{}, fmt.Errorf("%w: %s", ErrUnknownLayer, id)
	}
	return *e.layer.clone(), nil
}

// AddLayer registers a layer and invalidates the patches it overlaps. A zero
// ID is replaced by a fresh one.
func (s *Surface) AddLayer(l Layer) (LayerID, error) {
	if s.closed {
		return uuid.Nil, ErrClosed
	}
	if err := l.validate(); err != nil {
		return uuid.Nil, err
	}
	layer := l.clone()
	if layer.ID == uuid.Nil {
		layer.ID = uuid.New()
	}
	if _, dup := s.layers[layer.ID]; dup {
		return uuid.Nil, fmt.Errorf("layer %s already registered", layer.ID)
	}
	s.nextSeq++
	s.layers[layer.ID] = &layerEntry{layer: layer, seq: s.nextSeq}
	s.paint.stamp(layer)

	affected := s.PatchesInArea(layer.Bounds())
	for _, i := range affected {
		if s.patches != nil {
			s.patches[i].AddLayer(layer.ID)
		}
	}
	s.log.Debug("layer added",
		zap.Stringer("layer", layer.ID),
		zap.String("name", layer.Name),
		zap.Ints("patches", affected))
	s.invalidateAll(affected)
	return layer.ID, nil
}

// UpdateLayer replaces the definition of a registered layer, keeping its
// position in the application order. Patches under the old and the new
// area are invalidated.
func (s *Surface) UpdateLayer(l Layer) error {
	if s.closed {
		return ErrClosed
	}
	e, ok := s.layers[l.ID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownLayer, l.ID)
	}
	if err := l.validate(); err != nil {
		return err
	}
	old := e.layer
	e.layer = l.clone()

	before := s.PatchesInArea(old.Bounds())
	after := s.PatchesInArea(e.layer.Bounds())
	if s.patches != nil {
		for _, i := range before {
			if !slices.Contains(after, i) {
				s.patches[i].RemoveLayer(l.ID)
			}
		}
		for _, i := range after {
			if s.patches[i].AddLayer(l.ID) {
				s.sortPatchLayers(s.patches[i])
			}
		}
	}
	if old.HasEffect(EffectGroundTypePaint) || e.layer.HasEffect(EffectGroundTypePaint) {
		s.repaint()
	}

	union := slices.Clone(before)
	for _, i := range after {
		if !slices.Contains(union, i) {
			union = append(union, i)
		}
	}
	slices.Sort(union)
	s.invalidateAll(union)
	return nil
}

// RemoveLayer detaches a layer from every patch and invalidates them.
func (s *Surface) RemoveLayer(id LayerID) error {
	if s.closed {
		return ErrClosed
	}
	e, ok := s.layers[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownLayer, id)
	}
	var affected []int
	for _, p := range s.patches {
		if p.RemoveLayer(id) {
			affected = append(affected, p.index)
		}
	}
	delete(s.layers, id)
	if e.layer.HasEffect(EffectGroundTypePaint) {
		s.repaint()
	}
	s.log.Debug("layer removed", zap.Stringer("layer", id), zap.Ints("patches", affected))
	s.invalidateAll(affected)
	return nil
}

func (s *Surface) sortPatchLayers(p *Patch) {
	slices.SortFunc(p.layers, func(a, b LayerID) int {
		return cmp.Compare(s.layers[a].seq, s.layers[b].seq)
	})
}

func (s *Surface) repaint() {
	entries := s.orderedLayers()
	layers := make([]*Layer, len(entries))
	for i, e := range entries {
		layers[i] = e.layer
	}
	s.paint.repaint(layers)
}

// patchLayers resolves the layer IDs of a patch.
func (s *Surface) patchLayers(p *Patch) []*Layer {
	out := make([]*Layer, 0, len(p.layers))
	for _, id := range p.layers {
		if e, ok := s.layers[id]; ok {
			out = append(out, e.layer)
		}
	}
	return out
}

// Holes returns copies of the registered hole volumes.
func (s *Surface) Holes() []HoleVolume {
	out := make([]HoleVolume, len(s.holes))
	for i, h := range s.holes {
		out[i] = *h
	}
	return out
}

// AddHole registers a hole volume, marks every vertex it contains and
// invalidates the patches it overlaps.
func (s *Surface) AddHole(h HoleVolume) (HoleID, error) {
	if s.closed {
		return uuid.Nil, ErrClosed
	}
	if err := h.Shape.validate(); err != nil {
		return uuid.Nil, fmt.Errorf("hole %q: %w", h.Name, err)
	}
	hole := h
	if hole.ID == uuid.Nil {
		hole.ID = uuid.New()
	}
	if slices.ContainsFunc(s.holes, func(o *HoleVolume) bool { return o.ID == hole.ID }) {
		return uuid.Nil, fmt.Errorf("hole %s already registered", hole.ID)
	}
	s.holes = append(s.holes, &hole)

	affected := s.PatchesInArea(hole.Bounds())
	if s.patches != nil {
		for _, i := range affected {
			p := s.patches[i]
			mask := make([]bool, s.VerticesPerPatch())
			copy(mask, p.volumeHoles)
			hole.markInside(s.currentVertices(p), mask)
			p.volumeHoles = compactMask(mask)
		}
	}
	s.log.Debug("hole added", zap.Stringer("hole", hole.ID), zap.Ints("patches", affected))
	s.invalidateAll(affected)
	return hole.ID, nil
}

// RemoveHole unregisters a hole volume. Membership of the patches it
// overlapped is recomputed from the remaining volumes.
func (s *Surface) RemoveHole(id HoleID) error {
	if s.closed {
		return ErrClosed
	}
	i := slices.IndexFunc(s.holes, func(h *HoleVolume) bool { return h.ID == id })
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownHole, id)
	}
	hole := s.holes[i]
	s.holes = slices.Delete(s.holes, i, i+1)

	affected := s.PatchesInArea(hole.Bounds())
	if s.patches != nil {
		for _, pi := range affected {
			s.recomputeVolumeHoles(s.patches[pi])
		}
	}
	s.log.Debug("hole removed", zap.Stringer("hole", id), zap.Ints("patches", affected))
	s.invalidateAll(affected)
	return nil
}

func (s *Surface) recomputeVolumeHoles(p *Patch) {
	bounds := s.PatchBounds(p.index)
	var mask []bool
	var verts []lmath.Vec3
	for _, h := range s.holes {
		if !h.Bounds().Intersects(bounds) {
			continue
		}
		if mask == nil {
			mask = make([]bool, s.VerticesPerPatch())
			verts = s.currentVertices(p)
		}
		h.markInside(verts, mask)
	}
	p.volumeHoles = compactMask(mask)
}

// currentVertices returns the last published vertices, or the unedited
// ones before the first build.
func (s *Surface) currentVertices(p *Patch) []lmath.Vec3 {
	if g := p.Geometry(); g != nil && len(g.Vertices) == s.VerticesPerPatch() {
		return g.Vertices
	}
	pts := s.patchPoints(p.index)
	out := make([]lmath.Vec3, len(pts))
	for i, pt := range pts {
		out[i] = lmath.Vec3{X: pt.X, Y: pt.Y}
		if i < len(p.initialHeights) {
			out[i].Z = p.initialHeights[i]
		}
	}
	return out
}

func compactMask(mask []bool) []bool {
	if slices.Contains(mask, true) {
		return mask
	}
	return nil
}

// SetVegetation replaces the vegetation setup and rebuilds every patch.
func (s *Surface) SetVegetation(cfg VegetationConfig) error {
	if s.closed {
		return ErrClosed
	}
	veg, err := newVegetationPlan(cfg, s.spacing)
	if err != nil {
		return fmt.Errorf("vegetation: %w", err)
	}
	s.cfg.Vegetation = cfg
	s.veg = veg
	s.invalidateAll(s.allPatches())
	return nil
}

// SetDebug replaces the debug coloring and rebuilds every patch.
func (s *Surface) SetDebug(d DebugConfig) error {
	if s.closed {
		return ErrClosed
	}
	s.cfg.Debug = d
	s.invalidateAll(s.allPatches())
	return nil
}

func (s *Surface) allPatches() []int {
	out := make([]int, len(s.patches))
	for i := range out {
		out[i] = i
	}
	return out
}

func (s *Surface) invalidateAll(indices []int) {
	if s.patches == nil {
		return
	}
	for _, i := range indices {
		s.invalidate(i)
	}
}

func (s *Surface) invalidate(index int) {
	if s.cfg.Mode == RebuildImmediate {
		s.rebuildImmediate(s.patches[index])
		return
	}
	if s.patches[index].MarkStale() {
		s.dirty = append(s.dirty, index)
	}
}

// RebuildImmediate regenerates a patch synchronously with the sequential
// generator and publishes it.
func (s *Surface) RebuildImmediate(index int) error {
	if s.closed {
		return ErrClosed
	}
	p, err := s.Patch(index)
	if err != nil {
		return err
	}
	s.rebuildImmediate(p)
	return nil
}

// RebuildDeferred marks a patch stale; it is rebuilt from a later Tick.
func (s *Surface) RebuildDeferred(index int) error {
	if s.closed {
		return ErrClosed
	}
	p, err := s.Patch(index)
	if err != nil {
		return err
	}
	if p.MarkStale() {
		s.dirty = append(s.dirty, index)
	}
	return nil
}

func (s *Surface) rebuildImmediate(p *Patch) {
	if p.state == PatchRebuilding {
		// The in-flight result predates this edit and must never be
		// published over it.
		s.coord.drop(p.index)
		p.reset()
	}
	cache, layers, err := s.prepare(p)
	if err != nil {
		s.log.Warn("patch skipped, keeping last geometry", zap.Int("patch", p.index), zap.Error(err))
		return
	}
	s.publish(p, cache, generateSequential(cache), layers)
}

// GenerateGeometry builds a patch mesh from the current state on the calling
// goroutine. The patch is left untouched.
func (s *Surface) GenerateGeometry(index int) (*Geometry, error) {
	p, err := s.Patch(index)
	if err != nil {
		return nil, err
	}
	cache, _, err := s.prepare(p)
	if err != nil {
		return nil, err
	}
	return generateSequential(cache), nil
}

// prepare snapshots heights, applies layers and captures everything a
// rebuild reads.
func (s *Surface) prepare(p *Patch) (*rowCache, []*Layer, error) {
	n := s.VerticesPerPatch()
	if len(p.initialHeights) != n {
		return nil, nil, fmt.Errorf("patch %d has %d height values, want %d", p.index, len(p.initialHeights), n)
	}
	heights := slices.Clone(p.initialHeights)
	colors := make([]lmath.Color, n)
	for i := range colors {
		colors[i] = lmath.White
	}
	layers := s.patchLayers(p)
	layerHoles := p.ApplyLayers(layers, s.patchPoints(p.index), heights, colors)

	cut := slices.ContainsFunc(layers, func(l *Layer) bool { return l.HasEffect(EffectHole) }) ||
		slices.Contains(p.volumeHoles, true)
	nx, ny := s.cfg.PatchGrid[0], s.cfg.PatchGrid[1]
	c := &rowCache{
		patch:      p.index,
		col:        p.col,
		row:        p.row,
		res:        s.patchRes,
		spacing:    s.spacing,
		uvStep:     lmath.Vec2{X: 1 / float32(s.patchRes[0]), Y: 1 / float32(s.patchRes[1])},
		uv1Scale:   lmath.Vec2{X: 1 / float32(nx), Y: 1 / float32(ny)},
		bounds:     s.PatchBounds(p.index),
		heights:    heights,
		colors:     colors,
		layerHoles: layerHoles,
		holes:      mergeHoles(layerHoles, p.volumeHoles),
		paint:      s.paint.snapshot(),
		veg:        s.veg,
		seed:       s.cfg.Seed,
		debugColor: s.cfg.Debug.patchColor(p.index, p.col, p.row, nx*ny, cut),
	}
	c.uv1Off = c.uv1Scale.Mul(lmath.Vec2{X: float32(p.col), Y: float32(p.row)})
	return c, layers, nil
}

// publish swaps in new geometry, records the layer holes it was built with
// and notifies collaborators.
func (s *Surface) publish(p *Patch, c *rowCache, g *Geometry, layers []*Layer) {
	p.layerHoles = c.layerHoles
	p.geometry.Store(g)
	s.log.Debug("patch published",
		zap.Int("patch", p.index),
		zap.Int("vertices", g.VertexCount()),
		zap.Int("triangles", g.TriangleCount()),
		zap.Int("instances", g.InstanceCount()),
		zap.String("size", humanize.IBytes(g.SizeBytes())))

	bounds := s.PatchBounds(p.index)
	if s.hooks.Foliage != nil && len(layers) > 0 {
		s.hooks.Foliage.RemoveFoliage(bounds, func(pt lmath.Vec2) bool {
			for _, l := range layers {
				if l.Affects(pt) {
					return true
				}
			}
			return false
		})
	}
	if s.hooks.Instances != nil {
		s.hooks.Instances.ReplaceInstances(p.index, g.Instances)
	}
	if s.cfg.UpdateNavigation && s.hooks.Navigation != nil {
		s.hooks.Navigation.GeometryChanged(p.index, bounds, g)
	}
	if s.cfg.UpdateCollision && s.hooks.Collision != nil {
		s.hooks.Collision.CollisionChanged(p.index, g)
	}
}

// Tick merges a finished rebuild, then hands stale patches to the
// coordinator. A rebuild started by this call is merged by a later one. It
// never waits for workers.
func (s *Surface) Tick() {
	if s.closed {
		return
	}
	s.coord.tick()
	dirty := s.dirty
	s.dirty = nil
	for _, i := range dirty {
		s.coord.queueRebuild(i)
	}
}

// Idle reports whether nothing is stale, queued or in flight.
func (s *Surface) Idle() bool {
	return len(s.dirty) == 0 && s.coord.idle()
}

// Flush ticks until every pending rebuild is published.
func (s *Surface) Flush(ctx context.Context) error {
	if s.closed {
		return ErrClosed
	}
	for {
		s.Tick()
		if s.Idle() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.coord.wake:
		}
	}
}

// Cancel abandons the in-flight rebuild and drops every pending request.
// Patches keep their last published geometry.
func (s *Surface) Cancel() {
	s.coord.cancel()
	s.dirty = nil
	for _, p := range s.patches {
		p.reset()
	}
}

// Close cancels pending work and stops the worker pool.
func (s *Surface) Close() {
	if s.closed {
		return
	}
	s.Cancel()
	s.coord.close()
	s.closed = true
	s.log.Info("surface closed",
		zap.Int("published", s.coord.stats.Published),
		zap.Int("skipped", s.coord.stats.Skipped),
		zap.Int("abandoned", s.coord.stats.Abandoned))
}
