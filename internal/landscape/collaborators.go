package landscape

import (
	"slices"
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	lmath "github.com/Faultbox/runtime-landscape/pkg/math"
)

// HeightGrid is a row-major grid of height samples.
type HeightGrid struct {
	Width  int
	Height int
	Values []float32
}

// HeightProvider supplies the source heights a surface is built from.
type HeightProvider interface {
	HeightValues() (HeightGrid, error)
}

// InstanceBatch holds every instance of one vegetation variety in a patch.
type InstanceBatch struct {
	Grass      string
	Variety    string
	Transforms []mgl32.Mat4
}

// InstanceRenderer receives vegetation for a patch. Batches always replace
// whatever the patch had before.
type InstanceRenderer interface {
	ReplaceInstances(patch int, batches []InstanceBatch)
}

// NavigationUpdater is told when a patch's geometry changed.
type NavigationUpdater interface {
	GeometryChanged(patch int, bounds lmath.Box2, g *Geometry)
}

// CollisionUpdater is told when a patch's collision geometry changed.
type CollisionUpdater interface {
	CollisionChanged(patch int, g *Geometry)
}

// FoliageRemover removes host foliage instances inside area for which
// affected returns true.
type FoliageRemover interface {
	RemoveFoliage(area lmath.Box2, affected func(lmath.Vec2) bool)
}

// Hooks bundles the optional collaborators of a Surface.
type Hooks struct {
	Instances  InstanceRenderer
	Navigation NavigationUpdater
	Collision  CollisionUpdater
	Foliage    FoliageRemover
}

// InstanceStore is an in-memory InstanceRenderer.
type InstanceStore struct {
	mu      sync.RWMutex
	patches map[int][]InstanceBatch
}

// NewInstanceStore creates an empty store.
func NewInstanceStore() *InstanceStore {
	return &InstanceStore{patches: make(map[int][]InstanceBatch)}
}

// ReplaceInstances implements InstanceRenderer.
func (s *InstanceStore) ReplaceInstances(patch int, batches []InstanceBatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(batches) == 0 {
		delete(s.patches, patch)
		return
	}
	s.patches[patch] = batches
}

// Batches returns the batches of a patch.
func (s *InstanceStore) Batches(patch int) []InstanceBatch {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.patches[patch])
}

// Count returns the total number of instances across all patches.
func (s *InstanceStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, batches := range s.patches {
		for _, b := range batches {
			n += len(b.Transforms)
		}
	}
	return n
}
