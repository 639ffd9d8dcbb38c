package landscape

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"

	lmath "github.com/Faultbox/runtime-landscape/pkg/math"
)

// ScalingMode controls how a grass instance scale is randomized.
type ScalingMode uint8

const (
	// ScaleUniform draws one factor from ScaleX for all axes.
	ScaleUniform ScalingMode = iota
	// ScaleFree draws every axis from its own range.
	ScaleFree
	// ScaleLockXY shares the X draw with Y and draws Z separately.
	ScaleLockXY
)

// ParseScalingMode maps a config name to a scaling mode.
func ParseScalingMode(s string) (ScalingMode, error) {
	switch s {
	case "uniform", "":
		return ScaleUniform, nil
	case "free":
		return ScaleFree, nil
	case "lock_xy":
		return ScaleLockXY, nil
	}
	return 0, fmt.Errorf("unknown scaling mode %q", s)
}

// FloatRange is an inclusive range for random draws.
type FloatRange struct {
	Min, Max float32
}

func (r FloatRange) draw(rng *rand.Rand) float32 {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.Float32()*(r.Max-r.Min)
}

// GrassVariety is one instanced mesh of a grass type.
type GrassVariety struct {
	Name           string
	Density        float32
	RandomRotation bool
	Scaling        ScalingMode
	ScaleX         FloatRange
	ScaleY         FloatRange
	ScaleZ         FloatRange
}

// GrassType groups the varieties spawned together.
type GrassType struct {
	Name      string
	Varieties []GrassVariety
}

// GroundType is a paintable surface kind with its grass.
type GroundType struct {
	Name  string
	Grass string
}

// HeightBand spawns grass on unpainted vertices strictly between Min and Max.
type HeightBand struct {
	Min, Max float32
	Grass    string
}

// VegetationConfig describes how grass is scattered over the surface.
type VegetationConfig struct {
	MinPaintWeight float32
	DensityScale   float32
	Grass          []GrassType
	GroundTypes    []GroundType
	HeightBands    []HeightBand
}

// vegetationPlan is the resolved, read-only form of VegetationConfig used by
// row workers.
type vegetationPlan struct {
	grass     []GrassType
	slotBase  []int
	slots     int
	ground    []groundGrass
	bands     []bandGrass
	minWeight float32
	density   float32
	quadArea  float32
	quadSide  lmath.Vec2
}

type groundGrass struct {
	name  string
	grass int
}

type bandGrass struct {
	min, max float32
	grass    int
}

// newVegetationPlan resolves grass names. It returns nil when nothing can
// ever be spawned.
func newVegetationPlan(cfg VegetationConfig, quadSide lmath.Vec2) (*vegetationPlan, error) {
	if len(cfg.Grass) == 0 {
		return nil, nil
	}
	p := &vegetationPlan{
		grass:     cfg.Grass,
		minWeight: cfg.MinPaintWeight,
		density:   cfg.DensityScale,
		quadArea:  quadSide.X * quadSide.Y,
		quadSide:  quadSide,
	}
	byName := make(map[string]int, len(cfg.Grass))
	for i, g := range cfg.Grass {
		if _, dup := byName[g.Name]; dup {
			return nil, fmt.Errorf("duplicate grass type %q", g.Name)
		}
		byName[g.Name] = i
		p.slotBase = append(p.slotBase, p.slots)
		p.slots += len(g.Varieties)
	}
	for _, gt := range cfg.GroundTypes {
		if gt.Grass == "" {
			continue
		}
		idx, ok := byName[gt.Grass]
		if !ok {
			return nil, fmt.Errorf("ground type %q: unknown grass %q", gt.Name, gt.Grass)
		}
		p.ground = append(p.ground, groundGrass{name: gt.Name, grass: idx})
	}
	for _, b := range cfg.HeightBands {
		idx, ok := byName[b.Grass]
		if !ok {
			return nil, fmt.Errorf("height band [%v,%v]: unknown grass %q", b.Min, b.Max, b.Grass)
		}
		p.bands = append(p.bands, bandGrass{min: b.Min, max: b.Max, grass: idx})
	}
	return p, nil
}

func (p *vegetationPlan) slotCount() int {
	return p.slots
}

// selectGrass picks the grass for a vertex: the heaviest painted ground type
// above the minimum weight, otherwise the last height band containing h.
func (p *vegetationPlan) selectGrass(paint *paintSnapshot, gx, gy int, h float32) (int, float32) {
	grass, highest := -1, float32(0)
	for _, g := range p.ground {
		w := paint.weight(g.name, gx, gy)
		if w >= highest && w > p.minWeight {
			grass, highest = g.grass, w
		}
	}
	if grass >= 0 {
		return grass, highest
	}
	for _, b := range p.bands {
		if b.min < h && h < b.max {
			grass, highest = b.grass, 1
		}
	}
	return grass, highest
}

// place scatters the instances belonging to vertex (x, y) into slots.
func (p *vegetationPlan) place(c *rowCache, rng *rand.Rand, x, y int, slots [][]mgl32.Mat4) {
	if c.inHole(c.vertexIndex(x, y)) {
		return
	}
	pos := c.position(x, y)
	gx := c.col*c.res[0] + x
	gy := c.row*c.res[1] + y
	grass, weight := p.selectGrass(c.paint, gx, gy, pos.Z)
	if grass < 0 {
		return
	}
	for vi, v := range p.grass[grass].Varieties {
		n := int(math.Round(float64(p.quadArea * v.Density * p.density * weight)))
		slot := p.slotBase[grass] + vi
		for ; n > 0; n-- {
			slots[slot] = append(slots[slot], p.instance(rng, v, pos))
		}
	}
}

func (p *vegetationPlan) instance(rng *rand.Rand, v GrassVariety, at lmath.Vec3) mgl32.Mat4 {
	ox := rng.Float32() - 0.5
	oy := rng.Float32() - 0.5
	pos := at.Add(lmath.Vec3{X: ox * p.quadSide.X, Y: oy * p.quadSide.Y}).MGL()

	rot := mgl32.QuatIdent()
	if v.RandomRotation {
		yaw := rng.Float32()*360 - 180
		rot = mgl32.QuatRotate(mgl32.DegToRad(yaw), lmath.Up.MGL())
	}

	var scale mgl32.Vec3
	switch v.Scaling {
	case ScaleFree:
		scale = mgl32.Vec3{v.ScaleX.draw(rng), v.ScaleY.draw(rng), v.ScaleZ.draw(rng)}
	case ScaleLockXY:
		sx := v.ScaleX.draw(rng)
		scale = mgl32.Vec3{sx, sx, v.ScaleZ.draw(rng)}
	default:
		s := v.ScaleX.draw(rng)
		scale = mgl32.Vec3{s, s, s}
	}

	return mgl32.Translate3D(pos[0], pos[1], pos[2]).
		Mul4(rot.Mat4()).
		Mul4(mgl32.Scale3D(scale[0], scale[1], scale[2]))
}

// batches turns per-slot transforms into renderer batches, skipping empty
// varieties.
func (p *vegetationPlan) batches(slots [][]mgl32.Mat4) []InstanceBatch {
	var out []InstanceBatch
	for gi, g := range p.grass {
		for vi, v := range g.Varieties {
			t := slots[p.slotBase[gi]+vi]
			if len(t) == 0 {
				continue
			}
			out = append(out, InstanceBatch{Grass: g.Name, Variety: v.Name, Transforms: t})
		}
	}
	return out
}
