package scene

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/runtime-landscape/internal/landscape"
	"github.com/Faultbox/runtime-landscape/internal/logger"
	lmath "github.com/Faultbox/runtime-landscape/pkg/math"
)

// ToShape converts a scene shape.
func (s Shape) ToShape() (landscape.Shape, error) {
	switch s.Type {
	case "box":
		if len(s.Min) != 2 || len(s.Max) != 2 {
			return landscape.Shape{}, errors.New("box needs 2D min and max")
		}
		b := landscape.Box(lmath.Vec2{X: s.Min[0], Y: s.Min[1]}, lmath.Vec2{X: s.Max[0], Y: s.Max[1]})
		b.Yaw = s.Yaw
		return b, nil
	case "sphere":
		if len(s.Center) < 2 {
			return landscape.Shape{}, errors.New("sphere needs a center")
		}
		c := lmath.Vec3{X: s.Center[0], Y: s.Center[1]}
		if len(s.Center) > 2 {
			c.Z = s.Center[2]
		}
		return landscape.Sphere(c, s.Radius), nil
	}
	return landscape.Shape{}, fmt.Errorf("unknown shape type %q", s.Type)
}

// ToEffect converts a scene effect.
func (e Effect) ToEffect() (landscape.Effect, error) {
	switch e.Type {
	case "height":
		return landscape.HeightEffect(e.Value), nil
	case "color":
		c, err := lmath.ParseHexColor(e.Color)
		if err != nil {
			return landscape.Effect{}, err
		}
		return landscape.ColorEffect(c), nil
	case "hole":
		return landscape.HoleEffect(e.Threshold), nil
	case "paint":
		w := float32(1)
		if e.Weight != nil {
			w = *e.Weight
		}
		return landscape.PaintEffect(e.GroundType, w), nil
	}
	return landscape.Effect{}, fmt.Errorf("unknown effect type %q", e.Type)
}

// ToLayer converts a scene layer.
func (l Layer) ToLayer() (landscape.Layer, error) {
	shape, err := l.Shape.ToShape()
	if err != nil {
		return landscape.Layer{}, err
	}
	dir, err := landscape.ParseSmoothingDirection(l.Smoothing.Direction)
	if err != nil {
		return landscape.Layer{}, err
	}
	out := landscape.Layer{
		Name:      l.Name,
		Shape:     shape,
		Smoothing: landscape.Smoothing{Distance: l.Smoothing.Distance, Direction: dir},
	}
	for i, e := range l.Effects {
		eff, err := e.ToEffect()
		if err != nil {
			return landscape.Layer{}, fmt.Errorf("effect %d: %w", i, err)
		}
		out.Effects = append(out.Effects, eff)
	}
	return out, nil
}

func toRange(v []float32, def landscape.FloatRange) landscape.FloatRange {
	if len(v) != 2 {
		return def
	}
	return landscape.FloatRange{Min: v[0], Max: v[1]}
}

// ToVegetation converts the vegetation section, filling unset scalars from
// base.
func (v *Vegetation) ToVegetation(base landscape.VegetationConfig) (landscape.VegetationConfig, error) {
	out := landscape.VegetationConfig{
		MinPaintWeight: base.MinPaintWeight,
		DensityScale:   base.DensityScale,
	}
	if v.MinPaintWeight != nil {
		out.MinPaintWeight = *v.MinPaintWeight
	}
	if v.DensityScale != nil {
		out.DensityScale = *v.DensityScale
	}

	var errs error
	one := landscape.FloatRange{Min: 1, Max: 1}
	for _, g := range v.Grass {
		gt := landscape.GrassType{Name: g.Name}
		for _, vr := range g.Varieties {
			mode, err := landscape.ParseScalingMode(vr.Scaling)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("grass %q variety %q: %w", g.Name, vr.Name, err))
				continue
			}
			gt.Varieties = append(gt.Varieties, landscape.GrassVariety{
				Name:           vr.Name,
				Density:        vr.Density,
				RandomRotation: vr.RandomRotation,
				Scaling:        mode,
				ScaleX:         toRange(vr.ScaleX, one),
				ScaleY:         toRange(vr.ScaleY, one),
				ScaleZ:         toRange(vr.ScaleZ, one),
			})
		}
		out.Grass = append(out.Grass, gt)
	}
	for _, g := range v.GroundTypes {
		out.GroundTypes = append(out.GroundTypes, landscape.GroundType{Name: g.Name, Grass: g.Grass})
	}
	for _, b := range v.HeightBands {
		if b.Min >= b.Max {
			errs = multierr.Append(errs, fmt.Errorf("height band [%v,%v] is empty", b.Min, b.Max))
		}
		out.HeightBands = append(out.HeightBands, landscape.HeightBand{Min: b.Min, Max: b.Max, Grass: b.Grass})
	}
	return out, errs
}

// Result lists what Apply registered.
type Result struct {
	Layers []landscape.LayerID
	Holes  []landscape.HoleID
}

// Apply converts the document and registers it with s: vegetation first,
// then layers in document order, then hole volumes. Conversion problems are
// reported together and nothing is applied.
func (d *Document) Apply(s *landscape.Surface) (Result, error) {
	var errs error
	var veg *landscape.VegetationConfig
	if d.Vegetation != nil {
		v, err := d.Vegetation.ToVegetation(s.Config().Vegetation)
		errs = multierr.Append(errs, err)
		veg = &v
	}
	layers := make([]landscape.Layer, 0, len(d.Layers))
	for i, l := range d.Layers {
		ll, err := l.ToLayer()
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("layer %d (%s): %w", i, l.Name, err))
			continue
		}
		layers = append(layers, ll)
	}
	holes := make([]landscape.HoleVolume, 0, len(d.Holes))
	for i, h := range d.Holes {
		shape, err := h.Shape.ToShape()
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("hole %d (%s): %w", i, h.Name, err))
			continue
		}
		holes = append(holes, landscape.HoleVolume{Name: h.Name, Shape: shape})
	}
	if errs != nil {
		return Result{}, errs
	}

	var res Result
	if veg != nil {
		if err := s.SetVegetation(*veg); err != nil {
			return res, err
		}
	}
	for _, l := range layers {
		id, err := s.AddLayer(l)
		if err != nil {
			return res, fmt.Errorf("adding layer %q: %w", l.Name, err)
		}
		res.Layers = append(res.Layers, id)
	}
	for _, h := range holes {
		id, err := s.AddHole(h)
		if err != nil {
			return res, fmt.Errorf("adding hole %q: %w", h.Name, err)
		}
		res.Holes = append(res.Holes, id)
	}

	logger.Named("scene").Info("scene applied",
		zap.Int("layers", len(res.Layers)),
		zap.Int("holes", len(res.Holes)),
		zap.Bool("vegetation", veg != nil))
	return res, nil
}
