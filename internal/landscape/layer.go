package landscape

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	lmath "github.com/Faultbox/runtime-landscape/pkg/math"
)

// LayerID identifies a layer registered with a Surface.
type LayerID = uuid.UUID

// Layer is an area of effect with a smoothing band and one or more effects.
// Layers are owned by the caller; the surface keeps a copy of the
// definition and patches refer to it by ID.
type Layer struct {
	ID        LayerID
	Name      string
	Shape     Shape
	Smoothing Smoothing
	Effects   []Effect
}

// Factor returns the blend factor at plane point p: 0 is full effect, 1 is
// untouched.
func (l *Layer) Factor(p lmath.Vec2) float32 {
	return smoothingFactor(l.Shape, l.Smoothing, p)
}

// Affects reports whether the layer changes anything at p.
func (l *Layer) Affects(p lmath.Vec2) bool {
	return l.Factor(p) < 1
}

// Bounds is the plane rectangle the layer can influence, including the part
// of the fade band that reaches outside the shape.
func (l *Layer) Bounds() lmath.Box2 {
	return l.Shape.Bounds(l.Smoothing.outset())
}

// HasEffect reports whether the layer carries an effect of the given kind.
func (l *Layer) HasEffect(kind EffectKind) bool {
	return slices.ContainsFunc(l.Effects, func(e Effect) bool { return e.Kind == kind })
}

func (l *Layer) clone() *Layer {
	c := *l
	c.Effects = slices.Clone(l.Effects)
	return &c
}

func (l *Layer) validate() error {
	if err := l.Shape.validate(); err != nil {
		return fmt.Errorf("layer %q: %w", l.Name, err)
	}
	if l.Smoothing.Distance < 0 {
		return fmt.Errorf("layer %q: smoothing distance must not be negative", l.Name)
	}
	for _, e := range l.Effects {
		if e.Kind == EffectGroundTypePaint && e.GroundType == "" {
			return fmt.Errorf("layer %q: paint effect needs a ground type", l.Name)
		}
	}
	return nil
}
