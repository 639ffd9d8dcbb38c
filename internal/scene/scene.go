// Package scene loads landscape edits (vegetation setup, layers and hole
// volumes) from YAML documents.
package scene

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed scene.schema.json
var schemaJSON string

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.CompileString("scene.schema.json", schemaJSON)
	})
	return schema, schemaErr
}

// Document is a scene file.
type Document struct {
	Vegetation *Vegetation `yaml:"vegetation,omitempty"`
	Layers     []Layer     `yaml:"layers,omitempty"`
	Holes      []Hole      `yaml:"holes,omitempty"`
}

// Vegetation mirrors landscape.VegetationConfig.
type Vegetation struct {
	MinPaintWeight *float32     `yaml:"min_paint_weight,omitempty"`
	DensityScale   *float32     `yaml:"density_scale,omitempty"`
	Grass          []Grass      `yaml:"grass,omitempty"`
	GroundTypes    []GroundType `yaml:"ground_types,omitempty"`
	HeightBands    []HeightBand `yaml:"height_bands,omitempty"`
}

// Grass is a named set of varieties.
type Grass struct {
	Name      string    `yaml:"name"`
	Varieties []Variety `yaml:"varieties,omitempty"`
}

// Variety is one instanced mesh.
type Variety struct {
	Name           string    `yaml:"name"`
	Density        float32   `yaml:"density"`
	RandomRotation bool      `yaml:"random_rotation,omitempty"`
	Scaling        string    `yaml:"scaling,omitempty"`
	ScaleX         []float32 `yaml:"scale_x,omitempty"`
	ScaleY         []float32 `yaml:"scale_y,omitempty"`
	ScaleZ         []float32 `yaml:"scale_z,omitempty"`
}

// GroundType links a paint channel to a grass.
type GroundType struct {
	Name  string `yaml:"name"`
	Grass string `yaml:"grass,omitempty"`
}

// HeightBand spawns grass between two heights.
type HeightBand struct {
	Min   float32 `yaml:"min"`
	Max   float32 `yaml:"max"`
	Grass string  `yaml:"grass"`
}

// Shape is a box given by its corners or a sphere.
type Shape struct {
	Type   string    `yaml:"type"`
	Min    []float32 `yaml:"min,omitempty"`
	Max    []float32 `yaml:"max,omitempty"`
	Yaw    float32   `yaml:"yaw,omitempty"`
	Center []float32 `yaml:"center,omitempty"`
	Radius float32   `yaml:"radius,omitempty"`
}

// Smoothing is the soft edge of a layer.
type Smoothing struct {
	Distance  float32 `yaml:"distance"`
	Direction string  `yaml:"direction,omitempty"`
}

// Effect is one layer effect. Type selects which fields apply.
type Effect struct {
	Type       string   `yaml:"type"`
	Value      float32  `yaml:"value"`
	Color      string   `yaml:"color,omitempty"`
	Threshold  float32  `yaml:"threshold,omitempty"`
	GroundType string   `yaml:"ground_type,omitempty"`
	Weight     *float32 `yaml:"weight,omitempty"`
}

// Layer is a shape with effects.
type Layer struct {
	Name      string    `yaml:"name,omitempty"`
	Shape     Shape     `yaml:"shape"`
	Smoothing Smoothing `yaml:"smoothing,omitempty"`
	Effects   []Effect  `yaml:"effects"`
}

// Hole is a hole volume.
type Hole struct {
	Name  string `yaml:"name,omitempty"`
	Shape Shape  `yaml:"shape"`
}

// Parse validates data against the scene schema and decodes it.
func Parse(data []byte) (*Document, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing scene: %w", err)
	}
	if raw == nil {
		raw = map[string]any{}
	}

	// The validator expects JSON-decoded values.
	js, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("scene is not representable as JSON: %w", err)
	}
	var doc any
	if err := json.Unmarshal(js, &doc); err != nil {
		return nil, fmt.Errorf("scene is not representable as JSON: %w", err)
	}

	sch, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("compiling scene schema: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		return nil, fmt.Errorf("invalid scene: %w", err)
	}

	var d Document
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decoding scene: %w", err)
	}
	return &d, nil
}

// Load reads and parses a scene file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene: %w", err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Marshal encodes a document as YAML.
func Marshal(d *Document) ([]byte, error) {
	return yaml.Marshal(d)
}
