// Package project holds the persisted texture description: a named,
// ordered layer stack plus the output resolution. Loading is the trust
// boundary for saved data; everything past it may assume well-typed
// layers.
package project

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/MeKo-Tech/texforge/internal/layer"
)

// DefaultSize is the output resolution new projects start with.
const DefaultSize = 512

// Project is one texture: an ordered layer stack rendered at Size×Size.
type Project struct {
	Name   string        `json:"name"`
	Size   int           `json:"size"`
	Layers []layer.Layer `json:"layers"`
}

// New creates an empty project with the default resolution.
func New(name string) *Project {
	return &Project{
		Name:   name,
		Size:   DefaultSize,
		Layers: nil,
	}
}

// Validate checks the structural invariants that rendering relies on.
// Numeric slider values are not range-checked here; the render pipeline
// clamps them.
func (p *Project) Validate() error {
	if p.Size <= 0 {
		return fmt.Errorf("project size must be positive, got %d", p.Size)
	}
	for i, l := range p.Layers {
		if !l.Kind.Valid() {
			return fmt.Errorf("layer %d: unknown kind %q", i, l.Kind)
		}
		if !l.BlendMode.Valid() {
			return fmt.Errorf("layer %d: unknown blend mode %q", i, l.BlendMode)
		}
		if l.Params == nil {
			return fmt.Errorf("layer %d: missing params", i)
		}
		if l.Params.LayerKind() != l.Kind {
			return fmt.Errorf("layer %d: params are for kind %q, layer is %q", i, l.Params.LayerKind(), l.Kind)
		}
	}
	return nil
}

// FromJSON parses and validates a serialized project.
func FromJSON(data []byte) (*Project, error) {
	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse project: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid project: %w", err)
	}
	return &p, nil
}

// Load reads and validates a project file.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project %s: %w", path, err)
	}
	p, err := FromJSON(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load project %s: %w", path, err)
	}
	return p, nil
}

// Save writes the project as indented JSON.
func (p *Project) Save(path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal project: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write project %s: %w", path, err)
	}
	return nil
}

// AddLayer appends a layer to the top of the stack.
func (p *Project) AddLayer(l layer.Layer) {
	p.Layers = append(p.Layers, l)
}

// RemoveLayer removes the layer at index. Removal has no effect on other
// layers beyond their position.
func (p *Project) RemoveLayer(index int) error {
	if index < 0 || index >= len(p.Layers) {
		return fmt.Errorf("layer index %d out of range (0..%d)", index, len(p.Layers)-1)
	}
	p.Layers = append(p.Layers[:index], p.Layers[index+1:]...)
	return nil
}

// MoveLayer moves the layer at from to position to, shifting the layers
// in between. Order is semantically significant, so this changes the
// rendered result.
func (p *Project) MoveLayer(from, to int) error {
	if from < 0 || from >= len(p.Layers) {
		return fmt.Errorf("layer index %d out of range (0..%d)", from, len(p.Layers)-1)
	}
	if to < 0 || to >= len(p.Layers) {
		return fmt.Errorf("layer index %d out of range (0..%d)", to, len(p.Layers)-1)
	}
	l := p.Layers[from]
	rest := append(p.Layers[:from], p.Layers[from+1:]...)
	p.Layers = append(rest[:to], append([]layer.Layer{l}, rest[to:]...)...)
	return nil
}
