package dsl

import (
	"fmt"

	"github.com/aretw0/labtour/pkg/adapters/memory"
	"github.com/aretw0/labtour/pkg/domain"
)

// Builder manages the catalog construction.
// Scenes keep the order in which they were first added.
type Builder struct {
	order  []string
	scenes map[string]*SceneBuilder
}

// New creates a new catalog builder.
func New() *Builder {
	return &Builder{
		scenes: make(map[string]*SceneBuilder),
	}
}

// Add appends a new scene to the catalog.
// If the scene already exists, it returns the existing builder and keeps its position.
func (b *Builder) Add(name string) *SceneBuilder {
	if sb, ok := b.scenes[name]; ok {
		return sb
	}
	sb := &SceneBuilder{
		scene:   domain.Scene{Name: name},
		builder: b,
	}
	b.scenes[name] = sb
	b.order = append(b.order, name)
	return sb
}

// Len returns the number of scenes added so far.
func (b *Builder) Len() int {
	return len(b.order)
}

// Scenes returns the scenes in insertion order.
func (b *Builder) Scenes() []domain.Scene {
	out := make([]domain.Scene, len(b.order))
	for i, name := range b.order {
		out[i] = b.scenes[name].scene
	}
	return out
}

// Build compiles the scenes into a memory loader, validating the catalog first.
func (b *Builder) Build() (*memory.Loader, error) {
	scenes := b.Scenes()
	if _, err := domain.NewCatalog(scenes...); err != nil {
		return nil, fmt.Errorf("failed to build catalog: %w", err)
	}
	return memory.NewLoader(scenes...), nil
}

// Catalog builds the catalog directly.
func (b *Builder) Catalog() (*domain.Catalog, error) {
	return domain.NewCatalog(b.Scenes()...)
}

// SceneBuilder provides a fluent API for configuring a scene.
type SceneBuilder struct {
	scene   domain.Scene
	builder *Builder
}

// Title sets the display title.
func (s *SceneBuilder) Title(title string) *SceneBuilder {
	s.scene.Title = title
	return s
}

// Describe sets the explanatory text.
func (s *SceneBuilder) Describe(text string) *SceneBuilder {
	s.scene.Description = text
	return s
}

// Icon sets the asset reference.
func (s *SceneBuilder) Icon(icon string) *SceneBuilder {
	s.scene.Icon = icon
	return s
}

// Kind pins the scene kind instead of deriving it from the title.
func (s *SceneBuilder) Kind(kind domain.SceneKind) *SceneBuilder {
	s.scene.Kind = kind
	return s
}

// Then starts the next scene, allowing a whole catalog in one chain.
func (s *SceneBuilder) Then(name string) *SceneBuilder {
	return s.builder.Add(name)
}

// Build returns the underlying domain.Scene.
func (s *SceneBuilder) Build() domain.Scene {
	return s.scene
}
