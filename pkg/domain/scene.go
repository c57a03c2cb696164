package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Scene describes one step of the walkthrough. It is defined at build time and never mutated.
type Scene struct {
	// Name is the unique, stable identifier of the scene. It doubles as display name.
	Name string `json:"name"`

	// Title is the optional display title. Consumers should use DisplayTitle.
	Title string `json:"title,omitempty"`

	// Description is the explanatory text shown under the title.
	Description string `json:"description"`

	// Icon is an opaque reference to a visual asset.
	Icon string `json:"icon,omitempty"`

	// Kind is the enumerated identity of the scene, resolved once when the catalog is built.
	Kind SceneKind `json:"kind"`
}

// DisplayTitle returns the title, falling back to the name.
func (s Scene) DisplayTitle() string {
	if strings.TrimSpace(s.Title) != "" {
		return s.Title
	}
	return s.Name
}

// Catalog is the ordered, immutable sequence of scenes of a walkthrough.
// The order defines the progression order.
type Catalog struct {
	scenes []Scene
	index  map[string]int
}

// NewCatalog validates the scenes and builds a Catalog.
// It fails if the list is empty, a name is blank or a name is repeated.
func NewCatalog(scenes ...Scene) (*Catalog, error) {
	if len(scenes) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{
		scenes: make([]Scene, len(scenes)),
		index:  make(map[string]int, len(scenes)),
	}

	for i, s := range scenes {
		if strings.TrimSpace(s.Name) == "" {
			return nil, fmt.Errorf("%w: scene #%d has no name", ErrInvalidScene, i)
		}
		if prev, ok := c.index[s.Name]; ok {
			return nil, fmt.Errorf("%w: %q at #%d and #%d", ErrDuplicateScene, s.Name, prev, i)
		}
		if s.Kind == KindUnknown {
			s.Kind = KindOf(s.DisplayTitle())
		}
		c.scenes[i] = s
		c.index[s.Name] = i
	}

	return c, nil
}

// MustCatalog is like NewCatalog but panics on error. Intended for static catalogs.
func MustCatalog(scenes ...Scene) *Catalog {
	c, err := NewCatalog(scenes...)
	if err != nil {
		panic(err)
	}
	return c
}

// Len returns the number of scenes.
func (c *Catalog) Len() int {
	return len(c.scenes)
}

// Contains reports whether i is a valid scene index.
func (c *Catalog) Contains(i int) bool {
	return i >= 0 && i < len(c.scenes)
}

// At returns the scene at index i, or ErrOutOfRange.
func (c *Catalog) At(i int) (Scene, error) {
	if !c.Contains(i) {
		return Scene{}, fmt.Errorf("%w: %d not in [0, %d)", ErrOutOfRange, i, len(c.scenes))
	}
	return c.scenes[i], nil
}

// IndexOf returns the position of the scene with the given name.
func (c *Catalog) IndexOf(name string) (int, bool) {
	i, ok := c.index[name]
	return i, ok
}

// Scenes returns a copy of the ordered scene list.
func (c *Catalog) Scenes() []Scene {
	out := make([]Scene, len(c.scenes))
	copy(out, c.scenes)
	return out
}

// MarshalJSON encodes the catalog as its ordered scene list.
func (c *Catalog) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.scenes)
}
