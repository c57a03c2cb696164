// Package catalogfile loads a scene catalog from a single YAML or JSON file.
package catalogfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/labtour/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// SceneConfig is one entry of the scenes list.
type SceneConfig struct {
	Name        string `yaml:"name" json:"name"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	Icon        string `yaml:"icon" json:"icon"`
	Kind        string `yaml:"kind" json:"kind"`
}

// File represents the structure of a catalog file.
type File struct {
	Scenes []SceneConfig `yaml:"scenes" json:"scenes"`
}

// Loader implements ports.CatalogLoader for a catalog file.
type Loader struct {
	path string
}

// New creates a loader for the file at path.
func New(path string) *Loader {
	return &Loader{path: path}
}

// Path returns the file backing the loader.
func (l *Loader) Path() string {
	return l.path
}

// Load reads and validates the catalog.
func (l *Loader) Load(ctx context.Context) (*domain.Catalog, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data, filepath.Base(l.path))
}

// Parse decodes a catalog document. JSON is accepted as a subset of YAML.
// Unknown keys are rejected so typos in a scene definition surface early.
func Parse(data []byte, source string) (*domain.Catalog, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", source, err)
	}

	var file File
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "yaml",
		ErrorUnused: true,
		Result:      &file,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", source, err)
	}

	scenes := make([]domain.Scene, 0, len(file.Scenes))
	for i, sc := range file.Scenes {
		scene, err := sc.toScene()
		if err != nil {
			return nil, fmt.Errorf("%s: scene #%d: %w", source, i, err)
		}
		scenes = append(scenes, scene)
	}

	catalog, err := domain.NewCatalog(scenes...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	return catalog, nil
}

func (c SceneConfig) toScene() (domain.Scene, error) {
	scene := domain.Scene{
		Name:        strings.TrimSpace(c.Name),
		Title:       c.Title,
		Description: c.Description,
		Icon:        c.Icon,
	}
	if c.Kind != "" {
		kind, err := domain.ParseSceneKind(c.Kind)
		if err != nil {
			return domain.Scene{}, err
		}
		scene.Kind = kind
	}
	return scene, nil
}
