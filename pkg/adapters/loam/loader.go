package loam

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/aretw0/labtour/pkg/domain"
	"github.com/aretw0/loam"
)

// Loader adapts a Loam repository of scene documents to ports.CatalogLoader.
// Each document is one scene; the body is its description.
type Loader struct {
	Repo *loam.TypedRepository[SceneMetadata]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[SceneMetadata]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

// Open initializes a read-only, strict Loam repository at path and wraps it.
func Open(path string) (*Loader, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	// Strict mode keeps numbers as json.Number across serializers.
	// Read-only mode avoids Loam's sandbox copy; scenes are never written.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[SceneMetadata](repo)), nil
}

type entry struct {
	id       string
	order    int
	hasOrder bool
	scene    domain.Scene
}

// Load lists every document and builds the catalog. Scenes with an explicit
// order come first, ascending; the rest follow sorted by id.
func (l *Loader) Load(ctx context.Context) (*domain.Catalog, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	entries := make([]entry, 0, len(docs))

	for _, doc := range docs {
		id := trimExtension(doc.ID)
		if existing, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: ID '%s' is defined in both '%s' and '%s'", id, existing, doc.ID)
		}
		seen[id] = doc.ID

		e, err := buildEntry(id, doc.Data, doc.Content)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.hasOrder != b.hasOrder {
			return a.hasOrder
		}
		if a.hasOrder && a.order != b.order {
			return a.order < b.order
		}
		return a.id < b.id
	})

	scenes := make([]domain.Scene, len(entries))
	for i, e := range entries {
		scenes[i] = e.scene
	}

	catalog, err := domain.NewCatalog(scenes...)
	if err != nil {
		return nil, fmt.Errorf("loam catalog: %w", err)
	}
	return catalog, nil
}

func buildEntry(id string, meta SceneMetadata, content string) (entry, error) {
	name := meta.Name
	if name == "" {
		name = filepath.Base(id)
	}

	description := strings.TrimSpace(content)
	if description == "" {
		description = meta.Description
	}

	scene := domain.Scene{
		Name:        name,
		Title:       meta.Title,
		Description: description,
		Icon:        meta.Icon,
	}
	if meta.Kind != "" {
		kind, err := domain.ParseSceneKind(meta.Kind)
		if err != nil {
			return entry{}, fmt.Errorf("scene %s: %w", id, err)
		}
		scene.Kind = kind
	}

	e := entry{id: id, scene: scene}
	if meta.Order != nil {
		order, err := parseOrder(meta.Order)
		if err != nil {
			return entry{}, fmt.Errorf("scene %s: invalid order: %w", id, err)
		}
		e.order, e.hasOrder = order, true
	}
	return e, nil
}

func parseOrder(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != float64(int(n)) {
			return 0, fmt.Errorf("%v is not an integer", n)
		}
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		return int(i), err
	case string:
		return strconv.Atoi(strings.TrimSpace(n))
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
