package memory

import (
	"context"
	"fmt"

	"github.com/aretw0/labtour/pkg/domain"
)

// Loader implements ports.CatalogLoader from scenes held in memory.
type Loader struct {
	scenes []domain.Scene
}

// NewLoader creates a Loader serving the given scenes in order.
func NewLoader(scenes ...domain.Scene) *Loader {
	copied := make([]domain.Scene, len(scenes))
	copy(copied, scenes)
	return &Loader{scenes: copied}
}

// Load validates the scenes and builds the catalog.
func (l *Loader) Load(ctx context.Context) (*domain.Catalog, error) {
	catalog, err := domain.NewCatalog(l.scenes...)
	if err != nil {
		return nil, fmt.Errorf("memory catalog: %w", err)
	}
	return catalog, nil
}
