package ports

import (
	"context"

	"github.com/aretw0/labtour/pkg/domain"
)

// CatalogLoader produces the scene catalog consumed by the walkthrough controller.
// The catalog is read once at startup and treated as immutable afterwards.
type CatalogLoader interface {
	Load(ctx context.Context) (*domain.Catalog, error)
}
