package repository

import (
	"context"
	"errors"

	"github.com/smart-sa/smorti/internal/domain/entity"
)

// ErrCatalogUnavailable means the catalog never loaded or is empty. The
// conversation continues in no-catalog mode; it is not fatal.
var ErrCatalogUnavailable = errors.New("catalog unavailable")

// ProductRepository is the process-wide read-mostly catalog. ReplaceAll
// swaps the whole catalog atomically so readers never see a partial load.
type ProductRepository interface {
	ReplaceAll(ctx context.Context, products []entity.Product) error
	GetAll(ctx context.Context) ([]entity.Product, error)
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	Search(ctx context.Context, query string, limit int) ([]entity.Product, error)
	Count(ctx context.Context) (int, error)
}
