package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/smart-sa/smorti/internal/domain/entity"
	"github.com/smart-sa/smorti/internal/domain/repository"
)

func seedCatalog(t *testing.T, products []entity.Product) repository.ProductRepository {
	t.Helper()
	repo := NewMemoryProductRepository()
	if err := repo.ReplaceAll(context.Background(), products); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}
	return repo
}

func TestReplaceAllDedupesAndSkipsEmptyIDs(t *testing.T) {
	repo := seedCatalog(t, []entity.Product{
		{ID: "a", NameEN: "First A"},
		{ID: "", NameEN: "No ID"},
		{ID: "a", NameEN: "Second A"},
		{ID: "b", NameEN: "B"},
	})

	n, err := repo.Count(context.Background())
	if err != nil || n != 2 {
		t.Fatalf("Count = %d, %v; want 2", n, err)
	}
	p, err := repo.GetByID(context.Background(), "a")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if p.NameEN != "First A" {
		t.Fatalf("duplicate ID should keep the first row, got %q", p.NameEN)
	}
}

func TestEmptyCatalogIsUnavailable(t *testing.T) {
	repo := NewMemoryProductRepository()
	ctx := context.Background()

	if _, err := repo.GetAll(ctx); !errors.Is(err, repository.ErrCatalogUnavailable) {
		t.Fatalf("GetAll on empty catalog = %v, want ErrCatalogUnavailable", err)
	}
	if _, err := repo.Search(ctx, "boox", 10); !errors.Is(err, repository.ErrCatalogUnavailable) {
		t.Fatalf("Search on empty catalog = %v, want ErrCatalogUnavailable", err)
	}
}

func TestSearchRanksNameAboveBlob(t *testing.T) {
	repo := seedCatalog(t, []entity.Product{
		{ID: "blob", NameEN: "Interactive Screen", Keywords: "palma compatible accessory"},
		{ID: "name", NameEN: "BOOX Palma 2", Brand: "boox"},
	})

	hits, err := repo.Search(context.Background(), "palma", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].ID != "name" {
		t.Fatalf("name match must outrank keyword match, got %q first", hits[0].ID)
	}
}

func TestSearchMatchesArabicNames(t *testing.T) {
	repo := seedCatalog(t, []entity.Product{
		{ID: "screen", NameAR: "شاشة سبارك التفاعلية"},
		{ID: "reader", NameEN: "BOOX Go 7"},
	})

	// Ta marbuta and plain ha must find the same product.
	for _, q := range []string{"شاشة سبارك", "شاشه سبارك"} {
		hits, err := repo.Search(context.Background(), q, 10)
		if err != nil {
			t.Fatalf("Search(%q): %v", q, err)
		}
		if len(hits) == 0 || hits[0].ID != "screen" {
			t.Fatalf("Search(%q) = %+v, want the screen first", q, hits)
		}
	}
}

func TestSearchRejectsNoiseQueries(t *testing.T) {
	repo := seedCatalog(t, []entity.Product{
		{ID: "a", NameEN: "BOOX Palma 2"},
	})
	ctx := context.Background()

	for _, q := range []string{"هلا", "hi", "م", ""} {
		hits, err := repo.Search(ctx, q, 10)
		if err != nil {
			t.Fatalf("Search(%q): %v", q, err)
		}
		if len(hits) != 0 {
			t.Fatalf("Search(%q) = %d hits, want none", q, len(hits))
		}
	}
}

func TestSearchRespectsLimit(t *testing.T) {
	products := make([]entity.Product, 0, 30)
	for i := 0; i < 30; i++ {
		products = append(products, entity.Product{
			ID:     string(rune('a' + i)),
			NameEN: "BOOX Device",
		})
	}
	repo := seedCatalog(t, products)

	hits, err := repo.Search(context.Background(), "boox", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 5 {
		t.Fatalf("expected 5 hits, got %d", len(hits))
	}
}

func TestGetByIDReturnsCopy(t *testing.T) {
	repo := seedCatalog(t, []entity.Product{{ID: "a", NameEN: "Original"}})
	ctx := context.Background()

	p, err := repo.GetByID(ctx, "a")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	p.NameEN = "Mutated"

	again, err := repo.GetByID(ctx, "a")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if again.NameEN != "Original" {
		t.Fatalf("stored product was mutated through the returned pointer")
	}

	if _, err := repo.GetByID(ctx, "missing"); err == nil {
		t.Fatalf("expected an error for an unknown ID")
	}
}
