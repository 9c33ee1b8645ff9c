package storage

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/smart-sa/smorti/internal/domain/entity"
	"github.com/smart-sa/smorti/internal/domain/repository"
	"github.com/smart-sa/smorti/internal/nlp"
)

// Relevance weights. Name hits dominate, the joined blob only breaks ties.
const (
	weightName     = 5
	weightSeries   = 4
	weightBrand    = 3
	weightItemType = 3
	weightBlob     = 1
)

type memoryProductRepository struct {
	mu       sync.RWMutex
	products []entity.Product // catalog order preserved
	byID     map[string]int   // product ID -> index in products
}

// NewMemoryProductRepository builds the in-memory catalog store.
func NewMemoryProductRepository() repository.ProductRepository {
	return &memoryProductRepository{byID: make(map[string]int)}
}

// ReplaceAll swaps the catalog in one step so a reload never exposes a
// half-filled list.
func (m *memoryProductRepository) ReplaceAll(ctx context.Context, products []entity.Product) error {
	byID := make(map[string]int, len(products))
	kept := make([]entity.Product, 0, len(products))
	for _, p := range products {
		if p.ID == "" {
			continue
		}
		if _, dup := byID[p.ID]; dup {
			continue
		}
		byID[p.ID] = len(kept)
		kept = append(kept, p)
	}

	m.mu.Lock()
	m.products = kept
	m.byID = byID
	m.mu.Unlock()
	return nil
}

func (m *memoryProductRepository) GetAll(ctx context.Context) ([]entity.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.products) == 0 {
		return nil, repository.ErrCatalogUnavailable
	}
	out := make([]entity.Product, len(m.products))
	copy(out, m.products)
	return out, nil
}

func (m *memoryProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrCatalogUnavailable
	}
	p := m.products[i]
	return &p, nil
}

func (m *memoryProductRepository) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.products), nil
}

// Search ranks products by weighted keyword overlap with the query. Zero
// score means excluded; ties keep catalog order.
func (m *memoryProductRepository) Search(ctx context.Context, query string, limit int) ([]entity.Product, error) {
	q := nlp.NormalizeSearch(query)
	if len([]rune(q)) < 2 || nlp.IsGreetingWord(query) {
		return nil, nil
	}
	terms := nlp.Terms(q)
	if len(terms) == 0 {
		return nil, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.products) == 0 {
		return nil, repository.ErrCatalogUnavailable
	}

	type scored struct {
		idx   int
		score int
	}
	hits := make([]scored, 0, 32)
	for i := range m.products {
		s := scoreProduct(&m.products[i], terms)
		if s > 0 {
			hits = append(hits, scored{i, s})
		}
	}
	sort.SliceStable(hits, func(a, b int) bool { return hits[a].score > hits[b].score })

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]entity.Product, len(hits))
	for i, h := range hits {
		out[i] = m.products[h.idx]
	}
	return out, nil
}

func scoreProduct(p *entity.Product, terms []string) int {
	nameEN := nlp.NormalizeSearch(p.NameEN)
	nameAR := nlp.NormalizeSearch(p.NameAR)
	series := nlp.NormalizeSearch(p.Series)
	brand := nlp.NormalizeSearch(p.Brand)
	itemType := nlp.NormalizeSearch(p.ItemType)
	blob := nlp.NormalizeSearch(p.SearchBlob())

	score := 0
	for _, t := range terms {
		if nameEN != "" && strings.Contains(nameEN, t) {
			score += weightName
		}
		if nameAR != "" && strings.Contains(nameAR, t) {
			score += weightName
		}
		if series != "" && strings.Contains(series, t) {
			score += weightSeries
		}
		if brand != "" && strings.Contains(brand, t) {
			score += weightBrand
		}
		if itemType != "" && strings.Contains(itemType, t) {
			score += weightItemType
		}
		if strings.Contains(blob, t) {
			score += weightBlob
		}
	}
	return score
}
