package services

import (
	"sort"
	"time"

	"gearshop/app/models"
	"gearshop/app/repositories"
	"gearshop/pkg/cache"
	"gearshop/pkg/collection"
	"gearshop/pkg/metrics"
)

const (
	catalogCacheKey = "catalog:products"
	catalogCacheTTL = 5 * time.Minute

	// DefaultPageSize is how many products a catalogue page shows.
	DefaultPageSize = 4
)

// CatalogService serves the public product listing: category filtering,
// pagination, and the category navigation list. Reads go through the cache;
// admin mutations invalidate it.
type CatalogService struct {
	products repositories.ProductRepository
	PageSize int
}

func NewCatalogService(products repositories.ProductRepository) *CatalogService {
	return &CatalogService{products: products, PageSize: DefaultPageSize}
}

// Page returns one page of the catalogue, optionally filtered by category.
// An empty category means "all products".
func (s *CatalogService) Page(category string, page int) ([]models.Product, repositories.Pagination, error) {
	all, err := s.allCached()
	if err != nil {
		return nil, repositories.Pagination{}, err
	}

	filtered := all
	if category != "" {
		filtered = collection.Filter(all, func(p models.Product) bool {
			return p.Category == category
		})
	}

	pagination := repositories.NewPagination(page, s.PageSize, int64(len(filtered)))
	items := collection.Paginate(filtered, pagination.Page, s.PageSize)
	return items, pagination, nil
}

// Categories returns the distinct product categories, alphabetically.
func (s *CatalogService) Categories() ([]string, error) {
	all, err := s.allCached()
	if err != nil {
		return nil, err
	}
	categories := collection.Unique(collection.Map(all, func(p models.Product) string {
		return p.Category
	}))
	sort.Strings(categories)
	return categories, nil
}

// Product resolves one product by ID, bypassing the cache so the image
// payload (excluded from the cached listing) is available.
func (s *CatalogService) Product(id uint) (*models.Product, error) {
	return s.products.FindByID(id)
}

// InvalidateCache drops the cached catalogue. Called after admin mutations.
func (s *CatalogService) InvalidateCache() {
	cache.Forget(catalogCacheKey) //nolint:errcheck
}

func (s *CatalogService) allCached() ([]models.Product, error) {
	var products []models.Product
	if cache.Get(catalogCacheKey, &products) {
		metrics.CacheHits.WithLabelValues(catalogCacheKey).Inc()
		return products, nil
	}
	metrics.CacheMisses.WithLabelValues(catalogCacheKey).Inc()

	products, err := s.products.Products()
	if err != nil {
		return nil, err
	}
	cache.Set(catalogCacheKey, products, catalogCacheTTL) //nolint:errcheck
	return products, nil
}
