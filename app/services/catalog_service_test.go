package services_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"gearshop/app/models"
	"gearshop/app/services"
)

// fakeProductRepository is an in-memory ProductRepository double.
type fakeProductRepository struct {
	products []models.Product
}

func (f *fakeProductRepository) Products() ([]models.Product, error) {
	return f.products, nil
}

func (f *fakeProductRepository) FindByID(id uint) (*models.Product, error) {
	for i := range f.products {
		if f.products[i].ID == id {
			return &f.products[i], nil
		}
	}
	return nil, nil
}

func (f *fakeProductRepository) SaveProduct(p *models.Product) error {
	if p.ID == 0 {
		p.ID = uint(len(f.products) + 1)
		f.products = append(f.products, *p)
		return nil
	}
	for i := range f.products {
		if f.products[i].ID == p.ID {
			f.products[i] = *p
		}
	}
	return nil
}

func (f *fakeProductRepository) SaveProductImage(id uint, data []byte, mimeType string) error {
	for i := range f.products {
		if f.products[i].ID == id {
			f.products[i].ImageData = data
			f.products[i].ImageMimeType = mimeType
		}
	}
	return nil
}

func (f *fakeProductRepository) DeleteProduct(id uint) (*models.Product, error) {
	for i := range f.products {
		if f.products[i].ID == id {
			removed := f.products[i]
			f.products = append(f.products[:i], f.products[i+1:]...)
			return &removed, nil
		}
	}
	return nil, nil
}

func catalogFixture() *fakeProductRepository {
	mk := func(id uint, name, category string) models.Product {
		return models.Product{
			Model:    gorm.Model{ID: id},
			Name:     name,
			Category: category,
			Price:    decimal.RequireFromString("10.00"),
		}
	}
	return &fakeProductRepository{products: []models.Product{
		mk(1, "P1", "Watersports"),
		mk(2, "P2", "Watersports"),
		mk(3, "P3", "Soccer"),
		mk(4, "P4", "Soccer"),
		mk(5, "P5", "Chess"),
	}}
}

func newCatalog(repo *fakeProductRepository) *services.CatalogService {
	svc := services.NewCatalogService(repo)
	// Each test gets a fresh view of the fixture.
	svc.InvalidateCache()
	return svc
}

func TestCatalog_Paginate(t *testing.T) {
	svc := newCatalog(catalogFixture())
	svc.PageSize = 3

	page2, pagination, err := svc.Page("", 2)
	require.NoError(t, err)
	require.Len(t, page2, 2)
	assert.Equal(t, "P4", page2[0].Name)
	assert.Equal(t, "P5", page2[1].Name)
	assert.Equal(t, int64(5), pagination.Total)
	assert.Equal(t, 2, pagination.TotalPages)
}

func TestCatalog_FilterByCategory(t *testing.T) {
	svc := newCatalog(catalogFixture())

	soccer, pagination, err := svc.Page("Soccer", 1)
	require.NoError(t, err)
	require.Len(t, soccer, 2)
	assert.Equal(t, "P3", soccer[0].Name)
	assert.Equal(t, "P4", soccer[1].Name)
	assert.Equal(t, int64(2), pagination.Total)
}

func TestCatalog_CategorySpecificPageCount(t *testing.T) {
	svc := newCatalog(catalogFixture())
	svc.PageSize = 3

	_, watersports, err := svc.Page("Watersports", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, watersports.TotalPages)

	_, all, err := svc.Page("", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, all.TotalPages)
}

func TestCatalog_Categories(t *testing.T) {
	svc := newCatalog(catalogFixture())

	categories, err := svc.Categories()
	require.NoError(t, err)
	assert.Equal(t, []string{"Chess", "Soccer", "Watersports"}, categories)
}

func TestCatalog_OutOfRangePageIsEmpty(t *testing.T) {
	svc := newCatalog(catalogFixture())

	items, pagination, err := svc.Page("", 99)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, int64(5), pagination.Total)
}
