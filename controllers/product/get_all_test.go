package productcontroller

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/theanh205-kkt/webdt/models"
)

func catalog() []models.Product {
	return []models.Product{
		{ID: 1, Name: "Ban phim co", Price: 150000, CategoryID: 2},
		{ID: 2, Name: "Chuot khong day", Price: 90000, CategoryID: 2},
		{ID: 3, Name: "Ao thun", Price: 120000, CategoryID: 5},
		{ID: 4, Name: "Tai nghe", Price: 200000, CategoryID: 9}, // no such category
	}
}

func TestFilterCatalogAll(t *testing.T) {
	got := FilterCatalog(catalog(), "all", "")
	assert.Len(t, got, 4)

	got = FilterCatalog(catalog(), "", "")
	assert.Len(t, got, 4)
}

func TestFilterCatalogByCategory(t *testing.T) {
	got := FilterCatalog(catalog(), "2", "")
	assert.Len(t, got, 2)
	for _, p := range got {
		assert.Equal(t, 2, p.CategoryID)
	}

	// A dangling categoryID is excluded from every concrete selection but
	// still present under "all".
	got = FilterCatalog(catalog(), "5", "")
	assert.Len(t, got, 1)
	assert.Equal(t, 3, got[0].ID)
}

func TestFilterCatalogSearch(t *testing.T) {
	got := FilterCatalog(catalog(), "all", "CHUOT")
	assert.Len(t, got, 1)
	assert.Equal(t, 2, got[0].ID)

	got = FilterCatalog(catalog(), "2", "chuot")
	assert.Len(t, got, 1)

	got = FilterCatalog(catalog(), "5", "chuot")
	assert.Empty(t, got)
}

func TestFilterCatalogBadCategoryMatchesNothing(t *testing.T) {
	assert.Empty(t, FilterCatalog(catalog(), "not-a-number", ""))
}
