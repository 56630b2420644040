package catalog

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhaba/bhaba_market/internal/domain"
)

// testCatalog 构造一份顺序确定的目录快照
func testCatalog() []*domain.Product {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	return []*domain.Product{
		{
			ID: "p1", Name: "Premium Sneakers", Description: "comfortable shoe",
			Price: decimal.NewFromInt(10000), Discount: 0,
			CategoryID: "c-shoes", CategoryName: "Shoes",
			VendorID: "v1", VendorName: "Kariakoo Footwear",
			IsAvailable: true, AddedAt: base,
		},
		{
			ID: "p2", Name: "Leather Boots", Description: "",
			Price: decimal.NewFromInt(20000), Discount: 50,
			CategoryID: "c-shoes", CategoryName: "Shoes",
			VendorID: "v2", VendorName: "Mwenge Leatherworks",
			IsAvailable: false, AddedAt: base.Add(24 * time.Hour),
		},
		{
			ID: "p3", Name: "Bluetooth Radio", Description: "portable speaker",
			Price: decimal.NewFromInt(35000), Discount: 10,
			CategoryID: "c-electronics", CategoryName: "Electronics",
			VendorID: "v1", VendorName: "Kariakoo Footwear",
			IsAvailable: true, AddedAt: base.Add(48 * time.Hour),
		},
		{
			ID: "p4", Name: "Cotton Shirt", Description: "slim fit",
			Price: decimal.NewFromInt(8000), Discount: 0,
			CategoryID: "c-clothing", CategoryName: "Clothing",
			VendorID: "v3", VendorName: "Uhuru Textiles",
			IsAvailable: true, AddedAt: base.Add(72 * time.Hour),
		},
	}
}

func ids(products []*domain.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func priceRange(min, max int64) *domain.PriceRange {
	return &domain.PriceRange{Min: decimal.NewFromInt(min), Max: decimal.NewFromInt(max)}
}

func TestEvaluate_NoFiltersReturnsFullCatalogInOrder(t *testing.T) {
	products := testCatalog()
	results, err := Evaluate(products, domain.QueryState{})
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2", "p3", "p4"}, ids(results))
}

func TestEvaluate_EmptyCatalog(t *testing.T) {
	results, err := Evaluate(nil, domain.QueryState{Term: "shoe"})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestEvaluate_Idempotent(t *testing.T) {
	products := testCatalog()
	qs := domain.QueryState{Term: "shoe", PriceRange: priceRange(0, 50000)}

	first, err := Evaluate(products, qs)
	require.NoError(t, err)
	second, err := Evaluate(products, qs)
	require.NoError(t, err)
	assert.Equal(t, ids(first), ids(second))
	assert.Equal(t, len(first), len(second))
}

func TestEvaluate_TermMatchesDescription(t *testing.T) {
	// "shoe" 只出现在 p1 的描述里，商品名不含该词
	results, err := Evaluate(testCatalog(), domain.QueryState{Term: "shoe"})
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, ids(results))
}

func TestEvaluate_CategoryFacet(t *testing.T) {
	results, err := Evaluate(testCatalog(), domain.QueryState{Categories: []string{"c-shoes"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, ids(results))
}

func TestEvaluate_VendorFacet(t *testing.T) {
	results, err := Evaluate(testCatalog(), domain.QueryState{Vendors: []string{"v1"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p3"}, ids(results))
}

func TestEvaluate_UnknownFacetKeyMatchesNothing(t *testing.T) {
	results, err := Evaluate(testCatalog(), domain.QueryState{Categories: []string{"c-missing"}})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestEvaluate_InStockOnly(t *testing.T) {
	results, err := Evaluate(testCatalog(), domain.QueryState{InStockOnly: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p3", "p4"}, ids(results))
}

func TestEvaluate_PriceRangeUsesEffectivePrice(t *testing.T) {
	products := testCatalog()

	// [9000,10001]：p1 标价 10000 无折扣命中；p2 折后 10000 也命中
	results, err := Evaluate(products, domain.QueryState{PriceRange: priceRange(9000, 10001)})
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, ids(results))

	// [9999,10001]：p2 标价 20000 打五折后为 10000，必须先打折再比较
	results, err = Evaluate(products, domain.QueryState{
		PriceRange: priceRange(9999, 10001),
		Vendors:    []string{"v2"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"p2"}, ids(results))

	// 按标价比较的话 p2 会落在 [15000,25000] 里，按折后价不应命中
	results, err = Evaluate(products, domain.QueryState{
		PriceRange: priceRange(15000, 25000),
		Categories: []string{"c-shoes"},
	})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestEvaluate_PriceRangeInclusiveBounds(t *testing.T) {
	results, err := Evaluate(testCatalog(), domain.QueryState{PriceRange: priceRange(10000, 10000)})
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, ids(results))
}

func TestEvaluate_FacetsComposeAsIntersection(t *testing.T) {
	products := testCatalog()

	byCategory, err := Evaluate(products, domain.QueryState{Categories: []string{"c-shoes"}})
	require.NoError(t, err)
	byStock, err := Evaluate(products, domain.QueryState{InStockOnly: true})
	require.NoError(t, err)
	combined, err := Evaluate(products, domain.QueryState{
		Categories:  []string{"c-shoes"},
		InStockOnly: true,
	})
	require.NoError(t, err)

	inBoth := make(map[string]bool)
	for _, p := range byCategory {
		inBoth[p.ID] = false
	}
	for _, p := range byStock {
		if _, ok := inBoth[p.ID]; ok {
			inBoth[p.ID] = true
		}
	}
	var want []string
	for _, p := range products {
		if inBoth[p.ID] {
			want = append(want, p.ID)
		}
	}
	assert.Equal(t, want, ids(combined))
}

func TestEvaluate_InvalidQueryStateFailsFast(t *testing.T) {
	products := testCatalog()

	tests := []struct {
		name string
		qs   domain.QueryState
	}{
		{name: "min greater than max", qs: domain.QueryState{PriceRange: priceRange(500, 100)}},
		{name: "negative min", qs: domain.QueryState{PriceRange: priceRange(-1, 100)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Evaluate(products, tt.qs)
			assert.Error(t, err)
		})
	}
}

func TestEvaluate_LargeCatalogOrderStable(t *testing.T) {
	var products []*domain.Product
	for i := 0; i < 500; i++ {
		products = append(products, &domain.Product{
			ID: fmt.Sprintf("p%03d", i), Name: "Bulk Item",
			Price: decimal.NewFromInt(int64(100 + i)), CategoryID: "c", CategoryName: "C",
			VendorID: "v", VendorName: "Vendor", IsAvailable: i%2 == 0,
		})
	}
	results, err := Evaluate(products, domain.QueryState{InStockOnly: true})
	require.NoError(t, err)
	for i := 1; i < len(results); i++ {
		assert.Less(t, results[i-1].ID, results[i].ID, "catalog order must be preserved")
	}
}
