package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/bhaba/bhaba_market/internal/catalog"
	"github.com/bhaba/bhaba_market/internal/domain"
)

func seedCatalogRepo() *mockProductRepository {
	repo := newMockProductRepository()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	repo.add(&domain.Product{
		ID: "p1", Name: "Leather Office Shoes", Description: "handmade leather shoe",
		Price: decimal.NewFromInt(10000), Discount: 0,
		CategoryID: "shoes", CategoryName: "Shoes",
		VendorID: "v1", VendorName: "Dar Footwear",
		IsAvailable: true, AddedAt: base.Add(3 * time.Hour),
	})
	repo.add(&domain.Product{
		ID: "p2", Name: "Running Sneakers", Description: "light sports shoe",
		Price: decimal.NewFromInt(20000), Discount: 50,
		CategoryID: "shoes", CategoryName: "Shoes",
		VendorID: "v2", VendorName: "Kariakoo Sports",
		IsAvailable: true, AddedAt: base.Add(2 * time.Hour),
	})
	repo.add(&domain.Product{
		ID: "p3", Name: "Cotton Shirt", Description: "office wear",
		Price: decimal.NewFromInt(15000), Discount: 10,
		CategoryID: "clothing", CategoryName: "Clothing",
		VendorID: "v1", VendorName: "Dar Footwear",
		IsAvailable: false, AddedAt: base.Add(time.Hour),
	})
	return repo
}

func TestCatalogService_Search(t *testing.T) {
	repo := seedCatalogRepo()
	svc := NewCatalogService(repo, 2, zap.NewNop())

	tests := []struct {
		name      string
		req       *SearchRequest
		wantIDs   []string
		wantTotal int
		wantPages int
	}{
		{
			name:      "no filters first page",
			req:       &SearchRequest{Page: 1},
			wantIDs:   []string{"p1", "p2"},
			wantTotal: 3,
			wantPages: 2,
		},
		{
			name:      "no filters second page",
			req:       &SearchRequest{Page: 2},
			wantIDs:   []string{"p3"},
			wantTotal: 3,
			wantPages: 2,
		},
		{
			name:      "view all ignores windowing",
			req:       &SearchRequest{Page: 1, ViewAll: true},
			wantIDs:   []string{"p1", "p2", "p3"},
			wantTotal: 3,
			wantPages: 2,
		},
		{
			name: "term matches description",
			req: &SearchRequest{
				Query: domain.QueryState{Term: "shoe"},
				Page:  1,
			},
			wantIDs:   []string{"p1", "p2"},
			wantTotal: 2,
			wantPages: 1,
		},
		{
			name: "category and stock filters compose",
			req: &SearchRequest{
				Query: domain.QueryState{Categories: []string{"shoes"}, InStockOnly: true},
				Page:  1,
			},
			wantIDs:   []string{"p1", "p2"},
			wantTotal: 2,
			wantPages: 1,
		},
		{
			name: "price range uses discounted price",
			req: &SearchRequest{
				Query: domain.QueryState{
					PriceRange: &domain.PriceRange{
						Min: decimal.NewFromInt(9000),
						Max: decimal.NewFromInt(10000),
					},
				},
				Page: 1,
			},
			// p2 的折后价 20000*50% = 10000 落入区间
			wantIDs:   []string{"p1", "p2"},
			wantTotal: 2,
			wantPages: 1,
		},
		{
			name: "sort by effective price descending",
			req: &SearchRequest{
				Page:      1,
				ViewAll:   true,
				SortKey:   catalog.SortPrice,
				SortOrder: catalog.SortDesc,
			},
			// p3 折后价 13500 最高；p1 与 p2 折后价同为 10000，稳定排序保持目录顺序
			wantIDs:   []string{"p3", "p1", "p2"},
			wantTotal: 3,
			wantPages: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.Search(context.Background(), tt.req)
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			if result.Total != tt.wantTotal {
				t.Errorf("Search() total = %d, want %d", result.Total, tt.wantTotal)
			}
			if result.TotalPages != tt.wantPages {
				t.Errorf("Search() total pages = %d, want %d", result.TotalPages, tt.wantPages)
			}
			if len(result.Items) != len(tt.wantIDs) {
				t.Fatalf("Search() returned %d items, want %d", len(result.Items), len(tt.wantIDs))
			}
			for i, want := range tt.wantIDs {
				if result.Items[i].ID != want {
					t.Errorf("Search() item[%d] = %s, want %s", i, result.Items[i].ID, want)
				}
			}
		})
	}
}

func TestCatalogService_SearchInvalidInput(t *testing.T) {
	svc := NewCatalogService(seedCatalogRepo(), 2, zap.NewNop())

	tests := []struct {
		name string
		req  *SearchRequest
	}{
		{
			name: "page below one",
			req:  &SearchRequest{Page: 0},
		},
		{
			name: "negative price bound",
			req: &SearchRequest{
				Query: domain.QueryState{
					PriceRange: &domain.PriceRange{
						Min: decimal.NewFromInt(-1),
						Max: decimal.NewFromInt(100),
					},
				},
				Page: 1,
			},
		},
		{
			name: "inverted price range",
			req: &SearchRequest{
				Query: domain.QueryState{
					PriceRange: &domain.PriceRange{
						Min: decimal.NewFromInt(500),
						Max: decimal.NewFromInt(100),
					},
				},
				Page: 1,
			},
		},
		{
			name: "unknown sort key",
			req:  &SearchRequest{Page: 1, SortKey: catalog.SortKey("weight")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Search(context.Background(), tt.req)
			if !errors.Is(err, ErrInvalidQuery) {
				t.Errorf("Search() error = %v, want ErrInvalidQuery", err)
			}
		})
	}
}

func TestCatalogService_SearchRepoError(t *testing.T) {
	repo := seedCatalogRepo()
	repo.listErr = fmt.Errorf("connection refused")
	svc := NewCatalogService(repo, 2, zap.NewNop())

	_, err := svc.Search(context.Background(), &SearchRequest{Page: 1})
	if err == nil {
		t.Fatal("Search() expected error when snapshot load fails")
	}
	if errors.Is(err, ErrInvalidQuery) {
		t.Errorf("Search() repo failure must not be reported as invalid query: %v", err)
	}
}

func TestCatalogService_Facets(t *testing.T) {
	svc := NewCatalogService(seedCatalogRepo(), 2, zap.NewNop())

	inv, err := svc.Facets(context.Background())
	if err != nil {
		t.Fatalf("Facets() error = %v", err)
	}

	if len(inv.Categories) != 2 {
		t.Errorf("Facets() categories = %d, want 2", len(inv.Categories))
	}
	if len(inv.Vendors) != 2 {
		t.Errorf("Facets() vendors = %d, want 2", len(inv.Vendors))
	}
	if inv.Categories[0].Key != "shoes" || inv.Categories[0].Label != "Shoes" {
		t.Errorf("Facets() first category = %+v, want shoes/Shoes", inv.Categories[0])
	}
}

func TestCatalogService_GetProduct(t *testing.T) {
	svc := NewCatalogService(seedCatalogRepo(), 2, zap.NewNop())

	product, err := svc.GetProduct(context.Background(), "p1")
	if err != nil {
		t.Fatalf("GetProduct() error = %v", err)
	}
	if product.Name != "Leather Office Shoes" {
		t.Errorf("GetProduct() name = %s", product.Name)
	}

	_, err = svc.GetProduct(context.Background(), "missing")
	if !errors.Is(err, ErrProductNotFound) {
		t.Errorf("GetProduct() error = %v, want ErrProductNotFound", err)
	}
}
