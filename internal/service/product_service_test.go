package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/bhaba/bhaba_market/internal/domain"
)

func TestProductService_CreateProduct(t *testing.T) {
	repo := newMockProductRepository()
	svc := NewProductService(repo, zap.NewNop())

	tests := []struct {
		name    string
		req     *domain.CreateProductRequest
		wantErr bool
	}{
		{
			name: "valid product",
			req: &domain.CreateProductRequest{
				Name:       "Test Product",
				Price:      decimal.NewFromInt(5000),
				Discount:   10,
				CategoryID: "shoes",
				VendorID:   "v1",
			},
			wantErr: false,
		},
		{
			name: "negative price rejected",
			req: &domain.CreateProductRequest{
				Name:  "Bad Product",
				Price: decimal.NewFromInt(-1),
			},
			wantErr: true,
		},
		{
			name: "discount above hundred rejected",
			req: &domain.CreateProductRequest{
				Name:     "Bad Discount",
				Price:    decimal.NewFromInt(100),
				Discount: 101,
			},
			wantErr: true,
		},
		{
			name: "empty name rejected",
			req: &domain.CreateProductRequest{
				Name:  "   ",
				Price: decimal.NewFromInt(100),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product, err := svc.CreateProduct(context.Background(), tt.req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CreateProduct() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidProduct) {
					t.Errorf("CreateProduct() error = %v, want ErrInvalidProduct", err)
				}
				return
			}
			if product.ID == "" {
				t.Error("CreateProduct() did not assign an id")
			}
			if !product.IsAvailable {
				t.Error("CreateProduct() availability should default to true")
			}
			if product.AddedAt.IsZero() {
				t.Error("CreateProduct() did not stamp added_at")
			}
		})
	}
}

func TestProductService_CreateProductAvailabilityOverride(t *testing.T) {
	repo := newMockProductRepository()
	svc := NewProductService(repo, zap.NewNop())

	unavailable := false
	product, err := svc.CreateProduct(context.Background(), &domain.CreateProductRequest{
		Name:        "Sold Out Item",
		Price:       decimal.NewFromInt(100),
		IsAvailable: &unavailable,
	})
	if err != nil {
		t.Fatalf("CreateProduct() error = %v", err)
	}
	if product.IsAvailable {
		t.Error("CreateProduct() ignored explicit availability")
	}
}

func TestProductService_UpdateProduct(t *testing.T) {
	repo := newMockProductRepository()
	repo.add(&domain.Product{
		ID:          "p1",
		Name:        "Old Name",
		Price:       decimal.NewFromInt(1000),
		Discount:    0,
		IsAvailable: true,
		AddedAt:     time.Now(),
	})
	svc := NewProductService(repo, zap.NewNop())

	newName := "New Name"
	newDiscount := 25
	product, err := svc.UpdateProduct(context.Background(), "p1", &domain.UpdateProductRequest{
		Name:     &newName,
		Discount: &newDiscount,
	})
	if err != nil {
		t.Fatalf("UpdateProduct() error = %v", err)
	}
	if product.Name != "New Name" {
		t.Errorf("UpdateProduct() name = %s", product.Name)
	}
	if product.Discount != 25 {
		t.Errorf("UpdateProduct() discount = %d", product.Discount)
	}
	// 未提供的字段保持原值
	if !product.Price.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("UpdateProduct() price changed unexpectedly: %s", product.Price)
	}

	badDiscount := 150
	_, err = svc.UpdateProduct(context.Background(), "p1", &domain.UpdateProductRequest{Discount: &badDiscount})
	if !errors.Is(err, ErrInvalidProduct) {
		t.Errorf("UpdateProduct() error = %v, want ErrInvalidProduct", err)
	}

	_, err = svc.UpdateProduct(context.Background(), "missing", &domain.UpdateProductRequest{Name: &newName})
	if !errors.Is(err, ErrProductNotFound) {
		t.Errorf("UpdateProduct() error = %v, want ErrProductNotFound", err)
	}
}

func TestProductService_DeleteProduct(t *testing.T) {
	repo := newMockProductRepository()
	repo.add(&domain.Product{ID: "p1", Name: "To Delete", Price: decimal.NewFromInt(1), IsAvailable: true})
	svc := NewProductService(repo, zap.NewNop())

	if err := svc.DeleteProduct(context.Background(), "p1"); err != nil {
		t.Fatalf("DeleteProduct() error = %v", err)
	}

	err := svc.DeleteProduct(context.Background(), "p1")
	if !errors.Is(err, ErrProductNotFound) {
		t.Errorf("DeleteProduct() error = %v, want ErrProductNotFound", err)
	}
}
