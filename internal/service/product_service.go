// Package service 提供商品目录维护的业务逻辑。
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bhaba/bhaba_market/internal/domain"
	"github.com/bhaba/bhaba_market/internal/repo"
)

// ErrInvalidProduct 商品数据未通过校验
var ErrInvalidProduct = errors.New("invalid product")

// ProductService 定义商品维护服务接口
// 仅管理员可调用，写操作会使目录快照缓存失效
type ProductService interface {
	CreateProduct(ctx context.Context, req *domain.CreateProductRequest) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, req *domain.UpdateProductRequest) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// productService 是 ProductService 接口的实现
type productService struct {
	productRepo repo.ProductRepository
	logger      *zap.Logger
}

// NewProductService 创建商品维护服务实例
func NewProductService(productRepo repo.ProductRepository, logger *zap.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		logger:      logger,
	}
}

// CreateProduct 创建商品
// 上架时间取当前时刻，可售状态缺省为 true
func (s *productService) CreateProduct(ctx context.Context, req *domain.CreateProductRequest) (*domain.Product, error) {
	isAvailable := true
	if req.IsAvailable != nil {
		isAvailable = *req.IsAvailable
	}

	images := req.Images
	if images == nil {
		images = []string{}
	}

	now := time.Now()
	product := &domain.Product{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Price:       req.Price,
		Discount:    req.Discount,
		CategoryID:  req.CategoryID,
		VendorID:    req.VendorID,
		IsAvailable: isAvailable,
		MinOrderQty: req.MinOrderQty,
		Images:      images,
		AddedAt:     now,
	}

	if err := product.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProduct, err)
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		s.logger.Error("failed to create product", zap.Error(err))
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.logger.Info("product created",
		zap.String("product_id", product.ID),
		zap.String("product_name", product.Name),
		zap.String("vendor_id", product.VendorID),
	)

	// 回读以补齐关联的分类名与店铺信息
	created, err := s.productRepo.GetByID(ctx, product.ID)
	if err != nil {
		s.logger.Error("failed to reload created product", zap.String("product_id", product.ID), zap.Error(err))
		return product, nil
	}
	if created != nil {
		return created, nil
	}
	return product, nil
}

// UpdateProduct 更新商品，nil 字段保持原值
func (s *productService) UpdateProduct(ctx context.Context, id string, req *domain.UpdateProductRequest) (*domain.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get product for update", zap.String("product_id", id), zap.Error(err))
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		product.Description = strings.TrimSpace(*req.Description)
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Discount != nil {
		product.Discount = *req.Discount
	}
	if req.CategoryID != nil {
		product.CategoryID = *req.CategoryID
	}
	if req.IsAvailable != nil {
		product.IsAvailable = *req.IsAvailable
	}
	if req.MinOrderQty != nil {
		product.MinOrderQty = *req.MinOrderQty
	}
	if req.Images != nil {
		product.Images = req.Images
	}

	if err := product.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProduct, err)
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		s.logger.Error("failed to update product", zap.String("product_id", id), zap.Error(err))
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.logger.Info("product updated", zap.String("product_id", id))

	updated, err := s.productRepo.GetByID(ctx, id)
	if err != nil || updated == nil {
		return product, nil
	}
	return updated, nil
}

// DeleteProduct 删除商品
func (s *productService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrProductNotFound
		}
		s.logger.Error("failed to delete product", zap.String("product_id", id), zap.Error(err))
		return fmt.Errorf("delete product: %w", err)
	}

	s.logger.Info("product deleted", zap.String("product_id", id))
	return nil
}
