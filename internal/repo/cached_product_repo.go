// Package repo 提供带缓存的商品仓储实现
package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/bhaba/bhaba_market/internal/cache"
	"github.com/bhaba/bhaba_market/internal/domain"
)

// CachedProductRepository 带缓存的商品仓储
// 查询引擎对全量快照做内存过滤，因此缓存的核心对象是整份商品列表；
// 任何写操作都会使快照失效，下次读取时重建
type CachedProductRepository struct {
	repo  ProductRepository
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedProductRepository 创建带缓存的商品仓储
func NewCachedProductRepository(repo ProductRepository, cache cache.Cache, ttl time.Duration) ProductRepository {
	return &CachedProductRepository{
		repo:  repo,
		cache: cache,
		ttl:   ttl,
	}
}

// ListAll 获取商品快照（带缓存）
func (r *CachedProductRepository) ListAll(ctx context.Context) ([]*domain.Product, error) {
	// 尝试从缓存获取
	var products []*domain.Product
	err := r.cache.Get(ctx, cache.KeyCatalogSnapshot, &products)
	if err == nil {
		return products, nil
	}

	// 缓存未命中，从数据库获取
	products, err = r.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	// 写入缓存
	r.cache.Set(ctx, cache.KeyCatalogSnapshot, products, r.ttl)

	return products, nil
}

// GetByID 根据ID获取商品（带缓存）
func (r *CachedProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	cacheKey := r.getProductCacheKey(id)

	// 尝试从缓存获取
	var product domain.Product
	err := r.cache.Get(ctx, cacheKey, &product)
	if err == nil {
		return &product, nil
	}

	// 缓存未命中，从数据库获取
	result, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}

	// 写入缓存
	r.cache.Set(ctx, cacheKey, result, r.ttl)

	return result, nil
}

// Create 创建商品（清除相关缓存）
func (r *CachedProductRepository) Create(ctx context.Context, product *domain.Product) error {
	if err := r.repo.Create(ctx, product); err != nil {
		return err
	}

	r.invalidate(ctx, product.ID)
	return nil
}

// Update 更新商品（清除相关缓存）
func (r *CachedProductRepository) Update(ctx context.Context, product *domain.Product) error {
	if err := r.repo.Update(ctx, product); err != nil {
		return err
	}

	r.invalidate(ctx, product.ID)
	return nil
}

// Delete 删除商品（清除相关缓存）
func (r *CachedProductRepository) Delete(ctx context.Context, id string) error {
	if err := r.repo.Delete(ctx, id); err != nil {
		return err
	}

	r.invalidate(ctx, id)
	return nil
}

// Count 商品总数（不缓存）
func (r *CachedProductRepository) Count(ctx context.Context) (int64, error) {
	return r.repo.Count(ctx)
}

// invalidate 清除单品缓存和全量快照
func (r *CachedProductRepository) invalidate(ctx context.Context, id string) {
	r.cache.Del(ctx, r.getProductCacheKey(id), cache.KeyCatalogSnapshot)
}

func (r *CachedProductRepository) getProductCacheKey(id string) string {
	return fmt.Sprintf("product:id:%s", id)
}
