// Package service 提供目录查询服务。
package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/bhaba/bhaba_market/internal/catalog"
	"github.com/bhaba/bhaba_market/internal/domain"
	"github.com/bhaba/bhaba_market/internal/repo"
)

// 目录服务业务错误
var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidQuery    = errors.New("invalid query")
)

// SearchRequest 描述一次目录查询
// 过滤、排序与分页参数经校验后交给查询引擎，单页大小由部署配置决定
type SearchRequest struct {
	Query     domain.QueryState
	Page      int
	ViewAll   bool
	SortKey   catalog.SortKey
	SortOrder catalog.SortOrder
}

// CatalogService 定义目录查询服务接口
type CatalogService interface {
	Search(ctx context.Context, req *SearchRequest) (*domain.QueryResult, error)
	Facets(ctx context.Context) (*domain.FacetInventory, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}

// catalogService 是 CatalogService 接口的实现
// 全量快照从仓储读出（通常命中缓存），过滤、排序、分页都在内存中完成
type catalogService struct {
	productRepo repo.ProductRepository
	pageSize    int
	logger      *zap.Logger
}

// NewCatalogService 创建目录查询服务实例
func NewCatalogService(productRepo repo.ProductRepository, pageSize int, logger *zap.Logger) CatalogService {
	return &catalogService{
		productRepo: productRepo,
		pageSize:    pageSize,
		logger:      logger,
	}
}

// Search 执行目录查询：过滤 -> 排序 -> 分页
func (s *catalogService) Search(ctx context.Context, req *SearchRequest) (*domain.QueryResult, error) {
	if req.Page < 1 {
		return nil, fmt.Errorf("%w: page must be at least 1, got %d", ErrInvalidQuery, req.Page)
	}

	snapshot, err := s.productRepo.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to load catalog snapshot", zap.Error(err))
		return nil, fmt.Errorf("load catalog snapshot: %w", err)
	}

	matched, err := catalog.Evaluate(snapshot, req.Query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}

	sorted, err := catalog.SortResults(matched, req.SortKey, req.SortOrder)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}

	result, err := catalog.Paginate(sorted, domain.PaginationState{
		Page:     req.Page,
		PageSize: s.pageSize,
		ViewAll:  req.ViewAll,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}

	s.logger.Debug("catalog search completed",
		zap.Int("snapshot_size", len(snapshot)),
		zap.Int("matched", result.Total),
		zap.Int("page", result.Page),
		zap.Bool("view_all", result.ViewAll),
	)

	return result, nil
}

// Facets 返回当前快照中实际出现的分类与店铺选项
// 选项清单只反映快照本身，与任何查询条件无关
func (s *catalogService) Facets(ctx context.Context) (*domain.FacetInventory, error) {
	snapshot, err := s.productRepo.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to load catalog snapshot", zap.Error(err))
		return nil, fmt.Errorf("load catalog snapshot: %w", err)
	}

	return catalog.BuildFacetInventory(snapshot), nil
}

// GetProduct 获取单个商品详情
func (s *catalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get product", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	return product, nil
}
