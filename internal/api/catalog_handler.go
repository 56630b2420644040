// Package api 提供目录查询相关的HTTP API处理器实现。
package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/bhaba/bhaba_market/internal/catalog"
	"github.com/bhaba/bhaba_market/internal/domain"
	"github.com/bhaba/bhaba_market/internal/middleware"
	"github.com/bhaba/bhaba_market/internal/resp"
	"github.com/bhaba/bhaba_market/internal/service"
)

// CatalogHandler 目录查询相关的HTTP处理器
type CatalogHandler struct {
	catalogService service.CatalogService
	contactService service.ContactService
	logger         *zap.Logger
}

// NewCatalogHandler 创建目录查询处理器实例
func NewCatalogHandler(catalogService service.CatalogService, contactService service.ContactService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		contactService: contactService,
		logger:         logger,
	}
}

// ProductView 商品的对外展示结构，附带计算出的折后价
type ProductView struct {
	*domain.Product
	EffectivePrice decimal.Decimal `json:"effective_price"`
	HasDiscount    bool            `json:"has_discount"`
}

// SearchResponse 目录查询响应
type SearchResponse struct {
	Items      []*ProductView `json:"items"`
	Total      int            `json:"total"`
	TotalPages int            `json:"total_pages"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	ViewAll    bool           `json:"view_all"`
}

// toProductView 构造商品展示结构
// 折后价计算失败说明数据越界，退回原价展示
func (h *CatalogHandler) toProductView(p *domain.Product) *ProductView {
	effective, err := catalog.EffectivePrice(p.Price, p.Discount)
	if err != nil {
		h.logger.Warn("effective price computation failed",
			zap.String("product_id", p.ID),
			zap.Error(err),
		)
		effective = p.Price
	}
	return &ProductView{
		Product:        p,
		EffectivePrice: effective,
		HasDiscount:    p.HasDiscount(),
	}
}

// SearchProducts 目录查询
// GET /api/v1/catalog/products?q=&categories=&vendors=&price_min=&price_max=&in_stock=&page=&view_all=&sort_by=&sort_order=
func (h *CatalogHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	req, err := parseSearchRequest(r)
	if err != nil {
		h.logger.Warn("invalid search parameters", zap.String("request_id", reqID), zap.Error(err))
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, err.Error(), reqID, "")
		return
	}

	result, err := h.catalogService.Search(r.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidQuery) {
			resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, err.Error(), reqID, "")
			return
		}
		h.logger.Error("catalog search failed", zap.String("request_id", reqID), zap.Error(err))
		resp.Error(w, http.StatusInternalServerError, resp.CodeInternalError, "catalog search failed", reqID, "")
		return
	}

	items := make([]*ProductView, 0, len(result.Items))
	for _, p := range result.Items {
		items = append(items, h.toProductView(p))
	}

	resp.OK(w, &SearchResponse{
		Items:      items,
		Total:      result.Total,
		TotalPages: result.TotalPages,
		Page:       result.Page,
		PageSize:   result.PageSize,
		ViewAll:    result.ViewAll,
	}, reqID, "")
}

// GetFacets 获取可用的过滤选项清单
// GET /api/v1/catalog/facets
func (h *CatalogHandler) GetFacets(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	inventory, err := h.catalogService.Facets(r.Context())
	if err != nil {
		h.logger.Error("facet inventory failed", zap.String("request_id", reqID), zap.Error(err))
		resp.Error(w, http.StatusInternalServerError, resp.CodeInternalError, "facet inventory failed", reqID, "")
		return
	}

	resp.OK(w, inventory, reqID, "")
}

// GetProduct 获取商品详情
// GET /api/v1/catalog/products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	id := productIDFromPath(r.URL.Path)
	if id == "" {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid product ID", reqID, "")
		return
	}

	product, err := h.catalogService.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			resp.Error(w, http.StatusNotFound, resp.CodeNotFound, "product not found", reqID, "")
			return
		}
		h.logger.Error("get product failed", zap.String("request_id", reqID), zap.Error(err))
		resp.Error(w, http.StatusInternalServerError, resp.CodeInternalError, "get product failed", reqID, "")
		return
	}

	resp.OK(w, h.toProductView(product), reqID, "")
}

// GetContactLinks 获取商品的卖家联系跳转
// GET /api/v1/catalog/products/{id}/contact
func (h *CatalogHandler) GetContactLinks(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	id := productIDFromPath(strings.TrimSuffix(r.URL.Path, "/contact"))
	if id == "" {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid product ID", reqID, "")
		return
	}

	product, err := h.catalogService.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			resp.Error(w, http.StatusNotFound, resp.CodeNotFound, "product not found", reqID, "")
			return
		}
		h.logger.Error("get product failed", zap.String("request_id", reqID), zap.Error(err))
		resp.Error(w, http.StatusInternalServerError, resp.CodeInternalError, "get product failed", reqID, "")
		return
	}

	links, err := h.contactService.Links(product)
	if err != nil {
		if errors.Is(err, service.ErrNoContactNumber) {
			resp.Error(w, http.StatusUnprocessableEntity, resp.CodeUnprocessable, "product has no contact number", reqID, "")
			return
		}
		h.logger.Error("contact links failed", zap.String("request_id", reqID), zap.Error(err))
		resp.Error(w, http.StatusInternalServerError, resp.CodeInternalError, "contact links failed", reqID, "")
		return
	}

	resp.OK(w, links, reqID, "")
}

// productIDFromPath 从 /api/v1/catalog/products/{id} 中提取商品ID
func productIDFromPath(path string) string {
	parts := strings.Split(strings.TrimSuffix(path, "/"), "/")
	if len(parts) < 6 {
		return ""
	}
	return parts[5]
}

// parseSearchRequest 解析查询参数
// 非法数值一律快速失败返回错误，不做静默修正
func parseSearchRequest(r *http.Request) (*service.SearchRequest, error) {
	q := r.URL.Query()

	req := &service.SearchRequest{
		Query: domain.QueryState{
			Term:       strings.TrimSpace(q.Get("q")),
			Categories: parseCSV(q.Get("categories")),
			Vendors:    parseCSV(q.Get("vendors")),
		},
		Page: 1,
	}

	if v := q.Get("in_stock"); v != "" {
		inStock, err := strconv.ParseBool(v)
		if err != nil {
			return nil, errors.New("in_stock must be a boolean")
		}
		req.Query.InStockOnly = inStock
	}

	priceRange, err := parsePriceRange(q.Get("price_min"), q.Get("price_max"))
	if err != nil {
		return nil, err
	}
	req.Query.PriceRange = priceRange

	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil {
			return nil, errors.New("page must be an integer")
		}
		req.Page = page
	}

	if v := q.Get("view_all"); v != "" {
		viewAll, err := strconv.ParseBool(v)
		if err != nil {
			return nil, errors.New("view_all must be a boolean")
		}
		req.ViewAll = viewAll
	}

	req.SortKey = catalog.SortKey(q.Get("sort_by"))
	switch q.Get("sort_order") {
	case "", "asc":
		req.SortOrder = catalog.SortAsc
	case "desc":
		req.SortOrder = catalog.SortDesc
	default:
		return nil, errors.New("sort_order must be asc or desc")
	}

	return req, nil
}

// parseCSV 解析逗号分隔的过滤键，空白项忽略
func parseCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	var keys []string
	for _, part := range strings.Split(raw, ",") {
		if key := strings.TrimSpace(part); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

// parsePriceRange 解析价格区间，两端必须成对出现且为合法数值
func parsePriceRange(minRaw, maxRaw string) (*domain.PriceRange, error) {
	if minRaw == "" && maxRaw == "" {
		return nil, nil
	}
	if minRaw == "" || maxRaw == "" {
		return nil, errors.New("price_min and price_max must be provided together")
	}

	min, err := decimal.NewFromString(minRaw)
	if err != nil {
		return nil, errors.New("price_min must be a number")
	}
	max, err := decimal.NewFromString(maxRaw)
	if err != nil {
		return nil, errors.New("price_max must be a number")
	}

	return &domain.PriceRange{Min: min, Max: max}, nil
}
