// Package api 提供商品目录维护的HTTP API处理器实现。
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/bhaba/bhaba_market/internal/domain"
	"github.com/bhaba/bhaba_market/internal/middleware"
	"github.com/bhaba/bhaba_market/internal/resp"
	"github.com/bhaba/bhaba_market/internal/service"
)

// ProductHandler 商品目录维护的HTTP处理器
// 全部路由要求管理员权限，写操作会使目录快照缓存失效
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler 创建商品维护处理器实例
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// CreateProduct 创建商品
// POST /api/v1/admin/products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	var req domain.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid request body", zap.String("request_id", reqID), zap.Error(err))
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid request body", reqID, "")
		return
	}

	product, err := h.productService.CreateProduct(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidProduct) {
			resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, err.Error(), reqID, "")
			return
		}
		h.logger.Error("create product failed", zap.String("request_id", reqID), zap.Error(err))
		resp.Error(w, http.StatusInternalServerError, resp.CodeInternalError, "create product failed", reqID, "")
		return
	}

	resp.OK(w, product, reqID, "")
}

// UpdateProduct 更新商品
// PUT /api/v1/admin/products/{id}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	id := adminProductIDFromPath(r.URL.Path)
	if id == "" {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid product ID", reqID, "")
		return
	}

	var req domain.UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid request body", zap.String("request_id", reqID), zap.Error(err))
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid request body", reqID, "")
		return
	}

	product, err := h.productService.UpdateProduct(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			resp.Error(w, http.StatusNotFound, resp.CodeNotFound, "product not found", reqID, "")
			return
		}
		if errors.Is(err, service.ErrInvalidProduct) {
			resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, err.Error(), reqID, "")
			return
		}
		h.logger.Error("update product failed", zap.String("request_id", reqID), zap.Error(err))
		resp.Error(w, http.StatusInternalServerError, resp.CodeInternalError, "update product failed", reqID, "")
		return
	}

	resp.OK(w, product, reqID, "")
}

// DeleteProduct 删除商品
// DELETE /api/v1/admin/products/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	id := adminProductIDFromPath(r.URL.Path)
	if id == "" {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid product ID", reqID, "")
		return
	}

	if err := h.productService.DeleteProduct(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			resp.Error(w, http.StatusNotFound, resp.CodeNotFound, "product not found", reqID, "")
			return
		}
		h.logger.Error("delete product failed", zap.String("request_id", reqID), zap.Error(err))
		resp.Error(w, http.StatusInternalServerError, resp.CodeInternalError, "delete product failed", reqID, "")
		return
	}

	resp.OK(w, map[string]string{"id": id}, reqID, "")
}

// adminProductIDFromPath 从 /api/v1/admin/products/{id} 中提取商品ID
func adminProductIDFromPath(path string) string {
	parts := strings.Split(strings.TrimSuffix(path, "/"), "/")
	if len(parts) < 6 {
		return ""
	}
	return parts[5]
}
