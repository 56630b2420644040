package catalog

import (
	"fmt"

	"github.com/bhaba/bhaba_market/internal/domain"
)

// TotalPages 计算总页数：ceil(total / pageSize)
func TotalPages(total, pageSize int) int {
	if total <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// Paginate 将已求值的结果列表切出可见页。
// ViewAll 为 true 时返回全部结果，但 TotalPages 仍然上报（供 UI 切换用）。
// 页码越界不是错误：返回空页，与"没有匹配商品"的展示语义一致；
// 页码由调用方在 [1, max(1,totalPages)] 内裁剪，引擎不做静默钳制。
// Page < 1 或 PageSize < 1 属于调用方编程错误，返回错误。
func Paginate(results []*domain.Product, ps domain.PaginationState) (*domain.QueryResult, error) {
	if ps.PageSize < 1 {
		return nil, fmt.Errorf("page size must be at least 1, got %d", ps.PageSize)
	}
	if ps.Page < 1 {
		return nil, fmt.Errorf("page number must be at least 1, got %d", ps.Page)
	}

	total := len(results)
	totalPages := TotalPages(total, ps.PageSize)

	items := results
	if !ps.ViewAll {
		start := (ps.Page - 1) * ps.PageSize
		end := start + ps.PageSize
		switch {
		case start >= total:
			items = []*domain.Product{}
		case end > total:
			items = results[start:total]
		default:
			items = results[start:end]
		}
	}

	return &domain.QueryResult{
		Items:      items,
		Total:      total,
		TotalPages: totalPages,
		Page:       ps.Page,
		PageSize:   ps.PageSize,
		ViewAll:    ps.ViewAll,
	}, nil
}
