package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PriceRange 表示价格筛选区间 [Min, Max]，两端闭区间。
// 比较使用折后有效价格的完整精度值，不做展示层舍入。
type PriceRange struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

// Validate 校验价格区间约束：两端非负且 Min <= Max。
// 非法区间属于调用方错误，快速失败而不是猜测调用方意图。
func (r *PriceRange) Validate() error {
	if r.Min.IsNegative() || r.Max.IsNegative() {
		return fmt.Errorf("price range bounds must not be negative: [%s, %s]", r.Min, r.Max)
	}
	if r.Min.GreaterThan(r.Max) {
		return fmt.Errorf("price range min %s exceeds max %s", r.Min, r.Max)
	}
	return nil
}

// QueryState 表示一次查询周期的完整筛选状态。
// 它是不可变值对象：每次用户操作都整体替换，引擎从不修改它。
type QueryState struct {
	Term        string      `json:"term"`         // 自由文本搜索词，可为空
	Categories  []string    `json:"categories"`   // 选中的分类 key 集合，空表示不过滤
	Vendors     []string    `json:"vendors"`      // 选中的供应商 key 集合，空表示不过滤
	PriceRange  *PriceRange `json:"price_range"`  // nil 表示不按价格过滤
	InStockOnly bool        `json:"in_stock_only"`
}

// Validate 校验查询状态
func (qs *QueryState) Validate() error {
	if qs.PriceRange != nil {
		if err := qs.PriceRange.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// HasActiveFilters 判断是否有任何生效的筛选条件
func (qs *QueryState) HasActiveFilters() bool {
	return qs.Term != "" || len(qs.Categories) > 0 || len(qs.Vendors) > 0 ||
		qs.PriceRange != nil || qs.InStockOnly
}

// PaginationState 表示分页状态。
// Page 从 1 开始；PageSize 为部署级常量；ViewAll 为分页旁路开关。
type PaginationState struct {
	Page     int  `json:"page"`
	PageSize int  `json:"page_size"`
	ViewAll  bool `json:"view_all"`
}

// QueryResult 表示一次查询周期的输出。
// Items 保持目录快照中的相对顺序（除非显式请求排序键）。
type QueryResult struct {
	Items      []*Product `json:"items"`
	Total      int        `json:"total"`       // 过滤后命中总数
	TotalPages int        `json:"total_pages"` // ceil(Total / PageSize)
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	ViewAll    bool       `json:"view_all"`
}

// FacetOption 表示一个可选的筛选项（key -> 展示名）
type FacetOption struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// FacetInventory 表示当前目录快照可用的筛选维度清单。
// 必须反映被查询的快照本身，而不是全量历史。
type FacetInventory struct {
	Categories []FacetOption `json:"categories"`
	Vendors    []FacetOption `json:"vendors"`
}
