package catalog

import (
	"github.com/bhaba/bhaba_market/internal/domain"
)

// BrowseState 聚合查询状态与分页状态，并以不可变值的方式承载
// 两条状态耦合规则：
//  1. 任何查询状态变更（搜索词、筛选集合、价格区间、库存开关）
//     都将页码重置为 1 —— 筛选变了，旧页码就失去了意义；
//  2. 在"查看全部"模式下点击具体页码会先退出该模式 ——
//     点页码永远意味着"回到分页浏览"。
//
// 所有 WithXxx 方法返回新值，接收者不被修改。
type BrowseState struct {
	Query   domain.QueryState
	Page    int
	ViewAll bool
}

// NewBrowseState 创建初始浏览状态：无筛选，第 1 页，分页模式
func NewBrowseState() BrowseState {
	return BrowseState{Page: 1}
}

// WithTerm 替换搜索词并重置页码
func (s BrowseState) WithTerm(term string) BrowseState {
	s.Query.Term = term
	s.Page = 1
	return s
}

// WithCategoryToggled 切换某个分类 key 的选中状态并重置页码
func (s BrowseState) WithCategoryToggled(key string) BrowseState {
	s.Query.Categories = toggleKey(s.Query.Categories, key)
	s.Page = 1
	return s
}

// WithVendorToggled 切换某个供应商 key 的选中状态并重置页码
func (s BrowseState) WithVendorToggled(key string) BrowseState {
	s.Query.Vendors = toggleKey(s.Query.Vendors, key)
	s.Page = 1
	return s
}

// WithPriceRange 替换价格区间并重置页码，nil 表示清除价格筛选
func (s BrowseState) WithPriceRange(pr *domain.PriceRange) BrowseState {
	s.Query.PriceRange = pr
	s.Page = 1
	return s
}

// WithInStockOnly 设置"仅看有货"开关并重置页码
func (s BrowseState) WithInStockOnly(inStockOnly bool) BrowseState {
	s.Query.InStockOnly = inStockOnly
	s.Page = 1
	return s
}

// WithQuery 整体替换查询状态并重置页码
func (s BrowseState) WithQuery(qs domain.QueryState) BrowseState {
	s.Query = qs
	s.Page = 1
	return s
}

// WithPage 跳转到具体页码。若当前处于"查看全部"模式则先退出。
func (s BrowseState) WithPage(page int) BrowseState {
	s.ViewAll = false
	s.Page = page
	return s
}

// WithViewAll 进入"查看全部"模式。页码保持不变，
// 分页窗口会忽略它直到下一次 WithPage。
func (s BrowseState) WithViewAll() BrowseState {
	s.ViewAll = true
	return s
}

// Pagination 以给定页大小导出分页状态
func (s BrowseState) Pagination(pageSize int) domain.PaginationState {
	return domain.PaginationState{
		Page:     s.Page,
		PageSize: pageSize,
		ViewAll:  s.ViewAll,
	}
}

// toggleKey 在集合中加入或移除 key，始终返回新切片
func toggleKey(keys []string, key string) []string {
	out := make([]string, 0, len(keys)+1)
	removed := false
	for _, k := range keys {
		if k == key {
			removed = true
			continue
		}
		out = append(out, k)
	}
	if !removed {
		out = append(out, key)
	}
	return out
}
