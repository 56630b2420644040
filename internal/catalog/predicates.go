package catalog

import (
	"github.com/bhaba/bhaba_market/internal/domain"
)

// compiledQuery 是 QueryState 的一次性编译形态：
// 选中集合转为 map 以便 O(1) 成员判断。四个筛选谓词彼此独立，
// 未设置的维度恒为通过，生效维度之间为逻辑与。
type compiledQuery struct {
	term        string
	categories  map[string]struct{}
	vendors     map[string]struct{}
	priceRange  *domain.PriceRange
	inStockOnly bool
}

func compileQuery(qs domain.QueryState) compiledQuery {
	cq := compiledQuery{
		term:        qs.Term,
		priceRange:  qs.PriceRange,
		inStockOnly: qs.InStockOnly,
	}
	if len(qs.Categories) > 0 {
		cq.categories = make(map[string]struct{}, len(qs.Categories))
		for _, key := range qs.Categories {
			cq.categories[key] = struct{}{}
		}
	}
	if len(qs.Vendors) > 0 {
		cq.vendors = make(map[string]struct{}, len(qs.Vendors))
		for _, key := range qs.Vendors {
			cq.vendors[key] = struct{}{}
		}
	}
	return cq
}

// matchCategory 分类谓词：选中集为空或商品分类 key 在集合内
func (cq compiledQuery) matchCategory(p *domain.Product) bool {
	if cq.categories == nil {
		return true
	}
	_, ok := cq.categories[p.CategoryID]
	return ok
}

// matchVendor 供应商谓词：选中集为空或商品供应商 key 在集合内
func (cq compiledQuery) matchVendor(p *domain.Product) bool {
	if cq.vendors == nil {
		return true
	}
	_, ok := cq.vendors[p.VendorID]
	return ok
}

// matchPrice 价格谓词：折后有效价格落在 [Min, Max] 闭区间内。
// 按有效价格而非标价比较，先打折再比较。
func (cq compiledQuery) matchPrice(p *domain.Product) (bool, error) {
	if cq.priceRange == nil {
		return true, nil
	}
	price, err := EffectivePrice(p.Price, p.Discount)
	if err != nil {
		return false, err
	}
	return price.GreaterThanOrEqual(cq.priceRange.Min) && price.LessThanOrEqual(cq.priceRange.Max), nil
}

// matchStock 库存谓词：未开启"仅看有货"或商品可售
func (cq compiledQuery) matchStock(p *domain.Product) bool {
	return !cq.inStockOnly || p.IsAvailable
}

// matches 组合全部谓词：文本匹配与四个筛选谓词全部通过才保留商品
func (cq compiledQuery) matches(p *domain.Product) (bool, error) {
	if !MatchesTerm(cq.term, p) {
		return false, nil
	}
	if !cq.matchCategory(p) || !cq.matchVendor(p) || !cq.matchStock(p) {
		return false, nil
	}
	return cq.matchPrice(p)
}
