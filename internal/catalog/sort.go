package catalog

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/bhaba/bhaba_market/internal/domain"
)

// SortKey 可选的显式排序键。零值表示不排序，保持目录原始顺序。
type SortKey string

const (
	SortNone    SortKey = ""
	SortPrice   SortKey = "price" // 按折后有效价格
	SortName    SortKey = "name"
	SortAddedAt SortKey = "added_at"
)

// SortOrder 排序方向
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortResults 对已求值的结果做稳定排序，返回新切片，输入不被修改。
// 这是目录顺序保持规则的唯一例外：只有显式请求排序键时才重排。
// 价格排序基于折后有效价格。未知排序键或方向返回错误。
func SortResults(results []*domain.Product, key SortKey, order SortOrder) ([]*domain.Product, error) {
	if key == SortNone {
		return results, nil
	}
	if order == "" {
		order = SortAsc
	}
	if order != SortAsc && order != SortDesc {
		return nil, fmt.Errorf("unknown sort order %q", order)
	}

	sorted := make([]*domain.Product, len(results))
	copy(sorted, results)

	var less func(a, b *domain.Product) bool
	switch key {
	case SortPrice:
		prices := make(map[string]decimal.Decimal, len(sorted))
		for _, p := range sorted {
			price, err := EffectivePrice(p.Price, p.Discount)
			if err != nil {
				return nil, fmt.Errorf("sort product %s: %w", p.ID, err)
			}
			prices[p.ID] = price
		}
		less = func(a, b *domain.Product) bool { return prices[a.ID].LessThan(prices[b.ID]) }
	case SortName:
		less = func(a, b *domain.Product) bool { return a.Name < b.Name }
	case SortAddedAt:
		less = func(a, b *domain.Product) bool { return a.AddedAt.Before(b.AddedAt) }
	default:
		return nil, fmt.Errorf("unknown sort key %q", key)
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		if order == SortDesc {
			return less(sorted[j], sorted[i])
		}
		return less(sorted[i], sorted[j])
	})
	return sorted, nil
}
