package catalog

import (
	"github.com/bhaba/bhaba_market/internal/domain"
)

// DistinctCategories 从目录快照派生可选的分类筛选项。
// 单趟扫描收集首次出现的 key -> 展示名，保持出现顺序，按 key 去重。
// 这是筛选项的唯一事实来源：派生结果反映的是当前被查询的快照，
// 而不是未过滤的全量历史。
func DistinctCategories(products []*domain.Product) []domain.FacetOption {
	return distinctOptions(products, func(p *domain.Product) (string, string) {
		return p.CategoryID, p.CategoryName
	})
}

// DistinctVendors 从目录快照派生可选的供应商筛选项，规则同分类。
func DistinctVendors(products []*domain.Product) []domain.FacetOption {
	return distinctOptions(products, func(p *domain.Product) (string, string) {
		return p.VendorID, p.VendorName
	})
}

// BuildFacetInventory 一次构建完整的筛选维度清单
func BuildFacetInventory(products []*domain.Product) *domain.FacetInventory {
	return &domain.FacetInventory{
		Categories: DistinctCategories(products),
		Vendors:    DistinctVendors(products),
	}
}

func distinctOptions(products []*domain.Product, extract func(*domain.Product) (key, label string)) []domain.FacetOption {
	seen := make(map[string]struct{}, len(products))
	options := make([]domain.FacetOption, 0)
	for _, p := range products {
		key, label := extract(p)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		options = append(options, domain.FacetOption{Key: key, Label: label})
	}
	return options
}
