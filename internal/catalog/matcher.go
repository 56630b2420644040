package catalog

import (
	"strings"

	"github.com/bhaba/bhaba_market/internal/domain"
)

// MatchesTerm 判断搜索词是否命中商品。
// 空白搜索词恒为命中（"未搜索"与"全部命中"不可区分）。
// 非空搜索词对商品名、描述、供应商名做大小写不敏感的子串匹配，
// 命中任意一个字段即为命中。不做分词、模糊匹配或音调折叠，
// 保持精确的子串语义以便测试。
func MatchesTerm(term string, p *domain.Product) bool {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle) ||
		strings.Contains(strings.ToLower(p.VendorName), needle)
}
