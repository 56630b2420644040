package catalog

import (
	"fmt"

	"github.com/bhaba/bhaba_market/internal/domain"
)

// Evaluate 对目录快照执行一次完整的查询周期：单趟线性扫描，
// 文本匹配与四个筛选谓词全部通过的商品按快照原始顺序保留。
// 不重新排序，空目录产生空结果而非错误。
// 查询状态非法（价格区间负值或 min > max）时快速失败返回错误，
// 从不静默钳制。复杂度 O(n)，不做增量或索引加速。
func Evaluate(products []*domain.Product, qs domain.QueryState) ([]*domain.Product, error) {
	if err := qs.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query state: %w", err)
	}

	cq := compileQuery(qs)
	results := make([]*domain.Product, 0, len(products))
	for _, p := range products {
		ok, err := cq.matches(p)
		if err != nil {
			return nil, fmt.Errorf("evaluate product %s: %w", p.ID, err)
		}
		if ok {
			results = append(results, p)
		}
	}
	return results, nil
}
