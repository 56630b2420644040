// Package catalog 实现目录查询引擎：对内存中的商品快照做纯函数式的
// 过滤、分页与筛选维度派生。引擎不做任何 I/O，不持有可变状态，
// 相同输入必然产生相同输出。
package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// EffectivePrice 计算商品的折后有效价格：listPrice × (1 - discountPercent/100)。
// 折扣为 0 时原样返回标价。结果保留完整精度，过滤与比较一律使用该值，
// 舍入只发生在展示边界。
// 入参越界（负价格、折扣不在 [0,100]）属于调用方错误，快速失败。
func EffectivePrice(listPrice decimal.Decimal, discountPercent int) (decimal.Decimal, error) {
	if listPrice.IsNegative() {
		return decimal.Zero, fmt.Errorf("list price must not be negative, got %s", listPrice)
	}
	if discountPercent < 0 || discountPercent > 100 {
		return decimal.Zero, fmt.Errorf("discount percent must be within [0,100], got %d", discountPercent)
	}
	if discountPercent == 0 {
		return listPrice, nil
	}
	// 先乘后除，除数为 100，结果必然是有限小数，不丢精度
	return listPrice.Mul(decimal.NewFromInt(int64(100 - discountPercent))).Div(oneHundred), nil
}
