// Package domain 定义商品相关的业务领域模型和核心业务规则。
package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Product 表示商城中的商品领域模型。
// 字段在进入领域层之前已完成默认值归一化：
// Description/MobileNumber 缺失时为空字符串，Images 缺失时为空切片。
type Product struct {
	ID           string          `json:"id"`
	Name         string          `json:"product_name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Discount     int             `json:"discount"` // 折扣百分比，0-100，0 表示无折扣
	CategoryID   string          `json:"category_id"`
	CategoryName string          `json:"category_name"`
	VendorID     string          `json:"vendor_id"`
	VendorName   string          `json:"vendor_name"`
	IsAvailable  bool            `json:"is_available"`
	MinOrderQty  int             `json:"min_order_qty"` // 最小起订量，0 表示未指定
	Images       []string        `json:"images"`
	MobileNumber string          `json:"mobile_number"` // 供应商联系电话，可能为空
	AddedAt      time.Time       `json:"added_at"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Validate 校验商品的数值约束。
// 负价格或折扣越界属于调用方编程错误，必须在边界处快速失败，
// 而不是静默钳制（静默钳制会掩盖过滤器缺陷）。
func (p *Product) Validate() error {
	if p.ID == "" {
		return errors.New("product id is required")
	}
	if p.Name == "" {
		return errors.New("product name is required")
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("product %s: price must not be negative", p.ID)
	}
	if p.Discount < 0 || p.Discount > 100 {
		return fmt.Errorf("product %s: discount must be within [0,100], got %d", p.ID, p.Discount)
	}
	if p.MinOrderQty < 0 {
		return fmt.Errorf("product %s: min order quantity must not be negative", p.ID)
	}
	return nil
}

// HasDiscount 判断商品是否有生效折扣
func (p *Product) HasDiscount() bool {
	return p.Discount > 0
}

// CreateProductRequest 表示创建商品请求。
// 分类名、店铺名与联系电话由关联表提供，请求中只携带外键。
type CreateProductRequest struct {
	Name        string          `json:"product_name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Discount    int             `json:"discount"`
	CategoryID  string          `json:"category_id"`
	VendorID    string          `json:"vendor_id"`
	IsAvailable *bool           `json:"is_available"` // 缺省为 true
	MinOrderQty int             `json:"min_order_qty"`
	Images      []string        `json:"images"`
}

// UpdateProductRequest 表示更新商品请求，nil 字段表示不修改
type UpdateProductRequest struct {
	Name        *string          `json:"product_name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Discount    *int             `json:"discount"`
	CategoryID  *string          `json:"category_id"`
	IsAvailable *bool            `json:"is_available"`
	MinOrderQty *int             `json:"min_order_qty"`
	Images      []string         `json:"images"`
}

// ContactLinks 表示某个商品的外部联系渠道。
// 由联系服务从商品的联系电话构造，WhatsApp 深链附带商品信息模板文本。
type ContactLinks struct {
	WhatsAppURL string `json:"whatsapp_url"`
	CallURL     string `json:"call_url"`
	Message     string `json:"message"`
}
