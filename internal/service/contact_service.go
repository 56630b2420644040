// Package service 提供买家与卖家的联系跳转能力。
// 商城不做站内下单，购买意向通过WhatsApp深链或电话直接传递给卖家。
package service

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/bhaba/bhaba_market/internal/catalog"
	"github.com/bhaba/bhaba_market/internal/domain"
)

// ErrNoContactNumber 商品所属店铺没有登记联系电话
var ErrNoContactNumber = errors.New("product has no contact number")

// ContactService 定义联系跳转服务接口
type ContactService interface {
	Links(product *domain.Product) (*domain.ContactLinks, error)
}

// contactService 是 ContactService 接口的实现
type contactService struct {
	countryCode string // 电话国家码，如 "255"
	logger      *zap.Logger
}

// NewContactService 创建联系跳转服务实例
func NewContactService(countryCode string, logger *zap.Logger) ContactService {
	return &contactService{
		countryCode: countryCode,
		logger:      logger,
	}
}

// Links 为商品生成WhatsApp深链、拨号链接和预填消息
func (s *contactService) Links(product *domain.Product) (*domain.ContactLinks, error) {
	if strings.TrimSpace(product.MobileNumber) == "" {
		return nil, ErrNoContactNumber
	}

	number := NormalizePhone(product.MobileNumber, s.countryCode)
	message := s.buildMessage(product)

	return &domain.ContactLinks{
		WhatsAppURL: fmt.Sprintf("https://wa.me/%s?text=%s", number, url.QueryEscape(message)),
		CallURL:     fmt.Sprintf("tel:+%s", number),
		Message:     message,
	}, nil
}

// NormalizePhone 将本地手机号规整为带国家码的国际格式（不含加号）
// 规则：去掉空格、连字符和括号后，
//   - "+255..." 去掉加号
//   - "0xxx..." 去掉前导0并补国家码
//   - 已以国家码开头的保持不变
//   - 其余裸号码直接补国家码
func NormalizePhone(raw, countryCode string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')':
			return -1
		}
		return r
	}, strings.TrimSpace(raw))

	switch {
	case strings.HasPrefix(cleaned, "+"):
		return strings.TrimPrefix(cleaned, "+")
	case strings.HasPrefix(cleaned, "0"):
		return countryCode + strings.TrimPrefix(cleaned, "0")
	case strings.HasPrefix(cleaned, countryCode):
		return cleaned
	default:
		return countryCode + cleaned
	}
}

// buildMessage 生成预填的询价消息
func (s *contactService) buildMessage(product *domain.Product) string {
	var b strings.Builder

	b.WriteString("Hello! I am interested in this product:\n\n")
	b.WriteString(fmt.Sprintf("*%s*\n", product.Name))

	if product.CategoryName != "" {
		b.WriteString(fmt.Sprintf("Category: %s\n", product.CategoryName))
	}

	effective, err := catalog.EffectivePrice(product.Price, product.Discount)
	if err != nil {
		// 商品数据异常时退回原价展示
		s.logger.Warn("failed to compute effective price for contact message",
			zap.String("product_id", product.ID),
			zap.Error(err),
		)
		effective = product.Price
	}

	if product.HasDiscount() {
		b.WriteString(fmt.Sprintf("Price: TZS %s (%d%% off, was TZS %s)\n",
			FormatAmount(effective), product.Discount, FormatAmount(product.Price)))
	} else {
		b.WriteString(fmt.Sprintf("Price: TZS %s\n", FormatAmount(effective)))
	}

	if product.Description != "" {
		b.WriteString(fmt.Sprintf("\n%s\n", product.Description))
	}

	if len(product.Images) > 0 {
		b.WriteString(fmt.Sprintf("\n%s", product.Images[0]))
	}

	return b.String()
}

// FormatAmount 格式化金额：整数部分按千位分隔，小数部分仅在存在时保留两位
func FormatAmount(amount decimal.Decimal) string {
	text := amount.StringFixed(2)
	text = strings.TrimSuffix(text, ".00")

	parts := strings.SplitN(text, ".", 2)
	intPart := parts[0]

	negative := strings.HasPrefix(intPart, "-")
	if negative {
		intPart = intPart[1:]
	}

	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	formatted := strings.Join(groups, ",")
	if negative {
		formatted = "-" + formatted
	}
	if len(parts) == 2 {
		formatted += "." + parts[1]
	}
	return formatted
}
