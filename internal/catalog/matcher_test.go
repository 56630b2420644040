package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bhaba/bhaba_market/internal/domain"
)

func TestMatchesTerm(t *testing.T) {
	product := &domain.Product{
		Name:        "Premium Sneakers",
		Description: "comfortable shoe",
		VendorName:  "Kariakoo Footwear",
	}

	tests := []struct {
		name string
		term string
		want bool
	}{
		{name: "empty term matches everything", term: "", want: true},
		{name: "blank term matches everything", term: "   ", want: true},
		{name: "match on name", term: "sneakers", want: true},
		{name: "case insensitive on name", term: "PREMIUM", want: true},
		{name: "match via description only", term: "shoe", want: true},
		{name: "match via vendor name", term: "kariakoo", want: true},
		{name: "substring not tokenized", term: "neake", want: true},
		{name: "no match anywhere", term: "television", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchesTerm(tt.term, product))
		})
	}
}

func TestMatchesTerm_EmptyDescription(t *testing.T) {
	// 缺失描述在边界处归一化为空字符串，不能影响其他字段的匹配
	product := &domain.Product{Name: "Radio", Description: "", VendorName: "Mwenge Electronics"}
	assert.True(t, MatchesTerm("radio", product))
	assert.False(t, MatchesTerm("shoe", product))
}
