package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectivePrice(t *testing.T) {
	tests := []struct {
		name     string
		price    string
		discount int
		want     string
		wantErr  bool
	}{
		{name: "no discount returns list price exactly", price: "10000", discount: 0, want: "10000"},
		{name: "half off", price: "20000", discount: 50, want: "10000"},
		{name: "full discount", price: "5000", discount: 100, want: "0"},
		{name: "fractional result keeps precision", price: "99.99", discount: 33, want: "66.9933"},
		{name: "zero price", price: "0", discount: 40, want: "0"},
		{name: "negative price rejected", price: "-1", discount: 0, wantErr: true},
		{name: "discount below range rejected", price: "100", discount: -5, wantErr: true},
		{name: "discount above range rejected", price: "100", discount: 101, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EffectivePrice(decimal.RequireFromString(tt.price), tt.discount)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"EffectivePrice(%s, %d) = %s, want %s", tt.price, tt.discount, got, tt.want)
		})
	}
}

func TestEffectivePrice_NeverNegative(t *testing.T) {
	for discount := 0; discount <= 100; discount++ {
		got, err := EffectivePrice(decimal.RequireFromString("12345.67"), discount)
		require.NoError(t, err)
		assert.False(t, got.IsNegative(), "discount %d produced negative price %s", discount, got)
	}
}
