package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewItem(t *testing.T) {
	item, err := NewItem("Peach", "$0.75")
	require.NoError(t, err)

	assert.Equal(t, "Peach", item.Name)
	assert.True(t, item.Price.Equal(decimal.RequireFromString("0.75")))
	assert.Equal(t, "$0.75", item.PriceString())
	assert.NotEqual(t, item.ID.String(), "00000000-0000-0000-0000-000000000000")
}

func TestNewItem_WithoutCurrencyPrefix(t *testing.T) {
	item, err := NewItem("Tomato", "0.5")
	require.NoError(t, err)
	assert.Equal(t, "$0.50", item.PriceString())
}

func TestNewItem_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		item  string
		price string
		want  error
	}{
		{"empty name", "", "$1.00", ErrInvalidName},
		{"garbage price", "Peach", "$abc", ErrInvalidPrice},
		{"empty price", "Peach", "$", ErrInvalidPrice},
		{"negative price", "Peach", "$-1.00", ErrInvalidPrice},
		{"fractional cents", "Peach", "$0.755", ErrInvalidPrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewItem(tt.item, tt.price)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParsePrice_TrailingZerosAreWholeCents(t *testing.T) {
	p, err := ParsePrice("$0.750")
	require.NoError(t, err)
	assert.True(t, p.Equal(decimal.RequireFromString("0.75")))
}

func TestNewItem_SameNameAndPriceAreDistinct(t *testing.T) {
	a, err := NewItem("Peach", "$0.75")
	require.NoError(t, err)
	b, err := NewItem("Peach", "$0.75")
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
}
