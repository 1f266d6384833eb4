package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const currencyPrefix = "$"

// Item is a named, priced product type. Items are keyed by ID, so two items
// built from the same name and price are still distinct unless the same
// *Item is shared.
type Item struct {
	ID    uuid.UUID
	Name  string
	Price decimal.Decimal
}

// NewItem parses price with an optional leading "$". Malformed or negative
// prices are rejected.
func NewItem(name, price string) (*Item, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidName
	}

	p, err := ParsePrice(price)
	if err != nil {
		return nil, err
	}

	return &Item{
		ID:    uuid.New(),
		Name:  name,
		Price: p,
	}, nil
}

// ParsePrice reads a non-negative price in whole cents, with an optional
// leading "$".
func ParsePrice(s string) (decimal.Decimal, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(s), currencyPrefix)

	p, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w %q: %v", ErrInvalidPrice, s, err)
	}
	if p.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w %q: negative", ErrInvalidPrice, s)
	}
	if !p.Equal(p.Truncate(2)) {
		return decimal.Zero, fmt.Errorf("%w %q: fractional cents", ErrInvalidPrice, s)
	}

	return p, nil
}

// PriceString renders the price as "$d.cc".
func (i *Item) PriceString() string {
	return currencyPrefix + i.Price.StringFixed(2)
}

func (i *Item) String() string {
	return i.Name + " (" + i.PriceString() + ")"
}
