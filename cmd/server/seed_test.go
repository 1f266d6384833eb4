package main

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/rl1809/farmers-market/internal/config"
	"github.com/rl1809/farmers-market/internal/core/domain"
	"github.com/rl1809/farmers-market/internal/core/service"
)

type nopCache struct{}

func (nopCache) SetIdempotency(ctx context.Context, key string) (bool, error) { return true, nil }

func (nopCache) SetItemTotal(ctx context.Context, itemID string, quantity int) error { return nil }

type nopLedger struct{}

func (nopLedger) CreateSale(ctx context.Context, sale domain.Sale) error { return nil }

func (nopLedger) GetSale(ctx context.Context, id uuid.UUID) (*domain.Sale, error) { return nil, nil }

func (nopLedger) ListSalesByItem(ctx context.Context, itemID uuid.UUID) ([]domain.Sale, error) {
	return nil, nil
}

func newSeedService(t *testing.T) *service.MarketService {
	market := domain.NewMarket("South Pearl Street Farmers Market",
		domain.FixedClock(time.Date(2020, time.February, 24, 0, 0, 0, 0, time.UTC)))
	return service.NewMarketService(market, nopCache{}, nopLedger{}, 10, zaptest.NewLogger(t))
}

func TestSeedMarket(t *testing.T) {
	svc := newSeedService(t)

	seed := config.SeedConfig{
		Items: []config.SeedItem{
			{Key: "peach", Name: "Peach", Price: "$0.75"},
			{Key: "tomato", Name: "Tomato", Price: "$0.50"},
		},
		Vendors: []config.SeedVendor{
			{Name: "Rocky Mountain Fresh", Stock: []config.SeedStock{{Item: "peach", Quantity: 35}, {Item: "tomato", Quantity: 7}}},
			{Name: "Palisade Peach Shack", Stock: []config.SeedStock{{Item: "peach", Quantity: 65}}},
		},
	}

	require.NoError(t, seedMarket(context.Background(), svc, seed, zaptest.NewLogger(t)))

	assert.Equal(t, []string{"Rocky Mountain Fresh", "Palisade Peach Shack"}, svc.VendorNames())
	assert.Equal(t, []string{"Peach", "Tomato"}, svc.SortedItemList())

	lines := svc.TotalInventory()
	require.Len(t, lines, 2)
	assert.Equal(t, "Peach", lines[0].Item.Name)
	assert.Equal(t, 100, lines[0].Quantity)
	assert.Len(t, lines[0].Vendors, 2)
}

func TestSeedMarket_UnknownItemKey(t *testing.T) {
	svc := newSeedService(t)

	seed := config.SeedConfig{
		Vendors: []config.SeedVendor{
			{Name: "Rocky Mountain Fresh", Stock: []config.SeedStock{{Item: "peach", Quantity: 35}}},
		},
	}

	err := seedMarket(context.Background(), svc, seed, zaptest.NewLogger(t))
	assert.ErrorContains(t, err, `unknown item key "peach"`)
}

func TestSeedMarket_InvalidPrice(t *testing.T) {
	svc := newSeedService(t)

	seed := config.SeedConfig{Items: []config.SeedItem{{Key: "peach", Name: "Peach", Price: "cheap"}}}

	err := seedMarket(context.Background(), svc, seed, zaptest.NewLogger(t))
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)
}
