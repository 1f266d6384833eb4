package handler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/rl1809/farmers-market/internal/core/domain"
	"github.com/rl1809/farmers-market/internal/core/service"
)

type fakeCache struct {
	mu   sync.Mutex
	keys map[string]bool
}

func (c *fakeCache) SetIdempotency(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.keys[key] {
		return false, nil
	}
	c.keys[key] = true
	return true, nil
}

func (c *fakeCache) SetItemTotal(ctx context.Context, itemID string, quantity int) error {
	return nil
}

type fakeLedger struct {
	mu    sync.Mutex
	sales map[uuid.UUID]domain.Sale
}

func (l *fakeLedger) CreateSale(ctx context.Context, sale domain.Sale) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sales[sale.ID] = sale
	return nil
}

func (l *fakeLedger) GetSale(ctx context.Context, id uuid.UUID) (*domain.Sale, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.sales[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (l *fakeLedger) ListSalesByItem(ctx context.Context, itemID uuid.UUID) ([]domain.Sale, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []domain.Sale
	for _, s := range l.sales {
		if s.ItemID == itemID {
			out = append(out, s)
		}
	}
	return out, nil
}

type handlerFixture struct {
	svc             *service.MarketService
	ledger          *fakeLedger
	peach, tomato   *domain.Item
	rocky, palisade service.VendorRef
}

// newHandlerFixture seeds the market used throughout the handler tests and
// records every queued sale straight into the fake ledger.
func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()

	logger := zaptest.NewLogger(t)
	market := domain.NewMarket("South Pearl Street Farmers Market",
		domain.FixedClock(time.Date(2020, time.February, 24, 0, 0, 0, 0, time.UTC)))

	f := &handlerFixture{ledger: &fakeLedger{sales: make(map[uuid.UUID]domain.Sale)}}
	f.svc = service.NewMarketService(market, &fakeCache{keys: make(map[string]bool)}, f.ledger, 100, logger)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for sale := range f.svc.SaleQueue() {
			f.ledger.CreateSale(context.Background(), sale)
		}
	}()
	t.Cleanup(func() {
		f.svc.Close()
		<-done
	})

	var err error
	f.peach, err = f.svc.CreateItem("Peach", "$0.75")
	require.NoError(t, err)
	f.tomato, err = f.svc.CreateItem("Tomato", "$0.50")
	require.NoError(t, err)
	f.rocky, err = f.svc.RegisterVendor("Rocky Mountain Fresh")
	require.NoError(t, err)
	f.palisade, err = f.svc.RegisterVendor("Palisade Peach Shack")
	require.NoError(t, err)

	ctx := context.Background()
	_, err = f.svc.StockVendor(ctx, f.rocky.ID, f.peach.ID, 35)
	require.NoError(t, err)
	_, err = f.svc.StockVendor(ctx, f.rocky.ID, f.tomato.ID, 7)
	require.NoError(t, err)
	_, err = f.svc.StockVendor(ctx, f.palisade.ID, f.peach.ID, 65)
	require.NoError(t, err)

	return f
}
