package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rl1809/farmers-market/internal/core/domain"
	"github.com/rl1809/farmers-market/internal/port"
)

const idempotencyKeyPrefix = "sell:"

var (
	ErrDuplicateRequest  = errors.New("duplicate request")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrItemNotFound      = errors.New("item not found")
	ErrVendorNotFound    = errors.New("vendor not found")
	ErrServiceClosed     = errors.New("market service closed")
)

type VendorRef struct {
	ID   uuid.UUID
	Name string
}

type StockLine struct {
	Item     *domain.Item
	Quantity int
}

type InventoryLine struct {
	Item     *domain.Item
	Quantity int
	Vendors  []VendorRef
}

// MarketService serializes every call against one market. Item totals are
// published to the cache while the market lock is held, so the cache sees
// them in mutation order. Sales are queued for the ledger workers after the
// market has been updated.
type MarketService struct {
	// queueMu is held for reading from a sale's stock check until it is
	// queued, and for writing by Close.
	queueMu sync.RWMutex
	closed  bool

	mu      sync.Mutex
	market  *domain.Market
	catalog []*domain.Item
	items   map[uuid.UUID]*domain.Item
	vendors map[uuid.UUID]*domain.Vendor

	cache     port.CacheRepository
	ledger    port.SaleRepository
	saleQueue chan domain.Sale
	logger    *zap.Logger
	now       func() time.Time
}

func NewMarketService(market *domain.Market, cache port.CacheRepository, ledger port.SaleRepository, queueSize int, logger *zap.Logger) *MarketService {
	return &MarketService{
		market:    market,
		items:     make(map[uuid.UUID]*domain.Item),
		vendors:   make(map[uuid.UUID]*domain.Vendor),
		cache:     cache,
		ledger:    ledger,
		saleQueue: make(chan domain.Sale, queueSize),
		logger:    logger.Named("market"),
		now:       time.Now,
	}
}

func (s *MarketService) MarketName() string {
	return s.market.Name
}

func (s *MarketService) MarketDate() string {
	return s.market.FormattedDate()
}

func (s *MarketService) CreateItem(name, price string) (*domain.Item, error) {
	item, err := domain.NewItem(name, price)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.catalog = append(s.catalog, item)
	s.items[item.ID] = item
	s.mu.Unlock()

	s.logger.Info("item created",
		zap.String("item_id", item.ID.String()),
		zap.String("name", item.Name),
		zap.String("price", item.PriceString()))

	return item, nil
}

func (s *MarketService) Item(id uuid.UUID) (*domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.item(id)
}

// Items lists the catalog in creation order, including items no vendor has
// stocked yet.
func (s *MarketService) Items() []*domain.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Item, len(s.catalog))
	copy(out, s.catalog)
	return out
}

func (s *MarketService) RegisterVendor(name string) (VendorRef, error) {
	if name == "" {
		return VendorRef{}, domain.ErrInvalidName
	}

	v := domain.NewVendor(name)

	s.mu.Lock()
	s.vendors[v.ID] = v
	s.market.AddVendor(v)
	s.mu.Unlock()

	s.logger.Info("vendor registered", zap.String("vendor_id", v.ID.String()), zap.String("name", name))

	return VendorRef{ID: v.ID, Name: v.Name}, nil
}

func (s *MarketService) Vendors() []VendorRef {
	s.mu.Lock()
	defer s.mu.Unlock()

	return refs(s.market.Vendors())
}

func (s *MarketService) VendorNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.market.VendorNames()
}

// StockVendor adds quantity to a vendor and returns the vendor's new level.
func (s *MarketService) StockVendor(ctx context.Context, vendorID, itemID uuid.UUID, quantity int) (int, error) {
	s.mu.Lock()
	v, err := s.vendor(vendorID)
	if err != nil {
		s.mu.Unlock()
		return 0, err
	}
	item, err := s.item(itemID)
	if err != nil {
		s.mu.Unlock()
		return 0, err
	}
	if err := v.Stock(item, quantity); err != nil {
		s.mu.Unlock()
		return 0, err
	}
	level := v.CheckStock(item)
	s.publishTotal(ctx, item)
	s.mu.Unlock()

	return level, nil
}

func (s *MarketService) VendorStock(vendorID, itemID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, err := s.vendor(vendorID)
	if err != nil {
		return 0, err
	}
	item, err := s.item(itemID)
	if err != nil {
		return 0, err
	}

	return v.CheckStock(item), nil
}

func (s *MarketService) VendorInventory(vendorID uuid.UUID) ([]StockLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, err := s.vendor(vendorID)
	if err != nil {
		return nil, err
	}

	items := v.Items()
	lines := make([]StockLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, StockLine{Item: item, Quantity: v.CheckStock(item)})
	}
	return lines, nil
}

func (s *MarketService) VendorsThatSell(itemID uuid.UUID) ([]VendorRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.item(itemID)
	if err != nil {
		return nil, err
	}
	return refs(s.market.VendorsThatSell(item)), nil
}

func (s *MarketService) SortedItemList() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.market.SortedItemList()
}

func (s *MarketService) TotalItemCount(itemID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.item(itemID)
	if err != nil {
		return 0, err
	}
	return s.market.TotalItemCount(item), nil
}

func (s *MarketService) TotalInventory() []InventoryLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.market.TotalInventory().Entries
	lines := make([]InventoryLine, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, InventoryLine{
			Item:     e.Item,
			Quantity: e.Quantity,
			Vendors:  refs(e.Vendors),
		})
	}
	return lines
}

func (s *MarketService) OverstockedItems() []*domain.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.market.OverstockedItems()
}

// Sell fulfills quantity units of an item across vendors. A non-empty
// requestID is claimed in the cache first so a retried request is rejected
// with ErrDuplicateRequest.
func (s *MarketService) Sell(ctx context.Context, requestID string, itemID uuid.UUID, quantity int) (*domain.Sale, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if _, err := s.Item(itemID); err != nil {
		return nil, err
	}

	s.queueMu.RLock()
	defer s.queueMu.RUnlock()
	if s.closed {
		return nil, ErrServiceClosed
	}

	if requestID != "" {
		ok, err := s.cache.SetIdempotency(ctx, idempotencyKeyPrefix+requestID)
		if err != nil {
			return nil, fmt.Errorf("idempotency check failed: %w", err)
		}
		if !ok {
			return nil, ErrDuplicateRequest
		}
	}

	s.mu.Lock()
	item := s.items[itemID]
	plan, ok := s.market.SellWithReceipt(item, quantity)
	if !ok {
		s.mu.Unlock()
		return nil, ErrInsufficientStock
	}
	sale := domain.NewSale(requestID, s.market.Name, item, plan, s.now())
	s.publishTotal(ctx, item)
	s.mu.Unlock()

	s.logger.Info("sale fulfilled",
		zap.String("sale_id", sale.ID.String()),
		zap.String("item", item.Name),
		zap.Int("quantity", quantity),
		zap.Int("vendors", len(sale.Allocations)))

	s.saleQueue <- sale

	return &sale, nil
}

// Compensate returns a sale's allocations to the vendors it was drawn from.
func (s *MarketService) Compensate(ctx context.Context, sale domain.Sale) error {
	s.mu.Lock()
	item, err := s.item(sale.ItemID)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	for _, a := range sale.Allocations {
		v, err := s.vendor(a.VendorID)
		if err != nil {
			s.mu.Unlock()
			return err
		}
		if err := v.Stock(item, a.Quantity); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("restock %s: %w", v.Name, err)
		}
	}
	s.publishTotal(ctx, item)
	s.mu.Unlock()

	return nil
}

// PublishTotals pushes the current total of every catalog item to the cache.
func (s *MarketService) PublishTotals(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.catalog {
		if err := s.cache.SetItemTotal(ctx, item.ID.String(), s.market.TotalItemCount(item)); err != nil {
			return fmt.Errorf("publish total for %s: %w", item.Name, err)
		}
	}
	return nil
}

func (s *MarketService) Sale(ctx context.Context, id uuid.UUID) (*domain.Sale, error) {
	return s.ledger.GetSale(ctx, id)
}

func (s *MarketService) SalesByItem(ctx context.Context, itemID uuid.UUID) ([]domain.Sale, error) {
	return s.ledger.ListSalesByItem(ctx, itemID)
}

func (s *MarketService) SaleQueue() <-chan domain.Sale {
	return s.saleQueue
}

// Close stops accepting sales and closes the sale queue once every sale in
// flight has been queued. Later calls are no-ops.
func (s *MarketService) Close() {
	s.queueMu.Lock()
	defer s.queueMu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	close(s.saleQueue)
}

// publishTotal must be called with s.mu held.
func (s *MarketService) publishTotal(ctx context.Context, item *domain.Item) {
	if err := s.cache.SetItemTotal(ctx, item.ID.String(), s.market.TotalItemCount(item)); err != nil {
		s.logger.Warn("failed to publish item total",
			zap.String("item_id", item.ID.String()),
			zap.Error(err))
	}
}

func (s *MarketService) item(id uuid.UUID) (*domain.Item, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	return item, nil
}

func (s *MarketService) vendor(id uuid.UUID) (*domain.Vendor, error) {
	v, ok := s.vendors[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrVendorNotFound, id)
	}
	return v, nil
}

func refs(vendors []*domain.Vendor) []VendorRef {
	out := make([]VendorRef, 0, len(vendors))
	for _, v := range vendors {
		out = append(out, VendorRef{ID: v.ID, Name: v.Name})
	}
	return out
}
