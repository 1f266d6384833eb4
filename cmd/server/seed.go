package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rl1809/farmers-market/internal/config"
	"github.com/rl1809/farmers-market/internal/core/service"
)

// seedMarket creates the configured catalog and vendors, then stocks each
// vendor in the order the config lists them.
func seedMarket(ctx context.Context, svc *service.MarketService, seed config.SeedConfig, logger *zap.Logger) error {
	items := make(map[string]uuid.UUID, len(seed.Items))
	for _, si := range seed.Items {
		item, err := svc.CreateItem(si.Name, si.Price)
		if err != nil {
			return fmt.Errorf("seed item %q: %w", si.Key, err)
		}
		items[si.Key] = item.ID
	}

	for _, sv := range seed.Vendors {
		v, err := svc.RegisterVendor(sv.Name)
		if err != nil {
			return fmt.Errorf("seed vendor %q: %w", sv.Name, err)
		}
		for _, st := range sv.Stock {
			itemID, ok := items[st.Item]
			if !ok {
				return fmt.Errorf("seed vendor %q: unknown item key %q", sv.Name, st.Item)
			}
			if _, err := svc.StockVendor(ctx, v.ID, itemID, st.Quantity); err != nil {
				return fmt.Errorf("seed vendor %q stock %q: %w", sv.Name, st.Item, err)
			}
		}
	}

	logger.Info("seeded market",
		zap.Int("items", len(seed.Items)),
		zap.Int("vendors", len(seed.Vendors)))

	return nil
}
