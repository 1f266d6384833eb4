package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/rl1809/farmers-market/internal/port"
)

// RunLedgerWorker records queued sales until the queue is closed. A sale the
// ledger rejects is compensated so the stock returns to its vendors.
func RunLedgerWorker(id int, svc *MarketService, ledger port.SaleRepository, timeout time.Duration, logger *zap.Logger) {
	log := logger.With(zap.Int("worker", id))

	for sale := range svc.SaleQueue() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)

		err := ledger.CreateSale(ctx, sale)
		switch {
		case err == nil:
			log.Info("recorded sale", zap.String("sale_id", sale.ID.String()))
		case errors.Is(err, port.ErrSaleExists):
			log.Warn("sale already recorded", zap.String("sale_id", sale.ID.String()))
		default:
			log.Error("failed to record sale", zap.String("sale_id", sale.ID.String()), zap.Error(err))

			cctx, ccancel := context.WithTimeout(context.Background(), timeout)
			if cErr := svc.Compensate(cctx, sale); cErr != nil {
				log.Error("CRITICAL compensation failed", zap.String("sale_id", sale.ID.String()), zap.Error(cErr))
			} else {
				log.Info("compensated sale", zap.String("sale_id", sale.ID.String()))
			}
			ccancel()
		}

		cancel()
	}
}
