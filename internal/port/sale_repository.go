package port

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/rl1809/farmers-market/internal/core/domain"
)

type SaleRepository interface {
	// CreateSale appends a completed sale and its vendor allocations to the ledger
	CreateSale(ctx context.Context, sale domain.Sale) error

	// GetSale returns nil, nil when the sale is not recorded
	GetSale(ctx context.Context, id uuid.UUID) (*domain.Sale, error)

	// ListSalesByItem returns recorded sales of an item, oldest first
	ListSalesByItem(ctx context.Context, itemID uuid.UUID) ([]domain.Sale, error)
}

// ErrSaleExists is returned by CreateSale when the sale ID is already recorded.
var ErrSaleExists = errors.New("sale already recorded")
