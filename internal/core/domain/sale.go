package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Allocation records how much of a sale one vendor fulfilled.
type Allocation struct {
	VendorID   uuid.UUID
	VendorName string
	Quantity   int
}

type Sale struct {
	ID          uuid.UUID
	RequestID   string
	Market      string
	ItemID      uuid.UUID
	ItemName    string
	UnitPrice   decimal.Decimal
	Quantity    int
	Allocations []Allocation
	CreatedAt   time.Time
}

func NewSale(requestID, market string, item *Item, plan []Deduction, createdAt time.Time) Sale {
	sale := Sale{
		ID:          uuid.New(),
		RequestID:   requestID,
		Market:      market,
		ItemID:      item.ID,
		ItemName:    item.Name,
		UnitPrice:   item.Price,
		Allocations: make([]Allocation, 0, len(plan)),
		CreatedAt:   createdAt,
	}

	for _, d := range plan {
		sale.Quantity += d.Quantity
		sale.Allocations = append(sale.Allocations, Allocation{
			VendorID:   d.Vendor.ID,
			VendorName: d.Vendor.Name,
			Quantity:   d.Quantity,
		})
	}

	return sale
}

func (s Sale) Total() decimal.Decimal {
	return s.UnitPrice.Mul(decimal.NewFromInt(int64(s.Quantity)))
}
