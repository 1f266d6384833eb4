package domain

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Vendor holds quantities on hand per item. The inventory is only mutated
// through Stock and RemoveStock.
type Vendor struct {
	ID   uuid.UUID
	Name string

	items     []*Item // first-stocked order
	inventory map[uuid.UUID]int
}

// NewVendor returns a vendor with an empty inventory.
func NewVendor(name string) *Vendor {
	return &Vendor{
		ID:        uuid.New(),
		Name:      name,
		inventory: make(map[uuid.UUID]int),
	}
}

// CheckStock returns the quantity on hand, 0 if the item was never stocked.
func (v *Vendor) CheckStock(item *Item) int {
	return v.inventory[item.ID]
}

// Stock adds quantity to the item's level. A quantity that would push the
// level past math.MaxInt is rejected and nothing changes.
func (v *Vendor) Stock(item *Item, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	current, ok := v.inventory[item.ID]
	if quantity > math.MaxInt-current {
		return fmt.Errorf("%w: vendor %q has %d of %q, adding %d overflows",
			ErrInvalidQuantity, v.Name, current, item.Name, quantity)
	}

	if !ok {
		v.items = append(v.items, item)
	}
	v.inventory[item.ID] = current + quantity

	return nil
}

// RemoveStock fails without touching the inventory when quantity exceeds
// what is on hand. A drained entry stays in the inventory at 0.
func (v *Vendor) RemoveStock(item *Item, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	current := v.inventory[item.ID]
	if quantity > current {
		return fmt.Errorf("%w: vendor %q has %d of %q, requested %d",
			ErrInsufficientStock, v.Name, current, item.Name, quantity)
	}
	v.inventory[item.ID] = current - quantity

	return nil
}

// Items returns every item the vendor has ever stocked, zero-quantity ones
// included.
func (v *Vendor) Items() []*Item {
	out := make([]*Item, len(v.items))
	copy(out, v.items)
	return out
}

// Inventory returns a copy of the quantities keyed by item ID.
func (v *Vendor) Inventory() map[uuid.UUID]int {
	out := make(map[uuid.UUID]int, len(v.inventory))
	for id, qty := range v.inventory {
		out[id] = qty
	}
	return out
}
