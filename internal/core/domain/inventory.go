package domain

import "github.com/google/uuid"

// InventoryEntry aggregates one item across every vendor of a market.
type InventoryEntry struct {
	Item     *Item
	Quantity int
	Vendors  []*Vendor // vendors holding more than zero, registration order
}

// TotalInventory is an ordered snapshot of a market's stock, one entry per
// unique item in first-encounter order.
type TotalInventory struct {
	Entries []InventoryEntry
	index   map[uuid.UUID]int
}

func newTotalInventory(size int) TotalInventory {
	return TotalInventory{
		Entries: make([]InventoryEntry, 0, size),
		index:   make(map[uuid.UUID]int, size),
	}
}

func (t *TotalInventory) add(e InventoryEntry) {
	t.index[e.Item.ID] = len(t.Entries)
	t.Entries = append(t.Entries, e)
}

func (t TotalInventory) Lookup(item *Item) (InventoryEntry, bool) {
	i, ok := t.index[item.ID]
	if !ok {
		return InventoryEntry{}, false
	}
	return t.Entries[i], true
}

func (t TotalInventory) Len() int {
	return len(t.Entries)
}

// distinctVendors counts vendors by identity; a vendor registered twice
// counts once.
func (e InventoryEntry) distinctVendors() int {
	seen := make(map[*Vendor]struct{}, len(e.Vendors))
	for _, v := range e.Vendors {
		seen[v] = struct{}{}
	}
	return len(seen)
}
