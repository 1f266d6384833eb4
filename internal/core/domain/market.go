package domain

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
)

const (
	dateLayout = "02/01/2006"

	// An item is overstocked when more than OverstockQuantity units are held
	// by more than OverstockVendors distinct vendors.
	OverstockQuantity = 50
	OverstockVendors  = 1
)

// Market aggregates vendors. Every query is recomputed from current vendor
// state. Market is not safe for concurrent use.
type Market struct {
	Name string

	date    time.Time
	vendors []*Vendor
}

func NewMarket(name string, clock Clock) *Market {
	return &Market{
		Name: name,
		date: clock.Now(),
	}
}

func (m *Market) Date() time.Time {
	return m.date
}

// FormattedDate renders the market date as DD/MM/YYYY.
func (m *Market) FormattedDate() string {
	return m.date.Format(dateLayout)
}

// AddVendor appends v. No dedup is performed.
func (m *Market) AddVendor(v *Vendor) {
	m.vendors = append(m.vendors, v)
}

func (m *Market) Vendors() []*Vendor {
	out := make([]*Vendor, len(m.vendors))
	copy(out, m.vendors)
	return out
}

func (m *Market) VendorNames() []string {
	names := make([]string, 0, len(m.vendors))
	for _, v := range m.vendors {
		names = append(names, v.Name)
	}
	return names
}

func (m *Market) VendorsThatSell(item *Item) []*Vendor {
	var sellers []*Vendor
	for _, v := range m.vendors {
		if v.CheckStock(item) > 0 {
			sellers = append(sellers, v)
		}
	}
	return sellers
}

// UniqueItems lists every item in any vendor inventory, zero-stock entries
// included, in first-encounter order.
func (m *Market) UniqueItems() []*Item {
	seen := make(map[uuid.UUID]struct{})
	var items []*Item

	for _, v := range m.vendors {
		for _, item := range v.Items() {
			if _, ok := seen[item.ID]; ok {
				continue
			}
			seen[item.ID] = struct{}{}
			items = append(items, item)
		}
	}

	return items
}

func (m *Market) SortedItemList() []string {
	items := m.UniqueItems()
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	sort.Strings(names)
	return names
}

// TotalItemCount sums the item across vendors, saturating at math.MaxInt.
func (m *Market) TotalItemCount(item *Item) int {
	total := 0
	for _, v := range m.VendorsThatSell(item) {
		n := v.CheckStock(item)
		if n > math.MaxInt-total {
			return math.MaxInt
		}
		total += n
	}
	return total
}

func (m *Market) TotalInventory() TotalInventory {
	items := m.UniqueItems()
	inv := newTotalInventory(len(items))

	for _, item := range items {
		inv.add(InventoryEntry{
			Item:     item,
			Quantity: m.TotalItemCount(item),
			Vendors:  m.VendorsThatSell(item),
		})
	}

	return inv
}

func (m *Market) OverstockedItems() []*Item {
	var items []*Item
	for _, e := range m.TotalInventory().Entries {
		if e.Quantity > OverstockQuantity && e.distinctVendors() > OverstockVendors {
			items = append(items, e.Item)
		}
	}
	return items
}

// Sell takes quantity units of item from the vendors that sell it, in
// registration order. It returns false without touching any vendor when the
// market cannot cover the whole quantity.
func (m *Market) Sell(item *Item, quantity int) bool {
	_, ok := m.SellWithReceipt(item, quantity)
	return ok
}

// SellWithReceipt is Sell returning the deductions that were applied.
func (m *Market) SellWithReceipt(item *Item, quantity int) ([]Deduction, bool) {
	if quantity <= 0 || m.TotalItemCount(item) < quantity {
		return nil, false
	}

	// Only a vendor registered twice can make the plan fall short here.
	plan, ok := PlanSale(m.VendorsThatSell(item), item, quantity)
	if !ok {
		return nil, false
	}

	for _, d := range plan {
		if err := d.Vendor.RemoveStock(item, d.Quantity); err != nil {
			panic(fmt.Sprintf("market %q: applying sale plan: %v", m.Name, err))
		}
	}

	return plan, true
}
