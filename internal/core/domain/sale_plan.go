package domain

// Deduction is the quantity to take from one vendor for a sale.
type Deduction struct {
	Vendor   *Vendor
	Quantity int
}

// PlanSale walks sellers in order, taking everything from each vendor until
// one can cover the remainder. It does not mutate any vendor. The plan is
// rejected when the sellers cannot cover quantity together.
func PlanSale(sellers []*Vendor, item *Item, quantity int) ([]Deduction, bool) {
	if quantity <= 0 {
		return nil, false
	}

	// a vendor registered twice shows up twice in sellers
	planned := make(map[*Vendor]int, len(sellers))
	remaining := quantity
	var plan []Deduction

	for _, v := range sellers {
		available := v.CheckStock(item) - planned[v]
		if available <= 0 {
			continue
		}

		if available >= remaining {
			return append(plan, Deduction{Vendor: v, Quantity: remaining}), true
		}

		plan = append(plan, Deduction{Vendor: v, Quantity: available})
		planned[v] += available
		remaining -= available
	}

	return nil, false
}
