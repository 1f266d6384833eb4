package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanSale_FirstVendorCovers(t *testing.T) {
	peach := mustItem(t, "Peach", "$0.75")
	a, b := NewVendor("A"), NewVendor("B")
	require.NoError(t, a.Stock(peach, 35))
	require.NoError(t, b.Stock(peach, 65))

	plan, ok := PlanSale([]*Vendor{a, b}, peach, 10)
	require.True(t, ok)
	assert.Equal(t, []Deduction{{Vendor: a, Quantity: 10}}, plan)
	assert.Equal(t, 35, a.CheckStock(peach), "planning does not mutate")
}

func TestPlanSale_SpansVendors(t *testing.T) {
	peach := mustItem(t, "Peach", "$0.75")
	a, b, c := NewVendor("A"), NewVendor("B"), NewVendor("C")
	require.NoError(t, a.Stock(peach, 5))
	require.NoError(t, b.Stock(peach, 5))
	require.NoError(t, c.Stock(peach, 50))

	plan, ok := PlanSale([]*Vendor{a, b, c}, peach, 12)
	require.True(t, ok)
	assert.Equal(t, []Deduction{
		{Vendor: a, Quantity: 5},
		{Vendor: b, Quantity: 5},
		{Vendor: c, Quantity: 2},
	}, plan)
}

func TestPlanSale_ExactCoverStopsAtThatVendor(t *testing.T) {
	peach := mustItem(t, "Peach", "$0.75")
	a, b := NewVendor("A"), NewVendor("B")
	require.NoError(t, a.Stock(peach, 10))
	require.NoError(t, b.Stock(peach, 10))

	plan, ok := PlanSale([]*Vendor{a, b}, peach, 10)
	require.True(t, ok)
	assert.Equal(t, []Deduction{{Vendor: a, Quantity: 10}}, plan)
}

func TestPlanSale_Shortfall(t *testing.T) {
	peach := mustItem(t, "Peach", "$0.75")
	a := NewVendor("A")
	require.NoError(t, a.Stock(peach, 3))

	plan, ok := PlanSale([]*Vendor{a}, peach, 4)
	assert.False(t, ok)
	assert.Nil(t, plan)

	_, ok = PlanSale(nil, peach, 1)
	assert.False(t, ok)

	_, ok = PlanSale([]*Vendor{a}, peach, 0)
	assert.False(t, ok)
}

func TestPlanSale_DuplicateVendorNotDoubleCounted(t *testing.T) {
	peach := mustItem(t, "Peach", "$0.75")
	a := NewVendor("A")
	require.NoError(t, a.Stock(peach, 5))

	_, ok := PlanSale([]*Vendor{a, a}, peach, 8)
	assert.False(t, ok)

	plan, ok := PlanSale([]*Vendor{a, a}, peach, 5)
	require.True(t, ok)
	assert.Equal(t, []Deduction{{Vendor: a, Quantity: 5}}, plan)
}
