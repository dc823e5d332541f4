package allocator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/tcg-inventory-backend/internal/domain/sale"
)

func TestAllocate_ProportionalToMarket(t *testing.T) {
	items := []sale.Record{
		{Name: "Mew ex #151/165", Market: 3.00, OrderID: "ORD-1"},
		{Name: "Charizard ex #199/165", Market: 7.00, OrderID: "ORD-1"},
	}

	allocated, err := Allocate(items, 10.00)
	require.NoError(t, err)
	require.Len(t, allocated, 2)

	assert.InDelta(t, 3.00, allocated[0].SoldPrice, 0.001)
	assert.InDelta(t, 7.00, allocated[1].SoldPrice, 0.001)
}

func TestAllocate_EqualSplitWithoutMarketData(t *testing.T) {
	items := []sale.Record{
		{Name: "Item A", OrderID: "ORD-2"},
		{Name: "Item B", OrderID: "ORD-2"},
	}

	allocated, err := Allocate(items, 9.99)
	require.NoError(t, err)

	// Both items receive the same rounded share.
	assert.Equal(t, allocated[0].SoldPrice, allocated[1].SoldPrice)
	assert.InDelta(t, 4.995, allocated[0].SoldPrice, 0.005)

	var sum float64
	for _, item := range allocated {
		sum += item.SoldPrice
	}
	assert.InDelta(t, 9.99, sum, 0.01*float64(len(items)))
}

func TestAllocate_Conservation(t *testing.T) {
	items := []sale.Record{
		{Name: "A", Market: 19.99},
		{Name: "B", Market: 12.72},
		{Name: "C", Market: 16.99},
		{Name: "D", Market: 7.99},
		{Name: "E", Market: 6.49},
	}

	orderTotal := 58.31
	allocated, err := Allocate(items, orderTotal)
	require.NoError(t, err)

	var sum float64
	for _, item := range allocated {
		sum += item.SoldPrice
	}
	assert.InDelta(t, orderTotal, sum, 0.01*float64(len(items)))
}

func TestAllocate_Idempotent(t *testing.T) {
	items := []sale.Record{
		{Name: "A", Market: 2.50},
		{Name: "B", Market: 4.25},
		{Name: "C", Market: 1.10},
	}

	first, err := Allocate(items, 7.77)
	require.NoError(t, err)

	second, err := Allocate(first, 7.77)
	require.NoError(t, err)

	for i := range first {
		assert.Equal(t, first[i].SoldPrice, second[i].SoldPrice)
	}
}

func TestAllocate_DoesNotMutateInput(t *testing.T) {
	items := []sale.Record{{Name: "A", Market: 1.00, SoldPrice: 0}}

	_, err := Allocate(items, 5.00)
	require.NoError(t, err)

	assert.Equal(t, 0.0, items[0].SoldPrice)
}

func TestAllocate_NoItems(t *testing.T) {
	_, err := Allocate(nil, 10.00)
	assert.ErrorIs(t, err, ErrNoItems)
}

func TestAllocate_MissingOrderTotal(t *testing.T) {
	items := []sale.Record{{Name: "A", Market: 1.00}}

	_, err := Allocate(items, 0)
	assert.ErrorIs(t, err, ErrNoOrderTotal)

	_, err = Allocate(items, -3.00)
	assert.ErrorIs(t, err, ErrNoOrderTotal)
}

func TestAllocate_ZeroMarketItemInMixedOrder(t *testing.T) {
	items := []sale.Record{
		{Name: "Priced", Market: 5.00},
		{Name: "Unpriced", Market: 0},
	}

	allocated, err := Allocate(items, 8.00)
	require.NoError(t, err)

	// All market weight sits on the priced item.
	assert.InDelta(t, 8.00, allocated[0].SoldPrice, 0.001)
	assert.InDelta(t, 0.00, allocated[1].SoldPrice, 0.001)
}
