package pricing

import "testing"

func TestShippingCost_TableLookup(t *testing.T) {
	tests := []struct {
		name   string
		weight float64
		price  float64
		want   float64
	}{
		{name: "lightest band cheap item", weight: 0.3, price: 15, want: 5.65},
		{name: "cheap item capped at half price", weight: 0.3, price: 10, want: 5.00},
		{name: "price column boundary is exclusive", weight: 0.3, price: 19, want: 6.55},
		{name: "just below 19", weight: 0.3, price: 18.99, want: 5.65},
		{name: "weight band boundary is inclusive", weight: 0.5, price: 50, want: 7.85},
		{name: "just above a band", weight: 0.501, price: 50, want: 7.95},
		{name: "column below 79", weight: 1, price: 78.99, want: 7.95},
		{name: "column at 79", weight: 1, price: 79, want: 13.85},
		{name: "column at 100", weight: 2, price: 100, want: 16.85},
		{name: "column at 150", weight: 5, price: 150, want: 27.75},
		{name: "top column", weight: 10, price: 200, want: 68.65},
		{name: "over 150kg uses the open band", weight: 300, price: 250, want: 261.95},
		{name: "zero price is not capped", weight: 0.3, price: 0, want: 5.65},
		{name: "no weight", weight: 0, price: 50, want: 0},
		{name: "negative weight", weight: -1, price: 50, want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			nearlyEqual(t, "shippingCost", ShippingCost(tc.weight, tc.price), tc.want)
		})
	}
}

func TestShippingTable_EveryBandHasAllColumns(t *testing.T) {
	table := DefaultSchedule().Shipping
	for i, band := range table.Bands {
		if len(band.Costs) != len(table.PriceColumns)+1 {
			t.Fatalf("band %d has %d costs, want %d", i, len(band.Costs), len(table.PriceColumns)+1)
		}
	}
}

func TestShippingTable_EmptyTable(t *testing.T) {
	if got := (ShippingTable{}).Cost(1, 50); got != 0 {
		t.Fatalf("empty table cost = %v, want 0", got)
	}
}
