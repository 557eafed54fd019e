package pricing

import "math"

// WeightBand is one row of a shipping table: the costs for items weighing up
// to MaxKg, one per price column.
type WeightBand struct {
	MaxKg float64   `yaml:"max_kg" json:"max_kg"`
	Costs []float64 `yaml:"costs" json:"costs"`
}

// ShippingTable maps (weight, selling price) to a seller shipping cost.
//
// PriceColumns holds ascending price limits compared with a strict "<": a
// price below PriceColumns[i] falls in column i, anything else in the last
// column, so every band carries len(PriceColumns)+1 costs. Bands are ordered
// by ascending MaxKg and matched with "weight <= MaxKg"; the last band is
// used for heavier items.
type ShippingTable struct {
	PriceColumns []float64    `yaml:"price_columns" json:"price_columns"`
	Bands        []WeightBand `yaml:"bands" json:"bands"`
	// Below this price the cost never exceeds half the price. Zero disables it.
	HalfPriceCapBelow float64 `yaml:"half_price_cap_below" json:"half_price_cap_below"`
}

// Column returns the price column index for price.
func (t ShippingTable) Column(price float64) int {
	for i, limit := range t.PriceColumns {
		if price < limit {
			return i
		}
	}
	return len(t.PriceColumns)
}

// Band returns the weight band for weightKg, or nil for an empty table.
func (t ShippingTable) Band(weightKg float64) *WeightBand {
	if len(t.Bands) == 0 {
		return nil
	}
	for i := range t.Bands {
		if weightKg <= t.Bands[i].MaxKg {
			return &t.Bands[i]
		}
	}
	return &t.Bands[len(t.Bands)-1]
}

// Cost looks up the shipping cost for an item of weightKg sold at price.
// Items without weight ship for free.
func (t ShippingTable) Cost(weightKg, sellingPrice float64) float64 {
	weightKg = finite(weightKg)
	price := nonNegative(sellingPrice)
	if weightKg <= 0 {
		return 0
	}

	band := t.Band(weightKg)
	if band == nil {
		return 0
	}
	col := t.Column(price)
	if col >= len(band.Costs) {
		return 0
	}

	cost := band.Costs[col]
	if price > 0 && price < t.HalfPriceCapBelow {
		cost = math.Min(cost, price/2)
	}
	return cost
}

// ShippingCost looks weightKg and sellingPrice up in the default schedule's
// shipping table.
func ShippingCost(weightKg, sellingPrice float64) float64 {
	return defaultSchedule.Shipping.Cost(weightKg, sellingPrice)
}
