package pricing

import "errors"

// ErrNoMarketplaces is returned by BestOf when it is given nothing to choose from.
var ErrNoMarketplaces = errors.New("no enabled marketplaces to compare")

// Entry pairs a marketplace with its calculated result.
type Entry struct {
	Marketplace MarketplaceConfig `json:"marketplace"`
	Result      CalculationResult `json:"result"`
}

// CalculateAll runs Calculate for every enabled marketplace, preserving order.
func CalculateAll(inputs GlobalInputs, configs []MarketplaceConfig) []Entry {
	entries := make([]Entry, 0, len(configs))
	for _, cfg := range configs {
		if !cfg.IsEnabled {
			continue
		}
		entries = append(entries, Entry{Marketplace: cfg, Result: Calculate(inputs, cfg)})
	}
	return entries
}

// BestOf returns the entry with the highest real profit. Ties keep the first
// entry in input order.
func BestOf(entries []Entry) (Entry, error) {
	i, err := BestIndex(entries)
	if err != nil {
		return Entry{}, err
	}
	return entries[i], nil
}

// BestIndex is BestOf returning the position of the winning entry.
func BestIndex(entries []Entry) (int, error) {
	if len(entries) == 0 {
		return -1, ErrNoMarketplaces
	}

	best := 0
	for i := 1; i < len(entries); i++ {
		if entries[i].Result.RealProfit > entries[best].Result.RealProfit {
			best = i
		}
	}
	return best, nil
}
