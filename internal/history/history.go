// Package history keeps the capped, newest-first list of saved calculations.
package history

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Simplici0/mktcalc/internal/format"
	"github.com/Simplici0/mktcalc/internal/pricing"
)

const (
	MinLimit     = 10
	MaxLimit     = 20
	DefaultLimit = MinLimit
)

// ErrNothingToSave is returned when a snapshot has no selling price.
var ErrNothingToSave = errors.New("nothing to save: selling price must be greater than 0")

// ResultsSummary is the best outcome at save time.
type ResultsSummary struct {
	BestProfit      float64 `json:"best_profit"`
	BestMarketplace string  `json:"best_marketplace"`
}

// Item is one saved calculation. Timestamp is in Unix milliseconds.
type Item struct {
	ID             string               `json:"id"`
	Timestamp      int64                `json:"timestamp"`
	Inputs         pricing.GlobalInputs `json:"inputs"`
	ResultsSummary ResultsSummary       `json:"results_summary"`
}

// NewItem snapshots inputs together with the most profitable of entries.
// With no entries the summary is left empty.
func NewItem(inputs pricing.GlobalInputs, entries []pricing.Entry, now time.Time) (Item, error) {
	inputs = pricing.SanitizeInputs(inputs)
	if inputs.SellingPrice <= 0 {
		return Item{}, ErrNothingToSave
	}

	item := Item{
		ID:        uuid.NewString(),
		Timestamp: now.UnixMilli(),
		Inputs:    inputs,
	}

	best, err := pricing.BestOf(entries)
	if err != nil && !errors.Is(err, pricing.ErrNoMarketplaces) {
		return Item{}, fmt.Errorf("pick best marketplace: %w", err)
	}
	if err == nil {
		item.ResultsSummary = ResultsSummary{
			BestProfit:      format.Round2(best.Result.RealProfit),
			BestMarketplace: best.Marketplace.Name,
		}
	}
	return item, nil
}

// ClampLimit bounds a configured list size to [MinLimit, MaxLimit]; values
// <= 0 select DefaultLimit.
func ClampLimit(n int) int {
	switch {
	case n <= 0:
		return DefaultLimit
	case n < MinLimit:
		return MinLimit
	case n > MaxLimit:
		return MaxLimit
	}
	return n
}

// Prepend returns items with item first, truncated to limit entries.
func Prepend(items []Item, item Item, limit int) []Item {
	out := make([]Item, 0, min(len(items)+1, limit))
	out = append(out, item)
	for _, it := range items {
		if len(out) >= limit {
			break
		}
		out = append(out, it)
	}
	return out
}

// normalize drops entries without an id and enforces limit.
func normalize(items []Item, limit int) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.ID == "" {
			continue
		}
		out = append(out, it)
		if len(out) == limit {
			break
		}
	}
	return out
}
