package seed

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Simplici0/mktcalc/internal/db"
	"github.com/Simplici0/mktcalc/internal/history"
	"github.com/Simplici0/mktcalc/internal/pricing"
	"github.com/Simplici0/mktcalc/internal/workspace"
)

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Updates int
}

// Run executes the startup seed in an idempotent way.
func Run(ctx context.Context, database *sql.DB) (Stats, error) {
	stats := Stats{}

	err := db.WithTx(ctx, database, func(tx *sql.Tx) error {
		if err := ensureMarketplaces(ctx, tx, &stats); err != nil {
			return err
		}
		return ensureHistory(ctx, tx, &stats)
	})
	if err != nil {
		return Stats{}, fmt.Errorf("run seed: %w", err)
	}

	return stats, nil
}

// ensureMarketplaces stores the default marketplace list, or appends default
// slots missing from a stored list.
func ensureMarketplaces(ctx context.Context, tx *sql.Tx, stats *Stats) error {
	raw, ok, err := db.GetValue(ctx, tx, workspace.Key)
	if err != nil {
		return fmt.Errorf("check marketplaces existence: %w", err)
	}

	defaults := pricing.DefaultMarketplaces()
	if !ok {
		if err := putJSON(ctx, tx, workspace.Key, defaults); err != nil {
			return fmt.Errorf("insert default marketplaces: %w", err)
		}
		stats.Inserts++
		return nil
	}

	var stored []pricing.MarketplaceConfig
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		// workspace.Store recovers unreadable lists on read
		return nil
	}

	have := make(map[string]bool, len(stored))
	for _, cfg := range stored {
		have[cfg.ID] = true
	}
	missing := false
	for _, cfg := range defaults {
		if !have[cfg.ID] {
			stored = append(stored, cfg)
			missing = true
		}
	}
	if !missing {
		return nil
	}

	if err := putJSON(ctx, tx, workspace.Key, stored); err != nil {
		return fmt.Errorf("add missing marketplaces: %w", err)
	}
	stats.Updates++
	return nil
}

func ensureHistory(ctx context.Context, tx *sql.Tx, stats *Stats) error {
	_, ok, err := db.GetValue(ctx, tx, history.Key)
	if err != nil {
		return fmt.Errorf("check history existence: %w", err)
	}
	if ok {
		return nil
	}

	if err := putJSON(ctx, tx, history.Key, []history.Item{}); err != nil {
		return fmt.Errorf("insert empty history: %w", err)
	}
	stats.Inserts++
	return nil
}

func putJSON(ctx context.Context, tx *sql.Tx, key string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return db.PutValue(ctx, tx, key, string(body))
}
