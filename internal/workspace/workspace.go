// Package workspace persists the session's marketplace configurations.
package workspace

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Simplici0/mktcalc/internal/db"
	"github.com/Simplici0/mktcalc/internal/pricing"
)

// Key is the kv_store entry holding the JSON array of configs.
const Key = "mktcalc_marketplaces"

// ErrNotFound is returned for an unknown marketplace id.
var ErrNotFound = errors.New("marketplace not found")

// Store keeps the marketplace list as a single key-value entry. An absent
// entry reads as pricing.DefaultMarketplaces.
type Store struct {
	db       *sql.DB
	schedule pricing.Schedule
	log      zerolog.Logger
}

func NewStore(database *sql.DB, schedule pricing.Schedule, log zerolog.Logger) *Store {
	return &Store{
		db:       database,
		schedule: schedule,
		log:      log.With().Str("component", "workspace").Logger(),
	}
}

// Schedule returns the tariff used for mode switches and synchronization.
func (s *Store) Schedule() pricing.Schedule {
	return s.schedule
}

// List returns every marketplace config in display order.
func (s *Store) List(ctx context.Context) ([]pricing.MarketplaceConfig, error) {
	return s.load(ctx, s.db)
}

// Get returns the config with the given id.
func (s *Store) Get(ctx context.Context, id string) (pricing.MarketplaceConfig, error) {
	configs, err := s.List(ctx)
	if err != nil {
		return pricing.MarketplaceConfig{}, err
	}
	i := indexOf(configs, id)
	if i < 0 {
		return pricing.MarketplaceConfig{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return configs[i], nil
}

// Update applies a user edit to the config with the given id and stores it.
func (s *Store) Update(ctx context.Context, id string, e pricing.Edit) (pricing.MarketplaceConfig, error) {
	var updated pricing.MarketplaceConfig
	err := db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		configs, err := s.load(ctx, tx)
		if err != nil {
			return err
		}
		i := indexOf(configs, id)
		if i < 0 {
			return fmt.Errorf("%w: %q", ErrNotFound, id)
		}

		if updated, err = pricing.ApplyEdit(configs[i], e, s.schedule); err != nil {
			return err
		}
		configs[i] = updated
		return s.save(ctx, tx, configs)
	})
	if err != nil {
		return pricing.MarketplaceConfig{}, fmt.Errorf("update marketplace %q: %w", id, err)
	}
	return updated, nil
}

// SyncPrice runs the field synchronizer for a new selling price. The list is
// written back only when a field changed.
func (s *Store) SyncPrice(ctx context.Context, price float64) ([]pricing.MarketplaceConfig, bool, error) {
	var out []pricing.MarketplaceConfig
	var changed bool
	err := db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		configs, err := s.load(ctx, tx)
		if err != nil {
			return err
		}

		out, changed = pricing.SyncAll(configs, price, s.schedule.MercadoLivre)
		if !changed {
			return nil
		}
		return s.save(ctx, tx, out)
	})
	if err != nil {
		return nil, false, fmt.Errorf("sync marketplaces: %w", err)
	}
	if changed {
		s.log.Debug().Float64("price", price).Msg("marketplace fields synchronized")
	}
	return out, changed, nil
}

// DeriveFees recomputes the fees of the config with the given id from the
// tariff, using its mode, seller type and Full Super flag. Fields the user
// edited keep their values.
func (s *Store) DeriveFees(ctx context.Context, id string, price, weightKg float64) (pricing.MarketplaceConfig, pricing.FeeResult, error) {
	var updated pricing.MarketplaceConfig
	var fees pricing.FeeResult
	err := db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		configs, err := s.load(ctx, tx)
		if err != nil {
			return err
		}
		i := indexOf(configs, id)
		if i < 0 {
			return fmt.Errorf("%w: %q", ErrNotFound, id)
		}

		cfg := configs[i]
		fees, err = pricing.DeriveFees(s.schedule, cfg.Type, pricing.FeeQuery{
			Price:      price,
			SellerType: cfg.SellerType,
			Mode:       cfg.ExtraOptionValue,
			FullSuper:  cfg.IsFullSuper,
			WeightKg:   weightKg,
		})
		if err != nil {
			return err
		}

		updated = pricing.ApplyFees(cfg, fees)
		if updated == cfg {
			return nil
		}
		configs[i] = updated
		return s.save(ctx, tx, configs)
	})
	if err != nil {
		return pricing.MarketplaceConfig{}, pricing.FeeResult{}, fmt.Errorf("derive fees for %q: %w", id, err)
	}
	return updated, fees, nil
}

// Reset restores the default marketplace list.
func (s *Store) Reset(ctx context.Context) ([]pricing.MarketplaceConfig, error) {
	configs := pricing.DefaultMarketplaces()
	if err := s.save(ctx, s.db, configs); err != nil {
		return nil, fmt.Errorf("reset marketplaces: %w", err)
	}
	return configs, nil
}

func (s *Store) load(ctx context.Context, q db.Querier) ([]pricing.MarketplaceConfig, error) {
	raw, ok, err := db.GetValue(ctx, q, Key)
	if err != nil {
		return nil, fmt.Errorf("load marketplaces: %w", err)
	}
	if !ok {
		return pricing.DefaultMarketplaces(), nil
	}

	var configs []pricing.MarketplaceConfig
	if err := json.Unmarshal([]byte(raw), &configs); err != nil || len(configs) == 0 {
		s.log.Warn().Err(err).Msg("discarding unreadable marketplace list")
		return pricing.DefaultMarketplaces(), nil
	}
	return configs, nil
}

func (s *Store) save(ctx context.Context, q db.Querier, configs []pricing.MarketplaceConfig) error {
	body, err := json.Marshal(configs)
	if err != nil {
		return fmt.Errorf("encode marketplaces: %w", err)
	}
	return db.PutValue(ctx, q, Key, string(body))
}

func indexOf(configs []pricing.MarketplaceConfig, id string) int {
	for i, cfg := range configs {
		if cfg.ID == id {
			return i
		}
	}
	return -1
}
