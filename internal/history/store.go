package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Simplici0/mktcalc/internal/db"
)

// Key is the kv_store entry holding the JSON array of items.
const Key = "mktcalc_history"

// Store persists the history list as a single key-value entry.
type Store struct {
	db    *sql.DB
	limit int
	log   zerolog.Logger
}

// NewStore returns a Store keeping at most limit items (see ClampLimit).
func NewStore(database *sql.DB, limit int, log zerolog.Logger) *Store {
	return &Store{
		db:    database,
		limit: ClampLimit(limit),
		log:   log.With().Str("component", "history").Logger(),
	}
}

// Limit reports the maximum number of items kept.
func (s *Store) Limit() int {
	return s.limit
}

// List returns the saved items, newest first. Missing or corrupt data reads
// as an empty list.
func (s *Store) List(ctx context.Context) ([]Item, error) {
	return s.load(ctx, s.db)
}

// Add stores item at the head of the list and drops the oldest items beyond
// the limit. The read-modify-write runs in one transaction.
func (s *Store) Add(ctx context.Context, item Item) ([]Item, error) {
	var out []Item
	err := db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		items, err := s.load(ctx, tx)
		if err != nil {
			return err
		}

		out = Prepend(items, item, s.limit)
		body, err := json.Marshal(out)
		if err != nil {
			return fmt.Errorf("encode history: %w", err)
		}
		return db.PutValue(ctx, tx, Key, string(body))
	})
	if err != nil {
		return nil, fmt.Errorf("save history item: %w", err)
	}
	return out, nil
}

// Clear removes every saved item.
func (s *Store) Clear(ctx context.Context) error {
	if err := db.DeleteValue(ctx, s.db, Key); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

func (s *Store) load(ctx context.Context, q db.Querier) ([]Item, error) {
	raw, ok, err := db.GetValue(ctx, q, Key)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	if !ok {
		return []Item{}, nil
	}

	var items []Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.log.Warn().Err(err).Msg("discarding corrupt history")
		return []Item{}, nil
	}
	return normalize(items, s.limit), nil
}
