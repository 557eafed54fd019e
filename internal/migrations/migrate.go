package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

const sqliteDialect = goose.DialectSQLite3

//go:embed sql/*.sql
var files embed.FS

func newProvider(db *sql.DB) (*goose.Provider, error) {
	migrationsFS, err := fs.Sub(files, "sql")
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}

	p, err := goose.NewProvider(sqliteDialect, db, migrationsFS)
	if err != nil {
		return nil, fmt.Errorf("create goose provider: %w", err)
	}
	return p, nil
}

// Up runs all pending SQL migrations embedded in the binary.
func Up(db *sql.DB) error {
	p, err := newProvider(db)
	if err != nil {
		return err
	}

	if _, err := p.Up(context.Background()); err != nil {
		return fmt.Errorf("run goose up migrations: %w", err)
	}

	return nil
}

// Version reports the schema version currently applied to db.
func Version(db *sql.DB) (int64, error) {
	p, err := newProvider(db)
	if err != nil {
		return 0, err
	}

	v, err := p.GetDBVersion(context.Background())
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return v, nil
}
