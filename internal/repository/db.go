package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/expenso/docpipe/constants"
)

type Config struct {
	Path        string
	BusyTimeout time.Duration
}

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id             TEXT PRIMARY KEY,
	owner_id       TEXT NOT NULL,
	filename       TEXT NOT NULL,
	mime_type      TEXT NOT NULL,
	status         TEXT NOT NULL DEFAULT 'QUEUED',
	raw_text       TEXT,
	extracted_json TEXT,
	error_message  TEXT,
	attempts       INTEGER NOT NULL DEFAULT 0,
	uploaded_at    TEXT NOT NULL,
	processed_at   TEXT
);

CREATE TABLE IF NOT EXISTS transactions (
	id          TEXT PRIMARY KEY,
	owner_id    TEXT NOT NULL,
	document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
	tx_date     TEXT NOT NULL,
	amount      TEXT NOT NULL,
	currency    TEXT NOT NULL,
	merchant    TEXT NOT NULL DEFAULT '',
	tax         TEXT,
	category    TEXT NOT NULL DEFAULT '',
	created_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS line_items (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	transaction_id TEXT NOT NULL REFERENCES transactions(id) ON DELETE CASCADE,
	position       INTEGER NOT NULL,
	description    TEXT NOT NULL,
	quantity       TEXT NOT NULL,
	unit_price     TEXT,
	total          TEXT
);

CREATE TABLE IF NOT EXISTS categories (
	id   INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS category_rules (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	owner_id TEXT NOT NULL,
	name     TEXT NOT NULL DEFAULT '',
	pattern  TEXT NOT NULL,
	field    TEXT NOT NULL DEFAULT 'merchant',
	category TEXT NOT NULL,
	priority INTEGER NOT NULL DEFAULT 0,
	active   INTEGER NOT NULL DEFAULT 1
);

CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(status);
CREATE INDEX IF NOT EXISTS idx_transactions_owner ON transactions(owner_id, tx_date);
CREATE INDEX IF NOT EXISTS idx_rules_owner ON category_rules(owner_id, priority, id);
`

// Open opens (or creates) the sqlite store, applies the schema, and
// seeds the built-in categories.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*sql.DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Path == "" {
		cfg.Path = "./docpipe.db"
	}
	if cfg.BusyTimeout <= 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=foreign_keys(1)",
		cfg.Path, cfg.BusyTimeout.Milliseconds())
	logger.Info("opening store", "path", cfg.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping store: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	if err := seedCategories(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("seed categories: %w", err)
	}
	return db, nil
}

func seedCategories(ctx context.Context, db *sql.DB) error {
	for _, name := range constants.AsStringSlice() {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO categories(name) VALUES(?) ON CONFLICT(name) DO NOTHING`, name); err != nil {
			return err
		}
	}
	return nil
}
