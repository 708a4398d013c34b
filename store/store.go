// Package store persists the ledger and the tax settings in a SQLite database.
//
// It is the storage used by the HTTP server, where concurrent requests make
// the JSONL ledger file impractical. Rows keep their insertion sequence so
// that the ledger order survives a round trip.
package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/etnz/satstack"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // SQLite driver
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// settingsName is the row holding the tax configuration.
const settingsName = "tax"

// Store is a SQLite backed ledger.
type Store struct {
	db *sql.DB
}

// Open opens the database at path and applies the pending migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a single writer avoids SQLITE_BUSY under concurrent requests.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}
	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	migrations, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return err
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations)
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// HealthCheck reports whether the database is reachable.
func (s *Store) HealthCheck(ctx context.Context) error { return s.db.PingContext(ctx) }

// List returns all the transactions in ledger order.
func (s *Store) List(ctx context.Context) ([]satstack.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM transactions ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txs []satstack.Transaction
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		var tx satstack.Transaction
		if err := json.Unmarshal([]byte(data), &tx); err != nil {
			return nil, fmt.Errorf("failed to decode transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return txs, nil
}

// Ledger returns the stored transactions as a ledger.
func (s *Store) Ledger(ctx context.Context) (*satstack.Ledger, error) {
	txs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	ledger := satstack.NewLedger()
	ledger.Append(txs...)
	return ledger, nil
}

// Get returns the transaction with the given id.
func (s *Store) Get(ctx context.Context, id string) (satstack.Transaction, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM transactions WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return satstack.Transaction{}, fmt.Errorf("%w: %q", satstack.ErrTransactionNotFound, id)
	}
	if err != nil {
		return satstack.Transaction{}, fmt.Errorf("failed to query transaction: %w", err)
	}
	var tx satstack.Transaction
	if err := json.Unmarshal([]byte(data), &tx); err != nil {
		return satstack.Transaction{}, fmt.Errorf("failed to decode transaction: %w", err)
	}
	return tx, nil
}

// Add validates tx and appends it. A transaction without id receives a new
// one. The stored transaction is returned.
func (s *Store) Add(ctx context.Context, tx satstack.Transaction) (satstack.Transaction, error) {
	if tx.ID == "" {
		tx.ID = satstack.NewID()
	}
	if err := tx.Validate(); err != nil {
		return tx, err
	}
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return tx, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	var exists int
	err = sqlTx.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions WHERE id = ?`, tx.ID).Scan(&exists)
	if err != nil {
		return tx, fmt.Errorf("failed to query transaction: %w", err)
	}
	if exists > 0 {
		return tx, &satstack.ValidationError{TxID: tx.ID, Err: satstack.ErrDuplicateID}
	}
	if err := insert(ctx, sqlTx, tx); err != nil {
		return tx, err
	}
	return tx, sqlTx.Commit()
}

func insert(ctx context.Context, sqlTx *sql.Tx, tx satstack.Transaction) error {
	data, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("failed to encode transaction %q: %w", tx.ID, err)
	}
	_, err = sqlTx.ExecContext(ctx,
		`INSERT INTO transactions (id, type, date, data) VALUES (?, ?, ?, ?)`,
		tx.ID, string(tx.Type), tx.Date.String(), string(data))
	if err != nil {
		return fmt.Errorf("failed to insert transaction %q: %w", tx.ID, err)
	}
	return nil
}

// Update replaces the transaction with the same id, keeping its position.
func (s *Store) Update(ctx context.Context, tx satstack.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("failed to encode transaction %q: %w", tx.ID, err)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE transactions SET type = ?, date = ?, data = ? WHERE id = ?`,
		string(tx.Type), tx.Date.String(), string(data), tx.ID)
	if err != nil {
		return fmt.Errorf("failed to update transaction %q: %w", tx.ID, err)
	}
	return notFound(res, tx.ID)
}

// Remove deletes the transaction with the given id.
func (s *Store) Remove(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %q: %w", id, err)
	}
	return notFound(res, id)
}

func notFound(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", satstack.ErrTransactionNotFound, id)
	}
	return nil
}

// Replace atomically replaces all the stored transactions with the ledger
// content, in ledger order.
func (s *Store) Replace(ctx context.Context, ledger *satstack.Ledger) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if _, err := sqlTx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("failed to clear transactions: %w", err)
	}
	for _, tx := range ledger.List() {
		if err := insert(ctx, sqlTx, tx); err != nil {
			return err
		}
	}
	return sqlTx.Commit()
}

// Settings returns the stored tax configuration, or the default one when
// none was saved.
func (s *Store) Settings(ctx context.Context) (satstack.TaxConfiguration, error) {
	cfg := satstack.DefaultTaxConfiguration()
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM settings WHERE name = ?`, settingsName).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to query settings: %w", err)
	}
	if err := json.Unmarshal([]byte(data), &cfg); err != nil {
		return satstack.DefaultTaxConfiguration(), fmt.Errorf("invalid stored settings: %w", err)
	}
	return cfg, nil
}

// SaveSettings validates and stores the tax configuration.
func (s *Store) SaveSettings(ctx context.Context, cfg satstack.TaxConfiguration) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO settings (name, data) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET data = excluded.data`,
		settingsName, string(data))
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
