// Package sqlitekv implements dialect.Driver on top of SQLite through database/sql and
// the pure-Go modernc.org/sqlite driver. Every family is a table (k BLOB PRIMARY KEY,
// v BLOB). The pool is limited to one connection, so transactions serialize.
package sqlitekv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/syssam/icegraph/dialect"
)

// DriverName is the database/sql driver name registered by modernc.org/sqlite.
const DriverName = "sqlite"

const (
	listTablesQuery = `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`
	hasTableQuery   = `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`
	foldTableQuery  = `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ? COLLATE NOCASE`
)

// Options configures the SQLite store.
type Options struct {
	// Path is the database file, or ":memory:".
	Path string
}

// Driver is a dialect.Driver backed by SQLite.
type Driver struct {
	db *sql.DB
}

// Open opens (or creates) the database and makes sure the default family exists.
func Open(opts Options) (*Driver, error) {
	if opts.Path == "" {
		return nil, errors.New("sqlitekv: Options.Path is required")
	}
	db, err := sql.Open(DriverName, opts.Path)
	if err != nil {
		return nil, fmt.Errorf("sqlitekv: open %q: %w", opts.Path, err)
	}
	d, err := OpenDB(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// OpenPath opens the database at path. It has the dialect.Opener signature.
func OpenPath(path string) (dialect.Driver, error) {
	return Open(Options{Path: path})
}

// OpenDB wraps an already opened *sql.DB and creates the default family.
func OpenDB(db *sql.DB) (*Driver, error) {
	db.SetMaxOpenConns(1)
	d := &Driver{db: db}
	if err := d.CreateFamily(context.Background(), dialect.DefaultFamily); err != nil {
		return nil, err
	}
	return d, nil
}

// DB returns the underlying *sql.DB.
func (d *Driver) DB() *sql.DB { return d.db }

// Dialect returns dialect.SQLite.
func (d *Driver) Dialect() string { return dialect.SQLite }

// Close closes the database.
func (d *Driver) Close() error { return d.db.Close() }

// Families lists the family tables in name order.
func (d *Driver) Families(ctx context.Context) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, listTablesQuery)
	if err != nil {
		return nil, fmt.Errorf("sqlitekv: list families: %w", err)
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("sqlitekv: list families: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlitekv: list families: %w", err)
	}
	return names, nil
}

// CreateFamily creates the family table if it does not exist yet. SQLite table names
// are case-insensitive, so a name differing only in case from an existing family is
// rejected with dialect.ErrInvalidFamily.
func (d *Driver) CreateFamily(ctx context.Context, name string) error {
	if err := validate(name); err != nil {
		return err
	}
	var existing string
	switch err := d.db.QueryRowContext(ctx, foldTableQuery, name).Scan(&existing); {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return fmt.Errorf("sqlitekv: create family %q: %w", name, err)
	case existing == name:
		return nil
	default:
		return fmt.Errorf("%w: %q collides with family %q", dialect.ErrInvalidFamily, name, existing)
	}
	if _, err := d.db.ExecContext(ctx, createTableStmt(name)); err != nil {
		return fmt.Errorf("sqlitekv: create family %q: %w", name, err)
	}
	return nil
}

// DropFamily drops the family table.
func (d *Driver) DropFamily(ctx context.Context, name string) error {
	if name == dialect.DefaultFamily {
		return fmt.Errorf("%w: %s", dialect.ErrReservedFamily, name)
	}
	var n int
	if err := d.db.QueryRowContext(ctx, hasTableQuery, name).Scan(&n); err != nil {
		return fmt.Errorf("sqlitekv: drop family %q: %w", name, err)
	}
	if n == 0 {
		return dialect.FamilyError(name)
	}
	if _, err := d.db.ExecContext(ctx, dropTableStmt(name)); err != nil {
		return fmt.Errorf("sqlitekv: drop family %q: %w", name, err)
	}
	return nil
}

// Tx starts a transaction.
func (d *Driver) Tx(ctx context.Context, writable bool) (dialect.Tx, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlitekv: begin: %w", err)
	}
	return &Tx{tx: tx, ctx: ctx, writable: writable, families: make(map[string]bool)}, nil
}

// Tx is a SQLite transaction.
type Tx struct {
	tx       *sql.Tx
	ctx      context.Context
	writable bool
	done     bool
	families map[string]bool
}

func (tx *Tx) checkFamily(name string) error {
	if tx.done {
		return dialect.ErrTxDone
	}
	if ok, seen := tx.families[name]; seen {
		if !ok {
			return dialect.FamilyError(name)
		}
		return nil
	}
	var n int
	if err := tx.tx.QueryRowContext(tx.ctx, hasTableQuery, name).Scan(&n); err != nil {
		return fmt.Errorf("sqlitekv: family %q: %w", name, err)
	}
	tx.families[name] = n > 0
	if n == 0 {
		return dialect.FamilyError(name)
	}
	return nil
}

// Get returns the value stored under key.
func (tx *Tx) Get(family string, key []byte) ([]byte, error) {
	if err := tx.checkFamily(family); err != nil {
		return nil, err
	}
	var v []byte
	err := tx.tx.QueryRowContext(tx.ctx, selectStmt(family), key).Scan(&v)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("%w: %s/%s", dialect.ErrKeyNotFound, family, key)
	case err != nil:
		return nil, fmt.Errorf("sqlitekv: get %s/%s: %w", family, key, err)
	}
	if v == nil {
		v = []byte{}
	}
	return v, nil
}

// Put upserts value under key.
func (tx *Tx) Put(family string, key, value []byte) error {
	if !tx.writable {
		return dialect.ErrReadOnly
	}
	if err := tx.checkFamily(family); err != nil {
		return err
	}
	if value == nil {
		value = []byte{}
	}
	if _, err := tx.tx.ExecContext(tx.ctx, upsertStmt(family), key, value); err != nil {
		return fmt.Errorf("sqlitekv: put %s/%s: %w", family, key, err)
	}
	return nil
}

// Delete removes key.
func (tx *Tx) Delete(family string, key []byte) error {
	if !tx.writable {
		return dialect.ErrReadOnly
	}
	if err := tx.checkFamily(family); err != nil {
		return err
	}
	if _, err := tx.tx.ExecContext(tx.ctx, deleteStmt(family), key); err != nil {
		return fmt.Errorf("sqlitekv: delete %s/%s: %w", family, key, err)
	}
	return nil
}

type entry struct {
	k, v []byte
}

// ForEach iterates the family in key order. Rows are read fully before fn is called, so
// fn may issue further statements on the transaction.
func (tx *Tx) ForEach(family string, fn func(key, value []byte) error) error {
	if err := tx.checkFamily(family); err != nil {
		return err
	}
	rows, err := tx.tx.QueryContext(tx.ctx, scanStmt(family))
	if err != nil {
		return fmt.Errorf("sqlitekv: scan %s: %w", family, err)
	}
	var entries []entry
	for rows.Next() {
		var e entry
		if err := rows.Scan(&e.k, &e.v); err != nil {
			rows.Close()
			return fmt.Errorf("sqlitekv: scan %s: %w", family, err)
		}
		entries = append(entries, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("sqlitekv: scan %s: %w", family, err)
	}
	for _, e := range entries {
		if err := fn(e.k, e.v); err != nil {
			if errors.Is(err, dialect.ErrStop) {
				return nil
			}
			return err
		}
	}
	return nil
}

// Commit commits the transaction.
func (tx *Tx) Commit() error {
	if tx.done {
		return dialect.ErrTxDone
	}
	tx.done = true
	if !tx.writable {
		return tx.tx.Rollback()
	}
	if err := tx.tx.Commit(); err != nil {
		if isBusy(err) {
			return fmt.Errorf("sqlitekv: %w: %w", dialect.ErrConflict, err)
		}
		return fmt.Errorf("sqlitekv: commit: %w", err)
	}
	return nil
}

// Rollback discards the transaction. It is a no-op after Commit.
func (tx *Tx) Rollback() error {
	if tx.done {
		return nil
	}
	tx.done = true
	return tx.tx.Rollback()
}

func validate(name string) error {
	if err := dialect.ValidateFamily(name); err != nil {
		return err
	}
	if strings.HasPrefix(strings.ToLower(name), "sqlite_") {
		return fmt.Errorf("%w: %q uses the sqlite_ prefix", dialect.ErrInvalidFamily, name)
	}
	return nil
}

func isBusy(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func quote(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func createTableStmt(family string) string {
	return `CREATE TABLE IF NOT EXISTS ` + quote(family) + ` (k BLOB PRIMARY KEY, v BLOB NOT NULL)`
}

func dropTableStmt(family string) string {
	return `DROP TABLE ` + quote(family)
}

func selectStmt(family string) string {
	return `SELECT v FROM ` + quote(family) + ` WHERE k = ?`
}

func upsertStmt(family string) string {
	return `INSERT INTO ` + quote(family) + ` (k, v) VALUES (?, ?) ON CONFLICT(k) DO UPDATE SET v = excluded.v`
}

func deleteStmt(family string) string {
	return `DELETE FROM ` + quote(family) + ` WHERE k = ?`
}

func scanStmt(family string) string {
	return `SELECT k, v FROM ` + quote(family) + ` ORDER BY k`
}

var (
	_ dialect.Driver = (*Driver)(nil)
	_ dialect.Tx     = (*Tx)(nil)
)
