// Package boltkv implements dialect.Driver on top of bbolt. Every family is a top-level
// bucket. bbolt allows one writable transaction at a time, so writers serialize and never
// conflict.
package boltkv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/syssam/icegraph/dialect"
)

// Options configures the bbolt store.
type Options struct {
	// Path is the database file. Required.
	Path string
	// Timeout bounds the wait for the file lock. Default is one second.
	Timeout time.Duration
	// NoSync skips fsync after each commit.
	NoSync bool
}

// Driver is a dialect.Driver backed by bbolt.
type Driver struct {
	db *bolt.DB
}

// Open opens (or creates) the database file and makes sure the default family exists.
func Open(opts Options) (*Driver, error) {
	if opts.Path == "" {
		return nil, errors.New("boltkv: Options.Path is required")
	}
	if opts.Timeout == 0 {
		opts.Timeout = time.Second
	}
	db, err := bolt.Open(opts.Path, 0o600, &bolt.Options{Timeout: opts.Timeout})
	if err != nil {
		return nil, fmt.Errorf("boltkv: open %q: %w", opts.Path, err)
	}
	db.NoSync = opts.NoSync
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(dialect.DefaultFamily))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("boltkv: create bucket %q: %w", dialect.DefaultFamily, err)
	}
	return &Driver{db: db}, nil
}

// OpenPath opens the database file at path. It has the dialect.Opener signature.
func OpenPath(path string) (dialect.Driver, error) {
	return Open(Options{Path: path})
}

// DB returns the underlying bbolt handle.
func (d *Driver) DB() *bolt.DB { return d.db }

// Dialect returns dialect.Bolt.
func (d *Driver) Dialect() string { return dialect.Bolt }

// Close closes the database file.
func (d *Driver) Close() error { return d.db.Close() }

// Families lists the buckets. bbolt keeps them in byte order.
func (d *Driver) Families(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var names []string
	err := d.db.View(func(tx *bolt.Tx) error {
		return tx.ForEach(func(name []byte, _ *bolt.Bucket) error {
			names = append(names, string(name))
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("boltkv: list families: %w", err)
	}
	return names, nil
}

// CreateFamily creates the bucket if it does not exist yet.
func (d *Driver) CreateFamily(ctx context.Context, name string) error {
	if err := dialect.ValidateFamily(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	exists := false
	err := d.db.View(func(tx *bolt.Tx) error {
		exists = tx.Bucket([]byte(name)) != nil
		return nil
	})
	if err != nil {
		return fmt.Errorf("boltkv: create family %q: %w", name, err)
	}
	if exists {
		return nil
	}
	err = d.db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(name))
		return err
	})
	if err != nil {
		return fmt.Errorf("boltkv: create family %q: %w", name, err)
	}
	return nil
}

// DropFamily deletes the bucket and everything in it.
func (d *Driver) DropFamily(ctx context.Context, name string) error {
	if name == dialect.DefaultFamily {
		return fmt.Errorf("%w: %s", dialect.ErrReservedFamily, name)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	err := d.db.Update(func(tx *bolt.Tx) error {
		return tx.DeleteBucket([]byte(name))
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bolt.ErrBucketNotFound):
		return dialect.FamilyError(name)
	default:
		return fmt.Errorf("boltkv: drop family %q: %w", name, err)
	}
}

// Tx starts a transaction. A writable transaction blocks until any other writable
// transaction has finished.
func (d *Driver) Tx(ctx context.Context, writable bool) (dialect.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tx, err := d.db.Begin(writable)
	if err != nil {
		return nil, fmt.Errorf("boltkv: begin: %w", err)
	}
	return &Tx{tx: tx}, nil
}

// Tx is a bbolt transaction.
type Tx struct {
	tx   *bolt.Tx
	done bool
}

func (tx *Tx) bucket(family string) (*bolt.Bucket, error) {
	if tx.done {
		return nil, dialect.ErrTxDone
	}
	b := tx.tx.Bucket([]byte(family))
	if b == nil {
		return nil, dialect.FamilyError(family)
	}
	return b, nil
}

// Get returns a copy of the value stored under key.
func (tx *Tx) Get(family string, key []byte) ([]byte, error) {
	b, err := tx.bucket(family)
	if err != nil {
		return nil, err
	}
	v := b.Get(key)
	if v == nil {
		return nil, fmt.Errorf("%w: %s/%s", dialect.ErrKeyNotFound, family, key)
	}
	return bytes.Clone(v), nil
}

// Put stores value under key.
func (tx *Tx) Put(family string, key, value []byte) error {
	if !tx.tx.Writable() {
		return dialect.ErrReadOnly
	}
	b, err := tx.bucket(family)
	if err != nil {
		return err
	}
	// bbolt keeps a reference to value until commit.
	if err := b.Put(key, bytes.Clone(value)); err != nil {
		return fmt.Errorf("boltkv: put %s/%s: %w", family, key, err)
	}
	return nil
}

// Delete removes key.
func (tx *Tx) Delete(family string, key []byte) error {
	if !tx.tx.Writable() {
		return dialect.ErrReadOnly
	}
	b, err := tx.bucket(family)
	if err != nil {
		return err
	}
	if err := b.Delete(key); err != nil {
		return fmt.Errorf("boltkv: delete %s/%s: %w", family, key, err)
	}
	return nil
}

// ForEach iterates the bucket in key order.
func (tx *Tx) ForEach(family string, fn func(key, value []byte) error) error {
	b, err := tx.bucket(family)
	if err != nil {
		return err
	}
	err = b.ForEach(fn)
	if errors.Is(err, dialect.ErrStop) {
		return nil
	}
	return err
}

// Commit commits a writable transaction. Committing a read-only transaction releases it.
func (tx *Tx) Commit() error {
	if tx.done {
		return dialect.ErrTxDone
	}
	tx.done = true
	if !tx.tx.Writable() {
		return tx.tx.Rollback()
	}
	if err := tx.tx.Commit(); err != nil {
		return fmt.Errorf("boltkv: commit: %w", err)
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

var (
	_ dialect.Driver = (*Driver)(nil)
	_ dialect.Tx     = (*Tx)(nil)
)
