// Package badgerkv implements dialect.Driver on top of BadgerDB v4.
//
// Badger has no native column families, so every family is a key prefix. Entries live
// under "f\x00<family>\x00<key>" and the set of families is kept in a registry of
// "m\x00<family>" keys. Transactions use Badger's serializable snapshot isolation: a
// write transaction whose reads were invalidated by a concurrent commit fails with
// dialect.ErrConflict.
package badgerkv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/syssam/icegraph/dialect"
)

const (
	dataTag     = 'f'
	registryTag = 'm'
	sep         = 0
)

// Options configures the Badger store.
type Options struct {
	// Dir is the directory for Badger data files. Required unless InMemory is set.
	Dir string

	// InMemory runs Badger without disk persistence. Useful for tests.
	InMemory bool

	// Logger receives Badger's warnings and errors. If nil, they go to slog.Default().
	Logger *slog.Logger

	// SyncWrites makes every commit wait for an fsync.
	SyncWrites bool
}

// Driver is a dialect.Driver backed by BadgerDB.
type Driver struct {
	db         *badger.DB
	dropPrefix func(prefixes ...[]byte) error
}

// Open opens (or creates) a Badger store and makes sure the default family exists.
func Open(opts Options) (*Driver, error) {
	if !opts.InMemory && opts.Dir == "" {
		return nil, errors.New("badgerkv: Options.Dir is required for on-disk mode")
	}
	dbOpts := badger.DefaultOptions(opts.Dir)
	if opts.InMemory {
		dbOpts = dbOpts.WithDir("").WithValueDir("").WithInMemory(true)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	dbOpts = dbOpts.WithLogger(slogLogger{logger.With("dialect", dialect.Badger)}).
		WithSyncWrites(opts.SyncWrites)
	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, fmt.Errorf("badgerkv: open %q: %w", opts.Dir, err)
	}
	d := &Driver{db: db, dropPrefix: db.DropPrefix}
	if err := d.CreateFamily(context.Background(), dialect.DefaultFamily); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// OpenPath opens an on-disk store in dir. It has the dialect.Opener signature.
func OpenPath(dir string) (dialect.Driver, error) {
	return Open(Options{Dir: dir})
}

// DB returns the underlying Badger handle.
func (d *Driver) DB() *badger.DB { return d.db }

// Dialect returns dialect.Badger.
func (d *Driver) Dialect() string { return dialect.Badger }

// Close closes the store.
func (d *Driver) Close() error { return d.db.Close() }

// Families lists the registered families in name order.
func (d *Driver) Families(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	prefix := []byte{registryTag, sep}
	var names []string
	err := d.db.View(func(txn *badger.Txn) error {
		iterOpts := badger.DefaultIteratorOptions
		iterOpts.PrefetchValues = false
		iterOpts.Prefix = prefix
		it := txn.NewIterator(iterOpts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			names = append(names, string(it.Item().Key()[len(prefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("badgerkv: list families: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// CreateFamily registers the family. Registering an existing family is a no-op.
func (d *Driver) CreateFamily(ctx context.Context, name string) error {
	if err := dialect.ValidateFamily(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	exists := false
	err := d.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(registryKey(name))
		if err == nil {
			exists = true
			return nil
		}
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("badgerkv: create family %q: %w", name, err)
	}
	if exists {
		return nil
	}
	// Blind write: without a read it cannot conflict with a concurrent create of the same family.
	err = d.db.Update(func(txn *badger.Txn) error {
		return txn.Set(registryKey(name), nil)
	})
	if err != nil {
		return fmt.Errorf("badgerkv: create family %q: %w", name, err)
	}
	return nil
}

// DropFamily deletes all entries of the family, then removes it from the registry. If
// deleting the entries fails the family stays registered, so the drop can be retried.
func (d *Driver) DropFamily(ctx context.Context, name string) error {
	if name == dialect.DefaultFamily {
		return fmt.Errorf("%w: %s", dialect.ErrReservedFamily, name)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	err := d.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(registryKey(name))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return dialect.FamilyError(name)
		}
		return err
	})
	if err != nil {
		if errors.Is(err, dialect.ErrFamilyNotFound) {
			return err
		}
		return fmt.Errorf("badgerkv: drop family %q: %w", name, err)
	}
	if err := d.dropPrefix(familyPrefix(name)); err != nil {
		return fmt.Errorf("badgerkv: drop family %q: %w", name, err)
	}
	err = d.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(registryKey(name))
	})
	if err != nil {
		return fmt.Errorf("badgerkv: drop family %q: %w", name, err)
	}
	return nil
}

// Tx starts a transaction.
func (d *Driver) Tx(ctx context.Context, writable bool) (dialect.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Tx{
		txn:      d.db.NewTransaction(writable),
		writable: writable,
		families: make(map[string]bool),
	}, nil
}

// Tx is a Badger transaction.
type Tx struct {
	txn      *badger.Txn
	writable bool
	done     bool
	// families caches registry lookups made by this transaction.
	families map[string]bool
}

// checkFamily reads the registry key through the transaction, which puts it in the read
// set: a family dropped by a concurrent commit makes this transaction conflict.
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
	_, err := tx.txn.Get(registryKey(name))
	switch {
	case err == nil:
		tx.families[name] = true
		return nil
	case errors.Is(err, badger.ErrKeyNotFound):
		tx.families[name] = false
		return dialect.FamilyError(name)
	default:
		return fmt.Errorf("badgerkv: family %q: %w", name, err)
	}
}

// Get returns a copy of the value stored under key.
func (tx *Tx) Get(family string, key []byte) ([]byte, error) {
	if err := tx.checkFamily(family); err != nil {
		return nil, err
	}
	item, err := tx.txn.Get(dataKey(family, key))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: %s/%s", dialect.ErrKeyNotFound, family, key)
		}
		return nil, fmt.Errorf("badgerkv: get %s/%s: %w", family, key, err)
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return nil, fmt.Errorf("badgerkv: get %s/%s: %w", family, key, err)
	}
	return val, nil
}

// Put stores value under key.
func (tx *Tx) Put(family string, key, value []byte) error {
	if !tx.writable {
		return dialect.ErrReadOnly
	}
	if err := tx.checkFamily(family); err != nil {
		return err
	}
	if err := tx.txn.Set(dataKey(family, key), bytes.Clone(value)); err != nil {
		return fmt.Errorf("badgerkv: put %s/%s: %w", family, key, err)
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
	if err := tx.txn.Delete(dataKey(family, key)); err != nil {
		return fmt.Errorf("badgerkv: delete %s/%s: %w", family, key, err)
	}
	return nil
}

// ForEach iterates the family in key order.
func (tx *Tx) ForEach(family string, fn func(key, value []byte) error) error {
	if err := tx.checkFamily(family); err != nil {
		return err
	}
	prefix := familyPrefix(family)
	iterOpts := badger.DefaultIteratorOptions
	iterOpts.Prefix = prefix
	it := tx.txn.NewIterator(iterOpts)
	defer it.Close()
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		item := it.Item()
		err := item.Value(func(val []byte) error {
			return fn(item.Key()[len(prefix):], val)
		})
		if errors.Is(err, dialect.ErrStop) {
			return nil
		}
		if err != nil {
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
		tx.txn.Discard()
		return nil
	}
	if err := tx.txn.Commit(); err != nil {
		if errors.Is(err, badger.ErrConflict) {
			return fmt.Errorf("badgerkv: %w: %w", dialect.ErrConflict, err)
		}
		return fmt.Errorf("badgerkv: commit: %w", err)
	}
	return nil
}

// Rollback discards the transaction. It is a no-op after Commit.
func (tx *Tx) Rollback() error {
	tx.done = true
	tx.txn.Discard()
	return nil
}

func registryKey(family string) []byte {
	k := make([]byte, 0, 2+len(family))
	k = append(k, registryTag, sep)
	return append(k, family...)
}

func familyPrefix(family string) []byte {
	k := make([]byte, 0, 3+len(family))
	k = append(k, dataTag, sep)
	k = append(k, family...)
	return append(k, sep)
}

func dataKey(family string, key []byte) []byte {
	return append(familyPrefix(family), key...)
}

// slogLogger adapts slog to badger.Logger. Info and debug messages are dropped.
type slogLogger struct {
	l *slog.Logger
}

func (s slogLogger) Errorf(f string, v ...any)   { s.l.Error(fmt.Sprintf(f, v...)) }
func (s slogLogger) Warningf(f string, v ...any) { s.l.Warn(fmt.Sprintf(f, v...)) }
func (slogLogger) Infof(string, ...any)          {}
func (slogLogger) Debugf(string, ...any)         {}

var (
	_ dialect.Driver = (*Driver)(nil)
	_ dialect.Tx     = (*Tx)(nil)
)
