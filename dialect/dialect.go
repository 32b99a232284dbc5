package dialect

import (
	"context"
	"errors"
	"fmt"
)

// Dialect names.
const (
	Badger = "badger"
	Bolt   = "bolt"
	SQLite = "sqlite"
)

// DefaultFamily is the reserved family every store has. It is never dropped.
const DefaultFamily = "default"

// Sentinel errors reported by drivers. Drivers wrap them with context, so callers
// match with errors.Is.
var (
	// ErrFamilyNotFound is returned when a transaction touches a family that does not exist.
	ErrFamilyNotFound = errors.New("dialect: family not found")
	// ErrKeyNotFound is returned by Tx.Get for an absent key.
	ErrKeyNotFound = errors.New("dialect: key not found")
	// ErrConflict is returned by Tx.Commit when a concurrent transaction won.
	ErrConflict = errors.New("dialect: transaction conflict")
	// ErrReadOnly is returned when writing through a read-only transaction.
	ErrReadOnly = errors.New("dialect: read-only transaction")
	// ErrTxDone is returned when using a transaction after Commit or Rollback.
	ErrTxDone = errors.New("dialect: transaction already committed or rolled back")
	// ErrReservedFamily is returned when dropping the default family.
	ErrReservedFamily = errors.New("dialect: family is reserved")
	// ErrInvalidFamily is returned for a family name the store cannot hold.
	ErrInvalidFamily = errors.New("dialect: invalid family name")
)

// Driver is the interface a store backend implements.
// It is safe for concurrent use by multiple goroutines.
type Driver interface {
	// Families lists every family, sorted by name, including DefaultFamily.
	Families(ctx context.Context) ([]string, error)
	// CreateFamily creates the family if it does not exist yet.
	CreateFamily(ctx context.Context, name string) error
	// DropFamily removes the family and all its entries. Dropping an absent family
	// returns ErrFamilyNotFound.
	DropFamily(ctx context.Context, name string) error
	// Tx starts a transaction.
	Tx(ctx context.Context, writable bool) (Tx, error)
	// Close closes the store.
	Close() error
	// Dialect returns the dialect name.
	Dialect() string
}

// Tx is a store transaction. A Tx must not be used from multiple goroutines.
type Tx interface {
	// Get returns a copy of the value stored under key, or ErrKeyNotFound.
	Get(family string, key []byte) ([]byte, error)
	// Put stores value under key.
	Put(family string, key, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(family string, key []byte) error
	// ForEach calls fn for every entry of the family in ascending key order. Key and value
	// are only valid during the call. Returning ErrStop from fn ends iteration without error.
	ForEach(family string, fn func(key, value []byte) error) error
	Commit() error
	Rollback() error
}

// ErrStop can be returned from a ForEach callback to stop iteration early.
var ErrStop = errors.New("dialect: stop iteration")

// ValidateFamily checks that name can be used as a family.
func ValidateFamily(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty", ErrInvalidFamily)
	}
	for i := 0; i < len(name); i++ {
		if name[i] == 0 {
			return fmt.Errorf("%w: %q contains NUL", ErrInvalidFamily, name)
		}
	}
	return nil
}

// FamilyError wraps ErrFamilyNotFound with the family name.
func FamilyError(name string) error {
	return fmt.Errorf("%w: %s", ErrFamilyNotFound, name)
}

// Opener opens a driver at path.
type Opener func(path string) (Driver, error)

// View runs fn in a read-only transaction.
func View(ctx context.Context, drv Driver, fn func(Tx) error) error {
	tx, err := drv.Tx(ctx, false)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	return fn(tx)
}

// Update runs fn in a writable transaction and commits it if fn returns nil.
func Update(ctx context.Context, drv Driver, fn func(Tx) error) error {
	tx, err := drv.Tx(ctx, true)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			err = fmt.Errorf("%w: rolling back transaction: %v", err, rerr)
		}
		return err
	}
	return tx.Commit()
}
