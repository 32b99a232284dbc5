// Package dialect provides the store abstraction the icegraph engine runs on.
//
// A store is an embedded, transactional key-value database partitioned into named
// families. Every kind of a generated graph is kept in its own family, and the reserved
// family "default" always exists.
//
// # Supported Dialects
//
//   - Badger: github.com/dgraph-io/badger/v4, families emulated with key prefixes
//   - Bolt: go.etcd.io/bbolt, families are buckets
//   - SQLite: modernc.org/sqlite, families are tables
//
// Each dialect is identified by a constant string:
//
//	dialect.Badger = "badger"
//	dialect.Bolt   = "bolt"
//	dialect.SQLite = "sqlite"
//
// # Driver Interface
//
//	type Driver interface {
//	    Families(ctx context.Context) ([]string, error)
//	    CreateFamily(ctx context.Context, name string) error
//	    DropFamily(ctx context.Context, name string) error
//	    Tx(ctx context.Context, writable bool) (Tx, error)
//	    Close() error
//	    Dialect() string
//	}
//
// # Transaction Interface
//
//	type Tx interface {
//	    Get(family string, key []byte) ([]byte, error)
//	    Put(family string, key, value []byte) error
//	    Delete(family string, key []byte) error
//	    ForEach(family string, fn func(key, value []byte) error) error
//	    Commit() error
//	    Rollback() error
//	}
//
// Writes made through a Tx become visible to other transactions only after Commit.
// Rollback after Commit is a no-op, so the usual pattern is:
//
//	tx, err := drv.Tx(ctx, true)
//	if err != nil {
//	    return err
//	}
//	defer tx.Rollback()
//	if err := tx.Put("Person", key, value); err != nil {
//	    return err
//	}
//	return tx.Commit()
//
// # Sub-packages
//
//   - dialect/badgerkv: Badger driver (default)
//   - dialect/boltkv: Bolt driver
//   - dialect/sqlitekv: SQLite driver
//   - dialect/dialecttest: conformance suite shared by the drivers' tests
package dialect
