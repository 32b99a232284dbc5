// Package dialecttest holds the conformance suite every dialect.Driver must pass.
package dialecttest

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/icegraph/dialect"
)

// Run runs the conformance suite. Each subtest opens a fresh store below t.TempDir()
// and the suite closes every driver it gets from open.
func Run(t *testing.T, open dialect.Opener) {
	newDriver := func(t *testing.T) (dialect.Driver, string) {
		t.Helper()
		path := filepath.Join(t.TempDir(), "store")
		drv, err := open(path)
		require.NoError(t, err)
		t.Cleanup(func() { drv.Close() })
		return drv, path
	}
	ctx := context.Background()

	t.Run("DefaultFamily", func(t *testing.T) {
		drv, _ := newDriver(t)
		families, err := drv.Families(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{dialect.DefaultFamily}, families)
	})

	t.Run("CreateFamily", func(t *testing.T) {
		drv, _ := newDriver(t)
		require.NoError(t, drv.CreateFamily(ctx, "Person"))
		require.NoError(t, drv.CreateFamily(ctx, "Company"))
		require.NoError(t, drv.CreateFamily(ctx, "Person"), "create is idempotent")

		families, err := drv.Families(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Company", "Person", dialect.DefaultFamily}, families)

		assert.ErrorIs(t, drv.CreateFamily(ctx, ""), dialect.ErrInvalidFamily)
	})

	t.Run("PutGetDelete", func(t *testing.T) {
		drv, _ := newDriver(t)
		require.NoError(t, drv.CreateFamily(ctx, "Person"))

		err := dialect.Update(ctx, drv, func(tx dialect.Tx) error {
			return tx.Put("Person", []byte("Person:1"), []byte("alice"))
		})
		require.NoError(t, err)

		err = dialect.View(ctx, drv, func(tx dialect.Tx) error {
			v, err := tx.Get("Person", []byte("Person:1"))
			require.NoError(t, err)
			assert.Equal(t, []byte("alice"), v)

			_, err = tx.Get("Person", []byte("Person:2"))
			assert.ErrorIs(t, err, dialect.ErrKeyNotFound)
			return nil
		})
		require.NoError(t, err)

		err = dialect.Update(ctx, drv, func(tx dialect.Tx) error {
			if err := tx.Put("Person", []byte("Person:1"), []byte("alice2")); err != nil {
				return err
			}
			v, err := tx.Get("Person", []byte("Person:1"))
			require.NoError(t, err)
			assert.Equal(t, []byte("alice2"), v, "writes are visible inside their transaction")
			return nil
		})
		require.NoError(t, err)

		err = dialect.Update(ctx, drv, func(tx dialect.Tx) error {
			if err := tx.Delete("Person", []byte("Person:1")); err != nil {
				return err
			}
			return tx.Delete("Person", []byte("Person:404"))
		})
		require.NoError(t, err)

		err = dialect.View(ctx, drv, func(tx dialect.Tx) error {
			_, err := tx.Get("Person", []byte("Person:1"))
			return err
		})
		assert.ErrorIs(t, err, dialect.ErrKeyNotFound)
	})

	t.Run("MissingFamily", func(t *testing.T) {
		drv, _ := newDriver(t)
		tx, err := drv.Tx(ctx, true)
		require.NoError(t, err)
		defer tx.Rollback()

		_, err = tx.Get("Nope", []byte("Nope:1"))
		assert.ErrorIs(t, err, dialect.ErrFamilyNotFound)
		assert.ErrorIs(t, tx.Put("Nope", []byte("Nope:1"), []byte("x")), dialect.ErrFamilyNotFound)
		assert.ErrorIs(t, tx.Delete("Nope", []byte("Nope:1")), dialect.ErrFamilyNotFound)
		assert.ErrorIs(t, tx.ForEach("Nope", func(_, _ []byte) error { return nil }), dialect.ErrFamilyNotFound)
	})

	t.Run("Rollback", func(t *testing.T) {
		drv, _ := newDriver(t)
		require.NoError(t, drv.CreateFamily(ctx, "Person"))

		boom := errors.New("boom")
		err := dialect.Update(ctx, drv, func(tx dialect.Tx) error {
			require.NoError(t, tx.Put("Person", []byte("Person:1"), []byte("alice")))
			return boom
		})
		require.ErrorIs(t, err, boom)

		err = dialect.View(ctx, drv, func(tx dialect.Tx) error {
			_, err := tx.Get("Person", []byte("Person:1"))
			return err
		})
		assert.ErrorIs(t, err, dialect.ErrKeyNotFound)
	})

	t.Run("ForEach", func(t *testing.T) {
		drv, _ := newDriver(t)
		require.NoError(t, drv.CreateFamily(ctx, "Person"))
		require.NoError(t, drv.CreateFamily(ctx, "PersonX"))

		err := dialect.Update(ctx, drv, func(tx dialect.Tx) error {
			for _, k := range []string{"Person:c", "Person:a", "Person:b"} {
				if err := tx.Put("Person", []byte(k), []byte(k)); err != nil {
					return err
				}
			}
			return tx.Put("PersonX", []byte("PersonX:a"), []byte("x"))
		})
		require.NoError(t, err)

		var keys []string
		err = dialect.View(ctx, drv, func(tx dialect.Tx) error {
			return tx.ForEach("Person", func(k, v []byte) error {
				assert.Equal(t, k, v)
				keys = append(keys, string(k))
				return nil
			})
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"Person:a", "Person:b", "Person:c"}, keys)

		keys = nil
		err = dialect.View(ctx, drv, func(tx dialect.Tx) error {
			return tx.ForEach("Person", func(k, _ []byte) error {
				keys = append(keys, string(k))
				return dialect.ErrStop
			})
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"Person:a"}, keys)
	})

	t.Run("DropFamily", func(t *testing.T) {
		drv, _ := newDriver(t)
		require.NoError(t, drv.CreateFamily(ctx, "Person"))
		err := dialect.Update(ctx, drv, func(tx dialect.Tx) error {
			return tx.Put("Person", []byte("Person:1"), []byte("alice"))
		})
		require.NoError(t, err)

		require.NoError(t, drv.DropFamily(ctx, "Person"))
		families, err := drv.Families(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{dialect.DefaultFamily}, families)

		assert.ErrorIs(t, drv.DropFamily(ctx, "Person"), dialect.ErrFamilyNotFound)
		assert.ErrorIs(t, drv.DropFamily(ctx, dialect.DefaultFamily), dialect.ErrReservedFamily)

		require.NoError(t, drv.CreateFamily(ctx, "Person"))
		n := 0
		err = dialect.View(ctx, drv, func(tx dialect.Tx) error {
			return tx.ForEach("Person", func(_, _ []byte) error {
				n++
				return nil
			})
		})
		require.NoError(t, err)
		assert.Zero(t, n, "a recreated family starts empty")
	})

	t.Run("ReadOnly", func(t *testing.T) {
		drv, _ := newDriver(t)
		tx, err := drv.Tx(ctx, false)
		require.NoError(t, err)
		defer tx.Rollback()
		assert.ErrorIs(t, tx.Put(dialect.DefaultFamily, []byte("k"), []byte("v")), dialect.ErrReadOnly)
		assert.ErrorIs(t, tx.Delete(dialect.DefaultFamily, []byte("k")), dialect.ErrReadOnly)
	})

	t.Run("TxDone", func(t *testing.T) {
		drv, _ := newDriver(t)
		tx, err := drv.Tx(ctx, true)
		require.NoError(t, err)
		require.NoError(t, tx.Commit())
		assert.ErrorIs(t, tx.Commit(), dialect.ErrTxDone)
		assert.NoError(t, tx.Rollback())
		_, err = tx.Get(dialect.DefaultFamily, []byte("k"))
		assert.ErrorIs(t, err, dialect.ErrTxDone)
	})

	t.Run("Reopen", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "store")
		drv, err := open(path)
		require.NoError(t, err)
		require.NoError(t, drv.CreateFamily(ctx, "Person"))
		err = dialect.Update(ctx, drv, func(tx dialect.Tx) error {
			return tx.Put("Person", []byte("Person:1"), []byte("alice"))
		})
		require.NoError(t, err)
		require.NoError(t, drv.Close())

		drv, err = open(path)
		require.NoError(t, err)
		defer drv.Close()

		families, err := drv.Families(ctx)
		require.NoError(t, err)
		assert.Contains(t, families, "Person")
		err = dialect.View(ctx, drv, func(tx dialect.Tx) error {
			v, err := tx.Get("Person", []byte("Person:1"))
			require.NoError(t, err)
			assert.Equal(t, []byte("alice"), v)
			return nil
		})
		require.NoError(t, err)
	})
}
