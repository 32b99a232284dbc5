package sqlitekv

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/icegraph/dialect"
	"github.com/syssam/icegraph/dialect/dialecttest"
)

func TestConformance(t *testing.T) {
	dialecttest.Run(t, OpenPath)
}

func TestInMemory(t *testing.T) {
	ctx := context.Background()
	drv, err := Open(Options{Path: ":memory:"})
	require.NoError(t, err)
	defer drv.Close()

	require.NoError(t, drv.CreateFamily(ctx, "Person"))
	families, err := drv.Families(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Person", dialect.DefaultFamily}, families)
	assert.ErrorIs(t, drv.CreateFamily(ctx, "sqlite_stat9"), dialect.ErrInvalidFamily)
}

func TestCreateFamilyCaseCollision(t *testing.T) {
	ctx := context.Background()
	drv, err := Open(Options{Path: ":memory:"})
	require.NoError(t, err)
	defer drv.Close()

	require.NoError(t, drv.CreateFamily(ctx, "Person"))
	require.NoError(t, drv.CreateFamily(ctx, "Person"), "creating an existing family is a no-op")
	err = drv.CreateFamily(ctx, "person")
	assert.ErrorIs(t, err, dialect.ErrInvalidFamily)
	assert.Contains(t, err.Error(), `"person" collides with family "Person"`)

	families, err := drv.Families(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Person", dialect.DefaultFamily}, families)
}

func TestQuote(t *testing.T) {
	assert.Equal(t, `"Person"`, quote("Person"))
	assert.Equal(t, `"a""b"`, quote(`a"b`))
	assert.Equal(t, `SELECT v FROM "default" WHERE k = ?`, selectStmt("default"))
}

func newMock(t *testing.T) (*Driver, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectQuery(regexp.QuoteMeta(foldTableQuery)).
		WithArgs(dialect.DefaultFamily).
		WillReturnRows(sqlmock.NewRows([]string{"name"}))
	mock.ExpectExec(regexp.QuoteMeta(createTableStmt(dialect.DefaultFamily))).
		WillReturnResult(sqlmock.NewResult(0, 0))
	drv, err := OpenDB(db)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return drv, mock
}

func TestPutUpsert(t *testing.T) {
	drv, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(hasTableQuery)).
		WithArgs("Person").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta(upsertStmt("Person"))).
		WithArgs([]byte("Person:1"), []byte("alice")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := dialect.Update(context.Background(), drv, func(tx dialect.Tx) error {
		return tx.Put("Person", []byte("Person:1"), []byte("alice"))
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCommitFailure(t *testing.T) {
	drv, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(hasTableQuery)).
		WithArgs("Person").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta(deleteStmt("Person"))).
		WithArgs([]byte("Person:1")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit().WillReturnError(errors.New("database is locked (5) (SQLITE_BUSY)"))

	err := dialect.Update(context.Background(), drv, func(tx dialect.Tx) error {
		return tx.Delete("Person", []byte("Person:1"))
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, dialect.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMissingTable(t *testing.T) {
	drv, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(hasTableQuery)).
		WithArgs("Nope").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectRollback()

	err := dialect.View(context.Background(), drv, func(tx dialect.Tx) error {
		_, err := tx.Get("Nope", []byte("Nope:1"))
		if !errors.Is(err, dialect.ErrFamilyNotFound) {
			return errors.New("expected ErrFamilyNotFound")
		}
		// The lookup is cached for the rest of the transaction.
		_, err = tx.Get("Nope", []byte("Nope:2"))
		return ignore(err, dialect.ErrFamilyNotFound)
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFamiliesQueryError(t *testing.T) {
	drv, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(listTablesQuery)).WillReturnError(errors.New("disk I/O error"))
	_, err := drv.Families(context.Background())
	assert.ErrorContains(t, err, "disk I/O error")
}

func ignore(err, target error) error {
	if errors.Is(err, target) {
		return nil
	}
	return err
}
