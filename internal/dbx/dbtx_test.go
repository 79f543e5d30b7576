package dbx

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

const insertKey = `INSERT INTO metadata (key, value) VALUES (?, ?)`

func sqliteDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE metadata (key TEXT PRIMARY KEY, value BLOB)`)
	require.NoError(t, err)
	return db
}

func keys(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM metadata`).Scan(&n))
	return n
}

func TestInTx_Commit(t *testing.T) {
	db := sqliteDB(t)

	err := InTx(context.Background(), db, func(tx DBTX) error {
		for _, k := range []string{"token", "userData"} {
			if _, err := tx.ExecContext(context.Background(), insertKey, k, []byte("v")); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, keys(t, db))
}

func TestInTx_RollbackKeepsNothing(t *testing.T) {
	db := sqliteDB(t)
	boom := errors.New("boom")

	err := InTx(context.Background(), db, func(tx DBTX) error {
		_, err := tx.ExecContext(context.Background(), insertKey, "token", []byte("v"))
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, keys(t, db))
}

func TestInTx_PanicRollsBack(t *testing.T) {
	db := sqliteDB(t)

	assert.Panics(t, func() {
		_ = InTx(context.Background(), db, func(tx DBTX) error {
			_, err := tx.ExecContext(context.Background(), insertKey, "token", []byte("v"))
			require.NoError(t, err)
			panic("kaput")
		})
	})
	assert.Equal(t, 0, keys(t, db))
}

func TestInTx_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("begin", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectBegin().WillReturnError(errors.New("locked"))

		err = InTx(ctx, db, func(DBTX) error { return nil })
		assert.ErrorContains(t, err, "begin tx")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("commit", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectBegin()
		mock.ExpectCommit().WillReturnError(errors.New("disk I/O error"))

		err = InTx(ctx, db, func(DBTX) error { return nil })
		assert.ErrorContains(t, err, "commit")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rollback", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		boom := errors.New("boom")
		mock.ExpectBegin()
		mock.ExpectRollback().WillReturnError(errors.New("conn closed"))

		err = InTx(ctx, db, func(DBTX) error { return boom })
		assert.ErrorIs(t, err, boom)
		assert.ErrorContains(t, err, "rollback: conn closed")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
