package taggable

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithTransaction(t *testing.T) {
	ctx := context.Background()
	article := &testArticle{ID: 7}

	t.Run("commits when fn succeeds", func(t *testing.T) {
		engine, mock := newTestEngine(t)

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM taggables`).
			WithArgs("articles", int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := engine.WithTransaction(ctx, func(tx *Engine) error {
			return tx.Detach(ctx, article)
		})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when fn fails", func(t *testing.T) {
		engine, mock := newTestEngine(t)

		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("boom")
		err := engine.WithTransaction(ctx, func(tx *Engine) error {
			return boom
		})
		require.ErrorIs(t, err, boom)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nested transactions reuse the outer one", func(t *testing.T) {
		engine, mock := newTestEngine(t)

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM taggables`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		err := engine.WithTransaction(ctx, func(outer *Engine) error {
			assert.True(t, outer.IsTransaction())
			return outer.WithTransaction(ctx, func(inner *Engine) error {
				return inner.Detach(ctx, article)
			})
		})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back and re-panics on panic", func(t *testing.T) {
		engine, mock := newTestEngine(t)

		mock.ExpectBegin()
		mock.ExpectRollback()

		assert.Panics(t, func() {
			_ = engine.WithTransaction(ctx, func(tx *Engine) error {
				panic("boom")
			})
		})
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin failure surfaces", func(t *testing.T) {
		engine, mock := newTestEngine(t)

		mock.ExpectBegin().WillReturnError(errors.New("connection gone"))

		err := engine.WithTransaction(ctx, func(tx *Engine) error {
			t.Fatal("fn must not run")
			return nil
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to begin transaction")
	})
}

func TestTransactionOptions(t *testing.T) {
	t.Run("nil options convert to nil", func(t *testing.T) {
		var opts *TransactionOptions
		assert.Nil(t, opts.ToTxOptions())
	})

	t.Run("defaults", func(t *testing.T) {
		opts := DefaultTransactionOptions()
		txOpts := opts.ToTxOptions()
		require.NotNil(t, txOpts)
		assert.Equal(t, sql.LevelDefault, txOpts.Isolation)
		assert.False(t, txOpts.ReadOnly)
	})

	t.Run("explicit isolation carried over", func(t *testing.T) {
		ctx := context.Background()
		engine, mock := newTestEngine(t)

		mock.ExpectBegin()
		mock.ExpectCommit()

		opts := &TransactionOptions{Isolation: sql.LevelSerializable, ReadOnly: true}
		err := engine.WithTransactionOptions(ctx, opts, func(tx *Engine) error {
			return nil
		})
		require.NoError(t, err)
	})
}

func TestIsTransaction(t *testing.T) {
	engine, _ := newTestEngine(t)
	assert.False(t, engine.IsTransaction())
}
