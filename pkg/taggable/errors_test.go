package taggable

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSQLError(t *testing.T) {
	t.Run("nil passes through", func(t *testing.T) {
		assert.NoError(t, parseSQLError(nil, "findTag", "tags"))
	})

	t.Run("no rows becomes ErrNotFound", func(t *testing.T) {
		err := parseSQLError(sql.ErrNoRows, "findTag", "tags")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNotFound)

		var tagErr *Error
		require.ErrorAs(t, err, &tagErr)
		assert.Equal(t, "findTag", tagErr.Op)
		assert.Equal(t, "tags", tagErr.Table)
	})

	t.Run("sqlstate 23505 becomes ErrDuplicateKey", func(t *testing.T) {
		pqErr := &pq.Error{Code: "23505", Constraint: "tags_slug_key"}

		err := parseSQLError(pqErr, "createTag", "tags")
		require.Error(t, err)
		assert.True(t, IsDuplicateKey(err))
		assert.Equal(t, "tags_slug_key", GetConstraintName(err))
	})

	t.Run("other sqlstates wrap without classification", func(t *testing.T) {
		pqErr := &pq.Error{Code: "23503", Constraint: "taggables_tag_id_fkey"}

		err := parseSQLError(pqErr, "createAssociation", "taggables")
		require.Error(t, err)
		assert.False(t, IsDuplicateKey(err))
		assert.ErrorIs(t, err, pqErr)
	})

	t.Run("message text fallback classifies duplicates", func(t *testing.T) {
		raw := errors.New(`pq: duplicate key value violates unique constraint "tags_slug_key"`)

		err := parseSQLError(raw, "createTag", "tags")
		require.Error(t, err)
		assert.True(t, IsDuplicateKey(err))
		assert.Equal(t, "tags_slug_key", GetConstraintName(err))
	})

	t.Run("unknown errors stay reachable via errors.Is", func(t *testing.T) {
		raw := errors.New("connection reset")

		err := parseSQLError(raw, "findTag", "tags")
		require.Error(t, err)
		assert.ErrorIs(t, err, raw)
	})
}

func TestErrorFormatting(t *testing.T) {
	err := &Error{
		Op:         "createTag",
		Table:      "tags",
		Constraint: "tags_slug_key",
		Err:        ErrDuplicateKey,
	}

	msg := err.Error()
	assert.Equal(t, "taggable: createTag: table=tags: constraint=tags_slug_key: duplicate key violation", msg)
}

func TestErrorIs(t *testing.T) {
	err := &Error{Op: "attach", Table: "taggables", Err: ErrTagNotFound}

	t.Run("matches the wrapped sentinel", func(t *testing.T) {
		assert.ErrorIs(t, err, ErrTagNotFound)
		assert.NotErrorIs(t, err, ErrDuplicateKey)
	})

	t.Run("matches another Error by op", func(t *testing.T) {
		assert.ErrorIs(t, err, &Error{Op: "attach"})
	})

	t.Run("unwraps to the sentinel", func(t *testing.T) {
		assert.Equal(t, ErrTagNotFound, errors.Unwrap(err))
	})
}

func TestGetConstraintName(t *testing.T) {
	t.Run("non-taggable errors yield empty", func(t *testing.T) {
		assert.Equal(t, "", GetConstraintName(errors.New("plain")))
	})
}
