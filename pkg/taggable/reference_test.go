package taggable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatten(t *testing.T) {
	t.Run("flat list preserved in order", func(t *testing.T) {
		flat, err := flatten([]Reference{Name("a"), ID(2), Name("c")})
		require.NoError(t, err)
		assert.Equal(t, []Reference{Name("a"), ID(2), Name("c")}, flat)
	})

	t.Run("nested groups flatten recursively", func(t *testing.T) {
		refs := []Reference{
			Name("a"),
			Many{Name("b"), Many{ID(3), Name("d")}},
			Name("e"),
		}

		flat, err := flatten(refs)
		require.NoError(t, err)
		assert.Equal(t, []Reference{Name("a"), Name("b"), ID(3), Name("d"), Name("e")}, flat)
	})

	t.Run("nil reference fails", func(t *testing.T) {
		_, err := flatten([]Reference{Name("a"), nil})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidReference)
	})

	t.Run("nil tag record fails", func(t *testing.T) {
		_, err := flatten([]Reference{ByTag(nil)})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidReference)
	})

	t.Run("tag record passes through", func(t *testing.T) {
		tag := &Tag{ID: int64(1), Slug: "go"}
		flat, err := flatten([]Reference{ByTag(tag)})
		require.NoError(t, err)
		require.Len(t, flat, 1)
		assert.Same(t, tag, flat[0].(tagRecord).tag)
	})
}

func TestReferenceHelpers(t *testing.T) {
	t.Run("Names", func(t *testing.T) {
		assert.Equal(t, Many{Name("go"), Name("rust")}, Names("go", "rust"))
	})

	t.Run("Refs", func(t *testing.T) {
		assert.Equal(t, Many{Name("go"), ID(2)}, Refs(Name("go"), ID(2)))
	})
}
