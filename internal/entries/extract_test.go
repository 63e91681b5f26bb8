package entries

import (
	"testing"

	"github.com/ohler55/ojg/oj"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	doc, err := oj.ParseString(`{"store":{"book":[{"client":"A"},{"client":"B"}],"open":true}}`)
	require.NoError(t, err)

	t.Run("single match", func(t *testing.T) {
		got, matched, err := Extract(doc, "$.store.book[0].client")
		require.NoError(t, err)
		require.True(t, matched)
		assert.Equal(t, "A", got)
	})

	t.Run("empty path is the identity", func(t *testing.T) {
		got, matched, err := Extract(doc, "")
		require.NoError(t, err)
		require.True(t, matched)
		assert.Equal(t, doc, got)
	})

	t.Run("wildcard collapses to a list", func(t *testing.T) {
		got, matched, err := Extract(doc, "$.store.book[*].client")
		require.NoError(t, err)
		require.True(t, matched)
		assert.Equal(t, []any{"A", "B"}, got)
	})

	t.Run("zero matches is not an error", func(t *testing.T) {
		got, matched, err := Extract(doc, "$.store.magazine")
		require.NoError(t, err)
		assert.False(t, matched)
		assert.Nil(t, got)
	})

	t.Run("malformed expression errors", func(t *testing.T) {
		_, _, err := Extract(doc, "$.store.book[")
		assert.Error(t, err)
	})
}
