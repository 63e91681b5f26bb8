package entries

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTree(t *testing.T) {
	t.Run("keeps insertion order", func(t *testing.T) {
		tree := NewTree()
		tree.Add("e3", "c")
		tree.Add("e1", "a")
		tree.Add("e2", "b")

		assert.Equal(t, []string{"e3", "e1", "e2"}, tree.IDs())
	})

	t.Run("replace only touches existing ids", func(t *testing.T) {
		tree := NewTree()
		tree.Add("e1", "a")

		assert.True(t, tree.Replace("e1", "b"))
		assert.False(t, tree.Replace("missing", "x"))
		assert.Equal(t, 1, tree.Len())

		v, ok := tree.Get("e1")
		require.True(t, ok)
		assert.Equal(t, "b", v)
	})

	t.Run("remove reports existence", func(t *testing.T) {
		tree := NewTree()
		tree.Add("e1", "a")

		assert.True(t, tree.Remove("e1"))
		assert.False(t, tree.Remove("e1"))
	})

	t.Run("clone is independent", func(t *testing.T) {
		tree := treeOf(t, `{"Budget":{"value":1}}`)
		clone, err := tree.Clone()
		require.NoError(t, err)

		clone.Add("extra", "x")
		assert.Equal(t, 1, tree.Len())
		assert.Equal(t, 2, clone.Len())
	})

	t.Run("json round trip preserves order", func(t *testing.T) {
		raw := `{"b-entry":{"Budget":1},"a-entry":{"Ads":2}}`
		tree := NewTree()
		require.NoError(t, tree.UnmarshalJSON([]byte(raw)))

		out, err := tree.MarshalJSON()
		require.NoError(t, err)
		assert.Equal(t, raw, string(out))
	})

	t.Run("rejects non-object documents", func(t *testing.T) {
		tree := NewTree()
		assert.Error(t, tree.UnmarshalJSON([]byte(`[1,2]`)))
	})
}
