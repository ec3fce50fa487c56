package routetree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, pattern string) []Segment {
	t.Helper()
	segs, err := ParsePattern(pattern)
	require.NoError(t, err)
	return segs
}

func TestNodeFanOutExclusion(t *testing.T) {
	t.Parallel()

	t.Run("wildcard after literal children fails", func(t *testing.T) {
		t.Parallel()
		root := &node[string]{}
		require.NoError(t, root.add(mustParse(t, "/users"), "v1"))

		err := root.add(mustParse(t, "/{id}"), "v2")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("literal after wildcard fails", func(t *testing.T) {
		t.Parallel()
		root := &node[string]{}
		require.NoError(t, root.add(mustParse(t, "/{id}"), "v1"))

		err := root.add(mustParse(t, "/users"), "v2")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("failed graft leaves no partial branch", func(t *testing.T) {
		t.Parallel()
		root := &node[string]{}
		require.NoError(t, root.add(mustParse(t, "/a/{id}"), "v1"))

		// The conflict is two levels down; nothing above it may change.
		err := root.add(mustParse(t, "/a/b/c"), "v2")
		require.Error(t, err)

		a := root.children["a"]
		require.NotNil(t, a)
		assert.Empty(t, a.children)
		assert.NotNil(t, a.wildcard)
	})
}

func TestNodeCaptureNames(t *testing.T) {
	t.Parallel()

	t.Run("same wildcard name is shared", func(t *testing.T) {
		t.Parallel()
		root := &node[string]{}
		require.NoError(t, root.add(mustParse(t, "/{id}/a"), "v1"))
		require.NoError(t, root.add(mustParse(t, "/{id}/b"), "v2"))
		assert.Equal(t, "id", root.wildcard.capture)
	})

	t.Run("conflicting wildcard names fail", func(t *testing.T) {
		t.Parallel()
		root := &node[string]{}
		require.NoError(t, root.add(mustParse(t, "/{x}/a"), "v1"))

		err := root.add(mustParse(t, "/{y}/b"), "v2")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("fixed capture adopts plain literal slot", func(t *testing.T) {
		t.Parallel()
		root := &node[string]{}
		require.NoError(t, root.add(mustParse(t, "/en"), "v1"))
		require.NoError(t, root.add(mustParse(t, "/{lang:en}/docs"), "v2"))
		assert.Equal(t, "lang", root.children["en"].capture)
	})

	t.Run("adopted name outlives a failed registration", func(t *testing.T) {
		t.Parallel()
		root := &node[string]{}
		require.NoError(t, root.add(mustParse(t, "/en/docs"), "v1"))

		// The walk adopts "lang" onto the "en" slot before hitting
		// the wildcard-versus-literal conflict one level down.
		err := root.add(mustParse(t, "/{lang:en}/{x}"), "v2")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrConflict)

		// Adoption is monotone: the name sticks even though the
		// failed entry added no structure, so the surviving route
		// now binds it.
		assert.Equal(t, "lang", root.children["en"].capture)
		params := map[string]string{}
		require.NotNil(t, root.match("en", params))
		assert.Equal(t, map[string]string{"lang": "en"}, params)
	})

	t.Run("conflicting fixed capture names fail", func(t *testing.T) {
		t.Parallel()
		root := &node[string]{}
		require.NoError(t, root.add(mustParse(t, "/{lang:en}"), "v1"))

		err := root.add(mustParse(t, "/{language:en}/docs"), "v2")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrConflict)
	})
}

func TestNodeMatch(t *testing.T) {
	t.Parallel()

	root := &node[string]{}
	require.NoError(t, root.add(mustParse(t, "/users/{id}"), "user"))
	require.NoError(t, root.add(mustParse(t, "/files/"), "index"))

	t.Run("literal wins before wildcard", func(t *testing.T) {
		t.Parallel()
		params := map[string]string{}
		n := root.match("users", params)
		require.NotNil(t, n)
		assert.Empty(t, params)
	})

	t.Run("wildcard binds parameter", func(t *testing.T) {
		t.Parallel()
		users := root.children["users"]
		params := map[string]string{}
		n := users.match("42", params)
		require.NotNil(t, n)
		assert.Equal(t, map[string]string{"id": "42"}, params)
	})

	t.Run("empty segment never matches wildcard", func(t *testing.T) {
		t.Parallel()
		users := root.children["users"]
		params := map[string]string{}
		assert.Nil(t, users.match("", params))
		assert.Empty(t, params)
	})

	t.Run("empty segment matches empty literal entry", func(t *testing.T) {
		t.Parallel()
		files := root.children["files"]
		params := map[string]string{}
		n := files.match("", params)
		require.NotNil(t, n)
		require.NotNil(t, n.value)
		assert.Equal(t, "index", *n.value)
	})
}

func TestNodeKeys(t *testing.T) {
	t.Parallel()

	t.Run("sorted literal keys", func(t *testing.T) {
		t.Parallel()
		root := &node[string]{}
		require.NoError(t, root.add(mustParse(t, "/c"), "1"))
		require.NoError(t, root.add(mustParse(t, "/a"), "2"))
		require.NoError(t, root.add(mustParse(t, "/b"), "3"))
		assert.Equal(t, []string{"a", "b", "c"}, root.keys())
	})

	t.Run("leaf empty key is suppressed", func(t *testing.T) {
		t.Parallel()
		root := &node[string]{}
		require.NoError(t, root.add(mustParse(t, "/a/"), "index"))
		require.NoError(t, root.add(mustParse(t, "/a/b"), "leaf"))
		assert.Equal(t, []string{"b"}, root.children["a"].keys())
	})

	t.Run("empty key with children is listed", func(t *testing.T) {
		t.Parallel()
		root := &node[string]{}
		require.NoError(t, root.add(mustParse(t, "/a//deep"), "v"))
		assert.Equal(t, []string{""}, root.children["a"].keys())
	})

	t.Run("wildcard level has no listing", func(t *testing.T) {
		t.Parallel()
		root := &node[string]{}
		require.NoError(t, root.add(mustParse(t, "/{id}"), "v"))
		assert.Nil(t, root.keys())
	})
}

func TestNodeRemove(t *testing.T) {
	t.Parallel()

	t.Run("prunes empty branch", func(t *testing.T) {
		t.Parallel()
		root := &node[string]{}
		require.NoError(t, root.add(mustParse(t, "/a/b/c"), "v"))

		assert.True(t, root.remove(mustParse(t, "/a/b/c")))
		assert.False(t, root.hasChildren())
	})

	t.Run("stops pruning at shared prefix", func(t *testing.T) {
		t.Parallel()
		root := &node[string]{}
		require.NoError(t, root.add(mustParse(t, "/a/b/c"), "v1"))
		require.NoError(t, root.add(mustParse(t, "/a/d"), "v2"))

		assert.True(t, root.remove(mustParse(t, "/a/b/c")))

		a := root.children["a"]
		require.NotNil(t, a)
		assert.Nil(t, a.children["b"])
		assert.NotNil(t, a.children["d"])
	})

	t.Run("keeps node that still holds a value", func(t *testing.T) {
		t.Parallel()
		root := &node[string]{}
		require.NoError(t, root.add(mustParse(t, "/a"), "v1"))
		require.NoError(t, root.add(mustParse(t, "/a/b"), "v2"))

		assert.True(t, root.remove(mustParse(t, "/a/b")))
		require.NotNil(t, root.children["a"])
		require.NotNil(t, root.children["a"].value)
	})

	t.Run("reports absent pattern", func(t *testing.T) {
		t.Parallel()
		root := &node[string]{}
		require.NoError(t, root.add(mustParse(t, "/a/b"), "v"))

		assert.False(t, root.remove(mustParse(t, "/a/c")))
		assert.False(t, root.remove(mustParse(t, "/a")))
	})
}
