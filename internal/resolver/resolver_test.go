package resolver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datakeep/internal/config"
	"datakeep/internal/entries"
	"datakeep/internal/models"
)

func testResolver() *Resolver {
	return New(config.Resolver{FetchTimeout: 2 * time.Second, MaxRetries: 0})
}

func sourceEntry(t *testing.T, url, path string) (*entries.Tree, string) {
	t.Helper()
	raw := fmt.Sprintf(`{"Remote":{"apiUrl":%q,"JSONPath":%q}}`, url, path)
	value, err := entries.DecodeValue([]byte(raw))
	require.NoError(t, err)

	tree := entries.NewTree()
	id := uuid.NewString()
	tree.Add(id, value)
	return tree, id
}

func entrySource(t *testing.T, tree *entries.Tree, id string) *entries.Source {
	t.Helper()
	value, ok := tree.Get(id)
	require.True(t, ok)
	wrapper, ok := value.(*entries.Map)
	require.True(t, ok)
	inner, ok := wrapper.Get("Remote")
	require.True(t, ok)
	src, ok := entries.ClassifySource(inner)
	require.True(t, ok)
	return src
}

func TestResolve(t *testing.T) {
	t.Run("caches the extracted value on the definition", func(t *testing.T) {
		var gotAuth string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			fmt.Fprint(w, `{"store":{"book":[{"client":"A"}]}}`)
		}))
		defer server.Close()

		tree, id := sourceEntry(t, server.URL, "$.store.book[0].client")

		n, err := testResolver().Resolve(context.Background(), tree, models.PlanPremium, Opportunistic)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		assert.Empty(t, gotAuth)

		got, resolved := entrySource(t, tree, id).DataReturn()
		require.True(t, resolved)
		assert.Equal(t, "A", got)
	})

	t.Run("credential header is passed verbatim", func(t *testing.T) {
		var gotAuth string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			fmt.Fprint(w, `{"ok":true}`)
		}))
		defer server.Close()

		raw := fmt.Sprintf(`{"Remote":{"apiUrl":%q,"JSONPath":"$.ok","authToken":"Bearer secret-123"}}`, server.URL)
		value, err := entries.DecodeValue([]byte(raw))
		require.NoError(t, err)
		tree := entries.NewTree()
		tree.Add(uuid.NewString(), value)

		_, err = testResolver().Resolve(context.Background(), tree, models.PlanPremium, Explicit)
		require.NoError(t, err)
		assert.Equal(t, "Bearer secret-123", gotAuth)
	})

	t.Run("free plan never acquires a dataReturn opportunistically", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("free plan must not reach the remote")
		}))
		defer server.Close()

		tree, id := sourceEntry(t, server.URL, "$.x")

		n, err := testResolver().Resolve(context.Background(), tree, models.PlanFree, Opportunistic)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		_, resolved := entrySource(t, tree, id).DataReturn()
		assert.False(t, resolved)

		raw, err := tree.MarshalJSON()
		require.NoError(t, err)
		assert.Contains(t, string(raw), "premium plan required")
	})

	t.Run("explicit resolution on free plan fails the request", func(t *testing.T) {
		tree, _ := sourceEntry(t, "http://unreachable.invalid", "$.x")

		_, err := testResolver().Resolve(context.Background(), tree, models.PlanFree, Explicit)
		assert.ErrorIs(t, err, ErrPlanRequired)
	})

	t.Run("a failing source keeps its cache and spares its siblings", func(t *testing.T) {
		okServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"value":"fresh"}`)
		}))
		defer okServer.Close()
		badServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer badServer.Close()

		tree := entries.NewTree()
		failing, err := entries.DecodeValue([]byte(fmt.Sprintf(
			`{"Stale":{"apiUrl":%q,"JSONPath":"$.value","dataReturn":"cached"}}`, badServer.URL)))
		require.NoError(t, err)
		failingID := uuid.NewString()
		tree.Add(failingID, failing)

		healthy, err := entries.DecodeValue([]byte(fmt.Sprintf(
			`{"Fresh":{"apiUrl":%q,"JSONPath":"$.value"}}`, okServer.URL)))
		require.NoError(t, err)
		healthyID := uuid.NewString()
		tree.Add(healthyID, healthy)

		staticID := uuid.NewString()
		tree.Add(staticID, mustValue(t, `{"Static":{"v":1}}`))

		n, err := testResolver().Resolve(context.Background(), tree, models.PlanPremium, Opportunistic)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		// failing source: old cache retained, error flagged
		staleWrapper, _ := tree.Get(failingID)
		staleInner, _ := staleWrapper.(*entries.Map).Get("Stale")
		staleSrc, ok := entries.ClassifySource(staleInner)
		require.True(t, ok)
		cached, resolved := staleSrc.DataReturn()
		require.True(t, resolved)
		assert.Equal(t, "cached", cached)

		staleRaw, err := entries.EncodeValue(staleInner)
		require.NoError(t, err)
		assert.Contains(t, string(staleRaw), entries.FieldDataError)

		// healthy source resolved normally
		freshWrapper, _ := tree.Get(healthyID)
		freshInner, _ := freshWrapper.(*entries.Map).Get("Fresh")
		freshSrc, ok := entries.ClassifySource(freshInner)
		require.True(t, ok)
		got, resolved := freshSrc.DataReturn()
		require.True(t, resolved)
		assert.Equal(t, "fresh", got)

		// static sibling untouched
		staticValue, _ := tree.Get(staticID)
		staticRaw, err := entries.EncodeValue(staticValue)
		require.NoError(t, err)
		assert.Equal(t, `{"Static":{"v":1}}`, string(staticRaw))
	})

	t.Run("no match stores an explicit null", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"present":1}`)
		}))
		defer server.Close()

		tree, id := sourceEntry(t, server.URL, "$.absent")

		_, err := testResolver().Resolve(context.Background(), tree, models.PlanPremium, Opportunistic)
		require.NoError(t, err)

		got, resolved := entrySource(t, tree, id).DataReturn()
		require.True(t, resolved)
		assert.Nil(t, got)
	})

	t.Run("malformed remote body is an entry-scoped failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `not json at all{{`)
		}))
		defer server.Close()

		tree, id := sourceEntry(t, server.URL, "$.x")

		_, err := testResolver().Resolve(context.Background(), tree, models.PlanPremium, Opportunistic)
		require.NoError(t, err)

		_, resolved := entrySource(t, tree, id).DataReturn()
		assert.False(t, resolved)

		raw, err := tree.MarshalJSON()
		require.NoError(t, err)
		assert.Contains(t, string(raw), entries.FieldDataError)
	})

	t.Run("nested and listed definitions are found", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"v":7}`)
		}))
		defer server.Close()

		raw := fmt.Sprintf(`{"Outer":{"deep":{"apiUrl":%q,"JSONPath":"$.v"},"list":[{"apiUrl":%q,"JSONPath":"$.v"}]}}`,
			server.URL, server.URL)
		tree := entries.NewTree()
		tree.Add(uuid.NewString(), mustValue(t, raw))

		n, err := testResolver().Resolve(context.Background(), tree, models.PlanPremium, Opportunistic)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	t.Run("a tree without sources is a no-op", func(t *testing.T) {
		tree := entries.NewTree()
		tree.Add(uuid.NewString(), mustValue(t, `{"Static":1}`))

		n, err := testResolver().Resolve(context.Background(), tree, models.PlanFree, Explicit)
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

func mustValue(t *testing.T, raw string) any {
	t.Helper()
	v, err := entries.DecodeValue([]byte(raw))
	require.NoError(t, err)
	return v
}
