package bchain_test

import (
	"testing"

	"github.com/advdv/bchain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReverser(t *testing.T) {
	rev := bchain.NewReverser()

	t.Run("should allow naming patterns", func(t *testing.T) {
		require.NoError(t, rev.NamedPattern("homepage", "/"))
		require.NoError(t, rev.NamedPattern("blog_post", "/blog/:id/"))
	})

	t.Run("should reverse named patterns", func(t *testing.T) {
		res, err := rev.Reverse("homepage")
		require.NoError(t, err)
		assert.Equal(t, "/", res)

		res, err = rev.Reverse("blog_post", "hello world")
		require.NoError(t, err)
		assert.Equal(t, "/blog/hello%20world", res)
	})

	t.Run("should error if pattern already exists", func(t *testing.T) {
		err := rev.NamedPattern("homepage", "/")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
	})

	t.Run("should error on empty name", func(t *testing.T) {
		require.Error(t, rev.NamedPattern("", "/foo"))
	})

	t.Run("should error if reversing unknown name", func(t *testing.T) {
		_, err := rev.Reverse("bogus")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `no pattern named: "bogus", got: [blog_post homepage]`)
	})

	t.Run("should error if url building fails", func(t *testing.T) {
		_, err := rev.Reverse("blog_post")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not enough values")

		_, err = rev.Reverse("blog_post", "a", "b")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "too many values")
	})
}

func TestNamedRoutes(t *testing.T) {
	app := bchain.NewApplication()
	app.Get("/users/:id", noop).Named("user")

	loc, err := app.Reverse("user", "42")
	require.NoError(t, err)
	require.Equal(t, "/users/42", loc)

	require.PanicsWithValue(t, `bchain: pattern with name "user" already exists`, func() {
		app.Post("/users/:id", noop).Named("user")
	})
}

func noop(bchain.ResponseWriter, *bchain.Request, bchain.Next) error { return nil }
