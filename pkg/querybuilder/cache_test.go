package querybuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_Get(t *testing.T) {
	c, err := NewCache(0)
	require.NoError(t, err)

	const query = "SELECT * FROM t WHERE id = #id#"

	first, err := c.Get(query)
	require.NoError(t, err)
	require.NoError(t, first.Bind("id", 1))

	second, err := c.Get(query)
	require.NoError(t, err)
	assert.Nil(t, second.Get("id"), "cached builders do not share values")
	assert.Equal(t, 1, c.Len())

	a, err := first.Compose(quoteDialect{})
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM t WHERE id = 1", a)

	require.NoError(t, second.Bind("id", 2))
	b, err := second.Compose(quoteDialect{})
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM t WHERE id = 2", b)
}

func TestCache_AppendDoesNotLeak(t *testing.T) {
	c, err := NewCache(4)
	require.NoError(t, err)

	b, err := c.Get("SELECT * FROM t")
	require.NoError(t, err)
	require.NoError(t, b.Append("WHERE a = @a@"))

	fresh, err := c.Get("SELECT * FROM t")
	require.NoError(t, err)
	assert.False(t, fresh.HasParameter("a"))
	assert.Len(t, fresh.Tokens(), 1)
}

func TestCache_ErrorsAreNotCached(t *testing.T) {
	c, err := NewCache(4)
	require.NoError(t, err)

	_, err = c.Get("SELECT @a#")
	require.Error(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestCache_Eviction(t *testing.T) {
	c, err := NewCache(2)
	require.NoError(t, err)

	for _, q := range []string{"SELECT 1", "SELECT 2", "SELECT 3"} {
		_, err := c.Get(q)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, c.Len())

	c.Purge()
	assert.Equal(t, 0, c.Len())
}
