package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetPut(t *testing.T) {
	c := NewMemory(10)

	_, ok := c.Get("a")
	assert.False(t, ok)

	require.NoError(t, c.Put("a", []byte("12345")))
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, []byte("12345"), v)

	// replacing a key does not count twice
	require.NoError(t, c.Put("a", []byte("123")))
	assert.EqualValues(t, 3, c.Stats().Size)

	s := c.Stats()
	assert.EqualValues(t, 1, s.Hits)
	assert.EqualValues(t, 1, s.Misses)
	assert.Equal(t, 1, s.Items)
}

func TestMemoryEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewMemory(10)
	require.NoError(t, c.Put("a", make([]byte, 4)))
	require.NoError(t, c.Put("b", make([]byte, 4)))

	_, _ = c.Get("a")
	require.NoError(t, c.Put("c", make([]byte, 4)))

	_, ok := c.Get("b")
	assert.False(t, ok, "b was least recently used")
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
	assert.EqualValues(t, 1, c.Stats().Evictions)
}

func TestMemoryTooLarge(t *testing.T) {
	c := NewMemory(3)
	assert.ErrorIs(t, c.Put("a", make([]byte, 4)), ErrItemTooLarge)
	assert.Zero(t, c.Stats().Items)
}

func TestMemoryPruneAndClear(t *testing.T) {
	c := NewMemory(100)
	require.NoError(t, c.Put("a", []byte("x")))
	require.NoError(t, c.Put("b", []byte("y")))

	assert.Zero(t, c.Prune(time.Hour))
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, 2, c.Prune(time.Millisecond))

	require.NoError(t, c.Put("c", []byte("z")))
	c.Clear()
	assert.Zero(t, c.Stats().Size)
	assert.Zero(t, c.Stats().Items)
}

func TestKey(t *testing.T) {
	assert.Equal(t, Key("hi", "alex", 150), Key("hi", "alex", 150))
	assert.NotEqual(t, Key("hi", "alex", 150), Key("hi", "alex", 160))
	assert.NotEqual(t, Key("hi", "alex", 150), Key("hi", "victoria", 150))
	assert.Len(t, Key("", "", 0), 32)
}
