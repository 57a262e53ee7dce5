package stubdns

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jroosing/stubdns/wire"
)

func testKey(t *testing.T, name string) cacheKey {
	t.Helper()
	n, err := wire.NewName(name)
	require.NoError(t, err)
	return newCacheKey(wire.Question{Name: n, Type: wire.QTypeA, Class: wire.QClassIN})
}

func TestAnswerCachePutGet(t *testing.T) {
	c := newAnswerCache(8)
	key := testKey(t, "example.com")

	c.Put(key, []byte{1, 2, 3}, time.Minute)

	resp, age, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, resp)
	assert.GreaterOrEqual(t, age, time.Duration(0))
}

func TestAnswerCacheKeyIsCaseInsensitive(t *testing.T) {
	c := newAnswerCache(8)
	c.Put(testKey(t, "Example.COM"), []byte{7}, time.Minute)

	_, _, ok := c.Get(testKey(t, "example.com"))
	assert.True(t, ok)
}

func TestAnswerCacheMiss(t *testing.T) {
	c := newAnswerCache(8)
	_, _, ok := c.Get(testKey(t, "absent.example.com"))
	assert.False(t, ok)
}

func TestAnswerCacheExpiry(t *testing.T) {
	c := newAnswerCache(8)
	key := testKey(t, "short.example.com")

	c.Put(key, []byte{1}, 20*time.Millisecond)
	time.Sleep(40 * time.Millisecond)

	_, _, ok := c.Get(key)
	assert.False(t, ok)
}

func TestAnswerCacheNonPositiveTTLSkipped(t *testing.T) {
	c := newAnswerCache(8)
	key := testKey(t, "zero.example.com")

	c.Put(key, []byte{1}, 0)
	_, _, ok := c.Get(key)
	assert.False(t, ok)
	assert.Zero(t, c.Len())
}

func TestAnswerCacheEvictsOldest(t *testing.T) {
	c := newAnswerCache(2)
	a := testKey(t, "a.example.com")
	b := testKey(t, "b.example.com")
	d := testKey(t, "c.example.com")

	c.Put(a, []byte{1}, time.Minute)
	c.Put(b, []byte{2}, time.Minute)
	c.Put(d, []byte{3}, time.Minute)

	_, _, ok := c.Get(a)
	assert.False(t, ok, "oldest entry must be evicted")
	_, _, ok = c.Get(d)
	assert.True(t, ok)
}

func TestCacheKeyDistinguishesTypes(t *testing.T) {
	n, err := wire.NewName("example.com")
	require.NoError(t, err)

	a := newCacheKey(wire.Question{Name: n, Type: wire.QTypeA, Class: wire.QClassIN})
	aaaa := newCacheKey(wire.Question{Name: n, Type: wire.QTypeAAAA, Class: wire.QClassIN})
	assert.NotEqual(t, a, aaaa)
	assert.NotEqual(t, a.String(), aaaa.String())
}
