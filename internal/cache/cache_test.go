package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSetGet(t *testing.T) {
	c := New(0)
	c.Set("a", 1)

	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestExpiry(t *testing.T) {
	c := New(10 * time.Millisecond)
	c.Set("a", "v")

	_, ok := c.Get("a")
	assert.True(t, ok)

	time.Sleep(20 * time.Millisecond)
	_, ok = c.Get("a")
	assert.False(t, ok)
}

func TestDeletePrefix(t *testing.T) {
	c := New(0)
	c.Set("rec:u1:ANIME", 1)
	c.Set("rec:u1:MANGA", 2)
	c.Set("rec:u2:ANIME", 3)

	c.DeletePrefix("rec:u1:")

	assert.Equal(t, 1, c.Len())
	_, ok := c.Get("rec:u2:ANIME")
	assert.True(t, ok)
}

func TestRequestTracker(t *testing.T) {
	tr := NewRequestTracker()

	first := tr.Begin("feed:ANIME")
	second := tr.Begin("feed:ANIME")
	other := tr.Begin("feed:MANGA")

	assert.False(t, tr.IsLatest("feed:ANIME", first), "superseded request must be stale")
	assert.True(t, tr.IsLatest("feed:ANIME", second))
	assert.True(t, tr.IsLatest("feed:MANGA", other))
}
