package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemember(t *testing.T) {
	c := NewResponseCache(DefaultKeyPrefix, time.Minute)

	calls := 0
	load := func() ([]string, error) {
		calls++
		return []string{"a"}, nil
	}

	got, err := Remember(c, "feed", load)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got)

	got, err = Remember(c, "feed", load)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got)
	assert.Equal(t, 1, calls)

	c.Flush()
	assert.Equal(t, 0, c.Len())

	_, err = Remember(c, "feed", load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRemember_ErrorNotCached(t *testing.T) {
	c := NewResponseCache(DefaultKeyPrefix, time.Minute)

	_, err := Remember(c, "feed", func() (int, error) { return 0, errors.New("db down") })
	assert.Error(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestResponseCache_Expiry(t *testing.T) {
	c := NewResponseCache(DefaultKeyPrefix, 10*time.Millisecond)
	c.Set("k", 1)

	_, ok := c.Get("k")
	assert.True(t, ok)

	assert.Eventually(t, func() bool {
		_, ok := c.Get("k")
		return !ok
	}, time.Second, 5*time.Millisecond)
}
