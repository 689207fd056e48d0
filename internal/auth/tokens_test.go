package auth

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewToken(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		tok, err := NewToken()
		require.NoError(t, err)
		assert.Len(t, tok, TokenBytes*2)
		assert.False(t, seen[tok], "duplicate token")
		seen[tok] = true
	}
}

func TestMemoryTokenStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryTokenStore()

	_, ok, err := s.Lookup(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put(ctx, "abc", 7))
	uid, ok, err := s.Lookup(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint(7), uid)

	require.NoError(t, s.Delete(ctx, "abc"))
	_, ok, _ = s.Lookup(ctx, "abc")
	assert.False(t, ok)

	// deleting twice is fine
	require.NoError(t, s.Delete(ctx, "abc"))
}

func TestMemoryTokenStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryTokenStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tok := fmt.Sprintf("tok-%d", i)
			_ = s.Put(ctx, tok, uint(i+1))
			uid, ok, _ := s.Lookup(ctx, tok)
			assert.True(t, ok)
			assert.Equal(t, uint(i+1), uid)
			if i%2 == 0 {
				_ = s.Delete(ctx, tok)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 25, s.Len())
}

func TestBearerToken(t *testing.T) {
	tok, ok := BearerToken("Bearer abc123")
	assert.True(t, ok)
	assert.Equal(t, "abc123", tok)

	for _, h := range []string{"", "Bearer ", "Basic abc", "bearer abc"} {
		_, ok := BearerToken(h)
		assert.False(t, ok, h)
	}
}
