package query

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestGetCachesUntilInvalidated(t *testing.T) {
	c := New()
	var fetches atomic.Int32
	c.Register(K(ResGroups), func(ctx context.Context) (interface{}, error) {
		fetches.Add(1)
		return []string{"crew"}, nil
	})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		data, err := c.Get(ctx, K(ResGroups))
		require.NoError(t, err)
		v, ok := As[[]string](data)
		require.True(t, ok)
		assert.Equal(t, []string{"crew"}, v)
	}
	assert.Equal(t, int32(1), fetches.Load(), "fresh data must not refetch")

	c.Invalidate(K(ResGroups))
	_, err := c.Get(ctx, K(ResGroups))
	require.NoError(t, err)
	assert.Equal(t, int32(2), fetches.Load(), "stale data must refetch")
}

func TestUnregisteredKeyIsInert(t *testing.T) {
	c := New()
	data, err := c.Get(context.Background(), K("nope"))
	assert.Nil(t, data)
	assert.NoError(t, err)
}

func TestGuardKeepsQueryOffTheWire(t *testing.T) {
	c := New()
	enabled := false
	var fetches atomic.Int32
	c.Register(K(ResMemories), func(ctx context.Context) (interface{}, error) {
		fetches.Add(1)
		return 7, nil
	}, EnabledIf(func() bool { return enabled }))

	data, err := c.Get(context.Background(), K(ResMemories))
	assert.Nil(t, data)
	assert.NoError(t, err)
	assert.Equal(t, int32(0), fetches.Load())

	enabled = true
	data, err = c.Get(context.Background(), K(ResMemories))
	require.NoError(t, err)
	assert.Equal(t, 7, data)
	assert.Equal(t, int32(1), fetches.Load())
}

func TestSingleFixedRetry(t *testing.T) {
	c := New()
	var fetches atomic.Int32
	c.Register(K(ResGroups), func(ctx context.Context) (interface{}, error) {
		if fetches.Add(1) == 1 {
			return nil, errors.New("transient")
		}
		return "ok", nil
	})

	data, err := c.Get(context.Background(), K(ResGroups))
	require.NoError(t, err)
	assert.Equal(t, "ok", data)
	assert.Equal(t, int32(2), fetches.Load(), "exactly one retry")
}

func TestRetryIsNotRepeated(t *testing.T) {
	c := New()
	var fetches atomic.Int32
	boom := errors.New("still down")
	c.Register(K(ResGroups), func(ctx context.Context) (interface{}, error) {
		fetches.Add(1)
		return nil, boom
	})

	_, err := c.Get(context.Background(), K(ResGroups))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int32(2), fetches.Load(), "one attempt plus one retry, never more")
}

func TestNoRetryOption(t *testing.T) {
	c := New()
	var fetches atomic.Int32
	c.Register(K(ResProfile), func(ctx context.Context) (interface{}, error) {
		fetches.Add(1)
		return nil, errors.New("401-adjacent")
	}, NoRetry())

	_, err := c.Get(context.Background(), K(ResProfile))
	assert.Error(t, err)
	assert.Equal(t, int32(1), fetches.Load(), "profile reads must not retry")
}

func TestStaleDataReturnedAlongsideError(t *testing.T) {
	c := New()
	healthy := true
	c.Register(K(ResMemories), func(ctx context.Context) (interface{}, error) {
		if healthy {
			return "cached", nil
		}
		return nil, errors.New("offline")
	})

	ctx := context.Background()
	_, err := c.Get(ctx, K(ResMemories))
	require.NoError(t, err)

	healthy = false
	c.Invalidate(K(ResMemories))
	data, err := c.Get(ctx, K(ResMemories))
	assert.Error(t, err)
	assert.Equal(t, "cached", data, "stale data stays displayable while the error surfaces")
}

func TestConcurrentGetsShareOneFetch(t *testing.T) {
	c := New()
	var fetches atomic.Int32
	gate := make(chan struct{})
	c.Register(K(ResGroups), func(ctx context.Context) (interface{}, error) {
		fetches.Add(1)
		<-gate
		return "shared", nil
	})

	var entered, wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		entered.Add(1)
		wg.Add(1)
		go func() {
			defer wg.Done()
			entered.Done()
			data, err := c.Get(context.Background(), K(ResGroups))
			assert.NoError(t, err)
			assert.Equal(t, "shared", data)
		}()
	}
	// Hold the first fetch open until every reader is on its way in.
	entered.Wait()
	time.Sleep(20 * time.Millisecond)
	close(gate)
	wg.Wait()
	assert.Equal(t, int32(1), fetches.Load(), "concurrent reads must collapse into one fetch")
}

func TestReRegisterKeepsCachedData(t *testing.T) {
	c := New()
	c.Register(KID(ResMemory, 5), func(ctx context.Context) (interface{}, error) { return "v1", nil })
	_, err := c.Get(context.Background(), KID(ResMemory, 5))
	require.NoError(t, err)

	// Opening the same detail page again re-registers; the cached value
	// must survive so the page paints instantly.
	c.Register(KID(ResMemory, 5), func(ctx context.Context) (interface{}, error) { return "v2", nil })
	data, ok := c.Peek(KID(ResMemory, 5))
	require.True(t, ok)
	assert.Equal(t, "v1", data)
}

func TestSubscribeNotifiesOnInvalidate(t *testing.T) {
	c := New()
	c.Register(K(ResGroups), func(ctx context.Context) (interface{}, error) { return nil, nil })

	var mu sync.Mutex
	var seen []Key
	c.Subscribe(func(k Key) {
		mu.Lock()
		seen = append(seen, k)
		mu.Unlock()
	})

	c.Invalidate(K(ResGroups), K("unknown"))
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []Key{K(ResGroups)}, seen, "unknown keys notify nobody")
}

func TestDropForgetsQuery(t *testing.T) {
	c := New()
	c.Register(K(ResGroups), func(ctx context.Context) (interface{}, error) { return 1, nil })
	_, err := c.Get(context.Background(), K(ResGroups))
	require.NoError(t, err)

	c.Drop(K(ResGroups))
	_, ok := c.Peek(K(ResGroups))
	assert.False(t, ok)
	data, err := c.Get(context.Background(), K(ResGroups))
	assert.Nil(t, data)
	assert.NoError(t, err)
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "memories", K(ResMemories).String())
	assert.Equal(t, "memory/9", KID(ResMemory, 9).String())
}
