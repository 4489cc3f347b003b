package rnfi

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageCacheHitAndExpiry(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)}
	c := NewImageCache(time.Hour)
	c.now = clock.now

	var renders int
	render := func(context.Context) ([]byte, error) {
		renders++
		return []byte("png"), nil
	}

	b, hit, err := c.Get(context.Background(), "k", render)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, []byte("png"), b)

	_, hit, err = c.Get(context.Background(), "k", render)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, renders)

	clock.advance(time.Hour)
	_, hit, err = c.Get(context.Background(), "k", render)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, renders)
}

func TestImageCacheDoesNotCacheErrors(t *testing.T) {
	c := NewImageCache(time.Hour)
	boom := errors.New("boom")

	_, _, err := c.Get(context.Background(), "k", func(context.Context) ([]byte, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())

	b, hit, err := c.Get(context.Background(), "k", func(context.Context) ([]byte, error) {
		return []byte("ok"), nil
	})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, []byte("ok"), b)
}

func TestImageCacheSharesConcurrentRenders(t *testing.T) {
	c := NewImageCache(time.Hour)
	var renders atomic.Int32
	release := make(chan struct{})
	render := func(context.Context) ([]byte, error) {
		renders.Add(1)
		<-release
		return []byte("png"), nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b, _, err := c.Get(context.Background(), "k", render)
			assert.NoError(t, err)
			assert.Equal(t, []byte("png"), b)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), renders.Load())
	assert.Equal(t, 1, c.Len())
}

func TestImageCacheInvalidate(t *testing.T) {
	c := NewImageCache(time.Hour)
	_, _, err := c.Get(context.Background(), "k", func(context.Context) ([]byte, error) {
		return []byte("png"), nil
	})
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())

	c.Invalidate()
	assert.Equal(t, 0, c.Len())
}

func TestImageCacheRenderOutlivesCancelledCaller(t *testing.T) {
	c := NewImageCache(time.Hour)
	var renders atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	render := func(ctx context.Context) ([]byte, error) {
		if renders.Add(1) == 1 {
			close(started)
		}
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return []byte("png"), nil
	}

	first, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, _, err := c.Get(first, "k", render)
		firstErr <- err
	}()
	<-started

	type result struct {
		png []byte
		err error
	}
	second := make(chan result, 1)
	go func() {
		b, _, err := c.Get(context.Background(), "k", render)
		second <- result{b, err}
	}()

	cancel()
	select {
	case err := <-firstErr:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled caller kept waiting for the render")
	}

	close(release)
	res := <-second
	require.NoError(t, res.err)
	assert.Equal(t, []byte("png"), res.png)
	assert.Equal(t, int32(1), renders.Load())
	assert.Equal(t, 1, c.Len())
}
