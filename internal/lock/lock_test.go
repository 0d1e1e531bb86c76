package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLocker_SerializesSameKey(t *testing.T) {
	l := NewLocalLocker()
	ctx := context.Background()

	var (
		mu      sync.Mutex
		inside  int
		maxSeen int
		wg      sync.WaitGroup
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := With(ctx, l, "attendance:1:2:2026-03-10:masuk", time.Second, func() error {
				mu.Lock()
				inside++
				if inside > maxSeen {
					maxSeen = inside
				}
				mu.Unlock()

				time.Sleep(time.Millisecond)

				mu.Lock()
				inside--
				mu.Unlock()
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.Empty(t, l.slots, "slot harus dibersihkan setelah semua kunci dilepas")
}

func TestLocalLocker_DifferentKeysDoNotBlock(t *testing.T) {
	l := NewLocalLocker()
	ctx := context.Background()

	a, err := l.Obtain(ctx, "roster:1", time.Second)
	require.NoError(t, err)
	defer a.Release(ctx)

	done := make(chan struct{})
	go func() {
		b, err := l.Obtain(ctx, "roster:2", time.Second)
		assert.NoError(t, err)
		_ = b.Release(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("kunci berbeda tidak boleh saling menunggu")
	}
}

func TestLocalLocker_ContextCancelled(t *testing.T) {
	l := NewLocalLocker()
	held, err := l.Obtain(context.Background(), "roster:1", time.Second)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = l.Obtain(ctx, "roster:1", time.Second)
	assert.ErrorIs(t, err, ErrNotObtained)

	require.NoError(t, held.Release(context.Background()))
	require.NoError(t, held.Release(context.Background()), "release ganda aman")
	assert.Empty(t, l.slots)
}
