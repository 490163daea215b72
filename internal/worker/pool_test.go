package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolRunsSubmittedTasks(t *testing.T) {
	p := NewPool(2, 8)
	require.NoError(t, p.Start(context.Background()))
	defer p.Stop(context.Background())

	var ran atomic.Int32
	done := make(chan struct{}, 3)
	for _, key := range []string{"a", "b", "c"} {
		ok := p.Submit(key, func(ctx context.Context) error {
			ran.Add(1)
			done <- struct{}{}
			return nil
		})
		require.True(t, ok)
	}

	for i := 0; i < 3; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("task did not run")
		}
	}
	assert.Equal(t, int32(3), ran.Load())
}

func TestPoolDeduplicatesPendingKeys(t *testing.T) {
	p := NewPool(1, 4)
	release := make(chan struct{})

	require.True(t, p.Submit("rates:EUR", func(ctx context.Context) error {
		<-release
		return nil
	}))
	assert.False(t, p.Submit("rates:EUR", func(ctx context.Context) error { return nil }))

	require.NoError(t, p.Start(context.Background()))
	close(release)
	require.NoError(t, p.Stop(context.Background()))
}

func TestPoolKeyIsReusableAfterCompletion(t *testing.T) {
	p := NewPool(1, 4)
	require.NoError(t, p.Start(context.Background()))
	defer p.Stop(context.Background())

	done := make(chan struct{})
	require.True(t, p.Submit("k", func(ctx context.Context) error {
		close(done)
		return nil
	}))
	<-done

	assert.Eventually(t, func() bool {
		return p.Submit("k", func(ctx context.Context) error { return nil })
	}, time.Second, 10*time.Millisecond)
}

func TestPoolDropsWhenQueueFull(t *testing.T) {
	p := NewPool(1, 1)
	noop := func(ctx context.Context) error { return nil }

	assert.True(t, p.Submit("a", noop))
	assert.False(t, p.Submit("b", noop))
	require.NoError(t, p.Stop(context.Background()))
}

func TestPoolSurvivesPanicsAndErrors(t *testing.T) {
	p := NewPool(1, 4)
	require.NoError(t, p.Start(context.Background()))
	defer p.Stop(context.Background())

	p.Submit("panic", func(ctx context.Context) error { panic("boom") })
	p.Submit("error", func(ctx context.Context) error { return errors.New("provider down") })

	done := make(chan struct{})
	p.Submit("after", func(ctx context.Context) error {
		close(done)
		return nil
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not survive a panicking task")
	}
}

func TestPoolTaskTimeout(t *testing.T) {
	p := NewPool(1, 1, WithTaskTimeout(20*time.Millisecond))
	require.NoError(t, p.Start(context.Background()))
	defer p.Stop(context.Background())

	got := make(chan error, 1)
	p.Submit("slow", func(ctx context.Context) error {
		<-ctx.Done()
		got <- ctx.Err()
		return ctx.Err()
	})

	select {
	case err := <-got:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(2 * time.Second):
		t.Fatal("task was not cancelled by its timeout")
	}
}

func TestPoolStopCancelsRunningTasks(t *testing.T) {
	p := NewPool(1, 1, WithTaskTimeout(time.Hour))
	require.NoError(t, p.Start(context.Background()))

	started := make(chan struct{})
	p.Submit("long", func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	})
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, p.Stop(ctx))

	assert.False(t, p.Submit("late", func(ctx context.Context) error { return nil }))
	assert.NoError(t, p.Stop(ctx), "second stop is a no-op")
}
