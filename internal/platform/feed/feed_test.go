package feed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		require.True(t, ok, "channel closed")
		return v
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for value")
	}
	var zero T
	return zero
}

func TestFeed_KeepsLatest(t *testing.T) {
	f := New[int]()
	f.Offer(1)
	f.Offer(2)
	f.Offer(3)

	assert.Equal(t, 3, receive(t, f.C()))
	select {
	case v := <-f.C():
		t.Fatalf("unexpected extra value %d", v)
	default:
	}
}

func TestFeed_CloseIgnoresOffers(t *testing.T) {
	f := New[int]()
	f.Close()
	f.Offer(1)
	f.Close()

	_, ok := <-f.C()
	assert.False(t, ok)
}

func TestHub_SubscribePublishCancel(t *testing.T) {
	h := NewHub[string, int]()
	ctx, cancel := context.WithCancel(context.Background())

	ch := h.Subscribe(ctx, "a", 0)
	other := h.Subscribe(context.Background(), "b", 10)

	assert.Equal(t, 0, receive(t, ch))
	assert.Equal(t, 10, receive(t, other))
	assert.True(t, h.Has("a"))
	assert.ElementsMatch(t, []string{"a", "b"}, h.Keys())

	h.Publish("a", 5)
	assert.Equal(t, 5, receive(t, ch))

	cancel()
	require.Eventually(t, func() bool { return !h.Has("a") }, time.Second, 5*time.Millisecond)
	_, ok := <-ch
	assert.False(t, ok)
	assert.Equal(t, 1, h.Len())
}

func TestCopyingHub_PublishesOneCopyPerSubscriber(t *testing.T) {
	h := NewCopyingHub[string](func(v []int) []int { return append([]int(nil), v...) })
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a := h.Subscribe(ctx, "k", nil)
	b := h.Subscribe(ctx, "k", nil)
	receive(t, a)
	receive(t, b)

	h.Publish("k", []int{3, 1, 2})
	got := receive(t, a)
	got[0] = 99
	assert.Equal(t, []int{3, 1, 2}, receive(t, b))
}

func TestValue_Watch(t *testing.T) {
	v := NewValue("idle")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := v.Watch(ctx)
	assert.Equal(t, "idle", receive(t, ch))

	v.Set("busy")
	assert.Equal(t, "busy", receive(t, ch))
	assert.Equal(t, "busy", v.Get())

	got := v.Update(func(s string) (string, bool) { return s, false })
	assert.Equal(t, "busy", got)
	select {
	case s := <-ch:
		t.Fatalf("unexpected value %q after unchanged update", s)
	default:
	}

	v.Update(func(string) (string, bool) { return "done", true })
	assert.Equal(t, "done", receive(t, ch))
}
