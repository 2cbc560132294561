package feed

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recv[T any](t *testing.T, s *Subscription[T]) T {
	t.Helper()
	select {
	case v, ok := <-s.C():
		require.True(t, ok, "subscription closed")
		return v
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for value")
	}
	var zero T
	return zero
}

func TestTopic_DeliversInPublishOrder(t *testing.T) {
	topic := NewTopic[int]()
	sub := topic.Subscribe(10)
	defer sub.Close()

	for i := 1; i <= 5; i++ {
		topic.Publish(i)
	}
	for i := 1; i <= 5; i++ {
		assert.Equal(t, i, recv(t, sub))
	}
}

func TestTopic_SlowSubscriberKeepsNewest(t *testing.T) {
	topic := NewTopic[int]()
	sub := topic.Subscribe(2)
	defer sub.Close()

	for i := 1; i <= 5; i++ {
		topic.Publish(i)
	}
	assert.Equal(t, 4, recv(t, sub))
	assert.Equal(t, 5, recv(t, sub))

	latest, ok := topic.Latest()
	assert.True(t, ok)
	assert.Equal(t, 5, latest)
}

func TestTopic_FanOut(t *testing.T) {
	topic := NewTopic[string]()
	a := topic.Subscribe(1)
	b := topic.Subscribe(1)
	defer a.Close()
	defer b.Close()
	assert.Equal(t, 2, topic.Len())

	topic.Publish("x")
	assert.Equal(t, "x", recv(t, a))
	assert.Equal(t, "x", recv(t, b))
}

func TestSubscription_CloseReleases(t *testing.T) {
	topic := NewTopic[int]()
	sub := topic.Subscribe(1)
	sub.Close()
	sub.Close()

	assert.Equal(t, 0, topic.Len())
	_, ok := <-sub.C()
	assert.False(t, ok)

	// publishing after close must not panic
	topic.Publish(1)
}

func TestTopic_CloseEndsSubscriptions(t *testing.T) {
	topic := NewTopic[int]()
	sub := topic.Subscribe(1)

	topic.Close()
	_, ok := <-sub.C()
	assert.False(t, ok)

	late := topic.Subscribe(1)
	_, ok = <-late.C()
	assert.False(t, ok)
}

func TestTopic_ConcurrentPublishAndClose(t *testing.T) {
	topic := NewTopic[int]()
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := topic.Subscribe(1)
			for j := 0; j < 50; j++ {
				topic.Publish(j)
			}
			s.Close()
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, topic.Len())
}
