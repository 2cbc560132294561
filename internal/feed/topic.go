// Package feed provides in-process publish/subscribe topics used for the
// sensor feed, alert log change notifications and user-facing toasts.
package feed

import "sync"

const defaultBuffer = 16

// Topic fans out published values to subscribers. Each subscriber receives
// values in publish order on its own buffered channel. When a subscriber
// falls behind, its oldest pending value is dropped so the newest one wins.
type Topic[T any] struct {
	pubMu  sync.Mutex // keeps delivery order equal to publish order
	mu     sync.RWMutex
	subs   map[*Subscription[T]]struct{}
	latest T
	has    bool
	closed bool
}

// NewTopic returns an empty topic.
func NewTopic[T any]() *Topic[T] {
	return &Topic[T]{subs: make(map[*Subscription[T]]struct{})}
}

// Subscription is a single consumer's view of a Topic.
type Subscription[T any] struct {
	topic *Topic[T]
	ch    chan T
	once  sync.Once
	mu    sync.Mutex // serialises delivery with Close
	done  bool
}

// C returns the channel values are delivered on. It is closed by Close.
func (s *Subscription[T]) C() <-chan T {
	return s.ch
}

// Close releases the subscription. Safe to call more than once.
func (s *Subscription[T]) Close() {
	s.once.Do(func() {
		s.topic.remove(s)
		s.mu.Lock()
		s.done = true
		close(s.ch)
		s.mu.Unlock()
	})
}

func (s *Subscription[T]) deliver(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return
	}
	for {
		select {
		case s.ch <- v:
			return
		default:
		}
		// buffer full: drop the oldest pending value and retry
		select {
		case <-s.ch:
		default:
		}
	}
}

// Subscribe registers a new consumer with the given buffer size
// (<= 0 selects a default).
func (t *Topic[T]) Subscribe(buffer int) *Subscription[T] {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	s := &Subscription[T]{topic: t, ch: make(chan T, buffer)}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		s.done = true
		close(s.ch)
		return s
	}
	t.subs[s] = struct{}{}
	return s
}

// Publish delivers v to every current subscriber and remembers it as latest.
func (t *Topic[T]) Publish(v T) {
	t.pubMu.Lock()
	defer t.pubMu.Unlock()

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.latest, t.has = v, true
	subs := make([]*Subscription[T], 0, len(t.subs))
	for s := range t.subs {
		subs = append(subs, s)
	}
	t.mu.Unlock()

	for _, s := range subs {
		s.deliver(v)
	}
}

// Latest returns the last published value, if any.
func (t *Topic[T]) Latest() (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.latest, t.has
}

// Len returns the number of active subscribers.
func (t *Topic[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.subs)
}

// Close closes every subscription; later publishes are ignored.
func (t *Topic[T]) Close() {
	t.mu.Lock()
	t.closed = true
	subs := make([]*Subscription[T], 0, len(t.subs))
	for s := range t.subs {
		subs = append(subs, s)
	}
	t.mu.Unlock()

	for _, s := range subs {
		s.Close()
	}
}

func (t *Topic[T]) remove(s *Subscription[T]) {
	t.mu.Lock()
	delete(t.subs, s)
	t.mu.Unlock()
}
