// Package broadcast fans values out to in-process subscribers without ever
// blocking the publisher.
package broadcast

import "sync"

// Hub delivers published values to every current subscriber. Each
// subscriber owns a buffered channel; when it is full the oldest pending
// value is dropped, so a slow reader always ends up with the newest value
// and never sees an older value after a newer one.
type Hub[T any] struct {
	mu     sync.Mutex
	buffer int
	subs   map[chan T]struct{}
	closed bool
}

// New creates a Hub whose subscriber channels hold up to buffer pending
// values. A buffer of 1 yields latest-value semantics.
func New[T any](buffer int) *Hub[T] {
	if buffer < 1 {
		buffer = 1
	}
	return &Hub[T]{buffer: buffer, subs: make(map[chan T]struct{})}
}

// Subscribe registers a subscriber. The returned cancel func unregisters it
// and closes the channel; it is safe to call more than once.
func (h *Hub[T]) Subscribe() (<-chan T, func()) {
	ch := make(chan T, h.buffer)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if _, ok := h.subs[ch]; ok {
				delete(h.subs, ch)
				close(ch)
			}
		})
	}
}

// Publish sends v to every subscriber. Sends happen under the hub lock so
// concurrent publishers are delivered in one order to all subscribers.
func (h *Hub[T]) Publish(v T) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs {
		for {
			select {
			case ch <- v:
			default:
				// Full: drop the oldest pending value and retry.
				select {
				case <-ch:
				default:
				}
				continue
			}
			break
		}
	}
}

// Len returns the number of active subscribers.
func (h *Hub[T]) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close unregisters and closes every subscriber. Later Publish calls are
// no-ops and later Subscribe calls return a closed channel.
func (h *Hub[T]) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for ch := range h.subs {
		delete(h.subs, ch)
		close(ch)
	}
}
