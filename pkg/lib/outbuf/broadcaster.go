package outbuf

import (
	"fmt"
	"sync"
)

// Broadcaster fans one message stream out to any number of subscribers.
// Delivery is lossy on purpose: each subscriber channel keeps only the most
// recent message, which is exactly what a "new data arrived" wake-up needs.
type Broadcaster[T any] struct {
	in          chan T
	mu          sync.Mutex
	subscribers map[chan T]struct{}
	stopped     bool
}

// RunNewBroadcaster creates a Broadcaster and starts its dispatch goroutine.
func RunNewBroadcaster[T any]() *Broadcaster[T] {
	broadcaster := &Broadcaster[T]{
		in:          make(chan T, 1),
		subscribers: make(map[chan T]struct{}),
	}
	go broadcaster.dispatch()
	return broadcaster
}

func (broadcaster *Broadcaster[T]) dispatch() {
	for {
		msg, ok := <-broadcaster.in
		if !ok {
			broadcaster.mu.Lock()
			for ch := range broadcaster.subscribers {
				close(ch)
			}
			broadcaster.stopped = true
			broadcaster.mu.Unlock()
			logger.Println("broadcaster stopped")
			return
		}

		// Snapshot the subscriber set so the lock isn't held while sending.
		broadcaster.mu.Lock()
		subscribers := make([]chan T, 0, len(broadcaster.subscribers))
		for ch := range broadcaster.subscribers {
			subscribers = append(subscribers, ch)
		}
		broadcaster.mu.Unlock()

		for _, ch := range subscribers {
			sendLatest(ch, msg)
		}
	}
}

// sendLatest delivers msg without blocking by evicting a stale value when the
// channel is full.
func sendLatest[T any](ch chan T, msg T) {
	select {
	case ch <- msg:
	default:
		select {
		case <-ch:
		default:
		}
		ch <- msg
	}
}

// Stop shuts the broadcaster down and closes every subscriber channel.
func (broadcaster *Broadcaster[T]) Stop() {
	close(broadcaster.in)
}

// Subscribe registers a new subscriber channel. Fails once the broadcaster
// has been stopped.
func (broadcaster *Broadcaster[T]) Subscribe() (chan T, error) {
	// Buffer of 1 so stale notifications can be dropped without blocking.
	ch := make(chan T, 1)
	broadcaster.mu.Lock()
	defer broadcaster.mu.Unlock()
	if broadcaster.stopped {
		return nil, fmt.Errorf("failed to subscribe: broadcaster is stopped")
	}
	broadcaster.subscribers[ch] = struct{}{}
	return ch, nil
}

// Unsubscribe removes a subscriber and closes its channel unless the
// broadcaster already closed it during Stop.
func (broadcaster *Broadcaster[T]) Unsubscribe(ch chan T) {
	broadcaster.mu.Lock()
	delete(broadcaster.subscribers, ch)
	stopped := broadcaster.stopped
	broadcaster.mu.Unlock()
	if !stopped {
		close(ch)
	}
}

// Publish hands a message to the dispatch goroutine, evicting the previous
// one when it hasn't been picked up yet.
func (broadcaster *Broadcaster[T]) Publish(msg T) {
	sendLatest(broadcaster.in, msg)
}
