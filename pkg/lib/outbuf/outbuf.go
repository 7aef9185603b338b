// Package outbuf provides an append-only buffer for child process output.
// A buffer accumulates chunks as the child writes them and can replay the
// whole history to late subscribers while still delivering new chunks live.
package outbuf

import (
	"io"
	"log"
	"sync/atomic"

	"github.com/google/uuid"
)

var logger = log.New(io.Discard, "outbuf: ", log.LstdFlags)

// node is an element of the singly linked chunk list. A sentinel head keeps
// the append path free of special cases.
type node struct {
	data []byte
	next atomic.Pointer[node]
}

// Buffer is a lock-free, append-only list of byte chunks. Concurrent Append
// calls are safe via atomic pointer publication; readers walk the list
// without locks and observe a best-effort snapshot. A single producer (the
// child's stdio pump) is assumed for the tail update.
type Buffer struct {
	head *node // sentinel, immutable
	tail *node // last element (sentinel when empty)

	broadcaster *Broadcaster[struct{}]
}

// RunNewBuffer creates an empty Buffer and starts its notification
// broadcaster.
func RunNewBuffer() *Buffer {
	sentinel := &node{}
	return &Buffer{
		head:        sentinel,
		tail:        sentinel,
		broadcaster: RunNewBroadcaster[struct{}](),
	}
}

// Stop marks the buffer complete: no further appends are expected and every
// subscription channel is closed once drained. Safe on a nil receiver.
func (b *Buffer) Stop() {
	if b == nil {
		return
	}
	b.broadcaster.Stop()
}

// Append adds a chunk to the end of the list and wakes subscribers. The slice
// is stored as-is; callers that reuse their buffer must pass a copy (Write
// does).
func (b *Buffer) Append(data []byte) {
	if b == nil {
		return
	}

	newTail := &node{data: data}
	b.tail.next.Store(newTail)
	b.tail = newTail

	b.broadcaster.Publish(struct{}{})
}

// Subscribe returns a channel that first replays every chunk appended so far
// and then delivers new chunks as they arrive. The channel is closed when the
// buffer is stopped and the replay is complete.
func (b *Buffer) Subscribe(capacity int) <-chan []byte {
	ch := make(chan []byte, capacity)
	notifier, err := b.broadcaster.Subscribe()
	if err == nil {
		go b.subscribeLive(notifier, ch)
	} else {
		// Buffer already stopped; a plain replay is all that is left.
		go b.subscribeReplay(ch)
	}
	return ch
}

func (b *Buffer) subscribeLive(notifier chan struct{}, ch chan []byte) {
	id := uuid.New()
	logger.Printf("%s live subscriber started", id)
	prev := b.head

	for {
		current := prev.next.Load()
		if current == nil {
			if _, ok := <-notifier; !ok {
				logger.Printf("%s notifier closed, finishing", id)
				// Deliver whatever landed between the last check and Stop.
				for current := prev.next.Load(); current != nil; current = current.next.Load() {
					ch <- current.data
				}
				close(ch)
				return
			}
			// Woken up; re-check the tail.
			continue
		}
		prev = current
		ch <- current.data
	}
}

func (b *Buffer) subscribeReplay(ch chan []byte) {
	id := uuid.New()
	logger.Printf("%s replay subscriber started", id)
	prev := b.head

	for {
		current := prev.next.Load()
		if current == nil {
			close(ch)
			return
		}
		prev = current
		ch <- current.data
	}
}

// ForEach iterates over stored chunks in insertion order. Iteration stops
// early when iter returns false. Safe on a nil receiver.
func (b *Buffer) ForEach(iter func([]byte) bool) {
	if b == nil || iter == nil {
		return
	}
	cur := b.head.next.Load() // skip sentinel
	for cur != nil {
		if !iter(cur.data) {
			return
		}
		cur = cur.next.Load()
	}
}

// Bytes concatenates all stored chunks.
func (b *Buffer) Bytes() []byte {
	total := 0
	chunks := make([][]byte, 0, 16)
	b.ForEach(func(chunk []byte) bool {
		chunks = append(chunks, chunk)
		total += len(chunk)
		return true
	})
	out := make([]byte, 0, total)
	for _, chunk := range chunks {
		out = append(out, chunk...)
	}
	return out
}

// String returns all stored chunks concatenated into a single string.
func (b *Buffer) String() string {
	return string(b.Bytes())
}
