package events

import (
	"context"
	"sync"
)

// ChanEmitter is the default Emitter: a single buffered channel shared by
// every Subscribe call. Each event is received by exactly one reader; it
// is not copied to every subscriber.
type ChanEmitter struct {
	mu     sync.RWMutex
	ch     chan Event
	closed bool
}

// NewChanEmitter builds a ChanEmitter with a buffered channel; buffer 0
// makes Emit block until a subscriber reads.
func NewChanEmitter(buffer int) *ChanEmitter {
	return &ChanEmitter{ch: make(chan Event, buffer)}
}

// Emit publishes event, or returns early if ctx is done or the emitter is
// closed.
func (e *ChanEmitter) Emit(ctx context.Context, event Event) {
	e.mu.RLock()
	closed := e.closed
	e.mu.RUnlock()
	if closed {
		return
	}
	select {
	case e.ch <- event:
	case <-ctx.Done():
	}
}

// Subscribe returns a Subscriber over the shared channel. It may be called
// more than once, but all Subscribers read the same channel, so readers
// compete for events rather than each seeing the whole stream.
func (e *ChanEmitter) Subscribe() Subscriber {
	return &chanSubscriber{ch: e.ch}
}

// Close stops further Emit calls and closes the channel.
func (e *ChanEmitter) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	close(e.ch)
}

type chanSubscriber struct {
	ch <-chan Event
}

func (s *chanSubscriber) Events() <-chan Event { return s.ch }

// Close is a no-op: the channel is shared and only ChanEmitter.Close
// actually closes it.
func (s *chanSubscriber) Close() {}

var _ Emitter = (*ChanEmitter)(nil)
var _ Subscriber = (*chanSubscriber)(nil)
