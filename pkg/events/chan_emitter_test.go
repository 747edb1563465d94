package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChanEmitterDeliversToSubscriber(t *testing.T) {
	e := NewChanEmitter(4)
	sub := e.Subscribe()

	e.Emit(context.Background(), Event{Type: EventBlockFinished, Block: "warmup"})

	select {
	case ev := <-sub.Events():
		assert.Equal(t, EventBlockFinished, ev.Type)
		assert.Equal(t, "warmup", ev.Block)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestChanEmitterCloseStopsFurtherEmit(t *testing.T) {
	e := NewChanEmitter(1)
	sub := e.Subscribe()
	e.Close()

	e.Emit(context.Background(), Event{Type: EventSyncComplete})

	_, ok := <-sub.Events()
	assert.False(t, ok, "channel should be closed with no pending events")
}

func TestChanEmitterEmitRespectsContextCancellation(t *testing.T) {
	e := NewChanEmitter(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		e.Emit(ctx, Event{Type: EventBlockCrashed})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Emit should return once ctx is done")
	}
}

func TestFanoutCallsEveryCallbacks(t *testing.T) {
	var a, b int
	f := Fanout{countingCallbacks{&a}, countingCallbacks{&b}}
	f.BlockFinished()
	require.Equal(t, 1, a)
	require.Equal(t, 1, b)
}

type countingCallbacks struct{ n *int }

func (c countingCallbacks) LoadComplete()           {}
func (c countingCallbacks) BlockFinished()          { *c.n++ }
func (c countingCallbacks) BlockCrashed(error)      {}
func (c countingCallbacks) BlockInterrupted(string) {}
func (c countingCallbacks) SyncComplete()           {}
func (c countingCallbacks) AsyncComplete(error)     {}
