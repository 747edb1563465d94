package events

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSchedulerCallbacksEmitsTaggedEvents(t *testing.T) {
	e := NewChanEmitter(8)
	sub := e.Subscribe()
	cb := SchedulerCallbacks{Emitter: e, Block: "trial-1"}

	cb.BlockCrashed(errors.New("boom"))
	cb.BlockInterrupted("double escape")

	ev := recv(t, sub)
	require.Equal(t, EventBlockCrashed, ev.Type)
	require.Equal(t, "trial-1", ev.Block)
	require.Equal(t, "boom", ev.Data.(ErrorData).Err.Error())

	ev = recv(t, sub)
	require.Equal(t, EventBlockInterrupted, ev.Type)
	require.Equal(t, "double escape", ev.Data.(ReasonData).Reason)
}

func TestSchedulerCallbacksDefaultsToBackgroundContext(t *testing.T) {
	e := NewChanEmitter(1)
	sub := e.Subscribe()
	cb := SchedulerCallbacks{Emitter: e}

	cb.SyncComplete()

	ev := recv(t, sub)
	require.Equal(t, EventSyncComplete, ev.Type)
}

func recv(t *testing.T, sub Subscriber) Event {
	t.Helper()
	select {
	case ev := <-sub.Events():
		return ev
	case <-time.After(time.Second):
		t.Fatal("no event received")
		return Event{}
	}
}
