package scheduler

import (
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/ilkoid/taskcore/pkg/action"
	"github.com/ilkoid/taskcore/pkg/action/core"
	"github.com/ilkoid/taskcore/pkg/datalog"
	"github.com/ilkoid/taskcore/pkg/resource"
	"github.com/stretchr/testify/require"
)

// TestMain verifies no goroutine started by a Scheduler (Sync/Async
// processor loops, timers) outlives the test that started it.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type stubCallbacks struct {
	loadComplete   chan struct{}
	blockFinished  chan struct{}
	blockCrashed   chan error
	interrupted    chan string
	syncComplete   chan struct{}
	asyncComplete  chan error
}

func newStubCallbacks() *stubCallbacks {
	return &stubCallbacks{
		loadComplete:  make(chan struct{}, 1),
		blockFinished: make(chan struct{}, 8),
		blockCrashed:  make(chan error, 1),
		interrupted:   make(chan string, 1),
		syncComplete:  make(chan struct{}, 1),
		asyncComplete: make(chan error, 1),
	}
}

func (c *stubCallbacks) LoadComplete()           { c.loadComplete <- struct{}{} }
func (c *stubCallbacks) BlockFinished()          { c.blockFinished <- struct{}{} }
func (c *stubCallbacks) BlockCrashed(err error)  { c.blockCrashed <- err }
func (c *stubCallbacks) BlockInterrupted(r string) { c.interrupted <- r }
func (c *stubCallbacks) SyncComplete()           { c.syncComplete <- struct{}{} }
func (c *stubCallbacks) AsyncComplete(err error) { c.asyncComplete <- err }

func TestSchedulerRunsEventToCompletion(t *testing.T) {
	res := resource.NewManager(t.TempDir())
	node := &action.Node{Tag: "event", Value: &core.Event{Name: "e1"}}
	require.NoError(t, action.InitTree(node))

	cb := newStubCallbacks()
	l, err := datalog.New(t.TempDir(), "subj", "blockA", datalog.FormatJSON)
	require.NoError(t, err)

	sched, err := New(node, action.DefaultConfig(), res, l, nil, cb, Info{})
	require.NoError(t, err)

	select {
	case <-cb.loadComplete:
	case <-time.After(time.Second):
		t.Fatal("LoadComplete not received")
	}

	sched.Go()

	select {
	case <-cb.blockFinished:
	case <-time.After(time.Second):
		t.Fatal("BlockFinished not received")
	}

	sched.Finish()

	select {
	case <-cb.syncComplete:
	case <-time.After(time.Second):
		t.Fatal("SyncComplete not received")
	}
	select {
	case err := <-cb.asyncComplete:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("AsyncComplete not received")
	}
}

func TestSchedulerDoubleEscapeInterrupts(t *testing.T) {
	res := resource.NewManager(t.TempDir())
	node := &action.Node{Tag: "clock", Value: &core.Clock{Step: 1, From: 0, OutTic: 1}}
	require.NoError(t, action.InitTree(node))

	cb := newStubCallbacks()
	l, err := datalog.New(t.TempDir(), "subj", "blockB", datalog.FormatJSON)
	require.NoError(t, err)

	sched, err := New(node, action.DefaultConfig(), res, l, nil, cb, Info{})
	require.NoError(t, err)
	<-cb.loadComplete
	sched.Go()

	esc := map[string]struct{}{"escape": {}}
	sched.KeyPress(0, esc)
	sched.KeyPress(100*time.Millisecond, esc)

	select {
	case reason := <-cb.interrupted:
		require.Equal(t, "user request", reason)
	case <-time.After(time.Second):
		t.Fatal("BlockInterrupted not received")
	}

	sched.Finish()
	<-cb.syncComplete
}
