package core

import (
	"testing"
	"time"

	"github.com/ilkoid/taskcore/pkg/action"
	"github.com/ilkoid/taskcore/pkg/signal"
	"github.com/stretchr/testify/require"
)

func TestSwitchDispatchesOnControlValueAtStart(t *testing.T) {
	const control signal.ID = 1
	s := &Switch{
		Control: control,
		Default: 0,
		Items:   []*action.Node{nilNode(), {Tag: "block", Value: &blockingNode{}}},
	}
	require.NoError(t, action.InitTree(&action.Node{Tag: "switch", Value: s}))

	live, err := s.Stateful(nil, action.DefaultConfig(), nil, nil)
	require.NoError(t, err)

	state := signal.NewState(map[signal.ID]signal.Value{control: signal.Int(1)})
	_, err = live.Start(state)
	require.NoError(t, err)

	over, err := live.IsOver()
	require.NoError(t, err)
	require.False(t, over, "index 1 picks the non-terminating blockingNode")
}

func TestSwitchFallsBackToDefaultWhenControlUnset(t *testing.T) {
	const control signal.ID = 1
	s := &Switch{Control: control, Default: 0, Items: []*action.Node{nilNode(), nilNode()}}
	require.NoError(t, action.InitTree(&action.Node{Tag: "switch", Value: s}))

	live, err := s.Stateful(nil, action.DefaultConfig(), nil, nil)
	require.NoError(t, err)

	state := signal.NewState(nil)
	_, err = live.Start(state)
	require.NoError(t, err)

	over, err := live.IsOver()
	require.NoError(t, err)
	require.True(t, over)
}

func TestSwitchRejectsOutOfRangeDefault(t *testing.T) {
	s := &Switch{Default: 5, Items: []*action.Node{nilNode()}}
	_, err := s.Init()
	require.Error(t, err)
}

func TestBranchLatchesLastObservedValueBeforeStart(t *testing.T) {
	const control signal.ID = 1
	b := &Branch{
		Default:   0,
		InControl: control,
		Items:     []*action.Node{nilNode(), {Tag: "block", Value: &blockingNode{}}},
	}
	require.NoError(t, action.InitTree(&action.Node{Tag: "branch", Value: b}))

	live, err := b.Stateful(nil, action.DefaultConfig(), nil, nil)
	require.NoError(t, err)

	state := signal.NewState(map[signal.ID]signal.Value{control: signal.Int(1)})
	_, err = live.Update(action.StateChanged(0, signal.NewSet(control)), state)
	require.NoError(t, err)

	_, err = live.Start(state)
	require.NoError(t, err)

	over, err := live.IsOver()
	require.NoError(t, err)
	require.False(t, over, "latched index 1 before Start picks the non-terminating child")
}

func TestBranchRejectsOutOfRangeDefault(t *testing.T) {
	b := &Branch{Default: -1, Items: []*action.Node{nilNode()}}
	_, err := b.Init()
	require.Error(t, err)
}

func TestUntilTriggersOnConditionAtStart(t *testing.T) {
	const cond signal.ID = 1
	u := &Until{InCondition: cond, Inner: nilNode()}
	require.NoError(t, action.InitTree(&action.Node{Tag: "until", Value: u}))

	live, err := u.Stateful(nil, action.DefaultConfig(), nil, nil)
	require.NoError(t, err)

	state := signal.NewState(map[signal.ID]signal.Value{cond: signal.Bool(true)})
	_, err = live.Start(state)
	require.NoError(t, err)

	over, err := live.IsOver()
	require.NoError(t, err)
	require.True(t, over)
}

func TestUntilTriggersOnEventDuringUpdate(t *testing.T) {
	const event signal.ID = 1
	u := &Until{InEvent: event, Inner: &action.Node{Tag: "block", Value: &blockingNode{}}}
	require.NoError(t, action.InitTree(&action.Node{Tag: "until", Value: u}))

	live, err := u.Stateful(nil, action.DefaultConfig(), nil, nil)
	require.NoError(t, err)

	state := signal.NewState(nil)
	_, err = live.Start(state)
	require.NoError(t, err)
	over, err := live.IsOver()
	require.NoError(t, err)
	require.False(t, over)

	_, err = live.Update(action.StateChanged(0, signal.NewSet(event)), state)
	require.NoError(t, err)
	over, err = live.IsOver()
	require.NoError(t, err)
	require.True(t, over)
}

func TestUntilRequiresEventOrCondition(t *testing.T) {
	u := &Until{Inner: nilNode()}
	_, err := u.Init()
	require.Error(t, err)
}

func TestTimeoutClearsInfiniteAndExpiresOnDeadline(t *testing.T) {
	to := &Timeout{Dur: 0.01, Inner: &action.Node{Tag: "block", Value: &blockingNode{}}}
	require.NoError(t, action.InitTree(&action.Node{Tag: "timeout", Value: to}))

	sw := &stubSyncWriter{}
	live, err := to.Stateful(nil, action.DefaultConfig(), sw, nil)
	require.NoError(t, err)
	require.False(t, live.Props().IsInfinite())

	state := signal.NewState(nil)
	_, err = live.Start(state)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		over, err := live.IsOver()
		return err == nil && over
	}, time.Second, time.Millisecond)

	_, err = live.Stop(state)
	require.NoError(t, err)
}

func TestTimeoutRejectsNegativeDuration(t *testing.T) {
	to := &Timeout{Dur: -1, Inner: nilNode()}
	_, err := to.Init()
	require.Error(t, err)
}

func TestDelayedWithholdsInnerUntilFired(t *testing.T) {
	d := &Delayed{Dur: 0.01, Inner: nilNode()}
	require.NoError(t, action.InitTree(&action.Node{Tag: "delayed", Value: d}))

	sw := &stubSyncWriter{}
	live, err := d.Stateful(nil, action.DefaultConfig(), sw, nil)
	require.NoError(t, err)
	require.Equal(t, action.Props(0), live.Props())

	state := signal.NewState(nil)
	_, err = live.Start(state)
	require.NoError(t, err)

	over, err := live.IsOver()
	require.NoError(t, err)
	require.False(t, over)

	require.Eventually(t, func() bool {
		_, err := live.Update(action.UpdateGraph(), state)
		require.NoError(t, err)
		over, err := live.IsOver()
		return err == nil && over
	}, time.Second, time.Millisecond)
}

func TestDelayedRequiresInner(t *testing.T) {
	d := &Delayed{Dur: 1}
	_, err := d.Init()
	require.Error(t, err)
}
