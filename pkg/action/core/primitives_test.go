package core

import (
	"testing"
	"time"

	"github.com/ilkoid/taskcore/pkg/action"
	"github.com/ilkoid/taskcore/pkg/resource"
	"github.com/ilkoid/taskcore/pkg/signal"
	"github.com/stretchr/testify/require"
)

func TestNilFinishesImmediately(t *testing.T) {
	n := &Nil{}
	stateless, err := n.Init()
	require.NoError(t, err)

	live, err := stateless.Stateful(nil, action.DefaultConfig(), nil, nil)
	require.NoError(t, err)

	_, err = live.Start(signal.NewState(nil))
	require.NoError(t, err)

	over, err := live.IsOver()
	require.NoError(t, err)
	require.True(t, over)
	require.Equal(t, action.Props(0), live.Props())
}

func TestCounterDecrementsOnClickAndFinishesAtZero(t *testing.T) {
	c := &Counter{From: 2}
	stateless, err := c.Init()
	require.NoError(t, err)

	live, err := stateless.Stateful(nil, action.DefaultConfig(), nil, nil)
	require.NoError(t, err)
	require.True(t, live.Props().IsVisual())

	state := signal.NewState(nil)
	_, err = live.Start(state)
	require.NoError(t, err)

	over, err := live.IsOver()
	require.NoError(t, err)
	require.False(t, over)

	require.NoError(t, live.Show(&clickingUI{click: true}, state))
	over, err = live.IsOver()
	require.NoError(t, err)
	require.False(t, over)

	require.NoError(t, live.Show(&clickingUI{click: true}, state))
	over, err = live.IsOver()
	require.NoError(t, err)
	require.True(t, over)
}

// clickingUI is a minimal action.UI stub whose Button always returns click.
type clickingUI struct {
	click bool
}

func (u *clickingUI) Text(string)                                           {}
func (u *clickingUI) Styled(string, string)                                 {}
func (u *clickingUI) Button(string) bool                                    { return u.click }
func (u *clickingUI) Image(*resource.DecodedImage, int)                     {}
func (u *clickingUI) Slider(string, float64) float64                        { return 0 }
func (u *clickingUI) RadioGroup(string, []string, int) int                  { return -1 }
func (u *clickingUI) CheckGroup(string, []string, map[int]bool) map[int]bool { return nil }
func (u *clickingUI) TextInput(string, bool, string) string                 { return "" }
func (u *clickingUI) Rect(int, int, string) action.UI                       { return u }

func TestMergeForwardsAnyMatchingInput(t *testing.T) {
	const (
		inA signal.ID = 1
		inB signal.ID = 2
		out signal.ID = 3
	)
	m := &Merge{InMany: []signal.ID{inA, inB}, OutOne: out}
	stateless, err := m.Init()
	require.NoError(t, err)

	live, err := stateless.Stateful(nil, action.DefaultConfig(), nil, nil)
	require.NoError(t, err)
	require.True(t, live.Props().IsInfinite())

	state := signal.NewState(map[signal.ID]signal.Value{inB: signal.Int(7)})
	sig, err := live.Update(action.StateChanged(0, signal.NewSet(inB)), state)
	require.NoError(t, err)
	require.Equal(t, signal.Int(7), sig[out])

	over, err := live.IsOver()
	require.NoError(t, err)
	require.False(t, over)
}

func TestMergeIgnoresUnrelatedChanges(t *testing.T) {
	const (
		inA  signal.ID = 1
		out  signal.ID = 2
		other signal.ID = 3
	)
	m := &Merge{InMany: []signal.ID{inA}, OutOne: out}
	stateless, err := m.Init()
	require.NoError(t, err)
	live, err := stateless.Stateful(nil, action.DefaultConfig(), nil, nil)
	require.NoError(t, err)

	state := signal.NewState(nil)
	sig, err := live.Update(action.StateChanged(0, signal.NewSet(other)), state)
	require.NoError(t, err)
	require.Empty(t, sig)
}

func TestTimerRecordsElapsedAndEmitsOutDuration(t *testing.T) {
	const dur signal.ID = 1
	tm := &Timer{Name: "tic", OutDuration: dur}
	stateless, err := tm.Init()
	require.NoError(t, err)

	aw := &stubAsyncWriter{}
	live, err := stateless.Stateful(nil, action.DefaultConfig(), nil, aw)
	require.NoError(t, err)
	require.True(t, live.Props().IsInfinite())

	state := signal.NewState(nil)
	_, err = live.Start(state)
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)

	sig, err := live.Stop(state)
	require.NoError(t, err)
	f, ok := sig[dur].AsFloat()
	require.True(t, ok)
	require.GreaterOrEqual(t, f, 0.0)

	entries := aw.snapshot()
	require.Len(t, entries, 1)
	require.Equal(t, "timer", entries[0].Group)
	require.Equal(t, "tic", entries[0].Name)
}

func TestTimerStopIsIdempotent(t *testing.T) {
	tm := &Timer{Name: "t"}
	stateless, err := tm.Init()
	require.NoError(t, err)
	aw := &stubAsyncWriter{}
	live, err := stateless.Stateful(nil, action.DefaultConfig(), nil, aw)
	require.NoError(t, err)

	state := signal.NewState(nil)
	_, err = live.Start(state)
	require.NoError(t, err)
	_, err = live.Stop(state)
	require.NoError(t, err)
	_, err = live.Stop(state)
	require.NoError(t, err)
	require.Len(t, aw.snapshot(), 1)
}

func TestWaitFiresAfterDurationAndPokes(t *testing.T) {
	w := &Wait{Duration: 0.01}
	stateless, err := w.Init()
	require.NoError(t, err)

	sw := &stubSyncWriter{}
	live, err := stateless.Stateful(nil, action.DefaultConfig(), sw, nil)
	require.NoError(t, err)

	state := signal.NewState(nil)
	_, err = live.Start(state)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		over, err := live.IsOver()
		return err == nil && over
	}, time.Second, time.Millisecond)
	require.GreaterOrEqual(t, sw.pokeCount(), 1)

	_, err = live.Stop(state)
	require.NoError(t, err)
}

func TestWaitRejectsNegativeDuration(t *testing.T) {
	w := &Wait{Duration: -1}
	_, err := w.Init()
	require.Error(t, err)
}

func TestWaitStopBeforeFireSuppressesPoke(t *testing.T) {
	w := &Wait{Duration: 10}
	stateless, err := w.Init()
	require.NoError(t, err)

	sw := &stubSyncWriter{}
	live, err := stateless.Stateful(nil, action.DefaultConfig(), sw, nil)
	require.NoError(t, err)

	state := signal.NewState(nil)
	_, err = live.Start(state)
	require.NoError(t, err)
	_, err = live.Stop(state)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	require.Equal(t, 0, sw.pokeCount())
}
