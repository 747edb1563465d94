package core

import (
	"testing"

	"github.com/ilkoid/taskcore/pkg/action"
	"github.com/ilkoid/taskcore/pkg/resource"
	"github.com/ilkoid/taskcore/pkg/signal"
	"github.com/stretchr/testify/require"
)

func nilNode() *action.Node {
	return &action.Node{Tag: "nil", Value: &Nil{}}
}

func TestSeqRunsChildrenInOrderAndFinishesAfterLast(t *testing.T) {
	s := &Seq{Items: []*action.Node{nilNode(), nilNode(), nilNode()}}
	require.NoError(t, action.InitTree(&action.Node{Tag: "seq", Value: s}))

	live, err := s.Stateful(nil, action.DefaultConfig(), nil, nil)
	require.NoError(t, err)

	state := signal.NewState(nil)
	_, err = live.Start(state)
	require.NoError(t, err)

	// Each child is Nil, which completes the instant it starts, so Start's
	// internal advance() should have already walked the cursor to the end.
	over, err := live.IsOver()
	require.NoError(t, err)
	require.True(t, over)
}

func TestSeqWithEmptyChildrenFinishesImmediately(t *testing.T) {
	s := &Seq{}
	stateless, err := s.Init()
	require.NoError(t, err)
	live, err := stateless.Stateful(nil, action.DefaultConfig(), nil, nil)
	require.NoError(t, err)

	state := signal.NewState(nil)
	_, err = live.Start(state)
	require.NoError(t, err)

	over, err := live.IsOver()
	require.NoError(t, err)
	require.True(t, over)
}

func TestSeqRejectsNilChild(t *testing.T) {
	s := &Seq{Items: []*action.Node{nil}}
	_, err := s.Init()
	require.Error(t, err)
}

func TestParRequireAllWaitsForEveryPrimaryChild(t *testing.T) {
	blockA := &blockingNode{}
	blockB := &blockingNode{}
	p := &Par{
		Primary: []*action.Node{
			{Tag: "block", Value: blockA},
			{Tag: "block", Value: blockB},
		},
		Require: RequireAll,
	}
	require.NoError(t, action.InitTree(&action.Node{Tag: "par", Value: p}))

	live, err := p.Stateful(nil, action.DefaultConfig(), nil, nil)
	require.NoError(t, err)

	state := signal.NewState(nil)
	_, err = live.Start(state)
	require.NoError(t, err)

	over, err := live.IsOver()
	require.NoError(t, err)
	require.False(t, over)

	blockA.done = true
	_, err = live.Update(action.UpdateGraph(), state)
	require.NoError(t, err)
	over, err = live.IsOver()
	require.NoError(t, err)
	require.False(t, over, "only one of two primary children finished")

	blockB.done = true
	_, err = live.Update(action.UpdateGraph(), state)
	require.NoError(t, err)
	over, err = live.IsOver()
	require.NoError(t, err)
	require.True(t, over)
}

func TestParRequireAnyCompletesOnFirstPrimaryChild(t *testing.T) {
	blockA := &blockingNode{}
	blockB := &blockingNode{}
	p := &Par{
		Primary: []*action.Node{
			{Tag: "block", Value: blockA},
			{Tag: "block", Value: blockB},
		},
		Require: RequireAny,
	}
	require.NoError(t, action.InitTree(&action.Node{Tag: "par", Value: p}))

	live, err := p.Stateful(nil, action.DefaultConfig(), nil, nil)
	require.NoError(t, err)

	state := signal.NewState(nil)
	_, err = live.Start(state)
	require.NoError(t, err)

	blockA.done = true
	_, err = live.Update(action.UpdateGraph(), state)
	require.NoError(t, err)
	over, err := live.IsOver()
	require.NoError(t, err)
	require.True(t, over)
}

func TestParRejectsEmptyPrimary(t *testing.T) {
	p := &Par{}
	_, err := p.Init()
	require.Error(t, err)
}

func TestStackCompletesWhenEveryChildCompletes(t *testing.T) {
	s := &Stack{Items: []*action.Node{nilNode(), nilNode()}}
	require.NoError(t, action.InitTree(&action.Node{Tag: "stack", Value: s}))

	live, err := s.Stateful(nil, action.DefaultConfig(), nil, nil)
	require.NoError(t, err)

	state := signal.NewState(nil)
	_, err = live.Start(state)
	require.NoError(t, err)

	over, err := live.IsOver()
	require.NoError(t, err)
	require.True(t, over)
}

func TestStackRejectsMismatchedProportions(t *testing.T) {
	s := &Stack{Items: []*action.Node{nilNode()}, Proportions: []float64{0.5, 0.5}}
	_, err := s.Init()
	require.Error(t, err)
}

func TestStackRejectsProportionsOverOne(t *testing.T) {
	s := &Stack{Items: []*action.Node{nilNode(), nilNode()}, Proportions: []float64{0.7, 0.7}}
	_, err := s.Init()
	require.Error(t, err)
}

// blockingNode is a Stateless/Live combined stub for testing combinators
// whose completion logic depends on a child that does not finish the
// instant it starts; the test flips done directly between Update calls.
type blockingNode struct {
	done bool
}

func (b *blockingNode) Tag() string                            { return "block" }
func (b *blockingNode) Init() (action.Stateless, error)        { return b, nil }
func (b *blockingNode) Resources(action.Config) []resource.Addr { return nil }
func (b *blockingNode) InSignals() signal.Set                  { return signal.NewSet() }
func (b *blockingNode) OutSignals() signal.Set                 { return signal.NewSet() }

func (b *blockingNode) Stateful(*resource.Manager, action.Config, action.SyncWriter, action.AsyncWriter) (action.Live, error) {
	return b, nil
}

func (b *blockingNode) Props() action.Props { return 0 }
func (b *blockingNode) IsOver() (bool, error) { return b.done, nil }
func (b *blockingNode) Start(*signal.State) (signal.Signal, error) { return noSignals, nil }
func (b *blockingNode) Update(action.ActionSignal, *signal.State) (signal.Signal, error) {
	return noSignals, nil
}
func (b *blockingNode) Show(action.UI, *signal.State) error { return nil }
func (b *blockingNode) Stop(*signal.State) (signal.Signal, error) { return noSignals, nil }
