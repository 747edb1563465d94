package core

import (
	"testing"

	"github.com/ilkoid/taskcore/pkg/action"
	"github.com/ilkoid/taskcore/pkg/signal"
	"github.com/stretchr/testify/require"
)

func TestPointerInitRejectsNoOutputsAndNoGroup(t *testing.T) {
	p := &Pointer{Inner: nilNode()}
	_, err := p.Init()
	require.Error(t, err)
}

func TestPointerInitRejectsMissingInner(t *testing.T) {
	p := &Pointer{Group: "clicks"}
	_, err := p.Init()
	require.Error(t, err)
}

func TestPointerClickRecordsRTCoordAccuracyAndGroup(t *testing.T) {
	const (
		outRT       signal.ID = 1
		outCoord    signal.ID = 2
		outAccuracy signal.ID = 3
	)
	p := &Pointer{
		Inner:       nilNode(),
		Group:       "clicks",
		OutRT:       outRT,
		OutCoord:    outCoord,
		OutAccuracy: outAccuracy,
	}
	require.NoError(t, action.InitTree(&action.Node{Tag: "pointer", Value: p}))

	aw := &stubAsyncWriter{}
	stateful, err := p.Stateful(nil, action.DefaultConfig(), nil, aw)
	require.NoError(t, err)

	live, ok := stateful.(*livePointer)
	require.True(t, ok)

	state := signal.NewState(nil)
	_, err = live.Start(state)
	require.NoError(t, err)

	sig := live.click(12, 34)

	rt, ok := sig[outRT].AsFloat()
	require.True(t, ok)
	require.GreaterOrEqual(t, rt, 0.0)

	coord := sig[outCoord].Array
	require.Len(t, coord, 2)
	require.Equal(t, 12.0, coord[0].Float)
	require.Equal(t, 34.0, coord[1].Float)

	accuracy, ok := sig[outAccuracy].AsFloat()
	require.True(t, ok)
	require.Equal(t, 0.0, accuracy)

	entries := aw.snapshot()
	require.Len(t, entries, 1)
	require.Equal(t, "clicks", entries[0].Group)
	require.Equal(t, "click", entries[0].Name)

	fields := entries[0].Value.Map
	require.GreaterOrEqual(t, fields["rt"].Float, 0.0)
	require.Equal(t, 12.0, fields["x"].Float)
	require.Equal(t, 34.0, fields["y"].Float)
}

func TestPointerClickWithoutOutputsOnlyAppendsToGroup(t *testing.T) {
	p := &Pointer{Inner: nilNode(), Group: "clicks"}
	require.NoError(t, action.InitTree(&action.Node{Tag: "pointer", Value: p}))

	aw := &stubAsyncWriter{}
	stateful, err := p.Stateful(nil, action.DefaultConfig(), nil, aw)
	require.NoError(t, err)
	live := stateful.(*livePointer)

	state := signal.NewState(nil)
	_, err = live.Start(state)
	require.NoError(t, err)

	sig := live.click(1, 2)
	require.Empty(t, sig)
	require.Len(t, aw.snapshot(), 1)
}
