package core

import (
	"testing"
	"time"

	"github.com/ilkoid/taskcore/pkg/action"
	"github.com/ilkoid/taskcore/pkg/signal"
	"github.com/stretchr/testify/require"
)

func TestRepeatIsAlwaysInfinite(t *testing.T) {
	r := &Repeat{Inner: nilNode()}
	stateless, err := r.Init()
	require.NoError(t, err)

	live, err := stateless.Stateful(nil, action.DefaultConfig(), &stubSyncWriter{}, nil)
	require.NoError(t, err)
	defer func() { _, _ = live.Stop(signal.NewState(nil)) }()

	require.True(t, live.Props().IsInfinite())
}

func TestRepeatSwapsInAFreshInstanceWhenCurrentCompletes(t *testing.T) {
	r := &Repeat{Inner: nilNode(), Prefetch: 2}
	stateless, err := r.Init()
	require.NoError(t, err)

	live, err := stateless.Stateful(nil, action.DefaultConfig(), &stubSyncWriter{}, nil)
	require.NoError(t, err)
	defer func() { _, _ = live.Stop(signal.NewState(nil)) }()

	state := signal.NewState(nil)
	_, err = live.Start(state)
	require.NoError(t, err)

	// Nil completes the instant it starts; Repeat should never itself
	// report over even after the current child finishes.
	require.Eventually(t, func() bool {
		over, err := live.IsOver()
		require.NoError(t, err)
		return !over
	}, time.Second, time.Millisecond)
}

func TestRepeatDefaultsPrefetchToOne(t *testing.T) {
	r := &Repeat{Inner: nilNode()}
	stateless, err := r.Init()
	require.NoError(t, err)
	require.Equal(t, 1, r.Prefetch)
	_ = stateless
}

func TestRepeatStopTerminatesPrefetchLoop(t *testing.T) {
	r := &Repeat{Inner: nilNode(), Prefetch: 1}
	stateless, err := r.Init()
	require.NoError(t, err)

	live, err := stateless.Stateful(nil, action.DefaultConfig(), &stubSyncWriter{}, nil)
	require.NoError(t, err)

	state := signal.NewState(nil)
	_, err = live.Start(state)
	require.NoError(t, err)

	_, err = live.Stop(state)
	require.NoError(t, err)
}
