package ui

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSceneUIButtonFiresOnEnterWhenFocused(t *testing.T) {
	sc := &scene{focus: 0, key: "enter"}
	u := newSceneUI(sc)
	require.True(t, u.Button("Start"))
}

func TestSceneUIButtonIgnoresEnterWhenNotFocused(t *testing.T) {
	sc := &scene{focus: 1, key: "enter"}
	u := newSceneUI(sc)
	require.False(t, u.Button("Start"))
}

func TestSceneUISliderClampsToUnitRange(t *testing.T) {
	sc := &scene{focus: 0, key: "left"}
	u := newSceneUI(sc)
	require.Equal(t, 0.0, u.Slider("volume", 0.02))
}

func TestSceneUITextInputAppendsAndBackspaces(t *testing.T) {
	sc := &scene{focus: 0, textEdit: "hi"}
	u := newSceneUI(sc)
	require.Equal(t, "hi", u.TextInput("name", false, ""))

	sc2 := &scene{focus: 0, key: "backspace"}
	u2 := newSceneUI(sc2)
	require.Equal(t, "h", u2.TextInput("name", false, "hi"))
}

func TestSceneUIRectIndentsChildren(t *testing.T) {
	sc := &scene{}
	u := newSceneUI(sc)
	sub := u.Rect(10, 2, "")
	sub.Text("nested")
	require.Equal(t, 1, sc.items[0].depth)
}
