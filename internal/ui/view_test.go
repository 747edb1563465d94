package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderDrawnButtonShowsFocus(t *testing.T) {
	focused := renderDrawn(drawn{kind: widgetButton, text: "Next", active: true}, defaultWrapWidth)
	unfocused := renderDrawn(drawn{kind: widgetButton, text: "Next", active: false}, defaultWrapWidth)
	require.Contains(t, focused, "Next")
	require.Contains(t, unfocused, "Next")
	require.NotEqual(t, focused, unfocused)
}

func TestRenderDrawnRadioMarksSelected(t *testing.T) {
	out := renderDrawn(drawn{kind: widgetRadio, text: "Pick one", options: []string{"a", "b"}, radio: 1}, defaultWrapWidth)
	require.True(t, strings.Contains(out, "(x) b"))
	require.True(t, strings.Contains(out, "( ) a"))
}

func TestRenderDrawnCheckMarksToggled(t *testing.T) {
	out := renderDrawn(drawn{kind: widgetCheck, text: "Pick any", options: []string{"a", "b"}, checked: map[int]bool{1: true}}, defaultWrapWidth)
	require.True(t, strings.Contains(out, "[x] b"))
	require.True(t, strings.Contains(out, "[ ] a"))
}

func TestRenderDrawnIndentsByDepth(t *testing.T) {
	shallow := renderDrawn(drawn{kind: widgetText, text: "hi", depth: 0}, defaultWrapWidth)
	deep := renderDrawn(drawn{kind: widgetText, text: "hi", depth: 2}, defaultWrapWidth)
	require.True(t, len(deep) > len(shallow))
}
