// Package ui is the bubbletea-backed realization of action.UI: one frame's worth of Show calls is recorded into a scene, which
// View then renders, and whose interactive widgets read/write the
// model's focus and edit state between frames.
package ui

import (
	"fmt"
	"strings"

	"github.com/ilkoid/taskcore/pkg/action"
	"github.com/ilkoid/taskcore/pkg/resource"
)

type widgetKind int

const (
	widgetText widgetKind = iota
	widgetButton
	widgetImage
	widgetSlider
	widgetRadio
	widgetCheck
	widgetInput
)

// drawn is one recorded draw call, in the order Show produced it.
type drawn struct {
	kind    widgetKind
	style   string
	text    string
	depth   int
	active  bool // true if this is the currently focused interactive widget
	options []string
	value   float64
	checked map[int]bool
	radio   int
}

// scene accumulates one frame's draw calls plus the running interactive
// widget count, so Model can size its focus cursor after Show returns.
type scene struct {
	items []drawn
	focus int // the widget index the model wants active this frame
	next  int // how many interactive widgets have been recorded so far

	// edits staged by Model before Show runs, consumed by the widget that
	// currently holds focus.
	key      string // a single logical key this frame ("up","down","enter","left","right","backspace","space","") or a literal rune
	textEdit string // appended to the focused TextInput's buffer this frame (raw rune text), "" if none
}

// sceneUI implements action.UI over a *scene, with depth tracking so
// nested Rects can indent their contents.
type sceneUI struct {
	s     *scene
	depth int
}

func newSceneUI(s *scene) *sceneUI { return &sceneUI{s: s} }

var _ action.UI = (*sceneUI)(nil)

func (u *sceneUI) Text(s string) {
	u.s.items = append(u.s.items, drawn{kind: widgetText, text: s, depth: u.depth})
}

func (u *sceneUI) Styled(style, s string) {
	u.s.items = append(u.s.items, drawn{kind: widgetText, style: style, text: s, depth: u.depth})
}

func (u *sceneUI) Button(label string) bool {
	idx := u.s.next
	u.s.next++
	active := idx == u.s.focus
	u.s.items = append(u.s.items, drawn{kind: widgetButton, text: label, depth: u.depth, active: active})
	if active && (u.s.key == "enter" || u.s.key == "space") {
		return true
	}
	return false
}

func (u *sceneUI) Image(img *resource.DecodedImage, width int) {
	var desc string
	switch {
	case img == nil:
		desc = "[image: none]"
	case img.SVG != "":
		desc = "[svg image]"
	default:
		desc = fmt.Sprintf("[image %dx%d]", img.Width, img.Height)
	}
	u.s.items = append(u.s.items, drawn{kind: widgetImage, text: desc, depth: u.depth})
}

func (u *sceneUI) Slider(label string, value float64) float64 {
	idx := u.s.next
	u.s.next++
	active := idx == u.s.focus
	if active {
		switch u.s.key {
		case "left":
			value -= 0.05
		case "right":
			value += 0.05
		}
		if value < 0 {
			value = 0
		}
		if value > 1 {
			value = 1
		}
	}
	u.s.items = append(u.s.items, drawn{kind: widgetSlider, text: label, value: value, depth: u.depth, active: active})
	return value
}

func (u *sceneUI) RadioGroup(label string, options []string, selected int) int {
	idx := u.s.next
	u.s.next++
	active := idx == u.s.focus
	if active && len(options) > 0 {
		switch u.s.key {
		case "up":
			selected--
		case "down":
			selected++
		}
		if selected < 0 {
			selected = 0
		}
		if selected >= len(options) {
			selected = len(options) - 1
		}
	}
	u.s.items = append(u.s.items, drawn{kind: widgetRadio, text: label, options: options, radio: selected, depth: u.depth, active: active})
	return selected
}

func (u *sceneUI) CheckGroup(label string, options []string, selected map[int]bool) map[int]bool {
	idx := u.s.next
	u.s.next++
	active := idx == u.s.focus
	if selected == nil {
		selected = map[int]bool{}
	}
	if active && len(options) > 0 && u.s.key == "space" {
		cursor := idx % len(options)
		selected[cursor] = !selected[cursor]
	}
	u.s.items = append(u.s.items, drawn{kind: widgetCheck, text: label, options: options, checked: selected, depth: u.depth, active: active})
	return selected
}

func (u *sceneUI) TextInput(label string, multiline bool, value string) string {
	idx := u.s.next
	u.s.next++
	active := idx == u.s.focus
	if active {
		if u.s.key == "backspace" && len(value) > 0 {
			value = value[:len(value)-1]
		}
		if u.s.textEdit != "" {
			value += u.s.textEdit
		}
	}
	u.s.items = append(u.s.items, drawn{kind: widgetInput, text: label + ": " + value, depth: u.depth, active: active})
	return value
}

func (u *sceneUI) Rect(width, height int, background string) action.UI {
	return &sceneUI{s: u.s, depth: u.depth + 1}
}

// indent renders a draw call's left margin, proportional to Rect nesting.
func indent(depth int) string { return strings.Repeat("  ", depth) }
