// Package action defines the uniform two-phase contract every task-tree
// node implements: a stateless Action description that
// serializes with the task, and a StatefulAction runtime instance
// materialized once per block run.
package action

import (
	"fmt"
	"time"

	"github.com/ilkoid/taskcore/pkg/resource"
	"github.com/ilkoid/taskcore/pkg/signal"
)

// Props is the visual/infinite bitset. A node is "static" iff both bits
// are set.
type Props uint8

const (
	Visual Props = 1 << iota
	Infinite
)

func (p Props) IsVisual() bool   { return p&Visual != 0 }
func (p Props) IsInfinite() bool { return p&Infinite != 0 }
func (p Props) IsStatic() bool   { return p == Visual|Infinite }

func (p Props) Union(other Props) Props { return p | other }

// TimePrecision selects how non-looping media decides it has finished.
type TimePrecision int

const (
	RespectIntervals TimePrecision = iota
	RespectBoundaries
)

// LogWhen selects which action lifecycle events are auto-logged.
type LogWhen int

const (
	LogNone LogWhen = iota
	LogStart
	LogStop
	LogStartAndStop
)

// LogFormat selects the Logger's on-disk serialization.
type LogFormat int

const (
	FormatJSON LogFormat = iota
	FormatYAML
	FormatRON
)

// Trigger is the narrow capability for firing external-device lifecycle
// events. The concrete type lives in
// pkg/trigger; this interface exists so pkg/action never imports it.
type Trigger interface {
	Fire(actionTag, phase, name string)
}

// Config is the process-wide run configuration. Every field has a
// process-wide base default (see DefaultConfig) that a Block's own cfg
// overrides field-by-field.
type Config struct {
	BlocksPerRow  int
	BaseVolume    float64
	TimePrecision TimePrecision
	LogFormat     LogFormat
	LogWhen       LogWhen
	UseTrigger    bool
	Trigger       Trigger // non-nil iff UseTrigger; fired by Event/Timer/Audio/Stream/Video
	Interpreter   string  // "goja" | "symbolic"
	StreamBackend string
	AudioBackend  string
	Background    string // e.g. "#000000"
}

// DefaultConfig is the process-wide base every Block.Config overrides.
func DefaultConfig() Config {
	return Config{
		BlocksPerRow:  4,
		BaseVolume:    1.0,
		TimePrecision: RespectIntervals,
		LogFormat:     FormatJSON,
		LogWhen:       LogStartAndStop,
		UseTrigger:    false,
		Interpreter:   "goja",
		StreamBackend: "default",
		AudioBackend:  "default",
		Background:    "#000000",
	}
}

// ActionSignal is the event delivered to a live node on each Sync pass.
// Exactly one Kind-selected field is meaningful.
type ActionSignal struct {
	Kind ActionSignalKind

	// KeyPress
	Time time.Duration
	Keys map[string]struct{}

	// StateChanged
	Changed signal.Set
}

type ActionSignalKind int

const (
	SigUpdateGraph ActionSignalKind = iota
	SigKeyPress
	SigStateChanged
)

func UpdateGraph() ActionSignal { return ActionSignal{Kind: SigUpdateGraph} }

func KeyPress(t time.Duration, keys map[string]struct{}) ActionSignal {
	return ActionSignal{Kind: SigKeyPress, Time: t, Keys: keys}
}

func StateChanged(t time.Duration, ids signal.Set) ActionSignal {
	return ActionSignal{Kind: SigStateChanged, Time: t, Changed: ids}
}

// SyncWriter is the narrow capability a node's helper threads hold to push
// work back onto the Sync queue. The concrete type lives in pkg/scheduler; this
// interface exists so pkg/action never imports pkg/scheduler.
type SyncWriter interface {
	// Emit posts a data-carrying Emit(t, sig) onto the Sync queue: sig is
	// written into State and the tree receives a StateChanged pass.
	Emit(t time.Duration, sig signal.Signal)
	// Poke posts a bare UpdateGraph onto the Sync queue, asking the tree
	// for another completion-check pass without any state change (used by
	// sleepers/tickers that only need is_over re-evaluated).
	Poke()
	// Repaint requests a GUI repaint without a state change.
	Repaint()
}

// AsyncWriter is the narrow capability for posting logger work.
type AsyncWriter interface {
	Append(group string, name string, value signal.Value)
	Extend(group string, entries []NameValue)
	Write(name string, value signal.Value)
}

type NameValue struct {
	Name  string
	Value signal.Value
}

// UI is the minimal per-frame drawing surface a visual StatefulAction's
// Show receives. The concrete implementation lives in internal/ui and
// wraps a bubbletea render pass; pkg/action only depends on this interface
// so action variants never import the UI package.
type UI interface {
	// Text draws a line of plain text.
	Text(s string)
	// Styled draws a line with a named style ("header", "system", "error", ...).
	Styled(style, s string)
	// Button draws a clickable button; returns true the frame it was
	// clicked.
	Button(label string) bool
	// Image draws a decoded image, centered, scaled to width (0 = natural size).
	Image(img *resource.DecodedImage, width int)
	// Slider draws a 0..1 slider; returns the (possibly edited) value.
	Slider(label string, value float64) float64
	// RadioGroup draws single-choice options; returns selected index (-1 if none).
	RadioGroup(label string, options []string, selected int) int
	// CheckGroup draws multi-choice options; returns the selected set.
	CheckGroup(label string, options []string, selected map[int]bool) map[int]bool
	// TextInput draws an editable single/multi-line field; returns current text.
	TextInput(label string, multiline bool, value string) string
	// Rect reserves a sub-region of the given size, filled with background,
	// and returns a UI scoped to drawing inside it.
	Rect(width, height int, background string) UI
}

// Stateless is the per-node description that travels through
// serialization and logging. Implementations live in
// pkg/action/core.
type Stateless interface {
	// Tag is the snake_case variant name used for (de)serialization and
	// registry lookup, e.g. "wait", "seq", "key_logger".
	Tag() string

	// Init validates fields and may transform the receiver (e.g. normalize
	// a regex-escaped instruction template) but must not perform I/O. Called
	// exactly once per node, bottom-up, before Resources.
	Init() (Stateless, error)

	// Resources lists addresses that must be preloaded before Stateful is
	// called.
	Resources(cfg Config) []resource.Addr

	// InSignals/OutSignals are the ids this node consumes/produces. For
	// combinators the default is derived from children; see core.Derive.
	InSignals() signal.Set
	OutSignals() signal.Set

	// Stateful materializes the runtime node.
	Stateful(res *resource.Manager, cfg Config, sw SyncWriter, aw AsyncWriter) (Live, error)
}

// Live is the runtime instance of one node.
// Its lifetime is exactly one block run.
type Live interface {
	Props() Props

	// IsOver is a terminal check; it may return an error if an owned
	// worker thread died.
	IsOver() (bool, error)

	// Start is invoked exactly once by the parent (or the scheduler for
	// the root).
	Start(state *signal.State) (signal.Signal, error)

	// Update is invoked on every Sync pass once started.
	Update(sig ActionSignal, state *signal.State) (signal.Signal, error)

	// Show is invoked per frame only if Props().IsVisual().
	Show(ui UI, state *signal.State) error

	// Stop is invoked when the parent decides the child is done. Must be
	// idempotent and may be called from a failing path.
	Stop(state *signal.State) (signal.Signal, error)
}

// Factory builds a fresh, zero-valued Stateless for a given tag, ready to
// be unmarshaled into (e.g. by gopkg.in/yaml.v3) before Init is called.
type Factory func() Stateless

// Registry is the tag -> Factory lookup the task deserializer uses to pick
// a concrete Go type for each node in the tree literal. Grounded on the
// teacher's pkg/tools.Registry (name -> Tool), generalized from a flat
// string key to the action tag vocabulary.
type Registry struct {
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

func (r *Registry) Register(tag string, f Factory) {
	r.factories[tag] = f
}

func (r *Registry) New(tag string) (Stateless, error) {
	f, ok := r.factories[tag]
	if !ok {
		return nil, fmt.Errorf("action: unknown variant tag %q", tag)
	}
	return f(), nil
}

func (r *Registry) Has(tag string) bool {
	_, ok := r.factories[tag]
	return ok
}
