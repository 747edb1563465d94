// Package block implements task/block loading: a Task
// is a directory's description file; each Block carries its own action
// tree and an optional per-block Config override merged onto the
// process-wide default.
package block

import (
	"fmt"

	"github.com/ilkoid/taskcore/pkg/action"
	"github.com/ilkoid/taskcore/pkg/resource"
	"github.com/ilkoid/taskcore/pkg/signal"
	"gopkg.in/yaml.v3"
)

// ConfigOverride mirrors action.Config field-by-field but every field is
// optional (a pointer/zero-value sentinel), so a Block's cfg only needs to
// name what it changes from the process-wide default.
type ConfigOverride struct {
	BlocksPerRow  *int     `yaml:"blocks_per_row"`
	BaseVolume    *float64 `yaml:"base_volume"`
	TimePrecision *string  `yaml:"time_precision"` // "intervals" | "boundaries"
	LogFormat     *string  `yaml:"log_format"`      // "json" | "yaml" | "ron"
	LogWhen       *string  `yaml:"log_when"`        // "none" | "start" | "stop" | "both"
	UseTrigger    *bool    `yaml:"use_trigger"`
	Interpreter   *string  `yaml:"interpreter"`
	StreamBackend *string  `yaml:"stream_backend"`
	AudioBackend  *string  `yaml:"audio_backend"`
	Background    *string  `yaml:"background"`
}

// Apply returns base with every non-nil override field substituted in.
func (o ConfigOverride) Apply(base action.Config) action.Config {
	cfg := base
	if o.BlocksPerRow != nil {
		cfg.BlocksPerRow = *o.BlocksPerRow
	}
	if o.BaseVolume != nil {
		cfg.BaseVolume = *o.BaseVolume
	}
	if o.TimePrecision != nil {
		if *o.TimePrecision == "boundaries" {
			cfg.TimePrecision = action.RespectBoundaries
		} else {
			cfg.TimePrecision = action.RespectIntervals
		}
	}
	if o.LogFormat != nil {
		switch *o.LogFormat {
		case "yaml":
			cfg.LogFormat = action.FormatYAML
		case "ron":
			cfg.LogFormat = action.FormatRON
		default:
			cfg.LogFormat = action.FormatJSON
		}
	}
	if o.LogWhen != nil {
		switch *o.LogWhen {
		case "start":
			cfg.LogWhen = action.LogStart
		case "stop":
			cfg.LogWhen = action.LogStop
		case "both":
			cfg.LogWhen = action.LogStartAndStop
		default:
			cfg.LogWhen = action.LogNone
		}
	}
	if o.UseTrigger != nil {
		cfg.UseTrigger = *o.UseTrigger
	}
	if o.Interpreter != nil {
		cfg.Interpreter = *o.Interpreter
	}
	if o.StreamBackend != nil {
		cfg.StreamBackend = *o.StreamBackend
	}
	if o.AudioBackend != nil {
		cfg.AudioBackend = *o.AudioBackend
	}
	if o.Background != nil {
		cfg.Background = *o.Background
	}
	return cfg
}

// Block is one entry in a Task's block list.
type Block struct {
	Name        string                      `yaml:"name"`
	Description string                      `yaml:"description"`
	Cfg         *ConfigOverride             `yaml:"cfg"`
	Tree        *action.Node                `yaml:"tree"`
	State       map[signal.ID]signal.Value  `yaml:"state"`
}

// Task is the top-level description a task directory's file decodes into.
type Task struct {
	Name        string          `yaml:"name"`
	Version     string          `yaml:"version"`
	Description string          `yaml:"description"`
	Config      *ConfigOverride `yaml:"config"`
	Blocks      []Block         `yaml:"blocks"`
}

// Summary is a listing row for the block-selection screen.
type Summary struct {
	Name        string
	Description string
}

// BlockSummaries lists this Task's blocks by name/description, for a
// selection-screen picker.
func (t *Task) BlockSummaries() []Summary {
	out := make([]Summary, len(t.Blocks))
	for i, b := range t.Blocks {
		out[i] = Summary{Name: b.Name, Description: b.Description}
	}
	return out
}

// Load decodes a task description document against reg, validating no two
// blocks share a name.
func Load(doc []byte, reg *action.Registry) (*Task, error) {
	var t Task
	if err := action.WithRegistry(reg, func() error {
		return yaml.Unmarshal(doc, &t)
	}); err != nil {
		return nil, fmt.Errorf("block: decode task: %w", err)
	}
	if t.Name == "" {
		return nil, fmt.Errorf("block: task name must not be empty")
	}
	seen := make(map[string]struct{}, len(t.Blocks))
	for _, b := range t.Blocks {
		if b.Name == "" {
			return nil, fmt.Errorf("block: block name must not be empty")
		}
		if _, dup := seen[b.Name]; dup {
			return nil, fmt.Errorf("block: duplicate block name %q", b.Name)
		}
		seen[b.Name] = struct{}{}
	}
	return &t, nil
}

// Find returns the named block, or an error if absent.
func (t *Task) Find(name string) (*Block, error) {
	for i := range t.Blocks {
		if t.Blocks[i].Name == name {
			return &t.Blocks[i], nil
		}
	}
	return nil, fmt.Errorf("block: no block named %q", name)
}

// InitialState copies a Block's configured initial state map, which the
// Sync processor seeds its State from.
func (b *Block) InitialState() map[signal.ID]signal.Value {
	out := make(map[signal.ID]signal.Value, len(b.State))
	for id, v := range b.State {
		out[id] = v
	}
	return out
}

// Resources collects this block's preload addresses, after Init.
func (b *Block) Resources(cfg action.Config) []resource.Addr {
	return action.CollectResources(b.Tree, cfg)
}

// Prepare runs Init, then CheckClosure, then CollectResources over the
// block's tree, returning the preload list for the Resource Manager.
func (b *Block) Prepare(cfg action.Config) ([]resource.Addr, error) {
	if b.Tree == nil || b.Tree.Value == nil {
		return nil, fmt.Errorf("block %q: empty tree", b.Name)
	}
	if err := action.InitTree(b.Tree); err != nil {
		return nil, fmt.Errorf("block %q: %w", b.Name, err)
	}
	if err := action.CheckClosure(b.Tree); err != nil {
		return nil, fmt.Errorf("block %q: %w", b.Name, err)
	}
	return b.Resources(cfg), nil
}
