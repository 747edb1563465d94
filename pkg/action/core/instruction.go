package core

import (
	"regexp"
	"strconv"

	"github.com/ilkoid/taskcore/pkg/action"
	"github.com/ilkoid/taskcore/pkg/resource"
	"github.com/ilkoid/taskcore/pkg/signal"
)

func init() {
	register("instruction", func() action.Stateless { return &Instruction{} })
}

var instrPlaceholder = regexp.MustCompile(`#(i|e|s)\((\d+)\)`)

// Instruction is a visual text panel. Its Text and Header may contain
// placeholders #i(id), #e(id), #s(id), rewritten at render time from,
// respectively: the in-signal most recently received for that id, the
// static Params list (indexed by id, an "externally supplied" value that
// never changes across the block run), and the live State value for that
// id. Persistent instructions omit the "Next" button and are forced
// infinite.
type Instruction struct {
	Text       string            `yaml:"text"`
	Header     string            `yaml:"header"`
	Params     map[int64]string  `yaml:"params"`
	Persistent bool              `yaml:"persistent"`
}

func (i *Instruction) Tag() string { return "instruction" }

func (i *Instruction) Init() (action.Stateless, error) {
	return i, nil
}

func (i *Instruction) Resources(action.Config) []resource.Addr { return nil }

func (i *Instruction) InSignals() signal.Set {
	return signal.NewSet(placeholderIDs(i.Text, i.Header, "i")...)
}

func (i *Instruction) OutSignals() signal.Set { return signal.NewSet() }

func placeholderIDs(text, header, kind string) []signal.ID {
	var ids []signal.ID
	for _, m := range instrPlaceholder.FindAllStringSubmatch(text+" "+header, -1) {
		if m[1] != kind {
			continue
		}
		n, err := strconv.ParseInt(m[2], 10, 64)
		if err == nil {
			ids = append(ids, signal.ID(n))
		}
	}
	return ids
}

func (i *Instruction) Stateful(_ *resource.Manager, _ action.Config, _ action.SyncWriter, _ action.AsyncWriter) (action.Live, error) {
	return &liveInstruction{
		text:       i.Text,
		header:     i.Header,
		params:     i.Params,
		persistent: i.Persistent,
		lastIn:     make(map[signal.ID]signal.Value),
	}, nil
}

type liveInstruction struct {
	text       string
	header     string
	params     map[int64]string
	persistent bool
	lastIn     map[signal.ID]signal.Value
	done       bool
}

func (l *liveInstruction) Props() action.Props {
	p := action.Visual
	if l.persistent {
		p |= action.Infinite
	}
	return p
}

func (l *liveInstruction) IsOver() (bool, error) { return l.done, nil }

func (l *liveInstruction) Start(*signal.State) (signal.Signal, error) { return noSignals, nil }

func (l *liveInstruction) Update(sig action.ActionSignal, state *signal.State) (signal.Signal, error) {
	if sig.Kind == action.SigStateChanged {
		for id := range sig.Changed {
			l.lastIn[id] = state.GetOr(id)
		}
	}
	return noSignals, nil
}

func (l *liveInstruction) render(s string, state *signal.State) string {
	return instrPlaceholder.ReplaceAllStringFunc(s, func(m string) string {
		sub := instrPlaceholder.FindStringSubmatch(m)
		n, _ := strconv.ParseInt(sub[2], 10, 64)
		switch sub[1] {
		case "i":
			return l.lastIn[signal.ID(n)].String()
		case "e":
			return l.params[n]
		case "s":
			return state.GetOr(signal.ID(n)).String()
		}
		return m
	})
}

func (l *liveInstruction) Show(ui action.UI, state *signal.State) error {
	if l.header != "" {
		ui.Styled("header", l.render(l.header, state))
	}
	ui.Text(l.render(l.text, state))
	if !l.persistent {
		if ui.Button("Next") {
			l.done = true
		}
	}
	return nil
}

func (l *liveInstruction) Stop(*signal.State) (signal.Signal, error) { return noSignals, nil }
