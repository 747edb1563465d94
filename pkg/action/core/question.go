package core

import (
	"strconv"

	"github.com/ilkoid/taskcore/pkg/action"
	"github.com/ilkoid/taskcore/pkg/resource"
	"github.com/ilkoid/taskcore/pkg/signal"
)

func init() {
	register("question", func() action.Stateless { return &Question{} })
}

type QuestionKind int

const (
	SingleLine QuestionKind = iota
	MultiLine
	SingleChoice
	MultiChoice
	SliderItem
)

// QuestionItem is one sub-item of a Question form.
type QuestionItem struct {
	ID      signal.ID    `yaml:"id"`
	Label   string       `yaml:"label"`
	Kind    QuestionKind `yaml:"kind"`
	Options []string     `yaml:"options"`
}

// Question is a visual form of sub-items; on submit it writes {id->value}
// pairs to Group then terminates.
type Question struct {
	Group string         `yaml:"group"`
	List  []QuestionItem `yaml:"list"`
}

func (q *Question) Tag() string { return "question" }

func (q *Question) Init() (action.Stateless, error) { return q, nil }

func (q *Question) Resources(action.Config) []resource.Addr { return nil }
func (q *Question) InSignals() signal.Set                    { return signal.NewSet() }
func (q *Question) OutSignals() signal.Set                   { return signal.NewSet() }

func (q *Question) Stateful(_ *resource.Manager, _ action.Config, _ action.SyncWriter, aw action.AsyncWriter) (action.Live, error) {
	answers := make([]signal.Value, len(q.List))
	for i, item := range q.List {
		switch item.Kind {
		case MultiChoice:
			answers[i] = signal.Array()
		case SliderItem:
			answers[i] = signal.Float(0)
		default:
			answers[i] = signal.Text("")
		}
	}
	return &liveQuestion{group: q.Group, list: q.List, answers: answers, aw: aw}, nil
}

type liveQuestion struct {
	group   string
	list    []QuestionItem
	answers []signal.Value
	aw      action.AsyncWriter
	done    bool
}

func (l *liveQuestion) Props() action.Props { return action.Visual }

func (l *liveQuestion) IsOver() (bool, error) { return l.done, nil }

func (l *liveQuestion) Start(*signal.State) (signal.Signal, error) { return noSignals, nil }

func (l *liveQuestion) Update(action.ActionSignal, *signal.State) (signal.Signal, error) {
	return noSignals, nil
}

func (l *liveQuestion) Show(ui action.UI, _ *signal.State) error {
	for i, item := range l.list {
		switch item.Kind {
		case SingleLine:
			l.answers[i] = signal.Text(ui.TextInput(item.Label, false, l.answers[i].Text))
		case MultiLine:
			l.answers[i] = signal.Text(ui.TextInput(item.Label, true, l.answers[i].Text))
		case SingleChoice:
			sel, _ := l.answers[i].AsInt()
			idx := ui.RadioGroup(item.Label, item.Options, int(sel))
			l.answers[i] = signal.Int(int64(idx))
		case MultiChoice:
			selected := make(map[int]bool)
			for _, v := range l.answers[i].Array {
				if n, ok := v.AsInt(); ok {
					selected[int(n)] = true
				}
			}
			selected = ui.CheckGroup(item.Label, item.Options, selected)
			vals := make([]signal.Value, 0, len(selected))
			for idx := range selected {
				vals = append(vals, signal.Int(int64(idx)))
			}
			l.answers[i] = signal.Array(vals...)
		case SliderItem:
			f, _ := l.answers[i].AsFloat()
			l.answers[i] = signal.Float(ui.Slider(item.Label, f))
		}
	}
	if ui.Button("Submit") {
		if l.aw != nil {
			entries := make([]action.NameValue, len(l.list))
			for i, item := range l.list {
				name := item.Label
				if name == "" {
					name = strconv.FormatUint(uint64(item.ID), 10)
				}
				entries[i] = action.NameValue{Name: name, Value: l.answers[i]}
			}
			l.aw.Extend(l.group, entries)
		}
		l.done = true
	}
	return nil
}

func (l *liveQuestion) Stop(*signal.State) (signal.Signal, error) { return noSignals, nil }
