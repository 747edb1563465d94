package core

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"
	"sort"
	"strconv"
	"strings"

	"github.com/ilkoid/taskcore/pkg/action"
	"github.com/ilkoid/taskcore/pkg/resource"
	"github.com/ilkoid/taskcore/pkg/signal"
)

func init() {
	register("process", func() action.Stateless { return &Process{} })
}

// Process spawns a child executable and exchanges a typed block over its
// stdin/stdout pipes. OnStart/OnChange
// mirror Function's triggers. If Blocking, Start/Update wait inline for
// the "end" terminator; otherwise a reader goroutine forwards responses
// via SyncWriter.Emit and the call returns immediately. Once restricts
// the exchange to a single round no matter how many triggers fire.
type Process struct {
	Src        string               `yaml:"src"`
	Args       []string             `yaml:"args"`
	Vars       map[signal.ID]string `yaml:"vars"`
	OutMapping map[string]signal.ID `yaml:"out_mapping"`
	OnStart    bool                 `yaml:"on_start"`
	OnChange   bool                 `yaml:"on_change"`
	Once       bool                 `yaml:"once"`
	Blocking   bool                 `yaml:"blocking"`
}

func (p *Process) Tag() string { return "process" }

func (p *Process) Init() (action.Stateless, error) {
	if p.Src == "" {
		return nil, fmt.Errorf("process: src is required")
	}
	return p, nil
}

func (p *Process) Resources(action.Config) []resource.Addr { return nil }

func (p *Process) InSignals() signal.Set {
	ids := make([]signal.ID, 0, len(p.Vars))
	for id := range p.Vars {
		ids = append(ids, id)
	}
	return signal.NewSet(ids...)
}

func (p *Process) OutSignals() signal.Set {
	ids := make([]signal.ID, 0, len(p.OutMapping))
	for _, id := range p.OutMapping {
		ids = append(ids, id)
	}
	return signal.NewSet(ids...)
}

func (p *Process) Stateful(_ *resource.Manager, _ action.Config, sw action.SyncWriter, _ action.AsyncWriter) (action.Live, error) {
	outOrder := make([]outBinding, 0, len(p.OutMapping))
	for name, id := range p.OutMapping {
		outOrder = append(outOrder, outBinding{Name: name, ID: id})
	}
	sort.Slice(outOrder, func(i, j int) bool { return outOrder[i].Name < outOrder[j].Name })

	return &liveProcess{
		src:      p.Src,
		args:     p.Args,
		vars:     p.Vars,
		outOrder: outOrder,
		onStart:  p.OnStart,
		onChange: p.OnChange,
		once:     p.Once,
		blocking: p.Blocking,
		sw:       sw,
	}, nil
}

// outBinding pairs a response's name with the signal id it feeds, in the
// fixed order readResponses matches each line against.
type outBinding struct {
	Name string
	ID   signal.ID
}

type liveProcess struct {
	src      string
	args     []string
	vars     map[signal.ID]string
	outOrder []outBinding
	onStart  bool
	onChange bool
	once     bool
	blocking bool
	sw       action.SyncWriter

	cmd       *exec.Cmd
	stdin     io.WriteCloser
	stdout    *bufio.Reader
	fired     bool
	workerErr workerErr
}

func (l *liveProcess) Props() action.Props { return action.Infinite }

func (l *liveProcess) IsOver() (bool, error) {
	if err := l.workerErr.Get(); err != nil {
		return true, err
	}
	return false, nil
}

func (l *liveProcess) ensureSpawned() error {
	if l.cmd != nil {
		return nil
	}
	cmd := exec.Command(l.src, l.args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("process: stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("process: stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("process: start %q: %w", l.src, err)
	}
	l.cmd = cmd
	l.stdin = stdin
	l.stdout = bufio.NewReader(stdout)
	return nil
}

func writeTyped(w io.Writer, v signal.Value) error {
	switch v.Kind {
	case signal.KindNull:
		_, err := fmt.Fprintln(w, "nil")
		return err
	case signal.KindBool:
		t := "false"
		if v.Bool {
			t = "true"
		}
		_, err := fmt.Fprintln(w, t)
		return err
	case signal.KindInt:
		_, err := fmt.Fprintf(w, "i64 %d\n", v.Int)
		return err
	case signal.KindFloat:
		_, err := fmt.Fprintf(w, "f64 %g\n", v.Float)
		return err
	default:
		escaped := strings.ReplaceAll(v.Text, "\n", `\n`)
		_, err := fmt.Fprintf(w, "str %s\n", escaped)
		return err
	}
}

func parseTyped(line string) (signal.Value, error) {
	parts := strings.SplitN(line, " ", 2)
	kind := parts[0]
	var val string
	if len(parts) > 1 {
		val = parts[1]
	}
	switch kind {
	case "nil":
		return signal.Null(), nil
	case "true":
		return signal.Bool(true), nil
	case "false":
		return signal.Bool(false), nil
	case "i64":
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return signal.Null(), err
		}
		return signal.Int(n), nil
	case "f64":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return signal.Null(), err
		}
		return signal.Float(f), nil
	case "str":
		return signal.Text(strings.ReplaceAll(val, `\n`, "\n")), nil
	default:
		return signal.Null(), fmt.Errorf("process: malformed response line %q", line)
	}
}

// exchange sends the "with N ... go" block and either blocks for "end" or
// hands the read loop to a goroutine.
func (l *liveProcess) exchange(state *signal.State) (signal.Signal, error) {
	if l.once && l.fired {
		return noSignals, nil
	}
	if err := l.ensureSpawned(); err != nil {
		return noSignals, err
	}
	l.fired = true

	fmt.Fprintf(l.stdin, "with %d\n", len(l.vars))
	for id, name := range l.vars {
		fmt.Fprintf(l.stdin, "%s ", name)
		writeTyped(l.stdin, state.GetOr(id))
	}
	fmt.Fprintln(l.stdin, "go")

	if l.blocking {
		return l.readResponses()
	}
	go func() {
		sig, err := l.readResponses()
		if err != nil {
			l.workerErr.Set(err)
			l.sw.Poke()
			return
		}
		if len(sig) > 0 {
			l.sw.Emit(0, sig)
		}
	}()
	return noSignals, nil
}

func (l *liveProcess) readResponses() (signal.Signal, error) {
	out := signal.Signal{}
	i := 0
	for {
		line, err := l.stdout.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line == "end" {
			return out, nil
		}
		if strings.HasPrefix(line, "err ") {
			return out, fmt.Errorf("process: child error: %s", strings.TrimPrefix(line, "err "))
		}
		if err != nil {
			if err == io.EOF {
				return out, fmt.Errorf("process: child closed stdout without end")
			}
			return out, err
		}
		v, perr := parseTyped(line)
		if perr != nil {
			return out, perr
		}
		if i < len(l.outOrder) {
			out[l.outOrder[i].ID] = v
			i++
		}
	}
}

func (l *liveProcess) Start(state *signal.State) (signal.Signal, error) {
	if !l.onStart {
		return noSignals, nil
	}
	return l.exchange(state)
}

func (l *liveProcess) Update(sig action.ActionSignal, state *signal.State) (signal.Signal, error) {
	if !l.onChange || sig.Kind != action.SigStateChanged {
		return noSignals, nil
	}
	for id := range sig.Changed {
		if _, ok := l.vars[id]; ok {
			return l.exchange(state)
		}
	}
	return noSignals, nil
}

func (l *liveProcess) Show(action.UI, *signal.State) error { return nil }

func (l *liveProcess) Stop(*signal.State) (signal.Signal, error) {
	if l.cmd != nil && l.cmd.Process != nil {
		l.cmd.Process.Kill()
	}
	return noSignals, nil
}
