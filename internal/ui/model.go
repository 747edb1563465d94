package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ilkoid/taskcore/pkg/action"
	"github.com/ilkoid/taskcore/pkg/block"
	"github.com/ilkoid/taskcore/pkg/datalog"
	"github.com/ilkoid/taskcore/pkg/events"
	"github.com/ilkoid/taskcore/pkg/resource"
	"github.com/ilkoid/taskcore/pkg/scheduler"
)

type screenKind int

const (
	screenSelect screenKind = iota
	screenRunning
)

const frameInterval = 33 * time.Millisecond

// Model is the bubbletea Model/Update/View driver realizing action.UI:
// it owns the block-selection screen and, once a block is launched,
// renders the Scheduler's per-frame Show output.
type Model struct {
	task   *block.Task
	reg    *action.Registry
	cfg    action.Config
	resMgr  *resource.Manager
	outDir  string
	emitter events.Emitter

	width, height int
	screen        screenKind
	cursor        int
	status        string

	sched      *scheduler.Scheduler
	cb         *bridgeCallbacks
	sc         *scene
	focusCount int
	blockStart time.Time

	pendingKey  string
	pendingText string
}

// New builds a selection-screen model over task's blocks. emitter may be
// nil, in which case block lifecycle events are only observed by the
// bubbletea bridge itself.
func New(task *block.Task, reg *action.Registry, cfg action.Config, resMgr *resource.Manager, outDir string, emitter events.Emitter) *Model {
	return &Model{task: task, reg: reg, cfg: cfg, resMgr: resMgr, outDir: outDir, emitter: emitter, screen: screenSelect}
}

var _ tea.Model = (*Model)(nil)

func (m *Model) Init() tea.Cmd { return tickCmd() }

func tickCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg { return frameMsg{} })
}

type frameMsg struct{}

type blockFinishedMsg struct{}
type blockCrashedMsg struct{ err error }
type blockInterruptedMsg struct{ reason string }

// launch prepares and starts the selected block, switching to the
// running screen. Errors are reported on the status line rather than
// aborting the program, mirroring a selection screen that lets the
// operator retry.
func (m *Model) launch(b *block.Block) tea.Cmd {
	cfg := m.cfg
	if m.task.Config != nil {
		cfg = m.task.Config.Apply(cfg)
	}
	if b.Cfg != nil {
		cfg = b.Cfg.Apply(cfg)
	}

	preload, err := b.Prepare(cfg)
	if err != nil {
		m.status = "prepare: " + err.Error()
		return nil
	}
	if err := m.resMgr.Preload(preload, resource.ImageConfig{}); err != nil {
		m.status = "preload: " + err.Error()
		return nil
	}

	format := datalog.FormatJSON
	switch cfg.LogFormat {
	case action.FormatYAML:
		format = datalog.FormatYAML
	case action.FormatRON:
		format = datalog.FormatRON
	}
	logger, err := datalog.New(m.outDir, m.task.Name, b.Name, format)
	if err != nil {
		m.status = "datalog: " + err.Error()
		return nil
	}

	info, err := scheduler.NewInfo(m.task.Name, m.outDir, m.task, b)
	if err != nil {
		m.status = "info: " + err.Error()
		return nil
	}

	cb := newBridgeCallbacks()
	var callbacks scheduler.Callbacks = cb
	if m.emitter != nil {
		callbacks = events.Fanout{cb, events.SchedulerCallbacks{
			Ctx:     context.Background(),
			Emitter: m.emitter,
			Block:   b.Name,
		}}
	}
	sched, err := scheduler.New(b.Tree, cfg, m.resMgr, logger, b.InitialState(), callbacks, info)
	if err != nil {
		m.status = "scheduler: " + err.Error()
		return nil
	}

	m.sched = sched
	m.cb = cb
	m.sc = &scene{}
	m.focusCount = 0
	m.blockStart = time.Now()
	m.screen = screenRunning
	m.status = ""

	return tea.Batch(func() tea.Msg {
		sched.Go()
		return nil
	}, cb.waitCmd())
}
