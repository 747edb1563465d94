// Command taskcore runs a task description's blocks through a
// block-selection screen.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ilkoid/taskcore/internal/ui"
	"github.com/ilkoid/taskcore/pkg/action"
	"github.com/ilkoid/taskcore/pkg/action/core"
	"github.com/ilkoid/taskcore/pkg/block"
	"github.com/ilkoid/taskcore/pkg/config"
	"github.com/ilkoid/taskcore/pkg/events"
	"github.com/ilkoid/taskcore/pkg/obslog"
	"github.com/ilkoid/taskcore/pkg/resource"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "taskcore:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "optional taskcore.yaml of process-wide defaults")
	taskPath := flag.String("task", "", "path to a task description file")
	resourceDir := flag.String("resources", ".", "directory resource addresses resolve against")
	outputDir := flag.String("output", "output", "root directory for per-block log output")
	logLevel := flag.String("log-level", "info", "debug|info|warn|error")
	logPretty := flag.Bool("log-pretty", false, "console-writer formatted logs instead of JSON")
	flag.Parse()

	var appCfg *config.AppConfig
	if *configPath != "" {
		var err error
		appCfg, err = config.Load(*configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if appCfg.ResourceDir != "" && !isFlagSet("resources") {
			*resourceDir = appCfg.ResourceDir
		}
		if appCfg.OutputDir != "" && !isFlagSet("output") {
			*outputDir = appCfg.OutputDir
		}
		if appCfg.LogLevel != "" && !isFlagSet("log-level") {
			*logLevel = appCfg.LogLevel
		}
		if appCfg.LogPretty && !isFlagSet("log-pretty") {
			*logPretty = true
		}
	}

	subject := "taskcore"
	if appCfg != nil && appCfg.Subject != "" {
		subject = appCfg.Subject
	}
	obslog.Configure(obslog.Config{Level: *logLevel, Pretty: *logPretty, Subject: subject})

	if *taskPath == "" {
		return fmt.Errorf("-task is required")
	}
	doc, err := os.ReadFile(*taskPath)
	if err != nil {
		return fmt.Errorf("read task description: %w", err)
	}

	task, err := block.Load(doc, core.Default)
	if err != nil {
		return fmt.Errorf("load task: %w", err)
	}

	cfg := action.DefaultConfig()
	if appCfg != nil && appCfg.Defaults != nil {
		cfg = appCfg.Defaults.Apply(cfg)
	}
	if task.Config != nil {
		cfg = task.Config.Apply(cfg)
	}

	resMgr := resource.NewManager(*resourceDir)

	emitter := events.NewChanEmitter(32)
	defer emitter.Close()
	go logBlockEvents(emitter.Subscribe())

	model := ui.New(task, core.Default, cfg, resMgr, *outputDir, emitter)

	p := tea.NewProgram(model, tea.WithAltScreen())
	go watchSignals(p)

	obslog.WithComponent("main").Info().Str("task", task.Name).Int("blocks", len(task.Blocks)).Msg("starting")

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run TUI: %w", err)
	}
	return nil
}

// isFlagSet reports whether name was explicitly passed on the command
// line, so a config file's defaults only fill in flags the operator
// left untouched.
func isFlagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

// logBlockEvents drains sub until it closes, logging every block
// lifecycle event emitted to the bus. It runs independently of the TUI,
// demonstrating that a listener need not be the bubbletea bridge.
func logBlockEvents(sub events.Subscriber) {
	log := obslog.WithComponent("events")
	for ev := range sub.Events() {
		entry := log.Info().Str("type", string(ev.Type)).Str("block", ev.Block)
		switch data := ev.Data.(type) {
		case events.ErrorData:
			if data.Err != nil {
				entry = entry.Str("error", data.Err.Error())
			}
		case events.ReasonData:
			entry = entry.Str("reason", data.Reason)
		}
		entry.Msg("block event")
	}
}

// watchSignals asks the bubbletea program to quit on SIGINT/SIGTERM rather
// than killing the process outright, so in-flight block output is flushed
// by the Async processor before exit.
func watchSignals(p *tea.Program) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	sig := <-sigCh
	obslog.WithComponent("main").Warn().Str("signal", sig.String()).Msg("shutting down")
	p.Quit()
}
