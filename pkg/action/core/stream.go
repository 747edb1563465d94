package core

import (
	"fmt"
	"sync"

	"github.com/ilkoid/taskcore/pkg/action"
	"github.com/ilkoid/taskcore/pkg/resource"
	"github.com/ilkoid/taskcore/pkg/signal"
)

func init() {
	register("stream", func() action.Stateless { return &Stream{Volume: 1} })
}

// Stream resolves a stream resource to its path and runs a goroutine from
// Start that sets the shared frame slot to an empty placeholder once and
// requests a repaint. No frames are decoded or delivered, so Show draws
// nothing and no audio plays. Without Looping the goroutine marks EOS
// right away and the action is over; with Looping it never ends on its
// own. Volume must be in [0,1].
type Stream struct {
	Src        string  `yaml:"src"`
	Width      int     `yaml:"width"`
	Volume     float64 `yaml:"volume"`
	Looping    bool    `yaml:"looping"`
	Trigger    bool    `yaml:"trigger"`
	Background string  `yaml:"background"`
}

func (s *Stream) Tag() string { return "stream" }

func (s *Stream) Init() (action.Stateless, error) {
	if s.Volume < 0 || s.Volume > 1 {
		return nil, fmt.Errorf("stream: volume must be in [0,1], got %v", s.Volume)
	}
	return s, nil
}

func (s *Stream) Resources(action.Config) []resource.Addr {
	return []resource.Addr{{Kind: resource.KindStream, Path: s.Src}}
}
func (s *Stream) InSignals() signal.Set  { return signal.NewSet() }
func (s *Stream) OutSignals() signal.Set { return signal.NewSet() }

func (s *Stream) Stateful(res *resource.Manager, cfg action.Config, sw action.SyncWriter, _ action.AsyncWriter) (action.Live, error) {
	val, err := res.Fetch(resource.Addr{Kind: resource.KindStream, Path: s.Src})
	if err != nil {
		return nil, err
	}
	return &liveStream{
		path:    val.Ref,
		width:   s.Width,
		looping: s.Looping,
		sw:      sw,
		trigger: cfg.Trigger,
	}, nil
}

type liveStream struct {
	path    string
	width   int
	looping bool
	sw      action.SyncWriter
	trigger action.Trigger

	mu      sync.Mutex
	frame   []byte
	eos     flag
	stop    *stopSignal
	stopped onceDone
}

func (l *liveStream) Props() action.Props {
	p := action.Visual
	if l.looping {
		p |= action.Infinite
	}
	return p
}

func (l *liveStream) IsOver() (bool, error) {
	if l.looping {
		return false, nil
	}
	return l.eos.Get(), nil
}

func (l *liveStream) Start(*signal.State) (signal.Signal, error) {
	if l.trigger != nil {
		l.trigger.Fire("stream", "start", l.path)
	}
	l.stop = newStopSignal()
	// Decoder goroutine: in the absence of a real demuxer backend this
	// pushes an empty placeholder frame at start and signals EOS once,
	// mirroring the single shared-slot handoff contract a real decoder
	// would use without requiring a running media backend in tests.
	go func() {
		l.mu.Lock()
		l.frame = nil
		l.mu.Unlock()
		l.sw.Repaint()
		if !l.looping {
			l.eos.Set(true)
			l.sw.Poke()
		}
		<-l.stop.Done()
	}()
	return noSignals, nil
}

func (l *liveStream) Update(action.ActionSignal, *signal.State) (signal.Signal, error) {
	return noSignals, nil
}

func (l *liveStream) Show(ui action.UI, _ *signal.State) error {
	l.mu.Lock()
	frame := l.frame
	l.mu.Unlock()
	if frame == nil {
		return nil
	}
	ui.Image(&resource.DecodedImage{RGBA: frame}, l.width)
	return nil
}

func (l *liveStream) Stop(*signal.State) (signal.Signal, error) {
	l.stopped.Do(func() {
		if l.stop != nil {
			l.stop.Stop()
		}
		if l.trigger != nil {
			l.trigger.Fire("stream", "stop", l.path)
		}
	})
	return noSignals, nil
}
