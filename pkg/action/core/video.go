package core

import (
	"sync/atomic"
	"time"

	"github.com/ilkoid/taskcore/pkg/action"
	"github.com/ilkoid/taskcore/pkg/resource"
	"github.com/ilkoid/taskcore/pkg/signal"
)

func init() {
	register("video", func() action.Stateless { return &Video{} })
}

// Video plays an eagerly-decoded frame array; a playback goroutine
// advances the frame-index pointer at the source's native framerate. Pad
// controls centering vs. anchored draw (handled by internal/ui).
type Video struct {
	Src        string `yaml:"src"`
	Width      int    `yaml:"width"`
	Looping    bool   `yaml:"looping"`
	Background string `yaml:"background"`
	Pad        bool   `yaml:"pad"`
}

func (v *Video) Tag() string { return "video" }

func (v *Video) Init() (action.Stateless, error) { return v, nil }

func (v *Video) Resources(action.Config) []resource.Addr {
	return []resource.Addr{{Kind: resource.KindVideo, Path: v.Src}}
}
func (v *Video) InSignals() signal.Set  { return signal.NewSet() }
func (v *Video) OutSignals() signal.Set { return signal.NewSet() }

func (v *Video) Stateful(res *resource.Manager, cfg action.Config, sw action.SyncWriter, _ action.AsyncWriter) (action.Live, error) {
	val, err := res.Fetch(resource.Addr{Kind: resource.KindVideo, Path: v.Src})
	if err != nil {
		return nil, err
	}
	fps := val.Video.FPS
	if fps <= 0 {
		fps = 30
	}
	return &liveVideo{
		frames:  val.Video.Frames,
		src:     v.Src,
		width:   v.Width,
		looping: v.Looping,
		period:  time.Duration(float64(time.Second) / fps),
		sw:      sw,
		trigger: cfg.Trigger,
	}, nil
}

type liveVideo struct {
	frames  [][]byte
	src     string
	width   int
	looping bool
	period  time.Duration
	sw      action.SyncWriter
	trigger action.Trigger

	idx     atomic.Int64
	stop    *stopSignal
	done    flag
	stopped onceDone
}

func (l *liveVideo) Props() action.Props {
	p := action.Visual
	if l.looping {
		p |= action.Infinite
	}
	return p
}

func (l *liveVideo) IsOver() (bool, error) {
	if l.looping {
		return false, nil
	}
	return l.done.Get(), nil
}

func (l *liveVideo) Start(*signal.State) (signal.Signal, error) {
	if l.trigger != nil {
		l.trigger.Fire("video", "start", l.src)
	}
	if len(l.frames) == 0 {
		l.done.Set(true)
		return noSignals, nil
	}
	l.stop = newStopSignal()
	go func() {
		ticker := time.NewTicker(l.period)
		defer ticker.Stop()
		n := int64(len(l.frames))
		for {
			select {
			case <-ticker.C:
				next := l.idx.Add(1)
				if next >= n {
					if l.looping {
						l.idx.Store(0)
					} else {
						l.done.Set(true)
						l.sw.Poke()
						return
					}
				}
				l.sw.Repaint()
			case <-l.stop.Done():
				return
			}
		}
	}()
	return noSignals, nil
}

func (l *liveVideo) Update(action.ActionSignal, *signal.State) (signal.Signal, error) {
	return noSignals, nil
}

func (l *liveVideo) Show(ui action.UI, _ *signal.State) error {
	i := l.idx.Load()
	if i < 0 || int(i) >= len(l.frames) {
		return nil
	}
	ui.Image(&resource.DecodedImage{RGBA: l.frames[i]}, l.width)
	return nil
}

func (l *liveVideo) Stop(*signal.State) (signal.Signal, error) {
	l.stopped.Do(func() {
		if l.stop != nil {
			l.stop.Stop()
		}
		if l.trigger != nil {
			l.trigger.Fire("video", "stop", l.src)
		}
	})
	return noSignals, nil
}
