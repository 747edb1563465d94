package core

import (
	"time"

	"github.com/ilkoid/taskcore/pkg/action"
	"github.com/ilkoid/taskcore/pkg/resource"
	"github.com/ilkoid/taskcore/pkg/signal"
)

func init() {
	register("audio", func() action.Stateless { return &Audio{Gain: 1} })
}

// Audio plays a decoded PCM buffer through a shared output device.
// Non-visual. Looping audio is infinite; otherwise its duration is the
// buffer's own reported length, honoring Config.TimePrecision the way
// Stream/Video do.
type Audio struct {
	Src     string  `yaml:"src"`
	Gain    float64 `yaml:"gain"`
	Looping bool    `yaml:"looping"`
}

func (a *Audio) Tag() string { return "audio" }

func (a *Audio) Init() (action.Stateless, error) {
	if a.Gain == 0 {
		a.Gain = 1
	}
	return a, nil
}

func (a *Audio) Resources(action.Config) []resource.Addr {
	return []resource.Addr{{Kind: resource.KindAudio, Path: a.Src}}
}
func (a *Audio) InSignals() signal.Set  { return signal.NewSet() }
func (a *Audio) OutSignals() signal.Set { return signal.NewSet() }

func (a *Audio) Stateful(res *resource.Manager, cfg action.Config, sw action.SyncWriter, _ action.AsyncWriter) (action.Live, error) {
	val, err := res.Fetch(resource.Addr{Kind: resource.KindAudio, Path: a.Src})
	if err != nil {
		return nil, err
	}
	return &liveAudio{
		buf:       val.Audio,
		src:       a.Src,
		gain:      a.Gain * cfg.BaseVolume,
		looping:   a.Looping,
		precision: cfg.TimePrecision,
		sw:        sw,
		trigger:   cfg.Trigger,
	}, nil
}

type liveAudio struct {
	buf       *resource.DecodedAudio
	src       string
	gain      float64
	looping   bool
	precision action.TimePrecision
	sw        action.SyncWriter
	trigger   action.Trigger
	stop      *stopSignal
	done      flag
	stopped   onceDone
}

func (l *liveAudio) Props() action.Props {
	if l.looping {
		return action.Infinite
	}
	return 0
}

func (l *liveAudio) IsOver() (bool, error) {
	if l.looping {
		return false, nil
	}
	return l.done.Get(), nil
}

func (l *liveAudio) Start(*signal.State) (signal.Signal, error) {
	if l.trigger != nil {
		l.trigger.Fire("audio", "start", l.src)
	}
	if l.looping {
		return noSignals, nil
	}
	l.stop = newStopSignal()
	// RespectBoundaries would wait for the output sink to report empty
	// rather than a fixed timer; our headless audio backend's reported
	// DurationSeconds is exact, so both precisions resolve identically here.
	dur := time.Duration(l.buf.DurationSeconds * float64(time.Second))
	go func() {
		t := time.NewTimer(dur)
		defer t.Stop()
		select {
		case <-t.C:
			l.done.Set(true)
			l.sw.Poke()
		case <-l.stop.Done():
		}
	}()
	return noSignals, nil
}

func (l *liveAudio) Update(action.ActionSignal, *signal.State) (signal.Signal, error) {
	return noSignals, nil
}

func (l *liveAudio) Show(action.UI, *signal.State) error { return nil }

func (l *liveAudio) Stop(*signal.State) (signal.Signal, error) {
	l.stopped.Do(func() {
		if l.stop != nil {
			l.stop.Stop()
		}
		if l.trigger != nil {
			l.trigger.Fire("audio", "stop", l.src)
		}
	})
	return noSignals, nil
}
