package core

import (
	"github.com/ilkoid/taskcore/pkg/action"
	"github.com/ilkoid/taskcore/pkg/resource"
	"github.com/ilkoid/taskcore/pkg/signal"
)

func init() {
	register("image", func() action.Stateless { return &Image{} })
	register("fixation", func() action.Stateless { return &Fixation{} })
}

// Image displays a decoded bitmap or SVG centered, scaled to Width if
// given, over Background. Infinite.
type Image struct {
	Src        string `yaml:"src"`
	Width      int    `yaml:"width"`
	Background string `yaml:"background"`
}

func (i *Image) Tag() string { return "image" }

func (i *Image) Init() (action.Stateless, error) { return i, nil }

func (i *Image) Resources(action.Config) []resource.Addr {
	return []resource.Addr{{Kind: resource.KindImage, Path: i.Src}}
}
func (i *Image) InSignals() signal.Set  { return signal.NewSet() }
func (i *Image) OutSignals() signal.Set { return signal.NewSet() }

func (i *Image) Stateful(res *resource.Manager, cfg action.Config, _ action.SyncWriter, _ action.AsyncWriter) (action.Live, error) {
	bg := i.Background
	if bg == "" {
		bg = cfg.Background
	}
	val, err := res.Fetch(resource.Addr{Kind: resource.KindImage, Path: i.Src})
	if err != nil {
		return nil, err
	}
	return &liveImage{width: i.Width, background: bg, img: val.Image}, nil
}

type liveImage struct {
	width      int
	background string
	img        *resource.DecodedImage
}

func (l *liveImage) Props() action.Props { return action.Visual | action.Infinite }

func (l *liveImage) IsOver() (bool, error) { return false, nil }

func (l *liveImage) Start(*signal.State) (signal.Signal, error) { return noSignals, nil }

func (l *liveImage) Update(action.ActionSignal, *signal.State) (signal.Signal, error) {
	return noSignals, nil
}

func (l *liveImage) Show(ui action.UI, _ *signal.State) error {
	ui.Image(l.img, l.width)
	return nil
}

func (l *liveImage) Stop(*signal.State) (signal.Signal, error) { return noSignals, nil }

// Fixation is sugar for Image("fixation.svg", width, background).
type Fixation struct {
	Width      int    `yaml:"width"`
	Background string `yaml:"background"`
}

func (f *Fixation) Tag() string { return "fixation" }

func (f *Fixation) Init() (action.Stateless, error) {
	return &Image{Src: "fixation.svg", Width: f.Width, Background: f.Background}, nil
}

func (f *Fixation) Resources(cfg action.Config) []resource.Addr {
	img := Image{Src: "fixation.svg", Width: f.Width, Background: f.Background}
	return img.Resources(cfg)
}
func (f *Fixation) InSignals() signal.Set  { return signal.NewSet() }
func (f *Fixation) OutSignals() signal.Set { return signal.NewSet() }

func (f *Fixation) Stateful(res *resource.Manager, cfg action.Config, sw action.SyncWriter, aw action.AsyncWriter) (action.Live, error) {
	img := &Image{Src: "fixation.svg", Width: f.Width, Background: f.Background}
	return img.Stateful(res, cfg, sw, aw)
}
