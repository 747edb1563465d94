package events

import (
	"context"
	"time"

	"github.com/ilkoid/taskcore/pkg/scheduler"
)

// SchedulerCallbacks adapts an Emitter onto scheduler.Callbacks, so a
// running block's lifecycle reaches any Subscriber (a logging sink, a
// future status page) without that code depending on bubbletea at all.
type SchedulerCallbacks struct {
	Ctx     context.Context
	Emitter Emitter
	Block   string
}

var _ scheduler.Callbacks = SchedulerCallbacks{}

func (c SchedulerCallbacks) emit(t EventType, data EventData) {
	ctx := c.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	c.Emitter.Emit(ctx, Event{Type: t, Block: c.Block, Data: data, Timestamp: time.Now()})
}

func (c SchedulerCallbacks) LoadComplete()  { c.emit(EventLoadComplete, nil) }
func (c SchedulerCallbacks) BlockFinished() { c.emit(EventBlockFinished, nil) }
func (c SchedulerCallbacks) BlockCrashed(err error) {
	c.emit(EventBlockCrashed, ErrorData{Err: err})
}
func (c SchedulerCallbacks) BlockInterrupted(reason string) {
	c.emit(EventBlockInterrupted, ReasonData{Reason: reason})
}
func (c SchedulerCallbacks) SyncComplete() { c.emit(EventSyncComplete, nil) }
func (c SchedulerCallbacks) AsyncComplete(err error) {
	c.emit(EventAsyncComplete, ErrorData{Err: err})
}

// Fanout combines multiple scheduler.Callbacks implementations (for
// example the bubbletea bridge and a SchedulerCallbacks) so a block's
// lifecycle can reach more than one listener at once.
type Fanout []scheduler.Callbacks

var _ scheduler.Callbacks = Fanout(nil)

func (f Fanout) LoadComplete() {
	for _, c := range f {
		c.LoadComplete()
	}
}
func (f Fanout) BlockFinished() {
	for _, c := range f {
		c.BlockFinished()
	}
}
func (f Fanout) BlockCrashed(err error) {
	for _, c := range f {
		c.BlockCrashed(err)
	}
}
func (f Fanout) BlockInterrupted(reason string) {
	for _, c := range f {
		c.BlockInterrupted(reason)
	}
}
func (f Fanout) SyncComplete() {
	for _, c := range f {
		c.SyncComplete()
	}
}
func (f Fanout) AsyncComplete(err error) {
	for _, c := range f {
		c.AsyncComplete(err)
	}
}
