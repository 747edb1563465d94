package scheduler

import (
	"time"

	"github.com/ilkoid/taskcore/pkg/action"
	"github.com/ilkoid/taskcore/pkg/datalog"
	"github.com/ilkoid/taskcore/pkg/signal"
)

// AsyncSignalKind tags which LoggerSignal operation an AsyncSignal carries,
// or the Finish marker.
type AsyncSignalKind int

const (
	AsyncAppend AsyncSignalKind = iota
	AsyncExtend
	AsyncWrite
	AsyncFinish
)

// AsyncSignal wraps either (time, LoggerSignal) or a Finish marker.
type AsyncSignal struct {
	Kind    AsyncSignalKind
	Time    time.Time
	Group   string
	Name    string
	Value   signal.Value
	Entries []action.NameValue
}

// AsyncProcessor is the dedicated worker that exclusively owns the
// datalog.Logger. Nothing in this processor touches the
// stateful tree.
type AsyncProcessor struct {
	logger    *datalog.Logger
	queue     *mailbox[AsyncSignal]
	callbacks Callbacks
}

// NewAsyncProcessor returns a processor ready to Run in its own goroutine.
func NewAsyncProcessor(logger *datalog.Logger, callbacks Callbacks) *AsyncProcessor {
	return &AsyncProcessor{logger: logger, queue: newMailbox[AsyncSignal](), callbacks: callbacks}
}

// Send enqueues one AsyncSignal.
func (p *AsyncProcessor) Send(sig AsyncSignal) { p.queue.Send(sig) }

// Run drains the queue until a Finish marker, then reports AsyncComplete.
func (p *AsyncProcessor) Run() {
	for {
		p.queue.Wait()
		for _, sig := range p.queue.PopAll() {
			if p.handle(sig) {
				return
			}
		}
	}
}

func (p *AsyncProcessor) handle(sig AsyncSignal) (finished bool) {
	switch sig.Kind {
	case AsyncAppend:
		p.logger.Append(sig.Group, sig.Name, sig.Value)
	case AsyncExtend:
		rows := make([]struct {
			Name  string
			Value signal.Value
		}, len(sig.Entries))
		for i, e := range sig.Entries {
			rows[i].Name = e.Name
			rows[i].Value = e.Value
		}
		p.logger.Extend(sig.Group, rows)
	case AsyncWrite:
		_ = p.logger.Write(sig.Name, sig.Value)
	case AsyncFinish:
		err := p.logger.Finish()
		if p.callbacks != nil {
			p.callbacks.AsyncComplete(err)
		}
		return true
	}
	return false
}

// asyncWriter adapts an AsyncProcessor to action.AsyncWriter, the
// capability handed to every Stateful() call.
type asyncWriter struct {
	p *AsyncProcessor
}

func (w *asyncWriter) Append(group, name string, value signal.Value) {
	w.p.Send(AsyncSignal{Kind: AsyncAppend, Time: time.Now(), Group: group, Name: name, Value: value})
}

func (w *asyncWriter) Extend(group string, entries []action.NameValue) {
	w.p.Send(AsyncSignal{Kind: AsyncExtend, Time: time.Now(), Group: group, Entries: entries})
}

func (w *asyncWriter) Write(name string, value signal.Value) {
	w.p.Send(AsyncSignal{Kind: AsyncWrite, Time: time.Now(), Name: name, Value: value})
}
