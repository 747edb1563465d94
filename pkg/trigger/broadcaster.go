// Package trigger implements the external-device trigger channel that
// Config.use_trigger gates: a fire-and-forget websocket broadcast of
// action lifecycle events, for an external device (eye tracker, EEG
// marker stream, ...) to stay in sync with block progress.
package trigger

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ilkoid/taskcore/pkg/obslog"
)

// Event is one triggering lifecycle transition, pushed as JSON to every
// connected subscriber.
type Event struct {
	Time   string `json:"time"`
	Action string `json:"action"` // the node's Tag(), e.g. "event", "video"
	Phase  string `json:"phase"`  // "start" or "stop"
	Name   string `json:"name,omitempty"`
}

const writeWait = time.Second

// Broadcaster accepts websocket subscribers and fans every Fire call out
// to all of them. Subscribers are passive: the channel is unidirectional
// and never reads application-level messages back — fire-and-forget.
type Broadcaster struct {
	upgrader websocket.Upgrader

	mu   sync.Mutex
	subs map[*subscriber]struct{}
}

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *subscriber) send(ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return s.conn.WriteJSON(ev)
}

// New returns a Broadcaster ready to accept subscribers.
func New() *Broadcaster {
	return &Broadcaster{subs: make(map[*subscriber]struct{})}
}

// ServeHTTP upgrades the request to a websocket and registers the
// connection as a subscriber until it disconnects.
func (b *Broadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		obslog.WithComponent("trigger").Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	sub := &subscriber{conn: conn}

	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		delete(b.subs, sub)
		b.mu.Unlock()
		conn.Close()
	}()

	// Drain and discard any client-sent frames; this channel is
	// unidirectional but a dead connection must still be detected.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Fire broadcasts one lifecycle event to every connected subscriber.
// Subscribers that fail to accept the write are dropped.
func (b *Broadcaster) Fire(action, phase, name string) {
	ev := Event{Time: time.Now().Format(time.RFC3339Nano), Action: action, Phase: phase, Name: name}

	b.mu.Lock()
	targets := make([]*subscriber, 0, len(b.subs))
	for s := range b.subs {
		targets = append(targets, s)
	}
	b.mu.Unlock()

	for _, s := range targets {
		if err := s.send(ev); err != nil {
			b.mu.Lock()
			delete(b.subs, s)
			b.mu.Unlock()
		}
	}
}

// MarshalEvent is exposed for components that need to log the wire
// payload alongside firing it; nothing in this module calls it.
func MarshalEvent(ev Event) ([]byte, error) { return json.Marshal(ev) }
