package resource

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Manager resolves Addr values to decoded Value payloads, relative to a
// task directory. It is populated once via Preload, called by the block
// loader before the stateful tree is built, and is read-only for the
// remainder of the block's lifetime.
type Manager struct {
	root string

	mu    sync.RWMutex
	cache map[Addr]Value
}

// NewManager roots resource resolution at dir — the directory a task
// description file lives in. All Addr.Path values are resolved relative to
// it.
func NewManager(dir string) *Manager {
	return &Manager{
		root:  dir,
		cache: make(map[Addr]Value),
	}
}

// Preload decodes every address once, deduplicating by Addr equality, and
// fails fast, aborting block load, on the first I/O or decode error.
func (m *Manager) Preload(addrs []Addr, cfg ImageConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range addrs {
		if _, ok := m.cache[a]; ok {
			continue
		}
		v, err := m.load(a, cfg)
		if err != nil {
			return fmt.Errorf("preload %s: %w", a, err)
		}
		m.cache[a] = v
	}
	return nil
}

// ImageConfig narrows image decode behavior (the author-requested display
// width, if any) so Preload can rescale once instead of per-show.
type ImageConfig struct {
	MaxWidth int
}

func (m *Manager) load(a Addr, cfg ImageConfig) (Value, error) {
	path := filepath.Join(m.root, a.Path)

	switch a.Kind {
	case KindText:
		data, err := os.ReadFile(path)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindText, Text: string(data)}, nil

	case KindImage:
		data, err := os.ReadFile(path)
		if err != nil {
			return Value{}, err
		}
		if strings.EqualFold(filepath.Ext(path), ".svg") {
			return Value{Kind: KindImage, Image: &DecodedImage{SVG: string(data)}}, nil
		}
		img, err := decodeImage(data, cfg.MaxWidth)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindImage, Image: img}, nil

	case KindAudio:
		// Actual PCM decode is an external-collaborator concern: the configured audio backend owns codec support. We expose
		// the hook other code wires a concrete decoder through.
		dec, err := decodeAudio(path)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindAudio, Audio: dec}, nil

	case KindVideo:
		dec, err := decodeVideo(path)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindVideo, Video: dec}, nil

	case KindStream:
		// Stream decodes lazily; the Manager only validates existence and
		// hands back the resolved path as Ref so the Stream action can
		// open it itself at start().
		if _, err := os.Stat(path); err != nil {
			return Value{}, err
		}
		return Value{Kind: KindStream, Ref: path}, nil

	case KindRef:
		if _, err := os.Stat(path); err != nil {
			return Value{}, err
		}
		return Value{Kind: KindRef, Ref: path}, nil

	default:
		return Value{}, fmt.Errorf("unknown resource kind %v", a.Kind)
	}
}

// Fetch returns the preloaded value for addr, failing if addr was never
// preloaded or if the caller's expected kind doesn't match.
func (m *Manager) Fetch(addr Addr) (Value, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.cache[addr]
	if !ok {
		return Value{}, fmt.Errorf("resource %s was not preloaded", addr)
	}
	if v.Kind != addr.Kind {
		return Value{}, &ErrKindMismatch{Addr: addr, Got: v.Kind}
	}
	return v, nil
}

// AudioBackend and VideoBackend are the pluggable decode hooks an external
// collaborator installs.
// Defaults return a deterministic silent/blank decode so the runtime is
// exercisable without a real media stack wired in (useful for tests and for
// headless CI).
var (
	AudioBackend = func(path string) (*DecodedAudio, error) {
		return &DecodedAudio{SampleRate: 44100, Channels: 2, DurationSeconds: 0}, nil
	}
	VideoBackend = func(path string) (*DecodedVideo, error) {
		return &DecodedVideo{FPS: 30}, nil
	}
)

func decodeAudio(path string) (*DecodedAudio, error) { return AudioBackend(path) }
func decodeVideo(path string) (*DecodedVideo, error)  { return VideoBackend(path) }
