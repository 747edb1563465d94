// Package resource provides the ResourceAddr/ResourceValue model and a
// filesystem-backed Manager used to preload media before a block starts.
package resource

import "fmt"

// Kind tags which decoder a ResourceAddr resolves through.
type Kind int

const (
	KindText Kind = iota
	KindImage
	KindAudio
	KindVideo
	KindStream
	KindRef
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindImage:
		return "image"
	case KindAudio:
		return "audio"
	case KindVideo:
		return "video"
	case KindStream:
		return "stream"
	case KindRef:
		return "ref"
	default:
		return "unknown"
	}
}

// Addr is a structurally-comparable address: kind + path relative to the
// task directory. Two addresses are equal iff both fields match, so they
// can be deduplicated with a plain map key.
type Addr struct {
	Kind Kind
	Path string
}

func (a Addr) String() string {
	return fmt.Sprintf("%s(%s)", a.Kind, a.Path)
}

// Value is the decoded payload behind a ResourceAddr. Exactly one of the
// fields is populated, matching Kind.
type Value struct {
	Kind  Kind
	Text  string
	Image *DecodedImage
	Audio *DecodedAudio
	Video *DecodedVideo
	Ref   string
}

// DecodedImage holds a raster frame plus, for SVGs, the raw markup so the
// UI layer can pick whichever it can render.
type DecodedImage struct {
	Width, Height int
	RGBA          []byte // nil for SVG sources
	SVG           string // non-empty only for KindImage sources ending in .svg
}

// DecodedAudio is a fully-decoded PCM buffer plus its nominal duration.
// DurationSeconds is authoritative for Audio's non-looping end-of-buffer
// timing.
type DecodedAudio struct {
	SampleRate      int
	Channels        int
	PCM             []float32
	DurationSeconds float64
}

// DecodedVideo is the eagerly-decoded frame array Video plays from.
// Stream resources are intentionally NOT decoded eagerly; Stream owns its
// own lazy decode loop and only ever asks the Manager to resolve the
// filesystem path: fetching a KindStream address yields a Value whose Ref
// holds that path.
type DecodedVideo struct {
	Width, Height int
	FPS           float64
	Frames        [][]byte // RGBA frames
}

// ErrKindMismatch is returned by Manager.Fetch when the resolved resource's
// kind does not match the address kind that requested it.
type ErrKindMismatch struct {
	Addr Addr
	Got  Kind
}

func (e *ErrKindMismatch) Error() string {
	return fmt.Sprintf("resource %s: fetched value has kind %s", e.Addr, e.Got)
}
