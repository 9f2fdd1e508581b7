package exporter

import (
	"fmt"
	"sync"

	"github.com/matzehuels/lottieframes/pkg/errors"
	"github.com/matzehuels/lottieframes/pkg/lottie"
)

// State is the lifecycle stage of a SourceFile.
type State int

const (
	StateRegistered State = iota // passed type validation, content not read yet
	StateLoaded                  // content read and parsed
	StateRendered                // all frames captured
	StateFailed                  // read, parse, or render failed
)

func (s State) String() string {
	switch s {
	case StateRegistered:
		return "registered"
	case StateLoaded:
		return "loaded"
	case StateRendered:
		return "rendered"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Frame is one captured animation frame.
type Frame struct {
	Ordinal int    // 1-based
	SVG     string // serialized <svg> element
}

// Caption is the preview label for frame n of total.
func Caption(n, total int) string {
	return fmt.Sprintf("Frame %d/%d", n, total)
}

// SourceFile is a file accepted into a workspace. Its fields fill in as the
// asynchronous load and render progress; Done is closed once the file is
// rendered or failed.
type SourceFile struct {
	id        int
	name      string
	mediaType string
	done      chan struct{}

	mu       sync.RWMutex
	state    State
	doc      *lottie.Document
	frames   []Frame
	captured int
	total    int
	cached   bool
	err      error
}

func newSourceFile(id int, name, mediaType string) *SourceFile {
	return &SourceFile{
		id:        id,
		name:      name,
		mediaType: mediaType,
		done:      make(chan struct{}),
	}
}

// ID is the file's registration index within its workspace.
func (f *SourceFile) ID() int { return f.id }

// Name is the original file name.
func (f *SourceFile) Name() string { return f.name }

// Type is the declared media type.
func (f *SourceFile) Type() string { return f.mediaType }

// Done is closed when the file reaches StateRendered or StateFailed.
func (f *SourceFile) Done() <-chan struct{} { return f.done }

func (f *SourceFile) State() State {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state
}

// Err is the failure reason once the file is in StateFailed.
func (f *SourceFile) Err() error {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.err
}

// Document is the parsed animation, nil before StateLoaded.
func (f *SourceFile) Document() *lottie.Document {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.doc
}

// Frames returns the captured frames in order. It is empty until the file
// is rendered.
func (f *SourceFile) Frames() []Frame {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]Frame(nil), f.frames...)
}

// Frame returns frame n (1-based).
func (f *SourceFile) Frame(n int) (Frame, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.state != StateRendered {
		return Frame{}, errors.New(errors.ErrCodeNotFound, "%s is not rendered (%s)", f.name, f.state)
	}
	if err := errors.ValidateFrameOrdinal(n, len(f.frames)); err != nil {
		return Frame{}, err
	}
	return f.frames[n-1], nil
}

// Progress reports how many of the total frames have been captured.
func (f *SourceFile) Progress() (captured, total int) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.captured, f.total
}

// Cached reports whether the frames came from the frame cache.
func (f *SourceFile) Cached() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.cached
}

func (f *SourceFile) setLoaded(doc *lottie.Document) {
	f.mu.Lock()
	f.doc = doc
	f.state = StateLoaded
	f.mu.Unlock()
}

func (f *SourceFile) setProgress(captured, total int) {
	f.mu.Lock()
	f.captured, f.total = captured, total
	f.mu.Unlock()
}

func (f *SourceFile) setRendered(svgs []string, cached bool) {
	frames := make([]Frame, len(svgs))
	for i, svg := range svgs {
		frames[i] = Frame{Ordinal: i + 1, SVG: svg}
	}
	f.mu.Lock()
	f.frames = frames
	f.captured, f.total = len(frames), len(frames)
	f.cached = cached
	f.state = StateRendered
	f.mu.Unlock()
	close(f.done)
}

func (f *SourceFile) setFailed(err error) {
	f.mu.Lock()
	f.err = err
	f.state = StateFailed
	f.mu.Unlock()
	close(f.done)
}
