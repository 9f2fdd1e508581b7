// Package rendertest provides an in-memory renderer for tests.
//
// The fake reads the frame count from the document's "op" and "ip" fields
// (like lottie-web) and renders frame f as
//
//	<svg xmlns="http://www.w3.org/2000/svg" data-frame="f" .../>
//
// so tests can assert ordering without a browser.
package rendertest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/matzehuels/lottieframes/pkg/render"
)

// Renderer is a fake render.Renderer. The zero value is ready to use.
type Renderer struct {
	// LoadErr, if set, is returned by every Player.Load.
	LoadErr error

	// SnapshotErr, if set, is returned by Player.Snapshot at frame FailAt.
	SnapshotErr error
	FailAt      int

	// Gate, if set, holds every Player.Load until it is closed.
	Gate <-chan struct{}

	mu      sync.Mutex
	players []*Player
}

var (
	_ render.Renderer = (*Renderer)(nil)
	_ render.Player   = (*Player)(nil)
)

// Name implements render.Renderer.
func (r *Renderer) Name() string { return "fake" }

// NewPlayer implements render.Renderer.
func (r *Renderer) NewPlayer(ctx context.Context) (render.Player, error) {
	p := &Player{renderer: r}
	r.mu.Lock()
	r.players = append(r.players, p)
	r.mu.Unlock()
	return p, nil
}

// Players returns every player created so far.
func (r *Renderer) Players() []*Player {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Player(nil), r.players...)
}

// Player is a fake render.Player that records its calls.
type Player struct {
	renderer *Renderer

	mu      sync.Mutex
	total   int
	frame   int
	loaded  bool
	playing bool
	closed  bool
	calls   []string
}

// Load implements render.Player.
func (p *Player) Load(ctx context.Context, document []byte) error {
	p.record("load")
	if gate := p.renderer.Gate; gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if p.renderer.LoadErr != nil {
		return p.renderer.LoadErr
	}
	var hdr struct {
		IP float64 `json:"ip"`
		OP float64 `json:"op"`
	}
	if err := json.Unmarshal(document, &hdr); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total = max(int(math.Floor(hdr.OP-hdr.IP)), 0)
	p.loaded = true
	return nil
}

// FrameCount implements render.Player.
func (p *Player) FrameCount(ctx context.Context) (int, error) {
	p.record("count")
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.loaded {
		return 0, errors.New("not loaded")
	}
	return p.total, nil
}

// Seek implements render.Player.
func (p *Player) Seek(ctx context.Context, frame int) error {
	p.record(fmt.Sprintf("seek:%d", frame))
	p.mu.Lock()
	defer p.mu.Unlock()
	p.frame = frame
	p.playing = false
	return nil
}

// Snapshot implements render.Player.
func (p *Player) Snapshot(ctx context.Context) (string, error) {
	p.record("snapshot")
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.renderer.SnapshotErr != nil && p.frame == p.renderer.FailAt {
		return "", p.renderer.SnapshotErr
	}
	return Frame(p.frame), nil
}

// Play implements render.Player.
func (p *Player) Play(ctx context.Context) error {
	p.record("play")
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = true
	return nil
}

// Close implements render.Player.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// Calls returns the recorded call log, e.g. ["load", "count", "seek:0", ...].
func (p *Player) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

// Playing reports whether Play was the last state change.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// Closed reports whether Close was called.
func (p *Player) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

func (p *Player) record(call string) {
	p.mu.Lock()
	p.calls = append(p.calls, call)
	p.mu.Unlock()
}

// Frame returns the SVG the fake produces for frame index f.
func Frame(f int) string {
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10" viewBox="0 0 10 10" data-frame="%d"><rect width="10" height="10" fill="#000"/></svg>`, f)
}

// Document returns a minimal Lottie document with the given frame count.
func Document(frames int) []byte {
	return []byte(fmt.Sprintf(`{"v":"5.7.4","fr":30,"ip":0,"op":%d,"w":10,"h":10,"layers":[]}`, frames))
}
