package render

import (
	"context"
	"fmt"
)

// Player is one renderer instance bound to its own display region.
// A Player is not safe for concurrent use.
type Player interface {
	// Load replaces the player's animation with the given Lottie document.
	Load(ctx context.Context, document []byte) error

	// FrameCount reports the total number of frames of the loaded document.
	FrameCount(ctx context.Context) (int, error)

	// Seek positions the animation at frame index (0-based) and pauses it.
	Seek(ctx context.Context, frame int) error

	// Snapshot serializes the currently displayed frame as SVG text.
	Snapshot(ctx context.Context) (string, error)

	// Play resumes animated playback from the current position.
	Play(ctx context.Context) error

	// Close releases the display region.
	Close() error
}

// Renderer creates players.
type Renderer interface {
	// Name identifies the renderer in cache keys and logs.
	Name() string

	// NewPlayer creates an independent player.
	NewPlayer(ctx context.Context) (Player, error)
}

// FrameFunc is called after each captured frame with its 0-based index and
// the total frame count.
type FrameFunc func(index, total int, svg string)

// Capture loads document into p and snapshots every frame in index order.
// After capturing, the player is reset to frame 0 and playback resumes; this
// does not affect the returned frames.
//
// A document with zero frames yields an empty, non-nil slice.
func Capture(ctx context.Context, p Player, document []byte, onFrame FrameFunc) ([]string, error) {
	if err := p.Load(ctx, document); err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	total, err := p.FrameCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("frame count: %w", err)
	}
	if total < 0 {
		return nil, fmt.Errorf("frame count: negative total %d", total)
	}

	frames := make([]string, 0, total)
	for f := 0; f < total; f++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := p.Seek(ctx, f); err != nil {
			return nil, fmt.Errorf("seek frame %d: %w", f, err)
		}
		svg, err := p.Snapshot(ctx)
		if err != nil {
			return nil, fmt.Errorf("snapshot frame %d: %w", f, err)
		}
		frames = append(frames, svg)
		if onFrame != nil {
			onFrame(f, total, svg)
		}
	}

	if err := p.Seek(ctx, 0); err != nil {
		return nil, fmt.Errorf("reset: %w", err)
	}
	if err := p.Play(ctx); err != nil {
		return nil, fmt.Errorf("play: %w", err)
	}
	return frames, nil
}
