// Package exporter turns Lottie animations into per-frame SVG archives.
//
// An [Exporter] owns one [Workspace]. Files enter through [Exporter.Open],
// which validates the declared media type synchronously and then reads,
// parses and renders the file in the background. [Exporter.Export] waits
// for pending renders and writes every frame of every file as one ZIP
// archive:
//
//	ex, _ := exporter.New(exporter.Options{Renderer: mgr})
//	defer ex.Close()
//	ex.Open(ctx, exporter.NewFileInput("bounce.json"))
//	a, err := ex.Export(ctx, out)        // bounce-frame-1.svg, ...
//	fmt.Println(a.Name)                  // "bounce-frames.zip"
//
// Entry names are derived from the source file name and the 1-based frame
// ordinal; see the archive package.
package exporter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lottieframes/pkg/archive"
	"github.com/matzehuels/lottieframes/pkg/cache"
	"github.com/matzehuels/lottieframes/pkg/errors"
	"github.com/matzehuels/lottieframes/pkg/lottie"
	"github.com/matzehuels/lottieframes/pkg/observability"
	"github.com/matzehuels/lottieframes/pkg/render"
)

const (
	jsonMediaType = lottie.MIMEType

	// DefaultConcurrency is how many files render at the same time.
	DefaultConcurrency = 4
)

// Rejection reasons shown to the user.
const (
	ReasonNil     = "File was null!"
	ReasonNoType  = "File type was null!"
	ReasonNotJSON = "File is not a .json file!"
)

// ProgressFunc is called whenever a file changes state or captures a frame.
// It runs on the file's render goroutine and must not block.
type ProgressFunc func(f *SourceFile)

// Options configures an Exporter.
type Options struct {
	// Renderer creates one player per file. Required.
	Renderer render.Renderer

	// Cache stores captured frames. Nil disables caching.
	Cache cache.Cache
	Keyer cache.Keyer

	Logger *log.Logger

	// Concurrency bounds simultaneous renders. Default: DefaultConcurrency.
	Concurrency int

	Progress ProgressFunc

	// Now stamps archive entries. Default: time.Now.
	Now func() time.Time
}

// Exporter drives intake, rendering and packaging for one workspace.
// It is safe for concurrent use.
type Exporter struct {
	opts   Options
	ws     *Workspace
	sem    chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	closeOnce sync.Once
}

// New creates an Exporter with an empty workspace.
func New(opts Options) (*Exporter, error) {
	if opts.Renderer == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "exporter: renderer is required")
	}
	if opts.Cache == nil {
		opts.Cache = cache.NewNullCache()
	}
	if opts.Keyer == nil {
		opts.Keyer = cache.NewDefaultKeyer()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Exporter{
		opts:   opts,
		ws:     NewWorkspace(),
		sem:    make(chan struct{}, opts.Concurrency),
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// Workspace returns the exporter's working set.
func (e *Exporter) Workspace() *Workspace { return e.ws }

// Open validates in and, when it is acceptable, registers it and starts
// loading and rendering it in the background. Rejected inputs leave the
// workspace unchanged and return an INVALID_FILE error.
//
// ctx bounds the background work; it is also cancelled by Close.
func (e *Exporter) Open(ctx context.Context, in Input) (*SourceFile, error) {
	if e.ctx.Err() != nil {
		return nil, errors.New(errors.ErrCodeInternal, "exporter is closed")
	}
	if err := validate(in); err != nil {
		name := ""
		if in != nil {
			name = in.Name()
		}
		observability.Export().OnFileRejected(ctx, name, err)
		e.opts.Logger.Debug("rejected file", "name", name, "error", err)
		return nil, err
	}

	f := e.ws.register(in.Name(), in.Type())
	observability.Export().OnFileRegistered(ctx, f.Name())
	e.notify(f)

	rctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(e.ctx, cancel)

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer cancel()
		defer stop()
		e.process(rctx, f, in)
	}()
	return f, nil
}

func validate(in Input) error {
	if in == nil {
		return errors.InvalidFile("", ReasonNil)
	}
	if in.Type() == "" {
		return errors.InvalidFile(in.Name(), ReasonNoType)
	}
	if !isJSONType(in.Type()) {
		return errors.InvalidFile(in.Name(), ReasonNotJSON)
	}
	if err := errors.ValidateFilename(in.Name()); err != nil {
		return errors.InvalidFile(in.Name(), errors.UserMessage(err))
	}
	return nil
}

// process reads, parses and renders f. Any failure removes f from the
// working set.
func (e *Exporter) process(ctx context.Context, f *SourceFile, in Input) {
	logger := e.opts.Logger.With("file", f.Name())

	doc, err := load(in)
	if err != nil {
		e.fail(f, err)
		logger.Warn("could not load file", "error", err)
		return
	}
	f.setLoaded(doc)
	e.notify(f)
	logger.Debug("parsed", "frames", doc.TotalFrames(), "layers", doc.LayerCount())

	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		e.fail(f, ctx.Err())
		return
	}
	defer func() { <-e.sem }()

	start := time.Now()
	observability.Export().OnRenderStart(ctx, f.Name())

	svgs, cached, err := e.frames(ctx, f, doc)
	observability.Export().OnRenderComplete(ctx, f.Name(), len(svgs), time.Since(start), err)
	if err != nil {
		if errors.GetCode(err) == "" && ctx.Err() == nil {
			err = errors.Wrap(errors.ErrCodeRender, err, "render %s", f.Name())
		}
		e.fail(f, err)
		logger.Warn("render failed", "error", err)
		return
	}

	f.setRendered(svgs, cached)
	e.notify(f)
	logger.Debug("rendered", "frames", len(svgs), "cached", cached, "duration", time.Since(start))
}

func load(in Input) (*lottie.Document, error) {
	rc, err := in.Open()
	if err != nil {
		return nil, errors.InvalidFile(in.Name(), err.Error())
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.InvalidFile(in.Name(), err.Error())
	}

	doc, err := lottie.Parse(data)
	if err != nil {
		return nil, errors.ParseFailure(in.Name(), err)
	}
	return doc, nil
}

// frames returns the captured frames of doc, from cache when possible.
func (e *Exporter) frames(ctx context.Context, f *SourceFile, doc *lottie.Document) ([]string, bool, error) {
	key := e.opts.Keyer.FramesKey(cache.Hash(doc.Raw()), e.keyOpts())

	if data, hit, err := e.opts.Cache.Get(ctx, key); err == nil && hit {
		var svgs []string
		if err := json.Unmarshal(data, &svgs); err == nil {
			observability.Cache().OnCacheHit(ctx, "frames")
			return svgs, true, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "frames")

	player, err := e.opts.Renderer.NewPlayer(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("new player: %w", err)
	}
	// Capture leaves the player playing from frame 0, but the preview here
	// is the captured frame list, so the player is not kept.
	defer player.Close()

	svgs, err := render.Capture(ctx, player, doc.Raw(), func(i, total int, _ string) {
		f.setProgress(i+1, total)
		observability.Export().OnFrameCaptured(ctx, f.Name(), i, total)
		e.notify(f)
	})
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(svgs); err == nil {
		if err := e.opts.Cache.Set(ctx, key, data, cache.TTLFrames); err != nil {
			e.opts.Logger.Debug("frame cache write failed", "file", f.Name(), "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "frames", len(data))
		}
	}
	return svgs, false, nil
}

// scriptURLer is implemented by renderers whose output depends on a
// downloaded player build.
type scriptURLer interface {
	ScriptURL() string
}

func (e *Exporter) keyOpts() cache.FramesKeyOpts {
	opts := cache.FramesKeyOpts{Renderer: e.opts.Renderer.Name()}
	if s, ok := e.opts.Renderer.(scriptURLer); ok {
		opts.ScriptURL = s.ScriptURL()
	}
	return opts
}

func (e *Exporter) fail(f *SourceFile, err error) {
	e.ws.drop(f)
	f.setFailed(err)
	e.notify(f)
}

func (e *Exporter) notify(f *SourceFile) {
	if e.opts.Progress != nil {
		e.opts.Progress(f)
	}
}

// Wait blocks until every registered file is rendered or failed, or ctx is
// done.
func (e *Exporter) Wait(ctx context.Context) error {
	for _, f := range e.ws.all() {
		select {
		case <-f.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// ArchiveName is the download name the archive would get now, derived
// from the first file of the working set. Exports take the name from their
// own Snapshot instead.
func (e *Exporter) ArchiveName() (string, error) {
	files := e.ws.Files()
	if len(files) == 0 {
		return "", emptyExport()
	}
	return archive.Name(files[0].Name()), nil
}

// Archive is one export of the working set: its download name and entries,
// both taken from the same set of files.
type Archive struct {
	Name    string
	Entries []archive.Entry
}

// Snapshot captures the working set, waits for exactly those files and
// lists their entries: files in registration order, frames in capture
// order. Files opened after the snapshot belong to the next export. Files
// whose entries would clash with an earlier file get a numeric
// disambiguator so entry names stay unique.
func (e *Exporter) Snapshot(ctx context.Context) (*Archive, error) {
	pending := e.ws.Files()
	if len(pending) == 0 {
		return nil, emptyExport()
	}
	for _, f := range pending {
		select {
		case <-f.Done():
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	var files []*SourceFile
	for _, f := range pending {
		if f.State() == StateRendered {
			files = append(files, f)
		}
	}
	if len(files) == 0 {
		return nil, emptyExport()
	}

	now := e.opts.Now()
	namer := archive.NewNamer()
	a := &Archive{Name: archive.Name(files[0].Name())}
	for _, f := range files {
		frames := f.Frames()
		base := namer.Unique(f.Name(), len(frames))
		for _, fr := range frames {
			a.Entries = append(a.Entries, archive.Entry{
				Name:         archive.EntryName(base, fr.Ordinal),
				LastModified: now,
				Content:      fr.SVG,
			})
		}
	}
	return a, nil
}

// Entries lists the archive entries of a fresh Snapshot.
func (e *Exporter) Entries(ctx context.Context) ([]archive.Entry, error) {
	a, err := e.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return a.Entries, nil
}

// Export snapshots the working set and writes the archive of all frames to
// w. It returns the archive that was written. An empty working set is an
// EMPTY_EXPORT error and nothing is written.
func (e *Exporter) Export(ctx context.Context, w io.Writer) (*Archive, error) {
	start := time.Now()
	a, err := e.Snapshot(ctx)
	if err != nil {
		observability.Export().OnExportComplete(ctx, "", 0, time.Since(start), err)
		return nil, err
	}
	if err := e.Write(ctx, a, w); err != nil {
		return nil, err
	}
	return a, nil
}

// Write builds a to w.
func (e *Exporter) Write(ctx context.Context, a *Archive, w io.Writer) error {
	start := time.Now()
	err := archive.Build(w, a.Entries)
	observability.Export().OnExportComplete(ctx, a.Name, len(a.Entries), time.Since(start), err)
	if err != nil {
		return err
	}
	e.opts.Logger.Debug("exported archive", "name", a.Name, "entries", len(a.Entries))
	return nil
}

// Close cancels pending renders and waits for them to stop.
func (e *Exporter) Close() error {
	e.closeOnce.Do(e.cancel)
	e.wg.Wait()
	return nil
}

func emptyExport() error {
	return errors.New(errors.ErrCodeEmptyExport, "no files to export")
}
