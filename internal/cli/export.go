package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/matzehuels/lottieframes/pkg/archive"
	"github.com/matzehuels/lottieframes/pkg/cache"
	"github.com/matzehuels/lottieframes/pkg/errors"
	"github.com/matzehuels/lottieframes/pkg/exporter"
	"github.com/matzehuels/lottieframes/pkg/render"
)

// exportOpts holds the command-line flags for the export command.
type exportOpts struct {
	output      string // directory, or a .zip path
	frame       int    // export only this 1-based frame as .svg
	watch       bool   // re-export when an input changes
	noCache     bool
	noTUI       bool
	concurrency int
	renderer    rendererOpts
}

func (c *CLI) exportCommand() *cobra.Command {
	var opts exportOpts

	cmd := &cobra.Command{
		Use:   "export [files...]",
		Short: "Export every frame of Lottie files as SVG into a ZIP archive",
		Long: `Export renders each Lottie file and writes all frames as standalone SVG files
into one ZIP archive named after the first file (anim.json -> anim-frames.zip).

Entries are named <file>-frame-<N>.svg, files in argument order and frames in
playback order.`,
		Example: `  lottieframes export bounce.json
  lottieframes export a.json b.json -o out/
  lottieframes export bounce.json --frame 12
  lottieframes export bounce.json --watch`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeLottieFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.config.Export
			if !cmd.Flags().Changed("output") {
				opts.output = cfg.Output
			}
			if !cmd.Flags().Changed("concurrency") {
				opts.concurrency = cfg.Concurrency
			}
			if !cmd.Flags().Changed("no-cache") {
				opts.noCache = cfg.NoCache
			}
			opts.renderer.resolve(cmd, c.config.Renderer)
			if opts.frame < 0 {
				return fmt.Errorf("--frame must be positive")
			}
			return c.runExport(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory or .zip file (default: current directory)")
	cmd.Flags().IntVar(&opts.frame, "frame", 0, "export only frame N (1-based) of each file as .svg")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "re-export whenever an input file changes")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the frame cache")
	cmd.Flags().BoolVar(&opts.noTUI, "no-tui", false, "disable the interactive progress view")
	cmd.Flags().IntVarP(&opts.concurrency, "concurrency", "j", exporter.DefaultConcurrency, "files rendered in parallel")
	opts.renderer.register(cmd)

	return cmd
}

func (c *CLI) runExport(ctx context.Context, files []string, opts exportOpts) error {
	fc, err := newCache(opts.noCache)
	if err != nil {
		return err
	}
	defer fc.Close()
	keyer := cache.NewDefaultKeyer()

	mgr, err := c.startRenderer(ctx, opts.renderer, fc, keyer)
	if err != nil {
		return err
	}
	defer mgr.Close()

	job := &exportJob{
		files:    files,
		opts:     opts,
		renderer: mgr,
		cache:    fc,
		keyer:    keyer,
		tui:      !opts.noTUI && term.IsTerminal(int(os.Stderr.Fd())),
	}

	if !opts.watch {
		_, err := job.run(ctx)
		return err
	}

	if _, err := job.run(ctx); err != nil && !errors.Is(err, errors.ErrCodeEmptyExport) {
		return err
	}
	printInfo("Watching %d files for changes (ctrl+c to stop)", len(files))
	return watchFiles(ctx, files, watchDebounce, func() {
		printNewline()
		if _, err := job.run(ctx); err != nil && ctx.Err() == nil {
			printError("%s", errors.UserMessage(err))
		}
	})
}

// exportJob is one export configuration that can be run repeatedly.
type exportJob struct {
	files    []string
	opts     exportOpts
	renderer render.Renderer
	cache    cache.Cache
	keyer    cache.Keyer
	tui      bool
}

// run renders all files once and writes the output. It returns the paths
// written.
func (j *exportJob) run(ctx context.Context) ([]string, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		program *tea.Program
		result  chan tea.Model
	)
	exOpts := exporter.Options{
		Renderer:    j.renderer,
		Cache:       j.cache,
		Keyer:       j.keyer,
		Logger:      logger,
		Concurrency: j.opts.concurrency,
	}
	if j.tui {
		program = tea.NewProgram(NewProgressModel(cancel), tea.WithOutput(os.Stderr), tea.WithContext(ctx))
		exOpts.Progress = progressSink(program)
		result = make(chan tea.Model, 1)
		go func() {
			m, _ := program.Run()
			result <- m
		}()
	}

	ex, err := exporter.New(exOpts)
	if err != nil {
		return nil, err
	}
	defer ex.Close()

	for _, path := range j.files {
		if _, err := ex.Open(ctx, exporter.NewFileInput(path)); err != nil {
			if program != nil {
				program.Println(styleIconError.Render(iconError) + " " + errors.UserMessage(err))
			} else {
				printError("%s", errors.UserMessage(err))
			}
		}
	}

	waitErr := j.wait(ctx, ex)
	if program != nil {
		program.Send(rendersDoneMsg{})
		if m, ok := (<-result).(ProgressModel); ok && m.Interrupted {
			return nil, context.Canceled
		}
	}
	if waitErr != nil {
		return nil, waitErr
	}

	if !j.tui {
		j.report(ex)
	}

	var written []string
	if j.opts.frame > 0 {
		written, err = writeFrames(ex, j.opts.output, j.opts.frame)
	} else {
		var path string
		path, err = writeArchive(ctx, ex, j.opts.output)
		written = []string{path}
	}
	if err != nil {
		return nil, err
	}

	frames := 0
	for _, f := range ex.Workspace().Files() {
		frames += len(f.Frames())
	}
	if j.opts.frame > 0 {
		printSuccess("Exported frame %d of %d files", j.opts.frame, len(written))
	} else {
		printSuccess("Exported %d frames from %d files", frames, ex.Workspace().Len())
	}
	for _, p := range written {
		printFile(p)
	}
	prog.done("export finished")
	return written, nil
}

// wait blocks until rendering finishes, showing a spinner when the
// progress view is off.
func (j *exportJob) wait(ctx context.Context, ex *exporter.Exporter) error {
	if j.tui {
		return ex.Wait(ctx)
	}
	spinner := newSpinnerWithContext(ctx, "Rendering frames...")
	spinner.Start()
	defer spinner.Stop()

	for _, f := range ex.Workspace().Files() {
		spinner.SetMessage(fmt.Sprintf("Rendering %s...", f.Name()))
		select {
		case <-f.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return ex.Wait(ctx)
}

// report prints a line per file once rendering has finished.
func (j *exportJob) report(ex *exporter.Exporter) {
	for _, f := range ex.Workspace().Failed() {
		printError("%s", formatFailure(f))
	}
	for _, f := range ex.Workspace().Files() {
		printInfo("%s", f.Name())
		printFrameStats(len(f.Frames()), f.Cached())
	}
}

// archivePath resolves where the archive goes: output itself when it names
// a .zip file, otherwise the default archive name inside output.
func archivePath(output, name string) string {
	if strings.EqualFold(filepath.Ext(output), ".zip") {
		return output
	}
	return filepath.Join(output, name)
}

// writeArchive exports to a temporary file next to the destination and
// renames it into place, so a failed export never leaves a partial archive.
func writeArchive(ctx context.Context, ex *exporter.Exporter, output string) (string, error) {
	a, err := ex.Snapshot(ctx)
	if err != nil {
		return "", err
	}
	path := archivePath(output, a.Name)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+appName+"-*.zip")
	if err != nil {
		return "", fmt.Errorf("create archive: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := ex.Write(ctx, a, tmp); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("write archive: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("write archive: %w", err)
	}
	return path, nil
}

// writeFrames writes frame n of every file as a standalone SVG into dir.
func writeFrames(ex *exporter.Exporter, dir string, n int) ([]string, error) {
	files := ex.Workspace().Files()
	if len(files) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyExport, "no files to export")
	}
	if strings.EqualFold(filepath.Ext(dir), ".zip") {
		return nil, errors.New(errors.ErrCodeInvalidInput, "--frame writes .svg files; -o must be a directory")
	}
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}

	namer := archive.NewNamer()
	var written []string
	for _, f := range files {
		base := namer.Unique(f.Name(), len(f.Frames()))
		fr, err := f.Frame(n)
		if err != nil {
			printWarning("%s: %s", f.Name(), errors.UserMessage(err))
			continue
		}
		path := filepath.Join(dir, archive.FrameFileName(base, n))
		if err := os.WriteFile(path, []byte(fr.SVG), 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}
