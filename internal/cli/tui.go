package cli

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/lottieframes/pkg/errors"
	"github.com/matzehuels/lottieframes/pkg/exporter"
)

const progressBarWidth = 24

// fileStatus is a snapshot of one SourceFile for display.
type fileStatus struct {
	id       int
	name     string
	state    exporter.State
	captured int
	total    int
	cached   bool
	err      error
}

func statusOf(f *exporter.SourceFile) fileStatus {
	captured, total := f.Progress()
	return fileStatus{
		id:       f.ID(),
		name:     f.Name(),
		state:    f.State(),
		captured: captured,
		total:    total,
		cached:   f.Cached(),
		err:      f.Err(),
	}
}

// fileStatusMsg reports a change of one file.
type fileStatusMsg fileStatus

// rendersDoneMsg ends the progress view.
type rendersDoneMsg struct{}

// ProgressModel is the bubbletea model showing per-file render progress.
type ProgressModel struct {
	order       []int
	files       map[int]fileStatus
	cancel      context.CancelFunc
	done        bool
	Interrupted bool
}

// NewProgressModel creates a progress view. cancel is called when the user
// interrupts with ctrl+c.
func NewProgressModel(cancel context.CancelFunc) ProgressModel {
	return ProgressModel{files: make(map[int]fileStatus), cancel: cancel}
}

func (m ProgressModel) Init() tea.Cmd {
	return nil
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case fileStatusMsg:
		if _, ok := m.files[msg.id]; !ok {
			m.order = append(m.order, msg.id)
		}
		m.files[msg.id] = fileStatus(msg)
	case rendersDoneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.Interrupted = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m ProgressModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Rendering frames"))
	b.WriteString("\n\n")

	width := 0
	for _, id := range m.order {
		width = max(width, len(m.files[id].name))
	}
	for _, id := range m.order {
		b.WriteString(statusLine(m.files[id], width))
		b.WriteString("\n")
	}

	if !m.done {
		b.WriteString("\n")
		b.WriteString(StyleDim.Render("ctrl+c to cancel"))
		b.WriteString("\n")
	}
	return b.String()
}

// statusLine renders one file as "icon name [bar] Frame n/m".
func statusLine(f fileStatus, nameWidth int) string {
	name := f.name + strings.Repeat(" ", nameWidth-len(f.name))

	switch f.state {
	case exporter.StateFailed:
		return styleIconError.Render(iconError) + " " + name + "  " + StyleError.Render(errors.UserMessage(f.err))
	case exporter.StateRendered:
		return styleIconSuccess.Render(iconSuccess) + " " + name + "  " + progressBar(f.total, f.total) + frameStats(f.total, f.cached)
	case exporter.StateRegistered:
		return styleIconInfo.Render(iconInfo) + " " + name + "  " + StyleDim.Render("reading")
	}

	label := StyleDim.Render("loading player")
	if f.total > 0 {
		label = StyleDim.Render(exporter.Caption(f.captured, f.total))
	}
	return styleIconSpinner.Render(iconInfo) + " " + name + "  " + progressBar(f.captured, f.total) + "  " + label
}

func progressBar(done, total int) string {
	filled := 0
	if total > 0 {
		filled = done * progressBarWidth / total
	}
	filled = min(max(filled, 0), progressBarWidth)
	return StyleNumber.Render(strings.Repeat("█", filled)) +
		StyleDim.Render(strings.Repeat("░", progressBarWidth-filled))
}

// progressSink forwards exporter progress to a running program.
func progressSink(p *tea.Program) exporter.ProgressFunc {
	return func(f *exporter.SourceFile) {
		p.Send(fileStatusMsg(statusOf(f)))
	}
}

// formatFailure is the one-line report of a file that could not be exported.
func formatFailure(f *exporter.SourceFile) string {
	return errors.UserMessage(f.Err())
}
