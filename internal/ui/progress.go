// Package ui shows per-file analysis progress on stderr.
package ui

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"

	"github.com/dsablic/reposcope/internal/analyzer"
)

// IsTTY returns true if stderr is a terminal.
func IsTTY() bool {
	return term.IsTerminal(os.Stderr.Fd())
}

func summary(total, failed int) string {
	if failed == 0 {
		return fmt.Sprintf("Done! Analyzed %d files.", total)
	}
	return fmt.Sprintf("Done! Analyzed %d files, %d could not be parsed.", total, failed)
}

// PlainProgress prints one line per file through a callback. Used when
// stderr is not a terminal or a progress bar is not wanted.
type PlainProgress struct {
	print func(string)
}

func NewPlainProgress(print func(string)) *PlainProgress {
	return &PlainProgress{print: print}
}

func (p *PlainProgress) Update(ev analyzer.FileEvent) {
	line := fmt.Sprintf("[%d/%d] %s", ev.Completed, ev.Total, ev.Path)
	if ev.Failed {
		line += " (skipped: parse error)"
	}
	p.print(line)
}

func (p *PlainProgress) Done(total, failed int) {
	p.print(summary(total, failed))
}

// FileMsg carries one analyzer event into the bubbletea program.
type FileMsg analyzer.FileEvent

// DoneMsg ends the program once every file has been processed.
type DoneMsg struct {
	Total  int
	Failed int
}

// model renders a progress bar, the current file and the files that
// failed to parse so far.
type model struct {
	bar     progress.Model
	last    analyzer.FileEvent
	failed  int
	lastBad string
	done    *DoneMsg
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	pathStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// NewTUIModel creates the bubbletea model behind the progress display.
func NewTUIModel() tea.Model {
	return model{
		bar: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(50),
			progress.WithoutPercentage(),
		),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.bar.Width = min(msg.Width-10, 60)
	case FileMsg:
		m.last = analyzer.FileEvent(msg)
		if msg.Failed {
			m.failed++
			m.lastBad = msg.Path
		}
		if msg.Total == 0 {
			return m, nil
		}
		return m, m.bar.SetPercent(float64(msg.Completed) / float64(msg.Total))
	case DoneMsg:
		m.done = &msg
		return m, tea.Quit
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m model) View() string {
	if m.done != nil {
		return "\n  " + titleStyle.Render(summary(m.done.Total, m.done.Failed)) + "\n\n"
	}

	current := m.last.Path
	if current == "" {
		current = "Discovering source files..."
	}
	view := "\n  " + titleStyle.Render("Analyzing files") + "\n" +
		"  " + m.bar.View() + "  " + pathStyle.Render(fmt.Sprintf("%d/%d", m.last.Completed, m.last.Total)) + "\n" +
		"  " + pathStyle.Render(current) + "\n"
	if m.failed > 0 {
		view += "  " + warnStyle.Render(fmt.Sprintf("%d unparsable, last: %s", m.failed, m.lastBad)) + "\n"
	}
	return view + "\n"
}

// RunTUI creates the progress program. It draws on stderr so the report on
// stdout stays clean.
func RunTUI() *tea.Program {
	return tea.NewProgram(NewTUIModel(), tea.WithOutput(os.Stderr))
}

// TUIProgress forwards analyzer progress to a running bubbletea program.
type TUIProgress struct {
	program *tea.Program
	done    atomic.Bool
}

func NewTUIProgress(p *tea.Program) *TUIProgress {
	return &TUIProgress{program: p}
}

func (t *TUIProgress) Update(ev analyzer.FileEvent) {
	t.program.Send(FileMsg(ev))
}

func (t *TUIProgress) Done(total, failed int) {
	t.done.Store(true)
	t.program.Send(DoneMsg{Total: total, Failed: failed})
}

// Completed reports whether Done has been called. A program that exits
// before completion was quit by the user.
func (t *TUIProgress) Completed() bool {
	return t.done.Load()
}
