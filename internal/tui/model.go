package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/vito/progrock"
	"go.trai.ch/lockguard/internal/ui/style"
)

const (
	statusRunning   = "running"
	statusCompleted = "completed"
	statusCached    = "cached"
	statusFailed    = "failed"
)

// VertexState is the display state of one verified package.
type VertexState struct {
	ID     string
	Name   string
	Status string
}

type styles struct {
	running   lipgloss.Style
	completed lipgloss.Style
	failed    lipgloss.Style
	muted     lipgloss.Style
}

// Model is the Bubble Tea model of the progress view.
type Model struct {
	tape     TapeSource
	vertices []VertexState
	index    map[string]int
	width    int
	height   int
	spinner  spinner.Model
	styles   styles
}

// NewModel creates a progress model reading from tape.
func NewModel(tape TapeSource) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(style.Yellow)

	return &Model{
		tape:    tape,
		index:   make(map[string]int),
		spinner: s,
		styles: styles{
			running:   lipgloss.NewStyle().Foreground(style.Yellow),
			completed: lipgloss.NewStyle().Foreground(style.Green),
			failed:    lipgloss.NewStyle().Foreground(style.Red),
			muted:     lipgloss.NewStyle().Foreground(style.Muted),
		},
	}
}

// Init starts reading from the tape.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		nextUpdate(m.tape),
		m.spinner.Tick,
	)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tapeUpdateMsg:
		if msg.update != nil {
			for _, v := range msg.update.Vertexes {
				m.apply(v)
			}
		}
		return m, nextUpdate(m.tape)
	case tapeEndedMsg:
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) apply(v *progrock.Vertex) {
	var status string
	switch {
	case v.Completed == nil:
		status = statusRunning
	case v.Error != nil:
		status = statusFailed
	case v.Cached:
		status = statusCached
	default:
		status = statusCompleted
	}

	if i, ok := m.index[v.Id]; ok {
		m.vertices[i].Status = status
		return
	}
	m.index[v.Id] = len(m.vertices)
	m.vertices = append(m.vertices, VertexState{ID: v.Id, Name: v.Name, Status: status})
}

// View renders a summary line followed by the most recent vertices that fit
// the window.
func (m *Model) View() string {
	var done, failed int
	for _, v := range m.vertices {
		if v.Status == statusFailed {
			failed++
		}
		if v.Status != statusRunning {
			done++
		}
	}

	var s strings.Builder
	s.WriteString(m.styles.muted.Render(fmt.Sprintf("verified %d/%d, %d failed", done, len(m.vertices), failed)))
	s.WriteString("\n")

	start := 0
	if rows := m.height - 1; m.height > 0 && len(m.vertices) > rows {
		start = len(m.vertices) - max(rows, 0)
	}
	for _, v := range m.vertices[start:] {
		var icon string
		switch v.Status {
		case statusRunning:
			icon = m.spinner.View()
		case statusCompleted:
			icon = m.styles.completed.Render(style.Check)
		case statusCached:
			icon = m.styles.completed.Render(style.Dot)
		case statusFailed:
			icon = m.styles.failed.Render(style.Cross)
		}
		s.WriteString(fmt.Sprintf("%s %s\n", icon, v.Name))
	}
	return s.String()
}
