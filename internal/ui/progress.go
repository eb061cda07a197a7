package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"missionreview/internal/driver"
)

type progressModel struct {
	title    string
	events   <-chan driver.Event
	spinner  spinner.Model
	prog     progress.Model
	items    []missionItem
	index    map[string]int
	finished int
	width    int
	done     bool
}

type missionItem struct {
	name   string
	status string
}

type eventMsg driver.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model listing every mission with
// its review status. The model quits once events is closed.
func NewProgressModel(title string, missions []string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	items := make([]missionItem, 0, len(missions))
	index := make(map[string]int, len(missions))
	for i, name := range missions {
		items = append(items, missionItem{name: name, status: "queued"})
		index[name] = i
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		items:   items,
		index:   index,
		width:   80,
	}
}

// Run renders the progress model to out until events is closed.
func Run(out io.Writer, title string, missions []string, events <-chan driver.Event) error {
	p := tea.NewProgram(NewProgressModel(title, missions, events), tea.WithOutput(out), tea.WithInput(nil))
	_, err := p.Run()
	return err
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(driver.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		progressModel, cmd := m.prog.Update(msg)
		m.prog = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := fmt.Sprintf("%s (%d/%d)", m.title, m.finished, len(m.items))
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	const statusWidth = 12
	nameWidth := max(m.width-statusWidth-4, 20)
	for _, item := range m.items {
		status := styleStatus(item.status).Render(fmt.Sprintf("%*s", statusWidth, item.status))
		fmt.Fprintf(&b, "  %s %s\n", status, truncate(item.name, nameWidth))
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev driver.Event) tea.Cmd {
	idx, ok := m.index[ev.Mission]
	if !ok {
		return nil
	}
	item := &m.items[idx]
	wasFinal := isFinal(item.status)
	item.status = statusLabel(ev)
	if !wasFinal && isFinal(item.status) {
		m.finished++
	}
	return m.prog.SetPercent(float64(m.finished) / float64(len(m.items)))
}

func isFinal(status string) bool {
	switch status {
	case "ok", "cached", "failed":
		return true
	}
	return strings.HasSuffix(status, "errors") || strings.HasSuffix(status, "error")
}

func statusLabel(ev driver.Event) string {
	switch ev.Status {
	case driver.StatusQueued:
		return "queued"
	case driver.StatusWorking:
		if ev.Stage == driver.StageCache {
			return "cache"
		}
		return "checking"
	case driver.StatusError:
		return "failed"
	case driver.StatusDone:
		switch {
		case ev.Errors == 1:
			return "1 error"
		case ev.Errors > 1:
			return fmt.Sprintf("%d errors", ev.Errors)
		case ev.Cached:
			return "cached"
		default:
			return "ok"
		}
	default:
		return ""
	}
}

func styleStatus(status string) lipgloss.Style {
	switch {
	case status == "ok" || status == "cached":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case status == "failed" || strings.HasSuffix(status, "error") || strings.HasSuffix(status, "errors"):
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case status == "checking" || status == "cache":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	// хвост входит в ширину
	return runewidth.Truncate(value, width, "...")
}
