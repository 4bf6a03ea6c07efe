// Package gallery is a terminal browser for a project manifest.
package gallery

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
	"go.uber.org/zap"

	gal "showcase/internal/gallery"
	"showcase/internal/manifest"
	"showcase/internal/tui/theme"
)

type mode int

const (
	modeList mode = iota
	modeSearch
)

type loadedMsg struct {
	projects []manifest.Record
	err      error
}

// Model lists the projects of one manifest source.
type Model struct {
	source string
	client *http.Client
	logger *zap.Logger

	projects []manifest.Record
	filtered []int // indices into projects
	selected int

	mode        mode
	textInput   textinput.Model
	searchQuery string

	loading bool
	failed  bool

	width  int
	height int
}

// Option configures a Model.
type Option func(*Model)

// WithHTTPClient sets the client used for http(s) sources.
func WithHTTPClient(c *http.Client) Option {
	return func(m *Model) { m.client = c }
}

// WithLogger sets the logger that records load failures.
func WithLogger(l *zap.Logger) Option {
	return func(m *Model) { m.logger = l }
}

// New returns a model that loads source on Init.
func New(source string, opts ...Option) Model {
	ti := textinput.New()
	ti.Placeholder = "Search by name or tag..."
	ti.CharLimit = 100
	ti.Width = 40

	m := Model{
		source:    source,
		textInput: ti,
		loading:   true,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return m.load()
}

func (m Model) load() tea.Cmd {
	source, client, logger := m.source, m.client, m.logger
	return func() tea.Msg {
		projects, err := gal.Load(context.Background(), source, client)
		if err != nil {
			logger.Error("load manifest", zap.String("source", source), zap.Error(err))
		}
		return loadedMsg{projects: projects, err: err}
	}
}

// Projects returns the projects that match the current filter.
func (m Model) Projects() []manifest.Record {
	out := make([]manifest.Record, len(m.filtered))
	for i, idx := range m.filtered {
		out[i] = m.projects[idx]
	}
	return out
}

func (m *Model) applyFilter() {
	if m.searchQuery == "" {
		m.filtered = make([]int, len(m.projects))
		for i := range m.projects {
			m.filtered[i] = i
		}
	} else {
		targets := make([]string, len(m.projects))
		for i, p := range m.projects {
			targets[i] = p.Name + " " + strings.Join(p.Tags, " ")
		}
		matches := fuzzy.Find(m.searchQuery, targets)
		m.filtered = make([]int, len(matches))
		for i, match := range matches {
			m.filtered[i] = match.Index
		}
	}
	if m.selected >= len(m.filtered) {
		m.selected = max(0, len(m.filtered)-1)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case loadedMsg:
		m.loading = false
		m.failed = msg.err != nil
		m.projects = msg.projects
		m.applyFilter()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.mode == modeSearch {
			return m.updateSearch(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "esc":
		if m.searchQuery != "" {
			m.searchQuery = ""
			m.applyFilter()
		}

	case "j", "down":
		if m.selected < len(m.filtered)-1 {
			m.selected++
		}

	case "k", "up":
		if m.selected > 0 {
			m.selected--
		}

	case "r":
		m.loading = true
		return m, m.load()

	case "/":
		if m.failed || m.loading {
			return m, nil
		}
		m.mode = modeSearch
		m.textInput.SetValue(m.searchQuery)
		m.textInput.Focus()
		return m, textinput.Blink
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeList
		m.searchQuery = ""
		m.textInput.SetValue("")
		m.textInput.Blur()
		m.applyFilter()
		return m, nil

	case "enter":
		m.mode = modeList
		m.textInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	m.searchQuery = m.textInput.Value()
	m.applyFilter()
	return m, cmd
}

func (m Model) View() string {
	var lines []string
	lines = append(lines, titleStyle.Render("Projects"), "")

	switch {
	case m.loading:
		lines = append(lines, cardStyle.Render("Loading projects..."))
		return m.place(lines)
	case m.failed:
		lines = append(lines, errorStyle.Render(gal.FailureMessage))
		return m.place(lines)
	}

	if m.mode == modeSearch {
		lines = append(lines, "  "+m.textInput.View(), "")
	} else if m.searchQuery != "" {
		lines = append(lines, searchLabelStyle.Render("  Filter: ")+theme.Muted.Render(m.searchQuery), "")
	}

	if len(m.filtered) == 0 {
		if len(m.projects) == 0 {
			lines = append(lines, cardStyle.Render("No projects yet."))
		} else {
			lines = append(lines, cardStyle.Render("No matching projects."))
		}
		lines = append(lines, "")
	} else {
		// three lines per card plus header and hint
		maxVisible := max(1, (m.height-6)/3)
		if m.height == 0 {
			maxVisible = len(m.filtered)
		}
		start := 0
		if m.selected >= maxVisible {
			start = m.selected - maxVisible + 1
		}
		end := min(start+maxVisible, len(m.filtered))

		if start > 0 {
			lines = append(lines, metaStyle.Render(fmt.Sprintf("▲ %d more above", start)))
		}
		for i := start; i < end; i++ {
			lines = append(lines, m.renderCard(m.projects[m.filtered[i]], i == m.selected)...)
		}
		if end < len(m.filtered) {
			lines = append(lines, metaStyle.Render(fmt.Sprintf("▼ %d more below", len(m.filtered)-end)))
		}
	}

	lines = append(lines, hintStyle.Render(m.hintText()))
	return m.place(lines)
}

func (m Model) renderCard(p manifest.Record, selected bool) []string {
	style, prefix := cardStyle, "  "
	if selected {
		style, prefix = selectedCardStyle, "► "
	}

	head := style.Render(prefix + p.Name)
	if len(p.Tags) > 0 {
		chips := make([]string, len(p.Tags))
		for i, tag := range p.Tags {
			chips[i] = tagStyle.Render("#" + tag)
		}
		head += " " + strings.Join(chips, " ")
	}

	return []string{
		head,
		metaStyle.Render(fmt.Sprintf("%s · updated %s", p.ProjectSrc, gal.FormatDate(p.UpdatedAt))),
		"",
	}
}

func (m Model) hintText() string {
	if m.mode == modeSearch {
		return "type to filter  enter:confirm  esc:cancel"
	}
	return "j/k:navigate  /:search  r:reload  q:quit"
}

func (m Model) place(lines []string) string {
	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}
