// Package notifications renders a notify.Store as a terminal list that
// redraws on every store change.
package notifications

import (
	"fmt"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"showcase/internal/notify"
	"showcase/internal/tui/theme"
)

// storeChangedMsg is delivered after any store notification round.
type storeChangedMsg struct{}

// Model lists notifications in seed order and reads read state from the
// store on every render.
type Model struct {
	store       *notify.Store
	items       []notify.Item
	selected    int
	changes     *changeSignal
	unsubscribe func()

	width  int
	height int
}

// New subscribes to store. Call Close when the program exits.
func New(store *notify.Store, items []notify.Item) Model {
	changes := newChangeSignal()
	unsubscribe := store.Subscribe(changes.notify)
	return Model{
		store:       store,
		items:       items,
		changes:     changes,
		unsubscribe: unsubscribe,
	}
}

// Close removes the store subscription and releases a pending wait. It is
// safe to call more than once.
func (m Model) Close() {
	m.unsubscribe()
	m.changes.close()
}

// changeSignal turns store callbacks into a channel bubbletea can wait on.
// Bursts coalesce into one pending signal; the view re-reads everything.
type changeSignal struct {
	mu     sync.Mutex
	ch     chan struct{}
	closed bool
}

func newChangeSignal() *changeSignal {
	return &changeSignal{ch: make(chan struct{}, 1)}
}

func (s *changeSignal) notify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.ch <- struct{}{}:
	default:
	}
}

func (s *changeSignal) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

// waitForChange yields storeChangedMsg on the next change, or nil once the
// signal is closed.
func waitForChange(changes *changeSignal) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-changes.ch; !ok {
			return nil
		}
		return storeChangedMsg{}
	}
}

func (m Model) Init() tea.Cmd {
	return waitForChange(m.changes)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case storeChangedMsg:
		return m, waitForChange(m.changes)

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "j", "down":
			if m.selected < len(m.items)-1 {
				m.selected++
			}
		case "k", "up":
			if m.selected > 0 {
				m.selected--
			}
		case "enter", " ":
			if len(m.items) > 0 {
				m.store.MarkAsRead(m.items[m.selected].ID)
			}
		case "a":
			m.store.MarkAllAsRead()
		}
	}
	return m, nil
}

func (m Model) View() string {
	var lines []string

	header := titleStyle.Render("Notifications") + " " + theme.Badge.Render(fmt.Sprintf("%d", m.store.UnreadCount()))
	lines = append(lines, header, "")

	if len(m.items) == 0 {
		lines = append(lines, rowStyle.Render("You're all caught up."))
	}
	for i, item := range m.items {
		lines = append(lines, m.renderItem(item, i == m.selected)...)
	}

	lines = append(lines, hintStyle.Render("j/k:navigate  enter:mark read  a:mark all as read  q:quit"))

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Left, lipgloss.Top, content)
}

func (m Model) renderItem(item notify.Item, selected bool) []string {
	read, _ := m.store.IsRead(item.ID)

	var b strings.Builder
	b.WriteString(nameStyle.Render(item.Name))
	b.WriteString(" ")
	b.WriteString(item.Action)

	inline, block := describeTarget(item.Target)
	if inline != "" {
		b.WriteString(" ")
		b.WriteString(targetStyle.Render(inline))
	}
	if !read {
		b.WriteString(" ")
		b.WriteString(theme.UnreadDot.String())
	}

	style, prefix := rowStyle, "  "
	switch {
	case selected:
		style, prefix = selectedRowStyle, "► "
	case !read:
		style = unreadRowStyle
	}

	lines := []string{
		style.Render(prefix + b.String()),
		timeStyle.PaddingLeft(4).Render(item.Timestamp),
	}
	if block != "" {
		lines = append(lines, quoteStyle.Render(block))
	}
	return append(lines, "")
}

// describeTarget returns the text shown after the action and an optional
// block rendered below the row.
func describeTarget(t notify.Target) (inline, block string) {
	switch t := t.(type) {
	case nil:
		return "", ""
	case notify.PostTarget:
		return t.Title, ""
	case notify.GroupTarget:
		return t.Name, ""
	case notify.MessageTarget:
		return "", t.Details
	case notify.PictureTarget:
		return "[picture " + t.PictureSrc + "]", ""
	default:
		panic(fmt.Sprintf("unhandled notification target %T", t))
	}
}
