package notifications

import (
	"github.com/charmbracelet/lipgloss"
	"showcase/internal/tui/theme"
)

var (
	titleStyle = theme.Title.PaddingLeft(1)

	rowStyle = lipgloss.NewStyle().
			Foreground(theme.Text).
			Padding(0, 1)

	unreadRowStyle = theme.UnreadRow.Foreground(theme.Text).Padding(0, 1)

	selectedRowStyle = theme.Selected.Padding(0, 1)

	nameStyle   = theme.Bold
	targetStyle = theme.Link
	timeStyle   = theme.Muted
	hintStyle   = theme.HelpHint

	quoteStyle = theme.Quote.MarginLeft(4)
)
