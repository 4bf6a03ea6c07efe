package gallery

import (
	"github.com/charmbracelet/lipgloss"
	"showcase/internal/tui/theme"
)

var (
	titleStyle = theme.Title.Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			Foreground(theme.Text).
			Padding(0, 2)

	selectedCardStyle = lipgloss.NewStyle().
				Foreground(theme.Warning).
				Bold(true).
				Padding(0, 2)

	metaStyle = theme.Muted.PaddingLeft(4)

	tagStyle = theme.Tag

	errorStyle = theme.Error.Padding(0, 1)

	searchLabelStyle = theme.Subtitle

	hintStyle = theme.HelpHint
)
