package theme

import "github.com/charmbracelet/lipgloss"

// ---------------------------------------------------------------------------
// Color palette (ANSI 0-15 plus one 256-color surface)
// ---------------------------------------------------------------------------

var (
	Text       = lipgloss.Color("7")
	TextMuted  = lipgloss.Color("8")
	TextBright = lipgloss.Color("15")

	Primary   = lipgloss.Color("4")   // blue
	Secondary = lipgloss.Color("6")   // cyan
	Accent    = lipgloss.Color("5")   // magenta
	Warning   = lipgloss.Color("3")   // yellow
	Danger    = lipgloss.Color("1")   // red
	Surface   = lipgloss.Color("236") // dark bg
	Border    = lipgloss.Color("8")
)

// ---------------------------------------------------------------------------
// Text styles
// ---------------------------------------------------------------------------

var (
	Title    = lipgloss.NewStyle().Bold(true).Foreground(Primary)
	Subtitle = lipgloss.NewStyle().Bold(true).Foreground(Secondary)
	Muted    = lipgloss.NewStyle().Foreground(TextMuted)
	Bold     = lipgloss.NewStyle().Bold(true).Foreground(TextBright)

	Error    = lipgloss.NewStyle().Bold(true).Foreground(Danger)
	Selected = lipgloss.NewStyle().Bold(true).Foreground(Warning)

	Tag  = lipgloss.NewStyle().Foreground(Accent)
	Link = lipgloss.NewStyle().Bold(true).Foreground(Secondary)
)

// ---------------------------------------------------------------------------
// Components
// ---------------------------------------------------------------------------

var (
	// Badge is the unread counter next to a heading.
	Badge = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextBright).
		Background(Primary).
		Padding(0, 1)

	UnreadDot = lipgloss.NewStyle().Foreground(Danger).SetString("●")

	UnreadRow = lipgloss.NewStyle().Background(Surface)

	Quote = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)

	HelpHint = lipgloss.NewStyle().
			Foreground(TextMuted).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(Border)
)
