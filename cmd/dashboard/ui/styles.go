// Package ui renders the GTM Studio terminal dashboard.
package ui

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/BerylCAtieno/gtm-studio/internal/models"
)

// Palette follows the slate/indigo look of the web dashboard.
var (
	Background = lipgloss.Color("#0f172a")
	Surface    = lipgloss.Color("#1e293b")
	Border     = lipgloss.Color("#334155")
	Muted      = lipgloss.Color("#94a3b8")
	Foreground = lipgloss.Color("#f8fafc")
	Primary    = lipgloss.Color("#6366f1")
	Secondary  = lipgloss.Color("#3b82f6")
	Pink       = lipgloss.Color("#ec4899")

	Success = lipgloss.Color("#10b981")
	Warning = lipgloss.Color("#eab308")
	Danger  = lipgloss.Color("#ef4444")
)

type Styles struct {
	Sidebar      lipgloss.Style
	Brand        lipgloss.Style
	NavItem      lipgloss.Style
	NavActive    lipgloss.Style
	Content      lipgloss.Style
	Title        lipgloss.Style
	Subtitle     lipgloss.Style
	Card         lipgloss.Style
	CardTitle    lipgloss.Style
	CardValue    lipgloss.Style
	Change       lipgloss.Style
	Column       lipgloss.Style
	Label        lipgloss.Style
	Selected     lipgloss.Style
	Hint         lipgloss.Style
	Error        lipgloss.Style
	StatusBar    lipgloss.Style
	StatusAccent lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Sidebar: lipgloss.NewStyle().
			Width(24).
			Padding(1, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(Border),
		Brand:     lipgloss.NewStyle().Bold(true).Foreground(Primary).MarginBottom(1),
		NavItem:   lipgloss.NewStyle().Foreground(Muted).PaddingLeft(1),
		NavActive: lipgloss.NewStyle().Bold(true).Foreground(Foreground).Background(Primary).PaddingLeft(1).PaddingRight(1),
		Content:   lipgloss.NewStyle().Padding(1, 2),
		Title:     lipgloss.NewStyle().Bold(true).Foreground(Foreground),
		Subtitle:  lipgloss.NewStyle().Foreground(Muted).MarginBottom(1),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 1).
			Width(22),
		CardTitle: lipgloss.NewStyle().Foreground(Muted),
		CardValue: lipgloss.NewStyle().Bold(true).Foreground(Foreground),
		Change:    lipgloss.NewStyle().Foreground(Success),
		Column: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(Border).
			PaddingLeft(1).
			Width(24),
		Label:        lipgloss.NewStyle().Bold(true).Foreground(Muted),
		Selected:     lipgloss.NewStyle().Foreground(Primary).Bold(true),
		Hint:         lipgloss.NewStyle().Foreground(Muted).Italic(true),
		Error:        lipgloss.NewStyle().Foreground(Danger),
		StatusBar:    lipgloss.NewStyle().Foreground(Muted).Background(Surface).Padding(0, 1),
		StatusAccent: lipgloss.NewStyle().Foreground(Pink).Background(Surface).Bold(true),
	}
}

// BandColor maps a score band onto the traffic-light colours.
func BandColor(b models.Band) lipgloss.Color {
	switch b {
	case models.BandHigh:
		return Success
	case models.BandMedium:
		return Warning
	default:
		return Danger
	}
}

// ScoreBadge renders the feedback score coloured by band.
func ScoreBadge(score int) string {
	band := models.ScoreBand(score)
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(Background).
		Background(BandColor(band)).
		Padding(0, 1).
		Render(strconv.Itoa(score) + "/100")
}
