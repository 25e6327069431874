package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/BerylCAtieno/gtm-studio/internal/board"
	"github.com/BerylCAtieno/gtm-studio/internal/flow"
	"github.com/BerylCAtieno/gtm-studio/internal/models"
)

const barWidth = 30

func (m Model) View() string {
	var body string
	switch m.shell.View() {
	case flow.ViewGenerator:
		body = m.viewGenerator()
	case flow.ViewCreative:
		body = m.viewCreative()
	case flow.ViewCRM:
		body = m.viewCRM()
	default:
		body = m.viewPulse()
	}

	main := lipgloss.JoinHorizontal(lipgloss.Top, m.viewSidebar(), m.styles.Content.Render(body))
	return lipgloss.JoinVertical(lipgloss.Left, main, m.viewStatusBar())
}

func (m Model) viewSidebar() string {
	var b strings.Builder
	b.WriteString(m.styles.Brand.Render("GTM STUDIO"))
	b.WriteString("\n")
	current := m.shell.View()
	for i, v := range flow.Views() {
		label := fmt.Sprintf("%d %s", i+1, v.Label())
		if v == current {
			b.WriteString(m.styles.NavActive.Render(label))
		} else {
			b.WriteString(m.styles.NavItem.Render(label))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Hint.Render("tab/1-4 switch · q quit"))
	return m.styles.Sidebar.Render(b.String())
}

func (m Model) viewStatusBar() string {
	left := m.styles.StatusBar.Render("PIPELINE CONTEXT:")
	ctx := m.styles.StatusAccent.Render(m.shell.PipelineContext())
	right := ""
	if m.busy() {
		right = m.styles.StatusBar.Render(m.spinner.View() + " working")
	} else if m.status != "" {
		right = m.styles.StatusBar.Render(m.status)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, left, ctx, right)
}

func (m Model) viewPulse() string {
	if m.boardErr != nil {
		return m.styles.Error.Render(m.boardErr.Error())
	}
	d := m.dashboard

	var b strings.Builder
	b.WriteString(m.styles.Title.Render(d.Title))
	b.WriteString("\n")
	b.WriteString(m.styles.Subtitle.Render(strings.ToUpper(d.Subtitle)))
	b.WriteString("\n")

	cards := make([]string, 0, len(d.Stats))
	for _, s := range d.Stats {
		cards = append(cards, m.styles.Card.Render(
			m.styles.CardTitle.Render(s.Title)+"\n"+
				m.styles.CardValue.Render(s.Value)+"  "+
				m.styles.Change.Render("↗ "+s.Change),
		))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Title.Render("Throughput Velocity"))
	b.WriteString("\n")
	b.WriteString(renderSeries(d))
	return b.String()
}

// renderSeries draws the weekly engagement and feedback values as horizontal bars.
func renderSeries(d board.Dashboard) string {
	max := d.MaxSeriesValue()
	engagement := lipgloss.NewStyle().Foreground(Primary)
	feedback := lipgloss.NewStyle().Foreground(Secondary)

	var b strings.Builder
	for _, p := range d.Series {
		fmt.Fprintf(&b, "%-4s %s %d\n", p.Name, engagement.Render(bar(p.Engagement, max)), p.Engagement)
		fmt.Fprintf(&b, "%-4s %s %d\n", "", feedback.Render(bar(p.Feedback, max)), p.Feedback)
	}
	return b.String()
}

func bar(value, max int) string {
	if max <= 0 || value <= 0 {
		return ""
	}
	n := value * barWidth / max
	if n == 0 {
		n = 1
	}
	return strings.Repeat("█", n)
}

func (m Model) viewGenerator() string {
	st := m.shell.Generator.Snapshot()

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Prism: ICP Generator"))
	b.WriteString("\n")
	b.WriteString(m.styles.Subtitle.Render("Crystallize your ideal customer from a vertical description."))
	b.WriteString("\n")
	b.WriteString(m.description.View())
	b.WriteString("\n")
	if m.mode == modeDescription {
		b.WriteString(m.styles.Hint.Render("ctrl+s generate · esc done"))
	} else {
		b.WriteString(m.styles.Hint.Render("i edit · g generate · u use as context"))
	}
	b.WriteString("\n\n")

	if st.Notice != "" {
		b.WriteString(m.styles.Error.Render(st.Notice))
		b.WriteString("\n")
	}
	if st.Result != nil {
		b.WriteString(m.renderMarkdown(st.Result.Markdown()))
	}
	return b.String()
}

func (m Model) renderMarkdown(md string) string {
	if m.renderer == nil {
		return md
	}
	out, err := m.renderer.Render(md)
	if err != nil {
		return md
	}
	return out
}

func (m Model) viewCreative() string {
	st := m.shell.Creative.Snapshot()

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Echo: Creative Feedback Loop"))
	b.WriteString("\n")
	b.WriteString(m.styles.Subtitle.Render("Asset type: " + st.AssetType.Label() + "  (t to cycle)"))
	b.WriteString("\n")
	b.WriteString(m.content.View())
	b.WriteString("\n")
	if m.mode == modeContent {
		b.WriteString(m.styles.Hint.Render("ctrl+s analyze · esc done"))
	} else {
		b.WriteString(m.styles.Hint.Render("i edit · r analyze · v apply revision"))
	}
	b.WriteString("\n\n")

	left := m.viewContextEditor(st.WorkingProfile)
	right := m.viewFeedback(st)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, "   ", right))
	return b.String()
}

func (m Model) viewContextEditor(p models.Profile) string {
	var b strings.Builder
	b.WriteString(m.styles.Label.Render("CONTEXT"))
	b.WriteString("\n")
	role := p.Role
	if role == "" {
		role = "(no role)"
	}
	fmt.Fprintf(&b, "%s @ %s\n", role, p.CompanySize)

	fields := models.ListFields()
	tabs := make([]string, len(fields))
	for i, f := range fields {
		if i == m.fieldIdx {
			tabs[i] = m.styles.Selected.Render("[" + f.Label() + "]")
		} else {
			tabs[i] = m.styles.NavItem.Render(f.Label())
		}
	}
	b.WriteString(strings.Join(tabs, " "))
	b.WriteString("\n")

	items := p.Items(m.field())
	if len(items) == 0 {
		b.WriteString(m.styles.Hint.Render("  (empty)"))
		b.WriteString("\n")
	}
	for i, item := range items {
		if i == m.itemIdx {
			b.WriteString(m.styles.Selected.Render("› " + item))
		} else {
			b.WriteString("  " + item)
		}
		b.WriteString("\n")
	}

	if m.mode == modeInput {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}
	b.WriteString(m.styles.Hint.Render("←/→ field · j/k item · J/K move · a add · x remove · R role · C size"))
	return b.String()
}

func (m Model) viewFeedback(st flow.CreativeState) string {
	var b strings.Builder
	b.WriteString(m.styles.Label.Render("FEEDBACK"))
	b.WriteString("\n")
	if st.Notice != "" {
		b.WriteString(m.styles.Error.Render(st.Notice))
		b.WriteString("\n")
	}
	fb := st.Feedback
	if fb == nil {
		b.WriteString(m.styles.Hint.Render("Run an analysis to see the score."))
		return b.String()
	}

	b.WriteString(ScoreBadge(fb.Score))
	b.WriteString("\n")
	section := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		b.WriteString(m.styles.Label.Render(title))
		b.WriteString("\n")
		for _, it := range items {
			b.WriteString("• " + it + "\n")
		}
	}
	section("Strengths", fb.Strengths)
	section("Weaknesses", fb.Weaknesses)
	section("Suggestions", fb.Suggestions)
	if fb.HasRevision() {
		b.WriteString(m.styles.Label.Render("Revised"))
		b.WriteString("\n")
		b.WriteString(fb.RevisedContent)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewCRM() string {
	if m.boardErr != nil {
		return m.styles.Error.Render(m.boardErr.Error())
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Flux: Vertical CRM"))
	b.WriteString("\n\n")

	cols := make([]string, 0, len(m.columns))
	for _, col := range m.columns {
		var c strings.Builder
		fmt.Fprintf(&c, "%s (%d)\n\n", m.styles.Label.Render(strings.ToUpper(col.Title)), len(col.Leads))
		for _, l := range col.Leads {
			dot := lipgloss.NewStyle().Foreground(BandColor(l.SentimentBand())).Render("●")
			fmt.Fprintf(&c, "%s %s\n%s\n%s\n\n", dot, m.styles.CardValue.Render(l.Company), l.Name, m.styles.Hint.Render(l.Vertical))
		}
		cols = append(cols, m.styles.Column.Render(c.String()))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cols...))
	return b.String()
}
