package ui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/BerylCAtieno/gtm-studio/internal/board"
	"github.com/BerylCAtieno/gtm-studio/internal/flow"
	"github.com/BerylCAtieno/gtm-studio/internal/logger"
	"github.com/BerylCAtieno/gtm-studio/internal/models"
)

type mode int

const (
	modeNav mode = iota
	modeDescription
	modeContent
	modeInput
)

// inputTarget says what the single-line input is editing.
type inputTarget int

const (
	inputAddItem inputTarget = iota
	inputRole
	inputCompanySize
)

// Messages delivered when a gateway call started from a tea.Cmd finishes.
type (
	profileDoneMsg  struct{ err error }
	feedbackDoneMsg struct{ err error }
)

type Model struct {
	ctx    context.Context
	shell  *flow.Shell
	log    *logger.Logger
	styles Styles

	dashboard board.Dashboard
	columns   []board.Column
	boardErr  error

	mode        mode
	target      inputTarget
	description textarea.Model
	content     textarea.Model
	input       textinput.Model
	spinner     spinner.Model
	renderer    *glamour.TermRenderer

	generating bool
	analyzing  bool

	fieldIdx int
	itemIdx  int

	status string
	width  int
	height int
}

// New builds the dashboard around a shell. ctx bounds every gateway call.
func New(ctx context.Context, shell *flow.Shell, log *logger.Logger) Model {
	if log == nil {
		log = logger.NewNop()
	}

	desc := textarea.New()
	desc.Placeholder = "Describe your vertical AI product, e.g. AI compliance tool for architecture firms"
	desc.SetWidth(70)
	desc.SetHeight(4)

	content := textarea.New()
	content.Placeholder = "Paste ad copy, an email, a value proposition or a landing page section"
	content.SetWidth(70)
	content.SetHeight(6)

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 200
	ti.Width = 50

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	renderer, _ := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(72),
	)

	m := Model{
		ctx:         ctx,
		shell:       shell,
		log:         log.With("component", "tui"),
		styles:      DefaultStyles(),
		description: desc,
		content:     content,
		input:       ti,
		spinner:     sp,
		renderer:    renderer,
		width:       120,
		height:      40,
	}
	m.dashboard, m.boardErr = board.LoadDashboard()
	if m.boardErr == nil {
		m.columns, m.boardErr = board.Board()
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m Model) busy() bool {
	return m.generating || m.analyzing
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		w := msg.Width - 30
		if w < 40 {
			w = 40
		}
		m.description.SetWidth(w)
		m.content.SetWidth(w)
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case profileDoneMsg:
		m.generating = false
		switch {
		case errors.Is(msg.err, flow.ErrEmptyInput):
			m.status = "Enter a description first."
		case msg.err != nil:
			m.status = flow.NoticeProfileFailed
			m.log.Warn("generate failed", "error", msg.err)
		default:
			m.status = "ICP generated. Press u to use it as context."
		}
		return m, nil

	case feedbackDoneMsg:
		m.analyzing = false
		switch {
		case errors.Is(msg.err, flow.ErrEmptyInput):
			m.status = "Enter some content first."
		case msg.err != nil:
			m.status = flow.NoticeAnalysisFailed
			m.log.Warn("analysis failed", "error", msg.err)
		default:
			m.status = "Analysis complete."
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.mode {
		case modeDescription:
			return m.updateTextarea(msg, &m.description)
		case modeContent:
			return m.updateTextarea(msg, &m.content)
		case modeInput:
			return m.updateInput(msg)
		}
		return m.updateNav(msg)
	}
	return m, nil
}

func (m Model) updateTextarea(msg tea.KeyMsg, ta *textarea.Model) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		ta.Blur()
		m.syncContent()
		m.mode = modeNav
		return m, nil
	case tea.KeyCtrlS:
		ta.Blur()
		m.syncContent()
		m.mode = modeNav
		return m.submit()
	}
	var cmd tea.Cmd
	*ta, cmd = ta.Update(msg)
	return m, cmd
}

// syncContent pushes the content editor into the creative flow.
func (m *Model) syncContent() {
	m.shell.Creative.SetContent(m.content.Value())
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.input.Blur()
		m.input.Reset()
		m.mode = modeNav
		return m, nil
	case tea.KeyEnter:
		value := m.input.Value()
		switch m.target {
		case inputAddItem:
			if m.shell.Creative.AddItem(m.field(), value) {
				m.itemIdx = len(m.workingItems()) - 1
			}
		case inputRole:
			m.shell.Creative.UpdateProfile(&value, nil)
		case inputCompanySize:
			m.shell.Creative.UpdateProfile(nil, &value)
		}
		m.input.Blur()
		m.input.Reset()
		m.mode = modeNav
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	views := flow.Views()
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "tab":
		m.navigate(views[(m.viewIndex()+1)%len(views)])
		return m, nil
	case "shift+tab":
		m.navigate(views[(m.viewIndex()+len(views)-1)%len(views)])
		return m, nil
	case "1", "2", "3", "4":
		m.navigate(views[int(msg.Runes[0]-'1')])
		return m, nil
	}

	switch m.shell.View() {
	case flow.ViewGenerator:
		return m.updateGenerator(msg)
	case flow.ViewCreative:
		return m.updateCreative(msg)
	}
	return m, nil
}

func (m Model) viewIndex() int {
	current := m.shell.View()
	for i, v := range flow.Views() {
		if v == current {
			return i
		}
	}
	return 0
}

func (m *Model) navigate(v flow.View) {
	m.shell.Navigate(v)
	m.status = ""
	if v == flow.ViewCreative {
		m.content.SetValue(m.shell.Creative.Snapshot().Content)
		m.clampItem()
	}
}

func (m Model) updateGenerator(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "i", "enter":
		m.mode = modeDescription
		return m, m.description.Focus()
	case "g":
		return m.submit()
	case "u":
		if _, err := m.shell.SelectProfile(); err != nil {
			m.status = "Generate a profile first."
			return m, nil
		}
		m.navigate(flow.ViewCreative)
		m.status = "Profile loaded as context."
	}
	return m, nil
}

func (m Model) updateCreative(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "i", "enter":
		m.mode = modeContent
		return m, m.content.Focus()
	case "r":
		return m.submit()
	case "t":
		m.shell.Creative.SetAssetType(m.shell.Creative.Snapshot().AssetType.Next())
	case "v":
		if err := m.shell.Creative.ApplyRevision(); err != nil {
			m.status = "No revision to apply."
			return m, nil
		}
		m.content.SetValue(m.shell.Creative.Snapshot().Content)
		m.status = "Revision applied. Press r to analyze again."
	case "left", "h":
		m.fieldIdx = (m.fieldIdx + len(models.ListFields()) - 1) % len(models.ListFields())
		m.clampItem()
	case "right", "l":
		m.fieldIdx = (m.fieldIdx + 1) % len(models.ListFields())
		m.clampItem()
	case "up", "k":
		if m.itemIdx > 0 {
			m.itemIdx--
		}
	case "down", "j":
		if m.itemIdx < len(m.workingItems())-1 {
			m.itemIdx++
		}
	case "K":
		if m.itemIdx > 0 && m.shell.Creative.ReorderItem(m.field(), m.itemIdx, m.itemIdx-1) == nil {
			m.itemIdx--
		}
	case "J":
		if m.itemIdx < len(m.workingItems())-1 && m.shell.Creative.ReorderItem(m.field(), m.itemIdx, m.itemIdx+1) == nil {
			m.itemIdx++
		}
	case "x":
		if err := m.shell.Creative.RemoveItem(m.field(), m.itemIdx); err == nil {
			m.clampItem()
		}
	case "+", "a":
		return m.openInput(inputAddItem, "")
	case "R":
		return m.openInput(inputRole, m.shell.Creative.Snapshot().WorkingProfile.Role)
	case "C":
		return m.openInput(inputCompanySize, m.shell.Creative.Snapshot().WorkingProfile.CompanySize)
	}
	return m, nil
}

func (m Model) openInput(target inputTarget, value string) (tea.Model, tea.Cmd) {
	m.target = target
	m.mode = modeInput
	m.input.SetValue(value)
	return m, m.input.Focus()
}

// submit starts the gateway call for the active view.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.busy() {
		return m, nil
	}
	switch m.shell.View() {
	case flow.ViewGenerator:
		desc := m.description.Value()
		m.generating = true
		m.status = ""
		return m, tea.Batch(m.spinner.Tick, generateCmd(m.ctx, m.shell.Generator, desc))
	case flow.ViewCreative:
		m.syncContent()
		m.analyzing = true
		m.status = ""
		return m, tea.Batch(m.spinner.Tick, analyzeCmd(m.ctx, m.shell.Creative))
	}
	return m, nil
}

func generateCmd(ctx context.Context, g *flow.GeneratorFlow, description string) tea.Cmd {
	return func() tea.Msg {
		_, err := g.Submit(ctx, description)
		return profileDoneMsg{err: err}
	}
}

func analyzeCmd(ctx context.Context, c *flow.CreativeFlow) tea.Cmd {
	return func() tea.Msg {
		_, err := c.Analyze(ctx)
		return feedbackDoneMsg{err: err}
	}
}

func (m Model) field() models.ListField {
	return models.ListFields()[m.fieldIdx]
}

func (m Model) workingItems() []string {
	wp := m.shell.Creative.Snapshot().WorkingProfile
	return wp.Items(m.field())
}

func (m *Model) clampItem() {
	n := len(m.workingItems())
	if m.itemIdx >= n {
		m.itemIdx = n - 1
	}
	if m.itemIdx < 0 {
		m.itemIdx = 0
	}
}
