package tui

import (
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tunneldash/tunneldash/internal/core"
)

// UsageMsg carries one refresh result from the engine into the TUI.
type UsageMsg core.UsageUpdate

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// narrowWidth is the terminal width below which the axis gets the tighter
// label budget.
const narrowWidth = 90

var errRangeFormat = errors.New("invalid range, use YYYY-MM-DD YYYY-MM-DD")

type Model struct {
	rows     []core.ChartRow
	entities []core.KnownEntity
	qrange   core.QueryRange
	totalGB  float64
	err      error

	selection core.Selection
	scope     core.Scope
	locale    core.Locale

	width  int
	height int

	cursor     int // selected bucket index
	showDetail bool
	showHelp   bool
	status     string

	rangeEditing bool   // typing a custom date range
	rangeInput   string // the partial "from to" text

	hasData    bool
	refreshing bool
	animFrame  int

	// Callbacks into the engine, set from main.go.
	onSelectionChange func(core.Selection)
	onScopeChange     func(core.Scope)
	onRefresh         func()
}

func NewModel(defaultShortcut core.Shortcut, scope core.Scope, loc core.Locale) Model {
	return Model{
		selection: core.Selection{Shortcut: defaultShortcut},
		scope:     scope,
		locale:    loc,
	}
}

// SetOnSelectionChange sets a callback invoked when the operator picks a new range.
func (m *Model) SetOnSelectionChange(fn func(core.Selection)) {
	m.onSelectionChange = fn
}

// SetOnScopeChange sets a callback invoked when the operator switches between
// nodes and admins.
func (m *Model) SetOnScopeChange(fn func(core.Scope)) {
	m.onScopeChange = fn
}

// SetOnRefresh sets a callback invoked when the user requests a manual refresh.
func (m *Model) SetOnRefresh(fn func()) {
	m.onRefresh = fn
}

func (m Model) Init() tea.Cmd { return tickCmd() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		m.animFrame++
		return m, tickCmd()

	case UsageMsg:
		return m.applyUsage(msg), nil

	case tea.KeyMsg:
		if m.rangeEditing {
			return m.handleRangeKey(msg)
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

func (m Model) applyUsage(msg UsageMsg) Model {
	m.refreshing = false
	m.err = msg.Err
	if msg.Err != nil {
		return m
	}

	m.hasData = true
	m.rows = msg.Rows
	m.entities = msg.Entities
	m.qrange = msg.Range
	m.totalGB = msg.TotalGB
	m.selection = msg.Selection
	m.scope = msg.Scope
	m.status = ""

	if m.cursor >= len(m.rows) {
		m.cursor = max(0, len(m.rows)-1)
	}
	if m.showDetail && len(m.rows) == 0 {
		m.showDetail = false
	}
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "?":
		m.showHelp = !m.showHelp
		return m, nil

	case "esc":
		m.showHelp = false
		m.showDetail = false
		m.status = ""
		return m, nil

	case "r":
		return m.requestRefresh(), nil

	case "t":
		m.selection = core.Selection{Shortcut: core.NextShortcut(m.selection.Shortcut)}
		if m.onSelectionChange != nil {
			m.onSelectionChange(m.selection)
		}
		return m.requestRefresh(), nil

	case "s":
		if m.scope == core.ScopeNodes {
			m.scope = core.ScopeAdmins
		} else {
			m.scope = core.ScopeNodes
		}
		if m.onScopeChange != nil {
			m.onScopeChange(m.scope)
		}
		return m.requestRefresh(), nil

	case "c":
		m.rangeEditing = true
		m.rangeInput = ""
		m.status = ""
		return m, nil

	case "left", "h":
		return m.moveCursor(-1), nil

	case "right", "l":
		return m.moveCursor(1), nil

	case "home", "g":
		return m.moveCursor(-len(m.rows)), nil

	case "end", "G":
		return m.moveCursor(len(m.rows)), nil

	case "enter":
		return m.openDetail(core.Click{Index: m.cursor}), nil
	}
	return m, nil
}

// handleRangeKey consumes keystrokes while a custom range is being typed.
func (m Model) handleRangeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.rangeEditing = false
		m.rangeInput = ""
		return m, nil

	case tea.KeyBackspace:
		if len(m.rangeInput) > 0 {
			m.rangeInput = m.rangeInput[:len(m.rangeInput)-1]
		}
		return m, nil

	case tea.KeyEnter:
		sel, err := parseCustomRange(m.rangeInput)
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.rangeEditing = false
		m.rangeInput = ""
		m.selection = sel
		if m.onSelectionChange != nil {
			m.onSelectionChange(sel)
		}
		return m.requestRefresh(), nil

	case tea.KeyRunes, tea.KeySpace:
		m.rangeInput += msg.String()
		return m, nil
	}
	return m, nil
}

// parseCustomRange reads "YYYY-MM-DD YYYY-MM-DD" and widens the end to cover
// the whole final day; the resolver clamps it back if that day is today or in
// the future.
func parseCustomRange(input string) (core.Selection, error) {
	fields := strings.Fields(input)
	if len(fields) != 2 {
		return core.Selection{}, errRangeFormat
	}
	from, err := time.Parse("2006-01-02", fields[0])
	if err != nil {
		return core.Selection{}, errRangeFormat
	}
	to, err := time.Parse("2006-01-02", fields[1])
	if err != nil {
		return core.Selection{}, errRangeFormat
	}
	return core.Selection{
		Custom:     true,
		CustomFrom: from,
		CustomTo:   to.Add(24*time.Hour - time.Nanosecond),
	}, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	idx, ok := m.bucketAt(msg.X)
	if !ok {
		return m, nil
	}
	m.cursor = idx
	return m.openDetail(core.Click{Index: idx}), nil
}

func (m Model) moveCursor(delta int) Model {
	if len(m.rows) == 0 {
		return m
	}
	if m.showDetail {
		_, idx := core.Navigate(m.rows, m.cursor, delta)
		m.cursor = idx
		return m
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.rows)-1)
	return m
}

func (m Model) openDetail(click core.Click) Model {
	_, idx, ok := core.ResolveClickedRow(m.rows, click)
	if !ok {
		m.status = "no usage in this bucket"
		return m
	}
	m.cursor = idx
	m.showDetail = true
	m.status = ""
	return m
}

func (m Model) requestRefresh() Model {
	m.refreshing = true
	if m.onRefresh != nil {
		m.onRefresh()
	}
	return m
}

func (m Model) viewportClass() core.ViewportClass {
	if m.width > 0 && m.width < narrowWidth {
		return core.ViewportNarrow
	}
	return core.ViewportWide
}
