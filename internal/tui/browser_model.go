package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshade/vaultctl/internal/listing"
	"github.com/rshade/vaultctl/internal/logging"
	"github.com/rshade/vaultctl/internal/vault"
)

// ErrNoViews is returned when the browser is built without any engine.
var ErrNoViews = errors.New("browser needs at least one collection")

// pageLoadedMsg reports the end of one engine call started by the browser.
type pageLoadedMsg struct {
	view vault.Collection
	err  error
}

// pane is the per-collection state. It is shared by pointer between model copies.
type pane struct {
	engine   *listing.Engine[vault.File]
	inflight int
	visited  bool
}

// BrowserModel is the Bubble Tea model for browsing the three file collections.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View interface methods.
type BrowserModel struct {
	ctx    context.Context
	views  []vault.Collection
	panes  map[vault.Collection]*pane
	active int
	state  ViewState

	table    table.Model
	search   textinput.Model
	gotoBuf  string
	selected int

	status    string
	statusErr bool
	loading   *LoadingState

	width  int
	height int
}

// NewBrowserModel creates a browser over engines, starting on the start
// collection. Collections without an engine are not shown.
func NewBrowserModel(
	ctx context.Context,
	engines map[vault.Collection]*listing.Engine[vault.File],
	start vault.Collection,
) (BrowserModel, error) {
	m := BrowserModel{
		ctx:     ctx,
		panes:   make(map[vault.Collection]*pane, len(engines)),
		state:   ViewStateList,
		search:  newTextInput(),
		loading: NewLoadingState(),
		width:   defaultWidth,
		height:  defaultHeight,
	}
	for _, c := range vault.Collections() {
		eng, ok := engines[c]
		if !ok || eng == nil {
			continue
		}
		if c == start {
			m.active = len(m.views)
		}
		m.views = append(m.views, c)
		m.panes[c] = &pane{engine: eng}
	}
	if len(m.views) == 0 {
		return BrowserModel{}, ErrNoViews
	}
	m.rebuildTable()
	return m, nil
}

// Init starts the spinner and loads the first page of the starting view.
func (m BrowserModel) Init() tea.Cmd {
	view := m.ActiveView()
	p := m.panes[view]
	p.visited = true
	return tea.Batch(m.loading.Init(), m.fetch(view, p.engine.LoadFirstPage))
}

// ActiveView returns the collection being shown.
func (m BrowserModel) ActiveView() vault.Collection {
	return m.views[m.active]
}

// State returns the current screen.
func (m BrowserModel) State() ViewState {
	return m.state
}

// Status returns the status line text.
func (m BrowserModel) Status() string {
	return m.status
}

// Engine returns the engine behind view, or nil.
func (m BrowserModel) Engine(view vault.Collection) *listing.Engine[vault.File] {
	if p, ok := m.panes[view]; ok {
		return p.engine
	}
	return nil
}

// Update handles messages (Bubble Tea interface).
func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.rebuildTable()
		return m, nil
	case spinner.TickMsg:
		return m, m.loading.Update(msg)
	case pageLoadedMsg:
		return m.handlePageLoaded(msg)
	case tea.KeyMsg:
		switch m.state {
		case ViewStateSearch:
			return m.handleSearchKey(msg)
		case ViewStateGoto:
			return m.handleGotoKey(msg)
		case ViewStateDetail:
			return m.handleDetailKey(msg)
		case ViewStateList:
			return m.handleListKey(msg)
		case ViewStateQuitting:
			return m, nil
		}
	}
	return m, nil
}

// fetch runs op on the engine of view as a command. The engine drops results
// that were overtaken by a newer call.
func (m BrowserModel) fetch(view vault.Collection, op func(context.Context) error) tea.Cmd {
	m.panes[view].inflight++
	ctx := m.ctx
	return func() tea.Msg {
		return pageLoadedMsg{view: view, err: op(ctx)}
	}
}

func (m BrowserModel) handlePageLoaded(msg pageLoadedMsg) (tea.Model, tea.Cmd) {
	p, ok := m.panes[msg.view]
	if !ok {
		return m, nil
	}
	if p.inflight > 0 {
		p.inflight--
	}

	switch {
	case errors.Is(msg.err, listing.ErrStaleResponse):
		return m, nil
	case msg.err != nil:
		logger := logging.FromContext(m.ctx)
		logger.Debug().Ctx(m.ctx).
			Str("component", "tui").
			Str("collection", msg.view.String()).
			Err(msg.err).
			Msg("page load failed")
		m.setError(msg.err)
	default:
		m.status = ""
		m.statusErr = false
	}

	if msg.view == m.ActiveView() {
		m.rebuildTable()
	}
	return m, nil
}

func (m *BrowserModel) setError(err error) {
	m.statusErr = true
	switch {
	case errors.Is(err, listing.ErrInvalidPageRequest):
		m.status = "No such page"
	case errors.Is(err, vault.ErrUnauthorized):
		m.status = "Session expired: run 'vaultctl login'"
	default:
		m.status = err.Error()
	}
}

func (m *BrowserModel) setInfo(text string) {
	m.status = text
	m.statusErr = false
}

func (m BrowserModel) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	view := m.ActiveView()
	eng := m.panes[view].engine

	switch key := msg.String(); key {
	case keyQuit, keyCtrlC:
		m.state = ViewStateQuitting
		return m, tea.Quit
	case keyTab:
		return m.switchView(1)
	case keyShiftTab:
		return m.switchView(-1)
	case keyNext, keyRight:
		if !eng.Metadata().HasNext() {
			m.setInfo("Already on the last page")
			return m, nil
		}
		return m, m.fetch(view, eng.NextPage)
	case keyPrev, keyLeft:
		if !eng.Metadata().HasPrevious() {
			m.setInfo("Already on the first page")
			return m, nil
		}
		return m, m.fetch(view, eng.PrevPage)
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		n, _ := strconv.Atoi(key)
		return m, m.goTo(view, n)
	case keyGoto:
		m.state = ViewStateGoto
		m.gotoBuf = ""
		return m, nil
	case keySlash:
		m.state = ViewStateSearch
		m.search.SetValue(eng.Query().ActiveKeyword())
		m.search.CursorEnd()
		m.search.Focus()
		return m, textinput.Blink
	case keyFilter:
		mode := eng.CycleFilter()
		m.setInfo("Filter: " + mode.String())
		m.rebuildTable()
		return m, nil
	case keyRefresh:
		return m, m.fetch(view, eng.RefreshCurrentPage)
	case keyEnter:
		visible := eng.Visible()
		cursor := m.table.Cursor()
		if cursor >= 0 && cursor < len(visible) {
			m.selected = cursor
			m.state = ViewStateDetail
		}
		return m, nil
	case keyEsc:
		if eng.Query().Searching() {
			return m, m.fetch(view, func(ctx context.Context) error {
				return eng.Search(ctx, "")
			})
		}
		return m, nil
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
}

// goTo jumps to the 1-based page n of view.
func (m BrowserModel) goTo(view vault.Collection, n int) tea.Cmd {
	eng := m.panes[view].engine
	return m.fetch(view, func(ctx context.Context) error {
		return eng.GoToPage(ctx, n-1)
	})
}

func (m BrowserModel) switchView(step int) (tea.Model, tea.Cmd) {
	m.active = (m.active + step + len(m.views)) % len(m.views)
	m.selected = 0
	m.rebuildTable()

	view := m.ActiveView()
	p := m.panes[view]
	if p.visited {
		return m, nil
	}
	p.visited = true
	return m, m.fetch(view, p.engine.LoadFirstPage)
}

func (m BrowserModel) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyEnter:
		m.state = ViewStateList
		m.search.Blur()
		view := m.ActiveView()
		eng := m.panes[view].engine
		keyword := m.search.Value()
		return m, m.fetch(view, func(ctx context.Context) error {
			return eng.Search(ctx, keyword)
		})
	case keyEsc:
		m.state = ViewStateList
		m.search.Blur()
		return m, nil
	case keyCtrlC:
		m.state = ViewStateQuitting
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m BrowserModel) handleGotoKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case keyEnter:
		m.state = ViewStateList
		buf := m.gotoBuf
		m.gotoBuf = ""
		if buf == "" {
			return m, nil
		}
		n, err := strconv.Atoi(buf)
		if err != nil || n < 1 {
			m.setError(fmt.Errorf("%w: %q", listing.ErrInvalidPageRequest, buf))
			return m, nil
		}
		return m, m.goTo(m.ActiveView(), n)
	case keyEsc:
		m.state = ViewStateList
		m.gotoBuf = ""
		return m, nil
	case keyBack:
		if m.gotoBuf != "" {
			m.gotoBuf = m.gotoBuf[:len(m.gotoBuf)-1]
		}
		return m, nil
	case keyCtrlC:
		m.state = ViewStateQuitting
		return m, tea.Quit
	}
	if len(key) == 1 && key[0] >= '0' && key[0] <= '9' && len(m.gotoBuf) < maxGotoDigits {
		m.gotoBuf += key
	}
	return m, nil
}

func (m BrowserModel) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyQuit, keyCtrlC:
		m.state = ViewStateQuitting
		return m, tea.Quit
	case keyEsc, keyEnter:
		m.state = ViewStateList
		m.table.Focus()
		return m, nil
	}
	return m, nil
}

// selectedFile returns the file shown in the detail view.
func (m BrowserModel) selectedFile() (vault.File, bool) {
	visible := m.panes[m.ActiveView()].engine.Visible()
	if m.selected < 0 || m.selected >= len(visible) {
		return vault.File{}, false
	}
	return visible[m.selected], true
}

// rebuildTable reconstructs the table from the active engine's visible records.
func (m *BrowserModel) rebuildTable() {
	view := m.ActiveView()
	titles := Columns(view)
	widths := columnWidths(m.width, len(titles))

	columns := make([]table.Column, len(titles))
	for i, title := range titles {
		columns[i] = table.Column{Title: title, Width: widths[i]}
	}

	visible := m.panes[view].engine.Visible()
	rows := make([]table.Row, len(visible))
	for i, f := range visible {
		rows[i] = Row(view, f)
	}

	height := max(m.height-chromeHeight, minHeight)
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = TableHeaderStyle
	s.Selected = TableSelectedStyle
	t.SetStyles(s)

	m.table = t
}

// columnWidths splits width between n columns, giving the ID column a fixed
// narrow share.
func columnWidths(width, n int) []int {
	const idWidth = 6
	widths := make([]int, n)
	if n == 0 {
		return widths
	}
	widths[0] = idWidth
	rest := max(width-borderPadding-idWidth, (n-1)*minHeight)
	for i := 1; i < n; i++ {
		widths[i] = rest / (n - 1)
	}
	return widths
}
