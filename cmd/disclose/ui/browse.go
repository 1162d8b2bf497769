package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"disclose/internal/ingest"
	"disclose/internal/query"
	"disclose/internal/record"
	"disclose/internal/stats"
	"disclose/internal/window"
)

// chromeLines is everything that is not table body: title, search line,
// header row, and the two footer lines.
const chromeLines = 5

// LoadedMsg delivers a freshly ingested dataset to the browser. The main
// program sends it for the initial load and for every watcher-driven
// reload.
type LoadedMsg struct {
	Records []record.Record
	Report  ingest.Report
}

// LoadFailedMsg reports that the initial document load failed.
type LoadFailedMsg struct{ Err error }

// filterCommitMsg carries a search term whose quiet period has elapsed.
type filterCommitMsg struct{ term string }

// exportedMsg reports the outcome of an in-browser CSV export.
type exportedMsg struct {
	path string
	err  error
}

type browseState int

const (
	stateLoading browseState = iota
	stateReady
	stateFailed
)

// Model is the bubbletea model for the disclosure browser.
type Model struct {
	pipeline *query.Pipeline
	engine   *window.Engine

	state   browseState
	loadErr error
	report  ingest.Report
	summary stats.Summary

	searchInput textinput.Model
	spinner     spinner.Model
	debouncer   *Debouncer
	commits     chan string

	scrollOffset int
	sortCursor   record.Column

	rowCache  *RowCache
	styles    Styles
	statusMsg string

	width  int
	height int

	// loadCmd produces the initial LoadedMsg or LoadFailedMsg.
	loadCmd tea.Cmd
	// exportView writes the given view to a CSV file and returns its path.
	exportView func([]record.Record) (string, error)
}

// Options wires the model's collaborators.
type Options struct {
	Pipeline   *query.Pipeline
	Engine     *window.Engine
	Debounce   *Debouncer
	LoadCmd    tea.Cmd
	ExportView func([]record.Record) (string, error)
}

// NewModel creates the browser model.
func NewModel(opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "search all fields..."
	ti.CharLimit = 80
	ti.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	deb := opts.Debounce
	if deb == nil {
		deb = NewDebouncer(SearchDebounceDuration)
	}

	return Model{
		pipeline:    opts.Pipeline,
		engine:      opts.Engine,
		state:       stateLoading,
		searchInput: ti,
		spinner:     sp,
		debouncer:   deb,
		commits:     make(chan string, 1),
		sortCursor:  record.ColLastName,
		rowCache:    NewRowCache(2048),
		styles:      DefaultStyles(),
		loadCmd:     opts.LoadCmd,
		exportView:  opts.ExportView,
	}
}

// Init starts the spinner, the initial load, and the commit listener.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, m.waitForCommit()}
	if m.loadCmd != nil {
		cmds = append(cmds, m.loadCmd)
	}
	return tea.Batch(cmds...)
}

// waitForCommit forwards debounced search terms into the update loop.
func (m Model) waitForCommit() tea.Cmd {
	return func() tea.Msg {
		return filterCommitMsg{term: <-m.commits}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.engine.SetViewportHeight(m.bodyHeight())
		m.rowCache.Clear()
		m.clampScroll()
		return m, nil

	case LoadedMsg:
		m.state = stateReady
		m.report = msg.Report
		m.pipeline.SetDataset(msg.Records)
		m.summary = stats.Aggregate(m.pipeline.Dataset(), m.pipeline.View())
		m.searchInput.SetValue("")
		m.scrollOffset = 0
		m.rowCache.Clear()
		return m, nil

	case LoadFailedMsg:
		m.state = stateFailed
		m.loadErr = msg.Err
		return m, nil

	case filterCommitMsg:
		m.applyFilter(msg.term)
		return m, m.waitForCommit()

	case exportedMsg:
		if msg.err != nil {
			m.statusMsg = "export failed: " + msg.err.Error()
		} else {
			m.statusMsg = "exported to " + msg.path
		}
		return m, nil

	case spinner.TickMsg:
		if m.state != stateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.debouncer.Cancel()
		return m, tea.Quit
	}

	if m.searchInput.Focused() {
		return m.handleSearchKey(msg)
	}

	switch msg.String() {
	case "q", "esc":
		m.debouncer.Cancel()
		return m, tea.Quit
	case "/":
		m.searchInput.Focus()
		return m, textinput.Blink
	case "up", "k":
		m.scrollBy(-m.engine.RowHeight())
	case "down", "j":
		m.scrollBy(m.engine.RowHeight())
	case "pgup", "b":
		m.scrollBy(-m.bodyHeight())
	case "pgdown", "f", " ":
		m.scrollBy(m.bodyHeight())
	case "home", "g":
		m.scrollOffset = 0
	case "end", "G":
		m.scrollOffset = m.engine.MaxScroll(len(m.pipeline.View()))
	case "left", "h":
		if m.sortCursor > 0 {
			m.sortCursor--
		}
	case "right", "l":
		if int(m.sortCursor) < record.NumColumns-1 {
			m.sortCursor++
		}
	case "enter", "s":
		m.pipeline.ToggleSort(m.sortCursor)
		m.rowCache.Clear()
	case "e":
		return m, m.exportCmd()
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		// Immediate commit: bypass the quiet period, cancel any pending
		// pass, and filter synchronously. A pass that already fired into
		// the channel would revert the filter later, so drop it too.
		m.searchInput.Blur()
		m.debouncer.Cancel()
		select {
		case <-m.commits:
		default:
		}
		m.applyFilter(m.searchInput.Value())
		return m, nil
	case tea.KeyEsc:
		m.searchInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)

	term := m.searchInput.Value()
	commits := m.commits
	m.debouncer.Debounce(func() {
		pushCommit(commits, term)
	})
	return m, cmd
}

// pushCommit delivers term into the commit channel, evicting any stale
// undelivered term so the newest filter pass always wins.
func pushCommit(ch chan string, term string) {
	for {
		select {
		case ch <- term:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// applyFilter runs a filter pass and refreshes everything derived from the
// view.
func (m *Model) applyFilter(term string) {
	m.pipeline.ApplyFilter(term)
	m.summary = stats.Aggregate(m.pipeline.Dataset(), m.pipeline.View())
	m.scrollOffset = 0
	m.statusMsg = ""
}

func (m Model) exportCmd() tea.Cmd {
	if m.exportView == nil {
		return nil
	}
	view := m.pipeline.View()
	export := m.exportView
	return func() tea.Msg {
		path, err := export(view)
		return exportedMsg{path: path, err: err}
	}
}

func (m *Model) scrollBy(delta int) {
	m.scrollOffset += delta
	m.clampScroll()
}

func (m *Model) clampScroll() {
	max := m.engine.MaxScroll(len(m.pipeline.View()))
	if m.scrollOffset > max {
		m.scrollOffset = max
	}
	if m.scrollOffset < 0 {
		m.scrollOffset = 0
	}
}

func (m Model) bodyHeight() int {
	h := m.height - chromeLines
	if h < 1 {
		return 1
	}
	return h
}

// View renders the browser.
func (m Model) View() string {
	switch m.state {
	case stateLoading:
		return fmt.Sprintf("\n  %s loading disclosure index...\n", m.spinner.View())
	case stateFailed:
		return m.styles.Error.Render("load failed: "+m.loadErr.Error()) + "\n"
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Financial Disclosures"))
	b.WriteString("\n")
	b.WriteString(m.styles.Search.Render("search: "))
	b.WriteString(m.searchInput.View())
	b.WriteString("\n")
	b.WriteString(m.headerRow())
	b.WriteString("\n")
	b.WriteString(m.bodyRows())
	b.WriteString(m.footer())
	return b.String()
}

func (m Model) headerRow() string {
	widths := m.columnWidths()
	st := m.pipeline.SortState()

	cells := make([]string, record.NumColumns)
	for i := 0; i < record.NumColumns; i++ {
		col := record.Column(i)
		title := col.Title()
		if st.HasColumn && st.Column == col {
			if st.Direction == query.Ascending {
				title += " ^"
			} else {
				title += " v"
			}
		}
		style := m.styles.Header
		if col == m.sortCursor {
			style = m.styles.HeaderSel
		}
		cells[i] = style.Render(pad(title, widths[i]))
	}
	return strings.Join(cells, " ")
}

// bodyRows materializes only the rows the windowing engine asks for. The
// spacers become one summary line each instead of literal blank space.
func (m Model) bodyRows() string {
	view := m.pipeline.View()
	if len(view) == 0 {
		return m.styles.Muted.Render("  no matching records") + "\n"
	}

	start, end := m.visibleRange(len(view))
	widths := m.columnWidths()

	var b strings.Builder
	if start > 0 {
		b.WriteString(m.styles.Muted.Render(fmt.Sprintf("  ... %d rows above ...", start)))
		b.WriteString("\n")
	}
	for i := start; i < end; i++ {
		b.WriteString(m.renderRow(view[i], widths, i%2 == 1))
		b.WriteString("\n")
	}
	if end < len(view) {
		b.WriteString(m.styles.Muted.Render(fmt.Sprintf("  ... %d rows below ...", len(view)-end)))
		b.WriteString("\n")
	}
	return b.String()
}

// visibleRange converts the scroll offset into the row range the frame
// shows. A virtualized window already accounts for the offset; in full mode
// the engine materializes every row, so the render clips to the viewport
// here.
func (m Model) visibleRange(viewLen int) (int, int) {
	spec := m.engine.Window(viewLen, m.scrollOffset)
	if m.engine.Virtualized(viewLen) {
		return spec.StartIndex, spec.EndIndex
	}
	start := m.scrollOffset / m.engine.RowHeight()
	if start > spec.EndIndex {
		start = spec.EndIndex
	}
	end := start + m.bodyHeight()
	if end > spec.EndIndex {
		end = spec.EndIndex
	}
	return start, end
}

func (m Model) renderRow(r record.Record, widths []int, alt bool) string {
	// The search key is lowercased and so not a render identity; hash the
	// display fields themselves.
	inputs := make([]string, 0, record.NumColumns+2)
	for i := 0; i < record.NumColumns; i++ {
		inputs = append(inputs, r.Field(record.Column(i)))
	}
	inputs = append(inputs, fmt.Sprint(widths), fmt.Sprint(alt))
	key := Key(inputs...)
	if cached, ok := m.rowCache.Get(key); ok {
		return cached
	}

	cells := make([]string, record.NumColumns)
	for i := 0; i < record.NumColumns; i++ {
		cells[i] = pad(r.Field(record.Column(i)), widths[i])
	}
	style := m.styles.Row
	if alt {
		style = m.styles.RowAlt
	}
	rendered := style.Render(strings.Join(cells, " "))
	m.rowCache.Set(key, rendered)
	return rendered
}

func (m Model) footer() string {
	view := m.pipeline.View()
	start, end := m.visibleRange(len(view))

	mode := "full"
	if m.engine.Virtualized(len(view)) {
		mode = "virtual"
	}
	line1 := fmt.Sprintf("%d/%d records | filings %s | %d districts | rows %d-%d (%s)",
		m.summary.Filtered, m.summary.Total,
		m.summary.DateRangeText(), m.summary.DistinctStates,
		start+1, end, mode)

	line2 := "/ search | enter commit | arrows scroll | h/l pick column | s sort | e export | q quit"
	if m.statusMsg != "" {
		line2 = m.statusMsg
	}
	return m.styles.Status.Render(line1) + "\n" + m.styles.Muted.Render(line2)
}

// columnWidths distributes the terminal width across the nine columns,
// giving names and dates the larger shares.
func (m Model) columnWidths() []int {
	weights := []int{6, 14, 11, 5, 6, 8, 5, 11, 10}
	total := 0
	for _, w := range weights {
		total += w
	}

	avail := m.width - (record.NumColumns - 1)
	if avail < total {
		avail = total
	}
	widths := make([]int, len(weights))
	for i, w := range weights {
		widths[i] = w * avail / total
	}
	return widths
}

// pad truncates or right-pads s to exactly width cells.
func pad(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) > width {
		if width <= 1 {
			return string(runes[:width])
		}
		return string(runes[:width-1]) + "…"
	}
	return s + strings.Repeat(" ", width-len(runes))
}

// Summary exposes the current aggregation for other surfaces (tests, the
// headless stats command reuses stats.Aggregate directly).
func (m Model) Summary() stats.Summary { return m.summary }
