// Package moviesearch implements a debounced, keyboard and mouse driven movie autocomplete for bubbletea programs.
package moviesearch

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/flickpick/internal/models"
	"github.com/desertthunder/flickpick/internal/services"
)

const (
	DefaultDebounce = 500 * time.Millisecond
	DefaultMaxRows  = 8
)

// SelectFunc receives the movie the user picked. The returned command is handed back to the bubbletea runtime.
type SelectFunc func(models.Movie) tea.Cmd

// Option configures a [Model].
type Option func(*Model)

// WithDebounce sets the quiet period after the last keystroke before a search is sent.
func WithDebounce(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.debounce = d
		}
	}
}

// WithLogger sets the logger used for failed and discarded searches.
func WithLogger(l *log.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithContext sets the parent context of every search request.
func WithContext(ctx context.Context) Option {
	return func(m *Model) {
		if ctx != nil {
			m.parent = ctx
		}
	}
}

// WithMaxRows limits how many results are drawn at once; the window scrolls with the highlight.
func WithMaxRows(n int) Option {
	return func(m *Model) {
		if n > 0 {
			m.maxRows = n
		}
	}
}

// WithPlaceholder sets the input placeholder.
func WithPlaceholder(s string) Option {
	return func(m *Model) { m.input.Placeholder = s }
}

// Model is the search controller: query input, debounced fetch, result list and highlight.
//
// All state changes happen inside Update on the bubbletea goroutine. Two counters keep late events out:
// debounceID stamps timer ticks so only the tick of the latest query starts a search, and requestID
// stamps requests so only the latest response is applied.
type Model struct {
	searcher services.MovieSearcher
	onSelect SelectFunc
	logger   *log.Logger
	keys     KeyMap
	input    textinput.Model

	parent context.Context
	ctx    context.Context
	cancel context.CancelFunc

	query     string
	results   []models.Movie
	highlight int
	loading   bool
	searched  bool

	debounce   time.Duration
	debounceID int
	requestID  int
	reqCancel  context.CancelFunc

	closed  bool
	maxRows int
	scroll  int
	top     int
	width   int
}

// New creates a search controller over searcher. A nil onSelect emits [SelectedMsg].
func New(searcher services.MovieSearcher, onSelect SelectFunc, opts ...Option) *Model {
	input := textinput.New()
	input.Placeholder = "Search movies..."
	input.Prompt = "> "
	input.Focus()

	m := &Model{
		searcher:  searcher,
		onSelect:  onSelect,
		logger:    log.New(io.Discard),
		keys:      DefaultKeyMap(),
		input:     input,
		parent:    context.Background(),
		highlight: -1,
		debounce:  DefaultDebounce,
		maxRows:   DefaultMaxRows,
	}

	if m.onSelect == nil {
		m.onSelect = func(movie models.Movie) tea.Cmd {
			return func() tea.Msg { return SelectedMsg{Movie: movie} }
		}
	}

	for _, opt := range opts {
		opt(m)
	}

	m.ctx, m.cancel = context.WithCancel(m.parent)
	return m
}

func (m *Model) Query() string           { return m.query }
func (m *Model) Results() []models.Movie { return m.results }
func (m *Model) Highlight() int          { return m.highlight }
func (m *Model) Loading() bool           { return m.loading }
func (m *Model) Closed() bool            { return m.closed }
func (m *Model) Keys() KeyMap            { return m.keys }

// Focused reports whether the input receives key messages.
func (m *Model) Focused() bool { return m.input.Focused() }

// Focus gives the input keyboard focus.
func (m *Model) Focus() tea.Cmd { return m.input.Focus() }

// Blur removes keyboard focus; key messages are ignored until Focus.
func (m *Model) Blur() { m.input.Blur() }

// SetWidth sets the rendered width of the input and rows.
func (m *Model) SetWidth(w int) {
	m.width = w
	m.input.Width = max(0, w-len(m.input.Prompt)-1)
}

// SetTop tells the controller which screen row its input is drawn on, for mapping mouse events to rows.
func (m *Model) SetTop(y int) { m.top = y }

// Init implements [tea.Model].
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements [tea.Model].
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.closed {
		return m, nil
	}

	switch msg := msg.(type) {
	case debounceMsg:
		return m, m.handleDebounce(msg)
	case resultsMsg:
		m.handleResults(msg)
		return m, nil
	case tea.MouseMsg:
		return m, m.handleMouse(msg)
	case tea.KeyMsg:
		if !m.input.Focused() {
			return m, nil
		}
		return m, m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// SetQuery replaces the query. An empty query clears the results at once and sends nothing;
// any other query restarts the debounce timer.
func (m *Model) SetQuery(text string) tea.Cmd {
	if m.closed {
		return nil
	}

	if m.input.Value() != text {
		m.input.SetValue(text)
	}
	m.query = text
	m.debounceID++

	if text == "" {
		m.clearResults()
		return nil
	}

	id := m.debounceID
	return tea.Tick(m.debounce, func(time.Time) tea.Msg {
		return debounceMsg{id: id, query: text}
	})
}

// Next moves the highlight down, wrapping to the first row.
func (m *Model) Next() {
	if m.loading || len(m.results) == 0 {
		return
	}
	m.highlight = (m.highlight + 1) % len(m.results)
	m.follow()
}

// Prev moves the highlight up, wrapping to the last row.
func (m *Model) Prev() {
	n := len(m.results)
	if m.loading || n == 0 {
		return
	}
	if m.highlight <= 0 {
		m.highlight = n - 1
	} else {
		m.highlight--
	}
	m.follow()
}

// Confirm selects the highlighted movie and resets the controller.
// Nothing happens without a highlighted row.
func (m *Model) Confirm() tea.Cmd {
	if m.loading || m.highlight < 0 || m.highlight >= len(m.results) {
		return nil
	}
	return m.selectMovie(m.results[m.highlight])
}

// Dismiss closes the dropdown and leaves the query in place. A pending debounce is dropped
// along with the in-flight request, so neither can reopen it.
func (m *Model) Dismiss() {
	m.debounceID++
	m.clearResults()
}

// Hover highlights row i.
func (m *Model) Hover(i int) {
	if i >= 0 && i < len(m.results) {
		m.highlight = i
	}
}

// Activate selects row i, as a click does.
func (m *Model) Activate(i int) tea.Cmd {
	if m.loading || i < 0 || i >= len(m.results) {
		return nil
	}
	m.highlight = i
	return m.selectMovie(m.results[i])
}

// Close tears the controller down. The pending timer and in-flight request are cancelled,
// and every later message is ignored.
func (m *Model) Close() {
	if m.closed {
		return
	}
	m.closed = true
	m.debounceID++
	m.requestID++
	m.cancelRequest()
	m.cancel()
	m.input.Blur()
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Dismiss) && (m.loading || len(m.results) > 0) {
		m.Dismiss()
		return nil
	}

	// Rows are hidden behind the loading line, so they cannot be navigated or picked.
	if !m.loading && len(m.results) > 0 {
		switch {
		case key.Matches(msg, m.keys.Next):
			m.Next()
			return nil
		case key.Matches(msg, m.keys.Prev):
			m.Prev()
			return nil
		case key.Matches(msg, m.keys.Confirm):
			return m.Confirm()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	if m.input.Value() != m.query {
		return tea.Batch(cmd, m.SetQuery(m.input.Value()))
	}
	return cmd
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	row, ok := m.rowAt(msg.Y)
	if !ok {
		return nil
	}

	switch {
	case msg.Action == tea.MouseActionMotion:
		m.Hover(row)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		return m.Activate(row)
	}
	return nil
}

func (m *Model) handleDebounce(msg debounceMsg) tea.Cmd {
	if msg.id != m.debounceID {
		return nil
	}

	m.cancelRequest()
	m.requestID++
	m.loading = true

	ctx, cancel := context.WithCancel(m.ctx)
	m.reqCancel = cancel

	id, query, searcher := m.requestID, msg.query, m.searcher
	return func() tea.Msg {
		movies, err := searcher.SearchMovies(ctx, query)
		return resultsMsg{id: id, query: query, movies: movies, err: err}
	}
}

func (m *Model) handleResults(msg resultsMsg) {
	if msg.id != m.requestID {
		m.logger.Debug("discarding stale search results", "query", msg.query, "request", msg.id, "latest", m.requestID)
		return
	}

	m.cancelRequest()
	m.loading = false
	m.searched = true
	m.highlight = -1
	m.scroll = 0

	if msg.err != nil {
		m.logger.Debug("movie search failed", "query", msg.query, "err", msg.err)
		m.results = nil
		return
	}

	m.results = msg.movies
}

func (m *Model) selectMovie(movie models.Movie) tea.Cmd {
	m.query = ""
	m.input.SetValue("")
	m.debounceID++
	m.clearResults()
	return m.onSelect(movie)
}

// clearResults empties the dropdown and makes any in-flight response stale.
func (m *Model) clearResults() {
	m.cancelRequest()
	m.requestID++
	m.results = nil
	m.highlight = -1
	m.loading = false
	m.searched = false
	m.scroll = 0
}

func (m *Model) cancelRequest() {
	if m.reqCancel != nil {
		m.reqCancel()
		m.reqCancel = nil
	}
}

// follow scrolls the visible window so the highlighted row stays on screen.
func (m *Model) follow() {
	switch {
	case m.highlight < m.scroll:
		m.scroll = m.highlight
	case m.highlight >= m.scroll+m.maxRows:
		m.scroll = m.highlight - m.maxRows + 1
	}
}

// rowAt maps a screen row to a result index. The input occupies the first line.
func (m *Model) rowAt(y int) (int, bool) {
	if m.loading || len(m.results) == 0 {
		return 0, false
	}
	offset := y - m.top - 1
	if offset < 0 || offset >= m.maxRows {
		return 0, false
	}
	i := m.scroll + offset
	return i, i < len(m.results)
}

// View implements [tea.Model]. It draws the input followed by the dropdown, if open.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.input.View())

	switch {
	case m.closed:
	case m.loading:
		b.WriteString("\n" + styles.status.Render("Loading..."))
	case len(m.results) > 0:
		end := min(len(m.results), m.scroll+m.maxRows)
		for i := m.scroll; i < end; i++ {
			b.WriteString("\n" + m.renderRow(i))
		}
	case m.searched && m.query != "":
		b.WriteString("\n" + styles.empty.Render("No results found"))
	}

	return b.String()
}

func (m *Model) renderRow(i int) string {
	movie := m.results[i]

	marker := "  "
	if movie.PosterPath != "" {
		marker = "▣ "
	}
	line := marker + movie.Label()
	if m.width > 0 && len([]rune(line)) > m.width-2 {
		line = string([]rune(line)[:max(0, m.width-3)]) + "…"
	}

	if i == m.highlight {
		return styles.highlight.Render(fmt.Sprintf(" %s ", line))
	}
	return styles.row.Render(fmt.Sprintf(" %s ", line))
}
