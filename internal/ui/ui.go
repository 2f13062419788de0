package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/flickpick/internal/models"
	"github.com/desertthunder/flickpick/internal/services"
	"github.com/desertthunder/flickpick/internal/tasks"
	"github.com/desertthunder/flickpick/internal/ui/moviesearch"
)

// Tab is one of the dashboard side panels.
type Tab int

const (
	RatingsTab Tab = iota
	GroupsTab
	FriendsTab
)

var tabs = []Tab{RatingsTab, GroupsTab, FriendsTab}

func (t Tab) String() string {
	switch t {
	case RatingsTab:
		return "Ratings"
	case GroupsTab:
		return "Groups"
	case FriendsTab:
		return "Friends"
	default:
		return "Unknown"
	}
}

const maxSearchWidth = 72

// Account identifies the signed-in user the dashboard rates for.
type Account struct {
	UserID string
	Name   string
}

// Model represents the dashboard state.
type Model struct {
	ctx      context.Context
	account  Account
	rater    tasks.Rater
	logger   *log.Logger
	search   *moviesearch.Model
	prompt   *ratingPrompt
	carousel carousel
	ratings  list.Model
	tab      Tab
	status   string
	failed   bool
	width    int
	height   int
	help     help.Model
	keys     keyMap
}

// NewModel creates the dashboard for account. Search options are passed through to the embedded search controller;
// the model always supplies its own context and selection handling.
func NewModel(ctx context.Context, searcher services.MovieSearcher, rater tasks.Rater, account Account, logger *log.Logger, opts ...moviesearch.Option) *Model {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	ratings := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	ratings.Title = "My Ratings"
	ratings.SetShowHelp(false)
	ratings.SetFilteringEnabled(false)

	m := &Model{
		ctx:      ctx,
		account:  account,
		rater:    rater,
		logger:   logger,
		carousel: carousel{header: "Recently rated"},
		ratings:  ratings,
		tab:      RatingsTab,
		help:     help.New(),
		keys:     newKeyMap(),
	}

	opts = append(opts, moviesearch.WithContext(ctx), moviesearch.WithLogger(logger))
	m.search = moviesearch.New(searcher, nil, opts...)
	m.search.SetTop(lipgloss.Height(m.renderHeader()))
	return m
}

func (m *Model) Tab() Tab                   { return m.tab }
func (m *Model) Status() string             { return m.status }
func (m *Model) Search() *moviesearch.Model { return m.search }

// Prompting reports whether the rating prompt is open, and for which movie and score.
func (m *Model) Prompting() (models.Movie, int, bool) {
	if m.prompt == nil {
		return models.Movie{}, 0, false
	}
	return m.prompt.movie, m.prompt.score, true
}

// Init starts the search input and loads the user's ratings.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.search.Init(), m.fetchRatings())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.search.SetWidth(min(msg.Width-2, maxSearchWidth))
		m.ratings.SetSize(max(0, msg.Width-6), max(5, msg.Height/3))
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) {
			m.search.Close()
			return m, tea.Quit
		}
		if m.prompt != nil {
			return m, m.handlePromptKeys(msg)
		}
		return m, m.handleKeys(msg)

	case tea.MouseMsg:
		if m.prompt != nil {
			return m, nil
		}
		_, cmd := m.search.Update(msg)
		return m, cmd

	case moviesearch.SelectedMsg:
		m.openPrompt(msg.Movie)
		return m, nil

	case Msg:
		return m, m.handleMsg(msg)
	}

	_, cmd := m.search.Update(msg)
	return m, cmd
}

func (m *Model) handleKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.tab):
		m.tab = tabs[(int(m.tab)+1)%len(tabs)]
		return nil
	case key.Matches(msg, m.keys.prevSlide):
		m.carousel.prev()
		return nil
	case key.Matches(msg, m.keys.nextSlide):
		m.carousel.next()
		return nil
	case key.Matches(msg, m.keys.listUp):
		m.ratings.CursorUp()
		return nil
	case key.Matches(msg, m.keys.listDown):
		m.ratings.CursorDown()
		return nil
	}

	_, cmd := m.search.Update(msg)
	return cmd
}

func (m *Model) handlePromptKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.cancel):
		m.setStatus(fmt.Sprintf("Rating for %s cancelled", m.prompt.movie.Label()), false)
		return m.closePrompt()
	case key.Matches(msg, m.keys.save):
		movie, score := m.prompt.movie, m.prompt.score
		m.setStatus(fmt.Sprintf("Saving %s...", movie.Label()), false)
		return tea.Batch(m.closePrompt(), m.saveRating(movie, score))
	case key.Matches(msg, m.keys.lower):
		m.prompt.lower()
	case key.Matches(msg, m.keys.raise):
		m.prompt.raise()
	default:
		m.prompt.setDigit(msg.String())
	}
	return nil
}

func (m *Model) handleMsg(msg Msg) tea.Cmd {
	switch msg.kind {
	case MsgRatingsFetched:
		data := msg.data.(ratingsFetched)
		if data.err != nil {
			m.logger.Error("failed to load ratings", "err", data.err)
			m.setStatus(fmt.Sprintf("Failed to load ratings: %v", data.err), true)
			return nil
		}
		m.carousel.set(data.ratings)
		return m.ratings.SetItems(ratedItems(data.ratings))

	case MsgRatingSaved:
		data := msg.data.(ratingSaved)
		if data.err != nil {
			m.logger.Error("failed to save rating", "movie", data.movie.ID, "err", data.err)
			m.setStatus(fmt.Sprintf("Failed to rate %s: %v", data.movie.Label(), data.err), true)
			return nil
		}

		verb := "Rated"
		if data.updated {
			verb = "Updated"
		}
		m.setStatus(fmt.Sprintf("✓ %s %s: %d/10", verb, data.movie.Label(), data.rating.Score()), false)
		m.carousel.index = 0
		return m.fetchRatings()
	}
	return nil
}

func (m *Model) openPrompt(movie models.Movie) {
	m.prompt = newRatingPrompt(movie)
	m.search.Blur()
	m.status = ""
}

func (m *Model) closePrompt() tea.Cmd {
	m.prompt = nil
	return m.search.Focus()
}

func (m *Model) setStatus(s string, failed bool) {
	m.status = s
	m.failed = failed
}

func (m *Model) fetchRatings() tea.Cmd {
	return func() tea.Msg {
		ratings, err := m.rater.Ratings(m.ctx, m.account.UserID)
		return ratingsFetchedMsg(ratings, err)
	}
}

func (m *Model) saveRating(movie models.Movie, score int) tea.Cmd {
	return func() tea.Msg {
		rating, updated, err := m.rater.Rate(m.ctx, m.account.UserID, movie, score)
		return ratingSavedMsg(movie, rating, updated, err)
	}
}

// View renders the dashboard: header, search, prompt, carousel, tabs, status and help.
func (m *Model) View() string {
	sections := []string{m.renderHeader(), m.search.View()}

	if m.prompt != nil {
		sections = append(sections, "", m.prompt.View(), m.help.ShortHelpView(m.keys.promptHelp()))
	}

	sections = append(sections, "", m.carousel.View(), "", m.renderTabs())

	if m.status != "" {
		style := styles.ok
		if m.failed {
			style = styles.err
		}
		sections = append(sections, "", style.Render(m.status))
	}

	if m.prompt == nil {
		sections = append(sections, "", m.help.ShortHelpView(m.keys.ShortHelp()))
	}

	return strings.Join(sections, "\n")
}

func (m *Model) renderHeader() string {
	title := "flickpick"
	if m.account.Name != "" {
		title = fmt.Sprintf("flickpick · %s", m.account.Name)
	}
	return styles.title.Render(title)
}

func (m *Model) renderTabs() string {
	labels := make([]string, len(tabs))
	for i, t := range tabs {
		if t == m.tab {
			labels[i] = styles.activeTab.Render(t.String())
		} else {
			labels[i] = styles.tab.Render(t.String())
		}
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Top, labels...)

	var body string
	switch m.tab {
	case RatingsTab:
		if len(m.ratings.Items()) == 0 {
			body = styles.help.Render("Movies you rate will appear here")
		} else {
			body = m.ratings.View()
		}
	case GroupsTab:
		body = styles.help.Render("Your Groups will appear here")
	case FriendsTab:
		body = styles.help.Render("Your Friends will appear here")
	}

	return bar + "\n" + styles.panel.Render(body)
}
