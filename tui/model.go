package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"iglens/backend"
)

// Messages
type (
	loginErrMsg struct{ err error }
	sessionMsg  struct {
		session *backend.Session
		err     error
	}
	metricsMsg struct {
		result *backend.PostMetrics
		err    error
	}
	searchMsg struct {
		result *backend.AccountSearchResult
		err    error
	}
)

// Fallback banner text per action; the backend's own error text wins
// when present.
const (
	authFailedText    = "Authentication failed. Please try again."
	loginInitText     = "Failed to initialize login. Please try again."
	metricsFailedText = "Failed to fetch post metrics. Please try again."
	searchFailedText  = "Failed to search account. Please try again."

	// Rendered in the success style even though it arrives as an
	// error, keyed by exact text.
	usedCodeText = "This authorization code has been used."
)

// state represents the app state
type state int

const (
	stateLogin state = iota
	stateAuthorizing
	stateMain
)

// focusArea is the form control keyboard input is routed to
type focusArea int

const (
	focusPostURL focusArea = iota
	focusUsername
	focusMedia
)

// Config carries startup options from the command line.
type Config struct {
	// AuthCode seeds the code exchange when the provider redirect was
	// handled outside the app (pasted by hand or via IG_AUTH_CODE).
	AuthCode string

	// UserDataDir persists browser cookies between logins.
	UserDataDir string

	// RedirectURL is the registered OAuth callback the login window is
	// watched for.
	RedirectURL string
}

// Model is the Bubble Tea model
type Model struct {
	state   state
	client  *backend.Client
	browser *backend.AuthBrowser

	session  *backend.Session
	authCode string

	postURL  textinput.Model
	username textinput.Model
	focus    focusArea

	// loading and errMsg are shared by the auth flow and the metrics
	// fetch; account search keeps its own pair.
	loading   bool
	errMsg    string
	searching bool
	searchErr string

	metrics     *backend.PostMetrics
	search      *backend.AccountSearchResult
	mediaCursor int

	width   int
	height  int
	spinner spinner.Model

	cfg Config
}

// NewModel creates a new TUI model
func NewModel(client *backend.Client, cfg Config) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	postURL := textinput.New()
	postURL.Placeholder = "https://www.instagram.com/reel/..."
	postURL.CharLimit = 200
	postURL.Width = 60
	postURL.Focus()

	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 60
	username.Width = 30

	st := stateLogin
	loading := false
	if cfg.AuthCode != "" {
		st = stateAuthorizing
		loading = true
	}

	return Model{
		state:    st,
		client:   client,
		browser:  backend.NewAuthBrowser(cfg.UserDataDir),
		authCode: cfg.AuthCode,
		postURL:  postURL,
		username: username,
		loading:  loading,
		spinner:  s,
		cfg:      cfg,
	}
}

// Init initializes the model. Without a seeded code no network call is
// made until the user begins the login flow.
func (m Model) Init() tea.Cmd {
	if m.authCode != "" {
		return tea.Batch(m.spinner.Tick, m.exchangeSeedCode)
	}
	return tea.Batch(m.spinner.Tick, textinput.Blink)
}

// exchangeSeedCode trades the startup code for a session. Issued at
// most once: the code is cleared when the result lands.
func (m Model) exchangeSeedCode() tea.Msg {
	sess, err := m.client.ExchangeCode(context.Background(), m.authCode)
	if err != nil {
		return sessionMsg{err: err}
	}
	return sessionMsg{session: sess}
}

// beginLogin chains the whole login flow: login URL from the backend,
// browser window through the provider consent screen, code exchange.
func (m Model) beginLogin() tea.Msg {
	ctx := context.Background()

	loginURL, err := m.client.LoginURL(ctx)
	if err != nil {
		return loginErrMsg{err}
	}

	if err := m.browser.Start(); err != nil {
		return loginErrMsg{err}
	}
	defer m.browser.Stop()

	code, err := m.browser.CaptureCode(ctx, loginURL, m.cfg.RedirectURL)
	if err != nil {
		return loginErrMsg{err}
	}

	sess, err := m.client.ExchangeCode(ctx, code)
	if err != nil {
		return sessionMsg{err: err}
	}
	return sessionMsg{session: sess}
}

// fetchMetrics requests engagement metrics for one post.
func (m Model) fetchMetrics(postURL string) tea.Cmd {
	session := *m.session
	return func() tea.Msg {
		result, err := m.client.PostMetrics(context.Background(), postURL, session)
		if err != nil {
			return metricsMsg{err: err}
		}
		return metricsMsg{result: result}
	}
}

// searchAccount requests a public account's profile and recent media.
func (m Model) searchAccount(username string) tea.Cmd {
	session := *m.session
	return func() tea.Msg {
		result, err := m.client.SearchAccount(context.Background(), username, session)
		if err != nil {
			return searchMsg{err: err}
		}
		return searchMsg{result: result}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.updateKeys(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loginErrMsg:
		m.loading = false
		m.state = stateLogin
		m.errMsg = errorText(msg.err, loginInitText)
		return m, nil

	case sessionMsg:
		m.loading = false
		// Consume the code either way so it is never reprocessed.
		m.authCode = ""
		if msg.err != nil {
			m.state = stateLogin
			m.errMsg = errorText(msg.err, authFailedText)
			return m, nil
		}
		m.session = msg.session
		m.errMsg = ""
		m.state = stateMain
		m.focus = focusPostURL
		m.postURL.Focus()
		m.username.Blur()
		return m, textinput.Blink

	case metricsMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = errorText(msg.err, metricsFailedText)
			return m, nil
		}
		// Unconditional overwrite: whichever response resolves last wins.
		m.metrics = msg.result
		m.errMsg = ""
		return m, nil

	case searchMsg:
		m.searching = false
		if msg.err != nil {
			m.searchErr = errorText(msg.err, searchFailedText)
			return m, nil
		}
		m.search = msg.result
		m.searchErr = ""
		m.mediaCursor = 0
		return m, nil
	}

	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.state {
	case stateLogin:
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "enter":
			if m.loading {
				return m, nil
			}
			m.loading = true
			m.errMsg = ""
			m.state = stateAuthorizing
			return m, tea.Batch(m.spinner.Tick, m.beginLogin)
		}
		return m, nil

	case stateAuthorizing:
		return m, nil

	case stateMain:
		return m.updateMain(msg)
	}

	return m, nil
}

func (m Model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab":
		m.cycleFocus(msg.String() == "shift+tab")
		return m, textinput.Blink

	case "enter":
		switch m.focus {
		case focusPostURL:
			return m.submitMetrics()
		case focusUsername:
			return m.submitSearch()
		case focusMedia:
			return m.usePermalink()
		}
		return m, nil

	case "up", "down":
		if m.focus == focusMedia && m.search != nil {
			if msg.String() == "down" && m.mediaCursor < len(m.search.Media)-1 {
				m.mediaCursor++
			}
			if msg.String() == "up" && m.mediaCursor > 0 {
				m.mediaCursor--
			}
			return m, nil
		}
	}

	// Letters and everything else go to the focused text input.
	var cmd tea.Cmd
	switch m.focus {
	case focusPostURL:
		m.postURL, cmd = m.postURL.Update(msg)
	case focusUsername:
		m.username, cmd = m.username.Update(msg)
	case focusMedia:
		switch msg.String() {
		case "j":
			if m.search != nil && m.mediaCursor < len(m.search.Media)-1 {
				m.mediaCursor++
			}
		case "k":
			if m.mediaCursor > 0 {
				m.mediaCursor--
			}
		case "q":
			return m, tea.Quit
		}
	}
	return m, cmd
}

// cycleFocus moves keyboard focus between the two forms and, when a
// search result is showing, the media list.
func (m *Model) cycleFocus(backward bool) {
	hasMedia := m.search != nil && len(m.search.Media) > 0

	order := []focusArea{focusPostURL, focusUsername}
	if hasMedia {
		order = append(order, focusMedia)
	}

	idx := 0
	for i, f := range order {
		if f == m.focus {
			idx = i
			break
		}
	}
	if backward {
		idx = (idx - 1 + len(order)) % len(order)
	} else {
		idx = (idx + 1) % len(order)
	}
	m.focus = order[idx]

	m.postURL.Blur()
	m.username.Blur()
	switch m.focus {
	case focusPostURL:
		m.postURL.Focus()
	case focusUsername:
		m.username.Focus()
	}
}

// submitMetrics dispatches a metrics fetch. An empty post URL is a
// silent no-op, and the control is dead while a fetch is in flight.
func (m Model) submitMetrics() (tea.Model, tea.Cmd) {
	postURL := strings.TrimSpace(m.postURL.Value())
	if postURL == "" || m.loading {
		return m, nil
	}

	m.loading = true
	m.errMsg = ""
	// Clear the previous result so a stale card set never shows next
	// to a fresh error.
	m.metrics = nil
	return m, tea.Batch(m.spinner.Tick, m.fetchMetrics(postURL))
}

// submitSearch dispatches an account search. Missing username or
// credentials is a silent no-op.
func (m Model) submitSearch() (tea.Model, tea.Cmd) {
	username := strings.TrimSpace(m.username.Value())
	if username == "" || m.session == nil || !m.session.Valid() || m.searching {
		return m, nil
	}

	m.searching = true
	m.searchErr = ""
	return m, tea.Batch(m.spinner.Tick, m.searchAccount(username))
}

// usePermalink copies the selected media's permalink into the post URL
// field so it can be fed straight into the metrics fetch.
func (m Model) usePermalink() (tea.Model, tea.Cmd) {
	if m.search == nil || m.mediaCursor >= len(m.search.Media) {
		return m, nil
	}
	m.postURL.SetValue(m.search.Media[m.mediaCursor].Permalink)
	m.focus = focusPostURL
	m.username.Blur()
	m.postURL.Focus()
	return m, textinput.Blink
}

// errorText prefers the backend's own error text over the fallback.
func errorText(err error, fallback string) string {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Details != "" {
			return apiErr.Details
		}
		if apiErr.Message != "" {
			return apiErr.Message
		}
	}
	return fallback
}

// View renders the UI
func (m Model) View() string {
	switch m.state {
	case stateLogin:
		return m.viewLogin()
	case stateAuthorizing:
		return m.viewAuthorizing()
	case stateMain:
		return m.viewMain()
	default:
		return ""
	}
}
