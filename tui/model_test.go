package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"iglens/backend"
)

func testModel() Model {
	m := NewModel(backend.New("http://localhost:8080"), Config{})
	m.width = 100
	m.height = 40
	return m
}

func authedModel() Model {
	m := testModel()
	m.session = &backend.Session{AccessToken: "tok", BusinessID: "biz"}
	m.state = stateMain
	return m
}

func keyEnter() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyEnter}
}

func TestInitialStateWithoutCode(t *testing.T) {
	m := testModel()
	if m.state != stateLogin {
		t.Errorf("expected stateLogin, got %d", m.state)
	}
	if m.loading {
		t.Error("expected no pending work at startup")
	}
	if m.authCode != "" {
		t.Error("expected no seeded code")
	}
}

func TestSeededCodeStartsExchange(t *testing.T) {
	m := NewModel(backend.New("http://localhost:8080"), Config{AuthCode: "abc"})
	if m.state != stateAuthorizing {
		t.Errorf("expected stateAuthorizing with seeded code, got %d", m.state)
	}
	if !m.loading {
		t.Error("expected loading during seeded exchange")
	}
	if m.Init() == nil {
		t.Error("expected Init to dispatch the exchange")
	}
}

func TestSessionMsgSuccessAuthenticates(t *testing.T) {
	m := NewModel(backend.New("http://localhost:8080"), Config{AuthCode: "abc"})

	updated, _ := m.Update(sessionMsg{session: &backend.Session{AccessToken: "tok", BusinessID: "biz"}})
	result := updated.(Model)

	if result.state != stateMain {
		t.Errorf("expected stateMain after exchange, got %d", result.state)
	}
	if result.session == nil || result.session.AccessToken != "tok" {
		t.Error("expected session to be stored")
	}
	if result.loading {
		t.Error("expected loading cleared")
	}
	// The code is consumed so a re-render can never reprocess it.
	if result.authCode != "" {
		t.Error("expected seeded code to be cleared")
	}
}

func TestSessionMsgFailureStaysLoggedOut(t *testing.T) {
	m := NewModel(backend.New("http://localhost:8080"), Config{AuthCode: "abc"})

	updated, _ := m.Update(sessionMsg{err: errors.New("boom")})
	result := updated.(Model)

	if result.state != stateLogin {
		t.Errorf("expected stateLogin after failed exchange, got %d", result.state)
	}
	if result.errMsg != authFailedText {
		t.Errorf("expected fallback %q, got %q", authFailedText, result.errMsg)
	}
	if result.session != nil {
		t.Error("expected no session after failure")
	}
	if result.authCode != "" {
		t.Error("expected seeded code to be cleared even on failure")
	}
}

func TestLoginErrMsgUsesInitFallback(t *testing.T) {
	m := testModel()
	m.state = stateAuthorizing
	m.loading = true

	updated, _ := m.Update(loginErrMsg{err: errors.New("connection refused")})
	result := updated.(Model)

	if result.state != stateLogin {
		t.Errorf("expected stateLogin, got %d", result.state)
	}
	if result.errMsg != loginInitText {
		t.Errorf("expected fallback %q, got %q", loginInitText, result.errMsg)
	}
	if result.loading {
		t.Error("expected loading cleared")
	}
}

func TestBeginLoginTogglesLoading(t *testing.T) {
	m := testModel()

	updated, cmd := m.Update(keyEnter())
	result := updated.(Model)

	if result.state != stateAuthorizing {
		t.Errorf("expected stateAuthorizing, got %d", result.state)
	}
	if !result.loading {
		t.Error("expected loading set for the login flow")
	}
	if cmd == nil {
		t.Error("expected login command to be dispatched")
	}
}

func TestEmptyPostURLSubmitIsNoOp(t *testing.T) {
	m := authedModel()
	m.focus = focusPostURL

	updated, cmd := m.Update(keyEnter())
	result := updated.(Model)

	if cmd != nil {
		t.Error("expected no command for empty post URL")
	}
	if result.loading {
		t.Error("expected no loading for empty post URL")
	}
	if result.metrics != nil {
		t.Error("expected metrics unchanged")
	}
	if result.errMsg != "" {
		t.Error("guarded no-op must not set an error")
	}
}

func TestMetricsSubmitClearsPreviousResult(t *testing.T) {
	m := authedModel()
	m.focus = focusPostURL
	m.postURL.SetValue("https://www.instagram.com/reel/xyz/")
	m.metrics = &backend.PostMetrics{Data: []backend.MetricRecord{{Name: "likes"}}}
	m.errMsg = "old error"

	updated, cmd := m.Update(keyEnter())
	result := updated.(Model)

	if cmd == nil {
		t.Error("expected fetch command")
	}
	if !result.loading {
		t.Error("expected loading set")
	}
	if result.metrics != nil {
		t.Error("expected stale metrics cleared before dispatch")
	}
	if result.errMsg != "" {
		t.Error("expected error cleared at the start of a new attempt")
	}
}

func TestMetricsSubmitDisabledWhileLoading(t *testing.T) {
	m := authedModel()
	m.focus = focusPostURL
	m.postURL.SetValue("https://www.instagram.com/reel/xyz/")
	m.loading = true

	_, cmd := m.Update(keyEnter())
	if cmd != nil {
		t.Error("expected submit disabled while a fetch is in flight")
	}
}

func TestMetricsErrorShownVerbatim(t *testing.T) {
	m := authedModel()
	m.loading = true

	updated, _ := m.Update(metricsMsg{err: &backend.APIError{Status: 400, Message: "bad url"}})
	result := updated.(Model)

	if result.errMsg != "bad url" {
		t.Errorf("expected backend text verbatim, got %q", result.errMsg)
	}
	if result.metrics != nil {
		t.Error("expected metrics unset after failure")
	}
	if result.loading {
		t.Error("expected loading cleared")
	}
}

func TestMetricsErrorFallback(t *testing.T) {
	m := authedModel()

	updated, _ := m.Update(metricsMsg{err: errors.New("dial tcp: connection refused")})
	result := updated.(Model)

	if result.errMsg != metricsFailedText {
		t.Errorf("expected fallback %q, got %q", metricsFailedText, result.errMsg)
	}
}

func TestMetricsLastWriteWins(t *testing.T) {
	m := authedModel()

	first := &backend.PostMetrics{Data: []backend.MetricRecord{
		{Name: "likes", Values: []backend.MetricValue{{Value: 1}}},
	}}
	second := &backend.PostMetrics{Data: []backend.MetricRecord{
		{Name: "likes", Values: []backend.MetricValue{{Value: 2}}},
	}}

	// Two submissions in flight; the first response arrives after the
	// second. Whatever resolves last overwrites.
	updated, _ := m.Update(metricsMsg{result: second})
	updated, _ = updated.(Model).Update(metricsMsg{result: first})
	result := updated.(Model)

	if got := result.metrics.Value("likes"); got != 1 {
		t.Errorf("expected the later-arriving response to win, got likes=%v", got)
	}

	updated, _ = result.Update(metricsMsg{result: second})
	result = updated.(Model)
	if got := result.metrics.Value("likes"); got != 2 {
		t.Errorf("expected unconditional overwrite, got likes=%v", got)
	}
}

func TestSearchSubmitRequiresCredentials(t *testing.T) {
	m := authedModel()
	m.focus = focusUsername
	m.username.SetValue("natgeo")
	m.session = nil

	_, cmd := m.Update(keyEnter())
	if cmd != nil {
		t.Error("expected no command without a session")
	}
}

func TestSearchSubmitEmptyUsernameIsNoOp(t *testing.T) {
	m := authedModel()
	m.focus = focusUsername

	updated, cmd := m.Update(keyEnter())
	result := updated.(Model)

	if cmd != nil {
		t.Error("expected no command for empty username")
	}
	if result.searching {
		t.Error("expected no searching flag")
	}
}

func TestSearchErrorIsSeparateFromMetricsError(t *testing.T) {
	m := authedModel()
	m.errMsg = "metrics banner"
	m.searching = true

	updated, _ := m.Update(searchMsg{err: &backend.APIError{Status: 404, Message: "search failed", Details: "account not found or not public"}})
	result := updated.(Model)

	if result.searchErr != "account not found or not public" {
		t.Errorf("expected details text, got %q", result.searchErr)
	}
	if result.errMsg != "metrics banner" {
		t.Error("search failure must not touch the shared banner")
	}
	if result.searching {
		t.Error("expected searching cleared")
	}
}

func TestUsePermalinkFillsPostURL(t *testing.T) {
	m := authedModel()
	m.search = &backend.AccountSearchResult{
		User: backend.Account{Username: "natgeo"},
		Media: []backend.Media{
			{ID: "1", Permalink: "https://www.instagram.com/p/one/"},
			{ID: "2", Permalink: "https://www.instagram.com/p/two/"},
		},
	}
	m.focus = focusMedia
	m.mediaCursor = 1

	updated, _ := m.Update(keyEnter())
	result := updated.(Model)

	if got := result.postURL.Value(); got != "https://www.instagram.com/p/two/" {
		t.Errorf("expected permalink copied exactly, got %q", got)
	}
	if result.focus != focusPostURL {
		t.Error("expected focus moved to the post URL field")
	}
}

func TestMediaCursorMovement(t *testing.T) {
	m := authedModel()
	m.search = &backend.AccountSearchResult{
		Media: []backend.Media{{ID: "1"}, {ID: "2"}},
	}
	m.focus = focusMedia

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	result := updated.(Model)
	if result.mediaCursor != 1 {
		t.Errorf("expected cursor 1 after j, got %d", result.mediaCursor)
	}

	// Cursor stops at the end of the list.
	updated, _ = result.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	result = updated.(Model)
	if result.mediaCursor != 1 {
		t.Errorf("expected cursor clamped at 1, got %d", result.mediaCursor)
	}

	updated, _ = result.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	result = updated.(Model)
	if result.mediaCursor != 0 {
		t.Errorf("expected cursor 0 after k, got %d", result.mediaCursor)
	}
}

func TestErrorTextPreference(t *testing.T) {
	if got := errorText(&backend.APIError{Message: "msg", Details: "det"}, "fb"); got != "det" {
		t.Errorf("expected details preferred, got %q", got)
	}
	if got := errorText(&backend.APIError{Message: "msg"}, "fb"); got != "msg" {
		t.Errorf("expected message, got %q", got)
	}
	if got := errorText(&backend.APIError{Status: 500}, "fb"); got != "fb" {
		t.Errorf("expected fallback for blank api error, got %q", got)
	}
	if got := errorText(errors.New("transport"), "fb"); got != "fb" {
		t.Errorf("expected fallback for plain error, got %q", got)
	}
}
