package handler_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/workflow-summary/internal/handler"
	"github.com/unclebandit/workflow-summary/internal/model"
	"github.com/unclebandit/workflow-summary/internal/session"
	"github.com/unclebandit/workflow-summary/internal/workflow"
)

type MockSummarizer struct {
	Text  string
	Err   error
	Calls int
	Last  model.WorkflowConfig
}

func (m *MockSummarizer) Summarize(ctx context.Context, cfg model.WorkflowConfig) (string, error) {
	m.Calls++
	m.Last = cfg
	return m.Text, m.Err
}

// browser replays the session cookie like a real client would
type browser struct {
	t      *testing.T
	h      *handler.FormHandler
	cookie *http.Cookie
}

func newBrowser(t *testing.T, sum workflow.Summarizer) *browser {
	store, err := session.NewStore(8, nil)
	require.NoError(t, err)
	return &browser{
		t: t,
		h: &handler.FormHandler{
			Sessions:   store,
			Summarizer: sum,
			Now:        func() time.Time { return time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC) },
		},
	}
}

func (b *browser) do(req *http.Request, fn http.HandlerFunc) *http.Response {
	if b.cookie != nil {
		req.AddCookie(b.cookie)
	}
	w := httptest.NewRecorder()
	fn(w, req)
	resp := w.Result()
	for _, c := range resp.Cookies() {
		if c.Name == session.CookieName {
			b.cookie = c
		}
	}
	return resp
}

func (b *browser) page() string {
	resp := b.do(httptest.NewRequest("GET", "/", nil), b.h.Show)
	require.Equal(b.t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)
	return string(body)
}

func (b *browser) post(form url.Values) {
	req := httptest.NewRequest("POST", "/workflow", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp := b.do(req, b.h.Update)
	require.Equal(b.t, http.StatusSeeOther, resp.StatusCode)
}

// settled reloads the form until no summary request is running.
func (b *browser) settled() string {
	var page string
	require.Eventually(b.t, func() bool {
		page = b.page()
		return !strings.Contains(page, "Generating Summary...")
	}, 2*time.Second, 5*time.Millisecond)
	return page
}

// blockingSummarizer holds the call open until release is closed.
type blockingSummarizer struct {
	started chan struct{}
	release chan struct{}
	text    string
}

func (s *blockingSummarizer) Summarize(ctx context.Context, cfg model.WorkflowConfig) (string, error) {
	close(s.started)
	<-s.release
	return s.text, nil
}

func TestShowRendersDefaults(t *testing.T) {
	b := newBrowser(t, &MockSummarizer{})
	page := b.page()

	assert.Contains(t, page, `value="7a4f-c12b-432d"`)
	assert.Contains(t, page, "is greater than")
	assert.Contains(t, page, "North America")
	assert.Contains(t, page, "This workflow runs Daily at 09:00 UTC.")
	assert.Contains(t, page, "Next run: Thu, 02 Jan 2025 09:00 UTC.")
	assert.NotContains(t, page, `class="error"`)
}

func TestAddAndRemoveFilter(t *testing.T) {
	b := newBrowser(t, &MockSummarizer{})
	b.page()

	b.post(url.Values{"action": {"add-filter"}, "new_column": {"Year"}, "new_operator": {"less-than"}, "new_value": {"2025"}})
	page := b.page()
	assert.Contains(t, page, "<strong>Year</strong>")
	assert.Contains(t, page, "is less than")

	b.post(url.Values{"action": {"add-filter"}, "new_column": {"   "}, "new_value": {"x"}})
	assert.Equal(t, 3, strings.Count(b.page(), `class="filter"`))

	b.post(url.Values{"action": {"remove-filter:1"}})
	page = b.page()
	assert.NotContains(t, page, "<strong>Sales</strong>")
	assert.Equal(t, 2, strings.Count(page, `class="filter"`))
}

func TestFrequencyChangeShowsDayFields(t *testing.T) {
	b := newBrowser(t, &MockSummarizer{})
	b.page()

	b.post(url.Values{"frequency": {"Weekly"}, "time": {"09:00"}})
	page := b.page()
	assert.Contains(t, page, `name="day_of_week"`)
	assert.Contains(t, page, "This workflow runs Weekly at 09:00 UTC on Mondays.")

	// day edit and frequency change in one post: the day applies to the shown mode
	b.post(url.Values{"frequency": {"Monthly"}, "day_of_week": {"3"}, "time": {"09:00"}})
	page = b.page()
	assert.Contains(t, page, `name="day_of_month"`)
	assert.NotContains(t, page, `name="day_of_week"`)
	assert.Contains(t, page, "on day 1 of the month")
}

func TestGenerateShowsSummary(t *testing.T) {
	sum := &MockSummarizer{Text: "## Overview\n* first\n* second"}
	b := newBrowser(t, sum)
	b.page()

	b.post(url.Values{"action": {"generate"}, "source_id": {"card-9"}})
	page := b.settled()

	require.Equal(t, 1, sum.Calls)
	assert.Equal(t, "card-9", sum.Last.SourceID)
	assert.Contains(t, page, `<h2 class="summary-h2">Overview</h2>`)
	assert.Contains(t, page, `<ul><li class="summary-li">first</li><li class="summary-li">second</li></ul>`)
}

func TestGenerateValidationError(t *testing.T) {
	sum := &MockSummarizer{Text: "never"}
	b := newBrowser(t, sum)
	b.page()

	b.post(url.Values{"action": {"generate"}, "destination_url": {""}})
	page := b.settled()

	assert.Equal(t, 0, sum.Calls)
	assert.Contains(t, page, workflow.ValidationMessage)
	assert.NotContains(t, page, `class="summary"`)
}

func TestGenerateServiceError(t *testing.T) {
	sum := &MockSummarizer{Err: errors.New("dial tcp: timeout")}
	b := newBrowser(t, sum)
	b.page()

	b.post(url.Values{"action": {"generate"}})
	page := b.settled()

	assert.Contains(t, page, workflow.ServiceMessage)
	assert.NotContains(t, page, "dial tcp")
}

func TestGenerateShowsLoadingStateUntilSettled(t *testing.T) {
	sum := &blockingSummarizer{
		started: make(chan struct{}),
		release: make(chan struct{}),
		text:    "## Ready",
	}
	b := newBrowser(t, sum)
	b.page()

	b.post(url.Values{"action": {"generate"}})
	select {
	case <-sum.started:
	case <-time.After(2 * time.Second):
		t.Fatal("summary call never started")
	}

	page := b.page()
	assert.Contains(t, page, `value="generate" disabled`)
	assert.Contains(t, page, "Generating Summary...")
	assert.Contains(t, page, `<meta http-equiv="refresh" content="2">`)

	// a second click while running is ignored; a second call would panic
	// on the closed started channel
	b.post(url.Values{"action": {"generate"}})
	assert.Contains(t, b.page(), "Generating Summary...")

	close(sum.release)
	page = b.settled()
	assert.Contains(t, page, `<h2 class="summary-h2">Ready</h2>`)
	assert.NotContains(t, page, "http-equiv")
	assert.NotContains(t, page, " disabled")
}
