package controller_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/workflow-summary/internal/controller"
	appErrors "github.com/unclebandit/workflow-summary/internal/errors"
	"github.com/unclebandit/workflow-summary/internal/model"
	"github.com/unclebandit/workflow-summary/internal/workflow"
)

// --- Mock Summarizer ---

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

const validBody = `{
	"source_id": "7a4f-c12b-432d",
	"filters": [
		{"column": "Sales", "operator": "greater-than", "value": "10000"},
		{"column": "Region", "value": "North America"}
	],
	"destination_url": "https://docs.google.com/spreadsheets/d/abc",
	"schedule": {"frequency": "Weekly", "time": "09:00", "day_of_week": 1}
}`

func post(ctrl *controller.WorkflowController, body string) *http.Response {
	req := httptest.NewRequest("POST", "/api/summaries", strings.NewReader(body))
	w := httptest.NewRecorder()
	ctrl.CreateSummary(w, req)
	return w.Result()
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var res map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	return res
}

func TestCreateSummary(t *testing.T) {
	sum := &MockSummarizer{Text: "## Summary\n* one\n* two"}
	ctrl := &controller.WorkflowController{SummaryService: sum}

	resp := post(ctrl, validBody)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	res := decode(t, resp)
	assert.Equal(t, "## Summary\n* one\n* two", res["summary"])
	assert.Contains(t, res["html"], "<ul>")
	assert.Equal(t, "This workflow runs Weekly at 09:00 UTC on Mondays.", res["schedule"])

	require.Equal(t, 1, sum.Calls)
	assert.Equal(t, model.OperatorGreaterThan, sum.Last.Filters[0].Operator)
	assert.Equal(t, model.OperatorEquals, sum.Last.Filters[1].Operator)
}

func TestCreateSummaryValidation(t *testing.T) {
	sum := &MockSummarizer{Text: "never"}
	ctrl := &controller.WorkflowController{SummaryService: sum}

	resp := post(ctrl, `{"source_id": "card", "filters": [], "destination_url": "x", "schedule": {"frequency": "Daily", "time": "09:00"}}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, workflow.ValidationMessage, decode(t, resp)["error"])
	assert.Equal(t, 0, sum.Calls)
}

func TestCreateSummaryDropsBlankFilters(t *testing.T) {
	sum := &MockSummarizer{Text: "ok"}
	ctrl := &controller.WorkflowController{SummaryService: sum}

	body := `{
		"source_id": "card",
		"filters": [
			{"id": 7, "column": "  ", "value": "x"},
			{"id": 9, "column": "Region", "value": "EMEA"},
			{"column": "Sales", "operator": "less-than", "value": " "}
		],
		"destination_url": "x",
		"schedule": {"frequency": "Daily", "time": "09:00"}
	}`
	resp := post(ctrl, body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, sum.Last.Filters, 1)
	assert.Equal(t, 1, sum.Last.Filters[0].ID)
	assert.Equal(t, "Region", sum.Last.Filters[0].Column)

	// nothing left after dropping blanks fails validation
	sum.Calls = 0
	resp = post(ctrl, `{"source_id": "card", "filters": [{"column": "", "value": ""}], "destination_url": "x", "schedule": {"frequency": "Daily", "time": "09:00"}}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, workflow.ValidationMessage, decode(t, resp)["error"])
	assert.Equal(t, 0, sum.Calls)
}

func TestCreateSummaryServiceError(t *testing.T) {
	sum := &MockSummarizer{Err: appErrors.ErrSummaryFailed}
	ctrl := &controller.WorkflowController{SummaryService: sum}

	resp := post(ctrl, validBody)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, workflow.ServiceMessage, decode(t, resp)["error"])
}

func TestCreateSummaryBadBody(t *testing.T) {
	ctrl := &controller.WorkflowController{SummaryService: &MockSummarizer{}}

	resp := post(ctrl, `{"schedule": {"frequency": "Weekly", "day_of_week": 9}}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = post(ctrl, `not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestNextRun(t *testing.T) {
	ctrl := &controller.WorkflowController{
		Now: func() time.Time { return time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC) },
	}

	req := httptest.NewRequest("GET", "/api/schedule/next-run?frequency=weekly&time=09:00&day_of_week=1", nil)
	w := httptest.NewRecorder()
	ctrl.NextRun(w, req)

	resp := w.Result()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	res := decode(t, resp)
	assert.Equal(t, "0 9 * * 1", res["cron"])
	assert.Equal(t, "2025-01-06T09:00:00Z", res["next_run"])
	assert.Equal(t, "This workflow runs Weekly at 09:00 UTC on Mondays.", res["description"])
}

func TestNextRunNotScheduled(t *testing.T) {
	ctrl := &controller.WorkflowController{}

	req := httptest.NewRequest("GET", "/api/schedule/next-run?frequency=not-scheduled&time=09:00", nil)
	w := httptest.NewRecorder()
	ctrl.NextRun(w, req)

	resp := w.Result()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	res := decode(t, resp)
	_, hasCron := res["cron"]
	assert.False(t, hasCron)
	assert.Equal(t, "This workflow is not scheduled and must be run manually.", res["description"])
}
