// internal/controller/workflow_controller.go
package controller

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/unclebandit/workflow-summary/internal/editor"
	appErrors "github.com/unclebandit/workflow-summary/internal/errors"
	"github.com/unclebandit/workflow-summary/internal/markdown"
	"github.com/unclebandit/workflow-summary/internal/model"
	"github.com/unclebandit/workflow-summary/internal/service"
	"github.com/unclebandit/workflow-summary/internal/workflow"
)

type WorkflowController struct {
	SummaryService workflow.Summarizer
	Now            func() time.Time
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// CreateSummary summarises a workflow configuration sent as JSON. It keeps
// no state between calls.
func (c *WorkflowController) CreateSummary(w http.ResponseWriter, r *http.Request) {
	var cfg model.WorkflowConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body: " + err.Error()})
		return
	}
	// same rules as the form: blank rules are dropped, ids follow body order
	filters := editor.NewFilterList()
	for _, f := range cfg.Filters {
		if _, ok := filters.Add(f.Column, f.Operator, f.Value); !ok {
			log.Println("⚠️ Dropping blank filter:", f.Column, f.Value)
		}
	}
	cfg.Filters = filters.Filters()

	if err := service.ValidateWorkflow(cfg); err != nil {
		log.Println("⚠️ Rejected workflow:", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": workflow.ValidationMessage})
		return
	}

	// a client disconnect must not abort the call
	text, err := c.SummaryService.Summarize(context.WithoutCancel(r.Context()), cfg)
	if err != nil {
		if !errors.Is(err, appErrors.ErrSummaryFailed) {
			log.Println("❌ Summary failed:", err)
		}
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": workflow.ServiceMessage})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"summary":  text,
		"html":     markdown.ToHTML(text),
		"schedule": service.DescribeSchedule(cfg.Schedule, service.Plain),
	})
}

// NextRun previews the schedule given in the query string. Nothing is
// scheduled.
func (c *WorkflowController) NextRun(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	fields := model.ScheduleFields{
		Frequency: q.Get("frequency"),
		Time:      q.Get("time"),
	}
	if v := q.Get("day_of_week"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid day_of_week"})
			return
		}
		fields.DayOfWeek = &n
	}
	if v := q.Get("day_of_month"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid day_of_month"})
			return
		}
		fields.DayOfMonth = &n
	}

	sched, err := fields.Build()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	resp := map[string]any{
		"schedule":    sched,
		"description": service.DescribeSchedule(sched, service.Plain),
	}

	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	next, err := sched.NextRun(now())
	switch {
	case errors.Is(err, model.ErrNotScheduled):
	case err != nil:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	default:
		expr, _ := sched.CronExpression()
		resp["cron"] = expr
		resp["next_run"] = next
	}

	writeJSON(w, http.StatusOK, resp)
}
