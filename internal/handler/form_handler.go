// internal/handler/form_handler.go
package handler

import (
	"context"
	_ "embed"
	"errors"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	appErrors "github.com/unclebandit/workflow-summary/internal/errors"
	"github.com/unclebandit/workflow-summary/internal/markdown"
	"github.com/unclebandit/workflow-summary/internal/model"
	"github.com/unclebandit/workflow-summary/internal/service"
	"github.com/unclebandit/workflow-summary/internal/session"
	"github.com/unclebandit/workflow-summary/internal/workflow"
)

//go:embed templates/index.html
var indexHTML string

var indexTmpl = template.Must(template.New("index").Parse(indexHTML))

type weekdayOption struct {
	Value int
	Name  string
}

var weekdays = func() []weekdayOption {
	out := make([]weekdayOption, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		out[d] = weekdayOption{Value: int(d), Name: d.String()}
	}
	return out
}()

type pageData struct {
	State         workflow.Snapshot
	Operators     []model.Operator
	Frequencies   []model.Frequency
	Weekdays      []weekdayOption
	Frequency     model.Frequency
	Scheduled     bool
	HasDayOfWeek  bool
	DayOfWeek     int
	HasDayOfMonth bool
	DayOfMonth    int
	ScheduleText  string
	NextRun       string
	SummaryHTML   template.HTML
}

// FormHandler serves the workflow form. Each browser session edits its own
// workflow.State.
type FormHandler struct {
	Sessions   *session.Store
	Summarizer workflow.Summarizer
	Now        func() time.Time
}

func (h *FormHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// Show renders the form for the caller's session.
func (h *FormHandler) Show(w http.ResponseWriter, r *http.Request) {
	snap := h.Sessions.Get(w, r).Snapshot()
	sched := snap.Schedule

	data := pageData{
		State:        snap,
		Operators:    model.Operators,
		Frequencies:  model.Frequencies,
		Weekdays:     weekdays,
		Frequency:    sched.Frequency(),
		Scheduled:    sched.Frequency() != model.FrequencyNotScheduled,
		ScheduleText: service.DescribeSchedule(sched, service.Plain),
	}
	if d, ok := sched.DayOfWeek(); ok {
		data.HasDayOfWeek, data.DayOfWeek = true, int(d)
	}
	if d, ok := sched.DayOfMonth(); ok {
		data.HasDayOfMonth, data.DayOfMonth = true, d
	}
	if next, err := sched.NextRun(h.now()); err == nil {
		data.NextRun = next.Format("Mon, 02 Jan 2006 15:04 UTC")
	}
	if snap.Result != "" {
		data.SummaryHTML = template.HTML(markdown.ToHTML(snap.Result))
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, data); err != nil {
		log.Println("❌ Failed to render form:", err)
	}
}

// Update applies the posted field values, then the requested action, and
// redirects back to the form.
func (h *FormHandler) Update(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form: "+err.Error(), http.StatusBadRequest)
		return
	}
	st := h.Sessions.Get(w, r)
	form := r.PostForm

	applyFields(st, form)

	action := form.Get("action")
	switch {
	case action == "add-filter":
		op, err := model.ParseOperator(form.Get("new_operator"))
		if err != nil {
			log.Println("⚠️ Unknown operator, using equals:", err)
			op = model.OperatorEquals
		}
		st.AddFilter(form.Get("new_column"), op, form.Get("new_value"))

	case strings.HasPrefix(action, "remove-filter:"):
		id, err := strconv.Atoi(strings.TrimPrefix(action, "remove-filter:"))
		if err != nil {
			log.Println("⚠️ Invalid filter id:", action)
			break
		}
		if err := st.RemoveFilter(id); err != nil {
			log.Println("⚠️", err)
		}

	case action == "generate":
		// the request outlives this POST: no timeout and no cancellation
		// once issued. The redirected page shows it running and reloads
		// itself until it settles.
		_, err := st.Start(context.WithoutCancel(r.Context()), h.Summarizer)
		if errors.Is(err, appErrors.ErrBusy) {
			log.Println("⏳ Summary already running, ignoring submit")
		}
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// applyFields copies text and schedule inputs into the state. Day fields
// are applied before the frequency so they edit the mode that was shown.
func applyFields(st *workflow.State, form url.Values) {
	if v, ok := form["source_id"]; ok {
		st.SetSourceID(v[0])
	}
	if v, ok := form["destination_url"]; ok {
		st.SetDestinationURL(v[0])
	}

	if v := form.Get("day_of_week"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 && n <= 6 {
			st.SetDayOfWeek(time.Weekday(n))
		}
	}
	if v := form.Get("day_of_month"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			st.SetDayOfMonth(n)
		}
	}
	if v, ok := form["time"]; ok {
		st.SetTime(v[0])
	}
	if v := form.Get("frequency"); v != "" {
		f, err := model.ParseFrequency(v)
		if err != nil {
			log.Println("⚠️", err)
			return
		}
		st.SetFrequency(f)
	}
}
