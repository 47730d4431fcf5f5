// Package workflow holds the state behind one workflow form: the
// configuration being edited plus the outcome of the last summary request.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/unclebandit/workflow-summary/internal/editor"
	appErrors "github.com/unclebandit/workflow-summary/internal/errors"
	"github.com/unclebandit/workflow-summary/internal/model"
	"github.com/unclebandit/workflow-summary/internal/service"
)

const (
	ValidationMessage = "Please configure all steps before running the workflow."
	ServiceMessage    = "Failed to generate workflow summary. Please check your connection and try again."
)

// Summarizer produces a summary for a validated configuration.
type Summarizer interface {
	Summarize(ctx context.Context, cfg model.WorkflowConfig) (string, error)
}

// Snapshot is a read-only copy of State for rendering.
type Snapshot struct {
	SourceID       string
	Filters        []model.Filter
	DestinationURL string
	Schedule       model.Schedule
	Running        bool
	Result         string
	Error          string
}

// Config returns the workflow configuration part of the snapshot.
func (s Snapshot) Config() model.WorkflowConfig {
	return model.WorkflowConfig{
		SourceID:       s.SourceID,
		Filters:        s.Filters,
		DestinationURL: s.DestinationURL,
		Schedule:       s.Schedule,
	}
}

// State is owned by one user session. All mutation goes through its
// methods; it is safe for concurrent use.
type State struct {
	mu             sync.Mutex
	sourceID       string
	filters        *editor.FilterList
	destinationURL string
	schedule       model.Schedule

	running bool
	result  string
	errMsg  string
}

// NewState returns a state with the given configuration.
func NewState(cfg model.WorkflowConfig) *State {
	sched := cfg.Schedule
	if sched.Recurrence == nil {
		sched.Recurrence = model.NotScheduled{}
	}
	return &State{
		sourceID:       cfg.SourceID,
		filters:        editor.NewFilterList(cfg.Filters...),
		destinationURL: cfg.DestinationURL,
		schedule:       sched,
	}
}

// NewDefaultState returns the example configuration a new form starts with.
func NewDefaultState() *State {
	return NewState(model.WorkflowConfig{
		SourceID: "7a4f-c12b-432d",
		Filters: []model.Filter{
			{ID: 1, Column: "Sales", Operator: model.OperatorGreaterThan, Value: "10000"},
			{ID: 2, Column: "Region", Operator: model.OperatorEquals, Value: "North America"},
		},
		DestinationURL: "https://docs.google.com/spreadsheets/d/1aBcDeFgHiJkLmNoPqRsTuVwXyZ...",
		Schedule:       model.Schedule{Time: "09:00", Recurrence: model.Daily{}},
	})
}

func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		SourceID:       s.sourceID,
		Filters:        s.filters.Filters(),
		DestinationURL: s.destinationURL,
		Schedule:       s.schedule,
		Running:        s.running,
		Result:         s.result,
		Error:          s.errMsg,
	}
}

func (s *State) SetSourceID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sourceID = id
}

func (s *State) SetDestinationURL(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.destinationURL = url
}

// AddFilter appends a filter; blank column or value is ignored.
func (s *State) AddFilter(column string, op model.Operator, value string) (model.Filter, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters.Add(column, op, value)
}

// RemoveFilter drops the filter with id. The state is unchanged when the id
// is unknown; the returned error only reports it.
func (s *State) RemoveFilter(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.filters.Remove(id) {
		return appErrors.NewFilterNotFound(id)
	}
	return nil
}

func (s *State) SetFrequency(f model.Frequency) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedule = editor.WithFrequency(s.schedule, f)
}

func (s *State) SetTime(hhmm string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedule = editor.WithTime(s.schedule, hhmm)
}

func (s *State) SetDayOfWeek(d time.Weekday) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedule = editor.WithDayOfWeek(s.schedule, d)
}

func (s *State) SetDayOfMonth(d int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedule = editor.WithDayOfMonth(s.schedule, d)
}

// Submit runs one summary request and returns when it settles. It returns
// appErrors.ErrBusy without touching the state while another request is
// outstanding. Otherwise the previous result and error are cleared, the
// configuration is validated, and exactly one of result, validation message
// or service message is set when it returns. Running is false again on
// every path.
func (s *State) Submit(ctx context.Context, sum Summarizer) error {
	cfg, err := s.begin()
	if err != nil {
		return err
	}
	return s.run(ctx, sum, cfg)
}

// Start is Submit in the background. The state already reports Running
// when Start returns; done is closed once the request has settled.
func (s *State) Start(ctx context.Context, sum Summarizer) (done <-chan struct{}, err error) {
	cfg, err := s.begin()
	if err != nil {
		return nil, err
	}

	ch := make(chan struct{})
	go func() {
		defer close(ch)
		if err := s.run(ctx, sum, cfg); err != nil {
			log.Println("⚠️ Summary request finished with error:", err)
		}
	}()
	return ch, nil
}

// begin marks the state as running and captures the configuration to send.
func (s *State) begin() (model.WorkflowConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return model.WorkflowConfig{}, appErrors.ErrBusy
	}
	s.running = true
	s.result = ""
	s.errMsg = ""
	return model.WorkflowConfig{
		SourceID:       s.sourceID,
		Filters:        s.filters.Filters(),
		DestinationURL: s.destinationURL,
		Schedule:       s.schedule,
	}, nil
}

func (s *State) run(ctx context.Context, sum Summarizer, cfg model.WorkflowConfig) (err error) {
	var text string
	defer func() {
		if r := recover(); r != nil {
			log.Println("❌ summary request panicked:", r)
			err = fmt.Errorf("%w: panic: %v", appErrors.ErrSummaryFailed, r)
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		s.running = false
		switch {
		case errors.Is(err, appErrors.ErrValidation):
			s.errMsg = ValidationMessage
		case err != nil:
			s.errMsg = ServiceMessage
		default:
			s.result = text
		}
	}()

	if err = service.ValidateWorkflow(cfg); err != nil {
		return err
	}

	// the call runs outside the lock so the form can still be viewed
	text, err = sum.Summarize(ctx, cfg)
	if err != nil && !errors.Is(err, appErrors.ErrSummaryFailed) {
		err = fmt.Errorf("%w: %v", appErrors.ErrSummaryFailed, err)
	}
	return err
}
