// internal/model/schedule.go
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

var ErrNotScheduled = errors.New("schedule: workflow is not scheduled")

type Frequency string

const (
	FrequencyNotScheduled Frequency = "Not Scheduled"
	FrequencyDaily        Frequency = "Daily"
	FrequencyWeekly       Frequency = "Weekly"
	FrequencyMonthly      Frequency = "Monthly"
)

var Frequencies = []Frequency{
	FrequencyNotScheduled,
	FrequencyDaily,
	FrequencyWeekly,
	FrequencyMonthly,
}

// ParseFrequency accepts the display name ("Not Scheduled") or a
// lower-case key ("not-scheduled", "daily", ...). Empty means not scheduled.
func ParseFrequency(s string) (Frequency, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("-", " ", "_", " ").Replace(key)
	switch key {
	case "", "not scheduled", "none", "manual":
		return FrequencyNotScheduled, nil
	case "daily":
		return FrequencyDaily, nil
	case "weekly":
		return FrequencyWeekly, nil
	case "monthly":
		return FrequencyMonthly, nil
	}
	return "", fmt.Errorf("unknown frequency %q", s)
}

// Recurrence is the frequency-specific part of a Schedule. Only the four
// types below implement it, so a weekday exists only on Weekly and a
// day of month only on Monthly.
type Recurrence interface {
	Frequency() Frequency
	isRecurrence()
}

type NotScheduled struct{}

type Daily struct{}

type Weekly struct {
	Day time.Weekday
}

// Monthly.Day is not checked against month lengths; 31 is accepted.
type Monthly struct {
	Day int
}

func (NotScheduled) Frequency() Frequency { return FrequencyNotScheduled }
func (Daily) Frequency() Frequency        { return FrequencyDaily }
func (Weekly) Frequency() Frequency       { return FrequencyWeekly }
func (Monthly) Frequency() Frequency      { return FrequencyMonthly }

func (NotScheduled) isRecurrence() {}
func (Daily) isRecurrence()        {}
func (Weekly) isRecurrence()       {}
func (Monthly) isRecurrence()      {}

// Schedule describes when a workflow is meant to run. It is never enforced.
type Schedule struct {
	Time       string // "HH:MM", UTC
	Recurrence Recurrence
}

func (s Schedule) Frequency() Frequency {
	if s.Recurrence == nil {
		return FrequencyNotScheduled
	}
	return s.Recurrence.Frequency()
}

func (s Schedule) DayOfWeek() (time.Weekday, bool) {
	w, ok := s.Recurrence.(Weekly)
	return w.Day, ok
}

func (s Schedule) DayOfMonth() (int, bool) {
	m, ok := s.Recurrence.(Monthly)
	return m.Day, ok
}

// ScheduleFields is the flat wire form of a Schedule used by JSON, YAML and
// HTML forms.
type ScheduleFields struct {
	Frequency  string `json:"frequency" yaml:"frequency"`
	Time       string `json:"time" yaml:"time"`
	DayOfWeek  *int   `json:"day_of_week,omitempty" yaml:"day_of_week,omitempty"`
	DayOfMonth *int   `json:"day_of_month,omitempty" yaml:"day_of_month,omitempty"`
}

// Build converts the flat form into a Schedule. Day fields that do not
// belong to the frequency are dropped, and a missing day defaults to 1.
func (f ScheduleFields) Build() (Schedule, error) {
	freq, err := ParseFrequency(f.Frequency)
	if err != nil {
		return Schedule{}, err
	}

	s := Schedule{Time: f.Time}
	switch freq {
	case FrequencyDaily:
		s.Recurrence = Daily{}
	case FrequencyWeekly:
		day := 1
		if f.DayOfWeek != nil {
			day = *f.DayOfWeek
		}
		if day < 0 || day > 6 {
			return Schedule{}, fmt.Errorf("day_of_week must be between 0 and 6, got %d", day)
		}
		s.Recurrence = Weekly{Day: time.Weekday(day)}
	case FrequencyMonthly:
		day := 1
		if f.DayOfMonth != nil {
			day = *f.DayOfMonth
		}
		s.Recurrence = Monthly{Day: day}
	default:
		s.Recurrence = NotScheduled{}
	}
	return s, nil
}

func (s Schedule) Fields() ScheduleFields {
	f := ScheduleFields{
		Frequency: string(s.Frequency()),
		Time:      s.Time,
	}
	if d, ok := s.DayOfWeek(); ok {
		v := int(d)
		f.DayOfWeek = &v
	}
	if d, ok := s.DayOfMonth(); ok {
		f.DayOfMonth = &d
	}
	return f
}

func (s Schedule) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Fields())
}

func (s *Schedule) UnmarshalJSON(b []byte) error {
	var f ScheduleFields
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	built, err := f.Build()
	if err != nil {
		return err
	}
	*s = built
	return nil
}

// CronExpression returns the standard five-field cron equivalent of the
// schedule. It reports false for an unscheduled workflow.
func (s Schedule) CronExpression() (string, bool) {
	at, err := time.Parse("15:04", s.Time)
	if err != nil {
		return "", false
	}

	switch r := s.Recurrence.(type) {
	case Daily:
		return fmt.Sprintf("%d %d * * *", at.Minute(), at.Hour()), true
	case Weekly:
		return fmt.Sprintf("%d %d * * %d", at.Minute(), at.Hour(), int(r.Day)), true
	case Monthly:
		return fmt.Sprintf("%d %d %d * *", at.Minute(), at.Hour(), r.Day), true
	}
	return "", false
}

// NextRun reports when the schedule would next fire after the given time,
// in UTC. Nothing acts on it; it is shown to users as a preview.
func (s Schedule) NextRun(after time.Time) (time.Time, error) {
	if s.Frequency() == FrequencyNotScheduled {
		return time.Time{}, ErrNotScheduled
	}
	expr, ok := s.CronExpression()
	if !ok {
		return time.Time{}, fmt.Errorf("invalid schedule time %q", s.Time)
	}
	sched, err := cron.ParseStandard(expr)
	if err != nil {
		return time.Time{}, err
	}
	return sched.Next(after.UTC()), nil
}
