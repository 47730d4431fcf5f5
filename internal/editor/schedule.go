package editor

import (
	"time"

	"github.com/unclebandit/workflow-summary/internal/model"
)

const defaultDay = 1

// WithFrequency moves a schedule to a new frequency. Time is kept. Entering
// Weekly or Monthly keeps the current day for that mode or falls back to 1;
// the day of any other mode is dropped.
func WithFrequency(prev model.Schedule, freq model.Frequency) model.Schedule {
	next := model.Schedule{Time: prev.Time}

	switch freq {
	case model.FrequencyDaily:
		next.Recurrence = model.Daily{}
	case model.FrequencyWeekly:
		day, ok := prev.DayOfWeek()
		if !ok {
			day = time.Weekday(defaultDay)
		}
		next.Recurrence = model.Weekly{Day: day}
	case model.FrequencyMonthly:
		day, ok := prev.DayOfMonth()
		if !ok {
			day = defaultDay
		}
		next.Recurrence = model.Monthly{Day: day}
	default:
		next.Recurrence = model.NotScheduled{}
	}
	return next
}

func WithTime(prev model.Schedule, hhmm string) model.Schedule {
	prev.Time = hhmm
	return prev
}

// WithDayOfWeek only applies to a weekly schedule.
func WithDayOfWeek(prev model.Schedule, day time.Weekday) model.Schedule {
	if _, ok := prev.Recurrence.(model.Weekly); ok {
		prev.Recurrence = model.Weekly{Day: day}
	}
	return prev
}

// WithDayOfMonth only applies to a monthly schedule. The day is not
// checked against month lengths.
func WithDayOfMonth(prev model.Schedule, day int) model.Schedule {
	if _, ok := prev.Recurrence.(model.Monthly); ok {
		prev.Recurrence = model.Monthly{Day: day}
	}
	return prev
}
