package service

import (
	"log"
	"sync"

	"github.com/unclebandit/workflow-summary/internal/queue"
)

// SummaryStats counts summary outcomes seen by a Worker
type SummaryStats struct {
	Total     int            `json:"total"`
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
	BySource  map[string]int `json:"by_source"`
}

// Worker tallies summary events
type Worker struct {
	Events <-chan queue.SummaryEvent
	Notify func(ev queue.SummaryEvent)

	mu    sync.Mutex
	stats SummaryStats
}

// Constructor
func NewWorker(events <-chan queue.SummaryEvent, notify func(ev queue.SummaryEvent)) *Worker {
	return &Worker{
		Events: events,
		Notify: notify,
		stats:  SummaryStats{BySource: map[string]int{}},
	}
}

// Start processes events until the channel is closed
func (w *Worker) Start() {
	for ev := range w.Events {
		w.mu.Lock()
		w.stats.Total++
		if ev.Succeeded {
			w.stats.Succeeded++
		} else {
			w.stats.Failed++
		}
		w.stats.BySource[ev.SourceID]++
		total := w.stats.Total
		w.mu.Unlock()

		log.Printf("📊 summary %s for %s -> %s (succeeded=%t, %d so far)\n", ev.ID, ev.SourceID, ev.DestinationURL, ev.Succeeded, total)

		if w.Notify != nil {
			w.Notify(ev)
		}
	}
}

// Stats returns a snapshot of the counters
func (w *Worker) Stats() SummaryStats {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := w.stats
	out.BySource = make(map[string]int, len(w.stats.BySource))
	for k, v := range w.stats.BySource {
		out.BySource[k] = v
	}
	return out
}
