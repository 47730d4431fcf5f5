package queue

import (
	"encoding/json"
	"fmt"
	"log"
	"slices"
	"sync"
	"time"
)

// SummaryTopic carries one SummaryEvent per finished summary request.
const SummaryTopic = "workflow_summaries"

// Queue interface
type Queue interface {
	Publish(topic string, payload any) error
	Subscribe(topic string, handler func(payload any) error) error
}

// SummaryEvent records the outcome of one summary request. It never carries
// the generated text or the underlying error.
type SummaryEvent struct {
	ID             string    `json:"id"`
	SourceID       string    `json:"source_id"`
	DestinationURL string    `json:"destination_url"`
	Frequency      string    `json:"frequency"`
	FilterCount    int       `json:"filter_count"`
	Succeeded      bool      `json:"succeeded"`
	CreatedAt      time.Time `json:"created_at"`
}

// DecodeSummaryEvent accepts the payload shapes delivered by both queue
// implementations: the event value itself or its JSON encoding.
func DecodeSummaryEvent(payload any) (SummaryEvent, error) {
	switch p := payload.(type) {
	case SummaryEvent:
		return p, nil
	case *SummaryEvent:
		return *p, nil
	case []byte:
		var ev SummaryEvent
		if err := json.Unmarshal(p, &ev); err != nil {
			return SummaryEvent{}, fmt.Errorf("decode summary event: %w", err)
		}
		return ev, nil
	}
	return SummaryEvent{}, fmt.Errorf("unexpected summary event payload %T", payload)
}

// InMemoryQueue delivers to subscribers in-process. A handler that returns
// an error gets the same payload again, up to retries more times, with a
// linearly growing pause in between.
type InMemoryQueue struct {
	mu       sync.Mutex
	handlers map[string][]func(payload any) error
	retries  int
	backoff  time.Duration
}

func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{
		handlers: make(map[string][]func(payload any) error),
		retries:  3,
		backoff:  500 * time.Millisecond,
	}
}

// Publish hands payload to every subscriber of topic on its own goroutine.
// It fails only when nobody listens.
func (q *InMemoryQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	subs := slices.Clone(q.handlers[topic])
	q.mu.Unlock()

	if len(subs) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}
	for _, h := range subs {
		go q.deliver(topic, h, payload)
	}
	return nil
}

func (q *InMemoryQueue) deliver(topic string, h func(payload any) error, payload any) {
	attempts := q.retries + 1
	for n := 1; n <= attempts; n++ {
		err := h(payload)
		if err == nil {
			return
		}
		if n == attempts {
			log.Printf("❌ Dropping %s message after %d attempts: %v\n", topic, attempts, err)
			return
		}
		log.Printf("🔁 %s handler failed (attempt %d/%d): %v\n", topic, n, attempts, err)
		time.Sleep(time.Duration(n) * q.backoff)
	}
}

func (q *InMemoryQueue) Subscribe(topic string, handler func(payload any) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

// StartSummaryAuditSubscriber logs every summary event published on q.
func StartSummaryAuditSubscriber(q Queue) error {
	return q.Subscribe(SummaryTopic, func(payload any) error {
		ev, err := DecodeSummaryEvent(payload)
		if err != nil {
			log.Println("⚠️ Invalid summary event:", err)
			return nil // no retry
		}

		status := "✅"
		if !ev.Succeeded {
			status = "❌"
		}
		log.Printf("%s Summary %s for source %s (%s, %d filters)\n", status, ev.ID, ev.SourceID, ev.Frequency, ev.FilterCount)
		return nil
	})
}
