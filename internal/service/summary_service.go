// internal/service/summary_service.go
package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	appErrors "github.com/unclebandit/workflow-summary/internal/errors"
	"github.com/unclebandit/workflow-summary/internal/llm"
	"github.com/unclebandit/workflow-summary/internal/model"
	"github.com/unclebandit/workflow-summary/internal/queue"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateWorkflow checks that source, destination and at least one filter
// are present. The returned error wraps appErrors.ErrValidation.
func ValidateWorkflow(cfg model.WorkflowConfig) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("%w: %v", appErrors.ErrValidation, err)
	}
	return nil
}

type SummaryService struct {
	Generator llm.Generator
	Queue     queue.Queue // optional
}

// Summarize sends the workflow prompt to the generator and returns its text
// as is. Any failure is logged and reported as appErrors.ErrSummaryFailed.
func (s *SummaryService) Summarize(ctx context.Context, cfg model.WorkflowConfig) (string, error) {
	prompt := BuildSummaryPrompt(cfg)

	text, err := s.Generator.Generate(ctx, prompt)
	s.publish(cfg, err == nil)
	if err != nil {
		log.Println("❌ Error calling text generation service:", err)
		return "", appErrors.ErrSummaryFailed
	}
	return text, nil
}

func (s *SummaryService) publish(cfg model.WorkflowConfig, ok bool) {
	if s.Queue == nil {
		return
	}

	ev := queue.SummaryEvent{
		ID:             uuid.NewString(),
		SourceID:       cfg.SourceID,
		DestinationURL: cfg.DestinationURL,
		Frequency:      string(cfg.Schedule.Frequency()),
		FilterCount:    len(cfg.Filters),
		Succeeded:      ok,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.Queue.Publish(queue.SummaryTopic, ev); err != nil {
		log.Println("⚠️ failed to publish summary event:", err)
	}
}
