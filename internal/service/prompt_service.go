// internal/service/prompt_service.go
package service

import (
	"fmt"
	"strings"

	"github.com/unclebandit/workflow-summary/internal/model"
)

const summaryPromptTemplate = `You are a data workflow automation expert. Based on the following configuration, generate a concise, human-readable summary of the data pipeline steps. The output should be in markdown format with clear headings.

## Workflow Configuration

*   **Source:** Domo Card ID ` + "`{source_id}`" + `
*   **Destination:** Google Sheet ` + "`{destination_url}`" + `

### Transformation Logic
The data from the Domo Card will be filtered based on the following criteria before export:
{filters}

### Scheduling
{schedule}

## Workflow Summary

Generate a brief, professional summary of this process. Explain what the workflow achieves in 2-3 sentences and include the schedule information.
`

// Bold wraps text in markdown emphasis.
func Bold(s string) string { return "**" + s + "**" }

// Plain leaves text untouched.
func Plain(s string) string { return s }

// DescribeFilter renders one filter as a markdown bullet.
func DescribeFilter(f model.Filter) string {
	return fmt.Sprintf("- **%s** %s `%s`", f.Column, f.Operator.Phrase(), f.Value)
}

// DescribeSchedule renders the schedule as one sentence. emph decorates
// the frequency, time and day parts; use Bold for prompts, Plain for UI.
func DescribeSchedule(s model.Schedule, emph func(string) string) string {
	if s.Frequency() == model.FrequencyNotScheduled {
		return "This workflow is not scheduled and must be run manually."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "This workflow runs %s at %s", emph(string(s.Frequency())), emph(s.Time+" UTC"))

	switch r := s.Recurrence.(type) {
	case model.Weekly:
		fmt.Fprintf(&b, " on %s", emph(r.Day.String()+"s"))
	case model.Monthly:
		fmt.Fprintf(&b, " on day %s of the month", emph(fmt.Sprint(r.Day)))
	}

	b.WriteString(".")
	return b.String()
}

// BuildSummaryPrompt serializes a workflow configuration into the request
// sent to the text-generation service.
func BuildSummaryPrompt(cfg model.WorkflowConfig) string {
	lines := make([]string, 0, len(cfg.Filters))
	for _, f := range cfg.Filters {
		lines = append(lines, DescribeFilter(f))
	}

	return RenderTemplate(summaryPromptTemplate, map[string]string{
		"source_id":       cfg.SourceID,
		"destination_url": cfg.DestinationURL,
		"filters":         strings.Join(lines, "\n"),
		"schedule":        DescribeSchedule(cfg.Schedule, Bold),
	})
}
