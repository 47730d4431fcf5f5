// internal/model/workflow.go
package model

// WorkflowConfig is the unit sent to the text-generation service. It only
// lives for the duration of one request.
type WorkflowConfig struct {
	SourceID       string   `json:"source_id" validate:"required"`
	Filters        []Filter `json:"filters" validate:"required,min=1"`
	DestinationURL string   `json:"destination_url" validate:"required"`
	Schedule       Schedule `json:"schedule"`
}
