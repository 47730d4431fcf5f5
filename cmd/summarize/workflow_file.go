package main

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/unclebandit/workflow-summary/internal/editor"
	"github.com/unclebandit/workflow-summary/internal/model"
)

// workflowFile is the YAML layout read by the CLI:
//
//	source_id: 7a4f-c12b-432d
//	destination_url: https://docs.google.com/spreadsheets/d/...
//	filters:
//	  - {column: Sales, operator: greater-than, value: "10000"}
//	schedule: {frequency: weekly, time: "09:00", day_of_week: 1}
type workflowFile struct {
	SourceID       string               `yaml:"source_id"`
	DestinationURL string               `yaml:"destination_url"`
	Filters        []filterEntry        `yaml:"filters"`
	Schedule       model.ScheduleFields `yaml:"schedule"`
}

type filterEntry struct {
	Column   string `yaml:"column"`
	Operator string `yaml:"operator"`
	Value    string `yaml:"value"`
}

func loadWorkflow(path string) (model.WorkflowConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return model.WorkflowConfig{}, err
	}
	return parseWorkflow(raw)
}

// parseWorkflow builds the configuration through the same filter editor the
// form uses, so blank rules are skipped and ids are assigned in file order.
func parseWorkflow(raw []byte) (model.WorkflowConfig, error) {
	var f workflowFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return model.WorkflowConfig{}, fmt.Errorf("parse workflow: %w", err)
	}

	sched, err := f.Schedule.Build()
	if err != nil {
		return model.WorkflowConfig{}, fmt.Errorf("schedule: %w", err)
	}

	filters := editor.NewFilterList()
	for i, e := range f.Filters {
		op, err := model.ParseOperator(e.Operator)
		if err != nil {
			return model.WorkflowConfig{}, fmt.Errorf("filter %d: %w", i+1, err)
		}
		if _, ok := filters.Add(e.Column, op, e.Value); !ok {
			log.Printf("⚠️ skipping filter %d: column and value are required\n", i+1)
		}
	}

	return model.WorkflowConfig{
		SourceID:       f.SourceID,
		Filters:        filters.Filters(),
		DestinationURL: f.DestinationURL,
		Schedule:       sched,
	}, nil
}
