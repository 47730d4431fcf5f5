// Command summarize prints the generated summary for a workflow described
// in a YAML file.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/unclebandit/workflow-summary/internal/config"
	"github.com/unclebandit/workflow-summary/internal/llm"
	"github.com/unclebandit/workflow-summary/internal/markdown"
	"github.com/unclebandit/workflow-summary/internal/service"
	"github.com/unclebandit/workflow-summary/internal/workflow"
)

var (
	asHTML   bool
	wrapCols int
)

var rootCmd = &cobra.Command{
	Use:   "summarize <workflow.yaml>",
	Short: "Summarize a Domo to Google Sheet workflow with Gemini",
	Args:  cobra.ExactArgs(1),
	RunE:  runSummarize,
}

var promptCmd = &cobra.Command{
	Use:   "prompt <workflow.yaml>",
	Short: "Print the prompt that would be sent, without calling the service",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadWorkflow(args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), service.BuildSummaryPrompt(cfg))
		return nil
	},
}

func init() {
	rootCmd.Flags().BoolVar(&asHTML, "html", false, "print HTML instead of terminal markdown")
	rootCmd.Flags().IntVar(&wrapCols, "width", 80, "word wrap width for terminal output")
	rootCmd.AddCommand(promptCmd)
}

func runSummarize(cmd *cobra.Command, args []string) error {
	env, err := config.Load()
	if err != nil {
		log.Fatal("❌ ", err)
	}

	cfg, err := loadWorkflow(args[0])
	if err != nil {
		return err
	}
	if err := service.ValidateWorkflow(cfg); err != nil {
		return fmt.Errorf("%s (%w)", workflow.ValidationMessage, err)
	}

	gemini, err := llm.NewGeminiClient(cmd.Context(), env.APIKey, env.Model)
	if err != nil {
		return err
	}

	svc := &service.SummaryService{Generator: gemini}
	text, err := svc.Summarize(cmd.Context(), cfg)
	if err != nil {
		return errors.New(workflow.ServiceMessage)
	}

	out := cmd.OutOrStdout()
	if asHTML {
		fmt.Fprintln(out, markdown.ToHTML(text))
		return nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrapCols),
	)
	if err != nil {
		fmt.Fprintln(out, text)
		return nil
	}
	rendered, err := renderer.Render(text)
	if err != nil {
		fmt.Fprintln(out, text)
		return nil
	}
	fmt.Fprint(out, rendered)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
