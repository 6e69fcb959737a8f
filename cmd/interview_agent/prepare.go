package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/interview-prep/internal/config"
	"github.com/jonathan/interview-prep/internal/observability"
	"github.com/jonathan/interview-prep/internal/pipeline"
	"github.com/jonathan/interview-prep/internal/types"
)

var (
	prepareSessionID          string
	prepareCompanyURL         string
	prepareCompanyName        string
	prepareInterviewerName    string
	prepareInterviewerCompany string
	prepareInterviewerURL     string
	prepareVerbose            bool
)

var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Run the full pre-session preparation pipeline for one session",
	Long:  `Research the target company and interviewer, synthesize the persona profile, and persist the four stage prompts on the session.`,
	RunE:  runPrepare,
}

func init() {
	prepareCmd.Flags().StringVar(&prepareSessionID, "session-id", "", "Session to prepare (required)")
	prepareCmd.Flags().StringVar(&prepareCompanyURL, "company-url", "", "Target company website URL")
	prepareCmd.Flags().StringVar(&prepareCompanyName, "company-name", "", "Target company name (used when no URL is known)")
	prepareCmd.Flags().StringVar(&prepareInterviewerName, "interviewer-name", "", "Interviewer full name")
	prepareCmd.Flags().StringVar(&prepareInterviewerCompany, "interviewer-company", "", "Company the interviewer works at")
	prepareCmd.Flags().StringVar(&prepareInterviewerURL, "interviewer-linkedin-url", "", "Interviewer LinkedIn profile URL")
	prepareCmd.Flags().BoolVarP(&prepareVerbose, "verbose", "v", false, "Print research data and prompt summaries")
	_ = prepareCmd.MarkFlagRequired("session-id")
	rootCmd.AddCommand(prepareCmd)
}

func runPrepare(cmd *cobra.Command, _ []string) error {
	if prepareCompanyURL == "" && prepareCompanyName == "" {
		return fmt.Errorf("either --company-url or --company-name is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	d, err := buildDeps(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("failed to wire service: %w", err)
	}
	defer d.Close()

	opts := pipeline.RunOptions{
		SessionID:              prepareSessionID,
		CompanyURL:             prepareCompanyURL,
		CompanyName:            prepareCompanyName,
		InterviewerName:        prepareInterviewerName,
		InterviewerCompany:     prepareInterviewerCompany,
		InterviewerLinkedInURL: prepareInterviewerURL,
		Verbose:                prepareVerbose,
	}
	if prepareVerbose {
		opts.Printer = observability.NewPrinter(os.Stdout)
	}

	result, err := d.pipeline.PrepareSession(cmd.Context(), opts)
	if err != nil {
		printPrepareSummary(result)
		return err
	}

	printPrepareSummary(result)
	return nil
}

func printPrepareSummary(result *pipeline.PrepareResult) {
	if result == nil {
		return
	}
	fmt.Printf("Company:     %s\n", stageSummary(result.Company))
	fmt.Printf("Interviewer: %s\n", stageSummary(result.Interviewer))
	fmt.Printf("Prompts:     %s\n", stageSummary(result.Persona))
}

func stageSummary(r *types.StageResult) string {
	if r == nil {
		return "not run"
	}
	if r.Message != "" {
		return fmt.Sprintf("%s (%s)", r.Status, r.Message)
	}
	return r.Status
}
