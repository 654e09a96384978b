package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-fit/internal/analysis"
	"github.com/jonathan/resume-fit/internal/resume"
	"github.com/jonathan/resume-fit/internal/types"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score a resume against a job posting",
	Long: `Score a resume (PDF, DOCX, TXT or MD) against a job posting given either as a URL or as a
title and description. Prints the fit score and recommendations.`,
	RunE: runAnalyze,
}

var (
	analyzeResume      string
	analyzeJobURL      string
	analyzeJobTitle    string
	analyzeDescription string
	analyzeJSON        bool
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeResume, "resume", "r", "", "Path to the resume file (required)")
	analyzeCmd.Flags().StringVarP(&analyzeJobURL, "job-url", "u", "", "URL of the job posting")
	analyzeCmd.Flags().StringVar(&analyzeJobTitle, "job-title", "", "Job title (with --job-description)")
	analyzeCmd.Flags().StringVarP(&analyzeDescription, "job-description", "d", "", "Job description text")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the result as JSON")

	_ = analyzeCmd.MarkFlagRequired("resume")
	analyzeCmd.MarkFlagsMutuallyExclusive("job-url", "job-description")
	analyzeCmd.MarkFlagsOneRequired("job-url", "job-description")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	resumeText, err := resume.ExtractFile(analyzeResume)
	if err != nil {
		return fmt.Errorf("failed to read resume: %w", err)
	}

	req := types.AnalysisRequest{
		ResumeText:     resumeText,
		JobURL:         strings.TrimSpace(analyzeJobURL),
		JobTitle:       strings.TrimSpace(analyzeJobTitle),
		JobDescription: strings.TrimSpace(analyzeDescription),
	}
	if err := analysis.ValidateRequest(req); err != nil {
		return err
	}

	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	c, err := buildComponents(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer c.Close()

	result, err := c.engine.Analyze(cmd.Context(), req)
	if err != nil {
		return err
	}

	return printResult(cmd.OutOrStdout(), result, analyzeJSON)
}

// printResult writes result as indented JSON or as a short report.
func printResult(w io.Writer, result *types.AnalysisResult, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	if _, err := fmt.Fprintf(w, "Fit score: %d/100\n\nRecommendations:\n", result.FitScore); err != nil {
		return err
	}
	for i, insight := range result.Insights {
		if _, err := fmt.Fprintf(w, "  %d. %s\n", i+1, insight); err != nil {
			return err
		}
	}
	return nil
}
