package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/resume-fit/internal/analysis"
	"github.com/spf13/cobra"
)

var extractJobCmd = &cobra.Command{
	Use:   "extract-job",
	Short: "Extract structured job data from a posting URL",
	Long:  "Render a job posting, clean its text and print the structured job record as JSON.",
	RunE:  runExtractJob,
}

var extractURL string

func init() {
	extractJobCmd.Flags().StringVarP(&extractURL, "url", "u", "", "URL of the job posting (required)")
	_ = extractJobCmd.MarkFlagRequired("url")

	rootCmd.AddCommand(extractJobCmd)
}

func runExtractJob(cmd *cobra.Command, _ []string) error {
	url := strings.TrimSpace(extractURL)
	if err := analysis.ValidateJobURL(url); err != nil {
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

	job, err := c.extractor.Extract(cmd.Context(), url)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(job)
}
