// Package extraction turns a job posting URL into a structured JobData record.
package extraction

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jonathan/resume-fit/internal/fetch"
	"github.com/jonathan/resume-fit/internal/llm"
	"github.com/jonathan/resume-fit/internal/logging"
	"github.com/jonathan/resume-fit/internal/prompts"
	"github.com/jonathan/resume-fit/internal/schemas"
	"github.com/jonathan/resume-fit/internal/types"
	"go.uber.org/zap"
)

const (
	promptFile = "analysis.json"
	promptKey  = "extract-job-data"
)

// errNoJSONObject is the parse cause when the response holds no braces at all.
var errNoJSONObject = errors.New("response contains no JSON object")

// Extractor fetches a job page, cleans it, and has the model structure it.
type Extractor struct {
	launcher fetch.Launcher
	gateway  llm.Completer
	logger   *zap.Logger
}

// New creates an Extractor. Every Extract call acquires its own session from launcher.
func New(launcher fetch.Launcher, gateway llm.Completer, logger *zap.Logger) *Extractor {
	return &Extractor{
		launcher: launcher,
		gateway:  gateway,
		logger:   logging.OrNop(logger).Named("extraction"),
	}
}

// Extract loads url and returns the structured job record.
// Page failures return *ExtractionError with KindFetch, unusable model output
// returns KindParse, and gateway failures pass through as *llm.GatewayError.
func (e *Extractor) Extract(ctx context.Context, url string) (*types.JobData, error) {
	content, err := e.fetchText(ctx, url)
	if err != nil {
		return nil, err
	}

	template, err := prompts.Get(promptFile, promptKey)
	if err != nil {
		return nil, err
	}

	response, err := e.gateway.Complete(ctx, template, map[string]string{
		"Content": content,
	})
	if err != nil {
		return nil, err
	}

	jobData, err := ParseJobData(response)
	if err != nil {
		e.logger.Warn("unparseable job data response",
			zap.String("url", url),
			zap.String("raw_response", response),
			zap.Error(err),
		)
		return nil, &ExtractionError{Kind: KindParse, URL: url, Raw: response, Cause: err}
	}

	e.logger.Info("extracted job data",
		zap.String("url", url),
		zap.String("job_title", jobData.JobTitle),
		zap.String("company", jobData.CompanyName),
		zap.Int("skills", len(jobData.RelevantSkills)),
	)
	return jobData, nil
}

// fetchText renders the page and reduces it to cleaned text. The session is
// released before returning, whatever the outcome.
func (e *Extractor) fetchText(ctx context.Context, url string) (string, error) {
	sess, err := e.launcher.Launch(ctx)
	if err != nil {
		return "", &ExtractionError{Kind: KindFetch, URL: url, Cause: err}
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			e.logger.Warn("failed to release fetch session", zap.String("url", url), zap.Error(cerr))
		}
	}()

	html, err := sess.Render(ctx, url)
	if err != nil {
		return "", &ExtractionError{Kind: KindFetch, URL: url, Cause: err}
	}

	platform := fetch.DetectPlatform(url)
	text, err := fetch.CleanHTML(html, fetch.PlatformNoiseSelectors(platform)...)
	if err != nil {
		return "", &ExtractionError{Kind: KindFetch, URL: url, Cause: err}
	}

	e.logger.Debug("cleaned job page",
		zap.String("url", url),
		zap.String("platform", string(platform)),
		zap.Int("html_bytes", len(html)),
		zap.Int("text_bytes", len(text)),
		zap.String("text_preview", logging.Truncate(text, logging.DefaultPreviewLength)),
	)
	return text, nil
}

// ParseJobData reads the JSON object embedded in a model response into a JobData.
// Absent or null fields take their empty defaults; fields of the wrong type are an error.
func ParseJobData(response string) (*types.JobData, error) {
	object := llm.ExtractJSONObject(response)
	if object == "" {
		return nil, errNoJSONObject
	}

	if err := schemas.Validate(schemas.JobData, object); err != nil {
		return nil, err
	}

	var jobData types.JobData
	if err := json.Unmarshal([]byte(object), &jobData); err != nil {
		return nil, err
	}
	jobData.Normalize()
	return &jobData, nil
}
