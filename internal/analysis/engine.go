// Package analysis scores a resume against a job and explains the score.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jonathan/resume-fit/internal/llm"
	"github.com/jonathan/resume-fit/internal/logging"
	"github.com/jonathan/resume-fit/internal/prompts"
	"github.com/jonathan/resume-fit/internal/schemas"
	"github.com/jonathan/resume-fit/internal/types"
	"go.uber.org/zap"
)

const (
	promptFile = "analysis.json"
	promptKey  = "score-fit"
)

var errNoJSONObject = errors.New("response contains no JSON object")

// JobExtractor produces structured job data from a posting URL.
type JobExtractor interface {
	Extract(ctx context.Context, url string) (*types.JobData, error)
}

// Engine runs fit analyses. It keeps no per-request state and is safe for concurrent use.
type Engine struct {
	extractor JobExtractor
	gateway   llm.Completer
	logger    *zap.Logger
}

// New creates an Engine. extractor may be nil when only description-based analysis is needed.
func New(extractor JobExtractor, gateway llm.Completer, logger *zap.Logger) *Engine {
	return &Engine{
		extractor: extractor,
		gateway:   gateway,
		logger:    logging.OrNop(logger).Named("analysis"),
	}
}

// Analyze resolves the job context, asks the model to score the resume against it,
// and returns the validated result.
//
// When req.JobURL is set the job is extracted from the page and any description is
// ignored. Extraction and gateway failures are returned unchanged in the error chain;
// a reply that is not a valid fit response yields *AnalysisError.
func (e *Engine) Analyze(ctx context.Context, req types.AnalysisRequest) (*types.AnalysisResult, error) {
	if strings.TrimSpace(req.ResumeText) == "" {
		return nil, ErrResumeTextMissing
	}

	jobData, err := e.resolveJob(ctx, req)
	if err != nil {
		return nil, err
	}

	template, err := prompts.Get(promptFile, promptKey)
	if err != nil {
		return nil, err
	}

	response, err := e.gateway.Complete(ctx, template, map[string]string{
		"ResumeText": req.ResumeText,
		"JobDetails": jobData.PromptText(),
	})
	if err != nil {
		return nil, err
	}

	result, err := ParseFitResponse(response)
	if err != nil {
		e.logger.Warn("malformed scoring response",
			zap.String("raw_response", response),
			zap.Error(err),
		)
		return nil, err
	}

	e.logger.Info("fit analysis complete",
		zap.String("job_title", jobData.JobTitle),
		zap.Int("fit_score", result.FitScore),
		zap.Int("insights", len(result.Insights)),
	)
	return result, nil
}

func (e *Engine) resolveJob(ctx context.Context, req types.AnalysisRequest) (*types.JobData, error) {
	if url := strings.TrimSpace(req.JobURL); url != "" {
		if e.extractor == nil {
			return nil, ErrExtractorUnavailable
		}
		jobData, err := e.extractor.Extract(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve job context: %w", err)
		}
		return jobData, nil
	}

	if strings.TrimSpace(req.JobDescription) == "" {
		return nil, ErrJobContextMissing
	}
	return types.NewJobData(req.JobTitle, req.JobDescription), nil
}

// fitResponse mirrors the scoring reply. Score is read as a float so that an
// integral value written as 92.0 is accepted.
type fitResponse struct {
	Score    float64  `json:"score"`
	Insights []string `json:"insights"`
}

// ParseFitResponse extracts the JSON object from a scoring reply and checks it
// strictly: an integer score within [0,100] and a non-empty list of non-empty insights.
// Out-of-range scores are rejected, never clamped.
func ParseFitResponse(response string) (*types.AnalysisResult, error) {
	malformed := func(field string, cause error) error {
		return &AnalysisError{Kind: KindMalformedResponse, Raw: response, Field: field, Cause: cause}
	}

	object := llm.ExtractJSONObject(response)
	if object == "" {
		return nil, malformed("", errNoJSONObject)
	}

	if err := schemas.Validate(schemas.FitResponse, object); err != nil {
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			return nil, malformed(validationErr.Fields()[0], err)
		}
		return nil, malformed("", err)
	}

	var parsed fitResponse
	if err := json.Unmarshal([]byte(object), &parsed); err != nil {
		return nil, malformed("", err)
	}

	score := int(parsed.Score)
	if score < types.MinFitScore || score > types.MaxFitScore {
		return nil, malformed("score", fmt.Errorf("score %d outside [%d,%d]", score, types.MinFitScore, types.MaxFitScore))
	}

	return &types.AnalysisResult{
		FitScore: score,
		Insights: parsed.Insights,
	}, nil
}
