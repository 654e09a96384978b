package analysis

import (
	"errors"
	"fmt"
)

// Kind classifies an analysis failure.
type Kind string

// KindMalformedResponse means the scoring reply was not a valid fit response.
const KindMalformedResponse Kind = "malformed_response"

var (
	// ErrJobContextMissing is returned when a request has neither a job URL nor a description.
	ErrJobContextMissing = errors.New("either a job URL or a job description is required")
	// ErrResumeTextMissing is returned when a request carries no resume text.
	ErrResumeTextMissing = errors.New("resume text is required")
	// ErrExtractorUnavailable is returned for URL requests when the engine has no extractor.
	ErrExtractorUnavailable = errors.New("job URL analysis is not configured")
)

// AnalysisError reports a scoring reply that could not be accepted.
// Raw always holds the model's full reply.
type AnalysisError struct {
	Kind Kind
	Raw  string
	// Field names the offending key when the reply parsed but violated the contract.
	Field string
	Cause error
}

func (e *AnalysisError) Error() string {
	msg := fmt.Sprintf("fit analysis failed (%s)", e.Kind)
	if e.Field != "" {
		msg += fmt.Sprintf(" at %s", e.Field)
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

func (e *AnalysisError) Unwrap() error {
	return e.Cause
}

// RequestError describes an analysis request that fails validation.
type RequestError struct {
	Field   string
	Message string
}

func (e *RequestError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid request: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid request: %s", e.Message)
}
