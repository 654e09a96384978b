package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/resume-fit/internal/analysis"
	"github.com/jonathan/resume-fit/internal/extraction"
	"github.com/jonathan/resume-fit/internal/llm"
	"github.com/jonathan/resume-fit/internal/resume"
)

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		requestErr    *analysis.RequestError
		extractionErr *extraction.ExtractionError
		analysisErr   *analysis.AnalysisError
		gatewayErr    *llm.GatewayError
	)

	switch {
	case errors.As(err, &requestErr),
		errors.Is(err, analysis.ErrJobContextMissing),
		errors.Is(err, analysis.ErrResumeTextMissing):
		return http.StatusBadRequest
	case errors.Is(err, resume.ErrUnsupportedType):
		return http.StatusBadRequest
	case errors.Is(err, resume.ErrEmptyText),
		errors.Is(err, resume.ErrUnreadable),
		errors.As(err, &extractionErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &analysisErr), errors.As(err, &gatewayErr):
		return http.StatusBadGateway
	case errors.Is(err, analysis.ErrExtractorUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage returns the client-facing text for err. Internal failures are not described.
func publicMessage(err error, status int) string {
	var (
		extractionErr *extraction.ExtractionError
		analysisErr   *analysis.AnalysisError
		gatewayErr    *llm.GatewayError
	)

	switch {
	case errors.As(err, &extractionErr):
		if extractionErr.Kind == extraction.KindFetch {
			return "Could not load the job posting"
		}
		return "Could not extract job details from the posting"
	case errors.Is(err, resume.ErrEmptyText), errors.Is(err, resume.ErrUnreadable):
		return "Could not extract text from the resume"
	case errors.As(err, &analysisErr):
		return "The analysis service returned an invalid response"
	case errors.As(err, &gatewayErr):
		return "The analysis service is unavailable"
	case status == http.StatusInternalServerError:
		return "Internal server error"
	default:
		return err.Error()
	}
}
