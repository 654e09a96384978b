package types

// AnalysisRequest carries the caller's inputs for one fit analysis.
// Exactly one of JobURL or JobDescription is expected; JobTitle accompanies the description.
type AnalysisRequest struct {
	ResumeText     string `json:"resume_text" validate:"required"`
	JobURL         string `json:"job_url,omitempty" validate:"omitempty,http_url,excluded_with=JobDescription"`
	JobTitle       string `json:"job_title,omitempty"`
	JobDescription string `json:"job_description,omitempty" validate:"required_without=JobURL"`
}

// AnalysisResult is the validated outcome of a fit analysis.
type AnalysisResult struct {
	FitScore int      `json:"fit_score"`
	Insights []string `json:"insights"`
}

// Fit score bounds, inclusive.
const (
	MinFitScore = 0
	MaxFitScore = 100
)
