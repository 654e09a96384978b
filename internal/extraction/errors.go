package extraction

import "fmt"

// Kind classifies an extraction failure.
type Kind string

const (
	// KindFetch means the page could not be loaded.
	KindFetch Kind = "fetch"
	// KindParse means the model's structuring response was not a usable JSON object.
	KindParse Kind = "parse"
)

// ExtractionError reports why a job page could not be turned into JobData.
type ExtractionError struct {
	Kind Kind
	URL  string
	// Raw is the model response when Kind is KindParse.
	Raw   string
	Cause error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("job extraction failed (%s) for %s: %v", e.Kind, e.URL, e.Cause)
	}
	return fmt.Sprintf("job extraction failed (%s) for %s", e.Kind, e.URL)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
