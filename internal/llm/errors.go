package llm

import "fmt"

// GatewayError reports that the language-model backend could not produce a completion:
// the backend was unreachable, rejected the request, or returned no text.
type GatewayError struct {
	Model   string
	Message string
	Cause   error
}

func (e *GatewayError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("gateway failure (model %s): %s: %v", e.Model, e.Message, e.Cause)
	}
	return fmt.Sprintf("gateway failure (model %s): %s", e.Model, e.Message)
}

func (e *GatewayError) Unwrap() error {
	return e.Cause
}
