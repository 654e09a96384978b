package db

import (
	"time"

	"github.com/google/uuid"
)

// DefaultListLimit caps ListApplications when the caller passes no limit.
const DefaultListLimit = 50

// Application is a stored resume submission together with its fit analysis.
type Application struct {
	ID             uuid.UUID `json:"id"`
	JobTitle       *string   `json:"job_title,omitempty"`
	JobURL         *string   `json:"job_url,omitempty"`
	JobDescription *string   `json:"job_description,omitempty"`
	ResumeFilePath string    `json:"resume_file_path"`
	FitScore       int       `json:"fit_score"`
	Insights       []string  `json:"insights"`
	CreatedAt      time.Time `json:"created_at"`
}

// ApplicationCreateInput holds the fields for a new application record.
// Empty job fields are stored as NULL.
type ApplicationCreateInput struct {
	JobTitle       string
	JobURL         string
	JobDescription string
	ResumeFilePath string
	FitScore       int
	Insights       []string
}
