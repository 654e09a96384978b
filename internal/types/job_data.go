// Package types provides type definitions for the data exchanged between the fit-analysis components.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strings"
)

// JobData is the structured record describing a job posting.
// Every field is always present: strings default to "" and lists to an empty slice.
type JobData struct {
	CompanyName        string   `json:"company_name"`
	JobTitle           string   `json:"job_title"`
	JobDescription     string   `json:"job_description"`
	RelevantSkills     []string `json:"relevant_skills"`
	RelevantExperience string   `json:"relevant_experience"`
	Responsibilities   []string `json:"responsibilities"`
	Requirements       []string `json:"requirements"`
}

// NewJobData builds the minimal two-field record used when the caller supplies
// the job title and description directly.
func NewJobData(title, description string) *JobData {
	jd := &JobData{
		JobTitle:       title,
		JobDescription: description,
	}
	jd.Normalize()
	return jd
}

// Normalize replaces nil lists with empty ones so the record serializes
// with [] rather than null.
func (j *JobData) Normalize() {
	if j.RelevantSkills == nil {
		j.RelevantSkills = []string{}
	}
	if j.Responsibilities == nil {
		j.Responsibilities = []string{}
	}
	if j.Requirements == nil {
		j.Requirements = []string{}
	}
}

// PromptText renders the record as labeled plain text for inclusion in a prompt.
// Empty fields are rendered as "Not specified" so the layout is identical for every record.
func (j *JobData) PromptText() string {
	var sb strings.Builder

	writeField(&sb, "Company", j.CompanyName)
	writeField(&sb, "Job Title", j.JobTitle)
	writeField(&sb, "Job Description", j.JobDescription)
	writeList(&sb, "Relevant Skills", j.RelevantSkills)
	writeField(&sb, "Relevant Experience", j.RelevantExperience)
	writeList(&sb, "Responsibilities", j.Responsibilities)
	writeList(&sb, "Requirements", j.Requirements)

	return strings.TrimRight(sb.String(), "\n")
}

func writeField(sb *strings.Builder, label, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		value = "Not specified"
	}
	sb.WriteString(label + ": " + value + "\n")
}

func writeList(sb *strings.Builder, label string, items []string) {
	sb.WriteString(label + ":")
	if len(items) == 0 {
		sb.WriteString(" Not specified\n")
		return
	}
	sb.WriteString("\n")
	for _, item := range items {
		sb.WriteString("- " + item + "\n")
	}
}
