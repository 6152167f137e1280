package applications

import (
	"strings"
	"time"
)

// DefaultPosition is used when the model's JSON omits the position key.
const DefaultPosition = "Generative AI Engineer"

// JobDetails are the position and company pulled from a job description.
type JobDetails struct {
	Position string `json:"position"`
	Company  string `json:"company"`
}

// Subject renders the email subject line requested from the model.
func (d JobDetails) Subject() string {
	subject := "Application for " + strings.TrimSpace(d.Position)
	if company := strings.TrimSpace(d.Company); company != "" {
		subject += " at " + company
	}
	return strings.TrimSpace(subject)
}

// Generation is the outcome of one generate action.
type Generation struct {
	ID          string
	Application string
	Details     JobDetails
	Duration    time.Duration
}
