package applications

import (
	_ "embed"
	"strings"
)

var (
	//go:embed prompts/job_details.txt
	jobDetailsTemplate string
	//go:embed prompts/application.txt
	applicationTemplate string
)

const signaturePlaceholder = "[Full name from resume]"

// JobDetailsPrompt asks the model for the position and company as JSON.
func JobDetailsPrompt(jobDescription string) string {
	return strings.NewReplacer(
		"{{JOB_DESCRIPTION}}", jobDescription,
	).Replace(jobDetailsTemplate)
}

// ApplicationPrompt asks the model for the full application email.
func ApplicationPrompt(resumeText, jobDescription string, details JobDetails, candidateName string) string {
	name := strings.TrimSpace(candidateName)
	if name == "" {
		name = signaturePlaceholder
	}
	return strings.NewReplacer(
		"{{RESUME}}", resumeText,
		"{{JOB_DESCRIPTION}}", jobDescription,
		"{{SUBJECT}}", details.Subject(),
		"{{SIGNATURE_NAME}}", name,
	).Replace(applicationTemplate)
}
