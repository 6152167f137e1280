package applications

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJobDetailsPrompt(t *testing.T) {
	prompt := JobDetailsPrompt("Acme is hiring an LLM Developer")

	assert.Contains(t, prompt, "in JSON format")
	assert.Contains(t, prompt, `"company": "company name (or empty if not specified)"`)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(prompt), "Acme is hiring an LLM Developer"))
	assert.NotContains(t, prompt, "{{")
}

func TestApplicationPrompt(t *testing.T) {
	prompt := ApplicationPrompt("RESUME BODY", "JD BODY", JobDetails{Position: "ML Engineer", Company: "Acme"}, "")

	assert.Contains(t, prompt, "RESUME:\nRESUME BODY")
	assert.Contains(t, prompt, "JOB DESCRIPTION:\nJD BODY")
	assert.Contains(t, prompt, `1. Subject: "Application for ML Engineer at Acme"`)
	assert.Contains(t, prompt, "7. Length: 250-350 words")
	assert.Contains(t, prompt, "Best regards,\n"+signaturePlaceholder+"\n[contacts]")
	assert.NotContains(t, prompt, "{{")
}

func TestApplicationPromptDoesNotExpandPlaceholdersInInput(t *testing.T) {
	prompt := ApplicationPrompt("see {{JOB_DESCRIPTION}}", "jd", JobDetails{Position: "x"}, "Sam Lee")

	assert.Contains(t, prompt, "see {{JOB_DESCRIPTION}}")
	assert.Contains(t, prompt, "Best regards,\nSam Lee")
}
