package applications

import (
	"encoding/json"
	"strings"
)

type rawJobDetails struct {
	Position *string `json:"position"`
	Company  *string `json:"company"`
}

// ParseJobDetails decodes the model's answer to JobDetailsPrompt. Anything that
// is not a JSON object yields empty fields and ok=false; a missing position
// falls back to DefaultPosition.
func ParseJobDetails(raw string) (JobDetails, bool) {
	obj, found := outerObject(stripFences(raw))
	if !found {
		return JobDetails{}, false
	}
	var parsed rawJobDetails
	if err := json.Unmarshal([]byte(obj), &parsed); err != nil {
		return JobDetails{}, false
	}

	details := JobDetails{Position: DefaultPosition}
	if parsed.Position != nil {
		details.Position = strings.TrimSpace(*parsed.Position)
	}
	if parsed.Company != nil {
		details.Company = strings.TrimSpace(*parsed.Company)
	}
	return details, true
}

// stripFences removes markdown code fences from model output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// outerObject returns the span from the first '{' to the last '}'.
func outerObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}
