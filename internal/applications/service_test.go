package applications

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobapp-generator/internal/extract"
	"jobapp-generator/internal/llm"
)

type scriptedLLM struct {
	mu      sync.Mutex
	prompts []string
	results []llm.Result
}

func (s *scriptedLLM) Query(_ context.Context, prompt string) llm.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, prompt)
	if len(s.results) == 0 {
		return llm.Success("")
	}
	res := s.results[0]
	s.results = s.results[1:]
	return res
}

func (s *scriptedLLM) calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.prompts...)
}

type stubResume struct {
	text       string
	checkErr   error
	extractErr error
	extracts   int
}

func (r *stubResume) Check() error { return r.checkErr }

func (r *stubResume) Extract(context.Context) (string, error) {
	r.extracts++
	if r.extractErr != nil {
		return "", r.extractErr
	}
	return r.text, nil
}

func TestGenerateEndToEndReturnsModelTextVerbatim(t *testing.T) {
	const email = "Subject: Application for Generative AI Engineer\n\nDear Hiring Manager,\n\n  trailing spaces kept  \n"
	model := &scriptedLLM{results: []llm.Result{
		llm.Success(`{"position": "Generative AI Engineer", "company": ""}`),
		llm.Success(email),
	}}
	resume := &stubResume{text: "Experience: LLM fine-tuning at X"}
	svc := NewService(resume, model, "Jane Doe")

	gen, err := svc.Generate(context.Background(), "We need a Generative AI Engineer")
	require.NoError(t, err)

	assert.Equal(t, email, gen.Application)
	assert.NotEmpty(t, gen.ID)
	assert.Equal(t, JobDetails{Position: "Generative AI Engineer"}, gen.Details)

	prompts := model.calls()
	require.Len(t, prompts, 2)
	assert.Contains(t, prompts[0], "We need a Generative AI Engineer")
	assert.Contains(t, prompts[0], `"position"`)
	assert.Contains(t, prompts[1], "Experience: LLM fine-tuning at X")
	assert.Contains(t, prompts[1], "We need a Generative AI Engineer")
	assert.Contains(t, prompts[1], `Subject: "Application for Generative AI Engineer"`)
	assert.Contains(t, prompts[1], "Best regards,\nJane Doe")
	assert.Equal(t, 1, resume.extracts)
}

func TestGenerateMissingResumeIssuesNoInference(t *testing.T) {
	model := &scriptedLLM{}
	svc := NewService(extract.New(filepath.Join(t.TempDir(), "Resume_2025.pdf")), model, "")

	_, err := svc.Generate(context.Background(), "We need a Generative AI Engineer")

	require.ErrorIs(t, err, ErrResumeMissing)
	var accessErr *extract.FileAccessError
	assert.ErrorAs(t, err, &accessErr)
	assert.Empty(t, model.calls())
}

func TestGenerateEmptyJobDescription(t *testing.T) {
	model := &scriptedLLM{}
	resume := &stubResume{text: "resume"}
	svc := NewService(resume, model, "")

	_, err := svc.Generate(context.Background(), " \n\t ")

	require.ErrorIs(t, err, ErrEmptyJobDescription)
	assert.Empty(t, model.calls())
	assert.Zero(t, resume.extracts)
}

func TestGenerateExtractionErrorPropagates(t *testing.T) {
	model := &scriptedLLM{}
	parseErr := &extract.ParseError{Path: "resume.pdf", Err: errors.New("malformed pdf")}
	svc := NewService(&stubResume{extractErr: parseErr}, model, "")

	_, err := svc.Generate(context.Background(), "Senior ML Engineer at Acme")

	var got *extract.ParseError
	require.ErrorAs(t, err, &got)
	assert.Empty(t, model.calls())
}

func TestGenerateInferenceErrorIsTagged(t *testing.T) {
	model := &scriptedLLM{results: []llm.Result{
		llm.Success(`{"position": "LLM Developer", "company": "Acme"}`),
		llm.Failure(&llm.InferenceError{Kind: llm.KindTimeout, Err: context.DeadlineExceeded}),
	}}
	svc := NewService(&stubResume{text: "resume"}, model, "")

	gen, err := svc.Generate(context.Background(), "LLM Developer at Acme")

	var inferErr *llm.InferenceError
	require.ErrorAs(t, err, &inferErr)
	assert.Equal(t, llm.KindTimeout, inferErr.Kind)
	assert.Empty(t, gen.Application)
	assert.Equal(t, "Acme", gen.Details.Company)
	assert.Len(t, model.calls(), 2)
}

func TestGenerateDetailsFailureStillGenerates(t *testing.T) {
	model := &scriptedLLM{results: []llm.Result{
		llm.Failure(&llm.InferenceError{Kind: llm.KindTransport, Err: errors.New("connection refused")}),
		llm.Success("email body"),
	}}
	svc := NewService(&stubResume{text: "resume"}, model, "")

	gen, err := svc.Generate(context.Background(), "Python Developer (AI/ML)")

	require.NoError(t, err)
	assert.Equal(t, "email body", gen.Application)
	assert.Equal(t, JobDetails{}, gen.Details)
	assert.Contains(t, model.calls()[1], signaturePlaceholder)
}

func TestExtractJobDetails(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want JobDetails
	}{
		{name: "company named", raw: `{"position": "ML Engineer", "company": "Initech"}`, want: JobDetails{Position: "ML Engineer", Company: "Initech"}},
		{name: "not json", raw: "not json", want: JobDetails{}},
		{name: "fenced", raw: "```json\n{\"position\": \"LLM Developer\", \"company\": \"Acme\"}\n```", want: JobDetails{Position: "LLM Developer", Company: "Acme"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			model := &scriptedLLM{results: []llm.Result{llm.Success(tt.raw)}}
			svc := NewService(&stubResume{}, model, "")

			got := svc.ExtractJobDetails(context.Background(), "Initech is hiring an ML Engineer")

			assert.Equal(t, tt.want, got)
			require.Len(t, model.calls(), 1)
			assert.True(t, strings.Contains(model.calls()[0], "Initech is hiring an ML Engineer"))
		})
	}
}
