package applications

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"jobapp-generator/internal/llm"
	"jobapp-generator/internal/shared/metrics"
	"jobapp-generator/internal/shared/telemetry"
)

// ResumeSource provides the text of the candidate's resume.
type ResumeSource interface {
	Check() error
	Extract(ctx context.Context) (string, error)
}

// Service turns a job description into an application email.
type Service struct {
	Resume        ResumeSource
	LLM           llm.Client
	CandidateName string

	now func() time.Time
}

// NewService constructs a Service.
func NewService(resume ResumeSource, client llm.Client, candidateName string) *Service {
	return &Service{
		Resume:        resume,
		LLM:           client,
		CandidateName: candidateName,
		now:           time.Now,
	}
}

// ResumeStatus reports whether the resume document is available.
func (s *Service) ResumeStatus() error {
	if err := s.Resume.Check(); err != nil {
		return fmt.Errorf("%w: %w", ErrResumeMissing, err)
	}
	return nil
}

// Generate reads the resume, asks the model for the job details and then for
// the application email. The steps run strictly in sequence with no retries.
//
// When the final inference call fails the returned error is an
// *llm.InferenceError and the Generation still carries the job details.
func (s *Service) Generate(ctx context.Context, jobDescription string) (Generation, error) {
	jd := NormalizeJobDescription(jobDescription)
	if jd == "" {
		return Generation{}, ErrEmptyJobDescription
	}
	if err := s.ResumeStatus(); err != nil {
		return Generation{}, err
	}

	start := s.clock()
	gen := Generation{ID: uuid.NewString()}
	fields := map[string]any{
		"request_id":    requestIDFromContext(ctx),
		"generation_id": gen.ID,
	}
	metrics.IncGenerationStarted()
	telemetry.Info("generation.start", fields)

	resumeText, err := s.Resume.Extract(ctx)
	if err != nil {
		s.fail(fields, start, "extract", err)
		return gen, fmt.Errorf("extract resume: %w", err)
	}

	gen.Details = s.ExtractJobDetails(ctx, jd)

	res := s.LLM.Query(ctx, ApplicationPrompt(resumeText, jd, gen.Details, s.CandidateName))
	gen.Duration = s.clock().Sub(start)
	if !res.OK() {
		s.fail(fields, start, "generate", res.Err)
		return gen, res.Err
	}
	gen.Application = res.Text

	metrics.IncGenerationCompleted()
	metrics.ObserveGenerationDurationMs(float64(gen.Duration.Milliseconds()))
	fields["duration_ms"] = gen.Duration.Milliseconds()
	fields["position"] = gen.Details.Position
	fields["company"] = gen.Details.Company
	fields["chars"] = len(gen.Application)
	telemetry.Info("generation.complete", fields)
	return gen, nil
}

// ExtractJobDetails asks the model for the position and company. Any failure,
// including an inference error, yields empty details.
func (s *Service) ExtractJobDetails(ctx context.Context, jobDescription string) JobDetails {
	res := s.LLM.Query(ctx, JobDetailsPrompt(jobDescription))
	if !res.OK() {
		metrics.IncDetailsFallback()
		telemetry.Warn("job_details.inference_failed", map[string]any{
			"request_id": requestIDFromContext(ctx),
			"error":      res.Err.Error(),
		})
		return JobDetails{}
	}
	details, ok := ParseJobDetails(res.Text)
	if !ok {
		metrics.IncDetailsFallback()
		telemetry.Warn("job_details.unparsable", map[string]any{
			"request_id": requestIDFromContext(ctx),
			"raw_len":    len(res.Text),
			"raw_prefix": truncate(res.Text, 80),
		})
	}
	return details
}

func (s *Service) fail(fields map[string]any, start time.Time, stage string, err error) {
	metrics.IncGenerationFailed()
	out := make(map[string]any, len(fields)+3)
	for k, v := range fields {
		out[k] = v
	}
	out["stage"] = stage
	out["error"] = err.Error()
	out["duration_ms"] = s.clock().Sub(start).Milliseconds()
	var inferErr *llm.InferenceError
	if errors.As(err, &inferErr) {
		out["kind"] = string(inferErr.Kind)
	}
	telemetry.Error("generation.failed", out)
}

func (s *Service) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

func truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n])
}
