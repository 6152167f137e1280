package health

// ResumeChecker reports whether the configured resume can be read.
type ResumeChecker interface {
	Check() error
}

// Service encapsulates health-related checks.
type Service struct {
	Resume ResumeChecker
}

// NewService constructs a new health service.
func NewService(resume ResumeChecker) *Service {
	return &Service{Resume: resume}
}

// Status returns the health payload. The process is ok as long as it serves
// requests; resume reports whether generation can currently succeed.
func (s *Service) Status() map[string]bool {
	resumeOK := s.Resume != nil && s.Resume.Check() == nil
	return map[string]bool{"ok": true, "resume": resumeOK}
}
