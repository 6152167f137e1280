package applications

import "errors"

var (
	ErrEmptyJobDescription = errors.New("job description is empty")
	ErrResumeMissing       = errors.New("resume file not available")
)

const (
	ErrorCodeValidation       = "validation_error"
	ErrorCodeResumeMissing    = "resume_missing"
	ErrorCodeExtraction       = "extraction_error"
	ErrorCodeInference        = "inference_error"
	ErrorCodeInferenceTimeout = "inference_timeout"
	ErrorCodeInternal         = "internal_error"
)
