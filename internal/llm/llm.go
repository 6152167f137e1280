package llm

import (
	"context"
	"fmt"
)

// Client sends one prompt to a language model and waits for the full completion.
// Implementations never return a failure out of band: every error is carried
// in the Result.
type Client interface {
	Query(ctx context.Context, prompt string) Result
}

// Options are the fixed generation parameters sent with every request.
type Options struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	NumCtx      int     `json:"num_ctx"`
}

// ErrorKind classifies why an inference call failed.
type ErrorKind string

const (
	KindTransport ErrorKind = "transport"
	KindTimeout   ErrorKind = "timeout"
	KindStatus    ErrorKind = "status"
	KindDecode    ErrorKind = "decode"
)

// ErrorPrefix starts the rendered text of every InferenceError.
const ErrorPrefix = "Error generating response: "

// InferenceError describes a failed round trip to the inference endpoint.
type InferenceError struct {
	Kind   ErrorKind
	Status int
	Err    error
}

func (e *InferenceError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s%s (http %d): %v", ErrorPrefix, e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("%s%s: %v", ErrorPrefix, e.Kind, e.Err)
}

func (e *InferenceError) Unwrap() error { return e.Err }

// Result is either generated text or an InferenceError, never both.
type Result struct {
	Text string
	Err  *InferenceError
}

// Success wraps generated text.
func Success(text string) Result {
	return Result{Text: text}
}

// Failure wraps an inference error.
func Failure(err *InferenceError) Result {
	return Result{Err: err}
}

// OK reports whether the result holds generated text.
func (r Result) OK() bool {
	return r.Err == nil
}

// Unpack converts the result into the usual (value, error) pair.
func (r Result) Unpack() (string, error) {
	if r.Err != nil {
		return "", r.Err
	}
	return r.Text, nil
}

// String renders the text, or the error message in its place.
func (r Result) String() string {
	if r.Err != nil {
		return r.Err.Error()
	}
	return r.Text
}
