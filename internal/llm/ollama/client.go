package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"jobapp-generator/internal/llm"
	"jobapp-generator/internal/shared/metrics"
	"jobapp-generator/internal/shared/telemetry"
	"jobapp-generator/internal/shared/util"
)

const (
	generatePath    = "/api/generate"
	defaultTimeout  = 300 * time.Second
	maxResponseSize = 32 << 20
)

// Config configures a Client.
type Config struct {
	Host    string
	Model   string
	Options llm.Options
	Timeout time.Duration
	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client
}

// Client implements llm.Client against an Ollama /api/generate endpoint.
type Client struct {
	endpoint   string
	model      string
	options    llm.Options
	httpClient *http.Client
}

// NewClient constructs a new Ollama client.
func NewClient(cfg Config) (*Client, error) {
	host := strings.TrimRight(strings.TrimSpace(cfg.Host), "/")
	if host == "" {
		return nil, fmt.Errorf("OLLAMA_HOST is required")
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for Ollama")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		endpoint:   host + generatePath,
		model:      cfg.Model,
		options:    cfg.Options,
		httpClient: httpClient,
	}, nil
}

// Model returns the model name sent with every request.
func (c *Client) Model() string {
	return c.model
}

type generateRequest struct {
	Model   string      `json:"model"`
	Prompt  string      `json:"prompt"`
	Stream  bool        `json:"stream"`
	Options llm.Options `json:"options"`
}

type generateResponse struct {
	Model           string  `json:"model"`
	Response        *string `json:"response"`
	Done            bool    `json:"done"`
	Error           string  `json:"error,omitempty"`
	PromptEvalCount int     `json:"prompt_eval_count,omitempty"`
	EvalCount       int     `json:"eval_count,omitempty"`
	TotalDuration   int64   `json:"total_duration,omitempty"`
}

// Query sends prompt as a single non-streamed generation request.
func (c *Client) Query(ctx context.Context, prompt string) llm.Result {
	start := time.Now()
	res, usage := c.generate(ctx, prompt)
	elapsed := time.Since(start)
	metrics.ObserveInference(float64(elapsed.Milliseconds()), !res.OK())

	fields := map[string]any{
		"model":       c.model,
		"prompt_hash": util.HashPrompt(prompt),
		"duration_ms": elapsed.Milliseconds(),
	}
	if !res.OK() {
		fields["kind"] = string(res.Err.Kind)
		fields["status"] = res.Err.Status
		fields["error"] = res.Err.Err.Error()
		telemetry.Error("llm.error", fields)
		return res
	}
	if usage != nil {
		fields["prompt_tokens"] = usage.PromptEvalCount
		fields["completion_tokens"] = usage.EvalCount
	}
	telemetry.Info("llm.response", fields)
	return res
}

func (c *Client) generate(ctx context.Context, prompt string) (llm.Result, *generateResponse) {
	payload, err := json.Marshal(generateRequest{
		Model:   c.model,
		Prompt:  prompt,
		Stream:  false,
		Options: c.options,
	})
	if err != nil {
		return failure(llm.KindTransport, 0, err), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return failure(llm.KindTransport, 0, err), nil
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return failure(llm.KindTimeout, 0, fmt.Errorf("ollama request timeout: %w", err)), nil
		}
		return failure(llm.KindTransport, 0, err), nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		if isTimeout(err) {
			return failure(llm.KindTimeout, resp.StatusCode, fmt.Errorf("ollama read timeout: %w", err)), nil
		}
		return failure(llm.KindTransport, resp.StatusCode, err), nil
	}

	var parsed generateResponse
	parseErr := json.Unmarshal(body, &parsed)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(body))
		if parseErr == nil && parsed.Error != "" {
			msg = parsed.Error
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return failure(llm.KindStatus, resp.StatusCode, errors.New(msg)), nil
	}
	if parseErr != nil {
		return failure(llm.KindDecode, resp.StatusCode, fmt.Errorf("ollama response parse: %w", parseErr)), nil
	}
	if parsed.Error != "" {
		return failure(llm.KindStatus, resp.StatusCode, errors.New(parsed.Error)), nil
	}
	if parsed.Response == nil {
		return failure(llm.KindDecode, resp.StatusCode, errors.New("ollama response missing response field")), nil
	}
	return llm.Success(*parsed.Response), &parsed
}

func failure(kind llm.ErrorKind, status int, err error) llm.Result {
	return llm.Failure(&llm.InferenceError{Kind: kind, Status: status, Err: err})
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

var _ llm.Client = (*Client)(nil)
