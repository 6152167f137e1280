package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"jobapp-generator/internal/shared/telemetry"
)

const (
	DefaultResumePath   = "resume.pdf"
	DefaultOllamaHost   = "http://localhost:11434"
	DefaultModel        = "llama3.2:latest"
	DefaultDownloadName = "ai_job_application.txt"
)

// Config holds application configuration.
type Config struct {
	Port          string        `yaml:"port"`
	Env           string        `yaml:"env"`
	LogLevel      string        `yaml:"log_level"`
	ResumePath    string        `yaml:"resume_path"`
	CandidateName string        `yaml:"candidate_name"`
	DownloadName  string        `yaml:"download_name"`
	LLM           LLMConfig     `yaml:"llm"`
	RateLimit     GenerateLimit `yaml:"rate_limit"`
}

// LLMConfig describes the local inference endpoint and its generation options.
type LLMConfig struct {
	Host        string        `yaml:"host"`
	Model       string        `yaml:"model"`
	Temperature float64       `yaml:"temperature"`
	TopP        float64       `yaml:"top_p"`
	NumCtx      int           `yaml:"num_ctx"`
	Timeout     time.Duration `yaml:"timeout"` // "300s", or seconds as a bare number
}

// GenerateLimit bounds how often one client may trigger a generation.
type GenerateLimit struct {
	PerMinute float64 `yaml:"per_minute"`
	Burst     int     `yaml:"burst"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Port:         "8080",
		Env:          "dev",
		LogLevel:     "info",
		ResumePath:   DefaultResumePath,
		DownloadName: DefaultDownloadName,
		LLM: LLMConfig{
			Host:        DefaultOllamaHost,
			Model:       DefaultModel,
			Temperature: 0.7,
			TopP:        0.9,
			NumCtx:      4096,
			Timeout:     300 * time.Second,
		},
		RateLimit: GenerateLimit{
			PerMinute: 6,
			Burst:     3,
		},
	}
}

// Load reads configuration from environment variables with sensible defaults.
// A YAML file named by CONFIG_FILE is applied first; the environment wins.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	cfg := Defaults()
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := mergeFile(&cfg, path); err != nil {
			telemetry.Warn("config.file_ignored", map[string]any{"path": path, "error": err.Error()})
		}
	}
	applyEnv(&cfg)
	return cfg
}

// LoadFile is Load with an explicit YAML file. Unlike CONFIG_FILE, a missing or
// malformed file is an error.
func LoadFile(path string) (Config, error) {
	loadEnvFiles(".env")

	cfg := Defaults()
	if strings.TrimSpace(path) != "" {
		if err := mergeFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.Env = normalizeEnv(getEnv("ENV", cfg.Env))
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.ResumePath = getEnv("RESUME_PATH", cfg.ResumePath)
	cfg.CandidateName = getEnv("CANDIDATE_NAME", cfg.CandidateName)
	cfg.DownloadName = getEnv("DOWNLOAD_NAME", cfg.DownloadName)

	cfg.LLM.Host = strings.TrimRight(getEnv("OLLAMA_HOST", cfg.LLM.Host), "/")
	cfg.LLM.Model = getEnv("LLM_MODEL", cfg.LLM.Model)
	cfg.LLM.Temperature = getFloat("LLM_TEMPERATURE", cfg.LLM.Temperature)
	cfg.LLM.TopP = getFloat("LLM_TOP_P", cfg.LLM.TopP)
	cfg.LLM.NumCtx = getInt("LLM_NUM_CTX", cfg.LLM.NumCtx)
	if secs := getInt("LLM_TIMEOUT_SECONDS", 0); secs > 0 {
		cfg.LLM.Timeout = time.Duration(secs) * time.Second
	}

	cfg.RateLimit.PerMinute = getFloat("GENERATE_RATE_PER_MINUTE", cfg.RateLimit.PerMinute)
	cfg.RateLimit.Burst = getInt("GENERATE_BURST", cfg.RateLimit.Burst)
}

func getEnv(key, def string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return def
}

func getFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		telemetry.Warn("config.invalid_value", map[string]any{"key": key, "value": raw})
		return def
	}
	return parsed
}

func getInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		telemetry.Warn("config.invalid_value", map[string]any{"key": key, "value": raw})
		return def
	}
	return parsed
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "test":
		return "test"
	default:
		return "dev"
	}
}
