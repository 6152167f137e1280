package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"jobapp-generator/internal/applications"
	"jobapp-generator/internal/extract"
	"jobapp-generator/internal/llm"
	"jobapp-generator/internal/llm/ollama"
	"jobapp-generator/internal/shared/config"
	"jobapp-generator/internal/shared/telemetry"
)

type options struct {
	configFile string
	resume     string
	jd         string
	out        string
	model      string
	host       string
	verbose    bool
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := pflag.NewFlagSet("generate", pflag.ContinueOnError)
	fs.StringVarP(&opts.configFile, "config", "c", "", "YAML config file")
	fs.StringVar(&opts.resume, "resume", "", "Path to resume file (pdf or docx); overrides RESUME_PATH")
	fs.StringVar(&opts.jd, "jd", "", "Path to job description file, or - for stdin")
	fs.StringVarP(&opts.out, "out", "o", "", "Write the application to this file as well as stdout")
	fs.StringVar(&opts.model, "model", "", "Ollama model; overrides LLM_MODEL")
	fs.StringVar(&opts.host, "host", "", "Ollama host; overrides OLLAMA_HOST")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "Log to stderr")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if strings.TrimSpace(opts.jd) == "" {
		return options{}, fmt.Errorf("--jd is required")
	}
	return opts, nil
}

func readJobDescription(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read job description from stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read job description: %w", err)
	}
	return string(b), nil
}

func applyOverrides(cfg *config.Config, opts options) {
	if opts.resume != "" {
		cfg.ResumePath = opts.resume
	}
	if opts.model != "" {
		cfg.LLM.Model = opts.model
	}
	if opts.host != "" {
		cfg.LLM.Host = opts.host
	}
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		exitErr(err.Error())
	}

	if opts.verbose {
		telemetry.Configure(os.Stderr, "debug")
	} else {
		telemetry.Configure(io.Discard, "error")
	}

	cfg, err := config.LoadFile(opts.configFile)
	if err != nil {
		exitErr(fmt.Sprintf("load config: %v", err))
	}
	applyOverrides(&cfg, opts)

	jobDescription, err := readJobDescription(opts.jd, os.Stdin)
	if err != nil {
		exitErr(err.Error())
	}

	client, err := ollama.NewClient(ollama.Config{
		Host:  cfg.LLM.Host,
		Model: cfg.LLM.Model,
		Options: llm.Options{
			Temperature: cfg.LLM.Temperature,
			TopP:        cfg.LLM.TopP,
			NumCtx:      cfg.LLM.NumCtx,
		},
		Timeout: cfg.LLM.Timeout,
	})
	if err != nil {
		exitErr(err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := applications.NewService(extract.New(cfg.ResumePath), client, cfg.CandidateName)
	gen, err := svc.Generate(ctx, jobDescription)
	if err != nil {
		exitErr(err.Error())
	}

	text := gen.Application
	if opts.out != "" {
		if err := os.WriteFile(opts.out, []byte(text), 0o644); err != nil {
			exitErr(fmt.Sprintf("write output: %v", err))
		}
	}
	if _, err := io.WriteString(os.Stdout, text); err != nil {
		exitErr(fmt.Sprintf("write stdout: %v", err))
	}
	if !strings.HasSuffix(text, "\n") {
		_, _ = os.Stdout.Write([]byte("\n"))
	}
	_, _ = fmt.Fprintf(os.Stderr, "%s (%.2fs)\n", gen.Details.Subject(), gen.Duration.Seconds())
}

func exitErr(msg string) {
	_, _ = fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
