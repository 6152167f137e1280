package applications

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"math"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"

	"jobapp-generator/internal/extract"
	"jobapp-generator/internal/llm"
	"jobapp-generator/internal/shared/server/middleware"
	"jobapp-generator/internal/shared/server/respond"
	"jobapp-generator/internal/shared/util"
)

//go:embed templates/index.html
var templatesFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

// Generator is the part of Service the handlers depend on.
type Generator interface {
	Generate(ctx context.Context, jobDescription string) (Generation, error)
	ResumeStatus() error
}

// HandlerConfig carries the display values shown on the form page.
type HandlerConfig struct {
	Model        string
	ResumePath   string
	DownloadName string
}

// Handler wires HTTP handlers to the application service.
type Handler struct {
	Svc Generator
	Cfg HandlerConfig
}

// NewHandler constructs a Handler.
func NewHandler(svc Generator, cfg HandlerConfig) *Handler {
	if strings.TrimSpace(cfg.DownloadName) == "" {
		cfg.DownloadName = "ai_job_application.txt"
	}
	return &Handler{Svc: svc, Cfg: cfg}
}

// RegisterPageRoutes attaches the HTML form routes.
func (h *Handler) RegisterPageRoutes(r gin.IRoutes) {
	r.GET("/", h.page)
	r.POST("/", h.submit)
	r.POST("/download", h.download)
}

// RegisterRoutes attaches the JSON API routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/applications", h.create)
}

type pageData struct {
	Model          string
	ResumeName     string
	ResumeError    string
	JobDescription string
	Warning        string
	Error          string
	Application    string
	Subject        string
	ElapsedSeconds float64
	DownloadName   string
}

func (h *Handler) basePage() pageData {
	return pageData{
		Model:        h.Cfg.Model,
		ResumeName:   filepath.Base(h.Cfg.ResumePath),
		DownloadName: h.Cfg.DownloadName,
	}
}

func (h *Handler) renderPage(c *gin.Context, status int, data pageData) {
	c.Render(status, render.HTML{Template: pageTemplate, Name: "index.html", Data: data})
}

func (h *Handler) page(c *gin.Context) {
	data := h.basePage()
	if err := h.Svc.ResumeStatus(); err != nil {
		data.ResumeError = h.resumeMissingMessage()
	}
	h.renderPage(c, http.StatusOK, data)
}

func (h *Handler) submit(c *gin.Context) {
	data := h.basePage()
	jd := c.PostForm("jobDescription")
	data.JobDescription = jd

	if err := h.Svc.ResumeStatus(); err != nil {
		data.ResumeError = h.resumeMissingMessage()
		c.Set(middleware.OutcomeKey, "resume_missing")
		h.renderPage(c, http.StatusPreconditionFailed, data)
		return
	}
	if strings.TrimSpace(jd) == "" {
		data.Warning = "Please paste a job description"
		c.Set(middleware.OutcomeKey, "empty_job_description")
		h.renderPage(c, http.StatusBadRequest, data)
		return
	}

	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
	gen, err := h.Svc.Generate(ctx, jd)
	if gen.ID != "" {
		c.Set(middleware.GenerationIDKey, gen.ID)
	}
	if err != nil {
		status, code, msg := classify(err)
		c.Set(middleware.OutcomeKey, code)
		switch {
		case errors.Is(err, ErrEmptyJobDescription):
			data.Warning = "Please paste a job description"
		case errors.Is(err, ErrResumeMissing):
			data.ResumeError = h.resumeMissingMessage()
		default:
			data.Error = msg
		}
		h.renderPage(c, status, data)
		return
	}

	c.Set(middleware.OutcomeKey, "completed")
	data.Application = gen.Application
	data.Subject = gen.Details.Subject()
	data.ElapsedSeconds = gen.Duration.Seconds()
	h.renderPage(c, http.StatusOK, data)
}

// RenderRateLimited answers a throttled form submit with the page and a
// warning. It reports false for any other request.
func (h *Handler) RenderRateLimited(c *gin.Context, retryAfter time.Duration) bool {
	if c.Request.Method != http.MethodPost || c.Request.URL.Path != "/" {
		return false
	}
	secs := int(math.Ceil(retryAfter.Seconds()))
	if secs < 1 {
		secs = 1
	}
	data := h.basePage()
	data.JobDescription = c.PostForm("jobDescription")
	data.Warning = fmt.Sprintf("Too many requests, please wait %d seconds and try again", secs)
	c.Set(middleware.OutcomeKey, "rate_limited")
	h.renderPage(c, http.StatusTooManyRequests, data)
	return true
}

func (h *Handler) download(c *gin.Context) {
	application := c.PostForm("application")
	if strings.TrimSpace(application) == "" {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "application text is required", nil)
		return
	}
	name := h.Cfg.DownloadName
	if requested := c.PostForm("fileName"); strings.TrimSpace(requested) != "" {
		clean, err := util.SanitizeFileName(requested, ".txt")
		if err != nil {
			respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "invalid file name", nil)
			return
		}
		name = clean
	}
	respond.Attachment(c, name, "text/plain; charset=utf-8", []byte(application))
}

type createRequest struct {
	JobDescription string `json:"jobDescription"`
}

// GenerationResponse is the JSON body returned for a completed generation.
type GenerationResponse struct {
	GenerationID string `json:"generationId"`
	Application  string `json:"application"`
	Position     string `json:"position"`
	Company      string `json:"company"`
	Subject      string `json:"subject"`
	DurationMs   int64  `json:"durationMs"`
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "invalid json body", nil)
		return
	}

	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
	gen, err := h.Svc.Generate(ctx, req.JobDescription)
	if gen.ID != "" {
		c.Set(middleware.GenerationIDKey, gen.ID)
	}
	if err != nil {
		status, code, msg := classify(err)
		c.Set(middleware.OutcomeKey, code)
		var details any
		var inferErr *llm.InferenceError
		if errors.As(err, &inferErr) {
			details = gin.H{"kind": inferErr.Kind, "upstreamStatus": inferErr.Status}
		}
		respond.Error(c, status, code, msg, details)
		return
	}

	c.Set(middleware.OutcomeKey, "completed")
	respond.JSON(c, http.StatusCreated, GenerationResponse{
		GenerationID: gen.ID,
		Application:  gen.Application,
		Position:     gen.Details.Position,
		Company:      gen.Details.Company,
		Subject:      gen.Details.Subject(),
		DurationMs:   gen.Duration.Milliseconds(),
	})
}

func (h *Handler) resumeMissingMessage() string {
	return fmt.Sprintf("Resume file '%s' not found", h.Cfg.ResumePath)
}

// classify maps a Generate error onto an HTTP status, error code and message.
func classify(err error) (int, string, string) {
	var inferErr *llm.InferenceError
	var parseErr *extract.ParseError
	var accessErr *extract.FileAccessError
	switch {
	case errors.Is(err, ErrEmptyJobDescription):
		return http.StatusBadRequest, ErrorCodeValidation, "jobDescription is required"
	case errors.Is(err, ErrResumeMissing):
		return http.StatusPreconditionFailed, ErrorCodeResumeMissing, "resume file not found"
	case errors.As(err, &inferErr):
		if inferErr.Kind == llm.KindTimeout {
			return http.StatusGatewayTimeout, ErrorCodeInferenceTimeout, inferErr.Error()
		}
		return http.StatusBadGateway, ErrorCodeInference, inferErr.Error()
	case errors.As(err, &parseErr):
		return http.StatusInternalServerError, ErrorCodeExtraction, "resume could not be read as text"
	case errors.As(err, &accessErr):
		return http.StatusInternalServerError, ErrorCodeExtraction, "resume could not be opened"
	default:
		return http.StatusInternalServerError, ErrorCodeInternal, "failed to generate application"
	}
}
