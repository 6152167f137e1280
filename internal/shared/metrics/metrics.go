package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	generationStartedTotal   atomic.Uint64
	generationCompletedTotal atomic.Uint64
	generationFailedTotal    atomic.Uint64
	inferenceRequestsTotal   atomic.Uint64
	inferenceErrorsTotal     atomic.Uint64
	detailsFallbackTotal     atomic.Uint64

	generationDuration = newHistogram([]float64{1000, 5000, 15000, 30000, 60000, 120000, 180000, 300000, 600000})
	inferenceDuration  = newHistogram([]float64{250, 1000, 5000, 15000, 30000, 60000, 120000, 300000})
)

// IncGenerationStarted increments the started counter.
func IncGenerationStarted() {
	generationStartedTotal.Add(1)
}

// IncGenerationCompleted increments the completed counter.
func IncGenerationCompleted() {
	generationCompletedTotal.Add(1)
}

// IncGenerationFailed increments the failed counter.
func IncGenerationFailed() {
	generationFailedTotal.Add(1)
}

// IncDetailsFallback counts job-detail responses that could not be parsed.
func IncDetailsFallback() {
	detailsFallbackTotal.Add(1)
}

// ObserveInference records one inference round trip and whether it failed.
func ObserveInference(durationMs float64, failed bool) {
	inferenceRequestsTotal.Add(1)
	if failed {
		inferenceErrorsTotal.Add(1)
	}
	if durationMs < 0 {
		durationMs = 0
	}
	inferenceDuration.Observe(durationMs)
}

// ObserveGenerationDurationMs records a generation duration in milliseconds.
func ObserveGenerationDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	generationDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "generation_started_total", "Total application generations started", generationStartedTotal.Load())
	writeCounter(&buf, "generation_completed_total", "Total application generations completed", generationCompletedTotal.Load())
	writeCounter(&buf, "generation_failed_total", "Total application generations failed", generationFailedTotal.Load())
	writeCounter(&buf, "job_details_fallback_total", "Job detail responses that fell back to empty defaults", detailsFallbackTotal.Load())
	writeCounter(&buf, "inference_requests_total", "Total inference requests issued", inferenceRequestsTotal.Load())
	writeCounter(&buf, "inference_errors_total", "Total inference requests that failed", inferenceErrorsTotal.Load())
	writeHistogram(&buf, "generation_duration_ms", "Generation duration in milliseconds", generationDuration.Snapshot())
	writeHistogram(&buf, "inference_duration_ms", "Inference round trip in milliseconds", inferenceDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	// counts are per-bucket; writeHistogram accumulates them.
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
