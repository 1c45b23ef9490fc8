package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// WorkflowMetrics records image lifecycle transitions. All methods are
// nil-safe so callers can run without a registry in tests.
type WorkflowMetrics struct {
	transitions *prometheus.CounterVec
	blobBytes   *prometheus.HistogramVec
	blobErrors  prometheus.Counter
}

// NewWorkflowMetrics registers the workflow metrics on the provided registerer.
func NewWorkflowMetrics(reg prometheus.Registerer) *WorkflowMetrics {
	if reg == nil {
		return &WorkflowMetrics{}
	}
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "image_workflow_transitions_total",
		Help: "Image lifecycle transitions by resulting status.",
	}, []string{"status"})
	blobBytes := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "image_blob_bytes",
		Help:    "Size of stored blobs in bytes.",
		Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
	}, []string{"kind"})
	blobErrors := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "image_blob_errors_total",
		Help: "Blob store write or delete failures.",
	})
	reg.MustRegister(transitions, blobBytes, blobErrors)
	return &WorkflowMetrics{
		transitions: transitions,
		blobBytes:   blobBytes,
		blobErrors:  blobErrors,
	}
}

// IncTransition increments the transition counter for the resulting status.
func (m *WorkflowMetrics) IncTransition(status string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(status)).Inc()
}

// ObserveBlobBytes records the size of a stored blob.
func (m *WorkflowMetrics) ObserveBlobBytes(kind string, size int64) {
	if m == nil || m.blobBytes == nil {
		return
	}
	m.blobBytes.WithLabelValues(normalizeLabel(kind)).Observe(float64(size))
}

// IncBlobError increments the blob failure counter.
func (m *WorkflowMetrics) IncBlobError() {
	if m == nil || m.blobErrors == nil {
		return
	}
	m.blobErrors.Inc()
}

func normalizeLabel(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return "unknown"
	}
	return strings.ReplaceAll(value, " ", "_")
}
