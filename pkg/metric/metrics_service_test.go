package metric

import (
	"testing"

	"echo-audit-api/pkg/task"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

var _ task.Metrics = (*PromMetrics)(nil)

func TestPromMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPromMetrics(reg)

	m.SentenceClassified(true)
	m.SentenceClassified(true)
	m.SentenceClassified(false)
	m.TaskCreated()
	m.DuplicateSkipped()
	m.SentenceFailed()
	m.DeadlineResolved(true)
	m.DeadlineResolved(false)
	m.DeadlineResolved(false)
	m.TranscriptionFailed()

	if got := testutil.ToFloat64(m.sentences.WithLabelValues("task")); got != 2 {
		t.Errorf("task sentences = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.sentences.WithLabelValues("ignored")); got != 1 {
		t.Errorf("ignored sentences = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.deadlines.WithLabelValues("none")); got != 2 {
		t.Errorf("deadlines none = %v, want 2", got)
	}
	for name, c := range map[string]prometheus.Counter{
		"created":       m.created,
		"duplicates":    m.duplicates,
		"failed":        m.failed,
		"transcription": m.transcriptionFailed,
	} {
		if got := testutil.ToFloat64(c); got != 1 {
			t.Errorf("%s = %v, want 1", name, got)
		}
	}

	if n := testutil.CollectAndCount(reg); n != 8 {
		t.Errorf("registry holds %d series, want 8", n)
	}
}
