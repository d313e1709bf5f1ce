package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PromMetrics counts what the extraction pipeline does with each sentence.
type PromMetrics struct {
	sentences           *prometheus.CounterVec
	created             prometheus.Counter
	duplicates          prometheus.Counter
	failed              prometheus.Counter
	deadlines           *prometheus.CounterVec
	transcriptionFailed prometheus.Counter
}

func NewPromMetrics(reg prometheus.Registerer) *PromMetrics {
	m := &PromMetrics{
		sentences: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "echo_audit_sentences_total",
			Help: "Number of classified sentences by outcome",
		}, []string{"outcome"}),
		created: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "echo_audit_tasks_created_total",
			Help: "Number of tasks inserted into the store",
		}),
		duplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "echo_audit_tasks_duplicate_total",
			Help: "Number of task sentences skipped as already stored",
		}),
		failed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "echo_audit_sentences_failed_total",
			Help: "Number of task sentences that failed to persist",
		}),
		deadlines: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "echo_audit_deadlines_total",
			Help: "Number of task sentences by deadline resolution result",
		}, []string{"result"}),
		transcriptionFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "echo_audit_transcriptions_failed_total",
			Help: "Number of recordings that could not be transcribed",
		}),
	}
	reg.MustRegister(m.sentences, m.created, m.duplicates, m.failed, m.deadlines, m.transcriptionFailed)
	return m
}

func (m *PromMetrics) SentenceClassified(accepted bool) {
	if accepted {
		m.sentences.WithLabelValues("task").Inc()
		return
	}
	m.sentences.WithLabelValues("ignored").Inc()
}

func (m *PromMetrics) TaskCreated() {
	m.created.Inc()
}
func (m *PromMetrics) DuplicateSkipped() {
	m.duplicates.Inc()
}
func (m *PromMetrics) SentenceFailed() {
	m.failed.Inc()
}

func (m *PromMetrics) DeadlineResolved(found bool) {
	if found {
		m.deadlines.WithLabelValues("found").Inc()
		return
	}
	m.deadlines.WithLabelValues("none").Inc()
}

func (m *PromMetrics) TranscriptionFailed() {
	m.transcriptionFailed.Inc()
}
