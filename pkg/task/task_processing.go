package task

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"echo-audit-api/pkg/extract"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Classifier decides whether a sentence is an actionable task.
type Classifier interface {
	IsTask(sentence string) bool
}

// Extractor turns transcript text into persisted task records:
// segment, classify, resolve the deadline, then insert unless already stored.
type Extractor struct {
	store      Store
	classifier Classifier
	resolver   DeadlineResolver
	locker     Locker
	publisher  Publisher
	metrics    Metrics
}

type ExtractorOption func(*Extractor)

func WithLocker(locker Locker) ExtractorOption {
	return func(e *Extractor) {
		e.locker = locker
	}
}

func WithPublisher(publisher Publisher) ExtractorOption {
	return func(e *Extractor) {
		e.publisher = publisher
	}
}

func WithMetrics(metrics Metrics) ExtractorOption {
	return func(e *Extractor) {
		e.metrics = metrics
	}
}

func NewExtractor(store Store, classifier Classifier, resolver DeadlineResolver, opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		store:      store,
		classifier: classifier,
		resolver:   resolver,
		locker:     nopLocker{},
		metrics:    nopMetrics{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractTasks runs the pipeline over text and returns the records it inserted.
// Sentences already stored, or repeated within text, are skipped. A failure on
// one sentence is logged and does not stop the others.
func (e *Extractor) ExtractTasks(ctx context.Context, text string) []TaskRecord {
	created := []TaskRecord{}
	seen := make(map[string]struct{})
	for _, sentence := range extract.Segment(text) {
		accepted := e.classifier.IsTask(sentence)
		e.metrics.SentenceClassified(accepted)
		if !accepted {
			continue
		}
		if _, ok := seen[sentence]; ok {
			e.metrics.DuplicateSkipped()
			log.Debug().Str("task", sentence).Msg("Task repeated in transcript, skipping")
			continue
		}
		seen[sentence] = struct{}{}

		record, err := e.processSentence(ctx, sentence)
		if err != nil {
			e.metrics.SentenceFailed()
			log.Error().Stack().Err(err).Str("sentence", sentence).Msg("Failed to process sentence")
			continue
		}
		if record != nil {
			created = append(created, *record)
		}
	}
	log.Info().Int("created", len(created)).Int("candidates", len(seen)).Msg("Extracted tasks from transcript")
	return created
}

func (e *Extractor) processSentence(ctx context.Context, sentence string) (record *TaskRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			record, err = nil, errors.Errorf("panic while processing sentence: %v", r)
		}
	}()

	deadline := e.resolver.ResolveDeadline(sentence)
	e.metrics.DeadlineResolved(deadline != nil)

	return e.Persist(ctx, TaskRecord{
		Task:      sentence,
		Completed: false,
		Priority:  PriorityMedium,
		Deadline:  deadline,
	})
}

// Persist inserts record unless a record with the same text exists, in which
// case it returns nil, nil. The text is trimmed first.
func (e *Extractor) Persist(ctx context.Context, record TaskRecord) (*TaskRecord, error) {
	record.Task = strings.TrimSpace(record.Task)

	unlock, err := e.locker.Lock(ctx, lockKey(record.Task))
	if err != nil {
		return nil, errors.Wrap(err, "lock task text")
	}
	defer unlock()

	existing, err := e.store.FindByText(ctx, record.Task)
	if err != nil {
		return nil, errors.Wrap(err, "find task by text")
	}
	if existing != nil {
		e.metrics.DuplicateSkipped()
		log.Debug().Str("task", record.Task).Str("id", existing.ID).Msg("Task already stored, skipping")
		return nil, nil
	}

	inserted, err := e.store.Insert(ctx, record)
	if errors.Is(err, ErrDuplicateTask) {
		e.metrics.DuplicateSkipped()
		log.Warn().Str("task", record.Task).Msg("Task inserted concurrently, skipping")
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "insert task")
	}
	e.metrics.TaskCreated()

	if e.publisher != nil {
		if err := e.publisher.PublishTaskCreated(ctx, *inserted); err != nil {
			log.Warn().Err(err).Str("id", inserted.ID).Msg("Failed to publish task created event")
		}
	}
	return inserted, nil
}

func lockKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

type nopLocker struct{}

func (nopLocker) Lock(context.Context, string) (func(), error) {
	return func() {}, nil
}

type nopMetrics struct{}

func (nopMetrics) SentenceClassified(bool) {}
func (nopMetrics) TaskCreated()            {}
func (nopMetrics) DuplicateSkipped()       {}
func (nopMetrics) SentenceFailed()         {}
func (nopMetrics) DeadlineResolved(bool)   {}
func (nopMetrics) TranscriptionFailed()    {}
