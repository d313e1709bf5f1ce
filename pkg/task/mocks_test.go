package task

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"echo-audit-api/pkg/storage"
)

// --- Mock task store ---

type mockStore struct {
	mu       sync.Mutex
	records  []TaskRecord
	nextID   int
	inserts  int
	findErr  error
	failText string
	// raceText makes FindByText miss and Insert report a duplicate, as when a
	// concurrent request inserted the same text in between.
	raceText string
}

func newMockStore(existing ...string) *mockStore {
	s := &mockStore{}
	for _, text := range existing {
		s.nextID++
		s.records = append(s.records, TaskRecord{ID: fmt.Sprintf("task-%d", s.nextID), Task: text, Priority: PriorityMedium})
	}
	return s
}

func (s *mockStore) FindByText(_ context.Context, text string) (*TaskRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	if text == s.raceText {
		return nil, nil
	}
	for _, r := range s.records {
		if r.Task == text {
			cp := r
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *mockStore) Insert(_ context.Context, record TaskRecord) (*TaskRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record.Task == s.failText {
		return nil, fmt.Errorf("insert failed")
	}
	for _, r := range s.records {
		if r.Task == record.Task {
			return nil, ErrDuplicateTask
		}
	}
	s.inserts++
	s.nextID++
	record.ID = fmt.Sprintf("task-%d", s.nextID)
	s.records = append(s.records, record)
	return &record, nil
}

func (s *mockStore) FindAll(_ context.Context) ([]TaskRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]TaskRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *mockStore) CompleteByText(_ context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].Task == text {
			s.records[i].Completed = true
		}
	}
	return nil
}

// --- Fakes for the other collaborators ---

type fakeResolver struct {
	deadlines map[string]string
	panicOn   string
}

func (r *fakeResolver) ResolveDeadline(sentence string) *string {
	if sentence == r.panicOn {
		panic("parser exploded")
	}
	if d, ok := r.deadlines[sentence]; ok {
		return &d
	}
	return nil
}

type fakeTranscriber struct {
	text  string
	err   error
	calls int
}

func (f *fakeTranscriber) Transcribe(_ context.Context, _ []byte, _ string) (string, error) {
	f.calls++
	return f.text, f.err
}

type memFiles struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newMemFiles() *memFiles {
	return &memFiles{files: make(map[string][]byte)}
}

func (m *memFiles) Save(_ context.Context, name string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = b
	return "mem://" + name, nil
}

func (m *memFiles) Open(_ context.Context, name string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.files[name]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

type countingMetrics struct {
	nopMetrics
	created, duplicates, failed, transcriptionFailed int
}

func (m *countingMetrics) TaskCreated()         { m.created++ }
func (m *countingMetrics) DuplicateSkipped()    { m.duplicates++ }
func (m *countingMetrics) SentenceFailed()      { m.failed++ }
func (m *countingMetrics) TranscriptionFailed() { m.transcriptionFailed++ }

type recordingPublisher struct {
	published []TaskRecord
	err       error
}

func (p *recordingPublisher) PublishTaskCreated(_ context.Context, record TaskRecord) error {
	p.published = append(p.published, record)
	return p.err
}

type countingLocker struct {
	mu     sync.Mutex
	locked map[string]int
	err    error
}

func (l *countingLocker) Lock(_ context.Context, key string) (func(), error) {
	if l.err != nil {
		return nil, l.err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.locked == nil {
		l.locked = make(map[string]int)
	}
	l.locked[key]++
	return func() {}, nil
}
