package task

import (
	"context"
	"io"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// TaskRecord reflects the task structure stored and returned by the API
type TaskRecord struct {
	ID        string   `json:"_id"`
	Task      string   `json:"task"`
	Completed bool     `json:"completed"`
	Priority  Priority `json:"priority"`
	Deadline  *string  `json:"deadline"`
}

// ProcessResult is what ProcessAudio hands back for one recording.
type ProcessResult struct {
	Text           string       `json:"text"`
	Tasks          []TaskRecord `json:"tasks"`
	TranscriptFile string       `json:"txt_file"`
	AudioFile      string       `json:"audio_file"`
}

type CompleteTaskRequest struct {
	Task *string `json:"task"`
}

// Store persists task records keyed by their text.
type Store interface {
	// FindByText returns nil, nil when no record has this text.
	FindByText(ctx context.Context, text string) (*TaskRecord, error)
	// Insert returns ErrDuplicateTask when the text is already stored.
	Insert(ctx context.Context, record TaskRecord) (*TaskRecord, error)
	FindAll(ctx context.Context) ([]TaskRecord, error)
	// CompleteByText is a no-op when no record matches.
	CompleteByText(ctx context.Context, text string) error
}

// Locker serializes work on a key across requests.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// FileStore keeps uploaded audio and transcripts under flat names.
type FileStore interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
	// Open returns storage.ErrNotFound (wrapped or not) for missing files.
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// Transcriber turns an audio recording into plain text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
}

// DeadlineResolver returns the normalized deadline of a sentence, or nil.
type DeadlineResolver interface {
	ResolveDeadline(sentence string) *string
}

// Publisher announces newly created tasks.
type Publisher interface {
	PublishTaskCreated(ctx context.Context, record TaskRecord) error
}

// Metrics records pipeline outcomes.
type Metrics interface {
	SentenceClassified(accepted bool)
	TaskCreated()
	DuplicateSkipped()
	SentenceFailed()
	DeadlineResolved(found bool)
	TranscriptionFailed()
}
