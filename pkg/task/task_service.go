package task

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"

	"echo-audit-api/pkg/storage"
	"echo-audit-api/utils"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

type TaskService struct {
	store       Store
	files       FileStore
	transcriber Transcriber
	extractor   *Extractor
	metrics     Metrics
	newID       func() string
}

func NewTaskService(store Store, files FileStore, transcriber Transcriber, extractor *Extractor, metrics Metrics) *TaskService {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &TaskService{
		store:       store,
		files:       files,
		transcriber: transcriber,
		extractor:   extractor,
		metrics:     metrics,
		newID:       uuid.NewString,
	}
}

// ProcessAudio stores the recording, transcribes it, extracts tasks from the
// transcript and stores the transcript next to the audio. A transcription
// failure is returned as *TranscriptionError before any extraction happens.
func (s *TaskService) ProcessAudio(ctx context.Context, audio []byte, filename string) (*ProcessResult, error) {
	audioID := s.newID()
	ext := utils.AudioExtension(filename)

	audioRef, err := s.files.Save(ctx, audioID+ext, bytes.NewReader(audio))
	if err != nil {
		return nil, errors.Wrap(err, "save audio")
	}
	log.Info().Str("audio", audioRef).Int("bytes", len(audio)).Msg("Saved recording")

	start := time.Now()
	text, err := s.transcriber.Transcribe(ctx, audio, audioID+ext)
	if err != nil {
		s.metrics.TranscriptionFailed()
		log.Error().Err(err).Str("audio", audioRef).Msg("Failed to transcribe recording")
		return nil, &TranscriptionError{Err: err}
	}
	log.Info().Dur("took", time.Since(start)).Int("chars", len(text)).Msg("Transcribed recording")

	tasks := s.extractor.ExtractTasks(ctx, text)

	transcriptFile := audioID + ".txt"
	if _, err := s.files.Save(ctx, transcriptFile, strings.NewReader(text)); err != nil {
		return nil, errors.Wrap(err, "save transcript")
	}

	return &ProcessResult{
		Text:           text,
		Tasks:          tasks,
		TranscriptFile: transcriptFile,
		AudioFile:      audioRef,
	}, nil
}

func (s *TaskService) ListTasks(ctx context.Context) ([]TaskRecord, error) {
	tasks, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list tasks")
	}
	if tasks == nil {
		tasks = []TaskRecord{}
	}
	return tasks, nil
}

// CompleteTask marks the task with this text as completed. Blank text is a
// *MissingFieldError; text matching no task is silently accepted.
func (s *TaskService) CompleteTask(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return &MissingFieldError{Field: "task"}
	}
	if err := s.store.CompleteByText(ctx, text); err != nil {
		return errors.Wrap(err, "complete task")
	}
	return nil
}

// DownloadTranscript opens a stored transcript. Missing files and names that
// are not bare file names yield *NotFoundError.
func (s *TaskService) DownloadTranscript(ctx context.Context, filename string) (io.ReadCloser, error) {
	if filename == "" || filename != filepath.Base(filename) || filename == "." || filename == ".." {
		return nil, &NotFoundError{Name: filename}
	}
	rc, err := s.files.Open(ctx, filename)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, &NotFoundError{Name: filename}
	}
	if err != nil {
		return nil, errors.Wrap(err, "open transcript")
	}
	return rc, nil
}
