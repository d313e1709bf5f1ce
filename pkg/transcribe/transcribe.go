package transcribe

import (
	"context"

	"echo-audit-api/pkg/config"
)

type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
}

// New returns the backend selected by TRANSCRIBER_BACKEND.
func New(cfg *config.Config) Transcriber {
	if cfg.TranscriberBackend == config.TranscriberAPI {
		return NewAPITranscriber(cfg.WhisperApiBaseUrl, cfg.WhisperApiKey, cfg.WhisperModel, cfg.WhisperTimeout)
	}
	return NewCLITranscriber(cfg.WhisperBin, cfg.WhisperModel)
}
