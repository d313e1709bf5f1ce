package transcribe

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"
)

// APITranscriber sends audio to an OpenAI-compatible transcription endpoint.
type APITranscriber struct {
	client *openai.Client
	model  string
}

// NewAPITranscriber targets baseURL + "/audio/transcriptions".
func NewAPITranscriber(baseURL, apiKey, model string, timeout time.Duration) *APITranscriber {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}
	return &APITranscriber{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (t *APITranscriber) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    t.model,
		FilePath: filename,
		Reader:   bytes.NewReader(audio),
		Format:   openai.AudioResponseFormatJSON,
	})
	if err != nil {
		return "", errors.Wrap(err, "whisper api")
	}
	return resp.Text, nil
}
