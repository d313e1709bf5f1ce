package transcribe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// CLITranscriber runs the local whisper command line tool with fp16 disabled.
type CLITranscriber struct {
	bin   string
	model string
}

func NewCLITranscriber(bin, model string) *CLITranscriber {
	return &CLITranscriber{bin: bin, model: model}
}

func (t *CLITranscriber) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	dir, err := os.MkdirTemp("", "echo-audit-whisper-")
	if err != nil {
		return "", fmt.Errorf("create work dir: %w", err)
	}
	defer os.RemoveAll(dir)

	name := filepath.Base(filename)
	audioPath := filepath.Join(dir, name)
	if err := os.WriteFile(audioPath, audio, 0o600); err != nil {
		return "", fmt.Errorf("write audio: %w", err)
	}

	cmd := exec.CommandContext(ctx, t.bin, audioPath,
		"--model", t.model,
		"--fp16", "False",
		"--output_format", "txt",
		"--output_dir", dir,
	)
	cmd.Env = os.Environ()
	log.Debug().Str("bin", t.bin).Str("model", t.model).Str("audio", name).Msg("Running whisper")
	if _, err := cmd.Output(); err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			return "", fmt.Errorf("whisper failed: %s", strings.TrimSpace(string(ee.Stderr)))
		}
		return "", fmt.Errorf("run whisper: %w", err)
	}

	txtPath := filepath.Join(dir, strings.TrimSuffix(name, filepath.Ext(name))+".txt")
	out, err := os.ReadFile(txtPath)
	if err != nil {
		return "", fmt.Errorf("read whisper output: %w", err)
	}
	return joinLines(string(out)), nil
}

// joinLines turns whisper's one-segment-per-line txt output into a single
// transcript string with a leading space per segment.
func joinLines(out string) string {
	var b strings.Builder
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		b.WriteString(" ")
		b.WriteString(line)
	}
	return b.String()
}
