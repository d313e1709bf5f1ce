package storage

import (
	"context"
	"io"

	"echo-audit-api/pkg/config"
)

// FileStore is implemented by LocalStore and S3Store.
type FileStore interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// New returns the file backend selected by FILE_BACKEND.
func New(ctx context.Context, cfg *config.Config) (FileStore, error) {
	if cfg.FileBackend == config.FilesS3 {
		s3Store, err := NewS3StoreFromEnv(ctx, cfg.AwsS3BucketName, cfg.RecordingsDir)
		if err != nil {
			return nil, err
		}
		return s3Store, nil
	}
	local, err := NewLocalStore(cfg.RecordingsDir)
	if err != nil {
		return nil, err
	}
	return local, nil
}
