package storage

import (
	"context"
	"errors"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog/log"
)

// ObjectAPI is the part of *s3.Client the store needs.
type ObjectAPI interface {
	manager.UploadAPIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Store keeps files as objects under a key prefix in one bucket.
type S3Store struct {
	client   ObjectAPI
	uploader *manager.Uploader
	bucket   string
	prefix   string
}

func NewS3Store(client ObjectAPI, bucket, prefix string) *S3Store {
	return &S3Store{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   bucket,
		prefix:   prefix,
	}
}

// NewS3StoreFromEnv builds the client from the default AWS configuration chain.
func NewS3StoreFromEnv(ctx context.Context, bucket, prefix string) (*S3Store, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return NewS3Store(s3.NewFromConfig(cfg), bucket, prefix), nil
}

func (s *S3Store) key(name string) string {
	return path.Join(s.prefix, path.Base(name))
}

// Save uploads r and returns the object location.
func (s *S3Store) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	key := s.key(name)
	result, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   r,
	})
	if err != nil {
		log.Error().Err(err).Str("bucket", s.bucket).Str("key", key).Msg("Error uploading file")
		return "", err
	}
	return result.Location, nil
}

func (s *S3Store) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return out.Body, nil
}
