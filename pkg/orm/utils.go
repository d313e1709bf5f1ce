package orm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"echo-audit-api/pkg/config"
	"echo-audit-api/pkg/task"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/rs/zerolog/log"
)

type AwsSecret struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SecretGetter is the part of *secretsmanager.Client used to fetch database credentials.
type SecretGetter interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

var (
	maxSecretRetries = 10
	secretRetryDelay = time.Second
)

func newSecretsClient(ctx context.Context, region string) (SecretGetter, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return secretsmanager.NewFromConfig(cfg), nil
}

func getAwsSecret(ctx context.Context, client SecretGetter, secretId string) (AwsSecret, error) {
	var awsSecret AwsSecret

	for i := 0; i < maxSecretRetries; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return awsSecret, ctx.Err()
			case <-time.After(secretRetryDelay):
			}
		}

		result, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
			SecretId:     aws.String(secretId),
			VersionStage: aws.String("AWSCURRENT"),
		})
		if err != nil {
			log.Error().Err(err).Msg("Unable to retrieve secret")
			continue
		}
		if result.SecretString == nil {
			log.Error().Msg("Secret has no string value")
			continue
		}

		if err := json.Unmarshal([]byte(*result.SecretString), &awsSecret); err != nil {
			log.Error().Err(err).Msg("Unable to unmarshal secret")
			continue
		}

		if awsSecret.Username == "" || awsSecret.Password == "" {
			log.Error().Msg("Unable to retrieve username or password from secret")
			continue
		}

		return awsSecret, nil
	}

	return awsSecret, fmt.Errorf("failed to retrieve secret after %d retries", maxSecretRetries)
}

// withCredentials injects the AWS secret into the connection URI when running
// on aws, and returns the URI unchanged otherwise.
func withCredentials(ctx context.Context, cfg *config.Config, rawURI string) (string, error) {
	if cfg.RuntimeEnv != config.RuntimeAws {
		return rawURI, nil
	}
	client, err := newSecretsClient(ctx, cfg.AwsRegion)
	if err != nil {
		return "", err
	}
	secret, err := getAwsSecret(ctx, client, cfg.AwsSecretId)
	if err != nil {
		return "", err
	}
	log.Info().Str("secretId", cfg.AwsSecretId).Msg("Got database credentials from AWS")
	return injectCredentials(rawURI, secret)
}

func injectCredentials(rawURI string, secret AwsSecret) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("parse connection uri: %w", err)
	}
	u.User = url.UserPassword(secret.Username, secret.Password)
	return u.String(), nil
}

// TaskStore is a task.Store that holds a connection to release on shutdown.
type TaskStore interface {
	task.Store
	OnShutdown(ctx context.Context) error
}

// NewTaskStore connects the store backend selected by STORE_BACKEND.
func NewTaskStore(ctx context.Context, cfg *config.Config) (TaskStore, error) {
	if cfg.StoreBackend == config.StorePostgres {
		pg, err := ConnectPostgres(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return pg, nil
	}
	mongoStore, err := ConnectMongo(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return mongoStore, nil
}

// GetAwsSecret fetches the database credentials stored under secretId.
func GetAwsSecret(ctx context.Context, secretId, region string) (AwsSecret, error) {
	client, err := newSecretsClient(ctx, region)
	if err != nil {
		return AwsSecret{}, err
	}
	return getAwsSecret(ctx, client, secretId)
}
