package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"

	FilesLocal = "local"
	FilesS3    = "s3"

	TranscriberCLI = "cli"
	TranscriberAPI = "api"

	RuntimeAws = "aws"
)

type Config struct {
	RuntimeEnv         string   `default:"local" split_words:"true"`
	ServerPort         string   `default:"8000" split_words:"true"`
	CorsAllowedOrigins []string `default:"http://localhost:3000" split_words:"true"`

	StoreBackend    string `default:"mongo" split_words:"true"`
	MongoUri        string `default:"mongodb://localhost:27017" split_words:"true"`
	MongoDatabase   string `default:"echo_audit" split_words:"true"`
	MongoCollection string `default:"tasks" split_words:"true"`
	DatabaseUrl     string `split_words:"true"`
	AwsSecretId     string `split_words:"true"`
	AwsRegion       string `split_words:"true"`

	RedisHost     string `split_words:"true"`
	RedisPort     string `default:"6379" split_words:"true"`
	RedisUsername string `split_words:"true"`
	RedisPassword string `split_words:"true"`

	FileBackend     string `default:"local" split_words:"true"`
	RecordingsDir   string `default:"recordings" split_words:"true"`
	AwsS3BucketName string `split_words:"true"`

	TranscriberBackend string        `default:"cli" split_words:"true"`
	WhisperApiBaseUrl  string        `default:"https://api.openai.com/v1" split_words:"true"`
	WhisperApiKey      string        `split_words:"true"`
	WhisperModel       string        `default:"base" split_words:"true"`
	WhisperBin         string        `default:"whisper" split_words:"true"`
	WhisperTimeout     time.Duration `default:"10m" split_words:"true"`

	KafkaBrokers []string `split_words:"true"`
	KafkaTopic   string   `default:"echo-audit.tasks" split_words:"true"`

	DeadlineTimezone  string   `default:"Local" split_words:"true"`
	ExtraTaskKeywords []string `split_words:"true"`

	RateLimitProcessPerHour int64 `default:"60" split_words:"true"`
	MaxUploadBytes          int64 `default:"104857600" split_words:"true"`
}

// Load reads an optional .env file, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Overload(); err != nil {
		log.Debug().Msg("No .env file found, using process environment")
	}
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.StoreBackend {
	case StoreMongo:
	case StorePostgres:
		if c.DatabaseUrl == "" {
			return errors.New("DATABASE_URL is required for the postgres store")
		}
	default:
		return errors.Errorf("unknown store backend %q", c.StoreBackend)
	}

	switch c.FileBackend {
	case FilesLocal:
	case FilesS3:
		if c.AwsS3BucketName == "" {
			return errors.New("AWS_S3_BUCKET_NAME is required for the s3 file backend")
		}
	default:
		return errors.Errorf("unknown file backend %q", c.FileBackend)
	}

	switch c.TranscriberBackend {
	case TranscriberCLI, TranscriberAPI:
	default:
		return errors.Errorf("unknown transcriber backend %q", c.TranscriberBackend)
	}

	if c.RuntimeEnv == RuntimeAws && c.AwsSecretId == "" {
		return errors.New("AWS_SECRET_ID is required when RUNTIME_ENV=aws")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location is the zone relative dates in transcripts are resolved in.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.DeadlineTimezone)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid DEADLINE_TIMEZONE %q", c.DeadlineTimezone)
	}
	return loc, nil
}

func (c *Config) RedisAddr() string {
	if c.RedisHost == "" {
		return ""
	}
	return c.RedisHost + ":" + c.RedisPort
}
