package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"time"

	"notetasks/utils"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

type Config struct {
	Port        string          `yaml:"port"`
	GinMode     string          `yaml:"gin_mode"`
	StoreDriver string          `yaml:"store_driver"`
	Database    DatabaseConfig  `yaml:"database"`
	Inference   InferenceConfig `yaml:"inference"`
	Upload      UploadConfig    `yaml:"upload"`
}

type InferenceConfig struct {
	APIKey   string        `yaml:"api_key"`
	BaseURL  string        `yaml:"base_url"`
	Model    string        `yaml:"model"`
	Timeout  time.Duration `yaml:"timeout"`
	RedisURL string        `yaml:"redis_url"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

type UploadConfig struct {
	Dir             string   `yaml:"dir"`
	S3Bucket        string   `yaml:"s3_bucket"`
	S3Prefix        string   `yaml:"s3_prefix"`
	S3Region        string   `yaml:"s3_region"`
	AllowedPatterns []string `yaml:"allowed_patterns"`
	Concurrency     int      `yaml:"concurrency"`
	MaxBytes        int64    `yaml:"max_bytes"`
}

func Default() Config {
	return Config{
		Port:        "5000",
		GinMode:     "release",
		StoreDriver: StoreMongo,
		Database:    defaultDatabaseConfig(),
		Inference: InferenceConfig{
			BaseURL:  "https://api.openai.com/v1",
			Model:    "gpt-3.5-turbo",
			Timeout:  15 * time.Second,
			CacheTTL: 24 * time.Hour,
		},
		Upload: UploadConfig{
			Dir:             "uploads",
			AllowedPatterns: []string{"*"},
			Concurrency:     4,
			MaxBytes:        32 << 20,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment, in that order of precedence. A .env file in the working
// directory is loaded into the environment first when present.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Warning: could not load .env file: %v", err)
	}

	cfg := Default()

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() {
	c.Port = utils.GetEnvAsString("PORT", c.Port)
	c.GinMode = utils.GetEnvAsString("GIN_MODE", c.GinMode)
	c.StoreDriver = utils.GetEnvAsString("STORE_DRIVER", c.StoreDriver)
	c.Database.applyEnv()

	c.Inference.APIKey = utils.GetEnvAsString("OPENAI_API_KEY", c.Inference.APIKey)
	c.Inference.BaseURL = utils.GetEnvAsString("OPENAI_BASE_URL", c.Inference.BaseURL)
	c.Inference.Model = utils.GetEnvAsString("OPENAI_MODEL", c.Inference.Model)
	c.Inference.Timeout = utils.GetEnvAsDuration("INFERENCE_TIMEOUT", c.Inference.Timeout)
	c.Inference.RedisURL = utils.GetEnvAsString("REDIS_URL", c.Inference.RedisURL)
	c.Inference.CacheTTL = utils.GetEnvAsDuration("INFERENCE_CACHE_TTL", c.Inference.CacheTTL)

	c.Upload.Dir = utils.GetEnvAsString("UPLOAD_DIR", c.Upload.Dir)
	c.Upload.S3Bucket = utils.GetEnvAsString("UPLOAD_S3_BUCKET", c.Upload.S3Bucket)
	c.Upload.S3Prefix = utils.GetEnvAsString("UPLOAD_S3_PREFIX", c.Upload.S3Prefix)
	c.Upload.S3Region = utils.GetEnvAsString("UPLOAD_S3_REGION", c.Upload.S3Region)
	c.Upload.AllowedPatterns = utils.GetEnvAsStringSlice("UPLOAD_ALLOWED_PATTERNS", c.Upload.AllowedPatterns)
	c.Upload.Concurrency = utils.GetEnvAsInt("UPLOAD_CONCURRENCY", c.Upload.Concurrency)
	c.Upload.MaxBytes = utils.GetEnvAsInt64("MAX_UPLOAD_BYTES", c.Upload.MaxBytes)
}

func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreMongo, StoreMemory:
	default:
		return fmt.Errorf("unsupported store driver %q", c.StoreDriver)
	}
	if c.Port == "" {
		return errors.New("port is required")
	}
	if c.Inference.Timeout <= 0 {
		return errors.New("inference timeout must be positive")
	}
	if c.Upload.Concurrency < 1 {
		return errors.New("upload concurrency must be at least 1")
	}
	if c.Upload.MaxBytes <= 0 {
		return errors.New("max upload bytes must be positive")
	}
	return nil
}
