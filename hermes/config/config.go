package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type LLMProvider string

const (
	ProviderGemini    LLMProvider = "gemini"
	ProviderOpenAI    LLMProvider = "openai"
	ProviderAnthropic LLMProvider = "anthropic"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// ErrMissingCredential is returned by Validate when the key for the
// configured LLM provider is not set.
var ErrMissingCredential = errors.New("missing llm credential")

type Config struct {
	// LLM
	LLMProvider     LLMProvider   `env:"LLM_PROVIDER" envDefault:"gemini"`
	GoogleAPIKey    string        `env:"GOOGLE_API_KEY"`
	OpenAIAPIKey    string        `env:"OPENAI_API_KEY"`
	AnthropicAPIKey string        `env:"ANTHROPIC_API_KEY"`
	LLMModel        string        `env:"LLM_MODEL" envDefault:"gemini-2.0-flash"`
	LLMBaseURL      string        `env:"LLM_BASE_URL"`
	LLMMaxRetries   uint64        `env:"LLM_MAX_RETRIES" envDefault:"2"`
	AgentConfigPath string        `env:"AGENT_CONFIG_PATH"`
	AgentTimeout    time.Duration `env:"AGENT_TIMEOUT" envDefault:"60s"`

	// Dataset
	DatasetPath    string `env:"DATASET_PATH" envDefault:"data/shipments.csv"`
	DatasetBucket  string `env:"DATASET_BUCKET"`
	MinIOEndpoint  string `env:"MINIO_ENDPOINT" envDefault:"localhost:9000"`
	MinIOAccessKey string `env:"MINIO_ACCESS_KEY"`
	MinIOSecretKey string `env:"MINIO_SECRET_KEY"`
	MinIOUseSSL    bool   `env:"MINIO_USE_SSL" envDefault:"false"`

	// Interaction log store
	DBDriver   string `env:"DB_DRIVER" envDefault:"sqlite"`
	DBPath     string `env:"DB_PATH" envDefault:"hermes_logs.db"`
	DBUser     string `env:"DB_USER"`
	DBPassword string `env:"DB_PASSWORD"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBName     string `env:"DB_NAME" envDefault:"hermes"`

	// Server
	JWTSecret string `env:"JWT_SECRET"`
	HTTPAddr  string `env:"HTTP_ADDR" envDefault:":8000"`
	LogDir    string `env:"LOG_DIR" envDefault:"./logs"`
}

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig() (Config, error) {
	// a missing .env is fine, the environment may already be populated
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.LLMProvider = LLMProvider(strings.ToLower(string(cfg.LLMProvider)))
	cfg.DBDriver = strings.ToLower(cfg.DBDriver)
	return cfg, nil
}

// APIKey returns the credential for the configured provider and the
// environment variable it is read from.
func (c Config) APIKey() (key string, envName string) {
	switch c.LLMProvider {
	case ProviderOpenAI:
		return c.OpenAIAPIKey, "OPENAI_API_KEY"
	case ProviderAnthropic:
		return c.AnthropicAPIKey, "ANTHROPIC_API_KEY"
	default:
		return c.GoogleAPIKey, "GOOGLE_API_KEY"
	}
}

// Validate checks what must be present before any question is accepted.
func (c Config) Validate() error {
	switch c.LLMProvider {
	case ProviderGemini, ProviderOpenAI, ProviderAnthropic:
	default:
		return fmt.Errorf("unknown llm provider: %s", c.LLMProvider)
	}
	if key, name := c.APIKey(); strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: %s is not configured. Create a .env file in the project root and add %s=\"YOUR_API_KEY\"",
			ErrMissingCredential, name, name)
	}
	switch c.DBDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unknown db driver: %s", c.DBDriver)
	}
	return nil
}

// PostgresDSN builds the connection string used with DB_DRIVER=postgres.
func (c Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost,
		c.DBPort,
		c.DBUser,
		c.DBPassword,
		c.DBName,
	)
}
