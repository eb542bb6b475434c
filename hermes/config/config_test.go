package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "k")
	t.Setenv("LLM_PROVIDER", "Gemini")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ProviderGemini, cfg.LLMProvider)
	assert.Equal(t, "gemini-2.0-flash", cfg.LLMModel)
	assert.Equal(t, 60*time.Second, cfg.AgentTimeout)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "hermes_logs.db", cfg.DBPath)
	assert.NoError(t, cfg.Validate())
}

func TestValidateMissingCredential(t *testing.T) {
	cases := []struct {
		provider LLMProvider
		envName  string
	}{
		{ProviderGemini, "GOOGLE_API_KEY"},
		{ProviderOpenAI, "OPENAI_API_KEY"},
		{ProviderAnthropic, "ANTHROPIC_API_KEY"},
	}
	for _, tc := range cases {
		t.Run(string(tc.provider), func(t *testing.T) {
			cfg := Config{LLMProvider: tc.provider, DBDriver: DriverSQLite}
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMissingCredential))
			assert.Contains(t, err.Error(), tc.envName)
		})
	}
}

func TestValidateUnknownValues(t *testing.T) {
	cfg := Config{LLMProvider: "ollama", GoogleAPIKey: "k", DBDriver: DriverSQLite}
	assert.ErrorContains(t, cfg.Validate(), "unknown llm provider")

	cfg = Config{LLMProvider: ProviderGemini, GoogleAPIKey: "k", DBDriver: "mysql"}
	assert.ErrorContains(t, cfg.Validate(), "unknown db driver")
}

func TestPostgresDSN(t *testing.T) {
	cfg := Config{DBHost: "db", DBPort: "5432", DBUser: "u", DBPassword: "p", DBName: "hermes"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=hermes sslmode=disable", cfg.PostgresDSN())
}
