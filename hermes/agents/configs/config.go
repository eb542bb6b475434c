package configs

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"hermes/hermes/utils/logging"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed hermes.yaml
var defaultConfig []byte

type AgentConfig struct {
	AgentName       string  `yaml:"agent_name"`
	Instruction     string  `yaml:"instruction"`
	FallbackMessage string  `yaml:"fallback_message"`
	MaxRounds       int     `yaml:"max_rounds"`
	Temperature     float32 `yaml:"temperature"`
	MaxTokens       int     `yaml:"max_tokens"`
}

// Default returns the built-in agent configuration.
func Default() *AgentConfig {
	cfg, err := parse(defaultConfig)
	if err != nil {
		// the embedded file is part of the binary
		panic(fmt.Sprintf("embedded agent config: %v", err))
	}
	return cfg
}

// LoadConfig reads an agent config file. Keys missing from the file keep
// their built-in values. An empty path returns Default().
func LoadConfig(path string) (*AgentConfig, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read agent config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse agent config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logging.AppLogger.Info("agent config loaded", zap.String("path", path), zap.String("agent", cfg.AgentName))
	return cfg, nil
}

func parse(data []byte) (*AgentConfig, error) {
	cfg := &AgentConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// Validate checks the fields the agent loop depends on.
func (c *AgentConfig) Validate() error {
	switch {
	case strings.TrimSpace(c.Instruction) == "":
		return fmt.Errorf("agent config: instruction is empty")
	case strings.TrimSpace(c.FallbackMessage) == "":
		return fmt.Errorf("agent config: fallback_message is empty")
	case c.MaxRounds < 1:
		return fmt.Errorf("agent config: max_rounds must be at least 1, got %d", c.MaxRounds)
	case c.MaxTokens < 1:
		return fmt.Errorf("agent config: max_tokens must be at least 1, got %d", c.MaxTokens)
	}
	return nil
}
