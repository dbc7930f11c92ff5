// Package config handles fitcoach configuration loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultSearchPaths returns the config file search order.
// An explicit path (from -config flag) is checked first.
// Then: ./config.yaml, ~/.config/fitcoach/config.yaml, /etc/fitcoach/config.yaml.
func DefaultSearchPaths() []string {
	paths := []string{"config.yaml"}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "fitcoach", "config.yaml"))
	}

	paths = append(paths, "/etc/fitcoach/config.yaml")
	return paths
}

// FindConfig locates a config file. If explicit is non-empty, it must exist.
// Otherwise, searches DefaultSearchPaths and returns the first that exists.
// Returns the path found, or an error if nothing was found.
func FindConfig(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	for _, p := range DefaultSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("no config file found (searched: %v)", DefaultSearchPaths())
}

// Config holds all fitcoach configuration.
type Config struct {
	Listen    ListenConfig    `yaml:"listen"`
	Anthropic AnthropicConfig `yaml:"anthropic"`
	Coach     CoachConfig     `yaml:"coach"`
	CORS      CORSConfig      `yaml:"cors"`
	DataDir   string          `yaml:"data_dir"`
	LogLevel  string          `yaml:"log_level"`
}

// ListenConfig defines the API server settings.
type ListenConfig struct {
	Address string `yaml:"address"` // Bind address (default: "" = all interfaces)
	Port    int    `yaml:"port"`
}

// AnthropicConfig defines Anthropic API settings.
type AnthropicConfig struct {
	APIKey string `yaml:"api_key"`
}

// CoachConfig defines model selection and per-surface token budgets.
type CoachConfig struct {
	// Model is the Anthropic model id used for every completion.
	Model string `yaml:"model"`
	// ChatMaxTokens caps a single chat completion round.
	ChatMaxTokens int `yaml:"chat_max_tokens"`
	// PlanMaxTokens caps workout/meal plan generation.
	PlanMaxTokens int `yaml:"plan_max_tokens"`
	// FoodLogMaxTokens caps the forced macro-estimation call.
	FoodLogMaxTokens int `yaml:"food_log_max_tokens"`
	// PageChatMaxTokens caps the contextual page-chat completion.
	PageChatMaxTokens int `yaml:"page_chat_max_tokens"`
	// MaxToolRounds bounds the tool-use loop for one user turn. A model
	// that keeps requesting tools past this limit gets cut off with a
	// fallback message instead of looping forever.
	MaxToolRounds int `yaml:"max_tool_rounds"`
}

// CORSConfig defines cross-origin settings for the browser UI.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Load reads configuration from a YAML file. A .env file in the working
// directory is loaded first so that ${VAR} references in the YAML resolve.
func Load(path string) (*Config, error) {
	// Missing .env is fine; explicit config errors are not.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default returns a default configuration.
func Default() *Config {
	return &Config{
		Listen:  ListenConfig{Port: 8080},
		DataDir: "data",
		Coach: CoachConfig{
			Model:             "claude-sonnet-4-20250514",
			ChatMaxTokens:     2048,
			PlanMaxTokens:     4000,
			FoodLogMaxTokens:  512,
			PageChatMaxTokens: 1024,
			MaxToolRounds:     8,
		},
	}
}
