package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all embedchat configuration.
type Config struct {
	Listen    string          `yaml:"listen"`
	DBPath    string          `yaml:"db_path"`
	LogLevel  string          `yaml:"log_level"`
	Model     ModelConfig     `yaml:"model"`
	Wikipedia WikipediaConfig `yaml:"wikipedia"`
	Cache     CacheConfig     `yaml:"cache"`
	Widget    WidgetConfig    `yaml:"widget"`
}

// ModelConfig defines the upstream hosted model.
type ModelConfig struct {
	URL          string        `yaml:"url"`
	APIKey       string        `yaml:"api_key"`
	Name         string        `yaml:"name"`
	SystemPrompt string        `yaml:"system_prompt"`
	MaxTokens    int           `yaml:"max_tokens"`
	Timeout      time.Duration `yaml:"timeout"`
}

// WikipediaConfig controls answer enrichment via Wikipedia lookups.
type WikipediaConfig struct {
	Enabled  bool          `yaml:"enabled"`
	BaseURL  string        `yaml:"base_url"`
	Timeout  time.Duration `yaml:"timeout"`
	MaxItems int           `yaml:"max_items"`
}

// CacheConfig controls the model response cache. MaxWeight bounds the total
// character length of cached responses.
type CacheConfig struct {
	Enabled   bool `yaml:"enabled"`
	MaxWeight int  `yaml:"max_weight"`
}

// WidgetConfig parameterizes the generated widget assets.
type WidgetConfig struct {
	Title         string `yaml:"title"`
	AccentColor   string `yaml:"accent_color"`
	Position      string `yaml:"position"`
	WelcomePrompt string `yaml:"welcome_prompt"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Listen:   ":8080",
		DBPath:   "embedchat.db",
		LogLevel: "info",
		Model: ModelConfig{
			URL:          "https://api.openai.com",
			Name:         "gpt-4o-mini",
			SystemPrompt: "You are a friendly, concise assistant embedded in a website chat widget.",
			MaxTokens:    512,
			Timeout:      30 * time.Second,
		},
		Wikipedia: WikipediaConfig{
			Enabled:  true,
			BaseURL:  "https://en.wikipedia.org",
			Timeout:  5 * time.Second,
			MaxItems: 256,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MaxWeight: 256 * 1024,
		},
		Widget: WidgetConfig{
			Title:         "Chat with us",
			AccentColor:   "#4f46e5",
			Position:      "bottom-right",
			WelcomePrompt: "Write a one-sentence greeting inviting a website visitor to ask a question.",
		},
	}
}

// Load reads a YAML config file and expands environment variables.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}
