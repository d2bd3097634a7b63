package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	SUTs       []SUT   `yaml:"suts"`
	Workers    int     `yaml:"workers"`
	QueueDepth int     `yaml:"queue_depth"`
	Cache      Cache   `yaml:"cache"`
	Secrets    Secrets `yaml:"secrets"`
	Results    Results `yaml:"results"`
}

// SUT configures one system under test. Which fields matter depends on
// Type: openai and gemini are network endpoints, docker runs an image per
// evaluation, echo is the in-process stub.
type SUT struct {
	UID       string `yaml:"uid"`
	Type      string `yaml:"type"`
	Model     string `yaml:"model"`
	BaseURL   string `yaml:"base_url"`
	APIKeyEnv string `yaml:"api_key_env"`

	// echo
	Uppercase bool   `yaml:"uppercase"`
	Reply     string `yaml:"reply"`

	// docker
	Image          string   `yaml:"image"`
	Command        []string `yaml:"command"`
	TimeoutMinutes int      `yaml:"timeout_minutes"`

	Options Options `yaml:"options"`
}

// Options are generation parameters forwarded to the provider.
type Options struct {
	MaxTokens     int      `yaml:"max_tokens"`
	Temperature   float32  `yaml:"temperature"`
	TopP          float32  `yaml:"top_p"`
	StopSequences []string `yaml:"stop_sequences"`
}

type Cache struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
}

type Secrets struct {
	EnvFile string `yaml:"env_file"`
}

type Results struct {
	Dir string `yaml:"dir"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if len(cfg.SUTs) == 0 {
		return fmt.Errorf("no suts defined")
	}
	seen := map[string]bool{}
	for i := range cfg.SUTs {
		s := &cfg.SUTs[i]
		if s.UID == "" {
			return fmt.Errorf("sut %d: uid is required", i)
		}
		if seen[s.UID] {
			return fmt.Errorf("sut %q: duplicate uid", s.UID)
		}
		seen[s.UID] = true
		switch s.Type {
		case "echo":
		case "openai":
			if s.Model == "" {
				return fmt.Errorf("sut %q: model is required", s.UID)
			}
			if s.APIKeyEnv == "" {
				s.APIKeyEnv = "OPENAI_API_KEY"
			}
		case "gemini":
			if s.Model == "" {
				return fmt.Errorf("sut %q: model is required", s.UID)
			}
			if s.APIKeyEnv == "" {
				s.APIKeyEnv = "GEMINI_API_KEY"
			}
		case "docker":
			if s.Image == "" {
				return fmt.Errorf("sut %q: image is required", s.UID)
			}
			if s.TimeoutMinutes < 1 {
				s.TimeoutMinutes = 5
			}
		case "":
			return fmt.Errorf("sut %q: type is required", s.UID)
		default:
			return fmt.Errorf("sut %q: unknown type %q", s.UID, s.Type)
		}
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("workers must not be negative")
	}
	if cfg.QueueDepth < 0 {
		return fmt.Errorf("queue_depth must not be negative")
	}
	if cfg.Cache.Enabled && cfg.Cache.Size < 1 {
		cfg.Cache.Size = 1024
	}
	if cfg.Results.Dir == "" {
		cfg.Results.Dir = "./results"
	}
	return nil
}
