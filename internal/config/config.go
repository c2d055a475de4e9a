package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/chaisa2/student-productivity-help-app/internal/constants"
	"github.com/chaisa2/student-productivity-help-app/internal/utils"
)

// Config defines application configuration.
type Config struct {
	Timezone string      `yaml:"timezone"`
	Relay    RelayConfig `yaml:"relay"`
	Timer    TimerConfig `yaml:"timer"`
}

type RelayConfig struct {
	// Addr is the listen address used by `studyflow serve`.
	Addr string `yaml:"addr"`
	// URL points chat clients at a running relay. Empty means discover or run in-process.
	URL            string          `yaml:"url"`
	Timeout        time.Duration   `yaml:"timeout"`
	MaxConcurrent  int             `yaml:"max_concurrent"`
	UseKeyring     bool            `yaml:"use_keyring"`
	AllowedOrigins []string        `yaml:"allowed_origins"`
	Providers      ProvidersConfig `yaml:"providers"`
}

type ProvidersConfig struct {
	Gemini      ProviderConfig `yaml:"gemini"`
	OpenAI      ProviderConfig `yaml:"openai"`
	HuggingFace ProviderConfig `yaml:"huggingface"`
	Azure       AzureConfig    `yaml:"azure"`
}

type ProviderConfig struct {
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

type AzureConfig struct {
	APIVersion string `yaml:"api_version"`
}

type TimerConfig struct {
	FocusMin      int `yaml:"focus_min"`
	ShortBreakMin int `yaml:"short_break_min"`
	LongBreakMin  int `yaml:"long_break_min"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Timezone: constants.DefaultTimezone,
		Relay: RelayConfig{
			Addr:           constants.DefaultRelayAddr,
			Timeout:        constants.DefaultRelayTimeout,
			MaxConcurrent:  constants.DefaultRelayMaxConcurrent,
			AllowedOrigins: []string{"*"},
			Providers: ProvidersConfig{
				Gemini: ProviderConfig{
					BaseURL: "https://generativelanguage.googleapis.com",
					Model:   "gemini-1.5-flash",
				},
				OpenAI: ProviderConfig{
					BaseURL: "https://api.openai.com",
					Model:   "gpt-4o-mini",
				},
				HuggingFace: ProviderConfig{
					BaseURL: "https://api-inference.huggingface.co",
					Model:   "mistralai/Mistral-7B-Instruct-v0.2",
				},
				Azure: AzureConfig{APIVersion: "2024-02-15-preview"},
			},
		},
		Timer: TimerConfig{
			FocusMin:      constants.DefaultFocusMin,
			ShortBreakMin: constants.DefaultShortBreakMin,
			LongBreakMin:  constants.DefaultLongBreakMin,
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
// A missing file is not an error; the defaults apply.
func Load(path string) (Config, error) {
	cfg := Default()

	if envPath := os.Getenv("STUDYFLOW_CONFIG_PATH"); envPath != "" {
		path = envPath
	}
	if path != "" {
		expanded, err := utils.ExpandPath(path)
		if err != nil {
			return Config{}, err
		}
		if err := loadFromFile(expanded, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if tz := os.Getenv("STUDYFLOW_TIMEZONE"); tz != "" {
		cfg.Timezone = tz
	}
	if addr := os.Getenv("STUDYFLOW_RELAY_ADDR"); addr != "" {
		cfg.Relay.Addr = addr
	}
	if url := os.Getenv("STUDYFLOW_RELAY_URL"); url != "" {
		cfg.Relay.URL = url
	}
	if timeout := os.Getenv("STUDYFLOW_RELAY_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid STUDYFLOW_RELAY_TIMEOUT: %w", err)
		}
		cfg.Relay.Timeout = d
	}
	if n := os.Getenv("STUDYFLOW_RELAY_MAX_CONCURRENT"); n != "" {
		v, err := strconv.Atoi(n)
		if err != nil {
			return fmt.Errorf("invalid STUDYFLOW_RELAY_MAX_CONCURRENT: %w", err)
		}
		cfg.Relay.MaxConcurrent = v
	}
	if useKeyring := os.Getenv("STUDYFLOW_RELAY_USE_KEYRING"); useKeyring != "" {
		v, err := strconv.ParseBool(useKeyring)
		if err != nil {
			return fmt.Errorf("invalid STUDYFLOW_RELAY_USE_KEYRING: %w", err)
		}
		cfg.Relay.UseKeyring = v
	}
	if origins := os.Getenv("STUDYFLOW_RELAY_ALLOWED_ORIGINS"); origins != "" {
		cfg.Relay.AllowedOrigins = splitList(origins)
	}
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		cfg.Relay.Providers.Gemini.Model = model
	}
	if model := os.Getenv("OPENAI_MODEL"); model != "" {
		cfg.Relay.Providers.OpenAI.Model = model
	}
	if model := os.Getenv("HUGGINGFACE_MODEL"); model != "" {
		cfg.Relay.Providers.HuggingFace.Model = model
	}
	if v := os.Getenv("AZURE_OPENAI_API_VERSION"); v != "" {
		cfg.Relay.Providers.Azure.APIVersion = v
	}
	return nil
}

// Validate checks ranges and formats.
func (c Config) Validate() error {
	if !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("invalid timezone %q", c.Timezone)
	}
	if c.Relay.Timeout < 0 {
		return fmt.Errorf("relay timeout cannot be negative")
	}
	if c.Relay.MaxConcurrent < 0 {
		return fmt.Errorf("relay max_concurrent cannot be negative")
	}
	if err := checkRange("timer.focus_min", c.Timer.FocusMin, 1, 120); err != nil {
		return err
	}
	if err := checkRange("timer.short_break_min", c.Timer.ShortBreakMin, 1, 30); err != nil {
		return err
	}
	if err := checkRange("timer.long_break_min", c.Timer.LongBreakMin, 1, 60); err != nil {
		return err
	}
	return nil
}

func checkRange(name string, v, min, max int) error {
	if v < min || v > max {
		return fmt.Errorf("%s must be between %d and %d, got %d", name, min, max, v)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
