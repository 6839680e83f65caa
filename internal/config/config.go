// Package config loads the landing CLI configuration from flags, LANDING_
// environment variables and an optional .landing.yml file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. LANDING_GENERATION_MODEL.
const EnvPrefix = "LANDING"

// ConfigFileEnv names a config file when --config is not given.
const ConfigFileEnv = "LANDING_CONFIG_FILE"

type Config struct {
	Generation GenerationConfig `mapstructure:"generation" yaml:"generation"`
	Assets     AssetsConfig     `mapstructure:"assets" yaml:"assets"`
	Specs      SpecsConfig      `mapstructure:"specs" yaml:"specs"`
	Log        LogConfig        `mapstructure:"log" yaml:"log"`
}

type GenerationConfig struct {
	Provider    string        `mapstructure:"provider" yaml:"provider" validate:"oneof=openai genai none"`
	BaseURL     string        `mapstructure:"base_url" yaml:"base_url" validate:"omitempty,url"`
	Model       string        `mapstructure:"model" yaml:"model"`
	APIKey      string        `mapstructure:"api_key" yaml:"api_key"`
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"gt=0"`
	Temperature float64       `mapstructure:"temperature" yaml:"temperature" validate:"gte=0,lte=2"`
}

type AssetsConfig struct {
	ManifestDir       string `mapstructure:"manifest_dir" yaml:"manifest_dir"`
	ManifestURL       string `mapstructure:"manifest_url" yaml:"manifest_url" validate:"omitempty,url"`
	AllowRemote       bool   `mapstructure:"allow_remote" yaml:"allow_remote"`
	PlaceholderPrefix string `mapstructure:"placeholder_prefix" yaml:"placeholder_prefix" validate:"required,startswith=/"`
}

type SpecsConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=json console"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Generation: GenerationConfig{
			Provider:    "none",
			Timeout:     45 * time.Second,
			Temperature: 0.7,
		},
		Assets: AssetsConfig{
			AllowRemote:       true,
			PlaceholderPrefix: "/assets/placeholders",
		},
		Log: LogConfig{Level: "info", Format: "console"},
	}
}

// New returns a viper instance seeded with defaults and environment binding.
// file selects a config file explicitly; otherwise LANDING_CONFIG_FILE and
// then ./.landing.yml are tried.
func New(file string) *viper.Viper {
	v := viper.New()
	setDefaults(v, Defaults())

	switch {
	case file != "":
		v.SetConfigFile(file)
	case os.Getenv(ConfigFileEnv) != "":
		v.SetConfigFile(os.Getenv(ConfigFileEnv))
	default:
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".landing")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("generation.provider", d.Generation.Provider)
	v.SetDefault("generation.base_url", d.Generation.BaseURL)
	v.SetDefault("generation.model", d.Generation.Model)
	v.SetDefault("generation.api_key", d.Generation.APIKey)
	v.SetDefault("generation.timeout", d.Generation.Timeout)
	v.SetDefault("generation.temperature", d.Generation.Temperature)
	v.SetDefault("assets.manifest_dir", d.Assets.ManifestDir)
	v.SetDefault("assets.manifest_url", d.Assets.ManifestURL)
	v.SetDefault("assets.allow_remote", d.Assets.AllowRemote)
	v.SetDefault("assets.placeholder_prefix", d.Assets.PlaceholderPrefix)
	v.SetDefault("specs.dir", d.Specs.Dir)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// Load reads the config file when present and returns the validated result.
// A missing default file is not an error; a missing explicit file is.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	cfg.Generation.Provider = strings.ToLower(strings.TrimSpace(cfg.Generation.Provider))
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.Log.Format = strings.ToLower(strings.TrimSpace(cfg.Log.Format))

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints and cross-field rules.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config: invalid configuration: %w", err)
	}
	if cfg.Generation.Provider != "none" && strings.TrimSpace(cfg.Generation.APIKey) == "" {
		return fmt.Errorf("config: generation.api_key is required for provider %q", cfg.Generation.Provider)
	}
	if cfg.Assets.ManifestDir != "" && cfg.Assets.ManifestURL != "" {
		return errors.New("config: assets.manifest_dir and assets.manifest_url are mutually exclusive")
	}
	return nil
}
