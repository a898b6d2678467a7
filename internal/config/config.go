// Package config defines the deploy tool's configuration and loading hooks.
//
// Conventions:
//   - New builds a Config holding every default.
//   - Load layers defaults, an optional YAML file and OPTIONSCOPE_* env vars.
//   - Secrets may be supplied here to skip the interactive prompts.
package config

import (
	"strings"
	"time"
)

// Default values.
const (
	DefaultAppName            = "optionscope"
	DefaultPlaceholder        = "your-key-here"
	DefaultRequirementsSource = "requirements-vercel.txt"
	DefaultRequirementsTarget = "requirements.txt"
	DefaultRenderFile         = "render.yaml"
	DefaultHistoryPath        = ".optionscope/deployments.db"
	DefaultHistoryLimit       = 20
	MaxHistoryLimit           = 500
	DefaultCommandTimeout     = 15 * time.Minute
	DefaultStripeRate         = 20.0
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// ProjectRoot is the OptionScope checkout that gets deployed.
	ProjectRoot string `koanf:"project_root"`

	// AppName names the Render service and tags the history.
	AppName string `koanf:"app_name"`

	// Placeholder marks unset values in copied .env templates; such values are never exported.
	Placeholder string `koanf:"placeholder"`

	// RequirementsSource is copied over RequirementsTarget before a Vercel deploy.
	RequirementsSource string `koanf:"requirements_source"`
	RequirementsTarget string `koanf:"requirements_target"`

	// RenderFile is the blueprint path, relative to ProjectRoot unless absolute.
	RenderFile string `koanf:"render_file"`

	// HistoryPath is the SQLite file recording past deployments. Empty keeps history in memory.
	HistoryPath string `koanf:"history_path"`

	// HistoryLimit is the default number of rows shown by `history`.
	HistoryLimit int `koanf:"history_limit"`

	// MetricsFile, when set, receives a Prometheus text snapshot after each command.
	MetricsFile string `koanf:"metrics_file"`

	// CommandTimeout bounds every external CLI invocation.
	CommandTimeout time.Duration `koanf:"command_timeout"`

	// StripeRatePerSecond caps Stripe API calls.
	StripeRatePerSecond float64 `koanf:"stripe_rate_per_second"`

	// Secrets. Any value set here is used instead of prompting.
	StripePublishableKey string `koanf:"stripe_publishable_key"`
	StripeSecretKey      string `koanf:"stripe_secret_key"`
	StripeWebhookSecret  string `koanf:"stripe_webhook_secret"`
	AlphaVantageAPIKey   string `koanf:"alpha_vantage_api_key"`
	IEXAPIKey            string `koanf:"iex_api_key"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		ProjectRoot:         ".",
		AppName:             DefaultAppName,
		Placeholder:         DefaultPlaceholder,
		RequirementsSource:  DefaultRequirementsSource,
		RequirementsTarget:  DefaultRequirementsTarget,
		RenderFile:          DefaultRenderFile,
		HistoryPath:         DefaultHistoryPath,
		HistoryLimit:        DefaultHistoryLimit,
		CommandTimeout:      DefaultCommandTimeout,
		StripeRatePerSecond: DefaultStripeRate,
	}
}

// Secret returns v, or "" when v is blank or still the placeholder.
func (c *Config) Secret(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || v == c.Placeholder {
		return ""
	}
	return v
}
