package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variables read by Load.
const (
	EnvPrefix     = "OPTIONSCOPE_"
	EnvConfigFile = EnvPrefix + "CONFIG"
)

// Load builds a Config by layering defaults, an optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. YAML file: path argument, else OPTIONSCOPE_CONFIG
//  3. env (prefix OPTIONSCOPE_)
func Load(_ context.Context, path string) (*Config, error) {
	base := New()
	k := koanf.New(".")

	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// OPTIONSCOPE_STRIPE_SECRET_KEY -> stripe_secret_key (flat keys)
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var merr *multierror.Error

	if strings.TrimSpace(c.ProjectRoot) == "" {
		merr = multierror.Append(merr, fmt.Errorf("%w: project_root must not be empty", ErrInvalidConfig))
	}
	if strings.TrimSpace(c.AppName) == "" {
		merr = multierror.Append(merr, fmt.Errorf("%w: app_name must not be empty", ErrInvalidConfig))
	}
	if c.RenderFile == "" {
		merr = multierror.Append(merr, fmt.Errorf("%w: render_file must not be empty", ErrInvalidConfig))
	}
	if c.HistoryLimit < 1 || c.HistoryLimit > MaxHistoryLimit {
		merr = multierror.Append(merr, fmt.Errorf("%w: history_limit must be between 1 and %d", ErrInvalidConfig, MaxHistoryLimit))
	}
	if c.CommandTimeout <= 0 {
		merr = multierror.Append(merr, fmt.Errorf("%w: command_timeout must be positive", ErrInvalidConfig))
	}
	if c.StripeRatePerSecond <= 0 {
		merr = multierror.Append(merr, fmt.Errorf("%w: stripe_rate_per_second must be positive", ErrInvalidConfig))
	}
	if key := c.StripeSecretKey; key != "" && key != c.Placeholder && !strings.HasPrefix(key, "sk_") && !strings.HasPrefix(key, "rk_") {
		merr = multierror.Append(merr, fmt.Errorf("%w: stripe_secret_key must start with sk_ or rk_", ErrInvalidConfig))
	}

	return merr.ErrorOrNil()
}
