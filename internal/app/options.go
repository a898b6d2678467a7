package service

import (
	"time"

	"github.com/carlfriend1995-alt/OptionScope/internal/adapters/prompt"
	"github.com/carlfriend1995-alt/OptionScope/internal/adapters/repository"
	"github.com/carlfriend1995-alt/OptionScope/internal/domain/envvars"
	"github.com/carlfriend1995-alt/OptionScope/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithPrompter sets the operator terminal.
func WithPrompter(p prompt.Prompter) Option {
	return func(s *Service) {
		if p != nil {
			s.prompter = p
		}
	}
}

// WithDeployers sets the platform drivers.
func WithDeployers(d Deployers) Option {
	return func(s *Service) {
		if d != nil {
			s.deployers = d
		}
	}
}

// WithStore sets the deployment history store.
func WithStore(st repository.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.store = st
		}
	}
}

// WithProvisioner sets the billing provisioner.
func WithProvisioner(p Provisioner) Option {
	return func(s *Service) {
		if p != nil {
			s.billing = p
		}
	}
}

// WithKnown supplies secrets that should not be prompted for.
func WithKnown(k envvars.Known) Option {
	return func(s *Service) {
		s.known = k
	}
}

// WithHistoryLimit sets the number of rows History returns when asked for 0.
func WithHistoryLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.historyLimit = n
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
